// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/tinhnguyenhn/colxspv/wire"
)

// mockConn implements net.Conn over a pair of io.Pipe halves, the same
// approach colxd/peer's own test suite uses (its "conn"/"pipe" helpers) to
// exercise peer logic without a real socket.
type mockConn struct {
	r            *io.PipeReader
	w            *io.PipeWriter
	laddr, raddr string
}

func (c *mockConn) Read(p []byte) (int, error)  { return c.r.Read(p) }
func (c *mockConn) Write(p []byte) (int, error) { return c.w.Write(p) }

func (c *mockConn) Close() error {
	_ = c.r.Close()
	_ = c.w.Close()
	return nil
}
func (c *mockConn) LocalAddr() net.Addr                { return mockAddr(c.laddr) }
func (c *mockConn) RemoteAddr() net.Addr               { return mockAddr(c.raddr) }
func (c *mockConn) SetDeadline(t time.Time) error      { return nil }
func (c *mockConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *mockConn) SetWriteDeadline(t time.Time) error { return nil }

type mockAddr string

func (a mockAddr) Network() string { return "tcp" }
func (a mockAddr) String() string  { return string(a) }

// mockPipe returns two connected mockConns: writes to one are readable
// from the other.
func mockPipe(laddr, raddr string) (*mockConn, *mockConn) {
	r1, w1 := io.Pipe()
	r2, w2 := io.Pipe()
	return &mockConn{r: r1, w: w2, laddr: laddr, raddr: raddr},
		&mockConn{r: r2, w: w1, laddr: raddr, raddr: laddr}
}

// newTestPeer returns an unconnected Peer plus the remote end of a mock
// pipe; call AssociateConnection(clientSide) to start its receive loop.
func newTestPeer(cfg *Config) (*Peer, *mockConn, *mockConn, error) {
	p, err := NewPeer("127.0.0.1:8333", cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	client, remote := mockPipe("127.0.0.1:0", "127.0.0.1:8333")
	return p, client, remote, nil
}

// remoteReader continuously decodes messages arriving from the peer under
// test and republishes them on a channel, the way a real remote node's
// event loop would observe outbound traffic.
func remoteReader(remote *mockConn) <-chan wire.Message {
	ch := make(chan wire.Message, 64)
	go func() {
		defer close(ch)
		for {
			msg, _, err := wire.ReadMessage(remote, wire.ProtocolVersion, wire.MainNet)
			if err != nil {
				return
			}
			ch <- msg
		}
	}()
	return ch
}

func recvWithin(t *testing.T, ch <-chan wire.Message, d time.Duration) wire.Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("remote channel closed before message arrived")
		}
		return msg
	case <-time.After(d):
		t.Fatal("timed out waiting for message from peer")
		return nil
	}
}

// connectTestPeer drives a full handshake over a mock pipe and returns the
// connected Peer, the remote conn, and a channel of everything the peer
// sends afterward.
func connectTestPeer(t *testing.T, cfg *Config) (*Peer, *mockConn, <-chan wire.Message) {
	t.Helper()

	p, client, remote, err := newTestPeer(cfg)
	if err != nil {
		t.Fatalf("newTestPeer: %v", err)
	}
	if err := p.AssociateConnection(client); err != nil {
		t.Fatalf("AssociateConnection: %v", err)
	}

	ch := remoteReader(remote)

	// Drain the outbound version, reply with version + verack.
	recvWithin(t, ch, 2*time.Second)

	me := wire.NewNetAddressIPPort(nil, 0, 0)
	you := wire.NewNetAddressIPPort(nil, 0, 0)
	version := wire.NewMsgVersion(*me, *you, p.nonce+1, 700000)
	if err := wire.WriteMessage(remote, version, wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("writing version: %v", err)
	}
	recvWithin(t, ch, 2*time.Second) // our verack reply

	if err := wire.WriteMessage(remote, wire.NewMsgVerAck(), wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("writing verack: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !p.Connected() {
		if time.Now().After(deadline) {
			t.Fatal("peer never reached Connected")
		}
		time.Sleep(time.Millisecond)
	}

	return p, remote, ch
}

// buildHeader returns a structurally valid 80-byte block header with the
// given timestamp and a tag byte (for uniqueness) written into the nonce
// field; this package's BlockHeader never validates proof of work, so the
// remaining bytes are left zero.
func buildHeader(ts time.Time, tag byte) *wire.BlockHeader {
	var h wire.BlockHeader
	binaryPutUint32(h.Raw[68:72], uint32(ts.Unix()))
	h.Raw[79] = tag
	return &h
}

func binaryPutUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
