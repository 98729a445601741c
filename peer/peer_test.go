// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"testing"
	"time"

	"github.com/tinhnguyenhn/colxspv/wire"
)

// TestHandshakeScenario exercises testable scenario (a): a valid version
// followed by a verack brings the peer to Connected with pingTime seeded
// from the verack round trip, matching invariant 5 (Connected iff both
// verack flags are set).
func TestHandshakeScenario(t *testing.T) {
	connected := make(chan struct{})
	cfg := &Config{
		Listeners: Listeners{
			OnConnected: func(p *Peer) { close(connected) },
		},
	}

	p, client, remote, err := newTestPeer(cfg)
	if err != nil {
		t.Fatalf("newTestPeer: %v", err)
	}

	if err := p.AssociateConnection(client); err != nil {
		t.Fatalf("AssociateConnection: %v", err)
	}

	// Drain our own outbound version so the remote side doesn't block.
	if _, _, err := wire.ReadMessage(remote, wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("reading outbound version: %v", err)
	}

	me := wire.NewNetAddressIPPort(nil, 0, 0)
	you := wire.NewNetAddressIPPort(nil, 0, 0)
	version := wire.NewMsgVersion(*me, *you, 1, 650000)
	version.Services = 1
	version.Timestamp = time.Unix(1600000000, 0)
	version.UserAgent = "/Satoshi:0.18/"
	if err := wire.WriteMessage(remote, version, wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("writing version: %v", err)
	}

	// Peer should reply with verack.
	msg, _, err := wire.ReadMessage(remote, wire.ProtocolVersion, wire.MainNet)
	if err != nil {
		t.Fatalf("reading verack reply: %v", err)
	}
	if msg.Command() != wire.CmdVerAck {
		t.Fatalf("got %s, want verack", msg.Command())
	}

	before := time.Now()
	if err := wire.WriteMessage(remote, wire.NewMsgVerAck(), wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("writing verack: %v", err)
	}

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for OnConnected")
	}

	if !p.Connected() {
		t.Fatal("expected peer to be Connected")
	}
	if !p.sentVerack || !p.gotVerack {
		t.Fatal("expected both verack flags set")
	}
	if p.PingTime() < 0 || p.PingTime() > time.Since(before)+50*time.Millisecond {
		t.Fatalf("pingTime %v out of expected bounds", p.PingTime())
	}
	if p.UserAgent() != "/Satoshi:0.18/" {
		t.Fatalf("got user agent %q", p.UserAgent())
	}
	if p.LastBlock() != 650000 {
		t.Fatalf("got last block %d, want 650000", p.LastBlock())
	}

	p.Disconnect()
}

// TestPongQueueInvariant exercises invariant 6: the pong queue length
// equals the number of pings sent minus valid pongs received.
func TestPongQueueInvariant(t *testing.T) {
	p := &Peer{nonce: 42}
	p.conn = nil // the queue is filled directly below; nothing touches the wire.

	var results []bool
	p.pongQueue = append(p.pongQueue, pongCallback{fn: func(ok bool) { results = append(results, ok) }})
	p.pongQueue = append(p.pongQueue, pongCallback{fn: func(ok bool) { results = append(results, ok) }})

	if len(p.pongQueue) != 2 {
		t.Fatalf("expected queue length 2, got %d", len(p.pongQueue))
	}

	if err := p.handlePong(wire.NewMsgPong(42)); err != nil {
		t.Fatalf("handlePong: %v", err)
	}
	if len(p.pongQueue) != 1 {
		t.Fatalf("expected queue length 1 after one pong, got %d", len(p.pongQueue))
	}

	if err := p.handlePong(wire.NewMsgPong(42)); err != nil {
		t.Fatalf("handlePong: %v", err)
	}
	if len(p.pongQueue) != 0 {
		t.Fatalf("expected queue length 0, got %d", len(p.pongQueue))
	}
	if len(results) != 2 || !results[0] || !results[1] {
		t.Fatalf("expected both callbacks invoked with success, got %v", results)
	}

	if err := p.handlePong(wire.NewMsgPong(42)); err == nil {
		t.Fatal("expected error for pong with no outstanding ping")
	}
}

// TestPongNonceMismatchFatal verifies a pong carrying the wrong nonce is a
// protocol error (spec §4.5).
func TestPongNonceMismatchFatal(t *testing.T) {
	p := &Peer{nonce: 42}
	p.pongQueue = append(p.pongQueue, pongCallback{})

	if err := p.handlePong(wire.NewMsgPong(7)); err == nil {
		t.Fatal("expected error for nonce mismatch")
	}
}
