// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
)

// TestMessageRoundTrip exercises testable property 1: encoding then
// decoding any valid frame with payload p returns the original command,
// len(p), and p. The checksum half of that property is checked by
// TestChecksum.
func TestMessageRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"verack", NewMsgVerAck()},
		{"getaddr", NewMsgGetAddr()},
		{"ping", NewMsgPing(0x0102030405060708)},
		{"pong", NewMsgPong(0x0102030405060708)},
		{"mempool", NewMsgMemPool()},
		{"tx", NewMsgTx([]byte{0x01, 0x02, 0x03})},
		{"merkleblock", NewMsgMerkleBlock(bytes.Repeat([]byte{0xab}, 200))},
		{"reject-tx", NewMsgReject(CmdTx, RejectDuplicate, "dupe")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteMessage(&buf, test.msg, ProtocolVersion, MainNet); err != nil {
				t.Fatalf("WriteMessage: %v", err)
			}

			gotMsg, _, err := ReadMessage(&buf, ProtocolVersion, MainNet)
			if err != nil {
				t.Fatalf("ReadMessage: %v", err)
			}
			if gotMsg.Command() != test.msg.Command() {
				t.Fatalf("command mismatch: got %s, want %s", gotMsg.Command(), test.msg.Command())
			}

			var wantBuf, gotBuf bytes.Buffer
			_ = test.msg.BtcEncode(&wantBuf, ProtocolVersion)
			_ = gotMsg.BtcEncode(&gotBuf, ProtocolVersion)
			if !bytes.Equal(wantBuf.Bytes(), gotBuf.Bytes()) {
				t.Fatalf("payload mismatch:\ngot:  %s\nwant: %s",
					spew.Sdump(gotMsg), spew.Sdump(test.msg))
			}
		})
	}
}

// TestChecksum verifies the written checksum is the first four bytes of
// double-SHA-256 of the payload.
func TestChecksum(t *testing.T) {
	msg := NewMsgPing(42)
	var buf bytes.Buffer
	if err := WriteMessage(&buf, msg, ProtocolVersion, MainNet); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	frame := buf.Bytes()
	payload := frame[MessageHeaderSize:]
	sum := chainhash.DoubleHashB(payload)

	gotChecksum := frame[20:24]
	if !bytes.Equal(gotChecksum, sum[:4]) {
		t.Fatalf("checksum mismatch: got %x, want %x", gotChecksum, sum[:4])
	}
}

// TestResync exercises testable property 2: given any byte stream
// containing a valid frame prefixed by up to 23 junk bytes not containing
// the magic, the decoder locates and decodes the frame.
func TestResync(t *testing.T) {
	msg := NewMsgVerAck()

	var frame bytes.Buffer
	if err := WriteMessage(&frame, msg, ProtocolVersion, MainNet); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	magic := magicBytes(MainNet)

	for trial := 0; trial < 50; trial++ {
		junkLen := rng.Intn(24)
		junk := make([]byte, junkLen)
		for {
			for i := range junk {
				junk[i] = byte(rng.Intn(256))
			}
			if !bytes.Contains(junk, magic[:]) {
				break
			}
		}

		stream := append(append([]byte{}, junk...), frame.Bytes()...)
		gotMsg, _, err := ReadMessage(bytes.NewReader(stream), ProtocolVersion, MainNet)
		if err != nil {
			t.Fatalf("trial %d: ReadMessage: %v", trial, err)
		}
		if gotMsg.Command() != CmdVerAck {
			t.Fatalf("trial %d: got command %s, want %s", trial, gotMsg.Command(), CmdVerAck)
		}
	}
}

// TestCommandDecodeRejectsTrailingGarbage verifies a command field with a
// non-zero byte after its first NUL is rejected, per spec §4.1.
func TestCommandDecodeRejectsTrailingGarbage(t *testing.T) {
	raw := [CommandSize]byte{'v', 'e', 'r', 'a', 'c', 'k', 0, 'x'}
	if _, err := decodeCommand(raw); err == nil {
		t.Fatal("expected error for trailing garbage after command NUL")
	}
}

// TestOversizedPayloadLengthRejected verifies a declared payload length
// above MaxMessagePayload fails the frame outright (spec §4.1).
func TestOversizedPayloadLengthRejected(t *testing.T) {
	var hdr bytes.Buffer
	if err := writeMessageHeader(&hdr, MainNet, CmdPing, nil); err != nil {
		t.Fatalf("writeMessageHeader: %v", err)
	}
	raw := hdr.Bytes()
	// Overwrite the length field with something beyond MaxMessagePayload.
	raw[16], raw[17], raw[18], raw[19] = 0xff, 0xff, 0xff, 0x7f

	if _, _, err := ReadMessage(bytes.NewReader(raw), ProtocolVersion, MainNet); err == nil {
		t.Fatal("expected error for oversized payload length")
	}
}
