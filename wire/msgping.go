// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"
)

// MsgPing implements the Message interface and represents a ping message,
// its 8-byte payload echoed back verbatim in the corresponding pong (spec
// §4.5/§4.6: "payload is the 8-byte local nonce").
type MsgPing struct {
	Nonce uint64
}

// NewMsgPing returns a new ping message with the given nonce.
func NewMsgPing(nonce uint64) *MsgPing { return &MsgPing{Nonce: nonce} }

// BtcDecode decodes r using the protocol encoding into the receiver.
func (msg *MsgPing) BtcDecode(r io.Reader, pver uint32) error {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	msg.Nonce = binary.LittleEndian.Uint64(buf[:])
	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgPing) BtcEncode(w io.Writer, pver uint32) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], msg.Nonce)
	_, err := w.Write(buf[:])
	return err
}

// Command returns the protocol command string for the message.
func (msg *MsgPing) Command() string { return CmdPing }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgPing) MaxPayloadLength(pver uint32) uint32 { return 8 }
