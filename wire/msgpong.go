// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"
)

// MsgPong implements the Message interface and represents a reply to a
// ping message.
type MsgPong struct {
	Nonce uint64
}

// NewMsgPong returns a new pong message with the given nonce.
func NewMsgPong(nonce uint64) *MsgPong { return &MsgPong{Nonce: nonce} }

// BtcDecode decodes r using the protocol encoding into the receiver.
func (msg *MsgPong) BtcDecode(r io.Reader, pver uint32) error {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	msg.Nonce = binary.LittleEndian.Uint64(buf[:])
	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgPong) BtcEncode(w io.Writer, pver uint32) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], msg.Nonce)
	_, err := w.Write(buf[:])
	return err
}

// Command returns the protocol command string for the message.
func (msg *MsgPong) Command() string { return CmdPong }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgPong) MaxPayloadLength(pver uint32) uint32 { return 8 }
