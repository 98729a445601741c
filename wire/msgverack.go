// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgVerAck implements the Message interface and represents an empty
// acknowledgement sent in response to a version message.
type MsgVerAck struct{}

// NewMsgVerAck returns a new verack message.
func NewMsgVerAck() *MsgVerAck { return &MsgVerAck{} }

// BtcDecode decodes r using the protocol encoding into the receiver.
func (msg *MsgVerAck) BtcDecode(r io.Reader, pver uint32) error { return nil }

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgVerAck) BtcEncode(w io.Writer, pver uint32) error { return nil }

// Command returns the protocol command string for the message.
func (msg *MsgVerAck) Command() string { return CmdVerAck }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgVerAck) MaxPayloadLength(pver uint32) uint32 { return 0 }
