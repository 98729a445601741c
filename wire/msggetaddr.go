// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgGetAddr implements the Message interface and represents a request for
// a list of known active peers.
type MsgGetAddr struct{}

// NewMsgGetAddr returns a new getaddr message.
func NewMsgGetAddr() *MsgGetAddr { return &MsgGetAddr{} }

// BtcDecode decodes r using the protocol encoding into the receiver.
func (msg *MsgGetAddr) BtcDecode(r io.Reader, pver uint32) error { return nil }

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgGetAddr) BtcEncode(w io.Writer, pver uint32) error { return nil }

// Command returns the protocol command string for the message.
func (msg *MsgGetAddr) Command() string { return CmdGetAddr }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgGetAddr) MaxPayloadLength(pver uint32) uint32 { return 0 }
