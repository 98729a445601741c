// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgNotFound implements the Message interface and represents a reply to a
// getdata message for any items that were not found.
type MsgNotFound struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgNotFound) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		return messageError("MsgNotFound.AddInvVect", "too many inv vectors for message")
	}
	msg.InvList = append(msg.InvList, iv)
	return nil
}

// NewMsgNotFound returns a new empty notfound message.
func NewMsgNotFound() *MsgNotFound {
	return &MsgNotFound{InvList: make([]*InvVect, 0, 8)}
}

// BtcDecode decodes r using the protocol encoding into the receiver.
func (msg *MsgNotFound) BtcDecode(r io.Reader, pver uint32) error {
	list, err := readInvList(r, MaxInvPerMsg, "MsgNotFound.BtcDecode")
	if err != nil {
		return err
	}
	msg.InvList = list
	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgNotFound) BtcEncode(w io.Writer, pver uint32) error {
	return writeInvList(w, msg.InvList, MaxInvPerMsg, "MsgNotFound.BtcEncode")
}

// Command returns the protocol command string for the message.
func (msg *MsgNotFound) Command() string { return CmdNotFound }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgNotFound) MaxPayloadLength(pver uint32) uint32 {
	return 9 + MaxInvPerMsg*invVectSize
}
