// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgGetData implements the Message interface and represents a request for
// the data described by a list of inventory vectors.
type MsgGetData struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgGetData) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		return messageError("MsgGetData.AddInvVect", "too many inv vectors for message")
	}
	msg.InvList = append(msg.InvList, iv)
	return nil
}

// NewMsgGetData returns a new empty getdata message.
func NewMsgGetData() *MsgGetData {
	return &MsgGetData{InvList: make([]*InvVect, 0, 8)}
}

// BtcDecode decodes r using the protocol encoding into the receiver.
func (msg *MsgGetData) BtcDecode(r io.Reader, pver uint32) error {
	list, err := readInvList(r, MaxInvPerMsg, "MsgGetData.BtcDecode")
	if err != nil {
		return err
	}
	msg.InvList = list
	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgGetData) BtcEncode(w io.Writer, pver uint32) error {
	return writeInvList(w, msg.InvList, MaxInvPerMsg, "MsgGetData.BtcEncode")
}

// Command returns the protocol command string for the message.
func (msg *MsgGetData) Command() string { return CmdGetData }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgGetData) MaxPayloadLength(pver uint32) uint32 {
	return 9 + MaxInvPerMsg*invVectSize
}
