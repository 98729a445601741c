// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// readInvList decodes a varint count followed by that many InvVect
// entries, refusing more than max (spec §4.5: "reject as excessive if
// count > 50 000").
func readInvList(r io.Reader, max uint64, caller string) ([]*InvVect, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > max {
		return nil, messageError(caller,
			fmt.Sprintf("too many inventory vectors [count %d, max %d]", count, max))
	}

	list := make([]*InvVect, count)
	backing := make([]InvVect, count)
	for i := uint64(0); i < count; i++ {
		iv := &backing[i]
		if err := readInvVect(r, iv); err != nil {
			return nil, err
		}
		list[i] = iv
	}
	return list, nil
}

func writeInvList(w io.Writer, list []*InvVect, max uint64, caller string) error {
	if uint64(len(list)) > max {
		return messageError(caller, "too many inventory vectors")
	}
	if err := WriteVarInt(w, uint64(len(list))); err != nil {
		return err
	}
	for _, iv := range list {
		if err := writeInvVect(w, iv); err != nil {
			return err
		}
	}
	return nil
}

// MsgInv implements the Message interface and represents an inventory
// advertisement: a batch of tx/block/merkleblock hashes the remote claims
// to have.
type MsgInv struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgInv) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		return messageError("MsgInv.AddInvVect", "too many inv vectors for message")
	}
	msg.InvList = append(msg.InvList, iv)
	return nil
}

// NewMsgInv returns a new empty inv message.
func NewMsgInv() *MsgInv {
	return &MsgInv{InvList: make([]*InvVect, 0, 8)}
}

// BtcDecode decodes r using the protocol encoding into the receiver.
func (msg *MsgInv) BtcDecode(r io.Reader, pver uint32) error {
	list, err := readInvList(r, MaxInvPerMsg, "MsgInv.BtcDecode")
	if err != nil {
		return err
	}
	msg.InvList = list
	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgInv) BtcEncode(w io.Writer, pver uint32) error {
	return writeInvList(w, msg.InvList, MaxInvPerMsg, "MsgInv.BtcEncode")
}

// Command returns the protocol command string for the message.
func (msg *MsgInv) Command() string { return CmdInv }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgInv) MaxPayloadLength(pver uint32) uint32 {
	return 9 + MaxInvPerMsg*invVectSize
}
