// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// MsgAddr implements the Message interface and represents a list of known
// active peers.
type MsgAddr struct {
	AddrList []*NetAddress
}

// AddAddress adds a known active peer to the message.
func (msg *MsgAddr) AddAddress(na *NetAddress) error {
	if len(msg.AddrList)+1 > MaxAddrPerMsg {
		return messageError("MsgAddr.AddAddress", "too many addresses for message")
	}
	msg.AddrList = append(msg.AddrList, na)
	return nil
}

// NewMsgAddr returns a new addr message, defaulting to an empty list of
// addresses (this peer is SPV and has none to share, per spec §4.5's
// getaddr handler).
func NewMsgAddr() *MsgAddr {
	return &MsgAddr{AddrList: make([]*NetAddress, 0, 8)}
}

// BtcDecode decodes r using the protocol encoding into the receiver. A
// count exceeding MaxAddrPerMsg is not refused here - spec §4.5 treats an
// oversized addr batch as benign ("Count > 1000 is ignored (not fatal)"),
// a decision left to the handler in peer/sync.go, not the codec.
func (msg *MsgAddr) BtcDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	addrList := make([]NetAddress, count)
	msg.AddrList = make([]*NetAddress, 0, count)
	for i := uint64(0); i < count; i++ {
		na := &addrList[i]
		if err := readNetAddress(r, na, true); err != nil {
			return err
		}
		msg.AddrList = append(msg.AddrList, na)
	}
	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgAddr) BtcEncode(w io.Writer, pver uint32) error {
	count := len(msg.AddrList)
	if count > MaxAddrPerMsg {
		return messageError("MsgAddr.BtcEncode", "too many addresses for message")
	}
	if err := WriteVarInt(w, uint64(count)); err != nil {
		return err
	}
	for _, na := range msg.AddrList {
		if err := writeNetAddress(w, na, true); err != nil {
			return err
		}
	}
	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgAddr) Command() string { return CmdAddr }

// MaxPayloadLength returns the maximum length the payload can be. The
// bound leaves some room above MaxAddrPerMsg entries: BtcDecode does not
// refuse an oversized count, and peer/sync.go's addr handler ignores a
// decoded batch larger than MaxAddrPerMsg (spec §4.5: "Count > 1000 is
// ignored (not fatal)"). A payload longer than this bound is still
// rejected by ReadMessage.
func (msg *MsgAddr) MaxPayloadLength(pver uint32) uint32 {
	return 3 + (MaxAddrPerMsg * (netAddressSize + 4))
}
