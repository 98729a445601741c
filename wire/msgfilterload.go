// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// BloomUpdateType specifies how the filter is updated when a match is
// found, as defined by BIP0037.
type BloomUpdateType uint8

// Bloom update types.
const (
	BloomUpdateNone         BloomUpdateType = 0
	BloomUpdateAll          BloomUpdateType = 1
	BloomUpdateP2PubkeyOnly BloomUpdateType = 2
)

// maxFilterLoadSize bounds the raw filter bytes this codec accepts; the
// filter's own construction is entirely the wallet's concern (spec §1's
// Non-goals), this package only frames whatever bytes it is handed.
const maxFilterLoadSize = 36000

// MsgFilterLoad implements the Message interface and represents a bloom
// filter load request: the opaque filter bytes plus BIP0037 tuning
// parameters. The filter's construction is an external collaborator's
// responsibility (the wallet); this type only carries the already-built
// bytes across the wire.
type MsgFilterLoad struct {
	Filter    []byte
	HashFuncs uint32
	Tweak     uint32
	Flags     BloomUpdateType
}

// NewMsgFilterLoad returns a new filterload message with the given filter
// bytes and BIP0037 parameters.
func NewMsgFilterLoad(filter []byte, hashFuncs, tweak uint32, flags BloomUpdateType) *MsgFilterLoad {
	return &MsgFilterLoad{Filter: filter, HashFuncs: hashFuncs, Tweak: tweak, Flags: flags}
}

// BtcDecode decodes r using the protocol encoding into the receiver.
func (msg *MsgFilterLoad) BtcDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > maxFilterLoadSize {
		return messageError("MsgFilterLoad.BtcDecode",
			fmt.Sprintf("filter too large [%d bytes, max %d]", count, maxFilterLoadSize))
	}
	msg.Filter = make([]byte, count)
	if _, err := io.ReadFull(r, msg.Filter); err != nil {
		return err
	}

	var tail [9]byte
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return err
	}
	msg.HashFuncs = binary.LittleEndian.Uint32(tail[0:4])
	msg.Tweak = binary.LittleEndian.Uint32(tail[4:8])
	msg.Flags = BloomUpdateType(tail[8])
	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgFilterLoad) BtcEncode(w io.Writer, pver uint32) error {
	if len(msg.Filter) > maxFilterLoadSize {
		return messageError("MsgFilterLoad.BtcEncode", "filter too large")
	}
	if err := WriteVarInt(w, uint64(len(msg.Filter))); err != nil {
		return err
	}
	if _, err := w.Write(msg.Filter); err != nil {
		return err
	}

	var tail [9]byte
	binary.LittleEndian.PutUint32(tail[0:4], msg.HashFuncs)
	binary.LittleEndian.PutUint32(tail[4:8], msg.Tweak)
	tail[8] = byte(msg.Flags)
	_, err := w.Write(tail[:])
	return err
}

// Command returns the protocol command string for the message.
func (msg *MsgFilterLoad) Command() string { return CmdFilterLoad }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgFilterLoad) MaxPayloadLength(pver uint32) uint32 {
	return 9 + maxFilterLoadSize + 9
}
