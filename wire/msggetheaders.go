// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MsgGetHeaders implements the Message interface and represents a request
// for block headers, encoded identically to getblocks (spec §4.6).
type MsgGetHeaders struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []*chainhash.Hash
	HashStop           chainhash.Hash
}

// AddBlockLocatorHash adds a new block locator hash to the message.
func (msg *MsgGetHeaders) AddBlockLocatorHash(hash *chainhash.Hash) error {
	if len(msg.BlockLocatorHashes)+1 > MaxBlockLocatorsPerMsg {
		return messageError("MsgGetHeaders.AddBlockLocatorHash", "too many block locator hashes for message")
	}
	msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, hash)
	return nil
}

// NewMsgGetHeaders returns a new getheaders message, defaulting to an
// empty locator list and a zero stop hash.
func NewMsgGetHeaders() *MsgGetHeaders {
	return &MsgGetHeaders{
		ProtocolVersion:    ProtocolVersion,
		BlockLocatorHashes: make([]*chainhash.Hash, 0, MaxBlockLocatorsPerMsg),
	}
}

// BtcDecode decodes r using the protocol encoding into the receiver.
func (msg *MsgGetHeaders) BtcDecode(r io.Reader, pver uint32) error {
	var verBuf [4]byte
	if _, err := io.ReadFull(r, verBuf[:]); err != nil {
		return err
	}
	msg.ProtocolVersion = leUint32(verBuf)

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxBlockLocatorsPerMsg {
		return messageError("MsgGetHeaders.BtcDecode",
			fmt.Sprintf("too many block locator hashes [count %d, max %d]", count, MaxBlockLocatorsPerMsg))
	}

	locators := make([]chainhash.Hash, count)
	msg.BlockLocatorHashes = make([]*chainhash.Hash, 0, count)
	for i := uint64(0); i < count; i++ {
		h := &locators[i]
		if _, err := io.ReadFull(r, h[:]); err != nil {
			return err
		}
		msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, h)
	}

	if _, err := io.ReadFull(r, msg.HashStop[:]); err != nil {
		return err
	}
	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgGetHeaders) BtcEncode(w io.Writer, pver uint32) error {
	if len(msg.BlockLocatorHashes) > MaxBlockLocatorsPerMsg {
		return messageError("MsgGetHeaders.BtcEncode", "too many block locator hashes for message")
	}

	var verBuf [4]byte
	putLeUint32(&verBuf, msg.ProtocolVersion)
	if _, err := w.Write(verBuf[:]); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.BlockLocatorHashes))); err != nil {
		return err
	}
	for _, h := range msg.BlockLocatorHashes {
		if _, err := w.Write(h[:]); err != nil {
			return err
		}
	}

	_, err := w.Write(msg.HashStop[:])
	return err
}

// Command returns the protocol command string for the message.
func (msg *MsgGetHeaders) Command() string { return CmdGetHeaders }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgGetHeaders) MaxPayloadLength(pver uint32) uint32 {
	return 4 + 9 + MaxBlockLocatorsPerMsg*chainhash.HashSize + chainhash.HashSize
}
