// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MaxBlockLocatorsPerMsg is the maximum number of block locator hashes
// allowed per message.
const MaxBlockLocatorsPerMsg = 500

// MsgGetBlocks implements the Message interface and represents a request
// for a list of block hashes, encoded as
// [proto-version][varint locator-count][locator...][32-byte hash-stop]
// (spec §4.6).
type MsgGetBlocks struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []*chainhash.Hash
	HashStop           chainhash.Hash
}

// AddBlockLocatorHash adds a new block locator hash to the message.
func (msg *MsgGetBlocks) AddBlockLocatorHash(hash *chainhash.Hash) error {
	if len(msg.BlockLocatorHashes)+1 > MaxBlockLocatorsPerMsg {
		return messageError("MsgGetBlocks.AddBlockLocatorHash", "too many block locator hashes for message")
	}
	msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, hash)
	return nil
}

// NewMsgGetBlocks returns a new getblocks message using the provided stop
// hash, defaulting to an empty locator list.
func NewMsgGetBlocks(hashStop *chainhash.Hash) *MsgGetBlocks {
	return &MsgGetBlocks{
		ProtocolVersion:    ProtocolVersion,
		BlockLocatorHashes: make([]*chainhash.Hash, 0, MaxBlockLocatorsPerMsg),
		HashStop:           *hashStop,
	}
}

// BtcDecode decodes r using the protocol encoding into the receiver.
func (msg *MsgGetBlocks) BtcDecode(r io.Reader, pver uint32) error {
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
		return messageError("MsgGetBlocks.BtcDecode",
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
func (msg *MsgGetBlocks) BtcEncode(w io.Writer, pver uint32) error {
	if len(msg.BlockLocatorHashes) > MaxBlockLocatorsPerMsg {
		return messageError("MsgGetBlocks.BtcEncode", "too many block locator hashes for message")
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
func (msg *MsgGetBlocks) Command() string { return CmdGetBlocks }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgGetBlocks) MaxPayloadLength(pver uint32) uint32 {
	return 4 + 9 + MaxBlockLocatorsPerMsg*chainhash.HashSize + chainhash.HashSize
}
