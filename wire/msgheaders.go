// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockHeaderSize is the size in bytes of a raw block header: 4-byte
// version, 32-byte previous block hash, 32-byte merkle root, 4-byte time,
// 4-byte bits, 4-byte nonce.
const BlockHeaderSize = 80

// blockHeaderTimestampOffset is where the 4-byte time field lives within
// the 80-byte raw header (spec §4.5: "offset 68 within the header").
const blockHeaderTimestampOffset = 68

// BlockHeader is the raw 80-byte block header as carried in a headers
// message. This package only needs its structural fields (hash,
// timestamp) to drive the sync state machine; proof-of-work and full
// timestamp-sanity validation are performed by an external collaborator
// (spec §6's merkle-block/header validator), never by this package.
type BlockHeader struct {
	Raw [BlockHeaderSize]byte
}

// BlockHash returns the double-SHA-256 hash of the raw header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	return chainhash.DoubleHashH(h.Raw[:])
}

// Timestamp returns the header's embedded time field.
func (h *BlockHeader) Timestamp() time.Time {
	t := binary.LittleEndian.Uint32(h.Raw[blockHeaderTimestampOffset : blockHeaderTimestampOffset+4])
	return time.Unix(int64(t), 0)
}

// PrevBlock returns the hash of the previous block in the chain.
func (h *BlockHeader) PrevBlock() chainhash.Hash {
	var hash chainhash.Hash
	copy(hash[:], h.Raw[4:36])
	return hash
}

// headerEntrySize is the size of a single entry in a headers message: the 80-byte
// header plus the trailing transaction-count byte, which the protocol
// always sets to zero (spec §4.5: "81 bytes (80-byte header + a trailing
// 0 transaction count)").
const headerEntrySize = BlockHeaderSize + 1

// MsgHeaders implements the Message interface and represents a batch of
// block headers returned in response to a getheaders request.
type MsgHeaders struct {
	Headers []*BlockHeader
}

// AddBlockHeader adds a new block header to the message.
func (msg *MsgHeaders) AddBlockHeader(bh *BlockHeader) error {
	msg.Headers = append(msg.Headers, bh)
	return nil
}

// NewMsgHeaders returns a new empty headers message.
func NewMsgHeaders() *MsgHeaders {
	return &MsgHeaders{Headers: make([]*BlockHeader, 0, 2000)}
}

// BtcDecode decodes r using the protocol encoding into the receiver. Each
// entry must carry a zero transaction count; anything else is a malformed
// frame.
func (msg *MsgHeaders) BtcDecode(r io.Reader, pver uint32) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > 2000 {
		return messageError("MsgHeaders.BtcDecode",
			fmt.Sprintf("too many headers for message [count %d, max 2000]", count))
	}

	entries := make([]BlockHeader, count)
	msg.Headers = make([]*BlockHeader, 0, count)
	var txCount [1]byte
	for i := uint64(0); i < count; i++ {
		bh := &entries[i]
		if _, err := io.ReadFull(r, bh.Raw[:]); err != nil {
			return err
		}
		if _, err := io.ReadFull(r, txCount[:]); err != nil {
			return err
		}
		if txCount[0] != 0 {
			return messageError("MsgHeaders.BtcDecode",
				"header entry carries a non-zero transaction count")
		}
		msg.Headers = append(msg.Headers, bh)
	}
	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgHeaders) BtcEncode(w io.Writer, pver uint32) error {
	if err := WriteVarInt(w, uint64(len(msg.Headers))); err != nil {
		return err
	}
	for _, bh := range msg.Headers {
		if _, err := w.Write(bh.Raw[:]); err != nil {
			return err
		}
		if _, err := w.Write([]byte{0}); err != nil {
			return err
		}
	}
	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgHeaders) Command() string { return CmdHeaders }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgHeaders) MaxPayloadLength(pver uint32) uint32 {
	return 3 + 2000*headerEntrySize
}
