// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// InvType represents the type of inventory a vector describes.
type InvType uint32

// Inventory vector types recognized by this peer core.
const (
	InvTypeError       InvType = 0
	InvTypeTx          InvType = 1
	InvTypeBlock       InvType = 2
	InvTypeFilteredBlk InvType = 3
)

var ivStrings = map[InvType]string{
	InvTypeError:       "ERROR",
	InvTypeTx:          "MSG_TX",
	InvTypeBlock:       "MSG_BLOCK",
	InvTypeFilteredBlk: "MSG_FILTERED_BLOCK",
}

// String returns the InvType in human-readable form.
func (invtype InvType) String() string {
	if s, ok := ivStrings[invtype]; ok {
		return s
	}
	return fmt.Sprintf("Unknown InvType (%d)", uint32(invtype))
}

// invVectSize is the encoded size of a single inventory vector: a 4-byte
// type followed by a 32-byte hash.
const invVectSize = 4 + chainhash.HashSize

// InvVect defines a bitcoin inventory vector used to describe data, as
// specified in BIP0014, that a peer advertises or requests.
type InvVect struct {
	Type InvType
	Hash chainhash.Hash
}

// NewInvVect returns a new InvVect with the provided type and hash.
func NewInvVect(typ InvType, hash *chainhash.Hash) *InvVect {
	return &InvVect{Type: typ, Hash: *hash}
}

func readInvVect(r io.Reader, iv *InvVect) error {
	var buf [invVectSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	iv.Type = InvType(binary.LittleEndian.Uint32(buf[:4]))
	copy(iv.Hash[:], buf[4:])
	return nil
}

func writeInvVect(w io.Writer, iv *InvVect) error {
	var buf [invVectSize]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(iv.Type))
	copy(buf[4:], iv.Hash[:])
	_, err := w.Write(buf[:])
	return err
}
