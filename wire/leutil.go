// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "encoding/binary"

func leUint32(b [4]byte) uint32 {
	return binary.LittleEndian.Uint32(b[:])
}

func putLeUint32(b *[4]byte, v uint32) {
	binary.LittleEndian.PutUint32(b[:], v)
}
