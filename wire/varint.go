// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64, following the same discriminated encoding the rest of the
// btcsuite-family wire packages use: a single byte for values below 0xfd,
// and a 0xfd/0xfe/0xff marker byte followed by a fixed-width little-endian
// field for larger values.
func ReadVarInt(r io.Reader) (uint64, error) {
	var b [9]byte
	if _, err := io.ReadFull(r, b[:1]); err != nil {
		return 0, err
	}

	switch b[0] {
	case 0xff:
		if _, err := io.ReadFull(r, b[1:9]); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(b[1:9]), nil
	case 0xfe:
		if _, err := io.ReadFull(r, b[1:5]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(b[1:5])), nil
	case 0xfd:
		if _, err := io.ReadFull(r, b[1:3]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(b[1:3])), nil
	default:
		return uint64(b[0]), nil
	}
}

// WriteVarInt writes val to w using the minimal discriminated encoding.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		_, err := w.Write([]byte{byte(val)})
		return err
	}
	if val <= 0xffff {
		buf := make([]byte, 3)
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf)
		return err
	}
	if val <= 0xffffffff {
		buf := make([]byte, 5)
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf)
		return err
	}
	buf := make([]byte, 9)
	buf[0] = 0xff
	binary.LittleEndian.PutUint64(buf[1:], val)
	_, err := w.Write(buf)
	return err
}

// maxVarStringLen bounds the length reported by a varstring before a read
// is refused; kept well above any legitimate user-agent string but short
// of letting a malicious peer force an unbounded allocation.
const maxVarStringLen = 4096

// ReadVarString reads a varint-prefixed string, as used by the version
// message's user-agent field.
func ReadVarString(r io.Reader) (string, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if n > maxVarStringLen {
		return "", fmt.Errorf("wire: varstring too long (%d bytes)", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteVarString writes s as a varint-prefixed string.
func WriteVarString(w io.Writer, s string) error {
	if err := WriteVarInt(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}
