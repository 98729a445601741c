// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// minVersionPayload is the length below which a version message is
// rejected outright (spec §4.3: "reject if length < 85 bytes").
const minVersionPayload = 85

// MsgVersion implements the Message interface and represents a version
// message. It is the first message exchanged and is used to negotiate the
// protocol version and feature set between two peers.
type MsgVersion struct {
	ProtocolVersion uint32
	Services        ServiceFlag
	Timestamp       time.Time
	AddrYou         NetAddress
	AddrMe          NetAddress
	Nonce           uint64
	UserAgent       string
	LastBlock       int32
	DisableRelayTx  bool
}

// NewMsgVersion returns a new version message using the provided
// parameters and defaults for the remaining fields.
func NewMsgVersion(me, you NetAddress, nonce uint64, lastBlock int32) *MsgVersion {
	return &MsgVersion{
		ProtocolVersion: ProtocolVersion,
		Services:        0,
		Timestamp:       time.Now(),
		AddrYou:         you,
		AddrMe:          me,
		Nonce:           nonce,
		UserAgent:       DefaultUserAgent,
		LastBlock:       lastBlock,
		DisableRelayTx:  true,
	}
}

// DefaultUserAgent is the default user agent this package reports unless
// the caller overrides it.
const DefaultUserAgent = "/colxspv:0.1.0/"

// BtcDecode decodes r using the protocol encoding into the receiver. A
// payload shorter than minVersionPayload is rejected outright rather than
// left to surface as an incidental EOF partway through decoding (spec
// §4.3: "reject if length < 85 bytes").
func (msg *MsgVersion) BtcDecode(r io.Reader, pver uint32) error {
	if br, ok := r.(*bytes.Reader); ok && br.Len() < minVersionPayload {
		return messageError("MsgVersion.BtcDecode",
			fmt.Sprintf("payload length %d is less than the minimum %d bytes",
				br.Len(), minVersionPayload))
	}

	var buf [4 + 8 + 8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	msg.ProtocolVersion = binary.LittleEndian.Uint32(buf[0:4])
	msg.Services = ServiceFlag(binary.LittleEndian.Uint64(buf[4:12]))
	msg.Timestamp = time.Unix(int64(binary.LittleEndian.Uint64(buf[12:20])), 0)

	if err := readNetAddress(r, &msg.AddrYou, false); err != nil {
		return err
	}

	// Protocol versions >= 106 added the sender address, nonce, and user
	// agent; this peer core only ever speaks 70002 so these are always
	// present, but decoding is kept defensive against a terse remote.
	if err := readNetAddress(r, &msg.AddrMe, false); err != nil {
		return err
	}

	var nonceBuf [8]byte
	if _, err := io.ReadFull(r, nonceBuf[:]); err != nil {
		return err
	}
	msg.Nonce = binary.LittleEndian.Uint64(nonceBuf[:])

	ua, err := ReadVarString(r)
	if err != nil {
		return err
	}
	msg.UserAgent = ua

	var lastBlockBuf [4]byte
	if _, err := io.ReadFull(r, lastBlockBuf[:]); err != nil {
		return err
	}
	msg.LastBlock = int32(binary.LittleEndian.Uint32(lastBlockBuf[:]))

	var relayByte [1]byte
	if _, err := io.ReadFull(r, relayByte[:]); err == nil {
		msg.DisableRelayTx = relayByte[0] == 0
	} else if err != io.EOF {
		return err
	}

	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgVersion) BtcEncode(w io.Writer, pver uint32) error {
	var buf [4 + 8 + 8]byte
	binary.LittleEndian.PutUint32(buf[0:4], msg.ProtocolVersion)
	binary.LittleEndian.PutUint64(buf[4:12], uint64(msg.Services))
	binary.LittleEndian.PutUint64(buf[12:20], uint64(msg.Timestamp.Unix()))
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	if err := writeNetAddress(w, &msg.AddrYou, false); err != nil {
		return err
	}
	if err := writeNetAddress(w, &msg.AddrMe, false); err != nil {
		return err
	}

	var nonceBuf [8]byte
	binary.LittleEndian.PutUint64(nonceBuf[:], msg.Nonce)
	if _, err := w.Write(nonceBuf[:]); err != nil {
		return err
	}

	if err := WriteVarString(w, msg.UserAgent); err != nil {
		return err
	}

	var lastBlockBuf [4]byte
	binary.LittleEndian.PutUint32(lastBlockBuf[:], uint32(msg.LastBlock))
	if _, err := w.Write(lastBlockBuf[:]); err != nil {
		return err
	}

	relay := byte(0)
	if !msg.DisableRelayTx {
		relay = 1
	}
	_, err := w.Write([]byte{relay})
	return err
}

// Command returns the protocol command string for the message.
func (msg *MsgVersion) Command() string { return CmdVersion }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgVersion) MaxPayloadLength(pver uint32) uint32 {
	return 4 + 8 + 8 + 26 + 26 + 8 + (1 + maxVarStringLen) + 4 + 1
}
