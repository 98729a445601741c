// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the framed, checksummed Bitcoin-style peer wire
// protocol this module's peer core speaks: message header encode/decode,
// magic-number resync, and the handful of SPV-relevant message payloads
// (version, verack, addr, inv, getdata, notfound, getblocks, getheaders,
// headers, mempool, ping, pong, filterload, getaddr, reject, and the opaque
// tx/merkleblock carriers whose contents this module never parses). There
// is no block message type: a "block" frame is decoded as an unknown
// command.
package wire

import "fmt"

// ProtocolVersion is the latest protocol version this package speaks.
const ProtocolVersion uint32 = 70002

// MinAcceptableProtocolVersion is the lowest remote version this peer core
// will complete a handshake with.
const MinAcceptableProtocolVersion uint32 = 70002

// MaxMessagePayload is the maximum bytes a message payload may declare in
// its header before the frame is rejected outright.
const MaxMessagePayload = 0x02000000 // 32 MiB

// MaxInvPerMsg is the maximum number of inventory vectors accepted in a
// single inv/getdata message.
const MaxInvPerMsg = 50000

// MaxAddrPerMsg is the maximum number of addresses accepted in a single
// addr message; larger batches are ignored, not fatal.
const MaxAddrPerMsg = 1000

// MaxTxInvPerInvMsg is the maximum number of tx-typed inventory vectors
// tolerated in a single inv message before the connection is failed.
const MaxTxInvPerInvMsg = 10000

// MaxKnownBlockHashes bounds knownBlockHashes retention; once exceeded the
// oldest third is trimmed.
const MaxKnownBlockHashes = 50000

// CommandSize is the fixed, NUL-padded width of the command field in a
// message header.
const CommandSize = 12

// MessageHeaderSize is the size in bytes of a message header: magic (4) +
// command (12) + payload length (4) + checksum (4).
const MessageHeaderSize = 24

// Command names, always written NUL-padded to CommandSize bytes on the
// wire and compared as the full field, never as a C-string prefix (see
// spec's open question on command matching).
const (
	CmdVersion     = "version"
	CmdVerAck      = "verack"
	CmdAddr        = "addr"
	CmdInv         = "inv"
	CmdGetData     = "getdata"
	CmdNotFound    = "notfound"
	CmdGetBlocks   = "getblocks"
	CmdGetHeaders  = "getheaders"
	CmdTx          = "tx"
	CmdBlock       = "block"
	CmdMerkleBlock = "merkleblock"
	CmdHeaders     = "headers"
	CmdMemPool     = "mempool"
	CmdPing        = "ping"
	CmdPong        = "pong"
	CmdFilterLoad  = "filterload"
	CmdGetAddr     = "getaddr"
	CmdReject      = "reject"
)

// BitcoinNet represents which network a message frame belongs to: the
// 4-byte magic prefixing every frame, and the resync sentinel the decoder
// hunts for when the stream desyncs.
type BitcoinNet uint32

// Network magic constants, little-endian on the wire.
const (
	MainNet BitcoinNet = 0xd9b4bef9
	TestNet BitcoinNet = 0x0709110b
)

var netStrings = map[BitcoinNet]string{
	MainNet: "MainNet",
	TestNet: "TestNet",
}

// String returns the BitcoinNet in human-readable form.
func (n BitcoinNet) String() string {
	if s, ok := netStrings[n]; ok {
		return s
	}
	return fmt.Sprintf("Unknown BitcoinNet (0x%08x)", uint32(n))
}

// ServiceFlag identifies services advertised by a peer in its version
// message and in addr entries.
type ServiceFlag uint64

const (
	// SFNodeNetwork indicates the peer is a full node serving the
	// complete block chain.
	SFNodeNetwork ServiceFlag = 1 << iota

	// SFNodeBloom indicates the peer supports bloom filtering (BIP37).
	SFNodeBloom
)

// HasFlag reports whether the service bitfield has the given flag set.
func (f ServiceFlag) HasFlag(s ServiceFlag) bool {
	return f&s == s
}

// RejectCode represents the reason for a reject message.
type RejectCode uint8

// Reject codes defined by BIP61.
const (
	RejectMalformed       RejectCode = 0x01
	RejectInvalid         RejectCode = 0x10
	RejectObsolete        RejectCode = 0x11
	RejectDuplicate       RejectCode = 0x12
	RejectNonStandard     RejectCode = 0x40
	RejectDust            RejectCode = 0x41
	RejectInsufficientFee RejectCode = 0x42
	RejectCheckpoint      RejectCode = 0x43
)

var rejectCodeStrings = map[RejectCode]string{
	RejectMalformed:       "REJECT_MALFORMED",
	RejectInvalid:         "REJECT_INVALID",
	RejectObsolete:        "REJECT_OBSOLETE",
	RejectDuplicate:       "REJECT_DUPLICATE",
	RejectNonStandard:     "REJECT_NONSTANDARD",
	RejectDust:            "REJECT_DUST",
	RejectInsufficientFee: "REJECT_INSUFFICIENTFEE",
	RejectCheckpoint:      "REJECT_CHECKPOINT",
}

// String returns the RejectCode in human-readable form.
func (code RejectCode) String() string {
	if s, ok := rejectCodeStrings[code]; ok {
		return s
	}
	return fmt.Sprintf("Unknown RejectCode (%x)", uint8(code))
}
