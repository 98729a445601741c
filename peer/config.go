// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/tinhnguyenhn/colxspv/wire"
)

// Tx is an opaque transaction value. This package never inspects its
// contents - parsing, serialization, and hashing are all delegated to the
// TxCodec collaborator (spec §6), since full transaction semantics are
// explicitly out of this core's scope.
type Tx interface{}

// MerkleBlock is an opaque merkle-block value, parsed and validated
// entirely by the MerkleBlockCodec collaborator (spec §6).
type MerkleBlock interface{}

// TxCodec is the external collaborator responsible for transaction
// parsing, serialization, and hashing (spec §6).
type TxCodec interface {
	Parse(raw []byte) (Tx, error)
	Serialize(tx Tx) ([]byte, error)
	Hash(tx Tx) chainhash.Hash
}

// MerkleBlockCodec is the external collaborator responsible for
// merkle-block parsing, validation, and extracting the set of referenced
// transaction hashes (spec §6).
type MerkleBlockCodec interface {
	Parse(raw []byte) (MerkleBlock, error)
	IsValid(block MerkleBlock, now time.Time) bool
	TxHashes(block MerkleBlock) []chainhash.Hash
}

// HeaderValidator parses and validates a raw 80-byte block header (proof
// of work, timestamp sanity) - the "collaborator" spec §4.5's headers
// handler calls for each entry before forwarding it via OnRelayedBlock.
type HeaderValidator interface {
	Validate(header *wire.BlockHeader, now time.Time) error
}

// Listeners holds the callbacks the owner supplies (spec §6). Every field
// may be left nil, meaning "ignore" - callers are never required to
// implement a full interface with no-op stubs.
type Listeners struct {
	OnConnected        func(p *Peer)
	OnDisconnected     func(p *Peer, err error)
	OnRelayedPeers     func(p *Peer, addrs []*wire.NetAddress)
	OnRelayedTx        func(p *Peer, tx Tx)
	OnHasTx            func(p *Peer, hash chainhash.Hash)
	OnRejectedTx       func(p *Peer, hash chainhash.Hash, code wire.RejectCode)
	OnRelayedBlock     func(p *Peer, block MerkleBlock)
	OnNotFound         func(p *Peer, txHashes, blockHashes []chainhash.Hash)
	RequestedTx        func(p *Peer, hash chainhash.Hash) Tx
	NetworkIsReachable func() bool
}

// Config holds the configuration a Peer is constructed with.
type Config struct {
	// Listeners carries the owner's callbacks.
	Listeners Listeners

	// TxCodec parses/serializes/hashes transactions.
	TxCodec TxCodec

	// MerkleBlockCodec parses and validates merkle blocks.
	MerkleBlockCodec MerkleBlockCodec

	// HeaderValidator validates headers-message entries.
	HeaderValidator HeaderValidator

	// ChainNet selects the network magic this peer speaks.
	ChainNet wire.BitcoinNet

	// UserAgent overrides wire.DefaultUserAgent when non-empty.
	UserAgent string

	// EarliestKeyTime is the wallet creation timestamp controlling the
	// header-to-block switchover (spec §3/§4.5).
	EarliestKeyTime time.Time

	// NewestBlock reports our own chain tip, used to populate the
	// version message's starting height and to seed
	// currentBlockHeight for tarpit detection.
	NewestBlock func() (height int32, err error)

	// AllowSelfConns disables the self-connection detector, matching
	// colxd/peer.Config.AllowSelfConns - used only by tests.
	AllowSelfConns bool

	// Proxy, if non-empty, is a SOCKS5 proxy address Connect dials
	// through instead of connecting directly.
	Proxy string

	// ConnectTimeout overrides the 3s default connect deadline (spec
	// §6).
	ConnectTimeout time.Duration

	// IOTimeout overrides the 1s default socket read/write timeout
	// (spec §6).
	IOTimeout time.Duration
}

func (cfg *Config) connectTimeout() time.Duration {
	if cfg.ConnectTimeout > 0 {
		return cfg.ConnectTimeout
	}
	return 3 * time.Second
}

func (cfg *Config) ioTimeout() time.Duration {
	if cfg.IOTimeout > 0 {
		return cfg.IOTimeout
	}
	return 1 * time.Second
}

func (cfg *Config) userAgent() string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}
	return wire.DefaultUserAgent
}

func (cfg *Config) chainNet() wire.BitcoinNet {
	if cfg.ChainNet != 0 {
		return cfg.ChainNet
	}
	return wire.MainNet
}
