// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"crypto/rand"
	"encoding/binary"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/tinhnguyenhn/colxspv/wire"
)

// ConnState describes the lifecycle state of a Peer (spec §3).
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// pongCallback is queued on each outbound ping and popped FIFO as pongs
// arrive (spec §3's "pong callback queue").
type pongCallback struct {
	fn  func(success bool)
	ctx interface{}
}

// Peer represents a single connection to a remote node speaking the wire
// protocol. All fields below disconnectTime-and-earlier are only ever
// mutated by the receive loop goroutine once connected (spec §5); prior
// to connect they may be set by the owner.
type Peer struct {
	// cfg is fixed at construction.
	cfg  Config
	addr string // host:port, as passed to Connect

	conn net.Conn

	state int32 // ConnState, accessed atomically

	// sendMu guards the wire, serializing every write so concurrent
	// senders never interleave partial frames (spec §5).
	sendMu sync.Mutex

	// identity
	ip       net.IP
	port     uint16
	lastSeen time.Time

	// handshake
	nonce              uint64
	remoteVersion      uint32
	remoteUserAgent    string
	remoteLastBlock    int32
	remoteServices     wire.ServiceFlag
	remoteDisableRelay bool

	// latency
	startTime time.Time
	pingTime  time.Duration

	// sync state - owned exclusively by the receive loop once connected.
	earliestKeyTime      time.Time
	currentBlockHeight   int32
	lastBlockHash        *chainhash.Hash
	currentBlock         MerkleBlock
	currentBlockTxHashes map[chainhash.Hash]struct{}
	knownBlockHashes     *hashQueue
	knownTxHashes        *hashQueue

	// flags
	sentVerack        bool
	gotVerack         bool
	sentGetaddr       bool
	sentFilter        bool
	sentGetdata       bool
	sentMempool       bool
	sentGetblocks     bool
	needsFilterUpdate bool
	waitingForNetwork bool

	// disconnectTime is the deadline; zero value means "unset" (+inf).
	disconnectTime time.Time

	pongMu    sync.Mutex
	pongQueue []pongCallback

	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup

	// recvTap, if set by QueryAdapter, receives a copy of every
	// dispatched message for a multi-peer work manager to observe.
	recvTap chan<- wire.Message
}

// NewPeer returns an idle, disconnected Peer for the given "host:port"
// address. Connect must be called to begin the handshake.
func NewPeer(addr string, cfg *Config) (*Peer, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip := net.ParseIP(host)
	if ip == nil {
		ips, err := net.LookupIP(host)
		if err != nil || len(ips) == 0 {
			return nil, protoErr("cannot resolve peer address %q", addr)
		}
		ip = ips[0]
	}
	portNum, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, protoErr("invalid port %q", portStr)
	}
	port := uint16(portNum)

	nonce, err := randomNonce()
	if err != nil {
		return nil, err
	}

	p := &Peer{
		cfg:              *cfg,
		addr:             addr,
		ip:               ip,
		port:             port,
		nonce:            nonce,
		earliestKeyTime:  cfg.EarliestKeyTime,
		knownBlockHashes: newHashQueue(wire.MaxKnownBlockHashes),
		knownTxHashes:    newHashQueue(0),
		quit:             make(chan struct{}),
	}
	atomic.StoreInt32(&p.state, int32(StateDisconnected))
	return p, nil
}

func randomNonce() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// State returns the peer's current connection state.
func (p *Peer) State() ConnState {
	return ConnState(atomic.LoadInt32(&p.state))
}

func (p *Peer) setState(s ConnState) {
	atomic.StoreInt32(&p.state, int32(s))
}

// Addr returns the "host:port" this peer connects to.
func (p *Peer) Addr() string { return p.addr }

// IP returns the peer's address.
func (p *Peer) IP() net.IP { return p.ip }

// Port returns the peer's port.
func (p *Peer) Port() uint16 { return p.port }

// Services returns the peer's last-advertised service bitfield.
func (p *Peer) Services() wire.ServiceFlag { return p.remoteServices }

// UserAgent returns the remote's reported user agent string, set once the
// version message has been received.
func (p *Peer) UserAgent() string { return p.remoteUserAgent }

// ProtocolVersion returns the remote's reported protocol version.
func (p *Peer) ProtocolVersion() uint32 { return p.remoteVersion }

// LastBlock returns the remote's reported best block height at handshake
// time.
func (p *Peer) LastBlock() int32 { return p.remoteLastBlock }

// PingTime returns the current smoothed round-trip estimate.
func (p *Peer) PingTime() time.Duration { return p.pingTime }

// Connected reports whether the peer has completed its handshake.
func (p *Peer) Connected() bool { return p.State() == StateConnected }

// NA returns a wire.NetAddress describing this peer, suitable for embedding
// in an addr message or relaying to a peer pool.
func (p *Peer) NA() *wire.NetAddress {
	return wire.NewNetAddressIPPort(p.ip, p.port, p.remoteServices)
}
