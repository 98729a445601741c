// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/tinhnguyenhn/colxspv/wire"
)

// send writes msg to the wire under sendMu, so a concurrently running
// receive loop that also sends (e.g. a ping reply) never interleaves
// partial frames with another sender (spec §5).
func (p *Peer) send(msg wire.Message) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()

	if p.conn == nil {
		return transportErr(errNotConnected)
	}
	if deadline := p.ioDeadline(); !deadline.IsZero() {
		_ = p.conn.SetWriteDeadline(deadline)
	}
	if err := wire.WriteMessage(p.conn, msg, wire.ProtocolVersion, p.cfg.chainNet()); err != nil {
		return transportErr(err)
	}
	return nil
}

func (p *Peer) ioDeadline() time.Time {
	return time.Now().Add(p.cfg.ioTimeout())
}

// sendVersion builds and sends the local version message (spec §4.3).
func (p *Peer) sendVersion() error {
	var lastBlock int32
	if p.cfg.NewestBlock != nil {
		height, err := p.cfg.NewestBlock()
		if err == nil {
			lastBlock = height
		}
	}
	p.currentBlockHeight = lastBlock

	me := wire.NewNetAddressIPPort(net.ParseIP("127.0.0.1"), 0, 0)
	you := wire.NewNetAddressIPPort(p.ip, p.port, p.remoteServices)

	msg := wire.NewMsgVersion(*me, *you, p.nonce, lastBlock)
	msg.UserAgent = p.cfg.userAgent()
	msg.DisableRelayTx = true

	p.startTime = time.Now()
	return p.send(msg)
}

func (p *Peer) sendVerAck() error {
	err := p.send(wire.NewMsgVerAck())
	if err == nil {
		p.sentVerack = true
		p.maybeCompleteHandshake()
	}
	return err
}

// sendAddr replies to getaddr with a zero-entry addr message; this peer
// is SPV and carries no address list to share (spec §4.5).
func (p *Peer) sendAddr() error {
	return p.send(wire.NewMsgAddr())
}

// sendFilterLoad transmits a bloom filter to the remote, gating later
// receive-side inv/tx handling.
func (p *Peer) sendFilterLoad(filter *wire.MsgFilterLoad) error {
	if err := p.send(filter); err != nil {
		return err
	}
	p.sentFilter = true
	p.needsFilterUpdate = false
	return nil
}

// sendMempool requests the remote's mempool contents.
func (p *Peer) sendMempool() error {
	if err := p.send(wire.NewMsgMemPool()); err != nil {
		return err
	}
	p.sentMempool = true
	return nil
}

// sendGetAddr requests a peer list from the remote.
func (p *Peer) sendGetAddr() error {
	if err := p.send(wire.NewMsgGetAddr()); err != nil {
		return err
	}
	p.sentGetaddr = true
	return nil
}

// sendGetHeaders issues a getheaders request with the given locator
// hashes and an all-zero stop hash (spec §4.6).
func (p *Peer) sendGetHeaders(locators []chainhash.Hash) error {
	msg := wire.NewMsgGetHeaders()
	for i := range locators {
		if err := msg.AddBlockLocatorHash(&locators[i]); err != nil {
			return protoErr("%v", err)
		}
	}
	return p.send(msg)
}

// sendGetBlocks issues a getblocks request with the given locator hashes.
func (p *Peer) sendGetBlocks(locators []chainhash.Hash) error {
	msg := wire.NewMsgGetBlocks(&chainhash.Hash{})
	for i := range locators {
		if err := msg.AddBlockLocatorHash(&locators[i]); err != nil {
			return protoErr("%v", err)
		}
	}
	if err := p.send(msg); err != nil {
		return err
	}
	p.sentGetblocks = true
	return nil
}

// sendInv sends an inv message carrying only hashes the remote hasn't
// already been told about, per spec §4.6: each hash is added to the
// known-tx set before transmission.
func (p *Peer) sendInv(txHashes []chainhash.Hash) error {
	msg := wire.NewMsgInv()
	for _, h := range txHashes {
		if p.knownTxHashes.Has(h) {
			continue
		}
		p.knownTxHashes.Add(h)
		if err := msg.AddInvVect(wire.NewInvVect(wire.InvTypeTx, &h)); err != nil {
			return protoErr("%v", err)
		}
	}
	if len(msg.InvList) == 0 {
		return nil
	}
	return p.send(msg)
}

// sendGetData requests the given tx and block hashes in one batch,
// capped at wire.MaxInvPerMsg total entries (spec §4.6).
func (p *Peer) sendGetData(txHashes, blockHashes []chainhash.Hash) error {
	msg := wire.NewMsgGetData()
	total := 0
	for _, h := range txHashes {
		if total >= wire.MaxInvPerMsg {
			break
		}
		hh := h
		if err := msg.AddInvVect(wire.NewInvVect(wire.InvTypeTx, &hh)); err != nil {
			return protoErr("%v", err)
		}
		total++
	}
	for _, h := range blockHashes {
		if total >= wire.MaxInvPerMsg {
			break
		}
		hh := h
		if err := msg.AddInvVect(wire.NewInvVect(wire.InvTypeFilteredBlk, &hh)); err != nil {
			return protoErr("%v", err)
		}
		total++
	}
	if len(msg.InvList) == 0 {
		return nil
	}
	if err := p.send(msg); err != nil {
		return err
	}
	p.sentGetdata = true
	return nil
}

// sendPing issues a ping carrying the local nonce and queues cb to be
// invoked when the matching pong arrives (spec §4.6).
func (p *Peer) sendPing(cb func(success bool), ctx interface{}) error {
	p.startTime = time.Now()
	if err := p.send(wire.NewMsgPing(p.nonce)); err != nil {
		return err
	}
	p.pongMu.Lock()
	p.pongQueue = append(p.pongQueue, pongCallback{fn: cb, ctx: ctx})
	p.pongMu.Unlock()
	return nil
}

// RerequestBlocks finds fromHash in knownBlockHashes, discards all earlier
// entries, and resends getdata for the remaining blocks - used after a
// filter update to pull matching transactions that were missed the first
// time around (spec §4.6).
func (p *Peer) RerequestBlocks(fromHash chainhash.Hash) error {
	idx := -1
	for i, h := range p.knownBlockHashes.order {
		if h == fromHash {
			idx = i
			break
		}
	}
	if idx == -1 {
		return protoErr("rerequestBlocks: %x not in known set", fromHash)
	}

	remaining := append([]chainhash.Hash{}, p.knownBlockHashes.order[idx:]...)
	q := newHashQueue(wire.MaxKnownBlockHashes)
	for _, h := range remaining {
		q.Add(h)
	}
	p.knownBlockHashes = q

	return p.sendGetData(nil, remaining)
}

// QueueMessage sends msg to the remote, synchronizing with the receive
// loop's own sends via sendMu. Mirrors colxd/peer's QueueMessage naming
// for callers migrating off that package.
func (p *Peer) QueueMessage(msg wire.Message) error {
	return p.send(msg)
}

// LoadBloomFilter sends a filterload message carrying the wallet-built
// filter bytes and BIP0037 tuning parameters.
func (p *Peer) LoadBloomFilter(filter []byte, hashFuncs, tweak uint32, flags wire.BloomUpdateType) error {
	return p.sendFilterLoad(wire.NewMsgFilterLoad(filter, hashFuncs, tweak, flags))
}

// MarkFilterStale flags that the bloom filter has changed: inv-driven
// block requests are suppressed until a new filter is sent with
// LoadBloomFilter, which clears the flag; RerequestBlocks does not clear
// it (spec §4.5/§4.6).
func (p *Peer) MarkFilterStale() {
	p.needsFilterUpdate = true
}

// RequestMempool requests the remote's mempool contents.
func (p *Peer) RequestMempool() error {
	return p.sendMempool()
}

// RequestPeers requests a peer address list from the remote.
func (p *Peer) RequestPeers() error {
	return p.sendGetAddr()
}

// RequestHeaders issues a getheaders with the given locator hashes.
func (p *Peer) RequestHeaders(locators []chainhash.Hash) error {
	return p.sendGetHeaders(locators)
}

// RequestBlocks issues a getblocks with the given locator hashes.
func (p *Peer) RequestBlocks(locators []chainhash.Hash) error {
	return p.sendGetBlocks(locators)
}

// Ping sends a ping carrying the local nonce and invokes cb when the
// matching pong arrives, or with success=false if the peer disconnects
// first.
func (p *Peer) Ping(cb func(success bool)) error {
	return p.sendPing(cb, nil)
}
