// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/tinhnguyenhn/colxspv/wire"
)

// addrTimestampSkew is subtracted from every addr entry's timestamp
// (spec §4.5, §6: "Address rewrite skew: -2h").
const addrTimestampSkew = -2 * time.Hour

// addrGhostAge is the timestamp substituted for entries that report a
// zero time or one more than 10 minutes in the future (spec §6: "Ghost
// timestamp: 5 days ago").
const addrGhostAge = -5 * 24 * time.Hour

// handleAddr processes an incoming addr message (spec §4.5).
func (p *Peer) handleAddr(msg *wire.MsgAddr) error {
	if !p.sentGetaddr {
		// Benign: unsolicited addr is ignored (spec §7).
		return nil
	}
	if len(msg.AddrList) > wire.MaxAddrPerMsg {
		// Benign: oversized batch is ignored, not fatal (spec §4.5).
		return nil
	}

	now := time.Now()
	var kept []*wire.NetAddress
	for _, na := range msg.AddrList {
		if !na.Services.HasFlag(wire.SFNodeNetwork) {
			continue
		}
		if na.IP.To4() == nil {
			continue
		}

		ts := na.Timestamp
		if ts.IsZero() || ts.Unix() == 0 || ts.After(now.Add(10*time.Minute)) {
			ts = now.Add(addrGhostAge)
		}
		na.Timestamp = ts.Add(addrTimestampSkew)

		kept = append(kept, na)
	}

	if len(kept) > 0 && p.cfg.Listeners.OnRelayedPeers != nil {
		p.cfg.Listeners.OnRelayedPeers(p, kept)
	}
	return nil
}

// handleInv processes an incoming inv message (spec §4.5).
func (p *Peer) handleInv(msg *wire.MsgInv) error {
	if uint64(len(msg.InvList)) > wire.MaxInvPerMsg {
		return excessErr("inv: %d items exceeds max %d", len(msg.InvList), wire.MaxInvPerMsg)
	}

	var txHashes, blockHashes []chainhash.Hash
	var txCount int
	for _, iv := range msg.InvList {
		switch iv.Type {
		case wire.InvTypeTx:
			txCount++
			txHashes = append(txHashes, iv.Hash)
		case wire.InvTypeBlock, wire.InvTypeFilteredBlk:
			blockHashes = append(blockHashes, iv.Hash)
		}
	}

	if txCount > 0 && !p.sentFilter && !p.sentMempool && !p.sentGetblocks {
		return protoErr("inv: %d tx items advertised without solicitation", txCount)
	}
	if txCount > wire.MaxTxInvPerInvMsg {
		return excessErr("inv: %d tx items exceeds max %d", txCount, wire.MaxTxInvPerInvMsg)
	}

	blockCount := len(blockHashes)
	if p.currentBlockHeight > 0 && blockCount > 2 && blockCount < 500 {
		known := p.knownBlockHashes.Len()
		if int(p.currentBlockHeight)+known+blockCount < int(p.remoteLastBlock) {
			return excessErr("inv: tarpit node detected (tip %d, known %d, advertised %d, remote tip %d)",
				p.currentBlockHeight, known, blockCount, p.remoteLastBlock)
		}
	}

	if blockCount == 1 {
		if p.lastBlockHash != nil && *p.lastBlockHash == blockHashes[0] {
			// Duplicate tip re-announcement: ignored (spec §9's
			// ordering note - this check runs after the tarpit
			// bounds check above, never before it).
			blockHashes = nil
		} else {
			h := blockHashes[0]
			p.lastBlockHash = &h
		}
	}

	for _, h := range blockHashes {
		p.knownBlockHashes.Add(h)
	}

	var newTx []chainhash.Hash
	for _, h := range txHashes {
		if p.knownTxHashes.Has(h) {
			continue
		}
		p.knownTxHashes.Add(h)
		newTx = append(newTx, h)
		if p.cfg.Listeners.OnHasTx != nil {
			p.cfg.Listeners.OnHasTx(p, h)
		}
	}

	if p.needsFilterUpdate {
		// Do not request blocks; the wallet will reload the filter
		// and replay via rerequestBlocks (spec §4.5).
		if len(newTx) > 0 {
			return p.sendGetData(newTx, nil)
		}
		return nil
	}

	if err := p.sendGetData(newTx, blockHashes); err != nil {
		return err
	}

	if blockCount >= 500 {
		first := blockHashes[0]
		last := blockHashes[len(blockHashes)-1]
		return p.sendGetBlocks([]chainhash.Hash{last, first})
	}
	return nil
}

// handleTx processes an incoming tx message (spec §4.5).
func (p *Peer) handleTx(msg *wire.MsgTx) error {
	if !p.sentFilter && !p.sentGetdata {
		return protoErr("tx: received before filterload or getdata")
	}
	if p.cfg.TxCodec == nil {
		return protoErr("tx: no TxCodec collaborator configured")
	}

	tx, err := p.cfg.TxCodec.Parse(msg.Raw)
	if err != nil {
		return protoErr("tx: parse failed: %v", err)
	}
	hash := p.cfg.TxCodec.Hash(tx)

	if p.cfg.Listeners.OnRelayedTx != nil {
		p.cfg.Listeners.OnRelayedTx(p, tx)
	}

	if p.currentBlock != nil {
		delete(p.currentBlockTxHashes, hash)
		if len(p.currentBlockTxHashes) == 0 {
			block := p.currentBlock
			p.currentBlock = nil
			p.currentBlockTxHashes = nil
			if p.cfg.Listeners.OnRelayedBlock != nil {
				p.cfg.Listeners.OnRelayedBlock(p, block)
			}
		}
	}
	return nil
}

// headerSwitchoverWindow is how close to earliestKeyTime a header's
// timestamp must be to trigger the getblocks switchover (spec §4.5: "7
// days + BLOCK_MAX_TIME_DRIFT").
const headerSwitchoverWindow = 7*24*time.Hour + blockMaxTimeDrift

// blockMaxTimeDrift bounds how far a header timestamp may run ahead of
// network time before an external validator would reject it; used here
// only to size the switchover window, matching the original's constant.
const blockMaxTimeDrift = 2 * time.Hour

// handleHeaders processes an incoming headers batch (spec §4.5).
func (p *Peer) handleHeaders(msg *wire.MsgHeaders) error {
	count := len(msg.Headers)
	if count == 0 {
		return nil
	}

	now := time.Now()
	for _, h := range msg.Headers {
		if p.cfg.HeaderValidator != nil {
			if err := p.cfg.HeaderValidator.Validate(h, now); err != nil {
				return protoErr("headers: invalid header: %v", err)
			}
		}
		if p.cfg.Listeners.OnRelayedBlock != nil {
			p.cfg.Listeners.OnRelayedBlock(p, h)
		}
	}

	// One-sided, per BRPeer.c's _BRPeerAcceptHeadersMessage: switch over
	// once the batch's last timestamp plus the window reaches
	// earliestKeyTime, with no upper bound. A batch that lands well past
	// earliestKeyTime (an old wallet catching up a fast-moving chain)
	// still switches to getblocks rather than being treated as
	// non-standard.
	last := msg.Headers[count-1]
	nearSwitchover := !p.earliestKeyTime.IsZero() &&
		!last.Timestamp().Add(headerSwitchoverWindow).Before(p.earliestKeyTime)

	if count < 2000 && !nearSwitchover {
		return protoErr("headers: non-standard batch of %d headers", count)
	}

	if nearSwitchover {
		first := msg.Headers[0]
		switchAt := first
		for _, h := range msg.Headers {
			if !h.Timestamp().Add(headerSwitchoverWindow).Before(p.earliestKeyTime) {
				switchAt = h
				break
			}
		}
		switchHash := switchAt.BlockHash()
		firstHash := first.BlockHash()
		return p.sendGetBlocks([]chainhash.Hash{switchHash, firstHash})
	}

	firstHash := msg.Headers[0].BlockHash()
	lastHash := last.BlockHash()
	return p.sendGetHeaders([]chainhash.Hash{lastHash, firstHash})
}

// handleGetData processes an inbound getdata, replying with our own
// transactions where available and batching everything else into a
// single notfound (spec §4.5).
func (p *Peer) handleGetData(msg *wire.MsgGetData) error {
	notFound := wire.NewMsgNotFound()

	for _, iv := range msg.InvList {
		if iv.Type == wire.InvTypeTx && p.cfg.Listeners.RequestedTx != nil {
			tx := p.cfg.Listeners.RequestedTx(p, iv.Hash)
			if tx != nil && p.cfg.TxCodec != nil {
				raw, err := p.cfg.TxCodec.Serialize(tx)
				if err == nil {
					if err := p.send(wire.NewMsgTx(raw)); err != nil {
						return err
					}
					continue
				}
			}
		}
		h := iv.Hash
		if err := notFound.AddInvVect(wire.NewInvVect(iv.Type, &h)); err != nil {
			return protoErr("%v", err)
		}
	}

	if len(notFound.InvList) == 0 {
		return nil
	}
	return p.send(notFound)
}

// handleNotFound processes an incoming notfound (spec §4.5).
func (p *Peer) handleNotFound(msg *wire.MsgNotFound) error {
	var txHashes, blockHashes []chainhash.Hash
	for _, iv := range msg.InvList {
		switch iv.Type {
		case wire.InvTypeTx:
			txHashes = append(txHashes, iv.Hash)
		case wire.InvTypeBlock, wire.InvTypeFilteredBlk:
			blockHashes = append(blockHashes, iv.Hash)
		}
	}
	if p.cfg.Listeners.OnNotFound != nil {
		p.cfg.Listeners.OnNotFound(p, txHashes, blockHashes)
	}
	return nil
}

// handlePing echoes the nonce back as a pong (spec §4.5).
func (p *Peer) handlePing(msg *wire.MsgPing) error {
	return p.send(wire.NewMsgPong(msg.Nonce))
}

// handlePong validates and processes an incoming pong (spec §4.5).
func (p *Peer) handlePong(msg *wire.MsgPong) error {
	if msg.Nonce != p.nonce {
		return protoErr("pong: nonce mismatch")
	}

	p.pongMu.Lock()
	if len(p.pongQueue) == 0 {
		p.pongMu.Unlock()
		return protoErr("pong: received with no outstanding ping")
	}
	cb := p.pongQueue[0]
	p.pongQueue = p.pongQueue[1:]
	p.pongMu.Unlock()

	if !p.startTime.IsZero() {
		elapsed := time.Since(p.startTime)
		p.pingTime = time.Duration(float64(p.pingTime)*0.5 + float64(elapsed)*0.5)
		p.startTime = time.Time{}
	}

	if cb.fn != nil {
		cb.fn(true)
	}
	return nil
}

// handleMerkleBlock processes an incoming merkleblock (spec §4.5).
func (p *Peer) handleMerkleBlock(msg *wire.MsgMerkleBlock) error {
	if !p.sentFilter && !p.sentGetdata {
		return protoErr("merkleblock: received before filterload or getdata")
	}
	if p.cfg.MerkleBlockCodec == nil {
		return protoErr("merkleblock: no MerkleBlockCodec collaborator configured")
	}

	block, err := p.cfg.MerkleBlockCodec.Parse(msg.Raw)
	if err != nil {
		return protoErr("merkleblock: parse failed: %v", err)
	}
	if !p.cfg.MerkleBlockCodec.IsValid(block, time.Now()) {
		return protoErr("merkleblock: failed validation")
	}

	txHashes := p.cfg.MerkleBlockCodec.TxHashes(block)
	pending := make(map[chainhash.Hash]struct{})
	for _, h := range txHashes {
		if !p.knownTxHashes.Has(h) {
			pending[h] = struct{}{}
		}
	}

	if len(pending) == 0 {
		if p.cfg.Listeners.OnRelayedBlock != nil {
			p.cfg.Listeners.OnRelayedBlock(p, block)
		}
		return nil
	}

	p.currentBlock = block
	p.currentBlockTxHashes = pending
	return nil
}

// handleReject processes an incoming reject (spec §4.5).
func (p *Peer) handleReject(msg *wire.MsgReject) error {
	if msg.Cmd == wire.CmdTx && p.cfg.Listeners.OnRejectedTx != nil {
		p.cfg.Listeners.OnRejectedTx(p, msg.Hash, msg.Code)
	}
	return nil
}
