// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"time"

	"github.com/tinhnguyenhn/colxspv/wire"
)

// handleVersion processes an incoming version message (spec §4.3).
func (p *Peer) handleVersion(msg *wire.MsgVersion) error {
	if msg.ProtocolVersion < wire.MinAcceptableProtocolVersion {
		return protoErr("remote protocol version %d below minimum %d",
			msg.ProtocolVersion, wire.MinAcceptableProtocolVersion)
	}
	if !p.cfg.AllowSelfConns && msg.Nonce == p.nonce {
		return protoErr("detected self-connection (matching nonce)")
	}

	p.remoteVersion = msg.ProtocolVersion
	p.remoteServices = msg.Services
	p.remoteUserAgent = msg.UserAgent
	p.remoteLastBlock = msg.LastBlock
	p.remoteDisableRelay = msg.DisableRelayTx
	p.lastSeen = msg.Timestamp

	return p.sendVerAck()
}

// handleVerAck processes an incoming verack (spec §4.3).
func (p *Peer) handleVerAck() error {
	if p.gotVerack {
		// Benign per spec §7: duplicate verack is ignored.
		return nil
	}
	p.pingTime = time.Since(p.startTime)
	p.gotVerack = true
	p.startTime = time.Time{}
	p.maybeCompleteHandshake()
	return nil
}

// maybeCompleteHandshake transitions to Connected once both verack flags
// are set and fires the owner's OnConnected callback (spec §3 invariant
// 1).
func (p *Peer) maybeCompleteHandshake() {
	if !p.sentVerack || !p.gotVerack {
		return
	}
	p.setState(StateConnected)
	p.disconnectTime = time.Time{}
	if p.cfg.Listeners.OnConnected != nil {
		p.cfg.Listeners.OnConnected(p)
	}
}
