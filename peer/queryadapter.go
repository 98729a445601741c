// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import "github.com/tinhnguyenhn/colxspv/wire"

// WorkManagerPeer is the shape a multi-peer work manager built one layer
// above this package needs from a connected Peer: an address, a
// disconnect signal, a tap on inbound messages, and a way to queue
// outbound ones. It mirrors the adapter colxwallet/chain's
// PrunedBlockDispatcher builds around colxd/peer.Peer to satisfy
// neutrino/query.Peer, but is defined against this package's own
// wire.Message rather than btcd's.
type WorkManagerPeer interface {
	Addr() string
	OnDisconnect() <-chan struct{}
	SubscribeRecvMsg() (<-chan wire.Message, func())
	QueueMessage(msg wire.Message) error
}

// QueryAdapter wraps a *Peer to satisfy WorkManagerPeer, copying each
// decoded inbound message (handed over by the receive loop's dispatcher
// through the peer's recvTap; a message is dropped when the channel's
// buffer is full) onto a channel a work manager can select on, and
// closing disconnected once the receive loop exits.
type QueryAdapter struct {
	*Peer

	recvd        chan wire.Message
	disconnected chan struct{}
}

// NewQueryAdapter wraps p, chaining any listeners already set on cfg so
// the adapter can observe traffic without suppressing the owner's own
// callbacks. Call this before Connect.
func NewQueryAdapter(p *Peer) *QueryAdapter {
	qa := &QueryAdapter{
		Peer:         p,
		recvd:        make(chan wire.Message, 64),
		disconnected: make(chan struct{}),
	}
	p.recvTap = qa.recvd

	prevDisconnected := p.cfg.Listeners.OnDisconnected
	p.cfg.Listeners.OnDisconnected = func(peer *Peer, err error) {
		close(qa.disconnected)
		if prevDisconnected != nil {
			prevDisconnected(peer, err)
		}
	}

	return qa
}

// OnDisconnect returns a channel closed once the underlying peer
// disconnects.
func (qa *QueryAdapter) OnDisconnect() <-chan struct{} {
	return qa.disconnected
}

// SubscribeRecvMsg returns a channel of inbound messages and a cancel
// func. This adapter only supports a single subscriber; the cancel func
// is a no-op, matching colxwallet's queryPeer.
func (qa *QueryAdapter) SubscribeRecvMsg() (<-chan wire.Message, func()) {
	return qa.recvd, func() {}
}

// QueueMessage sends msg to the remote peer.
func (qa *QueryAdapter) QueueMessage(msg wire.Message) error {
	return qa.Peer.QueueMessage(msg)
}
