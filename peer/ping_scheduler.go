// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"sync"

	"github.com/lightningnetwork/lnd/ticker"
)

// PingScheduler periodically sends a ping to a connected Peer, using the
// same mockable ticker.Ticker colxwallet/chain.PrunedBlockDispatcher uses
// for its own polling loop (spec §9's note that BRPeerSendPing is
// "typically called from an owner-scheduled timer").
type PingScheduler struct {
	peer   *Peer
	ticker ticker.Ticker

	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup
}

// NewPingScheduler returns a scheduler that pings p on every tick of t.
func NewPingScheduler(p *Peer, t ticker.Ticker) *PingScheduler {
	return &PingScheduler{
		peer:   p,
		ticker: t,
		quit:   make(chan struct{}),
	}
}

// Start begins the ticker loop in its own goroutine.
func (s *PingScheduler) Start() {
	s.ticker.Resume()
	s.wg.Add(1)
	go s.run()
}

// Stop halts the ticker loop.
func (s *PingScheduler) Stop() {
	s.quitOnce.Do(func() { close(s.quit) })
	s.ticker.Stop()
	s.wg.Wait()
}

func (s *PingScheduler) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ticker.Ticks():
			if s.peer.Connected() {
				_ = s.peer.Ping(nil)
			}
		case <-s.quit:
			return
		}
	}
}
