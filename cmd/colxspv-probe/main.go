// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command colxspv-probe connects to a single remote peer, completes the
// version handshake, and logs inv/headers/merkleblock traffic until
// interrupted. It exists to exercise this module's peer package against
// a live node, not as a production wallet front end.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/tinhnguyenhn/colxspv/peer"
	"github.com/tinhnguyenhn/colxspv/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := initLogRotator(cfg.logFile()); err != nil {
		return err
	}
	setLogLevels(cfg.LogLevel)

	chainNet := wire.MainNet
	if cfg.TestNet {
		chainNet = wire.TestNet
	}

	done := make(chan struct{})
	peerCfg := &peer.Config{
		ChainNet:  chainNet,
		UserAgent: cfg.UserAgent,
		Proxy:     cfg.Proxy,
		NewestBlock: func() (int32, error) {
			return 0, nil
		},
		Listeners: peer.Listeners{
			OnConnected: func(p *peer.Peer) {
				log.Infof("connected to %s (agent %q, height %d, ping %s)",
					p.Addr(), p.UserAgent(), p.LastBlock(), p.PingTime())
			},
			OnDisconnected: func(p *peer.Peer, err error) {
				log.Infof("disconnected from %s: %v", p.Addr(), err)
				close(done)
			},
			OnRelayedPeers: func(p *peer.Peer, addrs []*wire.NetAddress) {
				log.Infof("%s relayed %d addresses", p.Addr(), len(addrs))
			},
			OnRelayedBlock: func(p *peer.Peer, block peer.MerkleBlock) {
				if hdr, ok := block.(*wire.BlockHeader); ok {
					hash := hdr.BlockHash()
					log.Infof("%s relayed header %s", p.Addr(), hash)
					return
				}
				log.Infof("%s relayed a merkle block", p.Addr())
			},
			OnNotFound: func(p *peer.Peer, txHashes, blockHashes []chainhash.Hash) {
				log.Infof("%s: notfound (%d tx, %d block)", p.Addr(), len(txHashes), len(blockHashes))
			},
		},
	}

	p, err := peer.NewPeer(cfg.Peer, peerCfg)
	if err != nil {
		return err
	}

	if err := p.Connect(); err != nil {
		return err
	}

	sched := peer.NewPingScheduler(p, ticker.New(30*time.Second))
	sched.Start()
	defer sched.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	select {
	case <-sigCh:
		p.Disconnect()
		<-done
	case <-done:
	}
	return nil
}
