// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/tinhnguyenhn/colxspv/wire"
)

// testTx is the TxCodec's parsed value: the tx's raw bytes are exactly its
// 32-byte hash, making the round trip through handleTx deterministic
// without a real transaction parser.
type testTx struct {
	hash chainhash.Hash
}

type testTxCodec struct{}

func (testTxCodec) Parse(raw []byte) (Tx, error) {
	var h chainhash.Hash
	copy(h[:], raw)
	return testTx{hash: h}, nil
}
func (testTxCodec) Serialize(tx Tx) ([]byte, error) {
	h := tx.(testTx).hash
	return h[:], nil
}
func (testTxCodec) Hash(tx Tx) chainhash.Hash { return tx.(testTx).hash }

// testMerkleBlock is the MerkleBlockCodec's parsed value: a raw byte blob
// that is just its referenced tx hashes concatenated.
type testMerkleBlock struct {
	hashes []chainhash.Hash
}

type testMerkleBlockCodec struct{}

func (testMerkleBlockCodec) Parse(raw []byte) (MerkleBlock, error) {
	var hashes []chainhash.Hash
	for len(raw) >= chainhash.HashSize {
		var h chainhash.Hash
		copy(h[:], raw[:chainhash.HashSize])
		hashes = append(hashes, h)
		raw = raw[chainhash.HashSize:]
	}
	return &testMerkleBlock{hashes: hashes}, nil
}
func (testMerkleBlockCodec) IsValid(block MerkleBlock, now time.Time) bool { return true }
func (testMerkleBlockCodec) TxHashes(block MerkleBlock) []chainhash.Hash {
	return block.(*testMerkleBlock).hashes
}

func hashFromByte(b byte) chainhash.Hash {
	var h chainhash.Hash
	h[0] = b
	return h
}

// TestHeadersSwitchover exercises testable scenario (b): a full 2000-entry
// batch far from the threshold triggers a getheaders continuation; a batch
// whose only in-window entry is the last header triggers a getblocks
// switchover keyed on that header's hash. The rejection of a short batch
// far from earliestKeyTime is covered by
// TestHeadersNonStandardBatchRejected.
func TestHeadersSwitchover(t *testing.T) {
	earliest := time.Unix(1500000000, 0)
	p, remote, ch := connectTestPeer(t, &Config{EarliestKeyTime: earliest})
	defer p.Disconnect()

	// Far-from-threshold batch of 2000: triggers a getheaders
	// continuation, not a getblocks switchover.
	far := wire.NewMsgHeaders()
	var first, last *wire.BlockHeader
	for i := 0; i < 2000; i++ {
		h := buildHeader(time.Unix(1400000000, 0), byte(i%256))
		if i == 0 {
			first = h
		}
		if i == 1999 {
			last = h
		}
		if err := far.AddBlockHeader(h); err != nil {
			t.Fatalf("AddBlockHeader: %v", err)
		}
	}
	if err := wire.WriteMessage(remote, far, wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("writing headers: %v", err)
	}

	msg := recvWithin(t, ch, 2*time.Second)
	getheaders, ok := msg.(*wire.MsgGetHeaders)
	if !ok {
		t.Fatalf("got %T, want *wire.MsgGetHeaders", msg)
	}
	if len(getheaders.BlockLocatorHashes) != 2 {
		t.Fatalf("got %d locators, want 2", len(getheaders.BlockLocatorHashes))
	}
	if *getheaders.BlockLocatorHashes[0] != last.BlockHash() {
		t.Fatal("expected first locator to be the batch's last header hash")
	}
	if *getheaders.BlockLocatorHashes[1] != first.BlockHash() {
		t.Fatal("expected second locator to be the batch's first header hash")
	}

	// Batch of 2000 where only the final entry falls within the
	// switchover window: triggers a getblocks switchover keyed on that
	// entry's hash.
	near := wire.NewMsgHeaders()
	var nearFirst, nearLast *wire.BlockHeader
	for i := 0; i < 2000; i++ {
		ts := time.Unix(1400000000, 0)
		if i == 1999 {
			ts = earliest.Add(-time.Hour)
		}
		h := buildHeader(ts, byte(i%256))
		if i == 0 {
			nearFirst = h
		}
		if i == 1999 {
			nearLast = h
		}
		if err := near.AddBlockHeader(h); err != nil {
			t.Fatalf("AddBlockHeader: %v", err)
		}
	}
	if err := wire.WriteMessage(remote, near, wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("writing headers: %v", err)
	}

	msg = recvWithin(t, ch, 2*time.Second)
	getblocks, ok := msg.(*wire.MsgGetBlocks)
	if !ok {
		t.Fatalf("got %T, want *wire.MsgGetBlocks", msg)
	}
	if len(getblocks.BlockLocatorHashes) != 2 {
		t.Fatalf("got %d locators, want 2", len(getblocks.BlockLocatorHashes))
	}
	if *getblocks.BlockLocatorHashes[0] != nearLast.BlockHash() {
		t.Fatal("expected first locator to be the switchover header's hash")
	}
	if *getblocks.BlockLocatorHashes[1] != nearFirst.BlockHash() {
		t.Fatal("expected second locator to be the batch's first header hash")
	}
}

// TestHeadersNonStandardBatchRejected covers the non-standard-batch branch
// of scenario (b): a short batch far from the switchover window is a
// protocol error.
func TestHeadersNonStandardBatchRejected(t *testing.T) {
	disconnected := make(chan error, 1)
	p, remote, _ := connectTestPeer(t, &Config{
		EarliestKeyTime: time.Unix(1500000000, 0),
		Listeners: Listeners{
			OnDisconnected: func(p *Peer, err error) { disconnected <- err },
		},
	})
	defer p.Disconnect()

	short := wire.NewMsgHeaders()
	if err := short.AddBlockHeader(buildHeader(time.Unix(1000000000, 0), 1)); err != nil {
		t.Fatalf("AddBlockHeader: %v", err)
	}
	if err := wire.WriteMessage(remote, short, wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("writing headers: %v", err)
	}

	select {
	case err := <-disconnected:
		perr, ok := err.(*Error)
		if !ok || perr.Code != ErrProtocol {
			t.Fatalf("got %v, want ErrProtocol", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for disconnect")
	}
}

// TestInvBloomGateRejectsUnsolicitedTx exercises scenario (c): an inv
// advertising tx hashes before filterload/mempool/getblocks has been sent
// is a fatal protocol violation.
func TestInvBloomGateRejectsUnsolicitedTx(t *testing.T) {
	disconnected := make(chan error, 1)
	p, remote, _ := connectTestPeer(t, &Config{
		Listeners: Listeners{
			OnDisconnected: func(p *Peer, err error) { disconnected <- err },
		},
	})
	defer p.Disconnect()

	inv := wire.NewMsgInv()
	for i := 0; i < 3; i++ {
		h := hashFromByte(byte(i + 1))
		if err := inv.AddInvVect(wire.NewInvVect(wire.InvTypeTx, &h)); err != nil {
			t.Fatalf("AddInvVect: %v", err)
		}
	}
	if err := wire.WriteMessage(remote, inv, wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("writing inv: %v", err)
	}

	select {
	case err := <-disconnected:
		perr, ok := err.(*Error)
		if !ok || perr.Code != ErrProtocol {
			t.Fatalf("got %v, want ErrProtocol", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for disconnect")
	}
}

// TestInvTarpitDetection exercises scenario (d): a small block-hash batch
// that, combined with our own known tip and known-hash count, cannot
// possibly reach the remote's claimed tip is treated as a tarpit node and
// is fatal.
func TestInvTarpitDetection(t *testing.T) {
	disconnected := make(chan error, 1)
	p, remote, _ := connectTestPeer(t, &Config{
		NewestBlock: func() (int32, error) { return 650000, nil },
		Listeners: Listeners{
			OnDisconnected: func(p *Peer, err error) { disconnected <- err },
		},
	})
	defer p.Disconnect()

	if p.currentBlockHeight != 650000 {
		t.Fatalf("currentBlockHeight = %d, want 650000 (seeded from NewestBlock)", p.currentBlockHeight)
	}

	inv := wire.NewMsgInv()
	for i := 0; i < 10; i++ {
		h := hashFromByte(byte(i + 1))
		if err := inv.AddInvVect(wire.NewInvVect(wire.InvTypeBlock, &h)); err != nil {
			t.Fatalf("AddInvVect: %v", err)
		}
	}
	if err := wire.WriteMessage(remote, inv, wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("writing inv: %v", err)
	}

	select {
	case err := <-disconnected:
		perr, ok := err.(*Error)
		if !ok || perr.Code != ErrExcess {
			t.Fatalf("got %v, want ErrExcess", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for disconnect")
	}
}

// TestMerkleBlockCompletion exercises scenario (e) and invariant 7: a
// merkleblock referencing three tx hashes, followed by those transactions
// delivered out of order, fires OnRelayedBlock exactly once and clears
// currentBlock; a subsequent unrelated message is then tolerated rather
// than tripping the mid-merkleblock guard.
func TestMerkleBlockCompletion(t *testing.T) {
	relayed := make(chan MerkleBlock, 4)
	p, remote, ch := connectTestPeer(t, &Config{
		TxCodec:          testTxCodec{},
		MerkleBlockCodec: testMerkleBlockCodec{},
		Listeners: Listeners{
			OnRelayedBlock: func(p *Peer, block MerkleBlock) { relayed <- block },
		},
	})
	defer p.Disconnect()

	// Satisfy the "filterload or getdata already sent" precondition the
	// way a real flow would: an inv advertising a block hash causes the
	// peer to issue its own getdata, setting sentGetdata.
	blockHash := hashFromByte(99)
	primer := wire.NewMsgInv()
	if err := primer.AddInvVect(wire.NewInvVect(wire.InvTypeFilteredBlk, &blockHash)); err != nil {
		t.Fatalf("AddInvVect: %v", err)
	}
	if err := wire.WriteMessage(remote, primer, wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("writing inv: %v", err)
	}
	recvWithin(t, ch, 2*time.Second) // the resulting getdata

	h1, h2, h3 := hashFromByte(1), hashFromByte(2), hashFromByte(3)
	raw := append(append(append([]byte{}, h1[:]...), h2[:]...), h3[:]...)
	mb := wire.NewMsgMerkleBlock(raw)
	if err := wire.WriteMessage(remote, mb, wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("writing merkleblock: %v", err)
	}

	// Deliver out of order: h2, h1, h3.
	for _, h := range []chainhash.Hash{h2, h1, h3} {
		tx := wire.NewMsgTx(h[:])
		if err := wire.WriteMessage(remote, tx, wire.ProtocolVersion, wire.MainNet); err != nil {
			t.Fatalf("writing tx: %v", err)
		}
	}

	select {
	case <-relayed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for OnRelayedBlock")
	}
	select {
	case <-relayed:
		t.Fatal("OnRelayedBlock fired more than once")
	case <-time.After(100 * time.Millisecond):
	}

	deadline := time.Now().Add(2 * time.Second)
	for p.currentBlock != nil {
		if time.Now().After(deadline) {
			t.Fatal("currentBlock never cleared")
		}
		time.Sleep(time.Millisecond)
	}

	// A ping now arriving should not trip the mid-merkleblock guard.
	if err := wire.WriteMessage(remote, wire.NewMsgPing(1), wire.ProtocolVersion, wire.MainNet); err != nil {
		t.Fatalf("writing ping: %v", err)
	}
	msg := recvWithin(t, ch, 2*time.Second)
	if _, ok := msg.(*wire.MsgPong); !ok {
		t.Fatalf("got %T, want *wire.MsgPong (peer should still be healthy)", msg)
	}
}

// TestRerequestBlocks exercises scenario (f): after a filter update, the
// caller replays from a known point and the peer discards everything
// earlier, re-requesting only the remaining blocks.
func TestRerequestBlocks(t *testing.T) {
	p, remote, ch := connectTestPeer(t, &Config{})
	defer p.Disconnect()

	hashes := make([]chainhash.Hash, 5)
	for i := range hashes {
		hashes[i] = hashFromByte(byte(i + 1))
		p.knownBlockHashes.Add(hashes[i])
	}

	if err := p.RerequestBlocks(hashes[2]); err != nil {
		t.Fatalf("RerequestBlocks: %v", err)
	}

	msg := recvWithin(t, ch, 2*time.Second)
	getdata, ok := msg.(*wire.MsgGetData)
	if !ok {
		t.Fatalf("got %T, want *wire.MsgGetData", msg)
	}
	if len(getdata.InvList) != 3 {
		t.Fatalf("got %d inv entries, want 3", len(getdata.InvList))
	}
	for i, want := range hashes[2:] {
		if getdata.InvList[i].Hash != want {
			t.Fatalf("inv[%d] = %x, want %x", i, getdata.InvList[i].Hash, want)
		}
	}

	if p.knownBlockHashes.Len() != 3 {
		t.Fatalf("knownBlockHashes.Len() = %d, want 3", p.knownBlockHashes.Len())
	}
	for _, h := range hashes[:2] {
		if p.knownBlockHashes.Has(h) {
			t.Fatalf("expected %x discarded from knownBlockHashes", h)
		}
	}

	_ = remote
}
