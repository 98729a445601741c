// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// hashQueue is a bounded, ordered set of hashes: membership testing is
// O(1) via a value-keyed map, and insertion order is tracked so the
// oldest entries can be evicted once the cap is reached.
//
// BRPeer.c keeps "known" hash lists as plain C arrays of pointers into a
// hash table, which invites dangling-pointer bugs when an entry is freed
// out from under an in-flight reference (spec §9's design note). Keying
// the map directly on the 32-byte array value rather than a pointer
// sidesteps that class of bug entirely - there is nothing to invalidate.
type hashQueue struct {
	cap     int
	order   []chainhash.Hash
	present map[chainhash.Hash]struct{}
}

func newHashQueue(capacity int) *hashQueue {
	return &hashQueue{
		cap:     capacity,
		present: make(map[chainhash.Hash]struct{}),
	}
}

// Has reports whether hash is a member.
func (q *hashQueue) Has(hash chainhash.Hash) bool {
	_, ok := q.present[hash]
	return ok
}

// Add inserts hash if not already present, evicting the oldest third of
// entries first if doing so would exceed the configured cap - matching
// BRPeer.c's knownBlockHashes/knownTxHashes trim behavior.
func (q *hashQueue) Add(hash chainhash.Hash) {
	if q.Has(hash) {
		return
	}
	if q.cap > 0 && len(q.order) >= q.cap {
		q.trimOldestThird()
	}
	q.order = append(q.order, hash)
	q.present[hash] = struct{}{}
}

func (q *hashQueue) trimOldestThird() {
	n := len(q.order) / 3
	if n == 0 {
		n = 1
	}
	for _, h := range q.order[:n] {
		delete(q.present, h)
	}
	remaining := len(q.order) - n
	copy(q.order, q.order[n:])
	q.order = q.order[:remaining]
}

// Len returns the current number of members.
func (q *hashQueue) Len() int { return len(q.order) }
