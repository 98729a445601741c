// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import "github.com/tinhnguyenhn/colxspv/wire"

// dispatch routes a decoded message to its handler (spec §4.4). It
// enforces the "no non-tx message mid-merkleblock" guard before anything
// else: once a merkleblock has arrived, the remote's sole obligation is
// to deliver the referenced transactions before any other traffic.
func (p *Peer) dispatch(msg wire.Message) error {
	if msg == nil {
		// Unknown command: benign, ignored (spec §4.4). A merkleblock
		// in progress still tolerates this as it tolerates nothing
		// else, since we cannot name the command that arrived - but
		// treating an unrecognized frame as non-tx traffic mid-block
		// would be over-eager, so unknown commands pass through
		// without tripping the guard.
		log.Debugf("ignoring unknown command from %s", p.addr)
		return nil
	}

	if p.currentBlock != nil && msg.Command() != wire.CmdTx {
		p.currentBlock = nil
		p.currentBlockTxHashes = nil
		return protoErr("incomplete merkleblock: got %s before all referenced tx delivered",
			msg.Command())
	}

	if p.recvTap != nil {
		select {
		case p.recvTap <- msg:
		default:
		}
	}

	switch m := msg.(type) {
	case *wire.MsgVersion:
		return p.handleVersion(m)
	case *wire.MsgVerAck:
		return p.handleVerAck()
	case *wire.MsgAddr:
		return p.handleAddr(m)
	case *wire.MsgInv:
		return p.handleInv(m)
	case *wire.MsgTx:
		return p.handleTx(m)
	case *wire.MsgHeaders:
		return p.handleHeaders(m)
	case *wire.MsgGetAddr:
		return p.sendAddr()
	case *wire.MsgGetData:
		return p.handleGetData(m)
	case *wire.MsgNotFound:
		return p.handleNotFound(m)
	case *wire.MsgPing:
		return p.handlePing(m)
	case *wire.MsgPong:
		return p.handlePong(m)
	case *wire.MsgMerkleBlock:
		return p.handleMerkleBlock(m)
	case *wire.MsgReject:
		return p.handleReject(m)
	default:
		// Unknown or not-yet-modeled commands are logged and ignored
		// (spec §4.4).
		log.Debugf("ignoring unhandled command from %s", p.addr)
		return nil
	}
}
