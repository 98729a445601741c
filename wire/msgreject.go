// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MsgReject implements the Message interface and represents a reject
// message sent in response to a malformed or otherwise rejected message,
// decoded as (message-type, code, reason, optional 32-byte hash) per
// spec §4.5.
type MsgReject struct {
	Cmd    string
	Code   RejectCode
	Reason string
	Hash   chainhash.Hash
}

// NewMsgReject returns a new reject message with no hash set.
func NewMsgReject(command string, code RejectCode, reason string) *MsgReject {
	return &MsgReject{Cmd: command, Code: code, Reason: reason}
}

// BtcDecode decodes r using the protocol encoding into the receiver. The
// trailing hash is only present for block/tx rejects; its absence is not
// an error, just an empty hash.
func (msg *MsgReject) BtcDecode(r io.Reader, pver uint32) error {
	cmd, err := ReadVarString(r)
	if err != nil {
		return err
	}
	msg.Cmd = cmd

	var codeBuf [1]byte
	if _, err := io.ReadFull(r, codeBuf[:]); err != nil {
		return err
	}
	msg.Code = RejectCode(codeBuf[0])

	reason, err := ReadVarString(r)
	if err != nil {
		return err
	}
	msg.Reason = reason

	if msg.Cmd == CmdBlock || msg.Cmd == CmdTx {
		if _, err := io.ReadFull(r, msg.Hash[:]); err != nil {
			return err
		}
	}
	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgReject) BtcEncode(w io.Writer, pver uint32) error {
	if err := WriteVarString(w, msg.Cmd); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(msg.Code)}); err != nil {
		return err
	}
	if err := WriteVarString(w, msg.Reason); err != nil {
		return err
	}
	if msg.Cmd == CmdBlock || msg.Cmd == CmdTx {
		if _, err := w.Write(msg.Hash[:]); err != nil {
			return err
		}
	}
	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgReject) Command() string { return CmdReject }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgReject) MaxPayloadLength(pver uint32) uint32 {
	return (1 + maxVarStringLen) + 1 + (1 + maxVarStringLen) + chainhash.HashSize
}
