// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgTx implements the Message interface as an opaque carrier for a
// transaction's raw wire bytes. This package never parses transaction
// contents - that is an external collaborator's job (spec §6's
// "Transaction parser/serializer"); the codec's only responsibility is to
// frame and deliver the bytes intact.
type MsgTx struct {
	Raw []byte
}

// NewMsgTx returns a new tx message wrapping the given pre-serialized raw
// transaction bytes.
func NewMsgTx(raw []byte) *MsgTx { return &MsgTx{Raw: raw} }

// BtcDecode decodes r using the protocol encoding into the receiver.
func (msg *MsgTx) BtcDecode(r io.Reader, pver uint32) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	msg.Raw = raw
	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgTx) BtcEncode(w io.Writer, pver uint32) error {
	_, err := w.Write(msg.Raw)
	return err
}

// Command returns the protocol command string for the message.
func (msg *MsgTx) Command() string { return CmdTx }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgTx) MaxPayloadLength(pver uint32) uint32 { return MaxMessagePayload }
