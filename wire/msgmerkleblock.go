// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "io"

// MsgMerkleBlock implements the Message interface as an opaque carrier for
// a merkleblock's raw wire bytes (header + partial merkle tree). Parsing
// and validating its contents is an external collaborator's job (spec §6's
// "Merkle-block parser/validator"); the codec only frames and delivers the
// bytes intact.
type MsgMerkleBlock struct {
	Raw []byte
}

// NewMsgMerkleBlock returns a new merkleblock message wrapping the given
// pre-serialized raw bytes.
func NewMsgMerkleBlock(raw []byte) *MsgMerkleBlock { return &MsgMerkleBlock{Raw: raw} }

// BtcDecode decodes r using the protocol encoding into the receiver.
func (msg *MsgMerkleBlock) BtcDecode(r io.Reader, pver uint32) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	msg.Raw = raw
	return nil
}

// BtcEncode encodes the receiver to w using the protocol encoding.
func (msg *MsgMerkleBlock) BtcEncode(w io.Writer, pver uint32) error {
	_, err := w.Write(msg.Raw)
	return err
}

// Command returns the protocol command string for the message.
func (msg *MsgMerkleBlock) Command() string { return CmdMerkleBlock }

// MaxPayloadLength returns the maximum length the payload can be.
func (msg *MsgMerkleBlock) MaxPayloadLength(pver uint32) uint32 { return MaxMessagePayload }
