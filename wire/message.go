// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Message is the interface every wire message payload implements: decode
// from and encode to the message's payload region (the frame header is
// handled uniformly by ReadMessage/WriteMessage, never by the message
// itself).
type Message interface {
	BtcDecode(r io.Reader, pver uint32) error
	BtcEncode(w io.Writer, pver uint32) error
	Command() string
	MaxPayloadLength(pver uint32) uint32
}

// MessageError describes an issue with a message; these are always fatal
// to the connection per spec §7 ("Protocol error").
type MessageError struct {
	Func        string
	Description string
}

func (e *MessageError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("wire: %s: %s", e.Func, e.Description)
	}
	return "wire: " + e.Description
}

func messageError(f, desc string) *MessageError {
	return &MessageError{Func: f, Description: desc}
}

// makeEmptyMessage returns an appropriately typed, empty Message for the
// given command name so its BtcDecode method can be invoked, or an error
// if the command is unknown. Unknown commands are a benign condition in
// this protocol (spec §4.4: "Unknown commands are logged and ignored"),
// so callers should treat the returned error as "skip this frame", not as
// fatal.
func makeEmptyMessage(command string) (Message, error) {
	switch command {
	case CmdVersion:
		return &MsgVersion{}, nil
	case CmdVerAck:
		return &MsgVerAck{}, nil
	case CmdAddr:
		return &MsgAddr{}, nil
	case CmdInv:
		return &MsgInv{}, nil
	case CmdGetData:
		return &MsgGetData{}, nil
	case CmdNotFound:
		return &MsgNotFound{}, nil
	case CmdGetBlocks:
		return &MsgGetBlocks{}, nil
	case CmdGetHeaders:
		return &MsgGetHeaders{}, nil
	case CmdTx:
		return &MsgTx{}, nil
	case CmdMerkleBlock:
		return &MsgMerkleBlock{}, nil
	case CmdHeaders:
		return &MsgHeaders{}, nil
	case CmdMemPool:
		return &MsgMemPool{}, nil
	case CmdPing:
		return &MsgPing{}, nil
	case CmdPong:
		return &MsgPong{}, nil
	case CmdFilterLoad:
		return &MsgFilterLoad{}, nil
	case CmdGetAddr:
		return &MsgGetAddr{}, nil
	case CmdReject:
		return &MsgReject{}, nil
	default:
		return nil, fmt.Errorf("unhandled command [%s]", command)
	}
}

// messageHeader is the decoded form of the 24-byte frame header described
// in spec §4.1.
type messageHeader struct {
	magic    BitcoinNet
	command  string
	length   uint32
	checksum [4]byte
}

// encodeCommand writes command NUL-padded to CommandSize bytes.
func encodeCommand(command string) ([CommandSize]byte, error) {
	var buf [CommandSize]byte
	if len(command) > CommandSize {
		return buf, messageError("encodeCommand",
			fmt.Sprintf("command %q longer than %d bytes", command, CommandSize))
	}
	copy(buf[:], command)
	return buf, nil
}

// decodeCommand validates and decodes a NUL-padded command field. Per
// spec §4.1, bytes after the first NUL must all be zero or the frame is
// rejected.
func decodeCommand(raw [CommandSize]byte) (string, error) {
	nul := bytes.IndexByte(raw[:], 0)
	if nul == -1 {
		// No NUL at all: the full field is taken as the command, which
		// is only valid if it's exactly CommandSize bytes - there's no
		// room for padding, so this is the unpadded boundary case.
		return string(raw[:]), nil
	}
	for _, b := range raw[nul:] {
		if b != 0 {
			return "", messageError("decodeCommand",
				"non-zero byte after command NUL terminator")
		}
	}
	return string(raw[:nul]), nil
}

// writeMessageHeader writes the 24-byte frame header for command/payload
// to w, computing the checksum over payload via double-SHA-256.
func writeMessageHeader(w io.Writer, magic BitcoinNet, command string, payload []byte) error {
	cmdBytes, err := encodeCommand(command)
	if err != nil {
		return err
	}

	var hdr [MessageHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(magic))
	copy(hdr[4:16], cmdBytes[:])
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(len(payload)))

	sum := chainhash.DoubleHashB(payload)
	copy(hdr[20:24], sum[:4])

	_, err = w.Write(hdr[:])
	return err
}

// WriteMessage writes a fully framed message (header + encoded payload) to
// w for the given protocol version and network. The entire frame is
// assembled in a local buffer and written in one call so a concurrent
// reader of the same connection never observes a torn frame (spec §5).
func WriteMessage(w io.Writer, msg Message, pver uint32, magic BitcoinNet) error {
	var payloadBuf bytes.Buffer
	if err := msg.BtcEncode(&payloadBuf, pver); err != nil {
		return err
	}
	payload := payloadBuf.Bytes()

	maxLen := msg.MaxPayloadLength(pver)
	if uint32(len(payload)) > maxLen {
		return messageError("WriteMessage",
			fmt.Sprintf("message payload is too large - encoded %d bytes, but maximum message payload is %d bytes",
				len(payload), maxLen))
	}

	var frame bytes.Buffer
	frame.Grow(MessageHeaderSize + len(payload))
	if err := writeMessageHeader(&frame, magic, msg.Command(), payload); err != nil {
		return err
	}
	frame.Write(payload)

	_, err := w.Write(frame.Bytes())
	return err
}

// magicBytes returns the little-endian wire encoding of a BitcoinNet magic.
func magicBytes(magic BitcoinNet) [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(magic))
	return b
}

// syncToMagic reads from r one byte at a time, maintaining a sliding
// 4-byte window, until that window equals the expected magic. This is the
// decoder resync discipline of spec §4.1: "when the first 4 bytes of the
// header buffer do not equal the expected magic, the codec shifts the
// buffer left by one byte and continues reading." It recovers from
// mid-stream desync without ever closing the connection.
func syncToMagic(r io.Reader, magic BitcoinNet) error {
	want := magicBytes(magic)
	var window [4]byte
	filled := 0
	shifted := 0

	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}
		if filled < 4 {
			window[filled] = b[0]
			filled++
		} else {
			window[0], window[1], window[2] = window[1], window[2], window[3]
			window[3] = b[0]
			shifted++
		}
		if filled == 4 && window == want {
			if shifted > 0 {
				log.Debugf("resynced after %d junk bytes", shifted)
			}
			return nil
		}
	}
}

// ReadMessage reads a single framed message from r for the given protocol
// version and network, returning the decoded message (nil for unknown
// commands) and the raw payload bytes. Unknown commands
// are not an error at this layer - the dispatcher decides what "benign"
// means - but the payload is still returned so callers that need it (none
// currently do) could inspect it.
func ReadMessage(r io.Reader, pver uint32, magic BitcoinNet) (Message, []byte, error) {
	if err := syncToMagic(r, magic); err != nil {
		return nil, nil, err
	}

	var rest [MessageHeaderSize - 4]byte
	if _, err := io.ReadFull(r, rest[:]); err != nil {
		return nil, nil, err
	}

	var cmdBytes [CommandSize]byte
	copy(cmdBytes[:], rest[0:CommandSize])
	command, err := decodeCommand(cmdBytes)
	if err != nil {
		return nil, nil, err
	}

	length := binary.LittleEndian.Uint32(rest[CommandSize : CommandSize+4])
	if length > MaxMessagePayload {
		return nil, nil, messageError("ReadMessage",
			fmt.Sprintf("payload length %d exceeds max %d", length, MaxMessagePayload))
	}

	var checksum [4]byte
	copy(checksum[:], rest[CommandSize+4:CommandSize+8])

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, err
		}
	}

	sum := chainhash.DoubleHashB(payload)
	if !bytes.Equal(sum[:4], checksum[:]) {
		return nil, nil, messageError("ReadMessage",
			fmt.Sprintf("checksum failed for command %q - got %x, want %x",
				command, checksum, sum[:4]))
	}

	msg, err := makeEmptyMessage(command)
	if err != nil {
		// Unknown command: benign, return the raw payload with a nil
		// Message so the dispatcher can log-and-ignore.
		return nil, payload, nil
	}

	maxLen := msg.MaxPayloadLength(pver)
	if uint32(len(payload)) > maxLen {
		return nil, nil, messageError("ReadMessage",
			fmt.Sprintf("payload of %q exceeds max length for command - got %d, max %d",
				command, len(payload), maxLen))
	}

	if err := msg.BtcDecode(bytes.NewReader(payload), pver); err != nil {
		return nil, nil, err
	}

	return msg, payload, nil
}
