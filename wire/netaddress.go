// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"
	"net"
	"time"
)

// netAddressSize is the encoded size of a NetAddress entry inside an addr
// message body: 4-byte timestamp, 8-byte services, 16-byte address,
// 2-byte port (spec §4.5: "each entry is 30 bytes").
const netAddressSize = 4 + 8 + 16 + 2

// NetAddress defines information about a peer on the network, as reported
// in version and addr messages.
type NetAddress struct {
	Timestamp time.Time
	Services  ServiceFlag
	IP        net.IP
	Port      uint16
}

// NewNetAddressIPPort creates a NetAddress using the provided IP, port, and
// supported services with defaults for the remaining fields.
func NewNetAddressIPPort(ip net.IP, port uint16, services ServiceFlag) *NetAddress {
	return &NetAddress{
		Timestamp: time.Now(),
		Services:  services,
		IP:        ip,
		Port:      port,
	}
}

// writeNetAddress writes na to w. When hasTimestamp is false, the leading
// 4-byte timestamp field is omitted, matching the version message's
// embedded addresses (spec §4.3).
func writeNetAddress(w io.Writer, na *NetAddress, hasTimestamp bool) error {
	if hasTimestamp {
		var tsBuf [4]byte
		binary.LittleEndian.PutUint32(tsBuf[:], uint32(na.Timestamp.Unix()))
		if _, err := w.Write(tsBuf[:]); err != nil {
			return err
		}
	}

	var buf [8 + 16 + 2]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(na.Services))

	ip := na.IP.To4()
	if ip != nil {
		// IPv4-mapped IPv6 address per the wire format.
		copy(buf[8:24], []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff})
		copy(buf[18:24], ip)
	} else if na.IP.To16() != nil {
		copy(buf[8:24], na.IP.To16())
	}

	binary.BigEndian.PutUint16(buf[24:26], na.Port)
	_, err := w.Write(buf[:])
	return err
}

// readNetAddress reads a NetAddress from r.
func readNetAddress(r io.Reader, na *NetAddress, hasTimestamp bool) error {
	if hasTimestamp {
		var tsBuf [4]byte
		if _, err := io.ReadFull(r, tsBuf[:]); err != nil {
			return err
		}
		na.Timestamp = time.Unix(int64(binary.LittleEndian.Uint32(tsBuf[:])), 0)
	}

	var buf [8 + 16 + 2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	na.Services = ServiceFlag(binary.LittleEndian.Uint64(buf[0:8]))

	ipBytes := make([]byte, 16)
	copy(ipBytes, buf[8:24])
	na.IP = net.IP(ipBytes)
	na.Port = binary.BigEndian.Uint16(buf[24:26])
	return nil
}
