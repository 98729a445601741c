// Copyright (c) 2013-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import "fmt"

// ErrorCode identifies the broad category of a terminal peer error, per
// spec §7.
type ErrorCode int

// Error codes surfaced to the owner's OnDisconnected callback.
const (
	// ErrProtocol covers malformed frames, bad checksums, guard-rule
	// violations, and anything else that indicates the remote broke the
	// protocol contract.
	ErrProtocol ErrorCode = iota

	// ErrTransport covers socket failures, EOF, and send failures.
	ErrTransport

	// ErrTimeout covers the connect timeout and the disconnect deadline.
	ErrTimeout

	// ErrExcess covers an inv carrying too many tx items and tarpit
	// detection: non-standard volume the spec treats as fatal rather
	// than benign.
	ErrExcess
)

func (c ErrorCode) String() string {
	switch c {
	case ErrProtocol:
		return "EPROTO"
	case ErrTransport:
		return "ETRANSPORT"
	case ErrTimeout:
		return "TIMEDOUT"
	case ErrExcess:
		return "EEXCESS"
	default:
		return "EUNKNOWN"
	}
}

// Error is the error type returned by peer operations and passed to
// OnDisconnected. It always carries a Code so callers can branch on the
// error class without string matching, per spec §7's policy that "the core
// does not retry at this layer; it surfaces a terminal disconnected(err)".
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func protoErr(format string, args ...interface{}) *Error {
	return &Error{Code: ErrProtocol, Err: fmt.Errorf(format, args...)}
}

func transportErr(err error) *Error {
	return &Error{Code: ErrTransport, Err: err}
}

func timeoutErr(format string, args ...interface{}) *Error {
	return &Error{Code: ErrTimeout, Err: fmt.Errorf(format, args...)}
}

func excessErr(format string, args ...interface{}) *Error {
	return &Error{Code: ErrExcess, Err: fmt.Errorf(format, args...)}
}
