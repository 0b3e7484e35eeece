// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import "errors"

// ErrNeedMore is returned by ScanVersion when the input does not yet
// contain a complete banner line. It is not an error for the framing
// collaborator: the caller should read more bytes and retry. Message
// decoding (Decode and the Reader primitives) reports truncated input as
// a MalformedError instead.
var ErrNeedMore = errors.New("ssh: need more input")

// MalformedError reports a length overflow, an exceeded resource cap,
// unexpected trailing bytes, a version mismatch, an unknown algorithm
// string, or a DH shared-secret failure. See RFC 4253 section 11.1 for the
// disconnect reason codes a caller should use when surfacing one of these.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "ssh: malformed: " + e.Reason
}

func malformed(reason string) error {
	return &MalformedError{Reason: reason}
}

// ProtocolError reports a validly encoded message that is not expected in
// the current handshake state (see handshake.go).
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "ssh: protocol error: " + e.Reason
}

func protocolError(reason string) error {
	return &ProtocolError{Reason: reason}
}

// NegotiationError reports that the client and server offered no common
// algorithm for the named slot. The Slot text is preserved verbatim so
// that a caller can use it as the description of an outbound
// SSH_MSG_DISCONNECT.
type NegotiationError struct {
	Slot string
}

func (e *NegotiationError) Error() string {
	return "ssh: " + e.Slot
}

func negotiationError(slot string) error {
	return &NegotiationError{Slot: slot}
}

// UnimplementedError reports a syntactically valid message ID that this
// core does not handle. The caller should reply with SSH_MSG_UNIMPLEMENTED
// carrying the peer's sequence number (see UnimplementedMsg).
type UnimplementedError struct {
	MessageID byte
}

func (e *UnimplementedError) Error() string {
	return "ssh: unimplemented message type"
}

func unimplemented(id byte) error {
	return &UnimplementedError{MessageID: id}
}
