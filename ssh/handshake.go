// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

// HandshakeState names a step in the key-exchange state machine of RFC
// 4253 sections 7 and 8. Transitions are driven exclusively by decoded
// messages; a message whose ID is not expected in the current state is
// a protocol violation, not a malformed encoding.
type HandshakeState int

const (
	AwaitingBanner HandshakeState = iota
	AwaitingPeerKexInit
	AwaitingKexDHInit  // server only
	AwaitingKexDHReply // client only
	AwaitingNewKeys
	Established
)

// Role distinguishes which side of the exchange a Handshake is driving;
// it decides whether AwaitingPeerKexInit advances to AwaitingKexDHInit
// or AwaitingKexDHReply, and which side of NegotiateAlgorithms' client/
// server arguments this side's own KexInit plays.
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

// Handshake drives one side of a single key exchange from banner
// exchange through NEWKEYS. It holds no I/O state: every method takes
// already-decoded input and returns either an updated state or an error
// the caller should turn into a disconnect.
type Handshake struct {
	role  Role
	state HandshakeState

	LocalVersion, PeerVersion []byte
	LocalKexInit, PeerKexInit *KexInitMsg
	Negotiation               *Negotiation

	// PeerGuessedWrong is set once the peer's KexInit arrives if it set
	// FirstKexPacketFollows but its top preference was not the
	// negotiated algorithm: the caller must discard the peer's next kex
	// packet rather than parse it, per RFC 4253 section 7.1.
	PeerGuessedWrong bool
}

// NewHandshake starts a Handshake in AwaitingBanner, with a freshly
// built local KexInit advertising the given algorithm preferences.
func NewHandshake(role Role, prefs *AlgorithmPreferences, firstKexPacketFollows bool) *Handshake {
	return &Handshake{
		role:         role,
		state:        AwaitingBanner,
		LocalKexInit: BuildKexInitWithPreferences(prefs, firstKexPacketFollows),
	}
}

// State returns the handshake's current step.
func (h *Handshake) State() HandshakeState {
	return h.state
}

// CompleteBannerExchange records both sides' version strings (without
// CR/LF) and advances to AwaitingPeerKexInit.
func (h *Handshake) CompleteBannerExchange(localVersion, peerVersion []byte) error {
	if h.state != AwaitingBanner {
		return protocolError("banner already exchanged")
	}
	h.LocalVersion = localVersion
	h.PeerVersion = peerVersion
	h.state = AwaitingPeerKexInit
	return nil
}

// HandlePeerKexInit consumes the peer's KEXINIT, negotiates algorithms
// against the local KexInit, and advances to the side-appropriate DH
// state. The returned Negotiation is also stored on the Handshake.
func (h *Handshake) HandlePeerKexInit(peer *KexInitMsg) (*Negotiation, error) {
	if h.state != AwaitingPeerKexInit {
		return nil, protocolError("KEXINIT not expected in this state")
	}
	if peer.InputBuf == nil {
		return nil, protocolError("peer KexInit missing retained input buffer")
	}
	h.PeerKexInit = peer

	var client, server *KexInitMsg
	if h.role == RoleClient {
		client, server = h.LocalKexInit, peer
	} else {
		client, server = peer, h.LocalKexInit
	}

	n, err := NegotiateAlgorithms(client, server)
	if err != nil {
		return nil, err
	}
	h.Negotiation = n

	if peer.FirstKexPacketFollows {
		h.PeerGuessedWrong = !GuessesFirstKexPacket(peer, n.Kex)
	}

	if h.role == RoleServer {
		h.state = AwaitingKexDHInit
	} else {
		h.state = AwaitingKexDHReply
	}
	return n, nil
}

// HandleKexDHInit is the server-side transition out of AwaitingKexDHInit
// once it has produced (or is about to produce) its KexDHReplyMsg.
func (h *Handshake) HandleKexDHInit() error {
	if h.role != RoleServer {
		return protocolError("KEXDH_INIT is a server-side message")
	}
	if h.state != AwaitingKexDHInit {
		return protocolError("KEXDH_INIT not expected in this state")
	}
	h.state = AwaitingNewKeys
	return nil
}

// HandleKexDHReply is the client-side transition out of
// AwaitingKexDHReply once the server's host-key signature has verified.
func (h *Handshake) HandleKexDHReply() error {
	if h.role != RoleClient {
		return protocolError("KEXDH_REPLY is a client-side message")
	}
	if h.state != AwaitingKexDHReply {
		return protocolError("KEXDH_REPLY not expected in this state")
	}
	h.state = AwaitingNewKeys
	return nil
}

// HandleNewKeys consumes the peer's NEWKEYS message and completes the
// handshake.
func (h *Handshake) HandleNewKeys() error {
	if h.state != AwaitingNewKeys {
		return protocolError("NEWKEYS not expected in this state")
	}
	h.state = Established
	return nil
}

// allowedMessageIDs maps each pre-Established state to the message IDs
// a peer may legitimately send while the Handshake is in it. Messages
// outside this set are a ProtocolError, distinct from a malformed
// encoding of an otherwise-allowed message.
var allowedMessageIDs = map[HandshakeState]map[byte]bool{
	AwaitingPeerKexInit: {msgKexInit: true, msgDisconnect: true, msgIgnore: true, msgDebug: true},
	AwaitingKexDHInit:   {msgKexDHInit: true, msgDisconnect: true, msgIgnore: true, msgDebug: true},
	AwaitingKexDHReply:  {msgKexDHReply: true, msgDisconnect: true, msgIgnore: true, msgDebug: true},
	AwaitingNewKeys:     {msgNewKeys: true, msgDisconnect: true, msgIgnore: true, msgDebug: true},
}

// CheckMessageAllowed reports a ProtocolError if msgID is not valid for
// the handshake's current state. Established accepts anything; the
// post-handshake message set is the rest of the core's concern.
func (h *Handshake) CheckMessageAllowed(msgID byte) error {
	if h.state == Established {
		return nil
	}
	allowed, ok := allowedMessageIDs[h.state]
	if !ok || !allowed[msgID] {
		return protocolError("unexpected message for current handshake state")
	}
	return nil
}
