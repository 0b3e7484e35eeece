// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import "testing"

func decodedKexInit(t *testing.T, firstKexPacketFollows bool) *KexInitMsg {
	t.Helper()
	wire := Encode(BuildKexInit(firstKexPacketFollows))
	msg, _, err := Decode(wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return msg.(*KexInitMsg)
}

func TestHandshakeHappyPathClient(t *testing.T) {
	h := NewHandshake(RoleClient, nil, false)
	if h.State() != AwaitingBanner {
		t.Fatalf("initial state = %v, want AwaitingBanner", h.State())
	}
	if err := h.CompleteBannerExchange([]byte("sshwire"), []byte("OpenSSH")); err != nil {
		t.Fatalf("CompleteBannerExchange: %v", err)
	}
	if h.State() != AwaitingPeerKexInit {
		t.Fatalf("state after banner = %v, want AwaitingPeerKexInit", h.State())
	}

	peer := decodedKexInit(t, false)
	if _, err := h.HandlePeerKexInit(peer); err != nil {
		t.Fatalf("HandlePeerKexInit: %v", err)
	}
	if h.State() != AwaitingKexDHReply {
		t.Fatalf("state after KexInit (client) = %v, want AwaitingKexDHReply", h.State())
	}

	if err := h.HandleKexDHReply(); err != nil {
		t.Fatalf("HandleKexDHReply: %v", err)
	}
	if h.State() != AwaitingNewKeys {
		t.Fatalf("state = %v, want AwaitingNewKeys", h.State())
	}

	if err := h.HandleNewKeys(); err != nil {
		t.Fatalf("HandleNewKeys: %v", err)
	}
	if h.State() != Established {
		t.Fatalf("state = %v, want Established", h.State())
	}
}

func TestHandshakeHappyPathServer(t *testing.T) {
	h := NewHandshake(RoleServer, nil, false)
	h.CompleteBannerExchange([]byte("sshwire"), []byte("libssh"))

	peer := decodedKexInit(t, false)
	if _, err := h.HandlePeerKexInit(peer); err != nil {
		t.Fatalf("HandlePeerKexInit: %v", err)
	}
	if h.State() != AwaitingKexDHInit {
		t.Fatalf("state after KexInit (server) = %v, want AwaitingKexDHInit", h.State())
	}
	if err := h.HandleKexDHInit(); err != nil {
		t.Fatalf("HandleKexDHInit: %v", err)
	}
	if h.State() != AwaitingNewKeys {
		t.Fatalf("state = %v, want AwaitingNewKeys", h.State())
	}
}

func TestHandshakeRejectsOutOfOrderKexDHReply(t *testing.T) {
	h := NewHandshake(RoleClient, nil, false)
	if err := h.HandleKexDHReply(); err == nil {
		t.Errorf("expected ProtocolError before KexInit exchange")
	}
}

func TestHandshakeRejectsWrongRoleTransition(t *testing.T) {
	h := NewHandshake(RoleClient, nil, false)
	h.CompleteBannerExchange([]byte("a"), []byte("b"))
	peer := decodedKexInit(t, false)
	h.HandlePeerKexInit(peer)

	if err := h.HandleKexDHInit(); err == nil {
		t.Errorf("expected ProtocolError: KEXDH_INIT is a server-side message")
	}
}

func TestHandshakeCheckMessageAllowed(t *testing.T) {
	h := NewHandshake(RoleClient, nil, false)
	h.CompleteBannerExchange([]byte("a"), []byte("b"))

	if err := h.CheckMessageAllowed(msgKexInit); err != nil {
		t.Errorf("KEXINIT should be allowed in AwaitingPeerKexInit: %v", err)
	}
	if err := h.CheckMessageAllowed(msgChannelOpenConfirm); err == nil {
		t.Errorf("expected ProtocolError for channel message before handshake completes")
	}
}

func TestHandshakeDetectsPeerGuessedWrong(t *testing.T) {
	// The server only offers group14; the (client) peer guesses group1
	// will be negotiated and sends its first kex packet early. Since
	// group1 isn't even on the server's list, group14 is negotiated
	// instead and the peer's guess was wrong.
	h := NewHandshake(RoleServer, &AlgorithmPreferences{Kex: []string{"diffie-hellman-group14-sha1"}}, false)
	h.CompleteBannerExchange([]byte("a"), []byte("b"))

	wire := Encode(&KexInitMsg{
		KexAlgos:                []string{"diffie-hellman-group1-sha1", "diffie-hellman-group14-sha1"},
		ServerHostKeyAlgos:      PreferredHostKeyAlgos,
		CiphersClientServer:     PreferredCipherAlgos,
		CiphersServerClient:     PreferredCipherAlgos,
		MACsClientServer:        PreferredMACAlgos,
		MACsServerClient:        PreferredMACAlgos,
		CompressionClientServer: PreferredCompressionAlgos,
		CompressionServerClient: PreferredCompressionAlgos,
		LanguagesClientServer:   []string{},
		LanguagesServerClient:   []string{},
		FirstKexPacketFollows:   true,
	})
	peer, _, err := Decode(wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	n, err := h.HandlePeerKexInit(peer.(*KexInitMsg))
	if err != nil {
		t.Fatalf("HandlePeerKexInit: %v", err)
	}
	if n.Kex != KexDiffieHellmanGroup14SHA1 {
		t.Fatalf("negotiated %v, want group14", n.Kex)
	}
	if !h.PeerGuessedWrong {
		t.Errorf("expected PeerGuessedWrong to be set")
	}
}
