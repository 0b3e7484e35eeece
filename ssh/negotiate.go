// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

// Negotiation is the outcome of matching a client's and a server's
// KexInitMsg against each other, one algorithm per RFC 4253 section 7.1
// slot.
type Negotiation struct {
	Kex              Kex
	HostKeyAlgo      HostKeyAlgo
	CipherClientToServer CipherAlgo
	CipherServerToClient CipherAlgo
	MACClientToServer    MACAlgo
	MACServerToClient    MACAlgo
	CompressionClientToServer CompressionAlgo
	CompressionServerToClient CompressionAlgo
}

// findAgreed walks client's list in order and returns the first entry
// also present in server's list, per RFC 4253 section 7.1: "the first
// algorithm that satisfies both sides SHOULD be chosen, ... the order of
// the client's preference is used".
func findAgreed(client, server []string) (string, bool) {
	for _, c := range client {
		for _, s := range server {
			if c == s {
				return c, true
			}
		}
	}
	return "", false
}

// NegotiateAlgorithms matches a client's and server's KexInitMsg against
// each other across every RFC 4253 section 7.1 slot, in client-preference
// order. It fails with a NegotiationError naming the first slot that
// could not be agreed, using the exact phrasing RFC implementations
// historically emit in their disconnect message (e.g. "Can't agree on
// mac algorithm client to server").
func NegotiateAlgorithms(client, server *KexInitMsg) (*Negotiation, error) {
	n := &Negotiation{}

	kexName, ok := findAgreed(client.KexAlgos, server.KexAlgos)
	if !ok {
		return nil, negotiationError("Can't agree on kex algorithm")
	}
	if n.Kex, ok = ParseKex(kexName); !ok {
		return nil, malformed("unknown kex algorithm: " + kexName)
	}

	hostKeyName, ok := findAgreed(client.ServerHostKeyAlgos, server.ServerHostKeyAlgos)
	if !ok {
		return nil, negotiationError("Can't agree on host key algorithm")
	}
	if n.HostKeyAlgo, ok = ParseHostKeyAlgo(hostKeyName); !ok {
		return nil, malformed("unknown host key algorithm: " + hostKeyName)
	}

	c2s, ok := findAgreed(client.CiphersClientServer, server.CiphersClientServer)
	if !ok {
		return nil, negotiationError("Can't agree on cipher algorithm client to server")
	}
	if n.CipherClientToServer, ok = ParseCipherAlgo(c2s); !ok {
		return nil, malformed("unknown cipher algorithm: " + c2s)
	}

	s2c, ok := findAgreed(client.CiphersServerClient, server.CiphersServerClient)
	if !ok {
		return nil, negotiationError("Can't agree on cipher algorithm server to client")
	}
	if n.CipherServerToClient, ok = ParseCipherAlgo(s2c); !ok {
		return nil, malformed("unknown cipher algorithm: " + s2c)
	}

	macC2S, ok := findAgreed(client.MACsClientServer, server.MACsClientServer)
	if !ok {
		return nil, negotiationError("Can't agree on mac algorithm client to server")
	}
	if n.MACClientToServer, ok = ParseMACAlgo(macC2S); !ok {
		return nil, malformed("unknown mac algorithm: " + macC2S)
	}

	macS2C, ok := findAgreed(client.MACsServerClient, server.MACsServerClient)
	if !ok {
		return nil, negotiationError("Can't agree on mac algorithm server to client")
	}
	if n.MACServerToClient, ok = ParseMACAlgo(macS2C); !ok {
		return nil, malformed("unknown mac algorithm: " + macS2C)
	}

	cmpC2S, ok := findAgreed(client.CompressionClientServer, server.CompressionClientServer)
	if !ok {
		return nil, negotiationError("Can't agree on compression algorithm client to server")
	}
	if n.CompressionClientToServer, ok = ParseCompressionAlgo(cmpC2S); !ok {
		return nil, malformed("unknown compression algorithm: " + cmpC2S)
	}

	cmpS2C, ok := findAgreed(client.CompressionServerClient, server.CompressionServerClient)
	if !ok {
		return nil, negotiationError("Can't agree on compression algorithm server to client")
	}
	if n.CompressionServerToClient, ok = ParseCompressionAlgo(cmpS2C); !ok {
		return nil, malformed("unknown compression algorithm: " + cmpS2C)
	}

	return n, nil
}

// GuessesFirstKexPacket reports whether the sender of kexInit is entitled
// to immediately follow it with its first key exchange packet without
// waiting for the peer's KexInitMsg, per RFC 4253 section 7.1: it may
// only do so if FirstKexPacketFollows is set AND its most-preferred kex
// algorithm is the one actually negotiated.
func GuessesFirstKexPacket(kexInit *KexInitMsg, negotiated Kex) bool {
	if !kexInit.FirstKexPacketFollows {
		return false
	}
	if len(kexInit.KexAlgos) == 0 {
		return false
	}
	first, ok := ParseKex(kexInit.KexAlgos[0])
	if !ok {
		return false
	}
	return first == negotiated
}

// BuildKexInit constructs a KexInitMsg advertising this core's preferred
// algorithm lists, with a fresh random cookie per RFC 4253 section 7.1.
func BuildKexInit(firstKexPacketFollows bool) *KexInitMsg {
	var cookie [16]byte
	copy(cookie[:], NewWriter().WriteRandom(16).Bytes())
	return &KexInitMsg{
		Cookie:                  cookie,
		KexAlgos:                PreferredKexAlgos,
		ServerHostKeyAlgos:      PreferredHostKeyAlgos,
		CiphersClientServer:     PreferredCipherAlgos,
		CiphersServerClient:     PreferredCipherAlgos,
		MACsClientServer:        PreferredMACAlgos,
		MACsServerClient:        PreferredMACAlgos,
		CompressionClientServer: PreferredCompressionAlgos,
		CompressionServerClient: PreferredCompressionAlgos,
		LanguagesClientServer:   []string{},
		LanguagesServerClient:   []string{},
		FirstKexPacketFollows:   firstKexPacketFollows,
	}
}
