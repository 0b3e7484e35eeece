// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

// AlgorithmPreferences lets a caller narrow or reorder the algorithm
// lists this core advertises in its own KexInitMsg. Any field left nil
// falls back to the corresponding Preferred*Algos default; a non-nil
// field must name only algorithms already present in the closed
// registries (§4.D) — BuildKexInitWithPreferences does not silently
// drop unrecognized names, it is the caller's responsibility to supply
// valid ones.
type AlgorithmPreferences struct {
	Kex              []string
	HostKeyAlgos     []string
	Ciphers          []string
	MACs             []string
	CompressionAlgos []string
}

func (p *AlgorithmPreferences) kexAlgos() []string {
	if p == nil || p.Kex == nil {
		return PreferredKexAlgos
	}
	return p.Kex
}

func (p *AlgorithmPreferences) hostKeyAlgos() []string {
	if p == nil || p.HostKeyAlgos == nil {
		return PreferredHostKeyAlgos
	}
	return p.HostKeyAlgos
}

func (p *AlgorithmPreferences) ciphers() []string {
	if p == nil || p.Ciphers == nil {
		return PreferredCipherAlgos
	}
	return p.Ciphers
}

func (p *AlgorithmPreferences) macs() []string {
	if p == nil || p.MACs == nil {
		return PreferredMACAlgos
	}
	return p.MACs
}

func (p *AlgorithmPreferences) compression() []string {
	if p == nil || p.CompressionAlgos == nil {
		return PreferredCompressionAlgos
	}
	return p.CompressionAlgos
}

// BuildKexInitWithPreferences is BuildKexInit generalized to an explicit
// AlgorithmPreferences; a nil prefs behaves exactly like BuildKexInit.
func BuildKexInitWithPreferences(prefs *AlgorithmPreferences, firstKexPacketFollows bool) *KexInitMsg {
	var cookie [16]byte
	copy(cookie[:], NewWriter().WriteRandom(16).Bytes())
	return &KexInitMsg{
		Cookie:                  cookie,
		KexAlgos:                prefs.kexAlgos(),
		ServerHostKeyAlgos:      prefs.hostKeyAlgos(),
		CiphersClientServer:     prefs.ciphers(),
		CiphersServerClient:     prefs.ciphers(),
		MACsClientServer:        prefs.macs(),
		MACsServerClient:        prefs.macs(),
		CompressionClientServer: prefs.compression(),
		CompressionServerClient: prefs.compression(),
		LanguagesClientServer:   []string{},
		LanguagesServerClient:   []string{},
		FirstKexPacketFollows:   firstKexPacketFollows,
	}
}
