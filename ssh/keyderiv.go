// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"crypto/sha1"
	"math/big"
)

// DirectionKeys holds the three pieces of key material RFC 4253 section
// 7.2 derives for traffic flowing in one direction: an initial IV, a
// cipher key, and an integrity key.
type DirectionKeys struct {
	IV         []byte
	CipherKey  []byte
	IntegrityKey []byte
}

// Keys holds the session key material produced by a completed key
// exchange, one DirectionKeys for each direction.
type Keys struct {
	ClientToServer DirectionKeys
	ServerToClient DirectionKeys
}

// PlaintextKeys is the distinguished zero-length Keys value in effect
// before the first NEWKEYS exchange, when no cipher or MAC is active
// yet (§4.F.4).
var PlaintextKeys = Keys{}

// expandKey implements the RFC 4253 section 7.2 key-derivation hash:
//
//	K1 = HASH(K || H || X || session_id)
//	K2 = HASH(K || H || K1)
//	K3 = HASH(K || H || K1 || K2)
//	...
//
// returning the first n bytes of K1 || K2 || K3 || ....
func expandKey(k *big.Int, h []byte, letter byte, sessionID []byte, n int) []byte {
	kBytes := NewWriter().WriteMPInt(k).Bytes()

	var out []byte
	var prev []byte
	for len(out) < n {
		hasher := sha1.New()
		hasher.Write(kBytes)
		hasher.Write(h)
		if prev == nil {
			hasher.Write([]byte{letter})
			hasher.Write(sessionID)
		} else {
			hasher.Write(prev)
		}
		block := hasher.Sum(nil)
		out = append(out, block...)
		prev = out
	}
	return out[:n]
}

// DeriveKeys expands the Diffie-Hellman shared secret k and exchange
// hash h into session key material for a cipher/MAC pair, per RFC 4253
// section 7.2. sessionID is the very first exchange hash computed on
// this connection (identical to h on the first key exchange, and
// unchanged across any later re-exchange).
func DeriveKeys(k *big.Int, h, sessionID []byte, cipherC2S, cipherS2C CipherAlgo, macC2S, macS2C MACAlgo) Keys {
	return Keys{
		ClientToServer: DirectionKeys{
			IV:           expandKey(k, h, 'A', sessionID, cipherC2S.IVSize()),
			CipherKey:    expandKey(k, h, 'C', sessionID, cipherC2S.KeySize()),
			IntegrityKey: expandKey(k, h, 'E', sessionID, macC2S.KeySize()),
		},
		ServerToClient: DirectionKeys{
			IV:           expandKey(k, h, 'B', sessionID, cipherS2C.IVSize()),
			CipherKey:    expandKey(k, h, 'D', sessionID, cipherS2C.KeySize()),
			IntegrityKey: expandKey(k, h, 'F', sessionID, macS2C.KeySize()),
		},
	}
}
