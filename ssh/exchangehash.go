// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"crypto/sha1"
	"math/big"
)

// ExchangeHash computes H per RFC 4253 section 8:
//
//	H = hash(V_C || V_S || I_C || I_S || K_S || e || f || K)
//
// clientVersion and serverVersion are the identification strings with
// any trailing CR/LF stripped. clientKexInit and serverKexInit are the
// exact payloads of the two peers' SSH_MSG_KEXINIT packets (message ID
// byte included), the InputBuf retained on a decoded KexInitMsg. hostKey
// is K_S, the host key blob. e and f are the two sides' DH public
// values and k is the shared secret.
func ExchangeHash(clientVersion, serverVersion, clientKexInit, serverKexInit, hostKey []byte, e, f, k *big.Int) []byte {
	w := NewWriter()
	w.WriteCString(string(clientVersion))
	w.WriteCString(string(serverVersion))
	w.WriteString(clientKexInit)
	w.WriteString(serverKexInit)
	w.WriteString(hostKey)
	w.WriteMPInt(e)
	w.WriteMPInt(f)
	w.WriteMPInt(k)

	digest := sha1.Sum(w.Bytes())
	return digest[:]
}
