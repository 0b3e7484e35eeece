// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"crypto/rand"
	"io"
	"math/big"
)

// dhGroup is a multiplicative group suitable for Diffie-Hellman key
// agreement, per RFC 4253 section 8.
type dhGroup struct {
	g, p, pMinus1 *big.Int
}

// dhGroup1 and dhGroup14 are the two fixed MODP groups this core
// negotiates (Oakley Group 2 and Group 14, RFC 2409/3526), bound to
// KexDiffieHellmanGroup1SHA1 and KexDiffieHellmanGroup14SHA1
// respectively. Group exchange and elliptic-curve variants are outside
// the closed Kex registry.
var (
	dhGroup1  *dhGroup
	dhGroup14 *dhGroup
)

func init() {
	p, _ := new(big.Int).SetString("FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7EDEE386BFB5A899FA5AE9F24117C4B1FE649286651ECE65381FFFFFFFFFFFFFFFF", 16)
	dhGroup1 = &dhGroup{
		g:       new(big.Int).SetInt64(2),
		p:       p,
		pMinus1: new(big.Int).Sub(p, bigOne),
	}

	p, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7EDEE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF0598DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3BE39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF6955817183995497CEA956AE515D2261898FA051015728E5A8AACAA68FFFFFFFFFFFFFFFF", 16)
	dhGroup14 = &dhGroup{
		g:       new(big.Int).SetInt64(2),
		p:       p,
		pMinus1: new(big.Int).Sub(p, bigOne),
	}
}

// groupForKex returns the fixed MODP group backing k, or nil if k is not
// one of the two Diffie-Hellman group variants this core supports.
func groupForKex(k Kex) *dhGroup {
	switch k {
	case KexDiffieHellmanGroup1SHA1:
		return dhGroup1
	case KexDiffieHellmanGroup14SHA1:
		return dhGroup14
	default:
		return nil
	}
}

// keyPair generates an ephemeral DH key pair: private is drawn uniformly
// from [1, p-2] and public is g^private mod p.
func (group *dhGroup) keyPair(randSource io.Reader) (public, private *big.Int, err error) {
	for {
		x, err := rand.Int(randSource, group.pMinus1)
		if err != nil {
			return nil, nil, err
		}
		if x.Sign() > 0 {
			private = x
			break
		}
	}
	public = new(big.Int).Exp(group.g, private, group.p)
	return public, private, nil
}

// diffieHellman computes the shared secret theirPublic^myPrivate mod p,
// rejecting a peer public value outside the valid range (1, p-1) per
// RFC 4253 section 8.
func (group *dhGroup) diffieHellman(theirPublic, myPrivate *big.Int) (*big.Int, error) {
	if theirPublic.Cmp(bigOne) <= 0 || theirPublic.Cmp(group.pMinus1) >= 0 {
		return nil, malformed("Can't compute shared secret")
	}
	return new(big.Int).Exp(theirPublic, myPrivate, group.p), nil
}

// GenerateKeyPair draws a fresh ephemeral Diffie-Hellman key pair for
// the group backing kex, using the process-wide CSPRNG.
func GenerateKeyPair(kex Kex) (public, private *big.Int, err error) {
	group := groupForKex(kex)
	if group == nil {
		return nil, nil, protocolError("unsupported kex algorithm for Diffie-Hellman")
	}
	return group.keyPair(rand.Reader)
}

// SharedSecret computes the Diffie-Hellman shared secret K for the group
// backing kex, given the peer's public value and this side's private
// exponent.
func SharedSecret(kex Kex, theirPublic, myPrivate *big.Int) (*big.Int, error) {
	group := groupForKex(kex)
	if group == nil {
		return nil, protocolError("unsupported kex algorithm for Diffie-Hellman")
	}
	return group.diffieHellman(theirPublic, myPrivate)
}
