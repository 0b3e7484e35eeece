// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"math/big"
)

// RSAHostKey wraps an RSA key pair for the single host-key algorithm
// this core negotiates, ssh-rsa (RFC 4253 section 6.6).
type RSAHostKey struct {
	Private *rsa.PrivateKey
}

// MarshalPublicKey returns K_S, the public key blob sent in
// KexDHReplyMsg.HostKey: string("ssh-rsa") || mpint(e) || mpint(n).
func (k *RSAHostKey) MarshalPublicKey() []byte {
	return marshalRSAPublicKey(&k.Private.PublicKey)
}

func marshalRSAPublicKey(pub *rsa.PublicKey) []byte {
	return NewWriter().
		WriteCString(HostKeySSHRSA.String()).
		WriteMPInt(big.NewInt(int64(pub.E))).
		WriteMPInt(pub.N).
		Bytes()
}

// Sign produces the signature blob for digest H: string("ssh-rsa") ||
// string(sig), where sig is an RSASSA-PKCS1-v1_5 signature over the
// SHA-1 hash of H, per RFC 4253 section 6.6.
func (k *RSAHostKey) Sign(h []byte) ([]byte, error) {
	digest := sha1.Sum(h)
	sig, err := rsa.SignPKCS1v15(rand.Reader, k.Private, crypto.SHA1, digest[:])
	if err != nil {
		return nil, err
	}
	return NewWriter().WriteCString(HostKeySSHRSA.String()).WriteString(sig).Bytes(), nil
}

// VerifyHostKeySignature verifies a KexDHReplyMsg's signature blob
// against the exchange hash H and the public key blob K_S, both as sent
// on the wire.
func VerifyHostKeySignature(hostKeyBlob, signatureBlob, h []byte) error {
	r := NewReader(hostKeyBlob)
	algo, err := r.ReadCString()
	if err != nil {
		return err
	}
	if _, ok := ParseHostKeyAlgo(algo); !ok {
		return protocolError("unsupported host key algorithm: " + algo)
	}
	e, err := r.ReadMPInt()
	if err != nil {
		return err
	}
	n, err := r.ReadMPInt()
	if err != nil {
		return err
	}
	pub := &rsa.PublicKey{N: n, E: int(e.Int64())}

	sr := NewReader(signatureBlob)
	sigAlgo, err := sr.ReadCString()
	if err != nil {
		return err
	}
	if sigAlgo != HostKeySSHRSA.String() {
		return protocolError("unsupported signature algorithm: " + sigAlgo)
	}
	sig, err := sr.ReadString()
	if err != nil {
		return err
	}

	digest := sha1.Sum(h)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], sig)
}
