// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"testing"
)

func testRSAHostKey(t *testing.T) *RSAHostKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("rsa.GenerateKey: %v", err)
	}
	return &RSAHostKey{Private: priv}
}

func TestRSAHostKeySignAndVerify(t *testing.T) {
	key := testRSAHostKey(t)
	h := sha1.Sum([]byte("exchange hash stand-in"))

	sig, err := key.Sign(h[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	blob := key.MarshalPublicKey()

	if err := VerifyHostKeySignature(blob, sig, h[:]); err != nil {
		t.Errorf("VerifyHostKeySignature: %v", err)
	}
}

func TestRSAHostKeyVerifyRejectsTamperedHash(t *testing.T) {
	key := testRSAHostKey(t)
	h := sha1.Sum([]byte("original"))
	sig, err := key.Sign(h[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	blob := key.MarshalPublicKey()

	tampered := sha1.Sum([]byte("tampered"))
	if err := VerifyHostKeySignature(blob, sig, tampered[:]); err == nil {
		t.Errorf("expected verification failure against tampered hash")
	}
}

func TestMarshalPublicKeyLeadsWithAlgorithmName(t *testing.T) {
	key := testRSAHostKey(t)
	blob := key.MarshalPublicKey()
	r := NewReader(blob)
	name, err := r.ReadCString()
	if err != nil {
		t.Fatalf("ReadCString: %v", err)
	}
	if name != "ssh-rsa" {
		t.Errorf("got %q, want ssh-rsa", name)
	}
}
