// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

// Kex identifies one of the closed set of key exchange methods this core
// negotiates. Extending it to cover additional RFC 4253 extensions
// (curve25519, ECDH, group-exchange) is explicitly out of scope (§1
// Non-goals).
type Kex int

const (
	KexUnknown Kex = iota
	KexDiffieHellmanGroup14SHA1
	KexDiffieHellmanGroup1SHA1
)

var kexNames = map[Kex]string{
	KexDiffieHellmanGroup14SHA1: "diffie-hellman-group14-sha1",
	KexDiffieHellmanGroup1SHA1:  "diffie-hellman-group1-sha1",
}

var kexByName = invertKex(kexNames)

// PreferredKexAlgos lists the kex algorithms this core advertises, most
// preferred first.
var PreferredKexAlgos = []string{
	"diffie-hellman-group14-sha1",
	"diffie-hellman-group1-sha1",
}

func (k Kex) String() string {
	return kexNames[k]
}

// ParseKex coerces a wire algorithm name to its enum variant. An unknown
// name maps to KexUnknown, ok=false.
func ParseKex(name string) (Kex, bool) {
	k, ok := kexByName[name]
	return k, ok
}

func invertKex(m map[Kex]string) map[string]Kex {
	out := make(map[string]Kex, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// HostKeyAlgo identifies a server host-key algorithm. Unknown is a
// sentinel used only when the peer offers nothing this core recognizes;
// it must never be serialized.
type HostKeyAlgo int

const (
	HostKeyUnknown HostKeyAlgo = iota
	HostKeySSHRSA
)

var hostKeyNames = map[HostKeyAlgo]string{
	HostKeySSHRSA: "ssh-rsa",
}

var hostKeyByName = invertHostKey(hostKeyNames)

// PreferredHostKeyAlgos lists the host-key algorithms this core
// advertises, most preferred first.
var PreferredHostKeyAlgos = []string{"ssh-rsa"}

func (h HostKeyAlgo) String() string {
	if h == HostKeyUnknown {
		panic("ssh: attempted to serialize the Unknown host-key sentinel")
	}
	return hostKeyNames[h]
}

// ParseHostKeyAlgo coerces a wire algorithm name to its enum variant.
func ParseHostKeyAlgo(name string) (HostKeyAlgo, bool) {
	h, ok := hostKeyByName[name]
	return h, ok
}

func invertHostKey(m map[HostKeyAlgo]string) map[string]HostKeyAlgo {
	out := make(map[string]HostKeyAlgo, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// CipherAlgo identifies a symmetric cipher, carrying its key and IV/block
// sizes as fixed constants. Plaintext is a non-serializable sentinel used
// only before the first key exchange completes.
type CipherAlgo int

const (
	CipherUnknown CipherAlgo = iota
	CipherAES128CTR
	CipherAES192CTR
	CipherAES256CTR
	CipherAES128CBC
	CipherAES192CBC
	CipherAES256CBC
	CipherPlaintext
)

type cipherInfo struct {
	name    string
	keySize int
	ivSize  int
	block   bool // true for CBC (block mode), false for CTR (stream mode)
}

var cipherInfos = map[CipherAlgo]cipherInfo{
	CipherAES128CTR: {"aes128-ctr", 16, 16, false},
	CipherAES192CTR: {"aes192-ctr", 24, 16, false},
	CipherAES256CTR: {"aes256-ctr", 32, 16, false},
	CipherAES128CBC: {"aes128-cbc", 16, 16, true},
	CipherAES192CBC: {"aes192-cbc", 24, 16, true},
	CipherAES256CBC: {"aes256-cbc", 32, 16, true},
}

var cipherByName = func() map[string]CipherAlgo {
	out := make(map[string]CipherAlgo, len(cipherInfos))
	for k, v := range cipherInfos {
		out[v.name] = k
	}
	return out
}()

// PreferredCipherAlgos lists the ciphers this core advertises, most
// preferred first.
var PreferredCipherAlgos = []string{
	"aes128-ctr", "aes192-ctr", "aes256-ctr",
	"aes128-cbc", "aes192-cbc", "aes256-cbc",
}

func (c CipherAlgo) String() string {
	if c == CipherPlaintext {
		panic("ssh: attempted to serialize the Plaintext cipher sentinel")
	}
	return cipherInfos[c].name
}

// KeySize returns the cipher's key length in bytes.
func (c CipherAlgo) KeySize() int {
	return cipherInfos[c].keySize
}

// IVSize returns the cipher's IV (CTR) or block (CBC) length in bytes.
func (c CipherAlgo) IVSize() int {
	return cipherInfos[c].ivSize
}

// IsBlockMode reports whether c is a CBC-style block cipher, as opposed
// to a CTR-style stream cipher.
func (c CipherAlgo) IsBlockMode() bool {
	return cipherInfos[c].block
}

// ParseCipherAlgo coerces a wire algorithm name to its enum variant.
func ParseCipherAlgo(name string) (CipherAlgo, bool) {
	c, ok := cipherByName[name]
	return c, ok
}

// MACAlgo identifies a message-authentication code. Plaintext is a
// non-serializable sentinel used only before the first key exchange
// completes.
type MACAlgo int

const (
	MACUnknown MACAlgo = iota
	MACHMACMD5
	MACHMACMD5_96
	MACHMACSHA1
	MACHMACSHA1_96
	MACHMACSHA2_256
	MACHMACSHA2_512
	MACPlaintext
)

type macInfo struct {
	name    string
	keySize int
	size    int // truncated digest size actually placed on the wire
}

var macInfos = map[MACAlgo]macInfo{
	MACHMACMD5:      {"hmac-md5", 16, 16},
	MACHMACMD5_96:   {"hmac-md5-96", 16, 12},
	MACHMACSHA1:     {"hmac-sha1", 20, 20},
	MACHMACSHA1_96:  {"hmac-sha1-96", 20, 12},
	MACHMACSHA2_256: {"hmac-sha2-256", 32, 32},
	MACHMACSHA2_512: {"hmac-sha2-512", 64, 64},
}

var macByName = func() map[string]MACAlgo {
	out := make(map[string]MACAlgo, len(macInfos))
	for k, v := range macInfos {
		out[v.name] = k
	}
	return out
}()

// PreferredMACAlgos lists the MAC algorithms this core advertises, most
// preferred first.
var PreferredMACAlgos = []string{
	"hmac-sha2-512", "hmac-sha2-256", "hmac-sha1",
	"hmac-sha1-96", "hmac-md5", "hmac-md5-96",
}

func (m MACAlgo) String() string {
	if m == MACPlaintext {
		panic("ssh: attempted to serialize the Plaintext mac sentinel")
	}
	return macInfos[m].name
}

// KeySize returns the MAC's key length in bytes.
func (m MACAlgo) KeySize() int {
	return macInfos[m].keySize
}

// Size returns the number of digest bytes placed on the wire, after any
// truncation (e.g. hmac-sha1-96 truncates a 20-byte digest to 12 bytes).
func (m MACAlgo) Size() int {
	return macInfos[m].size
}

// ParseMACAlgo coerces a wire algorithm name to its enum variant.
func ParseMACAlgo(name string) (MACAlgo, bool) {
	m, ok := macByName[name]
	return m, ok
}

// CompressionAlgo identifies a compression method. The registry is
// closed to "none" (§4.D).
type CompressionAlgo int

const (
	CompressionUnknown CompressionAlgo = iota
	CompressionNone
)

var compressionNames = map[CompressionAlgo]string{
	CompressionNone: "none",
}

var compressionByName = func() map[string]CompressionAlgo {
	out := make(map[string]CompressionAlgo, len(compressionNames))
	for k, v := range compressionNames {
		out[v] = k
	}
	return out
}()

// PreferredCompressionAlgos lists the compression methods this core
// advertises, most preferred first.
var PreferredCompressionAlgos = []string{"none"}

func (c CompressionAlgo) String() string {
	return compressionNames[c]
}

// ParseCompressionAlgo coerces a wire algorithm name to its enum variant.
func ParseCompressionAlgo(name string) (CompressionAlgo, bool) {
	c, ok := compressionByName[name]
	return c, ok
}
