// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/binary"
	"hash"
	"io"
)

// packetSizeMultiple is the block alignment padding must round a framed
// packet up to; see RFC 4253 section 6.
const packetSizeMultiple = 16

// maxPacket bounds the length field of a framed packet, matching the
// negotiation-time per-string cap so that a malicious peer cannot force
// an unbounded allocation before authentication is even checked.
const maxPacket = 256 * 1024

const prefixLen = 5

// newMACHash returns the keyed hash.Hash for mac, truncated where the
// algorithm's wire digest is shorter than its native hash output (the
// "-96" variants).
func newMACHash(mac MACAlgo, key []byte) hash.Hash {
	switch mac {
	case MACHMACMD5:
		return hmac.New(md5.New, key)
	case MACHMACMD5_96:
		return truncatingMAC{12, hmac.New(md5.New, key)}
	case MACHMACSHA1:
		return hmac.New(sha1.New, key)
	case MACHMACSHA1_96:
		return truncatingMAC{12, hmac.New(sha1.New, key)}
	case MACHMACSHA2_256:
		return hmac.New(sha256.New, key)
	case MACHMACSHA2_512:
		return hmac.New(sha512.New, key)
	default:
		return nil
	}
}

// truncatingMAC wraps a hash.Hash and truncates its output digest to a
// fixed size, for the "-96" MAC variants.
type truncatingMAC struct {
	length int
	hmac   hash.Hash
}

func (t truncatingMAC) Write(data []byte) (int, error) { return t.hmac.Write(data) }
func (t truncatingMAC) Sum(in []byte) []byte {
	out := t.hmac.Sum(in)
	return out[:len(in)+t.length]
}
func (t truncatingMAC) Reset()            { t.hmac.Reset() }
func (t truncatingMAC) Size() int         { return t.length }
func (t truncatingMAC) BlockSize() int    { return t.hmac.BlockSize() }

// newCipherStream builds the cipher.Stream for a CTR-mode algorithm.
func newCipherStream(c CipherAlgo, key, iv []byte) (cipher.Stream, error) {
	block, err := aes.NewCipher(key[:c.KeySize()])
	if err != nil {
		return nil, err
	}
	return cipher.NewCTR(block, iv[:c.IVSize()]), nil
}

// newCipherBlockMode builds the cipher.BlockMode for a CBC-mode
// algorithm, in the requested direction.
func newCipherBlockMode(c CipherAlgo, encrypting bool, key, iv []byte) (cipher.BlockMode, error) {
	block, err := aes.NewCipher(key[:c.KeySize()])
	if err != nil {
		return nil, err
	}
	if encrypting {
		return cipher.NewCBCEncrypter(block, iv[:c.IVSize()]), nil
	}
	return cipher.NewCBCDecrypter(block, iv[:c.IVSize()]), nil
}

// PacketCipher frames, encrypts/MACs and decrypts/verifies the binary
// packets of RFC 4253 section 6, for one direction of one cipher/MAC
// pair negotiated during a key exchange.
type PacketCipher interface {
	WritePacket(seqNum uint32, w io.Writer, rand io.Reader, payload []byte) error
	ReadPacket(seqNum uint32, r io.Reader) ([]byte, error)
}

// NewPacketCipher constructs the PacketCipher for one traffic direction
// given its negotiated cipher, MAC, and derived DirectionKeys. A
// Plaintext cipher/MAC pair (before the first NEWKEYS) yields a cipher
// that performs no encryption and appends no MAC.
func NewPacketCipher(encrypting bool, c CipherAlgo, m MACAlgo, keys DirectionKeys) (PacketCipher, error) {
	if c == CipherPlaintext || c == CipherUnknown {
		return &streamPacketCipher{cipherStream: noneCipher{}, mac: nil}, nil
	}

	var macHash hash.Hash
	if m != MACPlaintext && m != MACUnknown {
		macHash = newMACHash(m, keys.IntegrityKey)
	}

	if c.IsBlockMode() {
		block, err := newCipherBlockMode(c, encrypting, keys.CipherKey, keys.IV)
		if err != nil {
			return nil, err
		}
		return &blockPacketCipher{cipher: block, mac: macHash}, nil
	}

	stream, err := newCipherStream(c, keys.CipherKey, keys.IV)
	if err != nil {
		return nil, err
	}
	return &streamPacketCipher{cipherStream: stream, mac: macHash}, nil
}

// noneCipher implements cipher.Stream with the identity transform, used
// for PlaintextKeys before the first key exchange completes.
type noneCipher struct{}

func (noneCipher) XORKeyStream(dst, src []byte) { copy(dst, src) }

// streamPacketCipher frames packets for a CTR-mode (or plaintext) cipher.
type streamPacketCipher struct {
	mac          hash.Hash
	cipherStream cipher.Stream

	packetData []byte
	macResult  []byte
}

func (s *streamPacketCipher) WritePacket(seqNum uint32, w io.Writer, rand io.Reader, payload []byte) error {
	if len(payload) > maxPacket {
		return malformed("packet too large")
	}

	paddingLength := packetSizeMultiple - (prefixLen+len(payload))%packetSizeMultiple
	if paddingLength < 4 {
		paddingLength += packetSizeMultiple
	}
	length := len(payload) + 1 + paddingLength

	var prefix [prefixLen]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(length))
	prefix[4] = byte(paddingLength)

	padding := make([]byte, paddingLength)
	if _, err := io.ReadFull(rand, padding); err != nil {
		return err
	}

	if s.mac != nil {
		var seqBuf [4]byte
		binary.BigEndian.PutUint32(seqBuf[:], seqNum)
		s.mac.Reset()
		s.mac.Write(seqBuf[:])
		s.mac.Write(prefix[:])
		s.mac.Write(payload)
		s.mac.Write(padding)
	}

	s.cipherStream.XORKeyStream(prefix[:], prefix[:])
	s.cipherStream.XORKeyStream(payload, payload)
	s.cipherStream.XORKeyStream(padding, padding)

	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if _, err := w.Write(padding); err != nil {
		return err
	}
	if s.mac != nil {
		s.macResult = s.mac.Sum(s.macResult[:0])
		if _, err := w.Write(s.macResult); err != nil {
			return err
		}
	}
	return nil
}

func (s *streamPacketCipher) ReadPacket(seqNum uint32, r io.Reader) ([]byte, error) {
	var prefix [prefixLen]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	s.cipherStream.XORKeyStream(prefix[:], prefix[:])

	length := binary.BigEndian.Uint32(prefix[:4])
	paddingLength := uint32(prefix[4])

	if length <= paddingLength+1 {
		return nil, malformed("invalid packet length, packet too small")
	}
	if length > maxPacket {
		return nil, malformed("invalid packet length, packet too large")
	}

	var macSize uint32
	if s.mac != nil {
		macSize = uint32(s.mac.Size())
	}
	if uint32(cap(s.packetData)) < length-1+macSize {
		s.packetData = make([]byte, length-1+macSize)
	} else {
		s.packetData = s.packetData[:length-1+macSize]
	}
	if _, err := io.ReadFull(r, s.packetData); err != nil {
		return nil, err
	}

	mac := s.packetData[length-1:]
	data := s.packetData[:length-1]
	s.cipherStream.XORKeyStream(data, data)

	if s.mac != nil {
		var seqBuf [4]byte
		binary.BigEndian.PutUint32(seqBuf[:], seqNum)
		s.mac.Reset()
		s.mac.Write(seqBuf[:])
		s.mac.Write(prefix[:])
		s.mac.Write(data)
		s.macResult = s.mac.Sum(s.macResult[:0])
		if subtle.ConstantTimeCompare(s.macResult, mac) != 1 {
			return nil, malformed("MAC failure")
		}
	}
	return s.packetData[:length-paddingLength-1], nil
}

// blockPacketCipher frames packets for a CBC-mode cipher.
type blockPacketCipher struct {
	mac    hash.Hash
	cipher cipher.BlockMode
}

func blockedLength(length, blockSize int) int {
	numBlocks := length / blockSize
	if length%blockSize > 0 {
		numBlocks++
	}
	return numBlocks * blockSize
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (s *blockPacketCipher) WritePacket(seqNum uint32, w io.Writer, rand io.Reader, payload []byte) error {
	const minPacketSizeMultiple = 8
	const minPaddingSize = 4

	effectiveBlockSize := maxInt(minPacketSizeMultiple, s.cipher.BlockSize())
	encLength := blockedLength(maxInt(5+len(payload)+minPaddingSize, minPaddingSize), effectiveBlockSize)
	length := encLength - 4
	paddingLength := length - (1 + len(payload))

	buffer := make([]byte, 5+len(payload)+paddingLength)
	binary.BigEndian.PutUint32(buffer[:4], uint32(length))
	buffer[4] = byte(paddingLength)
	dataEnd := len(buffer) - paddingLength
	copy(buffer[5:dataEnd], payload)
	if _, err := io.ReadFull(rand, buffer[dataEnd:]); err != nil {
		return err
	}

	if s.mac != nil {
		var seqBuf [4]byte
		binary.BigEndian.PutUint32(seqBuf[:], seqNum)
		s.mac.Reset()
		s.mac.Write(seqBuf[:])
		s.mac.Write(buffer)
	}

	s.cipher.CryptBlocks(buffer, buffer)

	if _, err := w.Write(buffer); err != nil {
		return err
	}
	if s.mac != nil {
		if _, err := w.Write(s.mac.Sum(nil)); err != nil {
			return err
		}
	}
	return nil
}

func (s *blockPacketCipher) ReadPacket(seqNum uint32, r io.Reader) ([]byte, error) {
	const minPacketSizeMultiple = 8
	const minPacketSize = 16
	const minPaddingSize = 4

	blockSize := s.cipher.BlockSize()
	firstBlockLength := blockedLength(5, blockSize)
	overreadLength := firstBlockLength - 5

	firstBlock := make([]byte, firstBlockLength)
	if _, err := io.ReadFull(r, firstBlock); err != nil {
		return nil, err
	}
	s.cipher.CryptBlocks(firstBlock, firstBlock)

	length := binary.BigEndian.Uint32(firstBlock[:4])
	if length > maxPacket {
		return nil, malformed("max packet length exceeded")
	}
	paddingLength := uint32(firstBlock[4])
	if paddingLength < minPaddingSize {
		return nil, malformed("invalid padding length")
	}
	if length-paddingLength < 1 {
		return nil, malformed("invalid packet length")
	}
	if length+4 < uint32(maxInt(minPacketSize, blockSize)) {
		return nil, malformed("packet too small")
	}
	if (length+4)%uint32(maxInt(minPacketSizeMultiple, blockSize)) != 0 {
		return nil, malformed("invalid packet length multiple")
	}

	var macSize uint32
	if s.mac != nil {
		macSize = uint32(s.mac.Size())
	}

	cryptedStart := overreadLength
	paddingStart := length - paddingLength - 1
	macStart := paddingStart + paddingLength
	bufferLength := macStart + macSize

	packet := make([]byte, bufferLength)
	if _, err := io.ReadFull(r, packet[cryptedStart:]); err != nil {
		return nil, err
	}
	mac := packet[macStart:]
	copy(packet[:cryptedStart], firstBlock[5:])

	remainingCrypted := packet[cryptedStart:macStart]
	s.cipher.CryptBlocks(remainingCrypted, remainingCrypted)

	if s.mac != nil {
		var seqBuf [4]byte
		binary.BigEndian.PutUint32(seqBuf[:], seqNum)
		s.mac.Reset()
		s.mac.Write(seqBuf[:])
		s.mac.Write(firstBlock[:5])
		s.mac.Write(packet[:macStart])
		macResult := s.mac.Sum(nil)
		if subtle.ConstantTimeCompare(macResult, mac) != 1 {
			return nil, malformed("MAC failure")
		}
	}
	return packet[:paddingStart], nil
}
