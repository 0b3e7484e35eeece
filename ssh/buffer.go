// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

// maxStringLength bounds any single decoded string (and therefore any
// name-list payload) to guard against a hostile peer declaring an
// unbounded length and exhausting memory before the data has even
// arrived.
const maxStringLength = 256 * 1024

var bigOne = big.NewInt(1)

// Writer is a growable output buffer for the RFC 4251 primitive
// encodings. It never silently truncates: every Write method grows the
// backing slice as needed and returns the Writer itself so calls can be
// chained.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

// Bytes returns the buffer accumulated so far. The returned slice aliases
// the Writer's storage; callers that continue writing must not retain it
// across further Write calls.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(b byte) *Writer {
	w.buf = append(w.buf, b)
	return w
}

// WriteBool appends a boolean, always encoded as 0x00 or 0x01 per RFC
// 4251 section 5 (decoders accept any non-zero byte as true).
func (w *Writer) WriteBool(b bool) *Writer {
	if b {
		return w.WriteUint8(1)
	}
	return w.WriteUint8(0)
}

// WriteUint32 appends a big-endian uint32.
func (w *Writer) WriteUint32(n uint32) *Writer {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], n)
	w.buf = append(w.buf, tmp[:]...)
	return w
}

// WriteRaw appends unframed bytes with no length prefix.
func (w *Writer) WriteRaw(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// WriteString appends a length-prefixed byte string. This is also the
// wire form used for "cstring" fields; the distinction between the two is
// at the API only, in whether the caller treats the payload as borrowed
// text or an opaque blob.
func (w *Writer) WriteString(s []byte) *Writer {
	w.WriteUint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
	return w
}

// WriteCString appends s as a length-prefixed string.
func (w *Writer) WriteCString(s string) *Writer {
	return w.WriteString([]byte(s))
}

// WriteNameList appends a name-list: a string whose payload is
// comma-joined tokens. An empty list encodes as a zero-length string
// with no trailing comma.
func (w *Writer) WriteNameList(names []string) *Writer {
	offset := len(w.buf)
	w.WriteUint32(0)
	for i, name := range names {
		if i != 0 {
			w.buf = append(w.buf, ',')
		}
		w.buf = append(w.buf, name...)
	}
	binary.BigEndian.PutUint32(w.buf[offset:], uint32(len(w.buf)-offset-4))
	return w
}

// WriteMPInt appends a multi-precision integer per RFC 4251 section 5. A
// zero value encodes as a zero-length string; a positive value whose
// high bit is set is padded with a leading zero byte so it is never
// misread as negative; otherwise leading zero bytes are stripped.
func (w *Writer) WriteMPInt(n *big.Int) *Writer {
	needed := mpintLength(n)
	offset := len(w.buf)
	w.buf = append(w.buf, make([]byte, 4+needed)...)
	marshalMPInt(w.buf[offset:], n)
	return w
}

// WriteRandom appends n CSPRNG bytes, drawn from the process-wide
// cryptographic random source (crypto/rand).
func (w *Writer) WriteRandom(n int) *Writer {
	offset := len(w.buf)
	w.buf = append(w.buf, make([]byte, n)...)
	if _, err := rand.Read(w.buf[offset:]); err != nil {
		panic("ssh: failed to read from CSPRNG: " + err.Error())
	}
	return w
}

// Reader is a read-only cursor over a byte slice. Every primitive read
// advances the cursor and fails cleanly on underrun, declared-length
// overrun, or an over-cap string length; it never reads past the
// declared end of a field.
type Reader struct {
	buf []byte
	off int
}

// NewReader wraps b for sequential primitive reads. b is borrowed for the
// duration of the Reader's use.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Pos returns the number of bytes consumed so far.
func (r *Reader) Pos() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (byte, error) {
	if r.Remaining() < 1 {
		return 0, malformed("unexpected end of input reading byte")
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

// ReadBool reads a boolean. Per RFC 4251 section 5 any non-zero byte
// decodes as true.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadUint32 reads a big-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, malformed("unexpected end of input reading uint32")
	}
	n := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return n, nil
}

// ReadRaw reads exactly n unframed bytes.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, malformed("unexpected end of input reading raw bytes")
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// ReadString reads a length-prefixed byte string, rejecting a declared
// length that would overrun the remaining input or that exceeds the
// 256 KiB per-string cap.
func (r *Reader) ReadString() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if n > maxStringLength {
		return nil, malformed("string exceeds maximum length")
	}
	return r.ReadRaw(int(n))
}

// ReadCString reads a length-prefixed string as text.
func (r *Reader) ReadCString() (string, error) {
	b, err := r.ReadString()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadNameList reads a name-list: a string whose payload is split on
// commas. An empty payload decodes to an empty, non-nil slice.
func (r *Reader) ReadNameList() ([]string, error) {
	payload, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return []string{}, nil
	}
	var names []string
	start := 0
	for i, c := range payload {
		if c == ',' {
			names = append(names, string(payload[start:i]))
			start = i + 1
		}
	}
	names = append(names, string(payload[start:]))
	return names, nil
}

// ReadMPInt reads a multi-precision integer per RFC 4251 section 5.
func (r *Reader) ReadMPInt() (*big.Int, error) {
	payload, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(payload), nil
}

// mpintLength returns the number of payload bytes WriteMPInt/marshalMPInt
// will emit for n, not counting the 4-byte length prefix.
func mpintLength(n *big.Int) int {
	if n.Sign() == 0 {
		return 0
	}
	if n.Sign() < 0 {
		panic("ssh: mpint encoding of negative integers is not supported")
	}
	bytes := n.Bytes()
	if len(bytes) > 0 && bytes[0]&0x80 != 0 {
		return len(bytes) + 1
	}
	return len(bytes)
}

// marshalMPInt writes the 4-byte length prefix and payload for n into to,
// which must be exactly 4+mpintLength(n) bytes.
func marshalMPInt(to []byte, n *big.Int) {
	length := mpintLength(n)
	binary.BigEndian.PutUint32(to, uint32(length))
	to = to[4:]
	if n.Sign() == 0 {
		return
	}
	bytes := n.Bytes()
	if len(bytes) > 0 && bytes[0]&0x80 != 0 {
		to[0] = 0
		to = to[1:]
	}
	copy(to, bytes)
}
