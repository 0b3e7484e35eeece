// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"math/big"
	"testing"
)

func TestUint32RoundTrip(t *testing.T) {
	for _, n := range []uint32{0, 1, 255, 256, 0xffffffff, 0x80000000} {
		w := NewWriter()
		w.WriteUint32(n)
		r := NewReader(w.Bytes())
		got, err := r.ReadUint32()
		if err != nil {
			t.Fatalf("ReadUint32(%d): %v", n, err)
		}
		if got != n {
			t.Errorf("ReadUint32: got %d, want %d", got, n)
		}
		if r.Remaining() != 0 {
			t.Errorf("expected all bytes consumed, %d remaining", r.Remaining())
		}
	}
}

func TestBoolRoundTrip(t *testing.T) {
	for _, b := range []bool{true, false} {
		w := NewWriter()
		w.WriteBool(b)
		if b && w.Bytes()[0] != 1 {
			t.Errorf("encoder must emit 0x01 for true, got %#x", w.Bytes()[0])
		}
		r := NewReader(w.Bytes())
		got, err := r.ReadBool()
		if err != nil {
			t.Fatalf("ReadBool: %v", err)
		}
		if got != b {
			t.Errorf("ReadBool: got %v, want %v", got, b)
		}
	}
}

func TestBoolAcceptsAnyNonzeroByte(t *testing.T) {
	r := NewReader([]byte{0x42})
	got, err := r.ReadBool()
	if err != nil {
		t.Fatalf("ReadBool: %v", err)
	}
	if !got {
		t.Errorf("ReadBool must treat any non-zero byte as true")
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range [][]byte{nil, []byte(""), []byte("hello"), []byte{0, 1, 2, 3}} {
		w := NewWriter()
		w.WriteString(s)
		r := NewReader(w.Bytes())
		got, err := r.ReadString()
		if err != nil {
			t.Fatalf("ReadString(%q): %v", s, err)
		}
		if string(got) != string(s) {
			t.Errorf("ReadString: got %q, want %q", got, s)
		}
	}
}

func TestStringDeclaredLengthOverrunsBuffer(t *testing.T) {
	w := NewWriter()
	w.WriteUint32(10)
	w.WriteRaw([]byte("short"))
	r := NewReader(w.Bytes())
	if _, err := r.ReadString(); err == nil {
		t.Fatalf("expected Malformed for declared length exceeding buffer")
	}
}

func TestStringExceedingCapIsMalformed(t *testing.T) {
	w := NewWriter()
	w.WriteUint32(maxStringLength + 1)
	r := NewReader(w.Bytes())
	if _, err := r.ReadString(); err == nil {
		t.Fatalf("expected Malformed for string exceeding 256 KiB cap")
	}
}

func TestNameListRoundTrip(t *testing.T) {
	cases := [][]string{
		{},
		{"aes128-ctr"},
		{"aes128-ctr", "aes256-ctr", "hmac-sha1"},
	}
	for _, names := range cases {
		w := NewWriter()
		w.WriteNameList(names)
		r := NewReader(w.Bytes())
		got, err := r.ReadNameList()
		if err != nil {
			t.Fatalf("ReadNameList(%v): %v", names, err)
		}
		if len(got) != len(names) {
			t.Fatalf("ReadNameList(%v): got %v", names, got)
		}
		for i := range names {
			if got[i] != names[i] {
				t.Errorf("ReadNameList(%v): got %v", names, got)
			}
		}
	}
}

func TestEmptyNameListEncodesAsZeroLength(t *testing.T) {
	w := NewWriter()
	w.WriteNameList(nil)
	if len(w.Bytes()) != 4 {
		t.Fatalf("empty name-list must encode as a bare zero length, got %d bytes", len(w.Bytes()))
	}
}

func TestMPIntZero(t *testing.T) {
	w := NewWriter()
	w.WriteMPInt(big.NewInt(0))
	if len(w.Bytes()) != 4 {
		t.Fatalf("zero mpint must encode as zero-length string, got %d bytes", len(w.Bytes()))
	}
	r := NewReader(w.Bytes())
	got, err := r.ReadMPInt()
	if err != nil {
		t.Fatalf("ReadMPInt: %v", err)
	}
	if got.Sign() != 0 {
		t.Errorf("ReadMPInt: got %v, want 0", got)
	}
}

func TestMPIntHighBitPadding(t *testing.T) {
	// 0x80 has its high bit set, so the encoding must carry exactly one
	// leading zero byte to avoid being read back as negative.
	n := big.NewInt(0x80)
	w := NewWriter()
	w.WriteMPInt(n)
	encoded := w.Bytes()
	length := int(encoded[3])
	if length != 2 || encoded[4] != 0x00 || encoded[5] != 0x80 {
		t.Fatalf("expected single leading zero pad byte, got %x", encoded)
	}

	r := NewReader(encoded)
	got, err := r.ReadMPInt()
	if err != nil {
		t.Fatalf("ReadMPInt: %v", err)
	}
	if got.Cmp(n) != 0 {
		t.Errorf("ReadMPInt: got %v, want %v", got, n)
	}
}

func TestMPIntRoundTripNonNegative(t *testing.T) {
	values := []int64{0, 1, 127, 128, 255, 256, 65535, 1 << 30}
	for _, v := range values {
		n := big.NewInt(v)
		w := NewWriter()
		w.WriteMPInt(n)
		r := NewReader(w.Bytes())
		got, err := r.ReadMPInt()
		if err != nil {
			t.Fatalf("ReadMPInt(%d): %v", v, err)
		}
		if got.Cmp(n) != 0 {
			t.Errorf("ReadMPInt(%d): got %v", v, got)
		}
	}
}

func TestRawRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteRaw([]byte{1, 2, 3, 4})
	r := NewReader(w.Bytes())
	got, err := r.ReadRaw(4)
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if string(got) != "\x01\x02\x03\x04" {
		t.Errorf("ReadRaw: got %x", got)
	}
}

func TestWriteRandomFillsRequestedLength(t *testing.T) {
	w := NewWriter()
	w.WriteRandom(16)
	if len(w.Bytes()) != 16 {
		t.Fatalf("WriteRandom(16): got %d bytes", len(w.Bytes()))
	}
}

func TestChainedWrites(t *testing.T) {
	w := NewWriter().WriteUint8(20).WriteUint32(7).WriteBool(true)
	if w.Len() != 6 {
		t.Fatalf("chained writes: got length %d, want 6", w.Len())
	}
}
