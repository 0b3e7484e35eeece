// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"bytes"
	"testing"
)

func TestScanVersionBasic(t *testing.T) {
	rest, peer, err := ScanVersion([]byte("SSH-2.0-Foo\r\nrest-of-stream"))
	if err != nil {
		t.Fatalf("ScanVersion: %v", err)
	}
	if peer != "Foo" {
		t.Errorf("peer version: got %q, want %q", peer, "Foo")
	}
	if string(rest) != "rest-of-stream" {
		t.Errorf("remainder: got %q", rest)
	}
}

func TestScanVersionSkipsJunkLines(t *testing.T) {
	rest, peer, err := ScanVersion([]byte("Junk line\r\nSSH-2.0-Foo\r\n"))
	if err != nil {
		t.Fatalf("ScanVersion: %v", err)
	}
	if peer != "Foo" {
		t.Errorf("peer version: got %q", peer)
	}
	if len(rest) != 0 {
		t.Errorf("remainder: got %q, want empty", rest)
	}
}

func TestScanVersionBadProtoVersion(t *testing.T) {
	_, _, err := ScanVersion([]byte("SSH-1.5-Foo\r\n"))
	me, ok := err.(*MalformedError)
	if !ok {
		t.Fatalf("expected MalformedError, got %v", err)
	}
	if me.Reason != "Bad version 1.5" {
		t.Errorf("reason: got %q, want %q", me.Reason, "Bad version 1.5")
	}
}

func TestScanVersionTooBig(t *testing.T) {
	buf := bytes.Repeat([]byte("x"), maxVersionBufferLength+1)
	_, _, err := ScanVersion(buf)
	me, ok := err.(*MalformedError)
	if !ok {
		t.Fatalf("expected MalformedError, got %v", err)
	}
	if me.Reason != "Buffer is too big" {
		t.Errorf("reason: got %q", me.Reason)
	}
}

func TestScanVersionNeedMore(t *testing.T) {
	_, _, err := ScanVersion([]byte("SSH-2.0-Foo\r"))
	if err != ErrNeedMore {
		t.Fatalf("expected ErrNeedMore, got %v", err)
	}
}

func TestScanVersionTokenCount(t *testing.T) {
	_, _, err := ScanVersion([]byte("SSH-2.0_Foo\r\n"))
	if _, ok := err.(*MalformedError); !ok {
		t.Fatalf("expected MalformedError for missing softwareversion token, got %v", err)
	}
}

func TestLocalVersionLine(t *testing.T) {
	line := LocalVersionLine("sshwire_1.0", "")
	if string(line) != "SSH-2.0-sshwire_1.0\r\n" {
		t.Errorf("got %q", line)
	}
	withComment := LocalVersionLine("sshwire_1.0", "debug build")
	if string(withComment) != "SSH-2.0-sshwire_1.0 debug build\r\n" {
		t.Errorf("got %q", withComment)
	}
}
