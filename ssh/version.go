// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import "bytes"

// maxVersionBufferLength is the hard cap on how much input ScanVersion
// will buffer while looking for a banner. It prevents unbounded memory
// growth against a peer that never sends a terminator.
const maxVersionBufferLength = 64 * 1024

// localVersionPrefix is emitted by the local side before any binary
// framing, per RFC 4253 section 4.2.
const localVersionPrefix = "SSH-2.0-"

// ScanVersion looks for the "SSH-2.0-...\r\n" banner inside buf, which may
// be a partial read. Lines that do not begin with "SSH-" are permitted as
// pre-banner chatter and skipped.
//
// It returns the bytes following the banner's terminating '\n' and the
// peer's identification string (the banner's third '-'-separated token)
// on success. If no "\r\n" has arrived yet and buf is still under the
// 64 KiB cap, it returns ErrNeedMore. If more than 64 KiB has been
// buffered with no banner found, or a complete banner line fails
// validation, it returns a MalformedError.
func ScanVersion(buf []byte) (remainder []byte, peerVersion string, err error) {
	rest := buf
	for {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			if len(buf) > maxVersionBufferLength {
				return nil, "", malformed("Buffer is too big")
			}
			return nil, "", ErrNeedMore
		}

		line := rest[:idx]
		rest = rest[idx+1:]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}

		if !bytes.HasPrefix(line, []byte("SSH-")) {
			continue
		}

		if len(line) < 9 {
			return nil, "", malformed("banner too short")
		}

		parts := bytes.SplitN(line, []byte("-"), 3)
		if len(parts) != 3 {
			return nil, "", malformed("banner missing protoversion/softwareversion")
		}

		protoversion := string(parts[1])
		if protoversion != "2.0" {
			return nil, "", malformed("Bad version " + protoversion)
		}

		return rest, string(parts[2]), nil
	}
}

// LocalVersionLine builds the banner this side should send before binary
// framing begins, given its software version and optional comments.
func LocalVersionLine(softwareVersion, comments string) []byte {
	line := localVersionPrefix + softwareVersion
	if comments != "" {
		line += " " + comments
	}
	return append([]byte(line), '\r', '\n')
}
