// Copyright (c) 2026 The unlzma2 Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of unlzma2.
//
// unlzma2 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// unlzma2 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with unlzma2.  If not, see <https://www.gnu.org/licenses/>.

// Package xzframe recognizes the minimal subset of the XZ container format
// that wraps a single LZMA2 block: Stream Header, one Block Header naming
// exactly one LZMA2 filter, the Block's compressed data, and the Index /
// Stream Footer that close it out. It hands the enclosed LZMA2 chunk
// stream to lzma2.Decode and never itself performs LZMA2 decoding (spec.md
// §6). Streams with more than one block, a filter other than LZMA2, or any
// malformed framing field are rejected rather than best-effort skipped
// (spec.md §1 Non-goals: "multi-block or multi-filter XZ").
package xzframe

import (
	"hash/crc32"

	ibin "github.com/unlzma2/unlzma2/internal/binary"
)

// Block is the result of stripping an XZ container down to its payload:
// the LZMA2 chunk-stream bytes ready for lzma2.Decode, plus enough of the
// trailing integrity check to verify the decoded output against it.
type Block struct {
	// Data is the LZMA2 chunk stream between the Block Header and the
	// Block's integrity check.
	Data []byte

	// CheckType is the XZ check ID from the Stream Header (0 = none,
	// 1 = CRC32, 4 = CRC64, 10 = SHA-256).
	CheckType byte

	// Check is the raw recorded check value, checkSize(CheckType) bytes
	// long, or nil if CheckType is 0.
	Check []byte
}

// Strip parses buf as a single-block XZ stream and returns the enclosed
// LZMA2 payload. It returns ErrNotXZ if buf does not begin with the XZ
// magic, and a FormatError for any other structural violation (reserved
// bits set, more than one filter, a non-LZMA2 filter, a CRC32 mismatch in
// any framing field, or more than one block).
func Strip(buf []byte) (Block, error) {
	sh, err := parseStreamHeader(buf)
	if err != nil {
		return Block{}, err
	}

	bh, err := parseBlockHeader(buf, streamHeaderLen)
	if err != nil {
		return Block{}, err
	}

	dataStart := streamHeaderLen + bh.totalLen
	if dataStart > len(buf) {
		return Block{}, formatErrorf("block", "header overruns buffer")
	}

	dataEnd, check, err := stripFooter(buf, sh)
	if err != nil {
		return Block{}, err
	}
	if dataEnd < dataStart {
		return Block{}, formatErrorf("block", "footer precedes block data")
	}

	return Block{
		Data:      buf[dataStart:dataEnd],
		CheckType: sh.checkType,
		Check:     check,
	}, nil
}

// stripFooter locates the Stream Footer at the end of buf, validates it
// against the Stream Header's flags, walks back through the single Index
// record it points to, and returns the offset at which the block's
// compressed data (plus any trailing block padding) ends, along with the
// block's recorded integrity check value if present.
//
// Ported field-for-field from original_source's XZ auto-detection block
// (spec §9: "the XZ framing parser live[s] in the driver... not specified
// here" — read as permission to implement it, with original_source
// resolving the exact offsets spec.md only describes in prose).
func stripFooter(buf []byte, sh streamHeader) (dataEnd int, check []byte, err error) {
	n := len(buf)
	csize := checkSize(sh.checkType)

	if n <= 8+12+csize || n%4 != 0 {
		return 0, nil, formatErrorf("footer", "buffer too short or misaligned")
	}
	if !ibin.Equal(buf, n-2, footerMagic) {
		return 0, nil, formatErrorf("footer", "magic mismatch")
	}
	footerFlags, ferr := ibin.BytesAt(buf, n-4, 2)
	if ferr != nil {
		return 0, nil, formatErrorf("footer", "truncated flags")
	}
	if footerFlags[0] != sh.rawFlags[0] || footerFlags[1] != sh.rawFlags[1] {
		return 0, nil, formatErrorf("footer", "flags disagree with stream header")
	}
	wantCRC, ferr := ibin.Uint32LEAt(buf, n-12)
	if ferr != nil {
		return 0, nil, formatErrorf("footer", "truncated CRC32")
	}
	if crc32.ChecksumIEEE(buf[n-8:n-2]) != wantCRC {
		return 0, nil, formatErrorf("footer", "CRC32 mismatch")
	}

	backwardSize, ferr := ibin.Uint32LEAt(buf, n-8)
	if ferr != nil {
		return 0, nil, formatErrorf("footer", "truncated backward size")
	}
	if backwardSize == 0 || int(backwardSize) >= n/4-4 {
		return 0, nil, formatErrorf("footer", "implausible backward size")
	}
	indexLen := int(backwardSize) * 4
	indexStart := n - 16 - indexLen
	if indexStart < 0 {
		return 0, nil, formatErrorf("footer", "index precedes stream start")
	}

	indicator, ferr := ibin.Uint8At(buf, indexStart)
	if ferr != nil || indicator != 0x00 {
		return 0, nil, formatErrorf("index", "missing index indicator")
	}
	indexCRC, ferr := ibin.Uint32LEAt(buf, n-16)
	if ferr != nil {
		return 0, nil, formatErrorf("index", "truncated CRC32")
	}
	if crc32.ChecksumIEEE(buf[indexStart:n-16]) != indexCRC {
		return 0, nil, formatErrorf("index", "CRC32 mismatch")
	}

	numRecords, nrec, ferr := ibin.VLI(buf, indexStart+1)
	if ferr != nil {
		return 0, nil, formatErrorf("index", "truncated record count")
	}
	if numRecords != 1 {
		return 0, nil, formatErrorf("index", "more than one block")
	}
	_ = nrec // the record's unpadded/uncompressed size fields aren't needed:
	// dataEnd below is derived from the footer's own stripped length, the
	// same simplification original_source's test harness makes.

	stripLen := 16 + indexLen + csize
	dataEnd = n - stripLen
	if dataEnd < streamHeaderLen {
		return 0, nil, formatErrorf("block", "stripped length underruns stream header")
	}

	if csize == 0 {
		return dataEnd, nil, nil
	}
	check, ferr = ibin.BytesAt(buf, dataEnd, csize)
	if ferr != nil {
		return 0, nil, formatErrorf("block", "truncated integrity check")
	}
	return dataEnd, check, nil
}

// VerifyCRC32 checks decoded against b.Check when b.CheckType is CRC32 (1).
// It is a no-op returning nil for any other check type, matching spec.md
// §6's "may optionally verify a trailing 4-byte CRC32" — SHA-256/CRC64
// verification is out of scope for this minimal wrapper.
func (b Block) VerifyCRC32(decoded []byte) error {
	if b.CheckType != 1 {
		return nil
	}
	if len(b.Check) != 4 {
		return formatErrorf("check", "CRC32 check value has wrong length")
	}
	want := uint32(b.Check[0]) | uint32(b.Check[1])<<8 | uint32(b.Check[2])<<16 | uint32(b.Check[3])<<24
	if crc32.ChecksumIEEE(decoded) != want {
		return ErrCheckMismatch
	}
	return nil
}
