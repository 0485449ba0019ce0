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

package xzframe

import (
	"bytes"
	"hash/crc32"

	"github.com/icza/bitio"

	ibin "github.com/unlzma2/unlzma2/internal/binary"
)

// filterIDLZMA2 is the only filter ID this package accepts (spec.md §6,
// §1: "no support for filters other than LZMA2").
const filterIDLZMA2 = 0x21

var streamMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
var footerMagic = []byte{'Y', 'Z'}

const (
	streamHeaderLen = 12
	streamFooterLen = 12
)

// streamHeader is the decoded 12-byte XZ Stream Header.
type streamHeader struct {
	checkType byte
	rawFlags  []byte // the 2 raw flag bytes, needed to cross-check the footer
}

// parseStreamHeader validates the magic and CRC32 of the Stream Header at
// the start of buf and extracts the check type (spec.md §6).
func parseStreamHeader(buf []byte) (streamHeader, error) {
	if len(buf) < streamHeaderLen {
		return streamHeader{}, ErrNotXZ
	}
	if !ibin.Equal(buf, 0, streamMagic) {
		return streamHeader{}, ErrNotXZ
	}
	flags, err := ibin.BytesAt(buf, 6, 2)
	if err != nil {
		return streamHeader{}, ErrNotXZ
	}
	wantCRC, err := ibin.Uint32LEAt(buf, 8)
	if err != nil {
		return streamHeader{}, ErrNotXZ
	}
	if crc32.ChecksumIEEE(flags) != wantCRC {
		return streamHeader{}, formatErrorf("stream header", "CRC32 mismatch")
	}

	br := bitio.NewReader(bytes.NewReader(flags))
	if _, err := br.ReadBits(8); err != nil { // byte 0: entirely reserved
		return streamHeader{}, formatErrorf("stream header", "truncated flags")
	}
	reserved, err := br.ReadBits(4)
	if err != nil {
		return streamHeader{}, formatErrorf("stream header", "truncated flags")
	}
	if reserved != 0 {
		return streamHeader{}, formatErrorf("stream header", "reserved flag bits set")
	}
	checkType, err := br.ReadBits(4)
	if err != nil {
		return streamHeader{}, formatErrorf("stream header", "truncated flags")
	}
	if flags[0] != 0 {
		return streamHeader{}, formatErrorf("stream header", "reserved byte 0 nonzero")
	}
	return streamHeader{checkType: byte(checkType), rawFlags: flags}, nil
}

// blockHeader is the decoded Block Header: just enough to hand the
// enclosed LZMA2 chunk stream to lzma2.Decode.
type blockHeader struct {
	totalLen int // size of the header region, including its own CRC32
}

// parseBlockHeader validates the Block Header immediately following the
// Stream Header at offset streamHeaderLen, enforcing the "single LZMA2
// filter" restriction of spec.md §6. The header-size arithmetic
// (sizeByte * 4, not (sizeByte+1) * 4) follows original_source's
// auto-detection logic exactly rather than the looser prose in spec.md §6,
// per the rule that original_source resolves spec ambiguity.
func parseBlockHeader(buf []byte, offset int) (blockHeader, error) {
	sizeByte, err := ibin.Uint8At(buf, offset)
	if err != nil {
		return blockHeader{}, ErrNotXZ
	}
	if sizeByte == 0 {
		return blockHeader{}, formatErrorf("block header", "zero header size")
	}
	headerLen := int(sizeByte) * 4
	if offset+headerLen+4 > len(buf) {
		return blockHeader{}, ErrNotXZ
	}
	region, err := ibin.BytesAt(buf, offset, headerLen)
	if err != nil {
		return blockHeader{}, ErrNotXZ
	}
	wantCRC, err := ibin.Uint32LEAt(buf, offset+headerLen)
	if err != nil {
		return blockHeader{}, ErrNotXZ
	}
	if crc32.ChecksumIEEE(region) != wantCRC {
		return blockHeader{}, formatErrorf("block header", "CRC32 mismatch")
	}

	flagsByte, err := ibin.Uint8At(buf, offset+1)
	if err != nil {
		return blockHeader{}, ErrNotXZ
	}
	br := bitio.NewReader(bytes.NewReader([]byte{flagsByte}))
	hasUncompSize, _ := br.ReadBool()
	hasCompSize, _ := br.ReadBool()
	reserved, _ := br.ReadBits(4)
	filterCountMinus1, _ := br.ReadBits(2)
	if reserved != 0 {
		return blockHeader{}, formatErrorf("block header", "reserved flag bits set")
	}
	if filterCountMinus1 != 0 {
		return blockHeader{}, formatErrorf("block header", "more than one filter")
	}
	if hasCompSize || hasUncompSize {
		return blockHeader{}, formatErrorf("block header", "compressed/uncompressed size fields unsupported")
	}

	pos := offset + 2
	filterID, n, err := ibin.VLI(buf, pos)
	if err != nil {
		return blockHeader{}, formatErrorf("block header", "truncated filter ID")
	}
	if filterID != filterIDLZMA2 {
		return blockHeader{}, formatErrorf("block header", "unsupported filter ID %#x", filterID)
	}
	pos += n

	propsSize, n, err := ibin.VLI(buf, pos)
	if err != nil {
		return blockHeader{}, formatErrorf("block header", "truncated filter properties size")
	}
	pos += n
	pos += int(propsSize) // LZMA2's single dictionary-size property byte; unused by this decoder

	if pos > offset+headerLen {
		return blockHeader{}, formatErrorf("block header", "filter flags overrun header")
	}

	return blockHeader{totalLen: headerLen + 4}, nil
}

// checkSize returns the byte length of the integrity check value for the
// given XZ check type (None=0, CRC32=1, CRC64=4, SHA-256=10), following
// original_source's `4 << ((checktype - 1) / 3)` grouping exactly.
func checkSize(checkType byte) int {
	if checkType == 0 {
		return 0
	}
	return 4 << ((int(checkType) - 1) / 3)
}
