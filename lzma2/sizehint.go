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

package lzma2

// EstimateOutputSize walks an LZMA2 chunk stream's control bytes and
// size fields only, summing each chunk's declared uncompressed length
// without ever running the range coder. It lets a caller size a
// destination buffer in one pass instead of over-allocating the way
// original_source's test harness does (SPEC_FULL.md §4 item 4).
//
// The second return value is false if the stream is truncated or
// malformed badly enough that the pre-pass itself cannot finish; the
// first return value is still the sum accumulated up to that point, and
// callers should fall back to a doubling-retry loop on StatusOutLimit
// rather than trust an incomplete estimate.
func EstimateOutputSize(in []byte) (int, bool) {
	pos := 0
	total := 0
	for {
		if pos >= len(in) {
			return total, false
		}
		control := in[pos]
		pos++

		switch {
		case control == ctrlEndMarker:
			return total, true

		case control >= ctrlLZMAMin:
			if pos+4 > len(in) {
				return total, false
			}
			highBits := uint32(control & 0x1F)
			sizeField := uint32(in[pos])<<8 | uint32(in[pos+1])
			csizeField := uint32(in[pos+2])<<8 | uint32(in[pos+3])
			pos += 4

			usize := (highBits<<16 | sizeField) + 1
			csize := int(csizeField) + 1
			total += int(usize)

			if control >= ctrlLZMAProps {
				if pos >= len(in) {
					return total, false
				}
				pos++ // properties byte
			}
			if pos+csize > len(in) {
				return total, false
			}
			pos += csize

		case control == ctrlUncompressedLow || control == ctrlUncompressedHigh:
			if pos+2 > len(in) {
				return total, false
			}
			sizeField := uint32(in[pos])<<8 | uint32(in[pos+1])
			pos += 2
			copyLen := int(sizeField) + 1
			total += copyLen
			if pos+copyLen > len(in) {
				return total, false
			}
			pos += copyLen

		default:
			return total, false
		}
	}
}
