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

import "testing"

func TestEstimateOutputSizeUncompressed(t *testing.T) {
	in := append([]byte{0x01, 0x00, 0x04}, "hello"...)
	in = append(in, 0x00)

	n, ok := EstimateOutputSize(in)
	if !ok {
		t.Fatal("EstimateOutputSize reported incomplete on a well-formed stream")
	}
	if n != 5 {
		t.Fatalf("n = %d, want 5", n)
	}
}

func TestEstimateOutputSizeMultipleChunks(t *testing.T) {
	in := append([]byte{0x01, 0x00, 0x01}, "ab"...)
	in = append(in, append([]byte{0x02, 0x00, 0x01}, "cd"...)...)
	in = append(in, 0x00)

	n, ok := EstimateOutputSize(in)
	if !ok {
		t.Fatal("EstimateOutputSize reported incomplete on a well-formed stream")
	}
	if n != 4 {
		t.Fatalf("n = %d, want 4", n)
	}
}

func TestEstimateOutputSizeTruncated(t *testing.T) {
	in := []byte{0x01, 0x00, 0x10, 'a', 'b'} // declares 17 bytes, only has 2
	n, ok := EstimateOutputSize(in)
	if ok {
		t.Fatal("EstimateOutputSize reported complete on a truncated chunk")
	}
	if n != 17 {
		t.Fatalf("n = %d, want 17 (declared size counted even though truncated)", n)
	}
}

func TestEstimateOutputSizeRejectsReservedControl(t *testing.T) {
	n, ok := EstimateOutputSize([]byte{0x05, 'x'})
	if ok {
		t.Fatal("EstimateOutputSize accepted a reserved control byte")
	}
	if n != 0 {
		t.Fatalf("n = %d, want 0", n)
	}
}

func TestEstimateOutputSizeEmpty(t *testing.T) {
	n, ok := EstimateOutputSize(nil)
	if ok {
		t.Fatal("EstimateOutputSize reported complete on an empty buffer")
	}
	if n != 0 {
		t.Fatalf("n = %d, want 0", n)
	}
}

func TestEstimateOutputSizeLZMAChunkSkipsCompressedBytes(t *testing.T) {
	// A well-formed LZMA chunk header (dict+state+props reset) declaring
	// usize=1, csize=2, followed by exactly 2 bytes of "compressed" data
	// and the end marker. EstimateOutputSize must not try to range-decode
	// the payload, only skip over it.
	in := []byte{
		0xE0,       // control: dict reset + state reset + new props
		0x00, 0x00, // usize-1 = 0 -> usize = 1
		0x00, 0x01, // csize-1 = 1 -> csize = 2
		0x00,       // props byte (lc=0,lp=0,pb=0)
		0xAA, 0xBB, // 2 bytes of opaque compressed payload
		0x00, // end marker
	}
	n, ok := EstimateOutputSize(in)
	if !ok {
		t.Fatal("EstimateOutputSize reported incomplete on a well-formed LZMA chunk")
	}
	if n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
}
