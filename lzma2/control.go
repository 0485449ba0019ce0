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

import "fmt"

// Control byte dispatch (spec §4.3). A byte >= 0x80 is an LZMA chunk; its
// bits 6-5 give a 2-bit reset mode and its low 5 bits the high bits of
// the uncompressed-size-minus-one field.
const (
	ctrlEndMarker        = 0x00
	ctrlUncompressedLow  = 0x01 // uncompressed chunk, also resets the dictionary
	ctrlUncompressedHigh = 0x02 // uncompressed chunk, dictionary kept
	ctrlLZMAMin          = 0x80
	ctrlLZMAStateReset   = 0xA0 // resetMode >= 1: chunk also resets state+probabilities
	ctrlLZMAProps        = 0xC0 // resetMode >= 2: chunk carries a new props byte
	ctrlLZMADictReset    = 0xE0 // resetMode == 3: chunk also resets the dictionary

	maxPropsByte = 224 // (4*5+4)*9+8, the highest valid lc/lp/pb encoding
)

// Result reports the outcome of a Decode call: how much of in was
// consumed and how much of out was produced, in addition to Status.
type Result struct {
	Status      Status
	InConsumed  int
	OutProduced int
}

// Decode decompresses an LZMA2 chunk stream from in into out, stopping
// at the end marker, at a corrupt chunk, or when either buffer is
// exhausted (spec §5, §6). It never allocates dictionary memory beyond
// out itself and never retains in or out after returning.
//
// Result.Status distinguishes the ways Decode can end; the returned
// error wraps the matching sentinel (ErrDataError, ErrInLimit,
// ErrOutLimit) and is nil only when Status is StatusOK.
func Decode(in, out []byte) (Result, error) {
	d := &decoder{
		in:       in,
		inLimit:  len(in),
		out:      out,
		outLimit: len(out),
	}

	status := d.run()
	res := Result{
		Status:      status,
		InConsumed:  d.inPos,
		OutProduced: d.outPos,
	}
	return res, errForStatus(status)
}

// run is the LZMA2 chunk control loop: read one control byte, dispatch
// to an uncompressed or LZMA chunk handler, repeat until the end marker,
// an input/output limit, or corruption.
//
// dictResetDone and needProperties are the only cross-chunk bookkeeping
// the format requires: a dictionary must be established (by 0x01 or a
// 0xE0-0xFF chunk) before anything else is legal, and once one of those
// resets the dictionary, the very next LZMA chunk must also carry fresh
// properties unless it is itself a dictionary-reset chunk.
func (d *decoder) run() Status {
	dictResetDone := false
	needProperties := false

	for {
		control, ok := d.readByte()
		if !ok {
			return StatusInLimit
		}
		if control == ctrlEndMarker {
			return StatusOK
		}

		if control >= ctrlLZMADictReset || control == ctrlUncompressedLow {
			needProperties = true
			d.dictOrigin = d.outPos
			dictResetDone = true
		} else if !dictResetDone {
			return StatusDataError
		}

		switch {
		case control >= ctrlLZMAMin:
			st, ok := d.runLZMAChunk(control, needProperties)
			if !ok {
				return st
			}
			if control >= ctrlLZMAProps {
				needProperties = false
			}

		case control > ctrlUncompressedHigh:
			return StatusDataError // reserved 0x03-0x7F

		default:
			st, ok := d.runUncompressedChunk()
			if !ok {
				return st
			}
		}
	}
}

func (d *decoder) readByte() (byte, bool) {
	if d.inPos >= d.inLimit {
		return 0, false
	}
	b := d.in[d.inPos]
	d.inPos++
	return b, true
}

func (d *decoder) read16BE() (uint32, bool) {
	if d.inLimit-d.inPos < 2 {
		return 0, false
	}
	v := uint32(d.in[d.inPos])<<8 | uint32(d.in[d.inPos+1])
	d.inPos += 2
	return v, true
}

// setChunkOutputWindow computes the per-chunk output target, clamping to
// the caller's real buffer and recording whether the chunk's own
// declared size (moreRun) or the buffer itself is the tighter
// constraint: moreRun is true only when the buffer has room to spare
// beyond this chunk, so that a mid-chunk overrun at the boundary means
// the chunk asked for more bytes than it declared (DataError), while a
// tie or buffer-bound chunk makes an overrun there mean OutLimit instead
// (the limit status, per the precedence spec gives it over corruption).
func (d *decoder) setChunkOutputWindow(usize uint32) {
	if d.outLimit-d.outPos > int(usize) {
		d.chunkOutLim = d.outPos + int(usize)
		d.moreRun = true
	} else {
		d.chunkOutLim = d.outLimit
		d.moreRun = false
	}
}

// runUncompressedChunk handles control bytes 0x01/0x02: a literal byte
// run copied straight into the output, with no range coder involved and
// no effect on the LZMA state machine or recent-distances ring.
func (d *decoder) runUncompressedChunk() (Status, bool) {
	sizeField, ok := d.read16BE()
	if !ok {
		return StatusInLimit, false
	}
	copyLen := int(sizeField) + 1
	status := StatusOK

	if d.inLimit-d.inPos < copyLen {
		copyLen = d.inLimit - d.inPos
		status = StatusInLimit
	}
	if d.outLimit-d.outPos < copyLen {
		copyLen = d.outLimit - d.outPos
		status = StatusOutLimit
	}

	copy(d.out[d.outPos:d.outPos+copyLen], d.in[d.inPos:d.inPos+copyLen])
	d.inPos += copyLen
	d.outPos += copyLen

	if status != StatusOK {
		return status, false
	}
	return StatusOK, true
}

// runLZMAChunk handles control bytes 0x80-0xFF: parse the header fields,
// apply any reset, run the range-coded symbol decoder, then validate
// that the chunk consumed exactly the input and output it declared.
func (d *decoder) runLZMAChunk(control byte, needProperties bool) (Status, bool) {
	// A needProperties violation is fully determined by the control byte
	// alone, so it is checked before consuming any of the chunk's header
	// bytes (matching original_source's check-before-read ordering): a
	// chunk that owes fresh properties but doesn't carry them is
	// corruption regardless of how much input remains afterward, and
	// Result.InConsumed must stop right after the control byte rather
	// than after also reading (and discarding) the size header.
	if control < ctrlLZMAProps && needProperties {
		return StatusDataError, false
	}

	// The 4 size-header bytes are read all-or-nothing so a truncated
	// header leaves InConsumed at the control byte, not partway through.
	if d.inLimit-d.inPos < 4 {
		return StatusInLimit, false
	}
	p := d.in[d.inPos:]
	d.inPos += 4
	usize := (uint32(control&0x1F)<<16 | uint32(p[0])<<8 | uint32(p[1])) + 1
	csize := (uint32(p[2])<<8 | uint32(p[3])) + 1

	if control >= ctrlLZMAProps {
		propsByte, ok := d.readByte()
		if !ok {
			return StatusInLimit, false
		}
		if !d.setProps(propsByte) {
			return StatusDataError, false
		}
	}

	if control >= ctrlLZMAStateReset {
		d.state = stateLitLit
		d.rep = [4]uint32{0, 0, 0, 0}
		d.probs.reset()
	}

	if csize < rcInitBytes {
		return StatusDataError, false
	}
	d.rcLimit = d.inPos + int(csize)
	if d.rcLimit > d.inLimit {
		d.rcLimit = d.inLimit
	}
	if !d.rcInit() {
		return StatusInLimit, false
	}

	d.setChunkOutputWindow(usize)

	status := d.decodeChunk()
	if status != StatusOK {
		return status, false
	}
	if d.inPos < d.rcLimit {
		return StatusDataError, false
	}
	return StatusOK, true
}

// setProps decodes the packed lc/lp/pb properties byte (spec §3) and
// recomputes the derived masks. Returns false if the byte exceeds the
// valid (4*5+4)*9+8 = 224 range.
func (d *decoder) setProps(b byte) bool {
	if b > maxPropsByte {
		return false
	}
	v := int(b)
	lc := v % 9
	v /= 9
	lp := v % 5
	pb := v / 5
	d.lc, d.lp, d.pb = lc, lp, pb
	d.posMask = 1<<uint(pb) - 1
	d.litPosMask = 1<<uint(lp) - 1
	return true
}

// String renders a Result the way the command-line driver logs it.
func (r Result) String() string {
	return fmt.Sprintf("%s in=%d out=%d", r.Status, r.InConsumed, r.OutProduced)
}
