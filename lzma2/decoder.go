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

// decoder holds the entire frame for one Decode call: the range coder,
// the probability model, the LZMA state machine, the recent-distances
// ring, and the input/output cursors. One decoder is created per Decode
// call and discarded at return (spec §3 "Lifecycle", §5).
type decoder struct {
	in       []byte
	inPos    int
	inLimit  int // caller's *insize; the true end of readable input
	rcLimit  int // current chunk's compressed-byte cursor limit

	out         []byte
	outPos      int
	outLimit    int  // caller's *outsize; the true end of writable output
	dictOrigin  int
	chunkOutLim int  // target outPos for the chunk currently running
	moreRun     bool // true: chunk's declared size fits the buffer, so
	// running dry before chunkOutLim is corruption, not OUTLIMIT.

	code uint32
	rng  uint32

	lc, lp, pb int
	posMask    uint32
	litPosMask uint32

	state int
	rep   [4]uint32

	probs probModel
}

// decodeBit renormalizes and decodes a single scalar probability. Every
// standalone yes/no decision (is_match, is_rep, is_rep0, ...) goes through
// this helper; bittree decodes renormalize internally once per bit.
func (d *decoder) decodeBit(p *prob) (bit int, ok bool) {
	if !d.rcNormalize() {
		return 0, false
	}
	return d.rcBit(p), true
}

// rcLimitStatus classifies a renormalize failure per spec §4.1/§7:
// genuine end of the caller's input is InLimit; running past a chunk's
// own declared compressed length while more real input remains is
// DataError.
func (d *decoder) rcLimitStatus() Status {
	if d.inPos >= d.inLimit {
		return StatusInLimit
	}
	return StatusDataError
}

// decodeChunk runs the LZMA symbol decoder until outPos reaches
// chunkOutLim or the range coder can no longer renormalize. It is called
// once per LZMA2 chunk with the frame's chunk-scoped fields
// (rcLimit/chunkOutLim/moreRun) already set by the control layer.
func (d *decoder) decodeChunk() Status {
	for {
		if !d.rcNormalize() {
			return d.rcLimitStatus()
		}
		if d.outPos >= d.chunkOutLim {
			return StatusOK
		}

		posState := uint32(d.outPos-d.dictOrigin) & d.posMask
		isMatch := d.rcBit(&d.probs.isMatch[d.state][posState])
		if isMatch == 0 {
			if st, ok := d.decodeLiteral(); !ok {
				return st
			}
			continue
		}

		repBit, ok := d.decodeBit(&d.probs.isRep[d.state])
		if !ok {
			return d.rcLimitStatus()
		}

		var length uint32
		if repBit == 1 {
			length, ok = d.decodeRep(posState)
		} else {
			length, ok = d.decodeMatch(posState)
		}
		if !ok {
			return d.rcLimitStatus()
		}

		if st, done := d.copyMatch(length); done {
			return st
		}
	}
}

// decodeLiteral decodes one literal byte (normal bittree, or the
// matched-literal variant when the previous emission was a match) and
// appends it to the output. Returns ok=false (with the classified status)
// if a renormalize failed partway through.
func (d *decoder) decodeLiteral() (Status, bool) {
	var prevByte byte
	if d.outPos > d.dictOrigin {
		prevByte = d.out[d.outPos-1]
	}
	row := (uint32(prevByte) >> (8 - uint(d.lc))) |
		((uint32(d.outPos-d.dictOrigin) & d.litPosMask) << uint(d.lc))
	// The props check bounds lc and lp separately but not their sum, so a
	// stream with lc+lp > 4 can push row past the table's 16 sub-coders.
	row &= literalCodersMax - 1
	probs := d.probs.literal[row][:]

	var symbol uint32
	if d.state < litStates {
		symbol = d.rcBittree(probs, 0x100)
		if symbol == 0 {
			return d.rcLimitStatus(), false
		}
	} else {
		if uint32(d.outPos-d.dictOrigin) <= d.rep[0] {
			return StatusDataError, false
		}
		matchByte := uint32(d.out[d.outPos-int(d.rep[0])-1])
		offset := uint32(0x100)
		symbol = 1
		for symbol < 0x100 {
			matchByte <<= 1
			matchBit := matchByte & offset
			if !d.rcNormalize() {
				return d.rcLimitStatus(), false
			}
			bit := d.rcBit(&probs[offset+matchBit+symbol])
			symbol <<= 1
			if bit != 0 {
				symbol |= 1
				offset &= matchBit
			} else {
				offset &= ^matchBit
			}
		}
	}

	d.out[d.outPos] = byte(symbol)
	d.outPos++
	d.state = updateStateLiteral(d.state)
	return StatusOK, true
}

// decodeLenValue runs the shared low/mid/high length sub-model (spec
// §4.2 "Length sub-model") and returns the final length, biased by
// matchLenMin.
func (d *decoder) decodeLenValue(l *lenDec, posState uint32) (uint32, bool) {
	choice, ok := d.decodeBit(&l.choice)
	if !ok {
		return 0, false
	}
	if choice == 0 {
		sym := d.rcBittree(l.low[posState][:], lenLowSymbols)
		if sym == 0 {
			return 0, false
		}
		return matchLenMin + (sym - lenLowSymbols), true
	}
	choice2, ok := d.decodeBit(&l.choice2)
	if !ok {
		return 0, false
	}
	if choice2 == 0 {
		sym := d.rcBittree(l.mid[posState][:], lenMidSymbols)
		if sym == 0 {
			return 0, false
		}
		return matchLenMin + lenLowSymbols + (sym - lenMidSymbols), true
	}
	sym := d.rcBittree(l.high[:], lenHighSymbols)
	if sym == 0 {
		return 0, false
	}
	return matchLenMin + lenLowSymbols + lenMidSymbols + (sym - lenHighSymbols), true
}

// decodeRep decodes the rep-match family: short rep, long rep0, or
// rep1/rep2/rep3 (with MRU rotation per spec §3), leaving the chosen
// distance in rep[0] and returning the match length.
func (d *decoder) decodeRep(posState uint32) (uint32, bool) {
	rep0Bit, ok := d.decodeBit(&d.probs.isRep0[d.state])
	if !ok {
		return 0, false
	}
	if rep0Bit == 0 {
		longBit, ok := d.decodeBit(&d.probs.isRep0Long[d.state][posState])
		if !ok {
			return 0, false
		}
		if longBit == 0 {
			d.state = updateStateShortRep(d.state)
			return 1, true
		}
		d.state = updateStateLongRep(d.state)
		return d.decodeLenValue(&d.probs.repLenDec, posState)
	}

	rep1Bit, ok := d.decodeBit(&d.probs.isRep1[d.state])
	if !ok {
		return 0, false
	}
	var idx int
	if rep1Bit == 0 {
		idx = 1
	} else {
		rep2Bit, ok := d.decodeBit(&d.probs.isRep2[d.state])
		if !ok {
			return 0, false
		}
		if rep2Bit == 0 {
			idx = 2
		} else {
			idx = 3
		}
	}
	dist := d.rep[idx]
	for j := idx; j > 0; j-- {
		d.rep[j] = d.rep[j-1]
	}
	d.rep[0] = dist

	d.state = updateStateLongRep(d.state)
	return d.decodeLenValue(&d.probs.repLenDec, posState)
}

// decodeMatch decodes a brand-new match: length, then distance (spec
// §4.2 "new match"). The recent-distances ring is shifted right before
// the new distance is assigned to rep[0].
func (d *decoder) decodeMatch(posState uint32) (uint32, bool) {
	d.state = updateStateMatch(d.state)
	d.rep[3], d.rep[2], d.rep[1] = d.rep[2], d.rep[1], d.rep[0]

	length, ok := d.decodeLenValue(&d.probs.matchLenDec, posState)
	if !ok {
		return 0, false
	}
	if !d.decodeDistance(length) {
		return 0, false
	}
	return length, true
}

// decodeDistance decodes the distance of a new match into rep[0] (spec
// §4.2 step 4): slot, then special-cased low slots, mid-range extra bits
// via a reverse bittree, or high-range extra bits split between direct
// bits and a 4-bit aligned reverse bittree.
func (d *decoder) decodeDistance(length uint32) bool {
	lenClass := length - matchLenMin
	if lenClass > distStates-1 {
		lenClass = distStates - 1
	}

	slot := d.rcBittree(d.probs.distSlot[lenClass][:], distSlots)
	if slot == 0 {
		return false
	}
	slot -= distSlots

	if slot < distModelStart {
		d.rep[0] = slot
		return true
	}

	footerBits := (slot >> 1) - 1
	baseBit := 2 | (slot & 1)

	if slot < distModelEnd {
		base := baseBit << footerBits
		offset := int(base) - int(slot) - 1
		dist, ok := d.rcBittreeReverse(d.probs.distSpecial[:], offset, uint(footerBits), base)
		if !ok {
			return false
		}
		d.rep[0] = dist
		return true
	}

	dist, ok := d.rcDirectBits(uint(footerBits-alignBits), baseBit)
	if !ok {
		return false
	}
	dist <<= alignBits
	dist, ok = d.rcBittreeReverse(d.probs.distAlign[:], 0, alignBits, dist)
	if !ok {
		return false
	}
	d.rep[0] = dist
	return true
}

// copyMatch performs the LZ77 byte-by-byte copy for a decoded
// (length, rep[0]) pair (spec §4.2 "LZ77 copy"). A byte-by-byte copy is
// required, not memmove, because distance 0 (replicate the previous
// byte) is legal and common with overlapping source/destination ranges.
//
// Returns done=true when decodeChunk must stop and report st
// immediately (a dictionary-safety violation, or output exhaustion);
// done=false means the copy succeeded and the caller should keep
// decoding.
func (d *decoder) copyMatch(length uint32) (st Status, done bool) {
	dist := d.rep[0]
	if uint32(d.outPos-d.dictOrigin) <= dist {
		return StatusDataError, true
	}

	avail := uint32(d.chunkOutLim - d.outPos)
	overrun := length > avail
	if overrun {
		length = avail
	}

	src := d.outPos - int(dist) - 1
	for i := uint32(0); i < length; i++ {
		d.out[d.outPos] = d.out[src]
		d.outPos++
		src++
	}

	if overrun {
		if d.moreRun {
			return StatusDataError, true
		}
		return StatusOutLimit, true
	}
	return StatusOK, false
}
