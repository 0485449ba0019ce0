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

// The 12 LZMA states, numbered exactly as the format requires so that the
// transition arithmetic below matches the reference decoder bit for bit
// (spec §3, §9). litStates states indicate the previous emission ended
// with a literal.
const (
	stateLitLit = iota
	stateMatchLitLit
	stateRepLitLit
	stateShortRepLitLit
	stateMatchLit
	stateRepLit
	stateShortRepLit
	stateLitMatch
	stateLitLongRep
	stateLitShortRep
	stateNonLitMatch
	stateNonLitRep

	numStates = 12
	litStates = 7 // states < litStates: previous emission was a literal
)

// updateStateLiteral advances state after a literal was emitted,
// regardless of which of the two literal-decoding paths produced it.
func updateStateLiteral(state int) int {
	switch {
	case state <= stateShortRepLitLit:
		return stateLitLit
	case state <= stateLitShortRep:
		return state - 3
	default:
		return state - 6
	}
}

// updateStateMatch advances state after a new match (fresh distance).
func updateStateMatch(state int) int {
	if state < litStates {
		return stateLitMatch
	}
	return stateNonLitMatch
}

// updateStateLongRep advances state after any rep-match with an explicit
// length (as opposed to a length-1 short rep): rep0 with a decoded length,
// or rep1/rep2/rep3.
func updateStateLongRep(state int) int {
	if state < litStates {
		return stateLitLongRep
	}
	return stateNonLitRep
}

// updateStateShortRep advances state after a length-1 short rep.
func updateStateShortRep(state int) int {
	if state < litStates {
		return stateLitShortRep
	}
	return stateNonLitRep
}
