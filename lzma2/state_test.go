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

func TestUpdateStateLiteralFromEveryState(t *testing.T) {
	for s := 0; s < numStates; s++ {
		got := updateStateLiteral(s)
		if got < 0 || got > stateLitLit {
			t.Errorf("updateStateLiteral(%d) = %d, want stateLitLit (0)", s, got)
		}
		if got != stateLitLit {
			t.Errorf("updateStateLiteral(%d) = %d, want %d", s, got, stateLitLit)
		}
	}
}

func TestUpdateStateMatchSplitsOnLitStates(t *testing.T) {
	for s := 0; s < litStates; s++ {
		if got := updateStateMatch(s); got != stateLitMatch {
			t.Errorf("updateStateMatch(%d) = %d, want stateLitMatch", s, got)
		}
	}
	for s := litStates; s < numStates; s++ {
		if got := updateStateMatch(s); got != stateNonLitMatch {
			t.Errorf("updateStateMatch(%d) = %d, want stateNonLitMatch", s, got)
		}
	}
}

func TestUpdateStateLongRepSplitsOnLitStates(t *testing.T) {
	for s := 0; s < litStates; s++ {
		if got := updateStateLongRep(s); got != stateLitLongRep {
			t.Errorf("updateStateLongRep(%d) = %d, want stateLitLongRep", s, got)
		}
	}
	for s := litStates; s < numStates; s++ {
		if got := updateStateLongRep(s); got != stateNonLitRep {
			t.Errorf("updateStateLongRep(%d) = %d, want stateNonLitRep", s, got)
		}
	}
}

func TestUpdateStateShortRepSplitsOnLitStates(t *testing.T) {
	for s := 0; s < litStates; s++ {
		if got := updateStateShortRep(s); got != stateLitShortRep {
			t.Errorf("updateStateShortRep(%d) = %d, want stateLitShortRep", s, got)
		}
	}
	for s := litStates; s < numStates; s++ {
		if got := updateStateShortRep(s); got != stateNonLitRep {
			t.Errorf("updateStateShortRep(%d) = %d, want stateNonLitRep", s, got)
		}
	}
}

func TestProbModelResetRestoresInitialValues(t *testing.T) {
	var m probModel
	m.isMatch[3][2] = 42
	m.distSpecial[10] = 7
	m.literal[5][700] = 99
	m.matchLenDec.choice = 1

	m.reset()

	if m.isMatch[3][2] != probInitial {
		t.Errorf("isMatch not reset: %d", m.isMatch[3][2])
	}
	if m.distSpecial[10] != probInitial {
		t.Errorf("distSpecial not reset: %d", m.distSpecial[10])
	}
	if m.literal[5][700] != probInitial {
		t.Errorf("literal not reset: %d", m.literal[5][700])
	}
	if m.matchLenDec.choice != probInitial {
		t.Errorf("matchLenDec.choice not reset: %d", m.matchLenDec.choice)
	}
}
