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

// Package lzma2 decodes a single LZMA2 chunk stream into a caller-supplied
// output buffer in one call. There is no streaming, no dictionary window
// allocation beyond the caller's own output buffer, and no filter support
// beyond LZMA2 itself — it is meant for embedded and bootstrap contexts
// where the input and output are both already in memory.
package lzma2
