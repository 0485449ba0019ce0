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
	"errors"
	"fmt"
)

// ErrNotXZ means buf does not begin with the XZ Stream Header magic.
var ErrNotXZ = errors.New("xzframe: not an xz stream")

// ErrCheckMismatch means the recorded block integrity check did not match
// the decoded output.
var ErrCheckMismatch = errors.New("xzframe: check value mismatch")

// FormatError indicates a structurally invalid or unsupported container:
// multiple blocks, a filter other than LZMA2, a reserved flag bit set, or a
// CRC32 mismatch anywhere in the framing.
type FormatError struct {
	Field  string
	Reason string
}

func (e FormatError) Error() string {
	return fmt.Sprintf("xzframe: %s: %s", e.Field, e.Reason)
}

func formatErrorf(field, format string, args ...any) error {
	return FormatError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
