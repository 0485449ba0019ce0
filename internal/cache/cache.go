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

// Package cache provides a small bounded cache of decode results, keyed by
// the exact input bytes, so the command-line driver can skip re-running
// the decoder when invoked twice on an unchanged artifact (e.g. from a
// build script). It is purely an optimization for cmd/unlzma2: nothing in
// package lzma2 or xzframe consults it, and a cache miss behaves exactly
// like the cache not existing at all.
//
// Adapted from chd.HunkMap's cache field (a hand-rolled
// map[uint32][]byte guarded by sync.RWMutex, capped at a fixed entry
// count with no eviction policy once full): that shape is generalized
// here onto github.com/hashicorp/golang-lru/v2, which the teacher already
// depends on transitively and which gives proper least-recently-used
// eviction instead of the teacher's "stop caching once full" behavior.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Entry is a cached decode outcome: the decoded bytes and the bookkeeping
// the caller needs to reproduce lzma2.Result without re-running Decode.
type Entry struct {
	Status      int
	InConsumed  int
	OutProduced int
	Output      []byte
}

// Cache is a bounded, least-recently-used cache of Entry values keyed by
// the input byte string. The zero value is not usable; construct with
// New.
type Cache struct {
	lru *lru.Cache[string, Entry]
}

// New creates a Cache holding at most size entries. size must be positive.
func New(size int) (*Cache, error) {
	l, err := lru.New[string, Entry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

// Get looks up the cached Entry for in, if any. The returned Output must
// not be mutated by the caller: it is shared with the cache.
func (c *Cache) Get(in []byte) (Entry, bool) {
	return c.lru.Get(string(in))
}

// Put records the decode outcome for in. The caller must not mutate
// e.Output afterward, as it is retained by the cache.
func (c *Cache) Put(in []byte, e Entry) {
	c.lru.Add(string(in), e)
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	return c.lru.Len()
}
