// Copyright 2024 The FlareDB Authors
// This file is part of FlareDB.
//
// FlareDB is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// FlareDB is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with FlareDB. If not, see <http://www.gnu.org/licenses/>.

// Package hashtable implements the hash aggregation and hash join cores:
// the shared open-addressed index, GroupChunk storage, row comparison,
// and join probe/tracker logic.
package hashtable

// GroupAddress is an 8-byte handle into a GroupChunk.
type GroupAddress struct {
	ChunkIdx uint32
	RowIdx   uint32
}

// slot is one occupied or empty position in RawTable's backing array.
type slot struct {
	hash uint64
	addr GroupAddress
	used bool
}

// RawTable is the open-addressed table mapping 64-bit hash -> (hash,
// GroupAddress) shared by hash aggregation and hash join. Only
// a 7-bit hash tag is used for the fast prefilter; full equality is always
// checked against the stored chunk by the caller via Probe's visit
// callback, never by RawTable itself.
type RawTable struct {
	slots []slot
	mask  uint64
	count int
}

func tagOf(hash uint64) uint8 { return uint8(hash & 0x7f) }

// NewRawTable allocates a table sized for at least capacityHint entries at
// a 0.75 load factor.
func NewRawTable(capacityHint int) *RawTable {
	n := 8
	for n < capacityHint*4/3+1 {
		n *= 2
	}
	return &RawTable{slots: make([]slot, n), mask: uint64(n - 1)}
}

func (t *RawTable) Len() int { return t.count }

// Insert adds (hash, addr) to the table, growing it first if the load
// factor would exceed 0.75.
func (t *RawTable) Insert(hash uint64, addr GroupAddress) {
	if (t.count+1)*4 > len(t.slots)*3 {
		t.grow()
	}
	t.insertInto(t.slots, t.mask, hash, addr)
	t.count++
}

func (t *RawTable) insertInto(slots []slot, mask uint64, hash uint64, addr GroupAddress) {
	i := hash & mask
	for slots[i].used {
		i = (i + 1) & mask
	}
	slots[i] = slot{hash: hash, addr: addr, used: true}
}

func (t *RawTable) grow() {
	newSlots := make([]slot, len(t.slots)*2)
	newMask := uint64(len(newSlots) - 1)
	for _, s := range t.slots {
		if s.used {
			t.insertInto(newSlots, newMask, s.hash, s.addr)
		}
	}
	t.slots = newSlots
	t.mask = newMask
}

// Probe calls visit once for every candidate whose stored hash equals
// hash, stopping early (and returning true) if visit returns true. The
// caller is responsible for the full key-equality check against the
// chunk; RawTable only guarantees the hash (not the 7-bit tag) matches
// exactly.
func (t *RawTable) Probe(hash uint64, visit func(GroupAddress) bool) bool {
	tag := tagOf(hash)
	i := hash & t.mask
	for t.slots[i].used {
		s := t.slots[i]
		if tagOf(s.hash) == tag && s.hash == hash {
			if visit(s.addr) {
				return true
			}
		}
		i = (i + 1) & t.mask
	}
	return false
}

// Merge folds another RawTable's entries into t, rebasing each
// GroupAddress's chunk index by chunkOffset (row indices are kept) and
// reinserting it under its hash. Chunk storage is not touched here.
func (t *RawTable) Merge(other *RawTable, chunkOffset uint32) {
	for _, s := range other.slots {
		if s.used {
			t.Insert(s.hash, GroupAddress{ChunkIdx: s.addr.ChunkIdx + chunkOffset, RowIdx: s.addr.RowIdx})
		}
	}
}
