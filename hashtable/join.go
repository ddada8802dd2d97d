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

package hashtable

import "github.com/flarehq/flaredb/array"

// JoinHashTable indexes the build side of a hash join by join-key hash.
// Unlike AggregateHashTable it never materializes new storage:
// GroupAddress.ChunkIdx/RowIdx point directly into the original build
// batches, since join output gathers from the source batch rather than an
// accumulated state.
type JoinHashTable struct {
	index     *RawTable
	buildKeys [][]*array.Array // buildKeys[batchIdx][col]
}

func NewJoinHashTable() *JoinHashTable {
	return &JoinHashTable{index: NewRawTable(1024)}
}

// AddBuildBatch registers one build-side batch's join-key columns and
// returns the batch index to use as GroupAddress.ChunkIdx for its rows.
func (t *JoinHashTable) AddBuildBatch(keys []*array.Array) int {
	t.buildKeys = append(t.buildKeys, keys)
	return len(t.buildKeys) - 1
}

// Insert indexes build row (batchIdx, row) under hash.
func (t *JoinHashTable) Insert(batchIdx, row int, hash uint64) {
	t.index.Insert(hash, GroupAddress{ChunkIdx: uint32(batchIdx), RowIdx: uint32(row)})
}

func (t *JoinHashTable) BuildKeys(batchIdx int) []*array.Array { return t.buildKeys[batchIdx] }

// Probe calls visit once per build row whose join key equals probeKeys at
// probeRow, using SQL join-condition equality: null never equals null,
// unlike group-key comparison (see valuesEqual in groupchunk.go). Probing
// stops early if visit returns true.
func (t *JoinHashTable) Probe(probeKeys []*array.Array, probeRow int, hash uint64, visit func(addr GroupAddress) bool) bool {
	return t.index.Probe(hash, func(addr GroupAddress) bool {
		build := t.buildKeys[addr.ChunkIdx]
		if !t.joinRowEqual(build, int(addr.RowIdx), probeKeys, probeRow) {
			return false
		}
		return visit(addr)
	})
}

// MarkJoin reports whether at least one build row matches probeKeys at
// probeRow, stopping at the first match: a semi-join / EXISTS / IN
// short-circuit, known as a mark join.
func (t *JoinHashTable) MarkJoin(probeKeys []*array.Array, probeRow int, hash uint64) bool {
	return t.Probe(probeKeys, probeRow, hash, func(GroupAddress) bool { return true })
}

func (t *JoinHashTable) joinRowEqual(build []*array.Array, buildRow int, probe []*array.Array, probeRow int) bool {
	for col, b := range build {
		p := probe[col]
		if !b.IsValid(buildRow) || !p.IsValid(probeRow) {
			return false // SQL: null = null is never true in a join condition
		}
		if !valuesEqual(b, buildRow, p, probeRow) {
			return false
		}
	}
	return true
}

// OuterTracker records which rows of one side of a join were matched at
// least once, so left/right/full outer joins can emit the unmatched
// remainder with nulls on the other side.
// Backed by a RoaringBitmap for compact storage over wide build sides.
type OuterTracker struct {
	matched *array.Bitmap
}

func NewOuterTracker(n int) *OuterTracker {
	return &OuterTracker{matched: array.NewBitmap(n)}
}

func (o *OuterTracker) MarkMatched(i int) { o.matched.Set(i, true) }

func (o *OuterTracker) IsMatched(i int) bool { return o.matched.Get(i) }

// UnmatchedIndices calls f once per unmatched position in ascending order,
// stopping early if f returns false.
func (o *OuterTracker) UnmatchedIndices(f func(i int) bool) {
	for i := 0; i < o.matched.Len(); i++ {
		if !o.matched.Get(i) {
			if !f(i) {
				return
			}
		}
	}
}
