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

const defaultChunkCapacity = 2048

// NewAggregateState constructs the per-group accumulator for one aggregate
// function slot (e.g. kernel.SumState[T]); supplied by the caller so this
// package stays agnostic of concrete aggregate function kinds.
type NewAggregateState func() AggregateState

// AggregateHashTable is the build-side hash aggregation core: a RawTable
// index over a sequence of GroupChunks, each holding materialized group
// keys and one AggregateState per (group, aggregate function).
type AggregateHashTable struct {
	index    *RawTable
	keyTypes []array.DataType
	newState []NewAggregateState
	chunkCap int

	chunks  []*GroupChunk
	keyCols [][]*keyColumnBuilder // keyCols[chunkIdx][colIdx]
	states  [][][]AggregateState // states[chunkIdx][aggIdx][row]
}

// NewAggregateHashTable creates an empty table. keyTypes describes the
// group-by columns in order; newState supplies one constructor per
// aggregate function column, invoked once per newly created group.
func NewAggregateHashTable(keyTypes []array.DataType, newState []NewAggregateState) *AggregateHashTable {
	return &AggregateHashTable{
		index:    NewRawTable(1024),
		keyTypes: keyTypes,
		newState: newState,
		chunkCap: defaultChunkCapacity,
	}
}

// FindOrCreateGroup resolves addr, the GroupAddress for the group whose key
// is keys[row] (one *array.Array per group-by column) with the given hash.
// Returns created=true if a new group was appended:
// probe by hash, verify equality against the stored chunk, and on a miss
// append a new row to the current (or a freshly sealed) chunk.
func (t *AggregateHashTable) FindOrCreateGroup(keys []*array.Array, row int, hash uint64) (addr GroupAddress, created bool) {
	probe := keys
	var found GroupAddress
	hit := t.index.Probe(hash, func(cand GroupAddress) bool {
		chunk := t.chunks[cand.ChunkIdx]
		if chunk.RowEqual(int(cand.RowIdx), probe, row) {
			found = cand
			return true
		}
		return false
	})
	if hit {
		return found, false
	}

	addr = t.appendGroup(keys, row, hash)
	t.index.Insert(hash, addr)
	return addr, true
}

// appendGroup materializes a new group row into the open chunk, sealing it
// into an immutable GroupChunk and starting a fresh one once chunkCap is
// reached.
func (t *AggregateHashTable) appendGroup(keys []*array.Array, row int, hash uint64) GroupAddress {
	if len(t.chunks) == 0 || t.chunks[len(t.chunks)-1].NumGroups >= t.chunkCap {
		t.openNewChunk()
	}
	ci := len(t.chunks) - 1
	cols := t.keyCols[ci]
	for i, col := range cols {
		col.appendFrom(keys[i], row)
	}
	chunk := t.chunks[ci]
	ri := chunk.NumGroups
	chunk.NumGroups++
	chunk.Hashes = append(chunk.Hashes, hash)
	for a := range t.newState {
		t.states[ci][a] = append(t.states[ci][a], t.newState[a]())
	}
	t.sealKeyArrays(ci)
	return GroupAddress{ChunkIdx: uint32(ci), RowIdx: uint32(ri)}
}

func (t *AggregateHashTable) openNewChunk() {
	cols := make([]*keyColumnBuilder, len(t.keyTypes))
	for i, dt := range t.keyTypes {
		cols[i] = newKeyColumnBuilder(dt)
	}
	t.keyCols = append(t.keyCols, cols)
	states := make([][]AggregateState, len(t.newState))
	t.states = append(t.states, states)
	t.chunks = append(t.chunks, &GroupChunk{Capacity: t.chunkCap})
}

// sealKeyArrays refreshes chunk ci's Arrays snapshot and AggregateStates
// view after an append. Re-snapshotting on every insert is the price paid
// for keeping GroupChunk.Arrays as plain, directly comparable *array.Array
// values.
func (t *AggregateHashTable) sealKeyArrays(ci int) {
	cols := t.keyCols[ci]
	arrays := make([]*array.Array, len(cols))
	for i, c := range cols {
		arrays[i] = c.snapshot()
	}
	t.chunks[ci].Arrays = arrays
	t.chunks[ci].AggregateStates = t.states[ci]
}

// Group returns the chunk and row index for addr.
func (t *AggregateHashTable) Group(addr GroupAddress) (chunk *GroupChunk, row int) {
	return t.chunks[addr.ChunkIdx], int(addr.RowIdx)
}

// State returns the aggIdx'th accumulator for addr's group.
func (t *AggregateHashTable) State(addr GroupAddress, aggIdx int) AggregateState {
	return t.states[addr.ChunkIdx][aggIdx][addr.RowIdx]
}

func (t *AggregateHashTable) NumGroups() int { return t.index.Len() }

func (t *AggregateHashTable) Chunks() []*GroupChunk { return t.chunks }

// Merge folds other into t group by group, looking each of other's groups
// up in t with FindOrCreateGroup. Groups present only in other are
// adopted wholesale; groups present in both have their AggregateStates
// merged via AggregateState.Merge.
func (t *AggregateHashTable) Merge(other *AggregateHashTable) {
	for _, chunk := range other.chunks {
		for row := 0; row < chunk.NumGroups; row++ {
			hash := chunk.Hashes[row]
			keys := chunk.Arrays
			existing, created := t.FindOrCreateGroup(keys, row, hash)
			dstChunk, dstRow := t.Group(existing)
			if created {
				// appendGroup already allocated fresh states; adopt other's
				// instead so the merged value isn't double counted.
				for a := range dstChunk.AggregateStates {
					dstChunk.AggregateStates[a][dstRow] = chunk.AggregateStates[a][row]
				}
				continue
			}
			for a := range dstChunk.AggregateStates {
				dstChunk.AggregateStates[a][dstRow].Merge(chunk.AggregateStates[a][row])
			}
		}
	}
}
