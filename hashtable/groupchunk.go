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

import (
	"github.com/flarehq/flaredb/array"
)

// AggregateState is the per-group, per-aggregate-function accumulator
// stored in a GroupChunk (e.g. kernel.SumState[T]); Merge combines another
// state of the same concrete type into this one, used when partition
// tables are merged and a group is present in both.
type AggregateState interface {
	Merge(other AggregateState)
}

// GroupChunk is a row-major batch of materialized group keys with
// parallel hashes and per-aggregate state vectors.
type GroupChunk struct {
	NumGroups       int
	Hashes          []uint64
	Arrays          []*array.Array // one array per group-by key column
	AggregateStates [][]AggregateState // one slice per aggregate function, indexed by row
	Capacity        int
}

// RowEqual reports whether chunk row i's key columns equal the probe row's
// key columns, column-by-column, physical-type dispatched, with null
// considered equal to null.
func (c *GroupChunk) RowEqual(row int, probe []*array.Array, probeRow int) bool {
	for col, a := range c.Arrays {
		p := probe[col]
		if !valuesEqual(a, row, p, probeRow) {
			return false
		}
	}
	return true
}

// valuesEqual compares one logical row of a against one logical row of b,
// treating null == null as equal; used for group-key comparison, not
// SQL-level equality which treats null != null — see hashtable/join.go for
// the join-condition variant that honors SQL semantics.
func valuesEqual(a *array.Array, ai int, b *array.Array, bi int) bool {
	av, bv := a.IsValid(ai), b.IsValid(bi)
	if av != bv {
		return false
	}
	if !av {
		return true // both null
	}
	switch a.PhysicalType() {
	case array.PhysInt8:
		return numVal[int8](a, ai) == numVal[int8](b, bi)
	case array.PhysInt16:
		return numVal[int16](a, ai) == numVal[int16](b, bi)
	case array.PhysInt32:
		return numVal[int32](a, ai) == numVal[int32](b, bi)
	case array.PhysInt64:
		return numVal[int64](a, ai) == numVal[int64](b, bi)
	case array.PhysUInt8:
		return numVal[uint8](a, ai) == numVal[uint8](b, bi)
	case array.PhysUInt16:
		return numVal[uint16](a, ai) == numVal[uint16](b, bi)
	case array.PhysUInt32:
		return numVal[uint32](a, ai) == numVal[uint32](b, bi)
	case array.PhysUInt64:
		return numVal[uint64](a, ai) == numVal[uint64](b, bi)
	case array.PhysFloat32:
		return numVal[float32](a, ai) == numVal[float32](b, bi)
	case array.PhysFloat64:
		return numVal[float64](a, ai) == numVal[float64](b, bi)
	case array.PhysBoolean:
		return a.Storage().(*array.BooleanStorage).Values.Get(a.PhysicalIndex(ai)) ==
			b.Storage().(*array.BooleanStorage).Values.Get(b.PhysicalIndex(bi))
	case array.PhysVarlen32, array.PhysVarlen64:
		av := a.Storage().(*array.VarlenStorage).Bytes(a.PhysicalIndex(ai))
		bv := b.Storage().(*array.VarlenStorage).Bytes(b.PhysicalIndex(bi))
		return string(av) == string(bv)
	default:
		return false
	}
}

func numVal[T array.Number](a *array.Array, i int) T {
	return a.Storage().(*array.NumericStorage[T]).Values[a.PhysicalIndex(i)]
}
