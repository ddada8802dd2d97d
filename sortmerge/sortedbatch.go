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

package sortmerge

import (
	"bytes"
	"sort"

	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/errs"
	"github.com/flarehq/flaredb/kernel"
)

var errUnsupportedInterleave = errs.New(errs.KindExecution, "sortmerge: unsupported column physical type for interleave")

// ComparableRow is a row's precomputed byte-lex-ordered sort key; comparing
// two ComparableRows with bytes.Compare reproduces the SQL ORDER BY result
// of the row's original sort key columns.
type ComparableRow []byte

// IndexSortedBatch pairs a batch with a permutation of its row indices in
// sort-key order, plus the corresponding encoded key per permuted position.
// Neither the heap nor the gather step needs to re-derive ordering from the
// original batch once this is built.
type IndexSortedBatch struct {
	Batch *array.Batch
	Order []int
	Keys  []ComparableRow
}

// SortBatch builds an IndexSortedBatch for b according to keys: it encodes
// every row's composite sort key once, then permutes row indices by
// lexicographic key order.
func SortBatch(b *array.Batch, keys []SortKey) *IndexSortedBatch {
	n := b.NumRows()
	encoded := make([]ComparableRow, n)
	for row := 0; row < n; row++ {
		encoded[row] = encodeRowKey(nil, b.Columns, keys, row)
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return bytes.Compare(encoded[order[i]], encoded[order[j]]) < 0
	})
	orderedKeys := make([]ComparableRow, n)
	for i, row := range order {
		orderedKeys[i] = encoded[row]
	}
	return &IndexSortedBatch{Batch: b, Order: order, Keys: orderedKeys}
}

func (s *IndexSortedBatch) Len() int { return len(s.Order) }

// KeyAt returns the encoded key of the i'th row in sorted order.
func (s *IndexSortedBatch) KeyAt(i int) ComparableRow { return s.Keys[i] }

// interleave gathers rows named by idxs (one per output row) from srcs
// (parallel batches aligned with idxs' BatchIdx) into a single new batch,
// one column at a time, gathering from multiple arrays into a new array of
// length len(idxs).
func interleave(numCols int, srcs []*array.Batch, idxs []RowReference) (*array.Batch, error) {
	cols := make([]*array.Array, numCols)
	for c := 0; c < numCols; c++ {
		mapping := make([]kernel.InterleaveIndex, len(idxs))
		arrays := make([]*array.Array, 0, len(srcs))
		arrayPos := map[int]int{}
		for i, ref := range idxs {
			pos, ok := arrayPos[ref.BatchIdx]
			if !ok {
				pos = len(arrays)
				arrays = append(arrays, srcs[ref.BatchIdx].Columns[c])
				arrayPos[ref.BatchIdx] = pos
			}
			mapping[i] = kernel.InterleaveIndex{BatchIdx: pos, RowIdx: ref.RowIdx}
		}
		out, err := interleaveColumn(arrays, mapping)
		if err != nil {
			return nil, err
		}
		cols[c] = out
	}
	return &array.Batch{Columns: cols}, nil
}

// interleaveColumn dispatches to the physical-type-specific kernel
// interleave function for one column, once at the outer boundary rather
// than per row.
func interleaveColumn(arrays []*array.Array, mapping []kernel.InterleaveIndex) (*array.Array, error) {
	if len(arrays) == 0 {
		return nil, nil
	}
	dt := arrays[0].Type
	switch arrays[0].PhysicalType() {
	case array.PhysInt8:
		return kernel.InterleaveNumeric[int8](dt, arrays, mapping), nil
	case array.PhysInt16:
		return kernel.InterleaveNumeric[int16](dt, arrays, mapping), nil
	case array.PhysInt32:
		return kernel.InterleaveNumeric[int32](dt, arrays, mapping), nil
	case array.PhysInt64:
		return kernel.InterleaveNumeric[int64](dt, arrays, mapping), nil
	case array.PhysUInt8:
		return kernel.InterleaveNumeric[uint8](dt, arrays, mapping), nil
	case array.PhysUInt16:
		return kernel.InterleaveNumeric[uint16](dt, arrays, mapping), nil
	case array.PhysUInt32:
		return kernel.InterleaveNumeric[uint32](dt, arrays, mapping), nil
	case array.PhysUInt64:
		return kernel.InterleaveNumeric[uint64](dt, arrays, mapping), nil
	case array.PhysFloat32:
		return kernel.InterleaveNumeric[float32](dt, arrays, mapping), nil
	case array.PhysFloat64:
		return kernel.InterleaveNumeric[float64](dt, arrays, mapping), nil
	case array.PhysBoolean:
		return kernel.InterleaveBoolean(arrays, mapping), nil
	case array.PhysVarlen32, array.PhysVarlen64:
		return kernel.InterleaveVarlen(dt, arrays, mapping), nil
	default:
		return nil, errUnsupportedInterleave
	}
}
