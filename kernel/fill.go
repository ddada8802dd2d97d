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

package kernel

import "github.com/flarehq/flaredb/array"

// FillMapping pairs a source logical row index with a destination row
// index in the output buffer.
type FillMapping struct {
	FromIdx int
	ToIdx   int
}

// FillNumeric writes into a single output buffer of length outLen from a
// sequence of (input array, mappings) pairs, tracking destination validity:
// nulls in inputs become cleared bits in the output bitmap. Destination
// rows with no mapping at all are left at the zero value and marked null.
func FillNumeric[T array.Number](outType array.DataType, outLen int, inputs []*array.Array, mappingSets [][]FillMapping) *array.Array {
	out := array.NewNumericBuilder[T](outType, outLen)
	touched := array.NewBitmap(outLen)
	for s, in := range inputs {
		vals := numericValues[T](in)
		for _, m := range mappingSets[s] {
			touched.Set(m.ToIdx, true)
			if !in.IsValid(m.FromIdx) {
				out.SetNull(m.ToIdx)
				continue
			}
			out.Set(m.ToIdx, vals[in.PhysicalIndex(m.FromIdx)])
		}
	}
	for i := 0; i < outLen; i++ {
		if !touched.Get(i) {
			out.SetNull(i)
		}
	}
	return out.Finish()
}

// Interleave gathers rows from multiple same-typed input arrays into one
// new array of length len(indices); each entry names which input array and
// which logical row within it to copy.
type InterleaveIndex struct {
	BatchIdx int
	RowIdx   int
}

func InterleaveNumeric[T array.Number](outType array.DataType, inputs []*array.Array, indices []InterleaveIndex) *array.Array {
	out := array.NewNumericBuilder[T](outType, len(indices))
	valSlices := make([][]T, len(inputs))
	for i, in := range inputs {
		valSlices[i] = numericValues[T](in)
	}
	for i, idx := range indices {
		in := inputs[idx.BatchIdx]
		if !in.IsValid(idx.RowIdx) {
			out.SetNull(i)
			continue
		}
		out.Set(i, valSlices[idx.BatchIdx][in.PhysicalIndex(idx.RowIdx)])
	}
	return out.Finish()
}

// InterleaveBoolean is Interleave specialized to the bitmap-backed boolean
// storage.
func InterleaveBoolean(inputs []*array.Array, indices []InterleaveIndex) *array.Array {
	b := array.NewBooleanBuilder(len(indices))
	for i, idx := range indices {
		in := inputs[idx.BatchIdx]
		if !in.IsValid(idx.RowIdx) {
			b.SetNull(i)
			continue
		}
		v := in.Storage().(*array.BooleanStorage).Values.Get(in.PhysicalIndex(idx.RowIdx))
		b.Set(i, v)
	}
	return b.Finish()
}

// InterleaveVarlen is Interleave specialized to variable-length storage.
func InterleaveVarlen(dt array.DataType, inputs []*array.Array, indices []InterleaveIndex) *array.Array {
	b := array.NewVarlenBuilder(dt, len(indices))
	for _, idx := range indices {
		in := inputs[idx.BatchIdx]
		if !in.IsValid(idx.RowIdx) {
			b.AppendNull()
			continue
		}
		vs := in.Storage().(*array.VarlenStorage)
		b.Append(vs.Bytes(in.PhysicalIndex(idx.RowIdx)))
	}
	return b.Finish()
}
