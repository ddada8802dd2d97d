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

import (
	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/errs"
)

var errUnsupportedConcat = errs.New(errs.KindExecution, "kernel: unsupported column physical type for concat")

// ConcatNumeric stacks arrays along the row axis (concat([a]) == a,
// concat(concat([a,b]),[c]) == concat([a,b,c])).
func ConcatNumeric[T array.Number](outType array.DataType, parts []*array.Array) *array.Array {
	total := 0
	for _, p := range parts {
		total += p.LogicalLen()
	}
	out := array.NewNumericBuilder[T](outType, total)
	pos := 0
	for _, p := range parts {
		vals := numericValues[T](p)
		n := p.LogicalLen()
		for i := 0; i < n; i++ {
			if !p.IsValid(i) {
				out.SetNull(pos)
			} else {
				out.Set(pos, vals[p.PhysicalIndex(i)])
			}
			pos++
		}
	}
	return out.Finish()
}

// ConcatVarlen concatenates varlen arrays, rebasing offsets by the running
// content length.
func ConcatVarlen(dt array.DataType, parts []*array.Array) *array.Array {
	total := 0
	for _, p := range parts {
		total += p.LogicalLen()
	}
	b := array.NewVarlenBuilder(dt, total)
	for _, p := range parts {
		vs := p.Storage().(*array.VarlenStorage)
		n := p.LogicalLen()
		for i := 0; i < n; i++ {
			if !p.IsValid(i) {
				b.AppendNull()
				continue
			}
			b.Append(vs.Bytes(p.PhysicalIndex(i)))
		}
	}
	return b.Finish()
}

// ConcatList stitches child arrays and rebases offsets by the running total:
// mergedChild is the concatenation of every part's child array in order, so
// accumulating each row's own span width onto the last emitted offset always
// lands on that row's true position in mergedChild.
func ConcatList[T array.Number](childType array.DataType, parts []*array.Array) *array.Array {
	totalRows := 0
	children := make([]*array.Array, 0, len(parts))
	for _, p := range parts {
		ls := p.Storage().(*array.ListStorage)
		totalRows += p.LogicalLen()
		children = append(children, ls.Child)
	}
	mergedChild := ConcatNumeric[T](childType, children)

	offsets := make([]int32, 1, totalRows+1)
	for _, p := range parts {
		ls := p.Storage().(*array.ListStorage)
		n := p.LogicalLen()
		for i := 0; i < n; i++ {
			phys := p.PhysicalIndex(i)
			width := ls.Offsets[phys+1] - ls.Offsets[phys]
			offsets = append(offsets, offsets[len(offsets)-1]+width)
		}
	}
	out := &array.ListStorage{Child: mergedChild, Offsets: offsets}
	return array.New(array.NewList(childType), out, nil, nil)
}

// ConcatBoolean is ConcatNumeric specialized to the bitmap-backed boolean
// storage.
func ConcatBoolean(parts []*array.Array) *array.Array {
	total := 0
	for _, p := range parts {
		total += p.LogicalLen()
	}
	out := array.NewBooleanBuilder(total)
	pos := 0
	for _, p := range parts {
		bm := p.Storage().(*array.BooleanStorage)
		n := p.LogicalLen()
		for i := 0; i < n; i++ {
			if !p.IsValid(i) {
				out.SetNull(pos)
			} else {
				out.Set(pos, bm.Values.Get(p.PhysicalIndex(i)))
			}
			pos++
		}
	}
	return out.Finish()
}

// ConcatColumn dispatches to the physical-type-specific concat function for
// one column, used to stack a sequence of same-schema batches row-wise
// (e.g. materializing a table's accumulated partition batches into one). An
// empty parts list yields a zero-length array of dt rather than nil, so
// concatenating an empty table still produces a valid, empty batch.
func ConcatColumn(dt array.DataType, parts []*array.Array) (*array.Array, error) {
	switch dt.Physical() {
	case array.PhysInt8:
		return ConcatNumeric[int8](dt, parts), nil
	case array.PhysInt16:
		return ConcatNumeric[int16](dt, parts), nil
	case array.PhysInt32:
		return ConcatNumeric[int32](dt, parts), nil
	case array.PhysInt64:
		return ConcatNumeric[int64](dt, parts), nil
	case array.PhysUInt8:
		return ConcatNumeric[uint8](dt, parts), nil
	case array.PhysUInt16:
		return ConcatNumeric[uint16](dt, parts), nil
	case array.PhysUInt32:
		return ConcatNumeric[uint32](dt, parts), nil
	case array.PhysUInt64:
		return ConcatNumeric[uint64](dt, parts), nil
	case array.PhysFloat32:
		return ConcatNumeric[float32](dt, parts), nil
	case array.PhysFloat64:
		return ConcatNumeric[float64](dt, parts), nil
	case array.PhysBoolean:
		return ConcatBoolean(parts), nil
	case array.PhysVarlen32, array.PhysVarlen64:
		return ConcatVarlen(dt, parts), nil
	default:
		return nil, errUnsupportedConcat
	}
}
