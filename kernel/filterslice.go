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

// Filter takes a selection bitmap equal to a's logical length; the result
// has logical length equal to count_trues. It produces a
// new selection rather than copying physical storage.
func Filter(a *array.Array, mask *array.Bitmap) *array.Array {
	if mask.Len() != a.LogicalLen() {
		panic("kernel.Filter: mask length mismatch")
	}
	sel := make([]int, 0, mask.CountTrues())
	mask.IndexIter(func(pos int) bool {
		sel = append(sel, a.PhysicalIndex(pos))
		return true
	})
	out := a.Clone()
	out.SetSelection(sel)
	return out
}

// Slice returns logical rows [start, start+count) of a as a new array.
func Slice(a *array.Array, start, count int) *array.Array {
	if start < 0 || count < 0 || start+count > a.LogicalLen() {
		panic("kernel.Slice: out of range")
	}
	sel := make([]int, count)
	for i := 0; i < count; i++ {
		sel[i] = a.PhysicalIndex(start + i)
	}
	out := a.Clone()
	out.SetSelection(sel)
	return out
}
