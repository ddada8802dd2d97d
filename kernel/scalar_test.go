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

package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/kernel"
)

func int32Arr(validity *array.Bitmap, vals ...int32) *array.Array {
	return array.New(array.NewInt32(), array.NewNumericStorage(array.PhysInt32, vals), validity, nil)
}

func TestUnaryAppliesFToValidRows(t *testing.T) {
	in := int32Arr(nil, 1, 2, 3)
	out, err := kernel.Unary[int32, int32](in, array.NewInt32(), func(v int32) int32 { return v * 2 })
	require.NoError(t, err)
	require.Equal(t, []int32{2, 4, 6}, out.Storage().(*array.NumericStorage[int32]).Values)
}

func TestUnaryPropagatesNulls(t *testing.T) {
	validity := array.NewBitmapAllTrue(3)
	validity.Set(1, false)
	in := int32Arr(validity, 1, 2, 3)

	out, err := kernel.Unary[int32, int32](in, array.NewInt32(), func(v int32) int32 { return v })
	require.NoError(t, err)
	require.True(t, out.IsValid(0))
	require.False(t, out.IsValid(1))
	require.True(t, out.IsValid(2))
}

func TestBinaryLengthMismatchErrors(t *testing.T) {
	l := int32Arr(nil, 1, 2)
	r := int32Arr(nil, 1, 2, 3)
	_, err := kernel.Binary[int32, int32, int32](l, r, array.NewInt32(), func(a, b int32) int32 { return a + b })
	require.Error(t, err)
}

func TestBinaryPropagatesNullsFromEitherSide(t *testing.T) {
	lValidity := array.NewBitmapAllTrue(3)
	lValidity.Set(0, false)
	rValidity := array.NewBitmapAllTrue(3)
	rValidity.Set(1, false)
	l := int32Arr(lValidity, 1, 2, 3)
	r := int32Arr(rValidity, 10, 20, 30)

	out, err := kernel.Binary[int32, int32, int32](l, r, array.NewInt32(), func(a, b int32) int32 { return a + b })
	require.NoError(t, err)
	require.False(t, out.IsValid(0), "null on the left must propagate")
	require.False(t, out.IsValid(1), "null on the right must propagate")
	require.True(t, out.IsValid(2))
	require.Equal(t, int32(33), out.Storage().(*array.NumericStorage[int32]).Values[2])
}

// TestBinaryOnFilteredSelectionDoesNotPanic exercises the exact path a
// WHERE-filtered, nullable column takes into a scalar kernel: Filter
// produces a selection whose length differs from the underlying physical
// storage length, and Binary must evaluate it without panicking.
func TestBinaryOnFilteredSelectionDoesNotPanic(t *testing.T) {
	validity := array.NewBitmapAllTrue(4)
	validity.Set(2, false)
	l := int32Arr(validity, 10, 20, 30, 40)
	r := int32Arr(nil, 1, 2, 3, 4)

	mask := array.NewBitmap(4)
	mask.Set(1, true)
	mask.Set(2, true)
	mask.Set(3, true)
	filteredL := kernel.Filter(l, mask)
	filteredR := kernel.Filter(r, mask)
	require.Equal(t, 3, filteredL.LogicalLen())
	require.Equal(t, 4, filteredL.PhysicalLen(), "selection narrows logical length without touching physical storage")

	var out *array.Array
	require.NotPanics(t, func() {
		var err error
		out, err = kernel.Binary[int32, int32, int32](filteredL, filteredR, array.NewInt32(), func(a, b int32) int32 { return a + b })
		require.NoError(t, err)
	})
	require.Equal(t, 3, out.LogicalLen())
	require.True(t, out.IsValid(0))
	require.False(t, out.IsValid(1), "filtered row originally at physical index 2 was null")
	require.True(t, out.IsValid(2))
}

func TestBinaryPredicateComparesValues(t *testing.T) {
	l := int32Arr(nil, 1, 2, 3)
	r := int32Arr(nil, 3, 2, 1)
	out, err := kernel.BinaryPredicate[int32, int32](l, r, func(a, b int32) bool { return a < b })
	require.NoError(t, err)
	vals := out.Storage().(*array.BooleanStorage).Values
	require.True(t, vals.Get(0))
	require.False(t, vals.Get(1))
	require.False(t, vals.Get(2))
}

func TestTernaryAppliesFWithNullPropagation(t *testing.T) {
	cValidity := array.NewBitmapAllTrue(2)
	cValidity.Set(1, false)
	a := int32Arr(nil, 1, 2)
	b := int32Arr(nil, 10, 20)
	c := int32Arr(cValidity, 100, 200)

	out, err := kernel.Ternary[int32, int32, int32, int32](a, b, c, array.NewInt32(), func(x, y, z int32) int32 { return x + y + z })
	require.NoError(t, err)
	require.True(t, out.IsValid(0))
	require.Equal(t, int32(111), out.Storage().(*array.NumericStorage[int32]).Values[0])
	require.False(t, out.IsValid(1))
}

func TestUniformRejectsEmptyInputs(t *testing.T) {
	_, err := kernel.Uniform[int32](nil, array.NewInt32(), func(vs []int32) int32 { return 0 })
	require.Error(t, err)
}

func TestUniformAppliesReductionAcrossInputs(t *testing.T) {
	aValidity := array.NewBitmapAllTrue(2)
	aValidity.Set(1, false)
	a := int32Arr(aValidity, 5, 9)
	b := int32Arr(nil, 7, 3)

	// Max reduction: both inputs must be valid for the row to produce
	// output, so row 1 (a is null) goes null.
	out, err := kernel.Uniform[int32]([]*array.Array{a, b}, array.NewInt32(), func(vs []int32) int32 {
		max := vs[0]
		for _, v := range vs[1:] {
			if v > max {
				max = v
			}
		}
		return max
	})
	require.NoError(t, err)
	require.True(t, out.IsValid(0))
	require.Equal(t, int32(7), out.Storage().(*array.NumericStorage[int32]).Values[0])
	require.False(t, out.IsValid(1))
}
