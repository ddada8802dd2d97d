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

// Package kernel implements the vectorized execution kernels:
// unary/binary/ternary/uniform scalar executors, the unary aggregate
// updater, fill/interleave/concat/filter/slice, and row hashing. Every
// kernel is monomorphic in the physical-storage type via Go
// generics, dispatched once at the call boundary rather than per element.
package kernel

import (
	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/errs"
)

func numericValues[T array.Number](a *array.Array) []T {
	return a.Storage().(*array.NumericStorage[T]).Values
}

// Unary applies f to every valid logical row of in, writing nulls through
// unchanged.
func Unary[I, O array.Number](in *array.Array, outType array.DataType, f func(I) O) (*array.Array, error) {
	n := in.LogicalLen()
	out := array.NewNumericBuilder[O](outType, n)
	vals := numericValues[I](in)
	for i := 0; i < n; i++ {
		if !in.IsValid(i) {
			out.SetNull(i)
			continue
		}
		out.Set(i, f(vals[in.PhysicalIndex(i)]))
	}
	return out.Finish(), nil
}

// Binary applies f over two arrays of equal logical length.
func Binary[L, R, O array.Number](l, r *array.Array, outType array.DataType, f func(L, R) O) (*array.Array, error) {
	n := l.LogicalLen()
	if r.LogicalLen() != n {
		return nil, errs.InvalidArgument("kernel.Binary: length mismatch %d vs %d", n, r.LogicalLen())
	}
	out := array.NewNumericBuilder[O](outType, n)
	lv := numericValues[L](l)
	rv := numericValues[R](r)
	for i := 0; i < n; i++ {
		if !l.IsValid(i) || !r.IsValid(i) {
			out.SetNull(i)
			continue
		}
		out.Set(i, f(lv[l.PhysicalIndex(i)], rv[r.PhysicalIndex(i)]))
	}
	return out.Finish(), nil
}

// BinaryPredicate is Binary specialized to a boolean-output comparison
// kernel (e.g. equality, ordering), used throughout filter/join condition
// evaluation.
func BinaryPredicate[L, R array.Number](l, r *array.Array, f func(L, R) bool) (*array.Array, error) {
	n := l.LogicalLen()
	if r.LogicalLen() != n {
		return nil, errs.InvalidArgument("kernel.BinaryPredicate: length mismatch %d vs %d", n, r.LogicalLen())
	}
	out := array.NewBooleanBuilder(n)
	lv := numericValues[L](l)
	rv := numericValues[R](r)
	for i := 0; i < n; i++ {
		if !l.IsValid(i) || !r.IsValid(i) {
			out.SetNull(i)
			continue
		}
		out.Set(i, f(lv[l.PhysicalIndex(i)], rv[r.PhysicalIndex(i)]))
	}
	return out.Finish(), nil
}

// Ternary applies f over three arrays of equal logical length.
func Ternary[A, B, C, O array.Number](a, b, c *array.Array, outType array.DataType, f func(A, B, C) O) (*array.Array, error) {
	n := a.LogicalLen()
	if b.LogicalLen() != n || c.LogicalLen() != n {
		return nil, errs.InvalidArgument("kernel.Ternary: length mismatch")
	}
	out := array.NewNumericBuilder[O](outType, n)
	av := numericValues[A](a)
	bv := numericValues[B](b)
	cv := numericValues[C](c)
	for i := 0; i < n; i++ {
		if !a.IsValid(i) || !b.IsValid(i) || !c.IsValid(i) {
			out.SetNull(i)
			continue
		}
		out.Set(i, f(av[a.PhysicalIndex(i)], bv[b.PhysicalIndex(i)], cv[c.PhysicalIndex(i)]))
	}
	return out.Finish(), nil
}

// Uniform applies a variadic reduction f over N>=1 arrays of equal type and
// equal logical length (e.g. n-ary least/greatest). A row where any input
// is null is null in the output; f only sees rows where every input is valid.
func Uniform[T array.Number](ins []*array.Array, outType array.DataType, f func([]T) T) (*array.Array, error) {
	if len(ins) == 0 {
		return nil, errs.InvalidArgument("kernel.Uniform: no inputs")
	}
	n := ins[0].LogicalLen()
	for i, in := range ins {
		if in.LogicalLen() != n {
			return nil, errs.InvalidArgument("kernel.Uniform: input %d length mismatch", i)
		}
	}
	out := array.NewNumericBuilder[T](outType, n)
	vals := make([][]T, len(ins))
	for i, in := range ins {
		vals[i] = numericValues[T](in)
	}
	row := make([]T, len(ins))
	for i := 0; i < n; i++ {
		allValid := true
		for j, in := range ins {
			if !in.IsValid(i) {
				allValid = false
				break
			}
			row[j] = vals[j][in.PhysicalIndex(i)]
		}
		if !allValid {
			out.SetNull(i)
			continue
		}
		out.Set(i, f(row))
	}
	return out.Finish(), nil
}
