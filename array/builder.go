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

package array

// NumericBuilder is an ArrayBuilder<B> over a preallocated fixed-width
// buffer of length n. Validity is allocated
// lazily: it stays nil (all-valid) until the first SetNull.
type NumericBuilder[T Number] struct {
	phys     PhysicalType
	dt       DataType
	values   []T
	validity *Bitmap
	n        int
}

func NewNumericBuilder[T Number](dt DataType, n int) *NumericBuilder[T] {
	return &NumericBuilder[T]{phys: dt.Physical(), dt: dt, values: make([]T, n), n: n}
}

func (b *NumericBuilder[T]) Len() int { return b.n }

func (b *NumericBuilder[T]) Set(i int, v T) { b.values[i] = v }

func (b *NumericBuilder[T]) SetNull(i int) {
	if b.validity == nil {
		b.validity = NewBitmapAllTrue(b.n)
	}
	b.validity.Set(i, false)
	var zero T
	b.values[i] = zero
}

func (b *NumericBuilder[T]) Finish() *Array {
	storage := NewNumericStorage[T](b.phys, b.values)
	return New(b.dt, storage, b.validity, nil)
}

// BooleanBuilder builds a BooleanStorage-backed Array.
type BooleanBuilder struct {
	dt       DataType
	values   *Bitmap
	validity *Bitmap
	n        int
}

func NewBooleanBuilder(n int) *BooleanBuilder {
	return &BooleanBuilder{dt: NewBoolean(), values: NewBitmap(n), n: n}
}

func (b *BooleanBuilder) Len() int { return b.n }

func (b *BooleanBuilder) Set(i int, v bool) { b.values.Set(i, v) }

func (b *BooleanBuilder) SetNull(i int) {
	if b.validity == nil {
		b.validity = NewBitmapAllTrue(b.n)
	}
	b.validity.Set(i, false)
	b.values.Set(i, false)
}

func (b *BooleanBuilder) Finish() *Array {
	return New(b.dt, &BooleanStorage{Values: b.values}, b.validity, nil)
}

// VarlenBuilder builds a VarlenStorage-backed Array by appending values in
// row order; Append/AppendNull must be called exactly once per row, 0..n-1,
// in order (offsets are derived from append order, not random access).
type VarlenBuilder struct {
	dt       DataType
	content  []byte
	offsets  []int32
	validity *Bitmap
	n        int
	next     int
}

func NewVarlenBuilder(dt DataType, n int) *VarlenBuilder {
	offsets := make([]int32, 1, n+1)
	return &VarlenBuilder{dt: dt, offsets: offsets, n: n}
}

func (b *VarlenBuilder) Len() int { return b.n }

func (b *VarlenBuilder) Append(v []byte) {
	b.content = append(b.content, v...)
	b.offsets = append(b.offsets, int32(len(b.content)))
	b.next++
}

func (b *VarlenBuilder) AppendNull() {
	if b.validity == nil {
		b.validity = NewBitmapAllTrue(b.n)
	}
	b.validity.Set(b.next, false)
	b.offsets = append(b.offsets, int32(len(b.content)))
	b.next++
}

func (b *VarlenBuilder) Finish() *Array {
	storage := NewVarlenStorage(b.content, b.offsets)
	return New(b.dt, storage, b.validity, nil)
}
