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

import (
	roaring "github.com/RoaringBitmap/roaring/v2"
)

// Bitmap is a packed boolean vector of fixed length, backed by a compressed
// roaring bitmap. Bit i = 1 means position i is set (e.g. "valid" for a
// validity bitmap, "selected" for a filter mask). len is enforced by the
// wrapper; the roaring container itself only tracks set positions.
type Bitmap struct {
	len int
	bm  *roaring.Bitmap
}

// NewBitmap returns a zero-initialized bitmap of the given length,
// all bits clear.
func NewBitmap(length int) *Bitmap {
	return &Bitmap{len: length, bm: roaring.New()}
}

// NewBitmapAllTrue returns a bitmap of the given length with every bit set.
func NewBitmapAllTrue(length int) *Bitmap {
	b := NewBitmap(length)
	if length > 0 {
		b.bm.AddRange(0, uint64(length))
	}
	return b
}

func (b *Bitmap) Len() int { return b.len }

func (b *Bitmap) Set(i int, v bool) {
	if i < 0 || i >= b.len {
		panic("array: Bitmap.Set index out of range")
	}
	if v {
		b.bm.Add(uint32(i))
	} else {
		b.bm.Remove(uint32(i))
	}
}

func (b *Bitmap) Get(i int) bool {
	if i < 0 || i >= b.len {
		panic("array: Bitmap.Get index out of range")
	}
	return b.bm.Contains(uint32(i))
}

// CountTrues returns the number of set bits.
func (b *Bitmap) CountTrues() int {
	return int(b.bm.GetCardinality())
}

// IndexIter calls f once per set bit position, in ascending order, stopping
// early if f returns false.
func (b *Bitmap) IndexIter(f func(pos int) bool) {
	it := b.bm.Iterator()
	for it.HasNext() {
		if !f(int(it.Next())) {
			return
		}
	}
}

// And returns a new bitmap that is the bitwise AND of b and other; both
// must share the same length.
func (b *Bitmap) And(other *Bitmap) *Bitmap {
	if b.len != other.len {
		panic("array: Bitmap.And length mismatch")
	}
	return &Bitmap{len: b.len, bm: roaring.And(b.bm, other.bm)}
}

// Or returns a new bitmap that is the bitwise OR of b and other.
func (b *Bitmap) Or(other *Bitmap) *Bitmap {
	if b.len != other.len {
		panic("array: Bitmap.Or length mismatch")
	}
	return &Bitmap{len: b.len, bm: roaring.Or(b.bm, other.bm)}
}

// Clone returns an independent copy of b.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{len: b.len, bm: b.bm.Clone()}
}

// Slice returns the sub-bitmap covering logical positions [start, start+n),
// reindexed to [0, n).
func (b *Bitmap) Slice(start, n int) *Bitmap {
	out := NewBitmap(n)
	b.bm.Iterate(func(x uint32) bool {
		if int(x) >= start && int(x) < start+n {
			out.bm.Add(x - uint32(start))
		}
		return true
	})
	return out
}
