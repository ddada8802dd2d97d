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

// Package sortmerge implements the k-way sort merge: local merge of
// IndexSortedBatches within a partition, and global merge across partition
// iterators that surfaces IterExhausted instead of discarding already-
// chosen rows when an input runs dry.
package sortmerge

import (
	"encoding/binary"
	"math"

	"github.com/flarehq/flaredb/array"
)

// SortKey names one ORDER BY column: its index into the sorted batch's
// column list, direction, and null placement.
type SortKey struct {
	ColIdx     int
	Desc       bool
	NullsFirst bool
}

// encodeRowKey appends a byte-lexicographically-ordered encoding of row i's
// sort columns to dst, honoring each key's direction and null placement.
// Byte-lex order on the encoded key matches the SQL ORDER BY order, which is
// what lets the merge compare rows with bytes.Compare instead of a
// type-dispatched comparator on every heap operation.
func encodeRowKey(dst []byte, cols []*array.Array, keys []SortKey, row int) []byte {
	for _, k := range keys {
		a := cols[k.ColIdx]
		null := !a.IsValid(row)
		dst = append(dst, nullPrefix(null, k))
		if null {
			continue
		}
		dst = encodeValue(dst, a, row, k.Desc)
	}
	return dst
}

// nullPrefix returns the ordering byte placed before a key's encoded bytes:
// nulls sort first or last depending on NullsFirst. The prefix is not
// inverted for a DESC key, so NullsFirst holds in either direction.
func nullPrefix(isNull bool, k SortKey) byte {
	first := k.NullsFirst
	if isNull {
		if first {
			return 0x00
		}
		return 0xff
	}
	if first {
		return 0x01
	}
	return 0x00
}

func invertIfDesc(b []byte, desc bool) []byte {
	if desc {
		for i, v := range b {
			b[i] = ^v
		}
	}
	return b
}

func encodeValue(dst []byte, a *array.Array, row int, desc bool) []byte {
	start := len(dst)
	switch a.PhysicalType() {
	case array.PhysInt8:
		v := a.Storage().(*array.NumericStorage[int8]).Values[a.PhysicalIndex(row)]
		dst = append(dst, byte(uint8(v)^0x80))
	case array.PhysInt16:
		v := a.Storage().(*array.NumericStorage[int16]).Values[a.PhysicalIndex(row)]
		dst = binary.BigEndian.AppendUint16(dst, uint16(v)^0x8000)
	case array.PhysInt32:
		v := a.Storage().(*array.NumericStorage[int32]).Values[a.PhysicalIndex(row)]
		dst = binary.BigEndian.AppendUint32(dst, uint32(v)^0x80000000)
	case array.PhysInt64:
		v := a.Storage().(*array.NumericStorage[int64]).Values[a.PhysicalIndex(row)]
		dst = binary.BigEndian.AppendUint64(dst, uint64(v)^0x8000000000000000)
	case array.PhysUInt8:
		v := a.Storage().(*array.NumericStorage[uint8]).Values[a.PhysicalIndex(row)]
		dst = append(dst, v)
	case array.PhysUInt16:
		v := a.Storage().(*array.NumericStorage[uint16]).Values[a.PhysicalIndex(row)]
		dst = binary.BigEndian.AppendUint16(dst, v)
	case array.PhysUInt32:
		v := a.Storage().(*array.NumericStorage[uint32]).Values[a.PhysicalIndex(row)]
		dst = binary.BigEndian.AppendUint32(dst, v)
	case array.PhysUInt64:
		v := a.Storage().(*array.NumericStorage[uint64]).Values[a.PhysicalIndex(row)]
		dst = binary.BigEndian.AppendUint64(dst, v)
	case array.PhysFloat32:
		v := a.Storage().(*array.NumericStorage[float32]).Values[a.PhysicalIndex(row)]
		dst = binary.BigEndian.AppendUint32(dst, floatOrderKey32(v))
	case array.PhysFloat64:
		v := a.Storage().(*array.NumericStorage[float64]).Values[a.PhysicalIndex(row)]
		dst = binary.BigEndian.AppendUint64(dst, floatOrderKey64(v))
	case array.PhysBoolean:
		if a.Storage().(*array.BooleanStorage).Values.Get(a.PhysicalIndex(row)) {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	case array.PhysVarlen32, array.PhysVarlen64:
		b := a.Storage().(*array.VarlenStorage).Bytes(a.PhysicalIndex(row))
		// 0x00 bytes are escaped as 0x00 0xff and the value ends with
		// 0x00 0x00, so byte-lex order is the strings' lexicographic order
		// (shorter strings that are a prefix of longer ones still sort
		// before them) and the value's end is unambiguous for later keys
		for _, c := range b {
			if c == 0x00 {
				dst = append(dst, 0x00, 0xff)
			} else {
				dst = append(dst, c)
			}
		}
		dst = append(dst, 0x00, 0x00)
	default:
		panic("sortmerge: unsupported sort key physical type")
	}
	invertIfDesc(dst[start:], desc)
	return dst
}

// floatOrderKey32 maps an IEEE-754 float32 bit pattern to a uint32 whose
// unsigned numeric order matches the float order (flip sign bit for
// positives, flip all bits for negatives).
func floatOrderKey32(f float32) uint32 {
	bits := math.Float32bits(f)
	if bits&0x80000000 != 0 {
		return ^bits
	}
	return bits | 0x80000000
}

func floatOrderKey64(f float64) uint64 {
	bits := math.Float64bits(f)
	if bits&0x8000000000000000 != 0 {
		return ^bits
	}
	return bits | 0x8000000000000000
}
