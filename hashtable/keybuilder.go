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

import "github.com/flarehq/flaredb/array"

// keyColumnBuilder grows one group-key column one appended row at a time;
// GroupChunk's Arrays are append-only during the build phase and read-only
// during probe, so building happens here and snapshot() is called after
// every appended group (see AggregateHashTable.sealKeyArrays).
type keyColumnBuilder struct {
	phys  array.PhysicalType
	dt    array.DataType
	valid []bool

	i8  []int8
	i16 []int16
	i32 []int32
	i64 []int64
	u8  []uint8
	u16 []uint16
	u32 []uint32
	u64 []uint64
	f32 []float32
	f64 []float64

	boolVals []bool
	varlen   [][]byte
}

func newKeyColumnBuilder(dt array.DataType) *keyColumnBuilder {
	return &keyColumnBuilder{phys: dt.Physical(), dt: dt}
}

func (b *keyColumnBuilder) len() int { return len(b.valid) }

// appendFrom copies src's logical row into the next slot of this column.
func (b *keyColumnBuilder) appendFrom(src *array.Array, row int) {
	valid := src.IsValid(row)
	b.valid = append(b.valid, valid)
	switch b.phys {
	case array.PhysInt8:
		var v int8
		if valid {
			v = numVal[int8](src, row)
		}
		b.i8 = append(b.i8, v)
	case array.PhysInt16:
		var v int16
		if valid {
			v = numVal[int16](src, row)
		}
		b.i16 = append(b.i16, v)
	case array.PhysInt32:
		var v int32
		if valid {
			v = numVal[int32](src, row)
		}
		b.i32 = append(b.i32, v)
	case array.PhysInt64:
		var v int64
		if valid {
			v = numVal[int64](src, row)
		}
		b.i64 = append(b.i64, v)
	case array.PhysUInt8:
		var v uint8
		if valid {
			v = numVal[uint8](src, row)
		}
		b.u8 = append(b.u8, v)
	case array.PhysUInt16:
		var v uint16
		if valid {
			v = numVal[uint16](src, row)
		}
		b.u16 = append(b.u16, v)
	case array.PhysUInt32:
		var v uint32
		if valid {
			v = numVal[uint32](src, row)
		}
		b.u32 = append(b.u32, v)
	case array.PhysUInt64:
		var v uint64
		if valid {
			v = numVal[uint64](src, row)
		}
		b.u64 = append(b.u64, v)
	case array.PhysFloat32:
		var v float32
		if valid {
			v = numVal[float32](src, row)
		}
		b.f32 = append(b.f32, v)
	case array.PhysFloat64:
		var v float64
		if valid {
			v = numVal[float64](src, row)
		}
		b.f64 = append(b.f64, v)
	case array.PhysBoolean:
		var v bool
		if valid {
			v = src.Storage().(*array.BooleanStorage).Values.Get(src.PhysicalIndex(row))
		}
		b.boolVals = append(b.boolVals, v)
	case array.PhysVarlen32, array.PhysVarlen64:
		var v []byte
		if valid {
			vs := src.Storage().(*array.VarlenStorage)
			v = append([]byte(nil), vs.Bytes(src.PhysicalIndex(row))...)
		}
		b.varlen = append(b.varlen, v)
	}
}

func (b *keyColumnBuilder) validityBitmap() *array.Bitmap {
	n := len(b.valid)
	allValid := true
	for _, v := range b.valid {
		if !v {
			allValid = false
			break
		}
	}
	if allValid {
		return nil
	}
	bm := array.NewBitmapAllTrue(n)
	for i, v := range b.valid {
		if !v {
			bm.Set(i, false)
		}
	}
	return bm
}

func (b *keyColumnBuilder) snapshot() *array.Array {
	validity := b.validityBitmap()
	switch b.phys {
	case array.PhysInt8:
		return array.New(b.dt, array.NewNumericStorage(b.phys, b.i8), validity, nil)
	case array.PhysInt16:
		return array.New(b.dt, array.NewNumericStorage(b.phys, b.i16), validity, nil)
	case array.PhysInt32:
		return array.New(b.dt, array.NewNumericStorage(b.phys, b.i32), validity, nil)
	case array.PhysInt64:
		return array.New(b.dt, array.NewNumericStorage(b.phys, b.i64), validity, nil)
	case array.PhysUInt8:
		return array.New(b.dt, array.NewNumericStorage(b.phys, b.u8), validity, nil)
	case array.PhysUInt16:
		return array.New(b.dt, array.NewNumericStorage(b.phys, b.u16), validity, nil)
	case array.PhysUInt32:
		return array.New(b.dt, array.NewNumericStorage(b.phys, b.u32), validity, nil)
	case array.PhysUInt64:
		return array.New(b.dt, array.NewNumericStorage(b.phys, b.u64), validity, nil)
	case array.PhysFloat32:
		return array.New(b.dt, array.NewNumericStorage(b.phys, b.f32), validity, nil)
	case array.PhysFloat64:
		return array.New(b.dt, array.NewNumericStorage(b.phys, b.f64), validity, nil)
	case array.PhysBoolean:
		bm := array.NewBitmap(len(b.boolVals))
		for i, v := range b.boolVals {
			bm.Set(i, v)
		}
		return array.New(b.dt, &array.BooleanStorage{Values: bm}, validity, nil)
	case array.PhysVarlen32:
		content := make([]byte, 0)
		offsets := make([]int32, 1, len(b.varlen)+1)
		for _, v := range b.varlen {
			content = append(content, v...)
			offsets = append(offsets, int32(len(content)))
		}
		return array.New(b.dt, array.NewVarlenStorage(content, offsets), validity, nil)
	case array.PhysVarlen64:
		content := make([]byte, 0)
		offsets := make([]int64, 1, len(b.varlen)+1)
		for _, v := range b.varlen {
			content = append(content, v...)
			offsets = append(offsets, int64(len(content)))
		}
		return array.New(b.dt, array.NewVarlenStorageWide(content, offsets), validity, nil)
	default:
		panic("hashtable: unsupported key column physical type")
	}
}
