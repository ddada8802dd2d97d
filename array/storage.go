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

import "golang.org/x/exp/constraints"

// Number is the set of scalar types a NumericStorage may hold; it underlies
// the generic scalar kernels in package kernel, monomorphized by concrete
// type via Go generics rather than tagged-union inner loops.
type Number interface {
	constraints.Integer | constraints.Float
}

// Storage is the physical representation backing an Array, keyed by a
// PhysicalType tag.
type Storage interface {
	Physical() PhysicalType
	Len() int
}

// NumericStorage is a contiguous buffer of one fixed-width scalar type.
type NumericStorage[T Number] struct {
	Values []T
	phys   PhysicalType
}

func NewNumericStorage[T Number](phys PhysicalType, values []T) *NumericStorage[T] {
	return &NumericStorage[T]{Values: values, phys: phys}
}

func (s *NumericStorage[T]) Physical() PhysicalType { return s.phys }
func (s *NumericStorage[T]) Len() int               { return len(s.Values) }

// BooleanStorage packs boolean values into a Bitmap; physical length is the
// bitmap's length.
type BooleanStorage struct {
	Values *Bitmap
}

func (s *BooleanStorage) Physical() PhysicalType { return PhysBoolean }
func (s *BooleanStorage) Len() int                { return s.Values.Len() }

// VarlenStorage is a content buffer plus a non-decreasing offsets vector:
// Offsets[0] == 0, len(Offsets) == physical_len+1, and
// value i spans Content[Offsets[i]:Offsets[i+1]]. Wide (i64-offset) variants
// reuse this same struct with OffsetsWide populated instead of Offsets.
type VarlenStorage struct {
	Content     []byte
	Offsets     []int32 // nil if OffsetsWide is used
	OffsetsWide []int64 // nil if Offsets is used
	wide        bool
}

func NewVarlenStorage(content []byte, offsets []int32) *VarlenStorage {
	return &VarlenStorage{Content: content, Offsets: offsets}
}

func NewVarlenStorageWide(content []byte, offsets []int64) *VarlenStorage {
	return &VarlenStorage{Content: content, OffsetsWide: offsets, wide: true}
}

func (s *VarlenStorage) Physical() PhysicalType {
	if s.wide {
		return PhysVarlen64
	}
	return PhysVarlen32
}

func (s *VarlenStorage) Len() int {
	if s.wide {
		return len(s.OffsetsWide) - 1
	}
	return len(s.Offsets) - 1
}

// Bytes returns the physical row i's byte range, panicking if i is out of
// physical bounds.
func (s *VarlenStorage) Bytes(i int) []byte {
	if s.wide {
		return s.Content[s.OffsetsWide[i]:s.OffsetsWide[i+1]]
	}
	return s.Content[s.Offsets[i]:s.Offsets[i+1]]
}

// StructStorage holds one Array per field; all fields share physical length.
type StructStorage struct {
	Fields []*Array
}

func (s *StructStorage) Physical() PhysicalType { return PhysStruct }
func (s *StructStorage) Len() int {
	if len(s.Fields) == 0 {
		return 0
	}
	return s.Fields[0].PhysicalLen()
}

// ListStorage is a child array plus an offsets vector delimiting each
// physical row's span of child rows.
type ListStorage struct {
	Child   *Array
	Offsets []int32
}

func (s *ListStorage) Physical() PhysicalType { return PhysList }
func (s *ListStorage) Len() int               { return len(s.Offsets) - 1 }
