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

// Package array implements the columnar value model: DataType, PhysicalType,
// Array (with selection vector and validity bitmap), and Batch.
package array

// TimeUnit is the resolution of a Timestamp DataType.
type TimeUnit int

const (
	Second TimeUnit = iota
	Millisecond
	Microsecond
	Nanosecond
)

// TypeID is the closed set of logical types an Array may declare.
type TypeID int

const (
	Null TypeID = iota
	Boolean
	Int8
	Int16
	Int32
	Int64
	Int128
	UInt8
	UInt16
	UInt32
	UInt64
	UInt128
	Float32
	Float64
	Decimal64
	Decimal128
	Date32
	Date64
	Timestamp
	IntervalType
	Utf8
	LargeUtf8
	Binary
	LargeBinary
	Struct
	List
)

// DataType is the logical type of an Array's values. Decimal carries
// precision/scale; Timestamp carries a unit; Struct carries fields;
// List carries the inner element type.
type DataType struct {
	ID        TypeID
	Precision int
	Scale     int
	Unit      TimeUnit
	Fields    []Field
	Inner     *DataType
}

// Field names one column of a Struct DataType or of a Batch schema.
type Field struct {
	Name     string
	Type     DataType
	Nullable bool
}

func NewNull() DataType    { return DataType{ID: Null} }
func NewBoolean() DataType { return DataType{ID: Boolean} }
func NewInt8() DataType    { return DataType{ID: Int8} }
func NewInt16() DataType   { return DataType{ID: Int16} }
func NewInt32() DataType   { return DataType{ID: Int32} }
func NewInt64() DataType   { return DataType{ID: Int64} }
func NewUInt8() DataType   { return DataType{ID: UInt8} }
func NewUInt16() DataType  { return DataType{ID: UInt16} }
func NewUInt32() DataType  { return DataType{ID: UInt32} }
func NewUInt64() DataType  { return DataType{ID: UInt64} }
func NewFloat32() DataType { return DataType{ID: Float32} }
func NewFloat64() DataType { return DataType{ID: Float64} }
func NewUtf8() DataType    { return DataType{ID: Utf8} }
func NewBinary() DataType  { return DataType{ID: Binary} }

func NewDecimal64(precision, scale int) DataType {
	return DataType{ID: Decimal64, Precision: precision, Scale: scale}
}

func NewDecimal128(precision, scale int) DataType {
	return DataType{ID: Decimal128, Precision: precision, Scale: scale}
}

func NewTimestamp(unit TimeUnit) DataType {
	return DataType{ID: Timestamp, Unit: unit}
}

func NewList(inner DataType) DataType {
	return DataType{ID: List, Inner: &inner}
}

func NewStruct(fields []Field) DataType {
	return DataType{ID: Struct, Fields: fields}
}

// PhysicalType is the storage representation backing a DataType; several
// logical types share one physical representation (e.g. Date32 and Int32
// are both PhysInt32).
type PhysicalType int

const (
	PhysNull PhysicalType = iota
	PhysBoolean
	PhysInt8
	PhysInt16
	PhysInt32
	PhysInt64
	PhysInt128
	PhysUInt8
	PhysUInt16
	PhysUInt32
	PhysUInt64
	PhysUInt128
	PhysFloat32
	PhysFloat64
	PhysVarlen32 // content buffer + i32 offsets
	PhysVarlen64 // content buffer + i64 offsets
	PhysStruct
	PhysList
)

// Physical returns the storage tag backing dt.
func (dt DataType) Physical() PhysicalType {
	switch dt.ID {
	case Null:
		return PhysNull
	case Boolean:
		return PhysBoolean
	case Int8:
		return PhysInt8
	case Int16:
		return PhysInt16
	case Int32, Date32:
		return PhysInt32
	case Int64, Date64, Timestamp:
		return PhysInt64
	case Int128, Decimal128:
		return PhysInt128
	case UInt8:
		return PhysUInt8
	case UInt16:
		return PhysUInt16
	case UInt32:
		return PhysUInt32
	case UInt64, Decimal64:
		return PhysUInt64
	case UInt128:
		return PhysUInt128
	case Float32:
		return PhysFloat32
	case Float64:
		return PhysFloat64
	case Utf8, Binary:
		return PhysVarlen32
	case LargeUtf8, LargeBinary:
		return PhysVarlen64
	case Struct:
		return PhysStruct
	case List:
		return PhysList
	case IntervalType:
		return PhysInt128
	default:
		return PhysNull
	}
}

// Interval is (months, days, nanos); components are added independently,
// never normalized into one another.
type Interval struct {
	Months int32
	Days   int32
	Nanos  int64
}
