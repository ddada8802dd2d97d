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

package parquet

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/flarehq/flaredb/errs"
)

// PlainNumeric is the family of fixed-width scalar types PLAIN can decode.
type PlainNumeric interface {
	~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// DecodePlainNumeric decodes count fixed-width little-endian values from
// buf, advancing the byte offset by width x count.
func DecodePlainNumeric[T PlainNumeric](buf []byte, count int) ([]T, error) {
	var zero T
	width := int(unsafe.Sizeof(zero))
	if len(buf) < width*count {
		return nil, errs.New(errs.KindDecode, "parquet: plain numeric page truncated")
	}
	out := make([]T, count)
	for i := 0; i < count; i++ {
		chunk := buf[i*width : (i+1)*width]
		switch width {
		case 4:
			bits := binary.LittleEndian.Uint32(chunk)
			out[i] = decodeBits4[T](bits)
		case 8:
			bits := binary.LittleEndian.Uint64(chunk)
			out[i] = decodeBits8[T](bits)
		default:
			return nil, errs.New(errs.KindDecode, "parquet: unsupported plain numeric width")
		}
	}
	return out, nil
}

func decodeBits4[T PlainNumeric](bits uint32) T {
	switch any(*new(T)).(type) {
	case float32:
		return any(math.Float32frombits(bits)).(T)
	default:
		return T(bits)
	}
}

func decodeBits8[T PlainNumeric](bits uint64) T {
	switch any(*new(T)).(type) {
	case float64:
		return any(math.Float64frombits(bits)).(T)
	default:
		return T(bits)
	}
}

// DecodePlainByteArray decodes a sequence of {u32 little-endian length,
// bytes[length]} records; an EOF mid-record is a decode error.
func DecodePlainByteArray(buf []byte, count int) ([][]byte, error) {
	out := make([][]byte, 0, count)
	offset := 0
	for i := 0; i < count; i++ {
		if offset+4 > len(buf) {
			return nil, errs.New(errs.KindDecode, "parquet: eof decoding byte array length")
		}
		length := int(binary.LittleEndian.Uint32(buf[offset : offset+4]))
		offset += 4
		if offset+length > len(buf) {
			return nil, errs.New(errs.KindDecode, "parquet: eof decoding byte array value")
		}
		out = append(out, buf[offset:offset+length])
		offset += length
	}
	return out, nil
}
