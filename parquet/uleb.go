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

// Package parquet decodes Parquet column-chunk bytes (pages of PLAIN,
// RLE_DICTIONARY/PLAIN_DICTIONARY, and DELTA_BINARY_PACKED encodings) into
// the engine's columnar Array storage, with definition-level-driven null
// insertion.
package parquet

import "github.com/flarehq/flaredb/errs"

// decodeULEB128 reads an unsigned LEB128 varint, returning the value and
// the number of bytes consumed.
func decodeULEB128(buf []byte) (uint64, int, error) {
	var result uint64
	var shift uint
	for i, b := range buf {
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, 0, errs.New(errs.KindDecode, "parquet: uleb128 overflow")
		}
	}
	return 0, 0, errs.New(errs.KindDecode, "parquet: uleb128 truncated")
}

// decodeZigzagULEB128 reads a zigzag-encoded signed varint.
func decodeZigzagULEB128(buf []byte) (int64, int, error) {
	u, n, err := decodeULEB128(buf)
	if err != nil {
		return 0, 0, err
	}
	return int64(u>>1) ^ -int64(u&1), n, nil
}
