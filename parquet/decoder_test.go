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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flarehq/flaredb/array"
)

func TestDecodeNumericColumnPlainNoNulls(t *testing.T) {
	page := make([]byte, 4*3)
	page[0], page[4], page[8] = 10, 20, 30
	desc := ColumnDescriptor{Type: array.NewInt32(), Encoding: Plain, Codec: Uncompressed, MaxDefLevel: 0}

	arr, err := DecodeNumericColumn[int32](desc, page, len(page), 3, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 3, arr.LogicalLen())
	storage := arr.Storage().(*array.NumericStorage[int32])
	require.Equal(t, []int32{10, 20, 30}, storage.Values[:3])
}

func TestDecodeNumericColumnPlainWithDefinitionLevels(t *testing.T) {
	// 2 non-null values out of 3 logical rows.
	page := make([]byte, 4*2)
	page[0], page[4] = 7, 9
	desc := ColumnDescriptor{Type: array.NewInt32(), Encoding: Plain, Codec: Uncompressed, MaxDefLevel: 1}

	levels := []int32{1, 0, 1}
	arr, err := DecodeNumericColumn[int32](desc, page, len(page), 3, levels, nil)
	require.NoError(t, err)
	require.Equal(t, 3, arr.LogicalLen())
	require.True(t, arr.IsValid(0))
	require.False(t, arr.IsValid(1))
	require.True(t, arr.IsValid(2))

	storage := arr.Storage().(*array.NumericStorage[int32])
	require.Equal(t, int32(7), storage.Values[arr.PhysicalIndex(0)])
	require.Equal(t, int32(9), storage.Values[arr.PhysicalIndex(2)])
}

func TestDecodeNumericColumnDictionary(t *testing.T) {
	dict := []int32{100, 200}
	// bit width 1, bit-packed run of 8 indices [0,1,1,0,1,0,0,0] (S2-style
	// duplicate-key probe), only first 5 requested.
	data := []byte{1, 0x03, 0b00010110}
	desc := ColumnDescriptor{Type: array.NewInt32(), Encoding: RLEDictionary, Codec: Uncompressed, MaxDefLevel: 0}

	arr, err := DecodeNumericColumn[int32](desc, data, len(data), 5, nil, dict)
	require.NoError(t, err)
	storage := arr.Storage().(*array.NumericStorage[int32])
	require.Equal(t, []int32{100, 200, 200, 100, 200}, storage.Values[:5])
}

func TestDecodeByteArrayColumnDictionary(t *testing.T) {
	// S5: dictionary ["apple", "pear"], RLE indices [0,0,1,0,1].
	dict := NewViewBuffer(2)
	dict.Push([]byte("apple"))
	dict.Push([]byte("pear"))

	data := []byte{2, 0x03, 0x10, 0x01} // bit width 2, indices 0,0,1,0,1,... (see dictindex_test.go)
	desc := ColumnDescriptor{Type: array.NewUtf8(), Encoding: RLEDictionary, Codec: Uncompressed, MaxDefLevel: 0}

	arr, err := DecodeByteArrayColumn(desc, data, len(data), 5, nil, dict)
	require.NoError(t, err)
	require.Equal(t, 5, arr.LogicalLen())

	storage := arr.Storage().(*array.VarlenStorage)
	want := []string{"apple", "apple", "pear", "apple", "pear"}
	for i, w := range want {
		require.Equal(t, w, string(storage.Bytes(arr.PhysicalIndex(i))))
	}
}
