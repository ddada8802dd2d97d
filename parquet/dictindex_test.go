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
)

func TestDictIndexDecoderBitPackedRun(t *testing.T) {
	// bit width 2, one bit-packed run of 8 values: [0,0,1,0,1,0,0,0], only
	// the first 5 are requested.
	data := []byte{2, 0x03, 0x10, 0x01}
	dec, err := NewDictIndexDecoder(data, 5)
	require.NoError(t, err)

	var got []uint64
	n, err := dec.Read(5, func(indices []uint64) error {
		got = append(got, indices...)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []uint64{0, 0, 1, 0, 1}, got)
}

func TestDictIndexDecoderRLERun(t *testing.T) {
	// bit width 3, RLE run of value 5 repeated 4 times: header=(4<<1)|0=8.
	data := []byte{3, 8, 5}
	dec, err := NewDictIndexDecoder(data, 4)
	require.NoError(t, err)

	var got []uint64
	_, err = dec.Read(4, func(indices []uint64) error {
		got = append(got, indices...)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{5, 5, 5, 5}, got)
}

func TestDictionaryViewDecoderResolvesInRangeIndices(t *testing.T) {
	dict := NewViewBuffer(2)
	dict.Push([]byte("apple"))
	dict.Push([]byte("pear"))

	data := []byte{2, 0x03, 0x10, 0x01} // same indices as above: 0,0,1,0,1 (all in range)
	idx, err := NewDictIndexDecoder(data, 5)
	require.NoError(t, err)

	out := NewViewBuffer(5)
	n, err := NewDictionaryViewDecoder(idx).Read(out, dict, 5)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	expect := [][]byte{[]byte("apple"), []byte("apple"), []byte("pear"), []byte("apple"), []byte("pear")}
	for i, want := range expect {
		got, ok := out.Get(i)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}
