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

func TestUnpackWidthZeroIsAllZero(t *testing.T) {
	dst := make([]uint64, 8)
	Unpack(dst, []byte{0xff, 0xff, 0xff}, 0, 8)
	for _, v := range dst {
		require.Equal(t, uint64(0), v)
	}
}

func TestUnpackWidthThreeBitAligned(t *testing.T) {
	// 8 values of 3 bits each, packed LSB-first: 0,1,2,3,4,5,6,7.
	// value i occupies bits [3i, 3i+3).
	src := []byte{0b10001000, 0b11000110, 0b11111010}
	dst := make([]uint64, 8)
	Unpack(dst, src, 3, 8)
	require.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6, 7}, dst)
}

func TestUnpackWidthSixtyFourIsByteAligned(t *testing.T) {
	src := make([]byte, 16)
	src[0] = 0x01
	src[8] = 0x02
	dst := make([]uint64, 2)
	Unpack(dst, src, 64, 2)
	require.Equal(t, []uint64{1, 2}, dst)
}

func TestUnpackWideWidthCrossingWordBoundary(t *testing.T) {
	// width=63 with a nonzero bit offset exercises the two-word read path.
	src := make([]byte, 32)
	for i := range src {
		src[i] = 0xff
	}
	dst := make([]uint64, 4)
	Unpack(dst, src, 63, 4)
	mask := uint64(1)<<63 - 1
	for _, v := range dst {
		require.Equal(t, mask, v)
	}
}
