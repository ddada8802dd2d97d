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
	"testing"

	"github.com/stretchr/testify/require"
)

func plainByteArrayPage(values ...string) []byte {
	var buf []byte
	for _, v := range values {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(v)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, v...)
	}
	return buf
}

func TestPlainViewDecoderReadsRecords(t *testing.T) {
	page := plainByteArrayPage("apple", "pear", "fig")
	dec := NewPlainViewDecoder(page)
	buf := NewViewBuffer(3)
	n, err := dec.Read(buf, 3)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	for i, want := range []string{"apple", "pear", "fig"} {
		got, ok := buf.Get(i)
		require.True(t, ok)
		require.Equal(t, want, string(got))
	}
}

func TestViewBufferGetOutOfRangeIsNotOK(t *testing.T) {
	buf := NewViewBuffer(1)
	buf.Push([]byte("x"))
	_, ok := buf.Get(1)
	require.False(t, ok)
}

func TestViewBufferValidateUTF8(t *testing.T) {
	buf := NewViewBuffer(2)
	buf.Push([]byte("valid"))
	require.NoError(t, buf.ValidateUTF8())
	buf.Push([]byte{0xff, 0xfe})
	require.Error(t, buf.ValidateUTF8())
}

func TestPlainViewDecoderEOFMidRecord(t *testing.T) {
	page := plainByteArrayPage("apple")
	truncated := page[:len(page)-2]
	dec := NewPlainViewDecoder(truncated)
	buf := NewViewBuffer(1)
	_, err := dec.Read(buf, 1)
	require.Error(t, err)
}
