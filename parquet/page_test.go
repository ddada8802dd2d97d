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
	"bytes"
	"testing"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

func TestDecompressUncompressedIsPassthrough(t *testing.T) {
	raw := []byte("hello parquet page")
	out, err := Decompress(Uncompressed, raw, len(raw))
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

func TestDecompressSnappyRoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte("column-chunk-bytes"), 50)
	compressed := snappy.Encode(nil, raw)

	out, err := Decompress(Snappy, compressed, len(raw))
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

func TestDecompressZstdRoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte("column-chunk-bytes"), 50)
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll(raw, nil)
	require.NoError(t, enc.Close())

	out, err := Decompress(Zstd, compressed, len(raw))
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

func TestDictCacheMissThenHit(t *testing.T) {
	cache, err := NewDictCache(4)
	require.NoError(t, err)

	key := DictCacheKey{FileIdentity: "f1", ColumnOrdinal: 2, PageOffset: 128}
	_, ok := cache.Get(key)
	require.False(t, ok)

	buf := NewViewBuffer(2)
	buf.Push([]byte("apple"))
	buf.Push([]byte("pear"))
	cache.Add(key, buf)

	got, ok := cache.Get(key)
	require.True(t, ok)
	require.Same(t, buf, got)
}
