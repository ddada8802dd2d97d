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
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/flarehq/flaredb/errs"
)

// Codec is a page's declared compression, sitting between the page reader
// and the value decoder: every encoding in this package operates on
// already-decompressed bytes.
type Codec int

const (
	Uncompressed Codec = iota
	Snappy
	Zstd
)

// Decompress expands compressed page bytes to their declared
// uncompressedSize, dispatched on codec. UNCOMPRESSED is a pass-through.
//
// Column-chunk decode may run on several goroutines at once (Decompress
// takes no session.WorkerPool decode slot itself), so a zstd reader
// is constructed fresh per call rather than reused across calls: klauspost
// decoders are not safe to Reset concurrently, and sharing one would
// reintroduce a cross-goroutine race in exactly the decode path the
// limiter exists to bound.
func Decompress(codec Codec, compressed []byte, uncompressedSize int) ([]byte, error) {
	switch codec {
	case Uncompressed:
		return compressed, nil
	case Snappy:
		out := make([]byte, 0, uncompressedSize)
		decoded, err := snappy.Decode(out[:0:uncompressedSize], compressed)
		if err != nil {
			return nil, errs.Wrap(errs.KindDecode, err, "parquet: snappy page decompression")
		}
		return decoded, nil
	case Zstd:
		r, err := zstd.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, errs.Wrap(errs.KindDecode, err, "parquet: zstd page decompression")
		}
		defer r.Close()
		var buf bytes.Buffer
		buf.Grow(uncompressedSize)
		if _, err := io.Copy(&buf, r); err != nil {
			return nil, errs.Wrap(errs.KindDecode, err, "parquet: zstd page decompression")
		}
		return buf.Bytes(), nil
	default:
		return nil, errs.New(errs.KindDecode, "parquet: unsupported page codec")
	}
}
