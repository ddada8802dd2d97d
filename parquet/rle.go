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

import "github.com/flarehq/flaredb/errs"

// rleDecoder decodes the RLE/bit-packed hybrid used for Parquet
// definition/repetition levels and for RLE_DICTIONARY indices: a sequence
// of runs, each prefixed by a ULEB128 header whose low bit selects RLE
// (repeated value) or bit-packed (groups of 8 values).
type rleDecoder struct {
	buf      []byte
	bitWidth int

	rleValue uint64
	rleLeft  int

	packedVals []uint64
	packedPos  int // index into packedVals already consumed
}

func newRLEDecoder(buf []byte, bitWidth int) *rleDecoder {
	return &rleDecoder{buf: buf, bitWidth: bitWidth}
}

func (d *rleDecoder) loadRun() error {
	if len(d.buf) == 0 {
		return errs.New(errs.KindDecode, "parquet: rle stream exhausted")
	}
	header, n, err := decodeULEB128(d.buf)
	if err != nil {
		return err
	}
	d.buf = d.buf[n:]

	byteWidth := (d.bitWidth + 7) / 8
	if header&1 == 0 {
		count := int(header >> 1)
		if len(d.buf) < byteWidth {
			return errs.New(errs.KindDecode, "parquet: rle run value truncated")
		}
		var v uint64
		for i := 0; i < byteWidth; i++ {
			v |= uint64(d.buf[i]) << uint(8*i)
		}
		d.buf = d.buf[byteWidth:]
		d.rleValue = v
		d.rleLeft = count
		return nil
	}

	groups := int(header >> 1)
	count := groups * 8
	byteCount := (d.bitWidth*count + 7) / 8
	if len(d.buf) < byteCount {
		return errs.New(errs.KindDecode, "parquet: rle bit-packed run truncated")
	}
	packed := d.buf[:byteCount]
	d.buf = d.buf[byteCount:]
	d.packedVals = make([]uint64, count)
	Unpack(d.packedVals, packed, d.bitWidth, count)
	d.packedPos = 0
	return nil
}

// getBatch fills dst with up to len(dst) decoded values, returning the
// number actually produced (fewer than len(dst) only when the stream is
// exhausted).
func (d *rleDecoder) getBatch(dst []uint64) (int, error) {
	produced := 0
	for produced < len(dst) {
		if d.rleLeft == 0 && d.packedPos >= len(d.packedVals) {
			if len(d.buf) == 0 {
				return produced, nil
			}
			if err := d.loadRun(); err != nil {
				return produced, err
			}
			continue
		}
		if d.rleLeft > 0 {
			n := d.rleLeft
			if n > len(dst)-produced {
				n = len(dst) - produced
			}
			for i := 0; i < n; i++ {
				dst[produced+i] = d.rleValue
			}
			produced += n
			d.rleLeft -= n
			continue
		}
		n := len(d.packedVals) - d.packedPos
		if n > len(dst)-produced {
			n = len(dst) - produced
		}
		copy(dst[produced:produced+n], d.packedVals[d.packedPos:d.packedPos+n])
		produced += n
		d.packedPos += n
	}
	return produced, nil
}
