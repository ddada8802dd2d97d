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

const dictIndexBufLen = 1024

// DictIndexDecoder decodes RLE_DICTIONARY / PLAIN_DICTIONARY index streams:
// the first byte of data is the bit width, the remainder is the RLE/
// bit-packed hybrid stream of dictionary indices. Indices are buffered
// 1024 at a time so Read can hand callers contiguous slices without
// decoding one value at a time.
type DictIndexDecoder struct {
	decoder       *rleDecoder
	indexBuf      [dictIndexBufLen]uint64
	indexBufLen   int
	indexOffset   int
	maxRemaining  int
}

// NewDictIndexDecoder builds a decoder over data, where data[0] is the bit
// width and data[1:] is the RLE/bit-packed index stream. numValues bounds
// the number of indices present (e.g. non-null count for a page with
// definition levels).
func NewDictIndexDecoder(data []byte, numValues int) (*DictIndexDecoder, error) {
	if len(data) == 0 {
		return nil, errs.New(errs.KindDecode, "parquet: empty dictionary index page")
	}
	bitWidth := int(data[0])
	return &DictIndexDecoder{
		decoder:      newRLEDecoder(data[1:], bitWidth),
		maxRemaining: numValues,
	}, nil
}

// Read decodes up to length values, calling f once per internally buffered
// chunk of decoded indices (never more than 1024 per call). It returns the
// total number of values read.
func (d *DictIndexDecoder) Read(length int, f func(indices []uint64) error) (int, error) {
	read := 0
	for read != length && d.maxRemaining != 0 {
		if d.indexOffset == d.indexBufLen {
			n, err := d.decoder.getBatch(d.indexBuf[:])
			if err != nil {
				return read, err
			}
			if n == 0 {
				break
			}
			d.indexBufLen = n
			d.indexOffset = 0
		}

		toRead := length - read
		if avail := d.indexBufLen - d.indexOffset; toRead > avail {
			toRead = avail
		}
		if toRead > d.maxRemaining {
			toRead = d.maxRemaining
		}

		if err := f(d.indexBuf[d.indexOffset : d.indexOffset+toRead]); err != nil {
			return read, err
		}

		d.indexOffset += toRead
		read += toRead
		d.maxRemaining -= toRead
	}
	return read, nil
}
