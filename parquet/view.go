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
	"unicode/utf8"

	"github.com/flarehq/flaredb/errs"
)

// ViewBuffer is a write-once indexed byte-array buffer: push writes at the
// current index and advances it, get is bounds-checked against that index
// rather than the backing slice's capacity. This lets a dictionary page be
// decoded once into a ViewBuffer and pushed into output buffers by
// sharing its byte slices rather than copying the bytes.
type ViewBuffer struct {
	values [][]byte
}

// NewViewBuffer preallocates room for length entries.
func NewViewBuffer(length int) *ViewBuffer {
	return &ViewBuffer{values: make([][]byte, 0, length)}
}

func (v *ViewBuffer) Push(b []byte) {
	v.values = append(v.values, b)
}

func (v *ViewBuffer) Len() int { return len(v.values) }

// Get returns the entry at idx, or ok=false if idx is out of range.
func (v *ViewBuffer) Get(idx int) (b []byte, ok bool) {
	if idx < 0 || idx >= len(v.values) {
		return nil, false
	}
	return v.values[idx], true
}

// ValidateUTF8 errors on the first ill-formed entry.
func (v *ViewBuffer) ValidateUTF8() error {
	for _, b := range v.values {
		if !utf8.Valid(b) {
			return errs.New(errs.KindDecode, "parquet: invalid utf8 in view buffer entry")
		}
	}
	return nil
}

// PlainViewDecoder reads PLAIN-encoded {len, bytes} records directly into
// a ViewBuffer.
type PlainViewDecoder struct {
	buf    []byte
	offset int
}

func NewPlainViewDecoder(buf []byte) *PlainViewDecoder {
	return &PlainViewDecoder{buf: buf}
}

// Read decodes up to numVals records into buffer, returning the number
// actually read (fewer only when the page is exhausted).
func (d *PlainViewDecoder) Read(buffer *ViewBuffer, numVals int) (int, error) {
	read := 0
	for read < numVals && d.offset < len(d.buf) {
		if d.offset+4 > len(d.buf) {
			return read, errs.New(errs.KindDecode, "parquet: eof decoding byte array")
		}
		length := int(leUint32(d.buf[d.offset : d.offset+4]))
		d.offset += 4
		if d.offset+length > len(d.buf) {
			return read, errs.New(errs.KindDecode, "parquet: eof decoding byte array")
		}
		buffer.Push(d.buf[d.offset : d.offset+length])
		d.offset += length
		read++
	}
	return read, nil
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// DictionaryViewDecoder reads RLE_DICTIONARY indices and resolves each
// into a slice of the shared dictionary ViewBuffer.
type DictionaryViewDecoder struct {
	indices *DictIndexDecoder
}

func NewDictionaryViewDecoder(indices *DictIndexDecoder) *DictionaryViewDecoder {
	return &DictionaryViewDecoder{indices: indices}
}

// Read resolves up to numVals dictionary indices against dict, pushing the
// referenced byte slices into buffer. An out-of-range index is a hard
// error.
func (d *DictionaryViewDecoder) Read(buffer *ViewBuffer, dict *ViewBuffer, numVals int) (int, error) {
	return d.indices.Read(numVals, func(keys []uint64) error {
		for _, key := range keys {
			val, ok := dict.Get(int(key))
			if !ok {
				return errs.New(errs.KindDecode, "parquet: dictionary index out of range")
			}
			buffer.Push(val)
		}
		return nil
	})
}
