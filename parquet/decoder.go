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
	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/errs"
)

// ColumnDescriptor carries the column-chunk metadata that crosses the
// boundary from the (out-of-scope) file/footer reader: the page's declared
// encoding and codec, the logical type it decodes into, and the max
// definition level for null detection.
type ColumnDescriptor struct {
	Type         array.DataType
	Encoding     Encoding
	Codec        Codec
	MaxDefLevel  int32
}

// DecodeNumericColumn decodes one data page of a numeric column into an
// Array honoring def-level-driven nulls. dictValues is the page's
// dictionary (already decoded via DecodeNumericColumn with Encoding=Plain
// against the dictionary page) and is required when desc.Encoding is
// PlainDictionary or RLEDictionary.
func DecodeNumericColumn[T PlainNumeric](desc ColumnDescriptor, compressedPage []byte, uncompressedSize int, numLevels int, levels []int32, dictValues []T) (*array.Array, error) {
	data, err := Decompress(desc.Codec, compressedPage, uncompressedSize)
	if err != nil {
		return nil, err
	}

	numNonNull := numLevels
	if levels != nil {
		numNonNull = 0
		for _, lvl := range levels {
			if lvl == desc.MaxDefLevel {
				numNonNull++
			}
		}
	}

	values, err := decodeNumericValues[T](desc.Encoding, data, numNonNull, dictValues)
	if err != nil {
		return nil, err
	}

	if levels == nil {
		storage := array.NewNumericStorage[T](desc.Type.Physical(), values)
		return array.New(desc.Type, storage, nil, nil), nil
	}

	physical := append(append([]T(nil), values...), T(0)) // + null sentinel row
	storage := array.NewNumericStorage[T](desc.Type.Physical(), physical)
	selection, validity := ApplyDefinitionLevels(levels, desc.MaxDefLevel, len(values))
	return array.New(desc.Type, storage, validity, selection), nil
}

func decodeNumericValues[T PlainNumeric](enc Encoding, data []byte, numValues int, dictValues []T) ([]T, error) {
	switch enc {
	case Plain:
		return DecodePlainNumeric[T](data, numValues)
	case PlainDictionary, RLEDictionary:
		if dictValues == nil {
			return nil, errs.New(errs.KindDecode, "parquet: dictionary-encoded page decoded without a dictionary")
		}
		idx, err := NewDictIndexDecoder(data, numValues)
		if err != nil {
			return nil, err
		}
		out := make([]T, 0, numValues)
		_, err = idx.Read(numValues, func(keys []uint64) error {
			for _, k := range keys {
				if int(k) >= len(dictValues) {
					return errs.New(errs.KindDecode, "parquet: dictionary index out of range")
				}
				out = append(out, dictValues[k])
			}
			return nil
		})
		return out, err
	case DeltaBinaryPacked:
		return decodeDeltaNumeric[T](data)
	default:
		return nil, errs.New(errs.KindDecode, "parquet: unsupported numeric encoding")
	}
}

// decodeDeltaNumeric dispatches DELTA_BINARY_PACKED to the int32/int64
// instantiation matching T's width; float columns never use this encoding.
func decodeDeltaNumeric[T PlainNumeric](data []byte) ([]T, error) {
	var zero T
	switch any(zero).(type) {
	case int32, uint32:
		decoded, err := DecodeDeltaBinaryPacked[int32](data)
		if err != nil {
			return nil, err
		}
		out := make([]T, len(decoded))
		for i, v := range decoded {
			out[i] = T(v)
		}
		return out, nil
	case int64, uint64:
		decoded, err := DecodeDeltaBinaryPacked[int64](data)
		if err != nil {
			return nil, err
		}
		out := make([]T, len(decoded))
		for i, v := range decoded {
			out[i] = T(v)
		}
		return out, nil
	default:
		return nil, errs.New(errs.KindDecode, "parquet: delta binary packed is only defined for integer columns")
	}
}

// DecodeByteArrayColumn decodes one data page of a byte-array column (Utf8
// or Binary) into an Array, resolving RLE_DICTIONARY indices against dict
// when desc.Encoding requires it.
func DecodeByteArrayColumn(desc ColumnDescriptor, compressedPage []byte, uncompressedSize int, numValues int, levels []int32, dict *ViewBuffer) (*array.Array, error) {
	data, err := Decompress(desc.Codec, compressedPage, uncompressedSize)
	if err != nil {
		return nil, err
	}

	numNonNull := numValues
	if levels != nil {
		numNonNull = 0
		for _, lvl := range levels {
			if lvl == desc.MaxDefLevel {
				numNonNull++
			}
		}
	}

	view := NewViewBuffer(numNonNull)
	switch desc.Encoding {
	case Plain:
		if _, err := NewPlainViewDecoder(data).Read(view, numNonNull); err != nil {
			return nil, err
		}
	case PlainDictionary, RLEDictionary:
		if dict == nil {
			return nil, errs.New(errs.KindDecode, "parquet: dictionary-encoded byte array page decoded without a dictionary")
		}
		idx, err := NewDictIndexDecoder(data, numNonNull)
		if err != nil {
			return nil, err
		}
		if _, err := NewDictionaryViewDecoder(idx).Read(view, dict, numNonNull); err != nil {
			return nil, err
		}
	default:
		return nil, errs.New(errs.KindDecode, "parquet: unsupported byte array encoding")
	}

	if levels == nil {
		builder := array.NewVarlenBuilder(desc.Type, view.Len())
		for i := 0; i < view.Len(); i++ {
			b, _ := view.Get(i)
			builder.Append(b)
		}
		return builder.Finish(), nil
	}

	builder := array.NewVarlenBuilder(desc.Type, view.Len()+1)
	for i := 0; i < view.Len(); i++ {
		b, _ := view.Get(i)
		builder.Append(b)
	}
	builder.Append(nil) // null sentinel row

	arr := builder.Finish()
	selection, validity := ApplyDefinitionLevels(levels, desc.MaxDefLevel, view.Len())
	return array.New(desc.Type, arr.Storage(), validity, selection), nil
}
