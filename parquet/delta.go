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

// DeltaInt is the integer family DELTA_BINARY_PACKED decodes into.
type DeltaInt interface {
	~int32 | ~int64
}

// DecodeDeltaBinaryPacked decodes one DELTA_BINARY_PACKED page: four
// ULEB128 header fields, then one block per iteration until total_values
// values have been produced.
//
// Each miniblock is unpacked for exactly the number of values it still
// owes (min(values_per_miniblock, remaining)) rather than in fixed
// native-word chunks; a short final miniblock therefore never reads bits
// beyond what its own packed byte range declares, and the result is
// truncated to total_values by construction.
func DecodeDeltaBinaryPacked[T DeltaInt](buf []byte) ([]T, error) {
	blockSize, n, err := decodeULEB128(buf)
	if err != nil {
		return nil, errs.Wrap(errs.KindDecode, err, "parquet: delta header block_size")
	}
	buf = buf[n:]

	miniblocksPerBlock, n, err := decodeULEB128(buf)
	if err != nil {
		return nil, errs.Wrap(errs.KindDecode, err, "parquet: delta header miniblocks_per_block")
	}
	buf = buf[n:]

	totalValues, n, err := decodeULEB128(buf)
	if err != nil {
		return nil, errs.Wrap(errs.KindDecode, err, "parquet: delta header total_values")
	}
	buf = buf[n:]

	firstValue, n, err := decodeZigzagULEB128(buf)
	if err != nil {
		return nil, errs.Wrap(errs.KindDecode, err, "parquet: delta header first_value")
	}
	buf = buf[n:]

	if blockSize == 0 || blockSize%128 != 0 {
		return nil, errs.New(errs.KindDecode, "parquet: delta block_size must be a nonzero multiple of 128")
	}
	if miniblocksPerBlock == 0 || (blockSize/miniblocksPerBlock)%32 != 0 {
		return nil, errs.New(errs.KindDecode, "parquet: delta block_size/miniblocks_per_block must be a multiple of 32")
	}
	if blockSize%miniblocksPerBlock != 0 {
		return nil, errs.New(errs.KindDecode, "parquet: delta block_size must be a multiple of miniblocks_per_block")
	}
	valuesPerMiniblock := int(blockSize / miniblocksPerBlock)

	out := make([]T, 0, totalValues)
	if totalValues == 0 {
		return out, nil
	}
	out = append(out, T(firstValue))
	previous := T(firstValue)

	scratch := make([]uint64, valuesPerMiniblock)

	for uint64(len(out)) < totalValues {
		minDeltaSigned, n, err := decodeZigzagULEB128(buf)
		if err != nil {
			return nil, errs.Wrap(errs.KindDecode, err, "parquet: delta block min_delta")
		}
		buf = buf[n:]
		minDelta := T(minDeltaSigned)

		if uint64(len(buf)) < miniblocksPerBlock {
			return nil, errs.New(errs.KindDecode, "parquet: delta block truncated before bit-width bytes")
		}
		bitWidths := buf[:miniblocksPerBlock]
		buf = buf[miniblocksPerBlock:]

		for _, bw := range bitWidths {
			remaining := totalValues - uint64(len(out))
			if remaining == 0 {
				break
			}
			width := int(bw)
			want := valuesPerMiniblock
			if uint64(want) > remaining {
				want = int(remaining)
			}
			byteCount := (width*valuesPerMiniblock + 7) / 8
			if len(buf) < byteCount {
				return nil, errs.New(errs.KindDecode, "parquet: delta miniblock truncated")
			}
			packed := buf[:byteCount]
			buf = buf[byteCount:]

			Unpack(scratch[:want], packed, width, want)
			for i := 0; i < want; i++ {
				previous = previous + minDelta + T(scratch[i])
				out = append(out, previous)
			}
		}
	}
	return out[:totalValues], nil
}
