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

const maxBitWidth = 64

// unpackFuncs dispatches on the declared bit width via a table lookup
// instead of branching on a runtime variable inside the decode loop; width
// 0 and 64 are degenerate (all-zero, and no masking needed) cases folded
// into the shared implementation.
var unpackFuncs [maxBitWidth + 1]func(dst []uint64, src []byte, n int)

func init() {
	for w := 0; w <= maxBitWidth; w++ {
		width := w
		unpackFuncs[w] = func(dst []uint64, src []byte, n int) {
			unpackWidth(dst, src, n, width)
		}
	}
}

// readWord reads 8 little-endian bytes starting at byteIdx, zero-padding
// past the end of src.
func readWord(src []byte, byteIdx int) uint64 {
	var v uint64
	for b := 0; b < 8; b++ {
		idx := byteIdx + b
		if idx >= len(src) {
			break
		}
		v |= uint64(src[idx]) << uint(8*b)
	}
	return v
}

func unpackWidth(dst []uint64, src []byte, n, width int) {
	if width == 0 {
		for i := 0; i < n; i++ {
			dst[i] = 0
		}
		return
	}
	mask := uint64(1)<<uint(width) - 1
	if width == maxBitWidth {
		mask = ^uint64(0)
	}
	for i := 0; i < n; i++ {
		startBit := i * width
		byteIdx := startBit / 8
		bitOff := uint(startBit % 8)
		v := readWord(src, byteIdx) >> bitOff
		if bitOff > 0 {
			v |= readWord(src, byteIdx+8) << (64 - bitOff)
		}
		dst[i] = v & mask
	}
}

// Unpack decodes n values bit-packed at the given width (0..=64), LSB
// first, from src into dst (which must have length >= n). Bit 0 means
// "all zeros, skip": every decoded value is 0.
func Unpack(dst []uint64, src []byte, width, n int) {
	unpackFuncs[width](dst, src, n)
}

// Unpack8 decodes a fixed 8-element block.
func Unpack8(dst *[8]uint64, src []byte, width int) { Unpack(dst[:], src, width, 8) }

// Unpack16 decodes a fixed 16-element block.
func Unpack16(dst *[16]uint64, src []byte, width int) { Unpack(dst[:], src, width, 16) }

// Unpack32 decodes a fixed 32-element block.
func Unpack32(dst *[32]uint64, src []byte, width int) { Unpack(dst[:], src, width, 32) }

// Unpack64 decodes a fixed 64-element block.
func Unpack64(dst *[64]uint64, src []byte, width int) { Unpack(dst[:], src, width, 64) }
