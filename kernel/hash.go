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

package kernel

import (
	"math"

	"github.com/flarehq/flaredb/array"
)

// HashSeed is a module-level constant (all-zero) so every partition and
// every execution of the process produces the same hash for the same
// bytes; this is a correctness requirement for partitioned hash joins and
// aggregations.
const HashSeed uint64 = 0

// nullSentinel is the fixed hash value substituted for a null field, so
// null == null at the hash level; true equality is still
// checked downstream by the hash table's key comparison.
const nullSentinel uint64 = 0x9e3779b97f4a7c15

// combineHashes folds a newly computed column hash r into the running row
// hash l.
func combineHashes(l, r uint64) uint64 {
	return (17*37+l)*37 + r
}

// mix64 is a splitmix64-style finalizer giving good avalanche for a single
// 64-bit word; it is not cryptographic, only deterministic.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

func bitsOf[T array.Number](v T) uint64 {
	switch x := any(v).(type) {
	case int8:
		return uint64(uint8(x))
	case int16:
		return uint64(uint16(x))
	case int32:
		return uint64(uint32(x))
	case int64:
		return uint64(x)
	case int:
		return uint64(x)
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint64:
		return x
	case uint:
		return uint64(x)
	case float32:
		return uint64(math.Float32bits(x))
	case float64:
		return math.Float64bits(x)
	default:
		return 0
	}
}

// HashColumn computes (or combines into) a per-row hash buffer for one
// numeric column. first must be true for the first column in a row and
// false for every subsequent column: the first column overwrites, later
// columns combine with combineHashes.
func HashColumn[T array.Number](a *array.Array, out []uint64, first bool) {
	vals := numericValues[T](a)
	n := a.LogicalLen()
	for i := 0; i < n; i++ {
		var h uint64
		if !a.IsValid(i) {
			h = nullSentinel
		} else {
			h = mix64(bitsOf(vals[a.PhysicalIndex(i)]) ^ HashSeed)
		}
		if first {
			out[i] = h
		} else {
			out[i] = combineHashes(out[i], h)
		}
	}
}

// HashVarlen is HashColumn specialized to variable-length columns.
func HashVarlen(a *array.Array, out []uint64, first bool) {
	vs := a.Storage().(*array.VarlenStorage)
	n := a.LogicalLen()
	for i := 0; i < n; i++ {
		var h uint64
		if !a.IsValid(i) {
			h = nullSentinel
		} else {
			h = fnv64a(vs.Bytes(a.PhysicalIndex(i)))
		}
		if first {
			out[i] = h
		} else {
			out[i] = combineHashes(out[i], h)
		}
	}
}

func fnv64a(b []byte) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64) ^ HashSeed
	for _, c := range b {
		h ^= uint64(c)
		h *= prime64
	}
	return h
}
