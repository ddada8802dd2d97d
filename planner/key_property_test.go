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

package planner

import (
	"testing"

	"pgregory.net/rapid"
)

// TestPlanKeyUnionIsCommutativeAndAbsorbing fuzzes PlanKey over random bit
// sets: Union must be commutative, and unioning a key with itself must be a
// no-op, regardless of which bits were picked.
func TestPlanKeyUnionIsCommutativeAndAbsorbing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		bitsA := rapid.SliceOfDistinct(rapid.IntRange(0, 63), func(i int) int { return i }).Draw(rt, "bitsA")
		bitsB := rapid.SliceOfDistinct(rapid.IntRange(0, 63), func(i int) int { return i }).Draw(rt, "bitsB")

		var a, b PlanKey
		for _, bit := range bitsA {
			a = a.With(bit)
		}
		for _, bit := range bitsB {
			b = b.With(bit)
		}

		if a.Union(b) != b.Union(a) {
			rt.Fatalf("Union not commutative: %v.Union(%v) != %v.Union(%v)", a, b, b, a)
		}
		if a.Union(a) != a {
			rt.Fatalf("Union(a, a) changed a: %v -> %v", a, a.Union(a))
		}
		if !a.IsSubsetOf(a.Union(b)) {
			rt.Fatalf("a must always be a subset of a.Union(b)")
		}
	})
}
