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

package hashtable_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/hashtable"
	"github.com/flarehq/flaredb/kernel"
)

func TestJoinHashTableProbeMatches(t *testing.T) {
	tbl := hashtable.NewJoinHashTable()

	build := int32Key(10, 20, 20, 30)
	batchIdx := tbl.AddBuildBatch([]*array.Array{build})
	hashes := []uint64{1, 2, 2, 3}
	for i, h := range hashes {
		tbl.Insert(batchIdx, i, h)
	}

	probe := int32Key(20)
	var matches []hashtable.GroupAddress
	tbl.Probe([]*array.Array{probe}, 0, 2, func(addr hashtable.GroupAddress) bool {
		matches = append(matches, addr)
		return false
	})
	require.Len(t, matches, 2, "both build rows with key 20 must be visited")
}

func TestJoinHashTableNullNeverMatchesNull(t *testing.T) {
	tbl := hashtable.NewJoinHashTable()

	validity := array.NewBitmapAllTrue(1)
	validity.Set(0, false)
	build := array.New(array.NewInt32(), array.NewNumericStorage(array.PhysInt32, []int32{0}), validity, nil)
	batchIdx := tbl.AddBuildBatch([]*array.Array{build})
	tbl.Insert(batchIdx, 0, 42)

	probeValidity := array.NewBitmapAllTrue(1)
	probeValidity.Set(0, false)
	probe := array.New(array.NewInt32(), array.NewNumericStorage(array.PhysInt32, []int32{0}), probeValidity, nil)

	hit := tbl.MarkJoin([]*array.Array{probe}, 0, 42)
	require.False(t, hit, "SQL join semantics: null never equals null")
}

func TestJoinHashTableMarkJoinShortCircuits(t *testing.T) {
	tbl := hashtable.NewJoinHashTable()
	build := int32Key(5, 5, 5)
	batchIdx := tbl.AddBuildBatch([]*array.Array{build})
	for i := 0; i < 3; i++ {
		tbl.Insert(batchIdx, i, 99)
	}

	probe := int32Key(5)
	visited := 0
	tbl.Probe([]*array.Array{probe}, 0, 99, func(hashtable.GroupAddress) bool {
		visited++
		return true // stop after first match
	})
	require.Equal(t, 1, visited)
}

func TestOuterTrackerUnmatchedIndices(t *testing.T) {
	tracker := hashtable.NewOuterTracker(5)
	tracker.MarkMatched(1)
	tracker.MarkMatched(3)

	var unmatched []int
	tracker.UnmatchedIndices(func(i int) bool {
		unmatched = append(unmatched, i)
		return true
	})
	require.Equal(t, []int{0, 2, 4}, unmatched)
	require.True(t, tracker.IsMatched(1))
	require.False(t, tracker.IsMatched(2))
}

// TestScenarioInnerEquijoin runs the literal `SELECT v, w FROM L JOIN R ON
// L.k = R.k` scenario: L = (k=[1,2,3], v=[10,20,30]), R = (k=[2,3,4],
// w=[200,300,400]), expecting rows (20,200), (30,300).
func TestScenarioInnerEquijoin(t *testing.T) {
	buildKey := int32Key(1, 2, 3)
	buildVal := int32Key(10, 20, 30)
	probeKey := int32Key(2, 3, 4)
	probeVal := int32Key(200, 300, 400)

	buildHashes := make([]uint64, buildKey.LogicalLen())
	kernel.HashColumn[int32](buildKey, buildHashes, true)
	probeHashes := make([]uint64, probeKey.LogicalLen())
	kernel.HashColumn[int32](probeKey, probeHashes, true)

	tbl := hashtable.NewJoinHashTable()
	batchIdx := tbl.AddBuildBatch([]*array.Array{buildKey})
	for i, h := range buildHashes {
		tbl.Insert(batchIdx, i, h)
	}

	buildVals := buildVal.Storage().(*array.NumericStorage[int32]).Values
	probeVals := probeVal.Storage().(*array.NumericStorage[int32]).Values

	type pair struct{ v, w int32 }
	var out []pair
	for row := 0; row < probeKey.LogicalLen(); row++ {
		tbl.Probe([]*array.Array{probeKey}, row, probeHashes[row], func(addr hashtable.GroupAddress) bool {
			out = append(out, pair{v: buildVals[addr.RowIdx], w: probeVals[row]})
			return false
		})
	}

	require.Equal(t, []pair{{20, 200}, {30, 300}}, out)
}
