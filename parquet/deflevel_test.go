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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyDefinitionLevelsMixedNulls(t *testing.T) {
	// logical rows: valid, null, valid, null, valid -> 3 physical values.
	levels := []int32{1, 0, 1, 0, 1}
	selection, validity := ApplyDefinitionLevels(levels, 1, 3)

	require.Equal(t, []int{0, 3, 1, 3, 2}, selection)
	require.Equal(t, 4, validity.Len())
	require.True(t, validity.Get(0))
	require.True(t, validity.Get(1))
	require.True(t, validity.Get(2))
	require.False(t, validity.Get(3))
}

func TestApplyDefinitionLevelsAllNull(t *testing.T) {
	levels := []int32{0, 0, 0}
	selection, validity := ApplyDefinitionLevels(levels, 1, 0)

	require.Equal(t, []int{0, 0, 0}, selection)
	require.Equal(t, 1, validity.Len())
	require.False(t, validity.Get(0))
}

func TestApplyDefinitionLevelsAllValid(t *testing.T) {
	levels := []int32{1, 1, 1}
	selection, validity := ApplyDefinitionLevels(levels, 1, 3)

	require.Equal(t, []int{0, 1, 2}, selection)
	for i := 0; i < 3; i++ {
		require.True(t, validity.Get(i))
	}
	require.False(t, validity.Get(3))
}
