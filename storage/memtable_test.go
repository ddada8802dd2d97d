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

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/storage"
)

func i32Batch(vals ...int32) *array.Batch {
	col := array.New(array.NewInt32(), array.NewNumericStorage(array.PhysInt32, vals), nil, nil)
	return &array.Batch{Columns: []*array.Array{col}}
}

func TestMemTableInsertAndRowCount(t *testing.T) {
	tbl := storage.NewMemTable("t", []array.Field{{Name: "x", Type: array.NewInt32()}})
	ins := tbl.NewInserter()
	ins.Insert(i32Batch(1, 2))
	ins.Insert(i32Batch(3))

	require.Equal(t, 3, tbl.RowCount())
	require.Len(t, tbl.Snapshot(), 2)
}

func TestMemTableConcatStacksAllBatches(t *testing.T) {
	tbl := storage.NewMemTable("t", []array.Field{{Name: "x", Type: array.NewInt32()}})
	ins := tbl.NewInserter()
	ins.Insert(i32Batch(1, 2))
	ins.Insert(i32Batch(3, 4, 5))

	out, err := tbl.Concat()
	require.NoError(t, err)
	require.Equal(t, 5, out.NumRows())
	got := out.Columns[0].Storage().(*array.NumericStorage[int32]).Values
	require.Equal(t, []int32{1, 2, 3, 4, 5}, got)
}

func TestMemTableConcatEmptyTable(t *testing.T) {
	tbl := storage.NewMemTable("t", []array.Field{{Name: "x", Type: array.NewInt32()}})
	out, err := tbl.Concat()
	require.NoError(t, err)
	require.Equal(t, 0, out.NumRows())
}
