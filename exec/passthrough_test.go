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

package exec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/exec"
	"github.com/flarehq/flaredb/kernel"
)

func i32Col(vals ...int32) *array.Array {
	return array.New(array.NewInt32(), array.NewNumericStorage(array.PhysInt32, vals), nil, nil)
}

func i32Filled(n int, v int32) *array.Array {
	vals := make([]int32, n)
	for i := range vals {
		vals[i] = v
	}
	return i32Col(vals...)
}

// TestFilterProjectOperatorEvaluatesScalarKernels runs a predicate built
// from kernel.BinaryPredicate and a projection built from kernel.Binary
// through the real push/pull protocol: `SELECT x + 1 WHERE x > 1`.
func TestFilterProjectOperatorEvaluatesScalarKernels(t *testing.T) {
	op := &exec.FilterProjectOperator{
		Predicate: func(b *array.Batch) (*array.Bitmap, error) {
			threshold := i32Filled(b.Columns[0].LogicalLen(), 1)
			out, err := kernel.BinaryPredicate[int32, int32](b.Columns[0], threshold, func(a, b int32) bool { return a > b })
			if err != nil {
				return nil, err
			}
			return out.Storage().(*array.BooleanStorage).Values, nil
		},
		Project: func(b *array.Batch) (*array.Batch, error) {
			cols := make([]*array.Array, len(b.Columns))
			for i, c := range b.Columns {
				ones := i32Filled(c.LogicalLen(), 1)
				out, err := kernel.Binary[int32, int32, int32](c, ones, array.NewInt32(), func(a, b int32) int32 { return a + b })
				if err != nil {
					return nil, err
				}
				cols[i] = out
			}
			return &array.Batch{Columns: cols}, nil
		},
	}

	ostate := op.NewOperatorState()
	pstate := op.NewPartitionState()

	batch := &array.Batch{Columns: []*array.Array{i32Col(1, 2, 3)}}
	pushRes := op.PollPush(context.Background(), pstate, ostate, batch)
	require.Equal(t, exec.Pushed, pushRes.Kind)
	require.NoError(t, op.FinalizePush(context.Background(), pstate, ostate))

	pullRes := op.PollPull(context.Background(), pstate, ostate)
	require.Equal(t, exec.PullBatch, pullRes.Kind)
	got := pullRes.Batch.Columns[0].Storage().(*array.NumericStorage[int32]).Values
	require.Equal(t, []int32{3, 4}, got, "rows with x>1 (2,3) projected through x+1")

	final := op.PollPull(context.Background(), pstate, ostate)
	require.Equal(t, exec.PullExhausted, final.Kind)
}
