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

package exec

import (
	"context"

	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/kernel"
)

// FilterProjectPartition is the partition-local state of a FilterProject
// operator: one batch of backpressure. Filter/project/map preserve push
// order and never reorder across batches.
type FilterProjectPartition struct {
	BasePartitionState
	held *array.Batch
}

func (*FilterProjectPartition) isPartitionState() {}

// FilterProjectOperator applies Predicate (if non-nil) then Project (if
// non-nil) to every pushed batch, buffering at most one in-flight output
// batch per partition. No shared operator state is needed since filter and
// project are embarrassingly parallel per partition.
type FilterProjectOperator struct {
	Predicate func(*array.Batch) (*array.Bitmap, error)
	Project   func(*array.Batch) (*array.Batch, error)
}

type noopOperatorState struct{ BaseOperatorState }

func (op *FilterProjectOperator) NewOperatorState() OperatorState   { return &noopOperatorState{} }
func (op *FilterProjectOperator) NewPartitionState() PartitionState { return &FilterProjectPartition{} }

func (op *FilterProjectOperator) transform(b *array.Batch) (*array.Batch, error) {
	out := b
	if op.Predicate != nil {
		mask, err := op.Predicate(out)
		if err != nil {
			return nil, err
		}
		cols := make([]*array.Array, len(out.Columns))
		for i, c := range out.Columns {
			cols[i] = kernel.Filter(c, mask)
		}
		out = &array.Batch{Columns: cols}
	}
	if op.Project != nil {
		var err error
		out, err = op.Project(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (op *FilterProjectOperator) PollPush(ctx context.Context, pAny PartitionState, oAny OperatorState, batch *array.Batch) PushResult {
	p := pAny.(*FilterProjectPartition)
	if p.held != nil {
		return PendingPush(batch)
	}
	out, err := op.transform(batch)
	if err != nil {
		return BreakResult()
	}
	p.held = out
	if p.PullWaker != nil {
		p.PullWaker.Wake()
	}
	return PushedResult()
}

func (op *FilterProjectOperator) FinalizePush(ctx context.Context, pAny PartitionState, oAny OperatorState) error {
	p := pAny.(*FilterProjectPartition)
	p.Finished = true
	if p.PullWaker != nil {
		p.PullWaker.Wake()
	}
	return nil
}

func (op *FilterProjectOperator) PollPull(ctx context.Context, pAny PartitionState, oAny OperatorState) PullResult {
	p := pAny.(*FilterProjectPartition)
	if p.held != nil {
		b := p.held
		p.held = nil
		if p.PushWaker != nil {
			p.PushWaker.Wake()
		}
		return BatchResult(b)
	}
	if p.Finished {
		return ExhaustedResult()
	}
	return PendingPull()
}
