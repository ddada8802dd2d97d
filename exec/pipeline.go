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
	"golang.org/x/sync/errgroup"
)

// ReadyPartitionState is a BasePartitionState with a one-slot wake channel,
// the concrete wiring behind Waker for pipeline drivers that park a
// goroutine rather than busy-poll: an operator never blocks a worker, it
// returns Pending and hands the worker a waker.
type ReadyPartitionState struct {
	BasePartitionState
	ready chan struct{}
}

func NewReadyPartitionState() *ReadyPartitionState {
	return &ReadyPartitionState{ready: make(chan struct{}, 1)}
}

// Notify returns a Waker that wakes this partition's driver loop exactly
// once per call (subsequent Wake()s before the driver re-polls are
// coalesced, matching "woken exactly once per transition").
func (s *ReadyPartitionState) Notify() *Waker {
	return NewWaker(func() {
		select {
		case s.ready <- struct{}{}:
		default:
		}
	})
}

func (s *ReadyPartitionState) wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sink is the terminal operator of a pipeline: pulling from it drains the
// whole upstream chain. RunPartition drives one partition of op to
// exhaustion or error, invoking emit for every produced batch.
func RunPartition(ctx context.Context, op Operator, p *ReadyPartitionState, o OperatorState, emit func(*array.Batch) error) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res := op.PollPull(ctx, p, o)
		switch res.Kind {
		case PullBatch:
			if err := emit(res.Batch); err != nil {
				return err
			}
		case PullPending:
			if err := p.wait(ctx); err != nil {
				return err
			}
		case PullExhausted:
			return nil
		}
	}
}

// RunPipeline runs numPartitions independent partition workers over op,
// one goroutine per partition coordinated by an errgroup: an
// operator error cancels the shared context, and every PollPull call is
// expected to check it cooperatively between batches.
func RunPipeline(ctx context.Context, op Operator, numPartitions int, emit func(partition int, b *array.Batch) error) error {
	g, gctx := errgroup.WithContext(ctx)
	ostate := op.NewOperatorState()
	for i := 0; i < numPartitions; i++ {
		partition := i
		pstate := op.NewPartitionState()
		ready, ok := pstate.(*ReadyPartitionState)
		if !ok {
			ready = NewReadyPartitionState()
		}
		g.Go(func() error {
			return RunPartition(gctx, op, ready, ostate, func(b *array.Batch) error {
				return emit(partition, b)
			})
		})
	}
	return g.Wait()
}

// PushAll drives a producer side to completion by pushing every batch in
// batches through op, honoring PushPending by re-polling after the
// partition's waker fires, then calling FinalizePush exactly once.
func PushAll(ctx context.Context, op Operator, p *ReadyPartitionState, o OperatorState, batches []*array.Batch) error {
	for _, b := range batches {
		pending := b
		for pending != nil {
			res := op.PollPush(ctx, p, o, pending)
			switch res.Kind {
			case Pushed:
				pending = nil
			case PushPending:
				pending = res.Batch
				if err := p.wait(ctx); err != nil {
					return err
				}
			case NeedsMore:
				pending = nil
			case Break:
				return nil
			}
		}
	}
	return op.FinalizePush(ctx, p, o)
}
