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
)

// RepartitionState is the shared state of a round-robin repartition pair:
// one output queue per consumer partition, per-output wakers,
// and producer/consumer finished tracking.
type RepartitionState struct {
	BaseOperatorState
	NumProducers      int
	NumConsumers      int
	queues            [][]*array.Batch
	nextQueue         int
	consumerWakers    []*Waker
	producersFinished int
}

func NewRepartitionState(numProducers, numConsumers int) *RepartitionState {
	return &RepartitionState{
		NumProducers:   numProducers,
		NumConsumers:   numConsumers,
		queues:         make([][]*array.Batch, numConsumers),
		consumerWakers: make([]*Waker, numConsumers),
	}
}

func (s *RepartitionState) isOperatorState() {}

// Push distributes one batch into the next queue in round-robin order and
// wakes that queue's waiting consumer, if any.
func (s *RepartitionState) Push(b *array.Batch) {
	s.Lock()
	idx := s.nextQueue % s.NumConsumers
	s.nextQueue++
	s.queues[idx] = append(s.queues[idx], b)
	w := s.consumerWakers[idx]
	s.consumerWakers[idx] = nil
	s.Unlock()
	w.Wake()
}

// FinishProducer marks one producer partition done; once every producer
// has finished, every consumer waiting on an empty queue is woken so it can
// observe exhaustion.
func (s *RepartitionState) FinishProducer() {
	s.Lock()
	s.producersFinished++
	done := s.producersFinished == s.NumProducers
	var wakers []*Waker
	if done {
		wakers = s.consumerWakers
		s.consumerWakers = make([]*Waker, s.NumConsumers)
	}
	s.Unlock()
	for _, w := range wakers {
		w.Wake()
	}
}

// Pull pops the next batch for consumer index c, or reports pending
// (registering waker) / exhausted.
func (s *RepartitionState) Pull(c int, waker *Waker) PullResult {
	s.Lock()
	defer s.Unlock()
	if len(s.queues[c]) > 0 {
		b := s.queues[c][0]
		s.queues[c] = s.queues[c][1:]
		return BatchResult(b)
	}
	if s.producersFinished == s.NumProducers {
		return ExhaustedResult()
	}
	s.consumerWakers[c] = waker
	return PendingPull()
}

// RepartitionProducer is the push side of a round-robin repartition: it
// forwards every pushed batch into RepartitionState.Push without buffering
// on the producer's own partition.
type RepartitionProducer struct {
	State *RepartitionState
}

func (op *RepartitionProducer) NewOperatorState() OperatorState   { return op.State }
func (op *RepartitionProducer) NewPartitionState() PartitionState { return &BasePartitionState{} }

func (op *RepartitionProducer) PollPush(ctx context.Context, p PartitionState, o OperatorState, batch *array.Batch) PushResult {
	op.State.Push(batch)
	return PushedResult()
}

func (op *RepartitionProducer) FinalizePush(ctx context.Context, p PartitionState, o OperatorState) error {
	op.State.FinishProducer()
	return nil
}

func (op *RepartitionProducer) PollPull(ctx context.Context, p PartitionState, o OperatorState) PullResult {
	return ExhaustedResult()
}

// RepartitionConsumer is the pull side: each partition index maps to one
// output queue.
type RepartitionConsumer struct {
	State *RepartitionState
}

func (op *RepartitionConsumer) NewOperatorState() OperatorState { return op.State }
func (op *RepartitionConsumer) NewPartitionState() PartitionState {
	return NewReadyPartitionState()
}

func (op *RepartitionConsumer) PollPush(ctx context.Context, p PartitionState, o OperatorState, batch *array.Batch) PushResult {
	return BreakResult()
}

func (op *RepartitionConsumer) FinalizePush(ctx context.Context, p PartitionState, o OperatorState) error {
	return nil
}

// RepartitionConsumerPartition lets a ReadyPartitionState carry which consumer index it
// represents; RunPipeline creates partition states generically, so the
// index is threaded through a small wrapper instead.
type RepartitionConsumerPartition struct {
	ReadyPartitionState
	Idx int
}

func (op *RepartitionConsumer) PollPull(ctx context.Context, pAny PartitionState, o OperatorState) PullResult {
	p, ok := pAny.(*RepartitionConsumerPartition)
	if !ok {
		return ExhaustedResult()
	}
	return op.State.Pull(p.Idx, p.Notify())
}
