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

// Package exec implements the push/pull streaming operator protocol:
// PollPush/FinalizePush/PollPull over partition-local and shared operator
// state, waker-driven backpressure, and round-robin repartitioning.
package exec

import (
	"context"
	"sync"

	"github.com/flarehq/flaredb/array"
)

// Waker lets an operator that returned Pending be woken exactly once per
// transition. Wake is idempotent:
// calling it more than once only fires the underlying callback the first
// time, and is safe to call from any goroutine.
type Waker struct {
	once sync.Once
	fn   func()
}

func NewWaker(fn func()) *Waker {
	return &Waker{fn: fn}
}

func (w *Waker) Wake() {
	if w == nil {
		return
	}
	w.once.Do(w.fn)
}

// PushKind is the tag of a PollPush result.
type PushKind int

const (
	Pushed PushKind = iota
	PushPending
	NeedsMore
	Break
)

// PushResult is the return value of PollPush. Batch is
// populated only for PushPending, and ownership of it returns to the
// caller unmodified.
type PushResult struct {
	Kind  PushKind
	Batch *array.Batch
}

func PushedResult() PushResult       { return PushResult{Kind: Pushed} }
func PendingPush(b *array.Batch) PushResult { return PushResult{Kind: PushPending, Batch: b} }
func NeedsMoreResult() PushResult    { return PushResult{Kind: NeedsMore} }
func BreakResult() PushResult        { return PushResult{Kind: Break} }

// PullKind is the tag of a PollPull result.
type PullKind int

const (
	PullBatch PullKind = iota
	PullPending
	PullExhausted
)

// PullResult is the return value of PollPull.
type PullResult struct {
	Kind  PullKind
	Batch *array.Batch
}

func BatchResult(b *array.Batch) PullResult { return PullResult{Kind: PullBatch, Batch: b} }
func PendingPull() PullResult               { return PullResult{Kind: PullPending} }
func ExhaustedResult() PullResult           { return PullResult{Kind: PullExhausted} }

// PartitionState is owned by exactly one partition worker; operators store
// their partition-local fields behind a concrete type and type-assert it
// back out of this marker interface.
type PartitionState interface {
	isPartitionState()
}

// BasePartitionState is embedded by concrete partition states to satisfy
// the marker interface and to hold the commonly needed pull waker.
type BasePartitionState struct {
	PullWaker *Waker
	PushWaker *Waker
	Finished  bool
}

func (*BasePartitionState) isPartitionState() {}

// OperatorState is protected by a single mutex discipline: all
// access to it happens through Operator implementations which take the
// lock themselves. Critical sections may allocate but must never block.
type OperatorState interface {
	isOperatorState()
}

type BaseOperatorState struct {
	mu sync.Mutex
}

func (s *BaseOperatorState) isOperatorState() {}
func (s *BaseOperatorState) Lock()            { s.mu.Lock() }
func (s *BaseOperatorState) Unlock()          { s.mu.Unlock() }

// Operator implements the poll_push / finalize_push / poll_pull triple.
// A single Operator value is shared by every partition
// worker; PartitionState distinguishes one partition's call from another's.
type Operator interface {
	PollPush(ctx context.Context, p PartitionState, o OperatorState, batch *array.Batch) PushResult
	FinalizePush(ctx context.Context, p PartitionState, o OperatorState) error
	PollPull(ctx context.Context, p PartitionState, o OperatorState) PullResult
	NewPartitionState() PartitionState
	NewOperatorState() OperatorState
}
