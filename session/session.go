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

// Package session carries the per-query handle and the worker pool that
// drives pipeline execution.
package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/flarehq/flaredb/config"
	"github.com/flarehq/flaredb/errs"
)

// pullTimeout bounds how long a single poll_pull may take before the query
// is treated as stuck.
const pullTimeout = 5 * time.Second

// Query is the caller-facing handle for one in-flight query: cancellation,
// the first error observed by any partition worker, and a completion
// signal.
type Query struct {
	ID        uuid.UUID
	cancelled atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
	err       atomic.Pointer[error]
	log       *zap.SugaredLogger
}

// NewQuery derives a cancellable child context from parent and returns the
// Query handle paired with that context; callers should thread the
// returned context through every PollPush/PollPull call.
func NewQuery(parent context.Context, log *zap.SugaredLogger) (*Query, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	q := &Query{ID: uuid.New(), cancel: cancel, done: make(chan struct{}), log: log}
	return q, ctx
}

// Cancel marks the query cancelled and cancels its context; operators
// observe this the next time they check ctx.Err() or Cancelled().
func (q *Query) Cancel() {
	q.cancelled.Store(true)
	q.cancel()
}

// Cancelled reports whether Cancel has been called, for operators that
// check a plain flag rather than threading ctx.Err() through.
func (q *Query) Cancelled() bool { return q.cancelled.Load() }

// Err returns the first error recorded by Finish, wrapped with a stack
// trace at this one user-facing boundary.
func (q *Query) Err() error {
	if p := q.err.Load(); p != nil {
		return errs.WithStack(*p)
	}
	return nil
}

// Done reports query completion, successful or not.
func (q *Query) Done() <-chan struct{} { return q.done }

// Finish records the terminal error (nil on success), closes Done, and is
// idempotent: only the first call has any effect.
func (q *Query) Finish(err error) {
	select {
	case <-q.done:
		return
	default:
	}
	if err != nil {
		q.err.Store(&err)
	}
	close(q.done)
}

// WithPullTimeout wraps ctx with the per-pull deadline every poll_pull is
// driven under.
func WithPullTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, pullTimeout)
}

// WorkerPool runs one goroutine per target partition via errgroup, so any
// operator error cancels every sibling partition's context.
type WorkerPool struct {
	group        *errgroup.Group
	ctx          context.Context
	decodeLimiter *semaphore.Weighted
}

// NewWorkerPool creates a pool bound to ctx, limiting concurrently
// *decoding* Parquet column chunks to maxDecodeConcurrency regardless of
// partition count.
func NewWorkerPool(ctx context.Context, maxDecodeConcurrency int64) (*WorkerPool, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	return &WorkerPool{group: g, ctx: gctx, decodeLimiter: semaphore.NewWeighted(maxDecodeConcurrency)}, gctx
}

// Go runs fn as one partition worker.
func (p *WorkerPool) Go(fn func() error) { p.group.Go(fn) }

// Wait blocks until every worker returns, surfacing the first error.
func (p *WorkerPool) Wait() error { return p.group.Wait() }

// AcquireDecodeSlot blocks until a Parquet column-chunk decode slot is
// available, releasing it via the returned func.
func (p *WorkerPool) AcquireDecodeSlot(ctx context.Context) (release func(), err error) {
	if err := p.decodeLimiter.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { p.decodeLimiter.Release(1) }, nil
}

// Config is re-exported for callers that only import package session.
type Config = config.Config
