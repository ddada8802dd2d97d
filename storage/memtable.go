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

// Package storage holds the best-effort in-memory table (schema-scoped; a
// mutex guards the batch vector, and scan takes a snapshot under the lock)
// and the FileSource/FileSink boundary.
package storage

import (
	"sync"

	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/kernel"
)

// MemTable is a best-effort, non-durable, non-transactional in-memory
// relation: a mutex-guarded vector of batches.
type MemTable struct {
	mu      sync.Mutex
	Name    string
	Columns []array.Field
	batches []*array.Batch
}

func NewMemTable(name string, columns []array.Field) *MemTable {
	return &MemTable{Name: name, Columns: columns}
}

// Inserter is a handle one partition uses to append batches without
// contending on every single insert; it flushes into the table under one
// short critical section per call, the way CreateTable publishes
// per-partition insert handles into shared operator state.
type Inserter struct {
	table *MemTable
}

func (t *MemTable) NewInserter() *Inserter {
	return &Inserter{table: t}
}

func (ins *Inserter) Insert(b *array.Batch) {
	ins.table.mu.Lock()
	ins.table.batches = append(ins.table.batches, b)
	ins.table.mu.Unlock()
}

// Snapshot takes a consistent view of the table's current batches under
// the lock.
func (t *MemTable) Snapshot() []*array.Batch {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*array.Batch, len(t.batches))
	copy(out, t.batches)
	return out
}

// Concat materializes every accumulated batch into a single batch, one
// physical-type dispatch per column rather than per row.
func (t *MemTable) Concat() (*array.Batch, error) {
	batches := t.Snapshot()
	cols := make([]*array.Array, len(t.Columns))
	for c, field := range t.Columns {
		parts := make([]*array.Array, len(batches))
		for i, b := range batches {
			parts[i] = b.Columns[c]
		}
		out, err := kernel.ConcatColumn(field.Type, parts)
		if err != nil {
			return nil, err
		}
		cols[c] = out
	}
	return &array.Batch{Columns: cols}, nil
}

func (t *MemTable) RowCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, b := range t.batches {
		n += b.NumRows()
	}
	return n
}
