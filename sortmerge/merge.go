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

package sortmerge

import (
	"bytes"
	"container/heap"

	"github.com/flarehq/flaredb/array"
)

// RowReference names one row as (which input batch, which row within the
// batch's sort order); it is the output unit of both local and global merge.
type RowReference struct {
	BatchIdx int
	RowIdx   int
}

// heapEntry is a RowReference plus its encoded key and the position within
// its batch's already-consumed order, used to advance that batch's cursor.
type heapEntry struct {
	RowReference
	key    ComparableRow
	cursor int
}

type rowHeap []heapEntry

func (h rowHeap) Len() int            { return len(h) }
func (h rowHeap) Less(i, j int) bool  { return bytes.Compare(h[i].key, h[j].key) < 0 }
func (h rowHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *rowHeap) Push(x interface{}) { *h = append(*h, x.(heapEntry)) }
func (h *rowHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// LocalMerge merges a fixed, already-complete set of IndexSortedBatches
// within one partition into a single output batch, via a min-heap holding
// at most one row per input batch at a time.
func LocalMerge(batches []*IndexSortedBatch) (*array.Batch, error) {
	if len(batches) == 0 {
		return &array.Batch{}, nil
	}
	numCols := len(batches[0].Batch.Columns)
	h := &rowHeap{}
	heap.Init(h)
	for bi, b := range batches {
		if b.Len() == 0 {
			continue
		}
		heap.Push(h, heapEntry{
			RowReference: RowReference{BatchIdx: bi, RowIdx: b.Order[0]},
			key:          b.KeyAt(0),
			cursor:       0,
		})
	}

	var refs []RowReference
	for h.Len() > 0 {
		top := heap.Pop(h).(heapEntry)
		refs = append(refs, top.RowReference)
		next := top.cursor + 1
		src := batches[top.BatchIdx]
		if next < src.Len() {
			heap.Push(h, heapEntry{
				RowReference: RowReference{BatchIdx: top.BatchIdx, RowIdx: src.Order[next]},
				key:          src.KeyAt(next),
				cursor:       next,
			})
		}
	}

	srcBatches := make([]*array.Batch, len(batches))
	for i, b := range batches {
		srcBatches[i] = b.Batch
	}
	return interleave(numCols, srcBatches, refs)
}

// PartitionIterator supplies one partition's successive already-sorted
// batches to the global merger; NextBatch returns (nil, false) once the
// partition is permanently exhausted.
type PartitionIterator interface {
	NextBatch() (*IndexSortedBatch, bool)
}

// IterExhausted is returned by GlobalMerger.Next in place of a result when
// one input partition's current batch runs out mid-merge: partial_indices
// holds the rows already chosen from other partitions so the driver can
// resume after fetching inputIdx's next batch, instead of discarding
// progress.
type IterExhausted struct {
	InputIdx       int
	PartialIndices []RowReference
}

// GlobalMerger merges rows across one iterator per partition, each
// producing rows from that partition's current sorted batch.
type GlobalMerger struct {
	numCols  int
	inputs   []PartitionIterator
	current  []*IndexSortedBatch
	cursors  []int
	exhausted []bool
}

func NewGlobalMerger(numCols int, inputs []PartitionIterator) *GlobalMerger {
	return &GlobalMerger{
		numCols:   numCols,
		inputs:    inputs,
		current:   make([]*IndexSortedBatch, len(inputs)),
		cursors:   make([]int, len(inputs)),
		exhausted: make([]bool, len(inputs)),
	}
}

// Supply installs the next batch for partition idx (called by the driver
// after an IterExhausted names that partition), or marks it permanently
// done if ok is false.
func (m *GlobalMerger) Supply(idx int, batch *IndexSortedBatch, ok bool) {
	if !ok {
		m.exhausted[idx] = true
		m.current[idx] = nil
		return
	}
	m.current[idx] = batch
	m.cursors[idx] = 0
}

// Next produces up to maxRows merged rows, or an IterExhausted if it ran
// out of buffered rows in some still-live partition before reaching
// maxRows. No refs together with a nil IterExhausted means every partition
// is exhausted.
func (m *GlobalMerger) Next(maxRows int) (refs []RowReference, srcBatches []*array.Batch, exhausted *IterExhausted) {
	h := &rowHeap{}
	heap.Init(h)
	srcBatches = make([]*array.Batch, len(m.inputs))
	for i, b := range m.current {
		if b != nil {
			srcBatches[i] = b.Batch
		}
	}

	for i, b := range m.current {
		if m.exhausted[i] || b == nil {
			continue
		}
		c := m.cursors[i]
		if c >= b.Len() {
			continue
		}
		heap.Push(h, heapEntry{
			RowReference: RowReference{BatchIdx: i, RowIdx: b.Order[c]},
			key:          b.KeyAt(c),
			cursor:       c,
		})
	}

	for h.Len() > 0 && len(refs) < maxRows {
		top := heap.Pop(h).(heapEntry)
		refs = append(refs, top.RowReference)
		partIdx := top.BatchIdx
		m.cursors[partIdx] = top.cursor + 1
		b := m.current[partIdx]
		if m.cursors[partIdx] >= b.Len() {
			if !m.exhausted[partIdx] {
				return refs, srcBatches, &IterExhausted{InputIdx: partIdx, PartialIndices: refs}
			}
			continue
		}
		heap.Push(h, heapEntry{
			RowReference: RowReference{BatchIdx: partIdx, RowIdx: b.Order[m.cursors[partIdx]]},
			key:          b.KeyAt(m.cursors[partIdx]),
			cursor:       m.cursors[partIdx],
		})
	}
	return refs, srcBatches, nil
}

// MaterializeRefs gathers refs (each naming a row in srcBatches) into one
// output batch.
func (m *GlobalMerger) MaterializeRefs(refs []RowReference, srcBatches []*array.Batch) (*array.Batch, error) {
	return interleave(m.numCols, srcBatches, refs)
}
