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

package kernel

import (
	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/hashtable"
)

// Mapping pairs a source logical row with a destination aggregate state
// slot.
type Mapping struct {
	FromRow int
	ToState int
}

// Updater is implemented by per-aggregate-function state (sum, min, max,
// count, ...); Update is called once per valid (row, state) pairing.
type Updater[T any] interface {
	Update(v T)
}

// UnaryAggregateUpdate runs the unary aggregate updater: for each mapping,
// look up the value at the selection-resolved physical index and, if
// valid, call state.Update(value). Monomorphic in T so the address
// arithmetic and null check reduce to a tight loop.
func UnaryAggregateUpdate[T array.Number, S Updater[T]](in *array.Array, mappings []Mapping, states []S) {
	vals := numericValues[T](in)
	for _, m := range mappings {
		if !in.IsValid(m.FromRow) {
			continue
		}
		states[m.ToState].Update(vals[in.PhysicalIndex(m.FromRow)])
	}
}

// SumState accumulates a running sum; the zero value is a valid empty sum.
type SumState[T array.Number] struct {
	Sum   T
	Count int64
}

func (s *SumState[T]) Update(v T) {
	s.Sum += v
	s.Count++
}

// Merge combines another partition's SumState into s, used when merging
// partition-local hash tables.
func (s *SumState[T]) Merge(other hashtable.AggregateState) {
	o := other.(*SumState[T])
	s.Sum += o.Sum
	s.Count += o.Count
}

// MinState tracks the minimum of the values seen so far.
type MinState[T array.Number] struct {
	Min   T
	Count int64
}

func (s *MinState[T]) Update(v T) {
	if s.Count == 0 || v < s.Min {
		s.Min = v
	}
	s.Count++
}

func (s *MinState[T]) Merge(other hashtable.AggregateState) {
	o := other.(*MinState[T])
	if o.Count == 0 {
		return
	}
	if s.Count == 0 || o.Min < s.Min {
		s.Min = o.Min
	}
	s.Count += o.Count
}

// MaxState tracks the maximum of the values seen so far.
type MaxState[T array.Number] struct {
	Max   T
	Count int64
}

func (s *MaxState[T]) Update(v T) {
	if s.Count == 0 || v > s.Max {
		s.Max = v
	}
	s.Count++
}

func (s *MaxState[T]) Merge(other hashtable.AggregateState) {
	o := other.(*MaxState[T])
	if o.Count == 0 {
		return
	}
	if s.Count == 0 || o.Max > s.Max {
		s.Max = o.Max
	}
	s.Count += o.Count
}

// CountState counts the number of non-null updates; it ignores the value.
type CountState struct {
	Count int64
}

func (s *CountState) Update(v any) { s.Count++ }

func (s *CountState) Merge(other hashtable.AggregateState) {
	s.Count += other.(*CountState).Count
}
