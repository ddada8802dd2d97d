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

package array

import "github.com/flarehq/flaredb/errs"

// Array represents a logically addressable column of one declared type.
// Mutation happens only through Builders; once published into a
// Batch an Array is immutable.
type Array struct {
	Type      DataType
	data      Storage
	validity  *Bitmap // nil => all-valid
	selection []int   // nil => no selection (logical == physical)
}

// New constructs an Array directly from its parts. validity, if non-nil,
// must have length equal to data.Len(). Every index in selection
// must be < data.Len().
func New(dt DataType, data Storage, validity *Bitmap, selection []int) *Array {
	if validity != nil && validity.Len() != data.Len() {
		panic("array: validity length must equal physical length")
	}
	if selection != nil {
		for _, idx := range selection {
			if idx < 0 || idx >= data.Len() {
				panic("array: selection index out of physical bounds")
			}
		}
	}
	return &Array{Type: dt, data: data, validity: validity, selection: selection}
}

func (a *Array) PhysicalType() PhysicalType { return a.data.Physical() }
func (a *Array) PhysicalLen() int           { return a.data.Len() }
func (a *Array) Storage() Storage           { return a.data }
func (a *Array) Validity() *Bitmap          { return a.validity }
func (a *Array) Selection() []int           { return a.selection }

// LogicalLen is the externally visible row count: the
// selection's length if present, else the physical length.
func (a *Array) LogicalLen() int {
	if a.selection != nil {
		return len(a.selection)
	}
	return a.data.Len()
}

// PhysicalIndex resolves logical row i to its physical storage index.
func (a *Array) PhysicalIndex(i int) int {
	if a.selection != nil {
		return a.selection[i]
	}
	return i
}

// IsValid reports whether logical row i is non-null.
func (a *Array) IsValid(i int) bool {
	if a.validity == nil {
		return true
	}
	return a.validity.Get(a.PhysicalIndex(i))
}

// SetSelection replaces the selection vector wholesale.
func (a *Array) SetSelection(sel []int) {
	for _, idx := range sel {
		if idx < 0 || idx >= a.data.Len() {
			panic("array: selection index out of physical bounds")
		}
	}
	a.selection = sel
}

// SelectMut composes a new selection (indexed in the array's *current*
// logical space) with any existing selection, so repeated filters/gathers
// never need to materialize new physical storage.
func (a *Array) SelectMut(sel []int) {
	if a.selection == nil {
		a.SetSelection(append([]int(nil), sel...))
		return
	}
	composed := make([]int, len(sel))
	for i, logicalIdx := range sel {
		composed[i] = a.selection[logicalIdx]
	}
	a.selection = composed
}

// Clone returns a shallow copy sharing the same underlying storage but with
// an independent selection/validity reference (safe to mutate via
// SetSelection without affecting the original).
func (a *Array) Clone() *Array {
	return &Array{Type: a.Type, data: a.data, validity: a.validity, selection: a.selection}
}

// Len is an alias for LogicalLen, matching Batch's row-count terminology.
func (a *Array) Len() int { return a.LogicalLen() }

// Batch is an ordered sequence of Arrays of identical logical length.
type Batch struct {
	Columns []*Array
}

func NewBatch(columns []*Array) (*Batch, error) {
	if len(columns) == 0 {
		return &Batch{Columns: columns}, nil
	}
	n := columns[0].LogicalLen()
	for i, c := range columns {
		if c.LogicalLen() != n {
			return nil, errs.InvalidArgument("batch: column %d has logical length %d, want %d", i, c.LogicalLen(), n)
		}
	}
	return &Batch{Columns: columns}, nil
}

func (b *Batch) NumCols() int { return len(b.Columns) }

func (b *Batch) NumRows() int {
	if len(b.Columns) == 0 {
		return 0
	}
	return b.Columns[0].LogicalLen()
}
