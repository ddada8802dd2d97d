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

package planner

// RelId names a base relation (a table scan, a values list, a derived
// table already planned by an outer call) within one join-order problem.
// The resolver assigns these; the planner only ever compares them.
type RelId int

// ColumnRef names a column produced by a relation's output schema. Unlike
// the resolved plan's own column-reference type (owned by the out-of-scope
// name/type resolver), this one only needs to support equality and
// set-membership, which is all the hyperedge graph ever does with it.
type ColumnRef struct {
	Rel RelId
	Col int
}

// BaseRelation is one leaf the join-order planner reorders: a scan (or
// other already-planned subtree) with an estimated row count and the set
// of columns it exposes to conditions and filters above it.
type BaseRelation struct {
	ID          RelId
	Cardinality float64
	OutputRefs  map[ColumnRef]struct{}
}

func (r *BaseRelation) hasRef(ref ColumnRef) bool {
	_, ok := r.OutputRefs[ref]
	return ok
}

// refsSubsetOfRelation reports whether every ref in refs is produced by r.
func refsSubsetOfRelation(refs []ColumnRef, r *BaseRelation) bool {
	for _, ref := range refs {
		if !r.hasRef(ref) {
			return false
		}
	}
	return true
}
