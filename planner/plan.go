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

// PlanOpKind distinguishes a leaf scan from an interior join node in the
// tree the planner produces.
type PlanOpKind int

const (
	OpScan PlanOpKind = iota
	OpJoin
)

// PlanOp is one node of the produced join tree. Leaves carry a RelId back
// to the caller's base relation; interior nodes carry the edges that were
// used to join Left and Right (a hyperedge can fold more than one
// condition between the same two sides, and all of them are applied at
// once rather than one at a time).
type PlanOp struct {
	Kind       PlanOpKind
	Rel        RelId
	Left       *PlanOp
	Right      *PlanOp
	Conditions []Edge
}

// GeneratedPlan is a dynamic-programming table entry: a partial plan,
// keyed by the set of relations it covers, with the edges it has already
// consumed and its estimated cardinality.
type GeneratedPlan struct {
	Key         PlanKey
	Op          *PlanOp
	OutputRefs  map[ColumnRef]struct{}
	UsedEdges   map[EdgeID]struct{}
	Cardinality float64
}

func unionRefs(a, b map[ColumnRef]struct{}) map[ColumnRef]struct{} {
	out := make(map[ColumnRef]struct{}, len(a)+len(b))
	for r := range a {
		out[r] = struct{}{}
	}
	for r := range b {
		out[r] = struct{}{}
	}
	return out
}

func unionUsed(a, b map[EdgeID]struct{}, extra ...EdgeID) map[EdgeID]struct{} {
	out := make(map[EdgeID]struct{}, len(a)+len(b)+len(extra))
	for e := range a {
		out[e] = struct{}{}
	}
	for e := range b {
		out[e] = struct{}{}
	}
	for _, e := range extra {
		out[e] = struct{}{}
	}
	return out
}
