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

import (
	"math"
	"sort"
)

// EdgeID addresses one edge within the hyperedge it was folded into.
type EdgeID struct {
	HyperEdgeID int
	LocalID     int
}

// Edge connects one or two relations in the graph. A Condition produces an
// edge with both sides populated; a Filter produces an edge with only
// LeftRelKey set (RightRelKey == 0), which IsSingleRelation reports.
type Edge struct {
	Op          ConditionOp
	LeftRefs    []ColumnRef
	RightRefs   []ColumnRef
	LeftRelKey  PlanKey
	RightRelKey PlanKey
	Predicate   any
}

// IsSingleRelation reports whether this edge only ever touches one base
// relation, i.e. it came from a Filter rather than a Condition.
func (e Edge) IsSingleRelation() bool { return e.RightRelKey == 0 }

// HyperEdge groups every Edge that shares a column reference with at least
// one other edge already in the group. MinNDV is the smallest base-relation
// cardinality touching any edge in the group, seeded from the relations the
// first edge connects and refined downward as more edges join the group;
// it is the selectivity basis equality joins use in cardinality estimation.
type HyperEdge struct {
	ID      int
	Edges   map[EdgeID]Edge
	MinNDV  float64
	Columns map[ColumnRef]struct{}
}

// HyperEdges is the full graph built from one join-order problem's
// conditions and filters.
type HyperEdges struct {
	groups []*HyperEdge
}

// relIndex maps a RelId to its PlanKey bit position; it is built once by
// the Planner from the ordered list of base relations passed to NewPlanner.
type relIndex map[RelId]int

func (ri relIndex) keyOf(rel RelId) PlanKey { return PlanKey(1) << uint(ri[rel]) }

func (ri relIndex) keyOfRefs(refs []ColumnRef, relations map[RelId]*BaseRelation) PlanKey {
	var key PlanKey
	for _, rel := range relations {
		if refsSubsetOfRelation(refs, rel) {
			key = key.Union(ri.keyOf(rel.ID))
		}
	}
	return key
}

// NewHyperEdges builds the hyperedge graph from conditions and filters,
// folding each into an existing group when it shares a column with that
// group, or starting a new group otherwise.
func NewHyperEdges(conditions []Condition, filters []Filter, relations map[RelId]*BaseRelation, ri relIndex) *HyperEdges {
	h := &HyperEdges{}
	for _, c := range conditions {
		h.insertCondition(c, relations, ri)
	}
	for _, f := range filters {
		h.insertFilter(f, relations, ri)
	}
	return h
}

func minNDVFor(refs []ColumnRef, relations map[RelId]*BaseRelation) float64 {
	min := math.MaxFloat64
	for _, rel := range relations {
		if refsSubsetOfRelation(refs, rel) && rel.Cardinality < min {
			min = rel.Cardinality
		}
	}
	return min
}

func (h *HyperEdges) insertCondition(c Condition, relations map[RelId]*BaseRelation, ri relIndex) {
	leftRefs := []ColumnRef{c.Left}
	rightRefs := []ColumnRef{c.Right}

	// Initializing min-NDV to relation cardinality typically overestimates
	// NDV, but taking the min across every relation the condition touches
	// pulls it down significantly.
	minNDV := math.Min(minNDVFor(leftRefs, relations), minNDVFor(rightRefs, relations))

	edge := Edge{
		Op:          c.Op,
		LeftRefs:    leftRefs,
		RightRefs:   rightRefs,
		LeftRelKey:  ri.keyOfRefs(leftRefs, relations),
		RightRelKey: ri.keyOfRefs(rightRefs, relations),
		Predicate:   c.Predicate,
	}
	cols := map[ColumnRef]struct{}{c.Left: {}, c.Right: {}}
	h.fold(edge, cols, minNDV)
}

func (h *HyperEdges) insertFilter(f Filter, relations map[RelId]*BaseRelation, ri relIndex) {
	minNDV := minNDVFor(f.Refs, relations)
	edge := Edge{
		Op:         OpEq,
		LeftRefs:   f.Refs,
		LeftRelKey: ri.keyOfRefs(f.Refs, relations),
		Predicate:  f.Predicate,
	}
	cols := map[ColumnRef]struct{}{}
	for _, r := range f.Refs {
		cols[r] = struct{}{}
	}
	h.fold(edge, cols, minNDV)
}

// fold inserts edge into the first existing group whose columns overlap
// it, or starts a new group when none overlap.
func (h *HyperEdges) fold(edge Edge, cols map[ColumnRef]struct{}, minNDV float64) {
	for _, g := range h.groups {
		if !disjointCols(g.Columns, cols) {
			id := EdgeID{HyperEdgeID: g.ID, LocalID: len(g.Edges)}
			g.Edges[id] = edge
			for c := range cols {
				g.Columns[c] = struct{}{}
			}
			if minNDV < g.MinNDV {
				g.MinNDV = minNDV
			}
			return
		}
	}

	id := len(h.groups)
	g := &HyperEdge{
		ID:      id,
		Edges:   map[EdgeID]Edge{{HyperEdgeID: id, LocalID: 0}: edge},
		MinNDV:  minNDV,
		Columns: cols,
	}
	h.groups = append(h.groups, g)
}

func disjointCols(a, b map[ColumnRef]struct{}) bool {
	for c := range b {
		if _, ok := a[c]; ok {
			return false
		}
	}
	return true
}

// FoundEdge is one edge discovered between two candidate plans, carrying
// the selectivity basis of the hyperedge it belongs to.
type FoundEdge struct {
	ID     EdgeID
	Edge   Edge
	MinNDV float64
}

// FindEdges returns every not-yet-used edge connecting p1's coverage to
// p2's, in either direction.
func (h *HyperEdges) FindEdges(p1, p2 *GeneratedPlan) []FoundEdge {
	var found []FoundEdge
	for _, g := range h.groups {
		ids := make([]EdgeID, 0, len(g.Edges))
		for id := range g.Edges {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].LocalID < ids[j].LocalID })

		for _, id := range ids {
			_, usedByP1 := p1.UsedEdges[id]
			_, usedByP2 := p2.UsedEdges[id]
			if usedByP1 || usedByP2 {
				continue
			}
			e := g.Edges[id]
			forward := e.LeftRelKey.IsSubsetOf(p1.Key) && e.RightRelKey.IsSubsetOf(p2.Key) && e.RightRelKey != 0
			backward := e.LeftRelKey.IsSubsetOf(p2.Key) && e.RightRelKey.IsSubsetOf(p1.Key) && e.RightRelKey != 0
			if forward || backward {
				found = append(found, FoundEdge{ID: id, Edge: e, MinNDV: g.MinNDV})
			}
		}
	}
	return found
}

// RemainingEdges returns every edge across the whole graph not yet marked
// used in used, in a stable order (grouped by hyperedge, then local id).
// These become post-join filters on the produced tree.
func (h *HyperEdges) RemainingEdges(used map[EdgeID]struct{}) []Edge {
	var out []Edge
	for _, g := range h.groups {
		ids := make([]EdgeID, 0, len(g.Edges))
		for id := range g.Edges {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].LocalID < ids[j].LocalID })
		for _, id := range ids {
			if _, ok := used[id]; !ok {
				out = append(out, g.Edges[id])
			}
		}
	}
	return out
}
