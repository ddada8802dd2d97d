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
	"testing"

	"github.com/stretchr/testify/require"
)

func threeRelations() (map[RelId]*BaseRelation, relIndex) {
	r0 := &BaseRelation{ID: 0, Cardinality: 1000, OutputRefs: map[ColumnRef]struct{}{{Rel: 0, Col: 0}: {}}}
	r1 := &BaseRelation{ID: 1, Cardinality: 100, OutputRefs: map[ColumnRef]struct{}{
		{Rel: 1, Col: 0}: {}, {Rel: 1, Col: 1}: {},
	}}
	r2 := &BaseRelation{ID: 2, Cardinality: 10, OutputRefs: map[ColumnRef]struct{}{{Rel: 2, Col: 0}: {}}}

	relations := map[RelId]*BaseRelation{0: r0, 1: r1, 2: r2}
	ri := relIndex{0: 0, 1: 1, 2: 2}
	return relations, ri
}

func TestNewHyperEdgesGroupsByColumnOverlap(t *testing.T) {
	relations, ri := threeRelations()

	conditions := []Condition{
		{Op: OpEq, Left: ColumnRef{Rel: 0, Col: 0}, Right: ColumnRef{Rel: 1, Col: 0}},
		{Op: OpEq, Left: ColumnRef{Rel: 1, Col: 1}, Right: ColumnRef{Rel: 2, Col: 0}},
	}

	h := NewHyperEdges(conditions, nil, relations, ri)
	require.Len(t, h.groups, 2, "disjoint column refs must not be folded into the same hyperedge")

	var minNDVs []float64
	for _, g := range h.groups {
		minNDVs = append(minNDVs, g.MinNDV)
	}
	require.ElementsMatch(t, []float64{100, 10}, minNDVs)
}

func TestNewHyperEdgesFoldsSharedColumn(t *testing.T) {
	relations, ri := threeRelations()

	// Both conditions touch R1.Col(1), so they belong in the same hyperedge.
	conditions := []Condition{
		{Op: OpEq, Left: ColumnRef{Rel: 0, Col: 0}, Right: ColumnRef{Rel: 1, Col: 1}},
		{Op: OpEq, Left: ColumnRef{Rel: 1, Col: 1}, Right: ColumnRef{Rel: 2, Col: 0}},
	}

	h := NewHyperEdges(conditions, nil, relations, ri)
	require.Len(t, h.groups, 1)
	require.Len(t, h.groups[0].Edges, 2)
	require.Equal(t, 10.0, h.groups[0].MinNDV)
}

func TestHyperEdgesFindEdgesRespectsUsedEdges(t *testing.T) {
	relations, ri := threeRelations()
	conditions := []Condition{
		{Op: OpEq, Left: ColumnRef{Rel: 0, Col: 0}, Right: ColumnRef{Rel: 1, Col: 0}},
	}
	h := NewHyperEdges(conditions, nil, relations, ri)

	p1 := &GeneratedPlan{Key: PlanKey(0).With(0), UsedEdges: map[EdgeID]struct{}{}}
	p2 := &GeneratedPlan{Key: PlanKey(0).With(1), UsedEdges: map[EdgeID]struct{}{}}

	found := h.FindEdges(p1, p2)
	require.Len(t, found, 1)

	p1.UsedEdges[found[0].ID] = struct{}{}
	require.Empty(t, h.FindEdges(p1, p2), "an edge already marked used on either side must not be found again")
}
