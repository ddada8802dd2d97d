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

	deep "github.com/go-test/deep"
	"github.com/stretchr/testify/require"
)

// chainRelations builds R0--R1--R2 where the R0-R1 edge is much less
// selective (min_ndv 100) than the R1-R2 edge (min_ndv 10), so joining
// R1-R2 first and attaching R0 last is the cheaper ordering.
func chainRelations() ([]*BaseRelation, []Condition) {
	r0 := &BaseRelation{ID: 0, Cardinality: 1000, OutputRefs: map[ColumnRef]struct{}{{Rel: 0, Col: 0}: {}}}
	r1 := &BaseRelation{ID: 1, Cardinality: 100, OutputRefs: map[ColumnRef]struct{}{
		{Rel: 1, Col: 0}: {}, {Rel: 1, Col: 1}: {},
	}}
	r2 := &BaseRelation{ID: 2, Cardinality: 10, OutputRefs: map[ColumnRef]struct{}{{Rel: 2, Col: 0}: {}}}

	conditions := []Condition{
		{Op: OpEq, Left: ColumnRef{Rel: 0, Col: 0}, Right: ColumnRef{Rel: 1, Col: 0}},
		{Op: OpEq, Left: ColumnRef{Rel: 1, Col: 1}, Right: ColumnRef{Rel: 2, Col: 0}},
	}
	return []*BaseRelation{r0, r1, r2}, conditions
}

func TestPlannerPicksCheaperOrdering(t *testing.T) {
	relations, conditions := chainRelations()

	p, err := NewPlanner(relations, conditions, nil)
	require.NoError(t, err)

	result, err := p.Plan()
	require.NoError(t, err)

	// Hand-traced: joining the R1-R2 edge (min_ndv 10) before the R0-R1
	// edge (min_ndv 100) yields 1000*100*10/(10*100) = 10000, versus
	// 100000 for the reverse order.
	require.InDelta(t, 10000.0, result.Cardinality, 0.001)
	require.Empty(t, result.PostJoinFilters)

	require.Equal(t, OpJoin, result.Root.Kind)
	require.Len(t, result.Root.Conditions, 1)

	// The cheaper ordering attaches R0 last, against the already-joined
	// R1/R2 subtree.
	var scanRels []RelId
	var collect func(op *PlanOp)
	collect = func(op *PlanOp) {
		if op.Kind == OpScan {
			scanRels = append(scanRels, op.Rel)
			return
		}
		collect(op.Left)
		collect(op.Right)
	}
	collect(result.Root)
	require.ElementsMatch(t, []RelId{0, 1, 2}, scanRels)

	// The cheaper ordering folds R1-R2 first, so the final (root) join is
	// the one that attaches R0 via the R0-R1 edge.
	want := Edge{
		Op:          OpEq,
		LeftRefs:    []ColumnRef{{Rel: 0, Col: 0}},
		RightRefs:   []ColumnRef{{Rel: 1, Col: 0}},
		LeftRelKey:  PlanKey(0).With(0),
		RightRelKey: PlanKey(0).With(1),
	}
	if diff := deep.Equal(want, result.Root.Conditions[0]); diff != nil {
		t.Errorf("unexpected join condition: %v", diff)
	}
}

func TestPlannerLeavesUnusedEdgeAsPostJoinFilter(t *testing.T) {
	relations, conditions := chainRelations()

	// A redundant condition between R0 and R2 that, once R0-R1 and R1-R2
	// are both folded in, can no longer connect two distinct plans (both
	// relations already live in the same merged plan) — it must surface
	// as a post-join filter instead of being silently dropped.
	conditions = append(conditions, Condition{
		Op: OpEq, Left: ColumnRef{Rel: 0, Col: 0}, Right: ColumnRef{Rel: 2, Col: 0},
	})

	p, err := NewPlanner(relations, conditions, nil)
	require.NoError(t, err)

	result, err := p.Plan()
	require.NoError(t, err)
	// Only two joins are ever needed to merge three relations, so whichever
	// of the three available edges doesn't take part in either merge always
	// surfaces here rather than silently vanishing.
	require.Len(t, result.PostJoinFilters, 1)
}

func TestPlannerRejectsTooManyRelations(t *testing.T) {
	relations := make([]*BaseRelation, 65)
	for i := range relations {
		relations[i] = &BaseRelation{ID: RelId(i), Cardinality: 1, OutputRefs: map[ColumnRef]struct{}{}}
	}
	_, err := NewPlanner(relations, nil, nil)
	require.Error(t, err)
}

func TestPlannerSingleRelationHasNoJoins(t *testing.T) {
	r0 := &BaseRelation{ID: 0, Cardinality: 42, OutputRefs: map[ColumnRef]struct{}{}}
	p, err := NewPlanner([]*BaseRelation{r0}, nil, nil)
	require.NoError(t, err)

	result, err := p.Plan()
	require.NoError(t, err)
	require.Equal(t, OpScan, result.Root.Kind)
	require.Equal(t, 42.0, result.Cardinality)
}
