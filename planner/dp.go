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
	"sort"

	"github.com/google/btree"

	"github.com/flarehq/flaredb/errs"
)

// MaxGeneratedPlans bounds the join-order search: rather than enumerating
// every permutation of join edges (factorial in the edge count), the
// planner tries this many distinct edge orderings and keeps the cheapest.
const MaxGeneratedPlans = 8

// Planner reorders a set of base relations into an inner-join tree given
// the equality conditions and filters connecting them.
type Planner struct {
	relations map[RelId]*BaseRelation
	relOfBit  []RelId
	ri        relIndex
	edges     *HyperEdges
	bound     int
}

// NewPlanner builds the hyperedge graph over relations, conditions, and
// filters. Relation order fixes each relation's PlanKey bit position,
// which only affects which of several equal-cost plans the bounded search
// happens to land on first, never correctness.
func NewPlanner(relations []*BaseRelation, conditions []Condition, filters []Filter) (*Planner, error) {
	if len(relations) == 0 {
		return nil, errs.New(errs.KindSchema, "planner: at least one base relation is required")
	}
	if len(relations) > 64 {
		return nil, errs.New(errs.KindSchema, "planner: join-order planner supports at most 64 base relations")
	}

	relMap := make(map[RelId]*BaseRelation, len(relations))
	relOfBit := make([]RelId, len(relations))
	ri := make(relIndex, len(relations))
	for i, r := range relations {
		relMap[r.ID] = r
		relOfBit[i] = r.ID
		ri[r.ID] = i
	}

	return &Planner{
		relations: relMap,
		relOfBit:  relOfBit,
		ri:        ri,
		edges:     NewHyperEdges(conditions, filters, relMap, ri),
		bound:     MaxGeneratedPlans,
	}, nil
}

// Result is the outcome of Plan: the produced join tree plus any edges
// that could not be folded into it (post-join filters the caller should
// apply as a Filter node wrapping the root).
type Result struct {
	Root            *PlanOp
	Cardinality     float64
	PostJoinFilters []Edge
}

// Plan runs the bounded-search join reordering and returns the cheapest
// ordering found by build-side cardinality.
func (p *Planner) Plan() (*Result, error) {
	orderings := p.edgeOrderings()

	var best *Result
	for _, order := range orderings {
		res, err := p.buildForOrdering(order)
		if err != nil {
			return nil, err
		}
		if best == nil || res.Cardinality < best.Cardinality {
			best = res
		}
	}
	return best, nil
}

// edgeOrderings enumerates up to p.bound distinct permutations of the
// graph's join-capable (two-relation) edge ids, via recursive
// swap-and-restore permutation with early termination once the bound is hit — the same bounded-permutation
// strategy as the single-relation-filter extraction pass it's grounded on.
func (p *Planner) edgeOrderings() [][]EdgeID {
	var joinEdges []EdgeID
	for _, g := range p.edges.groups {
		ids := make([]EdgeID, 0, len(g.Edges))
		for id, e := range g.Edges {
			if !e.IsSingleRelation() {
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].LocalID < ids[j].LocalID })
		joinEdges = append(joinEdges, ids...)
	}

	if len(joinEdges) == 0 {
		return [][]EdgeID{nil}
	}

	var result [][]EdgeID
	working := append([]EdgeID(nil), joinEdges...)
	permute(working, 0, p.bound, &result)
	return result
}

func permute(v []EdgeID, start, bound int, result *[][]EdgeID) {
	if len(*result) >= bound {
		return
	}
	if start == len(v) {
		*result = append(*result, append([]EdgeID(nil), v...))
		return
	}
	for i := start; i < len(v); i++ {
		v[start], v[i] = v[i], v[start]
		permute(v, start+1, bound, result)
		v[start], v[i] = v[i], v[start]
		if len(*result) >= bound {
			return
		}
	}
}

// dpEntry is one row of the per-ordering dynamic-programming table,
// keyed by the set of relations it covers.
type dpEntry struct {
	key  PlanKey
	plan *GeneratedPlan
}

func dpLess(a, b dpEntry) bool { return a.key.Less(b.key) }

// buildForOrdering folds the graph's join edges in the given priority
// order into an ever-growing set of partial plans, merging two plans
// whenever an edge connects them. Any relations an ordering's edges never
// reach end up joined in at the end via an implicit cross product, keyed
// off the table's ascending (smallest-first) BTreeG iteration order so the
// fallback is deterministic too.
func (p *Planner) buildForOrdering(order []EdgeID) (*Result, error) {
	table := btree.NewG(32, dpLess)

	for bit, relID := range p.relOfBit {
		rel := p.relations[relID]
		key := PlanKey(0).With(bit)
		plan := &GeneratedPlan{
			Key:         key,
			Op:          &PlanOp{Kind: OpScan, Rel: relID},
			OutputRefs:  copyRefs(rel.OutputRefs),
			UsedEdges:   map[EdgeID]struct{}{},
			Cardinality: rel.Cardinality,
		}
		table.ReplaceOrInsert(dpEntry{key: key, plan: plan})
	}

	for _, id := range order {
		// foldEdge's return value only matters for its side effect; when
		// an edge's relations were already merged by an earlier edge in
		// this ordering it is simply left for mergeRemaining to pick up.
		p.foldEdge(table, id)
	}

	root, usedAll, err := p.mergeRemaining(table)
	if err != nil {
		return nil, err
	}

	return &Result{
		Root:            root.Op,
		Cardinality:     root.Cardinality,
		PostJoinFilters: p.edges.RemainingEdges(usedAll),
	}, nil
}

func copyRefs(refs map[ColumnRef]struct{}) map[ColumnRef]struct{} {
	out := make(map[ColumnRef]struct{}, len(refs))
	for r := range refs {
		out[r] = struct{}{}
	}
	return out
}

// foldEdge finds the two table entries edgeID connects (if it still
// connects two distinct ones) and replaces them with their join.
func (p *Planner) foldEdge(table *btree.BTreeG[dpEntry], edgeID EdgeID) bool {
	var left, right *GeneratedPlan
	table.Ascend(func(e dpEntry) bool {
		if edgeFoundIn(p.edgeByID(edgeID), e.plan) {
			if left == nil {
				left = e.plan
			} else if right == nil && e.plan.Key != left.Key {
				right = e.plan
			}
		}
		return right == nil
	})
	if left == nil || right == nil {
		return false
	}

	edge, ok := p.lookupEdge(edgeID)
	if !ok {
		return false
	}
	found := []FoundEdge{{ID: edgeID, Edge: edge, MinNDV: p.minNDVOf(edgeID)}}

	joined := p.join(left, right, found)
	table.Delete(dpEntry{key: left.Key})
	table.Delete(dpEntry{key: right.Key})
	table.ReplaceOrInsert(dpEntry{key: joined.Key, plan: joined})
	return true
}

func edgeFoundIn(edge Edge, plan *GeneratedPlan) bool {
	return edge.LeftRelKey.IsSubsetOf(plan.Key) || edge.RightRelKey.IsSubsetOf(plan.Key)
}

func (p *Planner) edgeByID(id EdgeID) Edge {
	e, _ := p.lookupEdge(id)
	return e
}

func (p *Planner) lookupEdge(id EdgeID) (Edge, bool) {
	for _, g := range p.edges.groups {
		if g.ID != id.HyperEdgeID {
			continue
		}
		e, ok := g.Edges[id]
		return e, ok
	}
	return Edge{}, false
}

func (p *Planner) minNDVOf(id EdgeID) float64 {
	for _, g := range p.edges.groups {
		if g.ID == id.HyperEdgeID {
			return g.MinNDV
		}
	}
	return 1
}

// join merges two plans across the edges found between them, computing
// the merged plan's cardinality via the hypergraph cardinality estimator.
func (p *Planner) join(left, right *GeneratedPlan, found []FoundEdge) *GeneratedPlan {
	usedIDs := make([]EdgeID, len(found))
	conditions := make([]Edge, len(found))
	for i, fe := range found {
		usedIDs[i] = fe.ID
		conditions[i] = fe.Edge
	}

	return &GeneratedPlan{
		Key:         left.Key.Union(right.Key),
		Op:          &PlanOp{Kind: OpJoin, Left: left.Op, Right: right.Op, Conditions: conditions},
		OutputRefs:  unionRefs(left.OutputRefs, right.OutputRefs),
		UsedEdges:   unionUsed(left.UsedEdges, right.UsedEdges, usedIDs...),
		Cardinality: p.estimateCardinality(left, right, found),
	}
}

// mergeRemaining cross-joins whatever plans are still separate after every
// edge in the ordering has been folded in ascending PlanKey order, so the
// choice of which pair to cross first is deterministic.
func (p *Planner) mergeRemaining(table *btree.BTreeG[dpEntry]) (*GeneratedPlan, map[EdgeID]struct{}, error) {
	var plans []*GeneratedPlan
	table.Ascend(func(e dpEntry) bool {
		plans = append(plans, e.plan)
		return true
	})
	if len(plans) == 0 {
		return nil, nil, errs.New(errs.KindProgramming, "planner: dynamic-programming table was unexpectedly empty")
	}

	merged := plans[0]
	for _, next := range plans[1:] {
		found := p.edges.FindEdges(merged, next)
		merged = p.join(merged, next, found)
	}
	return merged, merged.UsedEdges, nil
}
