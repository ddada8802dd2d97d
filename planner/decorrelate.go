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

	"github.com/flarehq/flaredb/errs"
)

// CorrelatedRef is a column reference inside a subquery body that reaches
// outside its own scope: ScopeLevel counts how many query blocks out it
// reaches (1 = the immediately enclosing block), and ItemIdx is the
// column's position within that outer block's output schema.
type CorrelatedRef struct {
	ScopeLevel int
	ItemIdx    int
}

// DependentJoinRewriter turns a subquery body containing CorrelatedRefs
// into one that only references its own (rewritten) schema, by appending
// one column per distinct correlated ref to the right of the body's
// existing columns — one group of columns per scope level, in level
// order — the way a dependent join pushes the outer row's needed columns
// down into the subquery side before evaluating it per-row. Once every
// CorrelatedRef is rewritten this way, what's left is an ordinary subtree
// the join-order planner can reorder like any other relation.
type DependentJoinRewriter struct {
	numBodyCols int
	byLevel     map[int][]CorrelatedRef // distinct refs per level, sorted by ItemIdx
	offsets     map[int]int             // level -> column offset within the rewritten schema
	finalized   bool
}

// NewDependentJoinRewriter starts a rewriter for a subquery body that
// currently has numBodyCols columns of its own.
func NewDependentJoinRewriter(numBodyCols int) *DependentJoinRewriter {
	return &DependentJoinRewriter{
		numBodyCols: numBodyCols,
		byLevel:     map[int][]CorrelatedRef{},
	}
}

// Observe records one correlated reference found while walking the
// subquery body's projections and filters. Call this for every
// CorrelatedRef encountered before calling Finalize; duplicates are
// collapsed.
func (d *DependentJoinRewriter) Observe(ref CorrelatedRef) {
	if d.finalized {
		panic("planner: Observe called after Finalize")
	}
	if ref.ScopeLevel <= 0 {
		return // not correlated; nothing to push down
	}
	for _, existing := range d.byLevel[ref.ScopeLevel] {
		if existing == ref {
			return
		}
	}
	d.byLevel[ref.ScopeLevel] = append(d.byLevel[ref.ScopeLevel], ref)
}

// Finalize computes the per-level column offsets once every correlated
// ref has been observed. The first lateral level's columns start right
// after the body's existing columns; each subsequent level's columns are
// appended after the previous level's, lowest level first, so the
// resulting schema is deterministic regardless of map iteration order.
func (d *DependentJoinRewriter) Finalize() {
	if d.finalized {
		return
	}
	levels := make([]int, 0, len(d.byLevel))
	for lvl := range d.byLevel {
		levels = append(levels, lvl)
		sort.Slice(d.byLevel[lvl], func(i, j int) bool {
			return d.byLevel[lvl][i].ItemIdx < d.byLevel[lvl][j].ItemIdx
		})
	}
	sort.Ints(levels)

	d.offsets = make(map[int]int, len(levels))
	offset := d.numBodyCols
	for _, lvl := range levels {
		d.offsets[lvl] = offset
		offset += len(d.byLevel[lvl])
	}
	d.finalized = true
}

// NumRewrittenCols returns how many columns were appended across every
// scope level; the rewritten body's schema has numBodyCols+this many
// columns. Call only after Finalize.
func (d *DependentJoinRewriter) NumRewrittenCols() int {
	total := 0
	for _, refs := range d.byLevel {
		total += len(refs)
	}
	return total
}

// Rewrite maps a CorrelatedRef to its new position within the rewritten
// body's own schema (ScopeLevel 0 throughout, since after rewriting the
// body no longer reaches outside itself). Call only after Finalize.
func (d *DependentJoinRewriter) Rewrite(ref CorrelatedRef) (int, error) {
	if !d.finalized {
		return 0, errs.New(errs.KindProgramming, "planner: Rewrite called before Finalize")
	}
	if ref.ScopeLevel <= 0 {
		return ref.ItemIdx, nil
	}
	offset, ok := d.offsets[ref.ScopeLevel]
	if !ok {
		return 0, errs.New(errs.KindProgramming, "planner: correlated ref at scope level never observed")
	}
	for pos, existing := range d.byLevel[ref.ScopeLevel] {
		if existing == ref {
			return offset + pos, nil
		}
	}
	return 0, errs.New(errs.KindProgramming, "planner: correlated ref never observed")
}

// DependentJoinConditions builds the equality Conditions tying a
// dependent join's left (outer) relation to the columns it pushed into
// the rewritten right (subquery body) relation: for every correlated ref
// at every level, the outer relation's original column must equal the
// column the rewriter appended at that ref's new position. Folding these
// into the join-order planner as ordinary equality conditions is what
// lets join reordering treat a former dependent join exactly like any
// other inner join — the one property the decorrelation pass promises
// its caller.
func (d *DependentJoinRewriter) DependentJoinConditions(outer RelId, body RelId) []Condition {
	d.Finalize()

	levels := make([]int, 0, len(d.byLevel))
	for lvl := range d.byLevel {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)

	var conds []Condition
	for _, lvl := range levels {
		offset := d.offsets[lvl]
		for pos, ref := range d.byLevel[lvl] {
			conds = append(conds, Condition{
				Op:    OpEq,
				Left:  ColumnRef{Rel: outer, Col: ref.ItemIdx},
				Right: ColumnRef{Rel: body, Col: offset + pos},
			})
		}
	}
	return conds
}
