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

// selectivity returns the per-edge selectivity factor folded into a join's
// cardinality denominator: equality joins get the tight min-NDV estimate,
// inequality and range comparisons get fixed bands.
func selectivity(e FoundEdge) float64 {
	switch e.Edge.Op {
	case OpEq:
		return e.MinNDV
	case OpNotEq:
		return 0.1
	default: // Lt, Le, Gt, Ge: assume roughly a third of the domain matches.
		return 3.0
	}
}

// subgraph tracks one connected component discovered while folding the
// edges between two candidate plans: the relations it covers and the
// running product of per-edge selectivity factors.
type subgraph struct {
	key   PlanKey
	denom float64
}

func (s subgraph) connects(e FoundEdge) bool {
	return e.Edge.LeftRelKey.IsSubsetOf(s.key) || e.Edge.RightRelKey.IsSubsetOf(s.key)
}

// estimateCardinality computes the cardinality of joining p1 and p2 across
// edges: relations connected by the same chain of edges form one
// subgraph whose denominator accumulates every edge's selectivity;
// disjoint subgraphs (no edge connects them, e.g. an implicit cross
// product) multiply their denominators independently, since each is an
// independent source of duplication. The numerator is always the product
// of every covered base relation's cardinality, every relation counted
// exactly once whether or not an edge happens to touch it directly.
func (p *Planner) estimateCardinality(p1, p2 *GeneratedPlan, edges []FoundEdge) float64 {
	sg := p.computeSubgraph(p1, p2, edges)

	numerator := 1.0
	for bit := 0; bit < len(p.relOfBit); bit++ {
		if sg.key.Has(bit) {
			numerator *= p.relations[p.relOfBit[bit]].Cardinality
		}
	}
	if sg.denom == 0 {
		return numerator
	}
	return numerator / sg.denom
}

// computeSubgraph seeds one singleton subgraph per relation covered by
// p1 or p2 — so a relation with no edge directly connecting it to the
// other side still contributes its own cardinality as an independent
// (denom-1) component, rather than being silently dropped — then folds
// each edge by merging the (exactly two) subgraphs it bridges and
// multiplying in that edge's selectivity.
func (p *Planner) computeSubgraph(p1, p2 *GeneratedPlan, edges []FoundEdge) subgraph {
	covered := p1.Key.Union(p2.Key)
	subgraphs := make([]subgraph, 0, covered.Count())
	for bit := 0; bit < len(p.relOfBit); bit++ {
		if covered.Has(bit) {
			subgraphs = append(subgraphs, subgraph{key: PlanKey(0).With(bit), denom: 1.0})
		}
	}

	for _, fe := range edges {
		var connected []int
		for i := range subgraphs {
			if subgraphs[i].connects(fe) {
				connected = append(connected, i)
			}
		}
		if len(connected) == 0 {
			continue // defensive: every relation already has a seed subgraph
		}

		merged := subgraphs[connected[0]]
		merged.denom *= selectivity(fe)
		for _, idx := range connected[1:] {
			merged.key = merged.key.Union(subgraphs[idx].key)
			merged.denom *= subgraphs[idx].denom
		}
		subgraphs = removeIndices(subgraphs, connected[1:])
		subgraphs[connected[0]] = merged
	}

	merged := subgraphs[0]
	for _, sg := range subgraphs[1:] {
		merged.key = merged.key.Union(sg.key)
		merged.denom *= sg.denom
	}
	return merged
}

// removeIndices drops the given indices (assumed ascending, all valid)
// from s, preserving the relative order of what remains.
func removeIndices(s []subgraph, idxs []int) []subgraph {
	if len(idxs) == 0 {
		return s
	}
	drop := make(map[int]struct{}, len(idxs))
	for _, i := range idxs {
		drop[i] = struct{}{}
	}
	out := s[:0:0]
	for i, sg := range s {
		if _, ok := drop[i]; !ok {
			out = append(out, sg)
		}
	}
	return out
}
