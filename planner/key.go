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

// Package planner builds a left-deep or bushy inner-join tree from a set of
// base relations, equality conditions, and single-relation filters: a
// hyperedge graph is built from the conditions, a bounded number of join
// orderings are generated and costed against a dynamic-programming table
// keyed by the set of relations each partial plan covers, and the cheapest
// ordering by build-side cardinality wins.
package planner

import "math/bits"

// PlanKey is the set of base relations a partial (or complete) plan covers,
// represented as a bitmask so union, subset, and disjointness tests are all
// single machine instructions instead of set operations. A query with more
// than 64 base relations does not fit this representation; real queries are
// nowhere near that wide, and the join-order planner is explicitly bounded
// search rather than exhaustive DPccp, so this is not a meaningful limit.
type PlanKey uint64

// Has reports whether relation bit is a member of k.
func (k PlanKey) Has(bit int) bool { return k&(1<<uint(bit)) != 0 }

// With returns k with relation bit added.
func (k PlanKey) With(bit int) PlanKey { return k | PlanKey(1<<uint(bit)) }

// Union returns the set union of k and other.
func (k PlanKey) Union(other PlanKey) PlanKey { return k | other }

// IsSubsetOf reports whether every relation in k is also in other.
func (k PlanKey) IsSubsetOf(other PlanKey) bool { return k&other == k }

// IsDisjoint reports whether k and other share no relation.
func (k PlanKey) IsDisjoint(other PlanKey) bool { return k&other == 0 }

// Count returns the number of relations covered.
func (k PlanKey) Count() int { return bits.OnesCount64(uint64(k)) }

// Less gives PlanKey a canonical total order: smaller covering sets sort
// first, then ties break on the numeric bitmask. This is what makes
// enumeration over the BTreeG dynamic-programming table deterministic — a
// plain map's range order is randomized per process and would make the
// planner's bounded-search tie-breaking non-reproducible.
func (k PlanKey) Less(other PlanKey) bool {
	if ck, co := k.Count(), other.Count(); ck != co {
		return ck < co
	}
	return k < other
}
