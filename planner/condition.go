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

// ConditionOp is the comparison a Condition evaluates. Only Eq gets the
// tight min-NDV selectivity; the rest are lumped into coarse fixed
// selectivity bands the way the cardinality model does.
type ConditionOp int

const (
	OpEq ConditionOp = iota
	OpNotEq
	OpLt
	OpLe
	OpGt
	OpGe
)

// Condition is a two-relation join predicate extracted from a Filter or an
// explicit Join's ON clause before the planner runs. Predicate is an opaque
// handle back to the resolved-plan expression this condition came from
// (owned by the caller); the planner never inspects it, only carries it
// through to the produced plan so the caller can re-attach it.
type Condition struct {
	Op        ConditionOp
	Left      ColumnRef
	Right     ColumnRef
	Predicate any
}

// Filter is a single-relation predicate extracted alongside Conditions.
// It still becomes a hyperedge (so it can narrow an adjoining hyperedge's
// min-NDV), but it never connects two plans on its own.
type Filter struct {
	Refs      []ColumnRef
	Predicate any
}
