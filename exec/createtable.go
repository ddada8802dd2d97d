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

package exec

import (
	"context"

	"github.com/flarehq/flaredb/array"
	"github.com/flarehq/flaredb/storage"
)

// createPhase is CreateTableOperator's state machine position:
// Creating -> Inserting(finished=false) -> Inserting(finished=true).
type createPhase int

const (
	phaseCreating createPhase = iota
	phaseInserting
)

// CreateTableOperatorState is the shared state every partition observes:
// the table itself, whether it has been created yet, and one Inserter
// handle per partition once published.
type CreateTableOperatorState struct {
	BaseOperatorState
	Table        *storage.MemTable
	created      bool
	inserters    map[int]*storage.Inserter
	pushWakers   []*Waker
	columnFields []array.Field
}

func NewCreateTableOperatorState(name string, columns []array.Field) *CreateTableOperatorState {
	return &CreateTableOperatorState{
		inserters:    make(map[int]*storage.Inserter),
		columnFields: columns,
	}
}

// CreateTablePartitionState tracks one partition's progress through the
// state machine and its own pull/push wakers.
type CreateTablePartitionState struct {
	BasePartitionState
	Idx     int
	phase   createPhase
	waiting bool
	table   string
}

// CreateTableOperator implements the Operator triple for `CREATE TABLE ...
// AS SELECT ...`-shaped pipelines: the first partition to push drives table
// creation; subsequent pushes (from any partition) insert into the created
// table.
type CreateTableOperator struct {
	Name    string
	Columns []array.Field
}

func (op *CreateTableOperator) NewOperatorState() OperatorState {
	return NewCreateTableOperatorState(op.Name, op.Columns)
}

func (op *CreateTableOperator) NewPartitionState() PartitionState {
	return &CreateTablePartitionState{table: op.Name}
}

func (op *CreateTableOperator) PollPush(ctx context.Context, pAny PartitionState, oAny OperatorState, batch *array.Batch) PushResult {
	p := pAny.(*CreateTablePartitionState)
	o := oAny.(*CreateTableOperatorState)

	o.Lock()
	if !o.created {
		o.Table = storage.NewMemTable(op.Name, op.Columns)
		o.created = true
		for _, w := range o.pushWakers {
			w.Wake()
		}
		o.pushWakers = nil
	}
	ins, ok := o.inserters[p.Idx]
	if !ok {
		ins = o.Table.NewInserter()
		o.inserters[p.Idx] = ins
	}
	o.Unlock()

	p.phase = phaseInserting
	ins.Insert(batch)
	return PushedResult()
}

func (op *CreateTableOperator) FinalizePush(ctx context.Context, pAny PartitionState, oAny OperatorState) error {
	p := pAny.(*CreateTablePartitionState)
	p.BasePartitionState.Finished = true
	if p.PullWaker != nil {
		p.PullWaker.Wake()
	}
	return nil
}

func (op *CreateTableOperator) PollPull(ctx context.Context, pAny PartitionState, oAny OperatorState) PullResult {
	p := pAny.(*CreateTablePartitionState)
	if p.BasePartitionState.Finished {
		return ExhaustedResult()
	}
	return PendingPull()
}
