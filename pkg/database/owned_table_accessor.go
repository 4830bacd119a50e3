// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package database

import (
	"fmt"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/commitment"
)

// OwnedTableAccessor is a FullAccessor backed by an in-memory OwnedTable and
// a commitment engine. It is the reference accessor implementation used by
// tests and by the CLI's fixture loader; it mirrors the role the teacher
// repo's in-memory trace types play for constraint evaluation.
type OwnedTableAccessor struct {
	table   TableRef
	data    OwnedTable
	offset  uint64
	engine  commitment.Engine
	commits map[string]commitment.Commitment
}

// NewOwnedTableAccessor builds an accessor over table backed by data, with
// commitments computed eagerly via engine.
func NewOwnedTableAccessor(table TableRef, data OwnedTable, offset uint64, engine commitment.Engine) (*OwnedTableAccessor, error) {
	a := &OwnedTableAccessor{
		table:   table,
		data:    data,
		offset:  offset,
		engine:  engine,
		commits: make(map[string]commitment.Commitment, data.NumColumns()),
	}

	for i := 0; i < data.NumColumns(); i++ {
		name := a.data.NameAt(i)
		col := a.data.ColumnAt(i)

		scalars, err := col.ToScalars()
		if err != nil {
			return nil, fmt.Errorf("database: committing column %q: %w", name, err)
		}

		c, err := engine.Commit(scalars)
		if err != nil {
			return nil, fmt.Errorf("database: committing column %q: %w", name, err)
		}

		a.commits[name.Name()] = c
	}

	return a, nil
}

// GetColumn implements DataAccessor.
func (a *OwnedTableAccessor) GetColumn(ref ColumnRef) (Column, error) {
	if !ref.Table.Equal(a.table) {
		return Column{}, fmt.Errorf("database: accessor has no table %s", ref.Table)
	}

	col, ok := a.data.Column(ref.Name)
	if !ok {
		return Column{}, fmt.Errorf("database: accessor has no column %s.%s", ref.Table, ref.Name)
	}

	return col, nil
}

// GetCommitment implements CommitmentAccessor.
func (a *OwnedTableAccessor) GetCommitment(ref ColumnRef) (commitment.Commitment, error) {
	if !ref.Table.Equal(a.table) {
		return commitment.Commitment{}, fmt.Errorf("database: accessor has no table %s", ref.Table)
	}

	c, ok := a.commits[ref.Name.Name()]
	if !ok {
		return commitment.Commitment{}, fmt.Errorf("database: accessor has no column %s.%s", ref.Table, ref.Name)
	}

	return c, nil
}

// GetLength implements MetadataAccessor.
func (a *OwnedTableAccessor) GetLength(table TableRef) (uint64, error) {
	if !table.Equal(a.table) {
		return 0, fmt.Errorf("database: accessor has no table %s", table)
	}

	return uint64(a.data.NumRows()), nil
}

// GetOffset implements MetadataAccessor.
func (a *OwnedTableAccessor) GetOffset(table TableRef) (uint64, error) {
	if !table.Equal(a.table) {
		return 0, fmt.Errorf("database: accessor has no table %s", table)
	}

	return a.offset, nil
}

// LookupSchema implements SchemaAccessor.
func (a *OwnedTableAccessor) LookupSchema(table TableRef) ([]ColumnField, error) {
	if !table.Equal(a.table) {
		return nil, fmt.Errorf("database: accessor has no table %s", table)
	}

	return a.data.Fields(), nil
}

// Engine implements EngineAccessor, returning the engine its commitments
// were computed under.
func (a *OwnedTableAccessor) Engine() commitment.Engine {
	return a.engine
}

var _ FullAccessor = (*OwnedTableAccessor)(nil)
