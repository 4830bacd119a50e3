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

// CommitmentTableAccessor is a VerifierAccessor backed only by a table's
// published commitments, schema, row count, and offset — never its raw
// data. It is what a verifier who was not also the prover actually holds:
// OwnedTableAccessor (which also satisfies DataAccessor) is the reference
// accessor for tests and for the prover side of the CLI, but a standalone
// verifier, e.g. pkg/cmd/sqlproof's verify command, has no business
// constructing one.
type CommitmentTableAccessor struct {
	table   TableRef
	schema  []ColumnField
	rows    uint64
	offset  uint64
	commits map[string]commitment.Commitment
	engine  commitment.Engine
}

// NewCommitmentTableAccessor builds an accessor over table from its
// published metadata: schema, row count, offset, one commitment per schema
// column (keyed by column name), and the commitment engine (public
// parameters) those commitments were computed under — the same engine this
// accessor's verifier must use to check any further commitments the proof
// reveals.
func NewCommitmentTableAccessor(
	table TableRef,
	schema []ColumnField,
	rows uint64,
	offset uint64,
	commits map[string]commitment.Commitment,
	engine commitment.Engine,
) *CommitmentTableAccessor {
	return &CommitmentTableAccessor{table: table, schema: schema, rows: rows, offset: offset, commits: commits, engine: engine}
}

// GetCommitment implements CommitmentAccessor.
func (a *CommitmentTableAccessor) GetCommitment(ref ColumnRef) (commitment.Commitment, error) {
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
func (a *CommitmentTableAccessor) GetLength(table TableRef) (uint64, error) {
	if !table.Equal(a.table) {
		return 0, fmt.Errorf("database: accessor has no table %s", table)
	}

	return a.rows, nil
}

// GetOffset implements MetadataAccessor.
func (a *CommitmentTableAccessor) GetOffset(table TableRef) (uint64, error) {
	if !table.Equal(a.table) {
		return 0, fmt.Errorf("database: accessor has no table %s", table)
	}

	return a.offset, nil
}

// LookupSchema implements SchemaAccessor.
func (a *CommitmentTableAccessor) LookupSchema(table TableRef) ([]ColumnField, error) {
	if !table.Equal(a.table) {
		return nil, fmt.Errorf("database: accessor has no table %s", table)
	}

	return a.schema, nil
}

// Engine implements EngineAccessor, returning the engine this accessor's
// published commitments were computed under.
func (a *CommitmentTableAccessor) Engine() commitment.Engine {
	return a.engine
}

var _ VerifierAccessor = (*CommitmentTableAccessor)(nil)
