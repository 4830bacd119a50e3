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
package proofplan

import (
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/arena"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofbuilder"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/prooferr"
)

// TableExec is a leaf plan: a scan of every column in a table's schema, with
// no projection or filtering applied.
type TableExec struct {
	table  database.TableRef
	schema []database.ColumnField
}

// NewTableExec builds a scan over table, with the given schema.
func NewTableExec(table database.TableRef, schema []database.ColumnField) *TableExec {
	return &TableExec{table: table, schema: schema}
}

// Table returns the table this plan scans.
func (p *TableExec) Table() database.TableRef { return p.table }

func (p *TableExec) refs() []database.ColumnRef {
	out := make([]database.ColumnRef, len(p.schema))
	for i, f := range p.schema {
		out[i] = database.NewColumnRef(p.table, f.Name, f.Type)
	}

	return out
}

// ResultFields implements DynProofPlan.
func (p *TableExec) ResultFields() []database.ColumnField {
	out := make([]database.ColumnField, len(p.schema))
	copy(out, p.schema)

	return out
}

// ColumnReferences implements DynProofPlan.
func (p *TableExec) ColumnReferences(out map[string]database.ColumnRef) {
	for _, ref := range p.refs() {
		out[ref.String()] = ref
	}
}

// TableReferences implements DynProofPlan.
func (p *TableExec) TableReferences(out map[string]database.TableRef) {
	out[p.table.String()] = p.table
}

// FirstRoundEvaluate implements DynProofPlan.
func (p *TableExec) FirstRoundEvaluate(builder *proofbuilder.ProverBuilder, accessor database.ProverAccessor) (uint64, error) {
	n, err := accessor.GetLength(p.table)
	if err != nil {
		return 0, prooferr.Wrap(prooferr.AccessorMissing, "table "+p.table.String(), err)
	}

	builder.DeclareRowCount(n)

	return n, nil
}

// VerifierFirstRound implements DynProofPlan.
func (p *TableExec) VerifierFirstRound(builder *proofbuilder.VerifierBuilder, accessor database.VerifierAccessor) (uint64, error) {
	n, err := accessor.GetLength(p.table)
	if err != nil {
		return 0, prooferr.Wrap(prooferr.AccessorMissing, "table "+p.table.String(), err)
	}

	if err := builder.DeclareRowCount(n); err != nil {
		return 0, err
	}

	return n, nil
}

// FinalRoundEvaluate implements DynProofPlan: it fetches and commits every
// schema column in order.
func (p *TableExec) FinalRoundEvaluate(builder *proofbuilder.ProverBuilder, _ *arena.Arena, accessor database.ProverAccessor) (database.OwnedTable, error) {
	names := make([]database.Identifier, len(p.schema))
	cols := make([]database.Column, len(p.schema))

	for i, ref := range p.refs() {
		col, err := accessor.GetColumn(ref)
		if err != nil {
			return database.OwnedTable{}, prooferr.Wrap(prooferr.AccessorMissing, "column "+ref.String(), err)
		}

		if _, err := builder.Commit(ref.String(), col); err != nil {
			return database.OwnedTable{}, err
		}

		names[i] = ref.Name
		cols[i] = col
	}

	tbl, err := database.TryNewOwnedTable(names, cols)
	if err != nil {
		return database.OwnedTable{}, prooferr.Wrap(prooferr.Verification, "assembling table scan result", err)
	}

	return tbl, nil
}

// VerifierEvaluate implements DynProofPlan: it opens every schema column
// against the verifier's own accessor commitment.
func (p *TableExec) VerifierEvaluate(builder *proofbuilder.VerifierBuilder, accessor database.VerifierAccessor) (database.OwnedTable, error) {
	names := make([]database.Identifier, len(p.schema))
	cols := make([]database.Column, len(p.schema))

	for i, ref := range p.refs() {
		expected, err := accessor.GetCommitment(ref)
		if err != nil {
			return database.OwnedTable{}, prooferr.Wrap(prooferr.AccessorMissing, "commitment for "+ref.String(), err)
		}

		col, err := builder.OpenAgainst(ref.String(), expected)
		if err != nil {
			return database.OwnedTable{}, err
		}

		names[i] = ref.Name
		cols[i] = col
	}

	tbl, err := database.TryNewOwnedTable(names, cols)
	if err != nil {
		return database.OwnedTable{}, prooferr.Wrap(prooferr.Verification, "assembling table scan result", err)
	}

	return tbl, nil
}

var _ DynProofPlan = (*TableExec)(nil)
