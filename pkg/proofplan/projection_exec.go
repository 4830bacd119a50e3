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

// ProjectionExec evaluates a fixed list of aliased expressions over the
// rows its input plan scans. Input is consulted only for the row count
// (and, transitively, the table(s) it scans): every result expression is
// self-contained, carrying the fully-qualified ColumnRefs it needs, so
// evaluation reads directly through the accessor rather than through
// Input's own (otherwise unused) output table.
type ProjectionExec struct {
	exprs []AliasedExpr
	input DynProofPlan
}

// NewProjectionExec builds a projection of exprs over input's row set.
func NewProjectionExec(exprs []AliasedExpr, input DynProofPlan) *ProjectionExec {
	return &ProjectionExec{exprs: exprs, input: input}
}

// ResultFields implements DynProofPlan.
func (p *ProjectionExec) ResultFields() []database.ColumnField {
	out := make([]database.ColumnField, len(p.exprs))
	for i, ae := range p.exprs {
		out[i] = database.ColumnField{Name: ae.Alias, Type: ae.Expr.DataType()}
	}

	return out
}

// ColumnReferences implements DynProofPlan.
func (p *ProjectionExec) ColumnReferences(out map[string]database.ColumnRef) {
	p.input.ColumnReferences(out)

	for _, ae := range p.exprs {
		ae.Expr.ColumnReferences(out)
	}
}

// TableReferences implements DynProofPlan.
func (p *ProjectionExec) TableReferences(out map[string]database.TableRef) {
	p.input.TableReferences(out)
}

// FirstRoundEvaluate implements DynProofPlan.
func (p *ProjectionExec) FirstRoundEvaluate(builder *proofbuilder.ProverBuilder, accessor database.ProverAccessor) (uint64, error) {
	return p.input.FirstRoundEvaluate(builder, accessor)
}

// VerifierFirstRound implements DynProofPlan.
func (p *ProjectionExec) VerifierFirstRound(builder *proofbuilder.VerifierBuilder, accessor database.VerifierAccessor) (uint64, error) {
	return p.input.VerifierFirstRound(builder, accessor)
}

// FinalRoundEvaluate implements DynProofPlan: it evaluates and commits each
// result expression, in declared order, and assembles the aliased output
// table. A zero-expression projection yields a zero-column, zero-row table
// (spec §8 scenario on zero-arity projections).
func (p *ProjectionExec) FinalRoundEvaluate(builder *proofbuilder.ProverBuilder, _ *arena.Arena, accessor database.ProverAccessor) (database.OwnedTable, error) {
	names := make([]database.Identifier, len(p.exprs))
	cols := make([]database.Column, len(p.exprs))

	for i, ae := range p.exprs {
		col, err := ae.Expr.ProverEvaluate(builder, accessor)
		if err != nil {
			return database.OwnedTable{}, err
		}

		names[i] = ae.Alias
		cols[i] = col
	}

	tbl, err := database.TryNewOwnedTable(names, cols)
	if err != nil {
		return database.OwnedTable{}, prooferr.Wrap(prooferr.Verification, "assembling projection result", err)
	}

	return tbl, nil
}

// VerifierEvaluate implements DynProofPlan.
func (p *ProjectionExec) VerifierEvaluate(builder *proofbuilder.VerifierBuilder, accessor database.VerifierAccessor) (database.OwnedTable, error) {
	names := make([]database.Identifier, len(p.exprs))
	cols := make([]database.Column, len(p.exprs))

	for i, ae := range p.exprs {
		col, err := ae.Expr.VerifierEvaluate(builder, accessor)
		if err != nil {
			return database.OwnedTable{}, err
		}

		names[i] = ae.Alias
		cols[i] = col
	}

	tbl, err := database.TryNewOwnedTable(names, cols)
	if err != nil {
		return database.OwnedTable{}, prooferr.Wrap(prooferr.Verification, "assembling projection result", err)
	}

	return tbl, nil
}

var _ DynProofPlan = (*ProjectionExec)(nil)
