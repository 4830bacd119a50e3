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
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofexpr"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/prooferr"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

// FilterExec evaluates a boolean predicate over its input's row set and
// projects resultExprs over only the rows that satisfy it, preserving row
// order. It is the one plan variant that changes row count, so it is also
// the one variant that needs witness columns: a selection mask, a masked
// copy of each result column, and a dense, order-preserving, zero-padded
// compaction of each (the dense columns allocated from the arena), all
// committed so the verifier can check the selection was applied correctly
// without ever seeing a multiset argument that would lose the ordering
// guarantee.
//
// The post-selection row count is inherently data-dependent: no accessor
// metadata lets a verifier recompute it independently. FilterExec declares
// it as a public value (proofbuilder.DeclarePublic/ReadPublic), and
// VerifierEvaluate rejects a declared count that differs from the number of
// selected rows in the recomputed mask.
type FilterExec struct {
	resultExprs []AliasedExpr
	predicate   proofexpr.DynProofExpr
	input       DynProofPlan

	// outputLen is stashed between the first and final round of a single
	// proof construction (prover side) or verification (verifier side). A
	// FilterExec value is scoped to one proof at a time, never reused
	// concurrently across two; see DESIGN.md.
	outputLen uint64
}

// NewFilterExec builds a filter of input by predicate, projecting
// resultExprs over the selected rows. predicate must be Boolean.
func NewFilterExec(resultExprs []AliasedExpr, predicate proofexpr.DynProofExpr, input DynProofPlan) (*FilterExec, error) {
	if predicate.DataType() != database.Boolean {
		return nil, prooferr.New(prooferr.PlanType, "filter predicate must be boolean, got "+predicate.DataType().String())
	}

	return &FilterExec{resultExprs: resultExprs, predicate: predicate, input: input}, nil
}

// ResultFields implements DynProofPlan.
func (p *FilterExec) ResultFields() []database.ColumnField {
	out := make([]database.ColumnField, len(p.resultExprs))
	for i, ae := range p.resultExprs {
		out[i] = database.ColumnField{Name: ae.Alias, Type: ae.Expr.DataType()}
	}

	return out
}

// ColumnReferences implements DynProofPlan.
func (p *FilterExec) ColumnReferences(out map[string]database.ColumnRef) {
	p.input.ColumnReferences(out)
	p.predicate.ColumnReferences(out)

	for _, ae := range p.resultExprs {
		ae.Expr.ColumnReferences(out)
	}
}

// TableReferences implements DynProofPlan.
func (p *FilterExec) TableReferences(out map[string]database.TableRef) {
	p.input.TableReferences(out)
}

// FirstRoundEvaluate implements DynProofPlan: it declares the input's row
// count, evaluates the predicate over plaintext to count how many rows
// survive, and declares that count publicly.
func (p *FilterExec) FirstRoundEvaluate(builder *proofbuilder.ProverBuilder, accessor database.ProverAccessor) (uint64, error) {
	n, err := p.input.FirstRoundEvaluate(builder, accessor)
	if err != nil {
		return 0, err
	}

	mask, err := p.predicate.ResultEvaluate(int(n), accessor)
	if err != nil {
		return 0, err
	}

	var nOut uint64
	for i := 0; i < mask.Len(); i++ {
		if mask.BoolAt(i) {
			nOut++
		}
	}

	builder.DeclarePublic("filter/output_len", nOut)
	p.outputLen = nOut

	return nOut, nil
}

// VerifierFirstRound implements DynProofPlan.
func (p *FilterExec) VerifierFirstRound(builder *proofbuilder.VerifierBuilder, accessor database.VerifierAccessor) (uint64, error) {
	if _, err := p.input.VerifierFirstRound(builder, accessor); err != nil {
		return 0, err
	}

	nOut, err := builder.ReadPublic("filter/output_len")
	if err != nil {
		return 0, err
	}

	p.outputLen = nOut

	return nOut, nil
}

// FinalRoundEvaluate implements DynProofPlan: it commits the selection
// mask, then for each result expression a masked column and a dense,
// order-preserving, zero-padded compaction of it, and returns the
// nOut-row result table built from the dense columns' selected prefix.
func (p *FilterExec) FinalRoundEvaluate(builder *proofbuilder.ProverBuilder, ar *arena.Arena, accessor database.ProverAccessor) (database.OwnedTable, error) {
	n := int(builder.RowCount)

	maskCol, err := p.predicate.ProverEvaluate(builder, accessor)
	if err != nil {
		return database.OwnedTable{}, err
	}

	if _, err := builder.Commit("filter/mask", maskCol); err != nil {
		return database.OwnedTable{}, err
	}

	names := make([]database.Identifier, len(p.resultExprs))
	cols := make([]database.Column, len(p.resultExprs))

	for i, ae := range p.resultExprs {
		raw, err := ae.Expr.ProverEvaluate(builder, accessor)
		if err != nil {
			return database.OwnedTable{}, err
		}

		rawScalars, err := raw.ToScalars()
		if err != nil {
			return database.OwnedTable{}, prooferr.Wrap(prooferr.EvaluationOverflow, "encoding filter result", err)
		}

		masked := make([]scalar.Scalar, n)
		dense := ar.AllocScalars(n)

		j := 0
		for row := 0; row < n; row++ {
			if maskCol.BoolAt(row) {
				masked[row] = rawScalars[row]
				dense[j] = rawScalars[row]
				j++
			} else {
				masked[row] = scalar.Zero
			}
		}

		label := ae.Alias.Name()

		maskedCol := database.NewScalarColumn(masked)
		if _, err := builder.Commit(label+"/masked", maskedCol); err != nil {
			return database.OwnedTable{}, err
		}

		denseCol := database.NewScalarColumn(dense)
		if _, err := builder.Commit(label+"/dense", denseCol); err != nil {
			return database.OwnedTable{}, err
		}

		outCol, err := proofexpr.ColumnFromScalars(ae.Expr.DataType(), dense[:p.outputLen])
		if err != nil {
			return database.OwnedTable{}, err
		}

		names[i] = ae.Alias
		cols[i] = outCol
	}

	tbl, err := database.TryNewOwnedTable(names, cols)
	if err != nil {
		return database.OwnedTable{}, prooferr.Wrap(prooferr.Verification, "assembling filter result", err)
	}

	return tbl, nil
}

// VerifierEvaluate implements DynProofPlan: it opens the mask and, for each
// result expression, its masked and dense columns, then checks three things
// row by row: the mask is genuinely boolean (already guaranteed by its
// column type), masked[i] equals raw[i] where selected and zero elsewhere,
// and dense is exactly the order-preserving compaction of masked's selected
// entries followed by zero padding. The third check is a direct
// recomputation, not a permutation/multiset argument, because only direct
// recomputation verifies order was preserved.
func (p *FilterExec) VerifierEvaluate(builder *proofbuilder.VerifierBuilder, accessor database.VerifierAccessor) (database.OwnedTable, error) {
	n := int(builder.RowCount)

	maskCol, err := p.predicate.VerifierEvaluate(builder, accessor)
	if err != nil {
		return database.OwnedTable{}, err
	}

	openedMask, err := builder.Open("filter/mask")
	if err != nil {
		return database.OwnedTable{}, err
	}

	if ok, err := columnsEqual(maskCol, openedMask); err != nil {
		return database.OwnedTable{}, err
	} else if !ok {
		return database.OwnedTable{}, prooferr.New(prooferr.Verification, "filter mask does not match recomputed predicate")
	}

	names := make([]database.Identifier, len(p.resultExprs))
	cols := make([]database.Column, len(p.resultExprs))

	for i, ae := range p.resultExprs {
		raw, err := ae.Expr.VerifierEvaluate(builder, accessor)
		if err != nil {
			return database.OwnedTable{}, err
		}

		rawScalars, err := raw.ToScalars()
		if err != nil {
			return database.OwnedTable{}, prooferr.Wrap(prooferr.Serialisation, "decoding filter operand", err)
		}

		label := ae.Alias.Name()

		maskedCol, err := builder.Open(label + "/masked")
		if err != nil {
			return database.OwnedTable{}, err
		}

		maskedScalars, err := maskedCol.ToScalars()
		if err != nil {
			return database.OwnedTable{}, prooferr.Wrap(prooferr.Serialisation, "decoding filter masked column", err)
		}

		if len(maskedScalars) != n {
			return database.OwnedTable{}, prooferr.New(prooferr.Verification, "filter masked column has wrong row count")
		}

		denseCol, err := builder.Open(label + "/dense")
		if err != nil {
			return database.OwnedTable{}, err
		}

		denseScalars, err := denseCol.ToScalars()
		if err != nil {
			return database.OwnedTable{}, prooferr.Wrap(prooferr.Serialisation, "decoding filter dense column", err)
		}

		if uint64(len(denseScalars)) != builder.RowCount {
			return database.OwnedTable{}, prooferr.New(prooferr.Verification, "filter dense column has wrong row count")
		}

		expectedDense := make([]scalar.Scalar, n)

		j := 0
		for row := 0; row < n; row++ {
			if maskCol.BoolAt(row) {
				if !maskedScalars[row].Equal(rawScalars[row]) {
					return database.OwnedTable{}, prooferr.New(prooferr.Verification, "filter masked row mismatch where selected")
				}

				expectedDense[j] = rawScalars[row]
				j++
			} else if !maskedScalars[row].IsZero() {
				return database.OwnedTable{}, prooferr.New(prooferr.Verification, "filter masked row not zeroed where unselected")
			}
		}

		if uint64(j) != p.outputLen {
			return database.OwnedTable{}, prooferr.New(prooferr.Verification, "filter mask true-count does not match declared output length")
		}

		for row := 0; row < n; row++ {
			var want scalar.Scalar
			if row < j {
				want = expectedDense[row]
			} else {
				want = scalar.Zero
			}

			if !denseScalars[row].Equal(want) {
				return database.OwnedTable{}, prooferr.New(prooferr.Verification, "filter dense column is not the order-preserving compaction")
			}
		}

		outCol, err := proofexpr.ColumnFromScalars(ae.Expr.DataType(), denseScalars[:p.outputLen])
		if err != nil {
			return database.OwnedTable{}, err
		}

		names[i] = ae.Alias
		cols[i] = outCol
	}

	tbl, err := database.TryNewOwnedTable(names, cols)
	if err != nil {
		return database.OwnedTable{}, prooferr.Wrap(prooferr.Verification, "assembling filter result", err)
	}

	return tbl, nil
}

var _ DynProofPlan = (*FilterExec)(nil)
