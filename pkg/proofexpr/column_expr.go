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
package proofexpr

import (
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofbuilder"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/prooferr"
)

// ColumnExpr is a leaf reference to a table column.
type ColumnExpr struct {
	ref database.ColumnRef
}

// NewColumnExpr wraps a ColumnRef as a leaf expression.
func NewColumnExpr(ref database.ColumnRef) *ColumnExpr {
	return &ColumnExpr{ref: ref}
}

// Ref returns the column this expression reads.
func (e *ColumnExpr) Ref() database.ColumnRef { return e.ref }

// DataType implements DynProofExpr.
func (e *ColumnExpr) DataType() database.ColumnType { return e.ref.Type }

// ResultEvaluate implements DynProofExpr.
func (e *ColumnExpr) ResultEvaluate(_ int, accessor database.DataAccessor) (database.Column, error) {
	col, err := accessor.GetColumn(e.ref)
	if err != nil {
		return database.Column{}, prooferr.Wrap(prooferr.AccessorMissing, "column "+e.ref.String(), err)
	}

	return col, nil
}

// ProverEvaluate implements DynProofExpr: it fetches the real column data
// and commits it under the column's own name. Because the column already
// has a commitment known to the accessor, VerifierEvaluate will require the
// freshly-recomputed commitment to match that one (spec §8 scenario 7).
func (e *ColumnExpr) ProverEvaluate(builder *proofbuilder.ProverBuilder, accessor database.ProverAccessor) (database.Column, error) {
	col, err := accessor.GetColumn(e.ref)
	if err != nil {
		return database.Column{}, prooferr.Wrap(prooferr.AccessorMissing, "column "+e.ref.String(), err)
	}

	if _, err := builder.Commit(e.ref.String(), col); err != nil {
		return database.Column{}, err
	}

	return col, nil
}

// VerifierEvaluate implements DynProofExpr: it opens the claim and requires
// its commitment equal the verifier's own accessor's commitment for this
// column, so a verifier whose accessor disagrees with the prover's data
// rejects the proof.
func (e *ColumnExpr) VerifierEvaluate(builder *proofbuilder.VerifierBuilder, accessor database.VerifierAccessor) (database.Column, error) {
	expected, err := accessor.GetCommitment(e.ref)
	if err != nil {
		return database.Column{}, prooferr.Wrap(prooferr.AccessorMissing, "commitment for "+e.ref.String(), err)
	}

	return builder.OpenAgainst(e.ref.String(), expected)
}

// ColumnReferences implements DynProofExpr.
func (e *ColumnExpr) ColumnReferences(out map[string]database.ColumnRef) {
	out[e.ref.String()] = e.ref
}

var _ DynProofExpr = (*ColumnExpr)(nil)
