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
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

// LiteralExpr is a constant, broadcast to every row. Literals are public:
// both prover and verifier already know the value, so there is nothing to
// commit.
type LiteralExpr struct {
	value scalar.Scalar
	ty    database.ColumnType
}

// NewLiteralExpr constructs a literal of the given type and scalar-encoded
// value.
func NewLiteralExpr(value scalar.Scalar, ty database.ColumnType) *LiteralExpr {
	return &LiteralExpr{value: value, ty: ty}
}

// Value returns the literal's scalar encoding.
func (e *LiteralExpr) Value() scalar.Scalar { return e.value }

// DataType implements DynProofExpr.
func (e *LiteralExpr) DataType() database.ColumnType { return e.ty }

func (e *LiteralExpr) broadcast(rowCount int) database.Column {
	values := make([]scalar.Scalar, rowCount)
	for i := range values {
		values[i] = e.value
	}

	return database.NewScalarColumn(values)
}

// ResultEvaluate implements DynProofExpr.
func (e *LiteralExpr) ResultEvaluate(rowCount int, _ database.DataAccessor) (database.Column, error) {
	return e.broadcast(rowCount), nil
}

// ProverEvaluate implements DynProofExpr. The literal's value is public, so
// it needs no commitment of its own; the broadcast column is returned
// directly for the caller (e.g. an arithmetic node) to fold in.
func (e *LiteralExpr) ProverEvaluate(builder *proofbuilder.ProverBuilder, _ database.ProverAccessor) (database.Column, error) {
	return e.broadcast(int(builder.RowCount)), nil
}

// VerifierEvaluate implements DynProofExpr.
func (e *LiteralExpr) VerifierEvaluate(builder *proofbuilder.VerifierBuilder, _ database.VerifierAccessor) (database.Column, error) {
	return e.broadcast(int(builder.RowCount)), nil
}

// ColumnReferences implements DynProofExpr: a literal reads no columns.
func (e *LiteralExpr) ColumnReferences(map[string]database.ColumnRef) {}

var _ DynProofExpr = (*LiteralExpr)(nil)
