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
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

// EqualsExpr is left = right. It is the only expression that introduces a
// prover-side witness column: per-row it computes diff = left - right and,
// where diff is nonzero, its field inverse. The standard is-zero gadget
// constraint, checked row-wise by VerifierEvaluate, is:
//
//	diff * witness == 1 - is_equal
//	diff * is_equal == 0
//
// which forces is_equal = 1 when diff = 0 (witness is then irrelevant) and
// is_equal = 0 whenever diff != 0 (witness must be diff's inverse for the
// first equation to hold).
type EqualsExpr struct {
	left, right DynProofExpr
}

// NewEqualsExpr builds an Equals node, checking left and right are
// comparable via tryEqualsColumnTypes's rules eagerly.
func NewEqualsExpr(left, right DynProofExpr) (*EqualsExpr, error) {
	if err := tryEqualsColumnTypes(left.DataType(), right.DataType()); err != nil {
		return nil, err
	}

	return &EqualsExpr{left: left, right: right}, nil
}

// DataType implements DynProofExpr: Equals always produces Boolean.
func (e *EqualsExpr) DataType() database.ColumnType { return database.Boolean }

// ColumnReferences implements DynProofExpr.
func (e *EqualsExpr) ColumnReferences(out map[string]database.ColumnRef) {
	e.left.ColumnReferences(out)
	e.right.ColumnReferences(out)
}

func diffsAndIndicator(left, right database.Column) (diffs []scalar.Scalar, isEqual []bool, witness []scalar.Scalar, err error) {
	ls, err := left.ToScalars()
	if err != nil {
		return nil, nil, nil, prooferr.Wrap(prooferr.Arithmetic, "left operand", err)
	}

	rs, err := right.ToScalars()
	if err != nil {
		return nil, nil, nil, prooferr.Wrap(prooferr.Arithmetic, "right operand", err)
	}

	if len(ls) != len(rs) {
		return nil, nil, nil, prooferr.New(prooferr.Arithmetic, "operand length mismatch")
	}

	diffs = make([]scalar.Scalar, len(ls))
	isEqual = make([]bool, len(ls))
	witness = make([]scalar.Scalar, len(ls))

	for i := range ls {
		d := ls[i].Sub(rs[i])
		diffs[i] = d

		if d.IsZero() {
			isEqual[i] = true
			witness[i] = scalar.Zero
		} else {
			isEqual[i] = false
			witness[i] = d.Inverse()
		}
	}

	return diffs, isEqual, witness, nil
}

// ResultEvaluate implements DynProofExpr.
func (e *EqualsExpr) ResultEvaluate(rowCount int, accessor database.DataAccessor) (database.Column, error) {
	left, err := e.left.ResultEvaluate(rowCount, accessor)
	if err != nil {
		return database.Column{}, err
	}

	right, err := e.right.ResultEvaluate(rowCount, accessor)
	if err != nil {
		return database.Column{}, err
	}

	_, isEqual, _, err := diffsAndIndicator(left, right)
	if err != nil {
		return database.Column{}, err
	}

	return database.NewBooleanColumn(isEqual), nil
}

// ProverEvaluate implements DynProofExpr: it commits the boolean indicator
// column under "equals" and the inverse-witness column under
// "equals/witness", in that fixed order.
func (e *EqualsExpr) ProverEvaluate(builder *proofbuilder.ProverBuilder, accessor database.ProverAccessor) (database.Column, error) {
	left, err := e.left.ProverEvaluate(builder, accessor)
	if err != nil {
		return database.Column{}, err
	}

	right, err := e.right.ProverEvaluate(builder, accessor)
	if err != nil {
		return database.Column{}, err
	}

	_, isEqual, witness, err := diffsAndIndicator(left, right)
	if err != nil {
		return database.Column{}, err
	}

	indicator := database.NewBooleanColumn(isEqual)
	if _, err := builder.Commit("equals", indicator); err != nil {
		return database.Column{}, err
	}

	if _, err := builder.Commit("equals/witness", database.NewScalarColumn(witness)); err != nil {
		return database.Column{}, err
	}

	return indicator, nil
}

// VerifierEvaluate implements DynProofExpr: it replays both operands, opens
// the indicator and witness claims, recomputes diff from the (now
// independently verified) operands, and checks both gadget equations
// row-wise.
func (e *EqualsExpr) VerifierEvaluate(builder *proofbuilder.VerifierBuilder, accessor database.VerifierAccessor) (database.Column, error) {
	left, err := e.left.VerifierEvaluate(builder, accessor)
	if err != nil {
		return database.Column{}, err
	}

	right, err := e.right.VerifierEvaluate(builder, accessor)
	if err != nil {
		return database.Column{}, err
	}

	indicator, err := builder.Open("equals")
	if err != nil {
		return database.Column{}, err
	}

	witnessCol, err := builder.Open("equals/witness")
	if err != nil {
		return database.Column{}, err
	}

	ls, err := left.ToScalars()
	if err != nil {
		return database.Column{}, err
	}

	rs, err := right.ToScalars()
	if err != nil {
		return database.Column{}, err
	}

	if len(ls) != len(rs) || indicator.Len() != len(ls) || witnessCol.Len() != len(ls) {
		return database.Column{}, prooferr.New(prooferr.Verification, "equals: column length mismatch")
	}

	witness, err := witnessCol.ToScalars()
	if err != nil {
		return database.Column{}, err
	}

	for i := range ls {
		diff := ls[i].Sub(rs[i])

		var isEqual scalar.Scalar
		if indicator.BoolAt(i) {
			isEqual = scalar.One
		} else {
			isEqual = scalar.Zero
		}

		lhs1 := diff.Mul(witness[i])
		rhs1 := scalar.One.Sub(isEqual)

		if !lhs1.Equal(rhs1) {
			return database.Column{}, prooferr.New(prooferr.Verification, "equals: is-zero gadget violated")
		}

		if !diff.Mul(isEqual).IsZero() {
			return database.Column{}, prooferr.New(prooferr.Verification, "equals: is-zero gadget violated")
		}
	}

	return indicator, nil
}

var _ DynProofExpr = (*EqualsExpr)(nil)
