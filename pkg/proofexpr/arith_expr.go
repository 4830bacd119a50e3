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

// arithOp is add, sub, or mul over field-scalar encodings. The underlying
// commitment scheme is additively homomorphic (spec §1's black-box
// commitment engine), so an honest Add/Sub result's commitment can in
// principle be checked without revealing the operands; this implementation
// always opens operand and result columns (spec §1's non-goal on verifier
// privacy), but still recomputes the row-wise identity explicitly so a
// tampered result is caught regardless of how the commitment engine behaves.
type arithOp int

const (
	opAdd arithOp = iota
	opSub
	opMul
)

func (op arithOp) apply(x, y scalar.Scalar) scalar.Scalar {
	switch op {
	case opAdd:
		return x.Add(y)
	case opSub:
		return x.Sub(y)
	default:
		return x.Mul(y)
	}
}

func (op arithOp) label() string {
	switch op {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	default:
		return "mul"
	}
}

// arithExpr is the shared implementation behind AddExpr, SubExpr, and
// MulExpr.
type arithExpr struct {
	op          arithOp
	left, right DynProofExpr
	ty          database.ColumnType
}

func newArithExpr(op arithOp, left, right DynProofExpr) (*arithExpr, error) {
	var (
		ty  database.ColumnType
		err error
	)

	if op == opMul {
		ty, err = TryMultiplyColumnTypes(left.DataType(), right.DataType())
	} else {
		ty, err = TryAddSubtractColumnTypes(left.DataType(), right.DataType())
	}

	if err != nil {
		return nil, err
	}

	return &arithExpr{op: op, left: left, right: right, ty: ty}, nil
}

// AddExpr is left + right.
type AddExpr struct{ *arithExpr }

// NewAddExpr builds an Add node, resolving the result type eagerly via
// TryAddSubtractColumnTypes.
func NewAddExpr(left, right DynProofExpr) (*AddExpr, error) {
	e, err := newArithExpr(opAdd, left, right)
	if err != nil {
		return nil, err
	}

	return &AddExpr{e}, nil
}

// SubExpr is left - right.
type SubExpr struct{ *arithExpr }

// NewSubExpr builds a Sub node, resolving the result type eagerly via
// TryAddSubtractColumnTypes.
func NewSubExpr(left, right DynProofExpr) (*SubExpr, error) {
	e, err := newArithExpr(opSub, left, right)
	if err != nil {
		return nil, err
	}

	return &SubExpr{e}, nil
}

// MulExpr is left * right.
type MulExpr struct{ *arithExpr }

// NewMulExpr builds a Mul node, resolving the result type eagerly via
// TryMultiplyColumnTypes.
func NewMulExpr(left, right DynProofExpr) (*MulExpr, error) {
	e, err := newArithExpr(opMul, left, right)
	if err != nil {
		return nil, err
	}

	return &MulExpr{e}, nil
}

// DataType implements DynProofExpr.
func (e *arithExpr) DataType() database.ColumnType { return e.ty }

// ColumnReferences implements DynProofExpr.
func (e *arithExpr) ColumnReferences(out map[string]database.ColumnRef) {
	e.left.ColumnReferences(out)
	e.right.ColumnReferences(out)
}

func (e *arithExpr) combine(left, right database.Column) (database.Column, error) {
	ls, err := left.ToScalars()
	if err != nil {
		return database.Column{}, prooferr.Wrap(prooferr.Arithmetic, "left operand", err)
	}

	rs, err := right.ToScalars()
	if err != nil {
		return database.Column{}, prooferr.Wrap(prooferr.Arithmetic, "right operand", err)
	}

	if len(ls) != len(rs) {
		return database.Column{}, prooferr.New(prooferr.Arithmetic, "operand length mismatch")
	}

	// Add/Sub over Decimal75 operands of differing scale must align
	// mantissas to the result's scale before combining; Mul needs no
	// alignment, since multiplying two mantissas already yields a result at
	// their combined scale (which is how TryMultiplyColumnTypes derives
	// e.ty's scale).
	if e.op != opMul && e.ty.Kind == database.KindDecimal75 {
		_, leftScale, _ := decimalPlaceholder(e.left.DataType())
		_, rightScale, _ := decimalPlaceholder(e.right.DataType())

		leftFactor := scalarPow10(int(e.ty.Scale) - int(leftScale))
		rightFactor := scalarPow10(int(e.ty.Scale) - int(rightScale))

		for i := range ls {
			ls[i] = ls[i].Mul(leftFactor)
			rs[i] = rs[i].Mul(rightFactor)
		}
	}

	out := make([]scalar.Scalar, len(ls))
	for i := range ls {
		out[i] = e.op.apply(ls[i], rs[i])
	}

	return columnFromScalars(e.ty, out)
}

// ResultEvaluate implements DynProofExpr.
func (e *arithExpr) ResultEvaluate(rowCount int, accessor database.DataAccessor) (database.Column, error) {
	left, err := e.left.ResultEvaluate(rowCount, accessor)
	if err != nil {
		return database.Column{}, err
	}

	right, err := e.right.ResultEvaluate(rowCount, accessor)
	if err != nil {
		return database.Column{}, err
	}

	return e.combine(left, right)
}

// ProverEvaluate implements DynProofExpr: it evaluates both operands
// (committing whatever they themselves need to commit), computes the
// combined result, and commits that result under a label scoped to this
// node's operation.
func (e *arithExpr) ProverEvaluate(builder *proofbuilder.ProverBuilder, accessor database.ProverAccessor) (database.Column, error) {
	left, err := e.left.ProverEvaluate(builder, accessor)
	if err != nil {
		return database.Column{}, err
	}

	right, err := e.right.ProverEvaluate(builder, accessor)
	if err != nil {
		return database.Column{}, err
	}

	result, err := e.combine(left, right)
	if err != nil {
		return database.Column{}, err
	}

	if _, err := builder.Commit(e.op.label(), result); err != nil {
		return database.Column{}, err
	}

	return result, nil
}

// VerifierEvaluate implements DynProofExpr: it replays both operands, opens
// the result claim, and independently recomputes the combination from the
// opened operands to check the result claim is the correct function of them.
func (e *arithExpr) VerifierEvaluate(builder *proofbuilder.VerifierBuilder, accessor database.VerifierAccessor) (database.Column, error) {
	left, err := e.left.VerifierEvaluate(builder, accessor)
	if err != nil {
		return database.Column{}, err
	}

	right, err := e.right.VerifierEvaluate(builder, accessor)
	if err != nil {
		return database.Column{}, err
	}

	claimed, err := builder.Open(e.op.label())
	if err != nil {
		return database.Column{}, err
	}

	expected, err := e.combine(left, right)
	if err != nil {
		return database.Column{}, err
	}

	equal, err := columnsEqual(claimed, expected)
	if err != nil {
		return database.Column{}, err
	}

	if !equal {
		return database.Column{}, prooferr.New(prooferr.Verification, e.op.label()+" result does not match its operands")
	}

	return claimed, nil
}

var (
	_ DynProofExpr = (*AddExpr)(nil)
	_ DynProofExpr = (*SubExpr)(nil)
	_ DynProofExpr = (*MulExpr)(nil)
)
