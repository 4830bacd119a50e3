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
	"math/big"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/i256"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/prooferr"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

var (
	int64Bound  = new(big.Int).Lsh(big.NewInt(1), 63)
	minBigInt64 = new(big.Int).Neg(int64Bound)
	maxBigInt64 = new(big.Int).Sub(int64Bound, big.NewInt(1))

	// int128Bound is the absolute bound of the Int128 (128-bit signed) range.
	int128Bound = new(big.Int).Lsh(big.NewInt(1), 127)
	minInt128   = new(big.Int).Neg(int128Bound)
	maxInt128   = new(big.Int).Sub(int128Bound, big.NewInt(1))
)

// decimalPlaceholder gives an integer operand a notional (precision, scale)
// so it can be widened against a genuine Decimal75 operand: BigInt fits in
// 19 decimal digits, Int128 in 39, both with scale 0.
func decimalPlaceholder(t database.ColumnType) (precision uint8, scale int8, ok bool) {
	switch t.Kind {
	case database.KindBigInt:
		return 19, 0, true
	case database.KindInt128:
		return 39, 0, true
	case database.KindDecimal75:
		return t.Precision, t.Scale, true
	default:
		return 0, 0, false
	}
}

// integerRank orders the plain-integer kinds by width; higher ranks widen
// over lower ones in non-decimal arithmetic.
func integerRank(k database.Kind) (int, bool) {
	switch k {
	case database.KindBigInt:
		return 0, true
	case database.KindInt128:
		return 1, true
	default:
		return 0, false
	}
}

func integerKindByRank(rank int) database.ColumnType {
	if rank == 0 {
		return database.BigIntType
	}

	return database.Int128Type
}

// TryAddSubtractColumnTypes resolves the result type of an Add or Sub
// between two numeric column types, per spec §4.E's widening rules:
// plain integers widen to the wider of the two; mixing a Decimal75 operand
// in promotes the result to Decimal75, widening precision by one digit (to
// absorb a possible carry) after equalising scale; Boolean, VarChar, and
// Scalar are not numeric and are rejected.
func TryAddSubtractColumnTypes(a, b database.ColumnType) (database.ColumnType, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return database.ColumnType{}, prooferr.New(prooferr.PlanType,
			"add/sub requires numeric operands, got "+a.String()+" and "+b.String())
	}

	if a.Kind != database.KindDecimal75 && b.Kind != database.KindDecimal75 {
		ra, _ := integerRank(a.Kind)
		rb, _ := integerRank(b.Kind)

		if ra > rb {
			return integerKindByRank(ra), nil
		}

		return integerKindByRank(rb), nil
	}

	pa, sa, _ := decimalPlaceholder(a)
	pb, sb, _ := decimalPlaceholder(b)

	scale := sa
	if sb > scale {
		scale = sb
	}

	integerDigitsA := int(pa) - int(sa)
	integerDigitsB := int(pb) - int(sb)

	integerDigits := integerDigitsA
	if integerDigitsB > integerDigits {
		integerDigits = integerDigitsB
	}

	precision := integerDigits + int(scale) + 1
	if precision > database.MaxDecimalPrecision {
		return database.ColumnType{}, prooferr.New(prooferr.PlanType,
			"add/sub result precision exceeds the decimal maximum for "+a.String()+" and "+b.String())
	}

	return database.NewDecimal75(uint8(precision), scale)
}

// TryMultiplyColumnTypes resolves the result type of a Mul between two
// numeric column types: plain integers widen to the wider of the two
// (Int128 x BigInt -> Int128); a Decimal75 operand promotes the result to
// Decimal75, with precision and scale both additive (mirroring how
// multiplying two decimal mantissas multiplies their scale factors).
func TryMultiplyColumnTypes(a, b database.ColumnType) (database.ColumnType, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return database.ColumnType{}, prooferr.New(prooferr.PlanType,
			"mul requires numeric operands, got "+a.String()+" and "+b.String())
	}

	if a.Kind != database.KindDecimal75 && b.Kind != database.KindDecimal75 {
		ra, _ := integerRank(a.Kind)
		rb, _ := integerRank(b.Kind)

		if ra > rb {
			return integerKindByRank(ra), nil
		}

		return integerKindByRank(rb), nil
	}

	pa, sa, _ := decimalPlaceholder(a)
	pb, sb, _ := decimalPlaceholder(b)

	precision := int(pa) + int(pb) + 1
	if precision > database.MaxDecimalPrecision {
		return database.ColumnType{}, prooferr.New(prooferr.PlanType,
			"mul result precision exceeds the decimal maximum for "+a.String()+" and "+b.String())
	}

	scale := int(sa) + int(sb)
	if scale > 127 {
		scale = 127
	}

	return database.NewDecimal75(uint8(precision), int8(scale))
}

// tryEqualsColumnTypes resolves whether a and b may be compared for
// equality: any two non-decimal columns of identical type, or two Decimal75
// columns of identical scale (their mantissas are then directly
// comparable once zero-extended to the same precision).
func tryEqualsColumnTypes(a, b database.ColumnType) error {
	if a.Kind == database.KindDecimal75 && b.Kind == database.KindDecimal75 {
		if a.Scale != b.Scale {
			return prooferr.New(prooferr.PlanType, "equals requires matching decimal scale")
		}

		return nil
	}

	if a != b {
		return prooferr.New(prooferr.PlanType, "equals requires matching types, got "+a.String()+" and "+b.String())
	}

	return nil
}

// ColumnFromScalars decodes a slice of raw scalar encodings back into a
// natively-typed Column of type ty. Exported for pkg/proofplan, which
// reconstructs a FilterExec result column from its dense witness scalars.
func ColumnFromScalars(ty database.ColumnType, values []scalar.Scalar) (database.Column, error) {
	return columnFromScalars(ty, values)
}

// columnFromScalars decodes a slice of raw scalar encodings back into a
// natively-typed Column of type ty, the inverse of Column.ToScalars for
// every invertible type (every type except VarChar, which arithmetic
// expressions never produce).
func columnFromScalars(ty database.ColumnType, values []scalar.Scalar) (database.Column, error) {
	switch ty.Kind {
	case database.KindBoolean:
		bools := make([]bool, len(values))

		for i, v := range values {
			switch {
			case v.Equal(scalar.Zero):
				bools[i] = false
			case v.Equal(scalar.One):
				bools[i] = true
			default:
				return database.Column{}, prooferr.New(prooferr.Arithmetic, "boolean result out of range")
			}
		}

		return database.NewBooleanColumn(bools), nil

	case database.KindBigInt:
		ints := make([]int64, len(values))

		for i, v := range values {
			signed := v.SignedBigInt()
			if signed.Cmp(minBigInt64) < 0 || signed.Cmp(maxBigInt64) > 0 {
				return database.Column{}, prooferr.New(prooferr.EvaluationOverflow, "bigint result out of range")
			}

			ints[i] = signed.Int64()
		}

		return database.NewBigIntColumn(ints), nil

	case database.KindInt128:
		bigints := make([]*big.Int, len(values))

		for i, v := range values {
			signed := v.SignedBigInt()
			if signed.Cmp(minInt128) < 0 || signed.Cmp(maxInt128) > 0 {
				return database.Column{}, prooferr.New(prooferr.EvaluationOverflow, "int128 result out of range")
			}

			bigints[i] = signed
		}

		return database.NewInt128Column(bigints), nil

	case database.KindDecimal75:
		decimals := make([]i256.I256, len(values))

		for i, v := range values {
			decimals[i] = i256.ScalarToI256(v)
		}

		return database.NewDecimal75Column(ty.Precision, ty.Scale, decimals)

	case database.KindScalar:
		return database.NewScalarColumn(values), nil

	default:
		return database.Column{}, prooferr.New(prooferr.PlanType, "cannot materialise result of type "+ty.String())
	}
}

// scalarPow10 returns the scalar encoding of 10^exp (exp may be negative,
// in which case it is treated as 10^0 = 1: a negative rescale exponent
// would mean widening produced a smaller scale than an operand, which
// TryAddSubtractColumnTypes never does).
func scalarPow10(exp int) scalar.Scalar {
	if exp <= 0 {
		return scalar.One
	}

	v := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)

	return scalar.FromInt128(v)
}

// columnsEqual reports whether a and b encode the same sequence of scalars,
// the row-wise identity check behind every arithmetic and predicate node's
// VerifierEvaluate.
func columnsEqual(a, b database.Column) (bool, error) {
	if a.Len() != b.Len() {
		return false, nil
	}

	as, err := a.ToScalars()
	if err != nil {
		return false, err
	}

	bs, err := b.ToScalars()
	if err != nil {
		return false, err
	}

	for i := range as {
		if !as[i].Equal(bs[i]) {
			return false, nil
		}
	}

	return true, nil
}
