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
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/i256"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

// Column is a typed, length-homogeneous vector: one of the six variants in
// ColumnType. Exactly one of the backing slices is populated, selected by
// ty.Kind.
type Column struct {
	ty          ColumnType
	boolData    []bool
	bigIntData  []int64
	int128Data  []*big.Int
	decimalData []i256.I256
	varCharData []string
	scalarData  []scalar.Scalar
}

// NewBooleanColumn constructs a Boolean column.
func NewBooleanColumn(data []bool) Column {
	return Column{ty: Boolean, boolData: data}
}

// NewBigIntColumn constructs a BigInt (64-bit signed) column.
func NewBigIntColumn(data []int64) Column {
	return Column{ty: BigIntType, bigIntData: data}
}

// NewInt128Column constructs an Int128 (128-bit signed) column. Each value
// must already fit in 128 bits signed; this is not re-checked here.
func NewInt128Column(data []*big.Int) Column {
	return Column{ty: Int128Type, int128Data: data}
}

// NewDecimal75Column constructs a Decimal75(precision, scale) column whose
// values are I256 integers representing the unscaled decimal mantissa.
func NewDecimal75Column(precision uint8, scale int8, data []i256.I256) (Column, error) {
	ty, err := NewDecimal75(precision, scale)
	if err != nil {
		return Column{}, err
	}

	return Column{ty: ty, decimalData: data}, nil
}

// NewVarCharColumn constructs a VarChar (UTF-8 text) column.
func NewVarCharColumn(data []string) Column {
	return Column{ty: VarChar, varCharData: data}
}

// NewScalarColumn constructs a raw Scalar column. Scalar columns have no
// external columnar representation; see pkg/arrowbridge.
func NewScalarColumn(data []scalar.Scalar) Column {
	return Column{ty: ScalarType, scalarData: data}
}

// Type returns the column's logical type.
func (c Column) Type() ColumnType {
	return c.ty
}

// Len returns the number of rows in the column.
func (c Column) Len() int {
	switch c.ty.Kind {
	case KindBoolean:
		return len(c.boolData)
	case KindBigInt:
		return len(c.bigIntData)
	case KindInt128:
		return len(c.int128Data)
	case KindDecimal75:
		return len(c.decimalData)
	case KindVarChar:
		return len(c.varCharData)
	case KindScalar:
		return len(c.scalarData)
	default:
		return 0
	}
}

// BoolAt returns the value at row i of a Boolean column.
func (c Column) BoolAt(i int) bool { return c.boolData[i] }

// BigIntAt returns the value at row i of a BigInt column.
func (c Column) BigIntAt(i int) int64 { return c.bigIntData[i] }

// Int128At returns the value at row i of an Int128 column.
func (c Column) Int128At(i int) *big.Int { return c.int128Data[i] }

// Decimal75At returns the value at row i of a Decimal75 column.
func (c Column) Decimal75At(i int) i256.I256 { return c.decimalData[i] }

// Decimal75StringAt renders row i of a Decimal75 column in human-readable
// decimal notation (e.g. "12.340"), applying the column's scale to the
// stored unscaled mantissa. Panics if c is not a Decimal75 column.
func (c Column) Decimal75StringAt(i int) string {
	return decimal.NewFromBigInt(c.decimalData[i].BigInt(), -int32(c.ty.Scale)).String()
}

// StringAt renders row i of any column as a human-readable string, the way
// the CLI reports query results: decimal notation for Decimal75, Go's
// default formatting otherwise.
func (c Column) StringAt(i int) string {
	switch c.ty.Kind {
	case KindBoolean:
		return fmt.Sprintf("%v", c.boolData[i])
	case KindBigInt:
		return fmt.Sprintf("%d", c.bigIntData[i])
	case KindInt128:
		return c.int128Data[i].String()
	case KindDecimal75:
		return c.Decimal75StringAt(i)
	case KindVarChar:
		return c.varCharData[i]
	case KindScalar:
		return c.scalarData[i].String()
	default:
		return ""
	}
}

// VarCharAt returns the value at row i of a VarChar column.
func (c Column) VarCharAt(i int) string { return c.varCharData[i] }

// ScalarAt returns the value at row i of a Scalar column.
func (c Column) ScalarAt(i int) scalar.Scalar { return c.scalarData[i] }

// ScalarEncode folds row i into its canonical field-scalar encoding, the
// representation the prover uses for every constraint. VarChar uses a
// deterministic hash into the field; Decimal75 values are I256 in range;
// Boolean encodes to {0,1}.
func (c Column) ScalarEncode(i int) (scalar.Scalar, error) {
	switch c.ty.Kind {
	case KindBoolean:
		if c.boolData[i] {
			return scalar.One, nil
		}

		return scalar.Zero, nil
	case KindBigInt:
		return scalar.FromInt64(c.bigIntData[i]), nil
	case KindInt128:
		return scalar.FromInt128(c.int128Data[i]), nil
	case KindDecimal75:
		s, err := i256.I256ToScalar(c.decimalData[i])
		if err != nil {
			return scalar.Scalar{}, fmt.Errorf("database: decimal75 row %d: %w", i, err)
		}

		return s, nil
	case KindVarChar:
		digest := sha256.Sum256([]byte(c.varCharData[i]))

		s, err := scalar.FromWideBytes(digest[:])
		if err != nil {
			return scalar.Scalar{}, fmt.Errorf("database: varchar row %d: %w", i, err)
		}

		return s, nil
	case KindScalar:
		return c.scalarData[i], nil
	default:
		return scalar.Scalar{}, fmt.Errorf("database: unknown column kind %v", c.ty.Kind)
	}
}

// ToScalars folds every row of the column into its field-scalar encoding,
// in row order.
func (c Column) ToScalars() ([]scalar.Scalar, error) {
	out := make([]scalar.Scalar, c.Len())

	for i := range out {
		s, err := c.ScalarEncode(i)
		if err != nil {
			return nil, err
		}

		out[i] = s
	}

	return out, nil
}

// Slice returns the sub-column covering rows [start, end).
func (c Column) Slice(start, end int) Column {
	switch c.ty.Kind {
	case KindBoolean:
		return Column{ty: c.ty, boolData: c.boolData[start:end]}
	case KindBigInt:
		return Column{ty: c.ty, bigIntData: c.bigIntData[start:end]}
	case KindInt128:
		return Column{ty: c.ty, int128Data: c.int128Data[start:end]}
	case KindDecimal75:
		return Column{ty: c.ty, decimalData: c.decimalData[start:end]}
	case KindVarChar:
		return Column{ty: c.ty, varCharData: c.varCharData[start:end]}
	case KindScalar:
		return Column{ty: c.ty, scalarData: c.scalarData[start:end]}
	default:
		return Column{}
	}
}
