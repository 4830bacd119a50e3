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

import "fmt"

// Kind enumerates the variants a ColumnType may take.
type Kind uint8

const (
	// KindBoolean is a boolean column.
	KindBoolean Kind = iota
	// KindBigInt is a 64-bit signed integer column.
	KindBigInt
	// KindInt128 is a 128-bit signed integer column.
	KindInt128
	// KindDecimal75 is a fixed-precision decimal column, backed by I256.
	KindDecimal75
	// KindVarChar is a UTF-8 text column.
	KindVarChar
	// KindScalar is a raw field-element column with no external columnar
	// representation.
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "BOOLEAN"
	case KindBigInt:
		return "BIGINT"
	case KindInt128:
		return "INT128"
	case KindDecimal75:
		return "DECIMAL75"
	case KindVarChar:
		return "VARCHAR"
	case KindScalar:
		return "SCALAR"
	default:
		return "UNKNOWN"
	}
}

// ColumnType identifies the logical type of a Column: one of Boolean,
// BigInt, Int128, Decimal75(precision, scale), VarChar, or Scalar.
// ColumnType is comparable (==) so it can be used as a map key and compared
// directly in plan-building type checks.
type ColumnType struct {
	Kind Kind
	// Precision is only meaningful for KindDecimal75: 1..75.
	Precision uint8
	// Scale is only meaningful for KindDecimal75: may be negative.
	Scale int8
}

// Boolean is the Boolean column type.
var Boolean = ColumnType{Kind: KindBoolean}

// BigIntType is the 64-bit signed integer column type.
var BigIntType = ColumnType{Kind: KindBigInt}

// Int128Type is the 128-bit signed integer column type.
var Int128Type = ColumnType{Kind: KindInt128}

// VarChar is the UTF-8 text column type.
var VarChar = ColumnType{Kind: KindVarChar}

// ScalarType is the raw field-element column type.
var ScalarType = ColumnType{Kind: KindScalar}

// MaxDecimalPrecision is the largest precision a Decimal75 may declare.
const MaxDecimalPrecision = 75

// NewDecimal75 constructs a Decimal75(precision, scale) column type. It
// fails if precision is outside 1..75.
func NewDecimal75(precision uint8, scale int8) (ColumnType, error) {
	if precision < 1 || precision > MaxDecimalPrecision {
		return ColumnType{}, fmt.Errorf("database: decimal precision %d out of range 1..%d", precision, MaxDecimalPrecision)
	}

	return ColumnType{Kind: KindDecimal75, Precision: precision, Scale: scale}, nil
}

// IsNumeric reports whether t participates in arithmetic (add/sub/mul).
func (t ColumnType) IsNumeric() bool {
	switch t.Kind {
	case KindBigInt, KindInt128, KindDecimal75:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (t ColumnType) String() string {
	if t.Kind == KindDecimal75 {
		return fmt.Sprintf("DECIMAL75(%d,%d)", t.Precision, t.Scale)
	}

	return t.Kind.String()
}
