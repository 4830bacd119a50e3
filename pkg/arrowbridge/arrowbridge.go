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

// Package arrowbridge implements the informative Arrow boundary of spec
// §4.H: round-trippable conversion between database.OwnedTable and Apache
// Arrow record batches (apache/arrow-go/v18), per the mapping table
// Boolean<->BooleanArray, BigInt<->Int64, Int128<->Decimal128(38,0),
// Decimal75(p,s)<->Decimal256(p,s), VarChar<->Utf8. Scalar has no external
// mapping: exporting one is a BoundaryConversion error. Import rejects two
// column names that collide under case-insensitive comparison, even when
// the internal table (case-sensitive) would allow both.
package arrowbridge

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/decimal256"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/i256"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/prooferr"
)

// Int128DecimalPrecision and Int128DecimalScale fix the Decimal128 shape
// Int128 columns export to and import from.
const (
	Int128DecimalPrecision = 38
	Int128DecimalScale     = 0
)

// Export converts tbl into an Arrow record batch. A Scalar-typed column
// makes Export fail with a BoundaryConversion error: spec §4.H names this
// the one variant with no external mapping.
func Export(tbl database.OwnedTable) (arrow.Record, error) {
	mem := memory.NewGoAllocator()

	fields := make([]arrow.Field, tbl.NumColumns())
	columns := make([]arrow.Array, tbl.NumColumns())

	for i := 0; i < tbl.NumColumns(); i++ {
		name := tbl.NameAt(i)
		col := tbl.ColumnAt(i)

		field, arr, err := exportColumn(mem, name.Name(), col)
		if err != nil {
			return nil, err
		}

		fields[i] = field
		columns[i] = arr
	}

	schema := arrow.NewSchema(fields, nil)

	return array.NewRecord(schema, columns, int64(tbl.NumRows())), nil
}

func exportColumn(mem memory.Allocator, name string, col database.Column) (arrow.Field, arrow.Array, error) {
	switch col.Type().Kind {
	case database.KindBoolean:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()

		for i := 0; i < col.Len(); i++ {
			b.Append(col.BoolAt(i))
		}

		return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Boolean}, b.NewArray(), nil

	case database.KindBigInt:
		b := array.NewInt64Builder(mem)
		defer b.Release()

		for i := 0; i < col.Len(); i++ {
			b.Append(col.BigIntAt(i))
		}

		return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64}, b.NewArray(), nil

	case database.KindInt128:
		dt := &arrow.Decimal128Type{Precision: Int128DecimalPrecision, Scale: Int128DecimalScale}
		b := array.NewDecimal128Builder(mem, dt)
		defer b.Release()

		for i := 0; i < col.Len(); i++ {
			v, err := decimal128.FromBigInt(col.Int128At(i))
			if err != nil {
				return arrow.Field{}, nil, prooferr.Wrap(prooferr.BoundaryConversion, "exporting int128 column "+name, err)
			}

			b.Append(v)
		}

		return arrow.Field{Name: name, Type: dt}, b.NewArray(), nil

	case database.KindDecimal75:
		ty := col.Type()
		dt := &arrow.Decimal256Type{Precision: int32(ty.Precision), Scale: int32(ty.Scale)}
		b := array.NewDecimal256Builder(mem, dt)
		defer b.Release()

		for i := 0; i < col.Len(); i++ {
			v, err := decimal256.FromBigInt(col.Decimal75At(i).BigInt())
			if err != nil {
				return arrow.Field{}, nil, prooferr.Wrap(prooferr.BoundaryConversion, "exporting decimal75 column "+name, err)
			}

			b.Append(v)
		}

		return arrow.Field{Name: name, Type: dt}, b.NewArray(), nil

	case database.KindVarChar:
		b := array.NewStringBuilder(mem)
		defer b.Release()

		for i := 0; i < col.Len(); i++ {
			b.Append(col.VarCharAt(i))
		}

		return arrow.Field{Name: name, Type: arrow.BinaryTypes.String}, b.NewArray(), nil

	default:
		return arrow.Field{}, nil, prooferr.New(prooferr.BoundaryConversion, "cannot export column "+name+" of type "+col.Type().String())
	}
}

// Import converts an Arrow record into an OwnedTable. Two column names
// that collide under case-insensitive comparison are rejected with
// BoundaryConversion, even though internal tables are otherwise
// case-sensitive (spec §3's case-sensitivity policy, enforced only at this
// boundary).
func Import(rec arrow.Record) (database.OwnedTable, error) {
	schema := rec.Schema()

	folded := make(map[string]string, schema.NumFields())
	names := make([]database.Identifier, schema.NumFields())
	cols := make([]database.Column, schema.NumFields())

	for i := 0; i < schema.NumFields(); i++ {
		field := schema.Field(i)

		lower := strings.ToLower(field.Name)
		if existing, ok := folded[lower]; ok {
			return database.OwnedTable{}, prooferr.New(prooferr.BoundaryConversion,
				fmt.Sprintf("column %q collides with %q under case-insensitive comparison", field.Name, existing))
		}

		folded[lower] = field.Name

		name, err := database.NewIdentifier(field.Name)
		if err != nil {
			return database.OwnedTable{}, prooferr.Wrap(prooferr.BoundaryConversion, "importing column name "+field.Name, err)
		}

		col, err := importColumn(field, rec.Column(i))
		if err != nil {
			return database.OwnedTable{}, err
		}

		names[i] = name
		cols[i] = col
	}

	tbl, err := database.TryNewOwnedTable(names, cols)
	if err != nil {
		return database.OwnedTable{}, prooferr.Wrap(prooferr.BoundaryConversion, "assembling imported table", err)
	}

	return tbl, nil
}

func importColumn(field arrow.Field, col arrow.Array) (database.Column, error) {
	switch a := col.(type) {
	case *array.Boolean:
		data := make([]bool, a.Len())
		for i := range data {
			data[i] = a.Value(i)
		}

		return database.NewBooleanColumn(data), nil

	case *array.Int64:
		data := make([]int64, a.Len())
		for i := range data {
			data[i] = a.Value(i)
		}

		return database.NewBigIntColumn(data), nil

	case *array.Decimal128:
		data := make([]*big.Int, a.Len())
		for i := range data {
			data[i] = a.Value(i).BigInt()
		}

		return database.NewInt128Column(data), nil

	case *array.Decimal256:
		dt, ok := a.DataType().(*arrow.Decimal256Type)
		if !ok {
			return database.Column{}, prooferr.New(prooferr.BoundaryConversion, "decimal256 column missing type metadata")
		}

		values := make([]i256.I256, a.Len())

		for i := range values {
			v, err := i256.FromBigInt(a.Value(i).BigInt())
			if err != nil {
				return database.Column{}, prooferr.Wrap(prooferr.BoundaryConversion, "importing decimal75 column "+field.Name, err)
			}

			values[i] = v
		}

		col, err := database.NewDecimal75Column(uint8(dt.Precision), int8(dt.Scale), values)
		if err != nil {
			return database.Column{}, prooferr.Wrap(prooferr.BoundaryConversion, "importing decimal75 column "+field.Name, err)
		}

		return col, nil

	case *array.String:
		data := make([]string, a.Len())
		for i := range data {
			data[i] = a.Value(i)
		}

		return database.NewVarCharColumn(data), nil

	default:
		return database.Column{}, prooferr.New(prooferr.BoundaryConversion, "cannot import column "+field.Name+" of Arrow type "+field.Type.Name())
	}
}
