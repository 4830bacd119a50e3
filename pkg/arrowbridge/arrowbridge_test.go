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
package arrowbridge

import (
	"math/big"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/i256"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/prooferr"
)

func TestExportImportRoundTrip(t *testing.T) {
	decimal75, err := database.NewDecimal75Column(20, 2, []i256.I256{
		i256.FromInt64(100),
		i256.FromInt64(-250),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tbl, err := database.TryNewOwnedTable(
		[]database.Identifier{
			database.MustIdentifier("flag"),
			database.MustIdentifier("amount"),
			database.MustIdentifier("big_amount"),
			database.MustIdentifier("precise"),
			database.MustIdentifier("name"),
		},
		[]database.Column{
			database.NewBooleanColumn([]bool{true, false}),
			database.NewBigIntColumn([]int64{1, -2}),
			database.NewInt128Column([]*big.Int{big.NewInt(100), big.NewInt(-200)}),
			decimal75,
			database.NewVarCharColumn([]string{"alice", "bob"}),
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := Export(tbl)
	if err != nil {
		t.Fatalf("unexpected export error: %v", err)
	}
	defer rec.Release()

	if rec.NumRows() != 2 || rec.NumCols() != 5 {
		t.Fatalf("unexpected record shape: rows=%d cols=%d", rec.NumRows(), rec.NumCols())
	}

	imported, err := Import(rec)
	if err != nil {
		t.Fatalf("unexpected import error: %v", err)
	}

	if imported.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", imported.NumRows())
	}

	flag, ok := imported.Column(database.MustIdentifier("flag"))
	if !ok || flag.BoolAt(0) != true || flag.BoolAt(1) != false {
		t.Fatal("boolean column did not round-trip")
	}

	amount, ok := imported.Column(database.MustIdentifier("amount"))
	if !ok || amount.BigIntAt(0) != 1 || amount.BigIntAt(1) != -2 {
		t.Fatal("bigint column did not round-trip")
	}

	bigAmount, ok := imported.Column(database.MustIdentifier("big_amount"))
	if !ok || bigAmount.Int128At(0).Cmp(big.NewInt(100)) != 0 || bigAmount.Int128At(1).Cmp(big.NewInt(-200)) != 0 {
		t.Fatal("int128 column did not round-trip")
	}

	precise, ok := imported.Column(database.MustIdentifier("precise"))
	if !ok || precise.Type().Precision != 20 || precise.Type().Scale != 2 {
		t.Fatal("decimal75 column did not preserve precision/scale")
	}
	if precise.Decimal75At(0).Cmp(i256.FromInt64(100)) != 0 || precise.Decimal75At(1).Cmp(i256.FromInt64(-250)) != 0 {
		t.Fatal("decimal75 column did not round-trip its values")
	}

	name, ok := imported.Column(database.MustIdentifier("name"))
	if !ok || name.VarCharAt(0) != "alice" || name.VarCharAt(1) != "bob" {
		t.Fatal("varchar column did not round-trip")
	}
}

func TestExportRejectsScalarColumn(t *testing.T) {
	tbl, err := database.TryNewOwnedTable(
		[]database.Identifier{database.MustIdentifier("h")},
		[]database.Column{database.NewScalarColumn(nil)},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := Export(tbl); err == nil {
		t.Fatal("expected export of a scalar column to fail")
	} else if !prooferr.Is(err, prooferr.BoundaryConversion) {
		t.Fatalf("expected BoundaryConversion error kind, got %v", err)
	}
}

func TestImportRejectsCaseInsensitiveDuplicateNames(t *testing.T) {
	mem := memory.NewGoAllocator()

	first := array.NewStringBuilder(mem)
	defer first.Release()
	first.Append("a")
	firstArr := first.NewArray()
	defer firstArr.Release()

	second := array.NewStringBuilder(mem)
	defer second.Release()
	second.Append("b")
	secondArr := second.NewArray()
	defer secondArr.Release()

	// Arrow schemas are case-sensitive, so "Name" and "name" coexisting is
	// legal at the Arrow layer; Import must still reject the collision.
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "Name", Type: arrow.BinaryTypes.String},
		{Name: "name", Type: arrow.BinaryTypes.String},
	}, nil)

	rec := array.NewRecord(schema, []arrow.Array{firstArr, secondArr}, 1)
	defer rec.Release()

	if _, err := Import(rec); err == nil {
		t.Fatal("expected import to reject case-insensitive duplicate column names")
	} else if !prooferr.Is(err, prooferr.BoundaryConversion) {
		t.Fatalf("expected BoundaryConversion error kind, got %v", err)
	}
}
