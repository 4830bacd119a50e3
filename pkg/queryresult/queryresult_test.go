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
package queryresult

import (
	"testing"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/commitment"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofexpr"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/prooferr"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofplan"
)

func testTable(t *testing.T, a, b []int64) (database.TableRef, []database.ColumnField, *database.OwnedTableAccessor) {
	t.Helper()
	return testTableWithEngine(t, a, b, commitment.NewPedersenEngine("sxt-proof-of-sql/pedersen"))
}

func testTableWithEngine(t *testing.T, a, b []int64, engine commitment.Engine) (database.TableRef, []database.ColumnField, *database.OwnedTableAccessor) {
	t.Helper()

	table, err := database.NewTableRef("sxt", "t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	schema := []database.ColumnField{
		{Name: database.MustIdentifier("a"), Type: database.BigIntType},
		{Name: database.MustIdentifier("b"), Type: database.BigIntType},
	}

	tbl, err := database.TryNewOwnedTable(
		[]database.Identifier{database.MustIdentifier("a"), database.MustIdentifier("b")},
		[]database.Column{database.NewBigIntColumn(a), database.NewBigIntColumn(b)},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	acc, err := database.NewOwnedTableAccessor(table, tbl, 0, engine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return table, schema, acc
}

func TestProveVerifyBasicProjection(t *testing.T) {
	table, schema, accessor := testTable(t, []int64{1, 4, 5, 2, 5}, []int64{1, 2, 3, 4, 5})

	bRef := database.NewColumnRef(table, database.MustIdentifier("b"), database.BigIntType)
	plan := proofplan.NewProjectionExec(
		[]proofplan.AliasedExpr{{Expr: proofexpr.NewColumnExpr(bRef), Alias: database.MustIdentifier("b")}},
		proofplan.NewTableExec(table, schema),
	)

	vqr, err := Prove("sxt-proof-of-sql/v1", plan, accessor)
	if err != nil {
		t.Fatalf("unexpected prove error: %v", err)
	}

	result, err := vqr.Verify("sxt-proof-of-sql/v1", plan, accessor)
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}

	col, ok := result.Column(database.MustIdentifier("b"))
	if !ok {
		t.Fatal("expected column b in result")
	}

	want := []int64{1, 2, 3, 4, 5}
	for i, w := range want {
		if col.BigIntAt(i) != w {
			t.Fatalf("row %d: got %d want %d", i, col.BigIntAt(i), w)
		}
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	table, schema, accessor := testTable(t, []int64{1, 2, 3}, []int64{10, 20, 30})

	bRef := database.NewColumnRef(table, database.MustIdentifier("b"), database.BigIntType)
	plan := proofplan.NewProjectionExec(
		[]proofplan.AliasedExpr{{Expr: proofexpr.NewColumnExpr(bRef), Alias: database.MustIdentifier("b")}},
		proofplan.NewTableExec(table, schema),
	)

	vqr, err := Prove("sxt-proof-of-sql/v1", plan, accessor)
	if err != nil {
		t.Fatalf("unexpected prove error: %v", err)
	}

	wire, err := vqr.Serialize()
	if err != nil {
		t.Fatalf("unexpected serialize error: %v", err)
	}

	decoded, err := Deserialize(wire)
	if err != nil {
		t.Fatalf("unexpected deserialize error: %v", err)
	}

	result, err := decoded.Verify("sxt-proof-of-sql/v1", plan, accessor)
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}

	col, ok := result.Column(database.MustIdentifier("b"))
	if !ok {
		t.Fatal("expected column b in result")
	}

	want := []int64{10, 20, 30}
	for i, w := range want {
		if col.BigIntAt(i) != w {
			t.Fatalf("row %d: got %d want %d", i, col.BigIntAt(i), w)
		}
	}
}

func TestVerifyTamperDetection(t *testing.T) {
	engine := commitment.NewPedersenEngine("sxt-proof-of-sql/pedersen")

	table, schema, proverAccessor := testTableWithEngine(t, []int64{1, 2, 3}, []int64{10, 20, 30}, engine)
	_, _, tamperedAccessor := testTableWithEngine(t, []int64{1, 2, 3}, []int64{10, 99, 30}, engine)

	bRef := database.NewColumnRef(table, database.MustIdentifier("b"), database.BigIntType)
	plan := proofplan.NewProjectionExec(
		[]proofplan.AliasedExpr{{Expr: proofexpr.NewColumnExpr(bRef), Alias: database.MustIdentifier("b")}},
		proofplan.NewTableExec(table, schema),
	)

	vqr, err := Prove("sxt-proof-of-sql/v1", plan, proverAccessor)
	if err != nil {
		t.Fatalf("unexpected prove error: %v", err)
	}

	_, err = vqr.Verify("sxt-proof-of-sql/v1", plan, tamperedAccessor)
	if err == nil {
		t.Fatal("expected verification failure against a tampered accessor")
	}

	if !prooferr.Is(err, prooferr.Verification) {
		t.Fatalf("expected Verification error kind, got %v", err)
	}
}

func TestDeserializeRejectsNonCanonicalScalar(t *testing.T) {
	table, schema, accessor := testTable(t, []int64{1, 2, 3}, []int64{10, 20, 30})

	bRef := database.NewColumnRef(table, database.MustIdentifier("b"), database.BigIntType)
	plan := proofplan.NewProjectionExec(
		[]proofplan.AliasedExpr{{Expr: proofexpr.NewColumnExpr(bRef), Alias: database.MustIdentifier("b")}},
		proofplan.NewTableExec(table, schema),
	)

	vqr, err := Prove("sxt-proof-of-sql/v1", plan, accessor)
	if err != nil {
		t.Fatalf("unexpected prove error: %v", err)
	}

	wire, err := vqr.Serialize()
	if err != nil {
		t.Fatalf("unexpected serialize error: %v", err)
	}

	// Corrupt the first scalar's bytes (right after the 8+8 byte header, 4
	// byte name length, 1 byte name, 1 byte type tag) into an all-0xff
	// value, which is >= q and so non-canonical.
	offset := 8 + 8 + 4 + 1 + 1
	for i := 0; i < 32; i++ {
		wire[offset+i] = 0xff
	}

	if _, err := Deserialize(wire); err == nil {
		t.Fatal("expected deserialize to reject a non-canonical scalar")
	} else if !prooferr.Is(err, prooferr.Serialisation) {
		t.Fatalf("expected Serialisation error kind, got %v", err)
	}
}
