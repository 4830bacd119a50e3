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
package proofplan

import (
	"testing"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/arena"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/commitment"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofbuilder"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofexpr"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/prooferr"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/transcript"
)

func testOrdersTable(t *testing.T, qty, price []int64) (database.TableRef, []database.ColumnField, *database.OwnedTableAccessor) {
	t.Helper()
	return testOrdersTableWithEngine(t, qty, price, commitment.NewPedersenEngine("sxt-proof-of-sql/pedersen"))
}

func testOrdersTableWithEngine(t *testing.T, qty, price []int64, engine commitment.Engine) (database.TableRef, []database.ColumnField, *database.OwnedTableAccessor) {
	t.Helper()

	table, err := database.NewTableRef("sxt", "orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	schema := []database.ColumnField{
		{Name: database.MustIdentifier("qty"), Type: database.BigIntType},
		{Name: database.MustIdentifier("price"), Type: database.BigIntType},
	}

	tbl, err := database.TryNewOwnedTable(
		[]database.Identifier{database.MustIdentifier("qty"), database.MustIdentifier("price")},
		[]database.Column{database.NewBigIntColumn(qty), database.NewBigIntColumn(price)},
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

// runPlan drives plan's two rounds using accessor's own commitment engine on
// both the prover and verifier side, as queryresult.Prove/Verify do — never
// a second, independently constructed engine, which would use a different
// (non-interoperable) commitment basis and make every leaf claim fail to
// match accessor's pre-committed commitments regardless of tampering.
func runPlan(t *testing.T, plan DynProofPlan, accessor *database.OwnedTableAccessor) (database.OwnedTable, error) {
	t.Helper()

	pb := proofbuilder.NewProverBuilder(transcript.New("sxt-proof-of-sql/v1"), accessor.Engine())

	if _, err := plan.FirstRoundEvaluate(pb, accessor); err != nil {
		t.Fatalf("unexpected prover first-round error: %v", err)
	}

	ar := arena.New()

	if _, err := plan.FinalRoundEvaluate(pb, ar, accessor); err != nil {
		t.Fatalf("unexpected prover final-round error: %v", err)
	}

	proof := pb.Finish()

	vb := proofbuilder.NewVerifierBuilder(transcript.New("sxt-proof-of-sql/v1"), accessor.Engine(), proof)

	if _, err := plan.VerifierFirstRound(vb, accessor); err != nil {
		return database.OwnedTable{}, err
	}

	result, err := plan.VerifierEvaluate(vb, accessor)
	if err != nil {
		return database.OwnedTable{}, err
	}

	if err := vb.Done(); err != nil {
		return database.OwnedTable{}, err
	}

	return result, nil
}

func TestTableExecRoundTrip(t *testing.T) {
	table, _, accessor := testOrdersTable(t, []int64{1, 2, 3}, []int64{10, 20, 30})

	plan := NewTableExec(table, []database.ColumnField{
		{Name: database.MustIdentifier("qty"), Type: database.BigIntType},
		{Name: database.MustIdentifier("price"), Type: database.BigIntType},
	})

	result, err := runPlan(t, plan, accessor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.NumRows() != 3 {
		t.Fatalf("got %d rows, want 3", result.NumRows())
	}
}

func TestProjectionArithmetic(t *testing.T) {
	table, schema, accessor := testOrdersTable(t, []int64{1, 2, 3}, []int64{10, 20, 30})

	qtyRef := database.NewColumnRef(table, database.MustIdentifier("qty"), database.BigIntType)
	priceRef := database.NewColumnRef(table, database.MustIdentifier("price"), database.BigIntType)

	total, err := proofexpr.NewMulExpr(proofexpr.NewColumnExpr(qtyRef), proofexpr.NewColumnExpr(priceRef))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan := NewProjectionExec(
		[]AliasedExpr{{Expr: total, Alias: database.MustIdentifier("total")}},
		NewTableExec(table, schema),
	)

	result, err := runPlan(t, plan, accessor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	col, ok := result.Column(database.MustIdentifier("total"))
	if !ok {
		t.Fatalf("expected column total in result")
	}

	want := []int64{10, 40, 90}
	for i, w := range want {
		if col.BigIntAt(i) != w {
			t.Fatalf("row %d: got %d want %d", i, col.BigIntAt(i), w)
		}
	}
}

func TestProjectionZeroArity(t *testing.T) {
	table, schema, accessor := testOrdersTable(t, []int64{1, 2, 3}, []int64{10, 20, 30})

	plan := NewProjectionExec(nil, NewTableExec(table, schema))

	result, err := runPlan(t, plan, accessor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Fields()) != 0 {
		t.Fatalf("expected zero-column result, got %d columns", len(result.Fields()))
	}
}

func TestFilterEquality(t *testing.T) {
	table, schema, accessor := testOrdersTable(t, []int64{1, 2, 3, 2}, []int64{10, 20, 30, 40})

	qtyRef := database.NewColumnRef(table, database.MustIdentifier("qty"), database.BigIntType)
	priceRef := database.NewColumnRef(table, database.MustIdentifier("price"), database.BigIntType)

	two := proofexpr.NewLiteralExpr(scalar.FromInt64(2), database.BigIntType)

	predicate, err := proofexpr.NewEqualsExpr(proofexpr.NewColumnExpr(qtyRef), two)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan, err := NewFilterExec(
		[]AliasedExpr{{Expr: proofexpr.NewColumnExpr(priceRef), Alias: database.MustIdentifier("price")}},
		predicate,
		NewTableExec(table, schema),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := runPlan(t, plan, accessor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.NumRows() != 2 {
		t.Fatalf("got %d rows, want 2", result.NumRows())
	}

	col, ok := result.Column(database.MustIdentifier("price"))
	if !ok {
		t.Fatalf("expected column price in result")
	}

	want := []int64{20, 40}
	for i, w := range want {
		if col.BigIntAt(i) != w {
			t.Fatalf("row %d: got %d want %d", i, col.BigIntAt(i), w)
		}
	}
}

func TestFilterNonZeroLiteral(t *testing.T) {
	table, schema, accessor := testOrdersTable(t, []int64{123, 5, 123, 7}, []int64{1, 2, 3, 4})

	qtyRef := database.NewColumnRef(table, database.MustIdentifier("qty"), database.BigIntType)
	priceRef := database.NewColumnRef(table, database.MustIdentifier("price"), database.BigIntType)

	lit := proofexpr.NewLiteralExpr(scalar.FromInt64(123), database.BigIntType)

	isMatch, err := proofexpr.NewEqualsExpr(proofexpr.NewColumnExpr(qtyRef), lit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan, err := NewFilterExec(
		[]AliasedExpr{{Expr: proofexpr.NewColumnExpr(priceRef), Alias: database.MustIdentifier("price")}},
		isMatch,
		NewTableExec(table, schema),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := runPlan(t, plan, accessor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.NumRows() != 2 {
		t.Fatalf("got %d rows, want 2", result.NumRows())
	}

	col, ok := result.Column(database.MustIdentifier("price"))
	if !ok {
		t.Fatalf("expected column price in result")
	}

	want := []int64{1, 3}
	for i, w := range want {
		if col.BigIntAt(i) != w {
			t.Fatalf("row %d: got %d want %d", i, col.BigIntAt(i), w)
		}
	}
}

func TestFilterRejectsNonBooleanPredicate(t *testing.T) {
	table, schema, _ := testOrdersTable(t, []int64{1}, []int64{1})
	priceRef := database.NewColumnRef(table, database.MustIdentifier("price"), database.BigIntType)

	_, err := NewFilterExec(nil, proofexpr.NewColumnExpr(priceRef), NewTableExec(table, schema))
	if err == nil {
		t.Fatal("expected PlanType error for non-boolean predicate")
	}

	if !prooferr.Is(err, prooferr.PlanType) {
		t.Fatalf("expected PlanType error kind, got %v", err)
	}
}

func TestFilterTamperedAccessorRejected(t *testing.T) {
	engine := commitment.NewPedersenEngine("sxt-proof-of-sql/pedersen")

	table, schema, proverAccessor := testOrdersTableWithEngine(t, []int64{1, 2, 3}, []int64{10, 20, 30}, engine)
	_, _, tamperedAccessor := testOrdersTableWithEngine(t, []int64{1, 2, 3}, []int64{10, 99, 30}, engine)

	qtyRef := database.NewColumnRef(table, database.MustIdentifier("qty"), database.BigIntType)
	priceRef := database.NewColumnRef(table, database.MustIdentifier("price"), database.BigIntType)

	two := proofexpr.NewLiteralExpr(scalar.FromInt64(2), database.BigIntType)

	predicate, err := proofexpr.NewEqualsExpr(proofexpr.NewColumnExpr(qtyRef), two)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan, err := NewFilterExec(
		[]AliasedExpr{{Expr: proofexpr.NewColumnExpr(priceRef), Alias: database.MustIdentifier("price")}},
		predicate,
		NewTableExec(table, schema),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pb := proofbuilder.NewProverBuilder(transcript.New("sxt-proof-of-sql/v1"), proverAccessor.Engine())

	if _, err := plan.FirstRoundEvaluate(pb, proverAccessor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ar := arena.New()

	if _, err := plan.FinalRoundEvaluate(pb, ar, proverAccessor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	proof := pb.Finish()

	vb := proofbuilder.NewVerifierBuilder(transcript.New("sxt-proof-of-sql/v1"), proverAccessor.Engine(), proof)

	if _, err := plan.VerifierFirstRound(vb, proverAccessor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = plan.VerifierEvaluate(vb, tamperedAccessor)
	if err == nil {
		t.Fatal("expected verification failure against a tampered accessor")
	}

	if !prooferr.Is(err, prooferr.Verification) {
		t.Fatalf("expected Verification error kind, got %v", err)
	}
}
