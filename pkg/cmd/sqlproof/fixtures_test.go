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
package sqlproof

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/commitment"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/queryresult"
)

const tableFixture = `{
	"table": {"schema": "sxt", "table": "orders"},
	"offset": 0,
	"columns": [
		{"name": "qty", "type": {"kind": "bigint"}, "values": [1, 2, 3, 4]},
		{"name": "price", "type": {"kind": "bigint"}, "values": [10, 20, 30, 40]}
	]
}`

const planFixture = `{
	"op": "filter",
	"exprs": [
		{"expr": {"op": "column", "table": {"schema": "sxt", "table": "orders"}, "name": "price", "type": {"kind": "bigint"}}, "alias": "price"}
	],
	"predicate": {
		"op": "equals",
		"left": {"op": "column", "table": {"schema": "sxt", "table": "orders"}, "name": "qty", "type": {"kind": "bigint"}},
		"right": {"op": "literal", "type": {"kind": "bigint"}, "value": "2"}
	},
	"input": {
		"op": "table",
		"table": {"schema": "sxt", "table": "orders"},
		"schema": [
			{"name": "qty", "type": {"kind": "bigint"}},
			{"name": "price", "type": {"kind": "bigint"}}
		]
	}
}`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error writing fixture: %v", err)
	}

	return path
}

func TestLoadTableAndPlanProveVerifyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tablePath := writeFixture(t, dir, "table.json", tableFixture)
	planPath := writeFixture(t, dir, "plan.json", planFixture)

	table, schema, tbl, err := LoadTable(tablePath)
	if err != nil {
		t.Fatalf("unexpected error loading table: %v", err)
	}

	plan, err := LoadPlan(planPath)
	if err != nil {
		t.Fatalf("unexpected error loading plan: %v", err)
	}

	engine := commitment.NewPedersenEngine("sqlproof-test")

	accessor, err := database.NewOwnedTableAccessor(table, tbl, 0, engine)
	if err != nil {
		t.Fatalf("unexpected error building accessor: %v", err)
	}

	vqr, err := queryresult.Prove("sqlproof-test/v1", plan, accessor)
	if err != nil {
		t.Fatalf("unexpected error proving: %v", err)
	}

	commits, err := CommitmentsFromTable(table, schema, tbl, 0, engine)
	if err != nil {
		t.Fatalf("unexpected error deriving commitments: %v", err)
	}

	commitmentColumns := make([]commitmentJSON, len(schema))
	for i, f := range schema {
		commitmentColumns[i] = commitmentJSON{
			Name:       f.Name.Name(),
			Type:       columnTypeJSON{Kind: "bigint"},
			Commitment: commits[f.Name.Name()],
		}
	}

	var planJ planJSON
	if err := json.Unmarshal([]byte(planFixture), &planJ); err != nil {
		t.Fatalf("unexpected error parsing plan fixture: %v", err)
	}

	commitmentsFile := commitmentsFileJSON{
		Table:    tableRefJSON{Schema: "sxt", Table: "orders"},
		Offset:   0,
		RowCount: uint64(tbl.NumRows()),
		Columns:  commitmentColumns,
		Plan:     planJ,
	}

	raw, err := json.Marshal(commitmentsFile)
	if err != nil {
		t.Fatalf("unexpected error marshalling commitments: %v", err)
	}

	commitmentsPath := writeFixture(t, dir, "commitments.json", string(raw))

	verifierAccessor, verifierPlan, err := LoadCommitments(commitmentsPath, engine)
	if err != nil {
		t.Fatalf("unexpected error loading commitments: %v", err)
	}

	result, err := vqr.Verify("sqlproof-test/v1", verifierPlan, verifierAccessor)
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}

	col, ok := result.Column(database.MustIdentifier("price"))
	if !ok {
		t.Fatal("expected column price in result")
	}

	want := []int64{20}
	if col.Len() != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), col.Len())
	}

	for i, w := range want {
		if col.BigIntAt(i) != w {
			t.Fatalf("row %d: got %d want %d", i, col.BigIntAt(i), w)
		}
	}
}

func TestLoadTableRejectsMalformedFixture(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "table.json", `{"table": {"schema": "sxt", "table": "orders"}, "columns": [{"name": "qty", "type": {"kind": "unknown"}, "values": []}]}`)

	if _, _, _, err := LoadTable(path); err == nil {
		t.Fatal("expected an error loading a fixture with an unknown column kind")
	}
}

func TestBuildExprRejectsUnknownOp(t *testing.T) {
	if _, err := buildExpr(exprJSON{Op: "frobnicate"}); err == nil {
		t.Fatal("expected an error for an unknown expr op")
	}
}
