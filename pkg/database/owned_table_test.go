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

import "testing"

func TestTryNewOwnedTableRejectsLengthMismatch(t *testing.T) {
	a := MustIdentifier("a")
	b := MustIdentifier("b")

	_, err := TryNewOwnedTable(
		[]Identifier{a, b},
		[]Column{NewBigIntColumn([]int64{1, 2, 3}), NewBigIntColumn([]int64{1, 2})},
	)
	if err == nil {
		t.Fatal("expected ColumnLengthMismatch")
	}

	if e, ok := err.(*OwnedTableError); !ok || e.Kind != "ColumnLengthMismatch" {
		t.Fatalf("expected ColumnLengthMismatch, got %v", err)
	}
}

func TestTryNewOwnedTableRejectsDuplicateIdentifier(t *testing.T) {
	a := MustIdentifier("a")

	_, err := TryNewOwnedTable(
		[]Identifier{a, a},
		[]Column{NewBigIntColumn([]int64{1}), NewBigIntColumn([]int64{2})},
	)
	if err == nil {
		t.Fatal("expected DuplicateIdentifier")
	}

	if e, ok := err.(*OwnedTableError); !ok || e.Kind != "DuplicateIdentifier" {
		t.Fatalf("expected DuplicateIdentifier, got %v", err)
	}
}

func TestEmptyTableIsZeroColumnsZeroRows(t *testing.T) {
	empty := NewOwnedTable()

	if empty.NumColumns() != 0 || empty.NumRows() != 0 {
		t.Fatalf("expected empty table, got %d columns %d rows", empty.NumColumns(), empty.NumRows())
	}
}

func TestFieldsPreserveOrder(t *testing.T) {
	a := MustIdentifier("a")
	b := MustIdentifier("b")

	tbl, err := TryNewOwnedTable(
		[]Identifier{b, a},
		[]Column{NewBigIntColumn([]int64{1}), NewVarCharColumn([]string{"x"})},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := tbl.Fields()
	if fields[0].Name.Name() != "b" || fields[1].Name.Name() != "a" {
		t.Fatalf("expected order [b, a], got %v", fields)
	}
}

func TestIdentifierGrammar(t *testing.T) {
	if _, err := NewIdentifier("1abc"); err == nil {
		t.Fatal("expected leading digit to be rejected")
	}

	if _, err := NewIdentifier(""); err == nil {
		t.Fatal("expected empty identifier to be rejected")
	}

	if _, err := NewIdentifier("valid_Name1"); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
}

func TestCaseSensitivityInternal(t *testing.T) {
	lower := MustIdentifier("a")
	upper := MustIdentifier("A")

	if lower.Equal(upper) {
		t.Fatal("internal identifiers must be case-sensitive")
	}

	if !lower.FoldedEqual(upper) {
		t.Fatal("folded comparison should treat a and A as equal")
	}

	// Two case-differing identifiers are legal in the same table internally.
	_, err := TryNewOwnedTable(
		[]Identifier{lower, upper},
		[]Column{NewBigIntColumn([]int64{1}), NewBigIntColumn([]int64{2})},
	)
	if err != nil {
		t.Fatalf("expected case-differing identifiers to coexist internally: %v", err)
	}
}
