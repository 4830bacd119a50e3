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

// OwnedTableError distinguishes the two ways OwnedTable construction can
// fail.
type OwnedTableError struct {
	// Kind is either "ColumnLengthMismatch" or "DuplicateIdentifier".
	Kind string
	msg  string
}

func (e *OwnedTableError) Error() string {
	return e.msg
}

// OwnedTable is an ordered mapping from identifier to Column. Identifiers
// are unique (case-sensitive; see pkg/arrowbridge for the case-insensitive
// boundary check) and every column has the same length, the table's row
// count.
type OwnedTable struct {
	names   []Identifier
	columns []Column
	index   map[string]int
}

// NewOwnedTable builds an empty, zero-row, zero-column table.
func NewOwnedTable() OwnedTable {
	return OwnedTable{index: map[string]int{}}
}

// TryNewOwnedTable builds an OwnedTable from ordered (name, column) pairs,
// failing with ColumnLengthMismatch or DuplicateIdentifier if §3's
// invariants are violated. The order of pairs is preserved as column order.
func TryNewOwnedTable(names []Identifier, columns []Column) (OwnedTable, error) {
	if len(names) != len(columns) {
		return OwnedTable{}, fmt.Errorf("database: %d names but %d columns", len(names), len(columns))
	}

	t := OwnedTable{
		names:   make([]Identifier, 0, len(names)),
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(names)),
	}

	rowCount := -1

	for i, name := range names {
		if _, exists := t.index[name.Name()]; exists {
			return OwnedTable{}, &OwnedTableError{
				Kind: "DuplicateIdentifier",
				msg:  fmt.Sprintf("database: duplicate identifier %q", name.Name()),
			}
		}

		if rowCount == -1 {
			rowCount = columns[i].Len()
		} else if columns[i].Len() != rowCount {
			return OwnedTable{}, &OwnedTableError{
				Kind: "ColumnLengthMismatch",
				msg: fmt.Sprintf("database: column %q has length %d, expected %d",
					name.Name(), columns[i].Len(), rowCount),
			}
		}

		t.index[name.Name()] = len(t.names)
		t.names = append(t.names, name)
		t.columns = append(t.columns, columns[i])
	}

	return t, nil
}

// NumColumns returns the number of columns in the table.
func (t OwnedTable) NumColumns() int {
	return len(t.columns)
}

// NumRows returns the table's row count. A zero-column table has zero rows
// by construction (see scenario 4 in spec §8): the empty table, not an
// n-row table with no columns.
func (t OwnedTable) NumRows() int {
	if len(t.columns) == 0 {
		return 0
	}

	return t.columns[0].Len()
}

// ColumnNames returns the column names in table order.
func (t OwnedTable) ColumnNames() []Identifier {
	out := make([]Identifier, len(t.names))
	copy(out, t.names)

	return out
}

// Column returns the column named name, and whether it was found.
func (t OwnedTable) Column(name Identifier) (Column, bool) {
	idx, ok := t.index[name.Name()]
	if !ok {
		return Column{}, false
	}

	return t.columns[idx], true
}

// ColumnAt returns the i-th column, in table order.
func (t OwnedTable) ColumnAt(i int) Column {
	return t.columns[i]
}

// NameAt returns the i-th column's name, in table order.
func (t OwnedTable) NameAt(i int) Identifier {
	return t.names[i]
}

// Fields returns the table's schema as an ordered list of ColumnFields.
func (t OwnedTable) Fields() []ColumnField {
	out := make([]ColumnField, len(t.names))
	for i := range t.names {
		out[i] = ColumnField{Name: t.names[i], Type: t.columns[i].Type()}
	}

	return out
}
