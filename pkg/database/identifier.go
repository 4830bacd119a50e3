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

// Package database provides the typed columnar data model: column types and
// variants, column/table references, and the ordered named table
// (OwnedTable) that flows through the proof-plan execution layer.
package database

import (
	"fmt"
	"strings"
)

// MaxIdentifierBytes is the maximum length, in bytes, of an Identifier.
const MaxIdentifierBytes = 64

// Identifier is a SQL identifier: `[A-Za-z_][A-Za-z0-9_]*`, at most
// MaxIdentifierBytes bytes. Identifiers are case-sensitive internally;
// case-folding (where required) happens only at the boundaries that need
// it, such as the Arrow bridge in pkg/arrowbridge.
type Identifier struct {
	name string
}

// NewIdentifier validates and constructs an Identifier.
func NewIdentifier(name string) (Identifier, error) {
	if len(name) == 0 || len(name) > MaxIdentifierBytes {
		return Identifier{}, fmt.Errorf("database: identifier %q must be 1..%d bytes", name, MaxIdentifierBytes)
	}

	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return Identifier{}, fmt.Errorf("database: identifier %q contains invalid character %q at %d", name, r, i)
		}
	}

	return Identifier{name}, nil
}

// MustIdentifier is NewIdentifier, panicking on error. Intended for
// constants and tests, not for parsing untrusted input.
func MustIdentifier(name string) Identifier {
	id, err := NewIdentifier(name)
	if err != nil {
		panic(err)
	}

	return id
}

// Name returns the identifier's exact (case-preserved) text.
func (id Identifier) Name() string {
	return id.name
}

// Equal reports whether id and other are the same identifier,
// case-sensitively.
func (id Identifier) Equal(other Identifier) bool {
	return id.name == other.name
}

// FoldedEqual reports whether id and other are the same identifier under
// case-insensitive comparison, as used at the Arrow boundary.
func (id Identifier) FoldedEqual(other Identifier) bool {
	return strings.EqualFold(id.name, other.name)
}

// String implements fmt.Stringer.
func (id Identifier) String() string {
	return id.name
}

// ResourceId is a `schema.table` pair, the wire form used in TableRef.
type ResourceId struct {
	Schema Identifier
	Table  Identifier
}

// NewResourceId constructs a ResourceId from two identifier strings.
func NewResourceId(schema, table string) (ResourceId, error) {
	s, err := NewIdentifier(schema)
	if err != nil {
		return ResourceId{}, fmt.Errorf("database: resource id schema: %w", err)
	}

	tb, err := NewIdentifier(table)
	if err != nil {
		return ResourceId{}, fmt.Errorf("database: resource id table: %w", err)
	}

	return ResourceId{Schema: s, Table: tb}, nil
}

// String renders the "schema.table" wire form.
func (r ResourceId) String() string {
	return r.Schema.String() + "." + r.Table.String()
}

// Equal reports whether r and other name the same resource.
func (r ResourceId) Equal(other ResourceId) bool {
	return r.Schema.Equal(other.Schema) && r.Table.Equal(other.Table)
}

// TableRef wraps a ResourceId identifying a table.
type TableRef struct {
	Id ResourceId
}

// NewTableRef constructs a TableRef from a "schema.table" resource id.
func NewTableRef(schema, table string) (TableRef, error) {
	id, err := NewResourceId(schema, table)
	if err != nil {
		return TableRef{}, err
	}

	return TableRef{Id: id}, nil
}

// Equal reports whether t and other reference the same table.
func (t TableRef) Equal(other TableRef) bool {
	return t.Id.Equal(other.Id)
}

// String implements fmt.Stringer.
func (t TableRef) String() string {
	return t.Id.String()
}

// ColumnField is the (name, type) pair describing a column in an output
// schema.
type ColumnField struct {
	Name Identifier
	Type ColumnType
}

// ColumnRef is a fully-qualified reference to a column: the table it lives
// in, its name, and its declared type.
type ColumnRef struct {
	Table TableRef
	Name  Identifier
	Type  ColumnType
}

// NewColumnRef constructs a ColumnRef.
func NewColumnRef(table TableRef, name Identifier, ty ColumnType) ColumnRef {
	return ColumnRef{Table: table, Name: name, Type: ty}
}

// Field returns the (name, type) projection of this reference.
func (c ColumnRef) Field() ColumnField {
	return ColumnField{Name: c.Name, Type: c.Type}
}

// Equal reports whether c and other refer to the exact same column.
func (c ColumnRef) Equal(other ColumnRef) bool {
	return c.Table.Equal(other.Table) && c.Name.Equal(other.Name) && c.Type == other.Type
}

// String implements fmt.Stringer.
func (c ColumnRef) String() string {
	return fmt.Sprintf("%s.%s", c.Table, c.Name)
}
