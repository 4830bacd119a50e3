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

// Package sqlproof implements the "prove"/"verify" subcommands of spec
// §4.K: a thin JSON fixture format for tables, plans, and published
// commitments, loaded and handed to pkg/queryresult. The fixture format is
// deliberately simple (no SQL parser: spec §1 scopes that out) — just
// enough structure to describe a table scan, projection, and filter over
// it for the CLI's own end-to-end exercise.
package sqlproof

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/commitment"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/i256"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofexpr"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofplan"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

type columnTypeJSON struct {
	Kind      string `json:"kind"`
	Precision uint8  `json:"precision,omitempty"`
	Scale     int8   `json:"scale,omitempty"`
}

func (c columnTypeJSON) toColumnType() (database.ColumnType, error) {
	switch c.Kind {
	case "boolean":
		return database.Boolean, nil
	case "bigint":
		return database.BigIntType, nil
	case "int128":
		return database.Int128Type, nil
	case "decimal75":
		return database.NewDecimal75(c.Precision, c.Scale)
	case "varchar":
		return database.VarChar, nil
	case "scalar":
		return database.ScalarType, nil
	default:
		return database.ColumnType{}, fmt.Errorf("sqlproof: unknown column kind %q", c.Kind)
	}
}

type tableRefJSON struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
}

func (t tableRefJSON) toTableRef() (database.TableRef, error) {
	return database.NewTableRef(t.Schema, t.Table)
}

type columnFieldJSON struct {
	Name string         `json:"name"`
	Type columnTypeJSON `json:"type"`
}

func (f columnFieldJSON) toColumnField() (database.ColumnField, error) {
	name, err := database.NewIdentifier(f.Name)
	if err != nil {
		return database.ColumnField{}, err
	}

	ty, err := f.Type.toColumnType()
	if err != nil {
		return database.ColumnField{}, err
	}

	return database.ColumnField{Name: name, Type: ty}, nil
}

type columnJSON struct {
	Name   string          `json:"name"`
	Type   columnTypeJSON  `json:"type"`
	Values json.RawMessage `json:"values"`
}

func decodeColumn(c columnJSON) (database.Identifier, database.Column, error) {
	name, err := database.NewIdentifier(c.Name)
	if err != nil {
		return database.Identifier{}, database.Column{}, err
	}

	switch c.Type.Kind {
	case "boolean":
		var values []bool
		if err := json.Unmarshal(c.Values, &values); err != nil {
			return database.Identifier{}, database.Column{}, fmt.Errorf("sqlproof: column %q: %w", c.Name, err)
		}

		return name, database.NewBooleanColumn(values), nil

	case "bigint":
		var values []int64
		if err := json.Unmarshal(c.Values, &values); err != nil {
			return database.Identifier{}, database.Column{}, fmt.Errorf("sqlproof: column %q: %w", c.Name, err)
		}

		return name, database.NewBigIntColumn(values), nil

	case "int128":
		var raw []string
		if err := json.Unmarshal(c.Values, &raw); err != nil {
			return database.Identifier{}, database.Column{}, fmt.Errorf("sqlproof: column %q: %w", c.Name, err)
		}

		values := make([]*big.Int, len(raw))

		for i, s := range raw {
			v, ok := new(big.Int).SetString(s, 10)
			if !ok {
				return database.Identifier{}, database.Column{}, fmt.Errorf("sqlproof: column %q: invalid int128 %q", c.Name, s)
			}

			values[i] = v
		}

		return name, database.NewInt128Column(values), nil

	case "decimal75":
		var raw []string
		if err := json.Unmarshal(c.Values, &raw); err != nil {
			return database.Identifier{}, database.Column{}, fmt.Errorf("sqlproof: column %q: %w", c.Name, err)
		}

		values := make([]i256.I256, len(raw))

		for i, s := range raw {
			v, ok := new(big.Int).SetString(s, 10)
			if !ok {
				return database.Identifier{}, database.Column{}, fmt.Errorf("sqlproof: column %q: invalid decimal75 %q", c.Name, s)
			}

			packed, err := i256.FromBigInt(v)
			if err != nil {
				return database.Identifier{}, database.Column{}, fmt.Errorf("sqlproof: column %q: %w", c.Name, err)
			}

			values[i] = packed
		}

		col, err := database.NewDecimal75Column(c.Type.Precision, c.Type.Scale, values)
		if err != nil {
			return database.Identifier{}, database.Column{}, fmt.Errorf("sqlproof: column %q: %w", c.Name, err)
		}

		return name, col, nil

	case "varchar":
		var values []string
		if err := json.Unmarshal(c.Values, &values); err != nil {
			return database.Identifier{}, database.Column{}, fmt.Errorf("sqlproof: column %q: %w", c.Name, err)
		}

		return name, database.NewVarCharColumn(values), nil

	default:
		return database.Identifier{}, database.Column{}, fmt.Errorf("sqlproof: column %q: unsupported kind %q", c.Name, c.Type.Kind)
	}
}

type tableFileJSON struct {
	Table   tableRefJSON `json:"table"`
	Offset  uint64       `json:"offset"`
	Columns []columnJSON `json:"columns"`
}

// LoadTable reads a table fixture from path, returning its TableRef, schema,
// and the fully materialised OwnedTable.
func LoadTable(path string) (database.TableRef, []database.ColumnField, database.OwnedTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return database.TableRef{}, nil, database.OwnedTable{}, fmt.Errorf("sqlproof: reading table file: %w", err)
	}

	var file tableFileJSON
	if err := json.Unmarshal(raw, &file); err != nil {
		return database.TableRef{}, nil, database.OwnedTable{}, fmt.Errorf("sqlproof: parsing table file: %w", err)
	}

	table, err := file.Table.toTableRef()
	if err != nil {
		return database.TableRef{}, nil, database.OwnedTable{}, err
	}

	names := make([]database.Identifier, len(file.Columns))
	cols := make([]database.Column, len(file.Columns))
	schema := make([]database.ColumnField, len(file.Columns))

	for i, c := range file.Columns {
		name, col, err := decodeColumn(c)
		if err != nil {
			return database.TableRef{}, nil, database.OwnedTable{}, err
		}

		ty, err := c.Type.toColumnType()
		if err != nil {
			return database.TableRef{}, nil, database.OwnedTable{}, err
		}

		names[i] = name
		cols[i] = col
		schema[i] = database.ColumnField{Name: name, Type: ty}
	}

	tbl, err := database.TryNewOwnedTable(names, cols)
	if err != nil {
		return database.TableRef{}, nil, database.OwnedTable{}, fmt.Errorf("sqlproof: assembling table: %w", err)
	}

	return table, schema, tbl, nil
}

type exprJSON struct {
	Op    string          `json:"op"`
	Table *tableRefJSON   `json:"table,omitempty"`
	Name  string          `json:"name,omitempty"`
	Type  *columnTypeJSON `json:"type,omitempty"`
	Value string          `json:"value,omitempty"`
	Left  *exprJSON       `json:"left,omitempty"`
	Right *exprJSON       `json:"right,omitempty"`
}

func buildExpr(j exprJSON) (proofexpr.DynProofExpr, error) {
	switch j.Op {
	case "column":
		if j.Table == nil || j.Type == nil {
			return nil, fmt.Errorf("sqlproof: column expr requires table and type")
		}

		table, err := j.Table.toTableRef()
		if err != nil {
			return nil, err
		}

		name, err := database.NewIdentifier(j.Name)
		if err != nil {
			return nil, err
		}

		ty, err := j.Type.toColumnType()
		if err != nil {
			return nil, err
		}

		return proofexpr.NewColumnExpr(database.NewColumnRef(table, name, ty)), nil

	case "literal":
		if j.Type == nil {
			return nil, fmt.Errorf("sqlproof: literal expr requires a type")
		}

		ty, err := j.Type.toColumnType()
		if err != nil {
			return nil, err
		}

		value, err := literalScalar(ty, j.Value)
		if err != nil {
			return nil, err
		}

		return proofexpr.NewLiteralExpr(value, ty), nil

	case "add", "sub", "mul", "equals":
		if j.Left == nil || j.Right == nil {
			return nil, fmt.Errorf("sqlproof: %s expr requires left and right", j.Op)
		}

		left, err := buildExpr(*j.Left)
		if err != nil {
			return nil, err
		}

		right, err := buildExpr(*j.Right)
		if err != nil {
			return nil, err
		}

		switch j.Op {
		case "add":
			return proofexpr.NewAddExpr(left, right)
		case "sub":
			return proofexpr.NewSubExpr(left, right)
		case "mul":
			return proofexpr.NewMulExpr(left, right)
		default:
			return proofexpr.NewEqualsExpr(left, right)
		}

	default:
		return nil, fmt.Errorf("sqlproof: unknown expr op %q", j.Op)
	}
}

func literalScalar(ty database.ColumnType, raw string) (scalar.Scalar, error) {
	if raw == "" {
		raw = "0"
	}

	switch ty.Kind {
	case database.KindBoolean:
		switch raw {
		case "0", "false":
			return scalar.Zero, nil
		case "1", "true":
			return scalar.One, nil
		default:
			return scalar.Scalar{}, fmt.Errorf("sqlproof: invalid boolean literal %q", raw)
		}

	case database.KindBigInt:
		v, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return scalar.Scalar{}, fmt.Errorf("sqlproof: invalid bigint literal %q", raw)
		}

		return scalar.FromInt128(v), nil

	case database.KindInt128:
		v, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return scalar.Scalar{}, fmt.Errorf("sqlproof: invalid int128 literal %q", raw)
		}

		return scalar.FromInt128(v), nil

	case database.KindDecimal75:
		v, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return scalar.Scalar{}, fmt.Errorf("sqlproof: invalid decimal75 literal %q", raw)
		}

		packed, err := i256.FromBigInt(v)
		if err != nil {
			return scalar.Scalar{}, err
		}

		return i256.I256ToScalar(packed)

	default:
		return scalar.Scalar{}, fmt.Errorf("sqlproof: literals of kind %q are not supported", ty.Kind.String())
	}
}

type aliasedExprJSON struct {
	Expr  exprJSON `json:"expr"`
	Alias string   `json:"alias"`
}

type planJSON struct {
	Op        string            `json:"op"`
	Table     *tableRefJSON     `json:"table,omitempty"`
	Schema    []columnFieldJSON `json:"schema,omitempty"`
	Exprs     []aliasedExprJSON `json:"exprs,omitempty"`
	Predicate *exprJSON         `json:"predicate,omitempty"`
	Input     *planJSON         `json:"input,omitempty"`
}

func buildPlan(j planJSON) (proofplan.DynProofPlan, error) {
	switch j.Op {
	case "table":
		if j.Table == nil {
			return nil, fmt.Errorf("sqlproof: table plan requires a table")
		}

		table, err := j.Table.toTableRef()
		if err != nil {
			return nil, err
		}

		schema := make([]database.ColumnField, len(j.Schema))

		for i, f := range j.Schema {
			field, err := f.toColumnField()
			if err != nil {
				return nil, err
			}

			schema[i] = field
		}

		return proofplan.NewTableExec(table, schema), nil

	case "projection":
		if j.Input == nil {
			return nil, fmt.Errorf("sqlproof: projection plan requires an input")
		}

		input, err := buildPlan(*j.Input)
		if err != nil {
			return nil, err
		}

		exprs := make([]proofplan.AliasedExpr, len(j.Exprs))

		for i, ae := range j.Exprs {
			expr, err := buildExpr(ae.Expr)
			if err != nil {
				return nil, err
			}

			alias, err := database.NewIdentifier(ae.Alias)
			if err != nil {
				return nil, err
			}

			exprs[i] = proofplan.AliasedExpr{Expr: expr, Alias: alias}
		}

		return proofplan.NewProjectionExec(exprs, input), nil

	case "filter":
		if j.Input == nil || j.Predicate == nil {
			return nil, fmt.Errorf("sqlproof: filter plan requires an input and a predicate")
		}

		input, err := buildPlan(*j.Input)
		if err != nil {
			return nil, err
		}

		predicate, err := buildExpr(*j.Predicate)
		if err != nil {
			return nil, err
		}

		exprs := make([]proofplan.AliasedExpr, len(j.Exprs))

		for i, ae := range j.Exprs {
			expr, err := buildExpr(ae.Expr)
			if err != nil {
				return nil, err
			}

			alias, err := database.NewIdentifier(ae.Alias)
			if err != nil {
				return nil, err
			}

			exprs[i] = proofplan.AliasedExpr{Expr: expr, Alias: alias}
		}

		return proofplan.NewFilterExec(exprs, predicate, input)

	default:
		return nil, fmt.Errorf("sqlproof: unknown plan op %q", j.Op)
	}
}

// LoadPlan reads a plan fixture from path.
func LoadPlan(path string) (proofplan.DynProofPlan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sqlproof: reading plan file: %w", err)
	}

	var j planJSON
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, fmt.Errorf("sqlproof: parsing plan file: %w", err)
	}

	return buildPlan(j)
}

type commitmentsFileJSON struct {
	Table    tableRefJSON     `json:"table"`
	Offset   uint64           `json:"offset"`
	RowCount uint64           `json:"row_count"`
	Columns  []commitmentJSON `json:"columns"`
	Plan     planJSON         `json:"plan"`
}

type commitmentJSON struct {
	Name       string         `json:"name"`
	Type       columnTypeJSON `json:"type"`
	Commitment string         `json:"commitment"`
}

// LoadCommitments reads a verifier-side fixture from path: the published
// table metadata and per-column commitments a verifier holds, plus the
// (public) plan to check against them. There is no raw column data here —
// see CommitmentTableAccessor. engine is the commitment engine (public
// parameters) the fixture's commitments were computed under; it is bound
// into the returned accessor so that queryresult.Verify always derives its
// engine from the accessor rather than a separately supplied one.
func LoadCommitments(path string, engine commitment.Engine) (*database.CommitmentTableAccessor, proofplan.DynProofPlan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlproof: reading commitments file: %w", err)
	}

	var file commitmentsFileJSON
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, nil, fmt.Errorf("sqlproof: parsing commitments file: %w", err)
	}

	table, err := file.Table.toTableRef()
	if err != nil {
		return nil, nil, err
	}

	schema := make([]database.ColumnField, len(file.Columns))
	commits := make(map[string]commitment.Commitment, len(file.Columns))

	for i, c := range file.Columns {
		ty, err := c.Type.toColumnType()
		if err != nil {
			return nil, nil, err
		}

		name, err := database.NewIdentifier(c.Name)
		if err != nil {
			return nil, nil, err
		}

		schema[i] = database.ColumnField{Name: name, Type: ty}

		raw, err := hex.DecodeString(c.Commitment)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlproof: column %q: decoding commitment: %w", c.Name, err)
		}

		commits[c.Name], err = commitment.FromBytes(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlproof: column %q: decoding commitment: %w", c.Name, err)
		}
	}

	accessor := database.NewCommitmentTableAccessor(table, schema, file.RowCount, file.Offset, commits, engine)

	plan, err := buildPlan(file.Plan)
	if err != nil {
		return nil, nil, err
	}

	return accessor, plan, nil
}

// CommitmentsFromTable derives a verifier-side commitments fixture payload
// from a table fixture the prover already has, hex-encoding each column's
// commitment. Used by the CLI's own round-trip, and a convenient helper for
// hand-writing fixtures.
func CommitmentsFromTable(
	table database.TableRef,
	schema []database.ColumnField,
	tbl database.OwnedTable,
	offset uint64,
	engine commitment.Engine,
) (map[string]string, error) {
	out := make(map[string]string, len(schema))

	for _, f := range schema {
		col, ok := tbl.Column(f.Name)
		if !ok {
			return nil, fmt.Errorf("sqlproof: table missing declared column %q", f.Name.Name())
		}

		values, err := col.ToScalars()
		if err != nil {
			return nil, fmt.Errorf("sqlproof: column %q: %w", f.Name.Name(), err)
		}

		c, err := engine.Commit(values)
		if err != nil {
			return nil, fmt.Errorf("sqlproof: column %q: %w", f.Name.Name(), err)
		}

		out[f.Name.Name()] = hex.EncodeToString(c.Bytes())
	}

	return out, nil
}
