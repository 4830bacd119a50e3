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

// Package proofexpr implements DynProofExpr (spec §4.E): the scalar
// expression tree evaluated over a table's columns inside a proof plan.
// Every builder (NewAddExpr, NewEqualsExpr, ...) validates operand types
// eagerly, so a PlanType error is raised at plan-construction time rather
// than surfacing mid-proof.
package proofexpr

import (
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofbuilder"
)

// DynProofExpr is one node of a proof expression tree. Every node knows its
// own result type and can be evaluated three ways: a plain data-only
// result (ResultEvaluate, used to compute the public query result), a
// proving pass that commits intermediate columns into a ProverBuilder
// (ProverEvaluate), and a matching verifying pass that opens and rechecks
// those commitments (VerifierEvaluate).
type DynProofExpr interface {
	// DataType returns the expression's result type, fixed at construction.
	DataType() database.ColumnType

	// ResultEvaluate computes the expression's value over rowCount rows,
	// without touching a transcript or commitment engine. Used to derive
	// the public portion of a query result.
	ResultEvaluate(rowCount int, accessor database.DataAccessor) (database.Column, error)

	// ProverEvaluate evaluates the expression and commits the result (and
	// any witness columns it requires) into builder, in a fixed,
	// deterministic order. It returns the expression's own result column.
	ProverEvaluate(builder *proofbuilder.ProverBuilder, accessor database.ProverAccessor) (database.Column, error)

	// VerifierEvaluate replays the commitments ProverEvaluate produced,
	// checking every constraint the expression implies, and returns the
	// expression's opened result column.
	VerifierEvaluate(builder *proofbuilder.VerifierBuilder, accessor database.VerifierAccessor) (database.Column, error)

	// ColumnReferences accumulates every leaf ColumnRef this expression
	// reads, keyed by its String() form, into out.
	ColumnReferences(out map[string]database.ColumnRef)
}
