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

// Package proofplan implements DynProofPlan (spec §4.F): the three-variant
// logical plan tree (TableExec, ProjectionExec, FilterExec) a query compiles
// down to, and its two-round prove/verify protocol. This is where the bulk
// of the proof-plan execution layer's real engineering lives: FilterExec in
// particular proves a row-selection and an order-preserving dense
// compaction, checked by direct recomputation over the witness columns the
// final round commits.
package proofplan

import (
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/arena"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofbuilder"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofexpr"
)

// AliasedExpr pairs a scalar expression with the output column name it is
// bound to.
type AliasedExpr struct {
	Expr  proofexpr.DynProofExpr
	Alias database.Identifier
}

// DynProofPlan is one node of a query plan: something that can be evaluated
// twice over (spec §4.F, §9's two-round protocol) to produce a proven
// OwnedTable.
type DynProofPlan interface {
	// ResultFields returns the plan's output schema.
	ResultFields() []database.ColumnField

	// ColumnReferences accumulates every leaf column this plan (and its
	// descendants) reads.
	ColumnReferences(out map[string]database.ColumnRef)

	// TableReferences accumulates every table this plan (and its
	// descendants) scans.
	TableReferences(out map[string]database.TableRef)

	// FirstRoundEvaluate computes and declares every public, data-dependent
	// value the plan's shape requires before any witness column is built —
	// at minimum the row count it will operate over — and returns that row
	// count.
	FirstRoundEvaluate(builder *proofbuilder.ProverBuilder, accessor database.ProverAccessor) (uint64, error)

	// VerifierFirstRound is FirstRoundEvaluate's verifier-side mirror: it
	// checks (rather than declares) the same public values, in the same
	// order, against the verifier's own accessor, and returns the resulting
	// row count. A value the verifier cannot independently recompute from
	// metadata alone (FilterExec's post-selection count) is read from the
	// proof rather than checked here; its correctness instead follows from
	// the row-wise constraints VerifierEvaluate checks.
	VerifierFirstRound(builder *proofbuilder.VerifierBuilder, accessor database.VerifierAccessor) (uint64, error)

	// FinalRoundEvaluate performs the actual evaluation: it builds any
	// witness columns the plan variant requires from arena, commits every
	// column it must prove, and returns the plan's output table.
	FinalRoundEvaluate(builder *proofbuilder.ProverBuilder, ar *arena.Arena, accessor database.ProverAccessor) (database.OwnedTable, error)

	// VerifierEvaluate replays FirstRoundEvaluate's and FinalRoundEvaluate's
	// commitments against builder, checking every constraint the plan
	// variant implies, and returns the plan's opened output table.
	VerifierEvaluate(builder *proofbuilder.VerifierBuilder, accessor database.VerifierAccessor) (database.OwnedTable, error)
}
