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

// Package proofbuilder is the shared transcript/commitment plumbing that
// pkg/proofexpr and pkg/proofplan both build on: a ProverBuilder that
// accumulates committed, transparently-opened claims in strict order, and a
// VerifierBuilder that replays them against an independently-seeded
// transcript. Spec §1 names "privacy of the data from the verifier" a
// non-goal ("commitments may be opened by policy"); this package takes that
// license literally and implements every claim's opening proof as the
// revealed values themselves, bound to their commitment. See DESIGN.md.
package proofbuilder

import (
	"fmt"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/commitment"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/prooferr"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/transcript"
)

// Claim is one committed, transparently-opened column. The commitment binds
// Column's type-directed scalar encoding (database.Column.ToScalars); the
// native, typed Column itself is carried so a verifier can reconstruct an
// exact query result, including types (VarChar in particular) whose scalar
// encoding is one-way.
type Claim struct {
	Label      string
	Column     database.Column
	Commitment commitment.Commitment
}

// Proof is the ordered sequence of claims a prover produces for one query
// plan, plus every public first-round value (row counts, filtered output
// lengths) the verifier checks against its own recomputation.
type Proof struct {
	RowCount uint64
	Public   map[string]uint64
	Claims   []Claim
}

// ProverBuilder accumulates claims during FirstRoundEvaluate and
// FinalRoundEvaluate, binding each one into the transcript in the order it
// is produced (spec §5's ordering guarantee).
type ProverBuilder struct {
	Transcript *transcript.Transcript
	Engine     commitment.Engine
	RowCount   uint64
	public     map[string]uint64
	claims     []Claim
}

// NewProverBuilder starts a builder over a fresh transcript and commitment
// engine. Both must match the VerifierBuilder's for verification to
// succeed.
func NewProverBuilder(tr *transcript.Transcript, engine commitment.Engine) *ProverBuilder {
	return &ProverBuilder{Transcript: tr, Engine: engine, public: map[string]uint64{}}
}

// DeclareRowCount absorbs the plan's row count, computed during the first
// round, into the transcript.
func (b *ProverBuilder) DeclareRowCount(rowCount uint64) {
	b.RowCount = rowCount
	b.DeclarePublic("row_count", rowCount)
}

// DeclarePublic absorbs a labelled, data-dependent public value — e.g. a
// filter's post-selection row count — computed during the first round.
// Unlike a Commit, the value itself (not just its commitment) is part of
// the proof; a verifier recomputing a different value for the same label
// rejects outright, before any commitment is even checked.
func (b *ProverBuilder) DeclarePublic(label string, value uint64) {
	b.public[label] = value
	b.Transcript.AbsorbUint64(label, value)
}

// Commit commits to col's scalar encoding under label, absorbs the
// commitment, and records the claim (native column included) for
// transparent opening.
func (b *ProverBuilder) Commit(label string, col database.Column) (commitment.Commitment, error) {
	values, err := col.ToScalars()
	if err != nil {
		return commitment.Commitment{}, prooferr.Wrap(prooferr.EvaluationOverflow, "encoding "+label, err)
	}

	c, err := b.Engine.Commit(values)
	if err != nil {
		return commitment.Commitment{}, prooferr.Wrap(prooferr.Verification, "committing "+label, err)
	}

	b.Transcript.AbsorbCommitment(label, c)
	b.claims = append(b.claims, Claim{Label: label, Column: col, Commitment: c})

	return c, nil
}

// Finish seals the accumulated claims into a Proof.
func (b *ProverBuilder) Finish() Proof {
	public := make(map[string]uint64, len(b.public))
	for k, v := range b.public {
		public[k] = v
	}

	return Proof{RowCount: b.RowCount, Public: public, Claims: b.claims}
}

// VerifierBuilder replays a Proof, checking each claim's label and
// commitment in the exact order the prover produced them.
type VerifierBuilder struct {
	Transcript *transcript.Transcript
	Engine     commitment.Engine
	RowCount   uint64
	proof      Proof
	pos        int
}

// NewVerifierBuilder starts a builder that will check proof against a fresh
// transcript and commitment engine matching the prover's.
func NewVerifierBuilder(tr *transcript.Transcript, engine commitment.Engine, proof Proof) *VerifierBuilder {
	return &VerifierBuilder{Transcript: tr, Engine: engine, proof: proof}
}

// DeclareRowCount checks rowCount, as independently recomputed by the
// verifier's plan walk, against the proof's declared row count.
func (b *VerifierBuilder) DeclareRowCount(rowCount uint64) error {
	if err := b.CheckPublic("row_count", rowCount); err != nil {
		return err
	}

	b.RowCount = rowCount

	return nil
}

// CheckPublic requires the proof's declared value for label equal value, as
// independently recomputed by the verifier, then absorbs it into the
// transcript in lockstep with the prover's DeclarePublic call.
func (b *VerifierBuilder) CheckPublic(label string, value uint64) error {
	declared, err := b.ReadPublic(label)
	if err != nil {
		return err
	}

	if declared != value {
		return prooferr.New(prooferr.Verification,
			fmt.Sprintf("public value mismatch for %s: plan recomputes %d, proof declares %d", label, value, declared))
	}

	return nil
}

// ReadPublic absorbs and returns the proof's declared value for label,
// without comparing it to an independently-recomputed value. Used for
// values that are inherently data-dependent and so cannot be recomputed
// from metadata alone — e.g. a filter's post-selection row count — whose
// correctness is instead established by the row-wise constraints the proof
// checks elsewhere.
func (b *VerifierBuilder) ReadPublic(label string) (uint64, error) {
	declared, ok := b.proof.Public[label]
	if !ok {
		return 0, prooferr.New(prooferr.Verification, "proof is missing public value "+label)
	}

	b.Transcript.AbsorbUint64(label, declared)

	return declared, nil
}

// Open consumes the next claim, checking its label matches, recomputing its
// commitment from the revealed column's scalar encoding, and absorbing it
// into the transcript. It returns the opened (native, typed) column.
func (b *VerifierBuilder) Open(label string) (database.Column, error) {
	if b.pos >= len(b.proof.Claims) {
		return database.Column{}, prooferr.New(prooferr.Verification, "proof exhausted, expected claim "+label)
	}

	claim := b.proof.Claims[b.pos]
	b.pos++

	if claim.Label != label {
		return database.Column{}, prooferr.New(prooferr.Verification,
			fmt.Sprintf("claim order mismatch: expected %q, got %q", label, claim.Label))
	}

	values, err := claim.Column.ToScalars()
	if err != nil {
		return database.Column{}, prooferr.Wrap(prooferr.Serialisation, "decoding "+label, err)
	}

	recomputed, err := b.Engine.Commit(values)
	if err != nil {
		return database.Column{}, prooferr.Wrap(prooferr.Verification, "recomputing commitment for "+label, err)
	}

	if !recomputed.Equal(claim.Commitment) {
		return database.Column{}, prooferr.New(prooferr.Verification, "commitment mismatch for "+label)
	}

	b.Transcript.AbsorbCommitment(label, claim.Commitment)

	return claim.Column, nil
}

// OpenAgainst is Open, additionally requiring the claim's commitment equal
// an independently-known commitment — e.g. one fetched from the verifier's
// own CommitmentAccessor for a leaf column. A prover that reveals a column
// consistent with its own claimed commitment, but whose claimed commitment
// does not match the verifier's accessor, is caught here: this is where
// soundness against a tampered accessor lives.
func (b *VerifierBuilder) OpenAgainst(label string, expected commitment.Commitment) (database.Column, error) {
	if b.pos >= len(b.proof.Claims) {
		return database.Column{}, prooferr.New(prooferr.Verification, "proof exhausted, expected claim "+label)
	}

	claimCommitment := b.proof.Claims[b.pos].Commitment

	col, err := b.Open(label)
	if err != nil {
		return database.Column{}, err
	}

	if !claimCommitment.Equal(expected) {
		return database.Column{}, prooferr.New(prooferr.Verification, "leaf commitment does not match accessor for "+label)
	}

	return col, nil
}

// Done reports an error if the proof carries claims the verifier never
// consumed — a malformed or over-long proof.
func (b *VerifierBuilder) Done() error {
	if b.pos != len(b.proof.Claims) {
		return prooferr.New(prooferr.Verification, "proof has unconsumed claims")
	}

	return nil
}
