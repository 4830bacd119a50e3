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

import "github.com/Katarsyss/sxt-proof-of-sql/pkg/commitment"

// DataAccessor fetches a column's data into prover memory. Only the prover
// needs this capability.
type DataAccessor interface {
	GetColumn(ref ColumnRef) (Column, error)
}

// CommitmentAccessor returns the opaque commitment to a column. Both the
// prover and the verifier need this capability.
type CommitmentAccessor interface {
	GetCommitment(ref ColumnRef) (commitment.Commitment, error)
}

// MetadataAccessor returns a table's row count and offset. Both the prover
// and the verifier need this capability.
type MetadataAccessor interface {
	GetLength(table TableRef) (uint64, error)
	GetOffset(table TableRef) (uint64, error)
}

// SchemaAccessor lists a table's columns and their types. Only the verifier
// needs this capability (the prover is expected to already know the schema
// of the plan it is proving).
type SchemaAccessor interface {
	LookupSchema(table TableRef) ([]ColumnField, error)
}

// EngineAccessor exposes the commitment engine an accessor's own commitments
// were (or will be) computed under. Both the prover and the verifier carry
// one, so that the engine used to build a ProverBuilder/VerifierBuilder is
// always derived from the same accessor whose commitments it must agree
// with, rather than threaded in separately by the caller — two independently
// constructed engines over different domain tags produce non-interoperable
// bases (see pkg/commitment), so there must be exactly one place an engine
// for a given accessor comes from.
type EngineAccessor interface {
	Engine() commitment.Engine
}

// ProverAccessor is the capability set the prover requires: data,
// commitment, metadata, and its commitment engine.
type ProverAccessor interface {
	DataAccessor
	CommitmentAccessor
	MetadataAccessor
	EngineAccessor
}

// VerifierAccessor is the capability set the verifier requires: commitment,
// metadata, schema, and its commitment engine.
type VerifierAccessor interface {
	CommitmentAccessor
	MetadataAccessor
	SchemaAccessor
	EngineAccessor
}

// FullAccessor satisfies every capability; test accessors typically
// implement this directly.
type FullAccessor interface {
	DataAccessor
	CommitmentAccessor
	MetadataAccessor
	SchemaAccessor
	EngineAccessor
}
