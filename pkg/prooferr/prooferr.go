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

// Package prooferr defines the closed set of error kinds from spec §7:
// PlanType, EvaluationOverflow, AccessorMissing, Arithmetic,
// BoundaryConversion, Serialisation, and Verification. Every error the
// proof-plan execution layer returns wraps one of these kinds, so callers
// can branch on Kind without depending on message text.
package prooferr

import "fmt"

// Kind is one of the closed set of error kinds spec §7 names.
type Kind string

const (
	// PlanType is an expression type mismatch or decimal overflow caught at
	// plan-build time. Recovered locally by the caller; indicates a
	// programmer or query-compilation bug.
	PlanType Kind = "PlanType"
	// EvaluationOverflow is a runtime integer overflow during prover
	// evaluation. Aborts the proof.
	EvaluationOverflow Kind = "EvaluationOverflow"
	// AccessorMissing is a requested column or table absent from an
	// accessor.
	AccessorMissing Kind = "AccessorMissing"
	// Arithmetic is a divide-by-zero (or similar) at evaluation time.
	Arithmetic Kind = "Arithmetic"
	// BoundaryConversion is an Arrow import/export failure: unsupported
	// type, duplicate identifiers, or column length mismatch.
	BoundaryConversion Kind = "BoundaryConversion"
	// Serialisation is malformed proof bytes or a non-canonical scalar.
	Serialisation Kind = "Serialisation"
	// Verification is a commitment mismatch, sumcheck failure, opening
	// failure, output-length inconsistency, or decoding failure. Terminal
	// for that proof; never retried.
	Verification Kind = "Verification"
)

// Error is the error type returned across the proof-plan execution layer.
// Every Error carries a Kind from the closed set above.
//
// For Kind == Verification, Error() deliberately returns a fixed, generic
// message: spec §7's user-visible-behaviour rule says a verifier caller
// gets the error kind but no oracle about which constraint failed. The
// underlying detail is still available via Detail(), intended for
// server-side logging (pkg/cmd, pkg/queryresult), not for forwarding to an
// untrusted caller.
type Error struct {
	Kind   Kind
	detail string
	cause  error
}

// New constructs an Error of the given kind with a detail message.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, detail: detail}
}

// Wrap constructs an Error of the given kind, wrapping cause.
func Wrap(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, detail: detail, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == Verification {
		return "prooferr: Verification: proof rejected"
	}

	if e.cause != nil {
		return fmt.Sprintf("prooferr: %s: %s: %v", e.Kind, e.detail, e.cause)
	}

	return fmt.Sprintf("prooferr: %s: %s", e.Kind, e.detail)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Detail returns the full, unredacted detail message, for trusted
// server-side logging only.
func (e *Error) Detail() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.detail, e.cause)
	}

	return e.detail
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	pe, ok := err.(*Error)
	return ok && pe.Kind == kind
}
