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

// Package arena provides the scoped bump allocator used by proof plans
// (spec §4.F, §9) to own ephemeral per-row witness columns produced during
// the second (final) proving round. An Arena is created for exactly one
// proof construction and discarded when that construction completes; it is
// never shared across proofs (spec §5's shared-resource policy).
package arena

import "github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"

// Arena owns the ephemeral scalar columns allocated during one proof's
// final round. It has no explicit Free: ownership ends, and the
// backing slices become garbage, when the Arena itself goes out of scope.
type Arena struct {
	columns [][]scalar.Scalar
}

// New creates an empty arena scoped to a single proof construction.
func New() *Arena {
	return &Arena{}
}

// AllocScalars allocates a fresh, zero-valued scalar column of length n,
// owned by the arena for the remainder of its lifetime.
func (a *Arena) AllocScalars(n int) []scalar.Scalar {
	col := make([]scalar.Scalar, n)
	a.columns = append(a.columns, col)

	return col
}

// Len reports how many columns have been allocated from this arena so far,
// mostly useful for tests and diagnostics.
func (a *Arena) Len() int {
	return len(a.columns)
}
