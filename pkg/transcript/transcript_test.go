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
package transcript

import (
	"testing"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

func TestDeterministicChallenges(t *testing.T) {
	a := New("sxt-proof-of-sql/v1")
	a.AbsorbUint64("row_count", 5)
	a.AbsorbScalar("x", scalar.FromInt64(42))

	b := New("sxt-proof-of-sql/v1")
	b.AbsorbUint64("row_count", 5)
	b.AbsorbScalar("x", scalar.FromInt64(42))

	ca, err := a.ChallengeScalar("r")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cb, err := b.ChallengeScalar("r")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ca.Equal(cb) {
		t.Fatal("identical absorb sequences should derive identical challenges")
	}
}

func TestOrderMatters(t *testing.T) {
	a := New("sxt-proof-of-sql/v1")
	a.AbsorbUint64("first", 1)
	a.AbsorbUint64("second", 2)

	b := New("sxt-proof-of-sql/v1")
	b.AbsorbUint64("second", 2)
	b.AbsorbUint64("first", 1)

	ca, _ := a.ChallengeScalar("r")
	cb, _ := b.ChallengeScalar("r")

	if ca.Equal(cb) {
		t.Fatal("absorbing in a different order should derive a different challenge")
	}
}

func TestChallengeAdvancesState(t *testing.T) {
	tr := New("sxt-proof-of-sql/v1")

	c1, _ := tr.ChallengeScalar("r")
	c2, _ := tr.ChallengeScalar("r")

	if c1.Equal(c2) {
		t.Fatal("repeated challenge derivation from the evolving state should differ")
	}
}
