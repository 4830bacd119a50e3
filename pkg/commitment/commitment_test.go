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
package commitment

import (
	"testing"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

func TestCommitVerifyRoundTrip(t *testing.T) {
	e := NewPedersenEngine("sxt.t.a")

	values := []scalar.Scalar{scalar.FromInt64(1), scalar.FromInt64(4), scalar.FromInt64(5)}

	c, err := e.Commit(values)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	ok, err := e.Verify(c, values)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if !ok {
		t.Fatal("expected commitment to verify against its own values")
	}
}

func TestTamperedCellFailsVerification(t *testing.T) {
	e := NewPedersenEngine("sxt.t.b")

	values := []scalar.Scalar{scalar.FromInt64(0), scalar.FromInt64(5), scalar.FromInt64(0), scalar.FromInt64(5)}

	c, err := e.Commit(values)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	tampered := make([]scalar.Scalar, len(values))
	copy(tampered, values)
	tampered[1] = scalar.FromInt64(2)

	ok, err := e.Verify(c, tampered)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if ok {
		t.Fatal("expected tampered values to fail verification")
	}
}

func TestDifferentTagsDisagree(t *testing.T) {
	values := []scalar.Scalar{scalar.FromInt64(7)}

	a := NewPedersenEngine("sxt.t.a")
	b := NewPedersenEngine("sxt.t.b")

	c, err := a.Commit(values)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	ok, err := b.Verify(c, values)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if ok {
		t.Fatal("expected independent bases to disagree")
	}
}
