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

import (
	"testing"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

func TestBooleanScalarEncoding(t *testing.T) {
	col := NewBooleanColumn([]bool{true, false})

	s0, err := col.ScalarEncode(0)
	if err != nil || !s0.Equal(scalar.One) {
		t.Fatalf("true should encode to 1, got %v err %v", s0, err)
	}

	s1, err := col.ScalarEncode(1)
	if err != nil || !s1.Equal(scalar.Zero) {
		t.Fatalf("false should encode to 0, got %v err %v", s1, err)
	}
}

func TestVarCharEncodingIsDeterministic(t *testing.T) {
	col := NewVarCharColumn([]string{"hello", "hello", "world"})

	a, err := col.ScalarEncode(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := col.ScalarEncode(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, err := col.ScalarEncode(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !a.Equal(b) {
		t.Fatal("identical strings must encode identically")
	}

	if a.Equal(c) {
		t.Fatal("different strings should (overwhelmingly likely) encode differently")
	}
}

func TestColumnLenByKind(t *testing.T) {
	col := NewBigIntColumn([]int64{1, 2, 3})
	if col.Len() != 3 {
		t.Fatalf("expected length 3, got %d", col.Len())
	}
}

func TestDecimal75RejectsBadPrecision(t *testing.T) {
	if _, err := NewDecimal75(0, 0); err == nil {
		t.Fatal("expected precision 0 to be rejected")
	}

	if _, err := NewDecimal75(76, 0); err == nil {
		t.Fatal("expected precision 76 to be rejected")
	}

	if _, err := NewDecimal75(75, -10); err != nil {
		t.Fatalf("expected precision 75 to be accepted: %v", err)
	}
}
