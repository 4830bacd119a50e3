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
package scalar

import (
	"math/big"
	"testing"
)

func TestZeroOneConstants(t *testing.T) {
	if !Zero.IsZero() {
		t.Fatal("Zero is not zero")
	}

	if One.Equal(Zero) {
		t.Fatal("One equals Zero")
	}
}

func TestNegation(t *testing.T) {
	if !Zero.Neg().Equal(Zero) {
		t.Fatal("-0 != 0")
	}

	five := FromInt64(5)
	negFive := five.Neg()

	if negFive.Equal(five) {
		t.Fatal("-5 == 5")
	}

	if !negFive.Neg().Equal(five) {
		t.Fatal("-(-5) != 5")
	}
}

func TestArithmetic(t *testing.T) {
	a := FromInt64(7)
	b := FromInt64(3)

	if !a.Add(b).Equal(FromInt64(10)) {
		t.Fatal("7+3 != 10")
	}

	if !a.Sub(b).Equal(FromInt64(4)) {
		t.Fatal("7-3 != 4")
	}

	if !a.Mul(b).Equal(FromInt64(21)) {
		t.Fatal("7*3 != 21")
	}

	if !b.Sub(a).Equal(FromInt64(-4)) {
		t.Fatal("3-7 != -4")
	}
}

func TestSignedInterpretation(t *testing.T) {
	if FromInt64(5).IsNegative() {
		t.Fatal("5 reported negative")
	}

	if !FromInt64(-5).IsNegative() {
		t.Fatal("-5 not reported negative")
	}

	if MaxSigned.IsNegative() {
		t.Fatal("MaxSigned reported negative")
	}

	plusOne := MaxSigned.Add(One)
	if !plusOne.IsNegative() {
		t.Fatal("MaxSigned+1 not reported negative")
	}
}

func TestLimbsRoundTrip(t *testing.T) {
	limbs := [4]uint64{0x1122334455667788, 0, 0, 0}
	s := FromLimbs(limbs)

	if got := s.Limbs(); got != limbs {
		t.Fatalf("limb round trip: got %v want %v", got, limbs)
	}
}

func TestCanonicalBytesRejectsNonCanonical(t *testing.T) {
	// q itself, encoded little-endian, is not canonical (>= q).
	q := new(big.Int).Set(groupOrder)
	be := q.Bytes()

	var buf [32]byte
	for i, b := range be {
		buf[len(be)-1-i] = b
	}

	if _, err := FromCanonicalBytes(buf); err == nil {
		t.Fatal("expected non-canonical rejection for q")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	s := FromInt64(-42)
	b := s.Bytes()

	back, err := FromCanonicalBytes(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !back.Equal(s) {
		t.Fatal("byte round trip mismatch")
	}
}

func TestInverse(t *testing.T) {
	if !Zero.Inverse().IsZero() {
		t.Fatal("inverse of zero should be defined as zero")
	}

	seven := FromInt64(7)
	if !seven.Inverse().Mul(seven).Equal(One) {
		t.Fatal("7 * inverse(7) != 1")
	}

	negFive := FromInt64(-5)
	if !negFive.Inverse().Mul(negFive).Equal(One) {
		t.Fatal("-5 * inverse(-5) != 1")
	}
}

func TestCmpSigned(t *testing.T) {
	if FromInt64(-1).Cmp(FromInt64(1)) >= 0 {
		t.Fatal("-1 should compare less than 1")
	}

	if FromInt64(5).Cmp(FromInt64(5)) != 0 {
		t.Fatal("5 should compare equal to 5")
	}
}
