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

// Package i256 bridges between a 256-bit signed integer and the scalar
// field, with range checks. Go has no native 128- or 256-bit integer type,
// so the bridge is built on math/big.Int, matching the teacher repo's use
// of big.Int for arbitrary-width trace values.
package i256

import (
	"errors"
	"math/big"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

// I256 is a 256-bit signed integer, conceptually the pair (low: u128, high:
// i128) the spec describes. Internally it is a big.Int guaranteed to fit in
// 256 bits signed.
type I256 struct {
	v *big.Int
}

var (
	twoPow128 = new(big.Int).Lsh(big.NewInt(1), 128)
	twoPow255 = new(big.Int).Lsh(big.NewInt(1), 255)
	// Max is 2^255 - 1, the largest representable I256.
	Max = I256{new(big.Int).Sub(twoPow255, big.NewInt(1))}
	// Min is -2^255, the smallest representable I256.
	Min = I256{new(big.Int).Neg(twoPow255)}
)

// ErrOutOfRange is returned when a value exceeds the bounds of its target
// representation.
var ErrOutOfRange = errors.New("i256: value out of range")

// FromParts builds an I256 from its low (unsigned 128-bit) and high (signed
// 128-bit) parts, as `high*2^128 + low`.
func FromParts(low *big.Int, high *big.Int) I256 {
	v := new(big.Int).Lsh(high, 128)
	v.Add(v, low)

	return I256{v}
}

// Parts decomposes v into (low: u128, high: i128) such that
// FromParts(low, high) == v.
func (v I256) Parts() (low *big.Int, high *big.Int) {
	low = new(big.Int).And(v.v, new(big.Int).Sub(twoPow128, big.NewInt(1)))
	high = new(big.Int).Rsh(v.v, 128)
	// Rsh on a negative big.Int performs arithmetic shift (sign-extends),
	// matching the i128 "high" semantics.
	return low, high
}

// FromInt64 lifts a native int64 into an I256.
func FromInt64(x int64) I256 {
	return I256{big.NewInt(x)}
}

// BigInt returns the underlying value as a big.Int. The returned value must
// not be mutated.
func (v I256) BigInt() *big.Int {
	return v.v
}

// FromBigInt lifts an arbitrary-precision integer into an I256, failing if
// it does not fit in 256 bits signed. Used at the Arrow Decimal256 boundary,
// where values arrive as big.Int already scaled to their column's scale.
func FromBigInt(x *big.Int) (I256, error) {
	v := I256{new(big.Int).Set(x)}
	if v.Cmp(Min) < 0 || v.Cmp(Max) > 0 {
		return I256{}, ErrOutOfRange
	}

	return v, nil
}

// Cmp compares v and w as signed integers.
func (v I256) Cmp(w I256) int {
	return v.v.Cmp(w.v)
}

// ScalarToI256 maps a field scalar to its I256 representation. Per spec
// §4.B: if s <= MAX_SIGNED, pack s's limbs directly; otherwise negate in the
// field first, pack, then two's-complement-negate the result.
func ScalarToI256(s scalar.Scalar) I256 {
	if !s.IsNegative() {
		return I256{s.UnsignedBigInt()}
	}

	neg := s.Neg()

	return I256{new(big.Int).Neg(neg.UnsignedBigInt())}
}

// I256ToScalar maps an I256 back to a field scalar. It fails when v is
// outside [-MAX_SIGNED, +MAX_SIGNED]; this is the sole path for decimal
// literal construction and external 256-bit comparisons.
func I256ToScalar(v I256) (scalar.Scalar, error) {
	maxSigned := scalar.MaxSigned.SignedBigInt()
	minSigned := new(big.Int).Neg(maxSigned)

	if v.v.Cmp(minSigned) < 0 || v.v.Cmp(maxSigned) > 0 {
		return scalar.Scalar{}, ErrOutOfRange
	}

	if v.v.Sign() < 0 {
		abs := new(big.Int).Neg(v.v)
		return scalar.FromInt128(abs).Neg(), nil
	}

	return scalar.FromInt128(v.v), nil
}
