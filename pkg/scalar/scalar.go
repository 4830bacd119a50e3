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

// Package scalar provides the fixed 252-bit prime-field element used
// throughout the proof-plan execution layer.  The field is the curve25519
// (Ed25519) group order, so arithmetic is delegated to
// filippo.io/edwards25519's Scalar type rather than re-implemented here.
package scalar

import (
	"fmt"
	"math/big"

	"filippo.io/edwards25519"
)

// Scalar is an element of the prime field of order q, where q is the
// curve25519 group order.  The zero value is the field's zero (equal to
// Zero); other values come from One or one of the From* constructors.
type Scalar struct {
	inner edwards25519.Scalar
}

// groupOrder is q, the curve25519 group order:
// 2^252 + 27742317777372353535851937790883648493.
var groupOrder = mustBig("7237005577332262213973186563042994240857116359379907606001950938285454250989")

// maxSigned is (q-1)/2, the boundary between the non-negative and negative
// signed interpretations of a Scalar.
var maxSigned = new(big.Int).Rsh(new(big.Int).Sub(groupOrder, big.NewInt(1)), 1)

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(fmt.Sprintf("scalar: invalid constant %q", s))
	}

	return v
}

// Zero is the additive identity.
var Zero = fromBigIntReduced(big.NewInt(0))

// One is the multiplicative identity.
var One = fromBigIntReduced(big.NewInt(1))

// MaxSigned is (q-1)/2.  A Scalar s represents a negative integer, under the
// signed interpretation, iff s > MaxSigned.
var MaxSigned = fromBigIntReduced(maxSigned)

// fromBigIntReduced reduces v modulo q and lifts it to a Scalar.  Total: any
// big.Int (including negative ones) is accepted.
func fromBigIntReduced(v *big.Int) Scalar {
	r := new(big.Int).Mod(v, groupOrder)
	// big.Int.Mod always returns a non-negative result for a positive
	// modulus, so r is in [0, q).
	buf := make([]byte, 32)
	b := r.Bytes() // big-endian, minimal length

	for i, by := range b {
		buf[len(b)-1-i] = by
	}

	var s Scalar
	if _, err := s.inner.SetCanonicalBytes(buf); err != nil {
		// Unreachable: r is always in [0, q) after Mod, so buf is always a
		// canonical encoding.
		panic(fmt.Sprintf("scalar: unreachable canonical encoding failure: %v", err))
	}

	return s
}

// FromLimbs lifts a little-endian array of four 64-bit limbs into a Scalar,
// reducing modulo q.  Total: every possible limb array maps to some Scalar.
func FromLimbs(limbs [4]uint64) Scalar {
	v := new(big.Int)
	for i := 3; i >= 0; i-- {
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(limbs[i]))
	}

	return fromBigIntReduced(v)
}

// Limbs returns the little-endian four-limb representation of s, where s is
// taken as the unique representative in [0, q).
func (s Scalar) Limbs() [4]uint64 {
	v := s.toUnsignedBigInt()

	var limbs [4]uint64

	mask := new(big.Int).SetUint64(^uint64(0))

	for i := 0; i < 4; i++ {
		limb := new(big.Int).And(v, mask)
		limbs[i] = limb.Uint64()
		v = new(big.Int).Rsh(v, 64)
	}

	return limbs
}

// FromInt64 lifts a 64-bit signed integer into a Scalar. Total.
func FromInt64(v int64) Scalar {
	return fromBigIntReduced(big.NewInt(v))
}

// FromInt128 lifts a signed integer held in a big.Int into a Scalar,
// reducing it modulo q. Total: it is used for 128-bit values and also for
// wider ones (the I256 bridge and decimal rescaling factors).
func FromInt128(v *big.Int) Scalar {
	return fromBigIntReduced(v)
}

// Add returns x+y.
func (x Scalar) Add(y Scalar) Scalar {
	var out Scalar

	out.inner.Add(&x.inner, &y.inner)

	return out
}

// Sub returns x-y.
func (x Scalar) Sub(y Scalar) Scalar {
	var out Scalar

	out.inner.Subtract(&x.inner, &y.inner)

	return out
}

// Mul returns x*y.
func (x Scalar) Mul(y Scalar) Scalar {
	var out Scalar

	out.inner.Multiply(&x.inner, &y.inner)

	return out
}

// Neg returns -x, which is q-x when x != 0, and 0 when x == 0.
func (x Scalar) Neg() Scalar {
	var out Scalar

	out.inner.Negate(&x.inner)

	return out
}

// Equal reports whether x and y are the same field element.
func (x Scalar) Equal(y Scalar) bool {
	return x.inner.Equal(&y.inner) == 1
}

// IsZero reports whether x is the additive identity.
func (x Scalar) IsZero() bool {
	return x.Equal(Zero)
}

// IsNegative reports whether x represents a negative integer under the
// signed interpretation, i.e. x > MaxSigned.
func (x Scalar) IsNegative() bool {
	return x.toUnsignedBigInt().Cmp(maxSigned) > 0
}

// SignedBigInt returns the signed integer interpretation of x: x itself if
// x <= MaxSigned, or x-q otherwise.
func (x Scalar) SignedBigInt() *big.Int {
	v := x.toUnsignedBigInt()
	if v.Cmp(maxSigned) > 0 {
		return new(big.Int).Sub(v, groupOrder)
	}

	return v
}

// Inverse returns the multiplicative inverse of x modulo q, computed via
// Fermat's little theorem (q is prime): x^(q-2) mod q. Returns Zero for
// x == 0, since zero has no inverse; callers needing to distinguish that
// case (e.g. the is-zero gadget in pkg/proofexpr) check IsZero first.
func (x Scalar) Inverse() Scalar {
	if x.IsZero() {
		return Zero
	}

	qMinus2 := new(big.Int).Sub(groupOrder, big.NewInt(2))
	inv := new(big.Int).Exp(x.toUnsignedBigInt(), qMinus2, groupOrder)

	return fromBigIntReduced(inv)
}

// Cmp compares the signed interpretations of x and y: -1, 0, or 1.
func (x Scalar) Cmp(y Scalar) int {
	return x.SignedBigInt().Cmp(y.SignedBigInt())
}

// UnsignedBigInt returns the canonical representative of x in [0, q),
// ignoring the signed interpretation.
func (x Scalar) UnsignedBigInt() *big.Int {
	return x.toUnsignedBigInt()
}

// toUnsignedBigInt returns the canonical representative of x in [0, q).
func (x Scalar) toUnsignedBigInt() *big.Int {
	le := x.inner.Bytes()

	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}

	return new(big.Int).SetBytes(be)
}

// Bytes returns the canonical little-endian 32-byte encoding of x, suitable
// for transcript absorption and serialisation.
func (x Scalar) Bytes() [32]byte {
	var out [32]byte

	copy(out[:], x.inner.Bytes())

	return out
}

// FromCanonicalBytes decodes 32 little-endian bytes into a Scalar. It fails
// if the bytes do not represent a value strictly less than q (a
// non-canonical encoding), per the serialisation contract in spec §6.
func FromCanonicalBytes(b [32]byte) (Scalar, error) {
	var s Scalar
	if _, err := s.inner.SetCanonicalBytes(b[:]); err != nil {
		return Scalar{}, fmt.Errorf("scalar: non-canonical encoding: %w", err)
	}

	return s, nil
}

// FromWideBytes reduces an arbitrary 32- or 64-byte uniform buffer modulo q.
// Used to derive field elements from hashes: transcript challenges and the
// VarChar-to-scalar encoding.
func FromWideBytes(b []byte) (Scalar, error) {
	if len(b) != 32 && len(b) != 64 {
		return Scalar{}, fmt.Errorf("scalar: wide input must be 32 or 64 bytes, got %d", len(b))
	}

	// Zero-extending a little-endian buffer to 64 bytes keeps its value.
	var wide [64]byte
	copy(wide[:], b)

	var s Scalar
	if _, err := s.inner.SetUniformBytes(wide[:]); err != nil {
		return Scalar{}, fmt.Errorf("scalar: %w", err)
	}

	return s, nil
}

// String renders the signed decimal interpretation of x, for logging.
func (x Scalar) String() string {
	return x.SignedBigInt().String()
}
