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

// Package commitment provides a concrete, swappable instantiation of the
// polynomial-commitment scheme the proof-plan execution layer treats as an
// external black box. The spec (§1, §4.D) specifies the commitment engine
// only through its contract; this package supplies one real implementation,
// a Pedersen-style vector commitment over gnark-crypto's bls12-377 G1
// group, so the prover/verifier protocol can be exercised end to end.
package commitment

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"

	bls12377 "github.com/consensys/gnark-crypto/ecc/bls12-377"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

// Commitment is an opaque, short, binding commitment to a column: a single
// bls12-377 G1 point. Revealing the column lets a verifier re-derive and
// compare the commitment. The commitment is binding but not hiding: it has
// no blinding term, so equal columns always yield equal commitments.
type Commitment struct {
	point bls12377.G1Affine
}

// Equal reports whether c and other are the same commitment.
func (c Commitment) Equal(other Commitment) bool {
	return c.point.Equal(&other.point)
}

// Bytes returns the canonical compressed encoding of the commitment, for
// transcript absorption and serialisation.
func (c Commitment) Bytes() []byte {
	b := c.point.Bytes()
	return b[:]
}

// CommitmentSize is the length, in bytes, of a commitment's compressed
// encoding.
const CommitmentSize = bls12377.SizeOfG1AffineCompressed

// FromBytes decodes a commitment from its compressed encoding, as produced
// by Bytes. Used to reconstruct claims from a deserialised Proof.
func FromBytes(b []byte) (Commitment, error) {
	if len(b) != CommitmentSize {
		return Commitment{}, fmt.Errorf("commitment: expected %d bytes, got %d", CommitmentSize, len(b))
	}

	var point bls12377.G1Affine
	if _, err := point.SetBytes(b); err != nil {
		return Commitment{}, fmt.Errorf("commitment: decoding: %w", err)
	}

	return Commitment{point: point}, nil
}

// Engine commits to a vector of field scalars (one per row of a column) and
// can verify a claimed opening. Implementations need not be hiding; the
// spec only requires binding (§1: "privacy of the data from the verifier"
// is explicitly a non-goal).
type Engine interface {
	// Commit returns the commitment to values.
	Commit(values []scalar.Scalar) (Commitment, error)
	// Verify reports whether commitment is the correct commitment to
	// values under this engine.
	Verify(c Commitment, values []scalar.Scalar) (bool, error)
}

// PedersenEngine is a Pedersen-style vector commitment: Commit(v) = sum_i
// v[i] * basis[i], where basis is a deterministic sequence of bls12-377 G1
// points derived from a domain-separation tag. Two PedersenEngines built
// with the same tag agree on the same basis and so can check each other's
// commitments; this is what lets a verifier recompute a commitment
// independently of the prover.
type PedersenEngine struct {
	tag   string
	basis []bls12377.G1Affine
}

// NewPedersenEngine constructs an engine whose basis is derived from tag.
// Distinct tags yield independent, non-interoperable bases (a deliberate
// form of domain separation between unrelated tables/columns).
func NewPedersenEngine(tag string) *PedersenEngine {
	return &PedersenEngine{tag: tag}
}

func basisPoint(tag string, index int) bls12377.G1Affine {
	h := sha256.New()
	h.Write([]byte("sxt-proof-of-sql/pedersen-basis/"))
	h.Write([]byte(tag))

	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], uint64(index))
	h.Write(idx[:])

	digest := h.Sum(nil)
	exponent := new(big.Int).SetBytes(digest)

	_, _, gen, _ := bls12377.Generators()

	var p bls12377.G1Affine
	p.ScalarMultiplication(&gen, exponent)

	return p
}

// ensureBasis grows e.basis, if necessary, to cover n basis vectors.
func (e *PedersenEngine) ensureBasis(n int) {
	for len(e.basis) < n {
		e.basis = append(e.basis, basisPoint(e.tag, len(e.basis)))
	}
}

// Commit returns sum_i values[i] * basis[i].
func (e *PedersenEngine) Commit(values []scalar.Scalar) (Commitment, error) {
	e.ensureBasis(len(values))

	var acc bls12377.G1Jac

	for i, v := range values {
		var contribution bls12377.G1Affine

		contribution.ScalarMultiplication(&e.basis[i], v.UnsignedBigInt())

		var contributionJac bls12377.G1Jac

		contributionJac.FromAffine(&contribution)
		acc.AddAssign(&contributionJac)
	}

	var result bls12377.G1Affine

	result.FromJacobian(&acc)

	return Commitment{point: result}, nil
}

// Verify recomputes the commitment to values and compares it to c.
func (e *PedersenEngine) Verify(c Commitment, values []scalar.Scalar) (bool, error) {
	recomputed, err := e.Commit(values)
	if err != nil {
		return false, fmt.Errorf("commitment: recompute: %w", err)
	}

	return recomputed.Equal(c), nil
}

var _ Engine = (*PedersenEngine)(nil)
