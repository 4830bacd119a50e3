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

// Package transcript implements the ordered, hashed record of public values
// exchanged during a proof (spec §5, Glossary "Transcript"). No
// Merlin-style transcript library appears anywhere in the retrieved
// example pack, so this is built directly on crypto/sha256 (see
// DESIGN.md); everything else in the proving stack treats Transcript as an
// opaque, ordered absorb/challenge API.
package transcript

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/commitment"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

// Transcript accumulates a running hash state over domain-tagged byte
// strings. Absorbing the same sequence of (label, data) pairs in the same
// order always derives the same challenges; absorbing in a different order,
// or with different data, derives different (computationally unrelated)
// challenges. This is what ties the prover's and verifier's views of a
// proof together (spec §5's ordering guarantee).
type Transcript struct {
	state [32]byte
}

// New starts a transcript, seeded with a domain-separation string that
// should be unique per proof system version.
func New(domain string) *Transcript {
	return &Transcript{state: sha256.Sum256([]byte(domain))}
}

// Absorb mixes a labelled byte string into the transcript state.
func (t *Transcript) Absorb(label string, data []byte) {
	h := sha256.New()
	h.Write(t.state[:])
	h.Write([]byte(label))

	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(len(data)))
	h.Write(length[:])
	h.Write(data)

	copy(t.state[:], h.Sum(nil))
}

// AbsorbUint64 absorbs a labelled 64-bit integer, e.g. a row count.
func (t *Transcript) AbsorbUint64(label string, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	t.Absorb(label, buf[:])
}

// AbsorbScalar absorbs a labelled field scalar, using its canonical byte
// encoding.
func (t *Transcript) AbsorbScalar(label string, s scalar.Scalar) {
	b := s.Bytes()
	t.Absorb(label, b[:])
}

// AbsorbScalars absorbs a labelled sequence of field scalars in order.
func (t *Transcript) AbsorbScalars(label string, values []scalar.Scalar) {
	t.AbsorbUint64(label+"/len", uint64(len(values)))

	for i, v := range values {
		t.AbsorbScalar(fmt.Sprintf("%s[%d]", label, i), v)
	}
}

// AbsorbCommitment absorbs a labelled commitment.
func (t *Transcript) AbsorbCommitment(label string, c commitment.Commitment) {
	t.Absorb(label, c.Bytes())
}

// ChallengeScalar derives a pseudorandom field-scalar challenge from the
// transcript's current state, then absorbs that challenge so subsequent
// challenges depend on it (standard Fiat-Shamir practice: a challenge is
// never derived twice from the same state).
func (t *Transcript) ChallengeScalar(label string) (scalar.Scalar, error) {
	h1 := sha256.New()
	h1.Write(t.state[:])
	h1.Write([]byte(label))
	h1.Write([]byte{0x00})
	lo := h1.Sum(nil)

	h2 := sha256.New()
	h2.Write(t.state[:])
	h2.Write([]byte(label))
	h2.Write([]byte{0x01})
	hi := h2.Sum(nil)

	wide := append(lo, hi...)

	c, err := scalar.FromWideBytes(wide)
	if err != nil {
		return scalar.Scalar{}, fmt.Errorf("transcript: deriving challenge %q: %w", label, err)
	}

	t.AbsorbScalar(label+"/challenge", c)

	return c, nil
}

// State returns the transcript's current digest, mostly useful for tests
// asserting determinism.
func (t *Transcript) State() [32]byte {
	return t.state
}
