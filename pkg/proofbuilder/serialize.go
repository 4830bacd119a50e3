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
package proofbuilder

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/commitment"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
)

func writeLengthPrefixed(w *bytes.Buffer, s string) {
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(s)))
	w.Write(length[:])
	w.WriteString(s)
}

func readLengthPrefixed(r *bytes.Reader) (string, error) {
	var length [4]byte
	if _, err := r.Read(length[:]); err != nil {
		return "", fmt.Errorf("proofbuilder: reading string length: %w", err)
	}

	n := binary.LittleEndian.Uint32(length[:])
	buf := make([]byte, n)

	if _, err := r.Read(buf); err != nil {
		return "", fmt.Errorf("proofbuilder: reading string bytes: %w", err)
	}

	return string(buf), nil
}

// Encode appends proof's wire encoding to w: row count, the public-value
// map, then every claim in order (label, column, commitment).
func (p Proof) Encode(w *bytes.Buffer) error {
	var rowCount [8]byte
	binary.LittleEndian.PutUint64(rowCount[:], p.RowCount)
	w.Write(rowCount[:])

	var publicCount [4]byte
	binary.LittleEndian.PutUint32(publicCount[:], uint32(len(p.Public)))
	w.Write(publicCount[:])

	for label, value := range p.Public {
		writeLengthPrefixed(w, label)

		var v [8]byte
		binary.LittleEndian.PutUint64(v[:], value)
		w.Write(v[:])
	}

	var claimCount [4]byte
	binary.LittleEndian.PutUint32(claimCount[:], uint32(len(p.Claims)))
	w.Write(claimCount[:])

	for _, claim := range p.Claims {
		writeLengthPrefixed(w, claim.Label)

		if err := database.EncodeColumnType(w, claim.Column.Type()); err != nil {
			return fmt.Errorf("proofbuilder: encoding claim %q: %w", claim.Label, err)
		}

		var rows [4]byte
		binary.LittleEndian.PutUint32(rows[:], uint32(claim.Column.Len()))
		w.Write(rows[:])

		if err := database.EncodeColumn(w, claim.Column); err != nil {
			return fmt.Errorf("proofbuilder: encoding claim %q: %w", claim.Label, err)
		}

		w.Write(claim.Commitment.Bytes())
	}

	return nil
}

// DecodeProof reads a Proof back from its wire encoding, the inverse of
// Encode.
func DecodeProof(r *bytes.Reader) (Proof, error) {
	var rowCountBytes [8]byte
	if _, err := r.Read(rowCountBytes[:]); err != nil {
		return Proof{}, fmt.Errorf("proofbuilder: reading row count: %w", err)
	}

	rowCount := binary.LittleEndian.Uint64(rowCountBytes[:])

	var publicCountBytes [4]byte
	if _, err := r.Read(publicCountBytes[:]); err != nil {
		return Proof{}, fmt.Errorf("proofbuilder: reading public count: %w", err)
	}

	publicCount := binary.LittleEndian.Uint32(publicCountBytes[:])
	public := make(map[string]uint64, publicCount)

	for i := uint32(0); i < publicCount; i++ {
		label, err := readLengthPrefixed(r)
		if err != nil {
			return Proof{}, err
		}

		var v [8]byte
		if _, err := r.Read(v[:]); err != nil {
			return Proof{}, fmt.Errorf("proofbuilder: reading public value for %q: %w", label, err)
		}

		public[label] = binary.LittleEndian.Uint64(v[:])
	}

	var claimCountBytes [4]byte
	if _, err := r.Read(claimCountBytes[:]); err != nil {
		return Proof{}, fmt.Errorf("proofbuilder: reading claim count: %w", err)
	}

	claimCount := binary.LittleEndian.Uint32(claimCountBytes[:])
	claims := make([]Claim, claimCount)

	for i := uint32(0); i < claimCount; i++ {
		label, err := readLengthPrefixed(r)
		if err != nil {
			return Proof{}, err
		}

		ty, err := database.DecodeColumnType(r)
		if err != nil {
			return Proof{}, fmt.Errorf("proofbuilder: decoding claim %q: %w", label, err)
		}

		var rowsBytes [4]byte
		if _, err := r.Read(rowsBytes[:]); err != nil {
			return Proof{}, fmt.Errorf("proofbuilder: reading claim %q row count: %w", label, err)
		}

		rows := int(binary.LittleEndian.Uint32(rowsBytes[:]))

		col, err := database.DecodeColumn(r, ty, rows)
		if err != nil {
			return Proof{}, fmt.Errorf("proofbuilder: decoding claim %q: %w", label, err)
		}

		commitmentBytes := make([]byte, commitment.CommitmentSize)
		if _, err := r.Read(commitmentBytes); err != nil {
			return Proof{}, fmt.Errorf("proofbuilder: reading claim %q commitment: %w", label, err)
		}

		c, err := commitment.FromBytes(commitmentBytes)
		if err != nil {
			return Proof{}, fmt.Errorf("proofbuilder: decoding claim %q commitment: %w", label, err)
		}

		claims[i] = Claim{Label: label, Column: col, Commitment: c}
	}

	return Proof{RowCount: rowCount, Public: public, Claims: claims}, nil
}
