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

// Package queryresult implements VerifiableQueryResult (spec §4.G): the
// container coupling a public, inspectable result preview with the
// transcript-bound proof, the prover orchestration that drives a
// proofplan.DynProofPlan's two rounds to produce one, and the verifier
// replay that checks it. Serialisation follows spec §6's length-prefixed
// wire format, with each column's length-prefixed name added before its
// type tag.
package queryresult

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/arena"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/database"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofbuilder"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofexpr"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/prooferr"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/proofplan"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/transcript"
)

// VerifiableQueryResult is (a) the public portion of a query's result —
// column count, row count, and each output column's raw scalar bytes,
// readable without running verification — and (b) the proof transcript
// that binds it to the source table's commitments.
type VerifiableQueryResult struct {
	RowCount uint64
	Fields   []database.ColumnField
	Scalars  [][]scalar.Scalar
	Proof    proofbuilder.Proof
}

// Prove drives plan's two rounds over accessor, under a transcript seeded
// with tag, and packages the result as a VerifiableQueryResult. The
// commitment engine is accessor's own (EngineAccessor) — never a second,
// independently supplied one — so a leaf claim's commitment can never
// diverge from accessor's pre-committed one merely because two different
// engine instances were used.
func Prove(tag string, plan proofplan.DynProofPlan, accessor database.ProverAccessor) (*VerifiableQueryResult, error) {
	pb := proofbuilder.NewProverBuilder(transcript.New(tag), accessor.Engine())

	if _, err := plan.FirstRoundEvaluate(pb, accessor); err != nil {
		return nil, err
	}

	tbl, err := plan.FinalRoundEvaluate(pb, arena.New(), accessor)
	if err != nil {
		return nil, err
	}

	fields := tbl.Fields()
	scalars := make([][]scalar.Scalar, len(fields))

	for i, f := range fields {
		col, ok := tbl.Column(f.Name)
		if !ok {
			return nil, prooferr.New(prooferr.Verification, "plan result missing declared column "+f.Name.Name())
		}

		values, err := col.ToScalars()
		if err != nil {
			return nil, prooferr.Wrap(prooferr.EvaluationOverflow, "encoding result column "+f.Name.Name(), err)
		}

		scalars[i] = values
	}

	return &VerifiableQueryResult{
		RowCount: uint64(tbl.NumRows()),
		Fields:   fields,
		Scalars:  scalars,
		Proof:    pb.Finish(),
	}, nil
}

// Verify checks r against plan and accessor under a transcript seeded with
// tag (which must match the tag Prove used), and returns the resulting
// OwnedTable. It both decodes r's public preview (the spec §4.G boundary
// where a malformed scalar — boolean out of {0,1}, integer out of range —
// is a VerificationError) and independently replays the full proof via
// plan's verifier rounds, then checks the two agree: a preview consistent
// with its own claimed shape but inconsistent with the actual proof is
// caught here, not silently accepted because "the proof checked out".
func (r *VerifiableQueryResult) Verify(tag string, plan proofplan.DynProofPlan, accessor database.VerifierAccessor) (database.OwnedTable, error) {
	if len(r.Fields) != len(r.Scalars) {
		return database.OwnedTable{}, prooferr.New(prooferr.Verification, "result preview has mismatched field and column counts")
	}

	previewNames := make([]database.Identifier, len(r.Fields))
	previewCols := make([]database.Column, len(r.Fields))

	for i, f := range r.Fields {
		col, err := proofexpr.ColumnFromScalars(f.Type, r.Scalars[i])
		if err != nil {
			return database.OwnedTable{}, prooferr.Wrap(prooferr.Verification, "decoding result preview column "+f.Name.Name(), err)
		}

		previewNames[i] = f.Name
		previewCols[i] = col
	}

	previewTable, err := database.TryNewOwnedTable(previewNames, previewCols)
	if err != nil {
		return database.OwnedTable{}, prooferr.Wrap(prooferr.Verification, "assembling result preview", err)
	}

	vb := proofbuilder.NewVerifierBuilder(transcript.New(tag), accessor.Engine(), r.Proof)

	n, err := plan.VerifierFirstRound(vb, accessor)
	if err != nil {
		return database.OwnedTable{}, err
	}

	if n != r.RowCount {
		return database.OwnedTable{}, prooferr.New(prooferr.Verification,
			fmt.Sprintf("row count mismatch: plan produces %d, preview declares %d", n, r.RowCount))
	}

	provenTable, err := plan.VerifierEvaluate(vb, accessor)
	if err != nil {
		return database.OwnedTable{}, err
	}

	if err := vb.Done(); err != nil {
		return database.OwnedTable{}, err
	}

	if !fieldsEqual(plan.ResultFields(), provenTable.Fields()) {
		return database.OwnedTable{}, prooferr.New(prooferr.Verification, "proven result schema does not match plan's declared result fields")
	}

	ok, err := tablesEqual(previewTable, provenTable)
	if err != nil {
		return database.OwnedTable{}, err
	}

	if !ok {
		return database.OwnedTable{}, prooferr.New(prooferr.Verification, "public result preview does not match the proven result")
	}

	return provenTable, nil
}

func fieldsEqual(a, b []database.ColumnField) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !a[i].Name.Equal(b[i].Name) || a[i].Type != b[i].Type {
			return false
		}
	}

	return true
}

func tablesEqual(a, b database.OwnedTable) (bool, error) {
	if a.NumColumns() != b.NumColumns() || a.NumRows() != b.NumRows() {
		return false, nil
	}

	for i := 0; i < a.NumColumns(); i++ {
		name := a.NameAt(i)

		bCol, ok := b.Column(name)
		if !ok {
			return false, nil
		}

		aScalars, err := a.ColumnAt(i).ToScalars()
		if err != nil {
			return false, err
		}

		bScalars, err := bCol.ToScalars()
		if err != nil {
			return false, err
		}

		if len(aScalars) != len(bScalars) {
			return false, nil
		}

		for j := range aScalars {
			if !aScalars[j].Equal(bScalars[j]) {
				return false, nil
			}
		}
	}

	return true, nil
}

// Serialize encodes r per spec §6: row count, column count, then for each
// column its name (u32 length prefix, then bytes), field_type_tag and raw
// scalar bytes, then the proof bytes.
func (r *VerifiableQueryResult) Serialize() ([]byte, error) {
	var w bytes.Buffer

	var rowCount [8]byte
	binary.LittleEndian.PutUint64(rowCount[:], r.RowCount)
	w.Write(rowCount[:])

	var colCount [8]byte
	binary.LittleEndian.PutUint64(colCount[:], uint64(len(r.Fields)))
	w.Write(colCount[:])

	for i, f := range r.Fields {
		var nameLength [4]byte
		binary.LittleEndian.PutUint32(nameLength[:], uint32(len(f.Name.Name())))
		w.Write(nameLength[:])
		w.WriteString(f.Name.Name())

		if err := database.EncodeColumnType(&w, f.Type); err != nil {
			return nil, prooferr.Wrap(prooferr.Serialisation, "encoding column "+f.Name.Name(), err)
		}

		for _, v := range r.Scalars[i] {
			b := v.Bytes()
			w.Write(b[:])
		}
	}

	if err := r.Proof.Encode(&w); err != nil {
		return nil, prooferr.Wrap(prooferr.Serialisation, "encoding proof", err)
	}

	return w.Bytes(), nil
}

// Deserialize decodes a VerifiableQueryResult from bytes produced by
// Serialize. A non-canonical scalar (>= q) anywhere in the result preview
// is rejected with a Serialisation error, per spec §6.
func Deserialize(data []byte) (*VerifiableQueryResult, error) {
	r := bytes.NewReader(data)

	var rowCountBytes [8]byte
	if _, err := r.Read(rowCountBytes[:]); err != nil {
		return nil, prooferr.Wrap(prooferr.Serialisation, "reading row count", err)
	}

	rowCount := binary.LittleEndian.Uint64(rowCountBytes[:])

	var colCountBytes [8]byte
	if _, err := r.Read(colCountBytes[:]); err != nil {
		return nil, prooferr.Wrap(prooferr.Serialisation, "reading column count", err)
	}

	colCount := binary.LittleEndian.Uint64(colCountBytes[:])

	fields := make([]database.ColumnField, colCount)
	scalars := make([][]scalar.Scalar, colCount)

	for i := uint64(0); i < colCount; i++ {
		var nameLength [4]byte
		if _, err := r.Read(nameLength[:]); err != nil {
			return nil, prooferr.Wrap(prooferr.Serialisation, "reading column name length", err)
		}

		nameBuf := make([]byte, binary.LittleEndian.Uint32(nameLength[:]))
		if _, err := r.Read(nameBuf); err != nil {
			return nil, prooferr.Wrap(prooferr.Serialisation, "reading column name", err)
		}

		name, err := database.NewIdentifier(string(nameBuf))
		if err != nil {
			return nil, prooferr.Wrap(prooferr.Serialisation, "decoding column name", err)
		}

		ty, err := database.DecodeColumnType(r)
		if err != nil {
			return nil, prooferr.Wrap(prooferr.Serialisation, "decoding column type", err)
		}

		values := make([]scalar.Scalar, rowCount)

		for row := uint64(0); row < rowCount; row++ {
			var raw [32]byte
			if _, err := r.Read(raw[:]); err != nil {
				return nil, prooferr.Wrap(prooferr.Serialisation, "reading scalar bytes", err)
			}

			v, err := scalar.FromCanonicalBytes(raw)
			if err != nil {
				return nil, prooferr.Wrap(prooferr.Serialisation, "non-canonical scalar", err)
			}

			values[row] = v
		}

		fields[i] = database.ColumnField{Name: name, Type: ty}
		scalars[i] = values
	}

	proof, err := proofbuilder.DecodeProof(r)
	if err != nil {
		return nil, prooferr.Wrap(prooferr.Serialisation, "decoding proof", err)
	}

	return &VerifiableQueryResult{RowCount: rowCount, Fields: fields, Scalars: scalars, Proof: proof}, nil
}
