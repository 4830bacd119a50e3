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
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/Katarsyss/sxt-proof-of-sql/pkg/i256"
	"github.com/Katarsyss/sxt-proof-of-sql/pkg/scalar"
)

// typeTag is the one-byte discriminant spec §6 calls "field_type_tag".
type typeTag byte

const (
	tagBoolean   typeTag = 0
	tagBigInt    typeTag = 1
	tagInt128    typeTag = 2
	tagDecimal75 typeTag = 3
	tagVarChar   typeTag = 4
	tagScalar    typeTag = 5
)

func tagForKind(k Kind) (typeTag, error) {
	switch k {
	case KindBoolean:
		return tagBoolean, nil
	case KindBigInt:
		return tagBigInt, nil
	case KindInt128:
		return tagInt128, nil
	case KindDecimal75:
		return tagDecimal75, nil
	case KindVarChar:
		return tagVarChar, nil
	case KindScalar:
		return tagScalar, nil
	default:
		return 0, fmt.Errorf("database: unknown column kind %v", k)
	}
}

// EncodeColumnType writes ty's field_type_tag, per spec §6.
func EncodeColumnType(w *bytes.Buffer, ty ColumnType) error {
	tag, err := tagForKind(ty.Kind)
	if err != nil {
		return err
	}

	w.WriteByte(byte(tag))

	if ty.Kind == KindDecimal75 {
		w.WriteByte(ty.Precision)
		w.WriteByte(byte(ty.Scale))
	}

	return nil
}

// DecodeColumnType reads a field_type_tag back into a ColumnType.
func DecodeColumnType(r *bytes.Reader) (ColumnType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return ColumnType{}, fmt.Errorf("database: reading type tag: %w", err)
	}

	switch typeTag(b) {
	case tagBoolean:
		return Boolean, nil
	case tagBigInt:
		return BigIntType, nil
	case tagInt128:
		return Int128Type, nil
	case tagDecimal75:
		precision, err := r.ReadByte()
		if err != nil {
			return ColumnType{}, fmt.Errorf("database: reading decimal75 precision: %w", err)
		}

		scaleByte, err := r.ReadByte()
		if err != nil {
			return ColumnType{}, fmt.Errorf("database: reading decimal75 scale: %w", err)
		}

		return NewDecimal75(precision, int8(scaleByte))
	case tagVarChar:
		return VarChar, nil
	case tagScalar:
		return ScalarType, nil
	default:
		return ColumnType{}, fmt.Errorf("database: unknown type tag %d", b)
	}
}

// EncodeColumn writes col's rows in col's own native wire form: length-
// prefixed UTF-8 text for VarChar, 32-byte little-endian scalars (spec §6)
// for every other type. This is lossless for VarChar, whose scalar encoding
// (a one-way hash) is not.
func EncodeColumn(w *bytes.Buffer, col Column) error {
	if col.ty.Kind == KindVarChar {
		for _, s := range col.varCharData {
			var length [4]byte
			binary.LittleEndian.PutUint32(length[:], uint32(len(s)))
			w.Write(length[:])
			w.WriteString(s)
		}

		return nil
	}

	values, err := col.ToScalars()
	if err != nil {
		return fmt.Errorf("database: encoding column: %w", err)
	}

	for _, v := range values {
		b := v.Bytes()
		w.Write(b[:])
	}

	return nil
}

// DecodeColumn reads n rows of type ty back into a Column, the inverse of
// EncodeColumn. A non-canonical scalar (>= q) is rejected, per spec §6.
func DecodeColumn(r *bytes.Reader, ty ColumnType, n int) (Column, error) {
	if ty.Kind == KindVarChar {
		data := make([]string, n)

		for i := 0; i < n; i++ {
			var lengthBytes [4]byte
			if _, err := r.Read(lengthBytes[:]); err != nil {
				return Column{}, fmt.Errorf("database: reading varchar length: %w", err)
			}

			length := binary.LittleEndian.Uint32(lengthBytes[:])
			buf := make([]byte, length)

			if _, err := r.Read(buf); err != nil {
				return Column{}, fmt.Errorf("database: reading varchar bytes: %w", err)
			}

			data[i] = string(buf)
		}

		return NewVarCharColumn(data), nil
	}

	values := make([]scalar.Scalar, n)

	for i := 0; i < n; i++ {
		var raw [32]byte
		if _, err := r.Read(raw[:]); err != nil {
			return Column{}, fmt.Errorf("database: reading scalar bytes: %w", err)
		}

		v, err := scalar.FromCanonicalBytes(raw)
		if err != nil {
			return Column{}, fmt.Errorf("database: non-canonical scalar: %w", err)
		}

		values[i] = v
	}

	switch ty.Kind {
	case KindBoolean:
		bools := make([]bool, n)

		for i, v := range values {
			switch {
			case v.Equal(scalar.Zero):
				bools[i] = false
			case v.Equal(scalar.One):
				bools[i] = true
			default:
				return Column{}, fmt.Errorf("database: boolean row %d out of range", i)
			}
		}

		return NewBooleanColumn(bools), nil

	case KindBigInt:
		ints := make([]int64, n)

		for i, v := range values {
			signed := v.SignedBigInt()
			if !signed.IsInt64() {
				return Column{}, fmt.Errorf("database: bigint row %d out of range", i)
			}

			ints[i] = signed.Int64()
		}

		return NewBigIntColumn(ints), nil

	case KindInt128:
		bigints := make([]*big.Int, n)
		for i, v := range values {
			bigints[i] = v.SignedBigInt()
		}

		return NewInt128Column(bigints), nil

	case KindDecimal75:
		decimals := make([]i256.I256, n)
		for i, v := range values {
			decimals[i] = i256.ScalarToI256(v)
		}

		return NewDecimal75Column(ty.Precision, ty.Scale, decimals)

	case KindScalar:
		return NewScalarColumn(values), nil

	default:
		return Column{}, fmt.Errorf("database: unknown column kind %v", ty.Kind)
	}
}
