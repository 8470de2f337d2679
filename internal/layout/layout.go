// ==============================
// File: internal/layout/layout.go
// ==============================
package layout

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// BufferTooShortError is returned when a field's [offset, offset+width) range
// exceeds the account buffer length. The decoder never reads out of bounds.
type BufferTooShortError struct {
	Field  string
	Offset int
	Width  int
	Have   int
}

func (e *BufferTooShortError) Error() string {
	return fmt.Sprintf("buffer too short for field %q: need bytes [%d,%d), have %d",
		e.Field, e.Offset, e.Offset+e.Width, e.Have)
}

// UnknownVariantError is returned when an enum discriminant byte is outside
// the legal value set for that field.
type UnknownVariantError struct {
	Field string
	Value uint8
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant %d for field %q", e.Value, e.Field)
}

// Reader decodes fixed-offset little-endian account layouts from a raw byte
// buffer. All reads are bounds-checked; the buffer is never mutated.
type Reader struct {
	data []byte
}

func NewReader(data []byte) Reader {
	return Reader{data: data}
}

func (r Reader) Len() int {
	return len(r.data)
}

func (r Reader) check(field string, offset, width int) error {
	if offset < 0 || offset+width > len(r.data) {
		return &BufferTooShortError{Field: field, Offset: offset, Width: width, Have: len(r.data)}
	}
	return nil
}

// U64 reads an unsigned 64-bit little-endian integer at offset.
func (r Reader) U64(field string, offset int) (uint64, error) {
	if err := r.check(field, offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(r.data[offset : offset+8]), nil
}

// BigU64 reads a u64 field into a big.Int so downstream arithmetic never
// round-trips through a float.
func (r Reader) BigU64(field string, offset int) (*big.Int, error) {
	v, err := r.U64(field, offset)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(v), nil
}

// U8 reads a single unsigned byte at offset.
func (r Reader) U8(field string, offset int) (uint8, error) {
	if err := r.check(field, offset, 1); err != nil {
		return 0, err
	}
	return r.data[offset], nil
}

// Bool reads a single byte at offset; any nonzero value is true.
func (r Reader) Bool(field string, offset int) (bool, error) {
	v, err := r.U8(field, offset)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// Enum reads a single-byte discriminant and validates it against the legal
// value set. Out-of-set values fail with UnknownVariantError, never a default.
func (r Reader) Enum(field string, offset int, legal ...uint8) (uint8, error) {
	v, err := r.U8(field, offset)
	if err != nil {
		return 0, err
	}
	for _, l := range legal {
		if v == l {
			return v, nil
		}
	}
	return 0, &UnknownVariantError{Field: field, Value: v}
}

// PublicKey reads a 32-byte identifier verbatim. No validation beyond length.
func (r Reader) PublicKey(field string, offset int) (solana.PublicKey, error) {
	if err := r.check(field, offset, 32); err != nil {
		return solana.PublicKey{}, err
	}
	var key solana.PublicKey
	copy(key[:], r.data[offset:offset+32])
	return key, nil
}
