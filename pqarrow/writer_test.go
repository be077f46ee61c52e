package pqarrow

import (
	"bytes"
	"testing"

	"github.com/kmjung/arrow/array"
	"github.com/kmjung/arrow/parquet"
)

// fakeColumnWriter is a minimal in-memory parquet.ColumnWriter that records
// every batch it is handed, for asserting what the Arrow Column Writer
// dispatched.
type fakeColumnWriter struct {
	required bool
	batches  []batchCall
}

type batchCall struct {
	spaced    bool
	numLevels int
	defLevels []int16
	repLevels []int16
	values    any
}

func (f *fakeColumnWriter) IsRequired() bool { return f.required }

func (f *fakeColumnWriter) WriteBatch(numLevels int, defLevels, repLevels []int16, values any) (int64, error) {
	f.batches = append(f.batches, batchCall{numLevels: numLevels, defLevels: defLevels, repLevels: repLevels, values: values})
	return int64(numLevels), nil
}

func (f *fakeColumnWriter) WriteBatchSpaced(numLevels int, defLevels, repLevels []int16, validBits []byte, validBitsOffset int64, values any) (int64, error) {
	f.batches = append(f.batches, batchCall{spaced: true, numLevels: numLevels, defLevels: defLevels, repLevels: repLevels, values: values})
	return int64(numLevels), nil
}

func (f *fakeColumnWriter) Close() error { return nil }

func TestWriteDecimal128ByteWidth(t *testing.T) {
	// 12345 = $123.45 at precision=10, scale=2; byte_width=5.
	var le [16]byte
	le[0] = 0x39 // 12345 = 0x3039, little-endian low byte first
	le[1] = 0x30

	leaf := &array.FlatColumn{
		Type:           array.LogicalType{Kind: array.Decimal128, Precision: 10, Scale: 2},
		Length:         1,
		Decimal128Data: [][16]byte{le},
	}

	dest := &fakeColumnWriter{required: true}
	w := NewArrowColumnWriter(dest, &ScratchContext{}, ColumnWriterOptions{})
	if err := w.Write(leaf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if len(dest.batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(dest.batches))
	}
	values, ok := dest.batches[0].values.([][]byte)
	if !ok || len(values) != 1 {
		t.Fatalf("values = %#v, want a single [][]byte entry", dest.batches[0].values)
	}
	if len(values[0]) != 5 {
		t.Fatalf("byte_width = %d, want 5", len(values[0]))
	}
	want := []byte{0x00, 0x00, 0x00, 0x30, 0x39}
	if !bytes.Equal(values[0], want) {
		t.Fatalf("decimal bytes = % x, want % x", values[0], want)
	}
}

func TestWriteBooleanCompactsNulls(t *testing.T) {
	validity := array.NewBitmap(4)
	validity.SetValid(0)
	validity.SetValid(2)
	validity.SetValid(3)

	leaf := &array.FlatColumn{
		Type:     array.LogicalType{Kind: array.Boolean},
		Validity: validity,
		Length:   4,
		BoolData: []bool{true, false, false, true},
	}

	dest := &fakeColumnWriter{required: false}
	w := NewArrowColumnWriter(dest, &ScratchContext{}, ColumnWriterOptions{})
	if err := w.Write(leaf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	packed, ok := dest.batches[0].values.([]byte)
	if !ok {
		t.Fatalf("values = %#v, want []byte", dest.batches[0].values)
	}
	// 3 valid values: true, false, true -> bits 0,1,2 = 1,0,1
	if len(packed) != 1 || packed[0] != 0b101 {
		t.Fatalf("packed bits = %08b, want 00000101", packed)
	}
}

func TestWriteRequiredInt64Dense(t *testing.T) {
	leaf := &array.FlatColumn{
		Type:      array.LogicalType{Kind: array.Int64},
		Length:    3,
		Int64Data: []int64{10, 20, 30},
	}

	dest := &fakeColumnWriter{required: true}
	w := NewArrowColumnWriter(dest, &ScratchContext{}, ColumnWriterOptions{})
	if err := w.Write(leaf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	call := dest.batches[0]
	if call.spaced {
		t.Fatal("expected a dense write for a required column")
	}
	if call.defLevels != nil || call.repLevels != nil {
		t.Fatalf("expected no levels for a required flat column, got def=%v rep=%v", call.defLevels, call.repLevels)
	}
	values, ok := call.values.([]int64)
	if !ok {
		t.Fatalf("values = %#v, want []int64", call.values)
	}
	want := []int64{10, 20, 30}
	for i, v := range want {
		if values[i] != v {
			t.Fatalf("values[%d] = %d, want %d", i, values[i], v)
		}
	}
}

func TestWriteTimestampV1NanosCoercion(t *testing.T) {
	leaf := &array.FlatColumn{
		Type:      array.LogicalType{Kind: array.Timestamp, Unit: array.Nanosecond},
		Length:    1,
		Int64Data: []int64{1_500_000_000},
	}

	dest := &fakeColumnWriter{required: true}
	w := NewArrowColumnWriter(dest, &ScratchContext{}, ColumnWriterOptions{Version: parquet.Version1_0})
	if err := w.Write(leaf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	values, ok := dest.batches[0].values.([]int64)
	if !ok || values[0] != 1_500_000 {
		t.Fatalf("values = %#v, want [1500000]", dest.batches[0].values)
	}
}

func TestWriteTimestampSkipsTruncationCheckAtNullPositions(t *testing.T) {
	// A nullable Timestamp(ns) column forced to microsecond coercion
	// (Parquet v1.0), where the null slot holds a non-representable value.
	// The write must succeed: the truncation check must not fire for a null
	// position, even though v1.0+ns forces allowTruncated=false.
	validity := array.NewBitmap(2)
	validity.SetValid(0)
	// index 1 left null, with garbage that would fail the modulus check.

	leaf := &array.FlatColumn{
		Type:      array.LogicalType{Kind: array.Timestamp, Unit: array.Nanosecond},
		Validity:  validity,
		Length:    2,
		Int64Data: []int64{1_500_000_000, 1_500_000_999},
	}

	dest := &fakeColumnWriter{required: false}
	w := NewArrowColumnWriter(dest, &ScratchContext{}, ColumnWriterOptions{Version: parquet.Version1_0})
	if err := w.Write(leaf); err != nil {
		t.Fatalf("Write: %v, want success since the offending value is at a null position", err)
	}
}

func TestWriteTimestampStillFailsOnNonNullTruncation(t *testing.T) {
	validity := array.NewBitmap(2)
	validity.SetValid(0)
	validity.SetValid(1) // both valid: position 1's garbage must be checked

	leaf := &array.FlatColumn{
		Type:      array.LogicalType{Kind: array.Timestamp, Unit: array.Nanosecond},
		Validity:  validity,
		Length:    2,
		Int64Data: []int64{1_500_000_000, 1_500_000_999},
	}

	dest := &fakeColumnWriter{required: false}
	w := NewArrowColumnWriter(dest, &ScratchContext{}, ColumnWriterOptions{Version: parquet.Version1_0})
	if err := w.Write(leaf); err == nil {
		t.Fatal("expected ErrTimestampTruncation for the non-null offending value")
	}
}
