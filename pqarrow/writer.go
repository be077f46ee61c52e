package pqarrow

import (
	"fmt"

	"github.com/kmjung/arrow/array"
	"github.com/kmjung/arrow/parquet"
	"github.com/kmjung/arrow/parquet/encoding/plain"
)

// ColumnWriterOptions configures an ArrowColumnWriter: the target Parquet
// format version (affects the uint32 dispatch and default timestamp
// coercion) and the Arrow-specific timestamp properties.
type ColumnWriterOptions struct {
	Version    parquet.Version
	ArrowProps ArrowWriterProperties

	// Caster resolves dictionary-encoded columns to their value type.
	// Nil unless the caller expects dictionary columns.
	Caster parquet.Caster

	// FieldNullableSpine is the target column's array.Field.NullableSpine,
	// forwarded to BuildLevels for its preflight nesting-depth check. Nil
	// when the caller has no declared spine to check against.
	FieldNullableSpine []bool
}

// DictionaryColumn is satisfied by columns that carry a dictionary
// encoding. array's Flat/List columns never do; this interface exists so
// an external column type can still drive the dictionary detour described
// in the design: cast to value type via Caster, then recurse.
type DictionaryColumn interface {
	array.Column
	IsDictionaryEncoded() bool
}

// ArrowColumnWriter is the per-leaf-column driver: it runs the level
// builder, converts the leaf's values to their Parquet physical
// representation, and invokes the underlying column encoder in dense or
// spaced mode.
type ArrowColumnWriter struct {
	dest    parquet.ColumnWriter
	scratch *ScratchContext
	opts    ColumnWriterOptions
}

// NewArrowColumnWriter builds an ArrowColumnWriter targeting dest, using
// scratch for its typed conversion buffers.
func NewArrowColumnWriter(dest parquet.ColumnWriter, scratch *ScratchContext, opts ColumnWriterOptions) *ArrowColumnWriter {
	return &ArrowColumnWriter{dest: dest, scratch: scratch, opts: opts}
}

// Write converts col's values and levels and feeds them to the underlying
// column encoder. It is a no-op when col is empty.
func (w *ArrowColumnWriter) Write(col array.Column) error {
	if col.Len() == 0 {
		return nil
	}

	if dc, ok := col.(DictionaryColumn); ok && dc.IsDictionaryEncoded() {
		if w.opts.Caster == nil {
			return fmt.Errorf("%w: dictionary column requires a Caster", ErrNotImplemented)
		}
		decoded, err := w.opts.Caster.CastDictionary(col)
		if err != nil {
			return err
		}
		return w.Write(decoded)
	}

	lvls, err := BuildLevels(col, w.opts.FieldNullableSpine, w.scratch)
	if err != nil {
		return err
	}

	leaf := lvls.Values
	off, n := lvls.ValuesOffset, lvls.NumValues

	switch leaf.Type.Kind {
	case array.Null:
		_, err := w.dest.WriteBatch(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, nil)
		return err

	case array.Boolean:
		return w.writeBoolean(lvls, leaf, off, n)

	case array.Int8, array.Int16, array.Int32, array.Uint8, array.Uint16:
		return w.writeWidenedInt32(lvls, leaf, off, n)

	case array.Uint32:
		if w.opts.Version == parquet.Version1_0 {
			return w.writeWidenedInt64(lvls, leaf, off, n, widenUint32ToInt64)
		}
		return w.writeReinterpretedInt32(lvls, leaf, off, n)

	case array.Int64, array.Time64:
		return w.writeInt64(lvls, leaf.Int64Data[off:off+n])

	case array.Uint64:
		return w.writeWidenedInt64(lvls, leaf, off, n, reinterpretUint64AsInt64)

	case array.Float32:
		return w.writeFloat32(lvls, leaf.Float32Data[off:off+n])

	case array.Float64:
		return w.writeFloat64(lvls, leaf.Float64Data[off:off+n])

	case array.Date32:
		return w.writeInt32(lvls, leaf.Int32Data[off:off+n])

	case array.Date64:
		scratch := w.scratch.Int32(n)
		for i, v := range leaf.Int64Data[off : off+n] {
			scratch[i] = int32(v / 86_400_000)
		}
		return w.dispatchInt32(lvls, leaf, off, n, scratch)

	case array.Time32:
		if leaf.Type.Unit == array.Second {
			scratch := w.scratch.Int32(n)
			for i, v := range leaf.Int32Data[off : off+n] {
				scratch[i] = v * 1000
			}
			return w.dispatchInt32(lvls, leaf, off, n, scratch)
		}
		return w.writeInt32(lvls, leaf.Int32Data[off:off+n])

	case array.Timestamp:
		return w.writeTimestamp(lvls, leaf, off, n)

	case array.Binary, array.String:
		return w.writeBinary(lvls, leaf, off, n)

	case array.FixedSizeBinary:
		return w.writeFixedSizeBinary(lvls, leaf, off, n)

	case array.Decimal128:
		return w.writeDecimal128(lvls, leaf, off, n)

	default:
		return fmt.Errorf("%w: leaf logical type %s", ErrNotImplemented, leaf.Type)
	}
}

// isValidAt reports whether absolute buffer position i is valid, treating
// a nil validity bitmap as all-valid.
func isValidAt(leaf *array.FlatColumn, i int) bool {
	return leaf.Validity == nil || leaf.Validity.IsValid(i)
}

// countNullsInRange counts nulls among [off, off+n) of leaf's validity
// bitmap, interpreting a nil bitmap as zero nulls.
func countNullsInRange(leaf *array.FlatColumn, off, n int) int {
	if leaf.Validity == nil {
		return 0
	}
	nulls := 0
	for i := off; i < off+n; i++ {
		if !leaf.Validity.IsValid(i) {
			nulls++
		}
	}
	return nulls
}

// dispatchInt32 writes scratch (already converted, length n) dense or
// spaced according to leaf's nulls in [off, off+n).
func (w *ArrowColumnWriter) dispatchInt32(lvls *Levels, leaf *array.FlatColumn, off, n int, scratch []int32) error {
	if w.dest.IsRequired() || countNullsInRange(leaf, off, n) == 0 {
		_, err := w.dest.WriteBatch(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, scratch)
		return err
	}
	_, err := w.dest.WriteBatchSpaced(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, leaf.Validity, int64(off), scratch)
	return err
}

func (w *ArrowColumnWriter) writeInt32(lvls *Levels, values []int32) error {
	return w.dispatchInt32(lvls, lvls.Values, lvls.ValuesOffset, lvls.NumValues, values)
}

func (w *ArrowColumnWriter) writeWidenedInt32(lvls *Levels, leaf *array.FlatColumn, off, n int) error {
	scratch := w.scratch.Int32(n)
	widenToInt32(scratch, leaf, off, n)
	return w.dispatchInt32(lvls, leaf, off, n, scratch)
}

func (w *ArrowColumnWriter) writeReinterpretedInt32(lvls *Levels, leaf *array.FlatColumn, off, n int) error {
	scratch := w.scratch.Int32(n)
	for i, v := range leaf.Uint32Data[off : off+n] {
		scratch[i] = int32(v)
	}
	return w.dispatchInt32(lvls, leaf, off, n, scratch)
}

func (w *ArrowColumnWriter) dispatchInt64(lvls *Levels, leaf *array.FlatColumn, off, n int, scratch []int64) error {
	if w.dest.IsRequired() || countNullsInRange(leaf, off, n) == 0 {
		_, err := w.dest.WriteBatch(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, scratch)
		return err
	}
	_, err := w.dest.WriteBatchSpaced(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, leaf.Validity, int64(off), scratch)
	return err
}

func (w *ArrowColumnWriter) writeInt64(lvls *Levels, values []int64) error {
	return w.dispatchInt64(lvls, lvls.Values, lvls.ValuesOffset, lvls.NumValues, values)
}

func widenUint32ToInt64(dst []int64, leaf *array.FlatColumn, off, n int) {
	for i, v := range leaf.Uint32Data[off : off+n] {
		dst[i] = int64(v)
	}
}

func reinterpretUint64AsInt64(dst []int64, leaf *array.FlatColumn, off, n int) {
	for i, v := range leaf.Uint64Data[off : off+n] {
		dst[i] = int64(v)
	}
}

func (w *ArrowColumnWriter) writeWidenedInt64(lvls *Levels, leaf *array.FlatColumn, off, n int, widen func([]int64, *array.FlatColumn, int, int)) error {
	scratch := w.scratch.Int64(n)
	widen(scratch, leaf, off, n)
	return w.dispatchInt64(lvls, leaf, off, n, scratch)
}

func (w *ArrowColumnWriter) writeFloat32(lvls *Levels, values []float32) error {
	leaf, off, n := lvls.Values, lvls.ValuesOffset, lvls.NumValues
	if w.dest.IsRequired() || countNullsInRange(leaf, off, n) == 0 {
		_, err := w.dest.WriteBatch(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, values)
		return err
	}
	_, err := w.dest.WriteBatchSpaced(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, leaf.Validity, int64(off), values)
	return err
}

func (w *ArrowColumnWriter) writeFloat64(lvls *Levels, values []float64) error {
	leaf, off, n := lvls.Values, lvls.ValuesOffset, lvls.NumValues
	if w.dest.IsRequired() || countNullsInRange(leaf, off, n) == 0 {
		_, err := w.dest.WriteBatch(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, values)
		return err
	}
	_, err := w.dest.WriteBatchSpaced(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, leaf.Validity, int64(off), values)
	return err
}

// widenToInt32 copies/widens leaf's native data into dst for the logical
// kinds that map onto the int32 physical type via a simple widen or copy.
func widenToInt32(dst []int32, leaf *array.FlatColumn, off, n int) {
	switch leaf.Type.Kind {
	case array.Int8:
		for i, v := range leaf.Int8Data[off : off+n] {
			dst[i] = int32(v)
		}
	case array.Int16:
		for i, v := range leaf.Int16Data[off : off+n] {
			dst[i] = int32(v)
		}
	case array.Int32:
		copy(dst, leaf.Int32Data[off:off+n])
	case array.Uint8:
		for i, v := range leaf.Uint8Data[off : off+n] {
			dst[i] = int32(v)
		}
	case array.Uint16:
		for i, v := range leaf.Uint16Data[off : off+n] {
			dst[i] = int32(v)
		}
	}
}

// writeBoolean packs the valid values of [off, off+n) into a dense,
// bit-packed []byte and writes it as a dense batch; bool's bit-packed
// layout is not byte-addressable, so it is always compacted regardless of
// null count (§4.3).
func (w *ArrowColumnWriter) writeBoolean(lvls *Levels, leaf *array.FlatColumn, off, n int) error {
	var packed []byte
	count := 0
	for i := 0; i < n; i++ {
		idx := off + i
		if !isValidAt(leaf, idx) {
			continue
		}
		packed = plain.AppendBoolean(packed, count, leaf.BoolData[idx])
		count++
	}
	_, err := w.dest.WriteBatch(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, packed)
	return err
}

// writeBinary compacts the valid values of [off, off+n) into a dense
// [][]byte and writes it as a dense batch.
func (w *ArrowColumnWriter) writeBinary(lvls *Levels, leaf *array.FlatColumn, off, n int) error {
	values := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		idx := off + i
		if !isValidAt(leaf, idx) {
			continue
		}
		values = append(values, leaf.BytesData[idx])
	}
	_, err := w.dest.WriteBatch(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, values)
	return err
}

func (w *ArrowColumnWriter) writeFixedSizeBinary(lvls *Levels, leaf *array.FlatColumn, off, n int) error {
	return w.writeBinary(lvls, leaf, off, n)
}

// writeDecimal128 byte-swaps each 64-bit half of the little-endian source
// to produce a big-endian fixed_len_byte_array of byte_width bytes per
// value, left-aligned (i.e. truncated to the low byte_width bytes of the
// full 16-byte two's-complement big-endian form).
func (w *ArrowColumnWriter) writeDecimal128(lvls *Levels, leaf *array.FlatColumn, off, n int) error {
	byteWidth := array.DecimalByteWidth(leaf.Type.Precision)
	values := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		idx := off + i
		if !isValidAt(leaf, idx) {
			continue
		}
		values = append(values, encodeDecimal128(leaf.Decimal128Data[idx], byteWidth))
	}
	_, err := w.dest.WriteBatch(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, values)
	return err
}

// encodeDecimal128 converts a little-endian 128-bit two's-complement value
// (low 64 bits in src[0:8], high 64 bits in src[8:16]) to a big-endian
// byteWidth-byte slice.
func encodeDecimal128(src [16]byte, byteWidth int) []byte {
	var be [16]byte
	for i := 0; i < 8; i++ {
		be[i] = src[15-i]
		be[8+i] = src[7-i]
	}
	return append([]byte(nil), be[16-byteWidth:]...)
}

// writeTimestamp applies the Timestamp Coercion Engine (§4.4) before
// writing as int64 or int96.
func (w *ArrowColumnWriter) writeTimestamp(lvls *Levels, leaf *array.FlatColumn, off, n int) error {
	plan := planTimestampCoercion(w.opts.Version, w.opts.ArrowProps, leaf.Type.Unit)

	if plan.int96 {
		values := make([][12]byte, n)
		for i, v := range leaf.Int64Data[off : off+n] {
			nanos, julian := encodeInt96(v, leaf.Type.Unit)
			b := &values[i]
			b[0] = byte(nanos)
			b[1] = byte(nanos >> 8)
			b[2] = byte(nanos >> 16)
			b[3] = byte(nanos >> 24)
			b[4] = byte(nanos >> 32)
			b[5] = byte(nanos >> 40)
			b[6] = byte(nanos >> 48)
			b[7] = byte(nanos >> 56)
			b[8] = byte(julian)
			b[9] = byte(julian >> 8)
			b[10] = byte(julian >> 16)
			b[11] = byte(julian >> 24)
		}
		if w.dest.IsRequired() || countNullsInRange(leaf, off, n) == 0 {
			_, err := w.dest.WriteBatch(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, values)
			return err
		}
		_, err := w.dest.WriteBatchSpaced(lvls.NumLevels, lvls.DefLevels, lvls.RepLevels, leaf.Validity, int64(off), values)
		return err
	}

	scratch := w.scratch.Int64(n)
	copy(scratch, leaf.Int64Data[off:off+n])
	if plan.coerce {
		isNull := func(i int) bool { return !isValidAt(leaf, off+i) }
		if err := coerceTimestamps(scratch, leaf.Type.Unit, plan.coerceTo, plan.allowTruncated, isNull); err != nil {
			return err
		}
	}
	return w.dispatchInt64(lvls, leaf, off, n, scratch)
}
