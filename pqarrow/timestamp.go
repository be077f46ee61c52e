package pqarrow

import (
	"fmt"
	"math"

	"github.com/kmjung/arrow/array"
	"github.com/kmjung/arrow/parquet"
)

// ArrowWriterProperties governs the conversion details that sit above the
// plain Parquet WriterProperties: deprecated int96 timestamps, and the
// coercion policy applied when writing timestamps as int64.
type ArrowWriterProperties struct {
	SupportDeprecatedInt96Timestamps bool
	CoerceTimestampsEnabled          bool
	CoerceTimestampsUnit             array.TimeUnit
	TruncatedTimestampsAllowed       bool
}

// timestampPlan is the resolved decision the coercion engine reaches for one
// timestamp column: whether to encode as int96, and if not, which unit (if
// any) to coerce to before the int64 write.
type timestampPlan struct {
	int96          bool
	coerceTo       array.TimeUnit
	coerce         bool
	allowTruncated bool
}

// planTimestampCoercion implements the decision tree in §4.4.
func planTimestampCoercion(version parquet.Version, props ArrowWriterProperties, sourceUnit array.TimeUnit) timestampPlan {
	switch {
	case props.SupportDeprecatedInt96Timestamps:
		return timestampPlan{int96: true}

	case props.CoerceTimestampsEnabled:
		if sourceUnit == props.CoerceTimestampsUnit {
			return timestampPlan{}
		}
		return timestampPlan{
			coerce:         true,
			coerceTo:       props.CoerceTimestampsUnit,
			allowTruncated: props.TruncatedTimestampsAllowed,
		}

	case version == parquet.Version1_0 && sourceUnit == array.Nanosecond:
		return timestampPlan{coerce: true, coerceTo: array.Microsecond, allowTruncated: false}

	case sourceUnit == array.Second:
		return timestampPlan{coerce: true, coerceTo: array.Millisecond, allowTruncated: true}

	default:
		return timestampPlan{}
	}
}

// coercionFactor returns the table in §4.4: factor is always positive;
// divide reports whether values are divided by it (true) or multiplied by
// it (false); ok is false when the coercion is invalid (seconds is never a
// valid int64 timestamp target).
func coercionFactor(src, dst array.TimeUnit) (factor int64, divide bool, ok bool) {
	if dst == array.Second {
		return 0, false, false
	}
	if src == dst {
		return 1, false, true
	}
	unitNanos := func(u array.TimeUnit) int64 {
		switch u {
		case array.Second:
			return 1_000_000_000
		case array.Millisecond:
			return 1_000_000
		case array.Microsecond:
			return 1_000
		default: // Nanosecond
			return 1
		}
	}
	srcNanos, dstNanos := unitNanos(src), unitNanos(dst)
	if srcNanos >= dstNanos {
		return srcNanos / dstNanos, false, true
	}
	return dstNanos / srcNanos, true, true
}

// coerceTimestamps converts values (in sourceUnit) to targetUnit in place,
// honoring allowTruncated. isNull, if non-nil, reports whether position i
// holds a null (and therefore unspecified-content) value; the truncation
// check is skipped at null positions, mirroring the grounding source's
// WriteTimestampsCoerce, whose DivideBy lambda guards the modulus check with
// !data.IsNull(i). The value at a null position is still divided, since the
// column writer discards it regardless of what it is left holding.
// It returns ErrTimestampTruncation citing the first offending value when a
// divisive coercion would lose precision at a non-null position and
// truncation is disallowed, or when a multiplying coercion would overflow
// int64 at a non-null position.
func coerceTimestamps(values []int64, sourceUnit, targetUnit array.TimeUnit, allowTruncated bool, isNull func(i int) bool) error {
	factor, divide, ok := coercionFactor(sourceUnit, targetUnit)
	if !ok {
		return fmt.Errorf("%w: %s is not a valid int64 timestamp unit", ErrTimestampTruncation, targetUnit)
	}
	if factor == 1 {
		return nil
	}
	if !divide {
		for i, v := range values {
			if (v > math.MaxInt64/factor || v < math.MinInt64/factor) && (isNull == nil || !isNull(i)) {
				return fmt.Errorf("%w: value %d overflows int64 when multiplied by %d", ErrTimestampTruncation, v, factor)
			}
			values[i] = v * factor
		}
		return nil
	}
	for i, v := range values {
		if !allowTruncated && v%factor != 0 && (isNull == nil || !isNull(i)) {
			return fmt.Errorf("%w: value %d is not a multiple of %d", ErrTimestampTruncation, v, factor)
		}
		values[i] = v / factor
	}
	return nil
}

// Julian day number of the Unix epoch (1970-01-01), used by the Impala
// 96-bit timestamp encoding.
const julianDayOfEpoch = 2440588

const nanosPerDay = 24 * 60 * 60 * 1_000_000_000

// encodeInt96 converts a single timestamp value (in sourceUnit, relative to
// the Unix epoch) to the deprecated Impala Int96 representation: the first
// 8 bytes hold nanoseconds-of-day (little-endian uint64), the last 4 bytes
// hold the Julian day number (little-endian int32).
func encodeInt96(value int64, sourceUnit array.TimeUnit) (nanosOfDay uint64, julianDay int32) {
	var nanos int64
	switch sourceUnit {
	case array.Second:
		nanos = value * 1_000_000_000
	case array.Millisecond:
		nanos = value * 1_000_000
	case array.Microsecond:
		nanos = value * 1_000
	default: // Nanosecond
		nanos = value
	}
	days := nanos / nanosPerDay
	rem := nanos % nanosPerDay
	if rem < 0 {
		rem += nanosPerDay
		days--
	}
	return uint64(rem), int32(days) + julianDayOfEpoch
}
