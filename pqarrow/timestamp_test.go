package pqarrow

import (
	"errors"
	"testing"

	"github.com/kmjung/arrow/array"
	"github.com/kmjung/arrow/parquet"
)

func TestCoerceTimestampsNanosToMicrosTruncationDetected(t *testing.T) {
	values := []int64{1_500_000_000, 1_500_000_999}
	err := coerceTimestamps(values, array.Nanosecond, array.Microsecond, false, nil)
	if !errors.Is(err, ErrTimestampTruncation) {
		t.Fatalf("expected ErrTimestampTruncation, got %v", err)
	}
}

func TestCoerceTimestampsNanosToMicrosAllowed(t *testing.T) {
	values := []int64{1_500_000_000, 1_500_000_999}
	if err := coerceTimestamps(values, array.Nanosecond, array.Microsecond, true, nil); err != nil {
		t.Fatalf("coerceTimestamps: %v", err)
	}
	want := []int64{1_500_000, 1_500_000}
	for i, v := range values {
		if v != want[i] {
			t.Fatalf("values[%d] = %d, want %d", i, v, want[i])
		}
	}
}

func TestCoerceTimestampsSkipsTruncationCheckAtNullPositions(t *testing.T) {
	// Position 1 is null and holds a non-representable garbage value; with
	// truncation disallowed, the check must still pass because the garbage
	// value is never inspected at a null position.
	values := []int64{1_500_000_000, 1_500_000_999}
	isNull := func(i int) bool { return i == 1 }
	if err := coerceTimestamps(values, array.Nanosecond, array.Microsecond, false, isNull); err != nil {
		t.Fatalf("coerceTimestamps: %v", err)
	}
	if values[0] != 1_500_000 {
		t.Fatalf("values[0] = %d, want 1500000", values[0])
	}
	// The null slot's value is still divided, even though never checked.
	if values[1] != 1_500_000_999/1000 {
		t.Fatalf("values[1] = %d, want %d", values[1], 1_500_000_999/1000)
	}
}

func TestCoerceTimestampsStillDetectsTruncationAtNonNullPositions(t *testing.T) {
	values := []int64{1_500_000_000, 1_500_000_999}
	isNull := func(i int) bool { return i == 0 } // only position 0 is null
	err := coerceTimestamps(values, array.Nanosecond, array.Microsecond, false, isNull)
	if !errors.Is(err, ErrTimestampTruncation) {
		t.Fatalf("expected ErrTimestampTruncation for the non-null offending value, got %v", err)
	}
}

func TestPlanTimestampCoercionV1NanosForcesMicros(t *testing.T) {
	plan := planTimestampCoercion(parquet.Version1_0, ArrowWriterProperties{}, array.Nanosecond)
	if plan.int96 {
		t.Fatal("did not expect int96 encoding")
	}
	if !plan.coerce || plan.coerceTo != array.Microsecond || plan.allowTruncated {
		t.Fatalf("plan = %+v, want coerce to microseconds with truncation disallowed", plan)
	}
}

func TestPlanTimestampCoercionSecondsForcesMillis(t *testing.T) {
	plan := planTimestampCoercion(parquet.Version2_x, ArrowWriterProperties{}, array.Second)
	if !plan.coerce || plan.coerceTo != array.Millisecond || !plan.allowTruncated {
		t.Fatalf("plan = %+v, want coerce to milliseconds with truncation allowed", plan)
	}
}

func TestPlanTimestampCoercionInt96(t *testing.T) {
	plan := planTimestampCoercion(parquet.Version1_0, ArrowWriterProperties{SupportDeprecatedInt96Timestamps: true}, array.Nanosecond)
	if !plan.int96 {
		t.Fatal("expected int96 encoding when SupportDeprecatedInt96Timestamps is set")
	}
}

func TestPlanTimestampCoercionExplicitUnitMatch(t *testing.T) {
	props := ArrowWriterProperties{CoerceTimestampsEnabled: true, CoerceTimestampsUnit: array.Millisecond}
	plan := planTimestampCoercion(parquet.Version2_x, props, array.Millisecond)
	if plan.coerce {
		t.Fatal("expected no coercion when source and target units already match")
	}
}

func TestCoercionFactorRejectsSecondsTarget(t *testing.T) {
	_, _, ok := coercionFactor(array.Millisecond, array.Second)
	if ok {
		t.Fatal("seconds must never be a valid int64 timestamp coercion target")
	}
}

func TestEncodeInt96RoundTripsDays(t *testing.T) {
	nanos, julian := encodeInt96(0, array.Second)
	if nanos != 0 {
		t.Fatalf("nanos of day = %d, want 0 at the epoch", nanos)
	}
	if julian != julianDayOfEpoch {
		t.Fatalf("julian day = %d, want %d", julian, julianDayOfEpoch)
	}
}
