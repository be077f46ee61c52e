package pqarrow

import "github.com/kmjung/arrow/internal/memory"

// ScratchContext hands out resizable, reusable scratch buffers for the
// values the Arrow Column Writer converts to int32 or int64, and for the
// definition levels of flat nullable columns, so those conversions do not
// allocate per write_batch call. Each call to Int32, Int64 or DefLevels
// invalidates the slice returned by the previous call to the same
// accessor; callers must not
// retain one across calls, matching the lifetime rule in section 5 of the
// original design (buffers are owned by the file writer and reused across
// every column chunk).
//
// Unlike a raw byte-buffer arena, Go's allocator always zero-initializes
// freshly grown memory, so there is no uninitialized-read hazard in letting
// SliceBuffer grow via Append; ScratchContext exists purely to amortize that
// growth across calls, not to avoid zeroing.
type ScratchContext struct {
	int32s memory.SliceBuffer[int32]
	int64s memory.SliceBuffer[int64]

	// defLevels holds the definition levels of a flat (non-nested)
	// nullable column (§4.1): all-valid/all-null columns fill it with a
	// constant, other columns from the validity bitmap bit by bit.
	defLevels memory.SliceBuffer[int16]
}

// Int32 returns a scratch []int32 of length n, contents unspecified.
func (s *ScratchContext) Int32(n int) []int32 {
	s.int32s.Reset()
	grow(&s.int32s, n)
	return s.int32s.Slice()
}

// Int64 returns a scratch []int64 of length n, contents unspecified.
func (s *ScratchContext) Int64(n int) []int64 {
	s.int64s.Reset()
	grow(&s.int64s, n)
	return s.int64s.Slice()
}

// DefLevels returns a zeroed scratch []int16 of length n for the definition
// levels of a flat nullable column.
func (s *ScratchContext) DefLevels(n int) []int16 {
	s.defLevels.Reset()
	grow(&s.defLevels, n)
	return s.defLevels.Slice()
}

func grow[T memory.Datum](b *memory.SliceBuffer[T], n int) {
	if n <= 0 {
		return
	}
	var zero [64]T
	for remaining := n; remaining > 0; {
		batch := len(zero)
		if remaining < batch {
			batch = remaining
		}
		b.Append(zero[:batch]...)
		remaining -= batch
	}
}
