package array

import "fmt"

// Column is a logical sequence of values of a single logical type, in one of
// the two shapes spec.md §3 names: Flat or List. Chunked (a sequence of
// Columns whose concatenation is the logical column) is represented
// separately by Chunked, since it is not itself a single node of the nesting
// tree that the Level Builder descends.
type Column interface {
	// Len returns the number of logical rows (not leaf values) this column
	// spans.
	Len() int

	// Nullable reports whether this level of the column may contain nulls.
	Nullable() bool

	// Slice returns the sub-range [i, j) of this column, sharing storage
	// with the receiver. i and j are row offsets local to the receiver, not
	// absolute positions in some enclosing structure.
	Slice(i, j int) Column
}

// FlatColumn is a non-nested column: a typed value buffer, an optional
// validity bitmap, a logical offset into the buffer, and a length. Exactly
// one of the typed Data fields is populated, selected by Type.Kind; this
// mirrors Arrow's one-buffer-per-type layout without requiring callers to
// reinterpret raw bytes, since pqarrow's conversions operate on Go-typed
// slices directly and build the byte layouts that decimal128 and Impala
// timestamps need by copying and shifting individual bytes.
type FlatColumn struct {
	Type     LogicalType
	Validity Bitmap
	Offset   int
	Length   int

	BoolData       []bool
	Int8Data       []int8
	Int16Data      []int16
	Int32Data      []int32
	Int64Data      []int64
	Uint8Data      []uint8
	Uint16Data     []uint16
	Uint32Data     []uint32
	Uint64Data     []uint64
	Float32Data    []float32
	Float64Data    []float64
	BytesData      [][]byte // Binary, String, FixedSizeBinary
	Decimal128Data [][16]byte
}

func (c *FlatColumn) Len() int { return c.Length }

func (c *FlatColumn) Nullable() bool { return c.Validity != nil }

// NullCount counts nulls in [Offset, Offset+Length) by consulting Validity.
// A nil Validity bitmap means zero nulls.
func (c *FlatColumn) NullCount() int {
	if c.Validity == nil {
		return 0
	}
	valid := 0
	for i := c.Offset; i < c.Offset+c.Length; i++ {
		if c.Validity.IsValid(i) {
			valid++
		}
	}
	return c.Length - valid
}

// IsValid reports whether the logical row at index i (relative to Offset) is
// non-null.
func (c *FlatColumn) IsValid(i int) bool {
	if c.Validity == nil {
		return true
	}
	return c.Validity.IsValid(c.Offset + i)
}

func (c *FlatColumn) Slice(i, j int) Column {
	if i < 0 || j > c.Length || i > j {
		panic(fmt.Sprintf("array: flat column slice [%d:%d] out of range [0:%d]", i, j, c.Length))
	}
	sliced := *c
	sliced.Offset = c.Offset + i
	sliced.Length = j - i
	return &sliced
}

// ListColumn is a single-child nested column: a validity bitmap, a
// monotone-non-decreasing Offsets buffer of length Length()+1, and a Child
// column spanning [Offsets[0], Offsets[Length]). Nesting of ListColumn within
// ListColumn represents a list-of-list; the Level Builder rejects any Child
// that is itself multi-child (struct/map/union) as not implemented.
type ListColumn struct {
	Validity Bitmap
	Offset   int // logical row offset into Offsets
	Length   int
	Offsets  []int32 // length >= Offset+Length+1
	Child    Column
}

func (c *ListColumn) Len() int { return c.Length }

func (c *ListColumn) Nullable() bool { return c.Validity != nil }

func (c *ListColumn) IsValid(i int) bool {
	if c.Validity == nil {
		return true
	}
	return c.Validity.IsValid(c.Offset + i)
}

// ValueOffsets returns the pair (start, end) of child offsets for logical
// row i (relative to Offset).
func (c *ListColumn) ValueOffsets(i int) (start, end int32) {
	base := c.Offset + i
	return c.Offsets[base], c.Offsets[base+1]
}

func (c *ListColumn) Slice(i, j int) Column {
	if i < 0 || j > c.Length || i > j {
		panic(fmt.Sprintf("array: list column slice [%d:%d] out of range [0:%d]", i, j, c.Length))
	}
	sliced := *c
	sliced.Offset = c.Offset + i
	sliced.Length = j - i
	return &sliced
}
