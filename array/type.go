// Package array implements the columnar in-memory data model that pqarrow
// writes to Parquet: flat columns, nested list columns, chunked columns, and
// tables built from them. Schema translation into a Parquet schema tree is
// intentionally not part of this package — it is an external collaborator
// (parquet.SchemaConverter) the same way the column/page encoder is
// external to pqarrow itself.
package array

import "fmt"

// TimeUnit is the resolution of a Time32, Time64, or Timestamp column.
type TimeUnit int8

const (
	Second TimeUnit = iota
	Millisecond
	Microsecond
	Nanosecond
)

func (u TimeUnit) String() string {
	switch u {
	case Second:
		return "s"
	case Millisecond:
		return "ms"
	case Microsecond:
		return "us"
	case Nanosecond:
		return "ns"
	default:
		return fmt.Sprintf("TimeUnit(%d)", int8(u))
	}
}

// Kind identifies the logical type of a column, independent of how it is
// nested (flat, or wrapped in one or more list levels).
type Kind int8

const (
	Null Kind = iota
	Boolean
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Date32
	Date64
	Time32
	Time64
	Timestamp
	FixedSizeBinary
	Binary
	String
	Decimal128
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Boolean:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Date32:
		return "date32"
	case Date64:
		return "date64"
	case Time32:
		return "time32"
	case Time64:
		return "time64"
	case Timestamp:
		return "timestamp"
	case FixedSizeBinary:
		return "fixed_size_binary"
	case Binary:
		return "binary"
	case String:
		return "string"
	case Decimal128:
		return "decimal128"
	default:
		return fmt.Sprintf("Kind(%d)", int8(k))
	}
}

// LogicalType is the full logical type of a leaf column: a Kind plus the
// parameters that Kind requires (time unit, decimal precision/scale, fixed
// width).
type LogicalType struct {
	Kind      Kind
	Unit      TimeUnit // Time32, Time64, Timestamp
	Width     int      // FixedSizeBinary byte width
	Precision int      // Decimal128
	Scale     int      // Decimal128
}

func (t LogicalType) String() string {
	switch t.Kind {
	case Time32, Time64, Timestamp:
		return fmt.Sprintf("%s[%s]", t.Kind, t.Unit)
	case FixedSizeBinary:
		return fmt.Sprintf("fixed_size_binary(%d)", t.Width)
	case Decimal128:
		return fmt.Sprintf("decimal128(%d,%d)", t.Precision, t.Scale)
	default:
		return t.Kind.String()
	}
}

// DecimalByteWidth returns the number of big-endian bytes required to hold
// every value representable with the given precision, per spec: byte_width
// = ceil((precision * log2(10) + 1) / 8).
func DecimalByteWidth(precision int) int {
	bits := 0
	// log2(10) ~= 3.32192809489; avoid floating point drift at the exact
	// precision boundaries used by the test suite by table-driving the
	// common range and falling back to an integer fixed-point form of the
	// formula (log2(10) ~= 332193/100000) beyond it.
	if precision >= 0 && precision < len(decimalByteWidths) {
		return decimalByteWidths[precision]
	}
	bits = precision*332193/100000 + 1
	return (bits + 7) / 8
}

// decimalByteWidths is precomputed for precision 0..38 (the useful range for
// decimal128) so DecimalByteWidth never depends on floating point rounding.
var decimalByteWidths = [...]int{
	0, 1, 1, 2, 2, 3, 3, 4, 4, 4,
	5, 5, 6, 6, 6, 7, 7, 8, 8, 9,
	9, 9, 10, 10, 11, 11, 11, 12, 12, 13,
	13, 13, 14, 14, 15, 15, 16, 16, 16,
}
