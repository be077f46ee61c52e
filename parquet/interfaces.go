package parquet

import "github.com/kmjung/arrow/array"

// ColumnWriter is the narrow interface pqarrow drives a leaf column chunk
// through. The byte-level page encoding, dictionary handling, and on-disk
// layout live on the other side of this interface and are not implemented
// by this module — a concrete ColumnWriter is expected to be supplied by
// the file-open plumbing (out of scope per the design).
type ColumnWriter interface {
	// WriteBatch writes a dense batch: values has exactly one slot per
	// defined value. defLevels/repLevels may be nil when the column has
	// no definition/repetition levels respectively.
	WriteBatch(numLevels int, defLevels, repLevels []int16, values any) (int64, error)

	// WriteBatchSpaced writes a spaced batch: values has one slot per
	// logical row, and validBits marks which slots are defined.
	// validBitsOffset is the bit offset of row 0 within validBits.
	WriteBatchSpaced(numLevels int, defLevels, repLevels []int16, validBits []byte, validBitsOffset int64, values any) (int64, error)

	// IsRequired reports whether the schema node this writer targets is
	// required (non-nullable, non-repeated).
	IsRequired() bool

	Close() error
}

// RowGroupWriter owns the column writers of one row group.
type RowGroupWriter interface {
	// NextColumn returns a ColumnWriter for the next column in schema
	// order. It is an error to call NextColumn before closing the
	// previously returned ColumnWriter.
	NextColumn() (ColumnWriter, error)

	// CurrentColumn returns the index of the column most recently
	// returned by NextColumn, or -1 if none has been returned yet.
	CurrentColumn() int

	Close() error
}

// FileWriter is the byte-level file writer pqarrow's FileWriter facade
// wraps. It owns the sink, the schema, and the row-group/column-chunk
// layout on disk.
type FileWriter interface {
	AppendRowGroup() (RowGroupWriter, error)
	Close() error

	Properties() *WriterProperties
	Schema() any // the external to_parquet_schema result this writer was opened with
	KeyValueMetadata() map[string]string
	Metadata() (*FileMetaData, error)
}

// Caster resolves a dictionary-encoded column to its value type, standing
// in for the cast(datum, target_type, cast_options) collaborator named in
// the design. pqarrow's dictionary detour (ArrowColumnWriter.Write in
// writer.go) calls this
// before recursing into the decoded column.
type Caster interface {
	CastDictionary(col array.Column) (array.Column, error)
}

// SchemaConverter is the to_parquet_schema collaborator: translation
// between the array package's Field tree and a Parquet schema is
// intentionally external to this module.
type SchemaConverter interface {
	ToParquetSchema(fields []array.Field) (any, error)
}
