// Package pqarrow bridges the array package's columnar data model to a
// Parquet file: it computes Dremel definition/repetition levels for
// (possibly nested) columns, converts each leaf's values to the Parquet
// physical type, and drives row-group partitioning across a chunked table.
// The byte-level page and footer encoder, schema translation, and dictionary
// decoding are external collaborators reached through the interfaces of the
// parquet package (parquet/interfaces.go).
package pqarrow

import "errors"

var (
	// ErrInvalidChunkSize is returned by FileWriter.WriteTable when
	// chunkSize <= 0 and the table has at least one row.
	ErrInvalidChunkSize = errors.New("pqarrow: chunk size must be positive for a non-empty table")

	// ErrSchemaMismatch names a table whose schema does not match the
	// column count or ordering the writer was opened with. No function in
	// this package returns it: FileWriter.WriteTable does not compare a
	// table against the writer's schema, and returns Table.Validate's
	// errors as they are.
	ErrSchemaMismatch = errors.New("pqarrow: table schema does not match writer schema")

	// ErrChunkedArrayOverrun is returned when a chunked write driver is
	// asked to read past the end of a Chunked column.
	ErrChunkedArrayOverrun = errors.New("pqarrow: read past end of chunked array")

	// ErrTimestampTruncation is returned by the timestamp coercion engine
	// when a divisive coercion would lose sub-unit precision and
	// truncation is not allowed, or when a multiplying coercion would
	// overflow int64.
	ErrTimestampTruncation = errors.New("pqarrow: timestamp coercion would lose precision")

	// ErrNotImplemented is returned for column shapes the level builder
	// does not support: multi-child nesting (structs, maps, unions,
	// fixed-size lists, extensions) and dictionary columns at a
	// non-leaf position.
	ErrNotImplemented = errors.New("pqarrow: not implemented")

	// ErrNestedFieldMismatch is returned when a field's declared
	// nullability spine does not match the nesting depth observed while
	// descending its column, per the level builder's preflight check.
	ErrNestedFieldMismatch = errors.New("pqarrow: nested field nullability does not match column nesting depth")
)
