package array

// Field describes one column of a Table or Chunked column: its name, logical
// type, and whether it may contain nulls. Schema-tree translation into a
// Parquet schema (node names, repetition, logical type annotations) is an
// external collaborator — see parquet.SchemaConverter — so Field carries only
// what the Level Builder and Arrow Column Writer need to drive themselves.
type Field struct {
	Name     string
	Type     LogicalType
	Nullable bool

	// NullableSpine declares the schema's nullability at each nesting depth
	// of this field, from the outermost list down through the leaf
	// (length == 1 + the number of enclosing lists). It is the "nullable[]"
	// collected by BuildLevels's Nullability collection step (spec.md
	// §4.1); nil means the caller has no declared spine to check the
	// column's actual nesting depth against, and BuildLevels trusts the
	// data shape as before.
	NullableSpine []bool
}
