package parquet

// ColumnChunkMetaData describes one column chunk of one row group, as
// reported by FileWriter.Metadata() after a successful close.
type ColumnChunkMetaData struct {
	Path            string
	Codec           string
	NumValues       int64
	TotalCompressed int64
}

// RowGroupMetaData describes one row group's column chunks.
type RowGroupMetaData struct {
	NumRows int64
	Columns []ColumnChunkMetaData
}

// FileMetaData is the footer-level summary pqarrow's FileWriter exposes
// after Close: row group layout plus the key/value metadata carried
// through from the writer's options. The byte-level footer encoding itself
// is owned by the external FileWriter implementation; this is the
// in-memory view pqarrow and its callers consume.
type FileMetaData struct {
	CreatedBy        string
	NumRows          int64
	RowGroups        []RowGroupMetaData
	KeyValueMetadata map[string]string
}
