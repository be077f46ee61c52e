package parquet

import (
	"github.com/kmjung/arrow/parquet/compress"
	"github.com/kmjung/arrow/parquet/compress/uncompressed"
)

// Version is the Parquet format version, affecting default encodings and
// (via pqarrow's ArrowWriterProperties interaction) default timestamp
// coercion.
type Version int

const (
	Version1_0 Version = iota
	Version2_x
)

// Default property values, named the way the rest of the ecosystem names
// them so a reader used to apache/arrow-go's pqarrow feels at home.
const (
	DefaultDataPageSize            int64 = 1024 * 1024
	DefaultDictionaryPageSizeLimit       = DefaultDataPageSize
	DefaultWriteBatchSize          int64 = 1024
	DefaultMaxRowGroupLen          int64 = 64 * 1024 * 1024
	DefaultCreatedBy                     = "arrow-pqarrow-go"
	DefaultRootName                      = "schema"
)

// ColumnProperties configures one column's encoding and compression codec.
type ColumnProperties struct {
	Codec            compress.Codec
	CompressionLevel int
}

// DefaultColumnProperties returns uncompressed, level-0 defaults.
func DefaultColumnProperties() ColumnProperties {
	return ColumnProperties{Codec: &uncompressed.Codec{}}
}

// WriterProperties is the collection of file-level properties pqarrow's
// FileWriter facade and Timestamp Coercion Engine consult: the target
// Parquet version and the maximum row-group length chunk sizes are clamped
// to.
type WriterProperties struct {
	version        Version
	batchSize      int64
	pageSize       int64
	dictPageSize   int64
	maxRowGroupLen int64
	createdBy      string
	rootName       string
	defColumnProps ColumnProperties
	columnProps    map[string]ColumnProperties
}

func defaultWriterProperties() *WriterProperties {
	return &WriterProperties{
		version:        Version2_x,
		batchSize:      DefaultWriteBatchSize,
		pageSize:       DefaultDataPageSize,
		dictPageSize:   DefaultDictionaryPageSizeLimit,
		maxRowGroupLen: DefaultMaxRowGroupLen,
		createdBy:      DefaultCreatedBy,
		rootName:       DefaultRootName,
		defColumnProps: DefaultColumnProperties(),
		columnProps:    make(map[string]ColumnProperties),
	}
}

// WriterProperty configures a WriterProperties being built by
// NewWriterProperties.
type WriterProperty func(*WriterProperties)

// WithVersion sets the target Parquet format version.
func WithVersion(v Version) WriterProperty {
	return func(w *WriterProperties) { w.version = v }
}

// WithMaxRowGroupLength sets the row-group length write_table clamps
// chunk_size to.
func WithMaxRowGroupLength(n int64) WriterProperty {
	return func(w *WriterProperties) { w.maxRowGroupLen = n }
}

// WithCreatedBy sets the file metadata's created_by string.
func WithCreatedBy(s string) WriterProperty {
	return func(w *WriterProperties) { w.createdBy = s }
}

// WithColumnCodec overrides the compression codec for a single column path.
func WithColumnCodec(path string, codec compress.Codec) WriterProperty {
	return func(w *WriterProperties) {
		props := w.columnProps[path]
		props.Codec = codec
		w.columnProps[path] = props
	}
}

// NewWriterProperties builds a WriterProperties from defaults plus opts.
func NewWriterProperties(opts ...WriterProperty) *WriterProperties {
	w := defaultWriterProperties()
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *WriterProperties) Version() Version              { return w.version }
func (w *WriterProperties) WriteBatchSize() int64         { return w.batchSize }
func (w *WriterProperties) DataPageSize() int64           { return w.pageSize }
func (w *WriterProperties) DictionaryPageSizeLimit() int64 { return w.dictPageSize }
func (w *WriterProperties) MaxRowGroupLength() int64      { return w.maxRowGroupLen }
func (w *WriterProperties) CreatedBy() string             { return w.createdBy }
func (w *WriterProperties) RootName() string              { return w.rootName }

// ColumnCodec returns the compression codec configured for path, falling
// back to the file-level default.
func (w *WriterProperties) ColumnCodec(path string) compress.Codec {
	if props, ok := w.columnProps[path]; ok {
		return props.Codec
	}
	return w.defColumnProps.Codec
}
