package pqarrow

import (
	"github.com/kmjung/arrow/array"
	"github.com/kmjung/arrow/parquet"
)

// FileWriterOptions configures a FileWriter's Arrow-specific behavior; the
// Parquet-level WriterProperties (version, max row group length) are owned
// by the underlying parquet.FileWriter.
type FileWriterOptions struct {
	ArrowProps ArrowWriterProperties
	Caster     parquet.Caster
}

// FileWriter owns the underlying parquet.FileWriter, opens row groups, and
// partitions a Table into row groups of bounded size. It is not safe for
// concurrent use: all operations execute on the caller's goroutine, and a
// FileWriter may not be shared across goroutines without external
// synchronization.
type FileWriter struct {
	dest     parquet.FileWriter
	opts     FileWriterOptions
	scratch  *ScratchContext
	rowGroup parquet.RowGroupWriter
	closed   bool
}

// NewFileWriter wraps dest, an already-open underlying file writer.
func NewFileWriter(dest parquet.FileWriter, opts FileWriterOptions) *FileWriter {
	return &FileWriter{dest: dest, opts: opts, scratch: &ScratchContext{}}
}

// NewRowGroup closes any currently open row group and opens the next one.
func (fw *FileWriter) NewRowGroup() error {
	if fw.rowGroup != nil {
		if err := fw.rowGroup.Close(); err != nil {
			return err
		}
		fw.rowGroup = nil
	}
	rg, err := fw.dest.AppendRowGroup()
	if err != nil {
		return err
	}
	fw.rowGroup = rg
	return nil
}

// WriteColumnChunk writes [offset, offset+size) of col to the next column
// of the currently open row group. field is the schema field col was
// declared against; its NullableSpine (if set) drives BuildLevels's
// preflight nesting-depth check.
func (fw *FileWriter) WriteColumnChunk(col *array.Chunked, field array.Field, offset, size int) error {
	if fw.rowGroup == nil {
		if err := fw.NewRowGroup(); err != nil {
			return err
		}
	}

	cw, err := fw.rowGroup.NextColumn()
	if err != nil {
		return err
	}

	aw := NewArrowColumnWriter(cw, fw.scratch, ColumnWriterOptions{
		Version:            fw.dest.Properties().Version(),
		ArrowProps:         fw.opts.ArrowProps,
		Caster:             fw.opts.Caster,
		FieldNullableSpine: field.NullableSpine,
	})

	if err := WriteChunked(aw, col, offset, size); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// WriteTable validates table, then emits ceil(num_rows / chunkSize) row
// groups, each writing every column's [chunk*chunkSize,
// min((chunk+1)*chunkSize, num_rows)) range. chunkSize is clamped to the
// writer's configured maximum row-group length. On any per-column failure
// the file is best-effort closed before the error is returned.
func (fw *FileWriter) WriteTable(table *array.Table, chunkSize int64) error {
	if err := table.Validate(); err != nil {
		return err
	}

	if table.NumRows > 0 && chunkSize <= 0 {
		return ErrInvalidChunkSize
	}

	if max := fw.dest.Properties().MaxRowGroupLength(); chunkSize <= 0 || chunkSize > max {
		chunkSize = max
	}

	if table.NumRows == 0 {
		if err := fw.NewRowGroup(); err != nil {
			return err
		}
		return nil
	}

	if err := fw.writeRowGroups(table, chunkSize); err != nil {
		fw.Close()
		return err
	}
	return nil
}

func (fw *FileWriter) writeRowGroups(table *array.Table, chunkSize int64) error {
	for start := int64(0); start < table.NumRows; start += chunkSize {
		end := start + chunkSize
		if end > table.NumRows {
			end = table.NumRows
		}

		if err := fw.NewRowGroup(); err != nil {
			return err
		}

		for i, col := range table.Columns {
			if err := fw.WriteColumnChunk(col, table.Schema[i], int(start), int(end-start)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close is idempotent: it closes any open row group, then the underlying
// file writer, swallowing secondary errors from already-closed state.
func (fw *FileWriter) Close() error {
	if fw.closed {
		return nil
	}
	fw.closed = true

	var rgErr error
	if fw.rowGroup != nil {
		rgErr = fw.rowGroup.Close()
		fw.rowGroup = nil
	}
	if err := fw.dest.Close(); err != nil {
		return err
	}
	return rgErr
}

// Metadata returns the underlying file writer's metadata, valid after a
// successful Close.
func (fw *FileWriter) Metadata() (*parquet.FileMetaData, error) {
	return fw.dest.Metadata()
}
