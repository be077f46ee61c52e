package parquet

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/kmjung/arrow/parquet/compress"
)

// memoryValuesWriter is a minimal concrete ColumnWriter: it PLAIN-encodes
// whatever values dispatch hands it into a BufferPool buffer, compresses
// the buffer with the column's configured codec on Close, and records
// enough bookkeeping for FileMetaData. It exists to give pqarrow's core a
// real collaborator to drive end to end, since the byte-level page/footer
// encoder is out of scope for the core itself; the wire format here is an
// intentionally simplified length-prefixed record, not the Thrift-encoded
// Parquet page format a production encoder would emit.
type memoryValuesWriter struct {
	path            string
	required        bool
	codec           compress.Codec
	pool            BufferPool
	buf             io.ReadWriteSeeker
	numValues       int64
	totalCompressed int64
	closed          bool
}

func newMemoryValuesWriter(path string, required bool, codec compress.Codec, pool BufferPool) *memoryValuesWriter {
	return &memoryValuesWriter{path: path, required: required, codec: codec, pool: pool, buf: pool.GetBuffer()}
}

func (w *memoryValuesWriter) IsRequired() bool { return w.required }

// WriteBatch appends a length-prefixed encoding of values (produced by
// encodeValues) to the buffer and records numLevels toward NumValues.
func (w *memoryValuesWriter) WriteBatch(numLevels int, defLevels, repLevels []int16, values any) (int64, error) {
	n, err := w.writeRecord(numLevels, defLevels, repLevels, nil, 0, values)
	return n, err
}

func (w *memoryValuesWriter) WriteBatchSpaced(numLevels int, defLevels, repLevels []int16, validBits []byte, validBitsOffset int64, values any) (int64, error) {
	return w.writeRecord(numLevels, defLevels, repLevels, validBits, validBitsOffset, values)
}

func (w *memoryValuesWriter) writeRecord(numLevels int, defLevels, repLevels []int16, validBits []byte, validBitsOffset int64, values any) (int64, error) {
	payload, err := encodeValues(values)
	if err != nil {
		return 0, err
	}

	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(numLevels))
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(payload)))
	if _, err := w.buf.Write(header[:]); err != nil {
		return 0, err
	}
	if len(payload) > 0 {
		if _, err := w.buf.Write(payload); err != nil {
			return 0, err
		}
	}

	w.numValues += int64(numLevels)
	return int64(numLevels), nil
}

func (w *memoryValuesWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if _, err := w.buf.Seek(0, io.SeekStart); err != nil {
		w.pool.PutBuffer(w.buf)
		return err
	}
	raw, err := io.ReadAll(w.buf)
	if err != nil {
		w.pool.PutBuffer(w.buf)
		return err
	}

	compressed, err := w.codec.Encode(nil, raw)
	if err != nil {
		w.pool.PutBuffer(w.buf)
		return err
	}
	w.totalCompressed = int64(len(compressed))

	w.pool.PutBuffer(w.buf)
	return nil
}

// encodeValues renders one of the concrete value slice types the Arrow
// Column Writer hands to ColumnWriter into PLAIN-ish bytes for this demo
// backend. nil means "no values, only levels" (the Null leaf kind).
func encodeValues(values any) ([]byte, error) {
	switch v := values.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case [][]byte:
		var out []byte
		for _, b := range v {
			var lenBuf [4]byte
			binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
			out = append(out, lenBuf[:]...)
			out = append(out, b...)
		}
		return out, nil
	case [][12]byte:
		out := make([]byte, 0, len(v)*12)
		for _, b := range v {
			out = append(out, b[:]...)
		}
		return out, nil
	case []int32:
		out := make([]byte, len(v)*4)
		for i, x := range v {
			binary.LittleEndian.PutUint32(out[i*4:], uint32(x))
		}
		return out, nil
	case []int64:
		out := make([]byte, len(v)*8)
		for i, x := range v {
			binary.LittleEndian.PutUint64(out[i*8:], uint64(x))
		}
		return out, nil
	case []float32:
		out := make([]byte, len(v)*4)
		for i, x := range v {
			binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(x))
		}
		return out, nil
	case []float64:
		out := make([]byte, len(v)*8)
		for i, x := range v {
			binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(x))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parquet: backend cannot encode values of type %T", values)
	}
}

// memoryRowGroupWriter hands out memoryValuesWriter instances in schema
// column order.
type memoryRowGroupWriter struct {
	fw      *memoryFileWriter
	index   int
	pending []*memoryValuesWriter
	columns []ColumnChunkMetaData
	numRows int64
}

func (rg *memoryRowGroupWriter) NextColumn() (ColumnWriter, error) {
	if rg.index >= len(rg.fw.paths) {
		return nil, fmt.Errorf("parquet: row group has no more columns")
	}
	path := rg.fw.paths[rg.index]
	codec := rg.fw.props.ColumnCodec(path)
	writer := newMemoryValuesWriter(path, rg.fw.required[rg.index], codec, rg.fw.pool)
	rg.index++
	rg.pending = append(rg.pending, writer)
	return writer, nil
}

func (rg *memoryRowGroupWriter) CurrentColumn() int { return rg.index - 1 }

func (rg *memoryRowGroupWriter) Close() error {
	for _, w := range rg.pending {
		rg.columns = append(rg.columns, ColumnChunkMetaData{
			Path:            w.path,
			Codec:           w.codec.String(),
			NumValues:       w.numValues,
			TotalCompressed: w.totalCompressed,
		})
		if w.numValues > rg.numRows {
			rg.numRows = w.numValues
		}
	}
	rg.fw.rowGroups = append(rg.fw.rowGroups, RowGroupMetaData{NumRows: rg.numRows, Columns: rg.columns})
	return nil
}

// memoryFileWriter is a concrete, in-process FileWriter: it accumulates
// FileMetaData across row groups and discards the encoded bytes on Close
// rather than assembling a real Parquet footer, since the footer writer is
// out of scope for the core (§1). It is intended for tests, not as a
// production Parquet encoder.
type memoryFileWriter struct {
	mu        sync.Mutex
	props     *WriterProperties
	paths     []string
	required  []bool
	kv        map[string]string
	pool      BufferPool
	rowGroups []RowGroupMetaData
	closed    bool
	id        uuid.UUID
}

// NewMemoryFileWriter builds a FileWriter over an in-memory column buffer
// pool, with one column per path (in order), targeting props.
func NewMemoryFileWriter(paths []string, required []bool, props *WriterProperties, kv map[string]string) FileWriter {
	if props == nil {
		props = NewWriterProperties()
	}
	return &memoryFileWriter{
		props:    props,
		paths:    paths,
		required: required,
		kv:       kv,
		pool:     NewBufferPool(),
		id:       uuid.New(),
	}
}

func (fw *memoryFileWriter) AppendRowGroup() (RowGroupWriter, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed {
		return nil, fmt.Errorf("parquet: file writer is closed")
	}
	return &memoryRowGroupWriter{fw: fw}, nil
}

func (fw *memoryFileWriter) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.closed = true
	return nil
}

func (fw *memoryFileWriter) Properties() *WriterProperties { return fw.props }

func (fw *memoryFileWriter) Schema() any { return fw.paths }

func (fw *memoryFileWriter) KeyValueMetadata() map[string]string { return fw.kv }

func (fw *memoryFileWriter) Metadata() (*FileMetaData, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	var numRows int64
	for _, rg := range fw.rowGroups {
		numRows += rg.NumRows
	}

	return &FileMetaData{
		CreatedBy:        fw.props.CreatedBy(),
		NumRows:          numRows,
		RowGroups:        fw.rowGroups,
		KeyValueMetadata: fw.kv,
	}, nil
}
