package array

import "fmt"

// Chunked is an ordered sequence of flat-or-list Columns of identical
// logical type; their concatenation defines the logical column. Each chunk
// carries its own internal Offset, so chunk boundaries are independent of
// each other and of any row-group partitioning applied above this package.
type Chunked struct {
	Type   LogicalType
	Chunks []Column
}

// NumRows returns the total logical row count across all chunks.
func (c *Chunked) NumRows() int64 {
	var n int64
	for _, chunk := range c.Chunks {
		n += int64(chunk.Len())
	}
	return n
}

// Chunk returns the i'th chunk.
func (c *Chunked) Chunk(i int) Column { return c.Chunks[i] }

// NumChunks returns the number of chunks.
func (c *Chunked) NumChunks() int { return len(c.Chunks) }

// Table is a table of named, equal-length Chunked columns — the unit that
// pqarrow's File Writer Facade partitions into row groups.
type Table struct {
	Schema  []Field
	Columns []*Chunked
	NumRows int64
}

// Validate checks that every column reports the table's NumRows and that the
// schema and column slices are the same length.
func (t *Table) Validate() error {
	if len(t.Schema) != len(t.Columns) {
		return fmt.Errorf("array: table has %d schema fields but %d columns", len(t.Schema), len(t.Columns))
	}
	for i, col := range t.Columns {
		if n := col.NumRows(); n != t.NumRows {
			return fmt.Errorf("array: column %d (%s) has %d rows, table has %d", i, t.Schema[i].Name, n, t.NumRows)
		}
	}
	return nil
}
