package parquet_test

import (
	"fmt"
	"testing"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/kmjung/arrow/parquet"
)

// formatMetadata renders FileMetaData the way a debug dump or CLI would, so
// a golden comparison has something human-readable to diff.
func formatMetadata(meta *parquet.FileMetaData) string {
	out := fmt.Sprintf("created_by: %s\nnum_rows: %d\n", meta.CreatedBy, meta.NumRows)
	for i, rg := range meta.RowGroups {
		out += fmt.Sprintf("row_group[%d]: num_rows=%d\n", i, rg.NumRows)
		for _, col := range rg.Columns {
			out += fmt.Sprintf("  column %s: codec=%s num_values=%d\n", col.Path, col.Codec, col.NumValues)
		}
	}
	return out
}

// assertGoldenText fails the test with a unified diff (via gotextdiff) when
// got doesn't match want, instead of dumping two unreadable full strings.
func assertGoldenText(t *testing.T, name, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	edits := myers.ComputeEdits(span.URIFromPath(name), want, got)
	diff := gotextdiff.ToUnified(name, name, want, edits)
	t.Fatalf("golden mismatch for %s:\n%s", name, diff)
}

func TestFileMetaDataGoldenOutput(t *testing.T) {
	props := parquet.NewWriterProperties(parquet.WithCreatedBy("test-writer"))
	dest := parquet.NewMemoryFileWriter([]string{"a", "b"}, []bool{true, true}, props, nil)

	rg, err := dest.AppendRowGroup()
	if err != nil {
		t.Fatalf("AppendRowGroup: %v", err)
	}
	for range []string{"a", "b"} {
		cw, err := rg.NextColumn()
		if err != nil {
			t.Fatalf("NextColumn: %v", err)
		}
		if _, err := cw.WriteBatch(3, nil, nil, []int32{1, 2, 3}); err != nil {
			t.Fatalf("WriteBatch: %v", err)
		}
		if err := cw.Close(); err != nil {
			t.Fatalf("Close column: %v", err)
		}
	}
	if err := rg.Close(); err != nil {
		t.Fatalf("Close row group: %v", err)
	}
	if err := dest.Close(); err != nil {
		t.Fatalf("Close file: %v", err)
	}

	meta, err := dest.Metadata()
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}

	want := "created_by: test-writer\n" +
		"num_rows: 3\n" +
		"row_group[0]: num_rows=3\n" +
		"  column a: codec=UNCOMPRESSED num_values=3\n" +
		"  column b: codec=UNCOMPRESSED num_values=3\n"

	assertGoldenText(t, "metadata.golden", want, formatMetadata(meta))
}
