// Command arrowdump prints the row-group and column-chunk layout of a
// FileMetaData value as a formatted table. The value it prints comes from
// demoMetadata, which builds the metadata of an empty file in place; the
// command does not open or read a file.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/kmjung/arrow/parquet"
)

func main() {
	flag.Parse()

	meta := demoMetadata()

	fmt.Printf("created_by: %s\n", meta.CreatedBy)
	fmt.Printf("num_rows: %d\n", meta.NumRows)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"row group", "column", "codec", "values", "compressed bytes"})

	for i, rg := range meta.RowGroups {
		for _, col := range rg.Columns {
			table.Append([]string{
				strconv.Itoa(i),
				col.Path,
				col.Codec,
				strconv.FormatInt(col.NumValues, 10),
				strconv.FormatInt(col.TotalCompressed, 10),
			})
		}
	}

	table.Render()
}

// demoMetadata stands in for a FileMetaData read from an actual Parquet
// file; wiring a real reader is out of scope (reading is an explicit
// non-goal of the core this command inspects).
func demoMetadata() *parquet.FileMetaData {
	return &parquet.FileMetaData{
		CreatedBy: parquet.DefaultCreatedBy,
		NumRows:   0,
		RowGroups: nil,
	}
}
