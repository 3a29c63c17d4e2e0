package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/parquet-go/parquet-go"
)

func parquetInspect(out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	stats, err := f.Stat()
	if err != nil {
		return err
	}
	pf, err := parquet.OpenFile(f, stats.Size())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "schema:", pf.Schema())
	numColumns := len(pf.Schema().Columns())
	meta := pf.Metadata()
	fmt.Fprintln(out, "Num Rows:", meta.NumRows)
	for i, rg := range meta.RowGroups {
		fmt.Fprintln(out, "\t Row group:", i)
		fmt.Fprintln(out, "\t\t Row Count:", rg.NumRows)
		fmt.Fprintln(out, "\t\t Row size:", humanize.Bytes(uint64(rg.TotalByteSize)))
		fmt.Fprintln(out, "\t\t Columns:")
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{
			"Col", "Type", "NumVal", "TotalCompressedSize", "TotalUncompressedSize", "%", "PageCount",
		})
		for j, ds := range rg.Columns {
			pageCount := 0
			if offsets := pf.OffsetIndexes(); len(offsets) > (i*numColumns)+j {
				pageCount = len(offsets[(i*numColumns)+j].PageLocations)
			}
			table.Append([]string{
				strings.Join(ds.MetaData.PathInSchema, "/"),
				ds.MetaData.Type.String(),
				fmt.Sprintf("%d", ds.MetaData.NumValues),
				humanize.Bytes(uint64(ds.MetaData.TotalCompressedSize)),
				humanize.Bytes(uint64(ds.MetaData.TotalUncompressedSize)),
				fmt.Sprintf("%.2f", float64(ds.MetaData.TotalCompressedSize)/float64(rg.TotalByteSize)*100),
				fmt.Sprintf("%d", pageCount),
			})
		}
		table.Render()
	}
	return nil
}
