package columnio

import (
	"os"

	"github.com/go-kit/log/level"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
	"github.com/prometheus/common/version"
)

const writeRowsBatchSize = 128

// WriteColumn creates a new single-column parquet file at path and writes
// src into it, partitioned into row groups of up to rowGroupSize values.
// The column is a required (non-nullable) 64-bit integer field named
// column; unsigned selects the unsigned-integer logical annotation over
// the same signed-64 physical storage, without range validation.
//
// An empty src produces a valid file with zero row groups. A close
// failure is an error even when all row groups wrote cleanly, since the
// footer may not have reached disk.
func (c *ColumnIO) WriteColumn(path string, src []int64, column string, rowGroupSize int, unsigned bool) error {
	if rowGroupSize <= 0 {
		return errors.Errorf("row group size must be positive, got %d", rowGroupSize)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "creating parquet file %q", path)
	}

	node := parquet.Int(64)
	if unsigned {
		node = parquet.Uint(64)
	}
	schema := parquet.NewSchema("schema", parquet.Group{column: node})
	writer := parquet.NewGenericWriter[any](f, schema,
		parquet.CreatedBy("github.com/arraykit/parquetbridge", version.Version, version.Revision),
		parquet.PageBufferSize(c.config.PageBufferSize),
	)

	total := len(src)
	buffer := parquet.NewBuffer(schema)
	rowsBatch := make([]parquet.Row, writeRowsBatchSize)
	var groups int
	for len(src) > 0 {
		chunk := rowGroupSize
		if len(src) < chunk {
			chunk = len(src)
		}
		if err := c.writeRowGroup(writer, buffer, rowsBatch, src[:chunk]); err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "writing row group %d of %q", groups, path)
		}
		src = src[chunk:]
		groups++
	}

	if err := writer.Close(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "closing parquet writer for %q", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing parquet file %q", path)
	}
	level.Debug(c.logger).Log("msg", "column written", "path", path, "column", column, "rows", total, "row_groups", groups, "unsigned", unsigned)
	c.metrics.valuesTransferredTotal.WithLabelValues("write").Add(float64(total))
	c.metrics.rowGroupsWrittenTotal.Add(float64(groups))
	return nil
}

// writeRowGroup stages one chunk of values in the row buffer and flushes
// it as a single row group. No nulls are ever written.
func (c *ColumnIO) writeRowGroup(writer *parquet.GenericWriter[any], buffer *parquet.Buffer, rowsBatch []parquet.Row, values []int64) error {
	buffer.Reset()
	for len(values) > 0 {
		m := len(rowsBatch)
		if len(values) < m {
			m = len(values)
		}
		for i := 0; i < m; i++ {
			row := rowsBatch[i][:0]
			rowsBatch[i] = append(row, parquet.Int64Value(values[i]).Level(0, 0, 0))
		}
		if _, err := buffer.WriteRows(rowsBatch[:m]); err != nil {
			return err
		}
		values = values[m:]
	}
	_, err := writer.WriteRowGroup(buffer)
	return err
}
