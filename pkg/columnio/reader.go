package columnio

import (
	"io"

	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/multierror"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
)

// RowCount opens the file read-only and sums the row counts of all row
// groups recorded in the footer metadata.
func (c *ColumnIO) RowCount(path string) (n int64, err error) {
	pf, closer, err := c.openFile(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierror.New(err, closer()).Err()
	}()
	for _, rg := range pf.RowGroups() {
		n += rg.NumRows()
	}
	return n, nil
}

// ColumnType resolves the logical type of the named column. The column
// name is matched exactly. A missing column is an error; a column of a
// type outside the transfer-eligible set is not, it is TypeUndefined.
func (c *ColumnIO) ColumnType(path, column string) (t TypeCode, err error) {
	pf, closer, err := c.openFile(path)
	if err != nil {
		return TypeUndefined, err
	}
	defer func() {
		err = multierror.New(err, closer()).Err()
	}()
	return c.lookupType(pf, path, column)
}

// lookupType resolves the column against the file schema. The parquet
// library does not treat an absent column as an error, so the message is
// synthesized here.
func (c *ColumnIO) lookupType(pf *parquet.File, path, column string) (TypeCode, error) {
	leaf, ok := pf.Schema().Lookup(column)
	if !ok {
		return TypeUndefined, errors.Errorf("column %q not found in parquet file %q", column, path)
	}
	return typeCodeOf(leaf.Node.Type()), nil
}

// ReadColumn streams all values of the named column, row group by row
// group in file order, into dst. 32-bit values are sign-extended into the
// 64-bit destination slots. The returned TypeCode is the column's on-disk
// type; if it is not transfer-eligible, dst is left untouched and no
// error is reported. dst must hold at least RowCount(path) values.
//
// batchSize bounds the number of values pulled per read; a non-positive
// value falls back to the configured default.
func (c *ColumnIO) ReadColumn(path string, dst []int64, column string, batchSize int) (t TypeCode, err error) {
	if batchSize <= 0 {
		batchSize = c.config.BatchSize
	}
	pf, closer, err := c.openFile(path)
	if err != nil {
		return TypeUndefined, err
	}
	defer func() {
		err = multierror.New(err, closer()).Err()
	}()

	t, err = c.lookupType(pf, path, column)
	if err != nil {
		return TypeUndefined, err
	}
	widen, ok := wideners[t]
	if !ok {
		return t, nil
	}

	var cursor int
	for i, rg := range pf.RowGroups() {
		n, err := c.readRowGroup(rg, dst[cursor:], path, column, batchSize, widen)
		if err != nil {
			return t, errors.Wrapf(err, "reading row group %d of %q", i, path)
		}
		cursor += n
	}
	level.Debug(c.logger).Log("msg", "column read", "path", path, "column", column, "type", t, "rows", cursor)
	c.metrics.valuesTransferredTotal.WithLabelValues("read").Add(float64(cursor))
	return t, nil
}

// readRowGroup copies one row group's vertical slice of the column into
// dst and returns the number of values written. The column index is
// re-resolved per row group. The value scratch buffer lives for one row
// group only, and the page stream is closed on every exit path.
func (c *ColumnIO) readRowGroup(rg parquet.RowGroup, dst []int64, path, column string, batchSize int, widen func(parquet.Value) int64) (n int, err error) {
	leaf, ok := rg.Schema().Lookup(column)
	if !ok {
		return 0, errors.Errorf("column %q not found in parquet file %q", column, path)
	}
	pages := rg.ColumnChunks()[leaf.ColumnIndex].Pages()
	defer func() {
		err = multierror.New(err, pages.Close()).Err()
	}()

	values := make([]parquet.Value, batchSize)
	for {
		page, err := pages.ReadPage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
		c.metrics.pageReadsTotal.WithLabelValues(column).Inc()
		n, err = c.readPage(page, dst, n, values, widen)
		parquet.Release(page)
		if err != nil {
			return n, err
		}
	}
}

// readPage drains one page's values into dst starting at the write
// cursor. Short reads at page boundaries are normal and advance the
// cursor by the count actually returned.
func (c *ColumnIO) readPage(page parquet.Page, dst []int64, cursor int, values []parquet.Value, widen func(parquet.Value) int64) (int, error) {
	reader := page.Values()
	for {
		m, err := reader.ReadValues(values)
		if m > 0 {
			if cursor+m > len(dst) {
				return cursor, errors.Errorf("destination buffer too small: %d values do not fit in %d slots", cursor+m, len(dst))
			}
			for _, v := range values[:m] {
				dst[cursor] = widen(v)
				cursor++
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return cursor, nil
			}
			return cursor, err
		}
	}
}
