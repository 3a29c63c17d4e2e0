package bridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"

	"github.com/arraykit/parquetbridge/pkg/columnio"
)

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()
	return New(nil, columnio.DefaultConfig(), nil)
}

func Test_RoundTrip(t *testing.T) {
	b := newTestBridge(t)
	path := filepath.Join(t.TempDir(), "col.parquet")
	src := []int64{-3, -2, -1, 0, 1, 2, 3}

	var errMsg *Message
	status := b.WriteColumnToParquet(path, src, 0, "data", int64(len(src)), 2, DtypeSigned, &errMsg)
	require.Equal(t, StatusOK, status)
	require.Nil(t, errMsg)

	require.Equal(t, int64(len(src)), b.GetNumRows(path, &errMsg))
	require.Nil(t, errMsg)

	require.Equal(t, TypeCodeInt64, b.GetType(path, "data", &errMsg))
	require.Nil(t, errMsg)

	dst := make([]int64, len(src))
	status = b.ReadColumnByName(path, dst, "data", int64(len(dst)), 1024, &errMsg)
	require.Equal(t, StatusOK, status)
	require.Nil(t, errMsg)
	require.Equal(t, src, dst)

	require.Equal(t, 0, LiveStrings())
}

func Test_UnsignedDtype(t *testing.T) {
	b := newTestBridge(t)
	path := filepath.Join(t.TempDir(), "col.parquet")
	src := []int64{1, 2, -1} // -1 carries the max uint64 bit pattern

	var errMsg *Message
	require.Equal(t, StatusOK, b.WriteColumnToParquet(path, src, 0, "data", int64(len(src)), 10, 2, &errMsg))
	require.Equal(t, TypeCodeUInt64, b.GetType(path, "data", &errMsg))
	require.Nil(t, errMsg)

	dst := make([]int64, len(src))
	require.Equal(t, StatusOK, b.ReadColumnByName(path, dst, "data", int64(len(dst)), 1024, &errMsg))
	require.Equal(t, src, dst)
}

func Test_ErrorChannel(t *testing.T) {
	b := newTestBridge(t)
	path := filepath.Join(t.TempDir(), "missing.parquet")

	var errMsg *Message
	require.Equal(t, int64(StatusError), b.GetNumRows(path, &errMsg))
	require.NotNil(t, errMsg)
	require.Contains(t, errMsg.String(), path)
	require.Equal(t, 1, LiveStrings())

	ReleaseString(errMsg)
	require.Equal(t, 0, LiveStrings())

	// The slot stays untouched on success.
	errMsg = nil
	ok := filepath.Join(t.TempDir(), "ok.parquet")
	require.Equal(t, StatusOK, b.WriteColumnToParquet(ok, []int64{1}, 0, "data", 1, 1, DtypeSigned, &errMsg))
	require.Nil(t, errMsg)
}

func Test_MissingColumn(t *testing.T) {
	b := newTestBridge(t)
	path := filepath.Join(t.TempDir(), "col.parquet")

	var errMsg *Message
	require.Equal(t, StatusOK, b.WriteColumnToParquet(path, []int64{1, 2}, 0, "data", 2, 2, DtypeSigned, &errMsg))

	require.Equal(t, TypeCodeUndefined, b.GetType(path, "nosuchcol", &errMsg))
	require.NotNil(t, errMsg)
	require.Contains(t, errMsg.String(), "nosuchcol")
	require.Contains(t, errMsg.String(), path)
	ReleaseString(errMsg)

	errMsg = nil
	dst := make([]int64, 2)
	require.Equal(t, StatusError, b.ReadColumnByName(path, dst, "nosuchcol", 2, 1024, &errMsg))
	require.NotNil(t, errMsg)
	require.Contains(t, errMsg.String(), "nosuchcol")
	ReleaseString(errMsg)
	require.Equal(t, 0, LiveStrings())
}

func Test_UndefinedDoesNotPopulateSlot(t *testing.T) {
	b := newTestBridge(t)
	path := filepath.Join(t.TempDir(), "float.parquet")
	writeFloatFile(t, path)

	var errMsg *Message
	require.Equal(t, TypeCodeUndefined, b.GetType(path, "temp", &errMsg))
	require.Nil(t, errMsg)

	dst := []int64{7, 7}
	require.Equal(t, StatusUndefined, b.ReadColumnByName(path, dst, "temp", 2, 1024, &errMsg))
	require.Nil(t, errMsg)
	require.Equal(t, []int64{7, 7}, dst, "destination must be untouched")
	require.Equal(t, 0, LiveStrings())
}

func writeFloatFile(t *testing.T, path string) {
	t.Helper()
	type row struct {
		Temp float64 `parquet:"temp"`
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	w := parquet.NewGenericWriter[row](f)
	_, err = w.Write([]row{{1.5}, {2.5}})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func Test_GetVersionInfo(t *testing.T) {
	b := newTestBridge(t)
	v := b.GetVersionInfo()
	require.NotNil(t, v)
	require.NotEmpty(t, v.String())
	require.Equal(t, 1, LiveStrings())
	ReleaseString(v)
	require.Equal(t, 0, LiveStrings())
}

func Test_ReleaseString_Nil(t *testing.T) {
	ReleaseString(nil)
	require.Equal(t, 0, LiveStrings())
}
