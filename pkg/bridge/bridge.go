// Package bridge exposes the column transfer operations through the
// status-code contract used at the host runtime boundary. The host cannot
// rely on Go error values crossing that boundary, so every fallible entry
// point takes an out-parameter slot that receives an owned message on
// failure and is left untouched on success. Messages, including version
// strings, are released through a single shared path, exactly once each.
package bridge

import (
	"sync"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arraykit/parquetbridge/pkg/columnio"
)

// Status is the return code handed across the boundary.
type Status int64

const (
	StatusOK        Status = 0
	StatusError     Status = -1
	StatusUndefined Status = -2
)

// Wire type codes reported by GetType. Undefined shares the value of
// StatusUndefined so that type queries and reads agree on the sentinel.
const (
	TypeCodeUndefined int64 = int64(StatusUndefined)
	TypeCodeInt64     int64 = 1
	TypeCodeInt32     int64 = 2
	TypeCodeUInt64    int64 = 3
	TypeCodeTimestamp int64 = 4
)

// DtypeSigned selects the plain signed-64 column layout in
// WriteColumnToParquet; any other value selects the unsigned annotation.
const DtypeSigned int64 = 1

// Message is an owned string crossing the runtime boundary. Ownership
// transfers to the caller, who must hand it back to ReleaseString exactly
// once, even when the content is discarded.
type Message struct {
	s string
}

func (m *Message) String() string {
	if m == nil {
		return ""
	}
	return m.s
}

var (
	stringsMu   sync.Mutex
	liveStrings = make(map[*Message]struct{})
)

func newMessage(s string) *Message {
	m := &Message{s: s}
	stringsMu.Lock()
	liveStrings[m] = struct{}{}
	stringsMu.Unlock()
	return m
}

// ReleaseString frees any string this package ever produced, error
// message or version string alike. Releasing nil is a no-op.
func ReleaseString(m *Message) {
	if m == nil {
		return
	}
	stringsMu.Lock()
	delete(liveStrings, m)
	stringsMu.Unlock()
}

// LiveStrings reports the number of unreleased strings. Intended for leak
// audits and tests.
func LiveStrings() int {
	stringsMu.Lock()
	defer stringsMu.Unlock()
	return len(liveStrings)
}

// fail populates the error slot and is the only place messages are
// allocated for errors.
func fail(errMsg **Message, err error) Status {
	if errMsg != nil {
		*errMsg = newMessage(err.Error())
	}
	return StatusError
}

// Bridge adapts a ColumnIO to the boundary contract.
type Bridge struct {
	io *columnio.ColumnIO
}

func New(logger log.Logger, config columnio.Config, reg prometheus.Registerer) *Bridge {
	return &Bridge{io: columnio.New(logger, config, reg)}
}

// GetNumRows returns the total row count of the file, or StatusError with
// the slot populated.
func (b *Bridge) GetNumRows(path string, errMsg **Message) int64 {
	n, err := b.io.RowCount(path)
	if err != nil {
		return int64(fail(errMsg, err))
	}
	return n
}

// GetType returns the wire type code of the named column. A missing
// column is an error; an unsupported type is TypeCodeUndefined with the
// slot untouched.
func (b *Bridge) GetType(path, colname string, errMsg **Message) int64 {
	t, err := b.io.ColumnType(path, colname)
	if err != nil {
		return int64(fail(errMsg, err))
	}
	return typeCodeToWire(t)
}

// ReadColumnByName streams the named column into dst[:numElems]. The
// destination is owned by the caller and never reallocated here. An
// unsupported column type returns StatusUndefined without populating the
// slot; partial destination contents after an error are undefined.
func (b *Bridge) ReadColumnByName(path string, dst []int64, colname string, numElems, batchSize int64, errMsg **Message) Status {
	if numElems >= 0 && numElems < int64(len(dst)) {
		dst = dst[:numElems]
	}
	t, err := b.io.ReadColumn(path, dst, colname, int(batchSize))
	if err != nil {
		return fail(errMsg, err)
	}
	if !t.TransferEligible() {
		return StatusUndefined
	}
	return StatusOK
}

// WriteColumnToParquet writes src[:numElems] as a fresh single-column
// file. The column index parameter is part of the host-facing surface but
// carries no meaning for single-column files.
func (b *Bridge) WriteColumnToParquet(path string, src []int64, _ int64, dsetname string, numElems, rowGroupSize, dtype int64, errMsg **Message) Status {
	if numElems >= 0 && numElems < int64(len(src)) {
		src = src[:numElems]
	}
	if err := b.io.WriteColumn(path, src, dsetname, int(rowGroupSize), dtype != DtypeSigned); err != nil {
		return fail(errMsg, err)
	}
	return StatusOK
}

// GetVersionInfo returns a freshly allocated version string, released the
// same way as error messages.
func (b *Bridge) GetVersionInfo() *Message {
	return newMessage(columnio.LibraryVersion())
}

func typeCodeToWire(t columnio.TypeCode) int64 {
	switch t {
	case columnio.TypeInt64:
		return TypeCodeInt64
	case columnio.TypeInt32:
		return TypeCodeInt32
	case columnio.TypeUInt64:
		return TypeCodeUInt64
	case columnio.TypeTimestamp:
		return TypeCodeTimestamp
	default:
		return TypeCodeUndefined
	}
}
