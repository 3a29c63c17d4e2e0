package columnio

import (
	"github.com/parquet-go/parquet-go"
)

// TypeCode classifies a column's on-disk logical type. Only Int64, Int32
// and UInt64 are transfer-eligible; Timestamp is recognized so callers can
// route such columns elsewhere, and everything else is Undefined.
// Undefined is a legitimate classification, not an error.
type TypeCode int

const (
	TypeUndefined TypeCode = iota
	TypeInt64
	TypeInt32
	TypeUInt64
	TypeTimestamp
)

func (t TypeCode) String() string {
	switch t {
	case TypeInt64:
		return "int64"
	case TypeInt32:
		return "int32"
	case TypeUInt64:
		return "uint64"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "undefined"
	}
}

// TransferEligible reports whether values of this type can be moved into
// or out of a flat int64 buffer.
func (t TypeCode) TransferEligible() bool {
	_, ok := wideners[t]
	return ok
}

// wideners convert one on-disk value into a 64-bit destination slot.
// Keyed by type code so that adding a type is a single entry, not a new
// branch in the read loop. Int32 is sign-extended.
var wideners = map[TypeCode]func(parquet.Value) int64{
	TypeInt64:  func(v parquet.Value) int64 { return v.Int64() },
	TypeUInt64: func(v parquet.Value) int64 { return v.Int64() },
	TypeInt32:  func(v parquet.Value) int64 { return int64(v.Int32()) },
}

// typeCodeOf maps a parquet leaf type to its TypeCode. Integer logical
// annotations take precedence; plain INT64/INT32 physical types without
// an annotation classify by kind.
func typeCodeOf(t parquet.Type) TypeCode {
	if lt := t.LogicalType(); lt != nil {
		switch {
		case lt.Timestamp != nil:
			return TypeTimestamp
		case lt.Integer != nil:
			switch {
			case lt.Integer.BitWidth == 64 && !lt.Integer.IsSigned:
				return TypeUInt64
			case lt.Integer.BitWidth == 64:
				return TypeInt64
			case lt.Integer.BitWidth == 32 && lt.Integer.IsSigned:
				return TypeInt32
			}
		}
		return TypeUndefined
	}
	switch t.Kind() {
	case parquet.Int64:
		return TypeInt64
	case parquet.Int32:
		return TypeInt32
	}
	return TypeUndefined
}
