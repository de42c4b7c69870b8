package easycodec

import (
	"encoding/binary"
	"fmt"
)

// KeyType distinguishes protocol-reserved keys from caller-supplied keys.
// It is informational only; lookups ignore it.
type KeyType int32

const (
	KeyTypeSystem KeyType = 0
	KeyTypeUser   KeyType = 1
)

// Valid reports whether t is a key type the wire format accepts.
func (t KeyType) Valid() bool {
	return t == KeyTypeSystem || t == KeyTypeUser
}

func (t KeyType) String() string {
	switch t {
	case KeyTypeSystem:
		return "SYSTEM"
	case KeyTypeUser:
		return "USER"
	default:
		return fmt.Sprintf("KeyType(%d)", int32(t))
	}
}

// ValueType is the wire tag that selects how a value payload is interpreted.
type ValueType int32

const (
	ValueTypeInt32  ValueType = 0
	ValueTypeString ValueType = 1
	ValueTypeBytes  ValueType = 2
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeInt32:
		return "INT32"
	case ValueTypeString:
		return "STRING"
	case ValueTypeBytes:
		return "BYTES"
	default:
		return fmt.Sprintf("ValueType(%d)", int32(t))
	}
}

// Value is a typed record payload. The implementations in this package are the
// only ones; switch on Int32, String, Bytes and Opaque.
type Value interface {
	Type() ValueType
	// payload returns the wire bytes of the value.
	payload() []byte
}

// Int32 is a 4-byte little-endian integer value.
type Int32 int32

func (Int32) Type() ValueType { return ValueTypeInt32 }

func (v Int32) payload() []byte {
	return binary.LittleEndian.AppendUint32(make([]byte, 0, int32Size), uint32(v))
}

// String is a UTF-8 text value. Decoded strings are not validated until they
// are read through an accessor or rendered as JSON.
type String string

func (String) Type() ValueType { return ValueTypeString }

func (v String) payload() []byte { return []byte(v) }

// Bytes is an opaque byte value.
type Bytes []byte

func (Bytes) Type() ValueType { return ValueTypeBytes }

func (v Bytes) payload() []byte { return v }

// Opaque carries a value whose type tag is not one of the known value types.
type Opaque struct {
	Data []byte
	Tag  ValueType
}

func (v Opaque) Type() ValueType { return v.Tag }

func (v Opaque) payload() []byte { return v.Data }

// Record is one entry of a Codec.
type Record struct {
	Value   Value
	Key     string
	KeyType KeyType
}

// Payload returns a copy of the record's wire value bytes.
func (r Record) Payload() []byte {
	if r.Value == nil {
		return nil
	}
	p := r.Value.payload()
	out := make([]byte, len(p))
	copy(out, p)
	return out
}
