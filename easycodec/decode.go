package easycodec

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"github.com/wippyai/wasm-contract-sdk/errors"
)

// Unmarshal decodes data into a container. It never fails: input of MinLength
// bytes or less, a corrupted header, a record count above MaxRecords and any
// length field that runs past the end of data all yield an empty container.
//
// Data that does not start with the magic bytes is read as the header-less
// form, beginning at the record count.
func Unmarshal(data []byte) *Codec {
	c, err := Decode(data)
	if err != nil {
		return New()
	}
	return c
}

// Decode is Unmarshal with the reason for rejection reported. Short input is
// still an empty container and not an error. Records whose key type is neither
// SYSTEM nor USER are skipped after their declared lengths are consumed.
func Decode(data []byte) (*Codec, error) {
	if len(data) <= MinLength {
		return New(), nil
	}

	d := decoder{data: data}
	if bytes.Equal(data[:magicLen], magic[:]) {
		h := header()
		if !bytes.Equal(data[:headerLen], h[:]) {
			return nil, errors.InvalidData(errors.PhaseDecode, "header does not match cmec v1.0")
		}
		d.off = headerLen
	}

	count, err := d.int32()
	if err != nil {
		return nil, err
	}
	if count < 0 || count > MaxRecords {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Value(count).
			Detail("record count %d outside [0, %d]", count, MaxRecords).
			Build()
	}

	c := &Codec{items: make([]Record, 0, count)}
	for i := int32(0); i < count; i++ {
		r, ok, err := d.record()
		if err != nil {
			return nil, err
		}
		if ok {
			c.items = append(c.items, r)
		}
	}
	return c, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler with Decode semantics.
func (c *Codec) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	c.items = decoded.items
	return nil
}

type decoder struct {
	data []byte
	off  int
}

func (d *decoder) int32() (int32, error) {
	if len(d.data)-d.off < int32Size {
		return 0, errors.OutOfBounds(errors.PhaseDecode, d.off, int32Size, len(d.data))
	}
	v := int32(binary.LittleEndian.Uint32(d.data[d.off:]))
	d.off += int32Size
	return v, nil
}

// field reads a length-prefixed byte field and returns a copy of it.
func (d *decoder) field() ([]byte, error) {
	n, err := d.int32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, "negative field length")
	}
	if len(d.data)-d.off < int(n) {
		return nil, errors.OutOfBounds(errors.PhaseDecode, d.off, int(n), len(d.data))
	}
	out := make([]byte, n)
	copy(out, d.data[d.off:])
	d.off += int(n)
	return out, nil
}

// record reads one record. ok is false for records that were consumed but
// must be skipped.
func (d *decoder) record() (r Record, ok bool, err error) {
	kt, err := d.int32()
	if err != nil {
		return Record{}, false, err
	}
	key, err := d.field()
	if err != nil {
		return Record{}, false, err
	}
	vt, err := d.int32()
	if err != nil {
		return Record{}, false, err
	}
	raw, err := d.field()
	if err != nil {
		return Record{}, false, err
	}

	keyType := KeyType(kt)
	if !keyType.Valid() {
		return Record{}, false, nil
	}
	if !utf8.Valid(key) {
		return Record{}, false, errors.InvalidUTF8(errors.PhaseDecode, "", key)
	}

	v, err := decodeValue(ValueType(vt), raw)
	if err != nil {
		return Record{}, false, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Key(string(key)).
			Cause(err).
			Detail("decode value").
			Build()
	}
	return Record{KeyType: keyType, Key: string(key), Value: v}, true, nil
}

func decodeValue(t ValueType, raw []byte) (Value, error) {
	switch t {
	case ValueTypeInt32:
		if len(raw) != int32Size {
			return nil, errors.InvalidData(errors.PhaseDecode, "INT32 value must be 4 bytes")
		}
		return Int32(int32(binary.LittleEndian.Uint32(raw))), nil
	case ValueTypeString:
		return String(raw), nil
	case ValueTypeBytes:
		return Bytes(raw), nil
	default:
		return Opaque{Tag: t, Data: raw}, nil
	}
}
