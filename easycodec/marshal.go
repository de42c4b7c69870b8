package easycodec

import (
	"fmt"
	"io"

	"github.com/wippyai/wasm-contract-sdk/errors"
)

// Size returns the length of the marshaled container in bytes.
func (c *Codec) Size() int {
	n := headerLen + int32Size
	for _, r := range c.items {
		n += recordOverhead + len(r.Key) + len(r.Value.payload())
	}
	return n
}

// Marshal encodes the container with the full header, the record count and the
// records in insertion order. The output is deterministic for a given order.
func (c *Codec) Marshal() []byte {
	return c.appendTo(make([]byte, 0, c.Size()))
}

// MarshalTo encodes the container into buf and returns the number of bytes
// written, or io.ErrShortBuffer if buf cannot hold it.
func (c *Codec) MarshalTo(buf []byte) (int, error) {
	size := c.Size()
	if len(buf) < size {
		return 0, io.ErrShortBuffer
	}
	return len(c.appendTo(buf[:0])), nil
}

// MarshalBinary implements encoding.BinaryMarshaler. Unlike Marshal it refuses
// containers a decoder would reject.
func (c *Codec) MarshalBinary() ([]byte, error) {
	if len(c.items) > MaxRecords {
		return nil, errors.Overflow(errors.PhaseEncode, len(c.items), fmt.Sprintf("record limit %d", MaxRecords))
	}
	for _, r := range c.items {
		if !r.KeyType.Valid() {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Key(r.Key).
				Detail("invalid key type %d", int32(r.KeyType)).
				Build()
		}
		if !fitsInt32(len(r.Key)) {
			return nil, overflowAt(r.Key, len(r.Key), "key length")
		}
		if n := len(r.Value.payload()); !fitsInt32(n) {
			return nil, overflowAt(r.Key, n, "value length")
		}
	}
	return c.Marshal(), nil
}

func overflowAt(key string, n int, field string) error {
	err := errors.Overflow(errors.PhaseEncode, n, field+" field")
	err.Key = key
	return err
}

// WriteTo implements io.WriterTo.
func (c *Codec) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.Marshal())
	return int64(n), err
}

func (c *Codec) appendTo(b []byte) []byte {
	h := header()
	b = append(b, h[:]...)
	b = appendLE(b, len(c.items))
	for _, r := range c.items {
		p := r.Value.payload()
		b = appendLE(b, r.KeyType)
		b = appendLE(b, len(r.Key))
		b = append(b, r.Key...)
		b = appendLE(b, r.Value.Type())
		b = appendLE(b, len(p))
		b = append(b, p...)
	}
	return b
}
