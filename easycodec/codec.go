package easycodec

import (
	"unicode/utf8"

	"github.com/wippyai/wasm-contract-sdk/errors"
)

// Codec is an ordered container of typed key-value records.
// Insertion order is kept for encoding; duplicate keys are allowed and lookups
// return the first match.
//
// A Codec is not safe for concurrent mutation.
type Codec struct {
	items []Record
}

// New returns an empty container.
func New() *Codec {
	return &Codec{}
}

// NewWith returns a container holding records in the given order.
func NewWith(records ...Record) *Codec {
	c := &Codec{items: make([]Record, 0, len(records))}
	for _, r := range records {
		c.Put(r)
	}
	return c
}

// Len returns the number of records.
func (c *Codec) Len() int {
	return len(c.items)
}

// Records returns the records in insertion order. The slice is a copy.
func (c *Codec) Records() []Record {
	out := make([]Record, len(c.items))
	copy(out, c.items)
	return out
}

// Keys returns the record keys in insertion order.
func (c *Codec) Keys() []string {
	keys := make([]string, len(c.items))
	for i, r := range c.items {
		keys[i] = r.Key
	}
	return keys
}

// Put appends a record.
func (c *Codec) Put(r Record) {
	if r.Value == nil {
		r.Value = Bytes(nil)
	}
	c.items = append(c.items, r)
}

// AddValue appends a record with an explicit key type.
func (c *Codec) AddValue(keyType KeyType, key string, v Value) {
	c.Put(Record{KeyType: keyType, Key: key, Value: v})
}

// AddInt32 appends a USER record holding an INT32 value.
func (c *Codec) AddInt32(key string, v int32) {
	c.AddValue(KeyTypeUser, key, Int32(v))
}

// AddString appends a USER record holding a STRING value.
func (c *Codec) AddString(key, v string) {
	c.AddValue(KeyTypeUser, key, String(v))
}

// AddBytes appends a USER record holding a BYTES value. The slice is copied.
func (c *Codec) AddBytes(key string, v []byte) {
	b := make([]byte, len(v))
	copy(b, v)
	c.AddValue(KeyTypeUser, key, Bytes(b))
}

// Get returns the first record with the given key.
func (c *Codec) Get(key string) (Record, bool) {
	for _, r := range c.items {
		if r.Key == key {
			return r, true
		}
	}
	return Record{}, false
}

// GetInt32 returns the INT32 value of the first record with the given key.
func (c *Codec) GetInt32(key string) (int32, error) {
	r, ok := c.Get(key)
	if !ok {
		return 0, notFound(key)
	}
	v, ok := r.Value.(Int32)
	if !ok {
		return 0, mismatch(key, ValueTypeInt32, r.Value)
	}
	return int32(v), nil
}

// GetString returns the STRING value of the first record with the given key.
func (c *Codec) GetString(key string) (string, error) {
	r, ok := c.Get(key)
	if !ok {
		return "", notFound(key)
	}
	v, ok := r.Value.(String)
	if !ok {
		return "", mismatch(key, ValueTypeString, r.Value)
	}
	if !utf8.ValidString(string(v)) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, key, []byte(v))
	}
	return string(v), nil
}

// GetBytes returns a copy of the BYTES value of the first record with the given key.
func (c *Codec) GetBytes(key string) ([]byte, error) {
	r, ok := c.Get(key)
	if !ok {
		return nil, notFound(key)
	}
	v, ok := r.Value.(Bytes)
	if !ok {
		return nil, mismatch(key, ValueTypeBytes, r.Value)
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// GetBytesAsString returns the BYTES value of the first record with the given
// key interpreted as UTF-8 text.
func (c *Codec) GetBytesAsString(key string) (string, error) {
	b, err := c.GetBytes(key)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, key, b)
	}
	return string(b), nil
}

// Remove deletes the first record with the given key. It is a no-op when the
// key is absent.
func (c *Codec) Remove(key string) {
	for i, r := range c.items {
		if r.Key == key {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clone returns a container with the same records. Value payloads are shared.
func (c *Codec) Clone() *Codec {
	return NewWith(c.items...)
}

func notFound(key string) error {
	return errors.NotFound(errors.PhaseDecode, "key", key)
}

func mismatch(key string, want ValueType, got Value) error {
	return errors.TypeMismatch(errors.PhaseDecode, key, want.String(), got.Type().String())
}
