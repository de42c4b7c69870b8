// Package easycodec implements the self-describing key-value container exchanged
// between a contract module and its host.
//
// A Codec is an ordered list of records. Each record has a key type (SYSTEM for
// protocol-reserved keys, USER for caller keys), a UTF-8 key and a typed value.
// Values are a closed set of variants:
//
//	Int32   4-byte little-endian integer
//	String  UTF-8 text
//	Bytes   opaque bytes
//	Opaque  any other value type tag, kept verbatim so containers round-trip
//
// Building and encoding:
//
//	c := easycodec.New()
//	c.AddInt32("key1", 123)
//	c.AddString("keyStr", "abc")
//	c.AddBytes("bytes", []byte{0x32})
//	data := c.Marshal()
//
// Decoding is tolerant by default: Unmarshal never fails and returns an empty
// container for short, malformed or truncated input. Decode applies the same rules
// but reports why the input was rejected:
//
//	c := easycodec.Unmarshal(data)
//	c, err := easycodec.Decode(data)
//
// Lookups scan in insertion order and return the first match. A missing key and a
// key holding another value type fail with distinct errors:
//
//	n, err := c.GetInt32("key1")
//	if errors.Is(err, easycodec.ErrNotFound) { ... }
//	if errors.Is(err, easycodec.ErrTypeMismatch) { ... }
package easycodec
