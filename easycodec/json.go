package easycodec

import (
	"encoding/base64"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/wasm-contract-sdk/errors"
)

var quoteEscaper = strings.NewReplacer(`"`, `\"`)

// ToJSON renders the container as one flat object in record order. STRING
// values are quoted with double quotes escaped, INT32 values are bare numbers,
// BYTES values are standard base64 strings and values of unknown type are null.
// A STRING value holding malformed UTF-8 is an error.
func (c *Codec) ToJSON() (string, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, r := range c.items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		quoteEscaper.WriteString(&b, r.Key)
		b.WriteString(`":`)

		switch v := r.Value.(type) {
		case String:
			if !utf8.ValidString(string(v)) {
				return "", errors.InvalidUTF8(errors.PhaseDecode, r.Key, []byte(v))
			}
			b.WriteByte('"')
			quoteEscaper.WriteString(&b, string(v))
			b.WriteByte('"')
		case Int32:
			b.WriteString(strconv.FormatInt(int64(v), 10))
		case Bytes:
			b.WriteByte('"')
			b.WriteString(base64.StdEncoding.EncodeToString(v))
			b.WriteByte('"')
		default:
			b.WriteString("null")
		}
	}
	b.WriteByte('}')
	return b.String(), nil
}
