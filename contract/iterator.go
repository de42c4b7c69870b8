package contract

import (
	"github.com/wippyai/wasm-contract-sdk/bridge"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
)

// ResultSet is a host-side cursor over rows of state or SQL results.
type ResultSet interface {
	// HasNext reports whether another row is available. Host failures read
	// as no more rows.
	HasNext() bool
	NextRow() (*easycodec.Codec, error)
	Close() error
}

type cursorMethods struct {
	hasNext string
	nextLen string
	next    string
	close   string
}

var (
	kvCursor = cursorMethods{
		hasNext: bridge.MethodKvIteratorHasNext,
		nextLen: bridge.MethodKvIteratorNextLen,
		next:    bridge.MethodKvIteratorNext,
		close:   bridge.MethodKvIteratorClose,
	}
	sqlCursor = cursorMethods{
		hasNext: bridge.MethodRSHasNext,
		nextLen: bridge.MethodRSNextLen,
		next:    bridge.MethodRSNext,
		close:   bridge.MethodRSClose,
	}
)

// resultSet addresses a cursor by the index the host assigned to it.
type resultSet struct {
	caller  *bridge.Caller
	methods cursorMethods
	index   int32
}

func (r *resultSet) body() *easycodec.Codec {
	b := easycodec.New()
	b.AddInt32(keyRSIndex, r.index)
	return b
}

func (r *resultSet) HasNext() bool {
	v, err := r.caller.FetchInt32(r.methods.hasNext, r.body())
	return err == nil && v != 0
}

func (r *resultSet) NextRow() (*easycodec.Codec, error) {
	return r.caller.FetchCodec(r.methods.nextLen, r.methods.next, r.body())
}

func (r *resultSet) Close() error {
	_, err := r.caller.FetchInt32(r.methods.close, r.body())
	return err
}

// NewIterator iterates keys in [startKey, limitKey).
func (c *Context) NewIterator(startKey, limitKey string) (ResultSet, error) {
	return c.newIterator(bridge.MethodKvIterator, startKey, "", limitKey, "")
}

// NewIteratorWithField iterates the fields of key in [startField, limitField).
func (c *Context) NewIteratorWithField(key, startField, limitField string) (ResultSet, error) {
	return c.newIterator(bridge.MethodKvIterator, key, startField, key, limitField)
}

// NewIteratorPrefixWithKeyField iterates entries whose key#field starts with
// key and field.
func (c *Context) NewIteratorPrefixWithKeyField(key, field string) (ResultSet, error) {
	return c.newIterator(bridge.MethodKvPreIterator, key, field, "", "")
}

// NewIteratorPrefixWithKey iterates entries whose key starts with key.
func (c *Context) NewIteratorPrefixWithKey(key string) (ResultSet, error) {
	return c.newIterator(bridge.MethodKvPreIterator, key, "", "", "")
}

func (c *Context) newIterator(method, startKey, startField, limitKey, limitField string) (ResultSet, error) {
	body := easycodec.New()
	body.AddString(keyStartKey, startKey)
	body.AddString(keyStartField, startField)
	body.AddString(keyLimitKey, limitKey)
	body.AddString(keyLimitField, limitField)

	index, err := c.caller.FetchInt32(method, body)
	if err != nil {
		return nil, err
	}
	return &resultSet{caller: c.caller, methods: kvCursor, index: index}, nil
}
