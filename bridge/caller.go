package bridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-contract-sdk/arena"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
	"github.com/wippyai/wasm-contract-sdk/errors"
)

// Boundary is the host call primitive. It receives the marshaled header and
// body and returns the host status; results reach the guest only through
// memory at addresses passed in the body.
type Boundary interface {
	SysCall(header, body []byte) int32
}

// BoundaryFunc adapts a function to Boundary.
type BoundaryFunc func(header, body []byte) int32

// SysCall calls f.
func (f BoundaryFunc) SysCall(header, body []byte) int32 {
	return f(header, body)
}

// Caller executes named host methods over a Boundary, using an Arena for
// results that do not fit in the status code.
type Caller struct {
	boundary Boundary
	arena    *arena.Arena
	log      *zap.Logger
	ctxPtr   int32
}

// Option configures a Caller.
type Option func(*Caller)

// WithLogger sets the logger used for failed calls.
func WithLogger(l *zap.Logger) Option {
	return func(c *Caller) {
		c.log = l
	}
}

// WithContextPtr sets the host context pointer sent in every header.
func WithContextPtr(ptr int32) Option {
	return func(c *Caller) {
		c.ctxPtr = ptr
	}
}

// NewCaller returns a Caller over b that exchanges results through a.
func NewCaller(b Boundary, a *arena.Arena, opts ...Option) *Caller {
	c := &Caller{boundary: b, arena: a}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = Logger()
	}
	return c
}

// ContextPtr returns the context pointer sent in headers.
func (c *Caller) ContextPtr() int32 {
	return c.ctxPtr
}

// SetContextPtr changes the context pointer sent in headers.
func (c *Caller) SetContextPtr(ptr int32) {
	c.ctxPtr = ptr
}

// Arena returns the exchange buffer used for results.
func (c *Caller) Arena() *arena.Arena {
	return c.arena
}

// Header builds the routing header for method.
func (c *Caller) Header(method string) *easycodec.Codec {
	h := easycodec.New()
	h.AddValue(easycodec.KeyTypeSystem, HeaderContextPtr, easycodec.Int32(c.ctxPtr))
	h.AddValue(easycodec.KeyTypeSystem, HeaderVersion, easycodec.String(ContractVersion))
	h.AddValue(easycodec.KeyTypeSystem, HeaderMethod, easycodec.String(method))
	return h
}

// Invoke calls method with body and returns a status error for a nonzero
// result. A nil body is sent as an empty container.
func (c *Caller) Invoke(method string, body *easycodec.Codec) error {
	if body == nil {
		body = easycodec.New()
	}
	return c.InvokeRaw(method, body.Marshal())
}

// InvokeRaw calls method with payload as the body bytes.
func (c *Caller) InvokeRaw(method string, payload []byte) error {
	if c.boundary == nil {
		return errors.NotInitialized(errors.PhaseCall, "boundary")
	}
	code := c.boundary.SysCall(c.Header(method).Marshal(), payload)
	if code != SuccessCode {
		c.log.Warn("host call failed",
			zap.String("method", method),
			zap.Int32("code", code))
		return errors.Status(method, code)
	}
	return nil
}

// FetchInt32 calls method with a 4-byte result buffer and returns the integer
// the host wrote into it.
func (c *Caller) FetchInt32(method string, body *easycodec.Codec) (int32, error) {
	if err := c.checkArena(); err != nil {
		return 0, err
	}
	defer c.arena.Release()

	params, err := c.withOutput(body, 4)
	if err != nil {
		return 0, err
	}
	if err := c.Invoke(method, params); err != nil {
		return 0, err
	}
	return c.arena.Int32()
}

// FetchBytes retrieves a variable-length result. It first calls lenMethod to
// learn the result length, then, if the length is not zero, calls method with
// a buffer of exactly that length and returns a copy of it. A zero length is
// returned as nil without a second call. The arena is released on every path.
func (c *Caller) FetchBytes(lenMethod, method string, body *easycodec.Codec) ([]byte, error) {
	if err := c.checkArena(); err != nil {
		return nil, err
	}
	defer c.arena.Release()

	params, err := c.withOutput(body, 4)
	if err != nil {
		return nil, err
	}
	if err := c.Invoke(lenMethod, params); err != nil {
		return nil, err
	}
	n, err := c.arena.Int32()
	if err != nil {
		return nil, err
	}
	c.arena.Release()

	if n == 0 {
		return nil, nil
	}
	if n < 0 {
		return nil, errors.New(errors.PhaseCall, errors.KindInvalidData).
			Method(lenMethod).
			Value(n).
			Detail("negative result length %d", n).
			Build()
	}

	params, err = c.withOutput(params, uint32(n))
	if err != nil {
		return nil, err
	}
	if err := c.Invoke(method, params); err != nil {
		return nil, err
	}
	return c.arena.CopyOut(uint32(n))
}

// FetchCodec is FetchBytes followed by a tolerant decode of the result.
func (c *Caller) FetchCodec(lenMethod, method string, body *easycodec.Codec) (*easycodec.Codec, error) {
	data, err := c.FetchBytes(lenMethod, method, body)
	if err != nil {
		return nil, err
	}
	return easycodec.Unmarshal(data), nil
}

// withOutput returns a copy of body whose last record points at a fresh arena
// buffer of size bytes.
func (c *Caller) withOutput(body *easycodec.Codec, size uint32) (*easycodec.Codec, error) {
	ptr, err := c.arena.GetOrCreate(size)
	if err != nil {
		return nil, err
	}
	var params *easycodec.Codec
	if body == nil {
		params = easycodec.New()
	} else {
		params = body.Clone()
	}
	params.Remove(ValuePtrKey)
	params.AddInt32(ValuePtrKey, int32(ptr))
	return params, nil
}

func (c *Caller) checkArena() error {
	if c.arena == nil {
		return errors.NotInitialized(errors.PhaseCall, "arena")
	}
	return nil
}
