package contract

import (
	"strconv"

	"github.com/wippyai/wasm-contract-sdk/arena"
	"github.com/wippyai/wasm-contract-sdk/bridge"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
	"github.com/wippyai/wasm-contract-sdk/errors"
)

// Context is the view of one contract invocation.
type Context struct {
	caller *bridge.Caller
	args   *easycodec.Codec
}

// Load reads the invocation arguments the host wrote into a, releases the
// buffer and returns a Context calling through b.
func Load(a *arena.Arena, b bridge.Boundary, opts ...bridge.Option) (*Context, error) {
	data, err := a.CopyOut(a.Capacity())
	if err != nil {
		return nil, err
	}
	a.Release()

	args := easycodec.Unmarshal(data)
	ptr, err := contextPtr(args)
	if err != nil {
		return nil, err
	}

	opts = append(opts, bridge.WithContextPtr(ptr))
	return NewContext(bridge.NewCaller(b, a, opts...), args), nil
}

// NewContext returns a Context over an existing caller. A nil args is treated
// as an empty container.
func NewContext(caller *bridge.Caller, args *easycodec.Codec) *Context {
	if args == nil {
		args = easycodec.New()
	}
	return &Context{caller: caller, args: args}
}

func contextPtr(args *easycodec.Codec) (int32, error) {
	s, err := args.GetBytesAsString(ParamContextPtr)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, "read context pointer")
	}
	ptr, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errors.New(errors.PhaseLoad, errors.KindInvalidData).
			Key(ParamContextPtr).
			Value(s).
			Cause(err).
			Detail("context pointer is not a 32-bit integer").
			Build()
	}
	return int32(ptr), nil
}

// Caller returns the caller the context uses for host calls.
func (c *Context) Caller() *bridge.Caller {
	return c.caller
}

// Args returns the invocation arguments.
func (c *Context) Args() *easycodec.Codec {
	return c.args
}

// Arg returns the raw bytes of argument key.
func (c *Context) Arg(key string) ([]byte, error) {
	return c.args.GetBytes(key)
}

// ArgString returns argument key as text, or "" when it is absent or not
// valid UTF-8.
func (c *Context) ArgString(key string) string {
	s, err := c.args.GetBytesAsString(key)
	if err != nil {
		return ""
	}
	return s
}

func (c *Context) CreatorOrgID() string { return c.ArgString(ParamCreatorOrgID) }
func (c *Context) CreatorRole() string  { return c.ArgString(ParamCreatorRole) }
func (c *Context) CreatorPK() string    { return c.ArgString(ParamCreatorPK) }
func (c *Context) SenderOrgID() string  { return c.ArgString(ParamSenderOrgID) }
func (c *Context) SenderRole() string   { return c.ArgString(ParamSenderRole) }
func (c *Context) SenderPK() string     { return c.ArgString(ParamSenderPK) }
func (c *Context) TxID() string         { return c.ArgString(ParamTxID) }

// BlockHeight returns the height of the block executing the transaction.
func (c *Context) BlockHeight() (uint64, error) {
	s := c.ArgString(ParamBlockHeight)
	h, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Key(ParamBlockHeight).
			Value(s).
			Cause(err).
			Detail("block height is not an unsigned integer").
			Build()
	}
	return h, nil
}

// OK reports a successful result. An empty value succeeds without a host call.
func (c *Context) OK(value []byte) error {
	if len(value) == 0 {
		return nil
	}
	return c.caller.InvokeRaw(bridge.MethodSuccessResult, value)
}

// Error reports a failed invocation with msg as the reason.
func (c *Context) Error(msg string) error {
	return c.caller.InvokeRaw(bridge.MethodErrorResult, []byte(msg))
}

// Log sends msg to the host log.
func (c *Context) Log(msg string) {
	_ = c.caller.InvokeRaw(bridge.MethodLogMessage, []byte(msg))
}

// EmitEvent publishes an event under topic with data as its ordered payload.
func (c *Context) EmitEvent(topic string, data ...string) error {
	body := easycodec.New()
	body.AddString(keyTopic, topic)
	for _, d := range data {
		body.AddString(keyData, d)
	}
	return c.caller.Invoke(bridge.MethodEmitEvent, body)
}
