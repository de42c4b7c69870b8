package hostsim

import (
	contractsdk "github.com/wippyai/wasm-contract-sdk"
	"github.com/wippyai/wasm-contract-sdk/bridge"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
	"github.com/wippyai/wasm-contract-sdk/errors"
)

// Call is one boundary call as seen by a handler.
type Call struct {
	mem    contractsdk.Memory
	Header *easycodec.Codec
	// Body is the decoded body. It is empty for methods whose body is raw
	// bytes, such as LogMessage.
	Body   *easycodec.Codec
	Method string
	Raw    []byte
	CtxPtr int32
}

// String returns the STRING parameter key, or "" if it is absent.
func (c *Call) String(key string) string {
	s, _ := c.Body.GetString(key)
	return s
}

// Bytes returns the BYTES parameter key, or nil if it is absent.
func (c *Call) Bytes(key string) []byte {
	b, _ := c.Body.GetBytes(key)
	return b
}

// Int32 returns the INT32 parameter key.
func (c *Call) Int32(key string) (int32, error) {
	return c.Body.GetInt32(key)
}

func (c *Call) output() (uint32, error) {
	ptr, err := c.Body.GetInt32(bridge.ValuePtrKey)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "call has no result address")
	}
	return uint32(ptr), nil
}

// WriteInt32 stores v as little-endian at the call's result address.
func (c *Call) WriteInt32(v int32) error {
	ptr, err := c.output()
	if err != nil {
		return err
	}
	return c.mem.WriteU32(ptr, uint32(v))
}

// WriteBytes copies data to the call's result address.
func (c *Call) WriteBytes(data []byte) error {
	ptr, err := c.output()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return c.mem.Write(ptr, data)
}
