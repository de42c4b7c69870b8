package contract

import (
	"github.com/wippyai/wasm-contract-sdk/bridge"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
	"github.com/wippyai/wasm-contract-sdk/errors"
)

// GetState returns the value stored under key and field. A missing value is
// returned as nil with no error.
func (c *Context) GetState(key, field string) ([]byte, error) {
	return c.caller.FetchBytes(bridge.MethodGetStateLen, bridge.MethodGetState, stateBody(key, field))
}

// GetStateFromKey is GetState with an empty field.
func (c *Context) GetStateFromKey(key string) ([]byte, error) {
	return c.GetState(key, "")
}

// PutState stores value under key and field.
func (c *Context) PutState(key, field string, value []byte) error {
	body := stateBody(key, field)
	body.AddBytes(keyValue, value)
	return c.caller.Invoke(bridge.MethodPutState, body)
}

// PutStateFromKey is PutState with an empty field.
func (c *Context) PutStateFromKey(key string, value []byte) error {
	return c.PutState(key, "", value)
}

// DeleteState removes the value under key and field.
func (c *Context) DeleteState(key, field string) error {
	return c.caller.Invoke(bridge.MethodDeleteState, stateBody(key, field))
}

// DeleteStateFromKey is DeleteState with an empty field.
func (c *Context) DeleteStateFromKey(key string) error {
	return c.DeleteState(key, "")
}

// CallContract invokes method of another contract with params and returns its
// result. Both name and method are required.
func (c *Context) CallContract(name, method string, params *easycodec.Codec) ([]byte, error) {
	if name == "" || method == "" {
		return nil, errors.New(errors.PhaseCall, errors.KindStatus).
			Method(bridge.MethodCallContract).
			Code(bridge.ErrorCode).
			Detail("contract name and method are required").
			Build()
	}
	if params == nil {
		params = easycodec.New()
	}

	body := easycodec.New()
	body.AddString(keyContractName, name)
	body.AddString(keyMethod, method)
	body.AddBytes(keyParam, params.Marshal())
	return c.caller.FetchBytes(bridge.MethodCallContractLen, bridge.MethodCallContract, body)
}

func stateBody(key, field string) *easycodec.Codec {
	body := easycodec.New()
	body.AddString(keyKey, key)
	body.AddString(keyField, field)
	return body
}
