// Package bridge implements the call protocol between a contract module and
// its host.
//
// Every call sends two containers through the Boundary: a header with the
// SYSTEM records ctx_ptr, version and method, and a body with the method's
// parameters. The host answers with a status code only. Results that do not
// fit in it are written by the host into the caller's arena at the address
// given by the body's last record, value_ptr.
//
// Variable-length results take two calls:
//
//	probe  GetStateLen(key, field, value_ptr -> 4 bytes)  host writes n
//	fetch  GetState(key, field, value_ptr -> n bytes)     host writes data
//
// A zero length ends the exchange after the probe. Failed calls are never
// retried and the arena is released on every path:
//
//	data, err := caller.FetchBytes(bridge.MethodGetStateLen, bridge.MethodGetState, body)
//	if code, ok := errors.StatusCode(err); ok {
//		...
//	}
package bridge
