// Package errors provides structured error types for the contract SDK.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the codec key or boundary method involved, a detail message,
// the cause chain and, for boundary failures, the host status code.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
//		Key("amount").
//		Detail("value type is STRING, not INT32").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseDecode, "key", "amount")
//	err := errors.Status("GetStateLen", 5)
//
// Host status codes are opaque to the SDK and are surfaced verbatim:
//
//	if code, ok := errors.StatusCode(err); ok {
//		...
//	}
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
