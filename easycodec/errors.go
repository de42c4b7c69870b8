package easycodec

import "github.com/wippyai/wasm-contract-sdk/errors"

// Match targets for errors.Is.
var (
	// ErrNotFound matches lookups of a key that is not in the container.
	ErrNotFound = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindNotFound}
	// ErrTypeMismatch matches lookups of a key whose value has another type.
	ErrTypeMismatch = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindTypeMismatch}
	// ErrInvalidUTF8 matches string reads of malformed UTF-8.
	ErrInvalidUTF8 = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidUTF8}
	// ErrMalformed matches Decode failures caused by invalid framing.
	ErrMalformed = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidData}
	// ErrTruncated matches Decode failures where a declared length runs past the input.
	ErrTruncated = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOutOfBounds}
	// ErrOverflow matches MarshalBinary failures for containers the format cannot hold.
	ErrOverflow = &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindOverflow}
)
