// Package arena manages the exchange buffer shared by a contract module and
// its host.
//
// An Arena owns at most one region of linear memory at a time. Callers obtain
// it with GetOrCreate, pass its address across the boundary as an INT32
// parameter, let the other side fill it, copy the contents out and Release it.
// Requesting a different capacity releases the old region before the new one
// is allocated, so there is never more than one buffer in flight.
//
// The memory and allocator behind an Arena are supplied by the caller:
//
//   - inside a GOARCH=wasm module, GuestMemory and HeapAllocator address the
//     module's own heap
//   - on the host, WrapMemory and WrapAllocator adapt a wazero instance
//   - in tests, NewLinearMemory and NextFitAllocator simulate a linear memory
//
// An Arena serializes its own methods but is meant for one caller at a time;
// the lock protects against accidental nested use.
package arena
