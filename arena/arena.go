package arena

import (
	"encoding/binary"
	"sync"

	contractsdk "github.com/wippyai/wasm-contract-sdk"
	"github.com/wippyai/wasm-contract-sdk/errors"
)

// Align is the alignment requested for every buffer.
const Align = 8

// Arena is a reusable exchange buffer over a linear memory.
type Arena struct {
	mem   contractsdk.Memory
	alloc contractsdk.Allocator
	mu    sync.Mutex
	ptr   uint32
	size  uint32
}

// New returns an Arena with no backing storage.
func New(mem contractsdk.Memory, alloc contractsdk.Allocator) *Arena {
	return &Arena{mem: mem, alloc: alloc}
}

// GetOrCreate returns the address of a buffer of exactly capacity bytes.
// A buffer of the same capacity is reused as is; any other buffer is released
// before the replacement is allocated.
func (a *Arena) GetOrCreate(capacity uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.size == capacity && (a.ptr != 0 || capacity == 0) {
		return a.ptr, nil
	}
	return a.resize(capacity)
}

// Resize replaces the buffer with a fresh one of the given capacity, even when
// the capacity is unchanged. A capacity of zero leaves the arena empty.
func (a *Arena) Resize(capacity uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resize(capacity)
}

func (a *Arena) resize(capacity uint32) (uint32, error) {
	if a.mem == nil || a.alloc == nil {
		return 0, errors.NotInitialized(errors.PhaseArena, "arena memory")
	}
	a.release()
	if capacity == 0 {
		return 0, nil
	}

	ptr, err := a.alloc.Alloc(capacity, Align)
	if err != nil {
		return 0, errors.AllocationFailed(errors.PhaseArena, capacity, err)
	}
	if ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseArena, capacity, nil)
	}
	a.ptr, a.size = ptr, capacity
	return ptr, nil
}

// Release frees the backing storage. The arena reports a zero pointer and
// capacity until the next allocation.
func (a *Arena) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.release()
}

func (a *Arena) release() {
	if a.ptr != 0 {
		a.alloc.Free(a.ptr, a.size, Align)
	}
	a.ptr, a.size = 0, 0
}

// Pointer returns the address of the current buffer, or 0.
func (a *Arena) Pointer() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ptr
}

// Capacity returns the size of the current buffer.
func (a *Arena) Capacity() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.size
}

// Memory returns the linear memory the arena allocates from.
func (a *Arena) Memory() contractsdk.Memory {
	return a.mem
}

// CopyOut returns an owned copy of the first n bytes of the buffer.
func (a *Arena) CopyOut(n uint32) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.check(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	view, err := a.mem.Read(a.ptr, n)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseArena, errors.KindOutOfBounds, err, "read arena buffer")
	}
	out := make([]byte, n)
	copy(out, view)
	return out, nil
}

// Int32 reads a little-endian int32 from the start of the buffer.
func (a *Arena) Int32() (int32, error) {
	b, err := a.CopyOut(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// Write copies data to the start of the buffer.
func (a *Arena) Write(data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.check(uint32(len(data))); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := a.mem.Write(a.ptr, data); err != nil {
		return errors.Wrap(errors.PhaseArena, errors.KindOutOfBounds, err, "write arena buffer")
	}
	return nil
}

func (a *Arena) check(n uint32) error {
	if n > a.size {
		return errors.OutOfBounds(errors.PhaseArena, int(a.ptr), int(n), int(a.size))
	}
	return nil
}
