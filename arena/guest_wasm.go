//go:build wasm

package arena

import (
	"encoding/binary"
	"fmt"
	"sync"
	"unsafe"

	"github.com/wippyai/wasm-contract-sdk/errors"
)

// GuestMemory addresses the running module's own linear memory.
type GuestMemory struct{}

func (GuestMemory) Read(offset, length uint32) ([]byte, error) {
	if offset == 0 {
		return nil, errors.InvalidInput(errors.PhaseArena, fmt.Sprintf("memory access at null address, length=%d", length))
	}
	if uint64(offset)+uint64(length) > 1<<32 {
		return nil, errors.OutOfBounds(errors.PhaseArena, int(offset), int(length), 1<<32)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(offset))), length), nil
}

func (m GuestMemory) Write(offset uint32, data []byte) error {
	dst, err := m.Read(offset, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(dst, data)
	return nil
}

func (m GuestMemory) ReadU32(offset uint32) (uint32, error) {
	b, err := m.Read(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (m GuestMemory) WriteU32(offset, value uint32) error {
	b, err := m.Read(offset, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, value)
	return nil
}

// HeapAllocator hands out Go heap slices and keeps them reachable until freed,
// so their addresses stay valid while the host writes into them.
type HeapAllocator struct {
	pages map[uint32][]byte
	mu    sync.Mutex
}

// NewHeapAllocator returns an empty allocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{pages: make(map[uint32][]byte)}
}

func (h *HeapAllocator) Alloc(size, _ uint32) (uint32, error) {
	if size == 0 {
		size = 1
	}
	b := make([]byte, size)
	ptr := uint32(uintptr(unsafe.Pointer(&b[0])))

	h.mu.Lock()
	h.pages[ptr] = b
	h.mu.Unlock()
	return ptr, nil
}

func (h *HeapAllocator) Free(ptr, _, _ uint32) {
	h.mu.Lock()
	delete(h.pages, ptr)
	h.mu.Unlock()
}

var (
	guest     *Arena
	guestOnce sync.Once
)

// Guest returns the module-wide arena over the module's own heap.
func Guest() *Arena {
	guestOnce.Do(func() {
		guest = New(GuestMemory{}, NewHeapAllocator())
	})
	return guest
}
