//go:build !wasm

package arena

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	contractsdk "github.com/wippyai/wasm-contract-sdk"
)

// WrapMemory adapts a wazero memory to contractsdk.Memory.
func WrapMemory(mem api.Memory) contractsdk.Memory {
	if mem == nil {
		return nil
	}
	return &MemoryWrapper{Mem: mem}
}

// WrapAllocator adapts a module's exported allocate and deallocate functions
// to contractsdk.Allocator. allocate takes a size and returns an address;
// deallocate takes an address. deallocate may be nil.
func WrapAllocator(ctx context.Context, allocate, deallocate api.Function) contractsdk.Allocator {
	if allocate == nil {
		return nil
	}
	return &AllocatorWrapper{Ctx: ctx, Allocate: allocate, Deallocate: deallocate}
}

// MemoryWrapper adapts wazero api.Memory.
type MemoryWrapper struct {
	Mem api.Memory
}

func (m *MemoryWrapper) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

func (m *MemoryWrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *MemoryWrapper) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return v, nil
}

func (m *MemoryWrapper) WriteU32(offset, value uint32) error {
	if !m.Mem.WriteUint32Le(offset, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", offset)
	}
	return nil
}

// Size returns the current memory size in bytes.
func (m *MemoryWrapper) Size() uint32 {
	return m.Mem.Size()
}

// AllocatorWrapper calls a module's allocate/deallocate exports.
type AllocatorWrapper struct {
	Ctx        context.Context
	Allocate   api.Function
	Deallocate api.Function
}

// Alloc calls allocate(size). Alignment is up to the module.
func (a *AllocatorWrapper) Alloc(size, _ uint32) (uint32, error) {
	results, err := a.Allocate.Call(a.Ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("allocation failed: %w", err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("allocation returned no result")
	}
	return uint32(results[0]), nil
}

// Free calls deallocate(ptr).
func (a *AllocatorWrapper) Free(ptr, _, _ uint32) {
	if a.Deallocate == nil {
		return
	}
	_, _ = a.Deallocate.Call(a.Ctx, uint64(ptr))
}
