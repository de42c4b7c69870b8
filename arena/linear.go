package arena

import (
	"encoding/binary"
	"sync"

	"github.com/wippyai/wasm-contract-sdk/errors"
)

// PageSize is the size of one WebAssembly memory page.
const PageSize = 65536

// LinearMemory is a byte slice addressed like a module's linear memory.
// It lets host code and guest code share buffers in a single native process.
type LinearMemory struct {
	mu   sync.RWMutex
	data []byte
}

// NewLinearMemory returns a zeroed memory of the given number of pages.
func NewLinearMemory(pages uint32) *LinearMemory {
	return &LinearMemory{data: make([]byte, int(pages)*PageSize)}
}

func (m *LinearMemory) Read(offset, length uint32) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.inBounds(offset, length) {
		return nil, errors.OutOfBounds(errors.PhaseArena, int(offset), int(length), len(m.data))
	}
	return m.data[offset : offset+length], nil
}

func (m *LinearMemory) Write(offset uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inBounds(offset, uint32(len(data))) {
		return errors.OutOfBounds(errors.PhaseArena, int(offset), len(data), len(m.data))
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *LinearMemory) ReadU32(offset uint32) (uint32, error) {
	b, err := m.Read(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (m *LinearMemory) WriteU32(offset, value uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], value)
	return m.Write(offset, b[:])
}

// Size returns the memory size in bytes.
func (m *LinearMemory) Size() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint32(len(m.data))
}

func (m *LinearMemory) inBounds(offset, length uint32) bool {
	return uint64(offset)+uint64(length) <= uint64(len(m.data))
}

// NextFitAllocator hands out regions of [base, limit) starting from where the
// previous allocation ended, wrapping around when it reaches the limit.
// Consecutive allocations therefore land at different addresses even when the
// earlier region has been freed.
type NextFitAllocator struct {
	live  map[uint32]uint32
	mu    sync.Mutex
	base  uint32
	limit uint32
	next  uint32
}

// NewNextFitAllocator returns an allocator over [base, limit). Address 0 is
// never handed out.
func NewNextFitAllocator(base, limit uint32) *NextFitAllocator {
	if base == 0 {
		base = Align
	}
	return &NextFitAllocator{
		live:  make(map[uint32]uint32),
		base:  base,
		limit: limit,
		next:  base,
	}
}

// Alloc reserves size bytes aligned to align.
func (n *NextFitAllocator) Alloc(size, align uint32) (uint32, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if size == 0 {
		size = 1
	}
	if align == 0 {
		align = 1
	}

	cursor := n.next
	for pass := 0; pass < 2; pass++ {
		p := alignUp(uint64(cursor), align)
		for p+uint64(size) <= uint64(n.limit) {
			end, clash := n.overlap(p, size)
			if !clash {
				ptr := uint32(p)
				n.live[ptr] = size
				n.next = ptr + size
				return ptr, nil
			}
			p = alignUp(end, align)
		}
		cursor = n.base
	}
	return 0, errors.New(errors.PhaseArena, errors.KindAllocation).
		Value(size).
		Detail("no free region of %d bytes in [%d, %d)", size, n.base, n.limit).
		Build()
}

// Free releases the region starting at ptr. Unknown addresses are ignored.
func (n *NextFitAllocator) Free(ptr, _, _ uint32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.live, ptr)
}

// Live returns the number of regions currently allocated.
func (n *NextFitAllocator) Live() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.live)
}

// overlap reports whether [p, p+size) intersects a live region and, if so,
// the end of the furthest such region.
func (n *NextFitAllocator) overlap(p uint64, size uint32) (uint64, bool) {
	var end uint64
	clash := false
	for start, sz := range n.live {
		s, e := uint64(start), uint64(start)+uint64(sz)
		if s < p+uint64(size) && p < e {
			clash = true
			if e > end {
				end = e
			}
		}
	}
	return end, clash
}

func alignUp(v uint64, align uint32) uint64 {
	a := uint64(align)
	return (v + a - 1) / a * a
}
