package arena

import "testing"

func TestNextFitAllocator(t *testing.T) {
	tests := []struct {
		name  string
		sizes []uint32
		free  []int
		check func(t *testing.T, ptrs []uint32)
	}{
		{
			name:  "consecutive allocations do not overlap",
			sizes: []uint32{4, 13, 8},
			check: func(t *testing.T, ptrs []uint32) {
				if ptrs[1] < ptrs[0]+4 || ptrs[2] < ptrs[1]+13 {
					t.Errorf("overlapping regions: %v", ptrs)
				}
			},
		},
		{
			name:  "aligned",
			sizes: []uint32{3, 5, 7},
			check: func(t *testing.T, ptrs []uint32) {
				for _, p := range ptrs {
					if p%Align != 0 {
						t.Errorf("address %d not aligned", p)
					}
				}
			},
		},
		{
			name:  "freed region is not reused immediately",
			sizes: []uint32{4, 4},
			free:  []int{0},
			check: func(t *testing.T, ptrs []uint32) {
				if ptrs[0] == ptrs[1] {
					t.Errorf("address %d reused", ptrs[0])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNextFitAllocator(64, 4096)
			var ptrs []uint32
			for i, size := range tt.sizes {
				p, err := n.Alloc(size, Align)
				if err != nil {
					t.Fatalf("Alloc(%d) failed: %v", size, err)
				}
				ptrs = append(ptrs, p)
				for _, f := range tt.free {
					if f == i {
						n.Free(p, size, Align)
					}
				}
			}
			tt.check(t, ptrs)
		})
	}
}

func TestNextFitAllocator_WrapsAround(t *testing.T) {
	n := NewNextFitAllocator(0, 64)

	a, err := n.Alloc(24, Align)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	b, err := n.Alloc(24, Align)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if a == 0 || b == 0 {
		t.Fatal("allocator returned the null address")
	}

	n.Free(a, 24, Align)
	c, err := n.Alloc(16, Align)
	if err != nil {
		t.Fatalf("Alloc after wrap failed: %v", err)
	}
	if c != a {
		t.Errorf("expected wrap to first free region %d, got %d", a, c)
	}

	if _, err := n.Alloc(32, Align); err == nil {
		t.Error("expected exhaustion error")
	}
	if n.Live() != 2 {
		t.Errorf("Live = %d, want 2", n.Live())
	}
}

func TestLinearMemory_Bounds(t *testing.T) {
	m := NewLinearMemory(1)
	if m.Size() != PageSize {
		t.Fatalf("Size = %d, want %d", m.Size(), PageSize)
	}

	if err := m.WriteU32(PageSize-4, 0xdeadbeef); err != nil {
		t.Fatalf("WriteU32 at end failed: %v", err)
	}
	v, err := m.ReadU32(PageSize - 4)
	if err != nil || v != 0xdeadbeef {
		t.Errorf("ReadU32 = %#x, %v", v, err)
	}

	if _, err := m.Read(PageSize-2, 4); err == nil {
		t.Error("expected out of bounds read")
	}
	if err := m.Write(0xffffffff, []byte{1, 2}); err == nil {
		t.Error("expected out of bounds write with overflowing offset")
	}
}
