//go:build wasm

package arena

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/wasm-contract-sdk/errors"
)

func TestGuestMemory_InvalidAccess(t *testing.T) {
	var mem GuestMemory

	tests := []struct {
		name string
		op   func() error
		kind errors.Kind
	}{
		{
			name: "read null",
			op: func() error {
				_, err := mem.Read(0, 4)
				return err
			},
			kind: errors.KindInvalidInput,
		},
		{
			name: "write null",
			op: func() error {
				return mem.Write(0, []byte{1})
			},
			kind: errors.KindInvalidInput,
		},
		{
			name: "read u32 null",
			op: func() error {
				_, err := mem.ReadU32(0)
				return err
			},
			kind: errors.KindInvalidInput,
		},
		{
			name: "read past address space",
			op: func() error {
				_, err := mem.Read(0xFFFFFFF0, 32)
				return err
			},
			kind: errors.KindOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseArena, Kind: tt.kind}) {
				t.Errorf("got %v, want [arena] %s", err, tt.kind)
			}
		})
	}
}

func TestGuestArena_RoundTrip(t *testing.T) {
	a := New(GuestMemory{}, NewHeapAllocator())
	defer a.Release()

	ptr, err := a.GetOrCreate(8)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if ptr == 0 {
		t.Fatal("GetOrCreate returned null address")
	}
	if err := a.Write([]byte("guestbuf")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := a.CopyOut(8)
	if err != nil {
		t.Fatalf("CopyOut failed: %v", err)
	}
	if string(got) != "guestbuf" {
		t.Errorf("CopyOut = %q, want %q", got, "guestbuf")
	}
}
