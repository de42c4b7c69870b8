package contract

import (
	"testing"

	"github.com/wippyai/wasm-contract-sdk/bridge"
)

func TestPaillier(t *testing.T) {
	tests := []struct {
		name string
		op   string
		call func(p *Paillier) ([]byte, error)
		two  string
	}{
		{"add ciphertext", PaillierAddCiphertext, func(p *Paillier) ([]byte, error) { return p.AddCiphertext([]byte("pk"), []byte("c1"), []byte("c2")) }, "c2"},
		{"add plaintext", PaillierAddPlaintext, func(p *Paillier) ([]byte, error) { return p.AddPlaintext([]byte("pk"), []byte("c1"), "5") }, "5"},
		{"sub ciphertext", PaillierSubCiphertext, func(p *Paillier) ([]byte, error) { return p.SubCiphertext([]byte("pk"), []byte("c1"), []byte("c2")) }, "c2"},
		{"sub plaintext", PaillierSubPlaintext, func(p *Paillier) ([]byte, error) { return p.SubPlaintext([]byte("pk"), []byte("c1"), "5") }, "5"},
		{"num mul", PaillierNumMul, func(p *Paillier) ([]byte, error) { return p.NumMul([]byte("pk"), []byte("c1"), "3") }, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, host, _ := loadTestContext(t, testArgs())
			host.answer(bridge.MethodGetPaillierOperationResult, []byte("result"))

			got, err := tt.call(ctx.Paillier())
			if err != nil {
				t.Fatalf("operation failed: %v", err)
			}
			if string(got) != "result" {
				t.Errorf("result = %q", got)
			}
			body := host.last().body
			if op, _ := body.GetString("opType"); op != tt.op {
				t.Errorf("opType = %q, want %q", op, tt.op)
			}
			if pk, _ := body.GetBytes("pubKey"); string(pk) != "pk" {
				t.Errorf("pubKey = %q", pk)
			}
			if two, _ := body.GetBytes("operandTwo"); string(two) != tt.two {
				t.Errorf("operandTwo = %q, want %q", two, tt.two)
			}
			if host.calls[0].method != bridge.MethodGetPaillierOperationResultLen {
				t.Errorf("probe method = %s", host.calls[0].method)
			}
		})
	}
}

func TestBulletproofs(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		call func(b *Bulletproofs) ([]byte, error)
	}{
		{"add num", PedersenAddNum, func(b *Bulletproofs) ([]byte, error) { return b.PedersenAddNum([]byte("c"), "1") }},
		{"add commitment", PedersenAddCommitment, func(b *Bulletproofs) ([]byte, error) { return b.PedersenAddCommitment([]byte("c"), []byte("d")) }},
		{"sub num", PedersenSubNum, func(b *Bulletproofs) ([]byte, error) { return b.PedersenSubNum([]byte("c"), "1") }},
		{"sub commitment", PedersenSubCommitment, func(b *Bulletproofs) ([]byte, error) { return b.PedersenSubCommitment([]byte("c"), []byte("d")) }},
		{"mul num", PedersenMulNum, func(b *Bulletproofs) ([]byte, error) { return b.PedersenMulNum([]byte("c"), "2") }},
		{"verify", BulletproofsVerify, func(b *Bulletproofs) ([]byte, error) { return b.Verify([]byte("proof"), []byte("c")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, host, _ := loadTestContext(t, testArgs())
			host.answer(bridge.MethodGetBulletproofsResult, []byte{1})

			got, err := tt.call(ctx.Bulletproofs())
			if err != nil {
				t.Fatalf("operation failed: %v", err)
			}
			if len(got) != 1 || got[0] != 1 {
				t.Errorf("result = %v", got)
			}
			if fn, _ := host.last().body.GetString("bulletproofsFuncName"); fn != tt.fn {
				t.Errorf("bulletproofsFuncName = %q, want %q", fn, tt.fn)
			}
		})
	}

	t.Run("host failure", func(t *testing.T) {
		ctx, host, alloc := loadTestContext(t, testArgs())
		host.codes[bridge.MethodGetBulletproofsResultLen] = 4
		if _, err := ctx.Bulletproofs().Verify(nil, nil); err == nil {
			t.Error("expected error")
		}
		if alloc.Live() != 0 {
			t.Errorf("arena leaked %d regions", alloc.Live())
		}
	})
}
