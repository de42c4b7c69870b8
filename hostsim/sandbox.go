package hostsim

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-contract-sdk/arena"
	"github.com/wippyai/wasm-contract-sdk/bridge"
	"github.com/wippyai/wasm-contract-sdk/contract"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
	"github.com/wippyai/wasm-contract-sdk/errors"
)

// Sandbox runs contract code natively against a Host. The contract's arena
// lives in a simulated linear memory the Host writes results into.
//
// A Sandbox runs one invocation at a time.
type Sandbox struct {
	host   *Host
	mem    *arena.LinearMemory
	alloc  *arena.NextFitAllocator
	arena  *arena.Arena
	mu     sync.Mutex
	ctxPtr int32
}

// NewSandbox creates a Sandbox with its own Host. A nil cfg uses
// DefaultConfig.
func NewSandbox(cfg *Config, opts ...Option) (*Sandbox, error) {
	host, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	mem := arena.NewLinearMemory(host.cfg.MemoryPages)
	alloc := arena.NewNextFitAllocator(0, mem.Size())
	return &Sandbox{
		host:  host,
		mem:   mem,
		alloc: alloc,
		arena: arena.New(mem, alloc),
	}, nil
}

// Host returns the host serving the sandbox.
func (s *Sandbox) Host() *Host {
	return s.host
}

// Memory returns the sandbox linear memory.
func (s *Sandbox) Memory() *arena.LinearMemory {
	return s.mem
}

// Arena returns the contract-side exchange buffer.
func (s *Sandbox) Arena() *arena.Arena {
	return s.arena
}

// SysCall implements bridge.Boundary.
func (s *Sandbox) SysCall(header, body []byte) int32 {
	return s.host.Dispatch(s.mem, header, body)
}

// Invoke runs fn as one contract invocation with args as the caller's
// arguments. The chain parameters of the host configuration are added in
// front of them.
func (s *Sandbox) Invoke(args *easycodec.Codec, fn func(ctx *contract.Context)) (*Result, error) {
	if fn == nil {
		return nil, errors.InvalidInput(errors.PhaseCall, "contract function cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.host.Reset()
	s.ctxPtr++
	payload := s.host.cfg.Args(s.ctxPtr, args).Marshal()

	if _, err := s.arena.Resize(uint32(len(payload))); err != nil {
		return nil, err
	}
	if err := s.arena.Write(payload); err != nil {
		s.arena.Release()
		return nil, err
	}

	ctx, err := contract.Load(s.arena, s, bridge.WithLogger(s.host.log))
	if err != nil {
		return nil, err
	}

	s.host.log.Debug("invoke contract",
		zap.String("contract", s.host.cfg.Contract),
		zap.Int32("ctx_ptr", s.ctxPtr),
		zap.String("tx_id", ctx.TxID()))
	fn(ctx)
	s.arena.Release()
	return s.host.Result(), nil
}

// Close releases the host.
func (s *Sandbox) Close() error {
	s.arena.Release()
	return s.host.Close()
}
