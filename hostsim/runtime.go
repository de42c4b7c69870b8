package hostsim

import (
	"bytes"
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	contractsdk "github.com/wippyai/wasm-contract-sdk"
	"github.com/wippyai/wasm-contract-sdk/arena"
	"github.com/wippyai/wasm-contract-sdk/bridge"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
	"github.com/wippyai/wasm-contract-sdk/errors"
)

// Import and export names of a contract module.
const (
	importModule      = "env"
	importSysCall     = "sys_call"
	importLogMessage  = "log_message"
	exportAllocate    = "allocate"
	exportDeallocate  = "deallocate"
	exportRuntimeType = "runtime_type"
	exportInitialize  = "_initialize"
)

// Runtime executes compiled contract modules with wazero, serving their
// env imports from a Host.
type Runtime struct {
	rt      wazero.Runtime
	host    *Host
	modules []*Module
	mu      sync.Mutex
	ctxPtr  int32
}

// NewRuntime creates a wazero runtime bound to host.
func NewRuntime(ctx context.Context, host *Host) (*Runtime, error) {
	if host == nil {
		return nil, errors.NotInitialized(errors.PhaseLoad, "host")
	}

	r := &Runtime{
		rt:   wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true)),
		host: host,
	}

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r.rt); err != nil {
		r.rt.Close(ctx)
		return nil, errors.Instantiation(err)
	}

	i32 := api.ValueTypeI32
	_, err := r.rt.NewHostModuleBuilder(importModule).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(r.sysCall), []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32}).
		Export(importSysCall).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(r.logMessage), []api.ValueType{i32, i32}, nil).
		Export(importLogMessage).
		Instantiate(ctx)
	if err != nil {
		r.rt.Close(ctx)
		return nil, errors.Registration(importModule, err)
	}
	return r, nil
}

// Host returns the host serving module calls.
func (r *Runtime) Host() *Host {
	return r.host
}

func (r *Runtime) sysCall(_ context.Context, mod api.Module, stack []uint64) {
	mem := mod.Memory()
	header, okHeader := mem.Read(api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	body, okBody := mem.Read(api.DecodeU32(stack[2]), api.DecodeU32(stack[3]))
	if !okHeader || !okBody {
		r.host.log.Warn("sys_call arguments out of bounds",
			zap.Uint32("header_ptr", api.DecodeU32(stack[0])),
			zap.Uint32("body_ptr", api.DecodeU32(stack[2])))
		stack[0] = api.EncodeI32(bridge.ErrorCode)
		return
	}

	code := r.host.Dispatch(arena.WrapMemory(mem), bytes.Clone(header), bytes.Clone(body))
	stack[0] = api.EncodeI32(code)
}

func (r *Runtime) logMessage(_ context.Context, mod api.Module, stack []uint64) {
	msg, ok := mod.Memory().Read(api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
	if !ok {
		r.host.log.Warn("log_message argument out of bounds")
		return
	}
	r.host.Log(string(msg))
}

// Module is an instantiated contract.
type Module struct {
	runtime *Runtime
	mod     api.Module
	mem     contractsdk.Memory
	alloc   contractsdk.Allocator
}

// Load compiles and instantiates a contract module. Reactor modules are
// initialized through their _initialize export.
func (r *Runtime) Load(ctx context.Context, wasm []byte) (*Module, error) {
	compiled, err := r.rt.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}

	exports := compiled.ExportedFunctions()
	if _, ok := exports[exportAllocate]; !ok {
		compiled.Close(ctx)
		return nil, errors.Load("module does not export "+exportAllocate, nil)
	}

	cfg := wazero.NewModuleConfig().WithName("").WithStartFunctions()
	if _, ok := exports[exportInitialize]; ok {
		cfg = cfg.WithStartFunctions(exportInitialize)
	}

	mod, err := r.rt.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		compiled.Close(ctx)
		return nil, errors.Instantiation(err)
	}

	m := &Module{
		runtime: r,
		mod:     mod,
		mem:     arena.WrapMemory(mod.Memory()),
		alloc:   arena.WrapAllocator(ctx, mod.ExportedFunction(exportAllocate), mod.ExportedFunction(exportDeallocate)),
	}

	r.mu.Lock()
	r.modules = append(r.modules, m)
	r.mu.Unlock()
	return m, nil
}

// Exports returns the names of the module's exported functions.
func (m *Module) Exports() []string {
	defs := m.mod.ExportedFunctionDefinitions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	return names
}

// RuntimeType returns the value of the runtime_type export.
func (m *Module) RuntimeType(ctx context.Context) (int32, error) {
	fn := m.mod.ExportedFunction(exportRuntimeType)
	if fn == nil {
		return 0, errors.NotFound(errors.PhaseLoad, "export", exportRuntimeType)
	}
	res, err := fn.Call(ctx)
	if err != nil {
		return 0, errors.New(errors.PhaseCall, errors.KindInvalidData).
			Method(exportRuntimeType).
			Cause(err).
			Detail("call export").
			Build()
	}
	return api.DecodeI32(res[0]), nil
}

// Invoke calls the exported method with args as the caller's arguments and
// returns what the contract reported.
func (m *Module) Invoke(ctx context.Context, method string, args *easycodec.Codec) (*Result, error) {
	fn := m.mod.ExportedFunction(method)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseCall, "export", method)
	}

	r := m.runtime
	r.mu.Lock()
	defer r.mu.Unlock()

	r.host.Reset()
	r.ctxPtr++
	payload := r.host.cfg.Args(r.ctxPtr, args).Marshal()

	ptr, err := m.alloc.Alloc(uint32(len(payload)), arena.Align)
	if err != nil {
		return nil, errors.AllocationFailed(errors.PhaseCall, uint32(len(payload)), err)
	}
	if ptr == 0 {
		return nil, errors.AllocationFailed(errors.PhaseCall, uint32(len(payload)), nil)
	}
	if err := m.mem.Write(ptr, payload); err != nil {
		return nil, errors.Wrap(errors.PhaseCall, errors.KindOutOfBounds, err, "write arguments")
	}

	r.host.log.Debug("invoke module",
		zap.String("contract", r.host.cfg.Contract),
		zap.String("method", method),
		zap.Int32("ctx_ptr", r.ctxPtr))
	if _, err := fn.Call(ctx); err != nil {
		return nil, errors.New(errors.PhaseCall, errors.KindInvalidData).
			Method(method).
			Cause(err).
			Detail("contract call trapped").
			Build()
	}
	return r.host.Result(), nil
}

// Close closes the module instance.
func (m *Module) Close(ctx context.Context) error {
	return m.mod.Close(ctx)
}

// Close closes every loaded module and the wazero runtime. The host is left
// open.
func (r *Runtime) Close(ctx context.Context) error {
	r.mu.Lock()
	modules := r.modules
	r.modules = nil
	r.mu.Unlock()

	var result *multierror.Error
	for _, m := range modules {
		if err := m.Close(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := r.rt.Close(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
