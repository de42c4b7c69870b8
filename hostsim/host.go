package hostsim

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	contractsdk "github.com/wippyai/wasm-contract-sdk"
	"github.com/wippyai/wasm-contract-sdk/bridge"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
	"github.com/wippyai/wasm-contract-sdk/errors"
)

// FetchFunc produces the variable-length result of a data fetch method.
type FetchFunc func(call *Call) ([]byte, error)

// IntFunc produces the 4-byte result of a method.
type IntFunc func(call *Call) (int32, error)

// ContractFunc serves calls made to another contract through CallContract.
type ContractFunc func(method string, params *easycodec.Codec) ([]byte, error)

// SQLBackend executes the statements of the SQL methods.
type SQLBackend interface {
	Query(sql string) ([]*easycodec.Codec, error)
	Update(sql string) (int32, error)
	DDL(sql string) (int32, error)
}

// Event is a contract event captured during an invocation.
type Event struct {
	Topic string
	Data  []string
}

// Result is what a contract reported during one invocation.
type Result struct {
	Success []byte
	Failure string
	Events  []Event
	Logs    []string
	Failed  bool
}

// Host serves boundary calls for contracts.
type Host struct {
	cfg       *Config
	log       *zap.Logger
	registry  *Registry
	store     *Store
	metrics   *Metrics
	promReg   *prometheus.Registry
	contracts *xsync.Map[string, ContractFunc]
	cursors   *xsync.Map[int32, *cursor]
	pending   *xsync.Map[string, []byte]
	result    Result
	nextID    atomic.Int32
	mu        sync.Mutex
	ownsStore bool
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		h.log = l
	}
}

// WithStore sets the world state store. The host does not close it.
func WithStore(s *Store) Option {
	return func(h *Host) {
		h.store = s
	}
}

// WithRegistry sets the Prometheus registry the host metrics are registered
// with.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(h *Host) {
		h.promReg = reg
	}
}

// New creates a Host with the built-in methods registered. A nil cfg uses
// DefaultConfig.
func New(cfg *Config, opts ...Option) (*Host, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &Host{
		cfg:       cfg,
		registry:  NewRegistry(),
		contracts: xsync.NewMap[string, ContractFunc](),
		cursors:   xsync.NewMap[int32, *cursor](),
		pending:   xsync.NewMap[string, []byte](),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = Logger()
	}
	if h.promReg == nil {
		h.promReg = prometheus.NewRegistry()
	}
	h.metrics = NewMetrics(h.promReg)

	if h.store == nil {
		store, err := OpenStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		h.store = store
		h.ownsStore = true
	}

	if err := h.registerBuiltins(); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

// Config returns the host configuration.
func (h *Host) Config() *Config {
	return h.cfg
}

// Store returns the world state.
func (h *Host) Store() *Store {
	return h.store
}

// Registry returns the Prometheus registry holding the host metrics.
func (h *Host) Registry() *prometheus.Registry {
	return h.promReg
}

// Methods returns the names of all registered methods.
func (h *Host) Methods() []string {
	return h.registry.Methods()
}

// Register adds a raw handler for method, replacing any existing one.
func (h *Host) Register(method string, handler Handler) error {
	if err := h.registry.Register(method, handler); err != nil {
		return errors.Registration(method, err)
	}
	return nil
}

// RegisterInt registers method as a call whose result is one int32 written
// to the value_ptr address.
func (h *Host) RegisterInt(method string, fn IntFunc) error {
	if fn == nil {
		return errors.Registration(method, errors.InvalidInput(errors.PhaseHost, "function cannot be nil"))
	}
	return h.Register(method, func(call *Call) int32 {
		v, err := fn(call)
		if err != nil {
			return h.fail(call, err)
		}
		if err := call.WriteInt32(v); err != nil {
			return h.fail(call, err)
		}
		return bridge.SuccessCode
	})
}

// RegisterFetch registers method and its length probe. The probe runs fn and
// keeps the payload for the data fetch that follows, so fn runs once per
// probe and fetch pair.
func (h *Host) RegisterFetch(method string, fn FetchFunc) error {
	if fn == nil {
		return errors.Registration(method, errors.InvalidInput(errors.PhaseHost, "function cannot be nil"))
	}

	err := h.Register(bridge.LenMethod(method), func(call *Call) int32 {
		payload, err := fn(call)
		if err != nil {
			h.pending.Delete(method)
			return h.fail(call, err)
		}
		if len(payload) == 0 {
			h.pending.Delete(method)
		} else {
			h.pending.Store(method, payload)
		}
		if err := call.WriteInt32(int32(len(payload))); err != nil {
			return h.fail(call, err)
		}
		return bridge.SuccessCode
	})
	if err != nil {
		return err
	}

	return h.Register(method, func(call *Call) int32 {
		payload, ok := h.pending.LoadAndDelete(method)
		if !ok {
			var err error
			if payload, err = fn(call); err != nil {
				return h.fail(call, err)
			}
		}
		if err := call.WriteBytes(payload); err != nil {
			return h.fail(call, err)
		}
		h.metrics.RecordResultBytes(method, len(payload))
		return bridge.SuccessCode
	})
}

// RegisterContract makes fn reachable by CallContract under name.
func (h *Host) RegisterContract(name string, fn ContractFunc) error {
	if name == "" || fn == nil {
		return errors.Registration(bridge.MethodCallContract,
			errors.InvalidInput(errors.PhaseHost, "contract name and function are required"))
	}
	h.contracts.Store(name, fn)
	return nil
}

// RegisterSQL serves the SQL methods with b. Query results are exposed to the
// contract as cursors.
func (h *Host) RegisterSQL(b SQLBackend) error {
	if b == nil {
		return errors.Registration(bridge.MethodExecuteQuery, errors.InvalidInput(errors.PhaseHost, "backend cannot be nil"))
	}

	err := h.RegisterInt(bridge.MethodExecuteQuery, func(call *Call) (int32, error) {
		rows, err := b.Query(call.String(keySQL))
		if err != nil {
			return 0, err
		}
		return h.OpenCursor(marshalRows(rows)), nil
	})
	if err != nil {
		return err
	}

	err = h.RegisterFetch(bridge.MethodExecuteQueryOne, func(call *Call) ([]byte, error) {
		rows, err := b.Query(call.String(keySQL))
		if err != nil || len(rows) == 0 {
			return nil, err
		}
		return rows[0].Marshal(), nil
	})
	if err != nil {
		return err
	}

	err = h.RegisterInt(bridge.MethodExecuteUpdate, func(call *Call) (int32, error) {
		return b.Update(call.String(keySQL))
	})
	if err != nil {
		return err
	}

	return h.RegisterInt(bridge.MethodExecuteDDL, func(call *Call) (int32, error) {
		return b.DDL(call.String(keySQL))
	})
}

// Dispatch serves one boundary call. mem is the caller's linear memory, used
// for results written at value_ptr.
func (h *Host) Dispatch(mem contractsdk.Memory, header, body []byte) int32 {
	start := time.Now()

	hdr, err := easycodec.Decode(header)
	if err != nil {
		h.log.Warn("malformed call header", zap.Error(err))
		return bridge.ErrorCode
	}
	method, err := hdr.GetString(bridge.HeaderMethod)
	if err != nil {
		h.log.Warn("call header has no method", zap.Error(err))
		return bridge.ErrorCode
	}
	if v, _ := hdr.GetString(bridge.HeaderVersion); v != bridge.ContractVersion {
		h.log.Warn("unexpected contract version",
			zap.String("method", method),
			zap.String("version", v))
	}
	ctxPtr, _ := hdr.GetInt32(bridge.HeaderContextPtr)

	call := &Call{
		mem:    mem,
		Header: hdr,
		Body:   easycodec.Unmarshal(body),
		Method: method,
		Raw:    body,
		CtxPtr: ctxPtr,
	}

	code := h.serve(call)
	elapsed := time.Since(start)
	h.metrics.RecordCall(method, code, elapsed.Seconds())
	h.log.Debug("host call",
		zap.String("method", method),
		zap.Int32("ctx_ptr", ctxPtr),
		zap.Int32("code", code),
		zap.Duration("elapsed", elapsed))
	return code
}

func (h *Host) serve(call *Call) int32 {
	if code, ok := h.cfg.Failures[call.Method]; ok {
		h.log.Info("injected failure",
			zap.String("method", call.Method),
			zap.Int32("code", code))
		return code
	}

	handler, ok := h.registry.Lookup(call.Method)
	if !ok {
		h.log.Warn("unknown host method", zap.String("method", call.Method))
		return bridge.ErrorCode
	}
	return handler(call)
}

// fail maps a handler error to a status code. Errors carrying a status code
// return it unchanged.
func (h *Host) fail(call *Call, err error) int32 {
	code, ok := errors.StatusCode(err)
	if !ok || code == bridge.SuccessCode {
		code = bridge.ErrorCode
	}
	h.log.Warn("host method failed",
		zap.String("method", call.Method),
		zap.Int32("code", code),
		zap.Error(err))
	return code
}

// Result returns a copy of what the contract reported since the last Reset.
func (h *Host) Result() *Result {
	h.mu.Lock()
	defer h.mu.Unlock()

	r := h.result
	r.Success = append([]byte(nil), h.result.Success...)
	r.Events = append([]Event(nil), h.result.Events...)
	r.Logs = append([]string(nil), h.result.Logs...)
	return &r
}

// Reset clears the reported result and any fetch payload left by an
// unfinished probe.
func (h *Host) Reset() {
	h.mu.Lock()
	h.result = Result{}
	h.mu.Unlock()
	h.pending.Clear()
}

// Close releases open cursors and the store, if the host opened it.
func (h *Host) Close() error {
	h.cursors.Clear()
	if h.ownsStore && h.store != nil {
		if err := h.store.Close(); err != nil {
			return errors.Wrap(errors.PhaseHost, errors.KindInvalidData, err, "close state store")
		}
	}
	return nil
}
