package hostsim

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-contract-sdk/bridge"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
	"github.com/wippyai/wasm-contract-sdk/errors"
)

// Body keys read by the built-in handlers.
const (
	keyKey          = "key"
	keyField        = "field"
	keyValue        = "value"
	keyTopic        = "topic"
	keyData         = "data"
	keyContractName = "contract_name"
	keyMethod       = "method"
	keyParam        = "param"
	keyStartKey     = "start_key"
	keyStartField   = "start_field"
	keyLimitKey     = "limit_key"
	keyLimitField   = "limit_field"
	keyRSIndex      = "rs_index"
	keySQL          = "sql"
)

// cursor is a host-side result set addressed by index.
type cursor struct {
	rows [][]byte
	pos  int
	mu   sync.Mutex
}

func (c *cursor) hasNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos < len(c.rows)
}

func (c *cursor) next() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pos >= len(c.rows) {
		return nil, false
	}
	row := c.rows[c.pos]
	c.pos++
	return row, true
}

// OpenCursor stores rows as a new result set and returns its index.
func (h *Host) OpenCursor(rows [][]byte) int32 {
	id := h.nextID.Add(1)
	h.cursors.Store(id, &cursor{rows: rows})
	return id
}

func (h *Host) cursor(call *Call) (int32, *cursor, error) {
	id, err := call.Int32(keyRSIndex)
	if err != nil {
		return 0, nil, err
	}
	c, ok := h.cursors.Load(id)
	if !ok {
		return id, nil, errors.New(errors.PhaseHost, errors.KindNotFound).
			Method(call.Method).
			Key(keyRSIndex).
			Value(id).
			Detail("no open result set %d", id).
			Build()
	}
	return id, c, nil
}

func marshalRows(rows []*easycodec.Codec) [][]byte {
	out := make([][]byte, len(rows))
	for i, r := range rows {
		out[i] = r.Marshal()
	}
	return out
}

// kvRows renders state entries as rows of key, field and value.
func kvRows(entries []Entry) [][]byte {
	rows := make([][]byte, len(entries))
	for i, e := range entries {
		row := easycodec.New()
		row.AddString(keyKey, e.Key)
		row.AddString(keyField, e.Field)
		row.AddBytes(keyValue, e.Value)
		rows[i] = row.Marshal()
	}
	return rows
}

func (h *Host) registerBuiltins() error {
	raw := map[string]Handler{
		bridge.MethodLogMessage:    h.logMessage,
		bridge.MethodSuccessResult: h.successResult,
		bridge.MethodErrorResult:   h.errorResult,
		bridge.MethodEmitEvent:     h.emitEvent,
		bridge.MethodPutState:      h.putState,
		bridge.MethodDeleteState:   h.deleteState,
	}
	for method, handler := range raw {
		if err := h.Register(method, handler); err != nil {
			return err
		}
	}

	fetch := map[string]FetchFunc{
		bridge.MethodGetState:     h.getState,
		bridge.MethodCallContract: h.callContract,
	}
	for method, fn := range fetch {
		if err := h.RegisterFetch(method, fn); err != nil {
			return err
		}
	}

	ints := map[string]IntFunc{
		bridge.MethodKvIterator:    h.kvIterator,
		bridge.MethodKvPreIterator: h.kvPrefixIterator,
	}
	for method, fn := range ints {
		if err := h.RegisterInt(method, fn); err != nil {
			return err
		}
	}

	if err := h.registerCursor(bridge.MethodKvIteratorHasNext, bridge.MethodKvIteratorNext, bridge.MethodKvIteratorClose); err != nil {
		return err
	}
	return h.registerCursor(bridge.MethodRSHasNext, bridge.MethodRSNext, bridge.MethodRSClose)
}

func (h *Host) registerCursor(hasNext, next, closeMethod string) error {
	err := h.RegisterInt(hasNext, func(call *Call) (int32, error) {
		_, c, err := h.cursor(call)
		if err != nil {
			return 0, err
		}
		if c.hasNext() {
			return 1, nil
		}
		return 0, nil
	})
	if err != nil {
		return err
	}

	err = h.RegisterFetch(next, func(call *Call) ([]byte, error) {
		id, c, err := h.cursor(call)
		if err != nil {
			return nil, err
		}
		row, ok := c.next()
		if !ok {
			return nil, errors.New(errors.PhaseHost, errors.KindOutOfBounds).
				Method(call.Method).
				Value(id).
				Detail("result set %d is exhausted", id).
				Build()
		}
		return row, nil
	})
	if err != nil {
		return err
	}

	return h.RegisterInt(closeMethod, func(call *Call) (int32, error) {
		id, _, err := h.cursor(call)
		if err != nil {
			return 0, err
		}
		h.cursors.Delete(id)
		return 0, nil
	})
}

func (h *Host) logMessage(call *Call) int32 {
	h.Log(string(call.Raw))
	return bridge.SuccessCode
}

// Log records msg as a contract log line.
func (h *Host) Log(msg string) {
	h.log.Info("contract log",
		zap.String("contract", h.cfg.Contract),
		zap.String("message", msg))

	h.mu.Lock()
	h.result.Logs = append(h.result.Logs, msg)
	h.mu.Unlock()
}

func (h *Host) successResult(call *Call) int32 {
	h.mu.Lock()
	h.result.Success = append([]byte(nil), call.Raw...)
	h.mu.Unlock()
	return bridge.SuccessCode
}

func (h *Host) errorResult(call *Call) int32 {
	h.mu.Lock()
	h.result.Failed = true
	h.result.Failure = string(call.Raw)
	h.mu.Unlock()
	return bridge.SuccessCode
}

func (h *Host) emitEvent(call *Call) int32 {
	ev := Event{Topic: call.String(keyTopic)}
	for _, r := range call.Body.Records() {
		if r.Key != keyData {
			continue
		}
		if s, ok := r.Value.(easycodec.String); ok {
			ev.Data = append(ev.Data, string(s))
		}
	}

	h.log.Info("contract event",
		zap.String("contract", h.cfg.Contract),
		zap.String("topic", ev.Topic),
		zap.Strings("data", ev.Data))

	h.mu.Lock()
	h.result.Events = append(h.result.Events, ev)
	h.mu.Unlock()
	return bridge.SuccessCode
}

func (h *Host) getState(call *Call) ([]byte, error) {
	return h.store.Get(call.String(keyKey), call.String(keyField))
}

func (h *Host) putState(call *Call) int32 {
	if err := h.store.Put(call.String(keyKey), call.String(keyField), call.Bytes(keyValue)); err != nil {
		return h.fail(call, err)
	}
	return bridge.SuccessCode
}

func (h *Host) deleteState(call *Call) int32 {
	if err := h.store.Delete(call.String(keyKey), call.String(keyField)); err != nil {
		return h.fail(call, err)
	}
	return bridge.SuccessCode
}

func (h *Host) callContract(call *Call) ([]byte, error) {
	name := call.String(keyContractName)
	fn, ok := h.contracts.Load(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseHost, "contract", name)
	}
	return fn(call.String(keyMethod), easycodec.Unmarshal(call.Bytes(keyParam)))
}

func (h *Host) kvIterator(call *Call) (int32, error) {
	entries, err := h.store.Range(
		call.String(keyStartKey), call.String(keyStartField),
		call.String(keyLimitKey), call.String(keyLimitField))
	if err != nil {
		return 0, err
	}
	return h.OpenCursor(kvRows(entries)), nil
}

func (h *Host) kvPrefixIterator(call *Call) (int32, error) {
	entries, err := h.store.Prefix(call.String(keyStartKey), call.String(keyStartField))
	if err != nil {
		return 0, err
	}
	return h.OpenCursor(kvRows(entries)), nil
}
