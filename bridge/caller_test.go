package bridge

import (
	"encoding/binary"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/wasm-contract-sdk/arena"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
	sdkerrors "github.com/wippyai/wasm-contract-sdk/errors"
)

type call struct {
	header *easycodec.Codec
	body   *easycodec.Codec
	method string
}

// fakeHost answers calls by method name and writes results into mem.
type fakeHost struct {
	mem     *arena.LinearMemory
	results map[string][]byte
	codes   map[string]int32
	lengths map[string]int32
	calls   []call
}

func newFakeHost(mem *arena.LinearMemory) *fakeHost {
	return &fakeHost{
		mem:     mem,
		results: make(map[string][]byte),
		codes:   make(map[string]int32),
		lengths: make(map[string]int32),
	}
}

func (h *fakeHost) SysCall(header, body []byte) int32 {
	hdr := easycodec.Unmarshal(header)
	method, _ := hdr.GetString(HeaderMethod)
	params := easycodec.Unmarshal(body)
	h.calls = append(h.calls, call{header: hdr, body: params, method: method})

	if code, ok := h.codes[method]; ok {
		return code
	}
	ptr, err := params.GetInt32(ValuePtrKey)
	if err != nil {
		return SuccessCode
	}
	if n, ok := h.lengths[method]; ok {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(n))
		h.mem.Write(uint32(ptr), b[:])
		return SuccessCode
	}
	if data, ok := h.results[method]; ok {
		h.mem.Write(uint32(ptr), data)
	}
	return SuccessCode
}

func (h *fakeHost) methods() []string {
	var out []string
	for _, c := range h.calls {
		out = append(out, c.method)
	}
	return out
}

func newTestCaller(opts ...Option) (*Caller, *fakeHost, *arena.NextFitAllocator) {
	mem := arena.NewLinearMemory(1)
	alloc := arena.NewNextFitAllocator(1024, arena.PageSize)
	host := newFakeHost(mem)
	return NewCaller(host, arena.New(mem, alloc), opts...), host, alloc
}

func TestCaller_Header(t *testing.T) {
	c, _, _ := newTestCaller(WithContextPtr(77))
	h := c.Header("PutState")

	want := []easycodec.Record{
		{KeyType: easycodec.KeyTypeSystem, Key: HeaderContextPtr, Value: easycodec.Int32(77)},
		{KeyType: easycodec.KeyTypeSystem, Key: HeaderVersion, Value: easycodec.String(ContractVersion)},
		{KeyType: easycodec.KeyTypeSystem, Key: HeaderMethod, Value: easycodec.String("PutState")},
	}
	got := h.Records()
	if len(got) != len(want) {
		t.Fatalf("header has %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCaller_Invoke(t *testing.T) {
	c, host, _ := newTestCaller(WithContextPtr(5))

	body := easycodec.New()
	body.AddString("key", "k")
	body.AddBytes("value", []byte("v"))
	if err := c.Invoke(MethodPutState, body); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	if len(host.calls) != 1 {
		t.Fatalf("calls = %v", host.methods())
	}
	got := host.calls[0]
	if got.method != MethodPutState {
		t.Errorf("method = %q", got.method)
	}
	if ptr, _ := got.header.GetInt32(HeaderContextPtr); ptr != 5 {
		t.Errorf("ctx_ptr = %d, want 5", ptr)
	}
	if v, _ := got.body.GetBytes("value"); string(v) != "v" {
		t.Errorf("value = %q", v)
	}
}

func TestCaller_InvokeStatus(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c, host, _ := newTestCaller(WithLogger(zap.New(core)))
	host.codes[MethodDeleteState] = 9

	err := c.Invoke(MethodDeleteState, nil)
	if err == nil {
		t.Fatal("expected status error")
	}
	code, ok := sdkerrors.StatusCode(err)
	if !ok || code != 9 {
		t.Errorf("StatusCode = %d, %v; want 9, true", code, ok)
	}
	if len(host.calls) != 1 {
		t.Errorf("call was retried: %v", host.methods())
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != MethodDeleteState || fields["code"] != int32(9) {
		t.Errorf("log fields = %v", fields)
	}
}

func TestCaller_InvokeRaw(t *testing.T) {
	c, host, _ := newTestCaller()
	var got []byte
	c.boundary = BoundaryFunc(func(header, body []byte) int32 {
		got = body
		return host.SysCall(header, body)
	})

	if err := c.InvokeRaw(MethodLogMessage, []byte("hello")); err != nil {
		t.Fatalf("InvokeRaw failed: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("body = %q, want raw payload", got)
	}
}

func TestCaller_FetchBytes(t *testing.T) {
	tests := []struct {
		name    string
		length  int32
		result  []byte
		methods []string
	}{
		{
			name:    "zero length skips fetch",
			length:  0,
			methods: []string{MethodGetStateLen},
		},
		{
			name:    "short result",
			length:  3,
			result:  []byte("abc"),
			methods: []string{MethodGetStateLen, MethodGetState},
		},
		{
			name:    "four byte result",
			length:  4,
			result:  []byte{9, 8, 7, 6},
			methods: []string{MethodGetStateLen, MethodGetState},
		},
		{
			name:    "large result",
			length:  5000,
			result:  make([]byte, 5000),
			methods: []string{MethodGetStateLen, MethodGetState},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, host, alloc := newTestCaller()
			host.lengths[MethodGetStateLen] = tt.length
			host.results[MethodGetState] = tt.result

			body := easycodec.New()
			body.AddString("key", "k")
			body.AddString("field", "f")

			got, err := c.FetchBytes(MethodGetStateLen, MethodGetState, body)
			if err != nil {
				t.Fatalf("FetchBytes failed: %v", err)
			}
			if string(got) != string(tt.result) {
				t.Errorf("result = %v, want %v", got, tt.result)
			}
			if len(got) != int(tt.length) {
				t.Errorf("len = %d, want %d", len(got), tt.length)
			}

			methods := host.methods()
			if len(methods) != len(tt.methods) {
				t.Fatalf("methods = %v, want %v", methods, tt.methods)
			}
			for i := range methods {
				if methods[i] != tt.methods[i] {
					t.Errorf("call %d = %s, want %s", i, methods[i], tt.methods[i])
				}
			}

			for _, cl := range host.calls {
				keys := cl.body.Keys()
				if keys[len(keys)-1] != ValuePtrKey {
					t.Errorf("%s: value_ptr is not last: %v", cl.method, keys)
				}
				if len(keys) != 3 {
					t.Errorf("%s: body keys = %v", cl.method, keys)
				}
			}

			if c.Arena().Capacity() != 0 || alloc.Live() != 0 {
				t.Errorf("arena not released: cap=%d live=%d", c.Arena().Capacity(), alloc.Live())
			}
			if body.Len() != 2 {
				t.Errorf("caller body was modified: %v", body.Keys())
			}
		})
	}
}

func TestCaller_FetchBytesFailures(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(h *fakeHost)
		status int32
		calls  int
	}{
		{
			name: "probe fails",
			setup: func(h *fakeHost) {
				h.codes[MethodCallContractLen] = 2
			},
			status: 2,
			calls:  1,
		},
		{
			name: "fetch fails",
			setup: func(h *fakeHost) {
				h.lengths[MethodCallContractLen] = 16
				h.codes[MethodCallContract] = 3
			},
			status: 3,
			calls:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, host, alloc := newTestCaller()
			tt.setup(host)

			_, err := c.FetchBytes(MethodCallContractLen, MethodCallContract, nil)
			code, ok := sdkerrors.StatusCode(err)
			if !ok || code != tt.status {
				t.Errorf("StatusCode = %d, %v; want %d (err: %v)", code, ok, tt.status, err)
			}
			if len(host.calls) != tt.calls {
				t.Errorf("calls = %v", host.methods())
			}
			if alloc.Live() != 0 {
				t.Errorf("arena leaked %d regions", alloc.Live())
			}
		})
	}
}

func TestCaller_FetchBytesNegativeLength(t *testing.T) {
	c, host, alloc := newTestCaller()
	host.lengths[MethodRSNextLen] = -1

	_, err := c.FetchBytes(MethodRSNextLen, MethodRSNext, nil)
	if !errors.Is(err, &sdkerrors.Error{Phase: sdkerrors.PhaseCall, Kind: sdkerrors.KindInvalidData}) {
		t.Errorf("expected invalid data error, got %v", err)
	}
	if len(host.calls) != 1 {
		t.Errorf("calls = %v", host.methods())
	}
	if alloc.Live() != 0 {
		t.Errorf("arena leaked %d regions", alloc.Live())
	}
}

func TestCaller_FetchCodec(t *testing.T) {
	c, host, _ := newTestCaller()
	row := easycodec.New()
	row.AddString("name", "alice")
	data := row.Marshal()
	host.lengths[MethodExecuteQueryOneLen] = int32(len(data))
	host.results[MethodExecuteQueryOne] = data

	got, err := c.FetchCodec(MethodExecuteQueryOneLen, MethodExecuteQueryOne, nil)
	if err != nil {
		t.Fatalf("FetchCodec failed: %v", err)
	}
	if name, _ := got.GetString("name"); name != "alice" {
		t.Errorf("name = %q", name)
	}
}

func TestCaller_FetchInt32(t *testing.T) {
	c, host, alloc := newTestCaller()
	host.lengths[MethodKvIterator] = 12

	body := easycodec.New()
	body.AddString("start_key", "a")
	got, err := c.FetchInt32(MethodKvIterator, body)
	if err != nil {
		t.Fatalf("FetchInt32 failed: %v", err)
	}
	if got != 12 {
		t.Errorf("FetchInt32 = %d, want 12", got)
	}
	if len(host.calls) != 1 {
		t.Errorf("calls = %v", host.methods())
	}
	if alloc.Live() != 0 {
		t.Errorf("arena leaked %d regions", alloc.Live())
	}

	host.codes[MethodKvIteratorHasNext] = ErrorCode
	if _, err := c.FetchInt32(MethodKvIteratorHasNext, nil); err == nil {
		t.Error("expected status error")
	}
	if alloc.Live() != 0 {
		t.Errorf("arena leaked %d regions after failure", alloc.Live())
	}
}

func TestCaller_NotInitialized(t *testing.T) {
	c := NewCaller(nil, nil)
	notInit := &sdkerrors.Error{Phase: sdkerrors.PhaseCall, Kind: sdkerrors.KindNotInitialized}

	if err := c.Invoke(MethodPutState, nil); !errors.Is(err, notInit) {
		t.Errorf("Invoke: %v", err)
	}
	if _, err := c.FetchBytes(MethodGetStateLen, MethodGetState, nil); !errors.Is(err, notInit) {
		t.Errorf("FetchBytes: %v", err)
	}
	if _, err := c.FetchInt32(MethodRSHasNext, nil); !errors.Is(err, notInit) {
		t.Errorf("FetchInt32: %v", err)
	}
}

func TestLenMethod(t *testing.T) {
	if LenMethod(MethodGetState) != MethodGetStateLen {
		t.Errorf("LenMethod(GetState) = %q", LenMethod(MethodGetState))
	}
	if LenMethod(MethodGetBulletproofsResult) != MethodGetBulletproofsResultLen {
		t.Errorf("LenMethod(GetBulletproofsResult) = %q", LenMethod(MethodGetBulletproofsResult))
	}
}
