package contract

import (
	"testing"

	"github.com/wippyai/wasm-contract-sdk/bridge"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
)

func TestContext_Iterators(t *testing.T) {
	tests := []struct {
		name   string
		open   func(c *Context) (ResultSet, error)
		method string
		bounds [4]string
	}{
		{
			name:   "range",
			open:   func(c *Context) (ResultSet, error) { return c.NewIterator("a", "z") },
			method: bridge.MethodKvIterator,
			bounds: [4]string{"a", "", "z", ""},
		},
		{
			name:   "field range",
			open:   func(c *Context) (ResultSet, error) { return c.NewIteratorWithField("k", "f1", "f9") },
			method: bridge.MethodKvIterator,
			bounds: [4]string{"k", "f1", "k", "f9"},
		},
		{
			name:   "key field prefix",
			open:   func(c *Context) (ResultSet, error) { return c.NewIteratorPrefixWithKeyField("k", "f") },
			method: bridge.MethodKvPreIterator,
			bounds: [4]string{"k", "f", "", ""},
		},
		{
			name:   "key prefix",
			open:   func(c *Context) (ResultSet, error) { return c.NewIteratorPrefixWithKey("k") },
			method: bridge.MethodKvPreIterator,
			bounds: [4]string{"k", "", "", ""},
		},
	}

	keys := []string{"start_key", "start_field", "limit_key", "limit_field"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, host, _ := loadTestContext(t, testArgs())
			host.ints[tt.method] = 3

			rs, err := tt.open(ctx)
			if err != nil {
				t.Fatalf("open failed: %v", err)
			}
			got := host.last()
			if got.method != tt.method {
				t.Errorf("method = %s, want %s", got.method, tt.method)
			}
			for i, k := range keys {
				if v, _ := got.body.GetString(k); v != tt.bounds[i] {
					t.Errorf("%s = %q, want %q", k, v, tt.bounds[i])
				}
			}
			if rs.(*resultSet).index != 3 {
				t.Errorf("index = %d, want 3", rs.(*resultSet).index)
			}
		})
	}
}

func TestResultSet_KV(t *testing.T) {
	ctx, host, alloc := loadTestContext(t, testArgs())
	host.ints[bridge.MethodKvPreIterator] = 8

	rs, err := ctx.NewIteratorPrefixWithKey("user")
	if err != nil {
		t.Fatalf("NewIteratorPrefixWithKey failed: %v", err)
	}
	if host.last().method != bridge.MethodKvPreIterator {
		t.Errorf("opened with %s, want %s", host.last().method, bridge.MethodKvPreIterator)
	}
	if rs.(*resultSet).index != 8 {
		t.Fatalf("index = %d, want 8", rs.(*resultSet).index)
	}

	host.ints[bridge.MethodKvIteratorHasNext] = 1
	if !rs.HasNext() {
		t.Error("HasNext = false, want true")
	}
	if idx, _ := host.last().body.GetInt32("rs_index"); idx != 8 {
		t.Errorf("rs_index = %d, want 8", idx)
	}

	row := easycodec.New()
	row.AddString("key", "user")
	row.AddString("field", "alice")
	row.AddBytes("value", []byte("10"))
	host.answer(bridge.MethodKvIteratorNext, row.Marshal())

	got, err := rs.NextRow()
	if err != nil {
		t.Fatalf("NextRow failed: %v", err)
	}
	if f, _ := got.GetString("field"); f != "alice" {
		t.Errorf("field = %q", f)
	}

	host.ints[bridge.MethodKvIteratorHasNext] = 0
	if rs.HasNext() {
		t.Error("HasNext = true, want false")
	}
	host.codes[bridge.MethodKvIteratorHasNext] = bridge.ErrorCode
	if rs.HasNext() {
		t.Error("HasNext on failure = true, want false")
	}

	if err := rs.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if host.last().method != bridge.MethodKvIteratorClose {
		t.Errorf("method = %s", host.last().method)
	}
	if alloc.Live() != 0 {
		t.Errorf("arena leaked %d regions", alloc.Live())
	}
}

func TestIterator_OpenFailure(t *testing.T) {
	ctx, host, _ := loadTestContext(t, testArgs())
	host.codes[bridge.MethodKvIterator] = 2
	if _, err := ctx.NewIterator("a", "b"); err == nil {
		t.Error("expected error")
	}
}
