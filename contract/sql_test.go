package contract

import (
	"testing"

	"github.com/wippyai/wasm-contract-sdk/bridge"
	"github.com/wippyai/wasm-contract-sdk/easycodec"
)

func TestSQL(t *testing.T) {
	ctx, host, alloc := loadTestContext(t, testArgs())
	sql := ctx.SQL()

	host.ints[bridge.MethodExecuteUpdate] = 2
	n, err := sql.ExecuteUpdate("update t set a = 1")
	if err != nil || n != 2 {
		t.Errorf("ExecuteUpdate = %d, %v", n, err)
	}
	if s, _ := host.last().body.GetString("sql"); s != "update t set a = 1" {
		t.Errorf("sql = %q", s)
	}

	if _, err := sql.ExecuteDDL("create table t (a int)"); err != nil {
		t.Errorf("ExecuteDDL failed: %v", err)
	}
	if host.last().method != bridge.MethodExecuteDDL {
		t.Errorf("method = %s", host.last().method)
	}

	row := easycodec.New()
	row.AddString("a", "1")
	host.answer(bridge.MethodExecuteQueryOne, row.Marshal())
	one, err := sql.ExecuteQueryOne("select a from t limit 1")
	if err != nil {
		t.Fatalf("ExecuteQueryOne failed: %v", err)
	}
	if a, _ := one.GetString("a"); a != "1" {
		t.Errorf("a = %q", a)
	}

	host.ints[bridge.MethodExecuteQuery] = 5
	rs, err := sql.ExecuteQuery("select a from t")
	if err != nil {
		t.Fatalf("ExecuteQuery failed: %v", err)
	}
	host.ints[bridge.MethodRSHasNext] = 1
	if !rs.HasNext() {
		t.Error("HasNext = false")
	}
	if host.last().method != bridge.MethodRSHasNext {
		t.Errorf("method = %s", host.last().method)
	}
	host.answer(bridge.MethodRSNext, row.Marshal())
	if _, err := rs.NextRow(); err != nil {
		t.Errorf("NextRow failed: %v", err)
	}
	if host.last().method != bridge.MethodRSNext {
		t.Errorf("method = %s", host.last().method)
	}
	if err := rs.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if host.last().method != bridge.MethodRSClose {
		t.Errorf("method = %s", host.last().method)
	}
	if alloc.Live() != 0 {
		t.Errorf("arena leaked %d regions", alloc.Live())
	}
}
