package main

import (
	"strings"
	"testing"

	"github.com/wippyai/wasm-contract-sdk/hostsim"
)

func TestParseArgs(t *testing.T) {
	args, err := parseArgs([]string{"n=1", "name=a=b", "empty="})
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if got := strings.Join(args.Keys(), ","); got != "n,name,empty" {
		t.Errorf("keys = %q", got)
	}
	v, _ := args.GetBytesAsString("name")
	if v != "a=b" {
		t.Errorf("name = %q, want a=b", v)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseArgs([]string{bad}); err == nil {
			t.Errorf("parseArgs(%q) should fail", bad)
		}
	}
}

func TestFormatResult(t *testing.T) {
	out := formatResult(&hostsim.Result{
		Success: []byte("100"),
		Events:  []hostsim.Event{{Topic: "set", Data: []string{"k", "v"}}},
		Logs:    []string{"stored"},
	})
	for _, want := range []string{"Result: 100", "set k v", "--- logs ---", "stored"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}

	out = formatResult(&hostsim.Result{Failed: true, Failure: "boom"})
	if !strings.Contains(out, "Error: boom") {
		t.Errorf("output %q does not report failure", out)
	}
}

func TestLoadConfig_DataDir(t *testing.T) {
	cfg, err := loadConfig("", "/tmp/state")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.DataDir != "/tmp/state" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}
