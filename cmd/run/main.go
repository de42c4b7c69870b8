package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/wasm-contract-sdk/easycodec"
	"github.com/wippyai/wasm-contract-sdk/hostsim"
)

// argList collects repeated -arg key=value flags.
type argList []string

func (a *argList) String() string { return strings.Join(*a, ",") }

func (a *argList) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func main() {
	var args argList
	var (
		wasmFile    = flag.String("wasm", "", "Path to contract wasm file")
		method      = flag.String("method", "", "Exported method to invoke")
		configFile  = flag.String("config", "", "Host configuration (YAML)")
		dataDir     = flag.String("data-dir", "", "World state directory (in-memory when empty)")
		verbose     = flag.Bool("v", false, "Verbose logging")
		list        = flag.Bool("list", false, "List exported methods and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Var(&args, "arg", "Invocation argument key=value (repeatable)")
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -wasm <contract.wasm> -method name [-arg k=v ...] [-config host.yaml] [-data-dir dir] [-v]")
		fmt.Fprintln(os.Stderr, "       run -wasm <contract.wasm> -list")
		fmt.Fprintln(os.Stderr, "       run -wasm <contract.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configFile, *dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*wasmFile, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	log, err := newLogger(*verbose, cfg.Level())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ok, err := run(*wasmFile, *method, args, cfg, log, *list)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(2)
	}
}

func loadConfig(path, dataDir string) (*hostsim.Config, error) {
	cfg := hostsim.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = hostsim.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func newLogger(verbose bool, level zapcore.Level) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// parseArgs turns key=value pairs into BYTES arguments, in order.
func parseArgs(pairs []string) (*easycodec.Codec, error) {
	args := easycodec.New()
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("argument %q is not key=value", kv)
		}
		args.AddBytes(k, []byte(v))
	}
	return args, nil
}

// session is a loaded contract and the host serving it.
type session struct {
	host    *hostsim.Host
	runtime *hostsim.Runtime
	module  *hostsim.Module
}

func openSession(ctx context.Context, wasmFile string, cfg *hostsim.Config, log *zap.Logger) (*session, error) {
	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	host, err := hostsim.New(cfg, hostsim.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("create host: %w", err)
	}
	rt, err := hostsim.NewRuntime(ctx, host)
	if err != nil {
		host.Close()
		return nil, fmt.Errorf("create runtime: %w", err)
	}
	mod, err := rt.Load(ctx, data)
	if err != nil {
		rt.Close(ctx)
		host.Close()
		return nil, fmt.Errorf("load module: %w", err)
	}
	return &session{host: host, runtime: rt, module: mod}, nil
}

func (s *session) close(ctx context.Context) {
	s.runtime.Close(ctx)
	s.host.Close()
}

// methods returns the exports a caller can invoke, sorted.
func (s *session) methods() []string {
	var out []string
	for _, name := range s.module.Exports() {
		switch name {
		case "allocate", "deallocate", "runtime_type", "_initialize", "_start":
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func run(wasmFile, method string, pairs []string, cfg *hostsim.Config, log *zap.Logger, listOnly bool) (bool, error) {
	ctx := context.Background()

	args, err := parseArgs(pairs)
	if err != nil {
		return false, err
	}

	s, err := openSession(ctx, wasmFile, cfg, log)
	if err != nil {
		return false, err
	}
	defer s.close(ctx)

	fmt.Printf("Contract: %s (%s)\n", cfg.Contract, wasmFile)
	if typ, err := s.module.RuntimeType(ctx); err == nil {
		fmt.Printf("Runtime type: %d\n", typ)
	}

	methods := s.methods()
	if listOnly || method == "" {
		fmt.Printf("\nMethods:\n")
		for _, m := range methods {
			fmt.Printf("  %s\n", m)
		}
		if !listOnly {
			fmt.Printf("\nUse -method to choose one.\n")
		}
		return true, nil
	}

	fmt.Printf("\nInvoking %s...\n", method)
	res, err := s.module.Invoke(ctx, method, args)
	if err != nil {
		return false, fmt.Errorf("invoke %s: %w", method, err)
	}
	fmt.Print(formatResult(res))
	return !res.Failed, nil
}

func formatResult(res *hostsim.Result) string {
	var b strings.Builder
	if res.Failed {
		fmt.Fprintf(&b, "Error: %s\n", res.Failure)
	} else {
		fmt.Fprintf(&b, "Result: %s\n", res.Success)
	}
	if len(res.Events) > 0 {
		b.WriteString("\n--- events ---\n")
		for _, ev := range res.Events {
			fmt.Fprintf(&b, "%s %s\n", ev.Topic, strings.Join(ev.Data, " "))
		}
	}
	if len(res.Logs) > 0 {
		b.WriteString("\n--- logs ---\n")
		for _, l := range res.Logs {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
