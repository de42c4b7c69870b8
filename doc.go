// Package contractsdk is the data-exchange layer of a WebAssembly smart-contract SDK.
//
// A contract module runs inside a sandbox and talks to the chain runtime hosting it
// through a single foreign call, sys_call(header, body) -> status. Everything that
// crosses that boundary is an EasyCodec container, and every variable-length result
// is pulled back through one reusable exchange buffer.
//
// # Architecture Overview
//
//	contractsdk/         Root package with core Memory and Allocator interfaces
//	├── easycodec/       Typed key-value record container and its binary wire format
//	├── arena/           Single reusable exchange buffer over linear memory
//	├── bridge/          Call protocol: header/body marshaling, length probe, data fetch
//	├── contract/        Contract-facing API (state, events, iterators, SQL, crypto)
//	├── hostsim/         Simulated host for local runs and tests
//	├── errors/          Structured error types
//	└── cmd/             run (contract runner) and easycodec (payload inspector)
//
// # Quick Start
//
// Inside a contract compiled with GOOS=wasip1:
//
//	//go:wasmexport get
//	func get() {
//	    ctx := contract.Default()
//	    value, err := ctx.GetState("key_001", "n")
//	    if err != nil {
//	        ctx.Error("get_state fail")
//	        return
//	    }
//	    ctx.OK(value)
//	}
//
// Outside the sandbox the same code runs natively against hostsim:
//
//	sb, err := hostsim.NewSandbox(hostsim.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sb.Close()
//
//	res, err := sb.Invoke(args, func(c *contract.Context) { ... })
//
// Compiled modules run through hostsim.Runtime, which binds env.sys_call to a
// hostsim.Host with wazero.
//
// # Wire Format
//
// A marshaled container is a 16 byte header ("cmec", "v1.0", eight 0xFF bytes), a
// little-endian record count and the records themselves. Decoding also accepts the
// header-less form that starts directly at the record count.
//
// # Thread Safety
//
// A contract instance executes one call at a time. The arena serializes access with
// a mutex so that accidental nested use cannot corrupt the buffer, but it is not a
// throughput primitive. Hosts and Sandboxes are safe for concurrent use only where
// documented.
package contractsdk
