// Package hostsim is a local stand-in for the chain runtime that hosts
// contract modules. It is meant for tests and development, not for consensus.
//
// A Host decodes boundary calls, dispatches them by method name and writes
// results into the caller's memory at the value_ptr address of the body, the
// same way a chain does. Built-in handlers cover logging, results, events,
// world state (backed by pebble), cross-contract calls and key-value
// iterators. SQL and crypto methods have no built-in semantics; register them
// with Register, RegisterInt, RegisterFetch or RegisterSQL.
//
// Contracts run against a Host in one of two ways:
//
//   - Sandbox runs Go contract code natively. The contract and the host share
//     a simulated linear memory, so the arena and call protocol behave as
//     they do in a module.
//   - Runtime loads a compiled .wasm module with wazero, binds env.sys_call
//     and env.log_message to the Host and drives the module's allocate export
//     to hand it its arguments.
//
// Every dispatched call is counted in Prometheus metrics on the Host's own
// registry.
package hostsim
