// Package contract is the API a contract module programs against.
//
// A Context is built from the parameter buffer the host leaves in the arena
// before it invokes an exported method. It exposes the call arguments and
// forwards every chain operation through a bridge.Caller:
//
//   - results: OK, Error, Log, EmitEvent
//   - world state: GetState, PutState, DeleteState and their FromKey forms
//   - cross-contract calls: CallContract
//   - range and prefix iteration over state: NewIterator and friends
//   - SQL, Paillier and Bulletproofs operators through SQL(), Paillier() and
//     Bulletproofs()
//
// When compiled with GOOS=wasip1 the package also provides the module's
// allocate, deallocate and runtime_type exports and binds the env.sys_call and
// env.log_message imports; Default returns the Context of the current call.
package contract
