package bridge

// Protocol constants shared with the host.
const (
	// ContractVersion is sent in every call header.
	ContractVersion = "v1.2.0"

	// SuccessCode is the status of a successful boundary call.
	SuccessCode int32 = 0
	// ErrorCode is the generic failure status.
	ErrorCode int32 = 1
)

// Header keys.
const (
	HeaderContextPtr = "ctx_ptr"
	HeaderVersion    = "version"
	HeaderMethod     = "method"
)

// ValuePtrKey is the body parameter holding the address the host writes
// results to. It is always the last record of the body.
const ValuePtrKey = "value_ptr"

// Host methods. Methods with a Len suffix are the length probe of the method
// without it.
const (
	MethodLogMessage    = "LogMessage"
	MethodSuccessResult = "SuccessResult"
	MethodErrorResult   = "ErrorResult"
	MethodEmitEvent     = "EmitEvent"

	MethodGetStateLen = "GetStateLen"
	MethodGetState    = "GetState"
	MethodPutState    = "PutState"
	MethodDeleteState = "DeleteState"

	MethodCallContractLen = "CallContractLen"
	MethodCallContract    = "CallContract"

	MethodKvIterator        = "KvIterator"
	MethodKvPreIterator     = "KvPreIterator"
	MethodKvIteratorHasNext = "KvIteratorHasNext"
	MethodKvIteratorNextLen = "KvIteratorNextLen"
	MethodKvIteratorNext    = "KvIteratorNext"
	MethodKvIteratorClose   = "KvIteratorClose"

	MethodExecuteQuery       = "ExecuteQuery"
	MethodExecuteQueryOneLen = "ExecuteQueryOneLen"
	MethodExecuteQueryOne    = "ExecuteQueryOne"
	MethodRSNextLen          = "RSNextLen"
	MethodRSNext             = "RSNext"
	MethodRSHasNext          = "RSHasNext"
	MethodRSClose            = "RSClose"
	MethodExecuteUpdate      = "ExecuteUpdate"
	MethodExecuteDDL         = "ExecuteDDL"

	MethodGetPaillierOperationResultLen = "GetPaillierOperationResultLen"
	MethodGetPaillierOperationResult    = "GetPaillierOperationResult"
	MethodGetBulletproofsResultLen      = "GetBulletproofsResultLen"
	MethodGetBulletproofsResult         = "GetBulletproofsResult"
)

// LenMethod returns the length probe name for a data fetch method.
func LenMethod(method string) string {
	return method + "Len"
}
