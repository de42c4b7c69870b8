//go:build wasip1

package contract

import (
	"runtime"
	"unsafe"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasm-contract-sdk/arena"
	"github.com/wippyai/wasm-contract-sdk/bridge"
)

//go:wasmimport env sys_call
func sysCall(headerPtr, headerLen, bodyPtr, bodyLen uint32) int32

//go:wasmimport env log_message
func logMessage(ptr, length uint32)

//go:wasmexport allocate
func allocate(size uint32) uint32 {
	ptr, err := arena.Guest().Resize(size)
	if err != nil {
		hostLog("allocate: " + err.Error())
		return 0
	}
	return ptr
}

//go:wasmexport deallocate
func deallocate(_ uint32) {
	arena.Guest().Release()
}

//go:wasmexport runtime_type
func runtimeType() int32 {
	return RuntimeType
}

func addr(b []byte) uint32 {
	if len(b) == 0 {
		return 0
	}
	return uint32(uintptr(unsafe.Pointer(&b[0])))
}

// hostBoundary calls the env.sys_call import.
type hostBoundary struct{}

func (hostBoundary) SysCall(header, body []byte) int32 {
	code := sysCall(addr(header), uint32(len(header)), addr(body), uint32(len(body)))
	runtime.KeepAlive(header)
	runtime.KeepAlive(body)
	return code
}

func hostLog(msg string) {
	b := []byte(msg)
	logMessage(addr(b), uint32(len(b)))
	runtime.KeepAlive(b)
}

// hostLogWriter forwards encoded log entries to env.log_message.
type hostLogWriter struct{}

func (hostLogWriter) Write(p []byte) (int, error) {
	logMessage(addr(p), uint32(len(p)))
	runtime.KeepAlive(p)
	return len(p), nil
}

func init() {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(hostLogWriter{}), zapcore.WarnLevel)
	bridge.SetLogger(zap.New(core))
}

// Default returns the Context of the call in progress. It must be called once
// per exported method, before any other host call. If the host left no usable
// parameters the Context has no arguments and a zero context pointer.
func Default() *Context {
	ctx, err := Load(arena.Guest(), hostBoundary{})
	if err != nil {
		hostLog("load contract context: " + err.Error())
		return NewContext(bridge.NewCaller(hostBoundary{}, arena.Guest()), nil)
	}
	return ctx
}
