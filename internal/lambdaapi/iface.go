package lambdaapi

import "context"

// FunctionConfig is the slice of a function's configuration the benchmark
// snapshots before a sweep and restores afterwards.
type FunctionConfig struct {
	MemoryMB  int `json:"memory_mb"`
	TimeoutMS int `json:"timeout_ms"`
}

// InvokeResult carries the raw outcome of one synchronous invocation.
// FunctionError is set when the function itself raised; transport and API
// failures surface as errors instead.
type InvokeResult struct {
	Payload       []byte
	StatusCode    int32
	FunctionError string
}

// API defines the function-configuration and invocation operations the
// benchmark depends on. The concrete *Client satisfies this interface. Use
// this interface as a dependency in consumers to enable testing with the
// Stub.
type API interface {
	GetConfig(ctx context.Context, function string) (*FunctionConfig, error)
	SetConfig(ctx context.Context, function string, memoryMB, timeoutMS int) error
	Invoke(ctx context.Context, function string, payload []byte) (*InvokeResult, error)
}

// Compile-time checks that both implementations satisfy API.
var (
	_ API = (*Client)(nil)
	_ API = (*Stub)(nil)
)
