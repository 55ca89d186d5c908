package benchmark

import "errors"

// Error taxonomy for a benchmark run. Only ErrConfigSave aborts the whole
// run; every other failure is captured at the smallest relevant scope
// (sample or memory size) and the sweep continues.
var (
	// ErrConfigSave: the original function configuration could not be read.
	// Fatal — the function must never be mutated without a known rollback
	// target.
	ErrConfigSave = errors.New("could not save original function configuration")

	// ErrConfigSet: a memory size could not be applied. That size is marked
	// failed and the sweep moves on.
	ErrConfigSet = errors.New("could not set function configuration")

	// ErrInvoke: one invocation failed in transport or inside the function.
	ErrInvoke = errors.New("could not invoke function")

	// ErrPayloadShape: the function answered, but not with the expected
	// response schema.
	ErrPayloadShape = errors.New("unexpected function response payload")

	// ErrCost: a successful memory size could not be priced; it is excluded
	// from the rankings but stays in the logs.
	ErrCost = errors.New("could not compute execution cost")

	// ErrConfigRestore: the original configuration could not be put back.
	// Non-fatal — reported alongside the finished report.
	ErrConfigRestore = errors.New("could not restore original function configuration")
)
