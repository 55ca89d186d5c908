package benchmark

import (
	"encoding/json"
	"fmt"
)

const (
	// DefaultTestCount is how many warm samples to collect per memory size.
	DefaultTestCount = 50

	// DefaultMaxThreads bounds how many invocations run concurrently.
	DefaultMaxThreads = 10

	// DefaultTimeoutMS is the function timeout applied during the sweep,
	// the platform maximum.
	DefaultTimeoutMS = 900000

	// Allocatable memory bounds and step for the target platform.
	MinMemoryMB  = 128
	MaxMemoryMB  = 3008
	MemoryStepMB = 64
)

// Config is the immutable input for one benchmark run.
type Config struct {
	Verbose           bool            `json:"verbose"`
	IgnoreColdstart   bool            `json:"ignore_coldstart"`
	TestCount         int             `json:"test_count"`
	MaxThreads        int             `json:"max_threads"`
	TargetFunction    string          `json:"target_function"`
	InvocationPayload json.RawMessage `json:"invocation_payload,omitempty"`
	MemorySets        []int           `json:"memory_sets"`
	TimeoutMS         int             `json:"timeout"`
}

// DefaultConfig returns a Config with the benchmark defaults filled in.
// Cold starts are ignored unless explicitly requested otherwise.
func DefaultConfig() *Config {
	return &Config{
		IgnoreColdstart: true,
		TestCount:       DefaultTestCount,
		MaxThreads:      DefaultMaxThreads,
		TimeoutMS:       DefaultTimeoutMS,
	}
}

// eventKeys is the exact set of keys a benchmark request may carry.
var eventKeys = map[string]bool{
	"verbose":            true,
	"ignore_coldstart":   true,
	"test_count":         true,
	"max_threads":        true,
	"target_function":    true,
	"invocation_payload": true,
	"memory_sets":        true,
	"timeout":            true,
}

// ParseEvent decodes and validates a benchmark request. Unknown keys are
// rejected here, before any external call is made.
func ParseEvent(data []byte) (*Config, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("event is not a JSON object")
	}
	for k := range raw {
		if !eventKeys[k] {
			return nil, fmt.Errorf("invalid event key %q", k)
		}
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config against the platform's limits.
func (c *Config) Validate() error {
	if c.TargetFunction == "" {
		return fmt.Errorf("target_function is required")
	}
	if c.TestCount < 1 {
		return fmt.Errorf("test_count must be at least 1, got %d", c.TestCount)
	}
	if c.MaxThreads < 1 {
		return fmt.Errorf("max_threads must be at least 1, got %d", c.MaxThreads)
	}
	if c.TimeoutMS < 1 {
		return fmt.Errorf("timeout must be positive, got %d", c.TimeoutMS)
	}
	if len(c.MemorySets) == 0 {
		return fmt.Errorf("memory_sets must name at least one memory size")
	}
	seen := make(map[int]bool, len(c.MemorySets))
	for _, m := range c.MemorySets {
		if m < MinMemoryMB || m > MaxMemoryMB || m%MemoryStepMB != 0 {
			return fmt.Errorf("memory size %d MB is outside the supported range (%d-%d MB in %d MB steps)",
				m, MinMemoryMB, MaxMemoryMB, MemoryStepMB)
		}
		if seen[m] {
			return fmt.Errorf("duplicate memory size %d MB", m)
		}
		seen[m] = true
	}
	return nil
}
