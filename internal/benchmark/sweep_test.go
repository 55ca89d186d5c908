package benchmark

import (
	"context"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambdatune/lambdatune/internal/lambdaapi"
)

func newTestSweeper(stub *lambdaapi.Stub, cfg *Config) *sweeper {
	return &sweeper{
		api:            stub,
		cfg:            cfg,
		settleInterval: 0,
		logger:         log.WithField("test", "sweeper"),
	}
}

func testSweepConfig() *Config {
	cfg := DefaultConfig()
	cfg.TargetFunction = "fibonacci"
	cfg.TestCount = 3
	cfg.MaxThreads = 1
	return cfg
}

func TestSweepOne_ConfigSetFailure(t *testing.T) {
	stub := lambdaapi.NewStub()
	stub.SeedSetConfig(errors.New("access denied"))

	outcome := newTestSweeper(stub, testSweepConfig()).sweepOne(context.Background(), 512)

	assert.False(t, outcome.Success)
	assert.Empty(t, outcome.DurationsMS)
	require.Len(t, outcome.Errors, 1)
	assert.Contains(t, outcome.Errors[0], "cannot allocate 512 MB")
	// No invocations are attempted when the configuration change fails.
	assert.Equal(t, 0, stub.InvokeCalls)
}

func TestSweepOne_AveragesDurations(t *testing.T) {
	stub := lambdaapi.NewStub()
	stub.SeedSetConfig(nil)
	stub.SeedInvokePayload(`{"remaining_time": 899900}`) // 100 ms
	stub.SeedInvokePayload(`{"remaining_time": 899850}`) // 150 ms
	stub.SeedInvokePayload(`{"remaining_time": 899849}`) // 151 ms

	outcome := newTestSweeper(stub, testSweepConfig()).sweepOne(context.Background(), 512)

	require.True(t, outcome.Success)
	assert.ElementsMatch(t, []int{100, 150, 151}, outcome.DurationsMS)
	assert.Equal(t, 134, outcome.AverageMS) // mean 133.67 rounds up
	assert.Empty(t, outcome.Errors)

	// Timeout is applied unchanged alongside the new memory size.
	require.Len(t, stub.SetConfigs, 1)
	assert.Equal(t, lambdaapi.FunctionConfig{MemoryMB: 512, TimeoutMS: DefaultTimeoutMS}, stub.SetConfigs[0])
}

func TestSweepOne_NoDurations(t *testing.T) {
	stub := lambdaapi.NewStub()
	stub.SeedSetConfig(nil)
	stub.DefaultInvoke = &lambdaapi.InvokeResult{Payload: []byte(`{}`), StatusCode: 200}

	outcome := newTestSweeper(stub, testSweepConfig()).sweepOne(context.Background(), 512)

	assert.False(t, outcome.Success)
	assert.Empty(t, outcome.DurationsMS)
	require.NotEmpty(t, outcome.Errors)
	assert.Contains(t, outcome.Errors[len(outcome.Errors)-1], "no durations returned")
}

func TestSweep_SequentialInCallerOrder(t *testing.T) {
	stub := lambdaapi.NewStub()
	cfg := testSweepConfig()
	cfg.MemorySets = []int{1024, 128, 512}
	for range cfg.MemorySets {
		stub.SeedSetConfig(nil)
	}
	stub.DefaultInvoke = &lambdaapi.InvokeResult{Payload: []byte(`{"remaining_time": 899900}`), StatusCode: 200}

	var seen []int
	outcomes := newTestSweeper(stub, cfg).sweep(context.Background(), func(m int) {
		seen = append(seen, m)
	})

	require.Len(t, outcomes, 3)
	for i, m := range cfg.MemorySets {
		assert.Equal(t, m, outcomes[i].MemoryMB)
		assert.True(t, outcomes[i].Success)
	}
	// Progress fires once per memory size, in caller order.
	assert.Equal(t, cfg.MemorySets, seen)
	// Config changes happen in the same order.
	require.Len(t, stub.SetConfigs, 3)
	for i, m := range cfg.MemorySets {
		assert.Equal(t, m, stub.SetConfigs[i].MemoryMB)
	}
}
