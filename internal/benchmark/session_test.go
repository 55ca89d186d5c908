package benchmark

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambdatune/lambdatune/internal/lambdaapi"
)

func newTestSession(stub *lambdaapi.Stub, cfg *Config) *Session {
	sess := NewSession(stub, cfg)
	sess.settleInterval = 0
	return sess
}

func TestRun_ConfigSaveFailureIsFatal(t *testing.T) {
	stub := lambdaapi.NewStub()
	stub.SeedGetConfig(nil, errors.New("function not found"))

	cfg := testSweepConfig()
	cfg.MemorySets = []int{128}

	report, publicErrors, err := newTestSession(stub, cfg).Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigSave))
	assert.Nil(t, report)
	assert.Empty(t, publicErrors)
	// The function is never touched without a known rollback target.
	assert.Equal(t, 0, stub.SetCalls)
	assert.Equal(t, 0, stub.InvokeCalls)
}

func TestRun_EndToEnd(t *testing.T) {
	stub := lambdaapi.NewStub()
	stub.SeedGetConfig(&lambdaapi.FunctionConfig{MemoryMB: 1024, TimeoutMS: 900000}, nil)
	for i := 0; i < 4; i++ { // three memory sizes plus the restore
		stub.SeedSetConfig(nil)
	}
	remaining := map[int]string{
		128:  `{"remaining_time": 899900}`, // 100 ms
		512:  `{"remaining_time": 899950}`, // 50 ms
		3008: `{"remaining_time": 899990}`, // 10 ms
	}
	cfg := testSweepConfig()
	cfg.TestCount = 5
	cfg.MaxThreads = 5
	cfg.MemorySets = []int{128, 512, 3008}
	for _, m := range cfg.MemorySets {
		for i := 0; i < cfg.TestCount; i++ {
			stub.SeedInvokePayload(remaining[m])
		}
	}

	sess := newTestSession(stub, cfg)
	var progressed []int
	sess.Progress = func(m int) { progressed = append(progressed, m) }

	report, publicErrors, err := sess.Run(context.Background())

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Empty(t, publicErrors)
	assert.Equal(t, cfg.MemorySets, progressed)
	assert.NotEmpty(t, sess.RunID())

	require.Len(t, report.Logs, 3)
	for i, m := range cfg.MemorySets {
		assert.Equal(t, m, report.Logs[i].MemoryMB)
		assert.True(t, report.Logs[i].Success)
		assert.Len(t, report.Logs[i].DurationsMS, cfg.TestCount)
	}

	// Sub-bucket durations: higher memory is faster but costs more per unit.
	assert.Equal(t, []int{3008, 512, 128}, durationMemories(report))
	assert.Equal(t, []int{128, 512, 3008}, costMemories(report))

	// Original configuration goes back last.
	require.Len(t, stub.SetConfigs, 4)
	assert.Equal(t, lambdaapi.FunctionConfig{MemoryMB: 1024, TimeoutMS: 900000}, stub.SetConfigs[3])
}

func TestRun_OneMemorySizeFails(t *testing.T) {
	stub := lambdaapi.NewStub()
	stub.SeedGetConfig(&lambdaapi.FunctionConfig{MemoryMB: 256, TimeoutMS: 900000}, nil)
	stub.SeedSetConfig(errors.New("access denied")) // 128 fails
	stub.SeedSetConfig(nil)                         // 512
	stub.SeedSetConfig(nil)                         // restore
	stub.DefaultInvoke = &lambdaapi.InvokeResult{Payload: []byte(warmPayload), StatusCode: 200}

	cfg := testSweepConfig()
	cfg.MemorySets = []int{128, 512}

	report, publicErrors, err := newTestSession(stub, cfg).Run(context.Background())

	require.NoError(t, err)
	require.Len(t, report.Logs, 2)
	assert.False(t, report.Logs[0].Success)
	assert.True(t, report.Logs[1].Success)
	assert.Equal(t, []int{512}, costMemories(report))

	require.Len(t, publicErrors, 1)
	assert.Contains(t, publicErrors[0], "memory size 128 MB failed")
	assert.Contains(t, publicErrors[0], "access denied")
}

func TestRun_RestoreFailureIsReported(t *testing.T) {
	stub := lambdaapi.NewStub()
	stub.SeedGetConfig(&lambdaapi.FunctionConfig{MemoryMB: 256, TimeoutMS: 900000}, nil)
	stub.SeedSetConfig(nil)                        // sweep
	stub.SeedSetConfig(errors.New("rate limited")) // restore
	stub.DefaultInvoke = &lambdaapi.InvokeResult{Payload: []byte(warmPayload), StatusCode: 200}

	cfg := testSweepConfig()
	cfg.MemorySets = []int{512}

	report, publicErrors, err := newTestSession(stub, cfg).Run(context.Background())

	// A restore failure never invalidates the finished report.
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, []int{512}, costMemories(report))

	require.Len(t, publicErrors, 1)
	assert.Contains(t, publicErrors[0], ErrConfigRestore.Error())
	assert.Contains(t, publicErrors[0], "rate limited")
}
