package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambdatune/lambdatune/internal/benchmark"
)

func sampleReport() *benchmark.Report {
	return &benchmark.Report{
		Ranking: benchmark.Ranking{
			Cost: []benchmark.CostEntry{
				{MemoryMB: 512, CostUSD: 0.000821},
				{MemoryMB: 128, CostUSD: 0.001872},
			},
			Duration: []benchmark.DurationEntry{
				{MemoryMB: 512, DurationMS: 98342},
				{MemoryMB: 128, DurationMS: 900000},
			},
		},
		Logs: []benchmark.LogEntry{
			{MemoryMB: 128, Success: true, AverageMS: 900000, DurationsMS: []int{900000}, CostUSD: 0.001872},
			{MemoryMB: 512, Success: true, AverageMS: 98342, DurationsMS: []int{98342}, CostUSD: 0.000821},
			{MemoryMB: 1024, Success: false, Errors: []string{"could not set function configuration"}},
		},
		Notes: []string{"Results reflect one specific workload."},
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, sampleReport(), []string{"memory size 1024 MB failed: could not set function configuration"})
	out := buf.String()

	assert.Contains(t, out, "Cost ranking (cheapest first)")
	assert.Contains(t, out, "Speed ranking (fastest first)")
	assert.Contains(t, out, "Per-memory results")
	assert.Contains(t, out, "0.000821")
	assert.Contains(t, out, "note: Results reflect one specific workload.")
	assert.Contains(t, out, "error: memory size 1024 MB failed")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Report(&buf, FormatJSON, sampleReport(), []string{"boom"}))

	var decoded struct {
		Ranking struct {
			Cost []struct {
				MemoryMB int     `json:"memory_mb"`
				CostUSD  float64 `json:"cost_usd"`
			} `json:"cost"`
		} `json:"ranking"`
		Logs   []json.RawMessage `json:"logs"`
		Errors []string          `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded.Ranking.Cost, 2)
	assert.Equal(t, 512, decoded.Ranking.Cost[0].MemoryMB)
	assert.Len(t, decoded.Logs, 3)
	assert.Equal(t, []string{"boom"}, decoded.Errors)
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Report(&buf, FormatCSV, sampleReport(), nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4) // header plus one row per memory size

	assert.Equal(t, "memory_mb,success,average_duration_ms,samples,execution_cost_usd,errors",
		strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "128,true,900000,1,0.001872")
	assert.Contains(t, lines[3], "could not set function configuration")
}
