package benchmark

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/lambdatune/lambdatune/internal/pricing"
)

// CostEntry is one row of the cost ranking.
type CostEntry struct {
	MemoryMB int     `json:"memory_mb"`
	CostUSD  float64 `json:"cost_usd"`
}

// DurationEntry is one row of the speed ranking.
type DurationEntry struct {
	MemoryMB   int `json:"memory_mb"`
	DurationMS int `json:"duration_ms"`
}

// Ranking holds both orderings, each sorted ascending (cheaper / faster
// first). Both draw from the identical set of successful memory sizes.
type Ranking struct {
	Cost     []CostEntry     `json:"cost"`
	Duration []DurationEntry `json:"duration"`
}

// LogEntry records the full outcome for one memory size, success or not.
// Every memory size in the input appears exactly once in the logs.
type LogEntry struct {
	MemoryMB    int      `json:"memory_mb"`
	Success     bool     `json:"success"`
	AverageMS   int      `json:"average_duration_ms,omitempty"`
	DurationsMS []int    `json:"durations_ms,omitempty"`
	CostUSD     float64  `json:"execution_cost_usd,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// Report is the immutable result of one benchmark run.
type Report struct {
	Ranking Ranking    `json:"ranking"`
	Logs    []LogEntry `json:"logs"`
	Notes   []string   `json:"notes"`
}

var reportNotes = []string{
	"Results reflect one specific workload; other workloads scale differently with memory.",
	"Duration measurements exclude cold starts unless ignore_coldstart is disabled.",
	"Costs use the published on-demand duration rates and exclude request charges and free tier.",
}

type aggregator struct {
	table  pricing.Table
	logger *log.Entry
}

// aggregate reduces per-memory outcomes into the final report. It is a pure
// function of its input: failed outcomes (including cost lookup failures)
// land in the logs only, successes land in the logs and both rankings.
func (a *aggregator) aggregate(outcomes []MemoryOutcome) *Report {
	report := &Report{Notes: reportNotes}

	for _, o := range outcomes {
		entry := LogEntry{MemoryMB: o.MemoryMB, Success: o.Success, Errors: o.Errors}

		if !o.Success {
			report.Logs = append(report.Logs, entry)
			continue
		}

		cost, err := a.table.Cost(o.MemoryMB, o.AverageMS)
		if err != nil {
			e := fmt.Errorf("%w: %v", ErrCost, err)
			a.logger.Warn(e)
			entry.Success = false
			entry.Errors = append(entry.Errors, e.Error())
			report.Logs = append(report.Logs, entry)
			continue
		}

		entry.AverageMS = o.AverageMS
		entry.DurationsMS = o.DurationsMS
		entry.CostUSD = cost
		report.Logs = append(report.Logs, entry)

		report.Ranking.Cost = append(report.Ranking.Cost, CostEntry{MemoryMB: o.MemoryMB, CostUSD: cost})
		report.Ranking.Duration = append(report.Ranking.Duration, DurationEntry{MemoryMB: o.MemoryMB, DurationMS: o.AverageMS})
	}

	// Stable sorts keep the caller's memory order on ties.
	sort.SliceStable(report.Ranking.Cost, func(i, j int) bool {
		return report.Ranking.Cost[i].CostUSD < report.Ranking.Cost[j].CostUSD
	})
	sort.SliceStable(report.Ranking.Duration, func(i, j int) bool {
		return report.Ranking.Duration[i].DurationMS < report.Ranking.Duration[j].DurationMS
	})

	return report
}
