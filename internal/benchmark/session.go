package benchmark

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/lambdatune/lambdatune/internal/lambdaapi"
	"github.com/lambdatune/lambdatune/internal/pricing"
)

// Session owns one benchmark run against a single function. The target's
// configuration belongs exclusively to the session for the run's duration;
// running concurrent sweeps against the same function is not safe.
type Session struct {
	api   lambdaapi.API
	cfg   *Config
	table pricing.Table

	runID          string
	settleInterval time.Duration
	logger         *log.Entry

	// Progress, when set, is called after each memory size finishes.
	Progress func(memoryMB int)
}

// NewSession creates a session priced with the built-in table.
func NewSession(api lambdaapi.API, cfg *Config) *Session {
	return NewSessionWithTable(api, cfg, pricing.Default())
}

// NewSessionWithTable creates a session priced with a custom table, such as
// one refreshed by cmd/pricingrefresh.
func NewSessionWithTable(api lambdaapi.API, cfg *Config, table pricing.Table) *Session {
	id := uuid.NewString()
	return &Session{
		api:            api,
		cfg:            cfg,
		table:          table,
		runID:          id,
		settleInterval: defaultSettleInterval,
		logger: log.WithFields(log.Fields{
			"run_id":   id[:8],
			"function": cfg.TargetFunction,
		}),
	}
}

// RunID identifies this session in log output.
func (s *Session) RunID() string {
	return s.runID
}

// Run executes the full cycle: save original configuration → sweep →
// aggregate → restore. The returned public error strings never invalidate
// the report; only a failed configuration save aborts the run, and it does
// so before the function is mutated.
func (s *Session) Run(ctx context.Context) (*Report, []string, error) {
	original, err := s.api.GetConfig(ctx, s.cfg.TargetFunction)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrConfigSave, err)
	}
	s.logger.WithFields(log.Fields{
		"memory_mb":  original.MemoryMB,
		"timeout_ms": original.TimeoutMS,
	}).Info("saved original configuration")

	sw := &sweeper{
		api:            s.api,
		cfg:            s.cfg,
		settleInterval: s.settleInterval,
		logger:         s.logger,
	}
	outcomes := sw.sweep(ctx, s.Progress)

	agg := &aggregator{table: s.table, logger: s.logger}
	report := agg.aggregate(outcomes)

	var publicErrors []string
	for _, entry := range report.Logs {
		if !entry.Success {
			publicErrors = append(publicErrors,
				fmt.Sprintf("memory size %d MB failed: %s", entry.MemoryMB, strings.Join(entry.Errors, "; ")))
		}
	}

	// Restore happens regardless of how the sweep went.
	if err := s.api.SetConfig(ctx, s.cfg.TargetFunction, original.MemoryMB, original.TimeoutMS); err != nil {
		e := fmt.Errorf("%w: memory %d MB, timeout %d ms: %v",
			ErrConfigRestore, original.MemoryMB, original.TimeoutMS, err)
		s.logger.Warn(e)
		publicErrors = append(publicErrors, e.Error())
	} else {
		s.logger.Info("restored original configuration")
	}

	return report, publicErrors, nil
}
