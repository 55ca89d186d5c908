package benchmark

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/lambdatune/lambdatune/internal/lambdaapi"
)

// defaultSettleInterval is how long the sweep waits after a configuration
// change before sampling. The control plane is eventually consistent; an
// immediate invoke can still land on the old configuration.
const defaultSettleInterval = 5 * time.Second

// MemoryOutcome is the sweep result for one memory size. AverageMS is only
// meaningful when Success is true and DurationsMS is non-empty.
type MemoryOutcome struct {
	MemoryMB    int
	Success     bool
	DurationsMS []int
	AverageMS   int
	Errors      []string
}

// sweeper drives the per-memory benchmark steps. Memory sizes are processed
// strictly sequentially: every size reconfigures the same live function, so
// concurrent sweeps would race on its single configuration. Only sample
// collection within a size is concurrent.
type sweeper struct {
	api            lambdaapi.API
	cfg            *Config
	settleInterval time.Duration
	logger         *log.Entry
}

// sweep benchmarks every configured memory size in caller order. The
// progress hook, when non-nil, is called after each size completes.
func (s *sweeper) sweep(ctx context.Context, progress func(memoryMB int)) []MemoryOutcome {
	outcomes := make([]MemoryOutcome, 0, len(s.cfg.MemorySets))
	for _, m := range s.cfg.MemorySets {
		s.logger.WithField("memory_mb", m).Info("benchmarking memory size")
		outcomes = append(outcomes, s.sweepOne(ctx, m))
		if progress != nil {
			progress(m)
		}
	}
	return outcomes
}

// sweepOne benchmarks a single memory size: reconfigure, wait for the
// change to propagate, sample, average.
func (s *sweeper) sweepOne(ctx context.Context, memoryMB int) MemoryOutcome {
	outcome := MemoryOutcome{MemoryMB: memoryMB}

	if err := s.api.SetConfig(ctx, s.cfg.TargetFunction, memoryMB, s.cfg.TimeoutMS); err != nil {
		e := fmt.Errorf("%w: cannot allocate %d MB to function %s: %v",
			ErrConfigSet, memoryMB, s.cfg.TargetFunction, err)
		s.logger.Warn(e)
		outcome.Errors = append(outcome.Errors, e.Error())
		return outcome
	}

	time.Sleep(s.settleInterval)

	col := &collector{
		sampler: &sampler{
			api:       s.api,
			function:  s.cfg.TargetFunction,
			payload:   s.cfg.InvocationPayload,
			timeoutMS: s.cfg.TimeoutMS,
			logger:    s.logger.WithField("memory_mb", memoryMB),
		},
		ignoreColdstart: s.cfg.IgnoreColdstart,
	}
	durations, sampleErrs := col.collect(ctx, s.cfg.TestCount, s.cfg.MaxThreads)
	outcome.Errors = append(outcome.Errors, sampleErrs...)

	if len(durations) == 0 {
		e := fmt.Errorf("no durations returned for %d MB", memoryMB)
		s.logger.Warn(e)
		outcome.Errors = append(outcome.Errors, e.Error())
		return outcome
	}

	outcome.DurationsMS = durations
	outcome.AverageMS = int(math.Round(stat.Mean(toFloat64(durations), nil)))
	outcome.Success = true
	return outcome
}

func toFloat64(vals []int) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out
}
