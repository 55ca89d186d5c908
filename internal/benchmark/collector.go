package benchmark

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// extraRounds bounds total work against a persistently failing target, such
// as a function stuck always reporting cold starts: the collector gives up
// after the minimum number of full rounds plus this many retries.
const extraRounds = 5

// collector accumulates warm sample durations through rounds of concurrent
// invocations.
type collector struct {
	sampler         *sampler
	ignoreColdstart bool
}

// collect runs rounds of at most maxConcurrency concurrent samples until
// target warm durations are accumulated or the round ceiling is reached. It
// may return fewer than target durations; the sweep treats zero as a hard
// failure for that memory size. Sample errors are returned alongside the
// durations.
func (c *collector) collect(ctx context.Context, target, maxConcurrency int) ([]int, []string) {
	durations := make([]int, 0, target)
	var sampleErrs []string

	ceiling := (target+maxConcurrency-1)/maxConcurrency + extraRounds
	for round := 0; round < ceiling && len(durations) < target; round++ {
		want := target - len(durations)
		if want > maxConcurrency {
			want = maxConcurrency
		}

		// Each worker writes only its own slot; the round join is the only
		// synchronization the accumulator needs.
		results := make([]SampleResult, want)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrency)
		for i := 0; i < want; i++ {
			i := i
			g.Go(func() error {
				results[i] = c.sampler.sample(gctx)
				return nil
			})
		}
		_ = g.Wait() // workers never return errors; failures live in results

		for _, r := range results {
			if !r.Success {
				if r.Err != "" {
					sampleErrs = append(sampleErrs, r.Err)
				}
				continue
			}
			if r.ColdStart && c.ignoreColdstart {
				continue
			}
			durations = append(durations, r.DurationMS)
		}
	}
	return durations, sampleErrs
}
