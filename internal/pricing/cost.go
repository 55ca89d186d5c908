package pricing

import (
	"errors"
	"fmt"
	"math"
)

// BillingUnitMS is the provider's minimum duration granularity: execution
// time is billed in 100ms increments, rounded up.
const BillingUnitMS = 100

// ErrUnknownMemory marks a cost lookup for a memory size the table does not
// price. Callers must not default it away.
var ErrUnknownMemory = errors.New("memory size not in price table")

// Cost returns the USD cost of one invocation at the given memory size and
// duration, rounded to currency micro-precision (6 decimal places).
func (t Table) Cost(memoryMB, durationMS int) (float64, error) {
	rate, ok := t[memoryMB]
	if !ok {
		return 0, fmt.Errorf("%w: %d MB", ErrUnknownMemory, memoryMB)
	}
	if durationMS < 0 {
		return 0, fmt.Errorf("negative duration %d ms for %d MB", durationMS, memoryMB)
	}
	units := (durationMS + BillingUnitMS - 1) / BillingUnitMS
	return round6(float64(units) * rate), nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
