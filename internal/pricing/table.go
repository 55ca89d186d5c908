package pricing

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Table maps a memory size in MB to the on-demand USD rate for one 100ms
// billing unit at that size.
type Table map[int]float64

// defaultRates is the provider's published per-100ms duration pricing for
// every allocatable memory size. Keys are exact: sizes outside this table
// are not benchmarkable.
var defaultRates = Table{
	128:  0.000000208,
	192:  0.000000313,
	256:  0.000000417,
	320:  0.000000521,
	384:  0.000000625,
	448:  0.000000729,
	512:  0.000000834,
	576:  0.000000938,
	640:  0.000001042,
	704:  0.000001146,
	768:  0.000001250,
	832:  0.000001354,
	896:  0.000001459,
	960:  0.000001563,
	1024: 0.000001667,
	1088: 0.000001771,
	1152: 0.000001875,
	1216: 0.000001980,
	1280: 0.000002084,
	1344: 0.000002188,
	1408: 0.000002292,
	1472: 0.000002396,
	1536: 0.000002501,
	1600: 0.000002605,
	1664: 0.000002709,
	1728: 0.000002813,
	1792: 0.000002917,
	1856: 0.000003021,
	1920: 0.000003126,
	1984: 0.000003230,
	2048: 0.000003334,
	2112: 0.000003438,
	2176: 0.000003542,
	2240: 0.000003646,
	2304: 0.000003751,
	2368: 0.000003855,
	2432: 0.000003959,
	2496: 0.000004063,
	2560: 0.000004167,
	2624: 0.000004271,
	2688: 0.000004376,
	2752: 0.000004480,
	2816: 0.000004584,
	2880: 0.000004688,
	2944: 0.000004792,
	3008: 0.000004897,
}

// Default returns the built-in price table.
func Default() Table {
	return defaultRates
}

// tableDoc is the on-disk shape emitted by cmd/pricingrefresh.
type tableDoc struct {
	Rates map[string]float64 `json:"rates"`
}

// Load reads a refreshed price table produced by cmd/pricingrefresh.
func Load(r io.Reader) (Table, error) {
	var doc tableDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode price table: %w", err)
	}
	if len(doc.Rates) == 0 {
		return nil, fmt.Errorf("price table has no rates")
	}
	t := make(Table, len(doc.Rates))
	for k, v := range doc.Rates {
		var memory int
		if _, err := fmt.Sscanf(k, "%d", &memory); err != nil {
			return nil, fmt.Errorf("price table key %q is not a memory size", k)
		}
		if v <= 0 {
			return nil, fmt.Errorf("price table rate for %s MB is not positive", k)
		}
		t[memory] = v
	}
	return t, nil
}

// Known reports whether the table carries a rate for the given memory size.
func (t Table) Known(memoryMB int) bool {
	_, ok := t[memoryMB]
	return ok
}

// Memories returns the table's memory sizes in ascending order.
func (t Table) Memories() []int {
	out := make([]int, 0, len(t))
	for m := range t {
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}
