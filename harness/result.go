// Package harness times interchangeable kernel backends against each other.
package harness

import "math"

// Result is the reduced outcome of one backend's trials. Backends that ran
// zero trials produce no Result.
type Result struct {
	Backend string  `json:"backend"`
	Role    Role    `json:"role"`
	Trials  int     `json:"trials"`
	Cost    float64 `json:"median_ms"`
	Detail  string  `json:"detail,omitempty"`
	Image   string  `json:"image,omitempty"`
}

// Speedup is the baseline cost divided by one accelerated backend's cost.
// Computable is false when no baseline ran or either cost is not positive;
// Ratio is zero in that case.
type Speedup struct {
	Backend    string  `json:"backend"`
	Ratio      float64 `json:"ratio,omitempty"`
	Computable bool    `json:"computable"`
}

// Mismatch records a backend whose output disagreed with the baseline's.
type Mismatch struct {
	Backend string `json:"backend"`
	Reason  string `json:"reason"`
}

// Comparison is everything measured for one benchmark.
type Comparison struct {
	Benchmark  string     `json:"benchmark"`
	Results    []Result   `json:"results"`
	Speedups   []Speedup  `json:"speedups"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Baseline returns the baseline's result, if it ran.
func (c *Comparison) Baseline() (Result, bool) {
	for _, r := range c.Results {
		if r.Role == Baseline {
			return r, true
		}
	}

	return Result{}, false
}

// Speedup returns the speedup reported for the named backend.
func (c *Comparison) Speedup(backend string) (Speedup, bool) {
	for _, s := range c.Speedups {
		if s.Backend == backend {
			return s, true
		}
	}

	return Speedup{}, false
}

// Speedups computes baseline/accelerated for every accelerated result, in
// result order.
func Speedups(results []Result) []Speedup {
	var (
		base    float64
		hasBase bool
	)

	for _, r := range results {
		if r.Role == Baseline {
			base, hasBase = r.Cost, true

			break
		}
	}

	out := make([]Speedup, 0, len(results))

	for _, r := range results {
		if r.Role == Baseline {
			continue
		}

		s := Speedup{Backend: r.Backend}
		if hasBase && base > 0 && r.Cost > 0 {
			ratio := base / r.Cost
			if !math.IsInf(ratio, 0) && !math.IsNaN(ratio) {
				s.Ratio = ratio
				s.Computable = true
			}
		}

		out = append(out, s)
	}

	return out
}
