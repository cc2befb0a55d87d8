// Package report formats benchmark comparisons into tables, JSON and charts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/weiihann/kernbench/harness"
)

// Generate writes a markdown comparison table for the given comparisons.
func Generate(w io.Writer, comparisons []*harness.Comparison) error {
	if len(comparisons) == 0 {
		return fmt.Errorf("no results to report")
	}

	// Header.
	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)

	// Table header.
	fmt.Fprintln(w, "| Benchmark | Backend | Trials | Median | Speedup |")
	fmt.Fprintln(w, "|-----------|---------|--------|--------|---------|")

	for _, c := range comparisons {
		fastest := findFastest(c.Results)

		for _, r := range c.Results {
			name := r.Backend
			if r.Backend == fastest && len(c.Results) > 1 {
				name = "**" + name + "**"
			}

			fmt.Fprintf(w, "| %s | %s | %d | %s | %s |\n",
				c.Benchmark,
				name,
				r.Trials,
				formatMs(r.Cost),
				speedupCell(c, r),
			)
		}
	}

	// Mismatch details.
	var mismatched bool

	for _, c := range comparisons {
		for _, m := range c.Mismatches {
			if !mismatched {
				fmt.Fprintln(w)
				fmt.Fprintln(w, "Outputs: **MISMATCH**")

				mismatched = true
			}

			fmt.Fprintf(w, "  - %s/%s: %s\n", c.Benchmark, m.Backend, m.Reason)
		}
	}

	return nil
}

func speedupCell(c *harness.Comparison, r harness.Result) string {
	if r.Role == harness.Baseline {
		return "baseline"
	}

	s, ok := c.Speedup(r.Backend)
	if !ok || !s.Computable {
		return "n/a"
	}

	return fmt.Sprintf("%.2fx", s.Ratio)
}

// Run is the JSON document describing one kernbench invocation.
type Run struct {
	ID          uuid.UUID             `json:"run_id"`
	StartedAt   time.Time             `json:"started_at"`
	Host        Host                  `json:"host"`
	Comparisons []*harness.Comparison `json:"comparisons"`
}

// NewRun stamps a new run with a random identifier and the current host.
func NewRun(started time.Time) *Run {
	return &Run{
		ID:        uuid.New(),
		StartedAt: started.UTC(),
		Host:      DescribeHost(),
	}
}

// GenerateJSON writes the run as JSON to w.
func GenerateJSON(w io.Writer, run *Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(run)
}

// findFastest returns the backend with the lowest positive cost.
func findFastest(results []harness.Result) string {
	var (
		fastest string
		best    float64
	)

	for _, r := range results {
		if r.Cost > 0 && (fastest == "" || r.Cost < best) {
			fastest, best = r.Backend, r.Cost
		}
	}

	return fastest
}

func formatMs(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.3fms", ms)
	}

	return fmt.Sprintf("%.2fs", ms/1000)
}
