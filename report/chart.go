package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/weiihann/kernbench/harness"
)

// Chart writes an HTML page with two bar charts: median cost per backend,
// and speedup per accelerated backend, grouped by benchmark.
func Chart(w io.Writer, comparisons []*harness.Comparison) error {
	if len(comparisons) == 0 {
		return fmt.Errorf("no results to chart")
	}

	page := components.NewPage()
	page.PageTitle = "kernbench"
	page.AddCharts(costChart(comparisons), speedupChart(comparisons))

	return page.Render(w)
}

// WriteChart renders the chart page to path.
func WriteChart(path string, comparisons []*harness.Comparison) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close chart: %w", cerr)
		}
	}()

	if err := Chart(f, comparisons); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

func newBar(title, unit string, benchmarks []string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithYAxisOpts(opts.YAxis{Name: unit}),
	)
	bar.SetXAxis(benchmarks)

	return bar
}

func costChart(comparisons []*harness.Comparison) *charts.Bar {
	bar := newBar("Median cost", "ms", benchmarkNames(comparisons))

	for _, backend := range backendNames(comparisons) {
		data := make([]opts.BarData, 0, len(comparisons))

		for _, c := range comparisons {
			var v any = "-"

			for _, r := range c.Results {
				if r.Backend == backend {
					v = r.Cost
				}
			}

			data = append(data, opts.BarData{Value: v})
		}

		bar.AddSeries(backend, data)
	}

	return bar
}

func speedupChart(comparisons []*harness.Comparison) *charts.Bar {
	bar := newBar("Speedup over baseline", "x", benchmarkNames(comparisons))

	for _, backend := range backendNames(comparisons) {
		data := make([]opts.BarData, 0, len(comparisons))
		hasData := false

		for _, c := range comparisons {
			s, ok := c.Speedup(backend)
			if !ok || !s.Computable {
				data = append(data, opts.BarData{Value: "-"})

				continue
			}

			data = append(data, opts.BarData{Value: s.Ratio})
			hasData = true
		}

		if hasData {
			bar.AddSeries(backend, data)
		}
	}

	return bar
}

func benchmarkNames(comparisons []*harness.Comparison) []string {
	names := make([]string, len(comparisons))
	for i, c := range comparisons {
		names[i] = c.Benchmark
	}

	return names
}

// backendNames lists every backend that ran, in first-seen order.
func backendNames(comparisons []*harness.Comparison) []string {
	seen := make(map[string]bool)

	var names []string

	for _, c := range comparisons {
		for _, r := range c.Results {
			if !seen[r.Backend] {
				seen[r.Backend] = true
				names = append(names, r.Backend)
			}
		}
	}

	return names
}
