// Package metrics records benchmark measurements as Prometheus metrics and
// exports them in the text exposition format, for node_exporter's textfile
// collector or any other scraper of static files.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/weiihann/kernbench/harness"
)

const namespace = "kernbench"

// Recorder is a harness.Observer that keeps metrics on a private registry,
// so that several recorders never collide.
type Recorder struct {
	Registry *prometheus.Registry

	// TrialCost observes every trial's cost.
	// Labels: benchmark, backend
	TrialCost *prometheus.HistogramVec

	// TrialsTotal counts completed trials.
	// Labels: benchmark, backend
	TrialsTotal *prometheus.CounterVec

	// MedianCost is the reduced cost of each backend.
	// Labels: benchmark, backend
	MedianCost *prometheus.GaugeVec

	// Speedup is baseline over accelerated cost. Non-computable ratios are
	// not exported.
	// Labels: benchmark, backend
	Speedup *prometheus.GaugeVec

	// Mismatches counts backends whose output disagreed with the baseline.
	// Labels: benchmark
	Mismatches *prometheus.GaugeVec
}

var _ harness.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := []string{"benchmark", "backend"}

	return &Recorder{
		Registry: reg,
		TrialCost: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "trial_cost_milliseconds",
				Help:      "Cost of a single kernel call in milliseconds",
				Buckets:   prometheus.ExponentialBuckets(0.25, 2, 16),
			},
			labels,
		),
		TrialsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trials_total",
				Help:      "Number of timed kernel calls",
			},
			labels,
		),
		MedianCost: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "median_cost_milliseconds",
				Help:      "Median trial cost of a backend in milliseconds",
			},
			labels,
		),
		Speedup: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "speedup_ratio",
				Help:      "Baseline median cost divided by the backend's median cost",
			},
			labels,
		),
		Mismatches: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "mismatched_backends",
				Help:      "Backends whose output disagreed with the baseline",
			},
			[]string{"benchmark"},
		),
	}
}

func (r *Recorder) Trial(benchmark, backend string, _ int, cost float64) {
	r.TrialCost.WithLabelValues(benchmark, backend).Observe(cost)
	r.TrialsTotal.WithLabelValues(benchmark, backend).Inc()
}

func (r *Recorder) Backend(benchmark string, res harness.Result) {
	r.MedianCost.WithLabelValues(benchmark, res.Backend).Set(res.Cost)
}

func (r *Recorder) Image(string, string, string) {}

func (r *Recorder) Compared(c *harness.Comparison) {
	for _, s := range c.Speedups {
		if s.Computable {
			r.Speedup.WithLabelValues(c.Benchmark, s.Backend).Set(s.Ratio)
		}
	}

	r.Mismatches.WithLabelValues(c.Benchmark).Set(float64(len(c.Mismatches)))
}

// WriteTextfile atomically writes every metric to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.Registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}

	return nil
}
