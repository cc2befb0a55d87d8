package harness

import (
	"sort"

	"github.com/weiihann/kernbench/timer"
)

// RunTrials invokes call n times and returns one cost sample per trial.
//
// reset, when non-nil, runs before each trial outside the timed section.
// observe, when non-nil, runs after each sample is taken, also untimed.
// n <= 0 returns an empty sequence without calling anything.
func RunTrials(
	t *timer.Timer,
	n int,
	reset, call func(),
	observe func(trial int, cost float64),
) []float64 {
	if n <= 0 {
		return []float64{}
	}

	samples := make([]float64, 0, n)

	for i := 0; i < n; i++ {
		if reset != nil {
			reset()
		}

		epoch := t.Start()
		call()
		cost := epoch.Elapsed()

		samples = append(samples, cost)

		if observe != nil {
			observe(i, cost)
		}
	}

	return samples
}

// Median returns the lower median of samples. For odd n this is the middle
// element of the ascending sort; for even n it is the lower of the two
// middle elements, never their mean. An empty sequence reduces to 0.
// samples is not modified.
func Median(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	return sorted[(len(sorted)-1)/2]
}
