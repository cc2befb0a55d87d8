// Package suite defines the benchmarks kernbench knows how to run.
//
// Each definition wires one kernel family into a harness.Benchmark: how to
// allocate its output, whether the output must be reset between trials,
// how to render it, and how to compare two backends' results.
package suite

import (
	"fmt"
	"slices"

	"github.com/weiihann/kernbench/config"
	"github.com/weiihann/kernbench/harness"
)

// Backend names shared by every benchmark. Registration order is
// accelerated-A, accelerated-B, baseline.
const (
	Parallel = "parallel"
	Tiled    = "tiled"
	Serial   = "serial"
)

// Entry is one benchmark in the catalogue.
type Entry struct {
	Name          string
	Description   string
	DefaultTrials harness.Trials
	build         func(cfg *config.Config) (harness.Runnable, error)
}

func uniformTrials(n int) harness.Trials {
	return harness.Trials{Parallel: n, Tiled: n, Serial: n}
}

// Catalogue lists every benchmark in run order.
func Catalogue() []Entry {
	return []Entry{
		{
			Name:          "ao",
			Description:   "ambient occlusion of three spheres on a plane",
			DefaultTrials: harness.Trials{Parallel: 3, Tiled: 7, Serial: 1},
			build:         buildAO,
		},
		{
			Name:          "mandelbrot",
			Description:   "Mandelbrot escape counts",
			DefaultTrials: uniformTrials(3),
			build:         buildMandelbrot,
		},
		{
			Name:          "noise",
			Description:   "Perlin noise turbulence",
			DefaultTrials: uniformTrials(3),
			build:         buildNoise,
		},
		{
			Name:          "options-binomial",
			Description:   "binomial lattice put pricing",
			DefaultTrials: uniformTrials(7),
			build:         buildBinomial,
		},
		{
			Name:          "options-black-scholes",
			Description:   "Black-Scholes call pricing",
			DefaultTrials: uniformTrials(7),
			build:         buildBlackScholes,
		},
		{
			Name:          "stencil",
			Description:   "3-D wave stencil propagation",
			DefaultTrials: uniformTrials(3),
			build:         buildStencil,
		},
	}
}

// Names lists benchmark names in catalogue order.
func Names() []string {
	entries := Catalogue()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	return names
}

// Planned is a constructed benchmark and the trials it will run with.
type Planned struct {
	Benchmark   harness.Runnable
	Description string
	Trials      harness.Trials
}

// Build constructs the named benchmarks, in catalogue order, with their
// trial counts resolved against cfg. No names selects every benchmark.
func Build(cfg *config.Config, names []string) ([]Planned, error) {
	selected := make(map[string]bool, len(names))
	known := Names()

	for _, n := range names {
		if !slices.Contains(known, n) {
			return nil, fmt.Errorf("unknown benchmark %q (have %v)", n, known)
		}
		selected[n] = true
	}

	var plan []Planned

	for _, e := range Catalogue() {
		if len(selected) > 0 && !selected[e.Name] {
			continue
		}

		b, err := e.build(cfg)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", e.Name, err)
		}

		trials := harness.Trials(cfg.TrialsFor(e.Name, e.DefaultTrials))
		if err := b.Validate(trials); err != nil {
			return nil, fmt.Errorf("configure %s: %w", e.Name, err)
		}

		plan = append(plan, Planned{Benchmark: b, Description: e.Description, Trials: trials})
	}

	return plan, nil
}
