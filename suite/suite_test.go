package suite

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/kernbench/config"
	"github.com/weiihann/kernbench/harness"
	"github.com/weiihann/kernbench/ppm"
)

// small returns a configuration cheap enough to run every backend.
func small(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.OutDir = t.TempDir()
	cfg.AO.Width, cfg.AO.Height, cfg.AO.Subsamples = 12, 8, 1
	cfg.Mandelbrot.Width, cfg.Mandelbrot.Height = 24, 16
	cfg.Noise.Width, cfg.Noise.Height = 16, 16
	cfg.Options.Count = 300
	cfg.Options.Spread = 0.2
	cfg.Stencil.Nx, cfg.Stencil.Ny, cfg.Stencil.Nz = 12, 10, 11
	cfg.Stencil.Steps = 3
	cfg.Trials = map[string]int{Parallel: 1, Tiled: 1, Serial: 2}

	cfg, err := cfg.Resolve()
	require.NoError(t, err)

	return cfg
}

func TestCatalogue(t *testing.T) {
	assert.Equal(t, []string{
		"ao", "mandelbrot", "noise",
		"options-binomial", "options-black-scholes", "stencil",
	}, Names())

	for _, e := range Catalogue() {
		assert.NotEmpty(t, e.Description, e.Name)
		assert.Len(t, e.DefaultTrials, 3, e.Name)
	}
}

func TestBuildOrderAndBackends(t *testing.T) {
	plan, err := Build(config.Default(), nil)
	require.NoError(t, err)
	require.Len(t, plan, len(Names()))

	for i, p := range plan {
		assert.Equal(t, Names()[i], p.Benchmark.Name())
		assert.Equal(t, []string{Parallel, Tiled, Serial}, p.Benchmark.BackendNames())
		assert.Equal(t, Serial, p.Benchmark.Baseline())
	}

	assert.Equal(t, harness.Trials{Parallel: 3, Tiled: 7, Serial: 1}, plan[0].Trials)
	assert.Equal(t, harness.Trials{Parallel: 7, Tiled: 7, Serial: 7}, plan[3].Trials)
}

func TestBuildSelection(t *testing.T) {
	plan, err := Build(config.Default(), []string{"stencil", "mandelbrot"})
	require.NoError(t, err)
	require.Len(t, plan, 2)

	// Catalogue order, not argument order.
	assert.Equal(t, "mandelbrot", plan[0].Benchmark.Name())
	assert.Equal(t, "stencil", plan[1].Benchmark.Name())
}

func TestBuildRejects(t *testing.T) {
	_, err := Build(config.Default(), []string{"raytrace"})
	assert.ErrorContains(t, err, "unknown benchmark")

	cfg := config.Default()
	cfg.SetTrials(map[string]int{"gpu": 1})
	_, err = Build(cfg, []string{"noise"})
	assert.ErrorContains(t, err, "unknown backend")

	cfg = config.Default()
	cfg.Stencil.Nx = 4
	_, err = Build(cfg, []string{"stencil"})
	assert.Error(t, err)
}

func TestRunAllBackendsAgree(t *testing.T) {
	cfg := small(t)

	plan, err := Build(cfg, nil)
	require.NoError(t, err)

	runner := harness.NewRunner(harness.RunConfig{
		OutDir: cfg.OutDir,
		Images: true,
		Check:  true,
	}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, p := range plan {
		t.Run(p.Benchmark.Name(), func(t *testing.T) {
			cmp, err := p.Benchmark.Run(context.Background(), runner, p.Trials)
			require.NoError(t, err)

			require.Len(t, cmp.Results, 3)
			assert.Empty(t, cmp.Mismatches)
			assert.Len(t, cmp.Speedups, 2)

			for _, r := range cmp.Results {
				assert.NotEmpty(t, r.Detail)
			}
			base, ok := cmp.Baseline()
			require.True(t, ok)
			assert.Equal(t, 2, base.Trials)
		})
	}
}

func TestRunWritesImages(t *testing.T) {
	cfg := small(t)

	plan, err := Build(cfg, []string{"ao", "mandelbrot", "noise", "stencil"})
	require.NoError(t, err)

	runner := harness.NewRunner(harness.RunConfig{
		OutDir: cfg.OutDir,
		Images: true,
	}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	sizes := map[string][2]int{
		"ao":         {12, 8},
		"mandelbrot": {24, 16},
		"noise":      {16, 16},
	}

	for _, p := range plan {
		_, err := p.Benchmark.Run(context.Background(), runner, p.Trials)
		require.NoError(t, err)
	}

	for bench, size := range sizes {
		for _, be := range []string{Parallel, Tiled, Serial} {
			img, err := ppm.ReadFile(harness.ImagePath(cfg.OutDir, bench, be))
			require.NoError(t, err, bench)
			assert.Equal(t, size[0], img.Width, bench)
			assert.Equal(t, size[1], img.Height, bench)
		}
	}

	// The stencil has no visualization.
	_, err = os.Stat(filepath.Join(cfg.OutDir, "stencil-serial.ppm"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
