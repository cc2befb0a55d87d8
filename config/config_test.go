package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg, err := Default().Resolve()
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.AO.Width)
	assert.Equal(t, 768, cfg.Mandelbrot.Width)
	assert.Equal(t, 131072, cfg.Options.Count)
	assert.Equal(t, 256, cfg.Stencil.Nz)
	assert.True(t, cfg.Images)
	assert.False(t, cfg.Check)
}

func TestDecodeOverlaysDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
scale: 0.5
out_dir: out
trials: {serial: 2}
ao: {width: 64, trials: {tiled: 4}}
options: {count: 100, spread: 0.1}
`))
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Scale)
	assert.Equal(t, "out", cfg.OutDir)
	assert.Equal(t, 64, cfg.AO.Width)
	// Omitted keys keep their defaults.
	assert.Equal(t, 256, cfg.AO.Height)
	assert.Equal(t, 2, cfg.AO.Subsamples)
	assert.Equal(t, 100, cfg.Options.Count)
	assert.InDelta(t, 0.1, cfg.Options.Spread, 1e-12)
	assert.Equal(t, map[string]int{"tiled": 4}, cfg.AO.Trials)
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("ao: {widht: 10}\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stencil: {steps: 2}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Stencil.Steps)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveScales(t *testing.T) {
	cfg := Default()
	cfg.Scale = 0.5

	got, err := cfg.Resolve()
	require.NoError(t, err)

	assert.Equal(t, 128, got.AO.Width)
	assert.Equal(t, 384, got.Mandelbrot.Width)
	assert.Equal(t, 256, got.Mandelbrot.Height)
	assert.Equal(t, 384, got.Noise.Height)
	assert.Equal(t, 128, got.Stencil.Nx)
	assert.Equal(t, 1.0, got.Scale)

	// Counts and steps are not dimensions.
	assert.Equal(t, cfg.Options.Count, got.Options.Count)
	assert.Equal(t, cfg.Stencil.Steps, got.Stencil.Steps)

	// The receiver is left alone and the result resolves to itself.
	assert.Equal(t, 256, cfg.AO.Width)

	again, err := got.Resolve()
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestResolveRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"negative scale", func(c *Config) { c.Scale = -1 }},
		{"scale collapses image", func(c *Config) { c.Scale = 0.001 }},
		{"stencil inside halo", func(c *Config) { c.Stencil.Nx = 8 }},
		{"negative trials", func(c *Config) { c.Trials = map[string]int{"serial": -1} }},
		{"negative section trials", func(c *Config) { c.Noise.Trials = map[string]int{"tiled": -2} }},
		{"empty window", func(c *Config) { c.Mandelbrot.X1 = c.Mandelbrot.X0 }},
		{"spread too wide", func(c *Config) { c.Options.Spread = 1 }},
		{"no options", func(c *Config) { c.Options.Count = 0 }},
		{"no out dir", func(c *Config) { c.OutDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			_, err := cfg.Resolve()
			assert.Error(t, err)
		})
	}
}

func TestTrialsForPrecedence(t *testing.T) {
	cfg := Default()
	cfg.AO.Trials = map[string]int{"tiled": 9, "serial": 4}
	cfg.SetTrials(map[string]int{"serial": 2})

	defaults := map[string]int{"parallel": 3, "tiled": 7, "serial": 1}
	got := cfg.TrialsFor("ao", defaults)

	assert.Equal(t, map[string]int{"parallel": 3, "tiled": 9, "serial": 2}, got)
	// Defaults are not modified.
	assert.Equal(t, 1, defaults["serial"])

	// Both option benchmarks share one section.
	cfg.Options.Trials = map[string]int{"parallel": 11}
	assert.Equal(t, 11, cfg.TrialsFor("options-binomial", nil)["parallel"])
	assert.Equal(t, 11, cfg.TrialsFor("options-black-scholes", nil)["parallel"])

	// Unknown sections fall back to defaults plus top-level overrides.
	assert.Equal(t, map[string]int{"serial": 2}, cfg.TrialsFor("other", nil))
}

func TestSetTrialsMerges(t *testing.T) {
	cfg := Default()
	cfg.SetTrials(nil)
	assert.Nil(t, cfg.Trials)

	cfg.SetTrials(map[string]int{"serial": 1})
	cfg.SetTrials(map[string]int{"tiled": 0})
	assert.Equal(t, map[string]int{"serial": 1, "tiled": 0}, cfg.Trials)
}
