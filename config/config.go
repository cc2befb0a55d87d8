// Package config holds kernbench's launch configuration: built-in defaults,
// an optional YAML file, scaling, trial overrides and validation.
package config

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is shared; validator.Validate caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the full launch configuration.
type Config struct {
	// Scale multiplies every image and grid dimension. It is applied once,
	// by Resolve.
	Scale  float64 `yaml:"scale" validate:"gt=0"`
	OutDir string  `yaml:"out_dir" validate:"required"`
	Images bool    `yaml:"images"`
	Check  bool    `yaml:"check"`

	// Trials overrides per-backend trial counts for every benchmark.
	Trials map[string]int `yaml:"trials" validate:"dive,gte=0"`

	AO         AO         `yaml:"ao"`
	Mandelbrot Mandelbrot `yaml:"mandelbrot"`
	Noise      Noise      `yaml:"noise"`
	Options    Options    `yaml:"options"`
	Stencil    Stencil    `yaml:"stencil"`
}

// AO configures the ambient occlusion renderer.
type AO struct {
	Width      int            `yaml:"width" validate:"gt=0"`
	Height     int            `yaml:"height" validate:"gt=0"`
	Subsamples int            `yaml:"subsamples" validate:"gt=0"`
	Trials     map[string]int `yaml:"trials" validate:"dive,gte=0"`
}

// Mandelbrot configures the escape-count image and the complex-plane window
// it covers.
type Mandelbrot struct {
	Width         int            `yaml:"width" validate:"gt=0"`
	Height        int            `yaml:"height" validate:"gt=0"`
	X0            float64        `yaml:"x0"`
	X1            float64        `yaml:"x1" validate:"gtfield=X0"`
	Y0            float64        `yaml:"y0"`
	Y1            float64        `yaml:"y1" validate:"gtfield=Y0"`
	MaxIterations int            `yaml:"max_iterations" validate:"gt=0"`
	Trials        map[string]int `yaml:"trials" validate:"dive,gte=0"`
}

// Noise configures the turbulence image and the region it samples.
type Noise struct {
	Width  int            `yaml:"width" validate:"gt=0"`
	Height int            `yaml:"height" validate:"gt=0"`
	X0     float64        `yaml:"x0"`
	X1     float64        `yaml:"x1" validate:"gtfield=X0"`
	Y0     float64        `yaml:"y0"`
	Y1     float64        `yaml:"y1" validate:"gtfield=Y0"`
	Trials map[string]int `yaml:"trials" validate:"dive,gte=0"`
}

// Options configures the option batch shared by both pricing benchmarks.
type Options struct {
	Count  int            `yaml:"count" validate:"gt=0"`
	Seed   int64          `yaml:"seed"`
	Spread float64        `yaml:"spread" validate:"gte=0,lt=1"`
	Trials map[string]int `yaml:"trials" validate:"dive,gte=0"`
}

// Stencil configures the wave propagation grid. Each dimension must leave
// room for the 4-cell halo on both sides.
type Stencil struct {
	Nx     int            `yaml:"nx" validate:"gt=8"`
	Ny     int            `yaml:"ny" validate:"gt=8"`
	Nz     int            `yaml:"nz" validate:"gt=8"`
	Steps  int            `yaml:"steps" validate:"gt=0"`
	Trials map[string]int `yaml:"trials" validate:"dive,gte=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Scale:  1,
		OutDir: ".",
		Images: true,
		AO: AO{
			Width:      256,
			Height:     256,
			Subsamples: 2,
		},
		Mandelbrot: Mandelbrot{
			Width:         768,
			Height:        512,
			X0:            -2,
			X1:            1,
			Y0:            -1,
			Y1:            1,
			MaxIterations: 256,
		},
		Noise: Noise{
			Width:  768,
			Height: 768,
			X0:     -10,
			X1:     10,
			Y0:     -10,
			Y1:     10,
		},
		Options: Options{
			Count: 128 << 10,
		},
		Stencil: Stencil{
			Nx:    256,
			Ny:    256,
			Nz:    256,
			Steps: 6,
		},
	}
}

// Load reads a YAML file over the defaults. Keys the file omits keep their
// default values; unknown keys are an error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Decode reads YAML from r over the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return cfg, nil
}

// SetTrials merges overrides into the top-level trial map.
func (c *Config) SetTrials(overrides map[string]int) {
	if len(overrides) == 0 {
		return
	}

	if c.Trials == nil {
		c.Trials = make(map[string]int, len(overrides))
	}

	maps.Copy(c.Trials, overrides)
}

// Resolve returns a validated copy of c with Scale applied to every image
// and grid dimension. The copy's Scale is 1, so resolving it again is a
// no-op.
func (c *Config) Resolve() (*Config, error) {
	if err := validate.Var(c.Scale, "gt=0"); err != nil {
		return nil, fmt.Errorf("invalid scale %g: %w", c.Scale, err)
	}

	out := *c
	out.Trials = maps.Clone(c.Trials)

	s := c.Scale
	out.AO.Width = scale(c.AO.Width, s)
	out.AO.Height = scale(c.AO.Height, s)
	out.Mandelbrot.Width = scale(c.Mandelbrot.Width, s)
	out.Mandelbrot.Height = scale(c.Mandelbrot.Height, s)
	out.Noise.Width = scale(c.Noise.Width, s)
	out.Noise.Height = scale(c.Noise.Height, s)
	out.Stencil.Nx = scale(c.Stencil.Nx, s)
	out.Stencil.Ny = scale(c.Stencil.Ny, s)
	out.Stencil.Nz = scale(c.Stencil.Nz, s)
	out.Scale = 1

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return &out, nil
}

func scale(n int, s float64) int {
	v := math.Floor(float64(n) * s)
	if v > math.MaxInt32 {
		return math.MaxInt32
	}

	return int(v)
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (%s=%v)",
			fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}

	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// section returns the per-benchmark trial map for a catalogue name.
func (c *Config) section(name string) map[string]int {
	switch name {
	case "ao":
		return c.AO.Trials
	case "mandelbrot":
		return c.Mandelbrot.Trials
	case "noise":
		return c.Noise.Trials
	case "options-binomial", "options-black-scholes":
		return c.Options.Trials
	case "stencil":
		return c.Stencil.Trials
	default:
		return nil
	}
}

// TrialsFor resolves the trial counts of benchmark name. Built-in defaults
// are overridden by the benchmark's section, which is overridden by the
// top-level map.
func (c *Config) TrialsFor(name string, defaults map[string]int) map[string]int {
	out := maps.Clone(defaults)
	if out == nil {
		out = make(map[string]int)
	}

	maps.Copy(out, c.section(name))
	maps.Copy(out, c.Trials)

	return out
}
