// Package workload builds the deterministic inputs benchmarks start from:
// option batches for the pricing kernels and initial grids for the stencil.
package workload

import (
	"fmt"
	mrand "math/rand"

	"github.com/weiihann/kernbench/buffer"
	"github.com/weiihann/kernbench/kernels/options"
)

// Reference option, used for every index when Spread is zero.
const (
	Spot       = 100
	Strike     = 98
	Expiry     = 2
	Rate       = 0.02
	Volatility = 5
)

// Config controls option input generation.
type Config struct {
	Count int
	Seed  int64
	// Spread perturbs each reference value by a factor drawn uniformly from
	// [1-Spread, 1+Spread]. Zero reproduces the reference option exactly.
	Spread float64
}

// Generator produces deterministic option batches from a Config.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: mrand.New(mrand.NewSource(cfg.Seed)),
	}
}

// Options returns Count options.
func (g *Generator) Options() (*options.Inputs, error) {
	if g.cfg.Count <= 0 {
		return nil, fmt.Errorf("option count must be positive, got %d", g.cfg.Count)
	}
	if g.cfg.Spread < 0 || g.cfg.Spread >= 1 {
		return nil, fmt.Errorf("spread must be in [0, 1), got %g", g.cfg.Spread)
	}

	n := g.cfg.Count
	in := &options.Inputs{
		S: make([]float32, n),
		X: make([]float32, n),
		T: make([]float32, n),
		R: make([]float32, n),
		V: make([]float32, n),
	}

	for i := 0; i < n; i++ {
		in.S[i] = g.jitter(Spot)
		in.X[i] = g.jitter(Strike)
		in.T[i] = g.jitter(Expiry)
		in.R[i] = g.jitter(Rate)
		in.V[i] = g.jitter(Volatility)
	}

	return in, nil
}

func (g *Generator) jitter(v float64) float32 {
	if g.cfg.Spread == 0 {
		return float32(v)
	}

	f := 1 + g.cfg.Spread*(2*g.rng.Float64()-1)

	return float32(v * f)
}

// InitStencil writes the stencil's starting state: a ramp along x in the
// lower half of the grid and along y in the upper half, a zeroed second
// grid, and a velocity field growing with x*y*z.
func InitStencil(even, odd, vsq *buffer.Volume) error {
	for _, v := range []*buffer.Volume{odd, vsq} {
		if v.Nx != even.Nx || v.Ny != even.Ny || v.Nz != even.Nz {
			return fmt.Errorf(
				"grid %dx%dx%d does not match %dx%dx%d",
				v.Nx, v.Ny, v.Nz, even.Nx, even.Ny, even.Nz,
			)
		}
	}

	ResetStencil(even, odd)

	nx, ny, nz := vsq.Nx, vsq.Ny, vsq.Nz
	total := float32(nx * ny * nz)

	offset := 0
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				vsq.Data[offset] = float32(x*y*z) / total
				offset++
			}
		}
	}

	return nil
}

// ResetStencil restores both grids to their starting state without
// touching the velocity field.
func ResetStencil(even, odd *buffer.Volume) {
	nx, ny, nz := even.Nx, even.Ny, even.Nz

	offset := 0
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				if x < nx/2 {
					even.Data[offset] = float32(x) / float32(nx)
				} else {
					even.Data[offset] = float32(y) / float32(ny)
				}

				offset++
			}
		}
	}

	odd.Zero()
}
