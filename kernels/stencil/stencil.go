// Package stencil propagates a 3-D wave with an 8th-order finite-difference
// stencil, ping-ponging between two grids.
package stencil

import (
	"fmt"

	"github.com/weiihann/kernbench/buffer"
	"github.com/weiihann/kernbench/kernels/parallel"
)

// Halo is the stencil radius; cells closer than Halo to a face are never
// written.
const Halo = 4

// DefaultCoefficients weight the centre and the rings at distance 1..3.
var DefaultCoefficients = [4]float32{0.5, -0.25, 0.125, -0.0625}

// Params describes one propagation run.
type Params struct {
	Steps int
	Coef  [4]float32
	// Vsq is the squared velocity field, read-only during propagation.
	Vsq *buffer.Volume
}

// State is the pair of grids time steps alternate between. Even steps read
// Even and write Odd; odd steps read Odd and write Even.
type State struct {
	Even, Odd *buffer.Volume
}

// NewState allocates zeroed grids of the given dimensions.
func NewState(nx, ny, nz int) (*State, error) {
	if nx <= 2*Halo || ny <= 2*Halo || nz <= 2*Halo {
		return nil, fmt.Errorf("%w: grid %dx%dx%d smaller than stencil halo", buffer.ErrSize, nx, ny, nz)
	}

	even, err := buffer.NewVolume(nx, ny, nz)
	if err != nil {
		return nil, err
	}

	odd, err := buffer.NewVolume(nx, ny, nz)
	if err != nil {
		return nil, err
	}

	return &State{Even: even, Odd: odd}, nil
}

// Final returns the grid written by the last of steps time steps.
func (s *State) Final(steps int) *buffer.Volume {
	if steps%2 == 1 {
		return s.Odd
	}

	return s.Even
}

// step updates planes z in [zlo, zhi) of out from in.
func step(p Params, in, out *buffer.Volume, zlo, zhi int) {
	nx, nxy := in.Nx, in.Nx*in.Ny
	a, next, vsq := in.Data, out.Data, p.Vsq.Data
	c := p.Coef

	for z := zlo; z < zhi; z++ {
		for y := Halo; y < in.Ny-Halo; y++ {
			for x := Halo; x < nx-Halo; x++ {
				i := z*nxy + y*nx + x

				div := c[0]*a[i] +
					c[1]*(a[i+1]+a[i-1]+a[i+nx]+a[i-nx]+a[i+nxy]+a[i-nxy]) +
					c[2]*(a[i+2]+a[i-2]+a[i+2*nx]+a[i-2*nx]+a[i+2*nxy]+a[i-2*nxy]) +
					c[3]*(a[i+3]+a[i-3]+a[i+3*nx]+a[i-3*nx]+a[i+3*nxy]+a[i-3*nxy])

				next[i] = 2*a[i] - next[i] + vsq[i]*div
			}
		}
	}
}

func run(p Params, s *State, sweep func(in, out *buffer.Volume, zlo, zhi int)) {
	for t := 0; t < p.Steps; t++ {
		in, out := s.Even, s.Odd
		if t&1 == 1 {
			in, out = s.Odd, s.Even
		}

		sweep(in, out, Halo, in.Nz-Halo)
	}
}

// Serial runs every time step on the calling goroutine.
func Serial(p Params, s *State) {
	run(p, s, func(in, out *buffer.Volume, zlo, zhi int) {
		step(p, in, out, zlo, zhi)
	})
}

// Parallel splits each time step's planes into contiguous bands.
func Parallel(p Params, s *State) {
	run(p, s, func(in, out *buffer.Volume, zlo, zhi int) {
		parallel.Static(zhi-zlo, func(lo, hi int) {
			step(p, in, out, zlo+lo, zlo+hi)
		})
	})
}

// Tiled hands out single planes of each time step from a shared queue.
func Tiled(p Params, s *State) {
	run(p, s, func(in, out *buffer.Volume, zlo, zhi int) {
		parallel.Tiles(zhi-zlo, 1, func(lo, hi int) {
			step(p, in, out, zlo+lo, zlo+hi)
		})
	})
}
