package suite

import (
	"fmt"

	"github.com/weiihann/kernbench/buffer"
	"github.com/weiihann/kernbench/config"
	"github.com/weiihann/kernbench/harness"
	"github.com/weiihann/kernbench/kernels/ao"
	"github.com/weiihann/kernbench/kernels/mandelbrot"
	"github.com/weiihann/kernbench/kernels/noise"
	"github.com/weiihann/kernbench/kernels/options"
	"github.com/weiihann/kernbench/kernels/stencil"
	"github.com/weiihann/kernbench/ppm"
	"github.com/weiihann/kernbench/workload"
)

// Relative tolerance for float outputs in the correctness check.
const tolerance = 1e-4

// registry registers one kernel per backend, in reporting order.
func registry[T any](parallel, tiled, serial harness.Kernel[T]) *harness.Registry[T] {
	return new(harness.Registry[T]).
		MustRegister(Parallel, harness.Accelerated, parallel).
		MustRegister(Tiled, harness.Accelerated, tiled).
		MustRegister(Serial, harness.Baseline, serial)
}

func imageDetail(w, h int) string {
	return fmt.Sprintf("%d x %d image", w, h)
}

func buildAO(cfg *config.Config) (harness.Runnable, error) {
	c := cfg.AO
	if _, err := buffer.Size(c.Width, c.Height, 3); err != nil {
		return nil, err
	}

	nsub := c.Subsamples

	return &harness.Benchmark[*buffer.RGB]{
		Key: "ao",
		Backends: registry(
			func(out *buffer.RGB) { ao.Parallel(nsub, out) },
			func(out *buffer.RGB) { ao.Tiled(nsub, out) },
			func(out *buffer.RGB) { ao.Serial(nsub, out) },
		),
		NewBuffer: func() (*buffer.RGB, error) { return buffer.NewRGB(c.Width, c.Height) },
		// The renderer accumulates subsamples into the buffer.
		Reset:    func(out *buffer.RGB) { out.Zero() },
		Describe: func(out *buffer.RGB) string { return imageDetail(out.Width, out.Height) },
		Image: func(out *buffer.RGB) (*ppm.Image, error) {
			return ppm.FromRGB(out.Pix, out.Width, out.Height)
		},
		Equal: func(want, got *buffer.RGB) error {
			return buffer.CompareFloat32(want.Pix, got.Pix, tolerance)
		},
	}, nil
}

func buildMandelbrot(cfg *config.Config) (harness.Runnable, error) {
	c := cfg.Mandelbrot
	if _, err := buffer.Size(c.Width, c.Height); err != nil {
		return nil, err
	}

	p := mandelbrot.Params{
		X0:            float32(c.X0),
		Y0:            float32(c.Y0),
		X1:            float32(c.X1),
		Y1:            float32(c.Y1),
		MaxIterations: c.MaxIterations,
	}

	return &harness.Benchmark[*buffer.Counts]{
		Key: "mandelbrot",
		Backends: registry(
			func(out *buffer.Counts) { mandelbrot.Parallel(p, out) },
			func(out *buffer.Counts) { mandelbrot.Tiled(p, out) },
			func(out *buffer.Counts) { mandelbrot.Serial(p, out) },
		),
		NewBuffer: func() (*buffer.Counts, error) { return buffer.NewCounts(c.Width, c.Height) },
		Describe:  func(out *buffer.Counts) string { return imageDetail(out.Width, out.Height) },
		Image: func(out *buffer.Counts) (*ppm.Image, error) {
			return ppm.FromParity(out.Pix, out.Width, out.Height)
		},
		Equal: func(want, got *buffer.Counts) error {
			return buffer.CompareInt32(want.Pix, got.Pix)
		},
	}, nil
}

func buildNoise(cfg *config.Config) (harness.Runnable, error) {
	c := cfg.Noise
	if _, err := buffer.Size(c.Width, c.Height); err != nil {
		return nil, err
	}

	p := noise.Params{
		X0: float32(c.X0),
		Y0: float32(c.Y0),
		X1: float32(c.X1),
		Y1: float32(c.Y1),
	}

	return &harness.Benchmark[*buffer.Gray]{
		Key: "noise",
		Backends: registry(
			func(out *buffer.Gray) { noise.Parallel(p, out) },
			func(out *buffer.Gray) { noise.Tiled(p, out) },
			func(out *buffer.Gray) { noise.Serial(p, out) },
		),
		NewBuffer: func() (*buffer.Gray, error) { return buffer.NewGray(c.Width, c.Height) },
		Describe:  func(out *buffer.Gray) string { return imageDetail(out.Width, out.Height) },
		Image: func(out *buffer.Gray) (*ppm.Image, error) {
			return ppm.FromGray(out.Pix, out.Width, out.Height)
		},
		Equal: func(want, got *buffer.Gray) error {
			return buffer.CompareFloat32(want.Pix, got.Pix, tolerance)
		},
	}, nil
}

type optionsKernels [3]func(*options.Inputs, *buffer.Vector)

func buildOptions(cfg *config.Config, key string, k optionsKernels) (harness.Runnable, error) {
	c := cfg.Options

	in, err := workload.NewGenerator(workload.Config{
		Count:  c.Count,
		Seed:   c.Seed,
		Spread: c.Spread,
	}).Options()
	if err != nil {
		return nil, err
	}

	bind := func(fn func(*options.Inputs, *buffer.Vector)) harness.Kernel[*buffer.Vector] {
		return func(out *buffer.Vector) { fn(in, out) }
	}

	return &harness.Benchmark[*buffer.Vector]{
		Key:       key,
		Backends:  registry(bind(k[0]), bind(k[1]), bind(k[2])),
		NewBuffer: func() (*buffer.Vector, error) { return buffer.NewVector(in.Len()) },
		Describe: func(out *buffer.Vector) string {
			return fmt.Sprintf("avg %f over %d options", out.Mean(), len(out.Data))
		},
		Equal: func(want, got *buffer.Vector) error {
			return buffer.CompareFloat32(want.Data, got.Data, tolerance)
		},
	}, nil
}

func buildBinomial(cfg *config.Config) (harness.Runnable, error) {
	return buildOptions(cfg, "options-binomial", optionsKernels{
		options.BinomialParallel, options.BinomialTiled, options.BinomialSerial,
	})
}

func buildBlackScholes(cfg *config.Config) (harness.Runnable, error) {
	return buildOptions(cfg, "options-black-scholes", optionsKernels{
		options.BlackScholesParallel, options.BlackScholesTiled, options.BlackScholesSerial,
	})
}

func buildStencil(cfg *config.Config) (harness.Runnable, error) {
	c := cfg.Stencil
	if _, err := buffer.Size(c.Nx, c.Ny, c.Nz); err != nil {
		return nil, err
	}
	if c.Nx <= 2*stencil.Halo || c.Ny <= 2*stencil.Halo || c.Nz <= 2*stencil.Halo {
		return nil, fmt.Errorf("%w: grid %dx%dx%d must exceed %d in every dimension",
			buffer.ErrSize, c.Nx, c.Ny, c.Nz, 2*stencil.Halo)
	}

	// The velocity field is read-only and shared by every backend; it is
	// built when the first backend allocates its grids.
	p := stencil.Params{Steps: c.Steps, Coef: stencil.DefaultCoefficients}

	newState := func() (*stencil.State, error) {
		s, err := stencil.NewState(c.Nx, c.Ny, c.Nz)
		if err != nil {
			return nil, err
		}

		if p.Vsq == nil {
			vsq, err := buffer.NewVolume(c.Nx, c.Ny, c.Nz)
			if err != nil {
				return nil, err
			}
			if err := workload.InitStencil(s.Even, s.Odd, vsq); err != nil {
				return nil, err
			}
			p.Vsq = vsq
		}

		return s, nil
	}

	// Kernels read p at call time, after newState has filled in Vsq.
	return &harness.Benchmark[*stencil.State]{
		Key: "stencil",
		Backends: registry(
			func(s *stencil.State) { stencil.Parallel(p, s) },
			func(s *stencil.State) { stencil.Tiled(p, s) },
			func(s *stencil.State) { stencil.Serial(p, s) },
		),
		NewBuffer: newState,
		Reset:     func(s *stencil.State) { workload.ResetStencil(s.Even, s.Odd) },
		Describe: func(s *stencil.State) string {
			return fmt.Sprintf("%d x %d x %d grid, %d steps", c.Nx, c.Ny, c.Nz, c.Steps)
		},
		Equal: func(want, got *stencil.State) error {
			if err := buffer.CompareFloat32(want.Even.Data, got.Even.Data, tolerance); err != nil {
				return fmt.Errorf("even grid: %w", err)
			}
			if err := buffer.CompareFloat32(want.Odd.Data, got.Odd.Data, tolerance); err != nil {
				return fmt.Errorf("odd grid: %w", err)
			}

			return nil
		},
	}, nil
}
