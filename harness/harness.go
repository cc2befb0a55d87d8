package harness

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/weiihann/kernbench/ppm"
	"github.com/weiihann/kernbench/timer"
)

// RunConfig holds options shared by every benchmark in a run.
type RunConfig struct {
	OutDir string
	Images bool
	Check  bool
}

// Runner executes benchmarks one at a time, one backend at a time.
type Runner struct {
	Timer    *timer.Timer
	Observer Observer
	Logger   *slog.Logger
	Config   RunConfig
}

// NewRunner creates a Runner timing with the system clock. A nil observer
// discards progress events.
func NewRunner(cfg RunConfig, obs Observer, logger *slog.Logger) *Runner {
	if obs == nil {
		obs = NopObserver{}
	}

	return &Runner{
		Timer:    timer.System(),
		Observer: obs,
		Logger:   logger,
		Config:   cfg,
	}
}

// Trials maps backend names to trial counts. A backend missing from the
// map runs zero trials.
type Trials map[string]int

// Runnable is a benchmark with its output buffer type erased, so that
// benchmarks over different buffers can share one driver loop.
type Runnable interface {
	Name() string
	BackendNames() []string
	Baseline() string
	Validate(trials Trials) error
	Run(ctx context.Context, r *Runner, trials Trials) (*Comparison, error)
}

// Benchmark binds a backend registry to the per-benchmark hooks the
// harness needs around the kernels.
type Benchmark[T any] struct {
	// Key names the benchmark in reports and image file names.
	Key      string
	Backends *Registry[T]

	// NewBuffer allocates one output buffer; it is called once per backend
	// that runs at least one trial.
	NewBuffer func() (T, error)

	// Reset restores the buffer's starting state before every trial. Nil
	// for kernels that overwrite every sample.
	Reset func(T)

	// Describe summarizes the final buffer for the per-backend report line.
	Describe func(T) string

	// Image maps the final buffer to a raster. Nil disables visualization.
	Image func(T) (*ppm.Image, error)

	// Equal reports how got deviates from the baseline's want. Nil disables
	// the correctness check for this benchmark.
	Equal func(want, got T) error
}

var _ Runnable = (*Benchmark[int])(nil)

func (b *Benchmark[T]) Name() string { return b.Key }

func (b *Benchmark[T]) BackendNames() []string { return b.Backends.Names() }

func (b *Benchmark[T]) Baseline() string {
	base, ok := b.Backends.Baseline()
	if !ok {
		return ""
	}

	return base.Name
}

// Validate rejects trial counts for unknown backends and negative counts.
func (b *Benchmark[T]) Validate(trials Trials) error {
	known := make(map[string]bool)
	for _, name := range b.Backends.Names() {
		known[name] = true
	}

	for name, n := range trials {
		if !known[name] {
			return fmt.Errorf("%s: unknown backend %q (have %v)", b.Key, name, b.Backends.Names())
		}
		if n < 0 {
			return fmt.Errorf("%s: backend %s: negative trial count %d", b.Key, name, n)
		}
	}

	return nil
}

// ImagePath returns where the image for backend is written.
func ImagePath(dir, benchmark, backend string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.ppm", benchmark, backend))
}

// Run measures every backend in registry order and compares them.
func (b *Benchmark[T]) Run(ctx context.Context, r *Runner, trials Trials) (*Comparison, error) {
	if err := b.Validate(trials); err != nil {
		return nil, err
	}

	logger := r.Logger.With(slog.String("benchmark", b.Key))
	cmp := &Comparison{Benchmark: b.Key}

	// Final buffers kept for the correctness check, by backend name.
	outputs := make(map[string]T)

	for _, be := range b.Backends.Backends() {
		n := trials[be.Name]
		if n == 0 {
			logger.DebugContext(ctx, "skipping backend with no trials",
				slog.String("backend", be.Name),
			)

			continue
		}

		buf, err := b.NewBuffer()
		if err != nil {
			return nil, fmt.Errorf("allocate %s buffer for %s: %w", b.Key, be.Name, err)
		}

		logger.DebugContext(ctx, "running backend",
			slog.String("backend", be.Name),
			slog.Int("trials", n),
		)

		var reset func()
		if b.Reset != nil {
			reset = func() { b.Reset(buf) }
		}

		samples := RunTrials(r.Timer, n, reset,
			func() { be.Kernel(buf) },
			func(trial int, cost float64) {
				r.Observer.Trial(b.Key, be.Name, trial, cost)
			},
		)

		res := Result{
			Backend: be.Name,
			Role:    be.Role,
			Trials:  len(samples),
			Cost:    Median(samples),
		}
		if b.Describe != nil {
			res.Detail = b.Describe(buf)
		}

		r.Observer.Backend(b.Key, res)

		if r.Config.Images && b.Image != nil {
			path, err := b.writeImage(r.Config.OutDir, be.Name, buf)
			if err != nil {
				return nil, err
			}

			res.Image = path
			r.Observer.Image(b.Key, be.Name, path)
		}

		cmp.Results = append(cmp.Results, res)

		if r.Config.Check && b.Equal != nil {
			outputs[be.Name] = buf
		}
	}

	cmp.Speedups = Speedups(cmp.Results)

	if r.Config.Check && b.Equal != nil {
		cmp.Mismatches = b.check(outputs)
		for _, m := range cmp.Mismatches {
			logger.WarnContext(ctx, "backend output disagrees with baseline",
				slog.String("backend", m.Backend),
				slog.String("reason", m.Reason),
			)
		}
	}

	r.Observer.Compared(cmp)

	return cmp, nil
}

func (b *Benchmark[T]) writeImage(dir, backend string, buf T) (string, error) {
	img, err := b.Image(buf)
	if err != nil {
		return "", fmt.Errorf("render %s image for %s: %w", b.Key, backend, err)
	}

	path := ImagePath(dir, b.Key, backend)
	if err := ppm.WriteFile(path, img); err != nil {
		return "", fmt.Errorf("write %s image for %s: %w", b.Key, backend, err)
	}

	return path, nil
}

func (b *Benchmark[T]) check(outputs map[string]T) []Mismatch {
	base, ok := b.Backends.Baseline()
	if !ok {
		return nil
	}

	want, ok := outputs[base.Name]
	if !ok {
		return nil
	}

	var mismatches []Mismatch

	for _, be := range b.Backends.Backends() {
		if be.Role == Baseline {
			continue
		}

		got, ok := outputs[be.Name]
		if !ok {
			continue
		}

		if err := b.Equal(want, got); err != nil {
			mismatches = append(mismatches, Mismatch{Backend: be.Name, Reason: err.Error()})
		}
	}

	return mismatches
}
