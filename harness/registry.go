package harness

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateBackend is returned when a backend name is registered twice.
	ErrDuplicateBackend = errors.New("duplicate backend")
	// ErrBaseline is returned when a registry has more than one baseline.
	ErrBaseline = errors.New("baseline already registered")
)

// Role marks whether a backend is the reference or one measured against it.
type Role int

const (
	Accelerated Role = iota
	Baseline
)

func (r Role) String() string {
	if r == Baseline {
		return "baseline"
	}

	return "accelerated"
}

// MarshalText renders the role by name in reports.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a role written by MarshalText.
func (r *Role) UnmarshalText(b []byte) error {
	switch string(b) {
	case "baseline":
		*r = Baseline
	case "accelerated":
		*r = Accelerated
	default:
		return fmt.Errorf("unknown role %q", b)
	}

	return nil
}

// Kernel computes one benchmark's output into out. It must fully populate
// out and return only once all of its work, including any goroutines it
// started, is done.
type Kernel[T any] func(out T)

// Backend is one named implementation of a benchmark's kernel.
type Backend[T any] struct {
	Name   string
	Role   Role
	Kernel Kernel[T]
}

// Registry is an ordered set of backends. Iteration follows registration
// order.
type Registry[T any] struct {
	backends []Backend[T]
}

// Register appends a backend.
func (r *Registry[T]) Register(name string, role Role, k Kernel[T]) error {
	if name == "" {
		return errors.New("backend name is empty")
	}
	if k == nil {
		return fmt.Errorf("backend %s: nil kernel", name)
	}

	for _, b := range r.backends {
		if b.Name == name {
			return fmt.Errorf("%w: %s", ErrDuplicateBackend, name)
		}
		if role == Baseline && b.Role == Baseline {
			return fmt.Errorf("%w: %s, cannot add %s", ErrBaseline, b.Name, name)
		}
	}

	r.backends = append(r.backends, Backend[T]{Name: name, Role: role, Kernel: k})

	return nil
}

// MustRegister is Register for static backend tables; it panics on error.
func (r *Registry[T]) MustRegister(name string, role Role, k Kernel[T]) *Registry[T] {
	if err := r.Register(name, role, k); err != nil {
		panic(err)
	}

	return r
}

// Backends returns the registered backends in order.
func (r *Registry[T]) Backends() []Backend[T] {
	return append([]Backend[T](nil), r.backends...)
}

// Baseline returns the baseline backend, if one is registered.
func (r *Registry[T]) Baseline() (Backend[T], bool) {
	for _, b := range r.backends {
		if b.Role == Baseline {
			return b, true
		}
	}

	return Backend[T]{}, false
}

// Names lists backend names in order.
func (r *Registry[T]) Names() []string {
	names := make([]string, len(r.backends))
	for i, b := range r.backends {
		names[i] = b.Name
	}

	return names
}
