// Package timer measures the cost of a single kernel invocation.
//
// A measurement is an Epoch obtained from Timer.Start; there is no way to
// ask for elapsed time without one, so every reading is paired with a start.
package timer

import "time"

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Timer starts measurement epochs against a Clock.
type Timer struct {
	clock Clock
}

// New returns a Timer reading the given clock.
func New(clock Clock) *Timer {
	return &Timer{clock: clock}
}

// System returns a Timer backed by the runtime's monotonic clock.
func System() *Timer {
	return New(systemClock{})
}

// Start begins a new epoch. Earlier epochs are unaffected and may still be
// read, but the harness never overlaps them.
func (t *Timer) Start() Epoch {
	return Epoch{clock: t.clock, start: t.clock.Now()}
}

// Epoch is one running measurement.
type Epoch struct {
	clock Clock
	start time.Time
}

// Duration returns the time elapsed since the epoch started. The zero Epoch
// reports zero.
func (e Epoch) Duration() time.Duration {
	if e.clock == nil {
		return 0
	}

	d := e.clock.Now().Sub(e.start)
	if d < 0 {
		return 0
	}

	return d
}

// Elapsed returns the elapsed cost in milliseconds.
func (e Epoch) Elapsed() float64 {
	return Milliseconds(e.Duration())
}

// Milliseconds converts d into the harness's cost unit.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
