package harness

// Observer receives progress events. Every method is called from the
// harness goroutine and never inside a timed section.
type Observer interface {
	Trial(benchmark, backend string, trial int, cost float64)
	Backend(benchmark string, r Result)
	Image(benchmark, backend, path string)
	Compared(c *Comparison)
}

// Observers fans every event out to each member in order.
type Observers []Observer

func (os Observers) Trial(benchmark, backend string, trial int, cost float64) {
	for _, o := range os {
		o.Trial(benchmark, backend, trial, cost)
	}
}

func (os Observers) Backend(benchmark string, r Result) {
	for _, o := range os {
		o.Backend(benchmark, r)
	}
}

func (os Observers) Image(benchmark, backend, path string) {
	for _, o := range os {
		o.Image(benchmark, backend, path)
	}
}

func (os Observers) Compared(c *Comparison) {
	for _, o := range os {
		o.Compared(c)
	}
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) Trial(string, string, int, float64) {}
func (NopObserver) Backend(string, Result)             {}
func (NopObserver) Image(string, string, string)       {}
func (NopObserver) Compared(*Comparison)               {}
