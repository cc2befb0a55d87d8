// Package parallel splits a kernel's iteration space across goroutines.
//
// Both strategies block until every piece has finished, so a kernel built on
// them looks like a plain synchronous call to the harness.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers returns the number of goroutines used per kernel call.
func Workers() int {
	return runtime.GOMAXPROCS(0)
}

// Static partitions [0, n) into at most Workers() contiguous bands of near
// equal size and runs fn on each band concurrently.
func Static(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}

	workers := min(Workers(), n)
	if workers == 1 {
		fn(0, n)

		return
	}

	var g errgroup.Group

	for w := 0; w < workers; w++ {
		lo := w * n / workers
		hi := (w + 1) * n / workers

		g.Go(func() error {
			fn(lo, hi)

			return nil
		})
	}

	_ = g.Wait()
}

// Tiles cuts [0, n) into tiles of grain elements (the last may be shorter)
// and hands them out dynamically to at most Workers() goroutines.
func Tiles(n, grain int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if grain <= 0 {
		grain = 1
	}

	var g errgroup.Group
	g.SetLimit(Workers())

	for lo := 0; lo < n; lo += grain {
		hi := min(lo+grain, n)

		g.Go(func() error {
			fn(lo, hi)

			return nil
		})
	}

	_ = g.Wait()
}
