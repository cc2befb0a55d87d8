package buffer

import (
	"fmt"
	"math"
)

// CompareFloat32 checks that got matches want element-wise within a
// relative tolerance. Elements whose reference magnitude is below 1 are
// compared absolutely so that values near zero do not blow up the ratio.
func CompareFloat32(want, got []float32, tol float64) error {
	if len(want) != len(got) {
		return fmt.Errorf("length mismatch: want %d, got %d", len(want), len(got))
	}

	for i := range want {
		w, g := float64(want[i]), float64(got[i])
		if math.IsNaN(w) && math.IsNaN(g) {
			continue
		}

		diff := math.Abs(w - g)
		if scale := math.Abs(w); scale > 1 {
			diff /= scale
		}

		if !(diff <= tol) {
			return fmt.Errorf("element %d: want %g, got %g", i, w, g)
		}
	}

	return nil
}

// CompareInt32 checks that got matches want exactly.
func CompareInt32(want, got []int32) error {
	if len(want) != len(got) {
		return fmt.Errorf("length mismatch: want %d, got %d", len(want), len(got))
	}

	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf("element %d: want %d, got %d", i, want[i], got[i])
		}
	}

	return nil
}
