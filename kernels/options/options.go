// Package options prices batches of European options.
//
// Two models are provided: the Black-Scholes closed form for calls and a
// binomial lattice for puts. Each has a serial, a banded and a tiled
// variant computing bit-identical results.
package options

import (
	"fmt"
	"math"

	"github.com/weiihann/kernbench/buffer"
	"github.com/weiihann/kernbench/kernels/parallel"
)

// BinomialSteps is the depth of the binomial lattice.
const BinomialSteps = 64

// tile is the number of options per dynamically scheduled task.
const tile = 1024

// Inputs holds one option per index: spot price S, strike X, time to
// expiry T in years, risk-free rate R and volatility V.
type Inputs struct {
	S, X, T, R, V []float32
}

// Len returns the number of options.
func (in *Inputs) Len() int { return len(in.S) }

// Validate checks that every column has the same length.
func (in *Inputs) Validate() error {
	n := len(in.S)
	for name, col := range map[string][]float32{"X": in.X, "T": in.T, "R": in.R, "V": in.V} {
		if len(col) != n {
			return fmt.Errorf("options input %s has %d values, want %d", name, len(col), n)
		}
	}

	return nil
}

func exp32(x float32) float32  { return float32(math.Exp(float64(x))) }
func log32(x float32) float32  { return float32(math.Log(float64(x))) }
func sqrt32(x float32) float32 { return float32(math.Sqrt(float64(x))) }

// cnd is the cumulative normal distribution, polynomial approximation.
func cnd(x float32) float32 {
	l := x
	if l < 0 {
		l = -l
	}

	k := 1 / (1 + 0.2316419*l)
	k2 := k * k
	k3 := k2 * k
	k4 := k2 * k2
	k5 := k3 * k2

	const invSqrt2Pi = 0.39894228040

	w := 0.31938153*k - 0.356563782*k2 + 1.781477937*k3 - 1.821255978*k4 + 1.330274429*k5
	w *= invSqrt2Pi * exp32(-l*l*0.5)

	if x > 0 {
		w = 1 - w
	}

	return w
}

// BlackScholesCall prices one European call.
func BlackScholesCall(s, x, t, r, v float32) float32 {
	sqrtT := sqrt32(t)
	d1 := (log32(s/x) + (r+v*v*0.5)*t) / (v * sqrtT)
	d2 := d1 - v*sqrtT

	return s*cnd(d1) - x*exp32(-r*t)*cnd(d2)
}

// BinomialPut prices one European put on a BinomialSteps-deep lattice.
func BinomialPut(s, x, t, r, v float32) float32 {
	var values [BinomialSteps]float32

	dt := t / BinomialSteps
	u := exp32(v * sqrt32(dt))
	d := 1 / u
	disc := exp32(r * dt)
	pu := (disc - d) / (u - d)

	for j := 0; j < BinomialSteps; j++ {
		upow := float32(math.Pow(float64(u), float64(2*j-BinomialSteps)))
		values[j] = max(0, x-s*upow)
	}

	for j := BinomialSteps - 1; j >= 0; j-- {
		for k := 0; k < j; k++ {
			values[k] = ((1-pu)*values[k] + pu*values[k+1]) / disc
		}
	}

	return values[0]
}

type pricer func(s, x, t, r, v float32) float32

func span(price pricer, in *Inputs, out *buffer.Vector, lo, hi int) {
	for i := lo; i < hi; i++ {
		out.Data[i] = price(in.S[i], in.X[i], in.T[i], in.R[i], in.V[i])
	}
}

func serial(price pricer, in *Inputs, out *buffer.Vector) {
	span(price, in, out, 0, in.Len())
}

func banded(price pricer, in *Inputs, out *buffer.Vector) {
	parallel.Static(in.Len(), func(lo, hi int) { span(price, in, out, lo, hi) })
}

func tiled(price pricer, in *Inputs, out *buffer.Vector) {
	parallel.Tiles(in.Len(), tile, func(lo, hi int) { span(price, in, out, lo, hi) })
}

// BlackScholesSerial prices every option on the calling goroutine.
func BlackScholesSerial(in *Inputs, out *buffer.Vector) { serial(BlackScholesCall, in, out) }

// BlackScholesParallel prices contiguous bands of options concurrently.
func BlackScholesParallel(in *Inputs, out *buffer.Vector) { banded(BlackScholesCall, in, out) }

// BlackScholesTiled prices fixed-size tiles from a shared queue.
func BlackScholesTiled(in *Inputs, out *buffer.Vector) { tiled(BlackScholesCall, in, out) }

// BinomialSerial prices every option on the calling goroutine.
func BinomialSerial(in *Inputs, out *buffer.Vector) { serial(BinomialPut, in, out) }

// BinomialParallel prices contiguous bands of options concurrently.
func BinomialParallel(in *Inputs, out *buffer.Vector) { banded(BinomialPut, in, out) }

// BinomialTiled prices fixed-size tiles from a shared queue.
func BinomialTiled(in *Inputs, out *buffer.Vector) { tiled(BinomialPut, in, out) }
