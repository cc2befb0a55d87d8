// Package mandelbrot renders escape-time iteration counts of the Mandelbrot
// set over a rectangle of the complex plane.
package mandelbrot

import (
	"github.com/weiihann/kernbench/buffer"
	"github.com/weiihann/kernbench/kernels/parallel"
)

// Params is the region and iteration cap of one render.
type Params struct {
	X0, Y0, X1, Y1 float32
	MaxIterations  int
}

func escape(cRe, cIm float32, count int) int32 {
	zRe, zIm := cRe, cIm

	var i int
	for i = 0; i < count; i++ {
		if zRe*zRe+zIm*zIm > 4 {
			break
		}

		newRe := zRe*zRe - zIm*zIm
		newIm := 2 * zRe * zIm
		zRe = cRe + newRe
		zIm = cIm + newIm
	}

	return int32(i)
}

func rows(p Params, out *buffer.Counts, lo, hi int) {
	dx := (p.X1 - p.X0) / float32(out.Width)
	dy := (p.Y1 - p.Y0) / float32(out.Height)

	for j := lo; j < hi; j++ {
		y := p.Y0 + float32(j)*dy
		row := out.Pix[j*out.Width : (j+1)*out.Width]

		for i := range row {
			x := p.X0 + float32(i)*dx
			row[i] = escape(x, y, p.MaxIterations)
		}
	}
}

// Serial renders every row on the calling goroutine.
func Serial(p Params, out *buffer.Counts) {
	rows(p, out, 0, out.Height)
}

// Parallel renders contiguous bands of rows concurrently.
func Parallel(p Params, out *buffer.Counts) {
	parallel.Static(out.Height, func(lo, hi int) { rows(p, out, lo, hi) })
}

// Tiled renders two-row tiles from a shared queue. Rows near the set cost
// far more than rows far from it, which is what dynamic scheduling absorbs.
func Tiled(p Params, out *buffer.Counts) {
	parallel.Tiles(out.Height, 2, func(lo, hi int) { rows(p, out, lo, hi) })
}
