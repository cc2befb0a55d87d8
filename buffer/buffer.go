// Package buffer provides the fixed-size output containers kernels write into.
//
// Every container validates its dimensions once, at construction. Kernels
// may then index Pix freely: len(Pix) always equals the product of the
// dimensions and channel count, and never changes for the life of a run.
package buffer

import (
	"errors"
	"fmt"
	"math"
)

// ErrSize is returned for non-positive or overflowing dimensions.
var ErrSize = errors.New("invalid buffer size")

// Size returns the product of dims, or ErrSize when any dimension is not
// positive or the product does not fit in an int.
func Size(dims ...int) (int, error) {
	n := 1
	for _, d := range dims {
		if d <= 0 {
			return 0, fmt.Errorf("%w: dimension %d in %v", ErrSize, d, dims)
		}
		if n > math.MaxInt/d {
			return 0, fmt.Errorf("%w: %v overflows", ErrSize, dims)
		}
		n *= d
	}

	return n, nil
}

// RGB is a row-major image of three float32 channels per pixel.
type RGB struct {
	Width, Height int
	Pix           []float32
}

// NewRGB allocates a zeroed width x height RGB buffer.
func NewRGB(width, height int) (*RGB, error) {
	n, err := Size(width, height, 3)
	if err != nil {
		return nil, err
	}

	return &RGB{Width: width, Height: height, Pix: make([]float32, n)}, nil
}

// Zero clears every sample.
func (b *RGB) Zero() { clear(b.Pix) }

// Gray is a row-major image of one float32 sample per pixel.
type Gray struct {
	Width, Height int
	Pix           []float32
}

// NewGray allocates a zeroed width x height grey buffer.
func NewGray(width, height int) (*Gray, error) {
	n, err := Size(width, height)
	if err != nil {
		return nil, err
	}

	return &Gray{Width: width, Height: height, Pix: make([]float32, n)}, nil
}

// Zero clears every sample.
func (b *Gray) Zero() { clear(b.Pix) }

// Counts is a row-major image of per-pixel iteration counts.
type Counts struct {
	Width, Height int
	Pix           []int32
}

// NewCounts allocates a zeroed width x height count buffer.
func NewCounts(width, height int) (*Counts, error) {
	n, err := Size(width, height)
	if err != nil {
		return nil, err
	}

	return &Counts{Width: width, Height: height, Pix: make([]int32, n)}, nil
}

// Zero clears every sample.
func (b *Counts) Zero() { clear(b.Pix) }

// Vector is a flat array of float32 results.
type Vector struct {
	Data []float32
}

// NewVector allocates a zeroed vector of n elements.
func NewVector(n int) (*Vector, error) {
	if _, err := Size(n); err != nil {
		return nil, err
	}

	return &Vector{Data: make([]float32, n)}, nil
}

// Zero clears every element.
func (v *Vector) Zero() { clear(v.Data) }

// Mean returns the arithmetic mean of the vector, accumulated in float64.
func (v *Vector) Mean() float64 {
	if len(v.Data) == 0 {
		return 0
	}

	var sum float64
	for _, x := range v.Data {
		sum += float64(x)
	}

	return sum / float64(len(v.Data))
}

// Volume is an Nx x Ny x Nz grid stored x-fastest.
type Volume struct {
	Nx, Ny, Nz int
	Data       []float32
}

// NewVolume allocates a zeroed nx x ny x nz grid.
func NewVolume(nx, ny, nz int) (*Volume, error) {
	n, err := Size(nx, ny, nz)
	if err != nil {
		return nil, err
	}

	return &Volume{Nx: nx, Ny: ny, Nz: nz, Data: make([]float32, n)}, nil
}

// Index returns the offset of (x, y, z).
func (v *Volume) Index(x, y, z int) int {
	return (z*v.Ny+y)*v.Nx + x
}

// Zero clears every cell.
func (v *Volume) Zero() { clear(v.Data) }
