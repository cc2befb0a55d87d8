// Package noise renders Perlin-noise turbulence over a rectangle.
package noise

import (
	"math"

	"github.com/weiihann/kernbench/buffer"
	"github.com/weiihann/kernbench/kernels/parallel"
)

// Params is the sampled region.
type Params struct {
	X0, Y0, X1, Y1 float32
}

const (
	octaves = 8
	// z coordinate of the sampled plane.
	plane = 0.6
)

var perm = func() [512]int32 {
	base := [256]int32{
		151, 160, 137, 91, 90, 15, 131, 13, 201, 95, 96, 53, 194, 233, 7, 225,
		140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23, 190, 6, 148,
		247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32,
		57, 177, 33, 88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175,
		74, 165, 71, 134, 139, 48, 27, 166, 77, 146, 158, 231, 83, 111, 229, 122,
		60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244, 102, 143, 54,
		65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169,
		200, 196, 135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64,
		52, 217, 226, 250, 124, 123, 5, 202, 38, 147, 118, 126, 255, 82, 85, 212,
		207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42, 223, 183, 170, 213,
		119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
		129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104,
		218, 246, 97, 228, 251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241,
		81, 51, 145, 235, 249, 14, 239, 107, 49, 192, 214, 31, 181, 199, 106, 157,
		184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254, 138, 236, 205, 93,
		222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
	}

	var p [512]int32
	copy(p[:256], base[:])
	copy(p[256:], base[:])

	return p
}()

func grad(x, y, z int32, dx, dy, dz float32) float32 {
	h := perm[perm[perm[x]+y]+z] & 15

	u := dy
	if h < 8 || h == 12 || h == 13 {
		u = dx
	}

	v := dz
	if h < 4 || h == 12 || h == 13 {
		v = dy
	}

	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}

	return u + v
}

func weight(t float32) float32 {
	t3 := t * t * t
	t4 := t3 * t

	return 6*t4*t - 15*t4 + 10*t3
}

func lerp(t, a, b float32) float32 {
	return (1-t)*a + t*b
}

// Noise returns 3-D Perlin noise at (x, y, z).
func Noise(x, y, z float32) float32 {
	fx := float32(math.Floor(float64(x)))
	fy := float32(math.Floor(float64(y)))
	fz := float32(math.Floor(float64(z)))

	dx, dy, dz := x-fx, y-fy, z-fz
	ix, iy, iz := int32(fx)&255, int32(fy)&255, int32(fz)&255

	w000 := grad(ix, iy, iz, dx, dy, dz)
	w100 := grad(ix+1, iy, iz, dx-1, dy, dz)
	w010 := grad(ix, iy+1, iz, dx, dy-1, dz)
	w110 := grad(ix+1, iy+1, iz, dx-1, dy-1, dz)
	w001 := grad(ix, iy, iz+1, dx, dy, dz-1)
	w101 := grad(ix+1, iy, iz+1, dx-1, dy, dz-1)
	w011 := grad(ix, iy+1, iz+1, dx, dy-1, dz-1)
	w111 := grad(ix+1, iy+1, iz+1, dx-1, dy-1, dz-1)

	wx, wy, wz := weight(dx), weight(dy), weight(dz)

	x00 := lerp(wx, w000, w100)
	x10 := lerp(wx, w010, w110)
	x01 := lerp(wx, w001, w101)
	x11 := lerp(wx, w011, w111)
	y0 := lerp(wy, x00, x10)
	y1 := lerp(wy, x01, x11)

	return lerp(wz, y0, y1)
}

// Turbulence sums the magnitude of n octaves of noise.
func Turbulence(x, y, z float32, n int) float32 {
	const omega = 0.6

	var sum float32
	lambda, o := float32(1), float32(1)

	for i := 0; i < n; i++ {
		v := o * Noise(lambda*x, lambda*y, lambda*z)
		if v < 0 {
			v = -v
		}
		sum += v
		lambda *= 1.99
		o *= omega
	}

	return sum * 0.5
}

func rows(p Params, out *buffer.Gray, lo, hi int) {
	dx := (p.X1 - p.X0) / float32(out.Width)
	dy := (p.Y1 - p.Y0) / float32(out.Height)

	for j := lo; j < hi; j++ {
		y := p.Y0 + float32(j)*dy
		row := out.Pix[j*out.Width : (j+1)*out.Width]

		for i := range row {
			row[i] = Turbulence(p.X0+float32(i)*dx, y, plane, octaves)
		}
	}
}

// Serial renders every row on the calling goroutine.
func Serial(p Params, out *buffer.Gray) {
	rows(p, out, 0, out.Height)
}

// Parallel renders contiguous bands of rows concurrently.
func Parallel(p Params, out *buffer.Gray) {
	parallel.Static(out.Height, func(lo, hi int) { rows(p, out, lo, hi) })
}

// Tiled renders four-row tiles from a shared queue.
func Tiled(p Params, out *buffer.Gray) {
	parallel.Tiles(out.Height, 4, func(lo, hi int) { rows(p, out, lo, hi) })
}
