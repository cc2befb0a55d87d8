// Package ao renders ambient occlusion of a fixed scene: three spheres
// resting on a plane.
//
// Random directions are drawn from a generator seeded per row, so every
// backend renders the same image regardless of how rows are scheduled.
package ao

import (
	"math"
	"math/rand/v2"

	"github.com/weiihann/kernbench/buffer"
	"github.com/weiihann/kernbench/kernels/parallel"
)

// Samples is the number of occlusion rays per axis of the hemisphere.
const Samples = 8

const seed = 0x5eed

type vec struct{ x, y, z float32 }

func (a vec) add(b vec) vec       { return vec{a.x + b.x, a.y + b.y, a.z + b.z} }
func (a vec) sub(b vec) vec       { return vec{a.x - b.x, a.y - b.y, a.z - b.z} }
func (a vec) scale(s float32) vec { return vec{a.x * s, a.y * s, a.z * s} }
func (a vec) dot(b vec) float32   { return a.x*b.x + a.y*b.y + a.z*b.z }
func (a vec) cross(b vec) vec {
	return vec{a.y*b.z - a.z*b.y, a.z*b.x - a.x*b.z, a.x*b.y - a.y*b.x}
}

func (a vec) normalize() vec {
	l := sqrt32(a.dot(a))
	if l < 1e-17 {
		return a
	}

	return a.scale(1 / l)
}

func sqrt32(x float32) float32 { return float32(math.Sqrt(float64(x))) }

type ray struct{ org, dir vec }

type sphere struct {
	center vec
	radius float32
}

type plane struct{ p, n vec }

type hit struct {
	t   float32
	p   vec
	n   vec
	hit bool
}

var (
	spheres = [3]sphere{
		{vec{-2, 0, -3.5}, 0.5},
		{vec{-0.5, 0, -3}, 0.5},
		{vec{1, 0, -2.2}, 0.5},
	}
	ground = plane{vec{0, -0.5, 0}, vec{0, 1, 0}}
)

func (s sphere) intersect(r ray, h *hit) {
	rs := r.org.sub(s.center)
	b := rs.dot(r.dir)
	c := rs.dot(rs) - s.radius*s.radius
	d := b*b - c

	if d > 0 {
		t := -b - sqrt32(d)
		if t > 0 && t < h.t {
			h.t = t
			h.hit = true
			h.p = r.org.add(r.dir.scale(t))
			h.n = h.p.sub(s.center).normalize()
		}
	}
}

func (pl plane) intersect(r ray, h *hit) {
	d := -pl.p.dot(pl.n)
	v := r.dir.dot(pl.n)

	if float32(math.Abs(float64(v))) < 1e-17 {
		return
	}

	t := -(r.org.dot(pl.n) + d) / v
	if t > 0 && t < h.t {
		h.t = t
		h.hit = true
		h.p = r.org.add(r.dir.scale(t))
		h.n = pl.n
	}
}

func trace(r ray) hit {
	h := hit{t: 1e17}
	for _, s := range spheres {
		s.intersect(r, &h)
	}
	ground.intersect(r, &h)

	return h
}

func orthoBasis(n vec) [3]vec {
	var b [3]vec
	b[2] = n

	switch {
	case n.x < 0.6 && n.x > -0.6:
		b[1].x = 1
	case n.y < 0.6 && n.y > -0.6:
		b[1].y = 1
	case n.z < 0.6 && n.z > -0.6:
		b[1].z = 1
	default:
		b[1].x = 1
	}

	b[0] = b[1].cross(b[2]).normalize()
	b[1] = b[2].cross(b[0]).normalize()

	return b
}

func occlusion(h hit, rng *rand.Rand) float32 {
	const eps = 0.0001

	p := h.p.add(h.n.scale(eps))
	basis := orthoBasis(h.n)

	var occluded float32
	for j := 0; j < Samples; j++ {
		for i := 0; i < Samples; i++ {
			theta := sqrt32(rng.Float32())
			phi := 2 * math.Pi * float64(rng.Float32())

			x := float32(math.Cos(phi)) * theta
			y := float32(math.Sin(phi)) * theta
			z := sqrt32(1 - theta*theta)

			dir := basis[0].scale(x).add(basis[1].scale(y)).add(basis[2].scale(z))

			if trace(ray{org: p, dir: dir}).hit {
				occluded++
			}
		}
	}

	const total = Samples * Samples

	return (total - occluded) / total
}

func rows(nsub int, out *buffer.RGB, lo, hi int) {
	w, h := float32(out.Width), float32(out.Height)
	inv := 1 / float32(nsub*nsub)

	for y := lo; y < hi; y++ {
		rng := rand.New(rand.NewPCG(seed, uint64(y)))

		for x := 0; x < out.Width; x++ {
			px := out.Pix[3*(y*out.Width+x) : 3*(y*out.Width+x)+3]

			for v := 0; v < nsub; v++ {
				for u := 0; u < nsub; u++ {
					sx := (float32(x) + float32(u)/float32(nsub) - w/2) / (w / 2)
					sy := -(float32(y) + float32(v)/float32(nsub) - h/2) / (h / 2)

					r := ray{dir: vec{sx, sy, -1}.normalize()}

					isect := trace(r)
					if !isect.hit {
						continue
					}

					c := occlusion(isect, rng)
					px[0] += c
					px[1] += c
					px[2] += c
				}
			}

			px[0] *= inv
			px[1] *= inv
			px[2] *= inv
		}
	}
}

// Serial renders every row on the calling goroutine. nsub is the number of
// subsamples per pixel axis. out accumulates, so it must start zeroed.
func Serial(nsub int, out *buffer.RGB) {
	rows(nsub, out, 0, out.Height)
}

// Parallel renders contiguous bands of rows concurrently.
func Parallel(nsub int, out *buffer.RGB) {
	parallel.Static(out.Height, func(lo, hi int) { rows(nsub, out, lo, hi) })
}

// Tiled renders single rows from a shared queue.
func Tiled(nsub int, out *buffer.RGB) {
	parallel.Tiles(out.Height, 1, func(lo, hi int) { rows(nsub, out, lo, hi) })
}
