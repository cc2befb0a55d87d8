package ao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/kernbench/buffer"
)

func TestTraceHitsSphere(t *testing.T) {
	// Straight at the middle sphere.
	dir := vec{-0.5, 0, -3}.normalize()
	h := trace(ray{dir: dir})

	require.True(t, h.hit)
	assert.InDelta(t, 1, h.n.dot(h.n), 1e-5)
	assert.Greater(t, h.t, float32(2))
}

func TestTraceMissesSky(t *testing.T) {
	h := trace(ray{dir: vec{0, 1, 0}})
	assert.False(t, h.hit)
}

func TestOrthoBasis(t *testing.T) {
	for _, n := range []vec{{0, 1, 0}, {1, 0, 0}, {0, 0, 1}, vec{1, 1, 1}.normalize()} {
		b := orthoBasis(n)
		assert.InDelta(t, 0, b[0].dot(b[1]), 1e-5)
		assert.InDelta(t, 0, b[0].dot(b[2]), 1e-5)
		assert.InDelta(t, 0, b[1].dot(b[2]), 1e-5)
		assert.InDelta(t, 1, b[0].dot(b[0]), 1e-5)
	}
}

func TestRenderRange(t *testing.T) {
	out, err := buffer.NewRGB(16, 16)
	require.NoError(t, err)

	Serial(2, out)

	var lit bool
	for _, v := range out.Pix {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1.0001))
		lit = lit || v > 0
	}
	assert.True(t, lit)
}

func TestBackendsAgree(t *testing.T) {
	want, err := buffer.NewRGB(24, 16)
	require.NoError(t, err)
	Serial(2, want)

	for name, fn := range map[string]func(int, *buffer.RGB){
		"parallel": Parallel,
		"tiled":    Tiled,
	} {
		got, err := buffer.NewRGB(24, 16)
		require.NoError(t, err)
		fn(2, got)

		assert.NoError(t, buffer.CompareFloat32(want.Pix, got.Pix, 0), name)
	}
}
