package mandelbrot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/kernbench/buffer"
)

var testParams = Params{X0: -2, Y0: -1, X1: 1, Y1: 1, MaxIterations: 64}

func TestEscape(t *testing.T) {
	// The origin is in the set and never escapes.
	assert.Equal(t, int32(64), escape(0, 0, 64))
	// Far outside escapes immediately.
	assert.Equal(t, int32(0), escape(3, 3, 64))
	// -1 is on a period-2 cycle and never escapes.
	assert.Equal(t, int32(10), escape(-1, 0, 10))
}

func TestBackendsAgree(t *testing.T) {
	want, err := buffer.NewCounts(48, 32)
	require.NoError(t, err)
	Serial(testParams, want)

	for name, fn := range map[string]func(Params, *buffer.Counts){
		"parallel": Parallel,
		"tiled":    Tiled,
	} {
		got, err := buffer.NewCounts(48, 32)
		require.NoError(t, err)
		fn(testParams, got)

		assert.NoError(t, buffer.CompareInt32(want.Pix, got.Pix), name)
	}
}

func TestSerialFillsRange(t *testing.T) {
	out, err := buffer.NewCounts(16, 8)
	require.NoError(t, err)
	Serial(testParams, out)

	var inSet, escaped bool
	for _, n := range out.Pix {
		assert.GreaterOrEqual(t, n, int32(0))
		assert.LessOrEqual(t, n, int32(testParams.MaxIterations))
		inSet = inSet || n == int32(testParams.MaxIterations)
		escaped = escaped || n < int32(testParams.MaxIterations)
	}

	assert.True(t, inSet)
	assert.True(t, escaped)
}
