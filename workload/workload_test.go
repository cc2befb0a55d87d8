package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/kernbench/buffer"
)

func TestOptionsReference(t *testing.T) {
	in, err := NewGenerator(Config{Count: 5}).Options()
	require.NoError(t, err)
	require.NoError(t, in.Validate())
	require.Equal(t, 5, in.Len())

	for i := 0; i < in.Len(); i++ {
		assert.Equal(t, float32(100), in.S[i])
		assert.Equal(t, float32(98), in.X[i])
		assert.Equal(t, float32(2), in.T[i])
		assert.Equal(t, float32(0.02), in.R[i])
		assert.Equal(t, float32(5), in.V[i])
	}
}

func TestOptionsDeterministic(t *testing.T) {
	cfg := Config{Count: 64, Seed: 42, Spread: 0.2}

	a, err := NewGenerator(cfg).Options()
	require.NoError(t, err)
	b, err := NewGenerator(cfg).Options()
	require.NoError(t, err)

	assert.Equal(t, a, b)

	cfg.Seed = 43
	c, err := NewGenerator(cfg).Options()
	require.NoError(t, err)
	assert.NotEqual(t, a.S, c.S)
}

func TestOptionsSpreadBounds(t *testing.T) {
	in, err := NewGenerator(Config{Count: 500, Seed: 7, Spread: 0.1}).Options()
	require.NoError(t, err)

	for i := 0; i < in.Len(); i++ {
		assert.InDelta(t, 100, in.S[i], 10.0001)
		assert.InDelta(t, 98, in.X[i], 9.8001)
		assert.Greater(t, in.T[i], float32(0))
		assert.Greater(t, in.V[i], float32(0))
	}
}

func TestOptionsRejectsBadConfig(t *testing.T) {
	tests := map[string]Config{
		"zero count":      {Count: 0},
		"negative count":  {Count: -3},
		"negative spread": {Count: 1, Spread: -0.1},
		"spread too wide": {Count: 1, Spread: 1},
	}

	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewGenerator(cfg).Options()
			assert.Error(t, err)
		})
	}
}

func volumes(t *testing.T, nx, ny, nz int) (*buffer.Volume, *buffer.Volume, *buffer.Volume) {
	t.Helper()

	var vs [3]*buffer.Volume
	for i := range vs {
		v, err := buffer.NewVolume(nx, ny, nz)
		require.NoError(t, err)
		vs[i] = v
	}

	return vs[0], vs[1], vs[2]
}

func TestInitStencil(t *testing.T) {
	even, odd, vsq := volumes(t, 4, 3, 2)
	odd.Data[5] = 9

	require.NoError(t, InitStencil(even, odd, vsq))

	// Lower half of x: ramp in x.
	assert.Equal(t, float32(1)/4, even.Data[even.Index(1, 2, 1)])
	// Upper half of x: ramp in y.
	assert.Equal(t, float32(2)/3, even.Data[even.Index(3, 2, 1)])
	assert.Equal(t, make([]float32, 24), odd.Data)
	assert.Equal(t, float32(3*2*1)/24, vsq.Data[vsq.Index(3, 2, 1)])
	assert.Zero(t, vsq.Data[vsq.Index(3, 2, 0)])
}

func TestResetStencilKeepsVelocity(t *testing.T) {
	even, odd, vsq := volumes(t, 4, 4, 4)
	require.NoError(t, InitStencil(even, odd, vsq))

	wantEven := append([]float32(nil), even.Data...)
	wantVsq := append([]float32(nil), vsq.Data...)

	for i := range even.Data {
		even.Data[i] = -1
		odd.Data[i] = -1
	}

	ResetStencil(even, odd)

	assert.Equal(t, wantEven, even.Data)
	assert.Equal(t, make([]float32, 64), odd.Data)
	assert.Equal(t, wantVsq, vsq.Data)
}

func TestInitStencilMismatchedGrids(t *testing.T) {
	even, odd, _ := volumes(t, 4, 4, 4)
	vsq, err := buffer.NewVolume(4, 4, 5)
	require.NoError(t, err)

	assert.Error(t, InitStencil(even, odd, vsq))
}
