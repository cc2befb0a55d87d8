package ppm

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRGBClamps(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want byte
	}{
		{"zero", 0, 0},
		{"one", 1, 255},
		{"half", 0.5, 127},
		{"negative", -0.75, 0},
		{"above range", 3.2, 255},
		{"huge", 1e30, 255},
		{"nan", float32(math.NaN()), 0},
		{"inf", float32(math.Inf(1)), 255},
		{"neg inf", float32(math.Inf(-1)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := FromRGB([]float32{tt.in, tt.in, tt.in}, 1, 1)
			require.NoError(t, err)
			assert.Equal(t, []byte{tt.want, tt.want, tt.want}, img.Pix)
		})
	}
}

func TestFromRGBUniform(t *testing.T) {
	zeros := make([]float32, 4*4*3)
	img, err := FromRGB(zeros, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0}, 48), img.Pix)

	ones := make([]float32, 4*4*3)
	for i := range ones {
		ones[i] = 1
	}
	img, err = FromRGB(ones, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{255}, 48), img.Pix)
}

func TestFromRGBSizeMismatch(t *testing.T) {
	_, err := FromRGB(make([]float32, 5), 2, 1)
	assert.Error(t, err)
}

func TestFromGray(t *testing.T) {
	img, err := FromGray([]float32{0, 0.5, 1, 2}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0, 0, 0,
		127, 127, 127,
		255, 255, 255,
		255, 255, 255,
	}, img.Pix)
}

func TestFromParity(t *testing.T) {
	img, err := FromParity([]int32{0, 1, 256, 255, -3}, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		Dark, Dark, Dark,
		Bright, Bright, Bright,
		Dark, Dark, Dark,
		Bright, Bright, Bright,
		Bright, Bright, Bright,
	}, img.Pix)
}

func TestEncodeHeader(t *testing.T) {
	img := New(2, 1)
	img.Pix = []byte{1, 2, 3, 4, 5, 6}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	assert.Equal(t, "P6\n2 1\n255\n\x01\x02\x03\x04\x05\x06", buf.String())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	img := New(3, 2)
	for i := range img.Pix {
		img.Pix[i] = byte(i * 13)
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img, got)
}

func TestDecodeRejects(t *testing.T) {
	tests := map[string]string{
		"magic":     "P3\n1 1\n255\n\x00\x00\x00",
		"max value": "P6\n1 1\n65535\n\x00\x00\x00",
		"truncated": "P6\n2 2\n255\n\x00\x00\x00",
		"dims":      "P6\n0 1\n255\n",
		"garbage":   "hello",
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader([]byte(in)))
			assert.Error(t, err)
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ppm")

	img, err := FromParity([]int32{1, 2}, 2, 1)
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, img))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "P6\n2 1\n255\n", string(raw[:11]))
	assert.Len(t, raw, 11+6)

	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, img, back)
}

func TestWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.ppm")
	err := WriteFile(path, New(1, 1))
	assert.Error(t, err)
}

func TestDiff(t *testing.T) {
	a := New(2, 1)
	b := New(2, 1)
	b.Pix[1] = 10
	b.Pix[4] = 4

	res, err := Diff(a, b)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Samples)
	assert.Equal(t, 2, res.Differing)
	assert.Equal(t, 10, res.MaxAbsDiff)
	assert.InDelta(t, 14.0/6.0, res.MeanAbs, 1e-12)

	_, err = Diff(a, New(1, 2))
	assert.Error(t, err)
}
