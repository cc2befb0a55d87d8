// Package ppm serializes kernel output into binary PPM (P6) images.
//
// The mappings here turn numeric samples into display bytes. They always
// clamp and never wrap: a sample above the top of its display range becomes
// 255, a sample below it (or NaN) becomes 0.
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// MaxValue is the max-channel-value written in every header.
const MaxValue = 255

// Intensities used by FromParity.
const (
	Bright byte = 240
	Dark   byte = 20
)

// Image is an 8-bit RGB raster in row-major order.
type Image struct {
	Width, Height int
	Pix           []byte
}

// New allocates a black width x height image.
func New(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]byte, width*height*3)}
}

func clampByte(v float32) byte {
	switch {
	case !(v > 0):
		// Also catches NaN.
		return 0
	case v > MaxValue:
		return MaxValue
	default:
		return byte(v)
	}
}

// FromRGB maps three-channel samples in [0,1] to bytes as f*255.5
// truncated, clamped to [0,255].
func FromRGB(pix []float32, width, height int) (*Image, error) {
	if len(pix) != width*height*3 {
		return nil, fmt.Errorf("rgb buffer has %d samples, want %d", len(pix), width*height*3)
	}

	img := New(width, height)
	for i, f := range pix {
		img.Pix[i] = clampByte(f * 255.5)
	}

	return img, nil
}

// FromGray maps one sample per pixel in [0,1] to a grey level v*255,
// clamped to [0,255] and replicated across the three channels.
func FromGray(pix []float32, width, height int) (*Image, error) {
	if len(pix) != width*height {
		return nil, fmt.Errorf("grey buffer has %d samples, want %d", len(pix), width*height)
	}

	img := New(width, height)
	for i, v := range pix {
		c := clampByte(v * 255)
		img.Pix[3*i], img.Pix[3*i+1], img.Pix[3*i+2] = c, c, c
	}

	return img, nil
}

// FromParity maps iteration counts to two greys by their low bit: odd
// counts are Bright, even counts are Dark.
func FromParity(counts []int32, width, height int) (*Image, error) {
	if len(counts) != width*height {
		return nil, fmt.Errorf("count buffer has %d samples, want %d", len(counts), width*height)
	}

	img := New(width, height)
	for i, n := range counts {
		c := Dark
		if n&1 != 0 {
			c = Bright
		}
		img.Pix[3*i], img.Pix[3*i+1], img.Pix[3*i+2] = c, c, c
	}

	return img, nil
}

// Encode writes img as a P6 image: header first, raw samples after.
func Encode(w io.Writer, img *Image) error {
	if len(img.Pix) != img.Width*img.Height*3 {
		return fmt.Errorf("image has %d bytes, want %d", len(img.Pix), img.Width*img.Height*3)
	}

	if _, err := fmt.Fprintf(w, "P6\n%d %d\n%d\n", img.Width, img.Height, MaxValue); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if _, err := w.Write(img.Pix); err != nil {
		return fmt.Errorf("write pixels: %w", err)
	}

	return nil
}

// WriteFile encodes img into path, replacing any existing file. The file is
// flushed and closed before WriteFile returns.
func WriteFile(path string, img *Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open image %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close image %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	return nil
}

// Decode reads a P6 image with a max value of 255.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	var magic string
	var width, height, maxValue int
	if _, err := fmt.Fscan(br, &magic, &width, &height, &maxValue); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if magic != "P6" {
		return nil, fmt.Errorf("unsupported magic %q", magic)
	}
	if maxValue != MaxValue {
		return nil, fmt.Errorf("unsupported max value %d", maxValue)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}

	// Exactly one whitespace byte separates the header from the samples.
	if _, err := br.ReadByte(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	img := New(width, height)
	if _, err := io.ReadFull(br, img.Pix); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("truncated pixel data: %w", err)
		}

		return nil, fmt.Errorf("read pixels: %w", err)
	}

	return img, nil
}

// ReadFile decodes the P6 image stored at path.
func ReadFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return img, nil
}

// DiffResult summarizes how two images differ.
type DiffResult struct {
	Samples    int
	Differing  int
	MaxAbsDiff int
	MeanAbs    float64
}

// Diff compares two images of equal dimensions sample by sample.
func Diff(a, b *Image) (DiffResult, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return DiffResult{}, fmt.Errorf(
			"dimension mismatch: %dx%d vs %dx%d",
			a.Width, a.Height, b.Width, b.Height,
		)
	}

	res := DiffResult{Samples: len(a.Pix)}

	var total int
	for i := range a.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		if d == 0 {
			continue
		}

		res.Differing++
		total += d
		res.MaxAbsDiff = max(res.MaxAbsDiff, d)
	}

	if res.Samples > 0 {
		res.MeanAbs = float64(total) / float64(res.Samples)
	}

	return res, nil
}
