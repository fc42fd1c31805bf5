package graphics

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8},
		{100, 128}, {128, 128}, {129, 256}, {1000, 1024}, {4097, 8192},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextPowerOfTwo(tt.in), "NextPowerOfTwo(%d)", tt.in)
	}
}

func TestFixAlphaBleedOpaqueUnchanged(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	for i := range img.Pix {
		img.Pix[i] = uint8(i*37 + 1)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	want := append([]byte(nil), img.Pix...)
	FixAlphaBleed(img)
	assert.Equal(t, want, img.Pix)
}

func TestFixAlphaBleedAveragesNeighbours(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	var sum [3]int
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := color.NRGBA{uint8(10*x + y), uint8(20 * y), uint8(5*x + 7*y), 255}
			img.SetNRGBA(x, y, c)
			if x <= 2 && y <= 2 && !(x == 1 && y == 1) {
				sum[0] += int(c.R)
				sum[1] += int(c.G)
				sum[2] += int(c.B)
			}
		}
	}
	img.SetNRGBA(1, 1, color.NRGBA{200, 200, 200, 0})

	FixAlphaBleed(img)

	got := img.NRGBAAt(1, 1)
	assert.Equal(t, color.NRGBA{uint8(sum[0] / 8), uint8(sum[1] / 8), uint8(sum[2] / 8), 0}, got)
}

func TestFixAlphaBleedEdgeClamped(t *testing.T) {
	img := filledImage(3, 3, color.NRGBA{})
	img.SetNRGBA(1, 0, color.NRGBA{90, 60, 30, 255})
	img.SetNRGBA(0, 1, color.NRGBA{30, 0, 90, 128})

	FixAlphaBleed(img)

	// (0,0) sees both opaque pixels.
	assert.Equal(t, color.NRGBA{60, 30, 60, 0}, img.NRGBAAt(0, 0))
	// (2,2) sees neither.
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(2, 2))
	// Opaque pixels are never written.
	assert.Equal(t, color.NRGBA{90, 60, 30, 255}, img.NRGBAAt(1, 0))
}

func TestFixAlphaBleedCornerCountsEachNeighbourOnce(t *testing.T) {
	img := filledImage(2, 2, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(0, 0, color.NRGBA{})
	img.SetNRGBA(1, 0, color.NRGBA{90, 30, 0, 255})

	FixAlphaBleed(img)

	// Neighbours (1,0), (0,1) and (1,1) weigh the same.
	assert.Equal(t, color.NRGBA{30, 10, 0, 0}, img.NRGBAAt(0, 0))
}

func TestFixAlphaBleedEdgeCountsEachNeighbourOnce(t *testing.T) {
	img := filledImage(3, 3, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{})
	img.SetNRGBA(0, 0, color.NRGBA{60, 0, 0, 255})

	FixAlphaBleed(img)

	// Five distinct neighbours on the top edge.
	assert.Equal(t, color.NRGBA{12, 0, 0, 0}, img.NRGBAAt(1, 0))
}

func TestFixAlphaBleedSkipsTinyImages(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 4))
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})
	FixAlphaBleed(img)
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 1))
}

func TestFixAlphaBleedLargeImage(t *testing.T) {
	// Large enough for parallel.Line to split the rows.
	img := filledImage(64, 512, color.NRGBA{0, 0, 0, 0})
	for y := 0; y < 512; y += 2 {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{100, 150, 200, 255})
		}
	}
	FixAlphaBleed(img)
	for y := 1; y < 512; y += 2 {
		assert.Equal(t, color.NRGBA{100, 150, 200, 0}, img.NRGBAAt(31, y))
	}
}

func TestPadToPowerOfTwo(t *testing.T) {
	img := filledImage(5, 3, color.NRGBA{1, 2, 3, 4})
	p := PadToPowerOfTwo(img)
	require.Equal(t, image.Rect(0, 0, 8, 4), p.Rect)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			want := color.NRGBA{}
			if x < 5 && y < 3 {
				want = color.NRGBA{1, 2, 3, 4}
			}
			assert.Equal(t, want, p.NRGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}

	pot := filledImage(4, 8, color.NRGBA{})
	assert.Same(t, pot, PadToPowerOfTwo(pot))
}

func TestExtendEdges(t *testing.T) {
	img := filledImage(3, 3, color.NRGBA{})
	img.SetNRGBA(2, 0, color.NRGBA{10, 0, 0, 255})
	img.SetNRGBA(2, 2, color.NRGBA{20, 0, 0, 255})
	img.SetNRGBA(0, 2, color.NRGBA{30, 0, 0, 255})
	p := PadToPowerOfTwo(img)

	ExtendEdges(p, 3, 3)

	assert.Equal(t, color.NRGBA{10, 0, 0, 255}, p.NRGBAAt(3, 0))
	assert.Equal(t, color.NRGBA{30, 0, 0, 255}, p.NRGBAAt(0, 3))
	assert.Equal(t, color.NRGBA{20, 0, 0, 255}, p.NRGBAAt(3, 3), "corner")
	assert.Equal(t, color.NRGBA{}, p.NRGBAAt(3, 1))
}

func TestToNRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(2, 2, 4, 4))
	src.Set(2, 2, color.RGBA{128, 0, 0, 128})
	got := ToNRGBA(src)
	require.Equal(t, image.Rect(0, 0, 2, 2), got.Rect)
	assert.Equal(t, color.NRGBA{255, 0, 0, 128}, got.NRGBAAt(0, 0))

	n := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	assert.Same(t, n, ToNRGBA(n))
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	img := filledImage(3, 2, color.NRGBA{9, 8, 7, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	name := filepath.Join(dir, "sprite.png")
	require.NoError(t, os.WriteFile(name, buf.Bytes(), 0o644))

	got, err := DecodeFile(name)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, got.Pix)

	_, err = DecodeFile(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, ErrDecode)

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = DecodeFile(bad)
	assert.ErrorIs(t, err, ErrDecode)
}
