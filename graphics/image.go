package graphics

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/anthonynsimon/bild/parallel"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeFile reads an image file into straight-alpha RGBA8.
func DecodeFile(filename string) (*image.NRGBA, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrDecode, filename, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrDecode, filename, err)
	}
	return ToNRGBA(img), nil
}

// ToNRGBA returns img as a tightly packed *image.NRGBA whose bounds start at
// the origin. img itself is returned when it already has that form.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// FixAlphaBleed gives every fully transparent pixel the average color of
// the non-transparent pixels in its 3x3 neighbourhood, cut off at the image
// edges, so linear filtering does not pull dark fringes into sprites. Alpha
// values are not changed. Images smaller than 2x2 are left alone.
func FixAlphaBleed(img *image.NRGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w < 2 || h < 2 {
		return
	}
	// Only transparent pixels are written and only opaque ones are read,
	// so rows can be processed in any order.
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Pix[y*img.Stride:]
			for x := 0; x < w; x++ {
				if row[x*4+3] == 0 {
					bleedPixel(img, x, y, w, h)
				}
			}
		}
	})
}

func bleedPixel(img *image.NRGBA, x, y, w, h int) {
	x0, x1 := max(x-1, 0), min(x+1, w-1)
	y0, y1 := max(y-1, 0), min(y+1, h-1)
	var r, g, b, n int
	for yy := y0; yy <= y1; yy++ {
		row := img.Pix[yy*img.Stride:]
		for xx := x0; xx <= x1; xx++ {
			p := row[xx*4 : xx*4+4]
			if p[3] == 0 {
				continue
			}
			r += int(p[0])
			g += int(p[1])
			b += int(p[2])
			n++
		}
	}
	if n == 0 {
		return
	}
	p := img.Pix[y*img.Stride+x*4:]
	p[0] = uint8(r / n)
	p[1] = uint8(g / n)
	p[2] = uint8(b / n)
}

// NextPowerOfTwo returns the smallest power of two >= n. It returns 1 for
// n <= 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// PadToPowerOfTwo copies img into the top-left corner of a zero-filled
// image whose dimensions are the next powers of two. img is returned as is
// when both dimensions already are.
func PadToPowerOfTwo(img *image.NRGBA) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	pw, ph := NextPowerOfTwo(w), NextPowerOfTwo(h)
	if pw == w && ph == h {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, pw, ph))
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
	}
	return dst
}

// ExtendEdges copies the last column and row of the w x h image at the
// origin of padded into the first padding column and row, corner included,
// so linear sampling at the image border sees the border color instead of
// the zero padding.
func ExtendEdges(padded *image.NRGBA, w, h int) {
	pw, ph := padded.Rect.Dx(), padded.Rect.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	if w < pw {
		for y := 0; y < h; y++ {
			row := padded.Pix[y*padded.Stride:]
			copy(row[w*4:w*4+4], row[(w-1)*4:w*4])
		}
	}
	if h < ph {
		last := padded.Pix[(h-1)*padded.Stride:]
		next := padded.Pix[h*padded.Stride:]
		n := w
		if w < pw {
			n = w + 1
		}
		copy(next[:n*4], last[:n*4])
	}
}
