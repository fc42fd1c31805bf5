package graphics

import (
	"fmt"
	"image"
)

// LoaderOptions controls how images are prepared before upload.
type LoaderOptions struct {
	// PadToPowerOfTwo stores textures in power-of-two sized storage.
	PadToPowerOfTwo bool
	// FixAlphaChannel bleeds colors into fully transparent pixels.
	FixAlphaChannel bool
	// NearestFilter disables linear filtering.
	NearestFilter bool
}

// DefaultLoaderOptions pads and fixes alpha, like the desktop build.
var DefaultLoaderOptions = LoaderOptions{PadToPowerOfTwo: true, FixAlphaChannel: true}

// Loader turns images into device textures.
type Loader struct {
	dev      Device
	textures *textureTable
	opts     LoaderOptions
}

func newLoader(dev Device, textures *textureTable, opts LoaderOptions) *Loader {
	return &Loader{dev: dev, textures: textures, opts: opts}
}

func (l *Loader) Options() LoaderOptions {
	return l.opts
}

func (l *Loader) filter() TextureSamplingParam {
	if l.opts.NearestFilter {
		return TextureSamplingFilterNearest
	}
	return TextureSamplingFilterLinear
}

// Load decodes filename and uploads it. Errors wrap ErrDecode when the file
// is missing or cannot be decoded.
func (l *Loader) Load(filename string) (*Texture, error) {
	img, err := DecodeFile(filename)
	if err != nil {
		return nil, err
	}
	t, err := l.upload(img, l.opts.FixAlphaChannel)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", filename, err)
	}
	t.filename = filename
	return t, nil
}

// LoadImage uploads an already decoded image. name is recorded as the
// texture filename. img is not modified.
func (l *Loader) LoadImage(img image.Image, name string) (*Texture, error) {
	src := ToNRGBA(img)
	if src == img && l.opts.FixAlphaChannel {
		c := *src
		c.Pix = append([]byte(nil), src.Pix...)
		src = &c
	}
	t, err := l.upload(src, l.opts.FixAlphaChannel)
	if err != nil {
		return nil, err
	}
	t.filename = name
	return t, nil
}

// CreateBlank uploads a fully transparent texture.
func (l *Loader) CreateBlank(width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return l.upload(image.NewNRGBA(image.Rect(0, 0, width, height)), false)
}

// SetData replaces the logical region of t. pixels holds width*height
// RGBA8 values in row order.
func (l *Loader) SetData(t *Texture, pixels []byte) error {
	h, ok := l.textures.lookup(t.id)
	if !ok {
		return ErrStaleTexture
	}
	if len(pixels) != int(t.width)*int(t.height)*4 {
		return fmt.Errorf("%w: got %d bytes for %dx%d", ErrInvalidData, len(pixels), t.width, t.height)
	}
	l.dev.SetSubData(h, pixels, 0, 0, t.width, t.height)
	return nil
}

func (l *Loader) upload(img *image.NRGBA, fixAlpha bool) (*Texture, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if fixAlpha {
		FixAlphaBleed(img)
	}
	storage := img
	if l.opts.PadToPowerOfTwo {
		storage = PadToPowerOfTwo(img)
		if fixAlpha && storage != img {
			ExtendEdges(storage, w, h)
		}
	}
	sw, sh := int32(storage.Rect.Dx()), int32(storage.Rect.Dy())
	if limit := l.dev.Capabilities().MaxTextureSize; limit > 0 && (sw > limit || sh > limit) {
		return nil, fmt.Errorf("%w: %dx%d exceeds device limit %d", ErrInvalidSize, sw, sh, limit)
	}

	handle, err := l.dev.NewTexture(sw, sh, storage.Pix, l.filter())
	if err != nil {
		return nil, err
	}
	t := newTexture(l.textures.insert(handle), int32(w), int32(h), sw, sh)
	Logger().Debug("texture created", "texture", t)
	return t, nil
}
