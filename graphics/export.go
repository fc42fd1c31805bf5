package graphics

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// ReadTexture reads back the logical region of t. For atlas views this is
// the view's region.
func (g *Graphics) ReadTexture(t *Texture) (*image.NRGBA, error) {
	h, ok := g.textures.lookup(t.id)
	if !ok {
		return nil, ErrStaleTexture
	}
	data, err := g.dev.ReadData(h, t.storageWidth, t.storageHeight)
	if err != nil {
		return nil, fmt.Errorf("read texture %s: %w", t.id, err)
	}
	if len(data) != int(t.storageWidth)*int(t.storageHeight)*4 {
		return nil, fmt.Errorf("%w: read %d bytes for %dx%d", ErrInvalidData, len(data), t.storageWidth, t.storageHeight)
	}
	storage := &image.NRGBA{
		Pix:    data,
		Stride: int(t.storageWidth) * 4,
		Rect:   image.Rect(0, 0, int(t.storageWidth), int(t.storageHeight)),
	}
	x := int(t.uv[0]*float32(t.storageWidth) + 0.5)
	y := int(t.uv[1]*float32(t.storageHeight) + 0.5)
	return ToNRGBA(storage.SubImage(image.Rect(x, y, x+int(t.width), y+int(t.height)))), nil
}

// EncodeTexturePNG writes the logical region of t as PNG.
func (g *Graphics) EncodeTexturePNG(w io.Writer, t *Texture) error {
	img, err := g.ReadTexture(t)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SaveTexturePNG writes the logical region of t to filename.
func (g *Graphics) SaveTexturePNG(t *Texture, filename string) error {
	Logger().Debug("saving texture", "texture", t, "path", filename)
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := g.EncodeTexturePNG(f, t); err != nil {
		f.Close()
		return fmt.Errorf("save %q: %w", filename, err)
	}
	return f.Close()
}
