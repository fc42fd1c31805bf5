package graphics

import (
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"
)

// GraphicsBuffer is an offscreen render target backed by a texture.
type GraphicsBuffer struct {
	texture     *Texture
	framebuffer uint32
}

// Texture returns the texture the buffer renders into.
func (b *GraphicsBuffer) Texture() *Texture {
	return b.texture
}

// CreateGraphicsBuffer creates a width x height render target. Its texture
// is owned by the buffer and released by DestroyGraphicsBuffer.
func (g *Graphics) CreateGraphicsBuffer(width, height int) (*GraphicsBuffer, error) {
	if !g.dev.Capabilities().Framebuffer {
		return nil, ErrNoFramebuffer
	}
	t, err := g.loader.CreateBlank(width, height)
	if err != nil {
		return nil, err
	}
	handle, _ := g.textures.lookup(t.id)
	fb, err := g.dev.NewFramebuffer(handle)
	if err != nil {
		_ = g.ReleaseTexture(t)
		return nil, fmt.Errorf("create graphics buffer %dx%d: %w", width, height, err)
	}
	Logger().Debug("graphics buffer created", "texture", t, "framebuffer", fb)
	return &GraphicsBuffer{texture: t, framebuffer: fb}, nil
}

// DestroyGraphicsBuffer frees b and its texture.
func (g *Graphics) DestroyGraphicsBuffer(b *GraphicsBuffer) error {
	if b.framebuffer == 0 {
		return ErrBufferDestroyed
	}
	if g.buffer == b {
		g.EndBufferRendering()
	}
	g.dev.DeleteFramebuffer(b.framebuffer)
	b.framebuffer = 0
	return g.ReleaseTexture(b.texture)
}

// BeginBufferRendering redirects drawing into b. Inside the buffer the
// logical area is the texture size with y pointing towards increasing
// texture rows, so the result samples upright through the texture UVs.
func (g *Graphics) BeginBufferRendering(b *GraphicsBuffer) error {
	if b.framebuffer == 0 {
		return ErrBufferDestroyed
	}
	w, h := b.texture.width, b.texture.height
	g.dev.BindFramebuffer(b.framebuffer)
	g.dev.SetViewport(0, 0, w, h)
	g.dev.SetProjection(mgl.Ortho2D(0, float32(w), 0, float32(h)))
	g.buffer = b
	return nil
}

// EndBufferRendering restores drawing to the window.
func (g *Graphics) EndBufferRendering() {
	if g.buffer == nil {
		return
	}
	g.buffer = nil
	g.dev.BindFramebuffer(0)
	g.applyViewport()
}
