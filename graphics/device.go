package graphics

import (
	mgl "github.com/go-gl/mathgl/mgl32"
)

// Capabilities lists optional features of a Device.
type Capabilities struct {
	// Multitexture is set when at least two texture units are available.
	Multitexture bool
	// Framebuffer is set when textures can be used as render targets.
	Framebuffer bool
	// MaxTextureSize is the largest texture dimension, 0 when unknown.
	MaxTextureSize int32
}

// Device is the fixed-function rendering context the renderer draws through.
// Texture and framebuffer handles are device names; 0 is never a valid one.
type Device interface {
	// Init loads the context entry points. It is called once the window
	// exists and its context is current.
	Init() error
	Capabilities() Capabilities

	// NewTexture allocates an RGBA8 texture. pixels may be nil.
	NewTexture(width, height int32, pixels []byte, filter TextureSamplingParam) (uint32, error)
	SetSubData(handle uint32, pixels []byte, x, y, width, height int32)
	SetWrap(handle uint32, wrap TextureSamplingParam)
	ReadData(handle uint32, width, height int32) ([]byte, error)
	DeleteTexture(handle uint32)

	NewFramebuffer(texture uint32) (uint32, error)
	// BindFramebuffer redirects drawing; 0 selects the window.
	BindFramebuffer(fb uint32)
	DeleteFramebuffer(fb uint32)

	// SetViewport sets both the viewport and the scissor rectangle.
	SetViewport(x, y, width, height int32)
	SetProjection(m mgl.Mat4)
	Clear(c Color)

	SetPipeline(src, dst BlendFunc)
	ReleasePipeline()
	// BindTexture enables texturing on unit with handle, 0 disables the unit.
	BindTexture(unit int, handle uint32)
	SetColor(c Color)
	SetLineStyle(width float32, smooth bool)

	Draw(mode PrimitiveMode, verts []Vertex)
	// DrawMultitextured draws verts with unit 0 sampled at alpha and unit 1
	// at the vertex texture coordinates.
	DrawMultitextured(mode PrimitiveMode, verts, alpha []Vertex)
	// DrawArrays draws packed x, y pairs from a client array.
	DrawArrays(mode PrimitiveMode, coords []float32)
}
