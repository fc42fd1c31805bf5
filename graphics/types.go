package graphics

import (
	mgl "github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxVertices is the largest polygon a single textured draw accepts.
	MaxVertices = 8
	// MaxFillPoints is the largest polygon DrawFill accepts.
	MaxFillPoints = 128
)

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color [4]float32

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

func (c Color) R() float32 { return c[0] }
func (c Color) G() float32 { return c[1] }
func (c Color) B() float32 { return c[2] }
func (c Color) A() float32 { return c[3] }

// Mul multiplies two colors component-wise.
func (c Color) Mul(o Color) Color {
	return Color{c[0] * o[0], c[1] * o[1], c[2] * o[2], c[3] * o[3]}
}

// Premultiplied returns c with its RGB divided by alpha, the form the
// (Zero, SrcColor) blend expects. A zero alpha leaves c untouched.
func (c Color) Premultiplied() Color {
	if c[3] == 0 {
		return c
	}
	return Color{c[0] / c[3], c[1] / c[3], c[2] / c[3], c[3]}
}

// Vertex is a position with its texture coordinate.
type Vertex struct {
	X, Y float32
	U, V float32
}

func vertex(p, tc mgl.Vec2) Vertex {
	return Vertex{X: p[0], Y: p[1], U: tc[0], V: tc[1]}
}

type PrimitiveMode byte

const (
	PrimitiveLines PrimitiveMode = iota
	PrimitiveLineLoop
	PrimitiveLineStrip
	PrimitiveTriangles
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
)

type BlendFunc int

const (
	BlendOne = BlendFunc(iota)
	BlendZero
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendSrcColor
	BlendDstColor
	BlendOneMinusDstColor
)

type TextureSamplingParam int

const (
	TextureSamplingFilterNearest = TextureSamplingParam(iota)
	TextureSamplingFilterLinear
	TextureSamplingWrapClampToEdge
	TextureSamplingWrapMirroredRepeat
	TextureSamplingWrapRepeat
)

// BlendMode selects how a textured draw is composited.
type BlendMode int

const (
	// BlendModeNormal is straight alpha blending.
	BlendModeNormal BlendMode = iota
	// BlendModePremultiplied multiplies the destination by the draw color.
	BlendModePremultiplied
)

func (m BlendMode) factors() (src, dst BlendFunc) {
	if m == BlendModePremultiplied {
		return BlendZero, BlendSrcColor
	}
	return BlendSrcAlpha, BlendOneMinusSrcAlpha
}

func (m BlendMode) String() string {
	switch m {
	case BlendModeNormal:
		return "normal"
	case BlendModePremultiplied:
		return "premultiplied"
	}
	return "unknown"
}

// VertexMode selects the topology of a textured polygon.
type VertexMode int

const (
	VertexModeTriangleFan VertexMode = iota
	VertexModeTriangleStrip
)

func (m VertexMode) primitive() PrimitiveMode {
	if m == VertexModeTriangleStrip {
		return PrimitiveTriangleStrip
	}
	return PrimitiveTriangleFan
}

// DrawState is the per-call render state of a textured draw.
type DrawState struct {
	Blend  BlendMode
	Vertex VertexMode
}

// DefaultDrawState draws triangle fans with normal blending.
var DefaultDrawState = DrawState{Blend: BlendModeNormal, Vertex: VertexModeTriangleFan}

// WithBlend returns a copy of s using blend mode m.
func (s DrawState) WithBlend(m BlendMode) DrawState {
	s.Blend = m
	return s
}

// WithVertexMode returns a copy of s using vertex mode m.
func (s DrawState) WithVertexMode(m VertexMode) DrawState {
	s.Vertex = m
	return s
}
