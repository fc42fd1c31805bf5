package graphics

import (
	"fmt"

	"github.com/chewxy/math32"
	mgl "github.com/go-gl/mathgl/mgl32"
)

// Renderer issues immediate-mode draws on a Device. Every draw is
// self-contained: it sets the blend and texture state it needs and resets
// it before returning.
type Renderer struct {
	dev       Device
	textures  *textureTable
	drawCalls int
}

func newRenderer(dev Device, textures *textureTable) *Renderer {
	return &Renderer{dev: dev, textures: textures}
}

// DrawCalls returns the number of primitives submitted since the last
// ResetDrawCalls.
func (r *Renderer) DrawCalls() int {
	return r.drawCalls
}

func (r *Renderer) ResetDrawCalls() {
	r.drawCalls = 0
}

// resolve returns the device handle of t, or false when t is nil, released
// or the draw would be invisible.
func (r *Renderer) resolve(t *Texture, color Color) (uint32, bool) {
	if t == nil || color.A() <= 0 {
		return 0, false
	}
	return r.textures.lookup(t.id)
}

// QuadCorners returns the four corners of a w x h quad at (x, y) in
// triangle strip order, rotated by rotation radians about its center.
func QuadCorners(x, y, w, h, rotation float32) [4]mgl.Vec2 {
	q := [4]mgl.Vec2{
		{x, y},
		{x, y + h},
		{x + w, y},
		{x + w, y + h},
	}
	if rotation != 0 {
		center := q[0].Add(q[3].Sub(q[0]).Mul(0.5))
		for i := range q {
			q[i] = RotatePoint(q[i], center, rotation)
		}
	}
	return q
}

// DrawTexture draws t stretched over a w x h quad at (x, y) with normal
// blending. rotation is in radians about the quad center.
func (r *Renderer) DrawTexture(t *Texture, x, y, w, h float32, color Color, rotation float32) {
	r.DrawTextureBlend(t, x, y, w, h, color, rotation, BlendModeNormal)
}

// DrawTextureBlend is DrawTexture with an explicit blend mode.
func (r *Renderer) DrawTextureBlend(t *Texture, x, y, w, h float32, color Color, rotation float32, blend BlendMode) {
	if t == nil {
		return
	}
	q := QuadCorners(x, y, w, h, rotation)
	tw, th := float32(t.width), float32(t.height)
	uvs := [4]mgl.Vec2{{0, 0}, {0, th}, {tw, 0}, {tw, th}}
	state := DrawState{Blend: blend, Vertex: VertexModeTriangleStrip}
	r.DrawTextureVertices(t, q[:], uvs[:], color, state)
}

// DrawTextureVertices draws a textured polygon of at most MaxVertices
// vertices. uvs are in pixels of the texture's logical image and must have
// at least as many elements as vertices.
func (r *Renderer) DrawTextureVertices(t *Texture, vertices, uvs []mgl.Vec2, color Color, state DrawState) {
	handle, ok := r.resolve(t, color)
	if !ok {
		return
	}
	var buf [MaxVertices]Vertex
	verts := t.mapVertices(buf[:0], vertices, uvs)

	src, dst := state.Blend.factors()
	if state.Blend == BlendModePremultiplied {
		color = color.Premultiplied()
	}
	r.dev.BindTexture(0, handle)
	r.dev.SetPipeline(src, dst)
	r.dev.SetColor(color)
	r.dev.Draw(state.Vertex.primitive(), verts)
	r.dev.ReleasePipeline()
	r.dev.BindTexture(0, 0)
	r.drawCalls++
}

// DrawTextureWithAlpha draws t masked by alpha. Unit 0 samples the mask at
// alphaUVs and unit 1 samples t at uvs; the result is mask x color x
// alphaColor x sprite. Both vertex sets need more than two and at most
// MaxVertices elements. Nothing is drawn when the device has no
// multitexturing.
func (r *Renderer) DrawTextureWithAlpha(t *Texture, vertices, uvs []mgl.Vec2, color Color,
	alpha *Texture, alphaVertices, alphaUVs []mgl.Vec2, alphaColor Color, state DrawState) {
	handle, ok := r.resolve(t, color)
	if !ok {
		return
	}
	alphaHandle, ok := r.resolve(alpha, alphaColor)
	if !ok {
		return
	}
	if len(vertices) <= 2 || len(alphaVertices) <= 2 {
		panic(fmt.Sprintf("graphics: alpha masked draw needs more than 2 vertices, got %d and %d",
			len(vertices), len(alphaVertices)))
	}
	if !r.dev.Capabilities().Multitexture {
		Logger().Warn("alpha masked draw skipped", "err", ErrNoMultitexture)
		return
	}
	var buf, alphaBuf [MaxVertices]Vertex
	verts := t.mapVertices(buf[:0], vertices, uvs)
	alphaVerts := alpha.mapVertices(alphaBuf[:0], alphaVertices, alphaUVs)

	c := color.Mul(alphaColor)
	src, dst := state.Blend.factors()
	if state.Blend == BlendModePremultiplied {
		c = c.Premultiplied()
	}
	r.dev.BindTexture(0, alphaHandle)
	r.dev.SetPipeline(src, dst)
	r.dev.BindTexture(1, handle)
	r.dev.SetColor(c)
	r.dev.DrawMultitextured(state.Vertex.primitive(), verts, alphaVerts)
	r.dev.ReleasePipeline()
	r.dev.BindTexture(1, 0)
	r.dev.BindTexture(0, 0)
	r.drawCalls++
}

// DrawTexturedRect tiles t over a w x h rectangle at (x, y). Texture
// coordinates equal positions, so the pattern stays anchored to the logical
// origin. Tiling is seamless only for textures whose storage is not padded.
func (r *Renderer) DrawTexturedRect(t *Texture, x, y, w, h float32, color Color) {
	handle, ok := r.resolve(t, color)
	if !ok {
		return
	}
	pos := [4]mgl.Vec2{
		{x, y},
		{x, y + h},
		{x + w, y},
		{x + w, y + h},
	}
	var buf [MaxVertices]Vertex
	verts := t.mapVertices(buf[:0], pos[:], pos[:])

	src, dst := BlendModeNormal.factors()
	r.dev.SetWrap(handle, TextureSamplingWrapRepeat)
	r.dev.BindTexture(0, handle)
	r.dev.SetPipeline(src, dst)
	r.dev.SetColor(color)
	r.dev.Draw(PrimitiveTriangleStrip, verts)
	r.dev.ReleasePipeline()
	r.dev.BindTexture(0, 0)
	r.dev.SetWrap(handle, TextureSamplingWrapClampToEdge)
	r.drawCalls++
}

// DrawLines draws a polyline through points, closing it into a loop when
// closed is set. smooth enables line anti-aliasing for this call only.
// There is no limit on the number of points.
func (r *Renderer) DrawLines(points []mgl.Vec2, color Color, smooth bool, width float32, closed bool) {
	if len(points) == 0 || color.A() <= 0 {
		return
	}
	var buf [MaxFillPoints]Vertex
	verts := buf[:0]
	for _, p := range points {
		verts = append(verts, Vertex{X: p[0], Y: p[1]})
	}
	mode := PrimitiveLineStrip
	if closed {
		mode = PrimitiveLineLoop
	}
	src, dst := BlendModeNormal.factors()
	r.dev.SetPipeline(src, dst)
	r.dev.SetLineStyle(width, smooth)
	r.dev.SetColor(color)
	r.dev.Draw(mode, verts)
	if smooth {
		r.dev.SetLineStyle(width, false)
	}
	r.dev.ReleasePipeline()
	r.drawCalls++
}

// DrawFill fills the polygon through points as a triangle fan around the
// first point. The polygon must be convex, or star shaped from its first
// point, and have at most MaxFillPoints points.
func (r *Renderer) DrawFill(points []mgl.Vec2, color Color) {
	if len(points) < 3 || color.A() <= 0 {
		return
	}
	if len(points) > MaxFillPoints {
		panic(fmt.Sprintf("graphics: %d fill points exceed the limit of %d", len(points), MaxFillPoints))
	}
	var buf [MaxFillPoints * 2]float32
	for i, p := range points {
		buf[i*2] = p[0]
		buf[i*2+1] = p[1]
	}
	src, dst := BlendModeNormal.factors()
	r.dev.SetPipeline(src, dst)
	r.dev.SetColor(color)
	r.dev.DrawArrays(PrimitiveTriangleFan, buf[:len(points)*2])
	r.dev.ReleasePipeline()
	r.drawCalls++
}

// mapVertices appends vertices paired with uvs converted from logical
// texture pixels into the UV rectangle.
func (t *Texture) mapVertices(dst []Vertex, vertices, uvs []mgl.Vec2) []Vertex {
	if len(vertices) > MaxVertices {
		panic(fmt.Sprintf("graphics: %d vertices exceed the limit of %d", len(vertices), MaxVertices))
	}
	for i, p := range vertices {
		dst = append(dst, vertex(p, t.textureCoord(uvs[i])))
	}
	return dst
}

// textureCoord converts a position in logical texture pixels to UV space.
func (t *Texture) textureCoord(tc mgl.Vec2) mgl.Vec2 {
	tx := tc[0] * t.externalScale[0]
	ty := tc[1] * t.externalScale[1]
	return mgl.Vec2{
		t.uv[0] + tx/float32(t.width)*(t.uv[2]-t.uv[0]),
		t.uv[1] + ty/float32(t.height)*(t.uv[3]-t.uv[1]),
	}
}

// RotatePoint rotates p about center by angle radians.
func RotatePoint(p, center mgl.Vec2, angle float32) mgl.Vec2 {
	s, c := math32.Sincos(angle)
	d := p.Sub(center)
	return mgl.Vec2{d[0]*c - d[1]*s + center[0], d[0]*s + d[1]*c + center[1]}
}
