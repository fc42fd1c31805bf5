// Package opengl implements graphics.Device on the fixed-function OpenGL
// 2.1 pipeline.
package opengl

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"
	mgl "github.com/go-gl/mathgl/mgl32"
	"golang.org/x/mobile/exp/f32"

	"github.com/poro-engine/poro/graphics"
)

// GLState caches pipeline state so redundant changes are not sent to the
// driver.
type GLState struct {
	blend      bool
	blendSrc   graphics.BlendFunc
	blendDst   graphics.BlendFunc
	lineWidth  float32
	lineSmooth bool
	color      graphics.Color
}

type Device struct {
	GLState
	caps       graphics.Capabilities
	fboEXT     bool
	activeUnit int
}

var _ graphics.Device = (*Device)(nil)

func New() *Device {
	return &Device{}
}

// Init loads the OpenGL entry points for the current context.
func (d *Device) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	version := gl.GoStr(gl.GetString(gl.VERSION))
	renderer := gl.GoStr(gl.GetString(gl.RENDERER))
	vendor := gl.GoStr(gl.GetString(gl.VENDOR))
	extensions := gl.GoStr(gl.GetString(gl.EXTENSIONS))

	var units, maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_UNITS, &units)
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)

	var major int
	fmt.Sscanf(version, "%d.", &major)
	core := major >= 3 || strings.Contains(extensions, "GL_ARB_framebuffer_object")
	d.fboEXT = !core && strings.Contains(extensions, "GL_EXT_framebuffer_object")
	d.caps = graphics.Capabilities{
		Multitexture:   units >= 2,
		Framebuffer:    core || d.fboEXT,
		MaxTextureSize: maxSize,
	}
	graphics.Logger().Info("OpenGL context",
		"version", version, "renderer", renderer, "vendor", vendor,
		"texture_units", units, "max_texture_size", maxSize,
		"framebuffer", d.caps.Framebuffer)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)
	gl.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, gl.MODULATE)
	d.GLState = GLState{
		blendSrc:  graphics.BlendSrcAlpha,
		blendDst:  graphics.BlendOneMinusSrcAlpha,
		lineWidth: 1,
		color:     graphics.White,
	}
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.LineWidth(1)
	gl.Color4f(1, 1, 1, 1)
	return nil
}

func (d *Device) Capabilities() graphics.Capabilities {
	return d.caps
}

// Enum tables indexed by the graphics constants.
var (
	blendFactors = [...]uint32{
		graphics.BlendOne:              gl.ONE,
		graphics.BlendZero:             gl.ZERO,
		graphics.BlendSrcAlpha:         gl.SRC_ALPHA,
		graphics.BlendOneMinusSrcAlpha: gl.ONE_MINUS_SRC_ALPHA,
		graphics.BlendSrcColor:         gl.SRC_COLOR,
		graphics.BlendDstColor:         gl.DST_COLOR,
		graphics.BlendOneMinusDstColor: gl.ONE_MINUS_DST_COLOR,
	}
	primitiveModes = [...]uint32{
		graphics.PrimitiveLines:         gl.LINES,
		graphics.PrimitiveLineLoop:      gl.LINE_LOOP,
		graphics.PrimitiveLineStrip:     gl.LINE_STRIP,
		graphics.PrimitiveTriangles:     gl.TRIANGLES,
		graphics.PrimitiveTriangleStrip: gl.TRIANGLE_STRIP,
		graphics.PrimitiveTriangleFan:   gl.TRIANGLE_FAN,
	}
	samplingParams = [...]int32{
		graphics.TextureSamplingFilterNearest:      gl.NEAREST,
		graphics.TextureSamplingFilterLinear:       gl.LINEAR,
		graphics.TextureSamplingWrapClampToEdge:    gl.CLAMP_TO_EDGE,
		graphics.TextureSamplingWrapMirroredRepeat: gl.MIRRORED_REPEAT,
		graphics.TextureSamplingWrapRepeat:         gl.REPEAT,
	}
)

// enumAt returns table[i], or zero for values outside the table.
func enumAt[E ~int | ~uint8, V any](table []V, i E) V {
	var zero V
	if i < 0 || int(i) >= len(table) {
		return zero
	}
	return table[i]
}

func (d *Device) MapBlendFunction(i graphics.BlendFunc) uint32 {
	return enumAt(blendFactors[:], i)
}

func (d *Device) MapPrimitiveMode(i graphics.PrimitiveMode) uint32 {
	return enumAt(primitiveModes[:], i)
}

func (d *Device) MapTextureSamplingParam(i graphics.TextureSamplingParam) int32 {
	return enumAt(samplingParams[:], i)
}

func (d *Device) NewTexture(width, height int32, pixels []byte, filter graphics.TextureSamplingParam) (uint32, error) {
	if pixels != nil && len(pixels) < int(width)*int(height)*4 {
		return 0, fmt.Errorf("%w: %d bytes for %dx%d", graphics.ErrInvalidData, len(pixels), width, height)
	}
	var h uint32
	d.selectUnit(0)
	gl.GenTextures(1, &h)
	if h == 0 {
		return 0, fmt.Errorf("glGenTextures failed: error 0x%x", gl.GetError())
	}
	interp := d.MapTextureSamplingParam(filter)
	gl.BindTexture(gl.TEXTURE_2D, h)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = unsafe.Pointer(&pixels[0])
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, interp)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, interp)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	runtime.KeepAlive(pixels)
	return h, nil
}

func (d *Device) SetSubData(handle uint32, pixels []byte, x, y, width, height int32) {
	if len(pixels) == 0 {
		return
	}
	d.selectUnit(0)
	gl.BindTexture(gl.TEXTURE_2D, handle)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	runtime.KeepAlive(pixels)
}

func (d *Device) SetWrap(handle uint32, wrap graphics.TextureSamplingParam) {
	mode := d.MapTextureSamplingParam(wrap)
	d.selectUnit(0)
	gl.BindTexture(gl.TEXTURE_2D, handle)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, mode)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (d *Device) ReadData(handle uint32, width, height int32) ([]byte, error) {
	data := make([]byte, int(width)*int(height)*4)
	if len(data) == 0 {
		return data, nil
	}
	d.selectUnit(0)
	gl.BindTexture(gl.TEXTURE_2D, handle)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.GetTexImage(gl.TEXTURE_2D, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&data[0]))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if e := gl.GetError(); e != gl.NO_ERROR {
		return nil, fmt.Errorf("glGetTexImage: error 0x%x", e)
	}
	return data, nil
}

func (d *Device) DeleteTexture(handle uint32) {
	gl.DeleteTextures(1, &handle)
}

func (d *Device) NewFramebuffer(texture uint32) (uint32, error) {
	if !d.caps.Framebuffer {
		return 0, graphics.ErrNoFramebuffer
	}
	var fb uint32
	var status uint32
	if d.fboEXT {
		gl.GenFramebuffersEXT(1, &fb)
		gl.BindFramebufferEXT(gl.FRAMEBUFFER_EXT, fb)
		gl.FramebufferTexture2DEXT(gl.FRAMEBUFFER_EXT, gl.COLOR_ATTACHMENT0_EXT, gl.TEXTURE_2D, texture, 0)
		status = gl.CheckFramebufferStatusEXT(gl.FRAMEBUFFER_EXT)
		gl.BindFramebufferEXT(gl.FRAMEBUFFER_EXT, 0)
	} else {
		gl.GenFramebuffers(1, &fb)
		gl.BindFramebuffer(gl.FRAMEBUFFER, fb)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)
		status = gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
	if status != gl.FRAMEBUFFER_COMPLETE {
		d.DeleteFramebuffer(fb)
		return 0, fmt.Errorf("framebuffer incomplete: status 0x%x", status)
	}
	return fb, nil
}

func (d *Device) BindFramebuffer(fb uint32) {
	if d.fboEXT {
		gl.BindFramebufferEXT(gl.FRAMEBUFFER_EXT, fb)
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb)
}

func (d *Device) DeleteFramebuffer(fb uint32) {
	if d.fboEXT {
		gl.DeleteFramebuffersEXT(1, &fb)
		return
	}
	gl.DeleteFramebuffers(1, &fb)
}

func (d *Device) SetViewport(x, y, width, height int32) {
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(x, y, width, height)
	gl.Viewport(x, y, width, height)
}

func (d *Device) SetProjection(m mgl.Mat4) {
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadMatrixf(&m[0])
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()
}

// Clear fills the whole window, bars included.
func (d *Device) Clear(c graphics.Color) {
	gl.Disable(gl.SCISSOR_TEST)
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.SCISSOR_TEST)
}

func (d *Device) SetBlending(src, dst graphics.BlendFunc) {
	if src != d.blendSrc || dst != d.blendDst {
		d.blendSrc = src
		d.blendDst = dst
		gl.BlendFunc(d.MapBlendFunction(src), d.MapBlendFunction(dst))
	}
}

func (d *Device) SetPipeline(src, dst graphics.BlendFunc) {
	d.SetBlending(src, dst)
	if !d.blend {
		d.blend = true
		gl.Enable(gl.BLEND)
	}
}

func (d *Device) ReleasePipeline() {
	if d.blend {
		d.blend = false
		gl.Disable(gl.BLEND)
	}
}

func (d *Device) selectUnit(unit int) {
	if unit != d.activeUnit {
		d.activeUnit = unit
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	}
}

func (d *Device) BindTexture(unit int, handle uint32) {
	d.selectUnit(unit)
	if handle == 0 {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.Disable(gl.TEXTURE_2D)
	} else {
		gl.Enable(gl.TEXTURE_2D)
		gl.BindTexture(gl.TEXTURE_2D, handle)
	}
	d.selectUnit(0)
}

func (d *Device) SetColor(c graphics.Color) {
	if c != d.color {
		d.color = c
		gl.Color4f(c[0], c[1], c[2], c[3])
	}
}

func (d *Device) SetLineStyle(width float32, smooth bool) {
	if width != d.lineWidth {
		d.lineWidth = width
		gl.LineWidth(width)
	}
	if smooth != d.lineSmooth {
		d.lineSmooth = smooth
		if smooth {
			gl.Enable(gl.LINE_SMOOTH)
			gl.Hint(gl.LINE_SMOOTH_HINT, gl.NICEST)
		} else {
			gl.Disable(gl.LINE_SMOOTH)
		}
	}
}

func (d *Device) Draw(mode graphics.PrimitiveMode, verts []graphics.Vertex) {
	gl.Begin(d.MapPrimitiveMode(mode))
	for _, v := range verts {
		gl.TexCoord2f(v.U, v.V)
		gl.Vertex2f(v.X, v.Y)
	}
	gl.End()
}

func (d *Device) DrawMultitextured(mode graphics.PrimitiveMode, verts, alpha []graphics.Vertex) {
	gl.Begin(d.MapPrimitiveMode(mode))
	n := min(len(verts), len(alpha))
	for i, v := range verts[:n] {
		gl.MultiTexCoord2f(gl.TEXTURE0, alpha[i].U, alpha[i].V)
		gl.MultiTexCoord2f(gl.TEXTURE1, v.U, v.V)
		gl.Vertex2f(v.X, v.Y)
	}
	gl.End()
}

func (d *Device) DrawArrays(mode graphics.PrimitiveMode, coords []float32) {
	if len(coords) < 2 {
		return
	}
	data := f32.Bytes(binary.LittleEndian, coords...)
	gl.EnableClientState(gl.VERTEX_ARRAY)
	gl.VertexPointer(2, gl.FLOAT, 0, unsafe.Pointer(&data[0]))
	gl.DrawArrays(d.MapPrimitiveMode(mode), 0, int32(len(coords)/2))
	gl.DisableClientState(gl.VERTEX_ARRAY)
	runtime.KeepAlive(data)
}
