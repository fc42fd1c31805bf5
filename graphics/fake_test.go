package graphics

import (
	"errors"
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"
)

type fakeTexture struct {
	width, height int32
	pixels        []byte
	filter        TextureSamplingParam
	wrap          TextureSamplingParam
}

type drawRecord struct {
	mode  PrimitiveMode
	verts []Vertex
	alpha []Vertex
	color Color
	src   BlendFunc
	dst   BlendFunc
	units [2]uint32
}

// recordingDevice keeps textures in memory and records every call.
type recordingDevice struct {
	caps     Capabilities
	initErr  error
	calls    []string
	textures map[uint32]*fakeTexture
	nextName uint32

	framebuffers map[uint32]uint32
	bound        uint32
	viewport     [4]int32
	projection   mgl.Mat4

	color   Color
	src     BlendFunc
	dst     BlendFunc
	blend   bool
	units   [2]uint32
	draws   []drawRecord
	fills   [][]float32
	cleared []Color
}

func newRecordingDevice() *recordingDevice {
	return &recordingDevice{
		caps:         Capabilities{Multitexture: true, Framebuffer: true},
		textures:     map[uint32]*fakeTexture{},
		framebuffers: map[uint32]uint32{},
	}
}

func (d *recordingDevice) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *recordingDevice) reset() {
	d.calls = nil
	d.draws = nil
	d.fills = nil
}

func (d *recordingDevice) Init() error {
	d.record("Init")
	return d.initErr
}

func (d *recordingDevice) Capabilities() Capabilities { return d.caps }

func (d *recordingDevice) NewTexture(width, height int32, pixels []byte, filter TextureSamplingParam) (uint32, error) {
	d.record("NewTexture %dx%d", width, height)
	d.nextName++
	t := &fakeTexture{width: width, height: height, filter: filter, wrap: TextureSamplingWrapClampToEdge}
	t.pixels = make([]byte, width*height*4)
	copy(t.pixels, pixels)
	d.textures[d.nextName] = t
	return d.nextName, nil
}

func (d *recordingDevice) SetSubData(handle uint32, pixels []byte, x, y, width, height int32) {
	d.record("SetSubData %d %d,%d %dx%d", handle, x, y, width, height)
	t := d.textures[handle]
	for row := int32(0); row < height; row++ {
		dst := ((y+row)*t.width + x) * 4
		copy(t.pixels[dst:dst+width*4], pixels[row*width*4:(row+1)*width*4])
	}
}

func (d *recordingDevice) SetWrap(handle uint32, wrap TextureSamplingParam) {
	d.record("SetWrap %d %d", handle, wrap)
	d.textures[handle].wrap = wrap
}

func (d *recordingDevice) ReadData(handle uint32, width, height int32) ([]byte, error) {
	d.record("ReadData %d", handle)
	t, ok := d.textures[handle]
	if !ok {
		return nil, errors.New("no such texture")
	}
	return append([]byte(nil), t.pixels...), nil
}

func (d *recordingDevice) DeleteTexture(handle uint32) {
	d.record("DeleteTexture %d", handle)
	delete(d.textures, handle)
}

func (d *recordingDevice) NewFramebuffer(texture uint32) (uint32, error) {
	d.record("NewFramebuffer %d", texture)
	d.nextName++
	d.framebuffers[d.nextName] = texture
	return d.nextName, nil
}

func (d *recordingDevice) BindFramebuffer(fb uint32) {
	d.record("BindFramebuffer %d", fb)
	d.bound = fb
}

func (d *recordingDevice) DeleteFramebuffer(fb uint32) {
	d.record("DeleteFramebuffer %d", fb)
	delete(d.framebuffers, fb)
}

func (d *recordingDevice) SetViewport(x, y, width, height int32) {
	d.record("SetViewport %d %d %d %d", x, y, width, height)
	d.viewport = [4]int32{x, y, width, height}
}

func (d *recordingDevice) SetProjection(m mgl.Mat4) {
	d.record("SetProjection")
	d.projection = m
}

func (d *recordingDevice) Clear(c Color) {
	d.record("Clear")
	d.cleared = append(d.cleared, c)
}

func (d *recordingDevice) SetPipeline(src, dst BlendFunc) {
	d.record("SetPipeline %d %d", src, dst)
	d.src, d.dst, d.blend = src, dst, true
}

func (d *recordingDevice) ReleasePipeline() {
	d.record("ReleasePipeline")
	d.blend = false
}

func (d *recordingDevice) BindTexture(unit int, handle uint32) {
	d.record("BindTexture %d %d", unit, handle)
	d.units[unit] = handle
}

func (d *recordingDevice) SetColor(c Color) {
	d.record("SetColor")
	d.color = c
}

func (d *recordingDevice) SetLineStyle(width float32, smooth bool) {
	d.record("SetLineStyle %g %t", width, smooth)
}

func (d *recordingDevice) Draw(mode PrimitiveMode, verts []Vertex) {
	d.record("Draw %d %d", mode, len(verts))
	d.draws = append(d.draws, drawRecord{
		mode: mode, verts: append([]Vertex(nil), verts...),
		color: d.color, src: d.src, dst: d.dst, units: d.units,
	})
}

func (d *recordingDevice) DrawMultitextured(mode PrimitiveMode, verts, alpha []Vertex) {
	d.record("DrawMultitextured %d %d", mode, len(verts))
	d.draws = append(d.draws, drawRecord{
		mode: mode, verts: append([]Vertex(nil), verts...), alpha: append([]Vertex(nil), alpha...),
		color: d.color, src: d.src, dst: d.dst, units: d.units,
	})
}

func (d *recordingDevice) DrawArrays(mode PrimitiveMode, coords []float32) {
	d.record("DrawArrays %d %d", mode, len(coords))
	d.fills = append(d.fills, append([]float32(nil), coords...))
}

type fakeWindow struct {
	initErr    error
	modeErr    error
	desktop    [2]int
	modes      [][3]int
	title      string
	swaps      int
	fullscreen bool
	// pixelScale multiplies the mode size into the framebuffer size.
	pixelScale int
}

func (w *fakeWindow) Init() error                      { return w.initErr }
func (w *fakeWindow) DesktopSize() (width, height int) { return w.desktop[0], w.desktop[1] }
func (w *fakeWindow) SetTitle(title string)            { w.title = title }
func (w *fakeWindow) SwapBuffers()                     { w.swaps++ }

func (w *fakeWindow) FramebufferSize() (width, height int) {
	if len(w.modes) == 0 {
		return 0, 0
	}
	scale := max(w.pixelScale, 1)
	m := w.modes[len(w.modes)-1]
	return m[0] * scale, m[1] * scale
}

func (w *fakeWindow) SetVideoMode(width, height int, fullscreen bool) error {
	if w.modeErr != nil {
		return w.modeErr
	}
	fs := 0
	if fullscreen {
		fs = 1
	}
	w.modes = append(w.modes, [3]int{width, height, fs})
	w.fullscreen = fullscreen
	return nil
}

type fakePlatform struct {
	w, h float32
}

func (p *fakePlatform) InternalSize() (float32, float32)      { return p.w, p.h }
func (p *fakePlatform) SetInternalSize(width, height float32) { p.w, p.h = width, height }
