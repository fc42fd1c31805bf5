package graphics

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	mgl "github.com/go-gl/mathgl/mgl32"
)

// Window is the presentation surface owned by the platform layer.
type Window interface {
	// Init starts the windowing subsystem.
	Init() error
	DesktopSize() (width, height int)
	// SetVideoMode creates the window and its rendering context on first
	// use and resizes or switches it between windowed and fullscreen later.
	SetVideoMode(width, height int, fullscreen bool) error
	// FramebufferSize is the drawable size in pixels. It is larger than the
	// window size on high density displays.
	FramebufferSize() (width, height int)
	SetTitle(title string)
	SwapBuffers()
}

// Platform provides the logical resolution the game draws in.
type Platform interface {
	InternalSize() (width, height float32)
	SetInternalSize(width, height float32)
}

// Options configures a Graphics.
type Options struct {
	Loader          LoaderOptions
	ClearBackground bool
	FillColor       Color
}

// DefaultOptions clears to black every frame.
var DefaultOptions = Options{
	Loader:          DefaultLoaderOptions,
	ClearBackground: true,
	FillColor:       Black,
}

// FrameStats describes recent frames.
type FrameStats struct {
	DrawCalls int
	FPS       float64
}

func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("draw_calls", s.DrawCalls),
		slog.Float64("fps", s.FPS),
	)
}

// Graphics owns the window, the device and every texture created through
// it.
type Graphics struct {
	*Renderer
	loader   *Loader
	dev      Device
	window   Window
	platform Platform
	textures *textureTable

	width, height   int
	fullscreen      bool
	desktopW        int
	desktopH        int
	initialized     bool
	viewport        Viewport
	clearBackground bool
	fillColor       Color

	buffer *GraphicsBuffer

	stats      FrameStats
	frames     int
	statsSince time.Time
	now        func() time.Time
}

func New(dev Device, window Window, platform Platform, opts Options) *Graphics {
	textures := &textureTable{}
	return &Graphics{
		Renderer:        newRenderer(dev, textures),
		loader:          newLoader(dev, textures, opts.Loader),
		dev:             dev,
		window:          window,
		platform:        platform,
		textures:        textures,
		clearBackground: opts.ClearBackground,
		fillColor:       opts.FillColor,
		now:             time.Now,
	}
}

// Init opens a width x height window, or a desktop sized one when
// fullscreen is set, and makes width x height the logical resolution.
// The returned error wraps ErrVideoInit; the engine cannot run without a
// window, so callers should treat it as fatal.
func (g *Graphics) Init(width, height int, fullscreen bool, title string) error {
	if err := g.window.Init(); err != nil {
		return fmt.Errorf("%w: %w", ErrVideoInit, err)
	}
	g.desktopW, g.desktopH = g.window.DesktopSize()
	g.platform.SetInternalSize(float32(width), float32(height))
	g.width, g.height = width, height
	g.fullscreen = fullscreen

	if err := g.resetWindow(); err != nil {
		return err
	}
	if err := g.dev.Init(); err != nil {
		return fmt.Errorf("%w: %w", ErrVideoInit, err)
	}
	g.window.SetTitle(title)
	g.initialized = true
	g.applyViewport()
	g.statsSince = g.now()
	Logger().Info("graphics initialized", "viewport", g.viewport,
		"desktop", [2]int{g.desktopW, g.desktopH}, "fullscreen", fullscreen)
	return nil
}

// resetWindow applies the current size and fullscreen state to the window
// and recomputes the viewport.
func (g *Graphics) resetWindow() error {
	w, h := g.width, g.height
	if g.fullscreen {
		w, h = g.desktopW, g.desktopH
	}
	if err := g.window.SetVideoMode(w, h, g.fullscreen); err != nil {
		return fmt.Errorf("%w: %dx%d fullscreen=%t: %w", ErrVideoInit, w, h, g.fullscreen, err)
	}
	g.recomputeViewport(float32(w), float32(h))
	if g.initialized {
		g.applyViewport()
	}
	return nil
}

func (g *Graphics) recomputeViewport(windowWidth, windowHeight float32) {
	iw, ih := g.platform.InternalSize()
	g.viewport = Recompute(windowWidth, windowHeight, iw, ih).WithFramebuffer(g.window.FramebufferSize())
}

func (g *Graphics) applyViewport() {
	g.viewport.apply(g.dev)
}

// SetWindowSize resizes the window. It does nothing when the size is
// unchanged.
func (g *Graphics) SetWindowSize(width, height int) error {
	if width == g.width && height == g.height {
		return nil
	}
	g.width, g.height = width, height
	Logger().Info("window resized", "width", width, "height", height)
	return g.resetWindow()
}

// SetFullscreen switches between a desktop sized fullscreen window and the
// windowed size. It does nothing when the state is unchanged.
func (g *Graphics) SetFullscreen(fullscreen bool) error {
	if fullscreen == g.fullscreen {
		return nil
	}
	g.fullscreen = fullscreen
	Logger().Info("fullscreen changed", "fullscreen", fullscreen)
	return g.resetWindow()
}

// SetInternalSize changes the logical resolution.
func (g *Graphics) SetInternalSize(width, height float32) {
	g.platform.SetInternalSize(width, height)
	g.recomputeViewport(g.viewport.WindowWidth, g.viewport.WindowHeight)
	if g.initialized {
		g.applyViewport()
	}
}

// SetFramebufferSize updates the pixel scale after the drawable size
// changed, for example when the window moved to a display with another
// density. The logical layout is unchanged.
func (g *Graphics) SetFramebufferSize(width, height int) {
	g.viewport = g.viewport.WithFramebuffer(width, height)
	if g.initialized {
		g.applyViewport()
	}
}

func (g *Graphics) WindowSize() (width, height int) { return g.width, g.height }
func (g *Graphics) IsFullscreen() bool             { return g.fullscreen }
func (g *Graphics) Viewport() Viewport             { return g.viewport }
func (g *Graphics) Stats() FrameStats              { return g.stats }

func (g *Graphics) SetClearBackground(clear bool) {
	g.clearBackground = clear
}

func (g *Graphics) SetFillColor(c Color) {
	g.fillColor = c
}

// ConvertToInternalPos maps a window position to logical coordinates.
func (g *Graphics) ConvertToInternalPos(x, y float32) mgl.Vec2 {
	return g.viewport.ConvertWindowToLogical(x, y)
}

// BeginRendering starts a frame, clearing it with the fill color when
// background clearing is on.
func (g *Graphics) BeginRendering() {
	g.Renderer.ResetDrawCalls()
	if g.clearBackground {
		g.dev.Clear(g.fillColor)
	}
}

// EndRendering presents the frame.
func (g *Graphics) EndRendering() {
	g.window.SwapBuffers()
	g.updateStats()
}

func (g *Graphics) updateStats() {
	g.stats.DrawCalls = g.Renderer.DrawCalls()
	g.frames++
	now := g.now()
	if d := now.Sub(g.statsSince); d >= time.Second {
		g.stats.FPS = float64(g.frames) / d.Seconds()
		g.frames = 0
		g.statsSince = now
	}
}

// LoadTexture loads an image file. Errors wrap ErrDecode when the file is
// missing or unreadable; callers log them and carry on without the texture.
func (g *Graphics) LoadTexture(filename string) (*Texture, error) {
	return g.loader.Load(filename)
}

// LoadImage uploads a decoded image.
func (g *Graphics) LoadImage(img image.Image, name string) (*Texture, error) {
	return g.loader.LoadImage(img, name)
}

// CreateTexture creates a transparent width x height texture.
func (g *Graphics) CreateTexture(width, height int) (*Texture, error) {
	return g.loader.CreateBlank(width, height)
}

// SetTextureData replaces the pixels of t with width*height RGBA8 values.
func (g *Graphics) SetTextureData(t *Texture, pixels []byte) error {
	return g.loader.SetData(t, pixels)
}

// ReleaseTexture frees the device texture behind t. Views of t made with
// WithExternalScale or by an Atlas stop drawing. Releasing twice returns
// ErrStaleTexture; views are released through their owner and return
// ErrTextureView.
func (g *Graphics) ReleaseTexture(t *Texture) error {
	if t == nil {
		return ErrStaleTexture
	}
	if t.view {
		return fmt.Errorf("%w: %s", ErrTextureView, t.id)
	}
	h, ok := g.textures.remove(t.id)
	if !ok {
		return ErrStaleTexture
	}
	g.dev.DeleteTexture(h)
	Logger().Debug("texture released", "texture", t)
	return nil
}

// LiveTextures returns the number of textures not yet released.
func (g *Graphics) LiveTextures() int {
	return g.textures.len()
}
