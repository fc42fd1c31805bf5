// Command poro opens a window and draws a test scene with the textures
// named on the command line.
//
//	poro [-config poro.toml] [image ...]
//
// F toggles fullscreen, P saves the offscreen buffer to poro.png and Escape
// quits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/chewxy/math32"
	"github.com/go-gl/glfw/v3.3/glfw"
	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/poro-engine/poro/config"
	"github.com/poro-engine/poro/graphics"
	"github.com/poro-engine/poro/graphics/opengl"
	"github.com/poro-engine/poro/platform"
)

func init() {
	// GLFW event handling must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML settings file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "poro:", err)
		os.Exit(2)
	}
	level, _ := cfg.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	graphics.SetLogger(logger)

	desktop := platform.NewDesktop(logger)
	defer desktop.Terminate()
	desktop.SetVSync(cfg.Window.VSync)

	g := graphics.New(opengl.New(), desktop, desktop, options(cfg))
	if err := g.Init(cfg.Window.Width, cfg.Window.Height, cfg.Window.Fullscreen, cfg.Window.Title); err != nil {
		logger.Error("cannot start graphics", "err", err)
		desktop.Terminate()
		os.Exit(1)
	}
	g.SetInternalSize(float32(cfg.Graphics.InternalWidth), float32(cfg.Graphics.InternalHeight))

	desktop.SetResizeHandler(func(width, height int) {
		if err := g.SetWindowSize(width, height); err != nil {
			logger.Error("resize failed", "err", err)
		}
	})
	desktop.SetFramebufferResizeHandler(g.SetFramebufferSize)

	s := newScene(g, logger, flag.Args())
	run(g, desktop, s, cfg.Window.Title, logger)
	s.release()
}

func options(cfg config.Config) graphics.Options {
	opts := graphics.DefaultOptions
	opts.Loader = graphics.LoaderOptions{
		PadToPowerOfTwo: cfg.Graphics.PadTexturesToPowerOfTwo,
		FixAlphaChannel: cfg.Graphics.FixAlphaChannel,
		NearestFilter:   !cfg.Graphics.LinearFilter,
	}
	opts.ClearBackground = cfg.Graphics.ClearBackground
	opts.FillColor = graphics.Color(cfg.Graphics.FillColor)
	return opts
}

func run(g *graphics.Graphics, desktop *platform.Desktop, s *scene, title string, logger *slog.Logger) {
	input := desktop.Input()
	lastTitle := 0.0
	for !desktop.ShouldClose() {
		desktop.PollEvents()

		if input.KeyPressed(glfw.KeyEscape) {
			desktop.RequestClose()
		}
		if input.KeyPressed(glfw.KeyF) {
			if err := g.SetFullscreen(!g.IsFullscreen()); err != nil {
				logger.Error("fullscreen switch failed", "err", err)
			}
		}
		if input.KeyPressed(glfw.KeyP) {
			s.snapshot()
		}
		for _, c := range input.Clicks() {
			logger.Info("click", "window", c, "logical", g.ConvertToInternalPos(c.X(), c.Y()))
		}

		now := desktop.Time()
		s.update(float32(now))

		g.BeginRendering()
		s.draw()
		g.EndRendering()

		if now-lastTitle >= 1 {
			lastTitle = now
			st := g.Stats()
			desktop.SetTitle(fmt.Sprintf("%s | FPS: %.1f | Draw Calls: %d", title, st.FPS, st.DrawCalls))
			logger.Debug("frame", "stats", st)
		}
	}
}

// scene is the demo content: the loaded sprites, a procedurally built
// checker pattern and a few primitives.
type scene struct {
	g      *graphics.Graphics
	logger *slog.Logger

	sprites []*graphics.Texture
	checker *graphics.Texture
	atlas   *graphics.Atlas
	icons   []*graphics.Texture
	buffer  *graphics.GraphicsBuffer
	angle   float32
}

func newScene(g *graphics.Graphics, logger *slog.Logger, files []string) *scene {
	s := &scene{g: g, logger: logger}
	for _, f := range files {
		tex, err := g.LoadTexture(f)
		if err != nil {
			logger.Warn("texture not loaded", "err", err)
			continue
		}
		s.sprites = append(s.sprites, tex)
	}

	checker, err := g.CreateTexture(8, 8)
	if err == nil {
		err = g.SetTextureData(checker, checkerPixels(8, 8))
	}
	if err != nil {
		logger.Warn("checker texture", "err", err)
	} else {
		s.checker = checker
	}

	if s.atlas, err = g.NewAtlas(64, 64); err != nil {
		logger.Warn("atlas", "err", err)
	} else {
		for i, c := range []graphics.Color{{1, 0.3, 0.3, 1}, {0.3, 1, 0.3, 1}, {0.3, 0.3, 1, 1}} {
			icon, err := s.atlas.Add(solidPixels(12, 12, c), 12, 12)
			if err != nil {
				logger.Warn("atlas icon", "index", i, "err", err)
				continue
			}
			s.icons = append(s.icons, icon)
		}
	}

	if s.buffer, err = g.CreateGraphicsBuffer(128, 128); err != nil {
		logger.Info("offscreen buffer unavailable", "err", err)
	}
	return s
}

func (s *scene) update(t float32) {
	s.angle = math32.Mod(t, 2*math32.Pi)
}

func (s *scene) draw() {
	g := s.g
	vp := g.Viewport()
	w, h := vp.LogicalWidth, vp.LogicalHeight

	if s.checker != nil {
		g.DrawTexturedRect(s.checker, 0, 0, w, h, graphics.Color{1, 1, 1, 0.15})
	}

	for i, tex := range s.sprites {
		x := 40 + float32(i%4)*(w-80)/4
		y := 40 + float32(i/4)*160
		sw, sh := float32(tex.Width()), float32(tex.Height())
		g.DrawTexture(tex, x, y, sw, sh, graphics.White, s.angle)
	}

	for i, icon := range s.icons {
		g.DrawTexture(icon, w-40-float32(i)*20, 16, 12, 12, graphics.White, 0)
	}

	cx, cy := w/2, h/2
	r := math32.Min(w, h) / 4
	star := make([]mgl.Vec2, 0, 10)
	for i := range 10 {
		radius := r
		if i%2 == 1 {
			radius = r / 2
		}
		star = append(star, graphics.RotatePoint(mgl.Vec2{cx, cy - radius}, mgl.Vec2{cx, cy}, s.angle+float32(i)*math32.Pi/5))
	}
	g.DrawFill([]mgl.Vec2{{cx, cy}, star[0], star[1], star[2]}, graphics.Color{1, 0.8, 0.2, 0.6})
	g.DrawLines(star, graphics.Color{1, 1, 1, 1}, true, 2, true)

	if s.buffer != nil && len(s.sprites) > 0 {
		if err := g.BeginBufferRendering(s.buffer); err == nil {
			g.DrawTexture(s.sprites[0], 0, 0, 128, 128, graphics.White, 0)
			g.EndBufferRendering()
			g.DrawTexture(s.buffer.Texture(), 8, h-72, 64, 64, graphics.White, 0)
		}
	}
}

func (s *scene) snapshot() {
	if s.buffer == nil {
		s.logger.Warn("no offscreen buffer to save")
		return
	}
	if err := s.g.SaveTexturePNG(s.buffer.Texture(), "poro.png"); err != nil {
		s.logger.Error("snapshot failed", "err", err)
		return
	}
	s.logger.Info("snapshot saved", "file", "poro.png")
}

func (s *scene) release() {
	for _, tex := range s.sprites {
		if err := s.g.ReleaseTexture(tex); err != nil {
			s.logger.Debug("release sprite", "texture", tex, "err", err)
		}
	}
	if s.checker != nil {
		if err := s.g.ReleaseTexture(s.checker); err != nil {
			s.logger.Debug("release checker", "err", err)
		}
	}
	if s.atlas != nil {
		if err := s.atlas.Release(); err != nil {
			s.logger.Debug("release atlas", "err", err)
		}
	}
	if s.buffer != nil {
		if err := s.g.DestroyGraphicsBuffer(s.buffer); err != nil {
			s.logger.Debug("destroy offscreen buffer", "err", err)
		}
	}
}

func checkerPixels(w, h int) []byte {
	pix := make([]byte, w*h*4)
	for y := range h {
		for x := range w {
			v := byte(64)
			if (x/4+y/4)%2 == 0 {
				v = 192
			}
			i := (y*w + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	return pix
}

func solidPixels(w, h int, c graphics.Color) []byte {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		for j := range 4 {
			pix[i+j] = byte(c[j] * 255)
		}
	}
	return pix
}
