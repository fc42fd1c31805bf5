// Package platform hosts the graphics package on a desktop window and
// OpenGL 2.1 context created with GLFW.
package platform

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	mgl "github.com/go-gl/mathgl/mgl32"
)

var errNoWindow = errors.New("platform: no window")

// Desktop implements graphics.Window and graphics.Platform. All methods
// must be called from the main thread.
type Desktop struct {
	window *glfw.Window
	input  *Input
	logger *slog.Logger

	fullscreen bool
	windowedX  int
	windowedY  int
	internalW  float32
	internalH  float32
	vsync      bool

	onResize            func(width, height int)
	onFramebufferResize func(width, height int)
}

func NewDesktop(logger *slog.Logger) *Desktop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Desktop{input: NewInput(), logger: logger, vsync: true, windowedX: -1, windowedY: -1}
}

func (d *Desktop) Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	d.logger.Info("glfw initialized", "version", glfw.GetVersionString())
	return nil
}

// DesktopSize is the current video mode of the primary monitor.
func (d *Desktop) DesktopSize() (width, height int) {
	mon := glfw.GetPrimaryMonitor()
	if mon == nil {
		return 0, 0
	}
	vm := mon.GetVideoMode()
	return vm.Width, vm.Height
}

func (d *Desktop) SetVideoMode(width, height int, fullscreen bool) error {
	if d.window == nil {
		return d.createWindow(width, height, fullscreen)
	}
	switch {
	case fullscreen:
		if !d.fullscreen {
			d.windowedX, d.windowedY = d.window.GetPos()
		}
		mon := glfw.GetPrimaryMonitor()
		if mon == nil {
			return errors.New("platform: no primary monitor")
		}
		d.window.SetMonitor(mon, 0, 0, width, height, mon.GetVideoMode().RefreshRate)
	case d.fullscreen:
		x, y := d.windowedX, d.windowedY
		if x < 0 || y < 0 {
			x, y = 100, 100
		}
		d.window.SetMonitor(nil, x, y, width, height, 0)
	default:
		d.window.SetSize(width, height)
	}
	d.fullscreen = fullscreen
	d.SetVSync(d.vsync)
	return nil
}

func (d *Desktop) createWindow(width, height int, fullscreen bool) error {
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 16)
	if fullscreen {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	}

	var mon *glfw.Monitor
	if fullscreen {
		mon = glfw.GetPrimaryMonitor()
	}
	window, err := glfw.CreateWindow(width, height, "", mon, nil)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()

	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		d.input.KeyEvent(key, action)
	})
	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		d.input.MouseButtonEvent(button, action)
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		d.input.CursorEvent(x, y)
	})
	window.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		d.windowSized(width, height)
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		d.framebufferSized(width, height)
	})

	d.window = window
	d.fullscreen = fullscreen
	d.SetVSync(d.vsync)
	d.logger.Debug("window created", "width", width, "height", height, "fullscreen", fullscreen)
	return nil
}

func (d *Desktop) SetTitle(title string) {
	if d.window != nil {
		d.window.SetTitle(title)
	}
}

func (d *Desktop) SwapBuffers() {
	if d.window != nil {
		d.window.SwapBuffers()
	}
}

// PollEvents processes pending window events and clears the input latched
// during the previous frame first.
func (d *Desktop) PollEvents() {
	d.input.Reset()
	glfw.PollEvents()
}

func (d *Desktop) ShouldClose() bool {
	return d.window == nil || d.window.ShouldClose()
}

func (d *Desktop) RequestClose() {
	if d.window != nil {
		d.window.SetShouldClose(true)
	}
}

func (d *Desktop) Input() *Input { return d.input }

// CursorPos returns the cursor position in window pixels.
func (d *Desktop) CursorPos() (mgl.Vec2, error) {
	if d.window == nil {
		return mgl.Vec2{}, errNoWindow
	}
	x, y := d.window.GetCursorPos()
	return mgl.Vec2{float32(x), float32(y)}, nil
}

// FramebufferSize is the drawable size in pixels, which differs from the
// window size on high density displays.
func (d *Desktop) FramebufferSize() (width, height int) {
	if d.window == nil {
		return 0, 0
	}
	return d.window.GetFramebufferSize()
}

// SetResizeHandler registers f to run with the new size in window
// coordinates when the user resizes the window. Resizes caused by a
// fullscreen switch are not reported.
func (d *Desktop) SetResizeHandler(f func(width, height int)) {
	d.onResize = f
}

// SetFramebufferResizeHandler registers f to run with the new drawable size
// in pixels whenever it changes, fullscreen switches included.
func (d *Desktop) SetFramebufferResizeHandler(f func(width, height int)) {
	d.onFramebufferResize = f
}

func (d *Desktop) windowSized(width, height int) {
	if d.onResize != nil && !d.fullscreen && width > 0 && height > 0 {
		d.onResize(width, height)
	}
}

func (d *Desktop) framebufferSized(width, height int) {
	if d.onFramebufferResize != nil && width > 0 && height > 0 {
		d.onFramebufferResize(width, height)
	}
}

func (d *Desktop) SetVSync(on bool) {
	d.vsync = on
	if d.window == nil {
		return
	}
	if on {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

// Time is the number of seconds since Init.
func (d *Desktop) Time() float64 {
	return glfw.GetTime()
}

func (d *Desktop) InternalSize() (width, height float32) {
	return d.internalW, d.internalH
}

func (d *Desktop) SetInternalSize(width, height float32) {
	d.internalW, d.internalH = width, height
}

// Terminate destroys the window and shuts GLFW down.
func (d *Desktop) Terminate() {
	if d.window != nil {
		d.window.Destroy()
		d.window = nil
	}
	glfw.Terminate()
}
