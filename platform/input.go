package platform

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
	mgl "github.com/go-gl/mathgl/mgl32"
)

// Input keeps the keyboard, mouse and cursor state reported by the window
// callbacks. Presses are latched until the next call to Reset so a tap
// shorter than a frame is still seen.
type Input struct {
	mu      sync.Mutex
	keys    map[glfw.Key]bool
	pressed map[glfw.Key]bool
	buttons map[glfw.MouseButton]bool
	clicks  []mgl.Vec2
	cursor  mgl.Vec2
}

func NewInput() *Input {
	return &Input{
		keys:    make(map[glfw.Key]bool),
		pressed: make(map[glfw.Key]bool),
		buttons: make(map[glfw.MouseButton]bool),
	}
}

func (in *Input) KeyEvent(key glfw.Key, action glfw.Action) {
	in.mu.Lock()
	defer in.mu.Unlock()
	switch action {
	case glfw.Press:
		in.keys[key] = true
		in.pressed[key] = true
	case glfw.Release:
		delete(in.keys, key)
	}
}

func (in *Input) MouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	in.mu.Lock()
	defer in.mu.Unlock()
	switch action {
	case glfw.Press:
		in.buttons[button] = true
		if button == glfw.MouseButtonLeft {
			in.clicks = append(in.clicks, in.cursor)
		}
	case glfw.Release:
		delete(in.buttons, button)
	}
}

func (in *Input) CursorEvent(x, y float64) {
	in.mu.Lock()
	in.cursor = mgl.Vec2{float32(x), float32(y)}
	in.mu.Unlock()
}

// KeyDown reports whether key is held.
func (in *Input) KeyDown(key glfw.Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.keys[key]
}

// KeyPressed reports whether key went down since the last Reset.
func (in *Input) KeyPressed(key glfw.Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pressed[key]
}

func (in *Input) ButtonDown(button glfw.MouseButton) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.buttons[button]
}

// Cursor is the last cursor position in window pixels.
func (in *Input) Cursor() mgl.Vec2 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.cursor
}

// Clicks returns the window positions of left clicks since the last Reset.
func (in *Input) Clicks() []mgl.Vec2 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]mgl.Vec2(nil), in.clicks...)
}

// Reset clears the latched presses and clicks. Held keys stay held.
func (in *Input) Reset() {
	in.mu.Lock()
	defer in.mu.Unlock()
	clear(in.pressed)
	in.clicks = in.clicks[:0]
}
