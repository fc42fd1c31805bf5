package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestKeyPressLatchedUntilReset(t *testing.T) {
	in := NewInput()
	in.KeyEvent(glfw.KeyF, glfw.Press)
	in.KeyEvent(glfw.KeyF, glfw.Release)

	assert.False(t, in.KeyDown(glfw.KeyF))
	assert.True(t, in.KeyPressed(glfw.KeyF))

	in.Reset()
	assert.False(t, in.KeyPressed(glfw.KeyF))
}

func TestHeldKeySurvivesReset(t *testing.T) {
	in := NewInput()
	in.KeyEvent(glfw.KeyEscape, glfw.Press)
	in.KeyEvent(glfw.KeyEscape, glfw.Repeat)
	in.Reset()

	assert.True(t, in.KeyDown(glfw.KeyEscape))
	assert.False(t, in.KeyPressed(glfw.KeyEscape))
}

func TestClicksRecordCursor(t *testing.T) {
	in := NewInput()
	in.CursorEvent(10, 20)
	in.MouseButtonEvent(glfw.MouseButtonLeft, glfw.Press)
	assert.True(t, in.ButtonDown(glfw.MouseButtonLeft))

	in.CursorEvent(30, 40)
	in.MouseButtonEvent(glfw.MouseButtonLeft, glfw.Release)
	in.MouseButtonEvent(glfw.MouseButtonRight, glfw.Press)

	assert.Equal(t, []mgl.Vec2{{10, 20}}, in.Clicks())
	assert.Equal(t, mgl.Vec2{30, 40}, in.Cursor())
	assert.False(t, in.ButtonDown(glfw.MouseButtonLeft))

	in.Reset()
	assert.Empty(t, in.Clicks())
}
