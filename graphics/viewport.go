package graphics

import (
	"log/slog"

	"github.com/chewxy/math32"
	mgl "github.com/go-gl/mathgl/mgl32"
)

// Viewport maps the logical drawing area onto the window. The logical
// aspect ratio is preserved; the window axis with spare room gets centered
// bars, so there is letterboxing or pillarboxing but never both.
//
// Sizes and offsets are in window coordinates, the space cursor positions
// are reported in. PixelScaleX and PixelScaleY convert them to framebuffer
// pixels, which differ on high density displays.
type Viewport struct {
	WindowWidth, WindowHeight   float32
	LogicalWidth, LogicalHeight float32
	Width, Height               float32
	OffsetX, OffsetY            float32
	PixelScaleX, PixelScaleY    float32
}

// Recompute fits the logical resolution into the window.
func Recompute(windowWidth, windowHeight, logicalWidth, logicalHeight float32) Viewport {
	v := Viewport{
		WindowWidth:   windowWidth,
		WindowHeight:  windowHeight,
		LogicalWidth:  logicalWidth,
		LogicalHeight: logicalHeight,
		Width:         windowWidth,
		Height:        windowHeight,
		PixelScaleX:   1,
		PixelScaleY:   1,
	}
	if windowWidth <= 0 || windowHeight <= 0 || logicalWidth <= 0 || logicalHeight <= 0 {
		return v
	}
	screenAspect := windowWidth / windowHeight
	logicalAspect := logicalWidth / logicalHeight
	if screenAspect > logicalAspect {
		v.Width = windowHeight * logicalWidth / logicalHeight
		v.OffsetX = (windowWidth - v.Width) / 2
	} else if screenAspect < logicalAspect {
		v.Height = windowWidth * logicalHeight / logicalWidth
		v.OffsetY = (windowHeight - v.Height) / 2
	}
	return v
}

// WithFramebuffer returns v with the pixel scale of a framebuffer of the
// given size. Non-positive sizes leave v unchanged.
func (v Viewport) WithFramebuffer(width, height int) Viewport {
	if width <= 0 || height <= 0 || v.WindowWidth <= 0 || v.WindowHeight <= 0 {
		return v
	}
	v.PixelScaleX = float32(width) / v.WindowWidth
	v.PixelScaleY = float32(height) / v.WindowHeight
	return v
}

// ConvertWindowToLogical maps a window pixel position to logical
// coordinates. Positions on the bars are clamped to the nearest edge of
// the drawing area.
func (v Viewport) ConvertWindowToLogical(x, y float32) mgl.Vec2 {
	if v.Width <= 0 || v.Height <= 0 {
		return mgl.Vec2{}
	}
	x = mgl.Clamp(x-v.OffsetX, 0, math32.Max(v.Width-1, 0))
	y = mgl.Clamp(y-v.OffsetY, 0, math32.Max(v.Height-1, 0))
	return mgl.Vec2{
		x * v.LogicalWidth / v.Width,
		y * v.LogicalHeight / v.Height,
	}
}

// Projection maps logical coordinates, y pointing down, onto the viewport.
func (v Viewport) Projection() mgl.Mat4 {
	return mgl.Ortho2D(0, v.LogicalWidth, v.LogicalHeight, 0)
}

// Rect returns the viewport rectangle in whole framebuffer pixels. Edges
// are rounded to the nearest pixel rather than truncated, so a computed
// 1439.9999 still yields 1440.
func (v Viewport) Rect() (x, y, width, height int32) {
	sx, sy := v.PixelScaleX, v.PixelScaleY
	if sx <= 0 || sy <= 0 {
		sx, sy = 1, 1
	}
	return int32(math32.Round(v.OffsetX * sx)), int32(math32.Round(v.OffsetY * sy)),
		int32(math32.Round(v.Width * sx)), int32(math32.Round(v.Height * sy))
}

func (v Viewport) apply(dev Device) {
	dev.SetViewport(v.Rect())
	dev.SetProjection(v.Projection())
}

func (v Viewport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("window", [2]float32{v.WindowWidth, v.WindowHeight}),
		slog.Any("logical", [2]float32{v.LogicalWidth, v.LogicalHeight}),
		slog.Any("size", [2]float32{v.Width, v.Height}),
		slog.Any("offset", [2]float32{v.OffsetX, v.OffsetY}),
		slog.Any("pixel_scale", [2]float32{v.PixelScaleX, v.PixelScaleY}),
	)
}
