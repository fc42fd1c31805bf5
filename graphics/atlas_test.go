package graphics

import (
	"bytes"
	"image"
	"testing"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, v byte) []byte {
	return bytes.Repeat([]byte{v}, w*h*4)
}

func TestAtlasAdd(t *testing.T) {
	g, dev, _, _ := newTestGraphics(t)
	a, err := g.NewAtlas(64, 64)
	require.NoError(t, err)

	first, err := a.Add(solid(10, 10, 1), 10, 10)
	require.NoError(t, err)
	second, err := a.Add(solid(10, 10, 2), 10, 10)
	require.NoError(t, err)

	assert.Equal(t, [4]float32{1.0 / 64, 1.0 / 64, 11.0 / 64, 11.0 / 64}, first.UV())
	assert.Equal(t, [4]float32{13.0 / 64, 1.0 / 64, 23.0 / 64, 11.0 / 64}, second.UV())
	assert.Equal(t, int32(10), first.Width())
	assert.Equal(t, a.Texture().ID(), first.ID())

	dev.reset()
	tri := []mgl.Vec2{{0, 0}, {10, 0}, {0, 10}}
	g.DrawTextureVertices(second, tri, tri, White, DefaultDrawState)
	require.Len(t, dev.draws, 1)
	assertVec2(t, mgl.Vec2{23.0 / 64, 1.0 / 64}, mgl.Vec2{dev.draws[0].verts[1].U, dev.draws[0].verts[1].V})
}

func TestAtlasRegionsDoNotOverlap(t *testing.T) {
	g, _, _, _ := newTestGraphics(t)
	a, err := g.NewAtlas(128, 128)
	require.NoError(t, err)

	var rects []image.Rectangle
	sizes := [][2]int{{30, 10}, {5, 40}, {20, 20}, {60, 8}, {12, 12}, {7, 33}, {40, 40}, {3, 3}}
	for _, s := range sizes {
		tex, err := a.Add(solid(s[0], s[1], 7), s[0], s[1])
		require.NoError(t, err)
		uv := tex.UV()
		r := image.Rect(int(uv[0]*128), int(uv[1]*128), int(uv[2]*128), int(uv[3]*128))
		assert.Equal(t, s[0], r.Dx())
		assert.Equal(t, s[1], r.Dy())
		// Keep the one pixel gutter.
		grown := r.Inset(-1)
		for _, o := range rects {
			assert.False(t, grown.Overlaps(o), "%v overlaps %v", r, o)
		}
		rects = append(rects, r)
	}
}

func TestAtlasSkylinePrefersLowestSegment(t *testing.T) {
	g, _, _, _ := newTestGraphics(t)
	a, err := g.NewAtlas(64, 64)
	require.NoError(t, err)

	x, y, ok := a.place(10, 10)
	require.True(t, ok)
	assert.Equal(t, [2]int32{1, 1}, [2]int32{x, y})
	assert.Equal(t, []skylineNode{{0, 12}, {12, 0}}, a.skyline)

	x, y, ok = a.place(10, 20)
	require.True(t, ok)
	assert.Equal(t, [2]int32{13, 1}, [2]int32{x, y})
	assert.Equal(t, []skylineNode{{0, 12}, {12, 22}, {24, 0}}, a.skyline)

	// Starting at x=0 would rest on the 22 high column, so the box goes right.
	x, y, ok = a.place(30, 5)
	require.True(t, ok)
	assert.Equal(t, [2]int32{25, 1}, [2]int32{x, y})
	assert.Equal(t, []skylineNode{{0, 12}, {12, 22}, {24, 7}, {56, 0}}, a.skyline)

	// Spanning every segment merges them into one.
	x, y, ok = a.place(62, 10)
	require.True(t, ok)
	assert.Equal(t, [2]int32{1, 23}, [2]int32{x, y})
	assert.Equal(t, []skylineNode{{0, 34}}, a.skyline)
}

func TestAtlasFull(t *testing.T) {
	g, _, _, _ := newTestGraphics(t)
	a, err := g.NewAtlas(16, 16)
	require.NoError(t, err)

	_, err = a.Add(solid(14, 14, 1), 14, 14)
	require.NoError(t, err)
	_, err = a.Add(solid(2, 2, 1), 2, 2)
	assert.ErrorIs(t, err, ErrAtlasFull)

	_, err = a.Add(solid(2, 2, 1), 2, 3)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestAtlasReleaseInvalidatesViews(t *testing.T) {
	g, dev, _, _ := newTestGraphics(t)
	a, err := g.NewAtlas(32, 32)
	require.NoError(t, err)
	view, err := a.Add(solid(4, 4, 1), 4, 4)
	require.NoError(t, err)

	require.NoError(t, a.Release())
	dev.reset()
	g.DrawTexture(view, 0, 0, 4, 4, White, 0)
	assert.Empty(t, dev.calls)

	_, err = a.Add(solid(4, 4, 1), 4, 4)
	assert.ErrorIs(t, err, ErrStaleTexture)
}

func TestReadTextureAtlasView(t *testing.T) {
	g, _, _, _ := newTestGraphics(t)
	a, err := g.NewAtlas(32, 32)
	require.NoError(t, err)
	_, err = a.Add(solid(4, 4, 1), 4, 4)
	require.NoError(t, err)
	view, err := a.Add(solid(3, 2, 200), 3, 2)
	require.NoError(t, err)

	img, err := g.ReadTexture(view)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Rect)
	assert.Equal(t, solid(3, 2, 200), img.Pix)
}

func TestReleasingAtlasViewKeepsAtlas(t *testing.T) {
	g, _, _, _ := newTestGraphics(t)
	a, err := g.NewAtlas(32, 32)
	require.NoError(t, err)
	icon, err := a.Add(solid(4, 4, 1), 4, 4)
	require.NoError(t, err)
	assert.True(t, icon.IsView())
	assert.False(t, a.Texture().IsView())

	assert.ErrorIs(t, g.ReleaseTexture(icon), ErrTextureView)
	assert.Equal(t, 1, g.LiveTextures())

	require.NoError(t, a.Release())
	assert.Equal(t, 0, g.LiveTextures())
}
