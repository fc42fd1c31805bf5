package graphics

import (
	"fmt"
	"slices"
)

// Atlas packs many small images into one texture. Images are placed with a
// skyline packer and a one pixel gutter; each placed image is returned as a
// view addressing its region of the shared texture.
type Atlas struct {
	g       *Graphics
	texture *Texture
	width   int32
	height  int32
	skyline []skylineNode
}

// NewAtlas creates an empty width x height atlas.
func (g *Graphics) NewAtlas(width, height int) (*Atlas, error) {
	t, err := g.loader.CreateBlank(width, height)
	if err != nil {
		return nil, fmt.Errorf("create atlas: %w", err)
	}
	return &Atlas{
		g:       g,
		texture: t,
		width:   int32(width),
		height:  int32(height),
		skyline: []skylineNode{{0, 0}},
	}, nil
}

// Texture returns the backing texture.
func (a *Atlas) Texture() *Texture {
	return a.texture
}

// Add uploads a width x height RGBA8 image into a free region and returns
// a texture view of it. Views are drawn like any texture and become stale
// when the atlas is released.
func (a *Atlas) Add(pixels []byte, width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%d", ErrInvalidData, len(pixels), width, height)
	}
	handle, ok := a.g.textures.lookup(a.texture.id)
	if !ok {
		return nil, ErrStaleTexture
	}
	w, h := int32(width), int32(height)
	x, y, ok := a.place(w, h)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%d", ErrAtlasFull, width, height)
	}
	a.g.dev.SetSubData(handle, pixels, x, y, w, h)

	sw, sh := float32(a.texture.storageWidth), float32(a.texture.storageHeight)
	return &Texture{
		id:            a.texture.id,
		width:         w,
		height:        h,
		storageWidth:  a.texture.storageWidth,
		storageHeight: a.texture.storageHeight,
		uv: [4]float32{
			float32(x) / sw, float32(y) / sh,
			float32(x+w) / sw, float32(y+h) / sh,
		},
		externalScale: [2]float32{1, 1},
		view:          true,
	}, nil
}

// Release frees the atlas texture.
func (a *Atlas) Release() error {
	return a.g.ReleaseTexture(a.texture)
}

// gutter is left empty around every packed image.
const gutter = int32(1)

// skylineNode starts a horizontal segment of the skyline at x. The segment
// runs to the next node, or the atlas edge for the last one.
type skylineNode struct {
	x, y int32
}

// place finds the lowest segment run that fits a width x height box plus
// gutter, raises the skyline over it and returns the top-left corner of
// the box.
func (a *Atlas) place(width, height int32) (int32, int32, bool) {
	width += 2 * gutter
	height += 2 * gutter

	best, bestEnd := -1, 0
	var bestX, bestY int32
	for i, n := range a.skyline {
		if width > a.width-n.x {
			break
		}
		if best >= 0 && n.y >= bestY {
			continue
		}
		// The box rests on the highest segment it spans.
		top, end := n.y, i+1
		for ; end < len(a.skyline) && a.skyline[end].x < n.x+width; end++ {
			top = max(top, a.skyline[end].y)
		}
		if (best >= 0 && top >= bestY) || height > a.height-top {
			continue
		}
		best, bestEnd = i, end
		bestX, bestY = n.x, top
	}
	if best < 0 {
		return 0, 0, false
	}

	right := a.width
	if bestEnd < len(a.skyline) {
		right = a.skyline[bestEnd].x
	}
	covered := []skylineNode{{bestX, bestY + height}}
	if bestX+width < right {
		covered = append(covered, skylineNode{bestX + width, a.skyline[bestEnd-1].y})
	}
	a.skyline = slices.Replace(a.skyline, best, bestEnd, covered...)
	return bestX + gutter, bestY + gutter, true
}
