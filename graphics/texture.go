package graphics

import (
	"fmt"
	"log/slog"
)

// TextureID names a slot of the texture table. The zero value is never valid.
type TextureID struct {
	index      uint32
	generation uint32
}

func (id TextureID) IsZero() bool {
	return id.generation == 0
}

func (id TextureID) String() string {
	return fmt.Sprintf("%d#%d", id.index, id.generation)
}

// Texture is a GPU image. Width and Height are the logical size of the
// source image; the storage may be larger when it was padded to a power of
// two, in which case UV addresses the used part of it.
type Texture struct {
	id            TextureID
	width         int32
	height        int32
	storageWidth  int32
	storageHeight int32
	uv            [4]float32
	externalScale [2]float32
	filename      string

	// view is set on textures that share another texture's storage.
	view bool
}

func newTexture(id TextureID, width, height, storageWidth, storageHeight int32) *Texture {
	return &Texture{
		id:            id,
		width:         width,
		height:        height,
		storageWidth:  storageWidth,
		storageHeight: storageHeight,
		uv: [4]float32{0, 0,
			float32(width) / float32(storageWidth),
			float32(height) / float32(storageHeight)},
		externalScale: [2]float32{1, 1},
	}
}

func (t *Texture) ID() TextureID             { return t.id }
func (t *Texture) Width() int32              { return t.width }
func (t *Texture) Height() int32             { return t.height }
func (t *Texture) StorageWidth() int32       { return t.storageWidth }
func (t *Texture) StorageHeight() int32      { return t.storageHeight }
func (t *Texture) UV() [4]float32            { return t.uv }
func (t *Texture) ExternalScale() [2]float32 { return t.externalScale }
func (t *Texture) Filename() string          { return t.filename }

// WithExternalScale returns a view of t whose texture coordinates are
// multiplied by (sx, sy) before they are mapped into the UV rectangle.
// The view shares the device texture; ReleaseTexture refuses it.
func (t *Texture) WithExternalScale(sx, sy float32) *Texture {
	v := *t
	v.externalScale = [2]float32{sx, sy}
	v.view = true
	return &v
}

// IsView reports whether t borrows the storage of another texture, as
// external scale views and atlas regions do.
func (t *Texture) IsView() bool { return t.view }

func (t *Texture) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", t.id.String()),
		slog.Int("width", int(t.width)),
		slog.Int("height", int(t.height)),
		slog.Int("storage_width", int(t.storageWidth)),
		slog.Int("storage_height", int(t.storageHeight)),
		slog.String("filename", t.filename),
	)
}

type textureSlot struct {
	handle     uint32
	generation uint32
	live       bool
}

// textureTable maps texture ids to device handles. Removing an entry bumps
// the slot generation so ids held elsewhere stop resolving.
type textureTable struct {
	slots []textureSlot
	free  []uint32
}

func (t *textureTable) insert(handle uint32) TextureID {
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = uint32(len(t.slots))
		t.slots = append(t.slots, textureSlot{})
	}
	s := &t.slots[index]
	s.generation++
	s.handle = handle
	s.live = true
	return TextureID{index: index, generation: s.generation}
}

func (t *textureTable) lookup(id TextureID) (uint32, bool) {
	if id.IsZero() || int(id.index) >= len(t.slots) {
		return 0, false
	}
	s := t.slots[id.index]
	if !s.live || s.generation != id.generation {
		return 0, false
	}
	return s.handle, true
}

// remove returns the handle of id and invalidates it. It reports false
// when id was already removed.
func (t *textureTable) remove(id TextureID) (uint32, bool) {
	h, ok := t.lookup(id)
	if !ok {
		return 0, false
	}
	s := &t.slots[id.index]
	s.live = false
	s.handle = 0
	t.free = append(t.free, id.index)
	return h, true
}

func (t *textureTable) len() int {
	return len(t.slots) - len(t.free)
}
