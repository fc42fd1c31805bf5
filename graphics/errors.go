package graphics

// Error is a constant error value.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrDecode          = Error("graphics: unable to load image")
	ErrStaleTexture    = Error("graphics: texture has been released")
	ErrInvalidData     = Error("graphics: pixel data does not match texture size")
	ErrInvalidSize     = Error("graphics: invalid texture size")
	ErrVideoInit       = Error("graphics: video initialization failed")
	ErrNoFramebuffer   = Error("graphics: render targets are not supported by the device")
	ErrNoMultitexture  = Error("graphics: multitexturing is not supported by the device")
	ErrAtlasFull       = Error("graphics: no space left in atlas")
	ErrBufferDestroyed = Error("graphics: graphics buffer has been destroyed")
	ErrTextureView     = Error("graphics: texture is a view of another texture")
)
