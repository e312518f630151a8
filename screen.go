package rip8

const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Screen is the framebuffer packed as 8 pixels per byte, most significant bit first
type Screen []byte

// ScreenSettings for the console
type ScreenSettings struct {
	Width, Height int
}

var SmallScreen = ScreenSettings{
	Width:  ScreenWidth,
	Height: ScreenHeight,
}

const screenSizeInBytes = ScreenWidth * ScreenHeight / 8

// Framebuffer holds the pixels and whether they changed since the last render.
// Dirty is cleared by the renderer, never by the CPU.
type Framebuffer struct {
	pixels [screenSizeInBytes]byte
	Dirty  bool
}

func (fb *Framebuffer) Clear() {
	fb.pixels = [screenSizeInBytes]byte{}
	fb.Dirty = true
}

func toScreenCoord(x, y int) (int, byte) {
	t := (y%ScreenHeight)*ScreenWidth + x%ScreenWidth

	return t / 8, 0b10000000 >> (t % 8)
}

// Pixel reports whether the pixel at x, y is set. Coordinates wrap around.
func (fb *Framebuffer) Pixel(x, y int) bool {
	t, mask := toScreenCoord(x, y)

	return fb.pixels[t]&mask > 0
}

// DrawSprite XORs a sprite row onto the screen at x, y.
// Each column wraps independently around the edge of the screen.
// Returns whether any pixel was erased.
func (fb *Framebuffer) DrawSprite(x, y int, sprite byte) bool {
	collision := false
	for bit := 0; bit < 8; bit++ {
		if sprite&(0b10000000>>bit) == 0 {
			continue
		}

		t, mask := toScreenCoord(x+bit, y)
		if fb.pixels[t]&mask > 0 {
			collision = true
		}
		fb.pixels[t] ^= mask
	}

	return collision
}

// Screen returns a copy of the packed pixels
func (fb *Framebuffer) Screen() Screen {
	s := make(Screen, screenSizeInBytes)
	copy(s, fb.pixels[:])

	return s
}

// Unpack expands a packed screen into one byte per pixel, row major
func (s Screen) Unpack(dst []byte) {
	for i, t := 0, 0; i < len(s) && t+8 <= len(dst); i, t = i+1, t+8 {
		for bit := 0; bit < 8; bit++ {
			dst[t+bit] = (s[i] >> (7 - bit)) & 0b1
		}
	}
}
