// Package video implements the four-mode scanline PPU described in
// spec.md §4.6: OAM scan, background/window/sprite pixel composition, the
// 160×144 frame buffer and the 192×128 tile-debug buffer.
package video

// GBColor is one of the four DMG monochrome shades, stored packed RGBA.
type GBColor uint32

const (
	WhiteColor     GBColor = 0xFFFFFFFF
	LightGreyColor GBColor = 0x989898FF
	DarkGreyColor  GBColor = 0x4C4C4CFF
	BlackColor     GBColor = 0x000000FF
)

// ByteToColor maps a 2-bit palette index (0-3) to its display color,
// matching the teacher's (and this corpus's) shade assignment.
func ByteToColor(value uint8) GBColor {
	switch value & 0x03 {
	case 0:
		return BlackColor
	case 1:
		return DarkGreyColor
	case 2:
		return LightGreyColor
	default:
		return WhiteColor
	}
}

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// FrameBuffer is the 160×144 frame the pixel-transfer mode writes into.
type FrameBuffer struct {
	pixels [FramebufferSize]uint32
}

func (fb *FrameBuffer) Set(x, y int, color GBColor) {
	fb.pixels[y*FramebufferWidth+x] = uint32(color)
}

func (fb *FrameBuffer) Get(x, y int) uint32 {
	return fb.pixels[y*FramebufferWidth+x]
}

// ToSlice exposes the raw pixel buffer for a presenter to blit.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.pixels[:]
}

const (
	// TileBufferWidth/Height is large enough to lay out all 384 8x8 tiles
	// in a 24x16 grid (192 = 24*8, 128 = 16*8), for debug viewing.
	TileBufferWidth  = 192
	TileBufferHeight = 128
	TileBufferSize   = TileBufferWidth * TileBufferHeight
	tilesPerRow      = TileBufferWidth / 8
)

// TileBuffer holds the debug rendering of every tile in VRAM, laid out in
// an 24x16 grid, refreshed once per V-blank entry (spec.md §3/§4.6).
type TileBuffer struct {
	pixels [TileBufferSize]uint32
}

func (tb *TileBuffer) set(x, y int, color GBColor) {
	tb.pixels[y*TileBufferWidth+x] = uint32(color)
}

func (tb *TileBuffer) ToSlice() []uint32 {
	return tb.pixels[:]
}
