package video

import (
	"coreboy/internal/bus"
	"coreboy/internal/ioreg"
)

const tileCount = 384

// renderTileBuffer redraws the debug tile buffer from the full 384-tile
// VRAM tile data area, laid out in a 24x16 grid (spec.md §3's
// draw_tile_buffer latch, refreshed once per V-blank entry). Always reads
// tiles via unsigned 0x8000 indexing, independent of LCDC's BG/window
// tile-data-select bit — the debug view shows VRAM contents directly.
func (p *PPU) renderTileBuffer(b *bus.Bus) {
	for tile := 0; tile < tileCount; tile++ {
		originX := (tile % tilesPerRow) * 8
		originY := (tile / tilesPerRow) * 8
		base := ioreg.TileData0 + uint16(tile)*16

		for row := 0; row < 8; row++ {
			lo := b.Read8(base + uint16(row)*2)
			hi := b.Read8(base + uint16(row)*2 + 1)
			for col := 0; col < 8; col++ {
				bit := uint8(7 - col)
				colorIndex := colorIndexFromBytes(lo, hi, bit)
				p.TileBuffer.set(originX+col, originY+row, ByteToColor(colorIndex))
			}
		}
	}
}
