package video

import (
	"coreboy/internal/bus"
	"coreboy/internal/ioreg"
)

// renderScanline draws the current line's background, window, and sprite
// pixels into the frame buffer, following spec.md §4.6's pixel algorithm.
// Real hardware computes one pixel per cycle via a fetch-and-FIFO
// pipeline; this draws the whole line synchronously on entering pixel
// transfer, which produces an identical frame buffer (see ppu.go's
// pixelTransferCycles comment).
func (p *PPU) renderScanline(b *bus.Bus, lcdc uint8) {
	if lcdc&bgDisplay == 0 {
		// BG/window disabled: spec.md treats this as displaying color 0
		// of the BG palette across the whole line (DMG quirk carried
		// from the teacher's drawBackground).
		bgp := b.Read8(ioreg.BGP)
		color := ByteToColor(bgp & 0x03)
		for x := 0; x < FramebufferWidth; x++ {
			p.FrameBuffer.Set(x, p.line, color)
			p.bgPriority[x] = 0
		}
	} else {
		p.drawBackgroundAndWindow(b, lcdc)
	}

	if lcdc&spriteDisplayEnable != 0 {
		p.drawSprites(b, lcdc)
	}
}

// drawBackgroundAndWindow fills one scanline per spec.md §4.6's
// background/window pixel algorithm, pixel by pixel.
func (p *PPU) drawBackgroundAndWindow(b *bus.Bus, lcdc uint8) {
	scx := int(b.Read8(ioreg.SCX))
	scy := int(b.Read8(ioreg.SCY))
	wy := int(b.Read8(ioreg.WY))
	windowX := int(b.Read8(ioreg.WX)) - 7
	windowEnabled := lcdc&windowDisplayEnable != 0 && wy <= p.line

	useSignedTiles := lcdc&bgWindowTileDataSelect == 0
	bgTileMap := ioreg.TileMap0
	if lcdc&bgTileMapDisplaySelect != 0 {
		bgTileMap = ioreg.TileMap1
	}
	windowTileMap := ioreg.TileMap0
	if lcdc&windowTileMapSelect != 0 {
		windowTileMap = ioreg.TileMap1
	}

	usedWindow := false
	for x := 0; x < FramebufferWidth; x++ {
		var tileMap uint16
		var px, py int
		if windowEnabled && x >= windowX {
			tileMap = windowTileMap
			py = p.line - wy
			px = x - windowX
			usedWindow = true
		} else {
			tileMap = bgTileMap
			py = (p.line + scy) & 0xFF
			px = (x + scx) & 0xFF
		}

		tileRow := (py / 8) * 32
		tileCol := px / 8
		tileID := b.Read8(tileMap + uint16(tileRow+tileCol))

		tileDataAddr := tileDataAddress(tileID, useSignedTiles) + uint16(py%8)*2
		lo := b.Read8(tileDataAddr)
		hi := b.Read8(tileDataAddr + 1)

		bit := uint8(7 - px%8)
		colorIndex := colorIndexFromBytes(lo, hi, bit)

		bgp := b.Read8(ioreg.BGP)
		paletteColor := (bgp >> (colorIndex * 2)) & 0x03

		p.FrameBuffer.Set(x, p.line, ByteToColor(paletteColor))
		p.bgPriority[x] = colorIndex
	}

	if usedWindow {
		p.windowLine++
	}
}

// tileDataAddress resolves the tile data base address per the LCDC
// tile-data-select bit: unsigned indexing from 0x8000, or signed
// indexing (tile 0 at 0x9000) when the signed base is selected.
func tileDataAddress(tileID uint8, signed bool) uint16 {
	if signed {
		return uint16(int32(ioreg.TileData2) + int32(int8(tileID))*16)
	}
	return ioreg.TileData0 + uint16(tileID)*16
}

// colorIndexFromBytes extracts the 2-bit color index for the pixel at
// bitPos (7=leftmost) from a tile row's low/high planes.
func colorIndexFromBytes(lo, hi uint8, bitPos uint8) uint8 {
	var index uint8
	if hi&(1<<bitPos) != 0 {
		index |= 2
	}
	if lo&(1<<bitPos) != 0 {
		index |= 1
	}
	return index
}

// drawSprites overlays the current line's selected objects, resolving
// sprite-to-sprite priority via spritePriorityBuffer and background
// priority via p.bgPriority (spec.md §4.6's sprite overlay algorithm).
func (p *PPU) drawSprites(b *bus.Bus, lcdc uint8) {
	height := 8
	if lcdc&spriteSize != 0 {
		height = 16
	}

	sprites := scanOAM(b, p.line, height)

	p.priority.clear()
	for _, s := range sprites {
		for dx := 0; dx < 8; dx++ {
			p.priority.tryClaimPixel(s.X+dx, s.OAMIndex, s.X)
		}
	}

	for _, s := range sprites {
		rowInSprite := p.line - s.Y
		if s.yFlip() {
			rowInSprite = height - 1 - rowInSprite
		}

		tile := s.TileIndex
		if height == 16 {
			tile &^= 0x01
		}
		tileDataAddr := ioreg.TileData0 + uint16(tile)*16 + uint16(rowInSprite)*2
		lo := b.Read8(tileDataAddr)
		hi := b.Read8(tileDataAddr + 1)

		palette := ioreg.OBP0
		if s.paletteNumber() == 1 {
			palette = ioreg.OBP1
		}
		obp := b.Read8(palette)

		for dx := 0; dx < 8; dx++ {
			screenX := s.X + dx
			if screenX < 0 || screenX >= FramebufferWidth {
				continue
			}
			if p.priority.owner(screenX) != s.OAMIndex {
				continue
			}

			bit := uint8(dx)
			if !s.xFlip() {
				bit = 7 - uint8(dx)
			}
			colorIndex := colorIndexFromBytes(lo, hi, bit)
			if colorIndex == 0 {
				continue // transparent
			}
			if s.behindBG() && p.bgPriority[screenX] != 0 {
				continue // sprite is behind a non-transparent BG/window pixel
			}

			paletteColor := (obp >> (colorIndex * 2)) & 0x03
			p.FrameBuffer.Set(screenX, p.line, ByteToColor(paletteColor))
		}
	}
}
