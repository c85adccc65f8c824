package video

import (
	"coreboy/internal/bus"
	"coreboy/internal/cart"
	"coreboy/internal/ioreg"
)

// newTestBus returns a bus backed by a blank 32KiB ROM, with the LCD
// enabled and a conventional tile-data/tile-map configuration so PPU
// tests don't need to set up LCDC by hand every time.
func newTestBus() *bus.Bus {
	rom := make([]byte, 0x8000)
	b := bus.New(cart.New(rom))
	b.Write8(ioreg.LCDC, lcdDisplayEnable|bgDisplay|bgWindowTileDataSelect)
	b.Write8(ioreg.BGP, 0xE4)  // 11 10 01 00: identity-ish palette
	b.Write8(ioreg.OBP0, 0xE4)
	b.Write8(ioreg.OBP1, 0xE4)
	return b
}

// writeTile writes an 8x8 1bpp-per-plane tile (8 rows of lo/hi byte
// pairs) at the given VRAM tile-data address.
func writeTile(b *bus.Bus, addr uint16, rows [8][2]uint8) {
	for i, row := range rows {
		b.Write8(addr+uint16(i)*2, row[0])
		b.Write8(addr+uint16(i)*2+1, row[1])
	}
}

// runLine ticks p exactly one full scanline (114 machine cycles).
func runLine(p *PPU, b *bus.Bus) {
	for i := 0; i < lineCycles; i++ {
		p.Tick(b)
	}
}
