package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coreboy/internal/bus"
	"coreboy/internal/ioreg"
)

func writeSprite(b *bus.Bus, index int, y, x int, tile, flags uint8) {
	base := ioreg.OAMStart + uint16(index*4)
	b.Write8(base, uint8(y+16))
	b.Write8(base+1, uint8(x+8))
	b.Write8(base+2, tile)
	b.Write8(base+3, flags)
}

func TestScanOAMSelectsSpritesOverlappingLine(t *testing.T) {
	b := newTestBus()
	writeSprite(b, 0, 10, 20, 1, 0)
	writeSprite(b, 1, 50, 30, 2, 0)

	sprites := scanOAM(b, 10, 8)
	require.Len(t, sprites, 1)
	assert.Equal(t, 20, sprites[0].X)
	assert.Equal(t, 1, int(sprites[0].TileIndex))
}

func TestScanOAMRespectsObjectHeight(t *testing.T) {
	b := newTestBus()
	writeSprite(b, 0, 10, 20, 1, 0)

	assert.Len(t, scanOAM(b, 17, 8), 1, "line 17 is within an 8-tall sprite starting at 10")
	assert.Len(t, scanOAM(b, 18, 8), 0, "line 18 is outside an 8-tall sprite starting at 10")
	assert.Len(t, scanOAM(b, 18, 16), 1, "line 18 is within a 16-tall sprite starting at 10")
}

func TestScanOAMCapsAtTenSprites(t *testing.T) {
	b := newTestBus()
	for i := 0; i < 40; i++ {
		writeSprite(b, i, 10, i, 0, 0)
	}
	assert.Len(t, scanOAM(b, 10, 8), 10)
}

func TestScanOAMPreservesOAMOrder(t *testing.T) {
	b := newTestBus()
	writeSprite(b, 5, 10, 1, 0, 0)
	writeSprite(b, 2, 10, 2, 0, 0)

	sprites := scanOAM(b, 10, 8)
	require.Len(t, sprites, 2)
	assert.Equal(t, 2, sprites[0].OAMIndex)
	assert.Equal(t, 5, sprites[1].OAMIndex)
}

func TestObjectAttributesFlagGetters(t *testing.T) {
	o := objectAttributes{Flags: 0x20 | 0x40 | 0x80 | 0x10}
	assert.True(t, o.xFlip())
	assert.True(t, o.yFlip())
	assert.True(t, o.behindBG())
	assert.Equal(t, 1, o.paletteNumber())
}
