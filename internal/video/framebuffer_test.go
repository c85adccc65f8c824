package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByteToColorMapsAllFourShades(t *testing.T) {
	assert.Equal(t, BlackColor, ByteToColor(0))
	assert.Equal(t, DarkGreyColor, ByteToColor(1))
	assert.Equal(t, LightGreyColor, ByteToColor(2))
	assert.Equal(t, WhiteColor, ByteToColor(3))
}

func TestByteToColorMasksToTwoBits(t *testing.T) {
	assert.Equal(t, ByteToColor(0), ByteToColor(0xF4)) // 0xF4 & 0x03 == 0
}

func TestFrameBufferSetGet(t *testing.T) {
	var fb FrameBuffer
	fb.Set(10, 5, WhiteColor)
	assert.Equal(t, uint32(WhiteColor), fb.Get(10, 5))
	assert.Zero(t, fb.Get(0, 0), "untouched pixels stay at the zero value")
}

func TestFrameBufferToSliceLength(t *testing.T) {
	var fb FrameBuffer
	assert.Len(t, fb.ToSlice(), FramebufferSize)
}

func TestTileBufferToSliceLength(t *testing.T) {
	var tb TileBuffer
	assert.Len(t, tb.ToSlice(), TileBufferSize)
}
