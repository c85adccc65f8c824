package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"coreboy/internal/frontend"
	"coreboy/internal/joypad"
	"coreboy/internal/video"
)

func TestTerminalImplementsBackend(t *testing.T) {
	var _ frontend.Backend = (*Backend)(nil)
}

func TestKeyForArrowsMapToDPad(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		want joypad.Key
	}{
		{tcell.KeyUp, joypad.Up},
		{tcell.KeyDown, joypad.Down},
		{tcell.KeyLeft, joypad.Left},
		{tcell.KeyRight, joypad.Right},
		{tcell.KeyEnter, joypad.Start},
	}
	for _, c := range cases {
		k, ok := keyFor(tcell.NewEventKey(c.key, 0, tcell.ModNone))
		assert.True(t, ok)
		assert.Equal(t, c.want, k)
	}
}

func TestKeyForRunesMapToActionButtons(t *testing.T) {
	cases := []struct {
		r    rune
		want joypad.Key
	}{
		{'z', joypad.A},
		{'Z', joypad.A},
		{'x', joypad.B},
		{' ', joypad.Select},
	}
	for _, c := range cases {
		k, ok := keyFor(tcell.NewEventKey(tcell.KeyRune, c.r, tcell.ModNone))
		assert.True(t, ok)
		assert.Equal(t, c.want, k)
	}
}

func TestKeyForUnmappedRuneReturnsFalse(t *testing.T) {
	_, ok := keyFor(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	assert.False(t, ok)
}

func TestShadeColorMapsAllFourShades(t *testing.T) {
	assert.Equal(t, tcell.ColorBlack, shadeColor(uint32(video.BlackColor)))
	assert.Equal(t, tcell.ColorGray, shadeColor(uint32(video.DarkGreyColor)))
	assert.Equal(t, tcell.ColorSilver, shadeColor(uint32(video.LightGreyColor)))
	assert.Equal(t, tcell.ColorWhite, shadeColor(uint32(video.WhiteColor)))
}

func TestNewBackendStartsRunning(t *testing.T) {
	b := New()
	assert.True(t, b.Running())
}
