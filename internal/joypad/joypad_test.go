package joypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewJoypadAllReleased(t *testing.T) {
	j := New()
	assert.Equal(t, uint8(0xFF), j.State())
}

func TestKeyDownClearsBitAndSetsGroupPending(t *testing.T) {
	j := New()
	j.KeyDown(A)
	assert.False(t, j.State()&(1<<A) != 0)

	fired := j.Poll(true, false) // only direction selected, A is a button
	assert.False(t, fired)

	fired = j.Poll(true, true)
	assert.True(t, fired)
}

func TestDirectionAndButtonPendingAreIndependent(t *testing.T) {
	j := New()
	j.KeyDown(Up)
	j.KeyDown(Start)

	fired := j.Poll(false, true)
	assert.True(t, fired, "button group selected should fire for Start")

	fired = j.Poll(false, true)
	assert.False(t, fired, "pending flag is cleared after firing once")

	fired = j.Poll(true, false)
	assert.True(t, fired, "direction pending from Up still latent")
}

func TestKeyDownWithoutSelectDoesNotFire(t *testing.T) {
	j := New()
	j.KeyDown(Down)
	assert.False(t, j.Poll(false, false))
}

func TestKeyUpResetsEntireLatch(t *testing.T) {
	j := New()
	j.KeyDown(A)
	j.KeyDown(Up)
	j.KeyUp(A)
	assert.Equal(t, uint8(0xFF), j.State())
}

func TestRepeatedKeyDownWithoutReleaseDoesNotReRaisePending(t *testing.T) {
	j := New()
	j.KeyDown(B)
	j.Poll(false, true) // consume the pending edge
	j.KeyDown(B)        // already held down, no new edge
	assert.False(t, j.Poll(false, true))
}
