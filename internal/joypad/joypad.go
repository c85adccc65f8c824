// Package joypad implements the console's 8-bit key latch and its
// edge-triggered interrupt (spec.md §4.3).
package joypad

import "coreboy/internal/bitops"

// Key identifies one of the eight physical buttons. Bit positions match
// the latch layout spec.md §4.3 defines.
type Key uint8

const (
	A      Key = 0
	B      Key = 1
	Select Key = 2
	Start  Key = 3
	Right  Key = 4
	Left   Key = 5
	Up     Key = 6
	Down   Key = 7
)

// isDirection reports whether key belongs to the direction group
// (bits 4-7) rather than the button group (bits 0-3).
func isDirection(k Key) bool { return k >= Right }

// Joypad holds the latched key state and the two per-group pending-edge
// flags that drive interrupt raising.
type Joypad struct {
	state            uint8 // 0 = pressed; all bits 1 means nothing pressed
	buttonPending    bool
	directionPending bool
}

// New returns a Joypad with no keys pressed.
func New() *Joypad {
	return &Joypad{state: 0xFF}
}

// KeyDown latches key as pressed and marks its group's edge pending.
func (j *Joypad) KeyDown(k Key) {
	wasUp := bitops.IsSet(uint8(k), j.state)
	j.state = bitops.Reset(uint8(k), j.state)
	if !wasUp {
		return
	}
	if isDirection(k) {
		j.directionPending = true
	} else {
		j.buttonPending = true
	}
}

// KeyUp releases key. Per spec.md §4.3 a release edge resets the whole
// latch to all-released rather than clearing just the one bit.
func (j *Joypad) KeyUp(k Key) {
	j.state = 0xFF
}

// State returns the raw 8-bit latch, "0 = pressed", for the bus to
// combine with the select bits on a P1 read.
func (j *Joypad) State() uint8 { return j.state }

// Poll runs once per machine cycle (spec.md §4.3). directionSelected and
// buttonSelected mirror the corresponding P1 select bits being 0 (selected
// on this hardware, inverted logic). It reports whether an interrupt
// should be raised this cycle, clearing the matching pending flag.
func (j *Joypad) Poll(directionSelected, buttonSelected bool) bool {
	fired := false
	if j.directionPending && directionSelected {
		j.directionPending = false
		fired = true
	}
	if j.buttonPending && buttonSelected {
		j.buttonPending = false
		fired = true
	}
	return fired
}
