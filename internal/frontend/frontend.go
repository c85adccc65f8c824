// Package frontend defines the host-collaborator contract every presenter
// (terminal, headless, sdl2) implements. Windowing and input capture are
// explicitly out of scope for the core (spec.md §1); this is the seam a
// runnable program uses to drive it, grounded on the teacher's
// jeebie/backend.Backend interface.
package frontend

import (
	"coreboy/internal/joypad"
	"coreboy/internal/video"
)

// Backend renders frames and captures host input for one platform.
type Backend interface {
	// Init prepares the backend to receive frames, using config.
	Init(config Config) error

	// Update presents frame and returns any key transitions captured
	// since the previous call.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup releases any platform resources (terminal mode, window).
	Cleanup() error
}

// InputEvent is a single joypad key transition a Backend observed.
type InputEvent struct {
	Key     joypad.Key
	Pressed bool
}

// Config configures a Backend at startup.
type Config struct {
	Title     string
	ROMPath   string
	MaxFrames int // headless only; 0 means unbounded
	Snapshot  SnapshotConfig
}

// SnapshotConfig controls periodic PNG frame dumps (headless/debug use).
type SnapshotConfig struct {
	Enabled   bool
	Interval  int // save every Nth frame
	Directory string
}
