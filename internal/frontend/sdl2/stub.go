//go:build !sdl2

// This stub keeps internal/frontend/sdl2 buildable without SDL2's
// development libraries installed; build with -tags sdl2 to get the real
// windowed presenter in sdl2.go instead (mirrors jeebie/backend/sdl2_stub.go).
package sdl2

import (
	"fmt"

	"coreboy/internal/frontend"
	"coreboy/internal/video"
)

// Backend is a non-functional placeholder; every method reports that the
// real backend was not compiled in.
type Backend struct{}

func New() *Backend { return &Backend{} }

func (s *Backend) Init(config frontend.Config) error {
	return fmt.Errorf("sdl2 backend not available: build with -tags sdl2 and SDL2 development libraries installed")
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]frontend.InputEvent, error) {
	return nil, fmt.Errorf("sdl2 backend not available")
}

func (s *Backend) Cleanup() error { return nil }
