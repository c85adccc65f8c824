//go:build sdl2

// Package sdl2 is a windowed presenter built on go-sdl2. It is only
// compiled with -tags sdl2; the default build uses stub.go instead, so
// the module never requires SDL2 development libraries to compile
// (mirrors jeebie/backend/sdl2.go and its sdl2_stub.go companion).
package sdl2

import (
	"fmt"
	"log/slog"

	"github.com/veandco/go-sdl2/sdl"

	"coreboy/internal/frontend"
	"coreboy/internal/joypad"
	"coreboy/internal/video"
)

const (
	windowScale = 3
)

// Backend presents frames in a real SDL2 window and reports keyboard
// events as joypad key transitions.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
}

func New() *Backend { return &Backend{} }

func (s *Backend) Init(config frontend.Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl2: init: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		video.FramebufferWidth*windowScale, video.FramebufferHeight*windowScale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("sdl2: create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth, video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: create texture: %w", err)
	}
	s.texture = texture

	s.running = true
	slog.Info("sdl2 backend initialized", "title", config.Title)
	return nil
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]frontend.InputEvent, error) {
	if !s.running {
		return nil, nil
	}

	var events []frontend.InputEvent
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.running = false
		case *sdl.KeyboardEvent:
			if k, ok := keyFor(e.Keysym.Sym); ok {
				events = append(events, frontend.InputEvent{Key: k, Pressed: e.Type == sdl.KEYDOWN})
			}
			if e.Keysym.Sym == sdl.K_ESCAPE && e.Type == sdl.KEYDOWN {
				s.running = false
			}
		}
	}

	if err := s.blit(frame); err != nil {
		return events, err
	}
	return events, nil
}

func (s *Backend) blit(frame *video.FrameBuffer) error {
	pixels := frame.ToSlice()
	raw := make([]byte, len(pixels)*4)
	for i, p := range pixels {
		raw[i*4+0] = byte(p >> 24)
		raw[i*4+1] = byte(p >> 16)
		raw[i*4+2] = byte(p >> 8)
		raw[i*4+3] = byte(p)
	}
	if err := s.texture.Update(nil, raw, video.FramebufferWidth*4); err != nil {
		return fmt.Errorf("sdl2: update texture: %w", err)
	}
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}

func (s *Backend) Cleanup() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func keyFor(sym sdl.Keycode) (joypad.Key, bool) {
	switch sym {
	case sdl.K_RETURN:
		return joypad.Start, true
	case sdl.K_RSHIFT, sdl.K_LSHIFT:
		return joypad.Select, true
	case sdl.K_UP:
		return joypad.Up, true
	case sdl.K_DOWN:
		return joypad.Down, true
	case sdl.K_LEFT:
		return joypad.Left, true
	case sdl.K_RIGHT:
		return joypad.Right, true
	case sdl.K_z:
		return joypad.A, true
	case sdl.K_x:
		return joypad.B, true
	}
	return 0, false
}
