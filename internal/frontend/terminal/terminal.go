// Package terminal renders the 160×144 framebuffer as half-block glyphs in
// a real terminal via tcell, and forwards key events to the joypad's
// key-down/key-up contract, grounded on jeebie/backend/terminal.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"coreboy/internal/frontend"
	"coreboy/internal/joypad"
	"coreboy/internal/video"
)

const frameTime = time.Second / 60

// keyTimeout is how long a key is considered held after its last observed
// press event; tcell reports key-down repeats, not key-up, so a key is
// treated as released once this much time passes without a repeat.
const keyTimeout = 100 * time.Millisecond

// Backend presents frames in a terminal using tcell and captures keyboard
// input, translated to Game Boy joypad key transitions.
type Backend struct {
	screen   tcell.Screen
	config   frontend.Config
	lastSeen map[joypad.Key]time.Time
	wasDown  map[joypad.Key]bool
	running  bool
}

func New() *Backend {
	return &Backend{
		lastSeen: make(map[joypad.Key]time.Time),
		wasDown:  make(map[joypad.Key]bool),
		running:  true,
	}
}

// Running reports whether the backend is still running; it turns false
// once the user requests to quit (Esc/Ctrl-C).
func (t *Backend) Running() bool { return t.running }

func (t *Backend) Init(config frontend.Config) error {
	t.config = config

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()
	t.screen = screen
	return nil
}

// Update polls pending key events, renders frame, and reports key
// transitions observed since the previous call.
func (t *Backend) Update(frame *video.FrameBuffer) ([]frontend.InputEvent, error) {
	now := time.Now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				t.running = false
				continue
			}
			if k, ok := keyFor(ev); ok {
				t.lastSeen[k] = now
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	var events []frontend.InputEvent
	for k, seenAt := range t.lastSeen {
		down := now.Sub(seenAt) < keyTimeout
		if down != t.wasDown[k] {
			events = append(events, frontend.InputEvent{Key: k, Pressed: down})
			t.wasDown[k] = down
		}
	}

	t.render(frame)
	t.screen.Show()

	return events, nil
}

func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

// render blits frame as half-block glyphs: each terminal cell shows two
// vertically stacked pixels, upper half foreground + lower half
// background, matching jeebie/backend/terminal's drawGameBoy.
func (t *Backend) render(frame *video.FrameBuffer) {
	pixels := frame.ToSlice()
	for y := 0; y < video.FramebufferHeight; y += 2 {
		for x := 0; x < video.FramebufferWidth; x++ {
			top := pixels[y*video.FramebufferWidth+x]
			bottom := uint32(video.WhiteColor)
			if y+1 < video.FramebufferHeight {
				bottom = pixels[(y+1)*video.FramebufferWidth+x]
			}
			fg := shadeColor(top)
			bg := shadeColor(bottom)
			style := tcell.StyleDefault.Foreground(fg).Background(bg)
			t.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}

func shadeColor(pixel uint32) tcell.Color {
	switch video.GBColor(pixel) {
	case video.BlackColor:
		return tcell.ColorBlack
	case video.DarkGreyColor:
		return tcell.ColorGray
	case video.LightGreyColor:
		return tcell.ColorSilver
	default:
		return tcell.ColorWhite
	}
}

// keyFor maps a tcell key event to the joypad button it represents:
// arrow keys for the D-pad, Z/X for A/B, Enter for Start, Space for
// Select — the WASD-adjacent layout the teacher's default mapping uses.
func keyFor(ev *tcell.EventKey) (joypad.Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return joypad.Up, true
	case tcell.KeyDown:
		return joypad.Down, true
	case tcell.KeyLeft:
		return joypad.Left, true
	case tcell.KeyRight:
		return joypad.Right, true
	case tcell.KeyEnter:
		return joypad.Start, true
	}
	if ev.Key() == tcell.KeyRune {
		switch ev.Rune() {
		case 'z', 'Z':
			return joypad.A, true
		case 'x', 'X':
			return joypad.B, true
		case ' ':
			return joypad.Select, true
		}
	}
	return 0, false
}
