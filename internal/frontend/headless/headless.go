// Package headless drives a Machine for a fixed number of frames without a
// window, for batch test-ROM runs and CI, grounded on
// jeebie/backend/headless.go's HeadlessBackend.
package headless

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"coreboy/internal/frontend"
	"coreboy/internal/video"
)

// Backend counts completed frames and optionally saves a PNG snapshot
// every config.Snapshot.Interval frames. It never produces input events:
// a headless run has no host to capture input from.
type Backend struct {
	config     frontend.Config
	frameCount int
}

func New() *Backend { return &Backend{} }

func (h *Backend) Init(config frontend.Config) error {
	h.config = config
	if config.Snapshot.Enabled {
		if err := os.MkdirAll(config.Snapshot.Directory, 0o755); err != nil {
			return fmt.Errorf("headless: create snapshot dir: %w", err)
		}
	}
	slog.Info("running headless",
		"max_frames", config.MaxFrames,
		"snapshot_interval", config.Snapshot.Interval,
		"snapshot_dir", config.Snapshot.Directory)
	return nil
}

func (h *Backend) Update(frame *video.FrameBuffer) ([]frontend.InputEvent, error) {
	h.frameCount++

	if h.config.Snapshot.Enabled && h.frameCount%h.config.Snapshot.Interval == 0 {
		if err := h.saveSnapshot(frame); err != nil {
			slog.Error("snapshot failed", "frame", h.frameCount, "error", err)
		}
	}
	if h.frameCount%10 == 0 {
		slog.Info("frame progress", "completed", h.frameCount, "total", h.config.MaxFrames)
	}
	return nil, nil
}

func (h *Backend) Cleanup() error { return nil }

// Done reports whether the configured frame budget has been reached. A
// zero MaxFrames means run forever (the caller decides when to stop).
func (h *Backend) Done() bool {
	return h.config.MaxFrames > 0 && h.frameCount >= h.config.MaxFrames
}

// FrameCount reports the number of frames presented so far.
func (h *Backend) FrameCount() int { return h.frameCount }

func (h *Backend) saveSnapshot(frame *video.FrameBuffer) error {
	img := image.NewRGBA(image.Rect(0, 0, video.FramebufferWidth, video.FramebufferHeight))
	for i, pixel := range frame.ToSlice() {
		img.Pix[i*4+0] = byte(pixel >> 24)
		img.Pix[i*4+1] = byte(pixel >> 16)
		img.Pix[i*4+2] = byte(pixel >> 8)
		img.Pix[i*4+3] = byte(pixel)
	}

	base := strings.TrimSuffix(filepath.Base(h.config.ROMPath), filepath.Ext(h.config.ROMPath))
	if base == "" || base == "." {
		base = "coreboy"
	}
	name := fmt.Sprintf("%s_frame_%d.png", base, h.frameCount)
	path := filepath.Join(h.config.Snapshot.Directory, name)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
