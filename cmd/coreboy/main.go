// Command coreboy runs the emulator core against a ROM file, either
// interactively in a terminal or headless for N frames, grounded on
// cmd/jeebie/main.go's urfave/cli entry point.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli"

	"coreboy/internal/frontend"
	"coreboy/internal/frontend/headless"
	"coreboy/internal/frontend/terminal"
	"coreboy/internal/machine"
)

func main() {
	app := cli.NewApp()
	app.Name = "coreboy"
	app.Usage = "coreboy [options] <ROM file>"
	app.Description = "A cycle-accurate Game Boy emulator core"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "run without a terminal presenter",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "save a PNG snapshot every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "directory to save PNG snapshots to (default: a temp directory)",
		},
		cli.BoolFlag{
			Name:  "mapper-trace",
			Usage: "log every cartridge ROM-bank switch at debug level",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug-level logging",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("coreboy exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("debug") || c.Bool("mapper-trace") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	m, err := machine.New(rom)
	if err != nil {
		return fmt.Errorf("loading cartridge: %w", err)
	}

	if c.Bool("headless") {
		return runHeadless(m, c, romPath)
	}
	return runInteractive(m, romPath)
}

func runHeadless(m *machine.Machine, c *cli.Context, romPath string) error {
	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("headless mode requires --frames with a positive value")
	}

	snapshotInterval := c.Int("snapshot-interval")
	snapshotDir := c.String("snapshot-dir")
	if snapshotInterval > 0 && snapshotDir == "" {
		tempDir, err := os.MkdirTemp("", "coreboy-snapshots-*")
		if err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
		snapshotDir = tempDir
	}

	h := headless.New()
	if err := h.Init(frontend.Config{
		Title:     "coreboy",
		ROMPath:   romPath,
		MaxFrames: frames,
		Snapshot: frontend.SnapshotConfig{
			Enabled:   snapshotInterval > 0,
			Interval:  snapshotInterval,
			Directory: snapshotDir,
		},
	}); err != nil {
		return err
	}
	defer h.Cleanup()

	for !h.Done() {
		m.RunUntilFrame()
		if _, err := h.Update(m.FrameBuffer()); err != nil {
			return err
		}
	}
	return nil
}

func runInteractive(m *machine.Machine, romPath string) error {
	t := terminal.New()
	if err := t.Init(frontend.Config{Title: "coreboy", ROMPath: romPath}); err != nil {
		return err
	}
	defer t.Cleanup()

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for t.Running() {
		m.RunUntilFrame()

		events, err := t.Update(m.FrameBuffer())
		if err != nil {
			return err
		}
		for _, ev := range events {
			if ev.Pressed {
				m.KeyDown(ev.Key)
			} else {
				m.KeyUp(ev.Key)
			}
		}
		<-ticker.C
	}
	return nil
}
