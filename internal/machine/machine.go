// Package machine is the composition root: it wires the bus, CPU, and PPU
// together and drives them in the fixed per-cycle order spec.md §5
// mandates (CPU → timers → PPU → joypad poll → interrupt check).
package machine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"coreboy/internal/bus"
	"coreboy/internal/cart"
	"coreboy/internal/cpu"
	"coreboy/internal/joypad"
	"coreboy/internal/video"
)

// cyclesPerFrame is 70224 dots / 4 dots-per-machine-cycle (spec.md §4.6's
// 154 lines × 114 machine cycles/line).
const cyclesPerFrame = 154 * 114

// ErrCGBOnly is returned by New when the cartridge header marks the ROM
// CGB-only (spec.md §7: "report to host; refuse to start").
var ErrCGBOnly = errors.New("machine: cartridge is CGB-only, not supported")

// Machine owns one emulated console and its attached cartridge.
type Machine struct {
	Bus *bus.Bus
	CPU *cpu.CPU
	PPU *video.PPU

	frameCount       uint64
	instructionCount uint64

	logger *slog.Logger
}

// New boots a Machine from a raw ROM image. It refuses CGB-only
// cartridges and logs a warning (not an error) for a bad logo checksum,
// matching spec.md §7's error policy table.
func New(rom []byte) (*Machine, error) {
	cartridge := cart.New(rom)
	if cartridge.Header.CGBOnly {
		return nil, ErrCGBOnly
	}

	logger := slog.Default()
	if !cartridge.Header.LogoValid {
		logger.Warn("nintendo logo checksum mismatch", "title", cartridge.Header.Title)
	}
	logger.Info("cartridge loaded",
		"title", cartridge.Header.Title,
		"mapper", cartridge.Header.Mapper,
		"rom_size", cartridge.Header.ROMSize,
		"ram_size", cartridge.Header.RAMSize,
	)

	return &Machine{
		Bus:    bus.New(cartridge),
		CPU:    cpu.New(),
		PPU:    video.New(),
		logger: logger,
	}, nil
}

// Tick advances every component by exactly one machine cycle, in the
// fixed order spec.md §5 requires. Instruction-boundary trace logging
// happens before the CPU half so the logged PC is the instruction about
// to execute, not the one just finished.
func (m *Machine) Tick() {
	if m.CPU.AtInstructionBoundary() {
		m.traceInstruction()
		m.instructionCount++
	}

	m.CPU.Tick(m.Bus)
	m.Bus.Timer.Tick()
	m.PPU.Tick(m.Bus)
	m.Bus.PollJoypad()
	m.CPU.CheckInterrupts(m.Bus)
}

func (m *Machine) traceInstruction() {
	if !m.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	pc := m.CPU.Registers().PC
	opcode := m.Bus.Read8(pc)
	m.logger.Debug("step", "pc", fmt.Sprintf("0x%04X", pc), "opcode", fmt.Sprintf("0x%02X", opcode))
}

// RunUntilFrame ticks the machine until a full frame (70224 dots' worth of
// machine cycles) has elapsed, mirroring the teacher's RunUntilFrame loop,
// then reports whether a new frame is ready to present (spec.md §6's
// one-shot "draw_frame" flag, consumed here).
func (m *Machine) RunUntilFrame() bool {
	for i := 0; i < cyclesPerFrame; i++ {
		m.Tick()
	}
	m.frameCount++
	return m.ConsumeDrawFrame()
}

// Step advances the machine by a single machine cycle, for single-step
// debugging and tests.
func (m *Machine) Step() {
	m.Tick()
}

// FrameBuffer returns the PPU's current 160×144 frame.
func (m *Machine) FrameBuffer() *video.FrameBuffer {
	return &m.PPU.FrameBuffer
}

// TileBuffer returns the PPU's current 192×128 tile-debug buffer.
func (m *Machine) TileBuffer() *video.TileBuffer {
	return &m.PPU.TileBuffer
}

// ConsumeDrawFrame reports and clears the PPU's one-shot frame-ready flag.
func (m *Machine) ConsumeDrawFrame() bool {
	drawn := m.PPU.DrawFrame
	m.PPU.DrawFrame = false
	return drawn
}

// ConsumeDrawTileBuffer reports and clears the PPU's one-shot
// tile-buffer-ready flag (spec.md §6); the buffer itself is rendered
// unconditionally on every V-blank entry.
func (m *Machine) ConsumeDrawTileBuffer() bool {
	drawn := m.PPU.DrawTileBuffer
	m.PPU.DrawTileBuffer = false
	return drawn
}

// KeyDown/KeyUp forward host input to the joypad (spec.md §6).
func (m *Machine) KeyDown(k joypad.Key) { m.Bus.Joypad.KeyDown(k) }
func (m *Machine) KeyUp(k joypad.Key)   { m.Bus.Joypad.KeyUp(k) }

// FrameCount and InstructionCount report the running totals, for
// diagnostics and tests.
func (m *Machine) FrameCount() uint64       { return m.frameCount }
func (m *Machine) InstructionCount() uint64 { return m.instructionCount }
