// Package bus implements the 16-bit address space dispatcher described in
// spec.md §4.1: it routes CPU reads/writes to the cartridge, the linear
// VRAM/WRAM/OAM/HRAM image, and the handful of registers with side
// effects (timer, joypad, serial, OAM DMA).
package bus

import (
	"coreboy/internal/audio"
	"coreboy/internal/cart"
	"coreboy/internal/ioreg"
	"coreboy/internal/joypad"
	"coreboy/internal/serial"
	"coreboy/internal/timer"
)

// Bus is the shared memory-mapped I/O surface every other component
// reads and writes through.
type Bus struct {
	cartridge *cart.Cartridge
	memory    [0x10000]byte // addressed directly for 0x8000-0xFFFF; 0x0000-0x7FFF unused here

	Timer  *timer.Timer
	Joypad *joypad.Joypad
	Serial *serial.Sink
	Audio  *audio.Stub

	joypadSelect uint8 // bits 4-5 of P1, as last written; 1 = not selected

	ifRegister uint8
	ieRegister uint8
}

// New mounts cartridge on a freshly reset bus. Components are wired to
// each other's interrupt lines here so the bus is the single place that
// assembles the machine's collaborators.
func New(cartridge *cart.Cartridge) *Bus {
	b := &Bus{
		cartridge:    cartridge,
		Timer:        timer.New(),
		Joypad:       joypad.New(),
		Serial:       serial.New(),
		Audio:        audio.New(),
		joypadSelect: 0x30,
	}
	b.Timer.RaiseInterrupt = func() { b.RequestInterrupt(ioreg.Timer) }
	b.Serial.RaiseInterrupt = func() { b.RequestInterrupt(ioreg.Serial) }
	b.resetPostBootRegisters()
	return b
}

// resetPostBootRegisters seeds the documented post-boot-ROM values for the
// video/STAT registers (spec.md §3: "reset writes the documented post-boot
// register/flag state"), since this bus never executes a boot ROM itself.
// Values match the real DMG hand-off state a cartridge would otherwise find
// already in place: LCD and background on, BGP 0xFC, OBP0/OBP1 0xFF.
func (b *Bus) resetPostBootRegisters() {
	b.memory[ioreg.LCDC] = 0x91
	b.memory[ioreg.STAT] = 0x85
	b.memory[ioreg.BGP] = 0xFC
	b.memory[ioreg.OBP0] = 0xFF
	b.memory[ioreg.OBP1] = 0xFF
}

// RequestInterrupt sets the corresponding bit in IF. Any component that
// can raise an interrupt (timer, serial, PPU, joypad) calls this.
func (b *Bus) RequestInterrupt(i ioreg.Interrupt) {
	b.ifRegister |= uint8(i)
}

// PendingInterrupts returns the bits set in both IF and IE, i.e. the
// interrupts currently eligible for dispatch.
func (b *Bus) PendingInterrupts() uint8 {
	return b.ifRegister & b.ieRegister & 0x1F
}

// ClearInterrupt clears i's bit in IF, done by the CPU once it begins
// servicing that interrupt.
func (b *Bus) ClearInterrupt(i ioreg.Interrupt) {
	b.ifRegister &^= uint8(i)
}

// PollJoypad runs the joypad's once-per-cycle edge check (spec.md §4.3),
// raising the joypad interrupt when a pending edge matches the current
// select mask.
func (b *Bus) PollJoypad() {
	directionSelected := b.joypadSelect&0x10 == 0
	buttonSelected := b.joypadSelect&0x20 == 0
	if b.Joypad.Poll(directionSelected, buttonSelected) {
		b.RequestInterrupt(ioreg.Joypad)
	}
}

// Read8 implements spec.md §4.1's read dispatch.
func (b *Bus) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return b.cartridge.Read8(addr)
	case addr >= 0xA000 && addr < 0xC000:
		return b.cartridge.Read8(addr)
	case addr >= 0xE000 && addr < 0xFE00:
		return b.memory[addr-0x2000] // echo RAM mirrors work RAM
	case addr == ioreg.P1:
		return b.readJoypadRegister()
	case addr == ioreg.DIV:
		return b.Timer.DIV()
	case addr == ioreg.TIMA:
		return b.Timer.TIMA()
	case addr == ioreg.TMA:
		return b.Timer.TMA()
	case addr == ioreg.TAC:
		return b.Timer.TAC()
	case addr == ioreg.SB || addr == ioreg.SC:
		return b.Serial.Read(addr)
	case addr >= ioreg.AudioStart && addr <= ioreg.AudioEnd:
		return b.Audio.Read(addr)
	case addr == ioreg.IF:
		return b.ifRegister | 0xE0
	case addr == ioreg.IE:
		return b.ieRegister
	default:
		return b.memory[addr]
	}
}

func (b *Bus) readJoypadRegister() uint8 {
	state := b.Joypad.State()
	var lowNibble uint8
	switch {
	case b.joypadSelect&0x10 == 0:
		lowNibble = (state >> 4) & 0x0F
	case b.joypadSelect&0x20 == 0:
		lowNibble = state & 0x0F
	default:
		lowNibble = 0x0F
	}
	return b.joypadSelect | lowNibble
}

// Write8 implements spec.md §4.1's write dispatch.
func (b *Bus) Write8(addr uint16, value uint8) {
	switch {
	case addr < 0x8000:
		b.cartridge.Write8(addr, value)
	case addr >= 0xA000 && addr < 0xC000:
		b.cartridge.Write8(addr, value)
	case addr >= 0xE000 && addr < 0xFE00:
		b.memory[addr] = value
		b.memory[addr-0x2000] = value
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// unusable region, writes ignored
	case addr == ioreg.DIV:
		b.Timer.ResetDIV()
	case addr == ioreg.TIMA:
		b.Timer.SetTIMA(value)
	case addr == ioreg.TMA:
		b.Timer.SetTMA(value)
	case addr == ioreg.TAC:
		b.Timer.SetTAC(value)
	case addr == ioreg.LY:
		// store 0 regardless of value
		b.memory[addr] = 0
	case addr == ioreg.DMA:
		b.memory[addr] = value
		b.performDMA(value)
	case addr == ioreg.P1:
		b.joypadSelect = value & 0x30
	case addr == ioreg.SB || addr == ioreg.SC:
		b.Serial.Write(addr, value)
	case addr >= ioreg.AudioStart && addr <= ioreg.AudioEnd:
		b.Audio.Write(addr, value)
	case addr == ioreg.IF:
		b.ifRegister = value & 0x1F
	case addr == ioreg.IE:
		b.ieRegister = value
	default:
		b.memory[addr] = value
	}
}

// SetLY writes the current scanline directly, bypassing the CPU-write
// dispatch's force-to-zero rule (spec.md §4.1) — only the PPU calls this.
func (b *Bus) SetLY(line uint8) {
	b.memory[ioreg.LY] = line
}

// performDMA copies 160 bytes from value<<8 into OAM (0xFE00-0xFE9F),
// synchronously and bus-atomically (spec.md §4.1).
func (b *Bus) performDMA(value uint8) {
	src := uint16(value) << 8
	for i := uint16(0); i < 0xA0; i++ {
		b.memory[ioreg.OAMStart+i] = b.Read8(src + i)
	}
}

// Read16 reads a little-endian 16-bit value as two 8-bit reads.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Write16 writes a little-endian 16-bit value as two 8-bit writes.
func (b *Bus) Write16(addr uint16, value uint16) {
	b.Write8(addr, uint8(value))
	b.Write8(addr+1, uint8(value>>8))
}
