package cpu

import (
	"coreboy/internal/bus"
	"coreboy/internal/cart"
)

// testROM is the ROM image behind the most recent newTestBus. The
// cartridge reads this slice directly, so loadProgram can place code in
// ROM, where bus writes would be taken as MBC register writes instead.
var testROM []byte

// newTestBus returns a bus backed by a blank 32KiB ROM, writable everywhere
// the CPU needs it (RAM, VRAM, registers) for instruction-level tests.
func newTestBus() *bus.Bus {
	testROM = make([]byte, 0x8000)
	return bus.New(cart.New(testROM))
}

// loadProgram writes bytes into the ROM image of the test bus b, starting
// at PC's initial address (0x0100, same as the CPU's post-boot PC), and
// returns a fresh CPU positioned to execute them.
func loadProgram(b *bus.Bus, bytes ...uint8) *CPU {
	copy(testROM[0x0100:], bytes)
	return New()
}

// runCycles ticks the CPU n machine cycles, running interrupt checks after
// each tick the way internal/machine's composition root does.
func runCycles(c *CPU, b *bus.Bus, n int) {
	for i := 0; i < n; i++ {
		c.Tick(b)
		c.CheckInterrupts(b)
	}
}

// runInstruction ticks until the CPU returns to FETCH with an empty
// pipeline after having left it at least once, i.e. one full instruction
// boundary. Returns the number of cycles consumed.
func runInstruction(c *CPU, b *bus.Bus) int {
	cycles := 0
	c.Tick(b)
	cycles++
	for c.extended || c.state != stateFetch || len(c.pipeline) != 0 {
		c.Tick(b)
		cycles++
	}
	return cycles
}
