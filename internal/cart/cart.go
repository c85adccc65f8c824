// Package cart owns the cartridge ROM image, its header, and the bank
// controller that interprets writes into the lower 32 KiB address region.
package cart

import "log/slog"

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
	ramBanks    = 4 // spec.md §3: "4 × 8 KiB RAM bank array", fixed regardless of header.
)

// Cartridge is the bank-switched view of a loaded ROM image.
type Cartridge struct {
	Header Header

	rom []byte
	ram [ramBanks * ramBankSize]byte

	currentROMBank uint8
	currentRAMBank uint8
	ramEnabled     bool
	bankingMode    uint8 // 0 = ROM banking, 1 = RAM banking (type-1 only)
}

// New parses rom's header and returns a Cartridge ready to be mounted on
// the bus. It never fails: an undersized or unrecognized image still
// produces a cartridge serving a flat, unbanked ROM.
func New(rom []byte) *Cartridge {
	var header Header
	if len(rom) > 0x150 {
		header = ParseHeader(rom)
	}
	return &Cartridge{
		Header:         header,
		rom:            rom,
		currentROMBank: 1,
	}
}

// Read8 implements the cartridge side of spec.md §4.1's bus dispatch for
// addresses below 0x8000 (ROM) and within 0xA000-0xBFFF (external RAM).
func (c *Cartridge) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return c.romByte(uint32(addr))
	case addr < 0x8000:
		return c.romByte(uint32(addr-0x4000) + uint32(c.currentROMBank)*romBankSize)
	case addr >= 0xA000 && addr < 0xC000:
		if !c.ramEnabled {
			return 0xFF
		}
		return c.ram[uint32(addr-0xA000)+uint32(c.currentRAMBank)*ramBankSize]
	default:
		return 0xFF
	}
}

func (c *Cartridge) romByte(offset uint32) uint8 {
	if int(offset) >= len(c.rom) {
		return 0xFF
	}
	return c.rom[offset]
}

// Write8 routes a CPU-visible write. Addresses below 0x8000 never reach
// the linear ROM image; they are bank-control commands (spec.md §4.2).
// Addresses in 0xA000-0xBFFF land in the currently banked RAM if enabled.
func (c *Cartridge) Write8(addr uint16, value uint8) {
	switch {
	case addr < 0x8000:
		c.writeBankControl(addr, value)
	case addr >= 0xA000 && addr < 0xC000:
		if c.ramEnabled {
			c.ram[uint32(addr-0xA000)+uint32(c.currentRAMBank)*ramBankSize] = value
		}
	}
}

func (c *Cartridge) writeBankControl(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		c.writeRAMEnable(addr, value)
	case addr < 0x4000:
		c.writeROMBankLow(value)
	case addr < 0x6000:
		c.writeBank2(value)
	case addr < 0x8000:
		c.writeModeSelect(value)
	}
}

func (c *Cartridge) writeRAMEnable(addr uint16, value uint8) {
	if c.Header.Mapper == MapperType2 && addr&0x10 != 0 {
		return
	}
	c.ramEnabled = value&0x0F == 0x0A
}

func (c *Cartridge) writeROMBankLow(value uint8) {
	previous := c.currentROMBank
	switch c.Header.Mapper {
	case MapperType2:
		c.currentROMBank = value & 0x0F
	case MapperType1:
		c.currentROMBank = (c.currentROMBank &^ 0x1F) | (value & 0x1F)
	default:
		return
	}
	if c.currentROMBank == 0 {
		c.currentROMBank = 1
	}
	c.traceBankSwitch(previous)
}

// traceBankSwitch logs a bank change at Debug level, in the spirit of the
// original C++ `handle_banking`'s bank-switch trace.
func (c *Cartridge) traceBankSwitch(previous uint8) {
	if c.currentROMBank == previous {
		return
	}
	slog.Debug("rom bank switch", "from", previous, "to", c.currentROMBank, "mapper", c.Header.Mapper)
}

// writeBank2 handles 0x4000-0x5FFF, type-1 only: either the upper ROM bank
// bits (ROM-banking mode) or the RAM bank select (RAM-banking mode).
func (c *Cartridge) writeBank2(value uint8) {
	if c.Header.Mapper != MapperType1 {
		return
	}
	if c.bankingMode == 0 {
		previous := c.currentROMBank
		c.currentROMBank = (c.currentROMBank &^ 0xE0) | (value & 0xE0)
		if c.currentROMBank == 0 {
			c.currentROMBank = 1
		}
		c.traceBankSwitch(previous)
	} else {
		c.currentRAMBank = value & 0x03
	}
}

func (c *Cartridge) writeModeSelect(value uint8) {
	if c.Header.Mapper != MapperType1 {
		return
	}
	c.bankingMode = value & 0x01
	if c.bankingMode == 0 {
		c.currentRAMBank = 0
	}
}

// CurrentROMBank reports the active switchable ROM bank, for diagnostics.
func (c *Cartridge) CurrentROMBank() uint8 { return c.currentROMBank }

// CurrentRAMBank reports the active RAM bank, for diagnostics.
func (c *Cartridge) CurrentRAMBank() uint8 { return c.currentRAMBank }

// RAMEnabled reports whether external RAM is currently readable/writable.
func (c *Cartridge) RAMEnabled() bool { return c.ramEnabled }
