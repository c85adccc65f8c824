// Package audio provides a register-only stub for the NRxx sound
// registers. spec.md lists APU synthesis as an explicit non-goal; the
// registers still need to read back what was written so ROMs that poll
// them for status bits don't hang, but no channel is mixed or sampled.
package audio

import "coreboy/internal/ioreg"

const waveRAMSize = 16

// Stub is the no-synthesis audio register file.
type Stub struct {
	NR10, NR11, NR12, NR13, NR14 uint8
	NR21, NR22, NR23, NR24       uint8
	NR30, NR31, NR32, NR33, NR34 uint8
	NR41, NR42, NR43, NR44       uint8
	NR50, NR51, NR52             uint8
	waveRAM                      [waveRAMSize]uint8
}

// New returns a silent Stub.
func New() *Stub {
	return &Stub{}
}

const waveRAMStart = 0xFF30

// Write stores a byte written into the audio register range
// (ioreg.AudioStart-ioreg.AudioEnd), including wave RAM.
func (s *Stub) Write(address uint16, value uint8) {
	if address >= waveRAMStart && address <= ioreg.AudioEnd {
		s.waveRAM[address-waveRAMStart] = value
		return
	}

	switch address {
	case 0xFF10:
		s.NR10 = value
	case 0xFF11:
		s.NR11 = value
	case 0xFF12:
		s.NR12 = value
	case 0xFF13:
		s.NR13 = value
	case 0xFF14:
		s.NR14 = value
	case 0xFF16:
		s.NR21 = value
	case 0xFF17:
		s.NR22 = value
	case 0xFF18:
		s.NR23 = value
	case 0xFF19:
		s.NR24 = value
	case 0xFF1A:
		s.NR30 = value
	case 0xFF1B:
		s.NR31 = value
	case 0xFF1C:
		s.NR32 = value
	case 0xFF1D:
		s.NR33 = value
	case 0xFF1E:
		s.NR34 = value
	case 0xFF20:
		s.NR41 = value
	case 0xFF21:
		s.NR42 = value
	case 0xFF22:
		s.NR43 = value
	case 0xFF23:
		s.NR44 = value
	case 0xFF24:
		s.NR50 = value
	case 0xFF25:
		s.NR51 = value
	case 0xFF26:
		s.NR52 = value & 0x80 // only the master-enable bit is writable
	}
}

// Read returns the value stored for address (for NR52, only the
// master-enable bit is kept), or 0xFF for unmapped audio addresses.
func (s *Stub) Read(address uint16) uint8 {
	if address >= waveRAMStart && address <= ioreg.AudioEnd {
		return s.waveRAM[address-waveRAMStart]
	}

	switch address {
	case 0xFF10:
		return s.NR10
	case 0xFF11:
		return s.NR11
	case 0xFF12:
		return s.NR12
	case 0xFF13:
		return s.NR13
	case 0xFF14:
		return s.NR14
	case 0xFF16:
		return s.NR21
	case 0xFF17:
		return s.NR22
	case 0xFF18:
		return s.NR23
	case 0xFF19:
		return s.NR24
	case 0xFF1A:
		return s.NR30
	case 0xFF1B:
		return s.NR31
	case 0xFF1C:
		return s.NR32
	case 0xFF1D:
		return s.NR33
	case 0xFF1E:
		return s.NR34
	case 0xFF20:
		return s.NR41
	case 0xFF21:
		return s.NR42
	case 0xFF22:
		return s.NR43
	case 0xFF23:
		return s.NR44
	case 0xFF24:
		return s.NR50
	case 0xFF25:
		return s.NR51
	case 0xFF26:
		return s.NR52
	default:
		return 0xFF
	}
}
