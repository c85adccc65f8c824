// Package cpu implements the Sharp LR35902-derivative core: registers,
// ALU, the bounded microcode pipeline, instruction decode, and interrupt
// servicing (spec.md §4.5, §4.7).
package cpu

import "coreboy/internal/bitops"

// Flag bit positions within F. The low nibble of F is always zero.
const (
	flagZ uint8 = 1 << 7
	flagN uint8 = 1 << 6
	flagH uint8 = 1 << 5
	flagC uint8 = 1 << 4
)

// Registers holds the eight 8-bit registers (paired as AF/BC/DE/HL), PC,
// SP, and the W/Z scratch bytes spec.md §3 names.
type Registers struct {
	A, F    uint8
	B, C    uint8
	D, E    uint8
	H, L    uint8
	W, Z    uint8
	PC, SP  uint16
}

func (r *Registers) AF() uint16 { return bitops.Combine(r.A, r.F) }
func (r *Registers) BC() uint16 { return bitops.Combine(r.B, r.C) }
func (r *Registers) DE() uint16 { return bitops.Combine(r.D, r.E) }
func (r *Registers) HL() uint16 { return bitops.Combine(r.H, r.L) }
func (r *Registers) WZ() uint16 { return bitops.Combine(r.W, r.Z) }

// SetAF writes a 16-bit value to A/F, forcing F's low nibble to zero
// (spec.md §3 invariant).
func (r *Registers) SetAF(v uint16) {
	r.A = bitops.High(v)
	r.F = bitops.Low(v) &^ 0x0F
}

func (r *Registers) SetBC(v uint16) { r.B = bitops.High(v); r.C = bitops.Low(v) }
func (r *Registers) SetDE(v uint16) { r.D = bitops.High(v); r.E = bitops.Low(v) }
func (r *Registers) SetHL(v uint16) { r.H = bitops.High(v); r.L = bitops.Low(v) }

func (r *Registers) flag(mask uint8) bool   { return r.F&mask != 0 }
func (r *Registers) setFlag(mask uint8, on bool) {
	if on {
		r.F |= mask
	} else {
		r.F &^= mask
	}
}

func (r *Registers) Zero() bool      { return r.flag(flagZ) }
func (r *Registers) Subtract() bool  { return r.flag(flagN) }
func (r *Registers) HalfCarry() bool { return r.flag(flagH) }
func (r *Registers) Carry() bool     { return r.flag(flagC) }

func (r *Registers) SetZero(on bool)      { r.setFlag(flagZ, on) }
func (r *Registers) SetSubtract(on bool)  { r.setFlag(flagN, on) }
func (r *Registers) SetHalfCarry(on bool) { r.setFlag(flagH, on) }
func (r *Registers) SetCarry(on bool)     { r.setFlag(flagC, on) }
