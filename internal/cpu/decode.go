package cpu

import "coreboy/internal/bus"

// decodePrimary expands one of the 256 primary opcodes into its pipeline
// steps. It is called from FETCH with the opcode byte already consumed
// (PC already advanced past it). Single-cycle forms execute immediately
// here and return nil, matching spec.md §4.5's "remain in FETCH" rule.
//
// The decomposition follows the standard Z80-family opcode bitfields:
// x = opcode>>6, y = (opcode>>3)&7, z = opcode&7, p = y>>1, q = y&1.
// This is the idiomatic way to compress a 256-entry instruction table
// without hand-unrolling every entry.
func decodePrimary(c *CPU, b *bus.Bus, opcode uint8) []Step {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return decodeX0(c, b, y, z, p, q)
	case 1:
		return decodeX1(c, b, y, z)
	case 2:
		return decodeX2(c, b, y, z)
	default:
		return decodeX3(c, b, y, z, p, q)
	}
}

// --- shared register-table helpers -----------------------------------

// regPtr8 returns a pointer to one of B,C,D,E,H,L,A for table index idx
// (0-7, skipping 6 which means "(HL)" and has no direct pointer).
func (c *CPU) regPtr8(idx uint8) *uint8 {
	switch idx {
	case 0:
		return &c.r.B
	case 1:
		return &c.r.C
	case 2:
		return &c.r.D
	case 3:
		return &c.r.E
	case 4:
		return &c.r.H
	case 5:
		return &c.r.L
	case 7:
		return &c.r.A
	default:
		return nil
	}
}

func (c *CPU) rp(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.r.BC()
	case 1:
		return c.r.DE()
	case 2:
		return c.r.HL()
	default:
		return c.r.SP
	}
}

func (c *CPU) setRP(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.r.SetBC(v)
	case 1:
		c.r.SetDE(v)
	case 2:
		c.r.SetHL(v)
	default:
		c.r.SP = v
	}
}

func (c *CPU) rp2(idx uint8) uint16 {
	if idx == 3 {
		return c.r.AF()
	}
	return c.rp(idx)
}

func (c *CPU) setRP2(idx uint8, v uint16) {
	if idx == 3 {
		c.r.SetAF(v)
		return
	}
	c.setRP(idx, v)
}

func (c *CPU) condition(idx uint8) bool {
	switch idx {
	case 0:
		return !c.r.Zero()
	case 1:
		return c.r.Zero()
	case 2:
		return !c.r.Carry()
	default:
		return c.r.Carry()
	}
}

// --- x = 0 -------------------------------------------------------------

func decodeX0(c *CPU, b *bus.Bus, y, z, p, q uint8) []Step {
	switch z {
	case 0:
		return decodeX0Z0(c, b, y)
	case 1:
		if q == 0 {
			// LD rp[p],nn — 3 cycles
			return []Step{
				func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
				func(c *CPU, b *bus.Bus) {
					c.r.W = b.Read8(c.r.PC)
					c.r.PC++
					c.setRP(p, c.r.WZ())
				},
			}
		}
		// ADD HL,rp[p] — 2 cycles
		return []Step{
			func(c *CPU, b *bus.Bus) { c.addToHL(c.rp(p)) },
		}
	case 2:
		return decodeX0Z2(p, q)
	case 3:
		if q == 0 {
			return []Step{func(c *CPU, b *bus.Bus) { c.setRP(p, c.rp(p)+1) }}
		}
		return []Step{func(c *CPU, b *bus.Bus) { c.setRP(p, c.rp(p)-1) }}
	case 4:
		return decodeIncR(c, y)
	case 5:
		return decodeDecR(c, y)
	case 6:
		return decodeLdRN(c, y)
	default: // z == 7
		decodeRotateA(c, y)
		return nil
	}
}

func decodeX0Z0(c *CPU, b *bus.Bus, y uint8) []Step {
	switch y {
	case 0: // NOP
		return nil
	case 1: // LD (nn),SP — 5 cycles
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) { c.r.W = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) { b.Write8(c.r.WZ(), uint8(c.r.SP)) },
			func(c *CPU, b *bus.Bus) { b.Write8(c.r.WZ()+1, uint8(c.r.SP>>8)) },
		}
	case 2: // STOP — treated as a 1-cycle no-op (spec.md §4.5 failure semantics)
		return nil
	default: // y==3: JR d ; y=4..7: JR cc[y-4],d
		return decodeJR(y)
	}
}

// decodeJR builds JR d / JR cc,d. JR d is always 3 cycles (fetch + read
// offset + apply); JR cc,d is 3 cycles taken, 2 not taken — the apply step
// only costs a cycle when it actually runs, so a not-taken branch truncates
// the pipeline right after reading the offset.
func decodeJR(y uint8) []Step {
	unconditional := y == 3
	return []Step{
		func(c *CPU, b *bus.Bus) {
			c.r.Z = b.Read8(c.r.PC)
			c.r.PC++
			if !unconditional && !c.condition(y-4) {
				c.pipeline = nil
				c.state = stateFetch
			}
		},
		func(c *CPU, b *bus.Bus) {
			c.r.PC = uint16(int32(c.r.PC) + int32(int8(c.r.Z)))
		},
	}
}

func decodeX0Z2(p, q uint8) []Step {
	return []Step{
		func(c *CPU, b *bus.Bus) {
			addr := indirectAddrLD(c, p, q)
			if q == 0 {
				b.Write8(addr, c.r.A)
			} else {
				c.r.A = b.Read8(addr)
			}
		},
	}
}

// indirectAddrLD resolves the address for LD (BC/DE/HL+/HL-),A and the
// mirrored A,(...) loads, applying HL auto-increment/decrement.
func indirectAddrLD(c *CPU, p, q uint8) uint16 {
	switch p {
	case 0:
		return c.r.BC()
	case 1:
		return c.r.DE()
	case 2:
		addr := c.r.HL()
		c.r.SetHL(addr + 1)
		return addr
	default:
		addr := c.r.HL()
		c.r.SetHL(addr - 1)
		return addr
	}
}

func decodeIncR(c *CPU, y uint8) []Step {
	if y == 6 {
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.HL()) },
			func(c *CPU, b *bus.Bus) {
				c.inc8(&c.r.Z)
				b.Write8(c.r.HL(), c.r.Z)
			},
		}
	}
	c.inc8(c.regPtr8(y))
	return nil
}

func decodeDecR(c *CPU, y uint8) []Step {
	if y == 6 {
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.HL()) },
			func(c *CPU, b *bus.Bus) {
				c.dec8(&c.r.Z)
				b.Write8(c.r.HL(), c.r.Z)
			},
		}
	}
	c.dec8(c.regPtr8(y))
	return nil
}

func decodeLdRN(c *CPU, y uint8) []Step {
	if y == 6 {
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) { b.Write8(c.r.HL(), c.r.Z) },
		}
	}
	dst := c.regPtr8(y)
	return []Step{
		func(c *CPU, b *bus.Bus) { *dst = b.Read8(c.r.PC); c.r.PC++ },
	}
}

func decodeRotateA(c *CPU, y uint8) {
	switch y {
	case 0:
		c.r.A = c.rlc(c.r.A)
	case 1:
		c.r.A = c.rrc(c.r.A)
	case 2:
		c.r.A = c.rl(c.r.A)
	case 3:
		c.r.A = c.rr(c.r.A)
	case 4:
		c.daa()
		return
	case 5:
		c.cpl()
		return
	case 6:
		c.scf()
		return
	default:
		c.ccf()
		return
	}
	c.r.SetZero(false) // RLCA/RRCA/RLA/RRA always clear Z, unlike the CB forms
}

// --- x = 1: LD r,r' and HALT --------------------------------------------

func decodeX1(c *CPU, b *bus.Bus, y, z uint8) []Step {
	if y == 6 && z == 6 { // HALT
		c.halted = true
		return nil
	}
	if z == 6 { // LD r[y],(HL)
		dst := c.regPtr8(y)
		return []Step{func(c *CPU, b *bus.Bus) { *dst = b.Read8(c.r.HL()) }}
	}
	if y == 6 { // LD (HL),r[z]
		src := c.regPtr8(z)
		return []Step{func(c *CPU, b *bus.Bus) { b.Write8(c.r.HL(), *src) }}
	}
	*c.regPtr8(y) = *c.regPtr8(z)
	return nil
}

// --- x = 2: ALU r[z] -----------------------------------------------------

func decodeX2(c *CPU, b *bus.Bus, y, z uint8) []Step {
	if z == 6 {
		return []Step{func(c *CPU, b *bus.Bus) { applyALU(c, y, b.Read8(c.r.HL())) }}
	}
	applyALU(c, y, *c.regPtr8(z))
	return nil
}

func applyALU(c *CPU, op uint8, value uint8) {
	switch op {
	case 0:
		c.addToA(value)
	case 1:
		c.adcToA(value)
	case 2:
		c.subToA(value)
	case 3:
		c.sbc(value)
	case 4:
		c.and(value)
	case 5:
		c.xor(value)
	case 6:
		c.or(value)
	default:
		c.cp(value)
	}
}

// --- x = 3 ---------------------------------------------------------------

func decodeX3(c *CPU, b *bus.Bus, y, z, p, q uint8) []Step {
	switch z {
	case 0:
		return decodeX3Z0(y)
	case 1:
		return decodeX3Z1(c, y, p, q)
	case 2:
		return decodeX3Z2(y)
	case 3:
		return decodeX3Z3(c, y)
	case 4:
		return decodeX3Z4(y)
	case 5:
		return decodeX3Z5(p, q)
	case 6:
		return decodeX3Z6(y)
	default: // z == 7: RST y*8
		return decodeRST(y)
	}
}

func decodeX3Z0(y uint8) []Step {
	if y <= 3 { // RET cc[y]
		return []Step{
			func(c *CPU, b *bus.Bus) {
				if !c.condition(y) {
					c.pipeline = nil // collapse remaining steps: not-taken RET cc is 2 cycles
					c.state = stateFetch
				}
			},
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.SP); c.r.SP++ },
			func(c *CPU, b *bus.Bus) { c.r.W = b.Read8(c.r.SP); c.r.SP++ },
			func(c *CPU, b *bus.Bus) { c.r.PC = c.r.WZ() },
		}
	}
	switch y {
	case 4: // LD (0xFF00+n),A
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) { b.Write8(0xFF00+uint16(c.r.Z), c.r.A) },
		}
	case 5: // ADD SP,d
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) {},
			func(c *CPU, b *bus.Bus) { c.r.SP = c.addSigned8ToSP(c.r.Z) },
		}
	case 6: // LD A,(0xFF00+n)
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) { c.r.A = b.Read8(0xFF00 + uint16(c.r.Z)) },
		}
	default: // y==7: LD HL,SP+d
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) { c.r.SetHL(c.addSigned8ToSP(c.r.Z)) },
		}
	}
}

func decodeX3Z1(c *CPU, y, p, q uint8) []Step {
	if q == 0 { // POP rp2[p]
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.SP); c.r.SP++ },
			func(c *CPU, b *bus.Bus) {
				c.r.W = b.Read8(c.r.SP)
				c.r.SP++
				c.setRP2(p, c.r.WZ())
			},
		}
	}
	switch p {
	case 0: // RET
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.SP); c.r.SP++ },
			func(c *CPU, b *bus.Bus) { c.r.W = b.Read8(c.r.SP); c.r.SP++ },
			func(c *CPU, b *bus.Bus) { c.r.PC = c.r.WZ() },
		}
	case 1: // RETI
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.SP); c.r.SP++ },
			func(c *CPU, b *bus.Bus) { c.r.W = b.Read8(c.r.SP); c.r.SP++ },
			func(c *CPU, b *bus.Bus) { c.r.PC = c.r.WZ(); c.ime = true },
		}
	case 2: // JP HL
		c.r.PC = c.r.HL()
		return nil
	default: // LD SP,HL
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.SP = c.r.HL() },
		}
	}
}

func decodeX3Z2(y uint8) []Step {
	if y <= 3 { // JP cc[y],nn: not taken is 3 cycles, taken is 4
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) {
				c.r.W = b.Read8(c.r.PC)
				c.r.PC++
				if !c.condition(y) {
					c.pipeline = nil
					c.state = stateFetch
				}
			},
			func(c *CPU, b *bus.Bus) { c.r.PC = c.r.WZ() },
		}
	}
	switch y {
	case 4: // LD (0xFF00+C),A
		return []Step{
			func(c *CPU, b *bus.Bus) { b.Write8(0xFF00+uint16(c.r.C), c.r.A) },
		}
	case 5: // LD (nn),A
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) { c.r.W = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) { b.Write8(c.r.WZ(), c.r.A) },
		}
	case 6: // LD A,(0xFF00+C)
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.A = b.Read8(0xFF00 + uint16(c.r.C)) },
		}
	default: // LD A,(nn)
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) { c.r.W = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) { c.r.A = b.Read8(c.r.WZ()) },
		}
	}
}

func decodeX3Z3(c *CPU, y uint8) []Step {
	switch y {
	case 0: // JP nn
		return []Step{
			func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) { c.r.W = b.Read8(c.r.PC); c.r.PC++ },
			func(c *CPU, b *bus.Bus) { c.r.PC = c.r.WZ() },
		}
	case 6: // DI
		c.ime = false
		return nil
	case 7: // EI — applied immediately (spec.md §9)
		c.ime = true
		return nil
	default: // 1 is the CB prefix (handled in fetch), 2-5 unused
		return nil
	}
}

func decodeX3Z4(y uint8) []Step {
	if y > 3 { // opcodes 0xE4/0xEC/0xF4/0xFC (y>3) are not CALL cc; undefined, no-op
		return nil
	}
	return []Step{
		func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
		func(c *CPU, b *bus.Bus) {
			c.r.W = b.Read8(c.r.PC)
			c.r.PC++
			if !c.condition(y) {
				c.pipeline = nil // not-taken CALL cc is 3 cycles total
				c.state = stateFetch
			}
		},
		func(c *CPU, b *bus.Bus) {},
		func(c *CPU, b *bus.Bus) { c.r.SP--; b.Write8(c.r.SP, uint8(c.r.PC>>8)) },
		func(c *CPU, b *bus.Bus) { c.r.SP--; b.Write8(c.r.SP, uint8(c.r.PC)); c.r.PC = c.r.WZ() },
	}
}

func decodeX3Z5(p, q uint8) []Step {
	if q == 0 { // PUSH rp2[p]
		v := uint16(0) // resolved in the first push step so the read of rp2 happens post-fetch
		return []Step{
			func(c *CPU, b *bus.Bus) {},
			func(c *CPU, b *bus.Bus) { v = c.rp2(p); c.r.SP--; b.Write8(c.r.SP, uint8(v>>8)) },
			func(c *CPU, b *bus.Bus) { c.r.SP--; b.Write8(c.r.SP, uint8(v)) },
		}
	}
	// p==0: CALL nn (0xCD). p 1,2,3 (0xDD/0xED/0xFD) are unused in the
	// primary table and decode as CALL nn here too.
	return []Step{
		func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.PC); c.r.PC++ },
		func(c *CPU, b *bus.Bus) { c.r.W = b.Read8(c.r.PC); c.r.PC++ },
		func(c *CPU, b *bus.Bus) {},
		func(c *CPU, b *bus.Bus) { c.r.SP--; b.Write8(c.r.SP, uint8(c.r.PC>>8)) },
		func(c *CPU, b *bus.Bus) { c.r.SP--; b.Write8(c.r.SP, uint8(c.r.PC)); c.r.PC = c.r.WZ() },
	}
}

func decodeX3Z6(y uint8) []Step {
	return []Step{
		func(c *CPU, b *bus.Bus) {
			c.r.Z = b.Read8(c.r.PC)
			c.r.PC++
			applyALU(c, y, c.r.Z)
		},
	}
}

func decodeRST(y uint8) []Step {
	target := uint16(y) * 8
	return []Step{
		func(c *CPU, b *bus.Bus) {},
		func(c *CPU, b *bus.Bus) { c.r.SP--; b.Write8(c.r.SP, uint8(c.r.PC>>8)) },
		func(c *CPU, b *bus.Bus) { c.r.SP--; b.Write8(c.r.SP, uint8(c.r.PC)); c.r.PC = target },
	}
}
