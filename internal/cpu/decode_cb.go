package cpu

import "coreboy/internal/bus"

// decodeExtended expands one of the 256 CB-prefixed opcodes. The table has
// a regular shape — 8 registers × {8 bit-shift operations, or a bit index
// 0-7 for BIT/RES/SET} — generated here the same way spec.md §9 invites
// for the primary table, rather than 256 hand-written cases.
func decodeExtended(c *CPU, b *bus.Bus, opcode uint8) []Step {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7

	if z == 6 {
		return decodeExtendedIndirect(x, y)
	}
	decodeExtendedRegister(c, x, y, z)
	return nil
}

// decodeExtendedRegister handles the 8 register operands: these finish
// within the same cycle as the CB-opcode fetch (2 total M-cycles: CB
// prefix + opcode), so no extra steps are pushed.
func decodeExtendedRegister(c *CPU, x, y, z uint8) {
	r := c.regPtr8(z)
	if x == 1 { // BIT b,r
		c.bit(y, *r)
		return
	}
	*r = applyCBOp(c, x, y, *r)
}

// decodeExtendedIndirect builds the step list for z==6, i.e. (HL) as the
// operand: BIT is read-only (3 total cycles), the rest read-modify-write
// (4 total cycles).
func decodeExtendedIndirect(x, y uint8) []Step {
	if x == 1 { // BIT b,(HL)
		return []Step{
			func(c *CPU, b *bus.Bus) { c.bit(y, b.Read8(c.r.HL())) },
		}
	}
	return []Step{
		func(c *CPU, b *bus.Bus) { c.r.Z = b.Read8(c.r.HL()) },
		func(c *CPU, b *bus.Bus) {
			c.r.Z = applyCBOp(c, x, y, c.r.Z)
			b.Write8(c.r.HL(), c.r.Z)
		},
	}
}

// applyCBOp applies the rotate/shift/swap family (x==0), RES (x==2) or
// SET (x==3) operation selected by x,y to value.
func applyCBOp(c *CPU, x, y uint8, value uint8) uint8 {
	switch x {
	case 0:
		return applyShiftFamily(c, y, value)
	case 2:
		return resBit(y, value)
	default: // x == 3
		return setBit(y, value)
	}
}

func applyShiftFamily(c *CPU, y uint8, value uint8) uint8 {
	switch y {
	case 0:
		return c.rlc(value)
	case 1:
		return c.rrc(value)
	case 2:
		return c.rl(value)
	case 3:
		return c.rr(value)
	case 4:
		return c.sla(value)
	case 5:
		return c.sra(value)
	case 6:
		return c.swap(value)
	default:
		return c.srl(value)
	}
}
