package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopIsOneCycle(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0x00) // NOP
	cycles := runInstruction(c, b)
	assert.Equal(t, 1, cycles)
	assert.Equal(t, uint16(0x0101), c.r.PC)
}

func TestLdRPNNIsThreeCycles(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0x01, 0x34, 0x12) // LD BC,0x1234
	cycles := runInstruction(c, b)
	assert.Equal(t, 3, cycles)
	assert.Equal(t, uint16(0x1234), c.r.BC())
}

func TestIncHLIndirectIsThreeCycles(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0x34) // INC (HL)
	c.r.SetHL(0xC000)
	b.Write8(0xC000, 0x0F)
	cycles := runInstruction(c, b)
	assert.Equal(t, 3, cycles)
	assert.Equal(t, uint8(0x10), b.Read8(0xC000))
	assert.True(t, c.r.HalfCarry())
}

func TestIncRegisterIsOneCycle(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0x04) // INC B
	c.r.B = 0x00
	cycles := runInstruction(c, b)
	assert.Equal(t, 1, cycles)
	assert.Equal(t, uint8(0x01), c.r.B)
}

func TestLdRNIsTwoCycles(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0x06, 0x42) // LD B,0x42
	cycles := runInstruction(c, b)
	assert.Equal(t, 2, cycles)
	assert.Equal(t, uint8(0x42), c.r.B)
}

func TestRlcaAlwaysClearsZero(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0x07) // RLCA
	c.r.A = 0x00
	cycles := runInstruction(c, b)
	assert.Equal(t, 1, cycles)
	assert.Equal(t, uint8(0x00), c.r.A)
	assert.False(t, c.r.Zero(), "RLCA must always clear Z even when the result is zero")
}

func TestHaltSetsHaltedFlag(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0x76) // HALT
	cycles := runInstruction(c, b)
	assert.Equal(t, 1, cycles)
	assert.True(t, c.Halted())
}

func TestLdRRPrimeIsOneCycle(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0x41) // LD B,C
	c.r.C = 0x99
	cycles := runInstruction(c, b)
	assert.Equal(t, 1, cycles)
	assert.Equal(t, uint8(0x99), c.r.B)
}

func TestAluIndirectHLIsTwoCycles(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0x86) // ADD A,(HL)
	c.r.SetHL(0xC000)
	c.r.A = 0x01
	b.Write8(0xC000, 0x01)
	cycles := runInstruction(c, b)
	assert.Equal(t, 2, cycles)
	assert.Equal(t, uint8(0x02), c.r.A)
}

func TestJrNotTakenIsTwoCyclesTakenIsThree(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0x20, 0x05) // JR NZ,+5
	c.r.SetZero(true)               // condition false: not taken
	cycles := runInstruction(c, b)
	assert.Equal(t, 2, cycles)
	assert.Equal(t, uint16(0x0102), c.r.PC)

	b = newTestBus()
	c = loadProgram(b, 0x20, 0x05)
	c.r.SetZero(false) // condition true: taken
	cycles = runInstruction(c, b)
	assert.Equal(t, 3, cycles)
	assert.Equal(t, uint16(0x0107), c.r.PC)
}

func TestJrUnconditionalIsAlwaysThreeCycles(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0x18, 0xFE) // JR -2 (infinite loop back to self)
	cycles := runInstruction(c, b)
	assert.Equal(t, 3, cycles)
	assert.Equal(t, uint16(0x0100), c.r.PC)
}

func TestRetCcNotTakenIsTwoCyclesTakenIsFive(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0xC0) // RET NZ
	c.r.SetZero(true)         // not taken
	cycles := runInstruction(c, b)
	assert.Equal(t, 2, cycles)
	assert.Equal(t, uint16(0x0101), c.r.PC)

	b = newTestBus()
	c = loadProgram(b, 0xC0)
	c.r.SetZero(false) // taken
	c.r.SP = 0xC000
	b.Write8(0xC000, 0x34)
	b.Write8(0xC001, 0x12)
	cycles = runInstruction(c, b)
	assert.Equal(t, 5, cycles)
	assert.Equal(t, uint16(0x1234), c.r.PC)
	assert.Equal(t, uint16(0xC002), c.r.SP)
}

func TestJpCcNotTakenIsThreeCyclesTakenIsFour(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0xC2, 0x34, 0x12) // JP NZ,0x1234
	c.r.SetZero(true)                     // not taken
	cycles := runInstruction(c, b)
	assert.Equal(t, 3, cycles)
	assert.Equal(t, uint16(0x0103), c.r.PC)

	b = newTestBus()
	c = loadProgram(b, 0xC2, 0x34, 0x12)
	c.r.SetZero(false) // taken
	cycles = runInstruction(c, b)
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(0x1234), c.r.PC)
}

func TestCallCcNotTakenIsThreeCyclesTakenIsSix(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0xC4, 0x34, 0x12) // CALL NZ,0x1234
	c.r.SetZero(true)                     // not taken
	c.r.SP = 0xC010
	cycles := runInstruction(c, b)
	assert.Equal(t, 3, cycles)
	assert.Equal(t, uint16(0x0103), c.r.PC)
	assert.Equal(t, uint16(0xC010), c.r.SP, "not-taken CALL must not push anything")

	b = newTestBus()
	c = loadProgram(b, 0xC4, 0x34, 0x12)
	c.r.SetZero(false) // taken
	c.r.SP = 0xC010
	cycles = runInstruction(c, b)
	assert.Equal(t, 6, cycles)
	assert.Equal(t, uint16(0x1234), c.r.PC)
	assert.Equal(t, uint16(0xC00E), c.r.SP)
	assert.Equal(t, uint16(0x0103), b.Read16(0xC00E), "return address pushed is just past the CALL")
}

func TestCallNNIsSixCycles(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0xCD, 0x00, 0xD0) // CALL 0xD000
	c.r.SP = 0xC010
	cycles := runInstruction(c, b)
	assert.Equal(t, 6, cycles)
	assert.Equal(t, uint16(0xD000), c.r.PC)
}

func TestPushPopRoundTrip(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0xC5, 0xD1) // PUSH BC ; POP DE
	c.r.SetBC(0xBEEF)
	c.r.SP = 0xC020

	cycles := runInstruction(c, b)
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(0xC01E), c.r.SP)

	cycles = runInstruction(c, b)
	assert.Equal(t, 3, cycles)
	assert.Equal(t, uint16(0xBEEF), c.r.DE())
	assert.Equal(t, uint16(0xC020), c.r.SP)
}

func TestRstPushesReturnAddressAndJumps(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0xEF) // RST 0x28
	c.r.SP = 0xC010
	cycles := runInstruction(c, b)
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(0x0028), c.r.PC)
	assert.Equal(t, uint16(0x0101), b.Read16(0xC00E))
}

func TestLdIndirectHLIncDec(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0x22, 0x3A) // LD (HL+),A ; LD A,(HL-)
	c.r.SetHL(0xC000)
	c.r.A = 0x42

	runInstruction(c, b)
	assert.Equal(t, uint8(0x42), b.Read8(0xC000))
	assert.Equal(t, uint16(0xC001), c.r.HL())

	c.r.A = 0
	c.r.SetHL(0xC000) // point back at the byte just stored
	runInstruction(c, b)
	assert.Equal(t, uint8(0x42), c.r.A)
	assert.Equal(t, uint16(0xBFFF), c.r.HL())
}

func TestLdhRoundTrip(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0xE0, 0x80, 0xF0, 0x80) // LDH (0x80),A ; LDH A,(0x80)
	c.r.A = 0x7F

	cycles := runInstruction(c, b)
	assert.Equal(t, 3, cycles)
	assert.Equal(t, uint8(0x7F), b.Read8(0xFF80))

	c.r.A = 0
	cycles = runInstruction(c, b)
	assert.Equal(t, 3, cycles)
	assert.Equal(t, uint8(0x7F), c.r.A)
}

func TestDiAndEiTakeEffectImmediately(t *testing.T) {
	b := newTestBus()
	c := loadProgram(b, 0xFB, 0xF3) // EI ; DI
	runInstruction(c, b)
	assert.True(t, c.IME())
	runInstruction(c, b)
	assert.False(t, c.IME())
}
