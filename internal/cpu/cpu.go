package cpu

import (
	"coreboy/internal/bus"
	"coreboy/internal/ioreg"
)

// pipelineCapacity is the bounded FIFO's capacity. spec.md §3 requires
// capacity ≥ 12; the longest real instruction (CALL cc,nn not taken is
// 3 cycles, taken CALL is 6) never comes close, so this is headroom, not
// a tight budget.
const pipelineCapacity = 16

// state names the two-state FETCH/EXECUTE machine spec.md §4.5 describes.
type state int

const (
	stateFetch state = iota
	stateExecute
)

// Step is a single deferred machine-cycle action. A step may perform at
// most one bus read or write plus a register mutation (spec.md §3).
type Step func(c *CPU, b *bus.Bus)

// CPU is the Sharp LR35902-derivative core.
type CPU struct {
	r Registers

	ime      bool
	halted   bool
	extended bool
	state    state

	pipeline []Step

	// No delayed-EI state is kept: EI applies immediately (spec.md §9),
	// so IME flips when the EI opcode is decoded.
}

// New returns a CPU in its post-boot-ROM register state, matching the
// documented DMG boot handoff values.
func New() *CPU {
	c := &CPU{}
	c.r.SetAF(0x01B0)
	c.r.SetBC(0x0013)
	c.r.SetDE(0x00D8)
	c.r.SetHL(0x014D)
	c.r.SP = 0xFFFE
	c.r.PC = 0x0100
	return c
}

// Registers exposes the register file, mainly for debug tooling and tests.
func (c *CPU) Registers() *Registers { return &c.r }

// Halted reports whether the CPU is currently suspended awaiting an
// interrupt (spec.md §3).
func (c *CPU) Halted() bool { return c.halted }

// IME reports the interrupt master enable flag.
func (c *CPU) IME() bool { return c.ime }

// AtInstructionBoundary reports whether the next Tick will be a fresh
// FETCH rather than mid-instruction, for single-step debugging and trace
// logging (spec.md §8's "RunUntilFrame-style stepping" support).
func (c *CPU) AtInstructionBoundary() bool {
	return c.state == stateFetch && len(c.pipeline) == 0 && !c.extended
}

func (c *CPU) pushPipeline(steps ...Step) {
	c.pipeline = append(c.pipeline, steps...)
	if len(c.pipeline) > pipelineCapacity {
		panic("cpu: pipeline overflowed bounded capacity")
	}
}

// Tick runs exactly one machine cycle: either the FETCH half (decode) or
// one EXECUTE step, per spec.md §4.5's state machine. Halted CPUs consume
// the cycle doing nothing.
func (c *CPU) Tick(b *bus.Bus) {
	if c.halted {
		return
	}

	switch c.state {
	case stateFetch:
		c.fetch(b)
	case stateExecute:
		c.executeOne(b)
	}
}

func (c *CPU) fetch(b *bus.Bus) {
	opcode := b.Read8(c.r.PC)
	c.r.PC++

	var steps []Step
	if c.extended {
		c.extended = false
		steps = decodeExtended(c, b, opcode)
	} else if opcode == 0xCB {
		c.extended = true
		return // stay in FETCH; next cycle decodes the extended opcode
	} else {
		steps = decodePrimary(c, b, opcode)
	}

	if len(steps) == 0 {
		return // single-cycle instruction fully executed above
	}
	c.pushPipeline(steps...)
	c.state = stateExecute
}

func (c *CPU) executeOne(b *bus.Bus) {
	step := c.pipeline[0]
	c.pipeline = c.pipeline[1:]
	step(c, b)
	if len(c.pipeline) == 0 {
		c.state = stateFetch
	}
}

// CheckInterrupts implements spec.md §4.7's per-cycle interrupt check. It
// must run once per machine cycle, after the CPU's own Tick.
func (c *CPU) CheckInterrupts(b *bus.Bus) {
	pending := b.PendingInterrupts()
	if pending != 0 {
		c.halted = false
	}

	if !c.ime || pending == 0 {
		return
	}
	if c.state != stateFetch || len(c.pipeline) != 0 {
		return // mid-instruction: deferred until FETCH (spec.md §5)
	}

	var selected ioreg.Interrupt
	for _, irq := range ioreg.Ordered {
		if pending&uint8(irq) != 0 {
			selected = irq
			break
		}
	}

	c.ime = false
	b.ClearInterrupt(selected)
	vector := ioreg.VectorFor(selected)

	// Servicing consumes 5 machine cycles: 2 internal delays, 2 push
	// cycles, 1 PC-set cycle (spec.md §4.7).
	c.pushPipeline(
		func(c *CPU, b *bus.Bus) {},
		func(c *CPU, b *bus.Bus) {},
		func(c *CPU, b *bus.Bus) {
			c.r.SP--
			b.Write8(c.r.SP, uint8(c.r.PC>>8))
		},
		func(c *CPU, b *bus.Bus) {
			c.r.SP--
			b.Write8(c.r.SP, uint8(c.r.PC))
		},
		func(c *CPU, b *bus.Bus) {
			c.r.PC = vector
		},
	)
	c.state = stateExecute
}
