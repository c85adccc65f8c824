// Package serial provides a minimal SB/SC register sink. spec.md §1
// scopes serial out of the core's concurrency model beyond a stub: bytes
// written are logged, a transfer always completes on the same cycle it
// started, and the serial interrupt fires immediately.
package serial

import (
	"log/slog"

	"coreboy/internal/bitops"
	"coreboy/internal/ioreg"
)

// Sink is the serial port stub mounted on the bus.
type Sink struct {
	sb, sc byte
	logger *slog.Logger
	line   []byte

	RaiseInterrupt func()
}

// New returns a Sink that logs completed lines at slog's default logger.
func New() *Sink {
	return &Sink{logger: slog.Default()}
}

// Write handles a CPU write to SB or SC.
func (s *Sink) Write(address uint16, value byte) {
	switch address {
	case ioreg.SB:
		s.sb = value
	case ioreg.SC:
		s.sc = value
		s.maybeTransfer()
	}
}

// Read handles a CPU read of SB or SC.
func (s *Sink) Read(address uint16) byte {
	switch address {
	case ioreg.SB:
		return s.sb
	case ioreg.SC:
		return s.sc
	default:
		return 0xFF
	}
}

// maybeTransfer starts and immediately completes a transfer once SC's
// start (bit 7) and internal-clock (bit 0) bits are both set.
func (s *Sink) maybeTransfer() {
	if !bitops.IsSet(7, s.sc) || !bitops.IsSet(0, s.sc) {
		return
	}

	b := s.sb
	if b == 0 || b == '\n' || b == '\r' {
		if len(s.line) > 0 {
			s.logger.Info("serial", "line", string(s.line))
			s.line = s.line[:0]
		}
	} else {
		s.line = append(s.line, b)
	}

	s.sb = 0xFF
	s.sc = bitops.Reset(7, s.sc)
	if s.RaiseInterrupt != nil {
		s.RaiseInterrupt()
	}
}
