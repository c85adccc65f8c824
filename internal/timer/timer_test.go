package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDIVIncrementsEvery256Cycles(t *testing.T) {
	tm := New()
	for i := 0; i < 255; i++ {
		tm.Tick()
	}
	assert.Equal(t, uint8(0), tm.DIV())
	tm.Tick()
	assert.Equal(t, uint8(1), tm.DIV())
}

func TestResetDIVClearsCounterAndCountdown(t *testing.T) {
	tm := New()
	for i := 0; i < 300; i++ {
		tm.Tick()
	}
	assert.NotEqual(t, uint8(0), tm.DIV())
	tm.ResetDIV()
	assert.Equal(t, uint8(0), tm.DIV())
	for i := 0; i < 255; i++ {
		tm.Tick()
	}
	assert.Equal(t, uint8(0), tm.DIV(), "countdown should have reset to a full 256")
}

func TestTIMADisabledByDefault(t *testing.T) {
	tm := New()
	for i := 0; i < 5000; i++ {
		tm.Tick()
	}
	assert.Equal(t, uint8(0), tm.TIMA())
}

func TestTIMACountsAtFastestMode(t *testing.T) {
	tm := New()
	tm.SetTAC(0x05) // enabled, mode 1 -> every 16 cycles
	for i := 0; i < 16; i++ {
		tm.Tick()
	}
	assert.Equal(t, uint8(1), tm.TIMA())
}

func TestTIMAOverflowReloadsFromTMAAndRaisesInterrupt(t *testing.T) {
	tm := New()
	fired := false
	tm.RaiseInterrupt = func() { fired = true }
	tm.SetTMA(0x42)
	tm.SetTAC(0x05) // mode 1, every 16 cycles
	tm.SetTIMA(0xFF)

	for i := 0; i < 16; i++ {
		tm.Tick()
	}

	assert.True(t, fired)
	assert.Equal(t, uint8(0x42), tm.TIMA())
}

func TestSetTACModeChangeReloadsCountdown(t *testing.T) {
	tm := New()
	tm.SetTAC(0x04) // mode 0, every 1024 cycles
	for i := 0; i < 1000; i++ {
		tm.Tick()
	}
	tm.SetTAC(0x05) // switch to mode 1, should reload countdown to 16
	for i := 0; i < 16; i++ {
		tm.Tick()
	}
	assert.Equal(t, uint8(1), tm.TIMA())
}

func TestSetTACDisableStopsCounting(t *testing.T) {
	tm := New()
	tm.SetTAC(0x05)
	tm.Tick()
	tm.SetTAC(0x01) // mode unchanged, but disabled (bit 2 clear)
	for i := 0; i < 100; i++ {
		tm.Tick()
	}
	assert.Equal(t, uint8(0), tm.TIMA())
}
