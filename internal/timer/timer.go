// Package timer implements the Game Boy timer block: the free-running
// divider and the configurable TIMA/TMA/TAC counter.
package timer

import "gogb/internal/interrupt"

// Register addresses within the I/O window.
const (
	AddrDIV  = 0xFF04
	AddrTIMA = 0xFF05
	AddrTMA  = 0xFF06
	AddrTAC  = 0xFF07
)

// tacRates maps the two TAC rate-select bits to cycles per TIMA increment.
var tacRates = [4]uint32{1024, 16, 64, 256}

const tacEnable = 0x04

// RequestFunc raises an interrupt request on the controller.
type RequestFunc func(interrupt.Source)

// Timer advances in lockstep with the CPU. DIV is the upper byte of an
// internal 16-bit divider; TIMA increments at the TAC-selected rate and
// requests the timer interrupt when it overflows.
type Timer struct {
	divider uint16 // internal counter, DIV = divider >> 8

	tima uint8
	tma  uint8
	tac  uint8

	// Cycles accumulated toward the next TIMA increment. Carrying the
	// remainder between calls keeps Advance additive over long runs.
	timaAccum uint32

	request RequestFunc
}

// New creates a timer that raises requests through the given function.
func New(request RequestFunc) *Timer {
	t := &Timer{request: request}
	t.Reset()
	return t
}

// Reset restores the documented post-boot state.
func (t *Timer) Reset() {
	t.divider = 0xAB00
	t.tima = 0
	t.tma = 0
	t.tac = 0
	t.timaAccum = 0
}

// Advance moves the timer forward by the given number of cycles. Advancing
// by a then b is identical to advancing by a+b in one call.
func (t *Timer) Advance(cycles int) {
	t.divider += uint16(cycles)

	if t.tac&tacEnable == 0 {
		return
	}

	rate := tacRates[t.tac&0x03]
	t.timaAccum += uint32(cycles)
	for t.timaAccum >= rate {
		t.timaAccum -= rate
		t.tima++
		if t.tima == 0 {
			t.tima = t.tma
			t.request(interrupt.Timer)
		}
	}
}

// ReadRegister reads one of the four timer registers.
func (t *Timer) ReadRegister(address uint16) uint8 {
	switch address {
	case AddrDIV:
		return uint8(t.divider >> 8)
	case AddrTIMA:
		return t.tima
	case AddrTMA:
		return t.tma
	case AddrTAC:
		// Only the low three bits exist.
		return t.tac | 0xF8
	default:
		return 0xFF
	}
}

// WriteRegister writes one of the four timer registers. Any write to DIV
// clears the whole internal divider.
func (t *Timer) WriteRegister(address uint16, value uint8) {
	switch address {
	case AddrDIV:
		t.divider = 0
		t.timaAccum = 0
	case AddrTIMA:
		t.tima = value
	case AddrTMA:
		t.tma = value
	case AddrTAC:
		t.tac = value & 0x07
	}
}
