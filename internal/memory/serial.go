package memory

import "gogb/internal/interrupt"

// Serial register addresses.
const (
	AddrSB = 0xFF01 // transfer data
	AddrSC = 0xFF02 // transfer control
)

// A transfer driven by the internal 8192Hz clock shifts eight bits in 512
// cycles.
const serialTransferCycles = 512

const (
	scStart         = 0x80
	scInternalClock = 0x01
	scUnusedBits    = 0x7E
)

// Serial models the link-cable registers with no partner attached: a
// started internal-clock transfer completes after the documented time,
// shifts in $FF and requests the serial interrupt. External-clock
// transfers never complete on their own.
type Serial struct {
	sb uint8
	sc uint8

	remaining int

	request func(interrupt.Source)
}

// NewSerial creates the serial port stub.
func NewSerial(request func(interrupt.Source)) *Serial {
	return &Serial{request: request}
}

// Reset clears both registers and any transfer in flight.
func (s *Serial) Reset() {
	s.sb = 0
	s.sc = 0
	s.remaining = 0
}

// ReadRegister reads SB or SC. The unused SC bits read as 1.
func (s *Serial) ReadRegister(address uint16) uint8 {
	switch address {
	case AddrSB:
		return s.sb
	case AddrSC:
		return s.sc | scUnusedBits
	default:
		return 0xFF
	}
}

// WriteRegister writes SB or SC. Setting the start bit with the internal
// clock selected begins a transfer.
func (s *Serial) WriteRegister(address uint16, value uint8) {
	switch address {
	case AddrSB:
		s.sb = value
	case AddrSC:
		s.sc = value & (scStart | scInternalClock)
		if s.sc&scStart != 0 && s.sc&scInternalClock != 0 {
			s.remaining = serialTransferCycles
		}
	}
}

// Advance ages an in-flight transfer by the given cycles.
func (s *Serial) Advance(cycles int) {
	if s.remaining == 0 {
		return
	}
	s.remaining -= cycles
	if s.remaining > 0 {
		return
	}
	s.remaining = 0
	s.sb = 0xFF // no partner: all ones shift in
	s.sc &^= scStart
	s.request(interrupt.Serial)
}
