// Package interrupt implements the Game Boy interrupt controller: the IF
// request register, the IE enable register and the master enable flag.
package interrupt

// Source identifies one of the five interrupt lines, in hardware priority
// order. A lower value wins when several sources are pending at once.
type Source int

const (
	VBlank Source = iota
	LCDStat
	Timer
	Serial
	Joypad

	numSources
)

// Fixed jump targets, 8 bytes apart starting at $0040.
const vectorBase = 0x0040

// Vector returns the source's fixed jump target.
func (s Source) Vector() uint16 {
	return uint16(vectorBase + 8*int(s))
}

// Mask returns the source's bit in the IF/IE registers.
func (s Source) Mask() uint8 {
	return 1 << uint(s)
}

func (s Source) String() string {
	switch s {
	case VBlank:
		return "vblank"
	case LCDStat:
		return "lcd-stat"
	case Timer:
		return "timer"
	case Serial:
		return "serial"
	case Joypad:
		return "joypad"
	default:
		return "unknown"
	}
}

// Only the low five bits of IF and IE exist; the upper IF bits read as 1.
const sourceMask uint8 = 0x1F

// Controller tracks requested and enabled interrupt sources and the master
// enable flag. Components raise requests through Request; the scheduler
// polls Pending before every CPU step.
type Controller struct {
	requested uint8 // IF ($FF0F)
	enabled   uint8 // IE ($FFFF)
	ime       bool
}

// New creates a controller in the documented power-on state.
func New() *Controller {
	c := &Controller{}
	c.Reset()
	return c
}

// Reset restores the power-on state. The boot ROM leaves the VBlank request
// bit set (IF reads $E1 after boot).
func (c *Controller) Reset() {
	c.requested = 0x01
	c.enabled = 0x00
	c.ime = false
}

// Request raises the given source's request bit.
func (c *Controller) Request(s Source) {
	c.requested |= s.Mask()
}

// Pending returns the highest-priority source that is both requested and
// enabled, provided the master enable flag is set.
func (c *Controller) Pending() (Source, bool) {
	if !c.ime {
		return 0, false
	}
	active := c.requested & c.enabled & sourceMask
	if active == 0 {
		return 0, false
	}
	for s := VBlank; s < numSources; s++ {
		if active&s.Mask() != 0 {
			return s, true
		}
	}
	return 0, false
}

// AnyRequested reports whether any enabled source is requested, regardless
// of the master enable flag. A halted CPU wakes on this condition even when
// no interrupt will be dispatched.
func (c *Controller) AnyRequested() bool {
	return c.requested&c.enabled&sourceMask != 0
}

// Acknowledge clears the source's request bit and the master enable flag as
// part of dispatching it.
func (c *Controller) Acknowledge(s Source) {
	c.requested &^= s.Mask()
	c.ime = false
}

// IME returns the master enable flag.
func (c *Controller) IME() bool { return c.ime }

// SetIME sets the master enable flag. DI clears it immediately; the delayed
// effect of EI is sequenced by the CPU.
func (c *Controller) SetIME(on bool) { c.ime = on }

// ReadIF returns the IF register. The three unimplemented bits read as 1.
func (c *Controller) ReadIF() uint8 {
	return c.requested&sourceMask | ^sourceMask
}

// WriteIF replaces the request bits. Software may cancel or force requests.
func (c *Controller) WriteIF(value uint8) {
	c.requested = value & sourceMask
}

// ReadIE returns the IE register.
func (c *Controller) ReadIE() uint8 {
	return c.enabled
}

// WriteIE replaces the enable bits. The upper bits are writable RAM on
// hardware and are preserved on read-back.
func (c *Controller) WriteIE(value uint8) {
	c.enabled = value
}
