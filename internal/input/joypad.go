// Package input implements the Game Boy joypad register. The host feeds
// button state in through SetButton; the core never polls devices itself.
package input

import "gogb/internal/interrupt"

// AddrJOYP is the joypad register address ($FF00, also called P1).
const AddrJOYP = 0xFF00

// Button identifies one of the eight inputs.
type Button int

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown

	NumButtons
)

func (b Button) String() string {
	names := [NumButtons]string{"A", "B", "Select", "Start", "Right", "Left", "Up", "Down"}
	if b < 0 || b >= NumButtons {
		return "unknown"
	}
	return names[b]
}

// Select lines written by software, active low.
const (
	selectAction    = 1 << 5
	selectDirection = 1 << 4
)

// RequestFunc raises an interrupt request on the controller.
type RequestFunc func(interrupt.Source)

// Joypad models the P1 register. All lines are active low: a pressed
// button reads as 0 in the selected nibble.
type Joypad struct {
	pressed [NumButtons]bool

	// Last written select bits.
	selection uint8

	request RequestFunc
}

// New creates a joypad that raises requests through the given function.
func New(request RequestFunc) *Joypad {
	j := &Joypad{request: request}
	j.Reset()
	return j
}

// Reset releases all buttons and deselects both line groups.
func (j *Joypad) Reset() {
	j.pressed = [NumButtons]bool{}
	j.selection = selectAction | selectDirection
}

// SetButton records a host-side button state change. A new press on a
// selected line requests the joypad interrupt.
func (j *Joypad) SetButton(b Button, down bool) {
	if b < 0 || b >= NumButtons {
		return
	}
	wasDown := j.pressed[b]
	j.pressed[b] = down
	if down && !wasDown {
		j.request(interrupt.Joypad)
	}
}

// SetButtons replaces the whole button state at once, typically once per
// host frame.
func (j *Joypad) SetButtons(state [NumButtons]bool) {
	for b := Button(0); b < NumButtons; b++ {
		j.SetButton(b, state[b])
	}
}

// Read returns the P1 register: select bits as written, input lines pulled
// low for pressed buttons in the selected group.
func (j *Joypad) Read(address uint16) uint8 {
	if address != AddrJOYP {
		return 0xFF
	}
	value := 0xC0 | j.selection | 0x0F
	if j.selection&selectAction == 0 {
		value &^= j.lineBits(ButtonA, ButtonB, ButtonSelect, ButtonStart)
	}
	if j.selection&selectDirection == 0 {
		value &^= j.lineBits(ButtonRight, ButtonLeft, ButtonUp, ButtonDown)
	}
	return value
}

// Write latches the two select bits; the input lines are read-only.
func (j *Joypad) Write(address uint16, value uint8) {
	if address != AddrJOYP {
		return
	}
	j.selection = value & (selectAction | selectDirection)
}

// lineBits builds the active-low nibble for four buttons in line order.
func (j *Joypad) lineBits(b0, b1, b2, b3 Button) uint8 {
	var bits uint8
	for i, b := range [4]Button{b0, b1, b2, b3} {
		if j.pressed[b] {
			bits |= 1 << i
		}
	}
	return bits
}
