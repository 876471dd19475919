package input

import (
	"testing"

	"gogb/internal/interrupt"
)

func testJoypad() (*Joypad, *int) {
	requests := 0
	j := New(func(s interrupt.Source) {
		if s == interrupt.Joypad {
			requests++
		}
	})
	return j, &requests
}

func TestIdleReadsHigh(t *testing.T) {
	j, _ := testJoypad()

	// Nothing selected, nothing pressed: all lines pulled up.
	if got := j.Read(AddrJOYP); got != 0xFF {
		t.Errorf("expected $FF, got $%02X", got)
	}
}

func TestActionLines(t *testing.T) {
	j, _ := testJoypad()
	j.Write(AddrJOYP, 0x10) // select action buttons (bit 5 low)

	j.SetButton(ButtonA, true)
	j.SetButton(ButtonStart, true)

	// A is bit 0, Start bit 3, pressed reads low.
	if got := j.Read(AddrJOYP); got != 0xD6 {
		t.Errorf("expected $D6, got $%02X", got)
	}

	j.SetButton(ButtonA, false)
	if got := j.Read(AddrJOYP); got != 0xD7 {
		t.Errorf("expected $D7 after release, got $%02X", got)
	}
}

func TestDirectionLines(t *testing.T) {
	j, _ := testJoypad()
	j.Write(AddrJOYP, 0x20) // select directions (bit 4 low)

	j.SetButton(ButtonRight, true)
	j.SetButton(ButtonDown, true)

	// Right is bit 0, Down bit 3.
	if got := j.Read(AddrJOYP); got != 0xE6 {
		t.Errorf("expected $E6, got $%02X", got)
	}
}

func TestUnselectedGroupHidden(t *testing.T) {
	j, _ := testJoypad()
	j.Write(AddrJOYP, 0x10) // action group only

	j.SetButton(ButtonUp, true)

	if got := j.Read(AddrJOYP); got != 0xDF {
		t.Errorf("direction press must not show on action lines, got $%02X", got)
	}
}

func TestBothGroupsSelected(t *testing.T) {
	j, _ := testJoypad()
	j.Write(AddrJOYP, 0x00)

	j.SetButton(ButtonB, true)    // bit 1 of the action nibble
	j.SetButton(ButtonLeft, true) // bit 1 of the direction nibble

	if got := j.Read(AddrJOYP); got != 0xCD {
		t.Errorf("expected $CD, got $%02X", got)
	}
}

func TestInterruptOnNewPress(t *testing.T) {
	j, requests := testJoypad()

	j.SetButton(ButtonA, true)
	if *requests != 1 {
		t.Fatalf("expected one request, got %d", *requests)
	}

	// Holding is not a new press.
	j.SetButton(ButtonA, true)
	if *requests != 1 {
		t.Errorf("held button must not re-request, got %d", *requests)
	}

	j.SetButton(ButtonA, false)
	j.SetButton(ButtonA, true)
	if *requests != 2 {
		t.Errorf("expected a second request after release, got %d", *requests)
	}
}

func TestSetButtonsBatch(t *testing.T) {
	j, requests := testJoypad()
	j.Write(AddrJOYP, 0x20)

	var state [NumButtons]bool
	state[ButtonUp] = true
	state[ButtonLeft] = true
	j.SetButtons(state)

	if got := j.Read(AddrJOYP); got != 0xE9 {
		t.Errorf("expected $E9, got $%02X", got)
	}
	if *requests != 2 {
		t.Errorf("expected two requests, got %d", *requests)
	}

	j.SetButtons([NumButtons]bool{})
	if got := j.Read(AddrJOYP); got != 0xEF {
		t.Errorf("expected $EF after release, got $%02X", got)
	}
}

func TestWriteKeepsOnlySelectBits(t *testing.T) {
	j, _ := testJoypad()

	j.Write(AddrJOYP, 0xFF)
	if got := j.Read(AddrJOYP); got != 0xFF {
		t.Errorf("expected $FF, got $%02X", got)
	}

	j.Write(AddrJOYP, 0x0F) // low nibble is read-only
	if got := j.Read(AddrJOYP); got != 0xCF {
		t.Errorf("expected $CF, got $%02X", got)
	}
}

func TestButtonNames(t *testing.T) {
	if ButtonSelect.String() != "Select" || ButtonDown.String() != "Down" {
		t.Error("unexpected button names")
	}
	if Button(99).String() != "unknown" {
		t.Error("out-of-range button must read unknown")
	}
}
