package cpu

import "testing"

func TestPrefixedRotatesAndShifts(t *testing.T) {
	tests := []struct {
		name    string
		opcode  uint8 // CB opcode operating on B
		b       uint8
		carryIn bool
		wantB   uint8
		z, c    bool
	}{
		{"RLC wraps bit 7", 0x00, 0x80, false, 0x01, false, true},
		{"RLC zero sets Z", 0x00, 0x00, false, 0x00, true, false},
		{"RRC wraps bit 0", 0x08, 0x01, false, 0x80, false, true},
		{"RL shifts carry in", 0x10, 0x00, true, 0x01, false, false},
		{"RL shifts carry out", 0x10, 0x80, false, 0x00, true, true},
		{"RR shifts carry in", 0x18, 0x00, true, 0x80, false, false},
		{"SLA drops bit 7", 0x20, 0xC0, false, 0x80, false, true},
		{"SRA keeps sign", 0x28, 0x81, false, 0xC0, false, true},
		{"SWAP nibbles", 0x30, 0xF1, false, 0x1F, false, false},
		{"SRL clears bit 7", 0x38, 0x81, false, 0x40, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCPUTestHelper()
			h.CPU.B = tt.b
			h.CPU.setFlags(false, false, false, tt.carryIn)
			h.LoadProgram(0xCB, tt.opcode)

			cycles := h.Step(t)

			if h.CPU.B != tt.wantB {
				t.Errorf("expected B=$%02X, got $%02X", tt.wantB, h.CPU.B)
			}
			h.AssertFlags(t, tt.name, tt.z, false, false, tt.c)
			if cycles != 8 {
				t.Errorf("register CB op should cost 8 cycles, got %d", cycles)
			}
		})
	}
}

func TestBitTestSetsFlags(t *testing.T) {
	h := NewCPUTestHelper()
	h.CPU.D = 0x08
	h.CPU.setFlagC(true)
	h.LoadProgram(0xCB, 0x5A) // BIT 3,D

	h.Step(t)
	h.AssertFlags(t, "BIT set", false, false, true, true)

	h.LoadProgram(0xCB, 0x62) // BIT 4,D
	h.Step(t)
	h.AssertFlags(t, "BIT clear", true, false, true, true)
}

func TestResAndSet(t *testing.T) {
	h := NewCPUTestHelper()
	h.CPU.E = 0xFF
	h.LoadProgram(0xCB, 0xBB) // RES 7,E

	h.Step(t)
	if h.CPU.E != 0x7F {
		t.Errorf("expected E=$7F, got $%02X", h.CPU.E)
	}

	h.LoadProgram(0xCB, 0xFB) // SET 7,E
	h.Step(t)
	if h.CPU.E != 0xFF {
		t.Errorf("expected E=$FF, got $%02X", h.CPU.E)
	}
}

func TestPrefixedMemoryOperandTiming(t *testing.T) {
	h := NewCPUTestHelper()
	h.CPU.SetHL(0xC000)
	h.Memory.SetBytes(0xC000, 0x01)
	h.LoadProgram(0xCB, 0x3E) // SRL (HL)

	cycles := h.Step(t)

	if h.Memory.data[0xC000] != 0x00 {
		t.Errorf("expected (HL)=$00, got $%02X", h.Memory.data[0xC000])
	}
	if cycles != 16 {
		t.Errorf("read-modify-write CB op should cost 16 cycles, got %d", cycles)
	}

	h.LoadProgram(0xCB, 0x46) // BIT 0,(HL)
	cycles = h.Step(t)
	if cycles != 12 {
		t.Errorf("BIT (HL) should cost 12 cycles, got %d", cycles)
	}
}
