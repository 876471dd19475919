package cpu

import "fmt"

// Instruction carries the decode metadata for one opcode: mnemonic, byte
// length and base cycle cost. Conditional jumps/calls/returns list their
// not-taken cost here; the taken penalty is added during execution.
type Instruction struct {
	Name   string
	Length uint8
	Cycles uint8
}

// instructions is the primary opcode table. The regular LD r,r' and ALU A,r
// blocks (0x40-0xBF) are filled programmatically in init.
var instructions = [256]Instruction{
	0x00: {"NOP", 1, 4},
	0x01: {"LD BC,d16", 3, 12},
	0x02: {"LD (BC),A", 1, 8},
	0x03: {"INC BC", 1, 8},
	0x04: {"INC B", 1, 4},
	0x05: {"DEC B", 1, 4},
	0x06: {"LD B,d8", 2, 8},
	0x07: {"RLCA", 1, 4},
	0x08: {"LD (a16),SP", 3, 20},
	0x09: {"ADD HL,BC", 1, 8},
	0x0A: {"LD A,(BC)", 1, 8},
	0x0B: {"DEC BC", 1, 8},
	0x0C: {"INC C", 1, 4},
	0x0D: {"DEC C", 1, 4},
	0x0E: {"LD C,d8", 2, 8},
	0x0F: {"RRCA", 1, 4},

	0x10: {"STOP", 2, 4},
	0x11: {"LD DE,d16", 3, 12},
	0x12: {"LD (DE),A", 1, 8},
	0x13: {"INC DE", 1, 8},
	0x14: {"INC D", 1, 4},
	0x15: {"DEC D", 1, 4},
	0x16: {"LD D,d8", 2, 8},
	0x17: {"RLA", 1, 4},
	0x18: {"JR r8", 2, 12},
	0x19: {"ADD HL,DE", 1, 8},
	0x1A: {"LD A,(DE)", 1, 8},
	0x1B: {"DEC DE", 1, 8},
	0x1C: {"INC E", 1, 4},
	0x1D: {"DEC E", 1, 4},
	0x1E: {"LD E,d8", 2, 8},
	0x1F: {"RRA", 1, 4},

	0x20: {"JR NZ,r8", 2, 8},
	0x21: {"LD HL,d16", 3, 12},
	0x22: {"LD (HL+),A", 1, 8},
	0x23: {"INC HL", 1, 8},
	0x24: {"INC H", 1, 4},
	0x25: {"DEC H", 1, 4},
	0x26: {"LD H,d8", 2, 8},
	0x27: {"DAA", 1, 4},
	0x28: {"JR Z,r8", 2, 8},
	0x29: {"ADD HL,HL", 1, 8},
	0x2A: {"LD A,(HL+)", 1, 8},
	0x2B: {"DEC HL", 1, 8},
	0x2C: {"INC L", 1, 4},
	0x2D: {"DEC L", 1, 4},
	0x2E: {"LD L,d8", 2, 8},
	0x2F: {"CPL", 1, 4},

	0x30: {"JR NC,r8", 2, 8},
	0x31: {"LD SP,d16", 3, 12},
	0x32: {"LD (HL-),A", 1, 8},
	0x33: {"INC SP", 1, 8},
	0x34: {"INC (HL)", 1, 12},
	0x35: {"DEC (HL)", 1, 12},
	0x36: {"LD (HL),d8", 2, 12},
	0x37: {"SCF", 1, 4},
	0x38: {"JR C,r8", 2, 8},
	0x39: {"ADD HL,SP", 1, 8},
	0x3A: {"LD A,(HL-)", 1, 8},
	0x3B: {"DEC SP", 1, 8},
	0x3C: {"INC A", 1, 4},
	0x3D: {"DEC A", 1, 4},
	0x3E: {"LD A,d8", 2, 8},
	0x3F: {"CCF", 1, 4},

	// 0x40-0xBF filled in init; 0x76 is HALT, not LD (HL),(HL).
	0x76: {"HALT", 1, 4},

	0xC0: {"RET NZ", 1, 8},
	0xC1: {"POP BC", 1, 12},
	0xC2: {"JP NZ,a16", 3, 12},
	0xC3: {"JP a16", 3, 16},
	0xC4: {"CALL NZ,a16", 3, 12},
	0xC5: {"PUSH BC", 1, 16},
	0xC6: {"ADD A,d8", 2, 8},
	0xC7: {"RST 00H", 1, 16},
	0xC8: {"RET Z", 1, 8},
	0xC9: {"RET", 1, 16},
	0xCA: {"JP Z,a16", 3, 12},
	0xCB: {"PREFIX CB", 1, 4},
	0xCC: {"CALL Z,a16", 3, 12},
	0xCD: {"CALL a16", 3, 24},
	0xCE: {"ADC A,d8", 2, 8},
	0xCF: {"RST 08H", 1, 16},

	0xD0: {"RET NC", 1, 8},
	0xD1: {"POP DE", 1, 12},
	0xD2: {"JP NC,a16", 3, 12},
	0xD4: {"CALL NC,a16", 3, 12},
	0xD5: {"PUSH DE", 1, 16},
	0xD6: {"SUB d8", 2, 8},
	0xD7: {"RST 10H", 1, 16},
	0xD8: {"RET C", 1, 8},
	0xD9: {"RETI", 1, 16},
	0xDA: {"JP C,a16", 3, 12},
	0xDC: {"CALL C,a16", 3, 12},
	0xDE: {"SBC A,d8", 2, 8},
	0xDF: {"RST 18H", 1, 16},

	0xE0: {"LDH (a8),A", 2, 12},
	0xE1: {"POP HL", 1, 12},
	0xE2: {"LD (C),A", 1, 8},
	0xE5: {"PUSH HL", 1, 16},
	0xE6: {"AND d8", 2, 8},
	0xE7: {"RST 20H", 1, 16},
	0xE8: {"ADD SP,r8", 2, 16},
	0xE9: {"JP (HL)", 1, 4},
	0xEA: {"LD (a16),A", 3, 16},
	0xEE: {"XOR d8", 2, 8},
	0xEF: {"RST 28H", 1, 16},

	0xF0: {"LDH A,(a8)", 2, 12},
	0xF1: {"POP AF", 1, 12},
	0xF2: {"LD A,(C)", 1, 8},
	0xF3: {"DI", 1, 4},
	0xF5: {"PUSH AF", 1, 16},
	0xF6: {"OR d8", 2, 8},
	0xF7: {"RST 30H", 1, 16},
	0xF8: {"LD HL,SP+r8", 2, 12},
	0xF9: {"LD SP,HL", 1, 8},
	0xFA: {"LD A,(a16)", 3, 16},
	0xFB: {"EI", 1, 4},
	0xFE: {"CP d8", 2, 8},
	0xFF: {"RST 38H", 1, 16},
}

// aluNames is indexed by bits 5..3 of the 0x80-0xBF block.
var aluNames = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}

// cbNames is indexed by bits 7..3 of the prefixed opcode.
var cbNames = [32]string{
	"RLC ", "RRC ", "RL ", "RR ", "SLA ", "SRA ", "SWAP ", "SRL ",
	"BIT 0,", "BIT 1,", "BIT 2,", "BIT 3,", "BIT 4,", "BIT 5,", "BIT 6,", "BIT 7,",
	"RES 0,", "RES 1,", "RES 2,", "RES 3,", "RES 4,", "RES 5,", "RES 6,", "RES 7,",
	"SET 0,", "SET 1,", "SET 2,", "SET 3,", "SET 4,", "SET 5,", "SET 6,", "SET 7,",
}

func init() {
	// LD r,r' block. Source and destination registers are encoded in the
	// opcode; a (HL) operand adds one memory cycle.
	for op := 0x40; op < 0x80; op++ {
		if op == 0x76 {
			continue
		}
		dst := uint8(op>>3) & 7
		src := uint8(op) & 7
		cycles := uint8(4)
		if dst == regHLInd || src == regHLInd {
			cycles = 8
		}
		instructions[op] = Instruction{
			Name:   "LD " + reg8Names[dst] + "," + reg8Names[src],
			Length: 1,
			Cycles: cycles,
		}
	}

	// ALU A,r block.
	for op := 0x80; op < 0xC0; op++ {
		src := uint8(op) & 7
		cycles := uint8(4)
		if src == regHLInd {
			cycles = 8
		}
		instructions[op] = Instruction{
			Name:   aluNames[(op>>3)&7] + reg8Names[src],
			Length: 1,
			Cycles: cycles,
		}
	}
}

// Lookup returns the decode metadata for an opcode. Illegal opcodes return
// false; the prefix byte itself decodes as PREFIX CB.
func Lookup(opcode uint8) (Instruction, bool) {
	inst := instructions[opcode]
	if inst.Length == 0 {
		return Instruction{}, false
	}
	return inst, true
}

// LookupPrefixed returns the decode metadata for a 0xCB-prefixed opcode.
// Every prefixed opcode is defined.
func LookupPrefixed(opcode uint8) Instruction {
	cycles := uint8(8)
	if opcode&7 == regHLInd {
		// BIT never writes the operand back, so its (HL) form is shorter.
		if opcode >= 0x40 && opcode < 0x80 {
			cycles = 12
		} else {
			cycles = 16
		}
	}
	return Instruction{
		Name:   cbNames[opcode>>3] + reg8Names[opcode&7],
		Length: 2,
		Cycles: cycles,
	}
}

// Disassemble renders the instruction at addr using the supplied reader,
// e.g. "JP a16 $0150". Used by the debug tracer and fatal-error reports.
func Disassemble(read func(uint16) uint8, addr uint16) string {
	opcode := read(addr)
	if opcode == prefixByte {
		return LookupPrefixed(read(addr + 1)).Name
	}
	inst, ok := Lookup(opcode)
	if !ok {
		return fmt.Sprintf("DB $%02X", opcode)
	}
	switch inst.Length {
	case 2:
		return fmt.Sprintf("%s $%02X", inst.Name, read(addr+1))
	case 3:
		return fmt.Sprintf("%s $%02X%02X", inst.Name, read(addr+2), read(addr+1))
	default:
		return inst.Name
	}
}
