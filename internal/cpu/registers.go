package cpu

// Flag bit positions in the F register. Only the upper four bits of F are
// meaningful; the lower nibble always reads back as zero.
const (
	flagZ uint8 = 1 << 7 // Zero
	flagN uint8 = 1 << 6 // Subtract
	flagH uint8 = 1 << 5 // Half-carry (bit 3 -> 4)
	flagC uint8 = 1 << 4 // Carry
)

// 16-bit register pair accessors. AF masks the low nibble of F so that
// POP AF can never set the unused flag bits.

func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F&0xF0) }
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

func (c *CPU) SetAF(v uint16) { c.A = uint8(v >> 8); c.F = uint8(v) & 0xF0 }
func (c *CPU) SetBC(v uint16) { c.B = uint8(v >> 8); c.C = uint8(v) }
func (c *CPU) SetDE(v uint16) { c.D = uint8(v >> 8); c.E = uint8(v) }
func (c *CPU) SetHL(v uint16) { c.H = uint8(v >> 8); c.L = uint8(v) }

func (c *CPU) flagSet(flag uint8) bool { return c.F&flag != 0 }

// setFlags rebuilds the F register from the four condition flags.
func (c *CPU) setFlags(z, n, h, carry bool) {
	var f uint8
	if z {
		f |= flagZ
	}
	if n {
		f |= flagN
	}
	if h {
		f |= flagH
	}
	if carry {
		f |= flagC
	}
	c.F = f
}

func (c *CPU) setFlagZ(on bool) { c.setFlag(flagZ, on) }
func (c *CPU) setFlagN(on bool) { c.setFlag(flagN, on) }
func (c *CPU) setFlagH(on bool) { c.setFlag(flagH, on) }
func (c *CPU) setFlagC(on bool) { c.setFlag(flagC, on) }

func (c *CPU) setFlag(flag uint8, on bool) {
	if on {
		c.F |= flag
	} else {
		c.F &^= flag
	}
	c.F &= 0xF0
}

// Register indexes as encoded in the opcode map. Index 6 is the memory
// operand (HL); accessing it costs an extra memory cycle.
const (
	regB = iota
	regC
	regD
	regE
	regH
	regL
	regHLInd
	regA
)

// reg8Names is indexed by the 3-bit register encoding.
var reg8Names = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// readReg8 reads the 8-bit register (or memory operand) with the given
// opcode encoding.
func (c *CPU) readReg8(index uint8) uint8 {
	switch index {
	case regB:
		return c.B
	case regC:
		return c.C
	case regD:
		return c.D
	case regE:
		return c.E
	case regH:
		return c.H
	case regL:
		return c.L
	case regHLInd:
		return c.memory.Read(c.HL())
	default:
		return c.A
	}
}

// writeReg8 writes the 8-bit register (or memory operand) with the given
// opcode encoding.
func (c *CPU) writeReg8(index uint8, value uint8) {
	switch index {
	case regB:
		c.B = value
	case regC:
		c.C = value
	case regD:
		c.D = value
	case regE:
		c.E = value
	case regH:
		c.H = value
	case regL:
		c.L = value
	case regHLInd:
		c.memory.Write(c.HL(), value)
	default:
		c.A = value
	}
}
