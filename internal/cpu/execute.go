package cpu

// execute runs a single unprefixed opcode and returns the cycles consumed.
// The base cost comes from the decode table; taken branches add their
// penalty on top. Undefined opcodes are a fatal decode error.
func (c *CPU) execute(opcode uint8) (int, error) {
	cycles := int(instructions[opcode].Cycles)

	// The two regular blocks are decoded from the opcode bits directly.
	if opcode >= 0x40 && opcode < 0x80 && opcode != 0x76 {
		// LD r,r'
		c.writeReg8((opcode>>3)&7, c.readReg8(opcode&7))
		return cycles, nil
	}
	if opcode >= 0x80 && opcode < 0xC0 {
		// ALU A,r
		c.aluOp((opcode>>3)&7, c.readReg8(opcode&7))
		return cycles, nil
	}

	switch opcode {
	case 0x00: // NOP

	// 16-bit immediate loads
	case 0x01:
		c.SetBC(c.fetch16())
	case 0x11:
		c.SetDE(c.fetch16())
	case 0x21:
		c.SetHL(c.fetch16())
	case 0x31:
		c.SP = c.fetch16()

	// Indirect loads through register pairs
	case 0x02:
		c.memory.Write(c.BC(), c.A)
	case 0x12:
		c.memory.Write(c.DE(), c.A)
	case 0x0A:
		c.A = c.memory.Read(c.BC())
	case 0x1A:
		c.A = c.memory.Read(c.DE())
	case 0x22: // LD (HL+),A
		c.memory.Write(c.HL(), c.A)
		c.SetHL(c.HL() + 1)
	case 0x32: // LD (HL-),A
		c.memory.Write(c.HL(), c.A)
		c.SetHL(c.HL() - 1)
	case 0x2A: // LD A,(HL+)
		c.A = c.memory.Read(c.HL())
		c.SetHL(c.HL() + 1)
	case 0x3A: // LD A,(HL-)
		c.A = c.memory.Read(c.HL())
		c.SetHL(c.HL() - 1)

	// 8-bit immediate loads
	case 0x06:
		c.B = c.fetch8()
	case 0x0E:
		c.C = c.fetch8()
	case 0x16:
		c.D = c.fetch8()
	case 0x1E:
		c.E = c.fetch8()
	case 0x26:
		c.H = c.fetch8()
	case 0x2E:
		c.L = c.fetch8()
	case 0x36:
		c.memory.Write(c.HL(), c.fetch8())
	case 0x3E:
		c.A = c.fetch8()

	// 16-bit increments/decrements (no flags)
	case 0x03:
		c.SetBC(c.BC() + 1)
	case 0x13:
		c.SetDE(c.DE() + 1)
	case 0x23:
		c.SetHL(c.HL() + 1)
	case 0x33:
		c.SP++
	case 0x0B:
		c.SetBC(c.BC() - 1)
	case 0x1B:
		c.SetDE(c.DE() - 1)
	case 0x2B:
		c.SetHL(c.HL() - 1)
	case 0x3B:
		c.SP--

	// 8-bit increments/decrements
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		index := (opcode >> 3) & 7
		c.writeReg8(index, c.inc8(c.readReg8(index)))
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		index := (opcode >> 3) & 7
		c.writeReg8(index, c.dec8(c.readReg8(index)))

	// 16-bit adds into HL
	case 0x09:
		c.addHL(c.BC())
	case 0x19:
		c.addHL(c.DE())
	case 0x29:
		c.addHL(c.HL())
	case 0x39:
		c.addHL(c.SP)

	// Accumulator rotates. Unlike their CB forms these always clear Z.
	case 0x07: // RLCA
		c.A = c.rlc(c.A)
		c.setFlagZ(false)
	case 0x0F: // RRCA
		c.A = c.rrc(c.A)
		c.setFlagZ(false)
	case 0x17: // RLA
		c.A = c.rl(c.A)
		c.setFlagZ(false)
	case 0x1F: // RRA
		c.A = c.rr(c.A)
		c.setFlagZ(false)

	case 0x08: // LD (a16),SP
		c.write16(c.fetch16(), c.SP)

	// Relative jumps
	case 0x18:
		c.jumpRelative(true)
	case 0x20:
		cycles += c.jumpRelative(!c.flagSet(flagZ))
	case 0x28:
		cycles += c.jumpRelative(c.flagSet(flagZ))
	case 0x30:
		cycles += c.jumpRelative(!c.flagSet(flagC))
	case 0x38:
		cycles += c.jumpRelative(c.flagSet(flagC))

	case 0x27:
		c.daa()
	case 0x2F: // CPL
		c.A = ^c.A
		c.setFlagN(true)
		c.setFlagH(true)
	case 0x37: // SCF
		c.setFlagN(false)
		c.setFlagH(false)
		c.setFlagC(true)
	case 0x3F: // CCF
		c.setFlagN(false)
		c.setFlagH(false)
		c.setFlagC(!c.flagSet(flagC))

	case 0x76: // HALT
		// With interrupts globally disabled but a request already live the
		// hardware does not actually halt (the halt bug); approximate it by
		// continuing execution.
		if c.intc.IME() || !c.intc.AnyRequested() {
			c.state = Halted
		}
	case 0x10: // STOP
		c.fetch8() // STOP skips its operand byte
		c.state = Stopped

	// Absolute jumps
	case 0xC3:
		c.jumpAbsolute(true)
	case 0xC2:
		cycles += c.jumpAbsolute(!c.flagSet(flagZ))
	case 0xCA:
		cycles += c.jumpAbsolute(c.flagSet(flagZ))
	case 0xD2:
		cycles += c.jumpAbsolute(!c.flagSet(flagC))
	case 0xDA:
		cycles += c.jumpAbsolute(c.flagSet(flagC))
	case 0xE9: // JP (HL)
		c.PC = c.HL()

	// Calls
	case 0xCD:
		c.call(true)
	case 0xC4:
		cycles += c.call(!c.flagSet(flagZ))
	case 0xCC:
		cycles += c.call(c.flagSet(flagZ))
	case 0xD4:
		cycles += c.call(!c.flagSet(flagC))
	case 0xDC:
		cycles += c.call(c.flagSet(flagC))

	// Returns
	case 0xC9:
		c.PC = c.pop16()
	case 0xC0:
		cycles += c.ret(!c.flagSet(flagZ))
	case 0xC8:
		cycles += c.ret(c.flagSet(flagZ))
	case 0xD0:
		cycles += c.ret(!c.flagSet(flagC))
	case 0xD8:
		cycles += c.ret(c.flagSet(flagC))
	case 0xD9: // RETI
		c.PC = c.pop16()
		c.intc.SetIME(true)

	// Restarts
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		c.push16(c.PC)
		c.PC = uint16(opcode & 0x38)

	// Stack register transfers
	case 0xC5:
		c.push16(c.BC())
	case 0xD5:
		c.push16(c.DE())
	case 0xE5:
		c.push16(c.HL())
	case 0xF5:
		c.push16(c.AF())
	case 0xC1:
		c.SetBC(c.pop16())
	case 0xD1:
		c.SetDE(c.pop16())
	case 0xE1:
		c.SetHL(c.pop16())
	case 0xF1:
		c.SetAF(c.pop16())

	// ALU with immediate operand
	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE:
		c.aluOp((opcode>>3)&7, c.fetch8())

	// High-page loads ($FF00 window)
	case 0xE0:
		c.memory.Write(0xFF00+uint16(c.fetch8()), c.A)
	case 0xF0:
		c.A = c.memory.Read(0xFF00 + uint16(c.fetch8()))
	case 0xE2:
		c.memory.Write(0xFF00+uint16(c.C), c.A)
	case 0xF2:
		c.A = c.memory.Read(0xFF00 + uint16(c.C))

	case 0xEA:
		c.memory.Write(c.fetch16(), c.A)
	case 0xFA:
		c.A = c.memory.Read(c.fetch16())

	// Stack pointer arithmetic. Both forms set H/C from the low byte add.
	case 0xE8: // ADD SP,r8
		c.SP = c.addSPSigned(c.fetch8())
	case 0xF8: // LD HL,SP+r8
		c.SetHL(c.addSPSigned(c.fetch8()))
	case 0xF9: // LD SP,HL
		c.SP = c.HL()

	// Interrupt enable control
	case 0xF3: // DI
		c.intc.SetIME(false)
		c.eiPending = false
	case 0xFB: // EI
		c.eiPending = true

	default:
		return 0, &IllegalOpcodeError{Opcode: opcode, Addr: c.PC - 1}
	}

	return cycles, nil
}

// aluOp dispatches the eight accumulator operations encoded in bits 5..3 of
// the ALU opcode blocks.
func (c *CPU) aluOp(op uint8, value uint8) {
	switch op {
	case 0: // ADD
		c.add(value, false)
	case 1: // ADC
		c.add(value, true)
	case 2: // SUB
		c.A = c.sub(value, false)
	case 3: // SBC
		c.A = c.sub(value, true)
	case 4: // AND
		c.A &= value
		c.setFlags(c.A == 0, false, true, false)
	case 5: // XOR
		c.A ^= value
		c.setFlags(c.A == 0, false, false, false)
	case 6: // OR
		c.A |= value
		c.setFlags(c.A == 0, false, false, false)
	case 7: // CP
		c.sub(value, false)
	}
}

// add adds value (plus the carry flag for ADC) into A.
func (c *CPU) add(value uint8, withCarry bool) {
	var carry uint8
	if withCarry && c.flagSet(flagC) {
		carry = 1
	}
	result := uint16(c.A) + uint16(value) + uint16(carry)
	half := (c.A&0x0F)+(value&0x0F)+carry > 0x0F
	c.setFlags(uint8(result) == 0, false, half, result > 0xFF)
	c.A = uint8(result)
}

// sub computes A minus value (minus the carry flag for SBC), sets the flags
// and returns the result. CP uses the flags and discards the result.
func (c *CPU) sub(value uint8, withCarry bool) uint8 {
	var carry uint8
	if withCarry && c.flagSet(flagC) {
		carry = 1
	}
	result := int16(c.A) - int16(value) - int16(carry)
	half := int16(c.A&0x0F)-int16(value&0x0F)-int16(carry) < 0
	c.setFlags(uint8(result) == 0, true, half, result < 0)
	return uint8(result)
}

func (c *CPU) inc8(value uint8) uint8 {
	result := value + 1
	c.setFlagZ(result == 0)
	c.setFlagN(false)
	c.setFlagH(value&0x0F == 0x0F)
	return result
}

func (c *CPU) dec8(value uint8) uint8 {
	result := value - 1
	c.setFlagZ(result == 0)
	c.setFlagN(true)
	c.setFlagH(value&0x0F == 0)
	return result
}

// addHL adds a 16-bit value into HL. Z is untouched; the half-carry is
// taken from bit 11 -> 12.
func (c *CPU) addHL(value uint16) {
	hl := c.HL()
	result := uint32(hl) + uint32(value)
	c.setFlagN(false)
	c.setFlagH((hl&0x0FFF)+(value&0x0FFF) > 0x0FFF)
	c.setFlagC(result > 0xFFFF)
	c.SetHL(uint16(result))
}

// addSPSigned computes SP plus a signed byte. H and C come from the
// unsigned low-byte addition; Z and N are always cleared.
func (c *CPU) addSPSigned(operand uint8) uint16 {
	offset := uint16(int8(operand))
	result := c.SP + offset
	half := (c.SP&0x0F)+(uint16(operand)&0x0F) > 0x0F
	carry := (c.SP&0xFF)+(uint16(operand)&0xFF) > 0xFF
	c.setFlags(false, false, half, carry)
	return result
}

// daa adjusts A to a valid binary-coded-decimal result after an addition or
// subtraction, driven by the N, H and C flags.
func (c *CPU) daa() {
	a := c.A
	carry := c.flagSet(flagC)
	if !c.flagSet(flagN) {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if c.flagSet(flagH) || a&0x0F > 0x09 {
			a += 0x06
		}
	} else {
		if carry {
			a -= 0x60
		}
		if c.flagSet(flagH) {
			a -= 0x06
		}
	}
	c.setFlagZ(a == 0)
	c.setFlagH(false)
	c.setFlagC(carry)
	c.A = a
}

// jumpRelative fetches the displacement unconditionally, then applies it
// when the condition holds. Returns the taken-branch penalty.
func (c *CPU) jumpRelative(condition bool) int {
	offset := int8(c.fetch8())
	if !condition {
		return 0
	}
	c.PC = uint16(int32(c.PC) + int32(offset))
	return 4
}

func (c *CPU) jumpAbsolute(condition bool) int {
	target := c.fetch16()
	if !condition {
		return 0
	}
	c.PC = target
	return 4
}

func (c *CPU) call(condition bool) int {
	target := c.fetch16()
	if !condition {
		return 0
	}
	c.push16(c.PC)
	c.PC = target
	return 12
}

func (c *CPU) ret(condition bool) int {
	if !condition {
		return 0
	}
	c.PC = c.pop16()
	return 12
}
