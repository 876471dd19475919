package cpu

// executePrefixed runs one opcode from the secondary 0xCB table. The table
// is fully regular: bits 2..0 select the register, bits 7..3 the operation.
// Every prefixed opcode is defined, so no decode error is possible here.
// The returned cycle count includes the prefix fetch.
func (c *CPU) executePrefixed(opcode uint8) int {
	index := opcode & 7
	cycles := int(LookupPrefixed(opcode).Cycles)

	switch {
	case opcode < 0x08: // RLC
		c.writeReg8(index, c.rlcZ(c.readReg8(index)))
	case opcode < 0x10: // RRC
		c.writeReg8(index, c.rrcZ(c.readReg8(index)))
	case opcode < 0x18: // RL
		c.writeReg8(index, c.rlZ(c.readReg8(index)))
	case opcode < 0x20: // RR
		c.writeReg8(index, c.rrZ(c.readReg8(index)))
	case opcode < 0x28: // SLA
		c.writeReg8(index, c.sla(c.readReg8(index)))
	case opcode < 0x30: // SRA
		c.writeReg8(index, c.sra(c.readReg8(index)))
	case opcode < 0x38: // SWAP
		c.writeReg8(index, c.swap(c.readReg8(index)))
	case opcode < 0x40: // SRL
		c.writeReg8(index, c.srl(c.readReg8(index)))
	case opcode < 0x80: // BIT b,r
		bit := (opcode >> 3) & 7
		c.setFlagZ(c.readReg8(index)&(1<<bit) == 0)
		c.setFlagN(false)
		c.setFlagH(true)
	case opcode < 0xC0: // RES b,r
		bit := (opcode >> 3) & 7
		c.writeReg8(index, c.readReg8(index)&^(1<<bit))
	default: // SET b,r
		bit := (opcode >> 3) & 7
		c.writeReg8(index, c.readReg8(index)|1<<bit)
	}

	return cycles
}

// rlc rotates left; bit 7 moves to both bit 0 and the carry flag.
func (c *CPU) rlc(value uint8) uint8 {
	carry := value >> 7
	result := value<<1 | carry
	c.setFlags(false, false, false, carry != 0)
	return result
}

// rrc rotates right; bit 0 moves to both bit 7 and the carry flag.
func (c *CPU) rrc(value uint8) uint8 {
	carry := value & 1
	result := value>>1 | carry<<7
	c.setFlags(false, false, false, carry != 0)
	return result
}

// rl rotates left through the carry flag.
func (c *CPU) rl(value uint8) uint8 {
	var carryIn uint8
	if c.flagSet(flagC) {
		carryIn = 1
	}
	c.setFlags(false, false, false, value&0x80 != 0)
	return value<<1 | carryIn
}

// rr rotates right through the carry flag.
func (c *CPU) rr(value uint8) uint8 {
	var carryIn uint8
	if c.flagSet(flagC) {
		carryIn = 0x80
	}
	c.setFlags(false, false, false, value&1 != 0)
	return value>>1 | carryIn
}

// The CB-prefixed rotate forms additionally set Z from the result, unlike
// the one-byte accumulator rotates.

func (c *CPU) rlcZ(value uint8) uint8 {
	result := c.rlc(value)
	c.setFlagZ(result == 0)
	return result
}

func (c *CPU) rrcZ(value uint8) uint8 {
	result := c.rrc(value)
	c.setFlagZ(result == 0)
	return result
}

func (c *CPU) rlZ(value uint8) uint8 {
	result := c.rl(value)
	c.setFlagZ(result == 0)
	return result
}

func (c *CPU) rrZ(value uint8) uint8 {
	result := c.rr(value)
	c.setFlagZ(result == 0)
	return result
}

// sla shifts left into the carry flag; bit 0 becomes zero.
func (c *CPU) sla(value uint8) uint8 {
	result := value << 1
	c.setFlags(result == 0, false, false, value&0x80 != 0)
	return result
}

// sra shifts right into the carry flag, preserving the sign bit.
func (c *CPU) sra(value uint8) uint8 {
	result := value>>1 | value&0x80
	c.setFlags(result == 0, false, false, value&1 != 0)
	return result
}

// swap exchanges the two nibbles.
func (c *CPU) swap(value uint8) uint8 {
	result := value<<4 | value>>4
	c.setFlags(result == 0, false, false, false)
	return result
}

// srl shifts right into the carry flag; bit 7 becomes zero.
func (c *CPU) srl(value uint8) uint8 {
	result := value >> 1
	c.setFlags(result == 0, false, false, value&1 != 0)
	return result
}
