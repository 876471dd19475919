// Package cpu implements the SM83 CPU emulation for the Game Boy.
package cpu

import (
	"fmt"

	"gogb/internal/interrupt"
)

// Byte that introduces the secondary (bit/rotate/shift) opcode table.
const prefixByte = 0xCB

// Interrupt dispatch takes five machine cycles on hardware.
const interruptCycles = 20

// RunState models the CPU execution state. Halted and Stopped are entered
// by the HALT and STOP instructions and left when an interrupt is requested.
type RunState int

const (
	Running RunState = iota
	Halted
	Stopped
)

func (s RunState) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// MemoryInterface defines the interface for CPU memory access.
type MemoryInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// IllegalOpcodeError reports the decode of an undefined opcode. It is fatal:
// the scheduler stops and surfaces the failing address for diagnosis.
type IllegalOpcodeError struct {
	Opcode   uint8
	Addr     uint16
	Prefixed bool
}

func (e *IllegalOpcodeError) Error() string {
	if e.Prefixed {
		return fmt.Sprintf("illegal opcode 0xCB%02X at $%04X", e.Opcode, e.Addr)
	}
	return fmt.Sprintf("illegal opcode 0x%02X at $%04X", e.Opcode, e.Addr)
}

// CPU represents the SM83 processor core of the Game Boy.
type CPU struct {
	// Registers. B/C, D/E, H/L and A/F pair up to 16-bit registers.
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8
	SP   uint16
	PC   uint16

	state RunState

	// EI takes effect only after the instruction that follows it, so the
	// enable is latched here and applied at the end of the next Step.
	eiPending bool

	memory MemoryInterface
	intc   *interrupt.Controller

	cycles uint64
}

// New creates a CPU attached to the given memory and interrupt controller.
func New(memory MemoryInterface, intc *interrupt.Controller) *CPU {
	cpu := &CPU{memory: memory, intc: intc}
	cpu.Reset()
	return cpu
}

// Reset restores the documented DMG post-boot register state. The boot ROM
// is not emulated; execution starts at the cartridge entry point.
func (c *CPU) Reset() {
	c.A, c.F = 0x01, 0xB0
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.state = Running
	c.eiPending = false
	c.cycles = 0
}

// State returns the current run state.
func (c *CPU) State() RunState { return c.state }

// Resume returns a halted or stopped CPU to the running state. Called by
// the scheduler when an enabled interrupt request arrives.
func (c *CPU) Resume() { c.state = Running }

// Cycles returns the total number of cycles executed since reset.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Step executes a single instruction and returns the number of clock cycles
// it consumed. While halted or stopped the CPU burns four cycles per call
// without fetching. Decoding an undefined opcode returns an
// IllegalOpcodeError and leaves PC pointing at the failing instruction.
func (c *CPU) Step() (int, error) {
	if c.state != Running {
		c.cycles += 4
		return 4, nil
	}

	// The enable from a previous EI lands after this instruction.
	enableIME := c.eiPending
	c.eiPending = false

	opcodeAddr := c.PC
	opcode := c.fetch8()

	var cycles int
	var err error
	if opcode == prefixByte {
		cycles = c.executePrefixed(c.fetch8())
	} else {
		cycles, err = c.execute(opcode)
	}
	if err != nil {
		c.PC = opcodeAddr
		return 0, err
	}

	if enableIME {
		c.intc.SetIME(true)
	}
	c.cycles += uint64(cycles)
	return cycles, nil
}

// Service dispatches the given interrupt source: the request bit and the
// master enable are cleared, the current PC is pushed and execution
// continues at the source's vector. Returns the cycles consumed.
func (c *CPU) Service(source interrupt.Source) int {
	c.state = Running
	c.intc.Acknowledge(source)
	c.push16(c.PC)
	c.PC = source.Vector()
	c.cycles += interruptCycles
	return interruptCycles
}

// fetch8 reads the byte at PC and advances PC.
func (c *CPU) fetch8() uint8 {
	v := c.memory.Read(c.PC)
	c.PC++
	return v
}

// fetch16 reads a little-endian word at PC and advances PC by two.
func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return hi<<8 | lo
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.memory.Read(addr))
	hi := uint16(c.memory.Read(addr + 1))
	return hi<<8 | lo
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.memory.Write(addr, uint8(v))
	c.memory.Write(addr+1, uint8(v>>8))
}

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.write16(c.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}
