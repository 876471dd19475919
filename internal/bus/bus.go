// Package bus implements the system scheduler that drives all Game Boy
// components in lockstep: one CPU step at a time, with the timer, PPU and
// serial port advanced by exactly the cycles that step consumed.
package bus

import (
	"fmt"

	"gogb/internal/apu"
	"gogb/internal/cartridge"
	"gogb/internal/cpu"
	"gogb/internal/debug"
	"gogb/internal/input"
	"gogb/internal/interrupt"
	"gogb/internal/memory"
	"gogb/internal/ppu"
	"gogb/internal/timer"
)

// CyclesPerFrame is the exact cycle count of one video frame.
const CyclesPerFrame = ppu.DotsPerFrame

// System owns every component of the emulated machine. All state lives
// here, never in globals, so multiple instances can coexist.
type System struct {
	CPU        *cpu.CPU
	PPU        *ppu.PPU
	APU        *apu.APU
	Timer      *timer.Timer
	MMU        *memory.MMU
	Joypad     *input.Joypad
	Serial     *memory.Serial
	Interrupts *interrupt.Controller

	cartridge *cartridge.Cartridge

	totalCycles uint64
	frameCount  uint64

	tracer *debug.Tracer
}

// New creates a fully wired system in the power-on state, without a
// cartridge attached.
func New() *System {
	s := &System{}

	s.Interrupts = interrupt.New()
	request := s.Interrupts.Request

	s.PPU = ppu.New(request)
	s.APU = apu.New()
	s.Timer = timer.New(request)
	s.Joypad = input.New(request)
	s.Serial = memory.NewSerial(request)
	s.MMU = memory.New(s.PPU, s.APU, s.Timer, s.Joypad, s.Serial, s.Interrupts)
	s.CPU = cpu.New(s.MMU, s.Interrupts)

	return s
}

// LoadCartridge attaches a cartridge and resets the system to power-on
// state.
func (s *System) LoadCartridge(cart *cartridge.Cartridge) {
	s.cartridge = cart
	s.MMU.SetCartridge(cart)
	s.Reset()
}

// Cartridge returns the attached cartridge, or nil.
func (s *System) Cartridge() *cartridge.Cartridge { return s.cartridge }

// Reset re-initializes every component to its power-on state.
func (s *System) Reset() {
	s.Interrupts.Reset()
	s.CPU.Reset()
	s.PPU.Reset()
	s.APU.Reset()
	s.Timer.Reset()
	s.Joypad.Reset()
	s.Serial.Reset()
	s.MMU.Reset()
	s.totalCycles = 0
	s.frameCount = 0
}

// SetTracer attaches an instruction tracer used for diagnosis. Pass nil to
// disable tracing.
func (s *System) SetTracer(t *debug.Tracer) { s.tracer = t }

// TotalCycles returns the cycles elapsed since power-on or reset.
func (s *System) TotalCycles() uint64 { return s.totalCycles }

// FrameCount returns the number of frames completed since power-on.
func (s *System) FrameCount() uint64 { return s.frameCount }

// FrameBuffer returns the last completed frame.
func (s *System) FrameBuffer() [ppu.ScreenWidth * ppu.ScreenHeight]uint8 {
	return s.PPU.FrameBuffer()
}

// Step performs one scheduler tick: dispatch a pending interrupt or execute
// one CPU instruction, then advance every clocked component by the cycles
// consumed. Returns the cycles of this tick.
func (s *System) Step() (int, error) {
	var cycles int

	if source, ok := s.Interrupts.Pending(); ok {
		cycles = s.CPU.Service(source)
	} else {
		// A halted or stopped CPU wakes on an enabled request even when
		// the master flag keeps the interrupt from being dispatched.
		if state := s.CPU.State(); state != cpu.Running && s.Interrupts.AnyRequested() {
			s.CPU.Resume()
		}
		if s.tracer != nil && s.CPU.State() == cpu.Running {
			s.tracer.Record(s.CPU.PC, cpu.Disassemble(s.MMU.Read, s.CPU.PC))
		}
		var err error
		cycles, err = s.CPU.Step()
		if err != nil {
			return 0, s.fatal(err)
		}
	}

	s.Timer.Advance(cycles)
	s.PPU.Advance(cycles)
	s.Serial.Advance(cycles)
	s.MMU.Advance(cycles)
	s.totalCycles += uint64(cycles)

	if s.PPU.FrameComplete() {
		s.frameCount++
	}
	return cycles, nil
}

// RunCycles drives the system until at least totalCycles have elapsed or a
// fatal condition stops emulation. A tick is atomic: the final tick may
// overshoot the target by the length of one instruction. Returns the
// cycles actually consumed.
func (s *System) RunCycles(totalCycles uint64) (uint64, error) {
	var consumed uint64
	for consumed < totalCycles {
		cycles, err := s.Step()
		if err != nil {
			return consumed, err
		}
		consumed += uint64(cycles)
	}
	return consumed, nil
}

// RunFrame drives the system until the PPU completes the current frame.
// Returns the cycles consumed.
func (s *System) RunFrame() (uint64, error) {
	target := s.frameCount + 1
	var consumed uint64
	for s.frameCount < target {
		cycles, err := s.Step()
		if err != nil {
			return consumed, err
		}
		consumed += uint64(cycles)
	}
	return consumed, nil
}

// FatalError wraps the condition that stopped emulation together with the
// machine state needed to diagnose it.
type FatalError struct {
	Err   error
	State debug.CPUState
	Trace string
}

func (e *FatalError) Error() string {
	msg := fmt.Sprintf("emulation stopped: %v\n%s", e.Err, e.State)
	if e.Trace != "" {
		msg += "\nrecent instructions:\n" + e.Trace
	}
	return msg
}

func (e *FatalError) Unwrap() error { return e.Err }

// fatal snapshots the CPU state around a fatal error.
func (s *System) fatal(err error) error {
	fe := &FatalError{Err: err, State: s.CPUState()}
	if s.tracer != nil {
		fe.Trace = s.tracer.Dump()
	}
	return fe
}

// CPUState captures the current register file for reporting.
func (s *System) CPUState() debug.CPUState {
	return debug.CPUState{
		A: s.CPU.A, F: s.CPU.F,
		B: s.CPU.B, C: s.CPU.C,
		D: s.CPU.D, E: s.CPU.E,
		H: s.CPU.H, L: s.CPU.L,
		SP: s.CPU.SP, PC: s.CPU.PC,
		RunState:    s.CPU.State().String(),
		IME:         s.Interrupts.IME(),
		Cycles:      s.CPU.Cycles(),
		Instruction: cpu.Disassemble(s.MMU.Read, s.CPU.PC),
	}
}
