// Package debug provides the diagnostic helpers used when emulation stops
// on a fatal condition: CPU state snapshots, an instruction trace ring and
// a framebuffer dumper.
package debug

import (
	"fmt"
	"strings"
)

// CPUState is a snapshot of the register file for reporting. Instruction
// holds the disassembly at PC.
type CPUState struct {
	A, F        uint8
	B, C        uint8
	D, E        uint8
	H, L        uint8
	SP, PC      uint16
	RunState    string
	IME         bool
	Cycles      uint64
	Instruction string
}

func (s CPUState) String() string {
	return fmt.Sprintf(
		"PC=$%04X SP=$%04X AF=$%02X%02X BC=$%02X%02X DE=$%02X%02X HL=$%02X%02X ime=%v state=%s cycles=%d\n  at PC: %s",
		s.PC, s.SP, s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L,
		s.IME, s.RunState, s.Cycles, s.Instruction)
}

// Default number of instructions kept by a Tracer.
const defaultTraceDepth = 32

// Tracer keeps a ring of the most recently executed instructions so a
// fatal error report can show how execution got there.
type Tracer struct {
	entries []string
	next    int
	full    bool
}

// NewTracer creates a tracer holding the given number of instructions
// (the default depth when n <= 0).
func NewTracer(n int) *Tracer {
	if n <= 0 {
		n = defaultTraceDepth
	}
	return &Tracer{entries: make([]string, n)}
}

// Record appends one executed instruction.
func (t *Tracer) Record(pc uint16, disassembly string) {
	t.entries[t.next] = fmt.Sprintf("$%04X  %s", pc, disassembly)
	t.next++
	if t.next == len(t.entries) {
		t.next = 0
		t.full = true
	}
}

// Dump returns the recorded instructions, oldest first.
func (t *Tracer) Dump() string {
	var b strings.Builder
	start := 0
	count := t.next
	if t.full {
		start = t.next
		count = len(t.entries)
	}
	for i := 0; i < count; i++ {
		b.WriteString("  ")
		b.WriteString(t.entries[(start+i)%len(t.entries)])
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Reset discards all recorded instructions.
func (t *Tracer) Reset() {
	t.next = 0
	t.full = false
}
