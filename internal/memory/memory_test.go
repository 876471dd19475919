package memory

import (
	"testing"

	"gogb/internal/interrupt"
)

type stubPPU struct {
	vram      [0x2000]uint8
	oam       [0xA0]uint8
	regs      map[uint16]uint8
	dmaWrites int
}

func (p *stubPPU) ReadRegister(address uint16) uint8         { return p.regs[address] }
func (p *stubPPU) WriteRegister(address uint16, value uint8) { p.regs[address] = value }
func (p *stubPPU) ReadVRAM(offset uint16) uint8              { return p.vram[offset] }
func (p *stubPPU) WriteVRAM(offset uint16, value uint8)      { p.vram[offset] = value }
func (p *stubPPU) ReadOAM(offset uint16) uint8               { return p.oam[offset] }
func (p *stubPPU) WriteOAM(offset uint16, value uint8)       { p.oam[offset] = value }

func (p *stubPPU) WriteOAMDMA(offset uint16, value uint8) {
	p.oam[offset] = value
	p.dmaWrites++
}

type stubAPU struct{ regs map[uint16]uint8 }

func (a *stubAPU) ReadRegister(address uint16) uint8         { return a.regs[address] }
func (a *stubAPU) WriteRegister(address uint16, value uint8) { a.regs[address] = value }

type stubTimer struct{ regs map[uint16]uint8 }

func (t *stubTimer) ReadRegister(address uint16) uint8         { return t.regs[address] }
func (t *stubTimer) WriteRegister(address uint16, value uint8) { t.regs[address] = value }

type stubJoypad struct {
	value     uint8
	lastWrite uint8
}

func (j *stubJoypad) Read(address uint16) uint8         { return j.value }
func (j *stubJoypad) Write(address uint16, value uint8) { j.lastWrite = value }

type stubCartridge struct {
	rom       map[uint16]uint8
	ram       map[uint16]uint8
	romWrites map[uint16]uint8
}

func newStubCartridge() *stubCartridge {
	return &stubCartridge{
		rom:       make(map[uint16]uint8),
		ram:       make(map[uint16]uint8),
		romWrites: make(map[uint16]uint8),
	}
}

func (c *stubCartridge) ReadROM(address uint16) uint8         { return c.rom[address] }
func (c *stubCartridge) WriteROM(address uint16, value uint8) { c.romWrites[address] = value }
func (c *stubCartridge) ReadRAM(address uint16) uint8         { return c.ram[address] }
func (c *stubCartridge) WriteRAM(address uint16, value uint8) { c.ram[address] = value }

type testBus struct {
	mmu    *MMU
	ppu    *stubPPU
	apu    *stubAPU
	timer  *stubTimer
	joypad *stubJoypad
	intc   *interrupt.Controller
}

func newTestBus() *testBus {
	b := &testBus{
		ppu:    &stubPPU{regs: make(map[uint16]uint8)},
		apu:    &stubAPU{regs: make(map[uint16]uint8)},
		timer:  &stubTimer{regs: make(map[uint16]uint8)},
		joypad: &stubJoypad{},
		intc:   interrupt.New(),
	}
	serial := NewSerial(b.intc.Request)
	b.mmu = New(b.ppu, b.apu, b.timer, b.joypad, serial, b.intc)
	return b
}

func TestWorkRAMAndEcho(t *testing.T) {
	b := newTestBus()

	b.mmu.Write(0xC000, 0x11)
	b.mmu.Write(0xDFFF, 0x22)

	if got := b.mmu.Read(0xC000); got != 0x11 {
		t.Errorf("expected $11, got $%02X", got)
	}
	if got := b.mmu.Read(0xDFFF); got != 0x22 {
		t.Errorf("expected $22, got $%02X", got)
	}
	// Echo RAM mirrors $C000.
	if got := b.mmu.Read(0xE000); got != 0x11 {
		t.Errorf("echo read: expected $11, got $%02X", got)
	}
	b.mmu.Write(0xE123, 0x33)
	if got := b.mmu.Read(0xC123); got != 0x33 {
		t.Errorf("echo write: expected $33, got $%02X", got)
	}
}

func TestHighRAMAndIE(t *testing.T) {
	b := newTestBus()

	b.mmu.Write(0xFF80, 0xAA)
	b.mmu.Write(0xFFFE, 0xBB)
	b.mmu.Write(0xFFFF, 0x1F)

	if got := b.mmu.Read(0xFF80); got != 0xAA {
		t.Errorf("expected $AA, got $%02X", got)
	}
	if got := b.mmu.Read(0xFFFE); got != 0xBB {
		t.Errorf("expected $BB, got $%02X", got)
	}
	if got := b.mmu.Read(0xFFFF); got != 0x1F {
		t.Errorf("IE must route to the interrupt controller, got $%02X", got)
	}
	if b.intc.ReadIE() != 0x1F {
		t.Error("IE write did not reach the controller")
	}
}

func TestUnusableRegion(t *testing.T) {
	b := newTestBus()

	b.mmu.Write(0xFEA0, 0x12)
	b.mmu.Write(0xFEFF, 0x34)

	for _, address := range []uint16{0xFEA0, 0xFED0, 0xFEFF} {
		if got := b.mmu.Read(address); got != 0xFF {
			t.Errorf("$%04X: expected $FF, got $%02X", address, got)
		}
	}
}

func TestNoCartridgeReadsHigh(t *testing.T) {
	b := newTestBus()

	b.mmu.Write(0x0000, 0x12)
	b.mmu.Write(0xA000, 0x34)

	if got := b.mmu.Read(0x1234); got != 0xFF {
		t.Errorf("ROM window without cartridge: expected $FF, got $%02X", got)
	}
	if got := b.mmu.Read(0xA000); got != 0xFF {
		t.Errorf("RAM window without cartridge: expected $FF, got $%02X", got)
	}
}

func TestCartridgeRouting(t *testing.T) {
	b := newTestBus()
	cart := newStubCartridge()
	cart.rom[0x0150] = 0x42
	b.mmu.SetCartridge(cart)

	if got := b.mmu.Read(0x0150); got != 0x42 {
		t.Errorf("expected $42, got $%02X", got)
	}

	// A write into the ROM window is a mapper-control signal.
	b.mmu.Write(0x2000, 0x05)
	if cart.romWrites[0x2000] != 0x05 {
		t.Error("ROM window write did not reach the mapper")
	}

	b.mmu.Write(0xA010, 0x99)
	if got := b.mmu.Read(0xA010); got != 0x99 {
		t.Errorf("external RAM: expected $99, got $%02X", got)
	}
}

func TestVRAMAndOAMRouting(t *testing.T) {
	b := newTestBus()

	b.mmu.Write(0x8000, 0x11)
	b.mmu.Write(0x9FFF, 0x22)
	b.mmu.Write(0xFE00, 0x33)
	b.mmu.Write(0xFE9F, 0x44)

	if b.ppu.vram[0x0000] != 0x11 || b.ppu.vram[0x1FFF] != 0x22 {
		t.Error("VRAM writes did not reach the PPU")
	}
	if b.ppu.oam[0x00] != 0x33 || b.ppu.oam[0x9F] != 0x44 {
		t.Error("OAM writes did not reach the PPU")
	}
	if got := b.mmu.Read(0x8000); got != 0x11 {
		t.Errorf("VRAM read: expected $11, got $%02X", got)
	}
	if got := b.mmu.Read(0xFE9F); got != 0x44 {
		t.Errorf("OAM read: expected $44, got $%02X", got)
	}
}

func TestIORegisterDispatch(t *testing.T) {
	b := newTestBus()

	b.joypad.value = 0xCF
	if got := b.mmu.Read(0xFF00); got != 0xCF {
		t.Errorf("joypad read: expected $CF, got $%02X", got)
	}
	b.mmu.Write(0xFF00, 0x20)
	if b.joypad.lastWrite != 0x20 {
		t.Error("joypad write did not route")
	}

	b.mmu.Write(0xFF05, 0x42)
	if b.timer.regs[0xFF05] != 0x42 {
		t.Error("TIMA write did not reach the timer")
	}
	b.timer.regs[0xFF04] = 0x99
	if got := b.mmu.Read(0xFF04); got != 0x99 {
		t.Errorf("DIV read: expected $99, got $%02X", got)
	}

	b.mmu.Write(0xFF0F, 0x05)
	if got := b.mmu.Read(0xFF0F); got != 0xE5 {
		t.Errorf("IF read: expected $E5, got $%02X", got)
	}

	b.mmu.Write(0xFF26, 0x80)
	if b.apu.regs[0xFF26] != 0x80 {
		t.Error("NR52 write did not reach the APU")
	}

	b.mmu.Write(0xFF40, 0x91)
	if b.ppu.regs[0xFF40] != 0x91 {
		t.Error("LCDC write did not reach the PPU")
	}
	b.ppu.regs[0xFF44] = 0x90
	if got := b.mmu.Read(0xFF44); got != 0x90 {
		t.Errorf("LY read: expected $90, got $%02X", got)
	}
}

func TestUnmappedIOReadsHigh(t *testing.T) {
	b := newTestBus()

	for _, address := range []uint16{0xFF03, 0xFF08, 0xFF4D, 0xFF7F} {
		if got := b.mmu.Read(address); got != 0xFF {
			t.Errorf("$%04X: expected $FF, got $%02X", address, got)
		}
	}
}

func TestOAMDMA(t *testing.T) {
	b := newTestBus()
	for i := 0; i < 0xA0; i++ {
		b.mmu.Write(uint16(0xC000+i), uint8(i)^0x5A)
	}

	b.mmu.Write(AddrDMA, 0xC0)

	for i := 0; i < 0xA0; i++ {
		if got := b.ppu.oam[i]; got != uint8(i)^0x5A {
			t.Fatalf("OAM byte %d: expected $%02X, got $%02X", i, uint8(i)^0x5A, got)
		}
	}
	if b.ppu.dmaWrites != 0xA0 {
		t.Errorf("expected 160 DMA writes, got %d", b.ppu.dmaWrites)
	}
	if got := b.mmu.Read(AddrDMA); got != 0xC0 {
		t.Errorf("DMA register must read back the source page, got $%02X", got)
	}

	// The bus stays busy for 640 cycles.
	if !b.mmu.DMAActive() {
		t.Fatal("expected DMA busy window")
	}
	b.mmu.Advance(639)
	if !b.mmu.DMAActive() {
		t.Error("busy window ended early")
	}
	b.mmu.Advance(1)
	if b.mmu.DMAActive() {
		t.Error("busy window must end after 640 cycles")
	}
}

func TestReset(t *testing.T) {
	b := newTestBus()
	b.mmu.Write(0xC000, 0x11)
	b.mmu.Write(0xFF80, 0x22)
	b.mmu.Write(AddrDMA, 0xC0)

	b.mmu.Reset()

	if b.mmu.Read(0xC000) != 0 || b.mmu.Read(0xFF80) != 0 {
		t.Error("reset must clear work RAM and high RAM")
	}
	if b.mmu.DMAActive() {
		t.Error("reset must cancel the DMA busy window")
	}
}
