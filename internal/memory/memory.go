// Package memory implements the Game Boy memory bus: the 16-bit address
// space routed across ROM, RAM, video memory and the I/O register window.
package memory

import "gogb/internal/interrupt"

// Work RAM and high RAM sizes.
const (
	wramSize = 0x2000
	hramSize = 0x7F
)

// AddrDMA is the OAM DMA trigger register.
const AddrDMA = 0xFF46

// OAM DMA copies 160 bytes and occupies the bus for 160 machine cycles.
const dmaCycles = 640

// CartridgeInterface routes the two cartridge-owned windows. Writes into
// the ROM window are mapper-control signals, never RAM mutation.
type CartridgeInterface interface {
	ReadROM(address uint16) uint8
	WriteROM(address uint16, value uint8)
	ReadRAM(address uint16) uint8
	WriteRAM(address uint16, value uint8)
}

// PPUInterface covers the PPU's registers and its two exclusive memory
// ranges. The PPU enforces mode-based access restrictions itself.
type PPUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
	ReadVRAM(offset uint16) uint8
	WriteVRAM(offset uint16, value uint8)
	ReadOAM(offset uint16) uint8
	WriteOAM(offset uint16, value uint8)
	WriteOAMDMA(offset uint16, value uint8)
}

// APUInterface covers the audio register block.
type APUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// TimerInterface covers the DIV/TIMA/TMA/TAC registers.
type TimerInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// InputInterface covers the joypad register.
type InputInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// MMU owns work RAM and high RAM and routes every bus access to the
// component that owns the address.
type MMU struct {
	wram [wramSize]uint8
	hram [hramSize]uint8

	cartridge CartridgeInterface
	ppu       PPUInterface
	apu       APUInterface
	timer     TimerInterface
	joypad    InputInterface
	intc      *interrupt.Controller
	serial    *Serial

	// OAM DMA state: the copy itself is immediate (a documented
	// approximation), the bus-busy window is still tracked.
	dmaSource    uint8
	dmaRemaining int
}

// New creates an MMU wired to the given components.
func New(ppu PPUInterface, apu APUInterface, timer TimerInterface, joypad InputInterface, serial *Serial, intc *interrupt.Controller) *MMU {
	return &MMU{
		ppu:    ppu,
		apu:    apu,
		timer:  timer,
		joypad: joypad,
		serial: serial,
		intc:   intc,
	}
}

// SetCartridge attaches the cartridge. Without one the ROM and external
// RAM windows read as $FF.
func (m *MMU) SetCartridge(cart CartridgeInterface) {
	m.cartridge = cart
}

// Reset clears the MMU-owned RAM and DMA state.
func (m *MMU) Reset() {
	m.wram = [wramSize]uint8{}
	m.hram = [hramSize]uint8{}
	m.dmaSource = 0
	m.dmaRemaining = 0
}

// Read reads a byte from the 16-bit address space.
func (m *MMU) Read(address uint16) uint8 {
	switch {
	case address < 0x8000:
		// ROM banks 0 and N
		if m.cartridge == nil {
			return 0xFF
		}
		return m.cartridge.ReadROM(address)

	case address < 0xA000:
		// Video RAM
		return m.ppu.ReadVRAM(address - 0x8000)

	case address < 0xC000:
		// External cartridge RAM
		if m.cartridge == nil {
			return 0xFF
		}
		return m.cartridge.ReadRAM(address)

	case address < 0xE000:
		// Work RAM
		return m.wram[address-0xC000]

	case address < 0xFE00:
		// Echo RAM mirrors work RAM
		return m.wram[address-0xE000]

	case address < 0xFEA0:
		// Sprite attribute table
		return m.ppu.ReadOAM(address - 0xFE00)

	case address < 0xFF00:
		// Unusable region
		return 0xFF

	case address < 0xFF80:
		return m.readIO(address)

	case address < 0xFFFF:
		// High RAM
		return m.hram[address-0xFF80]

	default:
		return m.intc.ReadIE()
	}
}

// Write writes a byte into the 16-bit address space. Writes to read-only
// ranges are dropped or reinterpreted as mapper control; never an error.
func (m *MMU) Write(address uint16, value uint8) {
	switch {
	case address < 0x8000:
		if m.cartridge != nil {
			m.cartridge.WriteROM(address, value)
		}

	case address < 0xA000:
		m.ppu.WriteVRAM(address-0x8000, value)

	case address < 0xC000:
		if m.cartridge != nil {
			m.cartridge.WriteRAM(address, value)
		}

	case address < 0xE000:
		m.wram[address-0xC000] = value

	case address < 0xFE00:
		m.wram[address-0xE000] = value

	case address < 0xFEA0:
		m.ppu.WriteOAM(address-0xFE00, value)

	case address < 0xFF00:
		// Unusable region; dropped.

	case address < 0xFF80:
		m.writeIO(address, value)

	case address < 0xFFFF:
		m.hram[address-0xFF80] = value

	default:
		m.intc.WriteIE(value)
	}
}

// readIO dispatches the $FF00-$FF7F register window. Unmapped and
// write-only registers read as $FF.
func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address == 0xFF00:
		return m.joypad.Read(address)
	case address == AddrSB || address == AddrSC:
		return m.serial.ReadRegister(address)
	case address >= 0xFF04 && address <= 0xFF07:
		return m.timer.ReadRegister(address)
	case address == 0xFF0F:
		return m.intc.ReadIF()
	case address >= 0xFF10 && address <= 0xFF3F:
		return m.apu.ReadRegister(address)
	case address == AddrDMA:
		return m.dmaSource
	case address >= 0xFF40 && address <= 0xFF4B:
		return m.ppu.ReadRegister(address)
	default:
		return 0xFF
	}
}

// writeIO dispatches the $FF00-$FF7F register window.
func (m *MMU) writeIO(address uint16, value uint8) {
	switch {
	case address == 0xFF00:
		m.joypad.Write(address, value)
	case address == AddrSB || address == AddrSC:
		m.serial.WriteRegister(address, value)
	case address >= 0xFF04 && address <= 0xFF07:
		m.timer.WriteRegister(address, value)
	case address == 0xFF0F:
		m.intc.WriteIF(value)
	case address >= 0xFF10 && address <= 0xFF3F:
		m.apu.WriteRegister(address, value)
	case address == AddrDMA:
		m.startOAMDMA(value)
	case address >= 0xFF40 && address <= 0xFF4B:
		m.ppu.WriteRegister(address, value)
	}
}

// startOAMDMA copies 160 bytes from value<<8 into OAM. The copy happens at
// once; the hardware's bus-busy window is tracked so hosts and tests can
// observe it.
func (m *MMU) startOAMDMA(value uint8) {
	m.dmaSource = value
	base := uint16(value) << 8
	for i := uint16(0); i < 0xA0; i++ {
		m.ppu.WriteOAMDMA(i, m.Read(base+i))
	}
	m.dmaRemaining = dmaCycles
}

// Advance ages the DMA busy window by the given cycles.
func (m *MMU) Advance(cycles int) {
	if m.dmaRemaining > 0 {
		m.dmaRemaining -= cycles
		if m.dmaRemaining < 0 {
			m.dmaRemaining = 0
		}
	}
}

// DMAActive reports whether an OAM DMA transfer is still occupying the bus.
func (m *MMU) DMAActive() bool { return m.dmaRemaining > 0 }
