// Package apu implements the Game Boy audio register block. Sound
// synthesis is out of scope for the core; the registers still need
// hardware-accurate storage and read-back masks because software reads
// them to sequence its own sound driver.
package apu

// The audio register window and wave RAM.
const (
	regStart  = 0xFF10
	regEnd    = 0xFF26
	waveStart = 0xFF30
	waveEnd   = 0xFF3F
)

// AddrNR52 is the sound on/off register.
const AddrNR52 = 0xFF26

// readMasks is indexed by address-regStart. Unimplemented bits read as 1,
// matching the hardware OR masks.
var readMasks = [regEnd - regStart + 1]uint8{
	0x80, 0x3F, 0x00, 0xFF, 0xBF, // NR10-NR14
	0xFF, 0x3F, 0x00, 0xFF, 0xBF, // unused, NR21-NR24
	0x7F, 0xFF, 0x9F, 0xFF, 0xBF, // NR30-NR34
	0xFF, 0xFF, 0x00, 0x00, 0xBF, // unused, NR41-NR44
	0x00, 0x00, 0x70, // NR50-NR52
}

// powerOnValues holds the documented post-boot register contents.
var powerOnValues = map[uint16]uint8{
	0xFF10: 0x80, 0xFF11: 0xBF, 0xFF12: 0xF3, 0xFF14: 0xBF,
	0xFF16: 0x3F, 0xFF17: 0x00, 0xFF19: 0xBF,
	0xFF1A: 0x7F, 0xFF1B: 0xFF, 0xFF1C: 0x9F, 0xFF1E: 0xBF,
	0xFF20: 0xFF, 0xFF21: 0x00, 0xFF22: 0x00, 0xFF23: 0xBF,
	0xFF24: 0x77, 0xFF25: 0xF3, 0xFF26: 0xF1,
}

// APU stores the audio register file and wave RAM.
type APU struct {
	registers [regEnd - regStart + 1]uint8
	waveRAM   [waveEnd - waveStart + 1]uint8
	powered   bool
}

// New creates the register block in the documented power-on state.
func New() *APU {
	a := &APU{}
	a.Reset()
	return a
}

// Reset restores the post-boot register contents.
func (a *APU) Reset() {
	a.registers = [regEnd - regStart + 1]uint8{}
	a.waveRAM = [waveEnd - waveStart + 1]uint8{}
	for addr, value := range powerOnValues {
		a.registers[addr-regStart] = value
	}
	a.powered = true
}

// ReadRegister reads an address in $FF10-$FF3F with the hardware OR mask
// applied. Holes in the window read as $FF.
func (a *APU) ReadRegister(address uint16) uint8 {
	switch {
	case address >= regStart && address <= regEnd:
		i := address - regStart
		return a.registers[i] | readMasks[i]
	case address >= waveStart && address <= waveEnd:
		return a.waveRAM[address-waveStart]
	default:
		return 0xFF
	}
}

// WriteRegister writes an address in $FF10-$FF3F. With the APU powered off
// (NR52 bit 7 clear) only NR52 and wave RAM accept writes.
func (a *APU) WriteRegister(address uint16, value uint8) {
	switch {
	case address == AddrNR52:
		wasPowered := a.powered
		a.powered = value&0x80 != 0
		a.registers[address-regStart] = value & 0x80
		if wasPowered && !a.powered {
			// Powering off clears every audio register.
			for i := range a.registers[:AddrNR52-regStart] {
				a.registers[i] = 0
			}
		}
	case address >= regStart && address <= regEnd:
		if a.powered {
			a.registers[address-regStart] = value
		}
	case address >= waveStart && address <= waveEnd:
		a.waveRAM[address-waveStart] = value
	}
}
