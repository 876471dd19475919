// Package cartridge implements ROM loading, header parsing and the
// bank-switching mappers (MBCs) for Game Boy cartridges.
package cartridge

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Header field offsets within the ROM image.
const (
	offsetTitle     = 0x0134
	offsetTitleEnd  = 0x0144
	offsetCartType  = 0x0147
	offsetROMSize   = 0x0148
	offsetRAMSize   = 0x0149
	offsetHeaderEnd = 0x0150
)

const (
	romBankSize = 0x4000 // 16KB
	ramBankSize = 0x2000 // 8KB
)

// UnsupportedMapperError reports a cartridge type byte this implementation
// does not handle. It is fatal at load time, before any emulation runs.
type UnsupportedMapperError struct {
	Type uint8
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported cartridge type $%02X", e.Type)
}

// Mapper routes the two cartridge-owned address windows: the ROM banks at
// $0000-$7FFF (where writes are bank-control signals, never RAM mutation)
// and the external RAM at $A000-$BFFF.
type Mapper interface {
	ReadROM(address uint16) uint8
	WriteROM(address uint16, value uint8)
	ReadRAM(address uint16) uint8
	WriteRAM(address uint16, value uint8)
}

// Cartridge represents a loaded ROM image plus its mapper state.
type Cartridge struct {
	rom []uint8
	ram []uint8

	title    string
	cartType uint8
	mapper   Mapper

	hasBattery bool
}

// LoadFromFile loads a cartridge from a ROM image on disk.
func LoadFromFile(filename string) (*Cartridge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader loads a cartridge from an io.Reader.
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	rom, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Load(rom)
}

// Load parses the header of a ROM image and constructs the matching mapper.
func Load(rom []uint8) (*Cartridge, error) {
	if len(rom) < offsetHeaderEnd {
		return nil, errors.New("invalid ROM: image smaller than the cartridge header")
	}
	if len(rom)%romBankSize != 0 {
		return nil, fmt.Errorf("invalid ROM: size %d is not a multiple of the 16KB bank size", len(rom))
	}

	cart := &Cartridge{
		rom:      rom,
		cartType: rom[offsetCartType],
		title:    parseTitle(rom),
	}

	declared := romSizeBytes(rom[offsetROMSize])
	if declared != 0 && declared != len(rom) {
		return nil, fmt.Errorf("invalid ROM: header declares %d bytes, image has %d", declared, len(rom))
	}

	cart.ram = make([]uint8, ramSizeBytes(rom[offsetRAMSize]))

	switch cart.cartType {
	case 0x00: // ROM only
		cart.mapper = newMBC0(cart)
	case 0x08, 0x09: // ROM + RAM (+ battery)
		cart.hasBattery = cart.cartType == 0x09
		cart.mapper = newMBC0(cart)
	case 0x01, 0x02, 0x03: // MBC1 (+ RAM, + battery)
		cart.hasBattery = cart.cartType == 0x03
		cart.mapper = newMBC1(cart)
	default:
		return nil, &UnsupportedMapperError{Type: cart.cartType}
	}

	return cart, nil
}

// parseTitle extracts the ASCII title field, stopping at the first NUL.
func parseTitle(rom []uint8) string {
	title := rom[offsetTitle:offsetTitleEnd]
	for i, b := range title {
		if b == 0 {
			return string(title[:i])
		}
	}
	return string(title)
}

// romSizeBytes decodes the header's ROM-size code. Unknown codes return 0
// and size validation is skipped.
func romSizeBytes(code uint8) int {
	if code > 0x08 {
		return 0
	}
	return 0x8000 << code
}

// ramSizeBytes decodes the header's RAM-size code.
func ramSizeBytes(code uint8) int {
	switch code {
	case 0x02:
		return ramBankSize
	case 0x03:
		return 4 * ramBankSize
	case 0x04:
		return 16 * ramBankSize
	case 0x05:
		return 8 * ramBankSize
	default:
		return 0
	}
}

// Title returns the header title string.
func (c *Cartridge) Title() string { return c.title }

// Type returns the cartridge type byte.
func (c *Cartridge) Type() uint8 { return c.cartType }

// HasBattery reports whether the external RAM is battery-backed and worth
// persisting between sessions.
func (c *Cartridge) HasBattery() bool { return c.hasBattery }

// RAM exposes the external RAM so a host can persist or restore save data.
// The core itself performs no file I/O.
func (c *Cartridge) RAM() []uint8 { return c.ram }

// ReadROM reads the $0000-$7FFF window through the mapper.
func (c *Cartridge) ReadROM(address uint16) uint8 {
	return c.mapper.ReadROM(address)
}

// WriteROM forwards a write in the ROM window to the mapper, which
// interprets it as a bank-control signal.
func (c *Cartridge) WriteROM(address uint16, value uint8) {
	c.mapper.WriteROM(address, value)
}

// ReadRAM reads the $A000-$BFFF window through the mapper.
func (c *Cartridge) ReadRAM(address uint16) uint8 {
	return c.mapper.ReadRAM(address)
}

// WriteRAM writes the $A000-$BFFF window through the mapper.
func (c *Cartridge) WriteRAM(address uint16, value uint8) {
	c.mapper.WriteRAM(address, value)
}
