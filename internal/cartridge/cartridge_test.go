package cartridge

import (
	"bytes"
	"errors"
	"testing"
)

// buildROM assembles a blank ROM image of the given bank count with a
// plausible header.
func buildROM(banks int, cartType, ramSize uint8, title string) []uint8 {
	rom := make([]uint8, banks*romBankSize)
	copy(rom[offsetTitle:offsetTitleEnd], title)
	rom[offsetCartType] = cartType
	rom[offsetRAMSize] = ramSize

	code := uint8(0)
	for 0x8000<<code < len(rom) {
		code++
	}
	rom[offsetROMSize] = code
	return rom
}

func TestLoadParsesHeader(t *testing.T) {
	cart, err := Load(buildROM(2, 0x00, 0x00, "TESTROM"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cart.Title() != "TESTROM" {
		t.Errorf("expected title TESTROM, got %q", cart.Title())
	}
	if cart.Type() != 0x00 {
		t.Errorf("expected type $00, got $%02X", cart.Type())
	}
	if cart.HasBattery() {
		t.Error("ROM-only cartridge has no battery")
	}
	if len(cart.RAM()) != 0 {
		t.Errorf("expected no RAM, got %d bytes", len(cart.RAM()))
	}
}

func TestLoadFromReader(t *testing.T) {
	rom := buildROM(2, 0x00, 0x00, "READER")
	cart, err := LoadFromReader(bytes.NewReader(rom))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cart.Title() != "READER" {
		t.Errorf("expected title READER, got %q", cart.Title())
	}
}

func TestLoadRejectsBadImages(t *testing.T) {
	if _, err := Load(make([]uint8, 0x100)); err == nil {
		t.Error("image smaller than the header must fail")
	}
	if _, err := Load(make([]uint8, romBankSize*2+1)); err == nil {
		t.Error("image not a multiple of the bank size must fail")
	}

	rom := buildROM(2, 0x00, 0x00, "BAD")
	rom[offsetROMSize] = 0x02 // header claims 128KB
	if _, err := Load(rom); err == nil {
		t.Error("header/image size mismatch must fail")
	}
}

func TestUnsupportedMapper(t *testing.T) {
	_, err := Load(buildROM(2, 0x1B, 0x00, "MBC5"))
	if err == nil {
		t.Fatal("expected an error for an unsupported mapper")
	}

	var mapperErr *UnsupportedMapperError
	if !errors.As(err, &mapperErr) {
		t.Fatalf("expected UnsupportedMapperError, got %T", err)
	}
	if mapperErr.Type != 0x1B {
		t.Errorf("expected type $1B, got $%02X", mapperErr.Type)
	}
}

func TestBatteryFlag(t *testing.T) {
	tests := []struct {
		cartType uint8
		battery  bool
	}{
		{0x00, false},
		{0x01, false},
		{0x03, true},
		{0x08, false},
		{0x09, true},
	}

	for _, tt := range tests {
		cart, err := Load(buildROM(2, tt.cartType, 0x02, "BATT"))
		if err != nil {
			t.Fatalf("type $%02X: load failed: %v", tt.cartType, err)
		}
		if cart.HasBattery() != tt.battery {
			t.Errorf("type $%02X: expected battery=%v", tt.cartType, tt.battery)
		}
	}
}

func TestTitleStopsAtNUL(t *testing.T) {
	rom := buildROM(2, 0x00, 0x00, "AB")
	rom[offsetTitle+2] = 0
	rom[offsetTitle+3] = 'X'

	cart, err := Load(rom)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cart.Title() != "AB" {
		t.Errorf("expected title AB, got %q", cart.Title())
	}
}

func TestMBC0(t *testing.T) {
	rom := buildROM(2, 0x08, 0x02, "FLAT")
	rom[0x0000] = 0x11
	rom[0x7FFF] = 0x22

	cart, err := Load(rom)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got := cart.ReadROM(0x0000); got != 0x11 {
		t.Errorf("expected $11, got $%02X", got)
	}
	if got := cart.ReadROM(0x7FFF); got != 0x22 {
		t.Errorf("expected $22, got $%02X", got)
	}

	// No banking hardware; the write is dropped.
	cart.WriteROM(0x2000, 0x05)
	if got := cart.ReadROM(0x0000); got != 0x11 {
		t.Errorf("ROM must be unaffected by writes, got $%02X", got)
	}

	cart.WriteRAM(0xA000, 0x99)
	if got := cart.ReadRAM(0xA000); got != 0x99 {
		t.Errorf("expected $99, got $%02X", got)
	}
}

func TestMBC1ROMBanking(t *testing.T) {
	rom := buildROM(8, 0x01, 0x00, "BANKS")
	for bank := 1; bank < 8; bank++ {
		rom[bank*romBankSize] = uint8(bank)
	}

	cart, err := Load(rom)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// Bank 1 is selected out of reset.
	if got := cart.ReadROM(0x4000); got != 1 {
		t.Errorf("expected bank 1, got %d", got)
	}

	cart.WriteROM(0x2000, 0x02)
	if got := cart.ReadROM(0x4000); got != 2 {
		t.Errorf("expected bank 2, got %d", got)
	}

	// Writing 0 selects bank 1.
	cart.WriteROM(0x2000, 0x00)
	if got := cart.ReadROM(0x4000); got != 1 {
		t.Errorf("bank 0 write must select bank 1, got %d", got)
	}

	// Banks beyond the image wrap.
	cart.WriteROM(0x2000, 0x1F)
	if got := cart.ReadROM(0x4000); got != 7 {
		t.Errorf("expected bank 31 to wrap to 7, got %d", got)
	}
}

func TestMBC1HighBankBits(t *testing.T) {
	rom := buildROM(128, 0x01, 0x00, "BIG")
	for bank := 1; bank < 128; bank++ {
		rom[bank*romBankSize] = uint8(bank)
	}

	cart, err := Load(rom)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	cart.WriteROM(0x2000, 0x01)
	cart.WriteROM(0x4000, 0x01)
	if got := cart.ReadROM(0x4000); got != 33 {
		t.Errorf("expected bank 33, got %d", got)
	}

	// Simple mode keeps bank 0 fixed; advanced mode applies the high bits
	// to the low window too.
	if got := cart.ReadROM(0x0000); got != 0 {
		t.Errorf("expected bank 0, got %d", got)
	}
	cart.WriteROM(0x6000, 0x01)
	if got := cart.ReadROM(0x0000); got != 32 {
		t.Errorf("advanced mode: expected bank 32, got %d", got)
	}
}

func TestMBC1RAMEnable(t *testing.T) {
	cart, err := Load(buildROM(2, 0x03, 0x03, "SAVE"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	cart.WriteRAM(0xA000, 0x42)
	if got := cart.ReadRAM(0xA000); got != 0xFF {
		t.Errorf("disabled RAM must read $FF, got $%02X", got)
	}

	cart.WriteROM(0x0000, 0x0A)
	cart.WriteRAM(0xA000, 0x42)
	if got := cart.ReadRAM(0xA000); got != 0x42 {
		t.Errorf("expected $42, got $%02X", got)
	}

	// Disabling hides but keeps the contents.
	cart.WriteROM(0x0000, 0x00)
	if got := cart.ReadRAM(0xA000); got != 0xFF {
		t.Errorf("disabled RAM must read $FF, got $%02X", got)
	}
	cart.WriteROM(0x0000, 0x0A)
	if got := cart.ReadRAM(0xA000); got != 0x42 {
		t.Errorf("contents must survive a disable, got $%02X", got)
	}
}

func TestMBC1RAMBanking(t *testing.T) {
	cart, err := Load(buildROM(2, 0x03, 0x03, "RAMBANK"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	cart.WriteROM(0x0000, 0x0A)
	cart.WriteROM(0x6000, 0x01) // advanced mode banks the RAM

	cart.WriteRAM(0xA000, 0x11)
	cart.WriteROM(0x4000, 0x01)
	cart.WriteRAM(0xA000, 0x22)

	if got := cart.ReadRAM(0xA000); got != 0x22 {
		t.Errorf("bank 1: expected $22, got $%02X", got)
	}
	cart.WriteROM(0x4000, 0x00)
	if got := cart.ReadRAM(0xA000); got != 0x11 {
		t.Errorf("bank 0: expected $11, got $%02X", got)
	}
}
