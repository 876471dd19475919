package cartridge

// mbc0 is the no-mapper cartridge: up to 32KB of ROM mapped flat, with an
// optional fixed RAM bank. Writes into the ROM window are dropped.
type mbc0 struct {
	cart *Cartridge
}

func newMBC0(cart *Cartridge) *mbc0 {
	return &mbc0{cart: cart}
}

func (m *mbc0) ReadROM(address uint16) uint8 {
	if int(address) >= len(m.cart.rom) {
		return 0xFF
	}
	return m.cart.rom[address]
}

func (m *mbc0) WriteROM(address uint16, value uint8) {
	// No banking hardware; the write goes nowhere.
}

func (m *mbc0) ReadRAM(address uint16) uint8 {
	offset := int(address - 0xA000)
	if offset >= len(m.cart.ram) {
		return 0xFF
	}
	return m.cart.ram[offset]
}

func (m *mbc0) WriteRAM(address uint16, value uint8) {
	offset := int(address - 0xA000)
	if offset < len(m.cart.ram) {
		m.cart.ram[offset] = value
	}
}
