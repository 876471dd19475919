package cartridge

// mbc1 implements the MBC1 mapper: up to 2MB of ROM in 16KB banks and up
// to 32KB of switchable RAM. Writes into the ROM window drive the four
// control registers.
type mbc1 struct {
	cart *Cartridge

	ramEnabled bool
	romBank    uint8 // 5-bit bank register, never 0
	bankHigh   uint8 // 2-bit register: ROM bank high bits or RAM bank
	advanced   bool  // banking-mode select
}

func newMBC1(cart *Cartridge) *mbc1 {
	return &mbc1{cart: cart, romBank: 1}
}

// romBankCount returns the number of 16KB banks in the image.
func (m *mbc1) romBankCount() int {
	return len(m.cart.rom) / romBankSize
}

func (m *mbc1) ReadROM(address uint16) uint8 {
	var bank int
	switch {
	case address < romBankSize:
		// In advanced mode the high register also affects bank 0.
		if m.advanced {
			bank = int(m.bankHigh) << 5
		}
	default:
		bank = int(m.bankHigh)<<5 | int(m.romBank)
	}
	bank %= m.romBankCount()

	offset := bank*romBankSize + int(address%romBankSize)
	return m.cart.rom[offset]
}

func (m *mbc1) WriteROM(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		// 5-bit ROM bank register; writing 0 selects bank 1.
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case address < 0x6000:
		m.bankHigh = value & 0x03
	default:
		m.advanced = value&0x01 != 0
	}
}

// ramOffset maps an external-RAM address to the backing slice, honoring
// the banking mode. Returns -1 when the access falls outside the RAM.
func (m *mbc1) ramOffset(address uint16) int {
	if len(m.cart.ram) == 0 {
		return -1
	}
	bank := 0
	if m.advanced {
		bank = int(m.bankHigh)
	}
	offset := bank*ramBankSize + int(address-0xA000)
	if offset >= len(m.cart.ram) {
		offset %= len(m.cart.ram)
	}
	return offset
}

func (m *mbc1) ReadRAM(address uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	offset := m.ramOffset(address)
	if offset < 0 {
		return 0xFF
	}
	return m.cart.ram[offset]
}

func (m *mbc1) WriteRAM(address uint16, value uint8) {
	if !m.ramEnabled {
		return
	}
	offset := m.ramOffset(address)
	if offset >= 0 {
		m.cart.ram[offset] = value
	}
}
