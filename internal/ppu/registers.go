package ppu

// ReadRegister reads one of the LCD registers in the $FF40-$FF4B window.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case AddrLCDC:
		return p.lcdc
	case AddrSTAT:
		// Bit 7 is unimplemented and reads as 1.
		stat := 0x80 | p.stat&statWritable | uint8(p.mode)
		if p.ly == p.lyc {
			stat |= statLYCFlag
		}
		return stat
	case AddrSCY:
		return p.scy
	case AddrSCX:
		return p.scx
	case AddrLY:
		return p.ly
	case AddrLYC:
		return p.lyc
	case AddrBGP:
		return p.bgp
	case AddrOBP0:
		return p.obp0
	case AddrOBP1:
		return p.obp1
	case AddrWY:
		return p.wy
	case AddrWX:
		return p.wx
	default:
		return 0xFF
	}
}

// WriteRegister writes one of the LCD registers. LY is read-only; STAT only
// accepts its interrupt-enable bits.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case AddrLCDC:
		wasEnabled := p.lcdc&lcdcEnable != 0
		p.lcdc = value
		if enabled := value&lcdcEnable != 0; enabled != wasEnabled {
			if enabled {
				p.ly = 0
				p.dot = 0
				p.windowLine = 0
				p.mode = ModeOAMScan
			} else {
				// Turning the LCD off parks the PPU on line 0 in
				// H-blank and blanks the visible frame.
				p.ly = 0
				p.dot = 0
				p.mode = ModeHBlank
				p.frameBuffer = [ScreenWidth * ScreenHeight]uint8{}
				p.frontBuffer = p.frameBuffer
			}
		}
	case AddrSTAT:
		p.stat = value & statWritable
	case AddrSCY:
		p.scy = value
	case AddrSCX:
		p.scx = value
	case AddrLY:
		// Read-only.
	case AddrLYC:
		p.lyc = value
		p.compareLYC()
	case AddrBGP:
		p.bgp = value
	case AddrOBP0:
		p.obp0 = value
	case AddrOBP1:
		p.obp1 = value
	case AddrWY:
		p.wy = value
	case AddrWX:
		p.wx = value
	}
}

// ReadVRAM services a CPU read of $8000-$9FFF. During pixel transfer the
// video RAM is held by the PPU and the CPU sees the unmapped pattern.
func (p *PPU) ReadVRAM(offset uint16) uint8 {
	if p.vramBlocked() {
		return 0xFF
	}
	return p.vram[offset&0x1FFF]
}

// WriteVRAM services a CPU write of $8000-$9FFF. Writes during pixel
// transfer are dropped. Writes into the tile-data area also refresh the
// decoded tile cache.
func (p *PPU) WriteVRAM(offset uint16, value uint8) {
	if p.vramBlocked() {
		return
	}
	offset &= 0x1FFF
	p.vram[offset] = value
	if offset < tileDataEnd {
		p.updateTile(offset)
	}
}

// ReadOAM services a CPU read of $FE00-$FE9F. OAM is inaccessible during
// both OAM scan and pixel transfer.
func (p *PPU) ReadOAM(offset uint16) uint8 {
	if p.oamBlocked() {
		return 0xFF
	}
	return p.oam[offset%oamSize]
}

// WriteOAM services a CPU write of $FE00-$FE9F.
func (p *PPU) WriteOAM(offset uint16, value uint8) {
	if p.oamBlocked() {
		return
	}
	p.oam[offset%oamSize] = value
}

// WriteOAMDMA stores one byte transferred by OAM DMA. DMA bypasses the
// CPU-side access restriction.
func (p *PPU) WriteOAMDMA(offset uint16, value uint8) {
	p.oam[offset%oamSize] = value
}

func (p *PPU) vramBlocked() bool {
	return p.lcdc&lcdcEnable != 0 && p.mode == ModePixelTransfer
}

func (p *PPU) oamBlocked() bool {
	return p.lcdc&lcdcEnable != 0 &&
		(p.mode == ModeOAMScan || p.mode == ModePixelTransfer)
}

// updateTile re-decodes the tile row containing the written byte. Rows are
// two bytes: the first holds the low bit of each pixel, the second the high
// bit, with pixel 0 in bit 7.
func (p *PPU) updateTile(offset uint16) {
	rowAddr := offset &^ 1
	lo := p.vram[rowAddr]
	hi := p.vram[rowAddr+1]

	tile := offset / 16
	row := (offset % 16) / 2
	for pixel := 0; pixel < 8; pixel++ {
		mask := uint8(1) << (7 - pixel)
		var value uint8
		if lo&mask != 0 {
			value |= 1
		}
		if hi&mask != 0 {
			value |= 2
		}
		p.tiles[tile][row][pixel] = value
	}
}
