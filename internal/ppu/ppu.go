// Package ppu implements the Game Boy pixel-processing unit: the mode state
// machine that advances in lockstep with the CPU clock, the LCD register
// file, and the scanline renderer.
package ppu

import "gogb/internal/interrupt"

// Screen dimensions of the visible framebuffer.
const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// PPU modes as reported in the low two bits of STAT.
const (
	ModeHBlank        = 0
	ModeVBlank        = 1
	ModeOAMScan       = 2
	ModePixelTransfer = 3
)

// Dot budget per scanline and frame. Every scanline is 456 dots; mode 3's
// real length varies with sprite fetches, which public documentation does
// not pin down exactly, so it is a configurable approximation here and
// H-blank absorbs the remainder.
const (
	dotsPerLine       = 456
	dotsOAMScan       = 80
	dotsPixelTransfer = 172

	linesVisible = 144
	linesTotal   = 154

	// DotsPerFrame is the exact dot count of one full frame.
	DotsPerFrame = dotsPerLine * linesTotal
)

// LCD register addresses.
const (
	AddrLCDC = 0xFF40
	AddrSTAT = 0xFF41
	AddrSCY  = 0xFF42
	AddrSCX  = 0xFF43
	AddrLY   = 0xFF44
	AddrLYC  = 0xFF45
	AddrBGP  = 0xFF47
	AddrOBP0 = 0xFF48
	AddrOBP1 = 0xFF49
	AddrWY   = 0xFF4A
	AddrWX   = 0xFF4B
)

// LCDC bits.
const (
	lcdcBGEnable      = 1 << 0
	lcdcOBJEnable     = 1 << 1
	lcdcOBJSize       = 1 << 2
	lcdcBGTileMap     = 1 << 3
	lcdcTileData      = 1 << 4
	lcdcWindowEnable  = 1 << 5
	lcdcWindowTileMap = 1 << 6
	lcdcEnable        = 1 << 7
)

// STAT bits. Bits 6..3 are interrupt enables written by software; bits 2..0
// are live status owned by the PPU.
const (
	statModeMask  = 0x03
	statLYCFlag   = 1 << 2
	statHBlankIRQ = 1 << 3
	statVBlankIRQ = 1 << 4
	statOAMIRQ    = 1 << 5
	statLYCIRQ    = 1 << 6
	statWritable  = statHBlankIRQ | statVBlankIRQ | statOAMIRQ | statLYCIRQ
)

// Sprite attribute bits.
const (
	attrPalette  = 1 << 4
	attrXFlip    = 1 << 5
	attrYFlip    = 1 << 6
	attrPriority = 1 << 7
)

// Hardware limit on sprites drawn per scanline.
const maxSpritesPerLine = 10

const (
	vramSize = 0x2000
	oamSize  = 0xA0

	// Tile pixel data occupies the first 0x1800 bytes of VRAM.
	tileDataEnd = 0x1800
	numTiles    = 384
)

// RequestFunc raises an interrupt request on the controller.
type RequestFunc func(interrupt.Source)

// PPU owns VRAM, OAM and the LCD register file, and renders one scanline at
// a time as the dot counter crosses the documented mode boundaries.
type PPU struct {
	vram [vramSize]uint8
	oam  [oamSize]uint8

	// Decoded 2bpp tile pixels, kept in sync on VRAM writes so the
	// scanline renderer never re-decodes tile rows.
	tiles [numTiles][8][8]uint8

	lcdc uint8
	stat uint8
	scy  uint8
	scx  uint8
	ly   uint8
	lyc  uint8
	bgp  uint8
	obp0 uint8
	obp1 uint8
	wy   uint8
	wx   uint8

	mode int
	dot  int

	// The window keeps its own line counter: it only advances on lines
	// where the window was actually visible.
	windowLine int

	mode3Dots int

	// Working scanline buffers. bgIndex holds the pre-palette background
	// color index used for sprite priority decisions.
	bgIndex [ScreenWidth]uint8

	frameBuffer [ScreenWidth * ScreenHeight]uint8
	frontBuffer [ScreenWidth * ScreenHeight]uint8

	frameComplete bool
	frameCount    uint64

	request       RequestFunc
	frameCallback func()
}

// New creates a PPU that raises requests through the given function.
func New(request RequestFunc) *PPU {
	p := &PPU{request: request}
	p.Reset()
	return p
}

// Reset restores the documented post-boot state: LCD on, background on,
// first line, mode as left by the boot ROM.
func (p *PPU) Reset() {
	p.vram = [vramSize]uint8{}
	p.oam = [oamSize]uint8{}
	p.tiles = [numTiles][8][8]uint8{}
	p.lcdc = 0x91
	p.stat = 0x85 & statWritable
	p.scy, p.scx = 0, 0
	p.ly, p.lyc = 0, 0
	p.bgp = 0xFC
	p.obp0, p.obp1 = 0xFF, 0xFF
	p.wy, p.wx = 0, 0
	p.mode = ModeOAMScan
	p.dot = 0
	p.windowLine = 0
	p.mode3Dots = dotsPixelTransfer
	p.frameBuffer = [ScreenWidth * ScreenHeight]uint8{}
	p.frontBuffer = [ScreenWidth * ScreenHeight]uint8{}
	p.frameComplete = false
	p.frameCount = 0
}

// SetFrameCompleteCallback registers a function invoked after the final dot
// of scanline 153, when a full frame snapshot becomes available.
func (p *PPU) SetFrameCompleteCallback(callback func()) {
	p.frameCallback = callback
}

// SetMode3Length overrides the fixed pixel-transfer length approximation.
// Values are clamped to the hardware's documented 172..289 dot range.
func (p *PPU) SetMode3Length(dots int) {
	if dots < dotsPixelTransfer {
		dots = dotsPixelTransfer
	}
	if max := dotsPerLine - dotsOAMScan - 1; dots > max {
		dots = max
	}
	p.mode3Dots = dots
}

// Mode returns the current PPU mode.
func (p *PPU) Mode() int { return p.mode }

// Scanline returns the current scanline index (0-153).
func (p *PPU) Scanline() int { return int(p.ly) }

// Dot returns the dot counter within the current scanline.
func (p *PPU) Dot() int { return p.dot }

// FrameCount returns the number of completed frames since reset.
func (p *PPU) FrameCount() uint64 { return p.frameCount }

// FrameComplete reports whether a frame finished since the last call and
// clears the flag.
func (p *PPU) FrameComplete() bool {
	complete := p.frameComplete
	p.frameComplete = false
	return complete
}

// FrameBuffer returns a snapshot of the last completed frame as one shade
// index (0 lightest .. 3 darkest) per pixel.
func (p *PPU) FrameBuffer() [ScreenWidth * ScreenHeight]uint8 {
	return p.frontBuffer
}

// Advance moves the PPU forward by the given number of cycles, one dot at a
// time. With the LCD disabled the PPU idles in H-blank on line 0.
func (p *PPU) Advance(cycles int) {
	if p.lcdc&lcdcEnable == 0 {
		return
	}
	for i := 0; i < cycles; i++ {
		p.tick()
	}
}

// tick advances one dot and applies mode/scanline transitions at the fixed
// dot boundaries.
func (p *PPU) tick() {
	p.dot++

	switch p.mode {
	case ModeOAMScan:
		if p.dot == dotsOAMScan {
			p.setMode(ModePixelTransfer)
			p.renderScanline()
		}

	case ModePixelTransfer:
		if p.dot == dotsOAMScan+p.mode3Dots {
			p.setMode(ModeHBlank)
		}

	case ModeHBlank:
		if p.dot == dotsPerLine {
			p.dot = 0
			p.ly++
			p.compareLYC()
			if p.ly == linesVisible {
				p.setMode(ModeVBlank)
				p.request(interrupt.VBlank)
			} else {
				p.setMode(ModeOAMScan)
			}
		}

	case ModeVBlank:
		if p.dot == dotsPerLine {
			p.dot = 0
			p.ly++
			if p.ly == linesTotal {
				p.finishFrame()
			}
			p.compareLYC()
		}
	}
}

// setMode switches modes and raises a STAT request when the new mode's
// interrupt enable is set.
func (p *PPU) setMode(mode int) {
	p.mode = mode
	switch mode {
	case ModeHBlank:
		if p.stat&statHBlankIRQ != 0 {
			p.request(interrupt.LCDStat)
		}
	case ModeVBlank:
		if p.stat&statVBlankIRQ != 0 {
			p.request(interrupt.LCDStat)
		}
	case ModeOAMScan:
		if p.stat&statOAMIRQ != 0 {
			p.request(interrupt.LCDStat)
		}
	}
}

// compareLYC raises a STAT request on an enabled LYC=LY match.
func (p *PPU) compareLYC() {
	if p.ly == p.lyc && p.stat&statLYCIRQ != 0 {
		p.request(interrupt.LCDStat)
	}
}

// finishFrame wraps back to scanline 0 and publishes the frame snapshot.
func (p *PPU) finishFrame() {
	p.ly = 0
	p.windowLine = 0
	p.setMode(ModeOAMScan)
	p.frontBuffer = p.frameBuffer
	p.frameComplete = true
	p.frameCount++
	if p.frameCallback != nil {
		p.frameCallback()
	}
}
