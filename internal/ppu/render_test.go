package ppu

import (
	"testing"

	"gogb/internal/interrupt"
)

// newRenderPPU returns a PPU with the LCD off so VRAM and OAM can be loaded
// freely, and identity palettes so shades equal color indices.
func newRenderPPU() *PPU {
	p := New(func(interrupt.Source) {})
	p.WriteRegister(AddrLCDC, 0x00)
	p.WriteRegister(AddrBGP, 0xE4)
	p.WriteRegister(AddrOBP0, 0xE4)
	p.WriteRegister(AddrOBP1, 0xE4)
	return p
}

// fillTile paints every pixel of a tile with one color index.
func fillTile(p *PPU, tile int, index uint8) {
	var lo, hi uint8
	if index&1 != 0 {
		lo = 0xFF
	}
	if index&2 != 0 {
		hi = 0xFF
	}
	for row := 0; row < 8; row++ {
		p.WriteVRAM(uint16(tile*16+row*2), lo)
		p.WriteVRAM(uint16(tile*16+row*2+1), hi)
	}
}

// renderLine enables the LCD with the given control bits and advances far
// enough for line 0 to land in the framebuffer.
func renderLine(p *PPU, lcdc uint8) {
	p.WriteRegister(AddrLCDC, lcdc|lcdcEnable)
	p.Advance(dotsOAMScan)
}

func shadeAt(p *PPU, x, y int) uint8 {
	return p.frameBuffer[y*ScreenWidth+x]
}

func TestTileDecodeOnWrite(t *testing.T) {
	p := newRenderPPU()

	// Tile 1 row 0: pixel 0 in bit 7, low byte then high byte.
	p.WriteVRAM(16, 0xA0) // 1010 0000
	p.WriteVRAM(17, 0xC0) // 1100 0000

	want := [8]uint8{3, 2, 1, 0, 0, 0, 0, 0}
	for x, index := range want {
		if got := p.tiles[1][0][x]; got != index {
			t.Errorf("pixel %d: expected index %d, got %d", x, index, got)
		}
	}
}

func TestBackgroundRendering(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 1, 3)
	p.WriteVRAM(tileMapLow, 1) // map (0,0)

	renderLine(p, lcdcBGEnable|lcdcTileData)

	for x := 0; x < 8; x++ {
		if got := shadeAt(p, x, 0); got != 3 {
			t.Errorf("pixel %d: expected shade 3, got %d", x, got)
		}
	}
	if got := shadeAt(p, 8, 0); got != 0 {
		t.Errorf("pixel 8: expected shade 0, got %d", got)
	}
}

func TestBackgroundScroll(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 1, 3)
	p.WriteVRAM(tileMapLow, 1)
	p.WriteRegister(AddrSCX, 4)

	renderLine(p, lcdcBGEnable|lcdcTileData)

	// SCX=4 leaves only the right half of the tile on screen.
	if got := shadeAt(p, 3, 0); got != 3 {
		t.Errorf("pixel 3: expected shade 3, got %d", got)
	}
	if got := shadeAt(p, 4, 0); got != 0 {
		t.Errorf("pixel 4: expected shade 0, got %d", got)
	}

	p = newRenderPPU()
	fillTile(p, 1, 3)
	p.WriteVRAM(tileMapLow+32, 1) // map (0,1)
	p.WriteRegister(AddrSCY, 8)

	renderLine(p, lcdcBGEnable|lcdcTileData)

	if got := shadeAt(p, 0, 0); got != 3 {
		t.Errorf("SCY=8: expected shade 3 from the second map row, got %d", got)
	}
}

func TestBackgroundSignedTileAddressing(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 254, 2) // $FE is -2 relative to tile 256
	p.WriteVRAM(tileMapLow, 0xFE)

	renderLine(p, lcdcBGEnable) // LCDC bit 4 clear

	if got := shadeAt(p, 0, 0); got != 2 {
		t.Errorf("expected shade 2 via signed indexing, got %d", got)
	}
}

func TestBackgroundPalette(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 1, 3)
	p.WriteVRAM(tileMapLow, 1)
	p.WriteRegister(AddrBGP, 0x1B) // inverted: index 3 maps to shade 0

	renderLine(p, lcdcBGEnable|lcdcTileData)

	if got := shadeAt(p, 0, 0); got != 0 {
		t.Errorf("expected shade 0 under inverted palette, got %d", got)
	}
	if got := shadeAt(p, 8, 0); got != 3 {
		t.Errorf("expected index 0 to map to shade 3, got %d", got)
	}
}

func TestBackgroundDisabledBlanksLine(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 1, 3)
	p.WriteVRAM(tileMapLow, 1)

	renderLine(p, lcdcTileData) // BG enable clear

	if got := shadeAt(p, 0, 0); got != 0 {
		t.Errorf("expected blank line, got shade %d", got)
	}
}

func TestWindowOverlay(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 1, 3)
	fillTile(p, 2, 2)
	p.WriteVRAM(tileMapLow, 1)  // background shows tile 1
	p.WriteVRAM(tileMapHigh, 2) // window shows tile 2
	p.WriteRegister(AddrWY, 0)
	p.WriteRegister(AddrWX, 7)

	renderLine(p, lcdcBGEnable|lcdcTileData|lcdcWindowEnable|lcdcWindowTileMap)

	if got := shadeAt(p, 0, 0); got != 2 {
		t.Errorf("expected the window to cover the background, got shade %d", got)
	}
}

func TestWindowHiddenOffscreen(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 1, 3)
	fillTile(p, 2, 2)
	p.WriteVRAM(tileMapLow, 1)
	p.WriteVRAM(tileMapHigh, 2)
	p.WriteRegister(AddrWX, 167)

	renderLine(p, lcdcBGEnable|lcdcTileData|lcdcWindowEnable|lcdcWindowTileMap)

	if got := shadeAt(p, 0, 0); got != 3 {
		t.Errorf("window at WX=167 must not draw, got shade %d", got)
	}
}

func TestSpriteRendering(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 4, 1)
	p.WriteOAM(0, 16) // Y: line 0
	p.WriteOAM(1, 8)  // X: pixel 0
	p.WriteOAM(2, 4)
	p.WriteOAM(3, 0)

	renderLine(p, lcdcOBJEnable)

	for x := 0; x < 8; x++ {
		if got := shadeAt(p, x, 0); got != 1 {
			t.Errorf("pixel %d: expected shade 1, got %d", x, got)
		}
	}
	if got := shadeAt(p, 8, 0); got != 0 {
		t.Errorf("pixel 8: expected shade 0, got %d", got)
	}
}

func TestSpriteSecondPalette(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 4, 1)
	p.WriteRegister(AddrOBP1, 0x1B)
	p.WriteOAM(0, 16)
	p.WriteOAM(1, 8)
	p.WriteOAM(2, 4)
	p.WriteOAM(3, attrPalette)

	renderLine(p, lcdcOBJEnable)

	if got := shadeAt(p, 0, 0); got != 2 {
		t.Errorf("expected OBP1 shade 2 for index 1, got %d", got)
	}
}

func TestSpriteTransparencyAndXFlip(t *testing.T) {
	p := newRenderPPU()
	// Tile 6: left half index 1, right half index 0.
	for row := 0; row < 8; row++ {
		p.WriteVRAM(uint16(6*16+row*2), 0xF0)
	}
	p.WriteOAM(0, 16)
	p.WriteOAM(1, 8)
	p.WriteOAM(2, 6)
	p.WriteOAM(3, 0)

	renderLine(p, lcdcOBJEnable)

	if got := shadeAt(p, 0, 0); got != 1 {
		t.Errorf("pixel 0: expected shade 1, got %d", got)
	}
	if got := shadeAt(p, 4, 0); got != 0 {
		t.Errorf("pixel 4: index 0 is transparent, got shade %d", got)
	}

	p.WriteRegister(AddrLCDC, 0x00)
	p.WriteOAM(3, attrXFlip)
	renderLine(p, lcdcOBJEnable)

	if got := shadeAt(p, 0, 0); got != 0 {
		t.Errorf("flipped pixel 0: expected transparent, got shade %d", got)
	}
	if got := shadeAt(p, 4, 0); got != 1 {
		t.Errorf("flipped pixel 4: expected shade 1, got %d", got)
	}
}

func TestSpriteYFlip(t *testing.T) {
	p := newRenderPPU()
	// Tile 5: only row 0 is opaque.
	p.WriteVRAM(5*16, 0xFF)
	p.WriteOAM(0, 16)
	p.WriteOAM(1, 8)
	p.WriteOAM(2, 5)
	p.WriteOAM(3, attrYFlip)

	p.WriteRegister(AddrLCDC, lcdcOBJEnable|lcdcEnable)
	p.Advance(dotsPerLine*7 + dotsOAMScan)

	if got := shadeAt(p, 0, 0); got != 0 {
		t.Errorf("line 0: flipped sprite must be transparent, got shade %d", got)
	}
	if got := shadeAt(p, 0, 7); got != 1 {
		t.Errorf("line 7: expected the flipped top row, got shade %d", got)
	}
}

func TestSpriteBehindBackground(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 1, 1) // background tile, non-zero index
	fillTile(p, 4, 3)
	p.WriteVRAM(tileMapLow, 1) // only map (0,0); map (1,0) stays index 0
	p.WriteOAM(0, 16)
	p.WriteOAM(1, 12) // screen pixels 4..11
	p.WriteOAM(2, 4)
	p.WriteOAM(3, attrPriority)

	renderLine(p, lcdcBGEnable|lcdcTileData|lcdcOBJEnable)

	if got := shadeAt(p, 4, 0); got != 1 {
		t.Errorf("pixel 4: sprite must hide behind non-zero background, got shade %d", got)
	}
	if got := shadeAt(p, 8, 0); got != 3 {
		t.Errorf("pixel 8: sprite must show over background color 0, got shade %d", got)
	}
}

func TestTenSpritesPerLine(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 4, 1)
	for i := 0; i < 11; i++ {
		p.WriteOAM(uint16(i*4), 16)
		p.WriteOAM(uint16(i*4+1), uint8(8+8*i))
		p.WriteOAM(uint16(i*4+2), 4)
		p.WriteOAM(uint16(i*4+3), 0)
	}

	renderLine(p, lcdcOBJEnable)

	if got := shadeAt(p, 72, 0); got != 1 {
		t.Errorf("tenth sprite must draw, got shade %d", got)
	}
	if got := shadeAt(p, 80, 0); got != 0 {
		t.Errorf("eleventh sprite must be dropped, got shade %d", got)
	}
}

func TestSpritePriorityByX(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 4, 1)
	fillTile(p, 7, 2)
	// OAM entry 0 sits further right; entry 1 wins the overlap on X.
	p.WriteOAM(0, 16)
	p.WriteOAM(1, 10)
	p.WriteOAM(2, 4)
	p.WriteOAM(3, 0)
	p.WriteOAM(4, 16)
	p.WriteOAM(5, 8)
	p.WriteOAM(6, 7)
	p.WriteOAM(7, 0)

	renderLine(p, lcdcOBJEnable)

	if got := shadeAt(p, 4, 0); got != 2 {
		t.Errorf("overlap: smaller X must win, got shade %d", got)
	}
	if got := shadeAt(p, 8, 0); got != 1 {
		t.Errorf("pixel 8: expected the right sprite alone, got shade %d", got)
	}
}

func TestTallSprites(t *testing.T) {
	p := newRenderPPU()
	fillTile(p, 4, 1)
	fillTile(p, 5, 2)
	p.WriteOAM(0, 16)
	p.WriteOAM(1, 8)
	p.WriteOAM(2, 5) // low bit ignored in 8x16 mode
	p.WriteOAM(3, 0)

	p.WriteRegister(AddrLCDC, lcdcOBJEnable|lcdcOBJSize|lcdcEnable)
	p.Advance(dotsPerLine*8 + dotsOAMScan)

	if got := shadeAt(p, 0, 0); got != 1 {
		t.Errorf("top half: expected the even tile, got shade %d", got)
	}
	if got := shadeAt(p, 0, 8); got != 2 {
		t.Errorf("bottom half: expected the odd tile, got shade %d", got)
	}
}
