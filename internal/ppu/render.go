package ppu

import "sort"

// Tile map base offsets within VRAM.
const (
	tileMapLow  = 0x1800 // $9800
	tileMapHigh = 0x1C00 // $9C00
)

// sprite is one decoded OAM entry plus its index, used for priority.
type sprite struct {
	y, x       int
	tile       uint8
	attributes uint8
	oamIndex   int
}

// renderScanline composites the current scanline into the framebuffer on
// entry to pixel transfer: background first, then the window, then up to
// ten sprites.
func (p *PPU) renderScanline() {
	if p.ly >= linesVisible {
		return
	}
	p.renderBackground()
	p.renderWindow()
	p.renderSprites()
}

// tilePixel resolves a tile-map entry to a pre-palette color index using
// the addressing mode selected in LCDC bit 4.
func (p *PPU) tilePixel(mapBase int, tileX, tileY, pixelX, pixelY int) uint8 {
	index := p.vram[mapBase+tileY*32+tileX]
	var tile int
	if p.lcdc&lcdcTileData != 0 {
		tile = int(index)
	} else {
		tile = 256 + int(int8(index))
	}
	return p.tiles[tile][pixelY][pixelX]
}

// renderBackground fills the scanline from the background tile map,
// applying SCX/SCY wrapping. With the background disabled the line is
// blank (shade 0).
func (p *PPU) renderBackground() {
	row := int(p.ly) * ScreenWidth

	if p.lcdc&lcdcBGEnable == 0 {
		for x := 0; x < ScreenWidth; x++ {
			p.bgIndex[x] = 0
			p.frameBuffer[row+x] = 0
		}
		return
	}

	mapBase := tileMapLow
	if p.lcdc&lcdcBGTileMap != 0 {
		mapBase = tileMapHigh
	}

	y := (int(p.scy) + int(p.ly)) & 0xFF
	for x := 0; x < ScreenWidth; x++ {
		bgX := (int(p.scx) + x) & 0xFF
		index := p.tilePixel(mapBase, bgX/8, y/8, bgX%8, y%8)
		p.bgIndex[x] = index
		p.frameBuffer[row+x] = p.bgp >> (2 * index) & 0x03
	}
}

// renderWindow overlays the window region. The window keeps its own line
// counter that only advances on lines where it was visible.
func (p *PPU) renderWindow() {
	if p.lcdc&lcdcWindowEnable == 0 || p.lcdc&lcdcBGEnable == 0 {
		return
	}
	if int(p.ly) < int(p.wy) || int(p.wx) > 166 {
		return
	}

	mapBase := tileMapLow
	if p.lcdc&lcdcWindowTileMap != 0 {
		mapBase = tileMapHigh
	}

	row := int(p.ly) * ScreenWidth
	startX := int(p.wx) - 7
	drawn := false
	for x := startX; x < ScreenWidth; x++ {
		if x < 0 {
			continue
		}
		windowX := x - startX
		index := p.tilePixel(mapBase, windowX/8, p.windowLine/8, windowX%8, p.windowLine%8)
		p.bgIndex[x] = index
		p.frameBuffer[row+x] = p.bgp >> (2 * index) & 0x03
		drawn = true
	}
	if drawn {
		p.windowLine++
	}
}

// renderSprites overlays the scanline's sprites. The hardware takes the
// first ten OAM entries covering the line; among those, a smaller X wins,
// with the OAM index breaking ties.
func (p *PPU) renderSprites() {
	if p.lcdc&lcdcOBJEnable == 0 {
		return
	}

	height := 8
	if p.lcdc&lcdcOBJSize != 0 {
		height = 16
	}

	// OAM scan: first ten entries whose Y range covers this line.
	var line []sprite
	for i := 0; i < oamSize/4 && len(line) < maxSpritesPerLine; i++ {
		y := int(p.oam[i*4]) - 16
		if int(p.ly) < y || int(p.ly) >= y+height {
			continue
		}
		line = append(line, sprite{
			y:          y,
			x:          int(p.oam[i*4+1]) - 8,
			tile:       p.oam[i*4+2],
			attributes: p.oam[i*4+3],
			oamIndex:   i,
		})
	}

	// Draw lowest-priority first so higher-priority sprites overwrite.
	sort.SliceStable(line, func(i, j int) bool { return spriteLess(line[i], line[j]) })
	for i := len(line) - 1; i >= 0; i-- {
		p.drawSprite(line[i], height)
	}
}

// spriteLess orders sprites by drawing priority: smaller X first, then
// smaller OAM index.
func spriteLess(a, b sprite) bool {
	if a.x != b.x {
		return a.x < b.x
	}
	return a.oamIndex < b.oamIndex
}

// drawSprite composites one sprite row into the framebuffer.
func (p *PPU) drawSprite(s sprite, height int) {
	rowInSprite := int(p.ly) - s.y
	if s.attributes&attrYFlip != 0 {
		rowInSprite = height - 1 - rowInSprite
	}

	tile := int(s.tile)
	if height == 16 {
		// In 8x16 mode the tile index's low bit is ignored; the second
		// tile is the next one.
		tile &^= 1
		if rowInSprite >= 8 {
			tile++
			rowInSprite -= 8
		}
	}

	palette := p.obp0
	if s.attributes&attrPalette != 0 {
		palette = p.obp1
	}

	row := int(p.ly) * ScreenWidth
	for px := 0; px < 8; px++ {
		x := s.x + px
		if x < 0 || x >= ScreenWidth {
			continue
		}
		column := px
		if s.attributes&attrXFlip != 0 {
			column = 7 - px
		}
		index := p.tiles[tile][rowInSprite][column]
		if index == 0 {
			// Color 0 is transparent for sprites.
			continue
		}
		if s.attributes&attrPriority != 0 && p.bgIndex[x] != 0 {
			// Behind non-zero background colors.
			continue
		}
		p.frameBuffer[row+x] = palette >> (2 * index) & 0x03
	}
}
