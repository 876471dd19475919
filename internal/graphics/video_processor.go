package graphics

// Palettes mapping the four DMG shades to RGB, shade 0 (lightest) first.
var palettes = map[string][4]uint32{
	"dmg":    {0x9BBC0F, 0x8BAC0F, 0x306230, 0x0F380F},
	"gray":   {0xFFFFFF, 0xAAAAAA, 0x555555, 0x000000},
	"pocket": {0xE0DBCD, 0xA89F94, 0x706B66, 0x2B2B26},
}

// VideoProcessor converts the PPU's shade-index framebuffer into the RGB
// frame a Window renders, applying the selected palette and brightness.
type VideoProcessor struct {
	palette    [4]uint32
	brightness float64 // 1.0 = unchanged

	output [Width * Height]uint32
}

// NewVideoProcessor creates a processor using the named palette ("dmg" when
// the name is unknown) with neutral brightness.
func NewVideoProcessor(paletteName string) *VideoProcessor {
	vp := &VideoProcessor{brightness: 1.0}
	vp.SetPalette(paletteName)
	return vp
}

// SetPalette selects the shade palette by name.
func (vp *VideoProcessor) SetPalette(name string) {
	palette, ok := palettes[name]
	if !ok {
		palette = palettes["dmg"]
	}
	vp.palette = palette
}

// SetBrightness adjusts output brightness. Values are clamped to 0.0-2.0.
func (vp *VideoProcessor) SetBrightness(brightness float64) {
	if brightness < 0.0 {
		brightness = 0.0
	}
	if brightness > 2.0 {
		brightness = 2.0
	}
	vp.brightness = brightness
}

// Process converts a shade-index frame to RGB. The returned array is reused
// across calls.
func (vp *VideoProcessor) Process(frame [Width * Height]uint8) *[Width * Height]uint32 {
	shades := vp.palette
	if vp.brightness != 1.0 {
		for i := range shades {
			shades[i] = scaleRGB(shades[i], vp.brightness)
		}
	}
	for i, px := range frame {
		vp.output[i] = shades[px&0x03]
	}
	return &vp.output
}

func scaleRGB(rgb uint32, factor float64) uint32 {
	r := clampChannel(float64((rgb>>16)&0xFF) * factor)
	g := clampChannel(float64((rgb>>8)&0xFF) * factor)
	b := clampChannel(float64(rgb&0xFF) * factor)
	return r<<16 | g<<8 | b
}

func clampChannel(v float64) uint32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint32(v)
}
