package debug

import (
	"fmt"
	"strings"
)

// shadeChars maps the four DMG shades to ASCII, lightest to darkest.
var shadeChars = [4]byte{' ', '.', '+', '#'}

// DumpFrame renders a shade-index framebuffer as ASCII art, one character
// per pixel. Handy when chasing rendering bugs without a window.
func DumpFrame(frame []uint8, width, height int) string {
	var b strings.Builder
	b.Grow((width + 1) * height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			shade := frame[y*width+x] & 0x03
			b.WriteByte(shadeChars[shade])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FrameStats summarizes shade usage in a framebuffer, for quick checks
// that a frame is not blank or saturated.
func FrameStats(frame []uint8) string {
	var counts [4]int
	for _, px := range frame {
		counts[px&0x03]++
	}
	return fmt.Sprintf("shades: 0=%d 1=%d 2=%d 3=%d", counts[0], counts[1], counts[2], counts[3])
}
