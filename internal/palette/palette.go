// Package palette holds the 16-colour palette type shared by backgrounds and sprites.
package palette

import "image/color"

// Palette16 is one 16-colour bank in RGB555. Colour 0 is transparent.
type Palette16 struct {
	Colours [16]uint16
}

// Size is the size of a Palette16 in bytes.
const Size = 16 * 2

func New(colours ...uint16) *Palette16 {
	p := &Palette16{}
	copy(p.Colours[:], colours)
	return p
}

// RGB packs 5-bit channels into an RGB555 colour.
func RGB(r, g, b uint8) uint16 {
	return uint16(r&0x1F) | uint16(g&0x1F)<<5 | uint16(b&0x1F)<<10
}

// Decode converts a 15-bit colour to 8-bit per channel (simple scale).
func Decode(v uint16) color.RGBA {
	r5 := byte(v & 0x1F)
	g5 := byte((v >> 5) & 0x1F)
	b5 := byte((v >> 10) & 0x1F)
	// scale 5-bit to 8-bit by left shift and OR with upper bits
	return color.RGBA{
		R: (r5 << 3) | (r5 >> 2),
		G: (g5 << 3) | (g5 >> 2),
		B: (b5 << 3) | (b5 >> 2),
		A: 0xFF,
	}
}
