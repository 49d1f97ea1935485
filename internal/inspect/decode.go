// Package inspect renders the contents of display memory as images: the tile
// stores, palettes, screenblocks and a composed picture of the screen.
package inspect

import (
	"image/color"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/palette"
)

// Reader is the read side of the hardware bus.
type Reader interface {
	Read16(addr uint32) uint16
}

const tileBytes = 32

// pixel returns the 4-bit colour index at (x, y) of the tile at addr.
// The low nibble of each byte is the left pixel.
func pixel(r Reader, addr uint32, x, y int) uint8 {
	off := uint32(y*4 + x/2)
	h := r.Read16(addr + off&^1)
	b := uint8(h >> (8 * (off & 1)))
	if x&1 == 1 {
		return b >> 4
	}
	return b & 0xf
}

// colour looks up entry idx of 16-colour bank in the palette at base.
func colour(r Reader, base uint32, bank, idx uint8) color.RGBA {
	return palette.Decode(r.Read16(base + (uint32(bank)*16+uint32(idx))*2))
}
