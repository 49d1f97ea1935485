package inspect

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/object"
)

// Preview composes the screen as the display would show it in mode 0:
// regular backgrounds with scroll and unrotated objects with 1-D mapping.
func Preview(r Reader) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, hw.Width, hw.Height))
	dispcnt := r.Read16(hw.DisplayControl)
	if dispcnt&hw.DispForceBlank != 0 {
		draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
		return img
	}
	backdrop := colour(r, hw.PaletteBackground, 0, 0)
	draw.Draw(img, img.Bounds(), image.NewUniform(backdrop), image.Point{}, draw.Src)

	// lower priority first; within one priority objects cover backgrounds
	// and lower layer and row numbers are drawn on top
	for p := 3; p >= 0; p-- {
		for id := 3; id >= 0; id-- {
			if dispcnt&(hw.DispBG0<<id) == 0 {
				continue
			}
			cnt := r.Read16(hw.BGControl(uint8(id)))
			if int(cnt&3) == p {
				drawBackground(img, r, uint8(id), cnt)
			}
		}
		if dispcnt&hw.DispObjEnable != 0 {
			for row := object.NumObjects - 1; row >= 0; row-- {
				drawObject(img, r, row, uint16(p))
			}
		}
	}
	return img
}

// bgPixel samples map position (x, y) of screenblock sb, wrapping at 256.
func bgPixel(r Reader, sb uint8, charBase uint32, x, y int) (color.RGBA, bool) {
	x, y = x&0xff, y&0xff
	entry := r.Read16(hw.Screenblock(sb) + uint32((y/8)*32+x/8)*2)
	px, py := x%8, y%8
	if entry&(1<<10) != 0 {
		px = 7 - px
	}
	if entry&(1<<11) != 0 {
		py = 7 - py
	}
	idx := pixel(r, charBase+uint32(entry&0x3ff)*tileBytes, px, py)
	if idx == 0 {
		return color.RGBA{}, false
	}
	return colour(r, hw.PaletteBackground, uint8(entry>>12), idx), true
}

func drawBackground(img *image.RGBA, r Reader, id uint8, cnt uint16) {
	sb := uint8(cnt >> 8 & 0x1f)
	charBase := hw.VRAM + uint32(cnt>>2&3)*0x4000
	hofs := int(r.Read16(hw.BGHOffset(id)) & 0x1ff)
	vofs := int(r.Read16(hw.BGVOffset(id)) & 0x1ff)
	for y := 0; y < hw.Height; y++ {
		for x := 0; x < hw.Width; x++ {
			if c, ok := bgPixel(r, sb, charBase, x+hofs, y+vofs); ok {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func drawObject(img *image.RGBA, r Reader, row int, prio uint16) {
	base := hw.OAM + uint32(row)*8
	a0, a1, a2 := r.Read16(base), r.Read16(base+2), r.Read16(base+4)
	mode := object.Mode(a0 >> 8 & 3)
	shape := a0 >> 14
	if mode == object.ModeDisabled || shape == 3 || a2>>10&3 != prio {
		return
	}
	w, h := object.Size(shape<<2 | a1>>14).WidthHeight()

	ox, oy := int(a1&0x1ff), int(a0&0xff)
	if ox >= hw.Width {
		ox -= 512
	}
	if oy >= hw.Height {
		oy -= 256
	}
	hflip := mode == object.ModeNormal && a1&(1<<12) != 0
	vflip := mode == object.ModeNormal && a1&(1<<13) != 0
	tile := uint32(a2 & 0x3ff)
	bank := uint8(a2 >> 12)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := ox+x, oy+y
			if sx < 0 || sx >= hw.Width || sy < 0 || sy >= hw.Height {
				continue
			}
			tx, ty := x, y
			if hflip {
				tx = w - 1 - x
			}
			if vflip {
				ty = h - 1 - y
			}
			t := tile + uint32(ty/8*(w/8)+tx/8)
			idx := pixel(r, hw.TileSprite+(t&0x3ff)*tileBytes, tx%8, ty%8)
			if idx != 0 {
				img.SetRGBA(sx, sy, colour(r, hw.PaletteSprite, bank, idx))
			}
		}
	}
}
