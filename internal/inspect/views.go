package inspect

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
)

const (
	sheetTiles = 1024
	sheetCols  = 32
	swatch     = 8
)

// tileSheet draws count tiles starting at base in rows of sheetCols.
func tileSheet(r Reader, base uint32, palBase uint32, bank uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, sheetCols*8, sheetTiles/sheetCols*8))
	for t := 0; t < sheetTiles; t++ {
		addr := base + uint32(t)*tileBytes
		ox, oy := t%sheetCols*8, t/sheetCols*8
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				c := colour(r, palBase, bank, pixel(r, addr, x, y))
				img.SetRGBA(ox+x, oy+y, c)
			}
		}
	}
	return img
}

// BackgroundTiles draws the background tile store using palette bank.
func BackgroundTiles(r Reader, bank uint8) *image.RGBA {
	return tileSheet(r, hw.VRAM, hw.PaletteBackground, bank)
}

// SpriteTiles draws the sprite tile store using sprite palette bank.
func SpriteTiles(r Reader, bank uint8) *image.RGBA {
	return tileSheet(r, hw.TileSprite, hw.PaletteSprite, bank)
}

// Palettes draws one row per bank, background banks above sprite banks.
func Palettes(r Reader) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16*swatch, 32*swatch))
	for row := 0; row < 32; row++ {
		base := uint32(hw.PaletteBackground)
		bank := uint8(row)
		if row >= 16 {
			base, bank = hw.PaletteSprite, uint8(row-16)
		}
		for i := uint8(0); i < 16; i++ {
			rect := image.Rect(int(i)*swatch, row*swatch, int(i+1)*swatch, (row+1)*swatch)
			draw.Draw(img, rect, image.NewUniform(colour(r, base, bank, i)), image.Point{}, draw.Src)
		}
	}
	return img
}

// Screenblock draws the full 32x32 map stored in screenblock sb, unscrolled.
func Screenblock(r Reader, sb uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			if c, ok := bgPixel(r, sb, hw.VRAM, x, y); ok {
				img.SetRGBA(x, y, c)
			} else {
				img.SetRGBA(x, y, colour(r, hw.PaletteBackground, 0, 0))
			}
		}
	}
	return img
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling.
func Scale(img image.Image, factor int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Views selects the panels of a Sheet.
type Views struct {
	Tiles        bool
	Palettes     bool
	Screenblocks bool
	Preview      bool
}

const (
	labelHeight = 16
	gap         = 4
)

type panel struct {
	label string
	img   *image.RGBA
}

// Sheet lays the selected views out left to right, each under a label.
func Sheet(r Reader, v Views) *image.RGBA {
	var panels []panel
	if v.Preview {
		panels = append(panels, panel{"screen", Preview(r)})
	}
	if v.Tiles {
		panels = append(panels,
			panel{"bg tiles", BackgroundTiles(r, 0)},
			panel{"obj tiles", SpriteTiles(r, 0)})
	}
	if v.Palettes {
		panels = append(panels, panel{"palettes", Palettes(r)})
	}
	if v.Screenblocks {
		grid := image.NewRGBA(image.Rect(0, 0, 512, 512))
		for i := 0; i < 4; i++ {
			at := image.Pt(i%2*256, i/2*256)
			sb := Screenblock(r, uint8(16+i))
			draw.Draw(grid, sb.Bounds().Add(at), sb, image.Point{}, draw.Src)
		}
		panels = append(panels, panel{"screenblocks 16-19", grid})
	}

	w, h := 0, 0
	for _, p := range panels {
		w += p.img.Bounds().Dx() + gap
		h = max(h, p.img.Bounds().Dy())
	}
	out := image.NewRGBA(image.Rect(0, 0, max(w-gap, 1), h+labelHeight))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.RGBA{0x20, 0x20, 0x20, 0xff}), image.Point{}, draw.Src)

	x := 0
	for _, p := range panels {
		d := font.Drawer{
			Dst:  out,
			Src:  image.White,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x+2, labelHeight-4),
		}
		d.DrawString(p.label)
		draw.Draw(out, p.img.Bounds().Add(image.Pt(x, labelHeight)), p.img, image.Point{}, draw.Src)
		x += p.img.Bounds().Dx() + gap
	}
	return out
}
