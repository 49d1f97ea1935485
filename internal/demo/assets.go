package demo

import (
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/background"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/object"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/palette"
)

// Tile ids in the generated background tileset. Id 0 is left blank.
const (
	tileGrass = 1 + iota
	tileFlowers
	tileWater
	tileStone
	tileBorder
	numWorldTiles
)

var (
	worldPalettes = []palette.Palette16{
		{Colours: [16]uint16{palette.RGB(2, 4, 8), palette.RGB(4, 18, 6), palette.RGB(8, 24, 8), palette.RGB(30, 28, 6), palette.RGB(31, 31, 31)}},
		{Colours: [16]uint16{palette.RGB(1, 2, 10), palette.RGB(4, 8, 24), palette.RGB(10, 16, 30), palette.RGB(20, 20, 20), palette.RGB(28, 28, 28)}},
	}

	actorPalettes = []*palette.Palette16{
		palette.New(0, palette.RGB(31, 8, 8), palette.RGB(31, 20, 20), palette.RGB(8, 0, 0)),
		palette.New(0, palette.RGB(8, 8, 31), palette.RGB(20, 20, 31), palette.RGB(0, 0, 8)),
		palette.New(0, palette.RGB(31, 31, 8), palette.RGB(31, 31, 24), palette.RGB(8, 8, 0)),
	}
)

// encodeTile packs an 8x8 4bpp tile, one word per row, leftmost pixel lowest.
func encodeTile(px func(x, y int) uint8) []uint32 {
	out := make([]uint32, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			out[y] |= uint32(px(x, y)&0xf) << (4 * x)
		}
	}
	return out
}

// worldTileset builds the background tiles indexed by the tile ids above.
func worldTileset() background.TileSet {
	patterns := []func(x, y int) uint8{
		func(x, y int) uint8 { return 0 },
		func(x, y int) uint8 { return 1 + uint8((x*3+y)%5/4) },
		func(x, y int) uint8 {
			if (x == 2 && y == 2) || (x == 5 && y == 5) {
				return 3
			}
			return 1
		},
		func(x, y int) uint8 { return 1 + uint8((x+y*2)%4/3) },
		func(x, y int) uint8 {
			if x == 0 || y == 0 {
				return 4
			}
			return 3
		},
		func(x, y int) uint8 {
			if x == 0 || y == 0 || x == 7 || y == 7 {
				return 4
			}
			return 0
		},
	}
	var words []uint32
	for _, p := range patterns {
		words = append(words, encodeTile(p)...)
	}
	return background.NewTileSet(words, background.FourBpp)
}

// encodeSprite packs a w x h 4bpp image as consecutive tiles in row-major
// tile order, matching one-dimensional object tile mapping.
func encodeSprite(w, h int, px func(x, y int) uint8) []byte {
	out := make([]byte, 0, w*h/2)
	for ty := 0; ty < h/8; ty++ {
		for tx := 0; tx < w/8; tx++ {
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x += 2 {
					lo := px(tx*8+x, ty*8+y) & 0xf
					hi := px(tx*8+x+1, ty*8+y) & 0xf
					out = append(out, lo|hi<<4)
				}
			}
		}
	}
	return out
}

const (
	actorFrames = 4
	actorSize   = 16
)

// actorGraphics builds a spinning ball sheet per palette with tags "spin"
// and "wobble".
func actorGraphics(pal *palette.Palette16) *object.Graphics {
	sheet := make([]object.Sprite, actorFrames)
	for f := range sheet {
		data := encodeSprite(actorSize, actorSize, func(x, y int) uint8 {
			dx, dy := 2*x-15, 2*y-15
			d := dx*dx + dy*dy
			switch {
			case d > 15*15:
				return 0
			case d > 12*12:
				return 3
			case (x+y+f*4)%16 < 4:
				return 2
			default:
				return 1
			}
		})
		sheet[f] = object.NewSprite(pal, data, object.FromWidthHeight(actorSize, actorSize))
	}
	tags := object.NewTagMap(map[string]object.Tag{
		"spin":   object.NewTag(sheet, 0, actorFrames-1, object.Forward),
		"wobble": object.NewTag(sheet, 1, 3, object.PingPong),
	})
	return object.NewGraphics(sheet, tags)
}
