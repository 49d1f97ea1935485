package inspect

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/object"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/palette"
)

var (
	blue  = palette.RGB(0, 0, 31)
	red   = palette.RGB(31, 0, 0)
	green = palette.RGB(0, 31, 0)
)

func solidTile(idx uint32) []uint32 {
	w := idx * 0x11111111
	return []uint32{w, w, w, w, w, w, w, w}
}

// newScene returns memory with one background layer and no visible objects.
func newScene(t *testing.T) *hw.Memory {
	t.Helper()
	mem := hw.NewMemory()
	object.NewController(mem)

	mem.Copy16(hw.PaletteBackground, []uint16{blue, red})
	mem.Copy16(hw.PaletteSprite, []uint16{0, red, green})
	mem.Copy32(hw.VRAM+tileBytes, solidTile(1))

	mem.Write16(hw.BGControl(0), 16<<8)
	mem.Write16(hw.Screenblock(16), 1)
	mem.Write16(hw.DisplayControl, mem.Read16(hw.DisplayControl)|hw.DispBG0)
	return mem
}

func TestPixel_Nibbles(t *testing.T) {
	mem := hw.NewMemory()
	mem.Write16(hw.VRAM+32, 0x4321)
	mem.Write16(hw.VRAM+34, 0x0065)

	got := make([]uint8, 6)
	for x := range got {
		got[x] = pixel(mem, hw.VRAM+32, x, 0)
	}
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6}, got)
}

func TestPreview_ScrolledBackground(t *testing.T) {
	mem := newScene(t)

	img := Preview(mem)
	assert.Equal(t, palette.Decode(red), img.RGBAAt(7, 7))
	assert.Equal(t, palette.Decode(blue), img.RGBAAt(8, 0))

	mem.Write16(hw.BGHOffset(0), 4)
	img = Preview(mem)
	assert.Equal(t, palette.Decode(red), img.RGBAAt(0, 0))
	assert.Equal(t, palette.Decode(blue), img.RGBAAt(4, 0))

	// 256 pixel wrap brings the tile back at the right edge
	mem.Write16(hw.BGHOffset(0), 256-16)
	img = Preview(mem)
	assert.Equal(t, palette.Decode(red), img.RGBAAt(16, 0))
	assert.Equal(t, palette.Decode(blue), img.RGBAAt(0, 0))
}

func TestPreview_ObjectsAndFlips(t *testing.T) {
	mem := newScene(t)
	mem.Copy32(hw.TileSprite, solidTile(1))
	mem.Copy32(hw.TileSprite+tileBytes, solidTile(2))

	// 16x8 object at (20, 10): shape 1, size 0
	mem.Write16(hw.OAM, 10|1<<14)
	mem.Write16(hw.OAM+2, 20)
	mem.Write16(hw.OAM+4, 0)

	img := Preview(mem)
	assert.Equal(t, palette.Decode(red), img.RGBAAt(20, 10))
	assert.Equal(t, palette.Decode(green), img.RGBAAt(35, 17))
	assert.Equal(t, palette.Decode(blue), img.RGBAAt(36, 10))

	mem.Write16(hw.OAM+2, 20|1<<12)
	img = Preview(mem)
	assert.Equal(t, palette.Decode(green), img.RGBAAt(20, 10))
	assert.Equal(t, palette.Decode(red), img.RGBAAt(35, 10))

	// an object partly off the left edge wraps through x 512
	mem.Write16(hw.OAM+2, 512-8)
	img = Preview(mem)
	assert.Equal(t, palette.Decode(green), img.RGBAAt(0, 10))
}

func TestPreview_ObjectCoversBackgroundOfSamePriority(t *testing.T) {
	mem := newScene(t)
	mem.Copy32(hw.TileSprite, solidTile(2))
	mem.Write16(hw.OAM, 0)
	mem.Write16(hw.OAM+2, 0)
	mem.Write16(hw.OAM+4, uint16(hw.P1)<<10)

	mem.Write16(hw.BGControl(0), 16<<8|uint16(hw.P0))
	assert.Equal(t, palette.Decode(red), Preview(mem).RGBAAt(0, 0))

	mem.Write16(hw.BGControl(0), 16<<8|uint16(hw.P1))
	assert.Equal(t, palette.Decode(green), Preview(mem).RGBAAt(0, 0))
}

func TestPreview_ForceBlank(t *testing.T) {
	mem := newScene(t)
	mem.Write16(hw.DisplayControl, hw.DispForceBlank)
	img := Preview(mem)
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, img.RGBAAt(100, 100))
}

func TestPalettes_Swatches(t *testing.T) {
	mem := hw.NewMemory()
	mem.Write16(hw.PaletteBackground+(3*16+5)*2, red)
	mem.Write16(hw.PaletteSprite+(2*16+1)*2, green)

	img := Palettes(mem)
	require.Equal(t, image.Rect(0, 0, 128, 256), img.Bounds())
	assert.Equal(t, palette.Decode(red), img.RGBAAt(5*swatch+3, 3*swatch+3))
	assert.Equal(t, palette.Decode(green), img.RGBAAt(1*swatch, 18*swatch))
}

func TestTileSheets(t *testing.T) {
	mem := newScene(t)
	mem.Copy32(hw.TileSprite+33*tileBytes, solidTile(2))

	bg := BackgroundTiles(mem, 0)
	assert.Equal(t, palette.Decode(red), bg.RGBAAt(8, 0))
	assert.Equal(t, palette.Decode(blue), bg.RGBAAt(0, 0))

	obj := SpriteTiles(mem, 0)
	assert.Equal(t, palette.Decode(green), obj.RGBAAt(8+3, 8+3))
}

func TestScreenblockView(t *testing.T) {
	mem := newScene(t)
	mem.Write16(hw.Screenblock(16)+(31*32+31)*2, 1|1<<12)
	mem.Write16(hw.PaletteBackground+(16+1)*2, green)

	img := Screenblock(mem, 16)
	assert.Equal(t, palette.Decode(red), img.RGBAAt(0, 0))
	assert.Equal(t, palette.Decode(green), img.RGBAAt(255, 255))
	assert.Equal(t, palette.Decode(blue), img.RGBAAt(100, 100))
}

func TestScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.SetRGBA(1, 1, color.RGBA{1, 2, 3, 255})

	dst := Scale(src, 3)
	require.Equal(t, image.Rect(0, 0, 12, 6), dst.Bounds())
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, dst.RGBAAt(4, 5))
}

func TestSheet_Layout(t *testing.T) {
	mem := newScene(t)

	all := Sheet(mem, Views{Tiles: true, Palettes: true, Screenblocks: true, Preview: true})
	wantW := hw.Width + 256 + 256 + 128 + 512 + 4*gap
	assert.Equal(t, image.Rect(0, 0, wantW, 512+labelHeight), all.Bounds())

	only := Sheet(mem, Views{Preview: true})
	assert.Equal(t, image.Rect(0, 0, hw.Width, hw.Height+labelHeight), only.Bounds())
	assert.Equal(t, palette.Decode(red), only.RGBAAt(0, labelHeight))
}
