package display

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/background"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/object"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/palette"
)

func openDisplay(t *testing.T) (*hw.Memory, *Display) {
	t.Helper()
	mem := hw.NewMemory()
	d, err := New(mem)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return mem, d
}

func TestDisplay_SingleActiveContext(t *testing.T) {
	_, d := openDisplay(t)

	_, err := New(hw.NewMemory())
	require.ErrorIs(t, err, ErrAlreadyActive)

	d.Close()
	d.Close()
	assert.Panics(t, func() { d.VRAM() })

	again, err := New(hw.NewMemory())
	require.NoError(t, err)
	again.Close()
}

func TestDisplay_InitialisesDisplayControl(t *testing.T) {
	mem, _ := openDisplay(t)

	dispcnt := mem.Read16(hw.DisplayControl)
	assert.Zero(t, dispcnt&hw.DispModeMask, "mode 0")
	assert.NotZero(t, dispcnt&hw.DispObjEnable)
	assert.NotZero(t, dispcnt&hw.DispObj1D)
}

func TestDisplay_FourLayersThenFatal(t *testing.T) {
	_, d := openDisplay(t)

	loans := make([]*background.MapLoan, 0, background.MaxBackgrounds)
	for range background.MaxBackgrounds {
		loans = append(loans, d.Tiled0().Background(hw.P0))
	}
	assert.Panics(t, func() { d.Tiled0().Background(hw.P0) })

	loans[2].Release()
	l := d.Tiled0().Background(hw.P1)
	assert.Equal(t, uint8(2), l.BackgroundID())
}

func TestDisplay_EndToEndFrame(t *testing.T) {
	mem, d := openDisplay(t)

	tiles := make([]uint32, 8*4)
	for i := range tiles {
		tiles[i] = 0x11111111 * uint32(i/8+1)
	}
	ts := d.VRAM().AddTileset(background.NewTileSet(tiles, background.FourBpp))
	d.VRAM().SetBackgroundPalette(0, palette.New(0, palette.RGB(31, 31, 31)))

	m := d.Tiled0().Background(hw.P2)
	m.SetTile(d.VRAM(), image.Pt(0, 0), ts, background.NewTileSetting(2, false, false, 0))
	m.Show()
	m.Commit()

	sb := hw.Screenblock(m.Screenblock())
	assert.Equal(t, uint16(m.Tile(image.Pt(0, 0))), mem.Read16(sb))

	s := object.NewSprite(palette.New(0, 1), make([]byte, object.BytesPerTile), object.S8x8)
	o := d.Objects().Object(d.Objects().Sprite(&s))
	o.SetPosition(image.Pt(12, 34))
	d.Commit()
	assert.Equal(t, uint16(12), mem.Read16(hw.OAM+2)&0x1ff)

	// empty tile releases its slot and still dirties the map
	m.SetTile(d.VRAM(), image.Pt(0, 0), ts, background.NewTileSetting(0, false, false, 0))
	assert.True(t, m.Dirty())
	assert.Zero(t, d.VRAM().SlotsInUse())

	o.Release()
	m.Release()
}

func TestDisplay_CloseInvalidatesLeases(t *testing.T) {
	mem := hw.NewMemory()
	d, err := New(mem)
	require.NoError(t, err)

	m := d.Tiled0().Background(hw.P0)
	s := object.NewSprite(palette.New(), make([]byte, object.BytesPerTile), object.S8x8)
	o := d.Objects().Object(d.Objects().Sprite(&s))
	d.Close()

	next, err := New(hw.NewMemory())
	require.NoError(t, err)
	defer next.Close()

	before := mem.Read16(hw.DisplayControl)
	assert.Panics(t, func() { m.Hide() })
	assert.Panics(t, func() { o.SetX(5) })
	assert.Equal(t, before, mem.Read16(hw.DisplayControl))

	assert.NotPanics(t, o.Release)
	assert.NotPanics(t, m.Release)
}
