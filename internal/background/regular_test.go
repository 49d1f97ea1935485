package background

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw/hwtest"
)

type mapFixture struct {
	bus  *hwtest.Recorder
	vram *VRAMManager
	pool *Tiled0
	m    *MapLoan
	ts   TileSetHandle
}

func newMapFixture(t *testing.T) *mapFixture {
	t.Helper()
	bus := hwtest.NewRecorder()
	f := &mapFixture{bus: bus, vram: NewVRAMManager(bus), pool: NewTiled0(bus)}
	f.ts = f.vram.AddTileset(patternTiles(64))
	f.m = f.pool.Background(hw.P1)
	t.Cleanup(f.m.Release)
	return f
}

func TestRegularMap_SharedTileUsesOneSlot(t *testing.T) {
	f := newMapFixture(t)
	s := NewTileSetting(5, false, false, 0)

	f.m.SetTile(f.vram, image.Pt(0, 0), f.ts, s)
	f.m.SetTile(f.vram, image.Pt(7, 3), f.ts, s)

	a, b := f.m.Tile(image.Pt(0, 0)), f.m.Tile(image.Pt(7, 3))
	assert.Equal(t, a.Index(), b.Index())
	assert.Equal(t, 2, f.vram.RefCount(a.Index()))
	assert.Equal(t, 1, f.vram.SlotsInUse())
}

func TestRegularMap_PacksFlipAndPalette(t *testing.T) {
	f := newMapFixture(t)
	f.m.SetTile(f.vram, image.Pt(1, 1), f.ts, NewTileSetting(9, true, false, 12))

	tile := f.m.Tile(image.Pt(1, 1))
	assert.True(t, tile.HFlip())
	assert.False(t, tile.VFlip())
	assert.Equal(t, uint8(12), tile.Palette())
	assert.Equal(t, TileIndex(1), tile.Index(), "physical slot, not tileset index")
}

func TestRegularMap_UnchangedTileIsNotDirty(t *testing.T) {
	f := newMapFixture(t)
	s := NewTileSetting(5, false, false, 0)
	f.m.SetTile(f.vram, image.Pt(2, 2), f.ts, s)
	f.m.Commit()
	require.False(t, f.m.Dirty())

	f.m.SetTile(f.vram, image.Pt(2, 2), f.ts, s)
	assert.False(t, f.m.Dirty())
	assert.Equal(t, 1, f.vram.RefCount(f.m.Tile(image.Pt(2, 2)).Index()))

	f.m.SetTile(f.vram, image.Pt(4, 4), f.ts, NewTileSetting(0, false, false, 0))
	assert.False(t, f.m.Dirty(), "empty over empty is a no-op")
}

// TestRegularMap_ClearCellReleasesSlot covers setting a non-empty cell to the empty tile.
func TestRegularMap_ClearCellReleasesSlot(t *testing.T) {
	f := newMapFixture(t)
	f.m.SetTile(f.vram, image.Pt(0, 0), f.ts, NewTileSetting(5, false, false, 0))
	slot := f.m.Tile(image.Pt(0, 0)).Index()
	f.m.Commit()

	f.m.SetTile(f.vram, image.Pt(0, 0), f.ts, NewTileSetting(0, false, false, 0))

	assert.Equal(t, Tile(0), f.m.Tile(image.Pt(0, 0)))
	assert.Zero(t, f.vram.RefCount(slot))
	assert.True(t, f.m.Dirty())
}

func TestRegularMap_Clear(t *testing.T) {
	f := newMapFixture(t)
	for i := 0; i < 10; i++ {
		f.m.SetTile(f.vram, image.Pt(i, i), f.ts, NewTileSetting(uint16(i%3+1), false, false, 0))
	}
	require.Equal(t, 3, f.vram.SlotsInUse())
	f.m.Commit()

	f.m.Clear(f.vram)
	assert.Zero(t, f.vram.SlotsInUse())
	assert.Zero(t, f.vram.CachedTiles())
	assert.True(t, f.m.Dirty())
}

func TestRegularMap_CommitRegisters(t *testing.T) {
	f := newMapFixture(t)
	f.m.SetScrollPos(image.Pt(13, 200))
	f.m.Commit()

	assert.Equal(t, uint16(hw.P1)|16<<8, f.bus.Read16(hw.BGControl(0)))
	assert.Equal(t, uint16(13), f.bus.Read16(hw.BGHOffset(0)))
	assert.Equal(t, uint16(200), f.bus.Read16(hw.BGVOffset(0)))
}

// TestRegularMap_CommitWritesOnlyViewport checks that only the visible window plus a guard border is written.
func TestRegularMap_CommitWritesOnlyViewport(t *testing.T) {
	f := newMapFixture(t)
	sb := hw.Screenblock(f.m.Screenblock())
	for i := uint32(0); i < MapSize*MapSize; i++ {
		f.bus.Memory.Write16(sb+i*2, 0xFFFF)
	}

	s := NewTileSetting(5, false, false, 0)
	f.m.SetTile(f.vram, image.Pt(3, 3), f.ts, s)   // visible
	f.m.SetTile(f.vram, image.Pt(31, 25), f.ts, s) // off-screen
	f.bus.ResetCounts()
	f.m.Commit()

	// 31 columns (0..30) x 21 rows (0..20) at scroll (0,0)
	assert.Equal(t, 31*21, f.bus.WritesIn(sb, sb+0x800))
	assert.Equal(t, uint16(f.m.Tile(image.Pt(3, 3))), f.bus.Read16(sb+(3*32+3)*2))
	assert.Equal(t, uint16(0xFFFF), f.bus.Read16(sb+(25*32+31)*2), "off-screen cell untouched")
	assert.Equal(t, uint16(0xFFFF), f.bus.Read16(sb+(21*32+0)*2), "row below the guard untouched")

	// nothing changed: only registers are rewritten
	f.bus.ResetCounts()
	f.m.Commit()
	assert.Zero(t, f.bus.WritesIn(sb, sb+0x800))
	assert.Equal(t, 1, f.bus.Writes16[hw.BGControl(0)])

	// scrolling the off-screen cell into view writes it even without new tiles
	f.m.SetScrollPos(image.Pt(8*8, 8*8))
	f.m.Commit()
	assert.Equal(t, uint16(f.m.Tile(image.Pt(31, 25))), f.bus.Read16(sb+(25*32+31)*2))
}

func TestRegularMap_CommitWrapsWindow(t *testing.T) {
	f := newMapFixture(t)
	sb := hw.Screenblock(f.m.Screenblock())
	f.m.SetScrollPos(image.Pt(30*8+4, 28*8))
	f.bus.ResetCounts()
	f.m.Commit()

	// unaligned x: 32 columns; aligned y: 21 rows wrapping past row 31
	assert.Equal(t, 32*21, f.bus.WritesIn(sb, sb+0x800))
	assert.Equal(t, 1, f.bus.Writes16[sb+(0*32+0)*2], "wrapped cell written once")
	assert.Zero(t, f.bus.Writes16[sb+(20*32+0)*2], "row 20 is outside the wrapped window")
}

func TestRegularMap_ShowHide(t *testing.T) {
	f := newMapFixture(t)
	second := f.pool.Background(hw.P0)
	defer second.Release()

	second.Show()
	f.m.Show()
	assert.Equal(t, uint16(hw.DispBG0|hw.DispBG0<<1), f.bus.Read16(hw.DisplayControl))

	f.m.Hide()
	assert.Equal(t, uint16(hw.DispBG0<<1), f.bus.Read16(hw.DisplayControl))
}

func TestTiled0_FourLayers(t *testing.T) {
	bus := hw.NewMemory()
	pool := NewTiled0(bus)

	var loans []*MapLoan
	for i := 0; i < MaxBackgrounds; i++ {
		l := pool.Background(hw.P0)
		assert.Equal(t, uint8(i), l.BackgroundID())
		assert.Equal(t, uint8(i+16), l.Screenblock())
		loans = append(loans, l)
	}
	assert.Equal(t, 4, pool.InUse())

	assert.Panics(t, func() { pool.Background(hw.P0) })
	_, err := pool.TryBackground(hw.P0)
	assert.ErrorIs(t, err, ErrNoBackground)

	loans[1].Release()
	loans[1].Release() // no-op
	assert.Equal(t, 3, pool.InUse())

	again := pool.Background(hw.P2)
	assert.Equal(t, uint8(1), again.BackgroundID(), "lowest free layer is reused")
}

func TestTiled0_SelectsMode0(t *testing.T) {
	bus := hw.NewMemory()
	bus.Write16(hw.DisplayControl, 0x0403)
	NewTiled0(bus)
	assert.Equal(t, uint16(0x0400), bus.Read16(hw.DisplayControl))
}

func TestReleaseKeepsTiles(t *testing.T) {
	f := newMapFixture(t)
	f.m.SetTile(f.vram, image.Pt(0, 0), f.ts, NewTileSetting(1, false, false, 0))
	f.m.Release()
	assert.Equal(t, 1, f.vram.SlotsInUse(), "release does not clear content")
}

func TestReleasedLoanCannotTouchLayer(t *testing.T) {
	f := newMapFixture(t)
	old := f.m
	old.Release()

	fresh := f.pool.Background(hw.P0)
	defer fresh.Release()
	require.Equal(t, old.BackgroundID(), fresh.BackgroundID(), "same layer handed out again")

	fresh.SetTile(f.vram, image.Pt(0, 0), f.ts, NewTileSetting(3, false, false, 0))
	fresh.Show()
	fresh.Commit()
	sb := hw.Screenblock(fresh.Screenblock())
	cell := f.bus.Read16(sb)

	s := NewTileSetting(9, false, false, 0)
	assert.Panics(t, func() { old.SetTile(f.vram, image.Pt(0, 0), f.ts, s) })
	assert.Panics(t, func() { old.Commit() })
	assert.Panics(t, func() { old.Hide() })
	assert.Panics(t, func() { old.Show() })
	assert.Panics(t, func() { old.SetScrollPos(image.Pt(8, 8)) })
	assert.Panics(t, func() { old.Clear(f.vram) })
	assert.NotPanics(t, old.Release)

	assert.Equal(t, cell, f.bus.Read16(sb))
	assert.NotZero(t, f.bus.Read16(hw.DisplayControl)&hw.DispBG0, "layer stays enabled")
}

func TestRegularMap_SameTileSkipsCopy(t *testing.T) {
	f := newMapFixture(t)
	s := NewTileSetting(5, true, false, 2)
	f.m.SetTile(f.vram, image.Pt(1, 2), f.ts, s)
	f.m.Commit()

	f.bus.ResetCounts()
	f.m.SetTile(f.vram, image.Pt(1, 2), f.ts, s)
	assert.Zero(t, f.bus.Copies)
	assert.False(t, f.m.Dirty())
	assert.Equal(t, 1, f.vram.RefCount(f.m.Tile(image.Pt(1, 2)).Index()))

	// same tile, different flip: the cell changes
	f.m.SetTile(f.vram, image.Pt(1, 2), f.ts, NewTileSetting(5, false, false, 2))
	assert.True(t, f.m.Dirty())
	assert.False(t, f.m.Tile(image.Pt(1, 2)).HFlip())
	assert.Equal(t, 1, f.vram.SlotsInUse())
}

func TestTiled0_CloseInvalidatesLoans(t *testing.T) {
	f := newMapFixture(t)
	f.pool.Close()

	assert.Panics(t, func() { f.m.SetTile(f.vram, image.Pt(0, 0), f.ts, NewTileSetting(1, false, false, 0)) })
	assert.Panics(t, func() { f.m.Commit() })
	assert.Panics(t, func() { f.pool.TryBackground(hw.P0) })
	assert.NotPanics(t, f.m.Release)
	assert.Zero(t, f.pool.InUse())
}
