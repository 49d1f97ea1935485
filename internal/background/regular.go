package background

import (
	"image"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
)

// MapSize is the width and height of a regular map in tiles.
const MapSize = 32

// RegularMap is a 32x32 tile grid bound to one hardware background layer.
// Cells are committed to the layer's screenblock only for the visible window.
type RegularMap struct {
	bus  hw.Bus
	pool *Tiled0

	backgroundID uint8
	screenblock  uint8
	xScroll      uint16
	yScroll      uint16
	priority     hw.Priority

	tiles      [MapSize * MapSize]Tile
	tilesDirty bool

	// scroll window of the last screenblock write; a moved window is rewritten
	committedScroll image.Point
	committed       bool

	released bool
}

func newRegularMap(pool *Tiled0, backgroundID, screenblock uint8, priority hw.Priority) *RegularMap {
	return &RegularMap{
		bus:          pool.bus,
		pool:         pool,
		backgroundID: backgroundID,
		screenblock:  screenblock,
		priority:     priority,
		tilesDirty:   true,
	}
}

// check panics once the layer lease is gone; the layer may belong to someone else.
func (m *RegularMap) check() {
	if m.released {
		panic("background: use of released background layer")
	}
	if m.pool.closed {
		panic("background: use of background layer after display close")
	}
}

// SetTile places the tile selected by setting from tileset h at grid position pos.
// Index 0 in setting clears the cell.
func (m *RegularMap) SetTile(vram *VRAMManager, pos image.Point, h TileSetHandle, setting TileSetting) {
	m.check()
	i := cellIndex(pos)

	old := m.tiles[i]
	if old != 0 && old.setting() == setting.setting() {
		if slot, ok := vram.cached(h, setting.Index()); ok && slot == old.Index() {
			return
		}
	}
	if old != 0 {
		vram.removeTile(old.Index())
	}

	var tile Tile
	if idx := setting.Index(); idx != 0 {
		tile = newTile(vram.addTile(h, idx), setting)
	}

	if old == tile {
		// no need to mark as dirty if nothing changes
		return
	}
	m.tiles[i] = tile
	m.tilesDirty = true
}

// Tile returns the packed cell at pos.
func (m *RegularMap) Tile(pos image.Point) Tile { return m.tiles[cellIndex(pos)] }

func cellIndex(pos image.Point) int {
	if pos.X < 0 || pos.X >= MapSize || pos.Y < 0 || pos.Y >= MapSize {
		panic("background: map position out of range")
	}
	return pos.X + pos.Y*MapSize
}

// Clear releases every non-empty cell.
func (m *RegularMap) Clear(vram *VRAMManager) {
	m.check()
	for i, t := range m.tiles {
		if t == 0 {
			continue
		}
		vram.removeTile(t.Index())
		m.tiles[i] = 0
		m.tilesDirty = true
	}
}

// Show enables the layer in the display control register.
func (m *RegularMap) Show() {
	m.check()
	mode := m.bus.Read16(hw.DisplayControl)
	m.bus.Write16(hw.DisplayControl, mode|hw.DispBG0<<m.backgroundID)
}

// Hide disables the layer in the display control register.
func (m *RegularMap) Hide() {
	m.check()
	mode := m.bus.Read16(hw.DisplayControl)
	m.bus.Write16(hw.DisplayControl, mode&^(hw.DispBG0<<m.backgroundID))
}

// Commit writes the control and scroll registers, and the visible part of the
// grid if it changed or the window moved.
func (m *RegularMap) Commit() {
	m.check()
	control := uint16(m.priority) | uint16(m.screenblock)<<8
	m.bus.Write16(hw.BGControl(m.backgroundID), control)
	m.bus.Write16(hw.BGHOffset(m.backgroundID), m.xScroll)
	m.bus.Write16(hw.BGVOffset(m.backgroundID), m.yScroll)

	scroll := m.ScrollPos()
	if !m.tilesDirty && m.committed && scroll == m.committedScroll {
		return
	}

	base := hw.Screenblock(m.screenblock)

	startX := scroll.X / 8
	endX := divCeil(scroll.X+hw.Width, 8) + 1
	startY := scroll.Y / 8
	endY := divCeil(scroll.Y+hw.Height, 8) + 1

	for y := startY; y < endY; y++ {
		for x := startX; x < endX; x++ {
			id := remEuclid(y, MapSize)*MapSize + remEuclid(x, MapSize)
			m.bus.Write16(base+uint32(id)*2, uint16(m.tiles[id]))
		}
	}

	m.tilesDirty = false
	m.committed = true
	m.committedScroll = scroll
}

// SetScrollPos sets the hardware scroll offset in pixels.
func (m *RegularMap) SetScrollPos(pos image.Point) {
	m.check()
	m.xScroll = uint16(pos.X)
	m.yScroll = uint16(pos.Y)
}

// ScrollPos returns the hardware scroll offset in pixels.
func (m *RegularMap) ScrollPos() image.Point {
	return image.Pt(int(m.xScroll), int(m.yScroll))
}

// BackgroundID returns the hardware layer (0..3).
func (m *RegularMap) BackgroundID() uint8 { return m.backgroundID }

// Screenblock returns the screenblock the map commits to.
func (m *RegularMap) Screenblock() uint8 { return m.screenblock }

// Dirty reports whether cells changed since the last commit.
func (m *RegularMap) Dirty() bool { return m.tilesDirty }
