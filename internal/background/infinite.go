package background

import (
	"image"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/logger"
)

// TileFunc returns the tile to show at a logical tile coordinate.
type TileFunc func(pos image.Point) (TileSetHandle, TileSetting)

const (
	// jumpThreshold is the per-axis pixel delta above which SetPos repopulates everything.
	jumpThreshold = 10 * 8

	columnTiles = 22 // rows touched when a column is exposed
	rowTiles    = 32 // columns touched when a row is exposed

	// visible tile span past the first visible tile, including the partially visible one
	visibleColumns = hw.Width / 8
	visibleRows    = hw.Height / 8

	wrapPixels = MapSize * 8
)

// InfiniteScrolledMap maps an unbounded logical tile space onto a wrapping RegularMap.
// Grid cell (x, y) holds logical tile (x+offset.X, y+offset.Y) mod 32.
type InfiniteScrolledMap struct {
	m       *MapLoan
	getTile TileFunc

	currentPos image.Point
	offset     image.Point
}

func NewInfiniteScrolledMap(m *MapLoan, getTile TileFunc) *InfiniteScrolledMap {
	return &InfiniteScrolledMap{m: m, getTile: getTile}
}

// Init repopulates the whole visible window for logical pixel position pos.
func (s *InfiniteScrolledMap) Init(vram *VRAMManager, pos image.Point) {
	s.currentPos = pos

	xStart := divFloor(pos.X, 8)
	yStart := divFloor(pos.Y, 8)
	xEnd := divCeil(pos.X+hw.Width, 8) + 1
	yEnd := divCeil(pos.Y+hw.Height, 8) + 1

	for yIdx, y := 0, yStart; y < yEnd; yIdx, y = yIdx+1, y+1 {
		for xIdx, x := 0, xStart; x < xEnd; xIdx, x = xIdx+1, x+1 {
			h, setting := s.getTile(image.Pt(x, y))
			s.m.SetTile(vram, image.Pt(xIdx, yIdx), h, setting)
		}
	}

	offset := pos.Sub(image.Pt(xStart*8, yStart*8))
	s.m.SetScrollPos(image.Pt(remEuclid(offset.X, wrapPixels), remEuclid(offset.Y, wrapPixels)))
	s.offset = image.Pt(xStart, yStart)
}

// SetPos moves the window to logical pixel position pos, fetching only the
// tiles that became exposed. Moves beyond 10 tiles on either axis repopulate.
func (s *InfiniteScrolledMap) SetPos(vram *VRAMManager, pos image.Point) {
	old := s.currentPos
	diff := pos.Sub(old)

	if abs(diff.X) > jumpThreshold || abs(diff.Y) > jumpThreshold {
		logger.L.Debug("scrolled map jump, repopulating", "from", old, "to", pos)
		s.Init(vram, pos)
		return
	}
	s.currentPos = pos

	oldTileX, newTileX := divFloor(old.X, 8), divFloor(pos.X, 8)
	oldTileY, newTileY := divFloor(old.Y, 8), divFloor(pos.Y, 8)

	if oldTileX != newTileX {
		from, to := exposed(oldTileX, newTileX, visibleColumns)
		for x := from; x < to; x++ {
			for y := newTileY - 1; y < newTileY-1+columnTiles; y++ {
				s.fetch(vram, x, y)
			}
		}
	}
	if oldTileY != newTileY {
		from, to := exposed(oldTileY, newTileY, visibleRows)
		for y := from; y < to; y++ {
			for x := newTileX - 1; x < newTileX-1+rowTiles; x++ {
				s.fetch(vram, x, y)
			}
		}
	}

	scroll := s.m.ScrollPos()
	s.m.SetScrollPos(image.Pt(
		remEuclid(scroll.X+diff.X, wrapPixels),
		remEuclid(scroll.Y+diff.Y, wrapPixels),
	))
}

// exposed returns the half-open range of tile lines on the leading edge when
// the first visible line moves from old to cur and span lines follow it.
func exposed(old, cur, span int) (int, int) {
	if cur < old {
		return cur, old
	}
	return old + span + 1, cur + span + 1
}

func (s *InfiniteScrolledMap) fetch(vram *VRAMManager, x, y int) {
	h, setting := s.getTile(image.Pt(x, y))
	grid := image.Pt(remEuclid(x-s.offset.X, MapSize), remEuclid(y-s.offset.Y, MapSize))
	s.m.SetTile(vram, grid, h, setting)
}

// Pos returns the current logical pixel position.
func (s *InfiniteScrolledMap) Pos() image.Point { return s.currentPos }

// Map returns the underlying layer lease.
func (s *InfiniteScrolledMap) Map() *MapLoan { return s.m }

func (s *InfiniteScrolledMap) Show()   { s.m.Show() }
func (s *InfiniteScrolledMap) Hide()   { s.m.Hide() }
func (s *InfiniteScrolledMap) Commit() { s.m.Commit() }

// Clear releases every tile the map references.
func (s *InfiniteScrolledMap) Clear(vram *VRAMManager) { s.m.Clear(vram) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
