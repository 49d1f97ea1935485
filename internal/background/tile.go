package background

// TileFormat describes how pixel data is packed in a tileset.
type TileFormat int

const (
	FourBpp TileFormat = iota
)

// TileSize returns the size of one tile in bytes.
func (f TileFormat) TileSize() int {
	switch f {
	case FourBpp:
		return 8 * 8 / 2
	}
	panic("background: unknown tile format")
}

// words returns the size of one tile in 32-bit words.
func (f TileFormat) words() int { return f.TileSize() / 4 }

// TileSet is a caller-owned buffer of tile pixel data. It is never modified.
type TileSet struct {
	tiles  []uint32
	format TileFormat
}

func NewTileSet(tiles []uint32, format TileFormat) TileSet {
	return TileSet{tiles: tiles, format: format}
}

// Len returns the number of whole tiles in the set.
func (ts TileSet) Len() int { return len(ts.tiles) / ts.format.words() }

func (ts TileSet) tile(i uint16) []uint32 {
	n := ts.format.words()
	off := int(i) * n
	if off+n > len(ts.tiles) {
		panic("background: tile index out of range for tileset")
	}
	return ts.tiles[off : off+n]
}

const (
	indexMask = (1 << 10) - 1
	hflipBit  = 1 << 10
	vflipBit  = 1 << 11
)

// TileSetting selects a tile within a tileset plus its flip and palette-bank bits.
// It has the same layout as a screenblock entry.
type TileSetting uint16

func NewTileSetting(tileID uint16, hflip, vflip bool, paletteID uint8) TileSetting {
	v := tileID & indexMask
	if hflip {
		v |= hflipBit
	}
	if vflip {
		v |= vflipBit
	}
	v |= uint16(paletteID&0xF) << 12
	return TileSetting(v)
}

// Index returns the tile index within its tileset; 0 means empty.
func (s TileSetting) Index() uint16 { return uint16(s) & indexMask }

func (s TileSetting) setting() uint16 { return uint16(s) &^ indexMask }

// TileIndex is a physical slot in the background tile store.
type TileIndex uint16

// Tile is a packed screenblock entry: slot index, flips, palette bank.
// The zero value is the empty cell.
type Tile uint16

func newTile(idx TileIndex, s TileSetting) Tile {
	return Tile(uint16(idx) | s.setting())
}

func (t Tile) Index() TileIndex { return TileIndex(uint16(t) & indexMask) }
func (t Tile) HFlip() bool      { return uint16(t)&hflipBit != 0 }
func (t Tile) VFlip() bool      { return uint16(t)&vflipBit != 0 }
func (t Tile) Palette() uint8   { return uint8(uint16(t) >> 12) }
func (t Tile) setting() uint16  { return uint16(t) &^ indexMask }
