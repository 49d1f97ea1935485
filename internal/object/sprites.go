package object

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/alloc"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/logger"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/palette"
)

var (
	// ErrNoSpriteMemory indicates the sprite tile store has no block large enough.
	ErrNoSpriteMemory = errors.New("object: no sprite memory available")

	// ErrNoPaletteMemory indicates all 16 sprite palette banks are in use.
	ErrNoPaletteMemory = errors.New("object: no sprite palette available")
)

// storage is a reference-counted VRAM block, location in 32-byte units.
type storage struct {
	location uint16
	count    uint16
}

// spriteController deduplicates sprite pixel data and palettes by identity.
type spriteController struct {
	bus      hw.Bus
	tiles    *alloc.BlockAllocator
	palettes *alloc.BlockAllocator

	sprite  map[*Sprite]*storage
	palette map[*palette.Palette16]*storage
}

func newSpriteController(bus hw.Bus) *spriteController {
	return &spriteController{
		bus:      bus,
		tiles:    alloc.NewBlock(hw.TileSprite, hw.TileSprite+hw.SpriteTileSize),
		palettes: alloc.NewBlock(hw.PaletteSprite, hw.PaletteSprite+hw.SpritePaletteSize),
		sprite:   make(map[*Sprite]*storage),
		palette:  make(map[*palette.Palette16]*storage),
	}
}

func (c *spriteController) trySprite(s *Sprite) (*SpriteLease, error) {
	if st, ok := c.sprite[s]; ok {
		st.count++
		pal, err := c.palettePin(s.palette)
		if err != nil {
			// a live sprite always pins its palette
			panic(fmt.Sprintf("object: corrupted palette state: %v", err))
		}
		return &SpriteLease{c: c, sprite: s, spriteLocation: st.location, paletteLocation: pal}, nil
	}

	block, err := c.tiles.Alloc(s.byteSize(), 8)
	if err != nil {
		logger.L.Debug("sprite allocation failed", "size", s.size, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrNoSpriteMemory, err)
	}
	pal, err := c.palettePin(s.palette)
	if err != nil {
		c.free(c.tiles, block)
		return nil, err
	}

	c.bus.Copy16(block.Addr, halfwords(s.data))

	st := &storage{location: uint16((block.Addr - hw.TileSprite) / BytesPerTile), count: 1}
	c.sprite[s] = st
	return &SpriteLease{c: c, sprite: s, spriteLocation: st.location, paletteLocation: pal}, nil
}

// palettePin returns the bank holding p, loading it on first use.
func (c *spriteController) palettePin(p *palette.Palette16) (uint16, error) {
	if st, ok := c.palette[p]; ok {
		st.count++
		return st.location, nil
	}
	block, err := c.palettes.Alloc(palette.Size, 2)
	if err != nil {
		logger.L.Debug("sprite palette allocation failed", "err", err)
		return 0, fmt.Errorf("%w: %v", ErrNoPaletteMemory, err)
	}
	c.bus.Copy16(block.Addr, p.Colours[:])

	st := &storage{location: uint16((block.Addr - hw.PaletteSprite) / palette.Size), count: 1}
	c.palette[p] = st
	return st.location, nil
}

func (c *spriteController) returnSprite(s *Sprite) {
	if st, ok := c.sprite[s]; ok {
		st.count--
		if st.count == 0 {
			addr := hw.TileSprite + uint32(st.location)*BytesPerTile
			c.free(c.tiles, alloc.Block{Addr: addr, Size: s.byteSize()})
			delete(c.sprite, s)
		}
	}
	c.returnPalette(s.palette)
}

func (c *spriteController) returnPalette(p *palette.Palette16) {
	st, ok := c.palette[p]
	if !ok {
		return
	}
	st.count--
	if st.count == 0 {
		addr := hw.PaletteSprite + uint32(st.location)*palette.Size
		c.free(c.palettes, alloc.Block{Addr: addr, Size: palette.Size})
		delete(c.palette, p)
	}
}

func (c *spriteController) free(a *alloc.BlockAllocator, b alloc.Block) {
	if err := a.Free(b); err != nil {
		panic(fmt.Sprintf("object: corrupted sprite memory: %v", err))
	}
}

// halfwords reinterprets little-endian pixel bytes for a 16-bit copy.
func halfwords(b []byte) []uint16 {
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return out
}

// SpriteLease pins a sprite's pixel data and palette in VRAM. Release it when
// done; the memory is reclaimed once the last lease on the same sprite is gone.
type SpriteLease struct {
	c               *spriteController
	sprite          *Sprite
	spriteLocation  uint16
	paletteLocation uint16
	released        bool
}

func (l *SpriteLease) mustBeLive() {
	if l.released {
		panic("object: use of released sprite lease")
	}
}

// Clone returns a second lease on the same sprite.
func (l *SpriteLease) Clone() *SpriteLease {
	l.mustBeLive()
	l.c.sprite[l.sprite].count++
	if _, err := l.c.palettePin(l.sprite.palette); err != nil {
		panic(fmt.Sprintf("object: corrupted palette state: %v", err))
	}
	cp := *l
	return &cp
}

// Release drops the lease. Calls after the first are no-ops.
func (l *SpriteLease) Release() {
	if l == nil || l.released {
		return
	}
	l.released = true
	l.c.returnSprite(l.sprite)
}

func (l *SpriteLease) Sprite() *Sprite { return l.sprite }

// TileIndex is the first sprite tile the data occupies.
func (l *SpriteLease) TileIndex() uint16 { return l.spriteLocation }

// PaletteBank is the sprite palette bank in use.
func (l *SpriteLease) PaletteBank() uint16 { return l.paletteLocation }
