package object

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/logger"
)

const (
	// NumObjects is the number of rows in the object attribute table.
	NumObjects = 128
	// NumAffine is the number of affine parameter sets.
	NumAffine = 32
)

// ErrNoObject indicates every object attribute row is leased.
var ErrNoObject = errors.New("object: no object available")

type objectInner struct {
	attrs Attributes
	z     int32
}

// Controller owns the shadow copy of the object attribute table and the
// sprite/palette cache. Mutations only touch the shadow; Commit writes all
// 128 rows in ascending z order.
type Controller struct {
	bus     hw.Bus
	sprites *spriteController

	shadow     [NumObjects]*objectInner
	zOrder     [NumObjects]uint8
	freeObject []uint8
	freeAffine []uint8
	closed     bool
}

// NewController enables objects with 1-D tile mapping and hides every row.
func NewController(bus hw.Bus) *Controller {
	hw.SetBits(bus, hw.DisplayControl, 1, 1, 6)
	hw.SetBits(bus, hw.DisplayControl, 1, 1, 12)
	hw.SetBits(bus, hw.DisplayControl, 0, 1, 7)

	c := &Controller{
		bus:        bus,
		sprites:    newSpriteController(bus),
		freeObject: make([]uint8, 0, NumObjects),
		freeAffine: make([]uint8, 0, NumAffine),
	}
	for i := range NumObjects {
		commitHidden(bus, i)
		c.zOrder[i] = uint8(i)
		c.freeObject = append(c.freeObject, uint8(i))
	}
	for i := range NumAffine {
		c.freeAffine = append(c.freeAffine, uint8(i))
	}
	logger.L.Debug("object controller initialised")
	return c
}

// Commit writes the shadow table to hardware. Rank i of the z order lands in
// hardware row i; free rows are written as hidden.
func (c *Controller) Commit() {
	c.check()
	for i, row := range c.zOrder {
		if o := c.shadow[row]; o != nil {
			o.attrs.commit(c.bus, i)
		} else {
			commitHidden(c.bus, i)
		}
	}
}

// TrySprite loads s into sprite memory, or shares an existing copy.
func (c *Controller) TrySprite(s *Sprite) (*SpriteLease, error) {
	c.check()
	return c.sprites.trySprite(s)
}

// Sprite is TrySprite that panics when sprite memory is exhausted.
func (c *Controller) Sprite(s *Sprite) *SpriteLease {
	l, err := c.TrySprite(s)
	if err != nil {
		panic(err)
	}
	return l
}

// TryObject leases a row showing sprite at z 0. On success the object owns the
// sprite lease; on failure the caller keeps it. A released lease panics.
func (c *Controller) TryObject(sprite *SpriteLease) (*Object, error) {
	c.check()
	sprite.mustBeLive()
	n := len(c.freeObject)
	if n == 0 {
		logger.L.Debug("object table exhausted")
		return nil, ErrNoObject
	}
	row := c.freeObject[n-1]
	c.freeObject = c.freeObject[:n-1]

	inner := &objectInner{}
	inner.attrs.setSprite(sprite.spriteLocation, sprite.paletteLocation, sprite.sprite.size)
	c.shadow[row] = inner
	c.updateZOrdering()

	return &Object{c: c, row: row, inner: inner, sprite: sprite}, nil
}

// Object is TryObject that panics when no row is free.
func (c *Controller) Object(sprite *SpriteLease) *Object {
	o, err := c.TryObject(sprite)
	if err != nil {
		panic(err)
	}
	return o
}

// Close invalidates the controller. Objects still held panic on use, but
// releasing them stays safe.
func (c *Controller) Close() { c.closed = true }

func (c *Controller) check() {
	if c.closed {
		panic("object: use of closed object controller")
	}
}

// FreeObjects reports how many rows can still be leased.
func (c *Controller) FreeObjects() int { return len(c.freeObject) }

// FreeAffine reports how many affine parameter sets are unclaimed.
func (c *Controller) FreeAffine() int { return len(c.freeAffine) }

// SpriteMemoryAvailable reports free bytes in the sprite tile store.
func (c *Controller) SpriteMemoryAvailable() uint32 { return c.sprites.tiles.Available() }

// PalettesInUse reports how many sprite palette banks are loaded.
func (c *Controller) PalettesInUse() int { return len(c.sprites.palette) }

// updateZOrdering stable-sorts rows by z, free rows last.
func (c *Controller) updateZOrdering() {
	key := func(row uint8) int32 {
		if o := c.shadow[row]; o != nil {
			return o.z
		}
		return math.MaxInt32
	}
	slices.SortStableFunc(c.zOrder[:], func(a, b uint8) int {
		return cmp.Compare(key(a), key(b))
	})
}

func (c *Controller) freeRow(row uint8) {
	c.shadow[row] = nil
	c.freeObject = append(c.freeObject, row)
}
