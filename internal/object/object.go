package object

import (
	"image"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
)

// Object is a leased row of the object attribute table. Setters only change
// the shadow copy; nothing reaches hardware until Controller.Commit.
type Object struct {
	c        *Controller
	row      uint8
	inner    *objectInner
	sprite   *SpriteLease
	previous *SpriteLease
	released bool
}

func (o *Object) attrs() *Attributes {
	if o.released {
		panic("object: use of released object")
	}
	o.c.check()
	return &o.inner.attrs
}

// SetSprite switches to sprite, taking ownership of the lease. The sprite
// shown before stays loaded until the following SetSprite or Release, since
// hardware may still read it until the next commit. Passing the lease already
// shown does nothing.
func (o *Object) SetSprite(sprite *SpriteLease) *Object {
	if sprite == o.sprite {
		o.attrs()
		return o
	}
	sprite.mustBeLive()
	o.attrs().setSprite(sprite.spriteLocation, sprite.paletteLocation, sprite.sprite.size)
	if sprite != o.previous {
		o.previous.Release()
	}
	o.previous = o.sprite
	o.sprite = sprite
	return o
}

func (o *Object) Show() *Object {
	o.attrs().setMode(ModeNormal)
	return o
}

func (o *Object) Hide() *Object {
	o.attrs().setMode(ModeDisabled)
	return o
}

func (o *Object) SetHFlip(flip bool) *Object {
	o.attrs().setHFlip(flip)
	return o
}

func (o *Object) SetVFlip(flip bool) *Object {
	o.attrs().setVFlip(flip)
	return o
}

// SetX sets the horizontal position, wrapping at 512.
func (o *Object) SetX(x int) *Object {
	o.attrs().setX(uint16(x & 0x1ff))
	return o
}

// SetY sets the vertical position, wrapping at 256.
func (o *Object) SetY(y int) *Object {
	o.attrs().setY(uint16(y & 0xff))
	return o
}

func (o *Object) SetPosition(p image.Point) *Object {
	return o.SetX(p.X).SetY(p.Y)
}

func (o *Object) SetPriority(p hw.Priority) *Object {
	o.attrs().setPriority(p)
	return o
}

// SetZ moves the object in the draw order; lower z is committed to a lower
// hardware row and so drawn on top.
func (o *Object) SetZ(z int32) *Object {
	o.attrs()
	o.inner.z = z
	o.c.updateZOrdering()
	return o
}

func (o *Object) Z() int32 { return o.inner.z }

// Row is the logical attribute row held by the lease.
func (o *Object) Row() int { return int(o.row) }

// Attributes returns a copy of the shadow attributes.
func (o *Object) Attributes() Attributes { return *o.attrs() }

// Release frees the row and drops both sprite leases. Later calls are no-ops.
func (o *Object) Release() {
	if o.released {
		return
	}
	o.released = true
	o.c.freeRow(o.row)
	o.c.updateZOrdering()
	o.sprite.Release()
	o.previous.Release()
}
