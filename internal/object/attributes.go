package object

import (
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
)

// Mode is the object rendering mode held in attribute 0.
type Mode uint16

const (
	ModeNormal Mode = iota
	ModeAffine
	ModeDisabled
	ModeAffineDouble
)

// hiddenValue is attribute 0 with the disabled mode and everything else cleared.
const hiddenValue = uint16(ModeDisabled) << 8

// field describes count bits at shift.
type field struct{ shift, count uint16 }

var (
	a0Y     = field{0, 8}
	a0Mode  = field{8, 2}
	a0Shape = field{14, 2}

	a1X     = field{0, 9}
	a1HFlip = field{12, 1}
	a1VFlip = field{13, 1}
	a1Size  = field{14, 2}

	a2Tile     = field{0, 10}
	a2Priority = field{10, 2}
	a2Palette  = field{12, 4}
)

func (f field) set(dst *uint16, v uint16) {
	mask := uint16(1<<f.count-1) << f.shift
	*dst = *dst&^mask | (v<<f.shift)&mask
}

func (f field) get(src uint16) uint16 {
	return src >> f.shift & (1<<f.count - 1)
}

func boolBit(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

// Attributes is the shadow copy of one object-table row. Attribute 1 is kept in
// both its standard and affine layouts; the mode picks which one is committed.
type Attributes struct {
	a0  uint16
	a1s uint16
	a1a uint16
	a2  uint16
}

func (a *Attributes) setY(y uint16)             { a0Y.set(&a.a0, y) }
func (a *Attributes) setMode(m Mode)            { a0Mode.set(&a.a0, uint16(m)) }
func (a Attributes) mode() Mode                 { return Mode(a0Mode.get(a.a0)) }
func (a *Attributes) setHFlip(b bool)           { a1HFlip.set(&a.a1s, boolBit(b)) }
func (a *Attributes) setVFlip(b bool)           { a1VFlip.set(&a.a1s, boolBit(b)) }
func (a *Attributes) setPriority(p hw.Priority) { a2Priority.set(&a.a2, uint16(p)) }

func (a *Attributes) setX(x uint16) {
	a1X.set(&a.a1s, x)
	a1X.set(&a.a1a, x)
}

func (a *Attributes) setSprite(tile, pal uint16, size Size) {
	shape, sz := size.shapeSize()
	a2Tile.set(&a.a2, tile)
	a2Palette.set(&a.a2, pal)
	a0Shape.set(&a.a0, shape)
	a1Size.set(&a.a1s, sz)
	a1Size.set(&a.a1a, sz)
}

// Words returns the three halfwords written to the object table.
func (a Attributes) Words() [3]uint16 {
	a1 := a.a1s
	if a.mode() != ModeNormal {
		a1 = a.a1a
	}
	return [3]uint16{a.a0, a1, a.a2}
}

// rowAddr is the OAM address of row i; each row is 4 halfwords, the last
// belonging to the affine parameter table.
func rowAddr(i int) uint32 { return hw.OAM + uint32(i)*8 }

func (a *Attributes) commit(bus hw.Bus, i int) {
	w := a.Words()
	base := rowAddr(i)
	bus.Write16(base, w[0])
	bus.Write16(base+2, w[1])
	bus.Write16(base+4, w[2])
}

func commitHidden(bus hw.Bus, i int) {
	base := rowAddr(i)
	bus.Write16(base, hiddenValue)
	bus.Write16(base+2, 0)
	bus.Write16(base+4, 0)
}
