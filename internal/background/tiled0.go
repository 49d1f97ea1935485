package background

import (
	"errors"
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/logger"
)

// MaxBackgrounds is the number of hardware background control register sets.
const MaxBackgrounds = 4

// ErrNoBackground is returned by TryBackground when every layer is leased.
var ErrNoBackground = errors.New("background: no background layer available")

// Tiled0 hands out leases on the four regular background layers of display mode 0.
type Tiled0 struct {
	bus    hw.Bus
	inUse  uint8 // bit n set while layer n is leased
	closed bool
}

// NewTiled0 selects display mode 0 and returns the layer pool.
func NewTiled0(bus hw.Bus) *Tiled0 {
	hw.SetBits(bus, hw.DisplayControl, 0, 3, 0)
	return &Tiled0{bus: bus}
}

// Background leases the lowest free layer. It panics if all four are in use.
func (t *Tiled0) Background(priority hw.Priority) *MapLoan {
	l, err := t.TryBackground(priority)
	if err != nil {
		panic(fmt.Sprintf("background: can only have %d active backgrounds", MaxBackgrounds))
	}
	return l
}

// TryBackground leases the lowest free layer or returns ErrNoBackground.
func (t *Tiled0) TryBackground(priority hw.Priority) (*MapLoan, error) {
	if t.closed {
		panic("background: layer pool is closed")
	}
	id := -1
	for i := 0; i < MaxBackgrounds; i++ {
		if t.inUse&(1<<i) == 0 {
			id = i
			break
		}
	}
	if id < 0 {
		return nil, ErrNoBackground
	}
	t.inUse |= 1 << id
	logger.L.Debug("background layer leased", "id", id)

	m := newRegularMap(t, uint8(id), uint8(id+16), priority)
	return &MapLoan{RegularMap: m, backgroundID: uint8(id), pool: t}, nil
}

// InUse returns how many layers are currently leased.
func (t *Tiled0) InUse() int {
	n := 0
	for i := 0; i < MaxBackgrounds; i++ {
		if t.inUse&(1<<i) != 0 {
			n++
		}
	}
	return n
}

// Close invalidates every outstanding lease; their maps panic on use.
// Release stays safe to call.
func (t *Tiled0) Close() {
	t.closed = true
	t.inUse = 0
}

// MapLoan is a lease on one background layer. The embedded map is usable until
// Release, which returns the layer to the pool; afterwards every map method
// that touches the layer panics. Release does not clear the map's tiles; call
// Clear first to drop their VRAM references.
type MapLoan struct {
	*RegularMap
	backgroundID uint8
	pool         *Tiled0
}

// Release returns the layer to the pool. Calls after the first are no-ops.
func (l *MapLoan) Release() {
	if l.released {
		return
	}
	l.released = true
	l.pool.inUse &^= 1 << l.backgroundID
	logger.L.Debug("background layer released", "id", l.backgroundID)
}

// Released reports whether the lease has been returned.
func (l *MapLoan) Released() bool { return l.released }
