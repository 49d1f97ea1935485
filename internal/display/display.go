// Package display owns the process-wide video hardware context: the
// background tile cache, the background layer pool and the object table.
package display

import (
	"errors"
	"sync/atomic"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/background"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/logger"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/object"
)

// ErrAlreadyActive is returned by New while another Display is open.
var ErrAlreadyActive = errors.New("display: a display is already active")

var active atomic.Bool

// Display is the single live hardware context. It must only be used from one
// goroutine; Close it to allow a new one to be created.
type Display struct {
	bus     hw.Bus
	vram    *background.VRAMManager
	tiled0  *background.Tiled0
	objects *object.Controller
	closed  bool
}

// New initialises the managers on bus. Only one Display may exist at a time.
func New(bus hw.Bus) (*Display, error) {
	if !active.CompareAndSwap(false, true) {
		return nil, ErrAlreadyActive
	}
	d := &Display{
		bus:     bus,
		vram:    background.NewVRAMManager(bus),
		tiled0:  background.NewTiled0(bus),
		objects: object.NewController(bus),
	}
	logger.L.Debug("display opened")
	return d, nil
}

// Close tears the context down. Calls after the first are no-ops. Leases
// still held panic on use from then on; releasing them is still allowed.
func (d *Display) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.tiled0.Close()
	d.objects.Close()
	active.Store(false)
	logger.L.Debug("display closed")
}

func (d *Display) check() {
	if d.closed {
		panic("display: use after close")
	}
}

func (d *Display) Bus() hw.Bus { return d.bus }

// VRAM returns the background tile cache.
func (d *Display) VRAM() *background.VRAMManager {
	d.check()
	return d.vram
}

// Tiled0 returns the mode 0 background layer pool.
func (d *Display) Tiled0() *background.Tiled0 {
	d.check()
	return d.tiled0
}

// Objects returns the object attribute controller.
func (d *Display) Objects() *object.Controller {
	d.check()
	return d.objects
}

// Commit writes the object table. Background maps are committed by their
// owners since each lease is independent.
func (d *Display) Commit() {
	d.check()
	d.objects.Commit()
}
