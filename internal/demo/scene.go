// Package demo drives the display managers with a procedural scene: an
// endless scrolling world, a static frame layer and animated sprites that
// come and go.
package demo

import (
	"image"
	"math/rand"

	"golang.org/x/image/math/fixed"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/background"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/display"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/logger"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/object"
)

const (
	animEvery  = 6   // frames per animation step
	churnEvery = 90  // frames between actor replacements
	jumpEvery  = 480 // frames between camera teleports
	jumpBy     = 200
)

// Options tunes the scene.
type Options struct {
	Sprites     int
	ScrollSpeed int
	Seed        int64
}

type actor struct {
	obj   *object.Object
	tag   *object.Tag
	shown *object.Sprite
	pos   fixed.Point26_6
	vel   fixed.Point26_6
	phase int
}

// Scene owns every lease it takes; Close returns them all.
type Scene struct {
	d   *display.Display
	rng *rand.Rand

	tiles    background.TileSetHandle
	world    *background.InfiniteScrolledMap
	frame    *background.MapLoan
	graphics []*object.Graphics

	actors []*actor
	camera image.Point
	drift  int
	speed  int
	count  int
	ticks  int
}

// New loads the assets into d and builds the scene at frame 0.
func New(d *display.Display, opts Options) *Scene {
	s := &Scene{
		d:     d,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		speed: opts.ScrollSpeed,
		count: min(opts.Sprites, object.NumObjects),
	}
	vram := d.VRAM()
	vram.SetBackgroundPalettes(worldPalettes)
	s.tiles = vram.AddTileset(worldTileset())

	s.world = background.NewInfiniteScrolledMap(d.Tiled0().Background(hw.P3), s.worldTile)
	s.world.Init(vram, s.camera)
	s.world.Show()

	s.frame = d.Tiled0().Background(hw.P0)
	s.drawFrame()
	s.frame.Show()

	for _, p := range actorPalettes {
		s.graphics = append(s.graphics, actorGraphics(p))
	}
	for range s.count {
		s.spawn()
	}
	s.commit()
	logger.L.Debug("demo scene ready", "actors", len(s.actors))
	return s
}

// worldTile is the endless map: water bands, stone grid lines and grass.
func (s *Scene) worldTile(p image.Point) (background.TileSetHandle, background.TileSetting) {
	h := uint32(p.X*73856093) ^ uint32(p.Y*19349663)
	switch {
	case (p.Y+(p.X>>3))%24 == 0 || (p.Y+(p.X>>3))%24 == 1:
		return s.tiles, background.NewTileSetting(tileWater, false, false, 1)
	case p.X%16 == 0 || p.Y%16 == 0:
		return s.tiles, background.NewTileSetting(tileStone, false, false, 0)
	case h%7 == 0:
		return s.tiles, background.NewTileSetting(tileFlowers, h&1 != 0, false, 0)
	default:
		return s.tiles, background.NewTileSetting(tileGrass, false, h&2 != 0, 0)
	}
}

// drawFrame outlines the visible screen on the top layer. Every border cell
// shares one tile slot.
func (s *Scene) drawFrame() {
	border := background.NewTileSetting(tileBorder, false, false, 0)
	w, h := hw.Width/8, hw.Height/8
	for x := 0; x < w; x++ {
		s.frame.SetTile(s.d.VRAM(), image.Pt(x, 0), s.tiles, border)
		s.frame.SetTile(s.d.VRAM(), image.Pt(x, h-1), s.tiles, border)
	}
	for y := 1; y < h-1; y++ {
		s.frame.SetTile(s.d.VRAM(), image.Pt(0, y), s.tiles, border)
		s.frame.SetTile(s.d.VRAM(), image.Pt(w-1, y), s.tiles, border)
	}
}

func (s *Scene) spawn() {
	g := s.graphics[s.rng.Intn(len(s.graphics))]
	tagName := "spin"
	if s.rng.Intn(2) == 0 {
		tagName = "wobble"
	}
	tag := g.Tags().Get(tagName)
	sprite := tag.AnimationSprite(0)

	ctrl := s.d.Objects()
	lease, err := ctrl.TrySprite(sprite)
	if err != nil {
		logger.L.Debug("spawn skipped", "err", err)
		return
	}
	obj, err := ctrl.TryObject(lease)
	if err != nil {
		lease.Release()
		logger.L.Debug("spawn skipped", "err", err)
		return
	}

	a := &actor{
		obj:   obj,
		tag:   tag,
		shown: sprite,
		pos: fixed.Point26_6{
			X: fixed.I(s.rng.Intn(hw.Width - actorSize)),
			Y: fixed.I(s.rng.Intn(hw.Height - actorSize)),
		},
		vel: fixed.Point26_6{
			X: fixed.Int26_6(s.rng.Intn(193) - 96),
			Y: fixed.Int26_6(s.rng.Intn(193) - 96),
		},
		phase: s.rng.Intn(actorFrames),
	}
	obj.SetHFlip(a.vel.X < 0).SetPriority(hw.P1)
	s.actors = append(s.actors, a)
	s.place(a)
}

// place writes position and depth; actors further down the screen are in front.
func (s *Scene) place(a *actor) {
	p := image.Pt(a.pos.X.Round(), a.pos.Y.Round())
	a.obj.SetPosition(p).SetZ(int32(-p.Y))
}

func (s *Scene) move(a *actor) {
	a.pos = a.pos.Add(a.vel)
	maxX, maxY := fixed.I(hw.Width-actorSize), fixed.I(hw.Height-actorSize)
	if a.pos.X < 0 || a.pos.X > maxX {
		a.vel.X = -a.vel.X
		a.pos.X = min(max(a.pos.X, 0), maxX)
		a.obj.SetHFlip(a.vel.X < 0)
	}
	if a.pos.Y < 0 || a.pos.Y > maxY {
		a.vel.Y = -a.vel.Y
		a.pos.Y = min(max(a.pos.Y, 0), maxY)
	}
	s.place(a)

	if s.ticks%animEvery == 0 {
		next := a.tag.AnimationSprite(s.ticks/animEvery + a.phase)
		if next != a.shown {
			a.obj.SetSprite(s.d.Objects().Sprite(next))
			a.shown = next
		}
	}
}

// churn replaces a random actor.
func (s *Scene) churn() {
	if len(s.actors) == 0 {
		return
	}
	i := s.rng.Intn(len(s.actors))
	s.actors[i].obj.Release()
	s.actors = append(s.actors[:i], s.actors[i+1:]...)
	s.spawn()
}

func (s *Scene) moveCamera() {
	s.camera.X += s.speed
	if s.ticks%64 == 0 {
		s.drift = s.rng.Intn(3) - 1
	}
	s.camera.Y += s.drift
	if s.ticks%jumpEvery == 0 {
		s.camera = s.camera.Add(image.Pt(jumpBy, -jumpBy/2))
	}
}

func (s *Scene) commit() {
	s.world.Commit()
	s.frame.Commit()
	s.d.Commit()
}

// Step advances one frame and commits every layer and the object table.
func (s *Scene) Step() {
	s.ticks++
	s.moveCamera()
	s.world.SetPos(s.d.VRAM(), s.camera)
	for _, a := range s.actors {
		s.move(a)
	}
	if s.ticks%churnEvery == 0 {
		s.churn()
	}
	s.commit()
}

// Camera returns the world position of the top-left screen pixel.
func (s *Scene) Camera() image.Point { return s.camera }

// Ticks returns the number of frames stepped.
func (s *Scene) Ticks() int { return s.ticks }

// Stats is a snapshot of resource use.
type Stats struct {
	Actors      int
	FreeObjects int
	TileSlots   int
	Palettes    int
}

func (s *Scene) Stats() Stats {
	return Stats{
		Actors:      len(s.actors),
		FreeObjects: s.d.Objects().FreeObjects(),
		TileSlots:   s.d.VRAM().SlotsInUse(),
		Palettes:    s.d.Objects().PalettesInUse(),
	}
}

// Close releases every lease and the tileset. The display stays open.
func (s *Scene) Close() {
	for _, a := range s.actors {
		a.obj.Release()
	}
	s.actors = nil

	vram := s.d.VRAM()
	s.world.Clear(vram)
	s.world.Map().Release()
	s.frame.Clear(vram)
	s.frame.Release()
	vram.RemoveTileset(s.tiles)
	s.d.Commit()
}
