package object

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/palette"
)

// BytesPerTile is the size of one 4bpp 8x8 tile.
const BytesPerTile = 32

// Sprite is immutable 4bpp pixel data plus its palette. A *Sprite (and its
// *Palette16) is the identity used for VRAM deduplication, so sprites must not
// be copied once handed to the controller.
type Sprite struct {
	palette *palette.Palette16
	data    []byte
	size    Size
}

func NewSprite(pal *palette.Palette16, data []byte, size Size) Sprite {
	return Sprite{palette: pal, data: data, size: size}
}

func (s *Sprite) Size() Size                  { return s.size }
func (s *Sprite) Palette() *palette.Palette16 { return s.palette }

// byteSize is the VRAM footprint of the sprite.
func (s *Sprite) byteSize() uint32 {
	return uint32(s.size.Tiles() * BytesPerTile)
}

// Direction is the playback order of an animation tag.
type Direction int

const (
	Forward Direction = iota
	Backward
	PingPong
)

// Tag is a named contiguous frame range of a sprite sheet.
type Tag struct {
	sprites   []Sprite
	direction Direction
}

// NewTag selects frames from..to (inclusive) of sprites.
func NewTag(sprites []Sprite, from, to int, direction Direction) Tag {
	if from > to || to >= len(sprites) || from < 0 {
		panic(fmt.Sprintf("object: bad tag range %d..%d of %d sprites", from, to, len(sprites)))
	}
	return Tag{sprites: sprites[from : to+1], direction: direction}
}

func (t *Tag) Sprites() []Sprite { return t.sprites }

func (t *Tag) Sprite(i int) *Sprite { return &t.sprites[i] }

// AnimationSprite returns the frame to show at animation step i.
func (t *Tag) AnimationSprite(i int) *Sprite {
	n := len(t.sprites)
	last := n - 1
	switch t.direction {
	case Backward:
		return t.Sprite(last - i%n)
	case PingPong:
		if last == 0 {
			return t.Sprite(0)
		}
		f := (i+last)%(last*2) - last
		if f < 0 {
			f = -f
		}
		return t.Sprite(f)
	default:
		return t.Sprite(i % n)
	}
}

// TagMap looks up animation tags by name.
type TagMap struct {
	tags map[string]*Tag
}

func NewTagMap(tags map[string]Tag) *TagMap {
	m := &TagMap{tags: make(map[string]*Tag, len(tags))}
	for name, t := range tags {
		m.tags[name] = &t
	}
	return m
}

func (m *TagMap) TryGet(name string) (*Tag, bool) {
	t, ok := m.tags[name]
	return t, ok
}

// Get returns the named tag and panics if it does not exist.
func (m *TagMap) Get(name string) *Tag {
	t, ok := m.tags[name]
	if !ok {
		panic(fmt.Sprintf("object: the requested tag %q does not exist", name))
	}
	return t
}

// Graphics groups a sprite sheet with its tags.
type Graphics struct {
	sprites []Sprite
	tags    *TagMap
}

func NewGraphics(sprites []Sprite, tags *TagMap) *Graphics {
	return &Graphics{sprites: sprites, tags: tags}
}

func (g *Graphics) Sprites() []Sprite { return g.sprites }
func (g *Graphics) Tags() *TagMap     { return g.tags }
