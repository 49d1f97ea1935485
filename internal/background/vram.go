package background

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"
	"github.com/FabianRolfMatthiasNoll/gbavram/internal/palette"
)

// TileSlots is the number of addressable background tile slots (10-bit index).
// Slot 0 is never handed out; it backs the empty cell.
const TileSlots = 1 << 10

const endOfFreeList = -1

// tileReference is the owner key of a physical slot: tileset slot and tile within it.
type tileReference struct {
	id   uint16
	tile uint16
}

type cacheEntry struct {
	slot       TileIndex
	generation uint16
}

// vramState is either free (count == 0, next links the free list) or reference counted.
type vramState struct {
	count uint16
	owner tileReference
	next  int
}

func (s *vramState) increase() {
	if s.count == 0 {
		panic("background: corrupted vram state, increase on free slot")
	}
	s.count++
}

func (s *vramState) decrease() (uint16, tileReference) {
	if s.count == 0 {
		panic("background: corrupted vram state, decrease on free slot")
	}
	s.count--
	return s.count, s.owner
}

// VRAMManager owns the tileset arena and the reference-counted mapping from
// (tileset, tile) to physical background tile slots.
type VRAMManager struct {
	bus   hw.Bus
	arena tilesetArena

	tileSetToVRAM map[tileReference]cacheEntry
	references    []vramState
	vramFree      int
}

func NewVRAMManager(bus hw.Bus) *VRAMManager {
	return &VRAMManager{
		bus:           bus,
		arena:         newTilesetArena(),
		tileSetToVRAM: make(map[tileReference]cacheEntry),
		references:    []vramState{{next: endOfFreeList}}, // slot 0, reserved
		vramFree:      endOfFreeList,
	}
}

// AddTileset registers a tileset and returns a handle for it.
func (v *VRAMManager) AddTileset(ts TileSet) TileSetHandle {
	return v.arena.add(ts)
}

// RemoveTileset unregisters a tileset. Tiles already copied to VRAM stay cached
// until every cell referencing them is cleared.
func (v *VRAMManager) RemoveTileset(h TileSetHandle) {
	v.arena.remove(h)
}

// addTile resolves (h, tile) to a physical slot, copying the pixels on a miss.
func (v *VRAMManager) addTile(h TileSetHandle, tile uint16) TileIndex {
	ref := tileReference{id: h.id, tile: tile}
	if e, ok := v.tileSetToVRAM[ref]; ok && e.generation == h.generation {
		v.references[e.slot].increase()
		return e.slot
	}

	data := v.arena.get(h).tile(tile)

	var idx int
	if v.vramFree != endOfFreeList {
		idx = v.vramFree
		st := v.references[idx]
		if st.count != 0 {
			panic("background: corrupted tile free list")
		}
		v.vramFree = st.next
		v.references[idx] = vramState{count: 1, owner: ref}
	} else {
		if len(v.references) >= TileSlots {
			panic(fmt.Sprintf("background: out of background tile memory (%d slots)", TileSlots-1))
		}
		v.references = append(v.references, vramState{count: 1, owner: ref})
		idx = len(v.references) - 1
	}

	v.bus.Copy32(hw.VRAM+uint32(idx*FourBpp.TileSize()), data)
	v.tileSetToVRAM[ref] = cacheEntry{slot: TileIndex(idx), generation: h.generation}
	return TileIndex(idx)
}

// cached reports the slot (h, tile) is loaded in, without taking a reference.
func (v *VRAMManager) cached(h TileSetHandle, tile uint16) (TileIndex, bool) {
	e, ok := v.tileSetToVRAM[tileReference{id: h.id, tile: tile}]
	if !ok || e.generation != h.generation {
		return 0, false
	}
	return e.slot, true
}

// removeTile drops one reference to idx, freeing the slot at zero.
func (v *VRAMManager) removeTile(idx TileIndex) {
	if idx == 0 || int(idx) >= len(v.references) {
		panic(fmt.Sprintf("background: release of invalid tile slot %d", idx))
	}
	count, owner := v.references[idx].decrease()
	if count != 0 {
		return
	}
	v.references[idx] = vramState{next: v.vramFree}
	v.vramFree = int(idx)

	// a newer generation may own the key by now
	if e, ok := v.tileSetToVRAM[owner]; ok && e.slot == idx {
		delete(v.tileSetToVRAM, owner)
	}
}

// RefCount returns the number of live references to a slot.
func (v *VRAMManager) RefCount(idx TileIndex) int {
	if int(idx) >= len(v.references) {
		return 0
	}
	return int(v.references[idx].count)
}

// SlotsInUse returns the number of reference-counted physical slots.
func (v *VRAMManager) SlotsInUse() int {
	n := 0
	for _, s := range v.references {
		if s.count > 0 {
			n++
		}
	}
	return n
}

// CachedTiles returns the number of (tileset, tile) keys currently mapped to a slot.
func (v *VRAMManager) CachedTiles() int { return len(v.tileSetToVRAM) }

// SetBackgroundPaletteRaw copies raw colours to the background palette without any checks.
func (v *VRAMManager) SetBackgroundPaletteRaw(colours []uint16) {
	v.bus.Copy16(hw.PaletteBackground, colours)
}

// SetBackgroundPalette copies p into palette bank pal.
func (v *VRAMManager) SetBackgroundPalette(pal uint8, p *palette.Palette16) {
	v.bus.Copy16(hw.PaletteBackground+uint32(pal&0xF)*palette.Size, p.Colours[:])
}

// SetBackgroundPalettes copies palettes into consecutive banks starting at 0.
func (v *VRAMManager) SetBackgroundPalettes(ps []palette.Palette16) {
	for i := range ps {
		v.SetBackgroundPalette(uint8(i), &ps[i])
	}
}
