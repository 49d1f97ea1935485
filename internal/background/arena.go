package background

import "fmt"

// TileSetHandle identifies a tileset registered with the VRAM manager.
// It is only valid while the arena slot still carries the same generation.
type TileSetHandle struct {
	id         uint16
	generation uint16
}

func (h TileSetHandle) String() string {
	return fmt.Sprintf("tileset(%d@%d)", h.id, h.generation)
}

type slotKind uint8

const (
	slotEndOfFreeList slotKind = iota
	slotNextFree
	slotData
)

type arenaSlot struct {
	kind       slotKind
	next       int // slotNextFree
	data       TileSet
	generation uint16
}

// tilesetArena is a generational slot table with an index-threaded free list.
type tilesetArena struct {
	slots      []arenaSlot
	generation uint16
	free       int // head of the free list, -1 if empty
}

func newTilesetArena() tilesetArena {
	return tilesetArena{free: -1}
}

func (a *tilesetArena) add(ts TileSet) TileSetHandle {
	gen := a.generation
	a.generation++ // wraps

	entry := arenaSlot{kind: slotData, data: ts, generation: gen}

	var idx int
	if a.free >= 0 {
		idx = a.free
		switch a.slots[idx].kind {
		case slotEndOfFreeList:
			a.free = -1
		case slotNextFree:
			a.free = a.slots[idx].next
		default:
			panic("background: free pointer points at live tileset")
		}
		a.slots[idx] = entry
	} else {
		a.slots = append(a.slots, entry)
		idx = len(a.slots) - 1
	}
	return TileSetHandle{id: uint16(idx), generation: gen}
}

func (a *tilesetArena) remove(h TileSetHandle) {
	if int(h.id) >= len(a.slots) {
		panic(fmt.Sprintf("background: unknown %v", h))
	}
	s := &a.slots[h.id]
	if s.kind != slotData {
		panic(fmt.Sprintf("background: %v already freed, probably a double free", h))
	}
	if s.generation != h.generation {
		panic(fmt.Sprintf("background: stale %v, slot holds generation %d", h, s.generation))
	}
	if a.free >= 0 {
		*s = arenaSlot{kind: slotNextFree, next: a.free}
	} else {
		*s = arenaSlot{kind: slotEndOfFreeList}
	}
	a.free = int(h.id)
}

// get returns the tileset for h, failing on a stale or freed handle.
func (a *tilesetArena) get(h TileSetHandle) TileSet {
	if int(h.id) >= len(a.slots) || a.slots[h.id].kind != slotData {
		panic(fmt.Sprintf("background: cannot find tile data for %v", h))
	}
	s := a.slots[h.id]
	if s.generation != h.generation {
		panic(fmt.Sprintf("background: stale tile data requested for %v", h))
	}
	return s.data
}

// live reports whether h still refers to a live tileset.
func (a *tilesetArena) live(h TileSetHandle) bool {
	return int(h.id) < len(a.slots) && a.slots[h.id].kind == slotData &&
		a.slots[h.id].generation == h.generation
}
