package alloc

import (
	"fmt"
	"sort"
)

// Block is an allocated address range.
type Block struct {
	Addr uint32
	Size uint32
}

// End returns the first address past the block.
func (b Block) End() uint32 { return b.Addr + b.Size }

type span struct {
	start, end uint32
}

// BlockAllocator is a first-fit allocator over [start, end).
type BlockAllocator struct {
	start, end uint32
	free       []span            // sorted by start, never adjacent
	used       map[uint32]uint32 // addr -> size
}

// NewBlock creates an allocator managing [start, end).
func NewBlock(start, end uint32) *BlockAllocator {
	if end < start {
		panic(fmt.Sprintf("alloc: bad range %#x-%#x", start, end))
	}
	a := &BlockAllocator{start: start, end: end, used: make(map[uint32]uint32)}
	if end > start {
		a.free = []span{{start, end}}
	}
	return a
}

// Alloc returns the lowest-addressed block of size bytes aligned to align.
func (a *BlockAllocator) Alloc(size, align uint32) (Block, error) {
	if size == 0 || align == 0 || align&(align-1) != 0 {
		return Block{}, ErrBadSize
	}
	for i, s := range a.free {
		addr := (s.start + align - 1) &^ (align - 1)
		if addr < s.start || addr+size > s.end || addr+size < addr {
			continue
		}
		a.carve(i, addr, addr+size)
		a.used[addr] = size
		return Block{Addr: addr, Size: size}, nil
	}
	return Block{}, fmt.Errorf("%w: need %d bytes, %d available", ErrNoSpace, size, a.Available())
}

// carve removes [from, to) from free span i, keeping any leading and trailing fragments.
func (a *BlockAllocator) carve(i int, from, to uint32) {
	s := a.free[i]
	var keep []span
	if from > s.start {
		keep = append(keep, span{s.start, from})
	}
	if to < s.end {
		keep = append(keep, span{to, s.end})
	}
	rest := append(keep, a.free[i+1:]...)
	a.free = append(a.free[:i], rest...)
}

// Free returns b to the allocator.
func (a *BlockAllocator) Free(b Block) error {
	size, ok := a.used[b.Addr]
	if !ok {
		if a.isFree(b.Addr) {
			return fmt.Errorf("%w: %#x", ErrDoubleFree, b.Addr)
		}
		return fmt.Errorf("%w: %#x", ErrBadBlock, b.Addr)
	}
	if size != b.Size {
		return fmt.Errorf("%w: %#x has size %d, not %d", ErrBadBlock, b.Addr, size, b.Size)
	}
	delete(a.used, b.Addr)

	i := sort.Search(len(a.free), func(i int) bool { return a.free[i].start > b.Addr })
	a.free = append(a.free, span{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = span{b.Addr, b.End()}

	// coalesce with the following span, then the preceding one
	if i+1 < len(a.free) && a.free[i].end == a.free[i+1].start {
		a.free[i].end = a.free[i+1].end
		a.free = append(a.free[:i+1], a.free[i+2:]...)
	}
	if i > 0 && a.free[i-1].end == a.free[i].start {
		a.free[i-1].end = a.free[i].end
		a.free = append(a.free[:i], a.free[i+1:]...)
	}
	return nil
}

func (a *BlockAllocator) isFree(addr uint32) bool {
	for _, s := range a.free {
		if addr >= s.start && addr < s.end {
			return true
		}
	}
	return false
}

// Available returns the total number of free bytes (possibly fragmented).
func (a *BlockAllocator) Available() uint32 {
	var n uint32
	for _, s := range a.free {
		n += s.end - s.start
	}
	return n
}

// Used returns the number of live blocks.
func (a *BlockAllocator) Used() int { return len(a.used) }

// Range returns the managed address range.
func (a *BlockAllocator) Range() (start, end uint32) { return a.start, a.end }
