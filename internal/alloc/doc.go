// Package alloc provides a first-fit block allocator over a fixed address range.
//
// The allocator hands out address ranges, it never touches the memory behind them.
// Free ranges are kept sorted by address and adjacent ranges are coalesced on Free,
// so a released block is immediately available to the next request that fits.
//
// # Usage Example
//
//	a := alloc.NewBlock(hw.TileSprite, hw.TileSprite+hw.SpriteTileSize)
//	b, err := a.Alloc(128, 8)
//	if errors.Is(err, alloc.ErrNoSpace) {
//	    // caller decides the fallback
//	}
//	...
//	_ = a.Free(b)
//
// NOT thread-safe.
package alloc
