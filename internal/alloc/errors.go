package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free range large enough was found.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrBadBlock indicates a block that was never handed out by this allocator.
	ErrBadBlock = errors.New("alloc: bad block")

	// ErrDoubleFree indicates a block that is already free.
	ErrDoubleFree = errors.New("alloc: block already free")

	// ErrBadSize indicates a zero size or a non power-of-two alignment.
	ErrBadSize = errors.New("alloc: size must be > 0 and alignment a power of two")
)
