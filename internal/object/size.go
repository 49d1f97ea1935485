package object

import "fmt"

// Size is a hardware sprite size, stored as shape<<2 | size.
type Size uint8

const (
	S8x8   Size = 0b00_00
	S16x16 Size = 0b00_01
	S32x32 Size = 0b00_10
	S64x64 Size = 0b00_11

	S16x8  Size = 0b01_00
	S32x8  Size = 0b01_01
	S32x16 Size = 0b01_10
	S64x32 Size = 0b01_11

	S8x16  Size = 0b10_00
	S8x32  Size = 0b10_01
	S16x32 Size = 0b10_10
	S32x64 Size = 0b10_11
)

var sizeDims = map[Size][2]int{
	S8x8: {8, 8}, S16x16: {16, 16}, S32x32: {32, 32}, S64x64: {64, 64},
	S16x8: {16, 8}, S32x8: {32, 8}, S32x16: {32, 16}, S64x32: {64, 32},
	S8x16: {8, 16}, S8x32: {8, 32}, S16x32: {16, 32}, S32x64: {32, 64},
}

// FromWidthHeight returns the Size for a pixel width and height. It panics on
// dimensions the hardware cannot display.
func FromWidthHeight(w, h int) Size {
	for s, d := range sizeDims {
		if d[0] == w && d[1] == h {
			return s
		}
	}
	panic(fmt.Sprintf("object: bad sprite width and height %dx%d", w, h))
}

// WidthHeight returns the size in pixels.
func (s Size) WidthHeight() (int, int) {
	d, ok := sizeDims[s]
	if !ok {
		panic(fmt.Sprintf("object: invalid size %#b", uint8(s)))
	}
	return d[0], d[1]
}

// Tiles returns the number of 8x8 tiles the size covers.
func (s Size) Tiles() int {
	w, h := s.WidthHeight()
	return w / 8 * h / 8
}

func (s Size) shapeSize() (shape, size uint16) {
	return uint16(s >> 2), uint16(s & 0b11)
}

func (s Size) String() string {
	w, h := s.WidthHeight()
	return fmt.Sprintf("%dx%d", w, h)
}
