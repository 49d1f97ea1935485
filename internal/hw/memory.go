package hw

import "encoding/binary"

// Screen geometry in pixels.
const (
	Width  = 240
	Height = 160
)

// Memory map of the display hardware.
const (
	DisplayControl = 0x0400_0000 // DISPCNT
	BGControl0     = 0x0400_0008 // BG0CNT; BGnCNT = BGControl0 + 2n
	BGHOffset0     = 0x0400_0010 // BG0HOFS; BGnHOFS = BGHOffset0 + 4n
	BGVOffset0     = 0x0400_0012 // BG0VOFS; BGnVOFS = BGVOffset0 + 4n

	PaletteBackground = 0x0500_0000 // 256 colours
	PaletteSprite     = 0x0500_0200 // 256 colours

	VRAM       = 0x0600_0000
	TileSprite = 0x0601_0000 // sprite tile store, 32 KiB
	OAM        = 0x0700_0000 // 128 rows of 4 halfwords
)

const (
	ioSize      = 0x60
	paletteSize = 0x400
	vramSize    = 0x18000
	oamSize     = 0x400

	// SpriteTileSize is the size of the sprite tile store in bytes.
	SpriteTileSize = 1024 * 8 * 4
	// SpritePaletteSize is the size of the sprite palette store in bytes.
	SpritePaletteSize = 0x200
)

// Bus is the word-addressed view of the hardware that the managers write through.
// Addresses are absolute; halfword accesses must be 2-aligned, word accesses 4-aligned.
type Bus interface {
	Read16(addr uint32) uint16
	Write16(addr uint32, value uint16)
	Write32(addr uint32, value uint32)
	// Copy16 copies len(src) halfwords to dst (DMA).
	Copy16(dst uint32, src []uint16)
	// Copy32 copies len(src) words to dst (DMA).
	Copy32(dst uint32, src []uint32)
}

// Memory is an in-process model of the memory-mapped display registers, palette RAM,
// VRAM and OAM. It performs no access-timing emulation; stores land immediately.
type Memory struct {
	io   [ioSize]byte
	pal  [paletteSize]byte
	vram [vramSize]byte
	oam  [oamSize]byte

	dropped int // writes outside any mapped region
}

func NewMemory() *Memory { return &Memory{} }

// region resolves addr to the backing slice and the offset within it.
func (m *Memory) region(addr uint32, width uint32) ([]byte, uint32, bool) {
	var mem []byte
	var base uint32
	switch {
	case addr >= DisplayControl && addr < DisplayControl+ioSize:
		mem, base = m.io[:], DisplayControl
	case addr >= PaletteBackground && addr < PaletteBackground+paletteSize:
		mem, base = m.pal[:], PaletteBackground
	case addr >= VRAM && addr < VRAM+vramSize:
		mem, base = m.vram[:], VRAM
	case addr >= OAM && addr < OAM+oamSize:
		mem, base = m.oam[:], OAM
	default:
		return nil, 0, false
	}
	off := addr - base
	if off+width > uint32(len(mem)) {
		return nil, 0, false
	}
	return mem, off, true
}

func (m *Memory) Read16(addr uint32) uint16 {
	mem, off, ok := m.region(addr&^1, 2)
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint16(mem[off:])
}

func (m *Memory) Read32(addr uint32) uint32 {
	mem, off, ok := m.region(addr&^3, 4)
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint32(mem[off:])
}

func (m *Memory) Write16(addr uint32, value uint16) {
	mem, off, ok := m.region(addr&^1, 2)
	if !ok {
		m.dropped++
		return
	}
	binary.LittleEndian.PutUint16(mem[off:], value)
}

func (m *Memory) Write32(addr uint32, value uint32) {
	mem, off, ok := m.region(addr&^3, 4)
	if !ok {
		m.dropped++
		return
	}
	binary.LittleEndian.PutUint32(mem[off:], value)
}

func (m *Memory) Copy16(dst uint32, src []uint16) {
	for i, v := range src {
		m.Write16(dst+uint32(i)*2, v)
	}
}

func (m *Memory) Copy32(dst uint32, src []uint32) {
	for i, v := range src {
		m.Write32(dst+uint32(i)*4, v)
	}
}

// Dropped reports how many writes missed every mapped region.
func (m *Memory) Dropped() int { return m.dropped }

// Reset zeroes all memory and registers.
func (m *Memory) Reset() {
	*m = Memory{}
}

// RawVRAM returns a read-only view of VRAM for inspection.
func (m *Memory) RawVRAM() []byte { return m.vram[:] }

// RawPalette returns a read-only view of palette RAM (background then sprite).
func (m *Memory) RawPalette() []byte { return m.pal[:] }

// RawOAM returns a read-only view of object attribute memory.
func (m *Memory) RawOAM() []byte { return m.oam[:] }
