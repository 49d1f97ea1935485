package hw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ReadWriteRegions(t *testing.T) {
	m := NewMemory()

	m.Write16(DisplayControl, 0x1234)
	assert.Equal(t, uint16(0x1234), m.Read16(DisplayControl))

	m.Write16(PaletteSprite+2, 0x7FFF)
	assert.Equal(t, uint16(0x7FFF), m.Read16(PaletteSprite+2))

	m.Write32(TileSprite, 0xDEADBEEF)
	assert.Equal(t, uint32(0xDEADBEEF), m.Read32(TileSprite))
	// little-endian halves
	assert.Equal(t, uint16(0xBEEF), m.Read16(TileSprite))
	assert.Equal(t, uint16(0xDEAD), m.Read16(TileSprite+2))

	m.Write16(OAM+8, 0x0200)
	assert.Equal(t, uint16(0x0200), m.Read16(OAM+8))
	assert.Zero(t, m.Dropped())
}

func TestMemory_UnmappedWritesAreDropped(t *testing.T) {
	m := NewMemory()
	m.Write16(0x0300_0000, 1)
	m.Write32(OAM+oamSize, 1)
	assert.Equal(t, 2, m.Dropped())
	assert.Zero(t, m.Read16(0x0300_0000))
}

func TestMemory_Copy(t *testing.T) {
	m := NewMemory()
	m.Copy16(PaletteBackground, []uint16{1, 2, 3})
	m.Copy32(VRAM+32, []uint32{0x11111111, 0x22222222})

	require.Equal(t, uint16(3), m.Read16(PaletteBackground+4))
	require.Equal(t, uint32(0x22222222), m.Read32(VRAM+36))
}

func TestSetBits(t *testing.T) {
	m := NewMemory()
	m.Write16(DisplayControl, 0xFFFF)
	SetBits(m, DisplayControl, 0, 1, 7)
	assert.Equal(t, uint16(0xFF7F), m.Read16(DisplayControl))
	SetBits(m, DisplayControl, 0, 3, 0)
	assert.Equal(t, uint16(0xFF78), m.Read16(DisplayControl))
}

func TestRegisterAddresses(t *testing.T) {
	assert.Equal(t, uint32(0x0400_000E), BGControl(3))
	assert.Equal(t, uint32(0x0400_001C), BGHOffset(3))
	assert.Equal(t, uint32(0x0400_001E), BGVOffset(3))
	assert.Equal(t, uint32(0x0600_8000), Screenblock(16))
}
