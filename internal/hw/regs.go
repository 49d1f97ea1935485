package hw

// Priority is the 2-bit draw priority shared by backgrounds and objects (0 is drawn on top).
type Priority uint8

const (
	P0 Priority = iota
	P1
	P2
	P3
)

// DISPCNT bits used by the managers.
const (
	DispModeMask   = 0x0007
	DispObj1D      = 1 << 6
	DispForceBlank = 1 << 7
	DispBG0        = 1 << 8 // BGn enable = DispBG0 << n
	DispObjEnable  = 1 << 12
)

// BGControl returns the BGnCNT register address for layer n.
func BGControl(n uint8) uint32 { return BGControl0 + 2*uint32(n) }

// BGHOffset returns the BGnHOFS register address for layer n.
func BGHOffset(n uint8) uint32 { return BGHOffset0 + 4*uint32(n) }

// BGVOffset returns the BGnVOFS register address for layer n.
func BGVOffset(n uint8) uint32 { return BGVOffset0 + 4*uint32(n) }

// Screenblock returns the base address of 2 KiB screenblock sb.
func Screenblock(sb uint8) uint32 { return VRAM + 0x800*uint32(sb) }

// SetBits replaces count bits at shift in the halfword register at addr.
func SetBits(b Bus, addr uint32, value uint16, count, shift uint) {
	mask := uint16((1<<count)-1) << shift
	cur := b.Read16(addr)
	b.Write16(addr, (cur&^mask)|((value<<shift)&mask))
}
