// Package hwtest provides bus doubles for tests of the hardware managers.
package hwtest

import "github.com/FabianRolfMatthiasNoll/gbavram/internal/hw"

// Recorder wraps a Memory and counts the stores made through it.
type Recorder struct {
	*hw.Memory

	Writes16 map[uint32]int // halfword stores by address (DMA halfwords included)
	Writes32 map[uint32]int
	Copies   int // number of Copy16/Copy32 calls
}

func NewRecorder() *Recorder {
	r := &Recorder{Memory: hw.NewMemory()}
	r.ResetCounts()
	return r
}

// ResetCounts clears the counters but keeps memory contents.
func (r *Recorder) ResetCounts() {
	r.Writes16 = make(map[uint32]int)
	r.Writes32 = make(map[uint32]int)
	r.Copies = 0
}

func (r *Recorder) Write16(addr uint32, value uint16) {
	r.Writes16[addr]++
	r.Memory.Write16(addr, value)
}

func (r *Recorder) Write32(addr uint32, value uint32) {
	r.Writes32[addr]++
	r.Memory.Write32(addr, value)
}

func (r *Recorder) Copy16(dst uint32, src []uint16) {
	r.Copies++
	for i, v := range src {
		r.Write16(dst+uint32(i)*2, v)
	}
}

func (r *Recorder) Copy32(dst uint32, src []uint32) {
	r.Copies++
	for i, v := range src {
		r.Write32(dst+uint32(i)*4, v)
	}
}

// WritesIn counts halfword stores in [start, end).
func (r *Recorder) WritesIn(start, end uint32) int {
	n := 0
	for a, c := range r.Writes16 {
		if a >= start && a < end {
			n += c
		}
	}
	return n
}
