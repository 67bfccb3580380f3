package ppcfuzz

import (
	"github.com/opd-ai/go-ppcfuzz/internal"
)

// lfsrTaps holds a maximal-length Galois feedback mask per register width,
// for the right-shifting form used by advance.
var lfsrTaps = [65]uint64{
	2:  0x3,
	3:  0x6,
	4:  0xc,
	5:  0x14,
	6:  0x30,
	7:  0x60,
	8:  0xb8,
	9:  0x110,
	10: 0x240,
	11: 0x500,
	12: 0x829,
	13: 0x100d,
	14: 0x2015,
	15: 0x6000,
	16: 0xd008,
	17: 0x12000,
	18: 0x20400,
	19: 0x40023,
	20: 0x90000,
	21: 0x140000,
	22: 0x300000,
	23: 0x420000,
	24: 0xe10000,
	25: 0x1200000,
	26: 0x2000023,
	27: 0x4000013,
	28: 0x9000000,
	29: 0x14000000,
	30: 0x20000029,
	31: 0x48000000,
	32: 0x80200003,
	64: 0xd800000000000000,
}

// advance steps an LFSR of the given width by one bit. A zero state is a
// fixed point and must never be passed in.
func advance(width uint, state uint64) uint64 {
	lsb := state & 1
	state >>= 1
	state ^= -lsb & lfsrTaps[width]
	return state
}

// generator is the bit-stream that drives every choice made while emitting
// one testcase. It is owned by a single generation pass.
type generator struct {
	seed  uint64
	state uint32
}

// newGenerator seeds a 32-bit stream. Unless raw is set the seed is first
// spread with blake2b, so seeds 1, 2, 3... do not pick near-identical
// opening instructions.
func newGenerator(seed uint64, raw bool) *generator {
	s := seed
	if !raw {
		s = internal.MixSeed(seed)
	}
	state := uint32(s)
	if state == 0 {
		state = 0xffffffff
	}
	return &generator{seed: seed, state: state}
}

// next advances the stream and returns the new state.
func (g *generator) next() uint32 {
	g.state = uint32(advance(32, uint64(g.state)))
	return g.state
}

// intn returns a value in [0, n) by reducing the next draw.
func (g *generator) intn(n uint32) uint32 {
	return g.next() % n
}

// next64 composes two draws, low word first.
func (g *generator) next64() uint64 {
	lo := uint64(g.next())
	hi := uint64(g.next())
	return lo | hi<<32
}
