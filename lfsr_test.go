package ppcfuzz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLFSRMaximalPeriod(t *testing.T) {
	for _, width := range []uint{3, 4, 5, 6, 7, 8, 12, 16} {
		state := uint64(1)
		period := uint64(0)
		limit := uint64(1) << width
		for {
			state = advance(width, state)
			period++
			if state == 1 || period > limit {
				break
			}
			if state == 0 || state >= limit {
				t.Fatalf("width %d: state %#x left the register", width, state)
			}
		}
		assert.Equal(t, limit-1, period, "width %d", width)
	}
}

func TestAdvance32(t *testing.T) {
	tests := []struct {
		in, want uint64
	}{
		{1, 0x80200003},
		{2, 1},
		{0x80200003, 0xc0300002},
		{0xffffffff, 0x7fffffff ^ 0x80200003},
	}

	for _, tt := range tests {
		if got := advance(32, tt.in); got != tt.want {
			t.Errorf("advance(32, %#x) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestSeedZeroNormalized(t *testing.T) {
	for _, raw := range []bool{true, false} {
		g := newGenerator(0, raw)
		assert.NotZero(t, g.state)
		if raw {
			assert.Equal(t, uint32(0xffffffff), g.state)
		}

		for i := 0; i < 100000; i++ {
			if g.next() == 0 {
				t.Fatalf("raw=%v: zero state after %d draws", raw, i)
			}
		}
	}
}

func TestGeneratorRestartable(t *testing.T) {
	a := newGenerator(12345, false)
	b := newGenerator(12345, false)
	for i := 0; i < 1000; i++ {
		if x, y := a.next(), b.next(); x != y {
			t.Fatalf("draw %d: %#x != %#x", i, x, y)
		}
	}
}

func TestSeedMixing(t *testing.T) {
	raw := newGenerator(1, true)
	assert.Equal(t, uint32(1), raw.state)

	// 0xd2411a560b7dbd1d is blake2b-256 of the little-endian seed 1.
	mixed := newGenerator(1, false)
	assert.Equal(t, uint32(0x0b7dbd1d), mixed.state)
	assert.Equal(t, uint64(1), mixed.seed)
}

func TestNext64(t *testing.T) {
	a := newGenerator(99, true)
	b := newGenerator(99, true)

	lo := uint64(b.next())
	hi := uint64(b.next())
	assert.Equal(t, lo|hi<<32, a.next64())
}
