package ppc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodings(t *testing.T) {
	tests := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"lis r3,0x1234", ADDIS(3, 0, 0x1234), 0x3c601234},
		{"li r0,0", ADDI(0, 0, 0), 0x38000000},
		{"li r3,-1", ADDI(3, 0, -1), 0x3860ffff},
		{"addi r4,r5,16", ADDI(4, 5, 16), 0x38850010},
		{"ori r3,r3,0x5678", ORI(3, 3, 0x5678), 0x60635678},
		{"oris r3,r3,0x9abc", ORIS(3, 3, 0x9abc), 0x64639abc},
		{"rldicr r3,r3,32,31", RLDICR(3, 3, 32, 31), 0x786307c6},
		{"std r5,40(r31)", STD(5, 31, 40), 0xf8bf0028},
		{"ld r3,8(r1)", LD(3, 1, 8), 0xe8610008},
		{"stfd f0,288(r31)", STFD(0, 31, 288), 0xd81f0120},
		{"mflr r0", MFLR(0), 0x7c0802a6},
		{"mtlr r0", MTLR(0), 0x7c0803a6},
		{"mfctr r0", MFCTR(0), 0x7c0902a6},
		{"mtctr r0", MTCTR(0), 0x7c0903a6},
		{"mtxer r0", MTXER(0), 0x7c0103a6},
		{"mfxer r0", MFXER(0), 0x7c0102a6},
		{"mfcr r0", MFCR(0), 0x7c000026},
		{"mtcr r0", MTCRF(0xff, 0), 0x7c0ff120},
		{"mffs f0", MFFS(0), 0xfc00048e},
		{"mtfsf 0xff,f0", MTFSF(0xff, 0), 0xfdfe058e},
		{"xxlxor vs0,vs0,vs0", XXLXOR(0, 0, 0), 0xf00004d0},
		{"xxlxor vs32,vs32,vs32", XXLXOR(32, 32, 32), 0xf00004d7},
		{"vxor v0,v0,v0", VXOR(0, 0, 0), 0x100004c4},
		{"mtvscr v0", MTVSCR(0), 0x10000644},
		{"mfvscr v0", MFVSCR(0), 0x10000604},
		{"mtvsrdd vs33,r4,r5", MTVSRDD(33, 4, 5), 0x7c242b67},
		{"mfvsrld r0,vs32", MFVSRLD(0, 32), 0x7c000267},
		{"stxv vs1,16(r31)", STXV(1, 31, 16), 0xf43f0015},
		{"stxv vs33,16(r31)", STXV(33, 31, 16), 0xf43f001d},
		{"lxv vs2,32(r3)", LXV(2, 3, 32), 0xf4430021},
		{"b 0x10000", B(0x10000), 0x48010000},
		{"b -4", B(-4), 0x4bfffffc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equalf(t, tt.want, tt.got, "got 0x%08x, want 0x%08x", tt.got, tt.want)
		})
	}
}

func TestSLDIIsRLDICR(t *testing.T) {
	for n := uint32(1); n < 64; n++ {
		assert.Equal(t, RLDICR(7, 8, n, 63-n), SLDI(7, 8, n), "n=%d", n)
	}
}

// evalLoadImm64 computes the register value the idiom leaves behind.
func evalLoadImm64(t *testing.T, words [5]uint32) uint64 {
	t.Helper()
	require.Equal(t, uint32(15), PrimaryOpcode(words[0]))
	require.Equal(t, uint32(24), PrimaryOpcode(words[1]))
	require.Equal(t, uint32(30), PrimaryOpcode(words[2]))
	require.Equal(t, uint32(25), PrimaryOpcode(words[3]))
	require.Equal(t, uint32(24), PrimaryOpcode(words[4]))

	v := uint64(int64(int32(words[0]&MaskD) << 16))
	v |= uint64(words[1] & MaskD)
	v <<= 32
	v |= uint64(words[3]&MaskD) << 16
	v |= uint64(words[4] & MaskD)
	return v
}

func TestLoadImm64(t *testing.T) {
	values := []uint64{
		0,
		0xffffffffffffffff,
		0x8000000000000000,
		0x00000000ffff8000,
		0x0001020304050607,
		0xa5a5a5a5a5a5a5a5,
	}

	for _, val := range values {
		words := LoadImm64(9, val)
		for _, w := range words {
			f := Extract(w)
			assert.Equal(t, uint32(9), f.RT, "word 0x%08x", w)
		}
		assert.Equal(t, uint32(0), Extract(words[0]).RA, "lis must use ra=0")
		assert.Equalf(t, val, evalLoadImm64(t, words), "value 0x%016x", val)
	}
}

func TestExtract(t *testing.T) {
	f := Extract(0x7c642a14) // add r3,r4,r5
	assert.Equal(t, Fields{RT: 3, RA: 4, RB: 5}, f)

	assert.Equal(t, int32(-8), Immediate(0xe8a3fff8))
	assert.Equal(t, uint32(58), PrimaryOpcode(0xe8a3fff8))
}
