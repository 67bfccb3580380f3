package internal

import "math/bits"

// jhashInitval is the arbitrary starting value of the Jenkins hash.
const jhashInitval = 0xdeadbeef

func jhashMix(a, b, c uint32) (uint32, uint32, uint32) {
	a -= c
	a ^= bits.RotateLeft32(c, 4)
	c += b
	b -= a
	b ^= bits.RotateLeft32(a, 6)
	a += c
	c -= b
	c ^= bits.RotateLeft32(b, 8)
	b += a
	a -= c
	a ^= bits.RotateLeft32(c, 16)
	c += b
	b -= a
	b ^= bits.RotateLeft32(a, 19)
	a += c
	c -= b
	c ^= bits.RotateLeft32(b, 4)
	b += a
	return a, b, c
}

func jhashFinal(a, b, c uint32) uint32 {
	c ^= b
	c -= bits.RotateLeft32(b, 14)
	a ^= c
	a -= bits.RotateLeft32(c, 11)
	b ^= a
	b -= bits.RotateLeft32(a, 25)
	c ^= b
	c -= bits.RotateLeft32(b, 16)
	a ^= c
	a -= bits.RotateLeft32(c, 4)
	b ^= a
	b -= bits.RotateLeft32(a, 14)
	c ^= b
	c -= bits.RotateLeft32(b, 24)
	return c
}

// JHash2 is Bob Jenkins' lookup3 hash over 32-bit words, bit-compatible with
// the Linux kernel's jhash2().
func JHash2(k []uint32, initval uint32) uint32 {
	length := uint32(len(k))
	a := jhashInitval + length<<2 + initval
	b, c := a, a

	for len(k) > 3 {
		a += k[0]
		b += k[1]
		c += k[2]
		a, b, c = jhashMix(a, b, c)
		k = k[3:]
	}

	switch len(k) {
	case 3:
		c += k[2]
		fallthrough
	case 2:
		b += k[1]
		fallthrough
	case 1:
		a += k[0]
		c = jhashFinal(a, b, c)
	}

	return c
}

// JHashWords hashes 64-bit words as the pairs of 32-bit words they occupy in
// little-endian memory.
func JHashWords(words []uint64, initval uint32) uint32 {
	k := make([]uint32, 0, 2*len(words))
	for _, w := range words {
		k = append(k, uint32(w), uint32(w>>32))
	}
	return JHash2(k, initval)
}
