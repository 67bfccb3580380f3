// Package internal provides the hash primitives used by ppcfuzz.
// This package wraps golang.org/x/crypto.
package internal

import (
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// MixSeed spreads the entropy of a test seed over all 64 bits so that small,
// sequential seeds do not start the generator in similar states.
func MixSeed(seed uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	sum := blake2b.Sum256(buf[:])
	return binary.LittleEndian.Uint64(sum[:8])
}

// Blake2bStream hashes a sequence of 64-bit words without building an
// intermediate byte slice.
type Blake2bStream struct {
	hasher hash.Hash
	buf    [8]byte
}

// NewBlake2bStream creates a new streaming Blake2b-256 hasher.
func NewBlake2bStream() *Blake2bStream {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only a key longer than 64 bytes makes New256 fail.
		panic(err)
	}
	return &Blake2bStream{hasher: h}
}

// WriteUint64 adds one little-endian word to the hash.
func (b *Blake2bStream) WriteUint64(v uint64) {
	binary.LittleEndian.PutUint64(b.buf[:], v)
	b.hasher.Write(b.buf[:])
}

// Sum64 returns the first 8 bytes of the digest as a little-endian word.
func (b *Blake2bStream) Sum64() uint64 {
	return binary.LittleEndian.Uint64(b.hasher.Sum(nil)[:8])
}

// Reset resets the hasher to initial state.
func (b *Blake2bStream) Reset() {
	b.hasher.Reset()
}

// Blake2bWords hashes words with Blake2b-256 and folds the digest to 64 bits.
func Blake2bWords(words []uint64) uint64 {
	s := NewBlake2bStream()
	for _, w := range words {
		s.WriteUint64(w)
	}
	return s.Sum64()
}
