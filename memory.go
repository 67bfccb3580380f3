package ppcfuzz

import "sync"

// Global pools for memory reuse to minimize allocations

var (
	// Register image pool for harness trials
	saveImagePool = sync.Pool{
		New: func() interface{} {
			s := make([]uint64, SaveSlots)
			return &s
		},
	}
)

// getSaveImage retrieves a register image buffer from the pool.
func getSaveImage() []uint64 {
	return *saveImagePool.Get().(*[]uint64)
}

// putSaveImage returns a register image buffer to the pool for reuse.
func putSaveImage(s []uint64) {
	if len(s) == SaveSlots {
		saveImagePool.Put(&s)
	}
}

// snapshot copies the first n bytes of the scratch region.
func snapshot(scratch []byte, n int) []byte {
	if n > len(scratch) {
		n = len(scratch)
	}
	out := make([]byte, n)
	copy(out, scratch[:n])
	return out
}

// zeroBytes clears a byte slice.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// zeroWords clears a register image.
func zeroWords(w []uint64) {
	for i := range w {
		w[i] = 0
	}
}
