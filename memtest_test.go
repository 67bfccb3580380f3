package ppcfuzz

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemtestPattern(t *testing.T) {
	p := memtestPattern{state: 1}
	// Two draws from state 1: 0x80200003 then 0xc0300002.
	assert.Equal(t, uint64(0xc030000280200003), p.next())
}

func TestMemtestClean(t *testing.T) {
	var out bytes.Buffer
	buf := make([]byte, 4096)

	bad := Memtest(&out, buf)
	assert.Empty(t, bad)
	assert.Equal(t, "Writing\nChecking\nDone\n", out.String())
	assert.Equal(t, uint64(0xc030000280200003), binary.NativeEndian.Uint64(buf))
}

// flakyWriter corrupts the buffer once checking starts, like a stuck bit.
type flakyWriter struct {
	buf []byte
}

func (w *flakyWriter) Write(p []byte) (int, error) {
	if strings.HasPrefix(string(p), "Checking") {
		w.buf[17] ^= 0x10
	}
	return len(p), nil
}

func TestMemtestReportsCorruption(t *testing.T) {
	buf := make([]byte, 256)
	bad := Memtest(&flakyWriter{buf: buf}, buf)

	if assert.Len(t, bad, 1) {
		assert.Equal(t, 16, bad[0].Offset)
		assert.Equal(t, bad[0].Expected^(uint64(0x10)<<(8*nativeByte(1))), bad[0].Got)
		assert.Contains(t, bad[0].Error(), "bad data at 0x10")
	}
}

// nativeByte returns the significance of byte i of a doubleword in host
// order.
func nativeByte(i int) int {
	var b [8]byte
	b[i] = 1
	v := binary.NativeEndian.Uint64(b[:])
	n := 0
	for v > 1 {
		v >>= 8
		n++
	}
	return n
}

func TestMemtestNilWriter(t *testing.T) {
	assert.Empty(t, Memtest(nil, make([]byte, 64)))
}
