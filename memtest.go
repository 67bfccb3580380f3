package ppcfuzz

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MemtestError is one mismatching doubleword found by Memtest.
type MemtestError struct {
	Offset   int
	Expected uint64
	Got      uint64
}

func (e MemtestError) Error() string {
	return fmt.Sprintf("bad data at %#x expected %016x got %016x", e.Offset, e.Expected, e.Got)
}

// memtestPattern yields the doublewords Memtest writes: two 32-bit LFSR
// draws from state 1, low word first.
type memtestPattern struct{ state uint64 }

func (p *memtestPattern) next() uint64 {
	p.state = advance(32, p.state)
	lo := p.state
	p.state = advance(32, p.state)
	return lo | p.state<<32
}

// Memtest fills buf with an LFSR pattern, reads it back and returns every
// doubleword that did not survive. Progress is written to w if it is not nil.
func Memtest(w io.Writer, buf []byte) []MemtestError {
	if w == nil {
		w = io.Discard
	}
	order := binary.NativeEndian

	fmt.Fprintln(w, "Writing")
	p := memtestPattern{state: 1}
	for i := 0; i+8 <= len(buf); i += 8 {
		order.PutUint64(buf[i:], p.next())
	}

	fmt.Fprintln(w, "Checking")
	var bad []MemtestError
	p = memtestPattern{state: 1}
	for i := 0; i+8 <= len(buf); i += 8 {
		want := p.next()
		if got := order.Uint64(buf[i:]); got != want {
			e := MemtestError{Offset: i, Expected: want, Got: got}
			fmt.Fprintln(w, e.Error())
			bad = append(bad, e)
		}
	}

	fmt.Fprintln(w, "Done")
	return bad
}
