// Package platform owns the memory a testcase runs in and the single unsafe
// step of entering emitted machine code.
//
// Three regions are mapped outside the Go heap at fixed addresses: the code
// page (written RW, executed RX), the scratch page the generated loads and
// stores are confined to, and the save page the testcase epilogue writes the
// register image into. Testcases embed these addresses, so mapping them at
// the same place in every process keeps the resulting register state
// reproducible.
package platform

import (
	"errors"
	"unsafe"
)

var (
	// ErrUnsupported is returned where emitted code cannot be run natively.
	ErrUnsupported = errors.New("platform: native execution not supported on this host")

	// ErrCodeTooLarge is returned when a testcase does not fit the code page.
	ErrCodeTooLarge = errors.New("platform: testcase larger than code region")

	// ErrClosed is returned by Run after Close.
	ErrClosed = errors.New("platform: use of closed native platform")

	// ErrAddressInUse is returned when a fixed mapping would overlap memory
	// that is already mapped, for example by another Native in the same
	// process.
	ErrAddressInUse = errors.New("platform: fixed address already mapped")
)

// Layout places the three regions. Code and Save must be page aligned;
// Scratch may sit anywhere inside its page.
type Layout struct {
	Code, CodeSize       uint64
	Scratch, ScratchSize uint64
	Save, SaveSize       uint64
}

// Region is one anonymous mapping. Bytes covers the requested range, which
// may start part way into the first page.
type Region struct {
	mem  []byte // whole pages
	data []byte
}

// Bytes returns the requested range. Writes go straight to the mapping.
func (r *Region) Bytes() []byte { return r.data }

// Addr returns the address of the requested range.
func (r *Region) Addr() uint64 { return addrOf(r.data) }

// Native is a set of mapped regions on the host.
type Native struct {
	code    *Region
	scratch *Region
	save    *Region
}

// CodeAddr returns the address testcases are executed at.
func (n *Native) CodeAddr() uint64 { return regionAddr(n.code) }

// ScratchAddr returns the start of the scratch region.
func (n *Native) ScratchAddr() uint64 { return regionAddr(n.scratch) }

// SaveAddr returns the start of the save region.
func (n *Native) SaveAddr() uint64 { return regionAddr(n.save) }

// Scratch returns the scratch region. Writes go straight to the mapping.
func (n *Native) Scratch() []byte { return regionBytes(n.scratch) }

// Save returns the save region.
func (n *Native) Save() []byte { return regionBytes(n.save) }

// CodeSize returns the capacity of the code region in bytes.
func (n *Native) CodeSize() int { return len(regionBytes(n.code)) }

func regionAddr(r *Region) uint64 {
	if r == nil {
		return 0
	}
	return r.Addr()
}

func regionBytes(r *Region) []byte {
	if r == nil {
		return nil
	}
	return r.data
}

func addrOf(b []byte) uint64 {
	if len(b) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&b[0])))
}

func alignUp(v, size uint64) uint64 {
	return (v + size - 1) &^ (size - 1)
}
