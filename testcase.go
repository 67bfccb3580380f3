package ppcfuzz

import (
	"fmt"

	"github.com/opd-ai/go-ppcfuzz/internal/ppc"
)

// Save area slot numbers. The epilogue stores the register image in this
// order; every slot is 8 bytes.
const (
	NumGPRs    = 32
	SlotCR     = 32
	SlotLR     = 33
	SlotCTR    = 34
	SlotXER    = 35
	SlotFPSCR  = 36
	SlotVSCR   = 37
	SlotVSR0   = 38 // VSR i occupies SlotVSR0+2i (low doubleword) and SlotVSR0+2i+1
	NumVSRs    = 64
	SaveSlots  = SlotVSR0 + 2*NumVSRs
	ScratchGPR = 31 // holds the save area address in the epilogue
)

// The host context block follows the register image. The hardware prologue
// stores the caller's non-volatile state there through r3 and the epilogue
// restores it before returning.
const (
	contextOffset = SaveSlots * 8

	ctxR1    = 0
	ctxR2    = 8
	ctxR13   = 16 // r13..r31, 8 bytes each
	ctxLR    = ctxR13 + 19*8
	ctxCR    = ctxLR + 8
	ctxFPSCR = ctxCR + 8
	ctxVSR   = 192 // vs14..vs31 then vs52..vs63, 16 bytes each

	contextSize = ctxVSR + 30*16

	// SaveAreaSize is the number of bytes an executor must map for the
	// register image and the host context.
	SaveAreaSize = contextOffset + contextSize
)

// Fixed addresses every testcase is built against, whatever runs it. The
// base and effective addresses of loads and stores end up in the register
// image, so they must not depend on where a process happened to map its
// memory. ScratchBase is also the data page of a bare-metal image.
const (
	ScratchBase = 0x1c000
	SaveBase    = 0x100000000
	CodeBase    = 0x100010000
)

func fixedLayout(scratchSize int) emitLayout {
	return emitLayout{scratch: ScratchBase, scratchSize: scratchSize, save: SaveBase}
}

// nonVolatileVSRs lists the vector-scalar registers the ELFv2 ABI requires
// a callee to preserve, in context block order.
var nonVolatileVSRs = func() []uint32 {
	var v []uint32
	for i := uint32(14); i < 32; i++ {
		v = append(v, i)
	}
	for i := uint32(52); i < 64; i++ {
		v = append(v, i)
	}
	return v
}()

// Op is one instruction of a testcase body.
type Op struct {
	Index     int    // position in the body
	Offset    int    // byte offset of the word in Code
	Word      uint32 // the instruction as emitted
	Name      string
	LoadStore bool
	Template  int // index into ScalarCatalog or LoadStoreCatalog
}

func (o Op) String() string {
	return fmt.Sprintf("%d: %08x %s", o.Index, o.Word, o.Name)
}

// Access records the memory touched by one load or store.
type Access struct {
	Index int    // body position of the instruction
	Addr  uint64 // effective address
	Size  int    // upper bound of bytes transferred
	Form  Form
	Name  string
}

// Testcase is one emitted instruction stream with the bookkeeping needed to
// run, reproduce and check it.
type Testcase struct {
	Seed    uint64
	NrInsns int
	Mode    Mode

	// Code is the instruction stream in the configured byte order.
	Code []byte

	// Initial holds the value each general purpose register is loaded with
	// by the prologue.
	Initial [NumGPRs]uint64

	Body     []Op
	Accesses []Access

	// ScratchAddr and ScratchSize describe the region load/store
	// instructions are confined to.
	ScratchAddr uint64
	ScratchSize int
	SaveAddr    uint64
}

// Len returns the length of the emitted stream in bytes.
func (tc *Testcase) Len() int { return len(tc.Code) }

// Words returns the number of emitted instruction words.
func (tc *Testcase) Words() int { return len(tc.Code) / 4 }

// LoadStores returns the body instructions taken from the load/store catalog.
func (tc *Testcase) LoadStores() []Op {
	var ops []Op
	for _, op := range tc.Body {
		if op.LoadStore {
			ops = append(ops, op)
		}
	}
	return ops
}

// Links reports whether the body holds a branch and link. LR then ends up
// with a code address, which differs between a hardware frame at CodeBase
// and an image at ImageCodeBase.
func (tc *Testcase) Links() bool {
	for _, op := range tc.Body {
		if ppc.PrimaryOpcode(op.Word) == 16 && op.Word&1 != 0 {
			return true
		}
	}
	return false
}
