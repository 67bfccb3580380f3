package ppcfuzz

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/opd-ai/go-ppcfuzz/internal/ppc"
)

// emitLayout carries the addresses a testcase is built against.
type emitLayout struct {
	scratch     uint64 // start of the scratch region
	scratchSize int
	save        uint64 // start of the save area
}

// emitter builds one testcase. It is used for a single generation pass and
// then thrown away.
type emitter struct {
	gen      *generator
	reg      *Registry
	features Features
	mode     Mode
	layout   emitLayout
	trace    io.Writer

	words []uint32
	tc    *Testcase
}

func newEmitter(cfg *Config, reg *Registry, layout emitLayout, seed uint64) *emitter {
	return &emitter{
		gen:      newGenerator(seed, cfg.RawSeed),
		reg:      reg,
		features: cfg.Features,
		mode:     cfg.Mode,
		layout:   layout,
		trace:    cfg.Trace,
		words:    make([]uint32, 0, estimateWords(cfg.MaxInsns)),
	}
}

// estimateWords bounds the words emitted for n body instructions: 160 for
// the register setup, about 12 per load/store, and the fixed frame.
func estimateWords(n int) int {
	return n + (n/32+1)*12 + 512
}

func (e *emitter) emit(w ...uint32) {
	e.words = append(e.words, w...)
}

func (e *emitter) loadImm64(gpr uint32, val uint64) {
	w := ppc.LoadImm64(gpr, val)
	e.emit(w[:]...)
}

// hasVSX reports whether the vector-scalar register file is part of the
// modeled state.
func (e *emitter) hasVSX() bool { return e.features&FeatureVSX != 0 }

func (e *emitter) hasVector() bool { return e.features&FeatureVector != 0 }

// generate runs the whole pass and returns the finished testcase.
func (e *emitter) generate(nrInsns int, order binary.ByteOrder) *Testcase {
	if e.reg.enabledScalar() == 0 || e.reg.enabledLoadStore() == 0 {
		panic("ppcfuzz: instruction selection needs at least one enabled entry per catalog")
	}

	e.tc = &Testcase{
		Seed:        e.gen.seed,
		NrInsns:     nrInsns,
		Mode:        e.mode,
		Body:        make([]Op, 0, nrInsns),
		ScratchAddr: e.layout.scratch,
		ScratchSize: e.layout.scratchSize,
		SaveAddr:    e.layout.save,
	}

	e.prologue()
	for i := 0; i < nrInsns; i++ {
		if i&0x1f == 0 {
			e.loadStore(i)
		} else {
			e.scalar(i)
		}
	}
	e.epilogue()

	code := make([]byte, 4*len(e.words))
	for i, w := range e.words {
		order.PutUint32(code[4*i:], w)
	}
	e.tc.Code = code
	return e.tc
}

// prologue establishes the starting state: the host context is parked in
// the block addressed by r3 (hardware mode only), the special registers are
// cleared, every GPR gets a palette value and, with VSX, every VSR is built
// from a pair of GPRs.
func (e *emitter) prologue() {
	if e.mode == HardwareMode {
		e.saveHostContext()
	}

	// CR, LR, CTR and XER start from zero in both modes so nothing of the
	// caller's state reaches the image.
	e.emit(
		ppc.ADDI(0, 0, 0),
		ppc.MTCRF(0xff, 0),
		ppc.MTLR(0),
		ppc.MTCTR(0),
		ppc.MTXER(0),
	)

	for r := uint32(0); r < NumGPRs; r++ {
		val := palette[e.gen.intn(uint32(len(palette)))]
		e.tc.Initial[r] = val
		e.loadImm64(r, val)
	}

	if !e.hasVSX() {
		return
	}

	// Zero VSCR and FPSCR so status bits start clean.
	e.emit(
		ppc.VXOR(0, 0, 0),
		ppc.MTVSCR(0),
		ppc.XXLXOR(0, 0, 0),
		ppc.MTFSF(0xff, 0),
	)
	// mtvsrdd reads ra=0 as zero rather than r0.
	for v := uint32(0); v < NumVSRs; v++ {
		r := e.gen.next()
		ra := r & 0x1f
		if ra == 0 {
			ra = 1
		}
		e.emit(ppc.MTVSRDD(v, ra, (r>>8)&0x1f))
	}
}

// saveHostContext stores the caller's non-volatile registers through r3.
func (e *emitter) saveHostContext() {
	const ctx = 3

	e.emit(
		ppc.STD(1, ctx, ctxR1),
		ppc.STD(2, ctx, ctxR2),
	)
	for r := uint32(13); r < 32; r++ {
		e.emit(ppc.STD(r, ctx, ctxR13+int32(r-13)*8))
	}
	e.emit(
		ppc.MFLR(0),
		ppc.STD(0, ctx, ctxLR),
		ppc.MFCR(0),
		ppc.STD(0, ctx, ctxCR),
	)
	if e.hasVSX() {
		e.emit(
			ppc.MFFS(0),
			ppc.STFD(0, ctx, ctxFPSCR),
		)
		for i, v := range nonVolatileVSRs {
			e.emit(ppc.STXV(v, ctx, ctxVSR+int32(i)*16))
		}
	}
}

// epilogue closes the testcase. In simulation mode the core is halted and
// the simulator reads the state; otherwise the register image is stored to
// the save area and control returns to the caller.
func (e *emitter) epilogue() {
	// The last body instruction may be a bc+8.
	e.emit(ppc.NOP)

	if e.mode == SimulationMode {
		e.emit(ppc.ATTN)
		return
	}

	const base = ScratchGPR
	e.loadImm64(base, e.layout.save)
	for r := uint32(0); r < ScratchGPR; r++ {
		e.emit(ppc.STD(r, base, int32(r)*8))
	}
	e.emit(
		ppc.MFCR(0),
		ppc.STD(0, base, SlotCR*8),
		ppc.MFLR(0),
		ppc.STD(0, base, SlotLR*8),
		ppc.MFCTR(0),
		ppc.STD(0, base, SlotCTR*8),
		ppc.MFXER(0),
		ppc.STD(0, base, SlotXER*8),
	)

	if e.hasVSX() {
		for v := uint32(0); v < NumVSRs; v++ {
			e.emit(ppc.STXV(v, base, (SlotVSR0+2*int32(v))*8))
		}
		e.emit(
			ppc.MFFS(0),
			ppc.STFD(0, base, SlotFPSCR*8),
		)
	}
	if e.hasVector() {
		e.emit(
			ppc.MFVSCR(0),
			ppc.MFVSRLD(0, 32),
			ppc.STD(0, base, SlotVSCR*8),
		)
	}

	e.restoreHostContext()
	e.emit(ppc.BLR)
}

// restoreHostContext reloads what saveHostContext stored. The block is
// reached through r31, which is restored last.
func (e *emitter) restoreHostContext() {
	const base = ScratchGPR
	const ctx = contextOffset

	if e.hasVSX() {
		e.emit(
			ppc.LFD(0, base, ctx+ctxFPSCR),
			ppc.MTFSF(0xff, 0),
			ppc.VXOR(0, 0, 0),
			ppc.MTVSCR(0),
		)
		for i, v := range nonVolatileVSRs {
			e.emit(ppc.LXV(v, base, ctx+ctxVSR+int32(i)*16))
		}
	}
	e.emit(
		ppc.LD(0, base, ctx+ctxLR),
		ppc.MTLR(0),
		ppc.LD(0, base, ctx+ctxCR),
		ppc.MTCRF(0xff, 0),
		ppc.LD(1, base, ctx+ctxR1),
		ppc.LD(2, base, ctx+ctxR2),
	)
	for r := uint32(13); r < 32; r++ {
		e.emit(ppc.LD(r, base, ctx+ctxR13+int32(r-13)*8))
	}
}

// pickScalar draws catalog indexes until it lands on an enabled entry.
func (e *emitter) pickScalar() int {
	n := uint32(len(scalarCatalog))
	for {
		j := int(e.gen.intn(n))
		if e.reg.scalar[j] {
			return j
		}
	}
}

// pickLoadStore is pickScalar for the memory access catalog.
func (e *emitter) pickLoadStore() int {
	n := uint32(len(loadStoreCatalog))
	for {
		j := int(e.gen.intn(n))
		if e.reg.ldst[j] {
			return j
		}
	}
}

func (e *emitter) scalar(i int) {
	j := e.pickScalar()
	t := &scalarCatalog[j]
	insn := t.Opcode | (e.gen.next() & t.Mask)
	e.body(i, j, insn, t.Name, false)
}

// body records an instruction of the randomized section and emits it.
func (e *emitter) body(i, tmpl int, insn uint32, name string, ldst bool) {
	e.tc.Body = append(e.tc.Body, Op{
		Index:     i,
		Offset:    4 * len(e.words),
		Word:      insn,
		Name:      name,
		LoadStore: ldst,
		Template:  tmpl,
	})
	e.emit(insn)

	if e.trace != nil {
		f := ppc.Extract(insn)
		fmt.Fprintf(e.trace, "%08x %-12s %d %d %d\n", insn, name, f.RT, f.RA, f.RB)
	}
	traceLog("body", "index", i, "insn", fmt.Sprintf("%08x", insn), "name", name)
}
