package ppcfuzz

import "github.com/opd-ai/go-ppcfuzz/internal/ppc"

// regFieldMask covers the three register fields a load/store synthesis
// assigns itself.
const regFieldMask = ppc.MaskRT | ppc.MaskRA | ppc.MaskRB

// offset draws the signed displacement of one access. Its magnitude is
// below half the scratch region, aligned for the template, and small enough
// that the whole transfer stays inside that half. Bit 31 of the draw picks
// the sign.
func (e *emitter) offset(t *LoadStoreTemplate) int64 {
	half := uint64(e.layout.scratchSize / 2)
	size := uint64(t.Size)
	align := uint64(t.Align)
	if a := t.Form.immAlign(); a > align {
		align = a
	}
	if align == 0 {
		align = 1
	}

	r := e.gen.next()
	off := uint64(r) % half
	off &^= align - 1
	if off+size > half {
		off = (half - size) &^ (align - 1)
	}

	if r&0x80000000 != 0 {
		return -int64(off)
	}
	return int64(off)
}

// fill randomizes the template bits the addressing form left free.
func (e *emitter) fill(insn, free uint32) uint32 {
	if free == 0 {
		return insn
	}
	return insn | (e.gen.next() & free)
}

// loadStore emits one memory access aimed at the middle of the scratch
// region, preceded by a NOP since the previous instruction may be a bc+8.
func (e *emitter) loadStore(i int) {
	j := e.pickLoadStore()
	t := &loadStoreCatalog[j]

	e.emit(ppc.NOP)

	base := e.layout.scratch + uint64(e.layout.scratchSize/2)
	off := e.offset(t)
	addr := base + uint64(off)
	insn := t.Opcode

	switch t.Form {
	case FormX:
		// The base goes in rb: with ra=0 the hardware reads zero, which
		// leaves the access at the base address.
		r := e.gen.next()
		rb := r % 32
		ra := (rb + 1) % 32
		if t.Update && ra == 0 {
			ra = 1
		}
		rt := (ra + 1) % 32

		e.loadImm64(rb, base)
		e.loadImm64(ra, uint64(off))
		if ra == 0 {
			addr = base
		}
		insn |= ppc.RT(rt) | ppc.RA(ra) | ppc.RB(rb)
		insn = e.fill(insn, t.Mask&^regFieldMask)

	case FormD, FormDS, FormDQ:
		// ra=0 reads as zero and no displacement reaches the scratch
		// region from there.
		r := e.gen.next()
		ra := r % 32
		if ra == 0 {
			ra = 1
		}
		rt := (ra + 1) % 32

		e.loadImm64(ra, base)
		imm := t.Form.immMask()
		insn |= ppc.RT(rt) | ppc.RA(ra) | uint32(off)&imm
		insn = e.fill(insn, t.Mask&^(ppc.MaskRT|ppc.MaskRA|imm))

	case FormVL:
		r := e.gen.next()
		ra := r % 32
		if ra == 0 {
			ra = 1
		}
		rb := (ra + 1) % 32
		rt := (rb + 1) % 32
		length := uint64(e.gen.intn(uint32(t.Size) + 1))

		e.loadImm64(ra, addr)
		e.loadImm64(rb, length)
		e.emit(ppc.SLDI(rb, rb, 56))
		insn |= ppc.RT(rt) | ppc.RA(ra) | ppc.RB(rb)
		insn = e.fill(insn, t.Mask&^regFieldMask)

	default:
		panic("ppcfuzz: unknown addressing form " + t.Form.String())
	}

	e.tc.Accesses = append(e.tc.Accesses, Access{
		Index: i,
		Addr:  addr,
		Size:  int(t.Size),
		Form:  t.Form,
		Name:  t.Name,
	})
	e.body(i, j, insn, t.Name, true)
}
