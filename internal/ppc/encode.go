// Package ppc encodes the fixed Power ISA instruction forms the generator
// needs for setup and teardown code.
//
// Every function is a pure mapping from symbolic operands to an instruction
// word. Operands are truncated to their field width; callers are expected to
// pass legal values.
package ppc

// Field masks in an instruction word.
const (
	MaskRT = 0x03e00000
	MaskRA = 0x001f0000
	MaskRB = 0x0000f800
	MaskD  = 0x0000ffff
	MaskDS = 0x0000fffc
	MaskDQ = 0x0000fff0
)

// Fixed words.
const (
	NOP  uint32 = 0x60000000 // ori 0,0,0
	BLR  uint32 = 0x4e800020
	ATTN uint32 = 0x00000200 // halts the simulated core
)

// SPR numbers used by the setup code.
const (
	SPRXER = 1
	SPRLR  = 8
	SPRCTR = 9
)

// Opcode places the primary opcode.
func Opcode(op uint32) uint32 { return (op & 0x3f) << 26 }

// RT places a target register. RS shares the same field.
func RT(r uint32) uint32 { return (r & 0x1f) << 21 }

// RS places a source register in the RT position.
func RS(r uint32) uint32 { return RT(r) }

// RA places the A register.
func RA(r uint32) uint32 { return (r & 0x1f) << 16 }

// RB places the B register.
func RB(r uint32) uint32 { return (r & 0x1f) << 11 }

// SH64 places a 6-bit shift count of an MD-form rotate.
func SH64(sh uint32) uint32 { return (((sh >> 5) & 1) << 1) | ((sh & 0x1f) << 11) }

// MB64 places a 6-bit mask begin/end of an MD-form rotate.
func MB64(m uint32) uint32 { return (((m >> 5) & 1) << 5) | ((m & 0x1f) << 6) }

// SPR places a split SPR number.
func SPR(spr uint32) uint32 { return ((spr & 0x1f) << 16) | (((spr >> 5) & 0x1f) << 11) }

// XT places a 6-bit VSX target (or source) register of an XX or X form.
func XT(t uint32) uint32 { return RT(t) | ((t >> 5) & 1) }

// ADDI encodes addi rt,ra,si. With ra=0 this is li.
func ADDI(rt, ra uint32, si int16) uint32 {
	return Opcode(14) | RT(rt) | RA(ra) | uint32(uint16(si))
}

// ADDIS encodes addis rt,ra,si. With ra=0 this is lis.
func ADDIS(rt, ra uint32, si uint16) uint32 {
	return Opcode(15) | RT(rt) | RA(ra) | uint32(si)
}

// ORI encodes ori ra,rs,ui.
func ORI(ra, rs uint32, ui uint16) uint32 {
	return Opcode(24) | RS(rs) | RA(ra) | uint32(ui)
}

// ORIS encodes oris ra,rs,ui.
func ORIS(ra, rs uint32, ui uint16) uint32 {
	return Opcode(25) | RS(rs) | RA(ra) | uint32(ui)
}

// RLDICR encodes rldicr ra,rs,sh,me.
func RLDICR(ra, rs, sh, me uint32) uint32 {
	return Opcode(30) | RS(rs) | RA(ra) | SH64(sh) | MB64(me) | 4
}

// SLDI encodes sldi ra,rs,n.
func SLDI(ra, rs, n uint32) uint32 { return RLDICR(ra, rs, n, 63-n) }

// LoadImm64 returns the five instruction idiom that materializes val in gpr:
// the high 32 bits are built and shifted up, then the low 32 bits are or'ed in.
func LoadImm64(gpr uint32, val uint64) [5]uint32 {
	return [5]uint32{
		ADDIS(gpr, 0, uint16(val>>48)),
		ORI(gpr, gpr, uint16(val>>32)),
		RLDICR(gpr, gpr, 32, 31),
		ORIS(gpr, gpr, uint16(val>>16)),
		ORI(gpr, gpr, uint16(val)),
	}
}

// STD encodes std rs,ds(ra).
func STD(rs, ra uint32, ds int32) uint32 {
	return Opcode(62) | RS(rs) | RA(ra) | uint32(ds)&MaskDS
}

// LD encodes ld rt,ds(ra).
func LD(rt, ra uint32, ds int32) uint32 {
	return Opcode(58) | RT(rt) | RA(ra) | uint32(ds)&MaskDS
}

// STFD encodes stfd frs,d(ra).
func STFD(frs, ra uint32, d int32) uint32 {
	return Opcode(54) | RS(frs) | RA(ra) | uint32(d)&MaskD
}

// LFD encodes lfd frt,d(ra).
func LFD(frt, ra uint32, d int32) uint32 {
	return Opcode(50) | RT(frt) | RA(ra) | uint32(d)&MaskD
}

// STXV encodes stxv xs,dq(ra). dq must be a multiple of 16.
func STXV(xs, ra uint32, dq int32) uint32 {
	return 0xf4000005 | RS(xs) | RA(ra) | uint32(dq)&MaskDQ | ((xs>>5)&1)<<3
}

// LXV encodes lxv xt,dq(ra). dq must be a multiple of 16.
func LXV(xt, ra uint32, dq int32) uint32 {
	return 0xf4000001 | RT(xt) | RA(ra) | uint32(dq)&MaskDQ | ((xt>>5)&1)<<3
}

// MFSPR encodes mfspr rt,spr.
func MFSPR(rt, spr uint32) uint32 { return 0x7c0002a6 | RT(rt) | SPR(spr) }

// MTSPR encodes mtspr spr,rs.
func MTSPR(spr, rs uint32) uint32 { return 0x7c0003a6 | RS(rs) | SPR(spr) }

// MFLR encodes mflr rt.
func MFLR(rt uint32) uint32 { return MFSPR(rt, SPRLR) }

// MTLR encodes mtlr rs.
func MTLR(rs uint32) uint32 { return MTSPR(SPRLR, rs) }

// MTCTR encodes mtctr rs.
func MTCTR(rs uint32) uint32 { return MTSPR(SPRCTR, rs) }

// MTXER encodes mtxer rs.
func MTXER(rs uint32) uint32 { return MTSPR(SPRXER, rs) }

// MFCTR encodes mfctr rt.
func MFCTR(rt uint32) uint32 { return MFSPR(rt, SPRCTR) }

// MFXER encodes mfxer rt.
func MFXER(rt uint32) uint32 { return MFSPR(rt, SPRXER) }

// MFCR encodes mfcr rt.
func MFCR(rt uint32) uint32 { return 0x7c000026 | RT(rt) }

// MTCRF encodes mtcrf fxm,rs.
func MTCRF(fxm uint8, rs uint32) uint32 { return 0x7c000120 | RS(rs) | uint32(fxm)<<12 }

// MFFS encodes mffs frt.
func MFFS(frt uint32) uint32 { return 0xfc00048e | RT(frt) }

// MTFSF encodes mtfsf flm,frb.
func MTFSF(flm uint8, frb uint32) uint32 { return 0xfc00058e | uint32(flm)<<17 | RB(frb) }

// XXLXOR encodes xxlxor xt,xa,xb.
func XXLXOR(xt, xa, xb uint32) uint32 {
	return 0xf00004d0 | RT(xt) | RA(xa) | RB(xb) | ((xa>>5)&1)<<2 | ((xb>>5)&1)<<1 | (xt>>5)&1
}

// VXOR encodes vxor vt,va,vb.
func VXOR(vt, va, vb uint32) uint32 { return 0x100004c4 | RT(vt) | RA(va) | RB(vb) }

// MTVSCR encodes mtvscr vb.
func MTVSCR(vb uint32) uint32 { return 0x10000644 | RB(vb) }

// MFVSCR encodes mfvscr vt.
func MFVSCR(vt uint32) uint32 { return 0x10000604 | RT(vt) }

// MTVSRDD encodes mtvsrdd xt,ra,rb.
func MTVSRDD(xt, ra, rb uint32) uint32 { return 0x7c000366 | XT(xt) | RA(ra) | RB(rb) }

// MFVSRLD encodes mfvsrld ra,xs.
func MFVSRLD(ra, xs uint32) uint32 { return 0x7c000266 | XT(xs) | RA(ra) }

// B encodes an unconditional relative branch. offset must be word aligned.
func B(offset int64) uint32 { return 0x48000000 | uint32(offset)&0x03fffffc }
