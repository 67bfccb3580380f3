package ppcfuzz

import (
	"fmt"

	"github.com/opd-ai/go-ppcfuzz/internal/ppc"
)

// Template describes a register/immediate instruction. Bits set in Mask are
// operand and immediate fields the generator fills with random content; the
// remaining bits come from Opcode and are never touched.
type Template struct {
	Opcode   uint32
	Mask     uint32
	Requires Features
	Default  bool
	Name     string
}

// Form is the operand shape of a memory access.
type Form int

const (
	// FormX addresses memory as ra+rb.
	FormX Form = iota
	// FormD adds a 16-bit signed displacement to ra.
	FormD
	// FormDS adds a 14-bit signed displacement, scaled by 4, to ra.
	FormDS
	// FormDQ adds a 12-bit signed displacement, scaled by 16, to ra.
	FormDQ
	// FormVL takes the address from ra and the transfer length from the
	// high byte of rb.
	FormVL
)

// String returns the ISA name of the form.
func (f Form) String() string {
	switch f {
	case FormX:
		return "X"
	case FormD:
		return "D"
	case FormDS:
		return "DS"
	case FormDQ:
		return "DQ"
	case FormVL:
		return "VL"
	default:
		return fmt.Sprintf("Form(%d)", f)
	}
}

// immMask returns the displacement field of an immediate form.
func (f Form) immMask() uint32 {
	switch f {
	case FormD:
		return ppc.MaskD
	case FormDS:
		return ppc.MaskDS
	case FormDQ:
		return ppc.MaskDQ
	default:
		return 0
	}
}

// immAlign returns the alignment the displacement field can express.
func (f Form) immAlign() uint64 {
	switch f {
	case FormDS:
		return 4
	case FormDQ:
		return 16
	default:
		return 1
	}
}

// LoadStoreTemplate describes a memory access instruction.
type LoadStoreTemplate struct {
	Opcode   uint32
	Mask     uint32
	Form     Form
	Update   bool  // writes the effective address back to ra; ra=0 is illegal
	Size     uint8 // bytes transferred
	Align    uint8 // required alignment of the effective address
	Requires Features
	Default  bool
	Name     string
}

const (
	maskD   = 0x03ffffff // rt, ra, 16-bit immediate
	maskX   = 0x03fff800 // rt, ra, rb
	maskXRc = 0x03fff801 // rt, ra, rb, Rc or TX or EH
	maskMD  = 0x03ffffe2
	maskMDS = 0x03ffffe0
	maskXX3 = 0x03fff807
)

var scalarCatalog = []Template{
	// Add/sub ops
	{0x38000000, maskD, FeatureScalar, true, "addi"},
	{0x7c000214, maskX, FeatureScalar, true, "add"},
	{0x7c000215, maskX, FeatureScalar, true, "add_rc"},
	{0x3c000000, maskD, FeatureScalar, true, "addis"},
	{0x7c000050, maskX, FeatureScalar, true, "subf"},
	{0x7c000051, maskX, FeatureScalar, true, "subf_rc"},
	{0x7c0000d0, maskX, FeatureScalar, true, "neg"},
	{0x7c0000d1, maskX, FeatureScalar, true, "neg_rc"},

	// Add/sub with overflow
	{0x7c000614, maskX, FeatureOverflow, true, "add_o"},
	{0x7c000615, maskX, FeatureOverflow, true, "add_o_rc"},
	{0x7c000450, maskX, FeatureOverflow, true, "subf_o"},
	{0x7c000451, maskX, FeatureOverflow, true, "subf_o_rc"},
	{0x7c0004d0, maskX, FeatureOverflow, true, "neg_o"},
	{0x7c0004d1, maskX, FeatureOverflow, true, "neg_o_rc"},

	// Add/sub carry ops
	{0x7c000014, maskX, FeatureCarry, true, "addc"},
	{0x7c000015, maskX, FeatureCarry, true, "addc_rc"},
	{0x30000000, maskD, FeatureCarry, true, "addic"},
	{0x34000000, maskD, FeatureCarry, true, "addic_rc"},
	{0x7c000194, maskX, FeatureCarry, true, "addze"},
	{0x7c000195, maskX, FeatureCarry, true, "addze_rc"},
	{0x7c000114, maskX, FeatureCarry, true, "adde"},
	{0x7c000115, maskX, FeatureCarry, true, "adde_rc"},
	{0x7c0001d4, maskX, FeatureCarry, true, "addme"},
	{0x7c0001d5, maskX, FeatureCarry, true, "addme_rc"},
	{0x7c000010, maskX, FeatureCarry, true, "subfc"},
	{0x7c000011, maskX, FeatureCarry, true, "subfc_rc"},
	{0x20000000, maskD, FeatureCarry, true, "subfic"},
	{0x7c000110, maskX, FeatureCarry, true, "subfe"},
	{0x7c000111, maskX, FeatureCarry, true, "subfe_rc"},
	{0x7c0001d0, maskX, FeatureCarry, true, "subfme"},
	{0x7c0001d1, maskX, FeatureCarry, true, "subfme_rc"},
	{0x7c000190, maskX, FeatureCarry, true, "subfze"},
	{0x7c000191, maskX, FeatureCarry, true, "subfze_rc"},
	{0x7c000154, maskXRc, FeatureCarry | FeatureISA3, false, "addex"},

	// Carry ops with overflow
	{0x7c000414, maskX, FeatureCarry | FeatureOverflow, true, "addc_o"},
	{0x7c000514, maskX, FeatureCarry | FeatureOverflow, true, "adde_o"},
	{0x7c000594, maskX, FeatureCarry | FeatureOverflow, true, "addze_o"},
	{0x7c0005d4, maskX, FeatureCarry | FeatureOverflow, true, "addme_o"},
	{0x7c000410, maskX, FeatureCarry | FeatureOverflow, true, "subfc_o"},
	{0x7c000510, maskX, FeatureCarry | FeatureOverflow, true, "subfe_o"},
	{0x7c000590, maskX, FeatureCarry | FeatureOverflow, true, "subfze_o"},
	{0x7c0005d0, maskX, FeatureCarry | FeatureOverflow, true, "subfme_o"},

	// Logical ops
	{0x70000000, maskD, FeatureScalar, true, "andi_rc"},
	{0x74000000, maskD, FeatureScalar, true, "andis_rc"},
	{0x60000000, maskD, FeatureScalar, true, "ori"},
	{0x64000000, maskD, FeatureScalar, true, "oris"},
	{0x68000000, maskD, FeatureScalar, true, "xori"},
	{0x6c000000, maskD, FeatureScalar, true, "xoris"},
	{0x7c000038, maskX, FeatureScalar, true, "and"},
	{0x7c000039, maskX, FeatureScalar, true, "and_rc"},
	{0x7c000278, maskX, FeatureScalar, true, "xor"},
	{0x7c000279, maskX, FeatureScalar, true, "xor_rc"},
	{0x7c0003b8, maskX, FeatureScalar, true, "nand"},
	{0x7c0003b9, maskX, FeatureScalar, true, "nand_rc"},
	{0x7c000378, maskX, FeatureScalar, true, "or"},
	{0x7c000379, maskX, FeatureScalar, true, "or_rc"},
	{0x7c0000f8, maskX, FeatureScalar, true, "nor"},
	{0x7c0000f9, maskX, FeatureScalar, true, "nor_rc"},
	{0x7c000078, maskX, FeatureScalar, true, "andc"},
	{0x7c000079, maskX, FeatureScalar, true, "andc_rc"},
	{0x7c000238, maskX, FeatureScalar, true, "eqv"},
	{0x7c000239, maskX, FeatureScalar, true, "eqv_rc"},
	{0x7c000338, maskX, FeatureScalar, true, "orc"},
	{0x7c000339, maskX, FeatureScalar, true, "orc_rc"},

	// Sign extension ops
	{0x7c000774, maskX, FeatureScalar, true, "extsb"},
	{0x7c000775, maskX, FeatureScalar, true, "extsb_rc"},
	{0x7c000734, maskX, FeatureScalar, true, "extsh"},
	{0x7c000735, maskX, FeatureScalar, true, "extsh_rc"},
	{0x7c0007b4, maskX, FeatureScalar, true, "extsw"},
	{0x7c0007b5, maskX, FeatureScalar, true, "extsw_rc"},
	{0x7c0006f4, 0x03fff802, FeatureISA3, false, "extswsli"},
	{0x7c0006f5, 0x03fff802, FeatureISA3, false, "extswsli_rc"},

	// Count leading/trailing zeroes
	{0x7c000034, maskX, FeatureScalar, true, "cntlzw"},
	{0x7c000035, maskX, FeatureScalar, true, "cntlzw_rc"},
	{0x7c000434, maskX, FeatureISA3, true, "cnttzw"},
	{0x7c000435, maskX, FeatureISA3, true, "cnttzw_rc"},
	{0x7c000074, maskX, FeatureScalar, true, "cntlzd"},
	{0x7c000075, maskX, FeatureScalar, true, "cntlzd_rc"},
	{0x7c000474, maskX, FeatureISA3, true, "cnttzd"},
	{0x7c000475, maskX, FeatureISA3, true, "cnttzd_rc"},

	// Rotate and shift ops
	{0x78000010, maskMDS, FeatureScalar, true, "rldcl"},
	{0x78000011, maskMDS, FeatureScalar, true, "rldcl_rc"},
	{0x78000012, maskMDS, FeatureScalar, true, "rldcr"},
	{0x78000013, maskMDS, FeatureScalar, true, "rldcr_rc"},
	{0x78000000, maskMD, FeatureScalar, true, "rldicl"},
	{0x78000001, maskMD, FeatureScalar, true, "rldicl_rc"},
	{0x78000004, maskMD, FeatureScalar, true, "rldicr"},
	{0x78000005, maskMD, FeatureScalar, true, "rldicr_rc"},
	{0x78000008, maskMD, FeatureScalar, true, "rldic"},
	{0x78000009, maskMD, FeatureScalar, true, "rldic_rc"},
	{0x5c000000, 0x03fffffe, FeatureScalar, true, "rlwnm"},
	{0x5c000001, 0x03fffffe, FeatureScalar, true, "rlwnm_rc"},
	{0x54000000, 0x03fffffe, FeatureScalar, true, "rlwinm"},
	{0x54000001, 0x03fffffe, FeatureScalar, true, "rlwinm_rc"},
	{0x7800000c, maskMD, FeatureScalar, true, "rldimi"},
	{0x7800000d, maskMD, FeatureScalar, true, "rldimi_rc"},
	{0x50000000, 0x03fffffe, FeatureScalar, true, "rlwimi"},
	{0x50000001, 0x03fffffe, FeatureScalar, true, "rlwimi_rc"},
	{0x7c000030, maskX, FeatureScalar, true, "slw"},
	{0x7c000031, maskX, FeatureScalar, true, "slw_rc"},
	{0x7c000036, maskX, FeatureScalar, true, "sld"},
	{0x7c000037, maskX, FeatureScalar, true, "sld_rc"},
	{0x7c000634, maskX, FeatureScalar, true, "srad"},
	{0x7c000635, maskX, FeatureScalar, true, "srad_rc"},
	{0x7c000674, 0x03fff802, FeatureScalar, true, "sradi"},
	{0x7c000675, 0x03fff802, FeatureScalar, true, "sradi_rc"},
	{0x7c000630, maskX, FeatureScalar, true, "sraw"},
	{0x7c000631, maskX, FeatureScalar, true, "sraw_rc"},
	{0x7c000670, maskX, FeatureScalar, true, "srawi"},
	{0x7c000671, maskX, FeatureScalar, true, "srawi_rc"},
	{0x7c000436, maskX, FeatureScalar, true, "srd"},
	{0x7c000437, maskX, FeatureScalar, true, "srd_rc"},
	{0x7c000430, maskX, FeatureScalar, true, "srw"},
	{0x7c000431, maskX, FeatureScalar, true, "srw_rc"},

	// Population count ops
	{0x7c0000f4, maskXRc, FeatureScalar, true, "popcntb"},
	{0x7c0003f4, maskXRc, FeatureScalar, true, "popcntd"},
	{0x7c0002f4, maskXRc, FeatureScalar, true, "popcntw"},

	// Multiply ops
	{0x7c000092, 0x03fffc00, FeatureScalar, true, "mulhd"},
	{0x7c000093, 0x03fffc00, FeatureScalar, true, "mulhd_rc"},
	{0x7c000012, 0x03fffc00, FeatureScalar, true, "mulhdu"},
	{0x7c000013, 0x03fffc00, FeatureScalar, true, "mulhdu_rc"},
	{0x7c000096, 0x03fffc00, FeatureScalar, true, "mulhw"},
	{0x7c000097, 0x03fffc00, FeatureScalar, true, "mulhw_rc"},
	{0x7c000016, 0x03fffc00, FeatureScalar, true, "mulhwu"},
	{0x7c000017, 0x03fffc00, FeatureScalar, true, "mulhwu_rc"},
	{0x1c000000, maskD, FeatureScalar, true, "mulli"},
	{0x7c0001d2, maskX, FeatureScalar, true, "mulld"},
	{0x7c0001d3, maskX, FeatureScalar, true, "mulld_rc"},
	{0x7c0001d6, maskX, FeatureScalar, true, "mullw"},
	{0x7c0001d7, maskX, FeatureScalar, true, "mullw_rc"},
	{0x7c0005d2, maskX, FeatureOverflow, true, "mulld_o"},
	{0x7c0005d6, maskX, FeatureOverflow, true, "mullw_o"},
	{0x10000030, 0x03ffffc0, FeatureISA3, false, "maddhd"},
	{0x10000031, 0x03ffffc0, FeatureISA3, false, "maddhdu"},
	{0x10000033, 0x03ffffc0, FeatureISA3, false, "maddld"},

	// SPR read/write ops
	{0x7c0903a6, 0x03e00001, FeatureScalar, true, "mtspr_ctr"},
	{0x7c0902a6, 0x03e00001, FeatureScalar, true, "mfspr_ctr"},
	{0x7c0803a6, 0x03e00001, FeatureScalar, true, "mtspr_lr"},
	{0x7c0802a6, 0x03e00001, FeatureScalar, true, "mfspr_lr"},

	// Compare ops
	{0x7c000000, maskXRc, FeatureScalar, true, "cmp"},
	{0x2c000000, maskD, FeatureScalar, true, "cmpi"},
	{0x7c000040, maskXRc, FeatureScalar, true, "cmpl"},
	{0x28000000, maskD, FeatureScalar, true, "cmpli"},
	{0x7c000180, maskXRc, FeatureISA3, false, "cmprb"},
	{0x7c0001c0, maskXRc, FeatureISA3, false, "cmpeqb"},

	// CR ops
	{0x4c000000, maskXRc, FeatureScalar, true, "mcrf"},
	{0x7c100026, 0x03eff801, FeatureScalar, true, "mfocrf"},
	{0x7c100120, 0x03eff801, FeatureScalar, true, "mtocrf"},
	{0x7c000026, 0x03eff801, FeatureScalar, true, "mfcr"},
	{0x7c000120, 0x03eff801, FeatureScalar, true, "mtcrf"},
	{0x7c00001e, 0x03e0ffc1, FeatureScalar, true, "isel0"},
	{0x7c10001e, 0x03efffc1, FeatureScalar, true, "isel"},
	{0x7c08001e, 0x03f7ffc1, FeatureScalar, true, "isel"},
	{0x7c04001e, 0x03fbffc1, FeatureScalar, true, "isel"},
	{0x7c02001e, 0x03fdffc1, FeatureScalar, true, "isel"},
	{0x7c01001e, 0x03feffc1, FeatureScalar, true, "isel"},
	{0x7c000100, maskXRc, FeatureISA3, false, "setb"},

	// BC+8, the only branch: skips the following instruction
	{0x40000008, 0x03ff0001, FeatureScalar, true, "bc"},

	// CR logical ops
	{0x4c000202, maskXRc, FeatureScalar, false, "crand"},
	{0x4c000102, maskXRc, FeatureScalar, false, "crandc"},
	{0x4c000242, maskXRc, FeatureScalar, false, "creqv"},
	{0x4c0001c2, maskXRc, FeatureScalar, false, "crnand"},
	{0x4c000042, maskXRc, FeatureScalar, false, "crnor"},
	{0x4c000382, maskXRc, FeatureScalar, false, "cror"},
	{0x4c000342, maskXRc, FeatureScalar, false, "crorc"},
	{0x4c000182, maskXRc, FeatureScalar, false, "crxor"},

	// Divide and mod
	{0x7c0003d2, maskX, FeatureDivide, true, "divd"},
	{0x7c000352, maskX, FeatureDivide, true, "divde"},
	{0x7c000353, maskX, FeatureDivide, true, "divde_rc"},
	{0x7c000312, maskX, FeatureDivide, true, "divdeu"},
	{0x7c000313, maskX, FeatureDivide, true, "divdeu_rc"},
	{0x7c0003d3, maskX, FeatureDivide, true, "divd_rc"},
	{0x7c000392, maskX, FeatureDivide, true, "divdu"},
	{0x7c000393, maskX, FeatureDivide, true, "divdu_rc"},
	{0x7c0003d6, maskX, FeatureDivide, true, "divw"},
	{0x7c000356, maskX, FeatureDivide, true, "divwe"},
	{0x7c000357, maskX, FeatureDivide, true, "divwe_rc"},
	{0x7c000316, maskX, FeatureDivide, true, "divweu"},
	{0x7c000317, maskX, FeatureDivide, true, "divweu_rc"},
	{0x7c0003d7, maskX, FeatureDivide, true, "divw_rc"},
	{0x7c000396, maskX, FeatureDivide, true, "divwu"},
	{0x7c000397, maskX, FeatureDivide, true, "divwu_rc"},
	{0x7c0007d2, maskX, FeatureDivide | FeatureOverflow, true, "divd_o"},
	{0x7c000792, maskX, FeatureDivide | FeatureOverflow, true, "divdu_o"},
	{0x7c0007d6, maskX, FeatureDivide | FeatureOverflow, true, "divw_o"},
	{0x7c000796, maskX, FeatureDivide | FeatureOverflow, true, "divwu_o"},
	{0x7c000612, maskXRc, FeatureDivide | FeatureISA3, true, "modsd"},
	{0x7c000616, maskXRc, FeatureDivide | FeatureISA3, true, "modsw"},
	{0x7c000212, maskXRc, FeatureDivide | FeatureISA3, true, "modud"},
	{0x7c000216, maskXRc, FeatureDivide | FeatureISA3, true, "moduw"},

	// Parity ops
	{0x7c000174, maskXRc, FeatureScalar, true, "prtyd"},
	{0x7c000134, maskXRc, FeatureScalar, true, "prtyw"},

	// Other misc ops
	{0x7c0003f8, maskXRc, FeatureScalar, true, "cmpb"},
	{0x7c0001f8, maskXRc, FeatureScalar, false, "bpermd"},

	// Cache control ops
	{0x7c0007ac, maskXRc, FeatureScalar, false, "icbi"},
	{0x7c00002c, maskXRc, FeatureScalar, true, "icbt"},
	{0x4c00012c, maskXRc, FeatureScalar, true, "isync"},
	{0x7c0004ac, 0x03bff801, FeatureScalar, true, "sync"},

	// Trap ops
	{0x08000000, maskD, FeatureScalar, false, "tdi_ti"},
	{0x7c000088, maskXRc, FeatureScalar, false, "td_ti"},
	{0x7c000008, maskXRc, FeatureScalar, false, "tw"},
	{0x0c000000, maskD, FeatureScalar, false, "twi"},

	// Floating point arithmetic, observable through the VSX register image
	{0xfc00002a, maskX, FeatureFloat | FeatureVSX, true, "fadd"},
	{0xfc00002b, maskX, FeatureFloat | FeatureVSX, true, "fadd_rc"},
	{0xfc000028, maskX, FeatureFloat | FeatureVSX, true, "fsub"},
	{0xfc000032, 0x03ff07c0, FeatureFloat | FeatureVSX, true, "fmul"},
	{0xfc00003a, 0x03ffffc0, FeatureFloat | FeatureVSX, true, "fmadd"},
	{0xfc000024, maskX, FeatureFloat | FeatureVSX, true, "fdiv"},
	{0xfc000210, 0x03e0f800, FeatureFloat | FeatureVSX, true, "fabs"},
	{0xfc000050, 0x03e0f800, FeatureFloat | FeatureVSX, true, "fneg"},
	{0xfc000090, 0x03e0f800, FeatureFloat | FeatureVSX, true, "fmr"},
	{0xfc000000, 0x039ff800, FeatureFloat | FeatureVSX, true, "fcmpu"},
	{0xfc00065c, 0x03e0f800, FeatureFloat | FeatureVSX, true, "fctid"},
	{0xfc00069c, 0x03e0f800, FeatureFloat | FeatureVSX, true, "fcfid"},

	// VMX integer ops
	{0x10000000, maskX, FeatureVector, true, "vaddubm"},
	{0x10000040, maskX, FeatureVector, true, "vadduhm"},
	{0x10000080, maskX, FeatureVector, true, "vadduwm"},
	{0x100000c0, maskX, FeatureVector, true, "vaddudm"},
	{0x10000180, maskX, FeatureVector, true, "vaddcuw"},
	{0x10000200, maskX, FeatureVector, true, "vaddubs"},
	{0x10000380, maskX, FeatureVector, true, "vaddsws"},
	{0x10000400, maskX, FeatureVector, true, "vsububm"},
	{0x10000440, maskX, FeatureVector, true, "vsubuhm"},
	{0x10000480, maskX, FeatureVector, true, "vsubuwm"},
	{0x100004c0, maskX, FeatureVector, true, "vsubudm"},
	{0x10000089, maskX, FeatureVector, true, "vmuluwm"},
	{0x10000182, maskX, FeatureVector, true, "vmaxsw"},
	{0x10000282, maskX, FeatureVector, true, "vminuw"},
	{0x10000404, maskX, FeatureVector, true, "vand"},
	{0x10000444, maskX, FeatureVector, true, "vandc"},
	{0x10000484, maskX, FeatureVector, true, "vor"},
	{0x100004c4, maskX, FeatureVector, true, "vxor"},
	{0x10000504, maskX, FeatureVector, true, "vnor"},
	{0x10000084, maskX, FeatureVector, true, "vrlw"},
	{0x10000184, maskX, FeatureVector, true, "vslw"},
	{0x10000284, maskX, FeatureVector, true, "vsrw"},
	{0x10000384, maskX, FeatureVector, true, "vsraw"},
	{0x10000086, maskX, FeatureVector, true, "vcmpequw"},
	{0x10000486, maskX, FeatureVector, true, "vcmpequw_rc"},
	{0x10000783, 0x03e0f800, FeatureVector, true, "vpopcntw"},
	{0x1000002b, 0x03ffffc0, FeatureVector, true, "vperm"},
	{0x1000002a, 0x03ffffc0, FeatureVector, true, "vsel"},

	// VSX ops
	{0xf0000410, maskXX3, FeatureVSX, true, "xxland"},
	{0xf0000450, maskXX3, FeatureVSX, true, "xxlandc"},
	{0xf0000490, maskXX3, FeatureVSX, true, "xxlor"},
	{0xf00004d0, maskXX3, FeatureVSX, true, "xxlxor"},
	{0xf0000510, maskXX3, FeatureVSX, true, "xxlnor"},
	{0xf0000550, maskXX3, FeatureVSX, true, "xxlorc"},
	{0xf0000590, maskXX3, FeatureVSX, true, "xxlnand"},
	{0xf00005d0, maskXX3, FeatureVSX, true, "xxleqv"},
	{0xf0000090, maskXX3, FeatureVSX, true, "xxmrghw"},
	{0xf0000190, maskXX3, FeatureVSX, true, "xxmrglw"},
	{0xf0000050, 0x03fff307, FeatureVSX, true, "xxpermdi"},
	{0xf0000030, 0x03ffffcf, FeatureVSX, true, "xxsel"},
	{0xf0000100, maskXX3, FeatureVSX, true, "xsadddp"},
	{0xf0000140, maskXX3, FeatureVSX, true, "xssubdp"},
	{0xf0000180, maskXX3, FeatureVSX, true, "xsmuldp"},
	{0xf00001c0, maskXX3, FeatureVSX, true, "xsdivdp"},
	{0xf0000300, maskXX3, FeatureVSX, true, "xvadddp"},
	{0xf0000380, maskXX3, FeatureVSX, true, "xvmuldp"},
	{0x7c000166, 0x03ff0001, FeatureVSX, true, "mtvsrd"},
	{0x7c000066, 0x03ff0001, FeatureVSX, true, "mfvsrd"},
	{0x7c000326, 0x03ff0001, FeatureVSX, true, "mtvsrws"},
	{0x7c000366, maskXRc, FeatureVSX, true, "mtvsrdd"},
	{0x7c000266, 0x03ff0001, FeatureVSX, true, "mfvsrld"},
}

var loadStoreCatalog = []LoadStoreTemplate{
	{0x88000000, maskD, FormD, false, 1, 1, FeatureScalar, true, "lbz"},
	{0x7c0000ae, maskX, FormX, false, 1, 1, FeatureScalar, true, "lbzx"},
	{0xe8000000, 0x03fffffc, FormDS, false, 8, 8, FeatureScalar, true, "ld"},
	{0x7c000428, maskX, FormX, false, 8, 8, FeatureScalar, true, "ldbrx"},
	{0x7c00002a, maskX, FormX, false, 8, 8, FeatureScalar, true, "ldx"},
	{0x7c00062c, maskX, FormX, false, 2, 2, FeatureScalar, true, "lhbrx"},
	{0xa0000000, maskD, FormD, false, 2, 2, FeatureScalar, true, "lhz"},
	{0x7c00022e, maskX, FormX, false, 2, 2, FeatureScalar, true, "lhzx"},
	{0x7c00042c, maskX, FormX, false, 4, 4, FeatureScalar, true, "lwbrx"},
	{0x80000000, maskD, FormD, false, 4, 4, FeatureScalar, true, "lwz"},
	{0x7c00002e, maskX, FormX, false, 4, 4, FeatureScalar, true, "lwzx"},
	{0x98000000, maskD, FormD, false, 1, 1, FeatureScalar, true, "stb"},
	{0x7c0001ae, maskX, FormX, false, 1, 1, FeatureScalar, true, "stbx"},
	{0xf8000000, 0x03fffffc, FormDS, false, 8, 8, FeatureScalar, true, "std"},
	{0x7c000528, maskX, FormX, false, 8, 8, FeatureScalar, true, "stdbrx"},
	{0x7c00012a, maskX, FormX, false, 8, 8, FeatureScalar, true, "stdx"},
	{0xb0000000, maskD, FormD, false, 2, 2, FeatureScalar, true, "sth"},
	{0x7c00072c, maskX, FormX, false, 2, 2, FeatureScalar, true, "sthbrx"},
	{0x7c00032e, maskX, FormX, false, 2, 2, FeatureScalar, true, "sthx"},
	{0x90000000, maskD, FormD, false, 4, 4, FeatureScalar, true, "stw"},
	{0x7c00052c, maskX, FormX, false, 4, 4, FeatureScalar, true, "stwbrx"},
	{0x7c00012e, maskX, FormX, false, 4, 4, FeatureScalar, true, "stwx"},
	{0xe8000001, 0x03fffffc, FormDS, true, 8, 8, FeatureScalar, true, "ldu"},
	{0x7c00006a, maskX, FormX, true, 8, 8, FeatureScalar, true, "ldux"},
	{0xa8000000, maskD, FormD, false, 2, 2, FeatureScalar, true, "lha"},
	{0x7c0002ae, maskX, FormX, false, 2, 2, FeatureScalar, true, "lhax"},
	{0xe8000002, 0x03fffffc, FormDS, false, 4, 4, FeatureScalar, true, "lwa"},
	{0x7c0002aa, maskX, FormX, false, 4, 4, FeatureScalar, true, "lwax"},
	{0x94000000, maskD, FormD, true, 4, 4, FeatureScalar, true, "stwu"},
	{0x7c00016e, maskX, FormX, true, 4, 4, FeatureScalar, true, "stwux"},
	{0x9c000000, maskD, FormD, true, 1, 1, FeatureScalar, true, "stbu"},
	{0x7c0001ee, maskX, FormX, true, 1, 1, FeatureScalar, true, "stbux"},
	{0xb4000000, maskD, FormD, true, 2, 2, FeatureScalar, true, "sthu"},
	{0x7c00036e, maskX, FormX, true, 2, 2, FeatureScalar, true, "sthux"},
	{0xf8000001, 0x03fffffc, FormDS, true, 8, 8, FeatureScalar, true, "stdu"},
	{0x7c00016a, maskX, FormX, true, 8, 8, FeatureScalar, true, "stdux"},
	{0x8c000000, maskD, FormD, true, 1, 1, FeatureScalar, true, "lbzu"},
	{0x7c0000ee, maskX, FormX, true, 1, 1, FeatureScalar, true, "lbzux"},
	{0xa4000000, maskD, FormD, true, 2, 2, FeatureScalar, true, "lhzu"},
	{0x7c00026e, maskX, FormX, true, 2, 2, FeatureScalar, true, "lhzux"},
	{0x84000000, maskD, FormD, true, 4, 4, FeatureScalar, true, "lwzu"},
	{0x7c00006e, maskX, FormX, true, 4, 4, FeatureScalar, true, "lwzux"},
	{0xac000000, maskD, FormD, true, 2, 2, FeatureScalar, true, "lhau"},
	{0x7c0002ee, maskX, FormX, true, 2, 2, FeatureScalar, true, "lhaux"},
	{0x7c0002ea, maskX, FormX, true, 4, 4, FeatureScalar, true, "lwaux"},

	// Reservations. A lost reservation makes stcx. results vary run to run.
	{0x7c000068, maskXRc, FormX, false, 1, 1, FeatureStoreConditional, true, "lbarx"},
	{0x7c0000e8, maskXRc, FormX, false, 2, 2, FeatureStoreConditional, true, "lharx"},
	{0x7c000028, maskXRc, FormX, false, 4, 4, FeatureStoreConditional, true, "lwarx"},
	{0x7c0000a8, maskXRc, FormX, false, 8, 8, FeatureStoreConditional, true, "ldarx"},
	{0x7c00056d, maskX, FormX, false, 1, 1, FeatureStoreConditional, true, "stbcx_rc"},
	{0x7c0005ad, maskX, FormX, false, 2, 2, FeatureStoreConditional, true, "sthcx_rc"},
	{0x7c00012d, maskX, FormX, false, 4, 4, FeatureStoreConditional, true, "stwcx_rc"},
	{0x7c0001ad, maskX, FormX, false, 8, 8, FeatureStoreConditional, true, "stdcx_rc"},

	// Floating point
	{0xc8000000, maskD, FormD, false, 8, 8, FeatureFloat, true, "lfd"},
	{0x7c0004ae, maskX, FormX, false, 8, 8, FeatureFloat, true, "lfdx"},
	{0xcc000000, maskD, FormD, true, 8, 8, FeatureFloat, true, "lfdu"},
	{0xc0000000, maskD, FormD, false, 4, 4, FeatureFloat, true, "lfs"},
	{0x7c00042e, maskX, FormX, false, 4, 4, FeatureFloat, true, "lfsx"},
	{0x7c0006ae, maskX, FormX, false, 4, 4, FeatureFloat, true, "lfiwax"},
	{0xd8000000, maskD, FormD, false, 8, 8, FeatureFloat, true, "stfd"},
	{0x7c0005ae, maskX, FormX, false, 8, 8, FeatureFloat, true, "stfdx"},
	{0xdc000000, maskD, FormD, true, 8, 8, FeatureFloat, true, "stfdu"},
	{0xd0000000, maskD, FormD, false, 4, 4, FeatureFloat, true, "stfs"},
	{0x7c00052e, maskX, FormX, false, 4, 4, FeatureFloat, true, "stfsx"},
	{0x7c0007ae, maskX, FormX, false, 4, 4, FeatureFloat, true, "stfiwx"},

	// VMX
	{0x7c0000ce, maskX, FormX, false, 16, 16, FeatureVector, true, "lvx"},
	{0x7c0001ce, maskX, FormX, false, 16, 16, FeatureVector, true, "stvx"},
	{0x7c00008e, maskX, FormX, false, 4, 4, FeatureVector, true, "lvewx"},
	{0x7c00018e, maskX, FormX, false, 4, 4, FeatureVector, true, "stvewx"},

	// VSX
	{0x7c000698, maskXRc, FormX, false, 16, 16, FeatureVSX, true, "lxvd2x"},
	{0x7c000798, maskXRc, FormX, false, 16, 16, FeatureVSX, true, "stxvd2x"},
	{0x7c000618, maskXRc, FormX, false, 16, 16, FeatureVSX, true, "lxvw4x"},
	{0x7c000718, maskXRc, FormX, false, 16, 16, FeatureVSX, true, "stxvw4x"},
	{0x7c000498, maskXRc, FormX, false, 8, 8, FeatureVSX, true, "lxsdx"},
	{0x7c000598, maskXRc, FormX, false, 8, 8, FeatureVSX, true, "stxsdx"},
	{0xe4000002, 0x03fffffc, FormDS, false, 8, 8, FeatureVSX, true, "lxsd"},
	{0xf4000002, 0x03fffffc, FormDS, false, 8, 8, FeatureVSX, true, "stxsd"},
	{0xf4000001, 0x03fffff8, FormDQ, false, 16, 16, FeatureVSX, true, "lxv"},
	{0xf4000005, 0x03fffff8, FormDQ, false, 16, 16, FeatureVSX, true, "stxv"},
	{0x7c00021a, maskXRc, FormVL, false, 16, 16, FeatureVSX, true, "lxvl"},
	{0x7c00031a, maskXRc, FormVL, false, 16, 16, FeatureVSX, true, "stxvl"},
	{0x7c00025a, maskXRc, FormVL, false, 16, 16, FeatureVSX, true, "lxvll"},
	{0x7c00035a, maskXRc, FormVL, false, 16, 16, FeatureVSX, true, "stxvll"},
}

// ScalarCatalog returns a copy of the register/immediate catalog.
func ScalarCatalog() []Template {
	return append([]Template(nil), scalarCatalog...)
}

// LoadStoreCatalog returns a copy of the memory access catalog.
func LoadStoreCatalog() []LoadStoreTemplate {
	return append([]LoadStoreTemplate(nil), loadStoreCatalog...)
}
