package ppc

// Fields holds the register fields of an instruction word as raw numbers.
// No attempt is made to work out which of them the instruction uses.
type Fields struct {
	RT, RA, RB uint32
}

// Extract pulls the RT, RA and RB fields out of insn.
func Extract(insn uint32) Fields {
	return Fields{
		RT: (insn >> 21) & 0x1f,
		RA: (insn >> 16) & 0x1f,
		RB: (insn >> 11) & 0x1f,
	}
}

// PrimaryOpcode returns the top six bits of insn.
func PrimaryOpcode(insn uint32) uint32 { return insn >> 26 }

// Immediate returns the sign-extended low 16 bits of insn.
func Immediate(insn uint32) int32 { return int32(int16(insn & MaskD)) }
