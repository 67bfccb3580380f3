package ppcfuzz

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/opd-ai/go-ppcfuzz/internal"
)

// HashType selects how a register image is reduced to 64 bits.
type HashType int

const (
	// HashJenkins runs jhash2 over the image as 32-bit words.
	HashJenkins HashType = iota
	// HashXOR folds the image with exclusive or.
	HashXOR
	// HashBlake2b takes the first 8 bytes of a blake2b-256 digest.
	HashBlake2b
)

// String returns the name accepted by ParseHashType.
func (h HashType) String() string {
	switch h {
	case HashJenkins:
		return "jenkins"
	case HashXOR:
		return "xor"
	case HashBlake2b:
		return "blake2b"
	default:
		return fmt.Sprintf("HashType(%d)", h)
	}
}

// ParseHashType parses "jenkins", "xor" or "blake2b".
func ParseHashType(s string) (HashType, error) {
	switch strings.ToLower(s) {
	case "jenkins":
		return HashJenkins, nil
	case "xor":
		return HashXOR, nil
	case "blake2b":
		return HashBlake2b, nil
	default:
		return 0, fmt.Errorf("ppcfuzz: unknown checksum %q", s)
	}
}

// HashRegisters reduces a register image.
func HashRegisters(h HashType, regs []uint64) uint64 {
	switch h {
	case HashXOR:
		var x uint64
		for _, r := range regs {
			x ^= r
		}
		return x
	case HashBlake2b:
		return internal.Blake2bWords(regs)
	default:
		return uint64(internal.JHashWords(regs, 0))
	}
}

// Hash reduces the result's register image.
func (r *Result) Hash(h HashType) uint64 {
	return HashRegisters(h, r.Regs[:])
}

// WriteHashLine writes the "seed hash" report line.
func WriteHashLine(w io.Writer, seed, hash uint64) error {
	_, err := fmt.Fprintf(w, "%d %016x\n", seed, hash)
	return err
}

// extraNames label the save slots after the GPRs.
var extraNames = [...]string{"CR", "LR", "CTR", "XER", "FPSCR", "VSCR"}

// SlotName returns the report label of save slot i below SlotVSR0.
func SlotName(i int) string {
	if i < NumGPRs {
		return fmt.Sprintf("%d", i)
	}
	return extraNames[i-NumGPRs]
}

// WriteRegisters dumps the register image and the scratch region. VSRs
// 0-31 are printed as F registers, 32-63 as V registers, high doubleword
// first. r31 is left blank.
func WriteRegisters(w io.Writer, r *Result) error {
	bw := bufio.NewWriter(w)

	for i := 0; i < SlotVSR0; i++ {
		fmt.Fprintf(bw, "%s ", SlotName(i))
		if i != ScratchGPR {
			fmt.Fprintf(bw, "%016x", r.Regs[i])
		}
		bw.WriteString("\n")
	}
	for v := 0; v < NumVSRs; v++ {
		lo := r.Regs[SlotVSR0+2*v]
		hi := r.Regs[SlotVSR0+2*v+1]
		if v < 32 {
			fmt.Fprintf(bw, "F%d %016x %016x\n", v, hi, lo)
		} else {
			fmt.Fprintf(bw, "V%d %016x %016x\n", v-32, hi, lo)
		}
	}

	fmt.Fprintf(bw, "Memory @ %016x", r.ScratchAddr)
	for i := 0; i+8 <= len(r.Memory); i += 8 {
		if i%32 == 0 {
			bw.WriteString("\n")
		} else {
			bw.WriteString(" ")
		}
		fmt.Fprintf(bw, "%016x", binary.NativeEndian.Uint64(r.Memory[i:]))
	}
	bw.WriteString("\n\n")

	return bw.Flush()
}
