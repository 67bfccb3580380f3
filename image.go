package ppcfuzz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/opd-ai/go-ppcfuzz/internal/ppc"
)

// Layout of a bare-metal image. A core resets at 0, the stub at 0x100
// re-enters the testcase, and the testcase's loads and stores hit the page
// at ImageScratchBase, the same address hardware runs use.
const (
	ImageSize        = 0x20000
	ImageEntry       = 0x0
	ImageRetry       = 0x100
	ImageCodeBase    = 0x10000
	ImageScratchBase = ScratchBase
)

// ExpectedSlots is the number of registers recorded in an expected-state
// file: the GPRs followed by CR, LR, CTR, XER, FPSCR and VSCR.
const ExpectedSlots = SlotVSR0

// BuildImage emits the simulation mode testcase for seed into a bare-metal
// image with the entry and retry branches in place.
func (f *Fuzzer) BuildImage(seed uint64, nrInsns int) ([]byte, *Testcase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, nil, ErrClosed
	}

	cfg := f.config
	cfg.Mode = SimulationMode
	if ImageScratchBase+cfg.ScratchSize > ImageSize {
		return nil, nil, fmt.Errorf("ppcfuzz: scratch size %d does not fit the image", cfg.ScratchSize)
	}
	tc, err := f.generate(cfg, fixedLayout(cfg.ScratchSize), seed, nrInsns)
	if err != nil {
		return nil, nil, err
	}
	if ImageCodeBase+tc.Len() > ImageScratchBase {
		return nil, nil, fmt.Errorf("ppcfuzz: testcase of %d bytes overlaps the image scratch page", tc.Len())
	}

	img := make([]byte, ImageSize)
	cfg.ByteOrder.PutUint32(img[ImageEntry:], ppc.B(ImageCodeBase-ImageEntry))
	cfg.ByteOrder.PutUint32(img[ImageRetry:], ppc.B(ImageCodeBase-ImageRetry))
	copy(img[ImageCodeBase:], tc.Code)
	return img, tc, nil
}

// WriteImage writes name.bin, the bare-metal image for seed. When the
// fuzzer has an executor it also runs the hardware mode testcase and writes
// the state a correct core must reach to name.out.
func (f *Fuzzer) WriteImage(name string, seed uint64, nrInsns int) error {
	img, tc, err := f.BuildImage(seed, nrInsns)
	if err != nil {
		return err
	}
	if err := os.WriteFile(name+".bin", img, 0o666); err != nil {
		return fmt.Errorf("ppcfuzz: write image: %w", err)
	}

	if f.harness == nil {
		return nil
	}
	res, err := f.Run(seed, nrInsns)
	if err != nil {
		return err
	}

	out, err := os.Create(name + ".out")
	if err != nil {
		return fmt.Errorf("ppcfuzz: create expected state: %w", err)
	}
	if err := WriteExpectedState(out, &res.Regs, tc.Links()); err != nil {
		out.Close()
		return fmt.Errorf("ppcfuzz: write expected state: %w", err)
	}
	return out.Close()
}

// WriteExpectedState writes the GPRs and special registers of regs, one
// "NAME VALUE" line each. r31 is written without a value, and so is LR when
// linked is set: see Testcase.Links.
func WriteExpectedState(w io.Writer, regs *[SaveSlots]uint64, linked bool) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < ExpectedSlots; i++ {
		if i < NumGPRs {
			fmt.Fprintf(bw, "GPR%d ", i)
		} else {
			fmt.Fprintf(bw, "%s ", extraNames[i-NumGPRs])
		}
		if i != ScratchGPR && !(linked && i == SlotLR) {
			fmt.Fprintf(bw, "%016X", regs[i])
		}
		bw.WriteString("\n")
	}
	bw.WriteString("\n")
	return bw.Flush()
}

// ExpectedState is a parsed expected-state file.
type ExpectedState struct {
	Regs  [ExpectedSlots]uint64
	Known [ExpectedSlots]bool // false for registers written without a value
}

// Compare returns the names of registers whose known value differs from
// regs.
func (s *ExpectedState) Compare(regs *[SaveSlots]uint64) []string {
	var diff []string
	for i := 0; i < ExpectedSlots; i++ {
		if s.Known[i] && s.Regs[i] != regs[i] {
			diff = append(diff, expectedName(i))
		}
	}
	return diff
}

func expectedName(i int) string {
	if i < NumGPRs {
		return fmt.Sprintf("GPR%d", i)
	}
	return extraNames[i-NumGPRs]
}

// ParseExpectedState reads an expected-state file.
func ParseExpectedState(r io.Reader) (*ExpectedState, error) {
	index := make(map[string]int, ExpectedSlots)
	for i := 0; i < ExpectedSlots; i++ {
		index[expectedName(i)] = i
	}

	var s ExpectedState
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		i, ok := index[fields[0]]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown register %q", line, fields[0])
		}
		if len(fields) == 1 {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		s.Regs[i] = v
		s.Known[i] = true
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadExpectedState loads an expected-state file from disk.
func LoadExpectedState(path string) (*ExpectedState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read expected state: %w", err)
	}
	defer f.Close()

	s, err := ParseExpectedState(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expected state: %w", err)
	}
	return s, nil
}
