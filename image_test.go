package ppcfuzz

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-ppcfuzz/internal/ppc"
)

func TestBuildImage(t *testing.T) {
	f, _ := newTestFuzzer(t, Config{}, nil)

	img, tc, err := f.BuildImage(5, 200)
	require.NoError(t, err)
	require.Len(t, img, ImageSize)

	assert.Equal(t, SimulationMode, tc.Mode)
	assert.Equal(t, uint64(ImageScratchBase), tc.ScratchAddr)
	assert.Equal(t, ppc.B(ImageCodeBase), binary.LittleEndian.Uint32(img[ImageEntry:]))
	assert.Equal(t, ppc.B(ImageCodeBase-ImageRetry), binary.LittleEndian.Uint32(img[ImageRetry:]))
	assert.Equal(t, tc.Code, img[ImageCodeBase:ImageCodeBase+tc.Len()])

	for _, a := range tc.Accesses {
		assert.GreaterOrEqual(t, a.Addr, uint64(ImageScratchBase))
		assert.LessOrEqual(t, a.Addr+uint64(a.Size), uint64(ImageScratchBase+DefaultScratchSize))
	}

	// The hardware mode setting of the fuzzer is left alone.
	assert.Equal(t, HardwareMode, f.Config().Mode)
}

func TestBuildImageLargestBodyFits(t *testing.T) {
	f, _ := newTestFuzzer(t, Config{}, nil)
	f.Enable("*")

	_, tc, err := f.BuildImage(77, DefaultMaxInsns)
	require.NoError(t, err)
	assert.LessOrEqual(t, ImageCodeBase+tc.Len(), ImageScratchBase)
}

func TestWriteImage(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "seed1")

	exec := newFakeExecutor(DefaultScratchSize)
	exec.deterministic = true
	f, _ := newTestFuzzer(t, Config{}, exec)
	require.NoError(t, f.WriteImage(name, 1, 100))

	img, err := os.ReadFile(name + ".bin")
	require.NoError(t, err)
	assert.Len(t, img, ImageSize)

	state, err := LoadExpectedState(name + ".out")
	require.NoError(t, err)
	res, err := f.Run(1, 100)
	require.NoError(t, err)
	assert.Empty(t, state.Compare(&res.Regs))
	assert.False(t, state.Known[ScratchGPR])
	assert.True(t, state.Known[SlotVSCR])
}

func TestWriteImageWithoutExecutor(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "noexec")

	f, _ := newTestFuzzer(t, Config{}, nil)
	require.NoError(t, f.WriteImage(name, 1, 10))

	_, err := os.Stat(name + ".bin")
	assert.NoError(t, err)
	_, err = os.Stat(name + ".out")
	assert.True(t, os.IsNotExist(err))
}

func TestExpectedStateFormat(t *testing.T) {
	var regs [SaveSlots]uint64
	regs[0] = 0xdeadbeef
	regs[ScratchGPR] = 0x1234
	regs[SlotCR] = 0x20000000

	var buf bytes.Buffer
	require.NoError(t, WriteExpectedState(&buf, &regs, false))
	lines := strings.Split(buf.String(), "\n")

	assert.Equal(t, "GPR0 00000000DEADBEEF", lines[0])
	assert.Equal(t, "GPR31 ", lines[31])
	assert.Equal(t, "CR 0000000020000000", lines[32])
	assert.Equal(t, "VSCR 0000000000000000", lines[37])
	assert.Equal(t, "", lines[38])

	state, err := ParseExpectedState(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xdeadbeef), state.Regs[0])
	assert.False(t, state.Known[ScratchGPR])

	regs[SlotCR] = 0
	assert.Equal(t, []string{"CR"}, state.Compare(&regs))
}

func TestExpectedStateLinkedLeavesLRBlank(t *testing.T) {
	var regs [SaveSlots]uint64
	regs[SlotLR] = CodeBase + 0x400

	var buf bytes.Buffer
	require.NoError(t, WriteExpectedState(&buf, &regs, true))
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "LR ", lines[SlotLR])

	state, err := ParseExpectedState(&buf)
	require.NoError(t, err)
	assert.False(t, state.Known[SlotLR])
	regs[SlotLR] = ImageCodeBase + 0x400
	assert.Empty(t, state.Compare(&regs))
}

func TestImageMatchesHardwareLayout(t *testing.T) {
	f, _ := newTestFuzzer(t, Config{}, newFakeExecutor(DefaultScratchSize))
	f.Enable("*")

	for seed := uint64(40); seed < 45; seed++ {
		hw, err := f.Generate(seed, 1024)
		require.NoError(t, err)
		_, sim, err := f.BuildImage(seed, 1024)
		require.NoError(t, err)

		assert.Equal(t, uint64(ScratchBase), hw.ScratchAddr)
		assert.Equal(t, hw.ScratchAddr, sim.ScratchAddr)
		assert.Equal(t, hw.Initial, sim.Initial)
		assert.Equal(t, hw.Accesses, sim.Accesses)

		// Past the host save the two frames emit the same words, address
		// loads for the scratch accesses included, up to the last body op.
		skip := prologueWords(FeaturesPOWER9) - clearWords
		require.Len(t, sim.Body, len(hw.Body))
		n := sim.Body[len(sim.Body)-1].Offset/4 + 1
		assert.Equal(t, codeWords(sim)[:n], codeWords(hw)[skip:skip+n], "seed %d", seed)
		for i := range hw.Body {
			assert.Equal(t, sim.Body[i].Offset+4*skip, hw.Body[i].Offset)
		}
	}
}

func TestParseExpectedStateErrors(t *testing.T) {
	_, err := ParseExpectedState(strings.NewReader("GPR99 0\n"))
	assert.Error(t, err)

	_, err = ParseExpectedState(strings.NewReader("GPR1 xyz\n"))
	assert.Error(t, err)

	_, err = LoadExpectedState(filepath.Join(t.TempDir(), "missing.out"))
	assert.Error(t, err)
}
