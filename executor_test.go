package ppcfuzz

import (
	"encoding/binary"
	"testing"

	"github.com/opd-ai/go-ppcfuzz/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeExecutorUnsupported(t *testing.T) {
	if platform.Supported() {
		t.Skip("host can execute testcases")
	}
	_, err := NewNativeExecutor(Config{})
	assert.ErrorIs(t, err, platform.ErrUnsupported)
}

func TestNativeExecutorRun(t *testing.T) {
	if !platform.Supported() {
		t.Skip("native execution needs ppc64 Linux")
	}
	exec, err := NewNativeExecutor(Config{Features: FeaturesPOWER8 | FeatureISA3})
	require.NoError(t, err)
	assert.False(t, exec.Deterministic())

	f, _ := newTestFuzzer(t, Config{
		Features:  FeaturesPOWER8 | FeatureISA3,
		ByteOrder: binary.NativeEndian,
	}, exec)

	// An empty body leaves the prologue values behind.
	res, err := f.Run(1, 0)
	require.NoError(t, err)
	for r := 0; r < NumGPRs; r++ {
		if r == ScratchGPR {
			continue
		}
		assert.True(t, inPalette(res.Regs[r]), "r%d = %016x", r, res.Regs[r])
	}

	// Random bodies must come back to the caller.
	for seed := uint64(1); seed <= 20; seed++ {
		_, err := f.Run(seed, 200)
		require.NoError(t, err, "seed %d", seed)
	}
}
