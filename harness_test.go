package ppcfuzz

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcomeWith(v uint64, elapsed int64) outcome {
	var o outcome
	for i := range o.regs {
		o.regs[i] = v
	}
	o.elapsed = elapsed
	return o
}

func TestVoteMajority(t *testing.T) {
	// Three identical outcomes and two that differ from them and from
	// each other.
	outcomes := []outcome{
		outcomeWith(1, 10),
		outcomeWith(7, 11),
		outcomeWith(7, 12),
		outcomeWith(2, 13),
		outcomeWith(7, 14),
	}

	buckets, win := vote(outcomes)
	require.Len(t, buckets, 3)
	assert.Equal(t, 1, win)
	assert.Equal(t, uint64(7), buckets[win].Regs[0])
	assert.Equal(t, []int{1, 2, 4}, buckets[win].Trials)
	assert.Equal(t, []int64{11, 12, 14}, buckets[win].Elapsed)
}

func TestVoteTieGoesToEarliest(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []outcome
		want     uint64
	}{
		{"two two one", []outcome{outcomeWith(5, 0), outcomeWith(6, 0), outcomeWith(6, 0), outcomeWith(5, 0), outcomeWith(9, 0)}, 5},
		{"all different", []outcome{outcomeWith(3, 0), outcomeWith(4, 0), outcomeWith(5, 0)}, 3},
		{"single", []outcome{outcomeWith(8, 0)}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets, win := vote(tt.outcomes)
			assert.Equal(t, tt.want, buckets[win].Regs[0])
		})
	}
}

func TestHarnessMajority(t *testing.T) {
	exec := newFakeExecutor(DefaultScratchSize)
	exec.run = func(call int, code []byte, save []uint64) int64 {
		v := uint64(0xaaaa)
		switch call {
		case 0:
			v = 1
		case 3:
			v = 2
		}
		for i := range save {
			save[i] = v
		}
		return int64(1000 + call)
	}

	f, hook := newTestFuzzer(t, Config{}, exec)
	res, err := f.Run(1, 100)
	require.NoError(t, err)

	assert.Equal(t, 5, exec.calls)
	assert.Equal(t, 5, res.Trials)
	assert.Equal(t, uint64(0xaaaa), res.Regs[0])
	assert.Zero(t, res.Regs[ScratchGPR])
	assert.Equal(t, int64(1001), res.Elapsed)
	assert.True(t, res.Divergent())
	require.Len(t, res.Buckets, 3)
	assert.Equal(t, 3, res.Buckets[res.Majority].Count())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, []int{1, 3, 1}, entry.Data["buckets"])
}

func TestHarnessTrials(t *testing.T) {
	tests := []struct {
		name          string
		deterministic bool
		trials        int
		want          int
	}{
		{"hardware default", false, 0, DefaultTrials},
		{"simulator default", true, 0, DefaultDeterministicTrials},
		{"configured", true, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newFakeExecutor(DefaultScratchSize)
			exec.deterministic = tt.deterministic
			f, _ := newTestFuzzer(t, Config{Trials: tt.trials}, exec)

			res, err := f.Run(3, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, exec.calls)
			assert.Equal(t, tt.want, res.Trials)
			assert.False(t, res.Divergent())
		})
	}
}

func TestHarnessZeroesScratch(t *testing.T) {
	exec := newFakeExecutor(DefaultScratchSize)
	exec.run = func(call int, code []byte, save []uint64) int64 {
		for i, b := range exec.scratch {
			if b != 0 {
				t.Errorf("trial %d: scratch[%d] = %#x before run", call, i, b)
				break
			}
		}
		exec.scratch[0] = 0x5a
		return 1
	}

	f, _ := newTestFuzzer(t, Config{}, exec)
	res, err := f.Run(1, 10)
	require.NoError(t, err)
	assert.Equal(t, byte(0x5a), res.Memory[0])
	assert.Len(t, res.Memory, DefaultScratchSize)
}

func TestHarnessExecuteError(t *testing.T) {
	exec := newFakeExecutor(DefaultScratchSize)
	exec.err = errors.New("boom")

	f, _ := newTestFuzzer(t, Config{}, exec)
	_, err := f.Run(1, 10)
	assert.ErrorIs(t, err, exec.err)
}

func TestHarnessRejectsSimulationTestcase(t *testing.T) {
	exec := newFakeExecutor(DefaultScratchSize)
	h := NewHarness(exec, 0, nil)

	_, err := h.Run(&Testcase{Mode: SimulationMode})
	assert.ErrorIs(t, err, ErrSimulationTestcase)
	assert.Zero(t, exec.calls)
}
