package ppcfuzz

import (
	"context"
	"encoding/binary"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func campaignConfig(workers int) CampaignConfig {
	log, _ := quietLogger()
	return CampaignConfig{
		Config:    Config{Logger: log, Hash: HashBlake2b, ByteOrder: binary.LittleEndian},
		FirstSeed: 1000,
		Count:     40,
		NrInsns:   128,
		Workers:   workers,
		Executor:  &fakeExecutor{scratch: make([]byte, DefaultScratchSize), deterministic: true},
	}
}

func TestRunCampaignOrdered(t *testing.T) {
	var seeds []uint64
	sum, err := RunCampaign(context.Background(), campaignConfig(4), func(r *Result) error {
		seeds = append(seeds, r.Seed)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, seeds, 40)
	for i, s := range seeds {
		assert.Equal(t, uint64(1000+i), s)
	}
	assert.Equal(t, 40, sum.Tests)
	assert.NotZero(t, sum.Digest)
}

func TestRunCampaignDigestIndependentOfWorkers(t *testing.T) {
	one, err := RunCampaign(context.Background(), campaignConfig(1), nil)
	require.NoError(t, err)
	many, err := RunCampaign(context.Background(), campaignConfig(8), nil)
	require.NoError(t, err)

	assert.Equal(t, one.Digest, many.Digest)
	assert.Equal(t, one.Words, many.Words)
}

func TestRunCampaignCallbackError(t *testing.T) {
	stop := errors.New("stop")
	n := 0
	_, err := RunCampaign(context.Background(), campaignConfig(4), func(r *Result) error {
		n++
		if n == 5 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 5, n)
}

func TestRunCampaignExecutorError(t *testing.T) {
	cc := campaignConfig(2)
	boom := errors.New("no regions")
	cc.Executor.(*fakeExecutor).err = boom

	_, err := RunCampaign(context.Background(), cc, nil)
	assert.ErrorIs(t, err, boom)
}

func TestRunCampaignRegistry(t *testing.T) {
	cc := campaignConfig(3)
	cc.Registry = NewRegistry(FeaturesPOWER9)
	cc.Registry.SetLogger(cc.Config.Logger)
	_, err := cc.Registry.Disable("add*")
	require.NoError(t, err)

	// Workers build testcases from the supplied registry: compare with a
	// fuzzer holding the same enable state.
	f, _ := newTestFuzzer(t, Config{}, newFakeExecutor(DefaultScratchSize))
	f.SetRegistry(cc.Registry)
	plain, _ := newTestFuzzer(t, Config{}, newFakeExecutor(DefaultScratchSize))

	differs := 0
	_, err = RunCampaign(context.Background(), cc, func(r *Result) error {
		tc, err := f.Generate(r.Seed, cc.NrInsns)
		require.NoError(t, err)
		assert.Equal(t, codeDigest(tc.Code), r.Regs[0], "seed %d", r.Seed)

		other, err := plain.Generate(r.Seed, cc.NrInsns)
		require.NoError(t, err)
		if codeDigest(other.Code) != r.Regs[0] {
			differs++
		}
		return nil
	})
	assert.NotZero(t, differs)
	require.NoError(t, err)
}

func TestRunCampaignNoExecutor(t *testing.T) {
	_, err := RunCampaign(context.Background(), CampaignConfig{Count: 1}, nil)
	assert.ErrorIs(t, err, ErrNoExecutor)
}

func TestRunCampaignCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunCampaign(ctx, campaignConfig(2), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunCampaignRejectsMovedExecutor(t *testing.T) {
	cc := campaignConfig(2)
	cc.Executor.(*fakeExecutor).scratchAddr = 0x7f3254369000

	_, err := RunCampaign(context.Background(), cc, nil)
	assert.ErrorIs(t, err, ErrLayout)
}

// serialCheck fails the test if two executions overlap.
type serialCheck struct {
	*fakeExecutor
	t       *testing.T
	running atomic.Bool
}

func (x *serialCheck) Execute(code []byte, save []uint64) (int64, error) {
	if !x.running.CompareAndSwap(false, true) {
		x.t.Error("executions overlap")
	}
	defer x.running.Store(false)
	return x.fakeExecutor.Execute(code, save)
}

func TestRunCampaignSerializesExecution(t *testing.T) {
	cc := campaignConfig(8)
	fake := cc.Executor.(*fakeExecutor)
	fake.deterministic = false
	cc.Executor = &serialCheck{fakeExecutor: fake, t: t}

	sum, err := RunCampaign(context.Background(), cc, nil)
	require.NoError(t, err)
	assert.Equal(t, cc.Count, sum.Tests)
	assert.Equal(t, cc.Count*DefaultTrials, fake.calls)
}
