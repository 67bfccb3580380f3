package ppcfuzz

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/go-ppcfuzz/internal"
)

// CampaignConfig describes a batch of consecutive seeds run in parallel.
type CampaignConfig struct {
	Config    Config
	FirstSeed uint64
	Count     int
	NrInsns   int

	// Workers is the number of Fuzzers generating at once. Zero means
	// GOMAXPROCS.
	Workers int

	// Executor runs every testcase of the campaign, one at a time: its
	// regions sit at the fixed testcase addresses, so there is only one per
	// process. The caller keeps ownership and closes it.
	Executor Executor

	// Registry, if set, is the enable state every worker starts from.
	Registry *Registry
}

// CampaignSummary totals a campaign.
type CampaignSummary struct {
	Summary

	// Digest is a blake2b hash over every seed and register hash in seed
	// order, so two campaigns can be compared with one number.
	Digest uint64
}

type campaignItem struct {
	index int
	res   *Result
}

// RunCampaign generates cc.Count testcases over cc.Workers independent
// Fuzzers, runs them on cc.Executor and calls fn with each result in seed
// order. The first error from a worker or from fn stops the campaign.
func RunCampaign(parent context.Context, cc CampaignConfig, fn func(*Result) error) (CampaignSummary, error) {
	var sum CampaignSummary
	if cc.Executor == nil {
		return sum, ErrNoExecutor
	}
	if err := cc.Config.Validate(); err != nil {
		return sum, err
	}
	config := cc.Config.withDefaults()
	if err := checkExecutor(config, cc.Executor); err != nil {
		return sum, err
	}
	if cc.Count <= 0 {
		return sum, nil
	}

	workers := cc.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cc.Count {
		workers = cc.Count
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers + 1)

	seeds := make(chan int)
	results := make(chan campaignItem, workers)

	g.Go(func() error {
		defer close(seeds)
		for i := 0; i < cc.Count; i++ {
			select {
			case seeds <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	run := &sharedHarness{h: NewHarness(cc.Executor, config.Trials, config.Logger)}
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return campaignWorker(gctx, cc, run, seeds, results)
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		close(results)
	}()

	stream := internal.NewBlake2bStream()
	pending := make(map[int]*Result)
	next := 0
	var fnErr error
	for item := range results {
		if fnErr != nil {
			continue
		}
		pending[item.index] = item.res
		for {
			res, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++

			sum.Tests++
			sum.Elapsed += res.Elapsed
			sum.Words += res.Words
			if res.Divergent() {
				sum.Divergent++
			}
			stream.WriteUint64(res.Seed)
			stream.WriteUint64(res.Hash(cc.Config.Hash))

			if fn != nil {
				if err := fn(res); err != nil {
					fnErr = err
					cancel()
					break
				}
			}
		}
	}
	sum.Digest = stream.Sum64()

	err := <-done
	if fnErr != nil {
		return sum, fnErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return sum, err
	}
	return sum, parent.Err()
}

// sharedHarness serializes the workers' executions.
type sharedHarness struct {
	mu sync.Mutex
	h  *Harness
}

func (s *sharedHarness) run(tc *Testcase) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Run(tc)
}

// campaignWorker owns one Fuzzer, generates the seeds it receives and runs
// them through the shared harness.
func campaignWorker(ctx context.Context, cc CampaignConfig, run *sharedHarness, seeds <-chan int, results chan<- campaignItem) error {
	f, err := New(cc.Config, nil)
	if err != nil {
		return err
	}
	defer f.Close()
	if cc.Registry != nil {
		f.SetRegistry(cc.Registry)
	}

	for i := range seeds {
		seed := cc.FirstSeed + uint64(i)
		tc, err := f.Generate(seed, cc.NrInsns)
		if err != nil {
			return fmt.Errorf("ppcfuzz: seed %d: %w", seed, err)
		}
		res, err := run.run(tc)
		if err != nil {
			return fmt.Errorf("ppcfuzz: seed %d: %w", seed, err)
		}
		select {
		case results <- campaignItem{index: i, res: res}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
