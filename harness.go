package ppcfuzz

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Trial counts used when Config.Trials is zero.
const (
	DefaultTrials              = 5
	DefaultDeterministicTrials = 1
)

// Addresses are the host addresses of an executor's regions.
type Addresses struct {
	Code    uint64
	Scratch uint64
	Save    uint64
}

// Executor runs hardware mode testcases. It owns the scratch region the
// testcase's loads and stores touch and the save area its epilogue writes.
// Both sit at fixed addresses, so a process holds at most one executor
// backed by real mappings.
type Executor interface {
	// Addresses returns where the regions live. Scratch and Save must be
	// ScratchBase and SaveBase.
	Addresses() Addresses

	// Scratch returns the scratch region. The harness zeroes it before
	// every trial and snapshots it afterwards.
	Scratch() []byte

	// Execute runs code and fills save with the SaveSlots register image.
	// It returns the elapsed timebase ticks.
	Execute(code []byte, save []uint64) (int64, error)

	// Deterministic reports whether identical runs always agree, in which
	// case a single trial is enough.
	Deterministic() bool

	// Close releases the regions.
	Close() error
}

// Bucket groups trials that ended with the same register image.
type Bucket struct {
	Regs    [SaveSlots]uint64
	Memory  []byte  // scratch contents after the bucket's first trial
	Elapsed []int64 // one timing sample per trial, in trial order
	Trials  []int   // indexes of the trials in this bucket
}

// Count returns the number of trials in the bucket.
func (b *Bucket) Count() int { return len(b.Trials) }

// Result is the outcome of running one testcase.
type Result struct {
	Seed    uint64
	NrInsns int
	Words   int // emitted instruction words

	// Regs is the register image of the winning bucket with r31 cleared.
	Regs [SaveSlots]uint64

	// Memory is the scratch region as the winning bucket left it.
	Memory      []byte
	ScratchAddr uint64

	// Elapsed is the first timing sample of the winning bucket.
	Elapsed int64

	Trials   int
	Buckets  []Bucket // every distinct outcome, in order of first appearance
	Majority int      // index of the winning bucket
}

// Divergent reports whether the trials disagreed.
func (r *Result) Divergent() bool { return len(r.Buckets) > 1 }

// GPRs returns the general purpose registers of the result.
func (r *Result) GPRs() []uint64 { return r.Regs[:NumGPRs] }

// Harness runs a testcase repeatedly and reduces the trials by majority
// vote. Flaky hardware paths or lost reservations can make identical runs
// disagree; the vote keeps the reported state stable.
type Harness struct {
	exec   Executor
	trials int
	log    logrus.FieldLogger
}

// NewHarness returns a harness running testcases on exec. trials of zero
// picks the default for the executor.
func NewHarness(exec Executor, trials int, log logrus.FieldLogger) *Harness {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Harness{exec: exec, log: log}
	h.SetTrials(trials)
	return h
}

// SetTrials changes the trial count; zero picks the executor default.
func (h *Harness) SetTrials(n int) {
	switch {
	case n > 0:
		h.trials = n
	case h.exec.Deterministic():
		h.trials = DefaultDeterministicTrials
	default:
		h.trials = DefaultTrials
	}
}

// Trials returns the number of executions per testcase.
func (h *Harness) Trials() int { return h.trials }

// outcome is what a single trial observed.
type outcome struct {
	regs    [SaveSlots]uint64
	memory  []byte
	elapsed int64
}

// Run executes tc Trials times and returns the majority outcome.
func (h *Harness) Run(tc *Testcase) (*Result, error) {
	if tc.Mode != HardwareMode {
		return nil, ErrSimulationTestcase
	}

	scratch := h.exec.Scratch()
	save := getSaveImage()
	defer putSaveImage(save)

	outcomes := make([]outcome, 0, h.trials)
	for i := 0; i < h.trials; i++ {
		zeroBytes(scratch)
		zeroWords(save)

		elapsed, err := h.exec.Execute(tc.Code, save)
		if err != nil {
			return nil, fmt.Errorf("ppcfuzz: execute seed %d trial %d: %w", tc.Seed, i, err)
		}

		var o outcome
		copy(o.regs[:], save)
		// r31 held the save area address.
		o.regs[ScratchGPR] = 0
		o.memory = snapshot(scratch, tc.ScratchSize)
		o.elapsed = elapsed
		outcomes = append(outcomes, o)
	}

	buckets, win := vote(outcomes)
	b := &buckets[win]

	res := &Result{
		Seed:        tc.Seed,
		NrInsns:     tc.NrInsns,
		Words:       tc.Words(),
		Regs:        b.Regs,
		Memory:      b.Memory,
		ScratchAddr: tc.ScratchAddr,
		Elapsed:     b.Elapsed[0],
		Trials:      len(outcomes),
		Buckets:     buckets,
		Majority:    win,
	}

	if len(buckets) > 1 {
		counts := make([]int, len(buckets))
		for i := range buckets {
			counts[i] = buckets[i].Count()
		}
		h.log.WithFields(logrus.Fields{
			"seed":    tc.Seed,
			"insns":   tc.NrInsns,
			"buckets": counts,
			"chosen":  win,
		}).Warn("trials disagree, using majority")
	}
	traceRegisters(fmt.Sprintf("seed %d result", tc.Seed), res.Regs[:])

	return res, nil
}

// vote groups outcomes by register image and returns the groups in order of
// first appearance with the index of the largest. Ties go to the earliest.
func vote(outcomes []outcome) ([]Bucket, int) {
	var buckets []Bucket
	for i, o := range outcomes {
		found := false
		for j := range buckets {
			if buckets[j].Regs == o.regs {
				buckets[j].Elapsed = append(buckets[j].Elapsed, o.elapsed)
				buckets[j].Trials = append(buckets[j].Trials, i)
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, Bucket{
				Regs:    o.regs,
				Memory:  o.memory,
				Elapsed: []int64{o.elapsed},
				Trials:  []int{i},
			})
		}
	}

	win := 0
	for j := range buckets {
		if buckets[j].Count() > buckets[win].Count() {
			win = j
		}
	}
	return buckets, win
}
