// Package ppcfuzz generates random POWER instruction streams and runs them
// to compare the architectural state different implementations arrive at.
//
// A testcase is a straight-line block: a prologue loading every register
// with a boundary value, a body of instructions picked from a catalog with
// random operands, and an epilogue that stores the register file. The same
// seed and instruction count always produce the same block.
//
// Example usage:
//
//	exec, err := ppcfuzz.NewNativeExecutor(ppcfuzz.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	f, err := ppcfuzz.New(ppcfuzz.Config{Features: ppcfuzz.FeaturesPOWER9}, exec)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	res, err := f.Run(1, 1000)
package ppcfuzz

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultMaxInsns is the largest body accepted unless configured.
	DefaultMaxInsns = 8192

	// DefaultScratchSize is the size of the load/store window in bytes.
	DefaultScratchSize = 1024

	// MaxScratchSize keeps every displacement inside a 16-bit immediate.
	MaxScratchSize = 65536

	// codeSlack covers prologue and epilogue words on top of the body.
	codeSlack = 512
)

var (
	// ErrTooManyInstructions is returned when a body larger than
	// Config.MaxInsns is requested. Nothing is emitted or run.
	ErrTooManyInstructions = errors.New("ppcfuzz: too many instructions requested")

	// ErrSimulationTestcase is returned when a simulation mode testcase is
	// handed to an executor. It ends in attn rather than returning.
	ErrSimulationTestcase = errors.New("ppcfuzz: simulation testcases cannot be executed")

	// ErrNoExecutor is returned by operations that need to run code when
	// the fuzzer was created without an executor.
	ErrNoExecutor = errors.New("ppcfuzz: no executor configured")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("ppcfuzz: fuzzer is closed")

	// ErrLayout is returned for an executor whose scratch or save region
	// is not at ScratchBase or SaveBase.
	ErrLayout = errors.New("ppcfuzz: executor regions are not at the fixed testcase addresses")
)

// Mode selects how a testcase begins and ends.
type Mode int

const (
	// HardwareMode testcases are called as a function: they preserve the
	// caller's state, store the register image and return.
	HardwareMode Mode = iota

	// SimulationMode testcases end in attn, which halts a simulated core
	// so the simulator can read the state itself.
	SimulationMode
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case HardwareMode:
		return "HardwareMode"
	case SimulationMode:
		return "SimulationMode"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Features is a set of capabilities of the core under test. It filters
// which catalog entries are enabled and how much register state is modeled.
type Features uint32

const (
	// FeatureScalar covers the fixed-point instructions every core has.
	FeatureScalar Features = 1 << iota
	// FeatureCarry covers instructions reading or writing XER[CA].
	FeatureCarry
	// FeatureOverflow covers the OE=1 forms setting XER[OV] and XER[SO].
	FeatureOverflow
	// FeatureDivide covers divide and modulo.
	FeatureDivide
	// FeatureISA3 covers fixed-point additions of Power ISA v3.0.
	FeatureISA3
	// FeatureFloat covers floating point loads, stores and arithmetic.
	FeatureFloat
	// FeatureVector covers VMX (Altivec) and makes VSCR part of the image.
	FeatureVector
	// FeatureVSX initializes and saves all 64 VSRs and FPSCR. It relies
	// on v3.0 moves (mtvsrdd, stxv).
	FeatureVSX
	// FeatureStoreConditional covers larx/stcx. reservations.
	FeatureStoreConditional
)

// Capability presets.
const (
	FeaturesMicrowatt = FeatureScalar | FeatureCarry | FeatureOverflow | FeatureDivide |
		FeatureISA3 | FeatureFloat | FeatureStoreConditional

	FeaturesPOWER8 = FeatureScalar | FeatureCarry | FeatureOverflow | FeatureDivide |
		FeatureFloat | FeatureStoreConditional

	FeaturesPOWER9 = FeaturesPOWER8 | FeatureISA3 | FeatureVector | FeatureVSX
)

var featureNames = []struct {
	f    Features
	name string
}{
	{FeatureScalar, "scalar"},
	{FeatureCarry, "carry"},
	{FeatureOverflow, "overflow"},
	{FeatureDivide, "divide"},
	{FeatureISA3, "isa3"},
	{FeatureFloat, "float"},
	{FeatureVector, "vector"},
	{FeatureVSX, "vsx"},
	{FeatureStoreConditional, "storeconditional"},
}

var featurePresets = map[string]Features{
	"microwatt": FeaturesMicrowatt,
	"power8":    FeaturesPOWER8,
	"power9":    FeaturesPOWER9,
}

// Has reports whether every feature in req is present.
func (f Features) Has(req Features) bool { return f&req == req }

// String lists the features separated by commas.
func (f Features) String() string {
	var names []string
	for _, fn := range featureNames {
		if f&fn.f != 0 {
			names = append(names, fn.name)
			f &^= fn.f
		}
	}
	if f != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(f)))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseFeatures parses a comma separated list of feature and preset names,
// for example "power8,vector,vsx,isa3".
func ParseFeatures(s string) (Features, error) {
	var f Features
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if p, ok := featurePresets[part]; ok {
			f |= p
			continue
		}
		found := false
		for _, fn := range featureNames {
			if fn.name == part {
				f |= fn.f
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("ppcfuzz: unknown feature %q", part)
		}
	}
	return f, nil
}

// FeatureNames returns the accepted feature and preset names.
func FeatureNames() []string {
	var names []string
	for _, fn := range featureNames {
		names = append(names, fn.name)
	}
	for p := range featurePresets {
		names = append(names, p)
	}
	sort.Strings(names[len(featureNames):])
	return names
}

// Config specifies the configuration of a Fuzzer. The zero value is usable:
// unset fields take the documented defaults.
type Config struct {
	// Mode selects the testcase frame. Only HardwareMode testcases can be
	// run by an executor.
	Mode Mode

	// Features describes the core under test. Zero means FeaturesPOWER9.
	Features Features

	// MaxInsns bounds the body length. Zero means DefaultMaxInsns.
	MaxInsns int

	// ScratchSize is the size of the load/store window. It must be a power
	// of two of at least 64 bytes. Zero means DefaultScratchSize.
	ScratchSize int

	// Trials is how often each testcase is executed before voting. Zero
	// means 5 on nondeterministic executors and 1 on deterministic ones.
	Trials int

	// Hash selects the reduction of the register image in reports.
	Hash HashType

	// Registers makes reports dump the full register image and scratch
	// region instead of a hash line.
	Registers bool

	// Trace, if set, receives one line per body instruction.
	Trace io.Writer

	// ByteOrder of the emitted words. Nil means the host order.
	ByteOrder binary.ByteOrder

	// Logger receives registry and harness messages. Nil means
	// logrus.StandardLogger().
	Logger logrus.FieldLogger

	// RawSeed seeds the LFSR with the seed as given instead of a blake2b
	// mix of it.
	RawSeed bool
}

// withDefaults returns a copy with unset fields filled in.
func (c Config) withDefaults() Config {
	if c.Features == 0 {
		c.Features = FeaturesPOWER9
	}
	if c.MaxInsns == 0 {
		c.MaxInsns = DefaultMaxInsns
	}
	if c.ScratchSize == 0 {
		c.ScratchSize = DefaultScratchSize
	}
	if c.ByteOrder == nil {
		c.ByteOrder = binary.NativeEndian
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != HardwareMode && c.Mode != SimulationMode {
		return fmt.Errorf("ppcfuzz: invalid mode: %v", c.Mode)
	}
	if c.Features != 0 {
		if !c.Features.Has(FeatureScalar) {
			return errors.New("ppcfuzz: features must include scalar")
		}
		if c.Features.Has(FeatureVector) && !c.Features.Has(FeatureVSX) {
			return errors.New("ppcfuzz: vector requires vsx")
		}
		if c.Features.Has(FeatureVSX) && !c.Features.Has(FeatureISA3) {
			return errors.New("ppcfuzz: vsx requires isa3")
		}
	}
	if c.MaxInsns < 0 {
		return fmt.Errorf("ppcfuzz: invalid instruction limit: %d", c.MaxInsns)
	}
	if s := c.ScratchSize; s != 0 {
		if s < 64 || s > MaxScratchSize || s&(s-1) != 0 {
			return fmt.Errorf("ppcfuzz: scratch size must be a power of two in [64, %d]: %d", MaxScratchSize, s)
		}
	}
	if c.Trials < 0 {
		return fmt.Errorf("ppcfuzz: invalid trial count: %d", c.Trials)
	}
	if c.Hash < HashJenkins || c.Hash > HashBlake2b {
		return fmt.Errorf("ppcfuzz: invalid hash: %v", c.Hash)
	}
	return nil
}

// CodeCapacity returns the bytes a code region needs to hold any testcase
// allowed by the configuration.
func (c Config) CodeCapacity() int {
	c = c.withDefaults()
	return 4 * (estimateWords(c.MaxInsns) + codeSlack)
}

// Fuzzer generates and runs testcases. Its methods serialize on an internal
// lock; run independent Fuzzers to work in parallel.
type Fuzzer struct {
	config   Config
	registry *Registry
	exec     Executor
	harness  *Harness
	closed   bool
	mu       sync.Mutex
}

// New creates a Fuzzer. exec may be nil, in which case testcases can be
// generated and written out but not run. exec must have its regions at
// ScratchBase and SaveBase. The Fuzzer owns exec and closes it in Close.
func New(config Config, exec Executor) (*Fuzzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	reg := NewRegistry(config.Features)
	reg.SetLogger(config.Logger)

	f := &Fuzzer{
		config:   config,
		registry: reg,
		exec:     exec,
	}
	if exec != nil {
		if err := checkExecutor(config, exec); err != nil {
			return nil, err
		}
		f.harness = NewHarness(exec, config.Trials, config.Logger)
	}
	return f, nil
}

// checkExecutor verifies exec can run testcases built for config.
func checkExecutor(config Config, exec Executor) error {
	if a := exec.Addresses(); a.Scratch != ScratchBase || a.Save != SaveBase {
		return fmt.Errorf("%w: scratch %#x, save %#x", ErrLayout, a.Scratch, a.Save)
	}
	if len(exec.Scratch()) < config.ScratchSize {
		return fmt.Errorf("ppcfuzz: executor scratch region is %d bytes, need %d",
			len(exec.Scratch()), config.ScratchSize)
	}
	return nil
}

// Config returns the effective configuration.
func (f *Fuzzer) Config() Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.config
}

// Registry returns a copy of the current enable state.
func (f *Fuzzer) Registry() *Registry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registry.Clone()
}

// SetRegistry replaces the enable state with a copy of r.
func (f *Fuzzer) SetRegistry(r *Registry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registry = r.Clone()
	f.registry.SetLogger(f.config.Logger)
}

// Enable enables catalog entries matching pattern. See Registry.Enable.
func (f *Fuzzer) Enable(pattern string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registry.Enable(pattern)
}

// Disable disables catalog entries matching pattern. See Registry.Disable.
func (f *Fuzzer) Disable(pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registry.Disable(pattern)
}

// ListInstructions writes the catalogs with their enable state.
func (f *Fuzzer) ListInstructions(w io.Writer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registry.List(w)
}

// SetTrace directs instruction tracing to w; nil turns it off.
func (f *Fuzzer) SetTrace(w io.Writer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.config.Trace = w
}

// SetHash selects the report hash.
func (f *Fuzzer) SetHash(h HashType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.config.Hash = h
}

// SetRegisters switches reports between register dumps and hash lines.
func (f *Fuzzer) SetRegisters(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.config.Registers = on
}

// SetTrials changes the number of executions per testcase. Zero restores
// the executor's default.
func (f *Fuzzer) SetTrials(n int) error {
	if n < 0 {
		return fmt.Errorf("ppcfuzz: invalid trial count: %d", n)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.config.Trials = n
	if f.harness != nil {
		f.harness.SetTrials(n)
	}
	return nil
}

// Generate emits the testcase for seed with nrInsns body instructions.
func (f *Fuzzer) Generate(seed uint64, nrInsns int) (*Testcase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrClosed
	}
	return f.generate(f.config, fixedLayout(f.config.ScratchSize), seed, nrInsns)
}

func (f *Fuzzer) generate(cfg Config, layout emitLayout, seed uint64, nrInsns int) (*Testcase, error) {
	if nrInsns < 0 || nrInsns > cfg.MaxInsns {
		return nil, fmt.Errorf("%w: %d, limit is %d", ErrTooManyInstructions, nrInsns, cfg.MaxInsns)
	}
	traceSeparator(fmt.Sprintf("generate seed=%d insns=%d", seed, nrInsns))
	e := newEmitter(&cfg, f.registry, layout, seed)
	return e.generate(nrInsns, cfg.ByteOrder), nil
}

// Run generates the testcase for seed and executes it.
func (f *Fuzzer) Run(seed uint64, nrInsns int) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.run(seed, nrInsns)
}

func (f *Fuzzer) run(seed uint64, nrInsns int) (*Result, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if f.harness == nil {
		return nil, ErrNoExecutor
	}
	if f.config.Mode != HardwareMode {
		return nil, ErrSimulationTestcase
	}
	tc, err := f.generate(f.config, fixedLayout(f.config.ScratchSize), seed, nrInsns)
	if err != nil {
		return nil, err
	}
	return f.harness.Run(tc)
}

// RunOne runs one testcase and writes its report to w: a register dump
// when Config.Registers is set, a "seed hash" line otherwise.
func (f *Fuzzer) RunOne(w io.Writer, seed uint64, nrInsns int) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res, err := f.run(seed, nrInsns)
	if err != nil {
		return nil, err
	}
	if err := f.report(w, res); err != nil {
		return res, err
	}
	return res, nil
}

func (f *Fuzzer) report(w io.Writer, res *Result) error {
	if f.config.Registers {
		return WriteRegisters(w, res)
	}
	return WriteHashLine(w, res.Seed, res.Hash(f.config.Hash))
}

// Summary totals a RunMany batch.
type Summary struct {
	Tests     int
	Elapsed   int64 // timebase ticks over every reported trial
	Words     int   // instruction words emitted, frame included
	Divergent int   // testcases whose trials disagreed
}

// String formats the summary line.
func (s Summary) String() string {
	return fmt.Sprintf("timebase delta = %d, # instructions = %d", s.Elapsed, s.Words)
}

// RunMany runs count testcases for consecutive seeds starting at seed,
// writes each report to w, and finishes with the summary line.
func (f *Fuzzer) RunMany(w io.Writer, seed uint64, nrInsns, count int) (Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var s Summary
	for i := 0; i < count; i++ {
		res, err := f.run(seed+uint64(i), nrInsns)
		if err != nil {
			return s, fmt.Errorf("ppcfuzz: seed %d: %w", seed+uint64(i), err)
		}
		if err := f.report(w, res); err != nil {
			return s, err
		}
		s.Tests++
		s.Elapsed += res.Elapsed
		s.Words += res.Words
		if len(res.Buckets) > 1 {
			s.Divergent++
		}
	}
	if _, err := fmt.Fprintln(w, s.String()); err != nil {
		return s, err
	}
	return s, nil
}

// Close releases the executor. After Close, the fuzzer must not be used.
func (f *Fuzzer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	if f.exec != nil {
		if err := f.exec.Close(); err != nil {
			return fmt.Errorf("ppcfuzz: close executor: %w", err)
		}
	}
	return nil
}

// IsReady returns true if the fuzzer can still be used.
func (f *Fuzzer) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}
