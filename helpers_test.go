package ppcfuzz

import (
	"encoding/binary"
	"hash/fnv"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const (
	fakeScratchAddr = ScratchBase
	fakeSaveAddr    = SaveBase
	fakeCodeAddr    = CodeBase
)

// fakeExecutor stands in for hardware. run decides the register image of
// each call; without it every call reports the same image.
type fakeExecutor struct {
	scratch       []byte
	scratchAddr   uint64 // zero means ScratchBase
	deterministic bool
	run           func(call int, code []byte, save []uint64) int64
	err           error
	calls         int
	closed        bool
}

func newFakeExecutor(scratchSize int) *fakeExecutor {
	return &fakeExecutor{scratch: make([]byte, scratchSize)}
}

func (x *fakeExecutor) Addresses() Addresses {
	a := Addresses{Code: fakeCodeAddr, Scratch: fakeScratchAddr, Save: fakeSaveAddr}
	if x.scratchAddr != 0 {
		a.Scratch = x.scratchAddr
	}
	return a
}

func (x *fakeExecutor) Scratch() []byte { return x.scratch }

func (x *fakeExecutor) Execute(code []byte, save []uint64) (int64, error) {
	if x.err != nil {
		return 0, x.err
	}
	call := x.calls
	x.calls++

	var elapsed int64 = 100 + int64(call)
	if x.run != nil {
		elapsed = x.run(call, code, save)
	} else {
		h := codeDigest(code)
		for i := range save {
			save[i] = h + uint64(i)
		}
	}
	save[ScratchGPR] = fakeSaveAddr
	return elapsed, nil
}

func (x *fakeExecutor) Deterministic() bool { return x.deterministic }

func (x *fakeExecutor) Close() error {
	x.closed = true
	return nil
}

// codeDigest stands in for the state a testcase computes.
func codeDigest(code []byte) uint64 {
	h := fnv.New64a()
	h.Write(code)
	return h.Sum64()
}

// quietLogger returns a logger that records entries instead of printing.
func quietLogger() (logrus.FieldLogger, *test.Hook) {
	l, hook := test.NewNullLogger()
	l.SetOutput(io.Discard)
	return l, hook
}

// newTestFuzzer returns a fuzzer emitting little-endian words with logging
// captured.
func newTestFuzzer(t testing.TB, cfg Config, exec Executor) (*Fuzzer, *test.Hook) {
	t.Helper()
	log, hook := quietLogger()
	cfg.Logger = log
	if cfg.ByteOrder == nil {
		cfg.ByteOrder = binary.LittleEndian
	}
	f, err := New(cfg, exec)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f, hook
}

// codeWords decodes a little-endian testcase.
func codeWords(tc *Testcase) []uint32 {
	w := make([]uint32, tc.Len()/4)
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(tc.Code[4*i:])
	}
	return w
}

// clearWords is the length of the CR/LR/CTR/XER clear.
const clearWords = 5

// evalLoadImm evaluates the five word 64-bit immediate idiom.
func evalLoadImm(w []uint32) uint64 {
	v := uint64(int64(int16(w[0]&0xffff))) << 16
	v |= uint64(w[1] & 0xffff)
	v <<= 32
	v |= uint64(w[3]&0xffff) << 16
	v |= uint64(w[4] & 0xffff)
	return v
}

// prologueWords is the number of words ahead of the first register load
// idiom in hardware mode: the context save and the special register clear.
func prologueWords(f Features) int {
	n := 2 + 19 + 4 + clearWords
	if f.Has(FeatureVSX) {
		n += 2 + len(nonVolatileVSRs)
	}
	return n
}
