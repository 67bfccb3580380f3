package ppcfuzz

import (
	"encoding/binary"
	"fmt"

	"github.com/opd-ai/go-ppcfuzz/internal/platform"
)

// NativeExecutor runs testcases directly on the host CPU. It is only
// functional on ppc64 and ppc64le Linux; elsewhere NewNativeExecutor fails
// with platform.ErrUnsupported.
type NativeExecutor struct {
	native *platform.Native
}

// NewNativeExecutor maps regions sized for config at CodeBase, ScratchBase
// and SaveBase. Only one can exist per process; a second one fails with
// platform.ErrAddressInUse until the first is closed.
func NewNativeExecutor(config Config) (*NativeExecutor, error) {
	if !platform.Supported() {
		return nil, platform.ErrUnsupported
	}
	config = config.withDefaults()

	n, err := platform.New(nativeLayout(config))
	if err != nil {
		return nil, fmt.Errorf("ppcfuzz: map native regions: %w", err)
	}
	return &NativeExecutor{native: n}, nil
}

func nativeLayout(config Config) platform.Layout {
	return platform.Layout{
		Code:        CodeBase,
		CodeSize:    uint64(config.CodeCapacity()),
		Scratch:     ScratchBase,
		ScratchSize: uint64(config.ScratchSize),
		Save:        SaveBase,
		SaveSize:    SaveAreaSize,
	}
}

// Addresses returns the mapped region addresses.
func (x *NativeExecutor) Addresses() Addresses {
	return Addresses{
		Code:    x.native.CodeAddr(),
		Scratch: x.native.ScratchAddr(),
		Save:    x.native.SaveAddr(),
	}
}

// Scratch returns the mapped scratch region.
func (x *NativeExecutor) Scratch() []byte { return x.native.Scratch() }

// Execute runs code with r3 pointing at the host context block and copies
// the register image out of the save region.
func (x *NativeExecutor) Execute(code []byte, save []uint64) (int64, error) {
	ctx := x.native.SaveAddr() + contextOffset
	elapsed, err := x.native.Run(code, ctx)
	if err != nil {
		return 0, err
	}

	raw := x.native.Save()
	for i := range save {
		if i >= SaveSlots {
			break
		}
		save[i] = binary.NativeEndian.Uint64(raw[8*i:])
	}
	return elapsed, nil
}

// Deterministic returns false: real hardware needs the majority vote.
func (x *NativeExecutor) Deterministic() bool { return false }

// Close unmaps the regions.
func (x *NativeExecutor) Close() error { return x.native.Close() }
