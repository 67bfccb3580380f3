//go:build linux && (ppc64 || ppc64le)

package platform

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// callTestcase branches to code with r3=ctx and returns the timebase delta
// across the call. The callee must preserve the ELFv2 non-volatile state.
//
//go:noescape
func callTestcase(code, ctx uintptr) int64

// flushICache makes freshly written instructions in [addr, addr+size)
// visible to instruction fetch: dcbst, sync, icbi, sync, isync.
//
//go:noescape
func flushICache(addr, size uintptr)

// Supported reports whether Run can execute code on this host.
func Supported() bool { return true }

func enter(code []byte, ctx uint64) (int64, error) {
	// The testcase clobbers every GPR including the one holding g, so no
	// signal may be delivered to this thread until it has returned.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var all, old unix.Sigset_t
	for i := range all.Val {
		all.Val[i] = ^uint64(0)
	}
	if err := unix.PthreadSigmask(unix.SIG_SETMASK, &all, &old); err != nil {
		return 0, fmt.Errorf("platform: block signals: %w", err)
	}
	defer unix.PthreadSigmask(unix.SIG_SETMASK, &old, nil)

	addr := uintptr(unsafe.Pointer(&code[0]))
	flushICache(addr, uintptr(len(code)))

	return callTestcase(addr, uintptr(ctx)), nil
}
