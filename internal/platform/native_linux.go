//go:build linux

package platform

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// New maps the code, scratch and save regions at the addresses of l. Sizes
// are rounded up to whole pages.
func New(l Layout) (*Native, error) {
	page := uint64(unix.Getpagesize())
	if l.Code%page != 0 || l.Save%page != 0 {
		return nil, fmt.Errorf("platform: code %#x and save %#x must be page aligned", l.Code, l.Save)
	}

	n := &Native{}
	var err error
	if n.code, err = Map(l.Code, int(l.CodeSize)); err != nil {
		return nil, fmt.Errorf("platform: map code region: %w", err)
	}
	if n.scratch, err = Map(l.Scratch, int(l.ScratchSize)); err != nil {
		n.Close()
		return nil, fmt.Errorf("platform: map scratch region: %w", err)
	}
	if n.save, err = Map(l.Save, int(l.SaveSize)); err != nil {
		n.Close()
		return nil, fmt.Errorf("platform: map save region: %w", err)
	}

	return n, nil
}

// Map maps size bytes of zeroed read-write memory at addr. The pages around
// the range are mapped with it and must all be free. An addr of zero lets
// the kernel choose.
func Map(addr uint64, size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid region size %d", size)
	}
	page := uint64(unix.Getpagesize())
	start := addr &^ (page - 1)
	length := alignUp(addr+uint64(size), page) - start

	flags := unix.MAP_PRIVATE | unix.MAP_ANON
	if addr != 0 {
		flags |= unix.MAP_FIXED_NOREPLACE
	}
	p, err := unix.MmapPtr(-1, 0, unsafe.Pointer(uintptr(start)), uintptr(length),
		unix.PROT_READ|unix.PROT_WRITE, flags)
	if errors.Is(err, unix.EEXIST) {
		return nil, fmt.Errorf("%w: %#x", ErrAddressInUse, start)
	}
	if err != nil {
		return nil, err
	}
	// Kernels before 4.17 treat MAP_FIXED_NOREPLACE as a hint.
	if addr != 0 && uint64(uintptr(p)) != start {
		unix.MunmapPtr(p, uintptr(length))
		return nil, fmt.Errorf("%w: %#x", ErrAddressInUse, start)
	}

	mem := unsafe.Slice((*byte)(p), length)
	off := uint64(0)
	if addr != 0 {
		off = addr - start
	}
	return &Region{mem: mem, data: mem[off : off+uint64(size)]}, nil
}

// Unmap releases the region. It is safe to call more than once.
func (r *Region) Unmap() error {
	if r.mem == nil {
		return nil
	}
	err := unix.MunmapPtr(unsafe.Pointer(&r.mem[0]), uintptr(len(r.mem)))
	r.mem, r.data = nil, nil
	if err != nil {
		return fmt.Errorf("platform: unmap: %w", err)
	}
	return nil
}

// Run copies code into the code region, makes it executable and enters it
// with ctx in r3. It returns the elapsed timebase ticks.
func (n *Native) Run(code []byte, ctx uint64) (int64, error) {
	if n.code == nil || n.code.mem == nil {
		return 0, ErrClosed
	}
	mem := n.code.mem
	if len(code) == 0 || len(code) > len(n.code.data) {
		return 0, fmt.Errorf("%w: %d bytes, region is %d", ErrCodeTooLarge, len(code), len(n.code.data))
	}

	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return 0, fmt.Errorf("platform: unprotect code region: %w", err)
	}
	copy(n.code.data, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return 0, fmt.Errorf("platform: protect code region: %w", err)
	}

	return enter(n.code.data[:len(code)], ctx)
}

// Close unmaps every region. It is safe to call more than once.
func (n *Native) Close() error {
	var firstErr error
	for _, r := range []*Region{n.code, n.scratch, n.save} {
		if r == nil {
			continue
		}
		if err := r.Unmap(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
