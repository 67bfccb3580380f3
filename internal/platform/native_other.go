//go:build !linux

package platform

// New is only implemented on Linux.
func New(l Layout) (*Native, error) {
	return nil, ErrUnsupported
}

// Map is only implemented on Linux.
func Map(addr uint64, size int) (*Region, error) {
	return nil, ErrUnsupported
}

// Unmap is a no-op where nothing can be mapped.
func (r *Region) Unmap() error { return nil }

// Run is only implemented on Linux.
func (n *Native) Run(code []byte, ctx uint64) (int64, error) {
	return 0, ErrUnsupported
}

// Close is a no-op where nothing can be mapped.
func (n *Native) Close() error { return nil }

// Supported reports whether Run can execute code on this host.
func Supported() bool { return false }
