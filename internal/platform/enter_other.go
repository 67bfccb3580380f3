//go:build linux && !ppc64 && !ppc64le

package platform

// Supported reports whether Run can execute code on this host.
func Supported() bool { return false }

func enter(code []byte, ctx uint64) (int64, error) {
	return 0, ErrUnsupported
}
