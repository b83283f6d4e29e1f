//go:build !linux && !darwin

package pagealloc

import "errors"

// PageSize is the alignment boundary spec.md §4.F specifies. It is
// unused on platforms without an mmap-backed allocator, kept only so
// callers can still reference it uniformly.
const PageSize = 4096

// Kind selects a backing allocator.
type Kind int

const (
	Standard Kind = iota
	PageAligned
)

// errUnsupported is returned in place of the mmap error golang.org/x/sys/unix
// would report, since this platform has no anonymous-mapping path.
var errUnsupported = errors.New("pagealloc: page-aligned allocation is not supported on this platform")

// AlignedBytes falls back to an ordinary allocation on platforms
// without golang.org/x/sys/unix support.
func AlignedBytes(n int) ([]byte, error) {
	return make([]byte, n), errUnsupported
}

// AlignedUint32s falls back to an ordinary allocation on platforms
// without golang.org/x/sys/unix support.
func AlignedUint32s(n int) ([]uint32, error) {
	return make([]uint32, n), errUnsupported
}

// Release is a no-op on this platform.
func Release(b []byte) error {
	return nil
}
