//go:build linux || darwin

/*
Package pagealloc is the one allocator seam fmindex's deserializer uses
to choose between ordinary heap slices and page-aligned ones.

Page alignment only matters to a caller handing the index's arrays to
an accelerator or a DMA-capable offload path (spec.md §4.F); the core
query path never cares. Grounded on the anonymous-mapping technique in
_examples/grailbio-bio/fusion/kmer_index.go (golang.org/x/sys/unix
Mmap + Madvise over a hand-rolled index structure) — here without the
hugepage advice, since spec.md §4.F only asks for 4096-byte page
alignment, not transparent hugepages.
*/
package pagealloc

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// PageSize is the alignment boundary spec.md §4.F specifies.
const PageSize = 4096

// Kind selects a backing allocator.
type Kind int

const (
	// Standard allocates with the ordinary Go heap allocator.
	Standard Kind = iota
	// PageAligned allocates an anonymous mapping rounded up to a
	// 4096-byte boundary, suitable for pinning or DMA.
	PageAligned
)

var (
	mappingsMu sync.Mutex
	mappings   = map[uintptr][]byte{}
)

// AlignedBytes returns a zeroed, page-aligned []byte of length n backed
// by an anonymous mmap region. If the mapping fails (for example,
// insufficient permission or address space), it falls back to an
// ordinary allocation and returns a wrapped error describing why — a
// query library must not crash a caller's process over a memory
// pinning nicety.
func AlignedBytes(n int) ([]byte, error) {
	if n <= 0 {
		return []byte{}, nil
	}
	mapped, err := unix.Mmap(-1, 0, roundUp(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return make([]byte, n), fmt.Errorf("pagealloc: mmap failed, falling back to standard allocation: %w", err)
	}
	mappingsMu.Lock()
	mappings[addrOf(mapped)] = mapped
	mappingsMu.Unlock()
	return mapped[:n], nil
}

// AlignedUint32s returns a zeroed, page-aligned []uint32 of length n,
// backed by the same mechanism as AlignedBytes.
func AlignedUint32s(n int) ([]uint32, error) {
	raw, err := AlignedBytes(n * 4)
	if len(raw) < n*4 {
		return make([]uint32, n), err
	}
	return bytesToUint32s(raw, n), err
}

// Release unmaps a slice previously returned by AlignedBytes. It is a
// no-op for slices that did not come from this package's page-aligned
// path (the common case: ordinary heap slices need no release, which
// keeps fmindex.FMIndex free of a mandatory Close() method).
func Release(b []byte) error {
	addr := addrOf(b)
	mappingsMu.Lock()
	mapped, ok := mappings[addr]
	if ok {
		delete(mappings, addr)
	}
	mappingsMu.Unlock()
	if !ok {
		return nil
	}
	return unix.Munmap(mapped)
}

func roundUp(n int) int {
	return (n + PageSize - 1) / PageSize * PageSize
}

func addrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

func bytesToUint32s(raw []byte, n int) []uint32 {
	if n == 0 {
		return []uint32{}
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&raw[0])), n)
}
