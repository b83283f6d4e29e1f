/*
Package fmindex is the FM-index facade: it owns the alphabet, the BWT,
the rank table, the F-column ranges, and the sampled suffix array for
one text, and exposes Build/Count/Locate/Extract/Dump/Load.

Grounded on bwt.BWT's shape (bwt/bwt.go) — a struct that owns its
derived arrays for the lifetime of the value, a New/Build constructor
that validates then transforms, and Count/Locate methods built on a
shared backward-search step — generalized from the teacher's
wavelet-tree rank/select to the sampled rank table + sampled suffix
array design spec.md §4 specifies, with explicit RankStride/SAStride
configuration instead of compile-time constants.
*/
package fmindex

import (
	"github.com/bebop/fmidx/alphabet"
	"github.com/bebop/fmidx/bwtgen"
	"github.com/bebop/fmidx/ranktable"
	"github.com/bebop/fmidx/suffixarray"
)

// DefaultRankStride and DefaultSAStride are used by Config.normalize
// when the caller leaves a stride unset (zero value).
const (
	DefaultRankStride = 32
	DefaultSAStride   = 8
)

// Config controls the memory/time tradeoffs spec.md §4.D describes:
// RankStride and SAStride independently trade lookup cost for the size
// of the rank table and sampled suffix array. The allocator seam
// (spec.md §9) is a Load-time concern, not a Build-time one — see
// LoadOptions in serialize.go — since only deserialization ever needs
// to hand an accelerator a pinned buffer.
type Config struct {
	RankStride int
	SAStride   int
}

func (c Config) normalize() Config {
	if c.RankStride < 1 {
		c.RankStride = DefaultRankStride
	}
	if c.SAStride < 1 {
		c.SAStride = DefaultSAStride
	}
	return c
}

// FMIndex is an immutable, compressed self-index over a single text. A
// built or loaded FMIndex is safe for concurrent Count/Locate/Extract
// calls from multiple goroutines; it is never mutated after
// construction (spec.md §5).
type FMIndex struct {
	alphabet   *alphabet.Alphabet
	l          []byte // BWT last column, length n+1
	charRanges *ranktable.CharRanges
	rankTable  *ranktable.RankTable
	sampledSA  []int
	saStride   int
	n          int // length of the original text, excluding the sentinel
}

// Build constructs an FMIndex over text. text is copied into the index
// (via the sentinel-terminated buffer handed to the suffix array and
// BWT builders); the index never retains the caller's slice.
func (cfg Config) Build(text []byte) (idx *FMIndex, err error) {
	defer recoverAsOutOfMemory(&err)

	if len(text) == 0 {
		return nil, ErrEmptyInput
	}

	a, aerr := alphabet.New(text)
	if aerr != nil {
		return nil, ErrInputContainsSentinel
	}

	cfg = cfg.normalize()

	textWithSentinel := make([]byte, len(text)+1)
	copy(textWithSentinel, text)
	textWithSentinel[len(text)] = alphabet.Sentinel

	sa := suffixarray.Build(textWithSentinel)
	l := bwtgen.Build(textWithSentinel, sa)
	sampledSA := suffixarray.Sample(sa, cfg.SAStride)

	return &FMIndex{
		alphabet:   a,
		l:          l,
		charRanges: ranktable.BuildCharRanges(l, a),
		rankTable:  ranktable.Build(l, a, cfg.RankStride),
		sampledSA:  sampledSA,
		saStride:   cfg.SAStride,
		n:          len(text),
	}, nil
}

// Build is sugar for Config{}.Build(text), using DefaultRankStride and
// DefaultSAStride.
func Build(text []byte) (*FMIndex, error) {
	return Config{}.Build(text)
}

// recoverAsOutOfMemory converts a panic (an oversized make(), a
// negative index computed from corrupted input, etc.) into
// ErrOutOfMemory rather than crashing the caller's process, mirroring
// bwt/bwt.go's bwtRecovery — but narrowed to the one failure class
// construction can actually hit, since Count and Locate never allocate.
func recoverAsOutOfMemory(err *error) {
	if r := recover(); r != nil {
		*err = ErrOutOfMemory
	}
}

// Len returns n, the length of the original text (excluding the
// sentinel).
func (fm *FMIndex) Len() int {
	return fm.n
}

// Alphabet returns the Alphabet derived from the indexed text.
func (fm *FMIndex) Alphabet() *alphabet.Alphabet {
	return fm.alphabet
}

// lfStep applies one LF-mapping step from BWT row.
func (fm *FMIndex) lfStep(row int) int {
	sym, _ := fm.alphabet.Index(fm.l[row])
	return fm.charRanges.Lo(sym) + fm.rankTable.Rank(sym, row)
}

// Count runs backward search for pattern and returns the half-open
// BWT interval [start, end) of rows whose suffix is prefixed by
// pattern. end-start is the occurrence count. An empty pattern matches
// every position, returning (0, Len()+1). A pattern containing a byte
// absent from the index's Alphabet returns the empty interval (0, 0),
// per spec.md §7's rule that query errors are never propagated as Go
// errors.
func (fm *FMIndex) Count(pattern []byte) (start, end int) {
	if len(pattern) == 0 {
		return 0, fm.n + 1
	}

	last := pattern[len(pattern)-1]
	sym, ok := fm.alphabet.Index(last)
	if !ok {
		return 0, 0
	}
	s, e := fm.charRanges.Lo(sym), fm.charRanges.Hi(sym)

	for k := len(pattern) - 2; k >= 0; k-- {
		if e <= s {
			return 0, 0
		}
		sym, ok := fm.alphabet.Index(pattern[k])
		if !ok {
			return 0, 0
		}
		s = fm.charRanges.Lo(sym) + fm.rankTable.Rank(sym, s)
		e = fm.charRanges.Lo(sym) + fm.rankTable.Rank(sym, e)
		if e <= s {
			return 0, 0
		}
	}
	return s, e
}

// Locate recovers the original text positions for the BWT rows in
// [start, end) by iterated LF-mapping from the sampled suffix array
// (spec.md §4.E), writing them into out (which must have length at
// least end-start) and returning the number written. The sentinel
// position (Len()) is never written, so the count returned can be one
// less than end-start for a query whose interval includes the
// sentinel's row (only possible for the empty pattern or a pattern
// made of the sentinel byte alone). The core
// performs no allocation here; out is entirely caller-owned.
func (fm *FMIndex) Locate(start, end int, out []int) int {
	written := 0
	for i := start; i < end; i++ {
		idx := i
		jumps := 0
		for idx%fm.saStride != 0 {
			idx = fm.lfStep(idx)
			jumps++
		}
		pos := (fm.sampledSA[idx/fm.saStride] + jumps) % (fm.n + 1)
		if pos == fm.n {
			continue
		}
		out[written] = pos
		written++
	}
	return written
}

// LocateAll is a convenience wrapper over Locate for callers that do
// not pre-size an output buffer.
func (fm *FMIndex) LocateAll(start, end int) []int {
	if end <= start {
		return nil
	}
	out := make([]int, end-start)
	n := fm.Locate(start, end, out)
	return out[:n]
}

// Extract recovers text[start:end) from the index without access to
// the original buffer. It is not part of the performance-critical
// query path (Count/Locate do not depend on it) and walks the LF chain
// from the always-known sentinel row, so it costs O(n) to find its
// anchor regardless of the requested range's size. A future revision
// could close this gap the way r-index does; bwt/bwt.go's own
// getFCharPosFromOriginalSequenceCharPos carries the identical caveat.
func (fm *FMIndex) Extract(start, end int) (string, error) {
	if start < 0 || end > fm.n || start >= end {
		return "", ErrRangeOutOfBounds
	}

	row := fm.rowForPosition(end)
	buf := make([]byte, end-start)
	for i := end - 1; i >= start; i-- {
		buf[i-start] = fm.l[row]
		row = fm.lfStep(row)
	}
	return string(buf), nil
}

// rowForPosition returns the BWT row i such that SA[i] == p, walking
// forward from row 0 (which always corresponds to position n, the
// sentinel) since LF-mapping from row 0 visits positions in decreasing
// order n, n-1, ..., 0, n, ...
func (fm *FMIndex) rowForPosition(p int) int {
	row := 0
	pos := fm.n
	for pos != p {
		row = fm.lfStep(row)
		pos--
		if pos < 0 {
			pos = fm.n
		}
	}
	return row
}
