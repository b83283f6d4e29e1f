/*
Package ranktable implements the two lookup structures a backward-search
step needs: the F-column ranges (where each symbol's block starts and
ends) and a sampled rank matrix over the BWT's last column (how many
times a symbol has occurred before a given row).

Both are flat, row-major []uint32 slices rather than structs-of-slices,
grounded on the packed-array layout bwt/rsa_bitvector.go uses for its
Jacobson rank chunks — here generalized from one bit to σ symbols so the
packing and indexing rules live in one place (rangeOffset/rowOffset)
instead of being re-derived at every stride variant, per spec.md §9's
note on pointer arithmetic over packed matrices.
*/
package ranktable

import "github.com/bebop/fmidx/alphabet"

// CharRanges holds, for every symbol index j in [0, σ), the half-open
// interval [Lo(j), Hi(j)) of F-column rows whose first symbol is j.
type CharRanges struct {
	ranges []uint32 // packed [Lo(0), Hi(0), Lo(1), Hi(1), ...]
	sigma  int
}

// rangeOffset centralizes the 2*sym+k packing so no other code indexes
// into CharRanges.ranges directly.
func rangeOffset(sym, k int) int {
	return 2*sym + k
}

// BuildCharRanges computes R_lo/R_hi by a single pass over l (the BWT's
// last column) accumulating per-symbol counts, then prefix-summing.
func BuildCharRanges(l []byte, a *alphabet.Alphabet) *CharRanges {
	sigma := a.Size()
	counts := make([]uint32, sigma)
	for _, b := range l {
		idx, ok := a.Index(b)
		if !ok {
			// l is always built from the same text the alphabet was
			// derived from; an unknown byte here means caller error.
			panic("ranktable: byte in BWT not present in alphabet")
		}
		counts[idx]++
	}

	ranges := make([]uint32, 2*sigma)
	var running uint32
	for sym := 0; sym < sigma; sym++ {
		ranges[rangeOffset(sym, 0)] = running
		running += counts[sym]
		ranges[rangeOffset(sym, 1)] = running
	}

	return &CharRanges{ranges: ranges, sigma: sigma}
}

// LoadCharRanges reconstructs a CharRanges from a packed slice already
// in on-disk layout (length 2*sigma). Used by fmindex's deserializer.
func LoadCharRanges(packed []uint32, sigma int) *CharRanges {
	return &CharRanges{ranges: packed, sigma: sigma}
}

// Lo returns R_lo(A[sym]).
func (c *CharRanges) Lo(sym int) int {
	return int(c.ranges[rangeOffset(sym, 0)])
}

// Hi returns R_hi(A[sym]).
func (c *CharRanges) Hi(sym int) int {
	return int(c.ranges[rangeOffset(sym, 1)])
}

// Packed returns the on-disk representation of the ranges (length 2σ),
// for serialization. The returned slice must not be mutated.
func (c *CharRanges) Packed() []uint32 {
	return c.ranges
}
