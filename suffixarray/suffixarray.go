/*
Package suffixarray builds and samples the suffix array of a
sentinel-terminated text.

Build is deliberately a straightforward comparison sort, not SA-IS or
DC3: the FM-index only needs *a* suffix array that matches the textbook
lexicographic order of T$'s suffixes, and a sort is the version a reader
can audit by eye. The sentinel must already have been appended; less
treats it as smaller than every other byte whatever its byte value, and
compares all other bytes as plain unsigned bytes.
*/
package suffixarray

import (
	"golang.org/x/exp/slices"

	"github.com/bebop/fmidx/alphabet"
)

// Build returns the suffix array of textWithSentinel: a permutation of
// [0, len(textWithSentinel)) such that SA[i] gives the start offset of
// the i-th lexicographically smallest suffix. textWithSentinel must end
// in alphabet.Sentinel and must contain no earlier occurrence of it;
// Build in the fmindex package is responsible for that invariant.
func Build(textWithSentinel []byte) []int {
	n := len(textWithSentinel)
	sa := make([]int, n)
	for i := range sa {
		sa[i] = i
	}

	slices.SortFunc(sa, func(i, j int) bool {
		return less(textWithSentinel, i, j)
	})

	return sa
}

// less reports whether the suffix starting at a sorts strictly before
// the suffix starting at b. The sentinel appears exactly once, at the
// end of the buffer, and sorts strictly before every other byte even
// though bytes such as ' ' or '\n' have smaller values than '$', so it
// is checked explicitly before the plain byte comparison (spec.md §9's
// "signedness bug" fix: this returns a boolean derived from the
// comparison, never a raw `i > j`).
func less(text []byte, a, b int) bool {
	n := len(text)
	for a < n && b < n {
		ca, cb := text[a], text[b]
		if ca != cb {
			if ca == alphabet.Sentinel {
				return true
			}
			if cb == alphabet.Sentinel {
				return false
			}
			return ca < cb
		}
		if ca == alphabet.Sentinel {
			// Only one sentinel exists; reaching it at equal positions
			// means a == b.
			return false
		}
		a++
		b++
	}
	return a > b
}

// Sample retains only the entries of sa at indices that are multiples
// of stride, preserving their order. stride must be >= 1; stride == 1
// returns an unsampled copy of sa.
func Sample(sa []int, stride int) []int {
	if stride < 1 {
		stride = 1
	}
	sampled := make([]int, 0, (len(sa)+stride-1)/stride)
	for i := 0; i < len(sa); i += stride {
		sampled = append(sampled, sa[i])
	}
	return sampled
}
