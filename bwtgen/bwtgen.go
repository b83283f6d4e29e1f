/*
Package bwtgen produces the last column (L) of the Burrows-Wheeler
matrix of a sentinel-terminated text, given its full suffix array.

Grounded on the last-column construction loop in bwt.New (the teacher's
prefixArray/getBWTIndex dance); here it operates directly on offsets
into textWithSentinel instead of re-slicing a new string per rotation,
since the suffix array already carries every offset we need.
*/
package bwtgen

import "github.com/bebop/fmidx/alphabet"

// Build returns L, the BWT of textWithSentinel, given its suffix array
// sa (as produced by suffixarray.Build, unsampled). L[i] is the byte
// immediately preceding the suffix sa[i] in the cyclic rotation, i.e.
// textWithSentinel[sa[i]-1], or the Sentinel if sa[i] == 0.
func Build(textWithSentinel []byte, sa []int) []byte {
	n := len(textWithSentinel)
	l := make([]byte, n)
	for i, pos := range sa {
		if pos == 0 {
			l[i] = alphabet.Sentinel
			continue
		}
		l[i] = textWithSentinel[pos-1]
	}
	return l
}
