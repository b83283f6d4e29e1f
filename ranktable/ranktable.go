package ranktable

import "github.com/bebop/fmidx/alphabet"

// RankTable answers rank(sym, i): the number of occurrences of the
// symbol with index sym in l[0:i]. Full per-row counts are stored only
// at rows that are multiples of Stride; a query that lands on an
// unstored row pays a scan of at most Stride bytes of l, per spec.md
// §4.D. This is the same anchor-and-scan shape as the teacher's
// Jacobson rank chunks (bwt/rsa_bitvector.go buildJacobsonRank), with
// the chunk/subChunk split flattened into one stride since rank here
// counts σ symbols instead of a single bit.
type RankTable struct {
	rows   []uint32 // row-major, len == numStoredRows * sigma
	stride int
	sigma  int
	lIdx   []byte // l re-encoded as symbol indices; scans read this
}

// rowOffset centralizes the row*sigma+sym packing.
func rowOffset(storedRow, sym, sigma int) int {
	return storedRow*sigma + sym
}

// encode re-expresses l as a slice of symbol indices so Rank's scan
// loop compares small integers instead of re-deriving alphabet.Index
// on every byte it passes over.
func encode(l []byte, a *alphabet.Alphabet) []byte {
	idx := make([]byte, len(l))
	for i, b := range l {
		sym, ok := a.Index(b)
		if !ok {
			panic("ranktable: byte in BWT not present in alphabet")
		}
		idx[i] = byte(sym)
	}
	return idx
}

// Build constructs a RankTable over l (the BWT last column) sampled
// every stride rows. stride must be >= 1; stride == 1 stores every row.
func Build(l []byte, a *alphabet.Alphabet, stride int) *RankTable {
	if stride < 1 {
		stride = 1
	}
	sigma := a.Size()
	m := len(l)
	lIdx := encode(l, a)
	numStoredRows := m/stride + 1

	rows := make([]uint32, numStoredRows*sigma)
	running := make([]uint32, sigma)
	// Row 0 is always the zero vector; rows[0:sigma] is already zeroed.
	for i := 0; i < m; i++ {
		running[lIdx[i]]++
		if (i+1)%stride == 0 {
			storedRow := (i + 1) / stride
			copy(rows[rowOffset(storedRow, 0, sigma):rowOffset(storedRow, sigma, sigma)], running)
		}
	}

	return &RankTable{rows: rows, stride: stride, sigma: sigma, lIdx: lIdx}
}

// Load reconstructs a RankTable from its on-disk packed rows plus the
// BWT bytes (l) and alphabet needed to serve scans between checkpoints.
// Used by fmindex's deserializer.
func Load(packed []uint32, l []byte, a *alphabet.Alphabet, stride int) *RankTable {
	if stride < 1 {
		stride = 1
	}
	return &RankTable{rows: packed, stride: stride, sigma: a.Size(), lIdx: encode(l, a)}
}

// Packed returns the on-disk representation of the stored rows, for
// serialization. The returned slice must not be mutated.
func (rt *RankTable) Packed() []uint32 {
	return rt.rows
}

// Stride returns the configured RANK_STRIDE.
func (rt *RankTable) Stride() int {
	return rt.stride
}

func (rt *RankTable) storedCount(storedRow, sym int) int {
	return int(rt.rows[rowOffset(storedRow, sym, rt.sigma)])
}

// Rank returns the number of occurrences of the symbol with index sym
// in l[0:i]. i ranges over [0, len(l)].
func (rt *RankTable) Rank(sym, i int) int {
	if rt.stride == 1 {
		return rt.storedCount(i, sym)
	}

	lowerRow := i / rt.stride
	anchor := lowerRow * rt.stride
	distDown := i - anchor

	upperAnchor := anchor + rt.stride
	if upperAnchor <= len(rt.lIdx) && upperAnchor-i < distDown {
		count := rt.storedCount(upperAnchor/rt.stride, sym)
		for k := i; k < upperAnchor; k++ {
			if int(rt.lIdx[k]) == sym {
				count--
			}
		}
		return count
	}

	count := rt.storedCount(lowerRow, sym)
	for k := anchor; k < i; k++ {
		if int(rt.lIdx[k]) == sym {
			count++
		}
	}
	return count
}
