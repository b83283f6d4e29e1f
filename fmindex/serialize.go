/*
Dump and Load implement the on-disk format spec.md §4.F describes: a
magic/version header, length-prefixed arrays in a fixed order, and a
trailing BLAKE3 checksum over everything that precedes it. Grounded on
bwt/bwt.go's own absence of a wire format (the teacher never persists a
BWT) generalized from the length-prefixed-section convention
bebop-poly's sibling packages use for binary formats, with BLAKE3
substituted for the teacher's checksum-free approach because spec.md
§4.F requires load-time integrity verification and lukechampine.com/blake3
is already a direct dependency of this module's go.mod.
*/
package fmindex

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bebop/fmidx/alphabet"
	"github.com/bebop/fmidx/pagealloc"
	"github.com/bebop/fmidx/ranktable"
	"lukechampine.com/blake3"
)

var magic = [8]byte{'F', 'M', 'I', 'D', 'X', '0', '0', '1'}

const formatVersion uint32 = 1

const checksumSize = 32

// LoadOptions controls how Load allocates the arrays it reconstructs.
type LoadOptions struct {
	// Aligned routes the BWT's byte array through pagealloc.AlignedBytes
	// instead of the ordinary Go heap, for callers handing the index to
	// an accelerator or a DMA path. The rank table, the F-column ranges
	// and the sampled suffix array are ordinary heap slices in both
	// modes. Where the mapping fails (including on platforms without
	// golang.org/x/sys/unix mmap support), Load silently uses an
	// ordinary allocation instead; it never fails for that reason.
	Aligned bool
}

// Dump writes idx to w in the on-disk format: magic, version, the BWT,
// the alphabet's symbol set, the stride configuration, the packed
// F-column ranges, the packed rank table, the sampled suffix array, and
// a trailing BLAKE3-256 checksum of everything written before it.
func (fm *FMIndex) Dump(w io.Writer) error {
	var buf bytes.Buffer
	buf.Write(magic[:])

	if err := binary.Write(&buf, binary.LittleEndian, formatVersion); err != nil {
		return &IOError{Kind: "write", Err: err}
	}

	writeBytes(&buf, fm.l)
	writeBytes(&buf, fm.alphabet.Symbols())

	binary.Write(&buf, binary.LittleEndian, uint32(fm.rankTable.Stride()))
	binary.Write(&buf, binary.LittleEndian, uint32(fm.saStride))

	writeUint32s(&buf, fm.charRanges.Packed())
	writeUint32s(&buf, fm.rankTable.Packed())

	sa32 := make([]uint32, len(fm.sampledSA))
	for i, v := range fm.sampledSA {
		sa32[i] = uint32(v)
	}
	writeUint32s(&buf, sa32)

	binary.Write(&buf, binary.LittleEndian, uint64(fm.n))

	sum := blake3.Sum256(buf.Bytes())

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &IOError{Kind: "write", Err: err}
	}
	if _, err := w.Write(sum[:]); err != nil {
		return &IOError{Kind: "write", Err: err}
	}
	return nil
}

// Load reconstructs an FMIndex previously written by Dump, verifying
// the magic, version, and trailing checksum before trusting any field.
// A checksum or length mismatch is reported as *MalformedIndexError
// rather than returned as a panic or a corrupted FMIndex.
func Load(r io.Reader, opts LoadOptions) (*FMIndex, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Kind: "read", Err: err}
	}
	if len(raw) < len(magic)+checksumSize {
		return nil, &MalformedIndexError{Offset: 0, Reason: "file too short for header and checksum"}
	}

	body := raw[:len(raw)-checksumSize]
	wantSum := raw[len(raw)-checksumSize:]
	gotSum := blake3.Sum256(body)
	if !bytes.Equal(gotSum[:], wantSum) {
		return nil, &MalformedIndexError{Offset: int64(len(body)), Reason: "checksum mismatch"}
	}

	p := &parser{buf: body}

	if !bytes.Equal(p.take(8), magic[:]) {
		return nil, &MalformedIndexError{Offset: 0, Reason: "bad magic"}
	}

	version := p.uint32()
	if p.err != nil {
		return nil, p.asError()
	}
	if version != formatVersion {
		return nil, &MalformedIndexError{Offset: int64(p.off), Reason: fmt.Sprintf("unsupported format version %d", version)}
	}

	lBytes := p.bytesSection()
	symbols := p.bytesSection()
	rankStride := int(p.uint32())
	saStride := int(p.uint32())
	if p.err != nil {
		return nil, p.asError()
	}

	if rankStride < 1 {
		return nil, &MalformedIndexError{Offset: int64(p.off), Reason: fmt.Sprintf("rank stride must be >= 1, got %d", rankStride)}
	}
	if saStride < 1 {
		return nil, &MalformedIndexError{Offset: int64(p.off), Reason: fmt.Sprintf("SA stride must be >= 1, got %d", saStride)}
	}

	a, aerr := alphabet.FromSymbols(symbols)
	if aerr != nil {
		return nil, &MalformedIndexError{Offset: int64(p.off), Reason: aerr.Error()}
	}

	for i, b := range lBytes {
		if !a.Contains(b) {
			return nil, &MalformedIndexError{Offset: int64(p.off), Reason: fmt.Sprintf("BWT byte %q at position %d is not a member of the declared alphabet", b, i)}
		}
	}

	rangesPacked := p.uint32Section()
	ranksPacked := p.uint32Section()
	saPacked := p.uint32Section()
	n := int(p.uint64())
	if p.err != nil {
		return nil, p.asError()
	}

	if len(rangesPacked) != 2*a.Size() {
		return nil, &MalformedIndexError{Offset: int64(p.off), Reason: "char-range count does not match alphabet size"}
	}

	wantRanksLen := (len(lBytes)/rankStride + 1) * a.Size()
	if len(ranksPacked) != wantRanksLen {
		return nil, &MalformedIndexError{Offset: int64(p.off), Reason: fmt.Sprintf("rank table has %d entries, want %d for bwt length %d, stride %d, and alphabet size %d", len(ranksPacked), wantRanksLen, len(lBytes), rankStride, a.Size())}
	}

	// allocBytes's page-aligned path already falls back to an ordinary
	// allocation on mmap failure rather than erroring out (see
	// pagealloc.AlignedBytes); Load honors that same policy and does
	// not turn a failed pinning request into a hard load failure.
	l, _ := allocBytes(len(lBytes), opts.Aligned)
	copy(l, lBytes)

	sa := make([]int, len(saPacked))
	for i, v := range saPacked {
		sa[i] = int(v)
	}

	return &FMIndex{
		alphabet:   a,
		l:          l,
		charRanges: ranktable.LoadCharRanges(rangesPacked, a.Size()),
		rankTable:  ranktable.Load(ranksPacked, l, a, rankStride),
		sampledSA:  sa,
		saStride:   saStride,
		n:          n,
	}, nil
}

// allocBytes chooses between an ordinary and a page-aligned allocation.
// The returned error is only ever non-nil alongside a still-usable
// (unaligned) fallback slice from pagealloc itself.
func allocBytes(n int, aligned bool) ([]byte, error) {
	if !aligned {
		return make([]byte, n), nil
	}
	b, err := pagealloc.AlignedBytes(n)
	return b, err
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	binary.Write(buf, binary.LittleEndian, uint64(len(b)))
	buf.Write(b)
}

func writeUint32s(buf *bytes.Buffer, vs []uint32) {
	binary.Write(buf, binary.LittleEndian, uint32(len(vs)))
	for _, v := range vs {
		binary.Write(buf, binary.LittleEndian, v)
	}
}

// parser walks a []byte left to right, latching the first error it
// encounters so call sites can defer error checking to the end of a
// run of reads, mirroring the short-read handling bwt/bwt.go's binary
// helpers would need if the teacher had any (it doesn't serialize).
type parser struct {
	buf []byte
	off int
	err error
}

func (p *parser) take(n int) []byte {
	if p.err != nil {
		return nil
	}
	if p.off+n > len(p.buf) {
		p.err = fmt.Errorf("unexpected end of data at offset %d, want %d bytes", p.off, n)
		return nil
	}
	b := p.buf[p.off : p.off+n]
	p.off += n
	return b
}

func (p *parser) uint32() uint32 {
	b := p.take(4)
	if p.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (p *parser) uint64() uint64 {
	b := p.take(8)
	if p.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (p *parser) bytesSection() []byte {
	n := p.uint64()
	if p.err != nil {
		return nil
	}
	return p.take(int(n))
}

func (p *parser) uint32Section() []uint32 {
	n := p.uint32()
	if p.err != nil {
		return nil
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = p.uint32()
		if p.err != nil {
			return nil
		}
	}
	return out
}

func (p *parser) asError() error {
	return &MalformedIndexError{Offset: int64(p.off), Reason: p.err.Error()}
}
