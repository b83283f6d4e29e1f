/*
Package batch reads and writes the pattern-batch file format spec.md
§4.G defines as the external contract between a pattern generator and a
benchmark harness: a three-line header followed by fixed-length pattern
lines. Grounded on random/random.go's seeded math/rand usage for
Generate, and on the teacher's io.go line-oriented file helpers
(bufio.Scanner over an os.File) for ReadFile/WriteFile, here narrowed to
this one record shape instead of the teacher's multi-format sniffing.
*/
package batch

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strconv"
)

// Header is the three-line preamble of a pattern-batch file.
type Header struct {
	MaxMatchCount int
	PatternCount  int
	PatternLength int
}

// WriteFile writes h as three header lines followed by one line per
// pattern in patterns. Every pattern must have length h.PatternLength;
// WriteFile returns an error rather than silently padding or
// truncating a mismatched line.
func WriteFile(w io.Writer, h Header, patterns [][]byte) error {
	if len(patterns) != h.PatternCount {
		return fmt.Errorf("batch: header declares %d patterns, got %d", h.PatternCount, len(patterns))
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n%d\n", h.MaxMatchCount, h.PatternCount, h.PatternLength)

	for i, p := range patterns {
		if len(p) != h.PatternLength {
			return fmt.Errorf("batch: pattern %d has length %d, want %d", i, len(p), h.PatternLength)
		}
		bw.Write(p)
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// ReadFile parses a pattern-batch file from r, validating that every
// pattern line is exactly PatternLength bytes and that exactly
// PatternCount lines follow the header.
func ReadFile(r io.Reader) (Header, [][]byte, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	h, err := readHeader(sc)
	if err != nil {
		return Header{}, nil, err
	}

	patterns := make([][]byte, 0, h.PatternCount)
	for i := 0; i < h.PatternCount; i++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return Header{}, nil, fmt.Errorf("batch: reading pattern %d: %w", i, err)
			}
			return Header{}, nil, fmt.Errorf("batch: expected %d patterns, found only %d", h.PatternCount, i)
		}
		line := sc.Bytes()
		if len(line) != h.PatternLength {
			return Header{}, nil, fmt.Errorf("batch: pattern %d has length %d, want %d", i, len(line), h.PatternLength)
		}
		p := make([]byte, len(line))
		copy(p, line)
		patterns = append(patterns, p)
	}

	return h, patterns, nil
}

func readHeader(sc *bufio.Scanner) (Header, error) {
	var fields [3]int
	for i, name := range [3]string{"max_match_count", "pattern_count", "pattern_length"} {
		if !sc.Scan() {
			return Header{}, fmt.Errorf("batch: missing %s header line", name)
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return Header{}, fmt.Errorf("batch: parsing %s: %w", name, err)
		}
		fields[i] = v
	}
	return Header{MaxMatchCount: fields[0], PatternCount: fields[1], PatternLength: fields[2]}, nil
}

// Generate draws count random substrings of the given length from
// text, using rng (the caller supplies a seeded *rand.Rand rather than
// relying on the package-level generator, since spec.md §1 calls out
// the teacher's original generator as out of scope and this is a
// from-scratch reimplementation). maxMatches is carried into the
// returned Header unmodified; Generate does not verify how many times
// each drawn pattern actually occurs.
func Generate(text []byte, count, length int, maxMatches int, rng *rand.Rand) (Header, [][]byte) {
	h := Header{MaxMatchCount: maxMatches, PatternCount: count, PatternLength: length}
	if length <= 0 || length > len(text) || count <= 0 {
		return h, nil
	}

	patterns := make([][]byte, count)
	for i := 0; i < count; i++ {
		start := rng.Intn(len(text) - length + 1)
		p := make([]byte, length)
		copy(p, text[start:start+length])
		patterns[i] = p
	}
	return h, patterns
}
