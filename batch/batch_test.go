package batch_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/bebop/fmidx/batch"
)

func TestWriteFile_ReadFile_RoundTrip(t *testing.T) {
	h := batch.Header{MaxMatchCount: 10, PatternCount: 3, PatternLength: 4}
	patterns := [][]byte{[]byte("abcd"), []byte("wxyz"), []byte("mnop")}

	var buf bytes.Buffer
	if err := batch.WriteFile(&buf, h, patterns); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	gotHeader, gotPatterns, err := batch.ReadFile(&buf)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if gotHeader != h {
		t.Fatalf("ReadFile header = %+v, want %+v", gotHeader, h)
	}
	if len(gotPatterns) != len(patterns) {
		t.Fatalf("ReadFile returned %d patterns, want %d", len(gotPatterns), len(patterns))
	}
	for i := range patterns {
		if !bytes.Equal(gotPatterns[i], patterns[i]) {
			t.Fatalf("pattern %d = %q, want %q", i, gotPatterns[i], patterns[i])
		}
	}
}

func TestWriteFile_RejectsLengthMismatch(t *testing.T) {
	h := batch.Header{MaxMatchCount: 1, PatternCount: 1, PatternLength: 4}
	var buf bytes.Buffer
	err := batch.WriteFile(&buf, h, [][]byte{[]byte("ab")})
	if err == nil {
		t.Fatal("WriteFile: expected error for mismatched pattern length, got nil")
	}
}

func TestWriteFile_RejectsCountMismatch(t *testing.T) {
	h := batch.Header{MaxMatchCount: 1, PatternCount: 2, PatternLength: 2}
	var buf bytes.Buffer
	err := batch.WriteFile(&buf, h, [][]byte{[]byte("ab")})
	if err == nil {
		t.Fatal("WriteFile: expected error for mismatched pattern count, got nil")
	}
}

func TestReadFile_RejectsShortPatternLine(t *testing.T) {
	raw := "5\n2\n4\nabcd\nxy\n"
	_, _, err := batch.ReadFile(bytes.NewBufferString(raw))
	if err == nil {
		t.Fatal("ReadFile: expected error for short pattern line, got nil")
	}
}

func TestReadFile_RejectsTruncatedPatternSection(t *testing.T) {
	raw := "5\n3\n4\nabcd\n"
	_, _, err := batch.ReadFile(bytes.NewBufferString(raw))
	if err == nil {
		t.Fatal("ReadFile: expected error for truncated pattern section, got nil")
	}
}

func TestGenerate_ProducesDeclaredShape(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	text := []byte("mississippimississippi")
	h, patterns := batch.Generate(text, 5, 4, 100, rng)

	if h.PatternCount != 5 || h.PatternLength != 4 || h.MaxMatchCount != 100 {
		t.Fatalf("Generate header = %+v, want {100 5 4}", h)
	}
	if len(patterns) != 5 {
		t.Fatalf("Generate returned %d patterns, want 5", len(patterns))
	}
	for _, p := range patterns {
		if len(p) != 4 {
			t.Fatalf("pattern %q has length %d, want 4", p, len(p))
		}
		if !bytes.Contains(text, p) {
			t.Fatalf("pattern %q is not a substring of the source text", p)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	text := []byte("abracadabraabracadabra")
	_, a := batch.Generate(text, 10, 3, 5, rand.New(rand.NewSource(1)))
	_, b := batch.Generate(text, 10, 3, 5, rand.New(rand.NewSource(1)))

	if len(a) != len(b) {
		t.Fatalf("len(a)=%d len(b)=%d", len(a), len(b))
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			t.Fatalf("pattern %d differs across identically-seeded runs: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestGenerate_RejectsLengthLongerThanText(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	h, patterns := batch.Generate([]byte("ab"), 3, 10, 1, rng)
	if patterns != nil {
		t.Fatalf("Generate with over-long pattern length returned %v, want nil", patterns)
	}
	if h.PatternLength != 10 {
		t.Fatalf("Generate header PatternLength = %d, want 10 (header still reflects request)", h.PatternLength)
	}
}
