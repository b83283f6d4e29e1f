package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/bebop/fmidx/batch"
)

func newTestApp(stdin, stdout *bytes.Buffer) *cli.App {
	app := application()
	app.Reader = stdin
	app.Writer = stdout
	app.ErrWriter = stdout
	return app
}

func TestConstructThenRepl(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "text.txt")
	indexPath := filepath.Join(dir, "text.fmidx")

	if err := os.WriteFile(textPath, []byte("mississippi"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out bytes.Buffer
	app := newTestApp(nil, &out)
	if err := app.Run([]string{"fmidx", "construct", textPath, indexPath}); err != nil {
		t.Fatalf("construct: %v", err)
	}
	if _, err := os.Stat(indexPath); err != nil {
		t.Fatalf("expected index file to exist: %v", err)
	}

	stdin := bytes.NewBufferString("issi\nzzz\n")
	out.Reset()
	app = newTestApp(stdin, &out)
	if err := app.Run([]string{"fmidx", "repl", indexPath}); err != nil {
		t.Fatalf("repl: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("repl output = %q, want 2 lines", out.String())
	}
	if lines[0] != "1 4" {
		t.Fatalf("repl line 1 = %q, want %q", lines[0], "1 4")
	}
	if lines[1] != "no match" {
		t.Fatalf("repl line 2 = %q, want %q", lines[1], "no match")
	}
}

func TestGenThenBench(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "text.txt")
	indexPath := filepath.Join(dir, "text.fmidx")
	batchPath := filepath.Join(dir, "batch.txt")

	if err := os.WriteFile(textPath, []byte(strings.Repeat("mississippi", 4)), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out bytes.Buffer
	app := newTestApp(nil, &out)
	if err := app.Run([]string{"fmidx", "construct", textPath, indexPath}); err != nil {
		t.Fatalf("construct: %v", err)
	}

	out.Reset()
	app = newTestApp(nil, &out)
	if err := app.Run([]string{"fmidx", "gen", textPath, indexPath, batchPath, "5", "3", "20"}); err != nil {
		t.Fatalf("gen: %v", err)
	}
	if _, err := os.Stat(batchPath); err != nil {
		t.Fatalf("expected batch file to exist: %v", err)
	}

	out.Reset()
	app = newTestApp(nil, &out)
	if err := app.Run([]string{"fmidx", "bench", indexPath, batchPath}); err != nil {
		t.Fatalf("bench: %v", err)
	}
	fields := strings.Fields(out.String())
	if len(fields) != 3 {
		t.Fatalf("bench output = %q, want 3 fields", out.String())
	}
}

// TestBench_HandlesUnderdeclaredMaxMatchCount reproduces the scenario
// batch.Generate's doc comment warns about: a batch file whose declared
// max_match_count understates a pattern's true occurrence count. bench
// must size its Locate buffer from the real interval, not the header,
// or this panics with an out-of-range slice write.
func TestBench_HandlesUnderdeclaredMaxMatchCount(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "text.txt")
	indexPath := filepath.Join(dir, "text.fmidx")
	batchPath := filepath.Join(dir, "batch.txt")

	if err := os.WriteFile(textPath, []byte(strings.Repeat("a", 10000)), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out bytes.Buffer
	app := newTestApp(nil, &out)
	if err := app.Run([]string{"fmidx", "construct", textPath, indexPath}); err != nil {
		t.Fatalf("construct: %v", err)
	}

	f, err := os.Create(batchPath)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	h := batch.Header{MaxMatchCount: 1, PatternCount: 1, PatternLength: 1}
	if err := batch.WriteFile(f, h, [][]byte{[]byte("a")}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out.Reset()
	app = newTestApp(nil, &out)
	if err := app.Run([]string{"fmidx", "bench", indexPath, batchPath}); err != nil {
		t.Fatalf("bench: %v", err)
	}
	fields := strings.Fields(out.String())
	if len(fields) != 3 {
		t.Fatalf("bench output = %q, want 3 fields", out.String())
	}
	if fields[2] != "10000" {
		t.Fatalf("bench reported %s matches, want 10000", fields[2])
	}
}

func TestConstruct_MissingArgs(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(nil, &out)
	if err := app.Run([]string{"fmidx", "construct", "onlyone"}); err == nil {
		t.Fatal("construct with one arg: expected error, got nil")
	}
}
