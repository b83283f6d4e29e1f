package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slices"

	"github.com/bebop/fmidx/batch"
	"github.com/bebop/fmidx/fmindex"
)

/******************************************************************************

Each command here mirrors one row of the CLI surface: construct builds
and dumps an index, repl drives it interactively, bench replays a
pattern batch and times it, gen writes a fresh pattern batch. Argument
parsing stays in main.go; this file holds the bodies so main.go stays a
table of contents, the same split bebop-poly's poly/commands.go uses.

******************************************************************************/

func constructCommand(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("construct: expected <input_text> <output_index>")
	}
	inputPath := c.Args().Get(0)
	outputPath := c.Args().Get(1)

	text, err := os.ReadFile(inputPath)
	if err != nil {
		return &fmindex.IOError{Path: inputPath, Kind: "open", Err: err}
	}

	cfg := fmindex.Config{
		RankStride: c.Int("rank-stride"),
		SAStride:   c.Int("sa-stride"),
	}
	idx, err := cfg.Build(text)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return &fmindex.IOError{Path: outputPath, Kind: "open", Err: err}
	}
	defer out.Close()

	if err := idx.Dump(out); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "constructed index over %d bytes -> %s\n", idx.Len(), outputPath)
	return nil
}

func loadIndex(c *cli.Context, path string) (*fmindex.FMIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &fmindex.IOError{Path: path, Kind: "open", Err: err}
	}
	defer f.Close()

	return fmindex.Load(f, fmindex.LoadOptions{Aligned: c.Bool("aligned")})
}

func replCommand(c *cli.Context) error {
	if c.Args().Len() < 1 {
		return fmt.Errorf("repl: expected <index>")
	}
	idx, err := loadIndex(c, c.Args().Get(0))
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(c.App.Reader)
	for scanner.Scan() {
		pattern := []byte(scanner.Text())
		start, end := idx.Count(pattern)
		positions := idx.LocateAll(start, end)
		if len(positions) == 0 {
			fmt.Fprintln(c.App.Writer, "no match")
			continue
		}
		slices.Sort(positions)
		fmt.Fprintln(c.App.Writer, joinInts(positions))
	}
	return scanner.Err()
}

func benchCommand(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("bench: expected <index> <pattern_batch>")
	}
	idx, err := loadIndex(c, c.Args().Get(0))
	if err != nil {
		return err
	}

	batchFile, err := os.Open(c.Args().Get(1))
	if err != nil {
		return &fmindex.IOError{Path: c.Args().Get(1), Kind: "open", Err: err}
	}
	defer batchFile.Close()

	h, patterns, err := batch.ReadFile(batchFile)
	if err != nil {
		return err
	}

	intervals := make([][2]int, len(patterns))
	countStart := time.Now()
	for i, p := range patterns {
		s, e := idx.Count(p)
		intervals[i] = [2]int{s, e}
	}
	countElapsed := time.Since(countStart)

	// h.MaxMatchCount is an untrusted field from the batch file: a
	// generator can under-declare it relative to a pattern's true
	// occurrence count (batch.Generate itself never checks). Locate
	// does no bounds checking on its output buffer, so out is sized
	// from each interval's actual length rather than trusted blindly.
	out := make([]int, 0, h.MaxMatchCount)
	totalMatches := 0
	locateStart := time.Now()
	for _, iv := range intervals {
		need := iv[1] - iv[0]
		if cap(out) < need {
			out = make([]int, need)
		} else {
			out = out[:need]
		}
		n := idx.Locate(iv[0], iv[1], out)
		totalMatches += n
	}
	locateElapsed := time.Since(locateStart)

	fmt.Fprintf(c.App.Writer, "%s %s %d\n", countElapsed, locateElapsed, totalMatches)
	return nil
}

func genCommand(c *cli.Context) error {
	if c.Args().Len() < 5 {
		return fmt.Errorf("gen: expected <text> <index> <out> <count> <len> [<max_matches>]")
	}
	textPath := c.Args().Get(0)
	// <index> is accepted for CLI-table parity but unused: Generate
	// draws patterns straight from the source text, not from a built
	// index.
	outPath := c.Args().Get(2)
	count, err := strconv.Atoi(c.Args().Get(3))
	if err != nil {
		return fmt.Errorf("gen: parsing count: %w", err)
	}
	length, err := strconv.Atoi(c.Args().Get(4))
	if err != nil {
		return fmt.Errorf("gen: parsing len: %w", err)
	}
	maxMatches := count
	if c.Args().Len() > 5 {
		maxMatches, err = strconv.Atoi(c.Args().Get(5))
		if err != nil {
			return fmt.Errorf("gen: parsing max_matches: %w", err)
		}
	}

	text, err := os.ReadFile(textPath)
	if err != nil {
		return &fmindex.IOError{Path: textPath, Kind: "open", Err: err}
	}

	rng := rand.New(rand.NewSource(c.Int64("seed")))
	h, patterns := batch.Generate(text, count, length, maxMatches, rng)

	out, err := os.Create(outPath)
	if err != nil {
		return &fmindex.IOError{Path: outPath, Kind: "open", Err: err}
	}
	defer out.Close()

	return batch.WriteFile(out, h, patterns)
}

func joinInts(vs []int) string {
	buf := make([]byte, 0, len(vs)*4)
	for i, v := range vs {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(v), 10)
	}
	return string(buf)
}
