package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

/******************************************************************************

This file is the entry point for the fmidx command line utility. It
follows the same split as bebop-poly's cmd: argument parsing and
subcommand templates live here, the actual command bodies live in
commands.go, so this file stays skimmable as a table of contents.

Initial argparsing and app definition go through
"github.com/urfave/cli/v2":

https://github.com/urfave/cli/blob/master/docs/v2/manual.md

******************************************************************************/

func main() {
	run(os.Args)
}

// run is separated from main for debugging's sake.
func run(args []string) {
	app := application()
	if err := app.Run(args); err != nil {
		log.Fatal(err)
	}
}

// application defines the fmidx command line app: construct an index,
// drive it interactively, benchmark it against a pattern batch, or
// generate a pattern batch from a text.
func application() *cli.App {
	return &cli.App{
		Name:  "fmidx",
		Usage: "Build and query FM-index substring search engines.",

		Commands: []*cli.Command{
			{
				Name:      "construct",
				Usage:     "Build an FM-index over a text file and write it to disk.",
				ArgsUsage: "<input_text> <output_index>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "rank-stride",
						Value: 32,
						Usage: "Rank table checkpoint interval (RANK_STRIDE).",
					},
					&cli.IntFlag{
						Name:  "sa-stride",
						Value: 8,
						Usage: "Suffix-array sampling interval (SA_STRIDE).",
					},
					&cli.BoolFlag{
						Name:  "aligned",
						Usage: "Unused at construct time; present for symmetry with repl/bench's loader flag.",
					},
				},
				Action: func(c *cli.Context) error {
					return constructCommand(c)
				},
			},
			{
				Name:      "repl",
				Usage:     "Read patterns from stdin, one per line, and print their match positions.",
				ArgsUsage: "<index>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "aligned",
						Usage: "Load the index's BWT array through the page-aligned allocator.",
					},
				},
				Action: func(c *cli.Context) error {
					return replCommand(c)
				},
			},
			{
				Name:      "bench",
				Usage:     "Run a pattern batch against an index and report timing.",
				ArgsUsage: "<index> <pattern_batch>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "aligned",
						Usage: "Load the index's BWT array through the page-aligned allocator.",
					},
				},
				Action: func(c *cli.Context) error {
					return benchCommand(c)
				},
			},
			{
				Name:      "gen",
				Usage:     "Generate a random pattern batch file from a text.",
				ArgsUsage: "<text> <index> <out> <count> <len> [<max_matches>]",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "seed",
						Value: 1,
						Usage: "Seed for the pattern generator's math/rand source.",
					},
				},
				Action: func(c *cli.Context) error {
					return genCommand(c)
				},
			},
		},
	}
}
