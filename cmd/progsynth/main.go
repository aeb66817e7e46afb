// Command progsynth is the CLI front-end for the synthesis engine: it loads
// an example file, dispatches to the shape or string synthesizer named by
// -task, and prints the winning program. It is a thin collaborator — all of
// the actual search lives in pkg/synth, pkg/shapedsl, and pkg/strdsl.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"

	"github.com/rfielding/progsynth/internal/examplefile"
	"github.com/rfielding/progsynth/pkg/shapedsl"
	"github.com/rfielding/progsynth/pkg/strdsl"
	"github.com/rfielding/progsynth/pkg/synth"
)

const (
	exitSuccess     = 0
	exitNoSolution  = 1
	exitMalformed   = 2
)

type options struct {
	ExamplesFile  string
	Task          string
	MaxIterations int
	Accumulate    bool
	Verbose       bool
	Silent        bool
}

func parseFlags() *options {
	opts := &options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription("Bottom-up enumerative program synthesis over a shape or string DSL.")

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&opts.ExamplesFile, "examples", "e", "", "example file to load (YAML, see internal/examplefile)"),
		flagSet.StringVarP(&opts.Task, "task", "t", "", "override the task named in the example file (shape|string)"),
	)

	flagSet.CreateGroup("search", "Search",
		flagSet.IntVarP(&opts.MaxIterations, "max-iterations", "m", 0, "growth round budget (default 5, or the file's max_iterations)"),
		flagSet.BoolVarP(&opts.Accumulate, "accumulate", "a", false, "grow from every surviving level, not just the latest"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "display progress per enumeration round"),
		flagSet.BoolVar(&opts.Silent, "silent", false, "only print the winning program"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("could not parse flags: %s", err)
	}

	if opts.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	} else if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}

	return opts
}

func main() {
	os.Exit(run(parseFlags()))
}

func run(opts *options) int {
	if opts.ExamplesFile == "" {
		gologger.Error().Msgf("missing required flag -examples")
		return exitMalformed
	}

	f, err := examplefile.Load(opts.ExamplesFile)
	if err != nil {
		gologger.Error().Msgf("%s", err)
		return exitMalformed
	}

	task := f.Task
	if opts.Task != "" {
		task = examplefile.Task(opts.Task)
	}

	maxIterations := f.MaxIterations
	if opts.MaxIterations > 0 {
		maxIterations = opts.MaxIterations
	}
	accumulate := f.Accumulate || opts.Accumulate

	progress := func(phase string, iteration, count int) {
		gologger.Verbose().Msgf("%s round %d: %d survivors", phase, iteration, count)
	}

	switch task {
	case examplefile.TaskShape:
		return runShape(f, maxIterations, accumulate, progress)
	case examplefile.TaskString:
		return runString(f, maxIterations, accumulate, progress)
	default:
		gologger.Error().Msgf("unknown task %q", task)
		return exitMalformed
	}
}

func runShape(f *examplefile.File, maxIterations int, accumulate bool, progress synth.ProgressFunc) int {
	s := shapedsl.New(f.ShapeExamples())
	got, err := synth.Synthesize[shapedsl.Expr](s, synth.Options[shapedsl.Expr]{
		MaxIterations: maxIterations,
		Accumulate:    accumulate,
		Progress:      progress,
	})
	return reportResult(got, err)
}

func runString(f *examplefile.File, maxIterations int, accumulate bool, progress synth.ProgressFunc) int {
	s := strdsl.New(f.StringExamples())
	got, err := synth.Synthesize[strdsl.Expr](s, synth.Options[strdsl.Expr]{
		MaxIterations: maxIterations,
		Accumulate:    accumulate,
		Progress:      progress,
	})
	return reportResult(got, err)
}

func reportResult(got fmt.Stringer, err error) int {
	switch {
	case err == nil:
		gologger.Info().Msgf("found: %s", got)
		fmt.Println(got.String())
		return exitSuccess
	case errors.Is(err, synth.ErrEmptyExamples):
		gologger.Error().Msgf("%s", err)
		return exitMalformed
	case errors.Is(err, synth.ErrExhaustedBudget):
		gologger.Error().Msgf("%s", err)
		return exitNoSolution
	default:
		gologger.Error().Msgf("unexpected error: %s", err)
		return exitMalformed
	}
}
