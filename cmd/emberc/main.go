// Command emberc is the thin CLI driver around the emberc compiler
// library: flag parsing, wiring the pipeline, and translating its
// Diagnostics into stderr output plus the documented exit code (§6). It
// deliberately does not invoke a downstream C compiler or do anything
// else with the emitted C file — that's explicitly out of scope (§1).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/emberlang/emberc"
)

type args struct {
	subcommand string
	source     string
	outputPath *string
	native     *bool
	noOptimize *bool
	importPath *string
}

func readArgs() (*args, error) {
	if len(os.Args) < 2 {
		return nil, fmt.Errorf("usage: emberc compile <source> -o <output.c>")
	}
	a := &args{subcommand: os.Args[1]}
	fs := flag.NewFlagSet("emberc "+a.subcommand, flag.ExitOnError)
	a.outputPath = fs.String("o", "", "path to write the generated C file")
	a.native = fs.Bool("native-arithmetic", false, "emit native C operators instead of runtime arithmetic calls")
	a.noOptimize = fs.Bool("no-optimize", false, "disable constant folding")
	a.importPath = fs.String("I", "", "additional directory to search for sibling imports")

	if err := fs.Parse(os.Args[2:]); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, fmt.Errorf("missing <source> argument")
	}
	a.source = fs.Arg(0)
	// Flags may also follow <source>, as in the usage line.
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return nil, err
	}
	if *a.outputPath == "" {
		return nil, fmt.Errorf("missing required -o <output.c>")
	}
	return a, nil
}

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			exhausted, ok := r.(ember.ErrArenaExhausted)
			if !ok {
				panic(r)
			}
			code = reportAndExit(ember.InternalError{Where: "arena", Err: exhausted})
		}
	}()
	a, err := readArgs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if a.subcommand != "compile" {
		fmt.Fprintf(os.Stderr, "unknown subcommand %q (expected \"compile\")\n", a.subcommand)
		return 1
	}

	source, err := os.ReadFile(a.source)
	if err != nil {
		return reportAndExit(ember.IOError{Op: "reading", Path: a.source, Err: err})
	}

	opt := ember.DefaultOptions()
	opt.NativeArithmetic = *a.native
	if *a.noOptimize {
		opt.Optimize = 0
	}
	if *a.importPath != "" {
		opt.ImportPaths = []string{*a.importPath}
	}

	loader := ember.NewRelativeImportLoader(opt.ImportPaths...)
	result := ember.Compile(source, a.source, loader, opt)

	for _, line := range result.Diagnostics.Strings() {
		fmt.Fprintln(os.Stderr, line)
	}
	if _, ok := result.Err.(*ember.DiagnosedError); result.Err != nil && !ok {
		fmt.Fprintf(os.Stderr, "internal compiler error: %s\n", result.Err)
	}
	if result.Err != nil {
		return ember.ExitCode(result.Err)
	}

	if err := os.WriteFile(*a.outputPath, []byte(result.C), 0o644); err != nil {
		return reportAndExit(ember.IOError{Op: "writing", Path: *a.outputPath, Err: err})
	}
	return 0
}

// reportAndExit prints err and maps it to the driver's documented exit
// status via ember.ExitCode.
func reportAndExit(err error) int {
	fmt.Fprintln(os.Stderr, err)
	return ember.ExitCode(err)
}
