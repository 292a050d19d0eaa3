// Command jvmstatic compiles bound compilation units (YAML) and prints the
// disassembly of every method, synthetic members included.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/jvmstatic/internal/compiler"
	"github.com/funvibe/jvmstatic/internal/config"
	"github.com/funvibe/jvmstatic/internal/loader"
	"github.com/funvibe/jvmstatic/internal/pipeline"
	"github.com/funvibe/jvmstatic/internal/prettyprinter"
	"github.com/funvibe/jvmstatic/internal/typesystem"
)

const (
	colorRed   = "\x1b[31m"
	colorReset = "\x1b[0m"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jvmstatic", flag.ContinueOnError)
	fs.SetOutput(stderr)
	optionsPath := fs.String("c", "", "options file (default: nearest "+config.OptionsFileName+")")
	verbose := fs.Bool("v", false, "print method sources and the type-resolution log")
	color := fs.String("color", "", "colour diagnostics: auto, always or never")
	jobs := fs.Int("j", 0, "units compiled concurrently (0: one per unit)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: jvmstatic [flags] unit.yaml|dir...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	opts, err := loadOptions(*optionsPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	if *verbose {
		opts.Verbose = true
	}
	if *color != "" {
		opts.Color = *color
	}
	if *jobs > 0 {
		opts.Jobs = *jobs
	}
	if opts.Verbose {
		typesystem.SetLogOutput(stderr)
	}

	paths, err := unitPaths(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	results, err := compileAll(paths, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	colored := useColor(opts.Color, stderr)
	failed := false
	for _, ctx := range results {
		report(stdout, ctx, opts.Verbose)
		for _, e := range ctx.Errors {
			failed = true
			if colored {
				fmt.Fprintf(stderr, "%s%s%s\n", colorRed, e.Error(), colorReset)
			} else {
				fmt.Fprintln(stderr, e.Error())
			}
		}
	}
	if failed {
		return 1
	}
	return 0
}

func loadOptions(path string) (*config.Options, error) {
	if path == "" {
		found, err := config.FindOptions(".")
		if err != nil || found == "" {
			return config.DefaultOptions(), err
		}
		path = found
	}
	return config.LoadOptions(path)
}

// unitPaths expands directory arguments to the unit files they contain,
// in lexical order. File arguments are taken as given.
func unitPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", arg, err)
		}
		for _, e := range entries {
			if !e.IsDir() && config.HasUnitExt(e.Name()) {
				paths = append(paths, filepath.Join(arg, e.Name()))
			}
		}
	}
	return paths, nil
}

// compileAll runs the pipeline over every unit file. Each unit gets its
// own context, registry and factory. Results keep the argument order.
func compileAll(paths []string, opts *config.Options) ([]*pipeline.PipelineContext, error) {
	results := make([]*pipeline.PipelineContext, len(paths))

	var g errgroup.Group
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading unit %s: %w", path, err)
			}
			ctx := pipeline.NewPipelineContext(source, opts)
			ctx.FilePath = path
			results[i] = pipeline.New(
				&loader.LoaderProcessor{},
				&compiler.CompilerProcessor{},
			).Run(ctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func report(w io.Writer, ctx *pipeline.PipelineContext, verbose bool) {
	name := ctx.UnitName
	if name == "" {
		name = ctx.FilePath
	}
	fmt.Fprintf(w, "# %s (%s) run %s\n", name, ctx.FilePath, ctx.RunID)
	if verbose {
		for _, mc := range ctx.Methods {
			for _, line := range strings.Split(prettyprinter.PrintMethod(mc.Method), "\n") {
				fmt.Fprintf(w, "// %s\n", line)
			}
		}
	}
	fmt.Fprint(w, ctx.Output)
}

// useColor follows the NO_COLOR convention and colours only terminals in
// auto mode.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
