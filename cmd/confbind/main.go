package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sublee/confbind/internal/bindgen"
	"github.com/sublee/confbind/internal/model"
)

var Version = "dev"

var (
	bFlag      = flag.String("b", "", "comma-separated build tags")
	tFlag      = flag.Bool("t", false, "include tests")
	oFlag      = flag.String("o", "confbind_gen.go", "output file name, or \"-\" for stdout with -graph")
	cFlag      = flag.String("c", "auto", "colorize (auto|always|never)")
	fqFlag     = flag.Bool("fq", false, "refer to the runtime package by name instead of dot-importing it")
	strictFlag = flag.Bool("strict", false, "fail on configuration keys matching no member by default")
	graphFlag  = flag.String("graph", "", "generate from a YAML type graph instead of Go packages")
	rootFlag   = flag.String("root", "", "root type id to generate with -graph, overriding its requests")
	entryFlag  = flag.String("entry", "bind,get", "comma-separated entry points for -root")
	dumpFlag   = flag.Bool("dump", false, "print the type graph as YAML instead of generating")
	vFlag      = flag.Bool("v", false, "verbose")
)

func init() {
	bindgen.Version = Version
}

func main() {
	flag.Parse()

	if err := setupColor(*cFlag); err != nil {
		fail(err)
	}
	setupLog(*vFlag)

	wd, err := os.Getwd()
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := bindgen.Options{
		ErrorOnUnknownConfiguration: *strictFlag,
		UseFullyQualifiedNames:      *fqFlag,
	}

	if *graphFlag != "" {
		err = runGraph(ctx, *graphFlag, opts)
	} else {
		err = runPackages(ctx, wd, flag.Args(), opts)
	}
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, colorize(err.Error()))
	os.Exit(1)
}

// runPackages generates a file for each package which has directives.
func runPackages(ctx context.Context, wd string, patterns []string, opts bindgen.Options) error {
	if *dumpFlag {
		pkgs, err := bindgen.Parse(ctx, wd, os.Environ(), *bFlag, *tFlag, patterns)
		if err != nil {
			return err
		}
		for i, pkg := range pkgs {
			logger.Debug("parsed", "pkg", pkg.Graph.Package.Path, "types", len(pkg.Graph.Types), "requests", len(pkg.Requests))
			if i != 0 {
				fmt.Println("---")
			}
			if err := dump(pkg.Graph, pkg.Requests); err != nil {
				return err
			}
		}
		return nil
	}

	outs, err := bindgen.Main(ctx, wd, os.Environ(), *bFlag, *tFlag, *oFlag, patterns, opts)
	if err != nil {
		return err
	}

	for out, code := range outs {
		if err := os.WriteFile(out, code, 0o644); err != nil {
			return err
		}

		if relOut, err := filepath.Rel(wd, out); err == nil {
			out = relOut
		}
		logger.Debug("written", "file", out, "bytes", len(code))
		fmt.Println("Generated:", out)
	}
	return nil
}

// runGraph generates a file from a YAML type graph.
func runGraph(ctx context.Context, path string, opts bindgen.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	graph, reqs, err := model.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("decoded", "graph", path, "types", len(graph.Types), "requests", len(reqs))

	if *rootFlag != "" {
		eps, err := model.ParseEntryPoints(*entryFlag)
		if err != nil {
			return err
		}
		reqs = []model.Request{{Root: model.TypeID(*rootFlag), EntryPoints: eps}}
	}

	if *dumpFlag {
		return dump(graph, reqs)
	}

	code, err := bindgen.Generate(ctx, graph, reqs, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if len(code) == 0 {
		logger.Debug("nothing to generate", "graph", path)
		return nil
	}

	if *oFlag == "-" {
		_, err := os.Stdout.Write(code)
		return err
	}
	if err := os.WriteFile(*oFlag, code, 0o644); err != nil {
		return err
	}
	fmt.Println("Generated:", *oFlag)
	return nil
}

func dump(graph *model.Graph, reqs []model.Request) error {
	data, err := model.Encode(graph, reqs)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
