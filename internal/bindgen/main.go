package bindgen

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/sublee/confbind/internal/bindgen/parse"
	"github.com/sublee/confbind/internal/model"
)

// Package is the type graph and the requests of a loaded package.
type Package struct {
	// Dir is the directory of the package, relative to the working
	// directory if possible.
	Dir      string
	Graph    *model.Graph
	Requests []model.Request
}

// Main is the main entry point for Confbind. It is used by the command-line
// tool directly.
//
// ctx is the context for loading packages and generating code. wd is the path
// of the working directory. env is the environment variables to use when
// loading packages. tags is the build tags to use when loading packages.
// tests indicates whether to include test files. outFile is the name of the
// output file to generate in each package. patterns are the package patterns
// to process. opts are passed to [Generate].
//
// It returns a map of output file paths to their contents. Packages without
// directives have no output. If any error occurs, it returns a non-nil error.
func Main(ctx context.Context, wd string, env []string, tags string, tests bool, outFile string, patterns []string, opts Options) (map[string][]byte, error) {
	pkgs, err := Parse(ctx, wd, env, tags, tests, patterns)
	if err != nil {
		return nil, err
	}

	outs := make(map[string][]byte)
	var errs error

	for _, pkg := range pkgs {
		code, err := Generate(ctx, pkg.Graph, pkg.Requests, opts)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("pkg %q: %w", pkg.Graph.Package.Path, err))
			continue
		}
		if len(code) == 0 {
			continue
		}
		outs[filepath.Join(pkg.Dir, outFile)] = code
	}
	if errs != nil {
		return nil, reorderErrors(errs)
	}

	return outs, nil
}

// Parse loads packages and parses their type graphs.
func Parse(ctx context.Context, wd string, env []string, tags string, tests bool, patterns []string) ([]Package, error) {
	loaded, err := load(ctx, wd, env, tags, tests, patterns)
	if err != nil {
		return nil, err
	}

	var pkgs []Package
	var errs error

	for _, pkg := range loaded {
		if len(pkg.GoFiles) == 0 {
			continue
		}

		p, err := parse.New(pkg)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		graph, reqs, err := p.Parse()
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		dir := filepath.Dir(pkg.GoFiles[0])
		if rel, err := filepath.Rel(wd, dir); err == nil {
			dir = rel
		}
		pkgs = append(pkgs, Package{Dir: dir, Graph: graph, Requests: reqs})
	}
	if errs != nil {
		// errs already contains comprehensive error messages. So we don't need
		// to attach another error message.
		return nil, reorderErrors(errs)
	}

	return pkgs, nil
}

// load loads packages. Files generated by Confbind are excluded by the
// confbind build tag.
func load(ctx context.Context, wd string, env []string, tags string, tests bool, patterns []string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode:       packages.NeedDeps | packages.NeedFiles | packages.NeedImports | packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Context:    ctx,
		Dir:        wd,
		Env:        env,
		BuildFlags: []string{"-tags=confbind"},
		Tests:      tests,
	}
	if tags != "" {
		cfg.BuildFlags[0] += "," + tags
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found: %v", patterns)
	}

	var errs error
	for _, pkg := range pkgs {
		for _, err := range pkg.Errors {
			if err.Pos == "" {
				errs = errors.Join(errs, errors.New(err.Msg))
				continue
			}

			path, rowcol, _ := strings.Cut(err.Pos, ":")
			if rel, relErr := filepath.Rel(wd, path); relErr == nil {
				err.Pos = rel + ":" + rowcol
			}
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	return pkgs, nil
}

func reorderErrors(errs error) error {
	if errs == nil {
		return nil
	}

	// Flatten errors.Join trees. Other wrappers keep their message.
	list := []error{errs}
	for i := 0; i < len(list); i++ {
		if u, ok := list[i].(interface{ Unwrap() []error }); ok {
			list = append(list, u.Unwrap()...)
			list[i] = nil
		}
	}
	list = slices.DeleteFunc(list, func(err error) bool {
		return err == nil
	})

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Error() < list[j].Error()
	})
	return errors.Join(list...)
}
