// Package confbindanalysis reports Confbind directive problems as analysis
// diagnostics. It runs the same front-end as the confbind command, so a
// package which passes the analyzer also generates.
package confbindanalysis

import (
	"fmt"
	"go/token"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/packages"

	"github.com/sublee/confbind/internal/bindgen/parse"
	"github.com/sublee/confbind/internal/codefmt"
	"github.com/sublee/confbind/internal/model"
)

// Analyzer validates the usage of Confbind in the package.
var Analyzer = &analysis.Analyzer{
	Name: "confbind",
	Doc:  "linter for confbind directives",
	Run:  run,
}

func run(pass *analysis.Pass) (any, error) {
	pkg := &packages.Package{
		Name:      pass.Pkg.Name(),
		PkgPath:   pass.Pkg.Path(),
		Types:     pass.Pkg,
		Fset:      pass.Fset,
		Syntax:    pass.Files,
		TypesInfo: pass.TypesInfo,
	}

	p, err := parse.New(pkg)
	if err != nil {
		return nil, err
	}

	graph, reqs, err := p.Parse()
	if err != nil {
		// Unroll all errors and report them
		errs := []error{err}
		for len(errs) != 0 {
			err := errs[0]
			errs = errs[1:]

			if codeErr, ok := err.(*codefmt.CodeError); ok {
				pass.Report(analysis.Diagnostic{
					Pos:     codeErr.Pos(),
					End:     codeErr.End(),
					Message: codeErr.Unwrap().Error(),
				})
				continue
			}

			if u, ok := err.(interface{ Unwrap() []error }); ok {
				errs = append(errs, u.Unwrap()...)
				continue
			}

			pass.Report(analysis.Diagnostic{Pos: token.NoPos, Message: err.Error()})
		}
		return nil, nil
	}

	reportUnbindable(pass, graph, reqs)
	return nil, nil
}

// reportUnbindable reports members of the objects declared in the package
// which the generated code will refuse to bind.
func reportUnbindable(pass *analysis.Pass, graph *model.Graph, reqs []model.Request) {
	seen := make(map[model.TypeID]bool)
	for _, req := range reqs {
		reachable, err := graph.Reachable(req.Root)
		if err != nil {
			continue
		}

		for _, t := range reachable {
			if seen[t.ID] || t.Shape != model.ObjectWithMembers || t.PkgPath != graph.Package.Path {
				continue
			}
			seen[t.ID] = true

			for _, m := range t.Members {
				mt := graph.MustLookup(m.Type)
				if mt.Bindable() {
					continue
				}
				pass.Report(analysis.Diagnostic{
					Pos:      t.Pos,
					Category: "unbindable",
					Message:  fmt.Sprintf("%s.%s cannot be bound: %s", t.Name, m.Name, mt.InitExceptionMessage),
				})
			}
		}
	}
}
