// Package parse builds the type graph of a loaded Go package. It finds types
// annotated with the generate directive and maps them, and every type they
// reach, onto [model.TypeSpec]s.
package parse

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"iter"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/types/typeutil"

	"github.com/sublee/confbind/internal/codefmt"
	"github.com/sublee/confbind/internal/model"
)

// Directive is the comment which requests binders for a type declaration. It
// is followed by an optional list of entry points, like "bind,get,options".
const Directive = "//confbind:generate"

// DefaultEntryPoints are requested by a directive without a list.
var DefaultEntryPoints = model.Of(model.DirectBind, model.TypedGet)

// Parser maps the types of a package onto a type graph.
type Parser struct {
	pkg   *packages.Package
	graph *model.Graph

	// specs memoizes type specs by type identity.
	specs typeutil.Map
}

func (p *Parser) Pkg() *packages.Package { return p.pkg }

// New creates a new [Parser].
func New(pkg *packages.Package) (*Parser, error) {
	if pkg.Name == "" {
		return nil, fmt.Errorf("need pkg name")
	}
	if pkg.PkgPath == "" {
		return nil, fmt.Errorf("need pkg path")
	}
	if pkg.Types == nil {
		return nil, fmt.Errorf("need pkg types")
	}
	if pkg.Fset == nil {
		return nil, fmt.Errorf("need pkg fset")
	}
	if pkg.Syntax == nil {
		return nil, fmt.Errorf("need pkg syntax")
	}
	if pkg.TypesInfo == nil {
		return nil, fmt.Errorf("need pkg types info")
	}

	graph := model.NewGraph(model.Package{Path: pkg.PkgPath, Name: pkg.Name})
	graph.Fset = pkg.Fset
	graph.Reserved = pkg.Types.Scope().Names()

	p := &Parser{pkg: pkg, graph: graph}
	p.specs.SetHasher(typeutil.MakeHasher())
	return p, nil
}

// Parse collects the requests of every directive in the package and returns
// them with the graph of the types they reach. A package without directives
// yields no requests.
func (p *Parser) Parse() (*model.Graph, []model.Request, error) {
	var reqs []model.Request
	var errs error

	for obj, c := range p.Directives() {
		eps, err := ParseDirective(c.Text)
		if err != nil {
			errs = errors.Join(errs, codefmt.Errorf(p.pkg.Fset, obj.Pos(), "%s", err.Error()))
			continue
		}

		named, ok := types.Unalias(obj.Type()).(*types.Named)
		if !ok || obj.IsAlias() {
			errs = errors.Join(errs, codefmt.Errorf(p.pkg.Fset, obj.Pos(), "%s is not a defined type", obj.Name()))
			continue
		}
		if named.TypeParams().Len() != 0 {
			errs = errors.Join(errs, codefmt.Errorf(p.pkg.Fset, obj.Pos(), "cannot generate binders for generic type %s", obj.Name()))
			continue
		}

		spec, err := p.TypeOf(named)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		reqs = append(reqs, model.Request{Root: spec.ID, EntryPoints: eps})
	}
	if errs != nil {
		return nil, nil, errs
	}

	if err := p.graph.Validate(); err != nil {
		return nil, nil, p.wrapGraphError(err)
	}
	return p.graph, reqs, nil
}

// wrapGraphError attaches source positions to graph errors.
func (p *Parser) wrapGraphError(err error) error {
	var list []error
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		list = u.Unwrap()
	} else {
		list = []error{err}
	}

	var errs error
	for _, err := range list {
		var gerr *model.GraphError
		if errors.As(err, &gerr) && gerr.Pos.IsValid() {
			err = codefmt.Wrap(p.pkg.Fset, gerr.Pos, gerr.Pos, err)
		}
		errs = errors.Join(errs, err)
	}
	return errs
}

// Directives iterates the type declarations with the generate directive in
// source order. A declaration with more than one directive is yielded once
// per directive.
func (p *Parser) Directives() iter.Seq2[*types.TypeName, *ast.Comment] {
	return func(yield func(*types.TypeName, *ast.Comment) bool) {
		for _, file := range p.pkg.Syntax {
			for _, decl := range file.Decls {
				gen, ok := decl.(*ast.GenDecl)
				if !ok {
					continue
				}

				for _, spec := range gen.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}

					// The doc of an unparenthesized declaration belongs to
					// the GenDecl.
					doc := ts.Doc
					if doc == nil && !gen.Lparen.IsValid() {
						doc = gen.Doc
					}

					obj, ok := p.pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
					if !ok {
						continue
					}

					for _, c := range findDirectives(doc) {
						if !yield(obj, c) {
							return
						}
					}
				}
			}
		}
	}
}

func findDirectives(doc *ast.CommentGroup) []*ast.Comment {
	if doc == nil {
		return nil
	}
	var found []*ast.Comment
	for _, c := range doc.List {
		if c.Text == Directive || strings.HasPrefix(c.Text, Directive+" ") {
			found = append(found, c)
		}
	}
	return found
}

// ParseDirective parses the entry points of a directive comment.
func ParseDirective(text string) (model.EntryPoints, error) {
	rest, ok := strings.CutPrefix(text, Directive)
	if !ok {
		return 0, fmt.Errorf("not a %s directive", Directive)
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return DefaultEntryPoints, nil
	}

	eps, err := model.ParseEntryPoints(rest)
	if err != nil {
		return 0, fmt.Errorf("bad %s directive: %w", Directive, err)
	}
	if eps.Empty() {
		return DefaultEntryPoints, nil
	}
	return eps, nil
}
