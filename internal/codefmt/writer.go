package codefmt

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/sublee/confbind/internal/model"
)

// Writer is a writer for generated code.
type Writer struct {
	w       io.Writer
	graph   *model.Graph
	imports *Imports
	used    map[Import]struct{}
	policy  Policy
	alloc   *Allocator
}

// NewWriter creates a new [Writer] for one generation unit. imports must
// have been planned for every package the graph refers to.
func NewWriter(w io.Writer, graph *model.Graph, imports *Imports, policy Policy, alloc *Allocator) *Writer {
	return &Writer{
		w:       w,
		graph:   graph,
		imports: imports,
		used:    make(map[Import]struct{}),
		policy:  policy,
		alloc:   alloc,
	}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Printf writes a formatted string to the underlying writer. See [formatArg]
// for the verbs which render code.
func (w *Writer) Printf(format string, args ...any) (int, error) {
	return fmt.Fprintf(w.w, format, w.wrapPrintfArgs(args)...)
}

// Sprintf creates a formatted string like [Writer.Printf].
func (w *Writer) Sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, w.wrapPrintfArgs(args)...)
}

// Graph returns the graph the writer renders types from.
func (w *Writer) Graph() *model.Graph { return w.graph }

// Policy returns the qualification policy of the unit.
func (w *Writer) Policy() Policy { return w.policy }

// Alloc returns the name allocator of the unit.
func (w *Writer) Alloc() *Allocator { return w.alloc }

// Locals returns the template identifiers of the unit.
func (w *Writer) Locals() Locals { return w.alloc.Locals() }

// FreshLocal is a shorthand for [Allocator.FreshLocal].
func (w *Writer) FreshLocal(prefix string) string { return w.alloc.FreshLocal(prefix) }

// WithBuf copies the writer and sets a new write buffer. The copy shares the
// recorded imports.
func (w *Writer) WithBuf(buf io.Writer) *Writer {
	c := *w
	c.w = buf
	return &c
}

// WithAlloc copies the writer and sets a new allocator.
func (w *Writer) WithAlloc(alloc *Allocator) *Writer {
	c := *w
	c.alloc = alloc
	return &c
}

// Imports returns the imports the written code used, sorted by path.
func (w *Writer) Imports() []Import {
	return SortImports(slices.Collect(maps.Keys(w.used)))
}

// Sym renders a reference to a runtime symbol under the unit policy.
func (w *Writer) Sym(s Symbol) string {
	if w.policy == Minimal {
		w.used[Import{Name: ".", Path: RuntimePath, HasAlias: true}] = struct{}{}
		return s.String()
	}
	return w.qualifier(RuntimePath) + "." + s.String()
}

// Type renders a type as a Go type expression in the output package.
func (w *Writer) Type(t *model.TypeSpec) string {
	if t.IsNamed() {
		if t.PkgPath == "" || t.PkgPath == w.graph.Package.Path {
			return t.Name
		}
		return w.qualifier(t.PkgPath) + "." + t.Name
	}

	switch t.Shape {
	case model.Primitive:
		if b := t.Primitive.Builtin(); b != "" {
			return b
		}
	case model.NullableValue:
		return "*" + w.Type(w.graph.MustLookup(t.Elem))
	case model.Array:
		return "[]" + w.Type(w.graph.MustLookup(t.Elem))
	case model.DictionaryLike:
		return "map[" + w.Type(w.graph.MustLookup(t.Key)) + "]" + w.Type(w.graph.MustLookup(t.Elem))
	case model.CollectionLike, model.ObjectWithMembers, model.Unsupported:
	}

	// Unnamed types the generator cannot bind keep their own rendering.
	return t.MinimalName
}

func (w *Writer) qualifier(importPath string) string {
	imp, ok := w.imports.Lookup(importPath)
	if !ok {
		panic("codefmt: import not planned: " + importPath)
	}
	w.used[imp] = struct{}{}
	return imp.Name
}
