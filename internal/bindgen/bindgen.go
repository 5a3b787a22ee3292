// Package bindgen generates reflection-free binders for a type graph. One
// generation unit is emitted per requested root type. Units only share the
// read-only graph and the names planned before they run, so they are
// emitted in parallel and framed into one Go file.
package bindgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/format"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/sublee/confbind/internal/codefmt"
	"github.com/sublee/confbind/internal/model"
)

// Version is appended to the header of generated files if set.
var Version string

// Options are the generation-time options.
type Options struct {
	// ErrorOnUnknownConfiguration emits the unknown key check into object
	// binders and turns it on by default at runtime.
	ErrorOnUnknownConfiguration bool

	// UseFullyQualifiedNames always refers to the runtime by its package
	// name instead of dot-importing it.
	UseFullyQualifiedNames bool
}

var (
	// ErrUnknownRoot is returned when a request names a type the graph
	// lacks.
	ErrUnknownRoot = errors.New("unknown root type")

	// ErrInvalidEntryPoint is returned when a request has an entry point
	// out of [model.AllEntryPoints].
	ErrInvalidEntryPoint = errors.New("invalid entry point")
)

// Emit generates the file of a single unit. See [Generate].
func Emit(graph *model.Graph, req model.Request, opts Options) ([]byte, error) {
	return Generate(context.Background(), graph, []model.Request{req}, opts)
}

// Generate generates one Go file with a unit per request. Requests without
// entry points are skipped; if none is left, it returns nil without error.
// The graph is validated first and any failure aborts the whole file.
func Generate(ctx context.Context, graph *model.Graph, reqs []model.Request, opts Options) ([]byte, error) {
	active := mergeRequests(reqs)
	if len(active) == 0 {
		return nil, nil
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}

	var errs error
	pkgs := make(map[string]string)
	for _, req := range active {
		if !req.EntryPoints.Valid() {
			errs = errors.Join(errs, fmt.Errorf("%w %d for %q", ErrInvalidEntryPoint, req.EntryPoints, req.Root))
			continue
		}
		types, err := graph.Reachable(req.Root)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%w %q", ErrUnknownRoot, req.Root))
			continue
		}
		for _, t := range types {
			if t.IsNamed() && t.PkgPath != "" && t.PkgPath != graph.Package.Path {
				pkgs[t.PkgPath] = t.PkgName
			}
		}
	}
	if errs != nil {
		return nil, errs
	}

	// Everything units share is planned here, in request order, so that
	// units never write to it.
	base := codefmt.NewNS(graph.Reserved...)
	imports := codefmt.PlanImports(base, pkgs)
	entries := make([]entryNames, len(active))
	prefixes := make([]string, len(active))
	for i, req := range active {
		root := graph.MustLookup(req.Root)
		entries[i] = reserveEntryNames(base, graph, root, req.EntryPoints)
		prefixes[i] = reservePrefix(base, prefixes[:i], rootPart(graph, root))
	}

	bodies := make([][]byte, len(active))
	used := make([][]codefmt.Import, len(active))

	eg, ctx := errgroup.WithContext(ctx)
	for i, req := range active {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			un := newUnit(graph, req, base.Clone(), imports, prefixes[i], entries[i], opts)
			bodies[i], used[i] = un.generate()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []codefmt.Import
	for _, imps := range used {
		all = append(all, imps...)
	}
	return frameCode(graph.Package, codefmt.SortImports(all), bodies)
}

// mergeRequests drops requests without entry points and merges requests
// for the same root into one, in order of first appearance.
func mergeRequests(reqs []model.Request) []model.Request {
	var merged []model.Request
	index := make(map[model.TypeID]int)
	for _, req := range reqs {
		if req.EntryPoints.Empty() {
			continue
		}
		if i, ok := index[req.Root]; ok {
			merged[i].EntryPoints |= req.EntryPoints
			continue
		}
		index[req.Root] = len(merged)
		merged = append(merged, req)
	}
	return merged
}

// reservePrefix reserves the prefix of routine names of a unit, like
// "confbind_Settings". Units name their routines independently, so a prefix
// must not start with another unit's prefix followed by "_", nor the other
// way around.
func reservePrefix(ns codefmt.NS, taken []string, part string) string {
	startsWithTaken := func(name string) bool {
		return slices.ContainsFunc(taken, func(p string) bool {
			return strings.HasPrefix(name+"_", p+"_")
		})
	}
	overlaps := func(name string) bool {
		return startsWithTaken(name) || slices.ContainsFunc(taken, func(p string) bool {
			return strings.HasPrefix(p+"_", name+"_")
		})
	}

	name := codefmt.NormalizeName("confbind_" + part)
	if startsWithTaken(name) {
		// No suffix would help. Without underscores in the part, only a
		// prefix equal to the name could match.
		name = "confbind_" + strings.ReplaceAll(part, "_", "")
	}

	for i := 1; ; i++ {
		cand := name
		if i > 1 {
			cand += strconv.Itoa(i)
		}
		if !ns.Has(cand) && !overlaps(cand) {
			ns.Reserve(cand)
			return cand
		}
	}
}

// entryNames are the public names of a unit. Names of entry points not
// requested are empty.
type entryNames struct {
	bind, get, options, configuration, services string
}

func reserveEntryNames(ns codefmt.NS, g *model.Graph, root *model.TypeSpec, eps model.EntryPoints) entryNames {
	part := exported(rootPart(g, root))

	var names entryNames
	if eps.Has(model.DirectBind) {
		names.bind = ns.Name("Bind" + part)
	}
	if eps.Has(model.TypedGet) {
		names.get = ns.Name("Get" + part)
	}
	if eps.Has(model.OptionsBuilderWiring) {
		names.options = ns.Name("Bind" + part + "Options")
		names.configuration = ns.Name("Bind" + part + "Configuration")
	}
	if eps.Has(model.ServiceCollectionWiring) {
		names.services = ns.Name("Configure" + part)
	}
	return names
}

// rootPart names a root type in generated identifiers.
func rootPart(g *model.Graph, t *model.TypeSpec) string {
	return codefmt.NormalizeName(typePart(t, g, 0))
}

// typePart describes a type for generated identifiers, like "Settings" or
// "slice int". Deeply nested unnamed types are described by their ID.
func typePart(t *model.TypeSpec, g *model.Graph, depth int) string {
	if t.IsNamed() {
		return t.Name
	}
	if depth > 4 {
		return string(t.ID)
	}

	elem := func() string { return typePart(g.MustLookup(t.Elem), g, depth+1) }
	switch t.Shape {
	case model.Primitive:
		return t.Primitive.String()
	case model.NullableValue:
		return "ptr " + elem()
	case model.Array:
		return "slice " + elem()
	case model.DictionaryLike:
		return "map " + typePart(g.MustLookup(t.Key), g, depth+1) + " " + elem()
	case model.Unsupported, model.CollectionLike, model.ObjectWithMembers:
	}
	return "unsupported"
}

func exported(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	if r == '_' {
		return exported(name[size:])
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// frameCode assembles the generated file.
func frameCode(pkg model.Package, imports []codefmt.Import, bodies [][]byte) ([]byte, error) {
	versionSuffix := ""
	if Version != "" {
		versionSuffix = "@" + Version
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "//go:build !confbind\n\n")
	fmt.Fprintf(&buf, "// Code generated by github.com/sublee/confbind%s. DO NOT EDIT.\n\n", versionSuffix)
	fmt.Fprintf(&buf, "package %s\n\n", pkg.Name)

	if len(imports) != 0 {
		fmt.Fprintf(&buf, "import (\n")
		for _, imp := range imports {
			if imp.HasAlias {
				fmt.Fprintf(&buf, "%s %q\n", imp.Name, imp.Path)
			} else {
				fmt.Fprintf(&buf, "%q\n", imp.Path)
			}
		}
		fmt.Fprintf(&buf, ")\n\n")
	}

	for _, body := range bodies {
		buf.Write(body)
	}

	code, err := format.Source(buf.Bytes())
	if err != nil {
		// The templates are broken if this ever happens.
		return nil, fmt.Errorf("format generated code: %w\n%s", err, numberLines(buf.String()))
	}
	return code, nil
}

func numberLines(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = fmt.Sprintf("%4d\t%s", i+1, line)
	}
	return strings.Join(lines, "\n")
}
