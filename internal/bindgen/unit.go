package bindgen

import (
	"bytes"
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/sublee/confbind/internal/bindgen/emit"
	"github.com/sublee/confbind/internal/codefmt"
	"github.com/sublee/confbind/internal/model"
)

type routineKind int

const (
	stubRoutine routineKind = iota
	parserRoutine
	compositeRoutine
)

// routine is a generated function of a unit.
type routine struct {
	kind routineKind
	name string
	t    *model.TypeSpec
	text []byte
}

// unit generates the code of one request. It is used by one goroutine.
type unit struct {
	graph   *model.Graph
	req     model.Request
	root    *model.TypeSpec
	prefix  string
	entries entryNames

	w  *codefmt.Writer
	em *emit.Unit

	// names memoizes routines by type ID as soon as a type is visited, so
	// that cyclic references resolve. done lists finished routines in
	// completion order: callees before callers.
	names map[model.TypeID]*routine
	done  *linkedhashmap.Map

	rootRoutine *routine
	untyped     string
}

func newUnit(graph *model.Graph, req model.Request, ns codefmt.NS, imports *codefmt.Imports, prefix string, entries entryNames, opts Options) *unit {
	root := graph.MustLookup(req.Root)

	// The error is impossible: the root was looked up already.
	reachable, _ := graph.Reachable(req.Root)
	names := append([]string(nil), graph.Reserved...)
	for _, t := range reachable {
		names = append(names, t.MinimalName)
	}
	policy, _ := codefmt.DecidePolicy(names, opts.UseFullyQualifiedNames)

	un := &unit{
		graph:   graph,
		req:     req,
		root:    root,
		prefix:  prefix,
		entries: entries,
		names:   make(map[model.TypeID]*routine),
		done:    linkedhashmap.New(),
	}
	un.w = codefmt.NewWriter(&bytes.Buffer{}, graph, imports, policy, codefmt.NewAllocator(ns))
	un.em = &emit.Unit{Writer: un.w, Routines: un, Strict: opts.ErrorOnUnknownConfiguration}
	return un
}

// Routine implements [emit.Routines].
func (un *unit) Routine(t *model.TypeSpec) string {
	if t.ID == un.root.ID && un.rootRoutine != nil {
		return un.rootRoutine.name
	}
	return un.lookup(t, compositeRoutine)
}

// Parser implements [emit.Routines].
func (un *unit) Parser(t *model.TypeSpec) string { return un.lookup(t, parserRoutine) }

// Stub implements [emit.Routines].
func (un *unit) Stub(t *model.TypeSpec) string { return un.lookup(t, stubRoutine) }

func (un *unit) lookup(t *model.TypeSpec, kind routineKind) string {
	r, ok := un.names[t.ID]
	if !ok || r.kind != kind {
		panic(fmt.Sprintf("bindgen: no routine of kind %d for %s", kind, t.ID))
	}
	return r.name
}

// generate writes the routines and entry points of the unit and returns the
// code and the imports it uses.
func (un *unit) generate() ([]byte, []codefmt.Import) {
	un.visit(un.root)

	if r := un.names[un.root.ID]; r.kind == compositeRoutine {
		un.rootRoutine = r
	} else {
		// Entry points need a routine with the common signature.
		rr := &routine{kind: compositeRoutine, name: un.routineName("", un.root), t: un.root}
		rr.text = un.write(func(em *emit.Unit) { em.Root(rr.name, un.root) })
		un.rootRoutine = rr
	}
	un.untyped = un.w.Alloc().Name(un.prefix + "_untyped")

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// confbind: %s\n\n", un.root.DisplayName())

	// Stubs first, then parsers, then composites in completion order.
	var composites []*model.TypeSpec
	for _, kind := range []routineKind{stubRoutine, parserRoutine, compositeRoutine} {
		for _, v := range un.done.Values() {
			if r := v.(*routine); r.kind == kind {
				buf.Write(r.text)
				if kind == compositeRoutine {
					composites = append(composites, r.t)
				}
			}
		}
	}
	if un.rootRoutine != un.names[un.root.ID] {
		buf.Write(un.rootRoutine.text)
		composites = append(composites, un.root)
	}

	buf.Write(un.write(func(em *emit.Unit) { em.Untyped(un.untyped, composites) }))
	buf.Write(un.write(un.writeEntryPoints))

	return buf.Bytes(), un.w.Imports()
}

func (un *unit) writeEntryPoints(em *emit.Unit) {
	name := un.rootRoutine.name
	for _, ep := range un.req.EntryPoints.List() {
		switch ep {
		case model.DirectBind:
			em.Bind(un.entries.bind, name, un.root)
		case model.TypedGet:
			em.Get(un.entries.get, name, un.root)
		case model.OptionsBuilderWiring:
			em.Options(un.entries.options, name, un.root)
			em.Configuration(un.entries.configuration, name, un.root)
		case model.ServiceCollectionWiring:
			em.Services(un.entries.services, un.untyped, un.root)
		}
	}
}

// visit registers the routine of t, visits what it calls into, and then
// writes it.
func (un *unit) visit(t *model.TypeSpec) {
	if _, ok := un.names[t.ID]; ok {
		return
	}

	r := &routine{t: t}
	switch {
	case !t.Bindable():
		r.kind = stubRoutine
		r.name = un.routineName("stub", t)
	case emit.IsLeaf(un.graph, t):
		r.kind = parserRoutine
		r.name = un.routineName("parse", t)
	default:
		r.kind = compositeRoutine
		r.name = un.routineName("", t)
	}
	un.names[t.ID] = r

	if t.Bindable() {
		for _, dep := range t.Deps() {
			un.visit(un.graph.MustLookup(dep))
		}
	}

	r.text = un.write(func(em *emit.Unit) {
		switch r.kind {
		case stubRoutine:
			em.Stub(r.name, t)
		case parserRoutine:
			em.Parser(r.name, t)
		case compositeRoutine:
			switch t.Shape {
			case model.ObjectWithMembers:
				em.Object(r.name, t)
			case model.Array:
				em.Array(r.name, t)
			case model.CollectionLike:
				em.Collection(r.name, t)
			case model.DictionaryLike:
				em.Dictionary(r.name, t)
			case model.NullableValue:
				em.Nullable(r.name, t)
			case model.Primitive, model.Unsupported:
				panic("bindgen: no composite routine for " + t.Shape.String())
			}
		}
	})
	un.done.Put(string(t.ID), r)
}

// routineName reserves a unit-scoped name like "confbind_Settings_parse_int".
func (un *unit) routineName(kind string, t *model.TypeSpec) string {
	name := un.prefix + "_"
	if kind != "" {
		name += kind + "_"
	}
	return un.w.Alloc().Name(name + typePart(t, un.graph, 0))
}

// write runs a template on a fresh buffer.
func (un *unit) write(fn func(em *emit.Unit)) []byte {
	var buf bytes.Buffer
	em := *un.em
	em.Writer = un.w.WithBuf(&buf)
	fn(&em)
	return buf.Bytes()
}
