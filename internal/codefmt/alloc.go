package codefmt

import (
	"strconv"
)

// Locals are the fixed identifiers the binder templates introduce. They are
// plain words unless the output package declares the same names.
type Locals struct {
	Section           string
	Obj               string
	Opts              string
	Value             string
	Path              string
	Result            string
	Err               string
	Configure         string
	Builder           string
	Services          string
	Name              string
	ConfigSectionPath string
	Ok                string
}

// TemplateLocals lists the words [Locals] start from.
var TemplateLocals = []string{
	"section", "obj", "opts", "value", "path", "result", "err",
	"configure", "builder", "services", "name", "configSectionPath", "ok",
}

// Allocator issues names within one generation unit. Package-scope routine
// names come from its namespace, function-scope names from a counter. An
// Allocator is not safe for concurrent use; every unit owns one.
type Allocator struct {
	ns     NS
	locals Locals
	issued map[string]struct{}
	next   int
}

// NewAllocator creates an allocator over a namespace. The namespace is
// written to; pass a clone of a shared namespace.
func NewAllocator(ns NS) *Allocator {
	a := &Allocator{ns: ns, issued: make(map[string]struct{})}

	fixed := make([]string, len(TemplateLocals))
	for i, word := range TemplateLocals {
		for name := range DisambiguateName(word) {
			if !a.ns.Has(name) {
				fixed[i] = name
				a.issued[name] = struct{}{}
				break
			}
		}
	}
	a.locals = Locals{
		Section:           fixed[0],
		Obj:               fixed[1],
		Opts:              fixed[2],
		Value:             fixed[3],
		Path:              fixed[4],
		Result:            fixed[5],
		Err:               fixed[6],
		Configure:         fixed[7],
		Builder:           fixed[8],
		Services:          fixed[9],
		Name:              fixed[10],
		ConfigSectionPath: fixed[11],
		Ok:                fixed[12],
	}
	return a
}

// Locals returns the template identifiers of the unit.
func (a *Allocator) Locals() Locals { return a.locals }

// NS returns the namespace of package-scope names.
func (a *Allocator) NS() NS { return a.ns }

// Name reserves a unique package-scope name.
func (a *Allocator) Name(name string) string { return a.ns.Name(name) }

// FreshLocal returns prefix followed by the next value of the unit counter,
// like "child3". It never returns the same name twice and never returns a
// template local or a reserved package-scope name.
func (a *Allocator) FreshLocal(prefix string) string {
	for {
		name := prefix + strconv.Itoa(a.next)
		a.next++
		if _, ok := a.issued[name]; ok || a.ns.Has(name) {
			continue
		}
		a.issued[name] = struct{}{}
		return name
	}
}
