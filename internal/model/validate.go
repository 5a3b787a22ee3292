package model

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
)

// ErrInvalidGraph is matched by every [GraphError].
var ErrInvalidGraph = errors.New("invalid type graph")

// GraphError reports a violated precondition of the type graph.
type GraphError struct {
	Type TypeID
	Pos  token.Pos
	Msg  string
}

func (e *GraphError) Error() string {
	if e.Type == "" {
		return e.Msg
	}
	return fmt.Sprintf("type %s: %s", e.Type, e.Msg)
}

// Is makes errors.Is(err, ErrInvalidGraph) hold.
func (e *GraphError) Is(target error) bool { return target == ErrInvalidGraph }

func graphErrorf(t *TypeSpec, format string, args ...any) error {
	return &GraphError{Type: t.ID, Pos: t.Pos, Msg: fmt.Sprintf(format, args...)}
}

// Validate checks the invariants the emitter relies on. All violations are
// joined into the returned error.
func (g *Graph) Validate() error {
	var errs error
	if g.Package.Name == "" {
		errs = &GraphError{Msg: "output package has no name"}
	}
	for _, t := range g.Types {
		errs = errors.Join(errs, g.validateType(t))
	}
	if errs != nil {
		// Cycle detection needs every reference resolvable.
		return errs
	}
	return g.checkValueCycles()
}

func (g *Graph) validateType(t *TypeSpec) error {
	var errs error
	fail := func(format string, args ...any) {
		errs = errors.Join(errs, graphErrorf(t, format, args...))
	}
	ref := func(what string, id TypeID) *TypeSpec {
		if id == "" {
			fail("%s shape needs %s", t.Shape, what)
			return nil
		}
		u, ok := g.Lookup(id)
		if !ok {
			fail("dangling %s reference %q", what, id)
			return nil
		}
		return u
	}

	if t.ID == "" {
		fail("empty type id")
	}

	if !t.CanInitialize {
		if t.Init != None {
			fail("cannot be initialized but has init strategy %s", t.Init)
		}
		if t.InitExceptionMessage == "" {
			fail("cannot be initialized but has no exception message")
		}
	} else if t.Init == None {
		fail("can be initialized but has init strategy none")
	}
	if t.Shape == Unsupported && t.CanInitialize {
		fail("unsupported shape cannot be initialized")
	}
	if t.Init == AssignmentWithNullCheck && !t.Nilable() {
		fail("init strategy %s needs a nil-able shape, not %s", t.Init, t.Shape)
	}
	if t.Shape != ObjectWithMembers && len(t.Members) != 0 {
		fail("%s shape cannot have members", t.Shape)
	}

	switch t.Shape {
	case Primitive:
		if t.Primitive == NotPrimitive {
			fail("primitive shape needs a primitive kind")
		}
		if t.Primitive.Builtin() == "" && !t.IsNamed() {
			fail("%s primitive must be a named type", t.Primitive)
		}

	case NullableValue:
		if elem := ref("elem", t.Elem); elem != nil && elem.Shape == NullableValue {
			fail("nullable of nullable %s", elem.ID)
		}

	case Array, CollectionLike:
		ref("elem", t.Elem)

	case DictionaryLike:
		ref("elem", t.Elem)
		if key := ref("key", t.Key); key != nil && key.Shape != Primitive {
			fail("dictionary key %s must be primitive, not %s", key.ID, key.Shape)
		}

	case ObjectWithMembers:
		seen := make(map[string]bool)
		for _, m := range t.Members {
			if m.Name == "" {
				fail("member with empty name")
				continue
			}
			key := strings.ToLower(m.ConfigKey())
			if seen[key] {
				fail("duplicate member key %q", m.ConfigKey())
			}
			seen[key] = true
			ref("member "+m.Name, m.Type)
		}

	case Unsupported:
	default:
		fail("unknown shape %d", int(t.Shape))
	}

	if (t.Shape == ObjectWithMembers || t.Shape == CollectionLike) && !t.IsNamed() {
		fail("%s shape must be a named type", t.Shape)
	}
	return errs
}

// checkValueCycles reports cycles made only of member edges between objects.
// Such a type would contain itself by value, so its binder could never
// finish. A cycle through a nil-able type or a collection is fine because the
// recursion stops where the configuration ends.
func (g *Graph) checkValueCycles() error {
	const (
		white = iota
		grey
		black
	)
	color := make(map[TypeID]int)
	var trail []TypeID
	var errs error

	var visit func(t *TypeSpec)
	visit = func(t *TypeSpec) {
		color[t.ID] = grey
		trail = append(trail, t.ID)

		for _, m := range t.Members {
			u := g.MustLookup(m.Type)
			if u.Shape != ObjectWithMembers {
				continue
			}
			switch color[u.ID] {
			case white:
				visit(u)
			case grey:
				i := len(trail) - 1
				for trail[i] != u.ID {
					i--
				}
				cycle := make([]string, 0, len(trail)-i+1)
				for _, id := range trail[i:] {
					cycle = append(cycle, string(id))
				}
				cycle = append(cycle, string(u.ID))
				errs = errors.Join(errs, graphErrorf(u, "value cycle %s", strings.Join(cycle, " -> ")))
			}
		}

		trail = trail[:len(trail)-1]
		color[t.ID] = black
	}

	for _, t := range g.Types {
		if t.Shape == ObjectWithMembers && color[t.ID] == white {
			visit(t)
		}
	}
	return errs
}

// Reachable returns the types reachable from root in depth-first pre-order,
// following members in declaration order, then key, then elem.
func (g *Graph) Reachable(root TypeID) ([]*TypeSpec, error) {
	t, ok := g.Lookup(root)
	if !ok {
		return nil, &GraphError{Msg: fmt.Sprintf("unknown root type %q", root)}
	}

	var order []*TypeSpec
	seen := make(map[TypeID]bool)
	var visit func(t *TypeSpec)
	visit = func(t *TypeSpec) {
		if seen[t.ID] {
			return
		}
		seen[t.ID] = true
		order = append(order, t)

		if !t.Bindable() {
			return
		}
		for _, id := range t.Deps() {
			visit(g.MustLookup(id))
		}
	}
	visit(t)
	return order, nil
}

// Deps returns the IDs the binder of t calls into, in a fixed order.
func (t *TypeSpec) Deps() []TypeID {
	var deps []TypeID
	for _, m := range t.Members {
		deps = append(deps, m.Type)
	}
	if t.Key != "" {
		deps = append(deps, t.Key)
	}
	if t.Elem != "" {
		deps = append(deps, t.Elem)
	}
	return deps
}
