// Package emit holds the code templates of binder routines. Each template
// writes one piece of Go code for a type spec through a [codefmt.Writer]. The
// templates never decide which routines exist; the caller names them through
// [Routines] and orders their output.
package emit

import (
	"github.com/sublee/confbind/internal/codefmt"
	"github.com/sublee/confbind/internal/model"
)

// Routines names the routines of a generation unit.
type Routines interface {
	// Routine returns the routine which binds a section onto *T with the
	// signature (section, obj *T, opts) error.
	Routine(t *model.TypeSpec) string

	// Parser returns the routine which parses a scalar into T with the
	// signature (value, path string) (T, error). Only for leaves.
	Parser(t *model.TypeSpec) string

	// Stub returns the routine which fails for T with the signature
	// (section) error.
	Stub(t *model.TypeSpec) string
}

// Unit writes templates for one generation unit.
type Unit struct {
	*codefmt.Writer
	Routines Routines

	// Strict emits the unknown key check into object routines and turns it
	// on by default in entry points.
	Strict bool
}

// IsLeaf reports whether T is bound from a scalar value by a parser rather
// than from a section by a routine. Leaves are primitives and nullable
// primitives.
func IsLeaf(g *model.Graph, t *model.TypeSpec) bool {
	if !t.Bindable() {
		return false
	}
	switch t.Shape {
	case model.Primitive:
		return true
	case model.NullableValue:
		elem := g.MustLookup(t.Elem)
		return elem.Shape == model.Primitive && elem.Bindable()
	case model.Unsupported, model.Array, model.DictionaryLike, model.CollectionLike, model.ObjectWithMembers:
	}
	return false
}

// presence returns the check a section must pass before T is bound from it.
func (u *Unit) presence(t *model.TypeSpec) codefmt.Symbol {
	if IsLeaf(u.Graph(), t) {
		return codefmt.SymHasValue
	}
	return codefmt.SymHasValueOrChildren
}

// BindValue writes statements which bind section onto target, an assignable
// expression of type T, following init. The statements run inside a
// function returning error.
func (u *Unit) BindValue(t *model.TypeSpec, section, target string, init model.InitStrategy) {
	L := u.Locals()

	if !t.Bindable() || init == model.None {
		u.Printf("return %s(%s)\n", u.Routines.Stub(t), section)
		return
	}

	if IsLeaf(u.Graph(), t) {
		value := u.FreshLocal("value")
		u.Printf("if %s, %s := %s.Value(); %s {\n", value, L.Ok, section, L.Ok)
		parsed := u.parse(t, value, section+".Path()")
		if t.Shape == model.NullableValue && init == model.AssignmentWithNullCheck {
			u.Printf("if %s == nil {\n%s = %s\n} else {\n*%s = *%s\n}\n", target, target, parsed, target, parsed)
		} else {
			u.Printf("%s = %s\n", target, parsed)
		}
		u.Printf("}\n")
		return
	}

	switch init {
	case model.AssignmentWithNullCheck:
		switch t.Shape {
		case model.NullableValue:
			// Update the existing instance in place.
			elem := u.Graph().MustLookup(t.Elem)
			if !elem.Bindable() {
				u.Printf("return %s(%s)\n", u.Routines.Stub(elem), section)
				return
			}
			u.Printf("if %s == nil {\n%s = new(%t)\n}\n", target, target, elem)
			u.call(elem, section, target)
			return
		case model.DictionaryLike:
			u.Printf("if %s == nil {\n%s = make(%t)\n}\n", target, target, t)
		case model.Primitive, model.Array, model.CollectionLike, model.ObjectWithMembers, model.Unsupported:
		}
		fallthrough

	case model.SimpleAssignment:
		temp := u.FreshLocal("temp")
		u.Printf("%s := %s\n", temp, target)
		u.call(t, section, "&"+temp)
		u.Printf("%s = %s\n", target, temp)

	case model.Declaration:
		u.Printf("%s = %s\n", target, u.Declare(t, section))

	case model.None:
	}
}

// Declare writes statements which bind section onto a new variable and
// returns the variable. For a leaf, the section must have a value. T must be
// bindable.
func (u *Unit) Declare(t *model.TypeSpec, section string) string {
	if IsLeaf(u.Graph(), t) {
		value := u.FreshLocal("value")
		u.Printf("%s, _ := %s.Value()\n", value, section)
		return u.parse(t, value, section+".Path()")
	}

	element := u.FreshLocal("element")
	u.Printf("var %s %t\n", element, t)
	u.call(t, section, "&"+element)
	return element
}

// parse writes a call of the parser of T and returns the variable of the
// parsed value.
func (u *Unit) parse(t *model.TypeSpec, value, path string) string {
	L := u.Locals()
	parsed := u.FreshLocal("parsed")
	u.Printf("%s, %s := %s(%s, %s)\n", parsed, L.Err, u.Routines.Parser(t), value, path)
	u.Printf("if %s != nil {\nreturn %s\n}\n", L.Err, L.Err)
	return parsed
}

// call writes a call of the routine of T on ptr.
func (u *Unit) call(t *model.TypeSpec, section, ptr string) {
	L := u.Locals()
	if !t.Bindable() {
		u.Printf("return %s(%s)\n", u.Routines.Stub(t), section)
		return
	}
	u.Printf("if %s := %s(%s, %s, %s); %s != nil {\nreturn %s\n}\n",
		L.Err, u.Routines.Routine(t), section, ptr, L.Opts, L.Err, L.Err)
}
