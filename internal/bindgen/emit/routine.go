package emit

import (
	"strconv"
	"strings"

	"github.com/sublee/confbind/internal/codefmt"
	"github.com/sublee/confbind/internal/model"
)

// header writes the signature of a routine with the (section, obj, opts)
// signature.
func (u *Unit) header(name string, t *model.TypeSpec) {
	L := u.Locals()
	u.Printf("func %s(%s %s, %s *%t, %s *%s) error {\n",
		name, L.Section, codefmt.SymSection, L.Obj, t, L.Opts, codefmt.SymBinderOptions)
}

// Stub writes the routine of a type which cannot be bound. It fails whenever
// the configuration provides the type.
func (u *Unit) Stub(name string, t *model.TypeSpec) {
	L := u.Locals()
	u.Printf("func %s(%s %s) error {\n", name, L.Section, codefmt.SymSection)
	u.Printf("return &%s{Type: %q, Path: %s.Path(), Message: %q}\n",
		codefmt.SymInitError, t.DisplayName(), L.Section, t.InitExceptionMessage)
	u.Printf("}\n\n")
}

// Parser writes the parser of a leaf.
func (u *Unit) Parser(name string, t *model.TypeSpec) {
	L := u.Locals()

	if t.Shape == model.NullableValue {
		elem := u.Graph().MustLookup(t.Elem)
		parsed := u.FreshLocal("parsed")
		u.Printf("func %s(%s string, %s string) (%t, error) {\n", name, L.Value, L.Path, t)
		u.Printf("%s, %s := %s(%s, %s)\n", parsed, L.Err, u.Routines.Parser(elem), L.Value, L.Path)
		u.Printf("if %s != nil {\nreturn nil, %s\n}\n", L.Err, L.Err)
		u.Printf("return &%s, nil\n", parsed)
		u.Printf("}\n\n")
		return
	}

	if t.Primitive == model.Text {
		u.Printf("func %s(%s string, %s string) (%s %t, %s error) {\n", name, L.Value, L.Path, L.Result, t, L.Err)
		u.Printf("%s = %s(%s, %s, &%s)\n", L.Err, codefmt.SymParseText, L.Value, L.Path, L.Result)
		u.Printf("return %s, %s\n", L.Result, L.Err)
		u.Printf("}\n\n")
		return
	}

	u.Printf("func %s(%s string, %s string) (%t, error) {\n", name, L.Value, L.Path, t)
	if t.Primitive == model.String {
		u.Printf("return %t(%s), nil\n", t, L.Value)
		u.Printf("}\n\n")
		return
	}

	parsed := u.FreshLocal("parsed")
	switch t.Primitive {
	case model.Bool:
		u.Printf("%s, %s := %s(%s, %s)\n", parsed, L.Err, codefmt.SymParseBool, L.Value, L.Path)
	case model.Int, model.Int8, model.Int16, model.Int32, model.Int64:
		u.Printf("%s, %s := %s(%s, %s, %d)\n", parsed, L.Err, codefmt.SymParseInt, L.Value, L.Path, t.Primitive.BitSize())
	case model.Uint, model.Uint8, model.Uint16, model.Uint32, model.Uint64:
		u.Printf("%s, %s := %s(%s, %s, %d)\n", parsed, L.Err, codefmt.SymParseUint, L.Value, L.Path, t.Primitive.BitSize())
	case model.Float32, model.Float64:
		u.Printf("%s, %s := %s(%s, %s, %d)\n", parsed, L.Err, codefmt.SymParseFloat, L.Value, L.Path, t.Primitive.BitSize())
	case model.Duration:
		u.Printf("%s, %s := %s(%s, %s)\n", parsed, L.Err, codefmt.SymParseDuration, L.Value, L.Path)
	case model.NotPrimitive, model.String, model.Text:
		panic("emit: no parser for " + t.Primitive.String())
	}
	u.Printf("return %t(%s), %s\n", t, parsed, L.Err)
	u.Printf("}\n\n")
}

// Object writes the routine of an object. Members are bound in declared
// order, each only if its section exists.
func (u *Unit) Object(name string, t *model.TypeSpec) {
	L := u.Locals()
	u.header(name, t)

	keys := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		mt := u.Graph().MustLookup(m.Type)
		child := u.FreshLocal("child")
		u.Printf("if %s := %s.Section(%q); %s(%s) {\n", child, L.Section, m.ConfigKey(), codefmt.SymHasValueOrChildren, child)
		u.BindValue(mt, child, L.Obj+"."+m.Name, mt.Init)
		u.Printf("}\n")
		keys = append(keys, strconv.Quote(m.ConfigKey()))
	}

	if u.Strict {
		child := u.FreshLocal("child")
		u.Printf("if %s.ErrorOnUnknownConfiguration {\n", L.Opts)
		u.Printf("for _, %s := range %s.Children() {\n", child, L.Section)
		u.Printf("if !%s(%s.Key()%s) {\n", codefmt.SymMatchKey, child, joinArgs(keys))
		u.Printf("return &%s{Type: %q, Key: %s.Key(), Path: %s.Path()}\n",
			codefmt.SymUnknownKeyError, t.DisplayName(), child, child)
		u.Printf("}\n}\n}\n")
	}

	u.Printf("return nil\n")
	u.Printf("}\n\n")
}

func joinArgs(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return ", " + strings.Join(args, ", ")
}

// Array writes the routine of a slice. Bound elements are appended after the
// existing ones: the slice is resized once and filled by index.
func (u *Unit) Array(name string, t *model.TypeSpec) {
	L := u.Locals()
	elem := u.Graph().MustLookup(t.Elem)
	u.header(name, t)

	if !elem.Bindable() {
		u.unbindableChildren(elem)
		return
	}

	children := u.FreshLocal("children")
	originalCount := u.FreshLocal("originalCount")
	temp := u.FreshLocal("temp")
	n := u.FreshLocal("n")
	child := u.FreshLocal("child")

	u.Printf("%s := %s.Children()\n", children, L.Section)
	u.Printf("%s := len(*%s)\n", originalCount, L.Obj)
	u.Printf("%s := make(%t, %s+len(%s))\n", temp, t, originalCount, children)
	u.Printf("copy(%s, *%s)\n", temp, L.Obj)
	u.Printf("%s := %s\n", n, originalCount)
	u.Printf("for _, %s := range %s {\n", child, children)
	u.Printf("if !%s(%s) {\ncontinue\n}\n", u.presence(elem), child)
	element := u.Declare(elem, child)
	u.Printf("%s[%s] = %s\n", temp, n, element)
	u.Printf("%s++\n", n)
	u.Printf("}\n")
	u.Printf("*%s = %s[:%s]\n", L.Obj, temp, n)
	u.Printf("return nil\n")
	u.Printf("}\n\n")
}

// Collection writes the routine of a named type with an Add method. Each
// child is bound onto a new element and added.
func (u *Unit) Collection(name string, t *model.TypeSpec) {
	L := u.Locals()
	elem := u.Graph().MustLookup(t.Elem)
	u.header(name, t)

	if !elem.Bindable() {
		u.unbindableChildren(elem)
		return
	}

	child := u.FreshLocal("child")
	u.Printf("for _, %s := range %s.Children() {\n", child, L.Section)
	u.Printf("if !%s(%s) {\ncontinue\n}\n", u.presence(elem), child)
	element := u.Declare(elem, child)
	u.Printf("%s.Add(%s)\n", L.Obj, element)
	u.Printf("}\n")
	u.Printf("return nil\n")
	u.Printf("}\n\n")
}

// Dictionary writes the routine of a map. Child keys are parsed as map keys
// and existing entries are updated.
func (u *Unit) Dictionary(name string, t *model.TypeSpec) {
	L := u.Locals()
	key := u.Graph().MustLookup(t.Key)
	elem := u.Graph().MustLookup(t.Elem)
	u.header(name, t)

	switch {
	case !key.Bindable():
		u.unbindableChildren(key)
		return
	case !elem.Bindable():
		u.unbindableChildren(elem)
		return
	}

	child := u.FreshLocal("child")
	k := u.FreshLocal("key")
	u.Printf("if *%s == nil {\n*%s = make(%t)\n}\n", L.Obj, L.Obj, t)
	u.Printf("for _, %s := range %s.Children() {\n", child, L.Section)
	u.Printf("%s, %s := %s(%s.Key(), %s.Path())\n", k, L.Err, u.Routines.Parser(key), child, child)
	u.Printf("if %s != nil {\nreturn %s\n}\n", L.Err, L.Err)
	u.BindValue(elem, child, "(*"+L.Obj+")["+k+"]", model.SimpleAssignment)
	u.Printf("}\n")
	u.Printf("return nil\n")
	u.Printf("}\n\n")
}

// unbindableChildren finishes a container routine whose elements cannot be
// bound. It fails on the first child the configuration provides.
func (u *Unit) unbindableChildren(elem *model.TypeSpec) {
	L := u.Locals()
	child := u.FreshLocal("child")
	u.Printf("for _, %s := range %s.Children() {\n", child, L.Section)
	u.Printf("if %s(%s) {\nreturn %s(%s)\n}\n", codefmt.SymHasValueOrChildren, child, u.Routines.Stub(elem), child)
	u.Printf("}\n")
	u.Printf("return nil\n")
	u.Printf("}\n\n")
}

// Nullable writes the routine of a pointer to a composite. A nil pointer is
// allocated before binding.
func (u *Unit) Nullable(name string, t *model.TypeSpec) {
	L := u.Locals()
	elem := u.Graph().MustLookup(t.Elem)
	u.header(name, t)

	if !elem.Bindable() {
		u.Printf("return %s(%s)\n", u.Routines.Stub(elem), L.Section)
		u.Printf("}\n\n")
		return
	}

	u.Printf("if *%s == nil {\n*%s = new(%t)\n}\n", L.Obj, L.Obj, elem)
	u.Printf("return %s(%s, *%s, %s)\n", u.Routines.Routine(elem), L.Section, L.Obj, L.Opts)
	u.Printf("}\n\n")
}

// Root writes the routine of a root which has no routine of its own, namely
// a leaf or an unbindable type, so that entry points can call it like any
// other routine.
func (u *Unit) Root(name string, t *model.TypeSpec) {
	L := u.Locals()
	u.header(name, t)

	if !t.Bindable() {
		u.Printf("return %s(%s)\n", u.Routines.Stub(t), L.Section)
		u.Printf("}\n\n")
		return
	}

	u.BindValue(t, L.Section, "*"+L.Obj, model.SimpleAssignment)
	u.Printf("return nil\n")
	u.Printf("}\n\n")
}

// Untyped writes the dispatcher which binds onto a value of any type the
// unit has a routine for.
func (u *Unit) Untyped(name string, types []*model.TypeSpec) {
	L := u.Locals()
	u.Printf("func %s(%s %s, %s any, %s *%s) error {\n",
		name, L.Section, codefmt.SymSection, L.Obj, L.Opts, codefmt.SymBinderOptions)
	u.Printf("switch %s := %s.(type) {\n", L.Obj, L.Obj)

	seen := make(map[string]bool)
	for _, t := range types {
		// Distinct specs may render the same Go type; a type switch must not
		// repeat a case.
		typ := u.Sprintf("*%t", t)
		if seen[typ] {
			continue
		}
		seen[typ] = true

		u.Printf("case %s:\n", typ)
		u.Printf("return %s(%s, %s, %s)\n", u.Routines.Routine(t), L.Section, L.Obj, L.Opts)
	}

	u.Printf("default:\n")
	u.Printf("return &%s{Value: %s}\n", codefmt.SymUnsupportedTypeError, L.Obj)
	u.Printf("}\n")
	u.Printf("}\n\n")
}
