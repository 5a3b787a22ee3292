// Package model describes configuration-bound types as an immutable type
// graph. A front-end produces the graph once and the emitter only reads it,
// so a graph can be shared by concurrent generation units.
package model

import (
	"fmt"
	"go/token"
)

// TypeID is the identity of a [TypeSpec] within a [Graph]. Two type specs
// with the same ID describe the same type, regardless of how they render.
type TypeID string

// Shape is the binding-relevant kind of a type. It decides which emission
// template applies.
type Shape int

const (
	Unsupported Shape = iota
	Primitive
	NullableValue
	Array
	DictionaryLike
	CollectionLike
	ObjectWithMembers
)

var shapeNames = [...]string{
	Unsupported:       "unsupported",
	Primitive:         "primitive",
	NullableValue:     "nullable",
	Array:             "array",
	DictionaryLike:    "dictionary",
	CollectionLike:    "collection",
	ObjectWithMembers: "object",
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape parses the name returned by [Shape.String].
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return Shape(s), nil
		}
	}
	return Unsupported, fmt.Errorf("unknown shape %q", name)
}

// InitStrategy decides how the emitted code materializes a value before
// binding into it.
type InitStrategy int

const (
	// None means the type cannot be bound. Only valid when
	// [TypeSpec.CanInitialize] is false.
	None InitStrategy = iota

	// SimpleAssignment binds into a copy of the current value and assigns
	// the copy back.
	SimpleAssignment

	// AssignmentWithNullCheck allocates the target only if it is nil and
	// then updates it in place.
	AssignmentWithNullCheck

	// Declaration binds into a freshly declared zero value and assigns it.
	Declaration
)

var initNames = [...]string{
	None:                    "none",
	SimpleAssignment:        "assign",
	AssignmentWithNullCheck: "assign-if-nil",
	Declaration:             "declare",
}

func (s InitStrategy) String() string {
	if s < 0 || int(s) >= len(initNames) {
		return fmt.Sprintf("InitStrategy(%d)", int(s))
	}
	return initNames[s]
}

// ParseInitStrategy parses the name returned by [InitStrategy.String].
func ParseInitStrategy(name string) (InitStrategy, error) {
	for s, n := range initNames {
		if n == name {
			return InitStrategy(s), nil
		}
	}
	return None, fmt.Errorf("unknown init strategy %q", name)
}

// PrimitiveKind is the scalar parser a primitive type needs.
type PrimitiveKind int

const (
	NotPrimitive PrimitiveKind = iota
	String
	Bool
	Int
	Int8
	Int16
	Int32
	Int64
	Uint
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Duration // time.Duration
	Text     // encoding.TextUnmarshaler
)

var primitiveNames = [...]string{
	NotPrimitive: "",
	String:       "string",
	Bool:         "bool",
	Int:          "int",
	Int8:         "int8",
	Int16:        "int16",
	Int32:        "int32",
	Int64:        "int64",
	Uint:         "uint",
	Uint8:        "uint8",
	Uint16:       "uint16",
	Uint32:       "uint32",
	Uint64:       "uint64",
	Float32:      "float32",
	Float64:      "float64",
	Duration:     "duration",
	Text:         "text",
}

func (k PrimitiveKind) String() string {
	if k < 0 || int(k) >= len(primitiveNames) {
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
	return primitiveNames[k]
}

// ParsePrimitiveKind parses the name returned by [PrimitiveKind.String].
func ParsePrimitiveKind(name string) (PrimitiveKind, error) {
	for k, n := range primitiveNames {
		if n == name && k != int(NotPrimitive) {
			return PrimitiveKind(k), nil
		}
	}
	return NotPrimitive, fmt.Errorf("unknown primitive kind %q", name)
}

// Builtin returns the predeclared Go type of the kind, like "int64". Duration
// and Text have none.
func (k PrimitiveKind) Builtin() string {
	switch k {
	case Duration, Text, NotPrimitive:
		return ""
	}
	return k.String()
}

// BitSize returns the bit size argument of the strconv-style parser for
// numeric kinds. Int and Uint return 0 which means the platform size.
func (k PrimitiveKind) BitSize() int {
	switch k {
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float32:
		return 32
	case Int64, Uint64, Float64:
		return 64
	}
	return 0
}

// TypeSpec describes one bound type.
type TypeSpec struct {
	ID    TypeID
	Shape Shape

	// FullyQualifiedName and MinimalName render the same type. The former
	// qualifies named types with their import path, like
	// "example.com/app/config.Settings". The latter is relative to the
	// declaring package, like "Settings".
	FullyQualifiedName string
	MinimalName        string

	// PkgPath and Name are set for named types. Unnamed types are rendered
	// structurally from Primitive, Key and Elem. PkgName is the declared name
	// of the package at PkgPath if known.
	PkgPath string
	PkgName string
	Name    string

	// Primitive is set for the Primitive shape and for dictionary keys.
	Primitive PrimitiveKind

	// Elem is the element of NullableValue, Array, CollectionLike and the
	// value of DictionaryLike. Key is the key of DictionaryLike.
	Elem TypeID
	Key  TypeID

	// Members is only for ObjectWithMembers.
	Members []Member

	Init                 InitStrategy
	CanInitialize        bool
	InitExceptionMessage string

	// Pos is the position of the type declaration if known.
	Pos token.Pos
}

// Member is a settable member of an ObjectWithMembers type.
type Member struct {
	// Name is the Go field name.
	Name string

	// Key is the configuration key. It defaults to Name.
	Key string

	Type TypeID
}

// ConfigKey returns the configuration key of the member.
func (m Member) ConfigKey() string {
	if m.Key != "" {
		return m.Key
	}
	return m.Name
}

// IsNamed reports whether the type is a defined type.
func (t *TypeSpec) IsNamed() bool { return t.Name != "" }

// Bindable reports whether the emitter may generate binding logic for the
// type. Otherwise only a failing stub is emitted.
func (t *TypeSpec) Bindable() bool {
	return t.Shape != Unsupported && t.CanInitialize
}

// Nilable reports whether the zero value of the type is nil.
func (t *TypeSpec) Nilable() bool {
	switch t.Shape {
	case NullableValue, Array, DictionaryLike:
		return true
	}
	return false
}

// DisplayName returns the name used in messages.
func (t *TypeSpec) DisplayName() string {
	if t.MinimalName != "" {
		return t.MinimalName
	}
	if t.FullyQualifiedName != "" {
		return t.FullyQualifiedName
	}
	return string(t.ID)
}

func (t *TypeSpec) String() string { return t.DisplayName() }

// Package is the Go package the generated code is emitted into.
type Package struct {
	Path string
	Name string
}

// Graph is a set of type specs for one output package.
type Graph struct {
	Package Package

	// Types in declaration order. The order is used for every iteration to
	// keep the output deterministic.
	Types []*TypeSpec

	// Reserved are the package-scope names of the output package. Emitted
	// names never collide with them.
	Reserved []string

	// Fset resolves [TypeSpec.Pos]. It may be nil.
	Fset *token.FileSet

	index map[TypeID]*TypeSpec
}

// NewGraph creates an empty graph for the package.
func NewGraph(pkg Package) *Graph {
	return &Graph{Package: pkg, index: make(map[TypeID]*TypeSpec)}
}

// Add appends a type spec. It fails if the ID is already taken.
func (g *Graph) Add(t *TypeSpec) error {
	if g.index == nil {
		g.reindex()
	}
	if _, ok := g.index[t.ID]; ok {
		return &GraphError{Type: t.ID, Pos: t.Pos, Msg: "duplicate type id"}
	}
	g.Types = append(g.Types, t)
	g.index[t.ID] = t
	return nil
}

func (g *Graph) reindex() {
	g.index = make(map[TypeID]*TypeSpec, len(g.Types))
	for _, t := range g.Types {
		if _, ok := g.index[t.ID]; !ok {
			g.index[t.ID] = t
		}
	}
}

// Lookup finds a type spec by ID.
func (g *Graph) Lookup(id TypeID) (*TypeSpec, bool) {
	if g.index != nil {
		t, ok := g.index[id]
		return t, ok
	}
	for _, t := range g.Types {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// MustLookup is like [Graph.Lookup] but panics for an unknown ID. Use it only
// on a validated graph.
func (g *Graph) MustLookup(id TypeID) *TypeSpec {
	t, ok := g.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("model: unknown type id %q", id))
	}
	return t
}

// Position returns the position of pos, or an invalid position if the graph
// has no file set.
func (g *Graph) Position(pos token.Pos) token.Position {
	if g.Fset == nil || !pos.IsValid() {
		return token.Position{}
	}
	return g.Fset.Position(pos)
}
