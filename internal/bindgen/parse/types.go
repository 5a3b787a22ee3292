package parse

import (
	"fmt"
	"go/token"
	"go/types"
	"strings"

	"github.com/sublee/confbind/internal/model"
)

// textUnmarshaler is encoding.TextUnmarshaler without importing it.
var textUnmarshaler = func() *types.Interface {
	params := types.NewTuple(types.NewParam(token.NoPos, nil, "text", types.NewSlice(types.Typ[types.Byte])))
	results := types.NewTuple(types.NewParam(token.NoPos, nil, "", types.Universe.Lookup("error").Type()))
	sig := types.NewSignatureType(nil, nil, nil, params, results, false)
	fn := types.NewFunc(token.NoPos, nil, "UnmarshalText", sig)
	return types.NewInterfaceType([]*types.Func{fn}, nil).Complete()
}()

var basicKinds = map[types.BasicKind]model.PrimitiveKind{
	types.Bool:    model.Bool,
	types.Int:     model.Int,
	types.Int8:    model.Int8,
	types.Int16:   model.Int16,
	types.Int32:   model.Int32,
	types.Int64:   model.Int64,
	types.Uint:    model.Uint,
	types.Uint8:   model.Uint8,
	types.Uint16:  model.Uint16,
	types.Uint32:  model.Uint32,
	types.Uint64:  model.Uint64,
	types.Float32: model.Float32,
	types.Float64: model.Float64,
	types.String:  model.String,
}

// TypeOf returns the type spec of t, adding it and every type it reaches to
// the graph on first use. The returned spec is valid even with an error.
func (p *Parser) TypeOf(t types.Type) (*model.TypeSpec, error) {
	t = types.Unalias(t)
	if spec, ok := p.specs.At(t).(*model.TypeSpec); ok {
		return spec, nil
	}

	fqn := types.TypeString(t, nil)
	spec := &model.TypeSpec{
		ID:                 model.TypeID(fqn),
		FullyQualifiedName: fqn,
		MinimalName:        types.TypeString(t, p.qualifier),
	}
	if named, ok := t.(*types.Named); ok {
		obj := named.Obj()
		spec.Name = obj.Name()
		spec.Pos = obj.Pos()
		if pkg := obj.Pkg(); pkg != nil {
			spec.PkgPath = pkg.Path()
			spec.PkgName = pkg.Name()
		}
	}

	// Register before describing so that recursive types find themselves.
	p.specs.Set(t, spec)
	if err := p.graph.Add(spec); err != nil {
		return spec, err
	}

	err := p.describe(spec, t)
	if spec.Bindable() && !p.accessible(t) {
		unsupported(spec, "%s cannot be referred to from package %s", spec.FullyQualifiedName, p.pkg.PkgPath)
	}
	return spec, err
}

func (p *Parser) qualifier(pkg *types.Package) string {
	if pkg.Path() == p.pkg.PkgPath {
		return ""
	}
	return pkg.Name()
}

func supported(spec *model.TypeSpec, shape model.Shape, init model.InitStrategy) {
	spec.Shape = shape
	spec.Init = init
	spec.CanInitialize = true
}

func unsupported(spec *model.TypeSpec, format string, args ...any) {
	spec.Shape = model.Unsupported
	spec.Init = model.None
	spec.CanInitialize = false
	spec.InitExceptionMessage = fmt.Sprintf(format, args...)
	spec.Primitive = model.NotPrimitive
	spec.Elem = ""
	spec.Key = ""
	spec.Members = nil
}

// describe decides the shape of t.
func (p *Parser) describe(spec *model.TypeSpec, t types.Type) error {
	if named, ok := t.(*types.Named); ok {
		if named.TypeParams().Len() != 0 || named.TypeArgs().Len() != 0 {
			unsupported(spec, "generic types cannot be bound")
			return nil
		}

		if isDuration(named) {
			supported(spec, model.Primitive, model.SimpleAssignment)
			spec.Primitive = model.Duration
			return nil
		}

		if types.Implements(types.NewPointer(named), textUnmarshaler) {
			supported(spec, model.Primitive, model.SimpleAssignment)
			spec.Primitive = model.Text
			return nil
		}

		if elem, ok := addMethod(named); ok && !p.hasMembers(named) {
			elemSpec, err := p.TypeOf(elem)
			supported(spec, model.CollectionLike, model.SimpleAssignment)
			spec.Elem = elemSpec.ID
			return err
		}
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		kind, ok := basicKinds[u.Kind()]
		if !ok {
			if u.Info()&types.IsComplex != 0 {
				unsupported(spec, "complex numbers cannot be bound")
			} else {
				unsupported(spec, "%s cannot be bound", u.Name())
			}
			return nil
		}
		supported(spec, model.Primitive, model.SimpleAssignment)
		spec.Primitive = kind
		return nil

	case *types.Pointer:
		if _, ok := u.Elem().Underlying().(*types.Pointer); ok {
			unsupported(spec, "pointers to pointers cannot be bound")
			return nil
		}
		elem, err := p.TypeOf(u.Elem())
		supported(spec, model.NullableValue, model.AssignmentWithNullCheck)
		spec.Elem = elem.ID
		return err

	case *types.Slice:
		elem, err := p.TypeOf(u.Elem())
		supported(spec, model.Array, model.SimpleAssignment)
		spec.Elem = elem.ID
		return err

	case *types.Map:
		key, err := p.TypeOf(u.Key())
		if err != nil {
			return err
		}
		if key.Shape != model.Primitive {
			unsupported(spec, "map keys must be scalars, not %s", key.DisplayName())
			return nil
		}
		elem, err := p.TypeOf(u.Elem())
		supported(spec, model.DictionaryLike, model.AssignmentWithNullCheck)
		spec.Key = key.ID
		spec.Elem = elem.ID
		return err

	case *types.Struct:
		if spec.Name == "" {
			unsupported(spec, "anonymous structs cannot be bound")
			return nil
		}
		members, err := p.members(spec, u)
		supported(spec, model.ObjectWithMembers, model.SimpleAssignment)
		spec.Members = members
		return err

	case *types.Interface:
		unsupported(spec, "interfaces cannot be bound")
	case *types.Signature:
		unsupported(spec, "func types cannot be bound")
	case *types.Chan:
		unsupported(spec, "channels cannot be bound")
	case *types.Array:
		unsupported(spec, "fixed-size arrays cannot be bound")
	default:
		unsupported(spec, "%s cannot be bound", spec.MinimalName)
	}
	return nil
}

func isDuration(named *types.Named) bool {
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == "time" && obj.Name() == "Duration"
}

// addMethod finds Add(E) in the method set of *T and returns E.
func addMethod(named *types.Named) (types.Type, bool) {
	switch named.Underlying().(type) {
	case *types.Pointer, *types.Interface:
		return nil, false
	}

	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(named), false, named.Obj().Pkg(), "Add")
	fn, ok := obj.(*types.Func)
	if !ok {
		return nil, false
	}

	sig := fn.Signature()
	if sig.Params().Len() != 1 || sig.Results().Len() != 0 || sig.Variadic() {
		return nil, false
	}
	return sig.Params().At(0).Type(), true
}

// hasMembers reports whether t is a struct with a field bound as a member.
// Such a struct is bound by its members even if it has an Add method.
func (p *Parser) hasMembers(t types.Type) bool {
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return false
	}
	for i := range st.NumFields() {
		field := st.Field(i)
		key, skip := fieldKey(field, st.Tag(i))
		if skip {
			continue
		}
		if field.Embedded() && key == "" {
			if _, ok := p.embeddedStruct(field); ok {
				if p.hasMembers(field.Type()) {
					return true
				}
				continue
			}
		}
		if field.Exported() {
			return true
		}
	}
	return false
}

// accessible reports whether the generated code can refer to t by name from
// the package being parsed.
func (p *Parser) accessible(t types.Type) bool {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		return t.Kind() != types.UnsafePointer
	case *types.Named:
		if t.TypeArgs().Len() != 0 {
			return false
		}
		obj := t.Obj()
		if obj.Pkg() == nil || obj.Pkg().Path() == p.pkg.PkgPath {
			return true
		}
		return obj.Exported() && obj.Pkg().Name() != "main" && importable(p.pkg.PkgPath, obj.Pkg().Path())
	case *types.Pointer:
		return p.accessible(t.Elem())
	case *types.Slice:
		return p.accessible(t.Elem())
	case *types.Array:
		return p.accessible(t.Elem())
	case *types.Chan:
		return p.accessible(t.Elem())
	case *types.Map:
		return p.accessible(t.Key()) && p.accessible(t.Elem())
	}
	return false
}

// importable reports whether the package at from may import the package at
// path, following the internal directory rule.
func importable(from, path string) bool {
	i := strings.LastIndex(path, "/internal/")
	if i == -1 {
		if strings.HasSuffix(path, "/internal") {
			i = len(path) - len("/internal")
		} else if path == "internal" || strings.HasPrefix(path, "internal/") {
			return false
		} else {
			return true
		}
	}
	parent := path[:i]
	return from == parent || strings.HasPrefix(from, parent+"/")
}
