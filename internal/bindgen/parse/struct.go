package parse

import (
	"errors"
	"go/types"
	"reflect"
	"strings"

	"github.com/sublee/confbind/internal/codefmt"
	"github.com/sublee/confbind/internal/model"
)

// TagKey is the struct tag key which renames the configuration key of a
// field. "-" skips the field.
const TagKey = "confbind"

// members collects the bound members of a struct. Exported fields are bound
// in declaration order. Fields of embedded structs follow, unless a shallower
// field already took their key. Two fields taking one key at the same depth
// are an error.
func (p *Parser) members(owner *model.TypeSpec, st *types.Struct) ([]model.Member, error) {
	var members []model.Member
	var errs error
	taken := make(map[string]bool)

	type embedded struct {
		st     *types.Struct
		prefix string
	}
	level := []embedded{{st, ""}}

	for depth := 0; len(level) != 0; depth++ {
		var next []embedded

		// claimed maps the keys bound at this depth to their member names.
		claimed := make(map[string]string)

		for _, e := range level {
			for i := range e.st.NumFields() {
				field := e.st.Field(i)
				key, skip := fieldKey(field, e.st.Tag(i))
				if skip {
					continue
				}

				if field.Embedded() && key == "" {
					if inner, ok := p.embeddedStruct(field); ok {
						next = append(next, embedded{inner, e.prefix + field.Name() + "."})
						continue
					}
				}
				if !field.Exported() {
					continue
				}

				if key == "" {
					key = field.Name()
				}
				lower := strings.ToLower(key)
				if taken[lower] {
					continue
				}

				name := e.prefix + field.Name()
				if other, ok := claimed[lower]; ok {
					if depth == 0 {
						errs = errors.Join(errs, codefmt.Errorf(p.pkg.Fset, field.Pos(), "duplicate configuration key %q in %s", key, owner.DisplayName()))
					} else {
						// Fields of embedded structs may be declared in
						// other packages.
						errs = errors.Join(errs, codefmt.Errorf(p.pkg.Fset, owner.Pos, "duplicate configuration key %q in %s: %s and %s", key, owner.DisplayName(), other, name))
					}
					continue
				}
				claimed[lower] = name

				spec, err := p.TypeOf(field.Type())
				errs = errors.Join(errs, err)

				m := model.Member{Name: name, Type: spec.ID}
				if key != m.Name {
					m.Key = key
				}
				members = append(members, m)
			}
		}

		for k := range claimed {
			taken[k] = true
		}
		level = next
	}

	return members, errs
}

// fieldKey reads the configuration key from the struct tag of a field.
func fieldKey(field *types.Var, tag string) (key string, skip bool) {
	if field.Name() == "_" {
		return "", true
	}
	value, ok := reflect.StructTag(tag).Lookup(TagKey)
	if !ok {
		return "", false
	}
	key, _, _ = strings.Cut(value, ",")
	if key == "-" {
		return "", true
	}
	return key, false
}

// embeddedStruct returns the struct of an embedded field if its fields are
// flattened into the owner. Embedded pointers are bound as regular members.
func (p *Parser) embeddedStruct(field *types.Var) (*types.Struct, bool) {
	if !field.Exported() && (field.Pkg() == nil || field.Pkg().Path() != p.pkg.PkgPath) {
		return nil, false
	}
	named, ok := types.Unalias(field.Type()).(*types.Named)
	if !ok || named.TypeArgs().Len() != 0 {
		return nil, false
	}
	st, ok := named.Underlying().(*types.Struct)
	return st, ok
}
