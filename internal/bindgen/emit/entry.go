package emit

import (
	"github.com/sublee/confbind/internal/codefmt"
	"github.com/sublee/confbind/internal/model"
)

// NullGuard writes the checks which reject nil arguments of an entry point.
// results is the prefix of the zero results before the error, like "nil, ".
func (u *Unit) NullGuard(results string, params ...string) {
	for _, p := range params {
		u.Printf("if %s == nil {\nreturn %s&%s{Param: %q}\n}\n", p, results, codefmt.SymArgumentNilError, p)
	}
}

func (u *Unit) options() {
	L := u.Locals()
	u.Printf("%s := %s(%s{ErrorOnUnknownConfiguration: %t}, %s)\n",
		L.Opts, codefmt.SymNewBinderOptions, codefmt.SymBinderOptions, u.Strict, L.Configure)
}

func (u *Unit) configureParam() string {
	return u.Locals().Configure + " func(*" + u.Sprintf("%s", codefmt.SymBinderOptions) + ")"
}

// Bind writes the entry point which binds a section onto an existing value.
func (u *Unit) Bind(name, routine string, root *model.TypeSpec) {
	L := u.Locals()
	u.Printf("// %s binds the configuration section onto %s. configure adjusts the\n", name, L.Obj)
	u.Printf("// binder options and may be nil.\n")
	u.Printf("func %s(%s %s, %s *%t, %s) error {\n", name, L.Section, codefmt.SymSection, L.Obj, root, u.configureParam())
	u.NullGuard("", L.Section, L.Obj)
	u.options()
	u.Printf("return %s(%s, %s, %s)\n", routine, L.Section, L.Obj, L.Opts)
	u.Printf("}\n\n")
}

// Get writes the entry point which creates a value from a section. It
// returns nil without error if the section does not exist.
func (u *Unit) Get(name, routine string, root *model.TypeSpec) {
	L := u.Locals()
	u.Printf("// %s creates %s from the configuration section. It returns nil if\n", name, root.DisplayName())
	u.Printf("// the section has neither a value nor children.\n")
	u.Printf("func %s(%s %s, %s) (*%t, error) {\n", name, L.Section, codefmt.SymSection, u.configureParam(), root)
	u.NullGuard("nil, ", L.Section)
	u.Printf("if !%s(%s) {\nreturn nil, nil\n}\n", codefmt.SymHasValueOrChildren, L.Section)
	u.options()
	u.Printf("%s := new(%t)\n", L.Obj, root)
	u.Printf("if %s := %s(%s, %s, %s); %s != nil {\nreturn nil, %s\n}\n", L.Err, routine, L.Section, L.Obj, L.Opts, L.Err, L.Err)
	u.Printf("return %s, nil\n", L.Obj)
	u.Printf("}\n\n")
}

// Options writes the entry point which registers the binder of a section
// to an options builder.
func (u *Unit) Options(name, routine string, root *model.TypeSpec) {
	L := u.Locals()
	u.Printf("// %s registers binding the configuration section onto the options.\n", name)
	u.Printf("func %s(%s *%s[%t], %s %s, %s) error {\n",
		name, L.Builder, codefmt.SymOptionsBuilder, root, L.Section, codefmt.SymSection, u.configureParam())
	u.NullGuard("", L.Builder, L.Section)
	u.options()
	u.Printf("%s.Configure(func(%s *%t) error {\n", L.Builder, L.Obj, root)
	u.Printf("return %s(%s, %s, %s)\n", routine, L.Section, L.Obj, L.Opts)
	u.Printf("})\n")
	u.Printf("return nil\n")
	u.Printf("}\n\n")
}

// Configuration writes the entry point which registers the binder of the
// section at a path of the builder's configuration. The path is resolved
// when the options are resolved.
func (u *Unit) Configuration(name, routine string, root *model.TypeSpec) {
	L := u.Locals()
	u.Printf("// %s registers binding the configuration section at %s onto the\n", name, L.ConfigSectionPath)
	u.Printf("// options. An empty path means the whole configuration.\n")
	u.Printf("func %s(%s *%s[%t], %s string, %s) error {\n",
		name, L.Builder, codefmt.SymOptionsBuilder, root, L.ConfigSectionPath, u.configureParam())
	u.NullGuard("", L.Builder)
	u.options()
	u.Printf("%s.Configure(func(%s *%t) error {\n", L.Builder, L.Obj, root)
	u.Printf("%s := %s(%s.Services.Configuration(), %s)\n", L.Section, codefmt.SymSectionAt, L.Builder, L.ConfigSectionPath)
	u.NullGuard("", L.Section)
	u.Printf("return %s(%s, %s, %s)\n", routine, L.Section, L.Obj, L.Opts)
	u.Printf("})\n")
	u.Printf("return nil\n")
	u.Printf("}\n\n")
}

// Services writes the entry point which registers the binder of a section
// to a service collection under a name. The registered action goes through
// the untyped dispatcher.
func (u *Unit) Services(name, untyped string, root *model.TypeSpec) {
	L := u.Locals()
	u.Printf("// %s registers binding the configuration section onto the options\n", name)
	u.Printf("// named %s.\n", L.Name)
	u.Printf("func %s(%s *%s, %s string, %s %s, %s) error {\n",
		name, L.Services, codefmt.SymServiceCollection, L.Name, L.Section, codefmt.SymSection, u.configureParam())
	u.NullGuard("", L.Services, L.Section)
	u.options()
	u.Printf("%s(%s, %s, func(%s *%t) error {\n", codefmt.SymConfigure, L.Services, L.Name, L.Obj, root)
	u.Printf("return %s(%s, %s, %s)\n", untyped, L.Section, L.Obj, L.Opts)
	u.Printf("})\n")
	u.Printf("return nil\n")
	u.Printf("}\n\n")
}
