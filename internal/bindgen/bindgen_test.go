package bindgen

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sublee/confbind/internal/codefmt"
	"github.com/sublee/confbind/internal/model"
)

func loadGraph(t *testing.T) (*model.Graph, []model.Request) {
	data, err := os.ReadFile("testdata/settings.yaml")
	require.NoError(t, err)
	g, reqs, err := model.Decode(data)
	require.NoError(t, err)
	return g, reqs
}

func generate(t *testing.T, g *model.Graph, reqs []model.Request, opts Options) string {
	code, err := Generate(context.Background(), g, reqs, opts)
	require.NoError(t, err)
	return string(code)
}

func assertSameCode(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Errorf("generated code differs:\n%s", dmp.DiffPrettyText(diffs))
}

func TestGenerateValidGo(t *testing.T) {
	g, reqs := loadGraph(t)
	code := generate(t, g, reqs, Options{})

	assert.True(t, strings.HasPrefix(code, "//go:build !confbind\n\n// Code generated by github.com/sublee/confbind"))

	f, err := parser.ParseFile(token.NewFileSet(), "confbind_gen.go", code, parser.ParseComments)
	require.NoError(t, err, code)
	assert.Equal(t, "config", f.Name.Name)

	for _, name := range []string{"BindSettings", "GetSettings", "BindSettingsOptions", "BindSettingsConfiguration", "ConfigureSettings"} {
		assert.Contains(t, code, "func "+name+"(")
	}
}

// assertUniqueFuncs checks that code parses and declares every function
// once.
func assertUniqueFuncs(t *testing.T, code string) {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "", code, 0)
	require.NoError(t, err, code)

	seen := make(map[string]bool)
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		assert.False(t, seen[fn.Name.Name], "duplicate func %s", fn.Name.Name)
		seen[fn.Name.Name] = true
	}
}

func TestGenerateDedup(t *testing.T) {
	g, reqs := loadGraph(t)
	code := generate(t, g, reqs, Options{})

	// Every routine is declared once, and *TLS, TLS and int are referenced
	// from several members.
	decls := regexp.MustCompile(`(?m)^func (confbind_\w+)\(`).FindAllStringSubmatch(code, -1)
	seen := make(map[string]bool)
	for _, m := range decls {
		assert.False(t, seen[m[1]], "duplicate routine %s", m[1])
		seen[m[1]] = true
	}

	assert.Equal(t, 1, strings.Count(code, "func confbind_Settings_TLS("))
	assert.Equal(t, 1, strings.Count(code, "func confbind_Settings_ptrTLS("))
	assert.Equal(t, 1, strings.Count(code, "func confbind_Settings_parse_int("))
	assert.Equal(t, 1, strings.Count(code, "func confbind_Settings_parse_ptrInt("))
}

func TestGenerateDeterministic(t *testing.T) {
	g, reqs := loadGraph(t)
	first := generate(t, g, reqs, Options{ErrorOnUnknownConfiguration: true})
	for range 5 {
		assertSameCode(t, first, generate(t, g, reqs, Options{ErrorOnUnknownConfiguration: true}))
	}
}

func TestGenerateStubOnce(t *testing.T) {
	g, reqs := loadGraph(t)
	code := generate(t, g, reqs, Options{})

	assert.Equal(t, 1, strings.Count(code, `"func types cannot be bound"`))
	assert.Contains(t, code, "return confbind_Settings_stub_Hook(child")
	assert.NotContains(t, code, "obj.Hook =")
}

func TestGenerateOrder(t *testing.T) {
	g, reqs := loadGraph(t)
	code := generate(t, g, reqs, Options{})

	ordered := []string{
		"func confbind_Settings_stub_Hook(",
		"func confbind_Settings_parse_int(",
		"func confbind_Settings_sliceInt(",
		"func confbind_Settings_TLS(",
		"func confbind_Settings_Settings(",
		"func confbind_Settings_untyped(",
		"func BindSettings(",
		"func GetSettings(",
		"func BindSettingsOptions(",
		"func ConfigureSettings(",
	}
	last := -1
	for _, s := range ordered {
		i := strings.Index(code, s)
		require.NotEqual(t, -1, i, s)
		assert.Greater(t, i, last, s)
		last = i
	}
}

func TestGenerateStrict(t *testing.T) {
	g, reqs := loadGraph(t)

	code := generate(t, g, reqs, Options{ErrorOnUnknownConfiguration: true})
	assert.Contains(t, code, "ErrorOnUnknownConfiguration: true}")
	assert.Contains(t, code, `MatchKey(child`)
	assert.Contains(t, code, `"Port", "Debug", "name"`)

	code = generate(t, g, reqs, Options{})
	assert.Contains(t, code, "ErrorOnUnknownConfiguration: false}")
	assert.NotContains(t, code, "MatchKey")
}

func TestGeneratePolicy(t *testing.T) {
	g, reqs := loadGraph(t)

	code := generate(t, g, reqs, Options{})
	assert.Contains(t, code, `. "github.com/sublee/confbind"`)
	assert.Contains(t, code, "func BindSettings(section Section, obj *Settings, configure func(*BinderOptions)) error {")

	code = generate(t, g, reqs, Options{UseFullyQualifiedNames: true})
	assert.Contains(t, code, "\t\"github.com/sublee/confbind\"\n")
	assert.Contains(t, code, "func BindSettings(section confbind.Section, obj *Settings, configure func(*confbind.BinderOptions)) error {")

	// A package-scope name shadowed by the dot import forces qualification.
	g.Reserved = append(g.Reserved, "Section")
	code = generate(t, g, reqs, Options{})
	assert.Contains(t, code, "confbind.Section")
	assert.NotContains(t, code, `. "github.com/sublee/confbind"`)
}

func TestGenerateAvoidsReservedNames(t *testing.T) {
	g, reqs := loadGraph(t)
	g.Reserved = append(g.Reserved, "BindSettings", "confbind_Settings_TLS", "opts", "confbind")
	code := generate(t, g, reqs, Options{UseFullyQualifiedNames: true})

	assert.Contains(t, code, "func BindSettings2(")
	assert.Contains(t, code, "func confbind_Settings_TLS2(")
	assert.Contains(t, code, "opts2 *confbind2.BinderOptions")
	assert.Contains(t, code, `confbind2 "github.com/sublee/confbind"`)

	_, err := parser.ParseFile(token.NewFileSet(), "", code, 0)
	require.NoError(t, err)
}

func TestGenerateMultipleUnits(t *testing.T) {
	g, _ := loadGraph(t)
	reqs := []model.Request{
		{Root: "Settings", EntryPoints: model.Of(model.DirectBind)},
		{Root: "TLS", EntryPoints: model.Of(model.DirectBind, model.TypedGet)},
		{Root: "[]int", EntryPoints: model.Of(model.TypedGet)},
	}
	code := generate(t, g, reqs, Options{})

	assert.Contains(t, code, "func BindSettings(")
	assert.Contains(t, code, "func BindTLS(")
	assert.Contains(t, code, "func GetTLS(")
	assert.Contains(t, code, "func GetSliceInt(")
	assert.NotContains(t, code, "func GetSettings(")

	// Units have their own routines for shared types.
	assert.Contains(t, code, "func confbind_Settings_TLS(")
	assert.Contains(t, code, "func confbind_TLS_TLS(")
	assert.Equal(t, 1, strings.Count(code, `"github.com/sublee/confbind"`))

	_, err := parser.ParseFile(token.NewFileSet(), "", code, 0)
	require.NoError(t, err)
}

func TestGenerateSameRootTwice(t *testing.T) {
	g, _ := loadGraph(t)
	reqs := []model.Request{
		{Root: "Settings", EntryPoints: model.Of(model.DirectBind)},
		{Root: "TLS", EntryPoints: model.Of(model.TypedGet)},
		{Root: "Settings", EntryPoints: model.Of(model.TypedGet)},
	}
	code := generate(t, g, reqs, Options{})
	assertUniqueFuncs(t, code)

	// Requests for one root make one unit.
	assert.Equal(t, 1, strings.Count(code, "func confbind_Settings_Settings("))
	assert.Equal(t, 1, strings.Count(code, "func BindSettings("))
	assert.Equal(t, 1, strings.Count(code, "func GetSettings("))
	assert.Contains(t, code, "func GetTLS(")
	assert.Less(t, strings.Index(code, "func GetSettings("), strings.Index(code, "func GetTLS("))

	merged := generate(t, g, []model.Request{
		{Root: "Settings", EntryPoints: model.Of(model.DirectBind, model.TypedGet)},
		{Root: "TLS", EntryPoints: model.Of(model.TypedGet)},
	}, Options{})
	assertSameCode(t, merged, code)
}

func TestGenerateSameNamedRoots(t *testing.T) {
	g, reqs := loadGraph(t)
	require.NoError(t, g.Add(&model.TypeSpec{
		ID:                 "example.com/app/other.Settings",
		Shape:              model.ObjectWithMembers,
		FullyQualifiedName: "example.com/app/other.Settings",
		MinimalName:        "other.Settings",
		PkgPath:            "example.com/app/other",
		PkgName:            "other",
		Name:               "Settings",
		Members:            []model.Member{{Name: "Port", Type: "int"}},
		Init:               model.SimpleAssignment,
		CanInitialize:      true,
	}))
	reqs = append(reqs, model.Request{
		Root:        "example.com/app/other.Settings",
		EntryPoints: model.Of(model.DirectBind, model.TypedGet),
	})

	code := generate(t, g, reqs, Options{})
	assertUniqueFuncs(t, code)

	assert.Contains(t, code, "func confbind_Settings_Settings(")
	assert.Contains(t, code, "func confbind_Settings2_Settings(")
	assert.Contains(t, code, "func confbind_Settings2_parse_int(")
	assert.Contains(t, code, "func BindSettings2(")
	assert.Contains(t, code, "func GetSettings2(")
	assert.Contains(t, code, `"example.com/app/other"`)
}

func TestReservePrefix(t *testing.T) {
	ns := codefmt.NewNS("confbind_B")

	a := reservePrefix(ns, nil, "A")
	assert.Equal(t, "confbind_A", a)

	// "confbind_A_x" routines of a unit for "A_x" could be routines of A.
	ax := reservePrefix(ns, []string{a}, "A_x")
	assert.Equal(t, "confbind_Ax", ax)

	b := reservePrefix(ns, []string{a, ax}, "B")
	assert.Equal(t, "confbind_B2", b)

	a2 := reservePrefix(ns, []string{a, ax, b}, "A")
	assert.Equal(t, "confbind_A2", a2)
	assert.True(t, ns.Has(a2))
}

func TestGenerateLeafRoot(t *testing.T) {
	g, _ := loadGraph(t)
	code := generate(t, g, []model.Request{{Root: "*int", EntryPoints: model.Of(model.DirectBind, model.TypedGet)}}, Options{})

	assert.Contains(t, code, "func confbind_ptrInt_parse_ptrInt(value string, path string) (*int, error) {")
	assert.Contains(t, code, "func confbind_ptrInt_ptrInt(section Section, obj **int, opts *BinderOptions) error {")
	assert.Contains(t, code, "func BindPtrInt(")
	assert.Contains(t, code, "case **int:")
}

func TestGenerateEmptyEntryPoints(t *testing.T) {
	g, _ := loadGraph(t)
	code, err := Generate(context.Background(), g, []model.Request{{Root: "Settings"}}, Options{})
	assert.NoError(t, err)
	assert.Nil(t, code)

	// Not even the graph is looked at.
	code, err = Emit(model.NewGraph(model.Package{}), model.Request{Root: "Nope"}, Options{})
	assert.NoError(t, err)
	assert.Nil(t, code)
}

func TestGenerateUnknownRoot(t *testing.T) {
	g, _ := loadGraph(t)
	code, err := Emit(g, model.Request{Root: "Nope", EntryPoints: model.Of(model.DirectBind)}, Options{})
	assert.ErrorIs(t, err, ErrUnknownRoot)
	assert.Nil(t, code)
}

func TestGenerateInvalidEntryPoint(t *testing.T) {
	g, _ := loadGraph(t)
	code, err := Emit(g, model.Request{Root: "Settings", EntryPoints: 1 << 6}, Options{})
	assert.ErrorIs(t, err, ErrInvalidEntryPoint)
	assert.Nil(t, code)
}

func TestGenerateValueCycle(t *testing.T) {
	g, _ := loadGraph(t)
	tls := g.MustLookup("TLS")
	tls.Members = append(tls.Members, model.Member{Name: "Parent", Type: "Settings"})
	g.MustLookup("Settings").Members[5].Type = "TLS"

	code, err := Emit(g, model.Request{Root: "Settings", EntryPoints: model.Of(model.DirectBind)}, Options{})
	assert.ErrorIs(t, err, model.ErrInvalidGraph)
	assert.ErrorContains(t, err, "value cycle")
	assert.Nil(t, code)
}

func TestGenerateReentrant(t *testing.T) {
	g, reqs := loadGraph(t)
	want := generate(t, g, reqs, Options{})

	var wg sync.WaitGroup
	got := make([]string, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := Emit(g, reqs[0], Options{})
			assert.NoError(t, err)
			got[i] = string(code)
		}()
	}
	wg.Wait()

	for _, code := range got {
		assertSameCode(t, want, code)
	}
}

func TestGenerateCanceled(t *testing.T) {
	g, reqs := loadGraph(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, g, reqs, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
