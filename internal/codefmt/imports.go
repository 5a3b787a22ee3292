package codefmt

import (
	"cmp"
	"path"
	"slices"
	"strings"
)

// Import is an import declaration of the generated file. Name is "." for a
// dot import.
type Import struct {
	Name string
	Path string

	// HasAlias indicates that the declaration needs Name spelled out.
	HasAlias bool
}

// Imports assigns file-scope names to the packages generated code refers to.
// It is planned once for all units of a file and read-only afterwards, so
// units running in parallel agree on every name.
type Imports struct {
	byPath map[string]Import
}

// PlanImports assigns a name to each package in pkgs, which maps import paths
// to declared package names (empty if unknown). Names are disambiguated
// against ns in sorted path order and reserved in it. The runtime package is
// always planned.
func PlanImports(ns NS, pkgs map[string]string) *Imports {
	paths := make([]string, 0, len(pkgs)+1)
	for p := range pkgs {
		if p != RuntimePath {
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)
	paths = append([]string{RuntimePath}, paths...)

	im := &Imports{byPath: make(map[string]Import, len(paths))}
	for _, p := range paths {
		declared := pkgs[p]
		if p == RuntimePath {
			declared = RuntimeName
		}

		base := declared
		if base == "" {
			base = guessPackageName(p)
		}

		for name := range DisambiguateName(base) {
			if ns.Reserve(name) {
				im.byPath[p] = Import{Name: name, Path: p, HasAlias: name != declared}
				break
			}
		}
	}
	return im
}

// guessPackageName derives a package name from an import path the way most
// packages are named: the last element without a major version suffix or a
// "go-" prefix.
func guessPackageName(importPath string) string {
	elem := path.Base(importPath)
	if len(elem) >= 2 && elem[0] == 'v' && strings.Trim(elem[1:], "0123456789") == "" {
		if dir := path.Dir(importPath); dir != "." {
			elem = path.Base(dir)
		}
	}
	elem = strings.TrimPrefix(elem, "go-")
	return NormalizeName(strings.ToLower(elem))
}

// Lookup returns the planned import of a path.
func (im *Imports) Lookup(importPath string) (Import, bool) {
	imp, ok := im.byPath[importPath]
	return imp, ok
}

// SortImports sorts imports by path and then by name, dropping duplicates.
func SortImports(imports []Import) []Import {
	slices.SortFunc(imports, func(a, b Import) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Name, b.Name))
	})
	return slices.Compact(imports)
}
