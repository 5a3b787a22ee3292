package model

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// graphDoc is the YAML descriptor of a graph and the units requested from it.
//
//	package: {path: example.com/app/config, name: config}
//	types:
//	  - id: Settings
//	    shape: object
//	    name: Settings
//	    pkgPath: example.com/app/config
//	    members:
//	      - {name: Port, type: int}
//	  - {id: int, shape: primitive, primitive: int}
//	requests:
//	  - {root: Settings, entryPoints: "bind,get"}
type graphDoc struct {
	Package  packageDoc   `yaml:"package"`
	Reserved []string     `yaml:"reserved,omitempty"`
	Types    []typeDoc    `yaml:"types"`
	Requests []requestDoc `yaml:"requests,omitempty"`
}

type packageDoc struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
}

type typeDoc struct {
	ID                   string      `yaml:"id"`
	Shape                string      `yaml:"shape"`
	FullyQualifiedName   string      `yaml:"fullyQualifiedName,omitempty"`
	MinimalName          string      `yaml:"minimalName,omitempty"`
	PkgPath              string      `yaml:"pkgPath,omitempty"`
	PkgName              string      `yaml:"pkgName,omitempty"`
	Name                 string      `yaml:"name,omitempty"`
	Primitive            string      `yaml:"primitive,omitempty"`
	Elem                 string      `yaml:"elem,omitempty"`
	Key                  string      `yaml:"key,omitempty"`
	Members              []memberDoc `yaml:"members,omitempty"`
	Init                 string      `yaml:"init,omitempty"`
	CanInitialize        *bool       `yaml:"canInitialize,omitempty"`
	InitExceptionMessage string      `yaml:"initExceptionMessage,omitempty"`
}

type memberDoc struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key,omitempty"`
	Type string `yaml:"type"`
}

type requestDoc struct {
	Root        string `yaml:"root"`
	EntryPoints string `yaml:"entryPoints"`
}

// Decode reads a YAML graph descriptor. Omitted fields get defaults:
// canInitialize is false only for the unsupported shape, init is "assign"
// for initializable types and "none" otherwise, and names fall back to the
// type id. The graph is not validated.
func Decode(data []byte) (*Graph, []Request, error) {
	var doc graphDoc
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField()); err != nil {
		return nil, nil, fmt.Errorf("decode graph: %w", err)
	}

	g := NewGraph(Package{Path: doc.Package.Path, Name: doc.Package.Name})
	g.Reserved = doc.Reserved

	var errs error
	for _, td := range doc.Types {
		t, err := td.typeSpec()
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("type %s: %w", td.ID, err))
			continue
		}
		errs = errors.Join(errs, g.Add(t))
	}

	var reqs []Request
	for _, rd := range doc.Requests {
		eps, err := ParseEntryPoints(rd.EntryPoints)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("request %s: %w", rd.Root, err))
			continue
		}
		reqs = append(reqs, Request{Root: TypeID(rd.Root), EntryPoints: eps})
	}

	if errs != nil {
		return nil, nil, errs
	}
	return g, reqs, nil
}

func (td typeDoc) typeSpec() (*TypeSpec, error) {
	shape, err := ParseShape(td.Shape)
	if err != nil {
		return nil, err
	}

	t := &TypeSpec{
		ID:                   TypeID(td.ID),
		Shape:                shape,
		FullyQualifiedName:   td.FullyQualifiedName,
		MinimalName:          td.MinimalName,
		PkgPath:              td.PkgPath,
		PkgName:              td.PkgName,
		Name:                 td.Name,
		Elem:                 TypeID(td.Elem),
		Key:                  TypeID(td.Key),
		CanInitialize:        shape != Unsupported,
		InitExceptionMessage: td.InitExceptionMessage,
	}
	if td.CanInitialize != nil {
		t.CanInitialize = *td.CanInitialize
	}

	if td.Primitive != "" {
		if t.Primitive, err = ParsePrimitiveKind(td.Primitive); err != nil {
			return nil, err
		}
	}

	switch {
	case td.Init != "":
		if t.Init, err = ParseInitStrategy(td.Init); err != nil {
			return nil, err
		}
	case t.CanInitialize:
		t.Init = SimpleAssignment
	}

	for _, md := range td.Members {
		t.Members = append(t.Members, Member{Name: md.Name, Key: md.Key, Type: TypeID(md.Type)})
	}

	if t.MinimalName == "" {
		t.MinimalName = td.Name
		if t.MinimalName == "" {
			t.MinimalName = td.ID
		}
	}
	if t.FullyQualifiedName == "" {
		t.FullyQualifiedName = t.MinimalName
		if td.PkgPath != "" && td.Name != "" {
			t.FullyQualifiedName = td.PkgPath + "." + td.Name
		}
	}
	return t, nil
}

// Encode writes the graph and requests as a YAML descriptor which [Decode]
// reads back.
func Encode(g *Graph, reqs []Request) ([]byte, error) {
	doc := graphDoc{
		Package:  packageDoc{Path: g.Package.Path, Name: g.Package.Name},
		Reserved: g.Reserved,
	}

	for _, t := range g.Types {
		canInit := t.CanInitialize
		td := typeDoc{
			ID:                   string(t.ID),
			Shape:                t.Shape.String(),
			FullyQualifiedName:   t.FullyQualifiedName,
			MinimalName:          t.MinimalName,
			PkgPath:              t.PkgPath,
			PkgName:              t.PkgName,
			Name:                 t.Name,
			Elem:                 string(t.Elem),
			Key:                  string(t.Key),
			Init:                 t.Init.String(),
			CanInitialize:        &canInit,
			InitExceptionMessage: t.InitExceptionMessage,
		}
		if t.Primitive != NotPrimitive {
			td.Primitive = t.Primitive.String()
		}
		for _, m := range t.Members {
			td.Members = append(td.Members, memberDoc{Name: m.Name, Key: m.Key, Type: string(m.Type)})
		}
		doc.Types = append(doc.Types, td)
	}

	for _, r := range reqs {
		doc.Requests = append(doc.Requests, requestDoc{Root: string(r.Root), EntryPoints: r.EntryPoints.String()})
	}

	return yaml.Marshal(doc)
}
