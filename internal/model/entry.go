package model

import (
	"fmt"
	"strings"
)

// EntryPoint is a public function emitted for a root type.
type EntryPoint uint8

const (
	// DirectBind binds a section into an existing instance.
	DirectBind EntryPoint = 1 << iota

	// TypedGet creates a new instance bound from a section.
	TypedGet

	// OptionsBuilderWiring registers the binder through an options builder.
	OptionsBuilderWiring

	// ServiceCollectionWiring registers the binder into a service
	// collection.
	ServiceCollectionWiring
)

// EntryPoints is a set of entry points.
type EntryPoints uint8

// AllEntryPoints lists every entry point in emission order.
var AllEntryPoints = []EntryPoint{DirectBind, TypedGet, OptionsBuilderWiring, ServiceCollectionWiring}

var entryNames = map[EntryPoint]string{
	DirectBind:              "bind",
	TypedGet:                "get",
	OptionsBuilderWiring:    "options",
	ServiceCollectionWiring: "services",
}

func (e EntryPoint) String() string {
	if name, ok := entryNames[e]; ok {
		return name
	}
	return fmt.Sprintf("EntryPoint(%d)", uint8(e))
}

// Of builds a set.
func Of(eps ...EntryPoint) EntryPoints {
	var s EntryPoints
	for _, ep := range eps {
		s |= EntryPoints(ep)
	}
	return s
}

// Has reports whether the set contains ep.
func (s EntryPoints) Has(ep EntryPoint) bool { return s&EntryPoints(ep) != 0 }

// Valid reports whether the set only has known entry points.
func (s EntryPoints) Valid() bool { return s&^Of(AllEntryPoints...) == 0 }

// Empty reports whether the set has no entry point.
func (s EntryPoints) Empty() bool { return s == 0 }

// List returns the entry points in emission order.
func (s EntryPoints) List() []EntryPoint {
	var eps []EntryPoint
	for _, ep := range AllEntryPoints {
		if s.Has(ep) {
			eps = append(eps, ep)
		}
	}
	return eps
}

func (s EntryPoints) String() string {
	var names []string
	for _, ep := range s.List() {
		names = append(names, ep.String())
	}
	return strings.Join(names, ",")
}

// ParseEntryPoints parses a comma-separated list like "bind,get". Spaces
// around names are ignored.
func ParseEntryPoints(list string) (EntryPoints, error) {
	var s EntryPoints
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		found := false
		for ep, n := range entryNames {
			if n == name {
				s |= EntryPoints(ep)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown entry point %q", name)
		}
	}
	return s, nil
}

// Request asks for one generation unit: a root type and its public entry
// points.
type Request struct {
	Root        TypeID
	EntryPoints EntryPoints
}
