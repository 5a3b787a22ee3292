package confbind

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// mapSection is an in-memory [Section] built by [NewMap].
type mapSection struct {
	key      string
	path     string
	value    string
	hasValue bool
	children map[string]*mapSection // by lower-cased key
}

// NewMap builds a configuration tree from flat keys. Each key is a path
// delimited by [KeyDelimiter], like "Servers:0:Host". Path segments are
// matched case-insensitively; the first spelling seen is kept.
func NewMap(values map[string]string) Section {
	root := &mapSection{}

	// Insert in sorted order so the kept spelling does not depend on map
	// iteration order.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		node := root
		for _, seg := range strings.Split(k, KeyDelimiter) {
			node = node.child(seg, true)
		}
		node.value = values[k]
		node.hasValue = true
	}
	return root
}

func (s *mapSection) child(key string, create bool) *mapSection {
	lower := strings.ToLower(key)
	if c, ok := s.children[lower]; ok {
		return c
	}

	c := &mapSection{key: key, path: CombinePath(s.path, key)}
	if create {
		if s.children == nil {
			s.children = make(map[string]*mapSection)
		}
		s.children[lower] = c
	}
	return c
}

func (s *mapSection) Key() string  { return s.key }
func (s *mapSection) Path() string { return s.path }

func (s *mapSection) Value() (string, bool) { return s.value, s.hasValue }

func (s *mapSection) Section(key string) Section { return s.child(key, false) }

func (s *mapSection) Children() []Section {
	if len(s.children) == 0 {
		return nil
	}

	nodes := make([]*mapSection, 0, len(s.children))
	for _, c := range s.children {
		nodes = append(nodes, c)
	}
	// Keys like "01" and "1" compare equal; the raw key breaks the tie.
	slices.SortFunc(nodes, func(a, b *mapSection) int {
		if c := CompareKeys(a.key, b.key); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})

	children := make([]Section, len(nodes))
	for i, c := range nodes {
		children[i] = c
	}
	return children
}

// CompareKeys orders configuration keys. Integer keys come first in numeric
// order, then the others in case-insensitive lexical order.
func CompareKeys(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}
