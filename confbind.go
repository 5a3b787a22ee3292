// Package confbind is the runtime support of reflection-free configuration
// binding code generated by the confbind command.
//
// Confbind eliminates the reflection a configuration binder usually relies
// on. Annotate a type with a directive once, and the generator produces plain
// Go code that walks a hierarchical configuration tree and assigns every
// field it knows about. Types which cannot be bound are diagnosed in the
// generated code by name, not silently skipped.
//
// To start with Confbind, annotate the configuration types:
//
//	//confbind:generate bind,get
//	type Settings struct {
//		Port    int
//		Debug   bool
//		Name    string
//		Servers []string
//		Limits  map[string]int
//		TLS     *TLSSettings
//	}
//
// Then run the confbind command. It will generate confbind_gen.go for your
// package:
//
//	go run github.com/sublee/confbind/cmd/confbind ./...
//
// The generated code binds any [Section] onto the type:
//
//	// generated: (simplified)
//	func BindSettings(section confbind.Section, obj *Settings, configure func(*confbind.BinderOptions)) error {
//		...
//		if child := section.Section("Port"); confbind.HasValueOrChildren(child) {
//			if value, ok := child.Value(); ok {
//				parsed, err := confbind_Settings_parse_int(value, child.Path())
//				if err != nil {
//					return err
//				}
//				obj.Port = parsed
//			}
//		}
//		...
//	}
//
// # Sections
//
// A [Section] is a node of a configuration tree. It may carry a scalar value,
// children, or both. [NewMap] builds a tree from flat keys delimited by
// [KeyDelimiter], which is what most configuration providers flatten into:
//
//	cfg := confbind.NewMap(map[string]string{
//		"Port":        "8080",
//		"Servers:0":   "a.example.com",
//		"Servers:1":   "b.example.com",
//		"Limits:rps":  "100",
//		"TLS:Enabled": "true",
//	})
//
// # Binder options
//
// [BinderOptions] controls the generated code at runtime. When the code was
// generated with the strict policy, unknown keys under a bound object are
// reported as [UnknownKeyError] unless the option is turned off:
//
//	err := BindSettings(cfg, &s, func(o *confbind.BinderOptions) {
//		o.ErrorOnUnknownConfiguration = false
//	})
//
// # Options
//
// The generated wiring functions register binders into a [ServiceCollection]
// which resolves named options by type without reflection. See [Configure]
// and [Resolve].
package confbind

import (
	"strings"
)

// KeyDelimiter separates the segments of a configuration path.
const KeyDelimiter = ":"

// Section is a node of a hierarchical configuration tree.
type Section interface {
	// Key is the last segment of the path.
	Key() string

	// Path is the full path from the root, delimited by [KeyDelimiter].
	Path() string

	// Value returns the scalar value of the section. ok is false if the
	// section has no value.
	Value() (value string, ok bool)

	// Section returns the child section with the given key. It never returns
	// nil. If the child does not exist, the returned section is empty. Keys
	// are compared case-insensitively.
	Section(key string) Section

	// Children returns the immediate children. Numeric keys come first in
	// numeric order, then the others in case-insensitive lexical order.
	Children() []Section
}

// HasValue reports whether the section has a scalar value.
func HasValue(s Section) bool {
	if s == nil {
		return false
	}
	_, ok := s.Value()
	return ok
}

// HasChildren reports whether the section has any children.
func HasChildren(s Section) bool {
	if s == nil {
		return false
	}
	return len(s.Children()) != 0
}

// HasValueOrChildren reports whether the section exists in the configuration.
// The generated code only binds members whose sections exist.
func HasValueOrChildren(s Section) bool {
	return HasValue(s) || HasChildren(s)
}

// SectionAt walks down from root along path. An empty path returns root. A
// nil root returns nil.
func SectionAt(root Section, path string) Section {
	if root == nil || path == "" {
		return root
	}
	s := root
	for _, key := range strings.Split(path, KeyDelimiter) {
		s = s.Section(key)
	}
	return s
}

// CombinePath joins path segments with [KeyDelimiter]. Empty segments are
// skipped.
func CombinePath(segments ...string) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if b.Len() != 0 {
			b.WriteString(KeyDelimiter)
		}
		b.WriteString(seg)
	}
	return b.String()
}

// MatchKey reports whether key equals any of keys case-insensitively. The
// generated strict-mode loop uses it to find unknown keys.
func MatchKey(key string, keys ...string) bool {
	for _, k := range keys {
		if strings.EqualFold(key, k) {
			return true
		}
	}
	return false
}
