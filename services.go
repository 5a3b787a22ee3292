package confbind

import (
	"sync"
)

// DefaultName is the name of unnamed options.
const DefaultName = ""

// typeKey identifies T in a map without reflection. Distinct instantiations
// are distinct comparable values.
type typeKey[T any] struct{}

type serviceKey struct {
	typ  any
	name string
}

// ServiceCollection holds configure actions for options types. Generated
// wiring functions register binders into it, and [Resolve] applies them.
// It is safe for concurrent use.
type ServiceCollection struct {
	root Section

	mu      sync.Mutex
	actions map[serviceKey][]func(any) error
}

// NewServiceCollection creates a [ServiceCollection]. root is the
// configuration that [OptionsBuilder]-based wiring resolves section paths
// against. It may be nil if no wiring uses section paths.
func NewServiceCollection(root Section) *ServiceCollection {
	return &ServiceCollection{
		root:    root,
		actions: make(map[serviceKey][]func(any) error),
	}
}

// Configuration returns the root configuration.
func (s *ServiceCollection) Configuration() Section { return s.root }

// Configure registers fn to configure the options of type T with the given
// name. Actions run in registration order.
func Configure[T any](s *ServiceCollection, name string, fn func(*T) error) {
	key := serviceKey{typeKey[T]{}, name}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[key] = append(s.actions[key], func(obj any) error {
		return fn(obj.(*T))
	})
}

// Resolve creates a new T and applies every action registered for T and
// name. The first error stops the resolution.
func Resolve[T any](s *ServiceCollection, name string) (*T, error) {
	if s == nil {
		return nil, &ArgumentNilError{Param: "services"}
	}

	s.mu.Lock()
	actions := append([]func(any) error(nil), s.actions[serviceKey{typeKey[T]{}, name}]...)
	s.mu.Unlock()

	obj := new(T)
	for _, action := range actions {
		if err := action(obj); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// OptionsBuilder configures the named options of type T. Generated
// Bind*Options and Bind*Configuration functions take it.
type OptionsBuilder[T any] struct {
	Services *ServiceCollection
	Name     string
}

// AddOptions returns an [OptionsBuilder] for the named options of type T.
func AddOptions[T any](s *ServiceCollection, name string) *OptionsBuilder[T] {
	return &OptionsBuilder[T]{Services: s, Name: name}
}

// Configure registers fn for the options and returns the builder for
// chaining.
func (b *OptionsBuilder[T]) Configure(fn func(*T) error) *OptionsBuilder[T] {
	Configure(b.Services, b.Name, fn)
	return b
}
