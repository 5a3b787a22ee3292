package confbind

import (
	"fmt"
)

// ParseError is returned when a scalar value cannot be parsed.
type ParseError struct {
	Path  string
	Value string
	Kind  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("confbind: failed to convert configuration value %q at %q to %s: %v", e.Value, e.Path, e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InitError is returned when the configuration provides a value for a type
// the generator could not bind. Message explains why the type cannot be
// created.
type InitError struct {
	Type    string
	Path    string
	Message string
}

func (e *InitError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("confbind: cannot bind %s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("confbind: cannot bind %s at %q: %s", e.Type, e.Path, e.Message)
}

// ArgumentNilError is returned by a generated entry point when a required
// argument is nil.
type ArgumentNilError struct {
	Param string
}

func (e *ArgumentNilError) Error() string {
	return fmt.Sprintf("confbind: argument %s must not be nil", e.Param)
}

// UnknownKeyError is returned in strict mode when a section has a child which
// matches none of the members of the bound type.
type UnknownKeyError struct {
	Type string
	Key  string
	Path string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("confbind: configuration key %q at %q does not match any member of %s", e.Key, e.Path, e.Type)
}

// UnsupportedTypeError is returned by the untyped dispatcher of generated
// code when it has no binder for the dynamic type of Value.
type UnsupportedTypeError struct {
	Value any
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("confbind: no generated binder for %T", e.Value)
}
