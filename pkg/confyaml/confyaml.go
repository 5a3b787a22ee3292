// Package confyaml provides configuration sections from YAML documents.
//
// Mappings become sections, sequences become sections keyed by index, and
// scalars become values. Null values are left out, so the generated binders
// treat them as missing:
//
//	server:
//	  port: 8080
//	  hosts: [a.example.com, b.example.com]
//
// flattens into "server:port", "server:hosts:0" and "server:hosts:1".
package confyaml

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/sublee/confbind"
)

// ErrNotMapping is returned when the top level of a document is not a
// mapping.
var ErrNotMapping = errors.New("confyaml: top level must be a mapping")

// Load reads a YAML file and parses it into a section tree.
func Load(path string) (confbind.Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse parses a YAML document into a section tree.
func Parse(data []byte) (confbind.Section, error) {
	values, err := Flatten(data)
	if err != nil {
		return nil, err
	}
	return confbind.NewMap(values), nil
}

// Flatten parses a YAML document into configuration keys delimited by
// [confbind.KeyDelimiter].
func Flatten(data []byte) (map[string]string, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("confyaml: %w", err)
	}

	values := make(map[string]string)
	switch doc.(type) {
	case nil:
		return values, nil
	case map[string]any, map[any]any:
	default:
		return nil, ErrNotMapping
	}

	flatten(values, "", doc)
	return values, nil
}

func flatten(values map[string]string, path string, node any) {
	switch node := node.(type) {
	case nil:
	case map[string]any:
		for k, v := range node {
			flatten(values, confbind.CombinePath(path, k), v)
		}
	case map[any]any:
		for k, v := range node {
			flatten(values, confbind.CombinePath(path, fmt.Sprint(k)), v)
		}
	case []any:
		for i, v := range node {
			flatten(values, confbind.CombinePath(path, strconv.Itoa(i)), v)
		}
	default:
		values[path] = scalar(node)
	}
}

func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return fmt.Sprint(v)
}
