package confyaml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sublee/confbind"
	"github.com/sublee/confbind/pkg/confyaml"
)

const doc = `
server:
  port: 8080
  debug: true
  ratio: 0.5
  hosts:
    - a.example.com
    - b.example.com
  limits:
    rps: 100
  tls: null
name: demo
`

func TestFlatten(t *testing.T) {
	values, err := confyaml.Flatten([]byte(doc))
	require.NoError(t, err)

	want := map[string]string{
		"server:port":       "8080",
		"server:debug":      "true",
		"server:ratio":      "0.5",
		"server:hosts:0":    "a.example.com",
		"server:hosts:1":    "b.example.com",
		"server:limits:rps": "100",
		"name":              "demo",
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenEmpty(t *testing.T) {
	values, err := confyaml.Flatten(nil)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestFlattenNotMapping(t *testing.T) {
	_, err := confyaml.Flatten([]byte("- a\n- b\n"))
	assert.ErrorIs(t, err, confyaml.ErrNotMapping)

	_, err = confyaml.Flatten([]byte("42"))
	assert.ErrorIs(t, err, confyaml.ErrNotMapping)
}

func TestFlattenInvalid(t *testing.T) {
	_, err := confyaml.Flatten([]byte("a: [1, 2\n"))
	assert.ErrorContains(t, err, "confyaml: ")
}

func TestParse(t *testing.T) {
	s, err := confyaml.Parse([]byte(doc))
	require.NoError(t, err)

	port, ok := s.Section("Server").Section("Port").Value()
	assert.True(t, ok)
	assert.Equal(t, "8080", port)
	assert.Equal(t, "server:port", s.Section("server").Section("port").Path())

	var keys []string
	for _, c := range s.Section("server").Section("hosts").Children() {
		keys = append(keys, c.Key())
	}
	assert.Equal(t, []string{"0", "1"}, keys)

	assert.False(t, confbind.HasValueOrChildren(s.Section("server").Section("tls")))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := confyaml.Load(path)
	require.NoError(t, err)
	name, _ := confbind.SectionAt(s, "name").Value()
	assert.Equal(t, "demo", name)

	_, err = confyaml.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- a\n"), 0o644))
	_, err = confyaml.Load(bad)
	assert.ErrorIs(t, err, confyaml.ErrNotMapping)
	assert.ErrorContains(t, err, "bad.yaml: ")
}
