package vars

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefinition(t *testing.T) {
	name, value, err := ParseDefinition("project_name=my-service")
	require.NoError(t, err)
	assert.Equal(t, "project_name", name)
	assert.Equal(t, "my-service", value)

	name, value, err = ParseDefinition("  addr=:8080  ")
	require.NoError(t, err)
	assert.Equal(t, "addr", name)
	assert.Equal(t, ":8080", value)

	for _, definition := range []string{"no-equals", "=value", "name=", ""} {
		_, _, err = ParseDefinition(definition)
		require.Error(t, err, "definition %q", definition)
	}
}

func TestParseDefinitions(t *testing.T) {
	bindings, err := ParseDefinitions([]string{"a=1", "b=2", "a=3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, bindings)

	_, err = ParseDefinitions([]string{"a=1", "broken"})
	require.Error(t, err)
}

func TestLoadDefinitionsFile(t *testing.T) {
	varsFile := filepath.Join(t.TempDir(), "vars.txt")
	content := `# build variables
project_name=my-service

display_name=My Service
`
	require.NoError(t, os.WriteFile(varsFile, []byte(content), 0o644))

	bindings, err := LoadDefinitionsFile(varsFile)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"project_name": "my-service",
		"display_name": "My Service",
	}, bindings)
}

func TestLoadDefinitionsFileErrors(t *testing.T) {
	_, err := LoadDefinitionsFile(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)

	varsFile := filepath.Join(t.TempDir(), "vars.txt")
	require.NoError(t, os.WriteFile(varsFile, []byte("broken line\n"), 0o644))
	_, err = LoadDefinitionsFile(varsFile)
	require.Error(t, err)
}
