package builtin_templates

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge-cli/forge/cli/catalog"
)

func TestBuiltinTemplatesAreWellFormed(t *testing.T) {
	builtins, err := Root()
	require.NoError(t, err)

	builtinCatalog, err := catalog.Build(nil, builtins)
	require.NoError(t, err)

	keys := builtinCatalog.Keys()
	for _, name := range Names {
		assert.Contains(t, keys, name)
	}

	for _, key := range keys {
		descriptor, err := builtinCatalog.Resolve(key)
		require.NoError(t, err)
		assert.NotEmpty(t, descriptor.Description, "template %q", key)
		assert.NotEmpty(t, descriptor.Files, "template %q", key)

		// Every built-in declares a project name following the
		// package naming rule.
		decl, found := descriptor.Schema.Decl("project_name")
		require.True(t, found, "template %q", key)
		assert.True(t, decl.Required, "template %q", key)

		// A literal go.mod turns the template directory into a nested
		// module and the embed directive drops the whole subtree.
		// Such files must be shipped under a .tpl name.
		for _, entry := range descriptor.Files {
			assert.NotEqual(t, "go.mod", path.Base(entry.Path),
				"template %q must ship go.mod as go.mod.tpl", key)
		}
	}
}
