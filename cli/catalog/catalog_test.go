package catalog

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge-cli/forge/cli/vars"
)

func TestBuildFromDirectory(t *testing.T) {
	testCatalog, err := Build([]string{"testdata/templates"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"bare_files", "web_service"}, testCatalog.Keys())

	descriptor, err := testCatalog.Resolve("web_service")
	require.NoError(t, err)
	assert.Equal(t, "web_service", descriptor.Key)
	assert.Equal(t, "Web service template", descriptor.Description)

	decl, found := descriptor.Schema.Decl("project_name")
	require.True(t, found)
	assert.True(t, decl.Required)
	assert.Equal(t, vars.RulePackageName, decl.Rule)

	// Files are sorted and the manifest sidecar is not listed.
	require.Len(t, descriptor.Files, 3)
	assert.Equal(t, "app.conf", descriptor.Files[0].Path)
	assert.Equal(t, "docs/README.md", descriptor.Files[1].Path)
	assert.Equal(t, "static/logo.png", descriptor.Files[2].Path)

	assert.True(t, descriptor.IsBinary("static/logo.png"))
	assert.False(t, descriptor.IsBinary("app.conf"))
}

func TestBuildTemplateWithoutManifest(t *testing.T) {
	testCatalog, err := Build([]string{"testdata/templates"}, nil)
	require.NoError(t, err)

	descriptor, err := testCatalog.Resolve("bare_files")
	require.NoError(t, err)
	assert.Empty(t, descriptor.Schema)
	assert.Empty(t, descriptor.Description)
	require.Len(t, descriptor.Files, 1)
}

func TestResolveNotFound(t *testing.T) {
	testCatalog, err := Build([]string{"testdata/templates"}, nil)
	require.NoError(t, err)

	_, err = testCatalog.Resolve("absent")
	require.Error(t, err)
	notFoundErr, ok := err.(NotFoundError)
	require.True(t, ok)
	assert.Equal(t, "absent", notFoundErr.Key)
	assert.Equal(t, `template "absent" is not found`, notFoundErr.Error())
}

func TestBuildMissingSearchPathIsSkipped(t *testing.T) {
	testCatalog, err := Build([]string{
		filepath.Join(t.TempDir(), "absent"),
		"testdata/templates",
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, testCatalog.Keys(), "web_service")
}

func TestBuildEmptyTemplate(t *testing.T) {
	searchPath := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(searchPath, "empty_tpl"), 0o755))

	_, err := Build([]string{searchPath}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `template "empty_tpl" is empty`)
}

func TestBuildSearchPathPrecedence(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	for i, searchPath := range []string{first, second} {
		templateDir := filepath.Join(searchPath, "same_key")
		require.NoError(t, os.Mkdir(templateDir, 0o755))
		marker := []byte{byte('a' + i)}
		require.NoError(t, os.WriteFile(filepath.Join(templateDir, "marker.txt"),
			marker, 0o644))
	}

	testCatalog, err := Build([]string{first, second}, nil)
	require.NoError(t, err)

	descriptor, err := testCatalog.Resolve("same_key")
	require.NoError(t, err)

	dstDir := t.TempDir()
	require.NoError(t, descriptor.CopyTree(context.Background(), dstDir))
	content, err := os.ReadFile(filepath.Join(dstDir, "marker.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(content))
}

func TestBuildBuiltins(t *testing.T) {
	builtins := fstest.MapFS{
		"embedded_tpl/MANIFEST.yaml": &fstest.MapFile{Data: []byte(
			"description: Embedded\nvars:\n  - name: name\n    rule: identifier\n")},
		"embedded_tpl/file.txt":     &fstest.MapFile{Data: []byte("hello {{name}}\n")},
		"embedded_tpl/bin/blob.dat": &fstest.MapFile{Data: []byte{0x42, 0x00, 0x42}},
	}

	testCatalog, err := Build(nil, builtins)
	require.NoError(t, err)

	descriptor, err := testCatalog.Resolve("embedded_tpl")
	require.NoError(t, err)
	assert.Equal(t, "Embedded", descriptor.Description)
	require.Len(t, descriptor.Files, 2)
	assert.True(t, descriptor.IsBinary("bin/blob.dat"))

	dstDir := t.TempDir()
	require.NoError(t, descriptor.CopyTree(context.Background(), dstDir))
	assert.FileExists(t, filepath.Join(dstDir, "file.txt"))
	assert.FileExists(t, filepath.Join(dstDir, "bin", "blob.dat"))
	assert.FileExists(t, filepath.Join(dstDir, ManifestName))
}

func TestBuildSearchPathShadowsBuiltin(t *testing.T) {
	builtins := fstest.MapFS{
		"web_service/file.txt": &fstest.MapFile{Data: []byte("builtin\n")},
	}

	testCatalog, err := Build([]string{"testdata/templates"}, builtins)
	require.NoError(t, err)

	descriptor, err := testCatalog.Resolve("web_service")
	require.NoError(t, err)
	assert.Equal(t, "Web service template", descriptor.Description)
}

// writeArchive creates a gzipped tar archive with the given entries.
func writeArchive(t *testing.T, archivePath string, entries map[string]string) {
	t.Helper()

	archive, err := os.Create(archivePath)
	require.NoError(t, err)
	defer archive.Close()

	gzWriter := gzip.NewWriter(archive)
	tarWriter := tar.NewWriter(gzWriter)
	for name, content := range entries {
		require.NoError(t, tarWriter.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}))
		_, err = tarWriter.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzWriter.Close())
}

func TestBuildFromArchive(t *testing.T) {
	searchPath := t.TempDir()
	writeArchive(t, filepath.Join(searchPath, "packed_tpl.tgz"), map[string]string{
		ManifestName: "description: Packed\nvars:\n  - name: name\n    required: true\n",
		"main.txt":   "hello {{name}}\n",
	})

	testCatalog, err := Build([]string{searchPath}, nil)
	require.NoError(t, err)

	descriptor, err := testCatalog.Resolve("packed_tpl")
	require.NoError(t, err)
	assert.Equal(t, "Packed", descriptor.Description)
	require.Len(t, descriptor.Files, 1)
	assert.Equal(t, "main.txt", descriptor.Files[0].Path)

	dstDir := t.TempDir()
	require.NoError(t, descriptor.CopyTree(context.Background(), dstDir))
	content, err := os.ReadFile(filepath.Join(dstDir, "main.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello {{name}}\n", string(content))
}

func TestBuildArchiveDuplicatePath(t *testing.T) {
	searchPath := t.TempDir()
	archivePath := filepath.Join(searchPath, "dup_tpl.tar.gz")

	archive, err := os.Create(archivePath)
	require.NoError(t, err)
	gzWriter := gzip.NewWriter(archive)
	tarWriter := tar.NewWriter(gzWriter)
	for i := 0; i < 2; i++ {
		require.NoError(t, tarWriter.WriteHeader(&tar.Header{
			Name: "main.txt",
			Mode: 0o644,
			Size: 2,
		}))
		_, err = tarWriter.Write([]byte("x\n"))
		require.NoError(t, err)
	}
	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzWriter.Close())
	require.NoError(t, archive.Close())

	_, err = Build([]string{searchPath}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate path")
}

func TestBuildUndeclaredToken(t *testing.T) {
	searchPath := t.TempDir()
	templateDir := filepath.Join(searchPath, "leaky_tpl")
	require.NoError(t, os.Mkdir(templateDir, 0o755))
	manifest := "vars:\n  - name: app\n    required: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, ManifestName),
		[]byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "main.txt"),
		[]byte("{{app}} built by {{author}}\n"), 0o644))

	_, err := Build([]string{searchPath}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `references undeclared variable "author"`)
	assert.Contains(t, err.Error(), "main.txt")
}

func TestBuildUndeclaredTokenInName(t *testing.T) {
	searchPath := t.TempDir()
	templateDir := filepath.Join(searchPath, "leaky_tpl")
	require.NoError(t, os.Mkdir(templateDir, 0o755))
	manifest := "vars:\n  - name: app\n"
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, ManifestName),
		[]byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "{{owner}}.txt"),
		[]byte("plain\n"), 0o644))

	_, err := Build([]string{searchPath}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `references undeclared variable "owner"`)
}

func TestBuildCaseVariantTokensAreDeclared(t *testing.T) {
	searchPath := t.TempDir()
	templateDir := filepath.Join(searchPath, "variant_tpl")
	require.NoError(t, os.Mkdir(templateDir, 0o755))
	manifest := "vars:\n  - name: app\n    required: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, ManifestName),
		[]byte(manifest), 0o644))
	content := "{{app}} {{app_snake}} {{app_pascal}} and escaped {{{{app}}}}\n"
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "main.txt"),
		[]byte(content), 0o644))

	_, err := Build([]string{searchPath}, nil)
	require.NoError(t, err)
}

// A template without a manifest declares no schema, so its tokens are
// checked at render time only.
func TestBuildTokensWithoutManifestUnchecked(t *testing.T) {
	searchPath := t.TempDir()
	templateDir := filepath.Join(searchPath, "loose_tpl")
	require.NoError(t, os.Mkdir(templateDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "main.txt"),
		[]byte("{{anything}}\n"), 0o644))

	_, err := Build([]string{searchPath}, nil)
	require.NoError(t, err)
}

func TestBuildInvalidManifest(t *testing.T) {
	cases := []struct {
		name     string
		manifest string
		wantErr  string
	}{
		{
			"unknown rule",
			"vars:\n  - name: a\n    rule: camel-case\n",
			"unknown naming rule",
		},
		{
			"missing name",
			"vars:\n  - rule: identifier\n",
			"missing variable name",
		},
		{
			"duplicate declaration",
			"vars:\n  - name: a\n  - name: a\n",
			"declared twice",
		},
		{
			"case variant collision",
			"vars:\n  - name: app\n  - name: app_snake\n",
			"case variant",
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			searchPath := t.TempDir()
			templateDir := filepath.Join(searchPath, "bad_tpl")
			require.NoError(t, os.Mkdir(templateDir, 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(templateDir, ManifestName),
				[]byte(testCase.manifest), 0o644))
			require.NoError(t, os.WriteFile(filepath.Join(templateDir, "file.txt"),
				[]byte("x\n"), 0o644))

			_, err := Build([]string{searchPath}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.wantErr)
		})
	}
}
