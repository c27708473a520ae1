package steps

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildManifest(t *testing.T) {
	targetPath := filepath.Join(t.TempDir(), "app1")
	genCtx, projCtx := newTestCtx(t, "web_service", targetPath,
		map[string]string{"project_name": "my-service"})

	require.NoError(t, runChain(genCtx, projCtx, stageChain()...))
	require.NoError(t, runChain(genCtx, projCtx, BuildManifest{}))

	paths := make([]string, 0, len(projCtx.Files))
	for _, record := range projCtx.Files {
		paths = append(paths, record.Path)
	}
	assert.Equal(t, []string{
		"README.md",
		"assets/logo.bin",
		"my-service.conf",
		"service.env",
		"src/my_service/main.txt",
	}, paths)
	assert.True(t, sort.StringsAreSorted(paths))

	for _, record := range projCtx.Files {
		if record.Path != "my-service.conf" {
			continue
		}
		expected := "name=my-service\n"
		assert.Equal(t, int64(len(expected)), record.Size)
		assert.Equal(t, fmt.Sprintf("%x", sha256.Sum256([]byte(expected))),
			record.SHA256)
	}
}
