package steps

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forge-cli/forge/cli/catalog"
	generate_ctx "github.com/forge-cli/forge/cli/generate/context"
	"github.com/forge-cli/forge/cli/generate/internal/project"
)

// newTestCtx builds a generation context resolving templates from
// testdata and a fresh materialization context.
func newTestCtx(t *testing.T, key, targetPath string,
	bindings map[string]string,
) (*generate_ctx.GenerateCtx, *project.Ctx) {
	t.Helper()

	testCatalog, err := catalog.Build([]string{"testdata"}, nil)
	require.NoError(t, err)

	genCtx := generate_ctx.GenerateCtx{
		Catalog:     testCatalog,
		TemplateKey: key,
		Variables:   bindings,
		TargetPath:  targetPath,
	}
	projCtx := project.NewCtx()

	t.Cleanup(func() {
		if projCtx.StagingPath != "" {
			os.RemoveAll(projCtx.StagingPath)
		}
	})

	return &genCtx, &projCtx
}

// runChain runs the given steps in order, stopping at the first error.
func runChain(genCtx *generate_ctx.GenerateCtx, projCtx *project.Ctx,
	chain ...Step,
) error {
	for _, step := range chain {
		if err := step.Run(context.Background(), genCtx, projCtx); err != nil {
			return err
		}
	}
	return nil
}

// stageChain is the part of the generation chain that prepares a
// rendered staged tree.
func stageChain() []Step {
	return []Step{
		ResolveTemplate{},
		ValidateVariables{},
		CreateStagingDir{},
		CopyTemplate{},
		RenderTree{},
	}
}
