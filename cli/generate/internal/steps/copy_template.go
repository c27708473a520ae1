package steps

import (
	"context"
	"os"
	"path/filepath"

	"github.com/apex/log"

	"github.com/forge-cli/forge/cli/catalog"
	generate_ctx "github.com/forge-cli/forge/cli/generate/context"
	"github.com/forge-cli/forge/cli/generate/internal/project"
)

// CopyTemplate represents template tree copy step.
type CopyTemplate struct{}

// Run copies the template file tree into the staging directory and
// drops the manifest sidecar, which is never part of the generated
// project.
func (CopyTemplate) Run(ctx context.Context, genCtx *generate_ctx.GenerateCtx,
	projCtx *project.Ctx,
) error {
	log.Debugf("Copying template %q to %q", projCtx.Descriptor.Key, projCtx.StagingPath)
	if err := projCtx.Descriptor.CopyTree(ctx, projCtx.StagingPath); err != nil {
		return project.StagingError{Err: err}
	}

	manifestPath := filepath.Join(projCtx.StagingPath, catalog.ManifestName)
	if err := os.Remove(manifestPath); err != nil && !os.IsNotExist(err) {
		return project.StagingError{Err: err}
	}
	return nil
}
