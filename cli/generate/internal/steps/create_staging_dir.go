package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"

	generate_ctx "github.com/forge-cli/forge/cli/generate/context"
	"github.com/forge-cli/forge/cli/generate/internal/project"
)

// CreateStagingDir represents the staging directory creation step.
type CreateStagingDir struct{}

// Run creates a private staging directory for the request. The staged
// tree is rendered there and is promoted to the target path only on
// full success, so the target path stays untouched until commit.
func (CreateStagingDir) Run(ctx context.Context, genCtx *generate_ctx.GenerateCtx,
	projCtx *project.Ctx,
) error {
	if genCtx.TargetPath == "" {
		return fmt.Errorf("target path cannot be empty")
	}

	targetPath, err := filepath.Abs(genCtx.TargetPath)
	if err != nil {
		return err
	}
	projCtx.TargetPath = targetPath
	log.Infof("Creating project in %q", targetPath)

	projCtx.StagingPath, err = os.MkdirTemp("", "forge-staging-*")
	if err != nil {
		return project.StagingError{
			Err: fmt.Errorf("failed to create staging directory: %s", err),
		}
	}
	return nil
}
