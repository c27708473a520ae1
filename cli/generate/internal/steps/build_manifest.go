package steps

import (
	"context"
	"os"
	"path/filepath"

	generate_ctx "github.com/forge-cli/forge/cli/generate/context"
	"github.com/forge-cli/forge/cli/generate/internal/project"
	"github.com/forge-cli/forge/cli/util"
)

// BuildManifest represents the manifest build step.
type BuildManifest struct{}

// Run records every staged regular file with its size and content hash.
// The walk is lexical, so the manifest order is deterministic.
func (BuildManifest) Run(ctx context.Context, genCtx *generate_ctx.GenerateCtx,
	projCtx *project.Ctx,
) error {
	return filepath.Walk(projCtx.StagingPath,
		func(filePath string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return project.StagingError{Err: err}
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if !fileInfo.Mode().IsRegular() {
				return nil
			}

			hash, err := util.FileSHA256Hex(filePath)
			if err != nil {
				return project.StagingError{Err: err}
			}
			projCtx.Files = append(projCtx.Files, project.FileRecord{
				Path:   stagingRelPath(projCtx.StagingPath, filePath),
				Size:   fileInfo.Size(),
				SHA256: hash,
			})
			return nil
		})
}
