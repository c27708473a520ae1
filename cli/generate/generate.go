// Package generate materializes a project from a catalog template:
// it resolves the template, validates variable bindings, renders the
// file tree into a private staging directory and promotes it to the
// target path as a single logical operation.
package generate

import (
	"context"
	"fmt"
	"os"

	generate_ctx "github.com/forge-cli/forge/cli/generate/context"
	"github.com/forge-cli/forge/cli/generate/internal/project"
	"github.com/forge-cli/forge/cli/generate/internal/steps"
)

// FileRecord describes one generated file in a project manifest.
type FileRecord = project.FileRecord

// Typed failures of staging and commit. ConflictError is returned when
// the target path already contains content and the conflict policy is
// abort.
type (
	ConflictError = project.ConflictError
	StagingError  = project.StagingError
	CommitError   = project.CommitError
)

// GeneratedProject is the result of a successful materialization.
type GeneratedProject struct {
	// Root is the absolute path of the generated project.
	Root string
	// Files is an ordered manifest of generated files.
	Files []FileRecord
}

// rollbackOnErr removes the staging directory of a failed request.
func rollbackOnErr(projCtx *project.Ctx) {
	if projCtx.StagingPath != "" {
		os.RemoveAll(projCtx.StagingPath)
	}
	projCtx.StagingPath = ""
}

// Run materializes a project described by genCtx. On any failure the
// staging directory is discarded and the target path is left exactly
// as it was before the call. The request may be cancelled through ctx
// at any point before the commit step starts.
func Run(ctx context.Context, genCtx *generate_ctx.GenerateCtx) (*GeneratedProject, error) {
	if err := checkCtx(genCtx); err != nil {
		return nil, err
	}

	stepsChain := []steps.Step{
		steps.ResolveTemplate{},
		steps.ValidateVariables{},
		steps.CreateStagingDir{},
		steps.CopyTemplate{},
		steps.RenderTree{},
		steps.BuildManifest{},
		steps.Commit{},
	}

	projCtx := project.NewCtx()
	for _, step := range stepsChain {
		if err := ctx.Err(); err != nil {
			rollbackOnErr(&projCtx)
			return nil, err
		}
		if err := step.Run(ctx, genCtx, &projCtx); err != nil {
			rollbackOnErr(&projCtx)
			return nil, err
		}
	}

	return &GeneratedProject{Root: projCtx.TargetPath, Files: projCtx.Files}, nil
}

// checkCtx checks generate context for validity.
func checkCtx(genCtx *generate_ctx.GenerateCtx) error {
	if genCtx.Catalog == nil {
		return fmt.Errorf("catalog is missing")
	}
	if genCtx.TemplateKey == "" {
		return fmt.Errorf("template key is missing")
	}
	if genCtx.TargetPath == "" {
		return fmt.Errorf("target path is missing")
	}
	return nil
}
