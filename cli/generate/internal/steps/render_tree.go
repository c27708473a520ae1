package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"

	generate_ctx "github.com/forge-cli/forge/cli/generate/context"
	"github.com/forge-cli/forge/cli/generate/internal/project"
	"github.com/forge-cli/forge/cli/render"
)

// RenderTree represents the template rendering step: placeholder
// substitution in file contents and in file and directory names,
// applied to the staged tree.
type RenderTree struct{}

// templateSuffix is dropped from file names during rendering. It lets
// a template ship files, such as go.mod, that cannot be stored under
// their real name inside an embedded template tree.
const templateSuffix = ".tpl"

// Run renders the staged template tree in place.
func (RenderTree) Run(ctx context.Context, genCtx *generate_ctx.GenerateCtx,
	projCtx *project.Ctx,
) error {
	if err := renderContents(ctx, projCtx); err != nil {
		return err
	}
	return renderNames(ctx, projCtx)
}

// renderContents substitutes placeholders in every staged regular file.
// Files classified as binary keep their content verbatim.
func renderContents(ctx context.Context, projCtx *project.Ctx) error {
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

			relPath := stagingRelPath(projCtx.StagingPath, filePath)
			if projCtx.Descriptor.IsBinary(relPath) {
				log.Debugf("Skipping substitution in binary file %q", relPath)
				return nil
			}

			if err := projCtx.Engine.RenderFile(filePath, filePath,
				projCtx.Vars.Values); err != nil {
				if undefErr, ok := asUndefinedVariable(err); ok {
					undefErr.File = relPath
					return undefErr
				}
				return project.StagingError{Err: err}
			}
			return nil
		})
}

// renderNames substitutes placeholders in file and directory names and
// drops the template suffix. Entries are renamed deepest-first, so a
// directory rename never invalidates the recorded paths of its
// children.
func renderNames(ctx context.Context, projCtx *project.Ctx) error {
	var entries []string
	err := filepath.Walk(projCtx.StagingPath,
		func(filePath string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return project.StagingError{Err: err}
			}
			if filePath != projCtx.StagingPath {
				entries = append(entries, filePath)
			}
			return nil
		})
	if err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.Count(entries[i], string(os.PathSeparator)) >
			strings.Count(entries[j], string(os.PathSeparator))
	})

	for _, entryPath := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		baseName := filepath.Base(entryPath)
		newName, err := projCtx.Engine.RenderText(baseName, projCtx.Vars.Values)
		if err != nil {
			if undefErr, ok := asUndefinedVariable(err); ok {
				undefErr.File = stagingRelPath(projCtx.StagingPath, entryPath)
				return undefErr
			}
			return project.StagingError{Err: err}
		}
		if trimmed := strings.TrimSuffix(newName, templateSuffix); trimmed != "" {
			newName = trimmed
		}
		if newName == baseName {
			continue
		}

		newPath := filepath.Join(filepath.Dir(entryPath), newName)
		if _, err := os.Lstat(newPath); err == nil {
			return project.StagingError{
				Err: fmt.Errorf("rendered name of %q collides with existing path %q",
					stagingRelPath(projCtx.StagingPath, entryPath),
					stagingRelPath(projCtx.StagingPath, newPath)),
			}
		}
		log.Debugf("Renaming %q to %q", baseName, newName)
		if err := os.Rename(entryPath, newPath); err != nil {
			return project.StagingError{
				Err: fmt.Errorf("error renaming %s to %s: %s", entryPath, newPath, err),
			}
		}
	}

	return nil
}

// stagingRelPath converts an absolute staged path to a slash-separated
// path relative to the staging root.
func stagingRelPath(stagingPath, filePath string) string {
	relPath, err := filepath.Rel(stagingPath, filePath)
	if err != nil {
		return filePath
	}
	return filepath.ToSlash(relPath)
}

// asUndefinedVariable extracts an UndefinedVariableError by value.
func asUndefinedVariable(err error) (render.UndefinedVariableError, bool) {
	undefErr, ok := err.(render.UndefinedVariableError)
	return undefErr, ok
}
