package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/otiai10/copy"

	generate_ctx "github.com/forge-cli/forge/cli/generate/context"
	"github.com/forge-cli/forge/cli/generate/internal/project"
	"github.com/forge-cli/forge/cli/util"
)

// Commit represents the staged tree promotion step. It is a short
// critical section: cancellation is not checked here.
type Commit struct{}

// Run checks the conflict policy and promotes the staged tree to the
// target path. The tree becomes visible as a single rename, so a
// concurrent reader never observes a partially written target.
func (Commit) Run(ctx context.Context, genCtx *generate_ctx.GenerateCtx,
	projCtx *project.Ctx,
) error {
	targetPath := projCtx.TargetPath

	exists, err := checkConflict(targetPath, genCtx.ConflictPolicy)
	if err != nil {
		return err
	}

	if err := util.CreateDirectory(filepath.Dir(targetPath), 0o755); err != nil {
		return project.CommitError{Err: err}
	}

	if err := promote(projCtx.StagingPath, targetPath, exists); err != nil {
		return project.CommitError{Err: err}
	}

	projCtx.StagingPath = ""
	return nil
}

// checkConflict probes the target path against the conflict policy.
// Returns true if the target path exists.
func checkConflict(targetPath string, policy generate_ctx.ConflictPolicy) (bool, error) {
	stat, err := os.Lstat(targetPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, project.CommitError{Err: err}
	}

	if policy == generate_ctx.ConflictOverwrite {
		return true, nil
	}

	if !stat.IsDir() {
		return true, project.ConflictError{TargetPath: targetPath, Conflicting: targetPath}
	}
	entries, err := os.ReadDir(targetPath)
	if err != nil {
		return true, project.CommitError{Err: err}
	}
	if len(entries) > 0 {
		return true, project.ConflictError{
			TargetPath:  targetPath,
			Conflicting: filepath.Join(targetPath, entries[0].Name()),
		}
	}

	// An existing empty directory is not a conflict.
	return true, nil
}

// promote makes the staged tree visible at targetPath. If the staging
// directory is on another file system, the tree is first copied to a
// hidden sibling of the target, so the visible step is still a single
// rename. An existing target is moved aside before the rename and is
// restored if the rename fails.
func promote(stagingPath, targetPath string, targetExists bool) error {
	var oldPath string
	if targetExists {
		trashDir, err := os.MkdirTemp(filepath.Dir(targetPath), ".forge-old-*")
		if err != nil {
			return err
		}
		oldPath = filepath.Join(trashDir, "old")
		if err := os.Rename(targetPath, oldPath); err != nil {
			os.RemoveAll(trashDir)
			return err
		}
		defer os.RemoveAll(trashDir)
	}

	err := os.Rename(stagingPath, targetPath)
	if err != nil {
		// Rename across file systems is not possible. Copy the tree
		// next to the target and rename from there.
		err = promoteByCopy(stagingPath, targetPath)
	}
	if err != nil {
		if oldPath != "" {
			if restoreErr := os.Rename(oldPath, targetPath); restoreErr != nil {
				log.Errorf("Failed to restore %q: %s", targetPath, restoreErr)
			}
		}
		return err
	}

	return nil
}

func promoteByCopy(stagingPath, targetPath string) error {
	transitDir, err := os.MkdirTemp(filepath.Dir(targetPath), ".forge-staging-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(transitDir)

	transitTree := filepath.Join(transitDir, "tree")
	if err := copy.Copy(stagingPath, transitTree); err != nil {
		return fmt.Errorf("failed to copy staged tree: %s", err)
	}
	if err := os.Rename(transitTree, targetPath); err != nil {
		return err
	}

	if err := os.RemoveAll(stagingPath); err != nil {
		log.Warnf("Failed to remove staging directory: %s", err)
	}
	return nil
}
