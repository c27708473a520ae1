// Package project holds the working state of one in-flight project
// materialization.
package project

import (
	"fmt"

	"github.com/forge-cli/forge/cli/catalog"
	"github.com/forge-cli/forge/cli/render"
	"github.com/forge-cli/forge/cli/vars"
)

// FileRecord describes one generated file in a project manifest.
type FileRecord struct {
	// Path is a slash-separated path relative to the project root.
	Path string
	// Size is the file size in bytes.
	Size int64
	// SHA256 is a hex-encoded content hash.
	SHA256 string
}

// Ctx contains the state of one materialization request. It is owned
// exclusively by that request and never shared.
type Ctx struct {
	// Descriptor is the resolved template.
	Descriptor *catalog.TemplateDescriptor
	// Vars is the validated rendering context.
	Vars *vars.Context
	// Engine is a template engine to use for rendering.
	Engine render.Engine
	// StagingPath is a private directory the project is rendered
	// into before commit. Empty once the staged tree is promoted.
	StagingPath string
	// TargetPath is an absolute path the project is committed to.
	TargetPath string
	// Files is the manifest of staged files, sorted by path.
	Files []FileRecord
}

// NewCtx creates new materialization context.
func NewCtx() Ctx {
	return Ctx{Engine: render.NewEngine()}
}

// ConflictError is reported when the target path already contains
// content and the conflict policy forbids overwriting.
type ConflictError struct {
	// TargetPath is the requested target path.
	TargetPath string
	// Conflicting is the colliding path.
	Conflicting string
}

// Error returns error message.
func (e ConflictError) Error() string {
	return fmt.Sprintf("target %q already exists: conflicting path %q",
		e.TargetPath, e.Conflicting)
}

// StagingError wraps a file-system failure during staging.
type StagingError struct {
	Err error
}

// Error returns error message.
func (e StagingError) Error() string {
	return fmt.Sprintf("staging failed: %s", e.Err)
}

// Unwrap returns the underlying error.
func (e StagingError) Unwrap() error {
	return e.Err
}

// CommitError wraps a file-system failure during commit.
type CommitError struct {
	Err error
}

// Error returns error message.
func (e CommitError) Error() string {
	return fmt.Sprintf("commit failed: %s", e.Err)
}

// Unwrap returns the underlying error.
func (e CommitError) Unwrap() error {
	return e.Err
}
