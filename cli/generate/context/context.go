// Package context provides generation request context.
package context

import (
	"github.com/forge-cli/forge/cli/catalog"
)

// ConflictPolicy selects the behavior when the target path already
// contains content.
type ConflictPolicy int

const (
	// ConflictAbort fails generation if the target path exists and is
	// not empty.
	ConflictAbort ConflictPolicy = iota
	// ConflictOverwrite replaces the existing target path content.
	ConflictOverwrite
)

// GenerateCtx describes one project generation request.
type GenerateCtx struct {
	// Catalog is the template catalog to resolve the key against.
	Catalog *catalog.Catalog
	// TemplateKey selects the template.
	TemplateKey string
	// Variables are user-supplied variable bindings.
	Variables map[string]string
	// TargetPath is a path the generated project is written to.
	TargetPath string
	// ConflictPolicy selects the behavior when TargetPath already
	// contains content.
	ConflictPolicy ConflictPolicy
}
