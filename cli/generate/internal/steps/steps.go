// Package steps provides a set of handlers for the project generation
// chain of responsibility.
package steps

import (
	"context"

	generate_ctx "github.com/forge-cli/forge/cli/generate/context"
	"github.com/forge-cli/forge/cli/generate/internal/project"
)

// Step is an interface for single step in generation chain.
type Step interface {
	Run(ctx context.Context, genCtx *generate_ctx.GenerateCtx, projCtx *project.Ctx) error
}
