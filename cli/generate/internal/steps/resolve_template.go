package steps

import (
	"context"

	"github.com/apex/log"

	generate_ctx "github.com/forge-cli/forge/cli/generate/context"
	"github.com/forge-cli/forge/cli/generate/internal/project"
)

// ResolveTemplate represents the catalog lookup step.
type ResolveTemplate struct{}

// Run resolves the requested template key against the catalog.
func (ResolveTemplate) Run(ctx context.Context, genCtx *generate_ctx.GenerateCtx,
	projCtx *project.Ctx,
) error {
	descriptor, err := genCtx.Catalog.Resolve(genCtx.TemplateKey)
	if err != nil {
		return err
	}

	log.Infof("Using template %q", descriptor.Key)
	projCtx.Descriptor = descriptor
	return nil
}
