package steps

import (
	"context"

	"github.com/apex/log"

	generate_ctx "github.com/forge-cli/forge/cli/generate/context"
	"github.com/forge-cli/forge/cli/generate/internal/project"
	"github.com/forge-cli/forge/cli/vars"
)

// ValidateVariables represents the variable validation step.
type ValidateVariables struct{}

// Run validates supplied bindings against the template schema and
// builds the rendering context. Undeclared bindings are reported as
// warnings.
func (ValidateVariables) Run(ctx context.Context, genCtx *generate_ctx.GenerateCtx,
	projCtx *project.Ctx,
) error {
	varsCtx, err := vars.Validate(projCtx.Descriptor.Schema, genCtx.Variables)
	if err != nil {
		return err
	}

	for _, warning := range varsCtx.Warnings {
		log.Warnf("%s", warning)
	}

	projCtx.Vars = varsCtx
	return nil
}
