package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/forge-cli/forge/cli/builtin_templates"
	"github.com/forge-cli/forge/cli/catalog"
	"github.com/forge-cli/forge/cli/generate"
	generate_ctx "github.com/forge-cli/forge/cli/generate/context"
	"github.com/forge-cli/forge/cli/util"
	"github.com/forge-cli/forge/cli/vars"
)

var (
	varsFromCli []string
	varsFile    string
	forceMode   bool
)

// NewNewCmd creates a project from a template.
func NewNewCmd() *cobra.Command {
	newCmd := &cobra.Command{
		Use:   "new <TEMPLATE_NAME> <TARGET_DIR> [flags]",
		Short: "Generate a project from a template",
		Long: `Generate a project from a template.

Built-in templates:
	go_http: Go HTTP service with a single health endpoint.
	python_flask: Python Flask web application.
	rust_cli: Rust command-line application.`,
		Example: `
# Generate a Go HTTP service in ./my-service.

    $ forge new go_http ./my-service --var project_name=my-service`,
		Run: func(cmd *cobra.Command, args []string) {
			err := runNew(args)
			util.HandleCmdErr(cmd, err)
		},
		Args: cobra.ExactArgs(2),
	}

	newCmd.Flags().StringArrayVar(&varsFromCli, "var", nil,
		`Variable definition. Usage: --var "var-name=value"`)
	newCmd.Flags().StringVar(&varsFile, "vars-file", "",
		"Path to a file with variable definitions, one name=value per line")
	newCmd.Flags().BoolVarP(&forceMode, "force", "f", false,
		"Overwrite the target directory if it exists")

	return newCmd
}

// collectBindings merges variable definitions from the vars file and
// the command line. Command line definitions win. A malformed
// definition is an argument error.
func collectBindings() (map[string]string, error) {
	bindings := make(map[string]string)

	if varsFile != "" {
		if !util.IsRegularFile(varsFile) {
			return nil, util.NewArgError(
				fmt.Sprintf("vars file %q does not exist", varsFile))
		}
		fileBindings, err := vars.LoadDefinitionsFile(varsFile)
		if err != nil {
			return nil, util.NewArgError(err.Error())
		}
		for name, value := range fileBindings {
			bindings[name] = value
		}
	}

	cliBindings, err := vars.ParseDefinitions(varsFromCli)
	if err != nil {
		return nil, util.NewArgError(err.Error())
	}
	for name, value := range cliBindings {
		bindings[name] = value
	}

	return bindings, nil
}

// runNew implements the new command.
func runNew(args []string) error {
	builtins, err := builtin_templates.Root()
	if err != nil {
		return err
	}
	templateCatalog, err := catalog.Build(templateSearchPaths(), builtins)
	if err != nil {
		return err
	}

	bindings, err := collectBindings()
	if err != nil {
		return err
	}

	conflictPolicy := generate_ctx.ConflictAbort
	if forceMode {
		conflictPolicy = generate_ctx.ConflictOverwrite
	}

	genCtx := generate_ctx.GenerateCtx{
		Catalog:        templateCatalog,
		TemplateKey:    args[0],
		Variables:      bindings,
		TargetPath:     args[1],
		ConflictPolicy: conflictPolicy,
	}

	result, err := generate.Run(context.Background(), &genCtx)
	if err != nil {
		return err
	}

	color.Green("Project generated in %s (%d files)", result.Root, len(result.Files))
	if verbose {
		for _, file := range result.Files {
			fmt.Printf("  %s (%d bytes)\n", file.Path, file.Size)
		}
	}
	return nil
}
