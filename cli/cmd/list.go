package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/forge-cli/forge/cli/builtin_templates"
	"github.com/forge-cli/forge/cli/catalog"
	"github.com/forge-cli/forge/cli/util"
)

// NewListCmd lists available templates.
func NewListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Run: func(cmd *cobra.Command, args []string) {
			err := runList()
			util.HandleCmdErr(cmd, err)
		},
		Args: cobra.ExactArgs(0),
	}

	return listCmd
}

// runList implements the list command.
func runList() error {
	builtins, err := builtin_templates.Root()
	if err != nil {
		return err
	}
	templateCatalog, err := catalog.Build(templateSearchPaths(), builtins)
	if err != nil {
		return err
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(os.Stdout)
	writer.AppendHeader(table.Row{"Template", "Description", "Files"})
	for _, key := range templateCatalog.Keys() {
		descriptor, err := templateCatalog.Resolve(key)
		if err != nil {
			return err
		}
		writer.AppendRow(table.Row{key, descriptor.Description, len(descriptor.Files)})
	}
	writer.SetStyle(table.StyleLight)
	writer.Render()

	return nil
}
