package cmd

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
)

var (
	verbose       bool
	templatesDirs []string

	rootCmd *cobra.Command
)

// templateSearchPaths returns templates locations to scan, in lookup
// order: --templates-dir flags first, then the FORGE_TEMPLATES
// environment variable entries.
func templateSearchPaths() []string {
	searchPaths := append([]string{}, templatesDirs...)
	for _, envPath := range filepath.SplitList(os.Getenv("FORGE_TEMPLATES")) {
		if envPath != "" {
			searchPaths = append(searchPaths, envPath)
		}
	}
	return searchPaths
}

// NewCmdRoot creates a new root command.
func NewCmdRoot() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "forge",
		Short: "Forge CLI",
		Long:  "Utility for generating starter projects from templates",
		Example: `$ forge new go_http ./my-service --var project_name=my-service
  $ forge list`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V",
		false, "Verbose output")
	rootCmd.PersistentFlags().StringArrayVarP(&templatesDirs, "templates-dir", "T",
		nil, "Location of templates, may be specified multiple times")

	rootCmd.AddCommand(
		NewNewCmd(),
		NewListCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}

// Execute root command.
func Execute() {
	log.SetHandler(cli.Default)

	rootCmd = NewCmdRoot()
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf(err.Error())
	}
}
