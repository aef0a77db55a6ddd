// Package cli implements the docfold command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docfold/docfold-cli/internal/adapters/driven/config/file"
	"github.com/docfold/docfold-cli/internal/core/ports/driven"
	"github.com/docfold/docfold-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "0.1.0"

var verbose bool

// configStore provides persisted defaults for command flags.
// It is wired by Execute and replaceable in tests.
var configStore driven.ConfigStore

var rootCmd = &cobra.Command{
	Use:   "docfold",
	Short: "Incremental documentation generator for source trees",
	Long: `docfold scans a source tree, analyzes changed files with an LLM-backed
analyzer and writes Markdown documentation, OpenAPI descriptions and
interactive API viewers under <root>/docs/.

Files are fingerprinted by content, so repeated runs only re-analyze
what actually changed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

// Execute wires default adapters and runs the root command.
func Execute(ctx context.Context) error {
	if configStore == nil {
		store, err := file.NewConfigStore("")
		if err != nil {
			return fmt.Errorf("opening config: %w", err)
		}
		configStore = store
	}
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Config lookups tolerate a missing store so commands stay usable in
// tests that never wire one.

func cfgString(key string) string {
	if configStore == nil {
		return ""
	}
	return configStore.GetString(key)
}

func cfgInt(key string) int {
	if configStore == nil {
		return 0
	}
	return configStore.GetInt(key)
}

func cfgFloat(key string) float64 {
	if configStore == nil {
		return 0
	}
	return configStore.GetFloat(key)
}

func cfgStringSlice(key string) []string {
	if configStore == nil {
		return nil
	}
	return configStore.GetStringSlice(key)
}
