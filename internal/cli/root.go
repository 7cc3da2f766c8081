// Package cli implements the cobra commands for the docmark binary.
// Each subcommand (convert, build, strip) lives in its own file; this
// file holds the root command and the flags shared by all of them.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/docmark"
	"github.com/tsawler/docmark/batch"
)

// Flags shared by every subcommand, bound as persistent flags on the
// root command.
var (
	configPath string
	outputDir  string
	workers    int
	verbose    bool
)

// NewRootCommand builds the root command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docmark",
		Short: "Convert word-processing documents to markdown and back",
		Long: `docmark converts .docx packages to markdown, builds .docx packages
from markdown, and strips images from existing packages.

Conversions run concurrently when multiple inputs are given; each input
is processed independently, so one bad file never aborts the run.`,
		Version:       docmark.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "out", "o", "", "Output directory (default: current directory)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Concurrent conversions (default: 4)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print per-file warnings")

	rootCmd.AddCommand(NewConvertCommand())
	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewStripCommand())

	return rootCmd
}

// Execute runs the root command and exits non-zero on error.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig merges the config file, defaults, and flag overrides.
func loadConfig() (batch.Config, error) {
	cfg := batch.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = batch.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	return cfg, nil
}

// report prints results and returns an error when any input failed.
func report(results []batch.Result) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Input, r.Err)
			continue
		}
		fmt.Printf("%s -> %s\n", r.Input, r.Output)
		if verbose && len(r.Warnings) > 0 {
			fmt.Fprintf(os.Stderr, "%s: %s\n", r.Input, docmark.FormatWarnings(r.Warnings))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}
