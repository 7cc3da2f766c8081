package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/docmark/batch"
)

// NewBuildCommand creates the "build" command: markdown to packages.
func NewBuildCommand() *cobra.Command {
	var (
		fetchRemote  bool
		fetchTimeout time.Duration
		captions     bool
	)

	cmd := &cobra.Command{
		Use:   "build <file.md>...",
		Short: "Build packages from markdown",
		Long: `Build one or more .docx packages from markdown files. Local image
references resolve relative to each input file; remote references are
downloaded only when --fetch is set.

Examples:
  docmark build notes.md
  docmark build --fetch --captions -o build docs/*.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if fetchRemote {
				cfg.FetchRemote = true
			}
			if fetchTimeout > 0 {
				cfg.FetchTimeout = fetchTimeout
			}
			if captions {
				cfg.Captions = true
			}
			return report(batch.Process(cmd.Context(), cfg, batch.ModePackage, args))
		},
	}

	cmd.Flags().BoolVar(&fetchRemote, "fetch", false, "Download remote image references")
	cmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", 0, "Timeout per remote image download (default: 30s)")
	cmd.Flags().BoolVar(&captions, "captions", false, "Add a caption paragraph under images with alt text")
	return cmd
}
