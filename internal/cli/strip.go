package cli

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/docmark/batch"
)

// NewStripCommand creates the "strip" command: remove all images from
// packages.
func NewStripCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strip <file.docx>...",
		Short: "Remove all images from packages",
		Long: `Rewrite one or more .docx packages with every image removed: the
drawing elements, the image relationships, and the stored media files.
Everything else in each package is preserved byte-for-byte.

Output files are named <input>_noimages.docx.

Examples:
  docmark strip report.docx
  docmark strip -o clean *.docx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return report(batch.Process(cmd.Context(), cfg, batch.ModeStrip, args))
		},
	}

	return cmd
}
