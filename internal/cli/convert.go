package cli

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/docmark/batch"
)

// NewConvertCommand creates the "convert" command: packages to
// markdown plus extracted images.
func NewConvertCommand() *cobra.Command {
	var imageDir string

	cmd := &cobra.Command{
		Use:   "convert <file.docx>...",
		Short: "Convert packages to markdown",
		Long: `Convert one or more .docx packages to markdown. Embedded images are
extracted next to the markdown output and referenced by relative path.

Examples:
  docmark convert report.docx
  docmark convert -o build --images assets *.docx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if imageDir != "" {
				cfg.ImageDir = imageDir
			}
			return report(batch.Process(cmd.Context(), cfg, batch.ModeMarkdown, args))
		},
	}

	cmd.Flags().StringVar(&imageDir, "images", "", "Directory for extracted images, relative to the output directory (default: images)")
	return cmd
}
