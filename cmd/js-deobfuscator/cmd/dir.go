package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/jsmix/internal/deobfuscator"
)

var outputDir string // Flag variable for output directory path

// dirCmd represents the deobfuscate dir command.
var dirCmd = &cobra.Command{
	Use:   "dir <source_directory>",
	Short: "Deobfuscate all JavaScript files in a directory",
	Long: `Recursively processes a directory: JavaScript files are deobfuscated,
other files are copied unchanged, and paths on the configured skip list
are ignored. The rename context is persisted in the output directory so
'whatis' can trace generated names back to the originals.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		cmd.SilenceUsage = true
		inputDir := args[0]

		if outputDir == "" {
			return fmt.Errorf("--output (-o) flag is required")
		}

		octx, err := deobfuscator.NewContext(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize deobfuscation context: %w", err)
		}

		if err := deobfuscator.ProcessDirectory(inputDir, outputDir, octx); err != nil {
			return fmt.Errorf("error processing directory %s: %w", inputDir, err)
		}
		return nil
	},
}

func init() {
	deobfuscateCmd.AddCommand(dirCmd)
	dirCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory path (required)")
}
