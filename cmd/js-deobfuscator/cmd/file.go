package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/jsmix/internal/deobfuscator"
)

var outputFile string // Flag variable for output file path

// fileCmd represents the deobfuscate file command.
var fileCmd = &cobra.Command{
	Use:   "file <js_file_path>",
	Short: "Deobfuscate a single JavaScript file",
	Long: `Reads a single JavaScript file, applies the configured deobfuscation
passes, and outputs the result to stdout or a specified file. The
transformation log and confidence score go to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		cmd.SilenceUsage = true
		filePath := args[0]

		// Single file runs use a fresh context; no rename map persistence.
		octx, err := deobfuscator.NewContext(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize deobfuscation context: %w", err)
		}

		result, err := deobfuscator.ProcessFile(filePath, octx)
		if err != nil {
			return fmt.Errorf("error processing file %s: %w", filePath, err)
		}

		if !cfg.Silent {
			for _, entry := range result.Transformations {
				fmt.Fprintf(os.Stderr, "  %s\n", entry)
			}
			for _, warning := range result.Warnings {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
			}
			fmt.Fprintf(os.Stderr, "Confidence: %.2f\n", result.Confidence)
		}

		// A failed pipeline still produced a result object; report it but
		// exit zero only when there is usable output.
		if !result.Success {
			return fmt.Errorf("deobfuscation of %s failed", filePath)
		}

		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(result.Code), 0o644); err != nil {
				return fmt.Errorf("error writing to output file %s: %w", outputFile, err)
			}
			if !cfg.Silent {
				fmt.Fprintf(os.Stderr, "Info: Wrote output to %s\n", outputFile)
			}
		} else {
			fmt.Print(result.Code)
		}
		return nil
	},
}

func init() {
	deobfuscateCmd.AddCommand(fileCmd)
	fileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default: stdout)")
}
