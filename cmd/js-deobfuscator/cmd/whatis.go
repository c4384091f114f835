package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/jsmix/internal/deobfuscator"
)

var whatisTargetDir string

// whatisCmd represents the whatis command.
var whatisCmd = &cobra.Command{
	Use:   "whatis <generated_name>",
	Short: "Looks up the obfuscated original behind a generated name",
	Long: `Loads the rename context saved by a previous 'deobfuscate dir' run and
prints the obfuscated identifier a generated name (v1, f2, ...) replaced.

You must specify the output directory of that run using --target-dir (-t).`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if whatisTargetDir == "" {
			return fmt.Errorf("--target-dir (-t) flag is required")
		}
		info, err := os.Stat(whatisTargetDir)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("target directory '%s' not found", whatisTargetDir)
			}
			return fmt.Errorf("error checking target directory '%s': %w", whatisTargetDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("target path '%s' is not a directory", whatisTargetDir)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		generatedName := args[0]
		cmd.SilenceUsage = true

		octx, err := deobfuscator.NewContext(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize context: %w", err)
		}
		if err := octx.Load(whatisTargetDir); err != nil {
			return fmt.Errorf("error loading rename context from %s: %w", whatisTargetDir, err)
		}

		original, found := octx.Renamer.ReverseLookup(generatedName)
		if !found {
			fmt.Fprintf(os.Stderr, "Error: Name '%s' not found in the loaded context.\n", generatedName)
			return fmt.Errorf("name not found")
		}

		fmt.Printf("Found: '%s'\n", original)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whatisCmd)
	whatisCmd.Flags().StringVarP(&whatisTargetDir, "target-dir", "t", "", "Output directory of a previous deobfuscate run (required)")
}
