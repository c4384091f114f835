package cmd

import (
	"github.com/spf13/cobra"
)

// deobfuscateCmd represents the base command for deobfuscation actions.
var deobfuscateCmd = &cobra.Command{
	Use:   "deobfuscate",
	Short: "Deobfuscates JavaScript code",
	Long: `Provides subcommands to deobfuscate individual files or entire directories.

Example:
  js-deobfuscator deobfuscate file payload.js -o clean.js
  js-deobfuscator deobfuscate dir ./obfuscated -o ./clean`,
}

func init() {
	rootCmd.AddCommand(deobfuscateCmd)
}
