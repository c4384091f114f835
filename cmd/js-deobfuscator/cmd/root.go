// Package cmd implements the command line interface for the application.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/jsmix/internal/config"
	"github.com/whit3rabbit/jsmix/internal/utils"
)

var (
	cfgFile string         // Config file path from the flag
	cfg     *config.Config // Loaded configuration shared by subcommands

	// Flag variables mapped to config fields for override
	silentMode     bool // -> cfg.Silent
	abortOnError   bool // -> cfg.AbortOnError
	removeDeadCode bool // -> cfg.Deobfuscation.DeadCode.Enabled
	restoreFlow    bool // -> cfg.Deobfuscation.ControlFlow.Enabled
	decryptStrings bool // -> cfg.Deobfuscation.Strings.Enabled
	simplifyExprs  bool // -> cfg.Deobfuscation.Expressions.Enabled
	renameIdents   bool // -> cfg.Deobfuscation.Rename.Enabled
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "js-deobfuscator",
	Short: "A CLI tool to deobfuscate JavaScript code.",
	Long: `js-deobfuscator reverses common obfuscation techniques in JavaScript:
anti-debugging traps, string-array decoders, flattened control flow,
constant-condition dead code and machine-generated identifier names.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil { // Only load config once
			loadedCfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}
			cfg = loadedCfg

			// Apply command-line flag overrides after loading the file.
			applyFlagOverrides(cfg, cmd)

			if err := utils.InitLogger(cfg); err != nil {
				return fmt.Errorf("error initializing logging: %w", err)
			}
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// applyFlagOverrides applies command-line flag values to the config struct.
// Only flags the user explicitly set override the file.
func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) {
	if cmd.Flags().Changed("silent") {
		cfg.Silent = silentMode
	}
	if cmd.Flags().Changed("abort-on-error") {
		cfg.AbortOnError = abortOnError
	}
	if cmd.Flags().Changed("dead-code") {
		cfg.Deobfuscation.DeadCode.Enabled = removeDeadCode
	}
	if cmd.Flags().Changed("control-flow") {
		cfg.Deobfuscation.ControlFlow.Enabled = restoreFlow
	}
	if cmd.Flags().Changed("decrypt-strings") {
		cfg.Deobfuscation.Strings.Enabled = decryptStrings
	}
	if cmd.Flags().Changed("simplify-expressions") {
		cfg.Deobfuscation.Expressions.Enabled = simplifyExprs
	}
	if cmd.Flags().Changed("rename") {
		cfg.Deobfuscation.Rename.Enabled = renameIdents
	}
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error; exit non-zero.
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")

	rootCmd.PersistentFlags().BoolVarP(&silentMode, "silent", "s", false, "Suppress informational output (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&abortOnError, "abort-on-error", false, "Stop directory processing on the first error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&removeDeadCode, "dead-code", true, "Enable/disable dead code elimination (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&restoreFlow, "control-flow", true, "Enable/disable control flow restoration (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&decryptStrings, "decrypt-strings", true, "Enable/disable string decryption (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&simplifyExprs, "simplify-expressions", true, "Enable/disable expression simplification (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&renameIdents, "rename", true, "Enable/disable identifier renaming (overrides config)")
}
