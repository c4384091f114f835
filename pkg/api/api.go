// Package api provides the public API for using the JavaScript deobfuscator
// as a library.
//
// The API mirrors the command-line interface: code strings, single files and
// whole directories can be deobfuscated with the same configuration and the
// same shared rename context.
//
// Basic usage example:
//
//	deob, err := api.NewDeobfuscator(api.Options{ConfigPath: "config.yaml"})
//	if err != nil {
//	    log.Fatalf("Failed to create deobfuscator: %v", err)
//	}
//
//	result := deob.DeobfuscateCode("debugger; var _0x1a2b = 1;")
//	fmt.Println(result.Code)
//	fmt.Printf("confidence: %.2f\n", result.Confidence)
package api

import (
	"fmt"

	"github.com/whit3rabbit/jsmix/internal/config"
	"github.com/whit3rabbit/jsmix/internal/deobfuscator"
)

// PrintInfo prints formatted information to stdout, respecting the Testing
// flag. It forwards to the internal config.PrintInfo function.
func PrintInfo(format string, args ...interface{}) {
	config.PrintInfo(format, args...)
}

// Result is the outcome of one deobfuscation run: the rewritten code, the
// ordered transformation log, warnings, a success flag and a confidence
// score in [0, 1].
type Result = deobfuscator.Result

// Deobfuscator is the main engine. It encapsulates the configuration and
// the session context (rename maps) shared across calls.
type Deobfuscator struct {
	Context *deobfuscator.Context
	Config  *config.Config
}

// Options configures a new Deobfuscator instance.
type Options struct {
	// ConfigPath is the path to a YAML configuration file.
	// If empty, default configuration will be used.
	ConfigPath string

	// Silent suppresses informational messages and progress output.
	Silent bool
}

// NewDeobfuscator creates a new engine from the given options.
//
// Returns an error if the configuration cannot be loaded.
func NewDeobfuscator(options Options) (*Deobfuscator, error) {
	cfg, err := config.LoadConfig(options.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if options.Silent {
		cfg.Silent = true
	}

	octx, err := deobfuscator.NewContext(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create deobfuscation context: %w", err)
	}

	return &Deobfuscator{
		Context: octx,
		Config:  cfg,
	}, nil
}

// DeobfuscateCode deobfuscates a string of JavaScript code.
//
// Pipeline-level failures (unparsable input, final printer failure) are
// never returned as errors; they are encoded in the Result with Success
// false and the original code echoed back.
func (d *Deobfuscator) DeobfuscateCode(code string) *Result {
	return d.Context.Deobfuscate(code)
}

// DeobfuscateFile deobfuscates a JavaScript file and returns the result.
// I/O errors are returned as errors.
func (d *Deobfuscator) DeobfuscateFile(filePath string) (*Result, error) {
	result, err := deobfuscator.ProcessFile(filePath, d.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to deobfuscate file %s: %w", filePath, err)
	}
	return result, nil
}

// DeobfuscateFileToFile deobfuscates a JavaScript file and writes the
// resulting code to another file, creating parent directories as needed.
func (d *Deobfuscator) DeobfuscateFileToFile(inputPath, outputPath string) (*Result, error) {
	result, err := deobfuscator.ProcessFileToFile(inputPath, outputPath, d.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to deobfuscate file %s: %w", inputPath, err)
	}
	return result, nil
}

// DeobfuscateDirectory deobfuscates all JavaScript files under inputDir
// into outputDir, preserving directory structure.
//
// The function will:
//  1. Load any existing rename context from the output directory
//  2. Process all JavaScript files recursively
//  3. Copy non-JavaScript files unchanged
//  4. Skip paths matching the configuration's skip list
//  5. Save the rename context back to the output directory
func (d *Deobfuscator) DeobfuscateDirectory(inputDir, outputDir string) error {
	return deobfuscator.ProcessDirectory(inputDir, outputDir, d.Context)
}

// LoadContext loads a previously saved rename context from a directory, so
// name assignments stay stable across runs.
func (d *Deobfuscator) LoadContext(baseDir string) error {
	return d.Context.Load(baseDir)
}

// SaveContext persists the current rename context to a directory.
func (d *Deobfuscator) SaveContext(baseDir string) error {
	return d.Context.Save(baseDir)
}

// LookupOriginalName returns the obfuscated identifier behind a readable
// generated name (for example "v3" or "f1").
//
// Returns an error if the name is not present in the context.
func (d *Deobfuscator) LookupOriginalName(readable string) (string, error) {
	original, found := d.Context.Renamer.ReverseLookup(readable)
	if !found {
		return "", fmt.Errorf("name not found in context: %s", readable)
	}
	return original, nil
}
