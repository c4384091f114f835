package deobfuscator

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProcessFile reads and deobfuscates a single JavaScript file. I/O errors
// are returned as errors; pipeline failures are encoded in the Result like
// everywhere else.
func ProcessFile(filePath string, octx *Context) (*Result, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	return octx.Deobfuscate(string(src)), nil
}

// ProcessFileToFile deobfuscates inputPath and writes the resulting code to
// outputPath, creating parent directories as needed. The Result is returned
// so callers can inspect the transformation log even when output was
// written.
func ProcessFileToFile(inputPath, outputPath string, octx *Context) (*Result, error) {
	result, err := ProcessFile(inputPath, octx)
	if err != nil {
		return nil, err
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating output directory %s: %w", outputDir, err)
	}
	if err := os.WriteFile(outputPath, []byte(result.Code), 0o644); err != nil {
		return nil, fmt.Errorf("error writing output file %s: %w", outputPath, err)
	}
	return result, nil
}
