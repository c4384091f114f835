package deobfuscator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/whit3rabbit/jsmix/internal/utils"
)

// ProcessDirectory deobfuscates every JavaScript file under inputDir into
// outputDir, preserving the directory structure. Non-JavaScript files are
// copied unchanged, paths matching the skip patterns are ignored, and the
// rename context is loaded from and saved back to outputDir so name
// assignments stay stable across runs.
func ProcessDirectory(inputDir, outputDir string, octx *Context) error {
	info, err := os.Stat(inputDir)
	if err != nil {
		return fmt.Errorf("error reading input directory %s: %w", inputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %s is not a directory", inputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory %s: %w", outputDir, err)
	}

	if err := octx.Load(outputDir); err != nil {
		utils.Warnf("failed to load existing rename context, starting fresh: %v", err)
	}

	files, err := collectFiles(inputDir, octx)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if !octx.Silent {
		bar = progressbar.Default(int64(len(files)), "deobfuscating")
	}

	for _, relPath := range files {
		inputPath := filepath.Join(inputDir, relPath)
		outputPath := filepath.Join(outputDir, relPath)

		if err := processEntry(inputPath, outputPath, octx); err != nil {
			if octx.Config.AbortOnError {
				return err
			}
			utils.Warnf("skipping %s: %v", inputPath, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if err := octx.Save(outputDir); err != nil {
		return fmt.Errorf("error saving rename context: %w", err)
	}
	return nil
}

// collectFiles walks inputDir and returns the relative paths of every file
// to process or copy, skip patterns already applied.
func collectFiles(inputDir string, octx *Context) ([]string, error) {
	var files []string
	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		if shouldSkipPath(relPath, octx.Config.SkipPaths) {
			utils.Debugf("skipping path (matches skiplist): %s", relPath)
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() {
			files = append(files, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking input directory %s: %w", inputDir, err)
	}
	return files, nil
}

func processEntry(inputPath, outputPath string, octx *Context) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("error creating directory for %s: %w", outputPath, err)
	}

	if isJsFile(inputPath, octx.Config.JsExtensions) {
		result, err := ProcessFileToFile(inputPath, outputPath, octx)
		if err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("deobfuscation of %s failed: %s", inputPath, strings.Join(result.Warnings, "; "))
		}
		utils.Debugf("processed %s (confidence %.2f)", inputPath, result.Confidence)
		return nil
	}

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("error reading file %s: %w", inputPath, err)
	}
	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return fmt.Errorf("error writing file %s: %w", outputPath, err)
	}
	utils.Debugf("copied %s", inputPath)
	return nil
}

// shouldSkipPath matches a relative path against the configured skip
// patterns. Invalid patterns are ignored with a warning.
func shouldSkipPath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err != nil {
			utils.Warnf("invalid skip pattern %q: %v", pattern, err)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

func isJsFile(filename string, extensions []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
