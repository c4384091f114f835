// Package utils holds shared plumbing: the logging setup used across the
// deobfuscator.
package utils

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/whit3rabbit/jsmix/internal/config"
)

// Logger is the process-wide logger. Logging is observational only; no
// pipeline result depends on it.
var Logger zerolog.Logger = zerolog.New(io.Discard)

// InitLogger configures the global logger from the loaded configuration.
// Console output goes through the zerolog console writer; when a file path
// is configured the log also goes to a rotated file, with errors duplicated
// into a separate rotated error log.
func InitLogger(cfg *config.Config) error {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.DebugMode {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	var writers []io.Writer

	if cfg.Logging.Console && !cfg.Silent {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.Logging.FilePath != "" {
		dir := filepath.Dir(cfg.Logging.FilePath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		mainLog := &lumberjack.Logger{
			Filename:   cfg.Logging.FilePath,
			MaxSize:    cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			Compress:   true,
		}
		errorLog := &lumberjack.Logger{
			Filename:   errorLogPath(cfg.Logging.FilePath),
			MaxSize:    cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			Compress:   true,
		}
		writers = append(writers,
			mainLog,
			&FilteredWriter{Writer: errorLog, MinLevel: zerolog.ErrorLevel},
		)
	}

	if len(writers) == 0 {
		Logger = zerolog.New(io.Discard)
	} else {
		Logger = zerolog.New(io.MultiWriter(writers...)).
			With().
			Timestamp().
			Logger()
	}
	log.Logger = Logger
	return nil
}

func errorLogPath(mainPath string) string {
	ext := filepath.Ext(mainPath)
	return mainPath[:len(mainPath)-len(ext)] + "_error" + ext
}

// FilteredWriter forwards only entries at or above MinLevel.
type FilteredWriter struct {
	Writer   io.Writer
	MinLevel zerolog.Level
}

// Write implements io.Writer. Entries without level information pass
// through untouched.
func (w *FilteredWriter) Write(p []byte) (n int, err error) {
	return w.Writer.Write(p)
}

// WriteLevel implements zerolog.LevelWriter.
func (w *FilteredWriter) WriteLevel(level zerolog.Level, p []byte) (n int, err error) {
	if level >= w.MinLevel {
		return w.Writer.Write(p)
	}
	return len(p), nil
}

// Info logs an informational message.
func Info(msg string) {
	Logger.Info().Msg(msg)
}

// Infof logs a formatted informational message.
func Infof(format string, args ...interface{}) {
	Logger.Info().Msgf(format, args...)
}

// Warn logs a warning.
func Warn(msg string) {
	Logger.Warn().Msg(msg)
}

// Warnf logs a formatted warning.
func Warnf(format string, args ...interface{}) {
	Logger.Warn().Msgf(format, args...)
}

// Error logs an error with message.
func Error(err error, msg string) {
	Logger.Error().Err(err).Msg(msg)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	Logger.Error().Msgf(format, args...)
}

// Debug logs a debug message.
func Debug(msg string) {
	Logger.Debug().Msg(msg)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	Logger.Debug().Msgf(format, args...)
}
