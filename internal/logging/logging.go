// Package logging configures the application logger.
//
// Logs are teed to two destinations: a human-readable console stream on
// stderr and a JSON stream appended to a fixed per-user log file. The
// console level follows the --debug flag; the file always records debug
// so a support log is complete even when the console was quiet.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Setup builds the application logger. An empty logPath disables the
// file core. When the log file cannot be opened the logger degrades to
// console-only and reports the problem on the console instead of
// failing; logging must never stop the application from starting.
func Setup(logPath string, debug bool) *zap.SugaredLogger {
	consoleLevel := zapcore.InfoLevel
	if debug {
		consoleLevel = zapcore.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig),
			zapcore.AddSync(os.Stderr),
			consoleLevel,
		),
	}

	var fileErr error
	if logPath != "" {
		file, err := openLogFile(logPath)
		if err != nil {
			fileErr = err
		} else {
			cores = append(cores, zapcore.NewCore(
				zapcore.NewJSONEncoder(fileEncoderConfig),
				zapcore.AddSync(file),
				zapcore.DebugLevel,
			))
		}
	}

	logger := zap.New(zapcore.NewTee(cores...)).Sugar()
	if fileErr != nil {
		logger.Warnw("log file unavailable, logging to console only",
			"path", logPath, "error", fileErr)
	}
	return logger
}

// DefaultLogPath returns the fixed per-user log file location,
// $HOME/FormulaSnap/logs/formulasnap.log. When the home directory cannot
// be resolved the file lands under the system temp directory instead.
func DefaultLogPath() string {
	base, err := os.UserHomeDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "FormulaSnap", "logs", "formulasnap.log")
}

// openLogFile opens logPath for appending, creating parent directories
// as needed.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

var consoleEncoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	MessageKey:     "message",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05"),
	EncodeDuration: zapcore.SecondsDurationEncoder,
}

var fileEncoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.LowercaseLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}
