package utils

import (
	"fmt"
	"log"
	"os"
)

// Logger is a small leveled logger. Levels are prefixes, not filters.
type Logger struct {
	file   *os.File
	logger *log.Logger
}

// NewLogger creates a logger writing to stderr.
func NewLogger() *Logger {
	return &Logger{logger: log.New(os.Stderr, "", log.LstdFlags)}
}

// NewFileLogger creates a logger appending to the file at filePath.
func NewFileLogger(filePath string) (*Logger, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &Logger{file: file, logger: log.New(file, "", log.LstdFlags)}, nil
}

// Info logs an info message
func (l *Logger) Info(format string, v ...any) {
	l.print("INFO", format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...any) {
	l.print("WARN", format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...any) {
	l.print("ERROR", format, v...)
}

// print folds the level into a single Printf call so concurrent callers
// cannot interleave a level with another message's text.
func (l *Logger) print(level, format string, v ...any) {
	l.logger.Printf(level+": "+format, v...)
}

// Close closes the log file, if any.
func (l *Logger) Close() {
	if l.file != nil {
		l.file.Close()
	}
}
