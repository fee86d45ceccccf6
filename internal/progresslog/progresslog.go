// Package progresslog buffers practice results and appends them to a flat log file.
package progresslog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/wordsprint/internal/model"
)

const (
	// DefaultName is the log name used when none is configured.
	DefaultName = "progress"
	// Extension is appended to log names that lack it.
	Extension = ".log"
)

// PersistError reports a flush that could not write the log file.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Logger keeps result records in memory until Flush appends them to disk.
// It is not safe for concurrent use.
type Logger struct {
	path   string
	buffer []model.ResultRecord
}

// New returns a logger writing to name, which may include directories.
func New(name string) *Logger {
	return &Logger{path: ResolveName(name)}
}

// ResolveName applies the default name and the log extension.
func ResolveName(name string) string {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	if !strings.HasSuffix(name, Extension) {
		name += Extension
	}
	return name
}

// Path returns the destination file.
func (l *Logger) Path() string {
	return l.path
}

// Record buffers a result.
func (l *Logger) Record(r model.ResultRecord) {
	l.buffer = append(l.buffer, r)
}

// Len returns the number of buffered records.
func (l *Logger) Len() int {
	return len(l.buffer)
}

// Pending returns a copy of the buffered records in recording order.
func (l *Logger) Pending() []model.ResultRecord {
	return append([]model.ResultRecord(nil), l.buffer...)
}

// Flush appends all buffered records to the log file, one line each. The
// buffer is cleared only when every write succeeded.
func (l *Logger) Flush() error {
	if len(l.buffer) == 0 {
		return nil
	}
	if err := l.appendRecords(l.buffer); err != nil {
		return &PersistError{Path: l.path, Err: err}
	}
	l.buffer = l.buffer[:0]
	return nil
}

func (l *Logger) appendRecords(records []model.ResultRecord) (err error) {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close log: %w", cerr)
		}
	}()

	writer := bufio.NewWriter(file)
	for _, r := range records {
		if _, err := writer.WriteString(FormatRecord(r)); err != nil {
			return fmt.Errorf("failed to write log: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush log: %w", err)
	}
	return nil
}
