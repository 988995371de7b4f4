// Package logger provides verbose logging for docassist.
// When verbose mode is enabled via the --verbose flag, diagnostic messages
// are printed to stderr so users can follow uploads and chat requests.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Output returns the current log writer.
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

// logf holds the write lock so concurrent callers never interleave on output.
func logf(level, component, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose {
		return
	}
	if component != "" {
		format = component + ": " + format
	}
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("DEBUG", "", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf("INFO", "", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf("WARN", "", format, args...)
}

// Logger prefixes every message with a component name.
// The zero value logs without a prefix.
type Logger struct {
	component string
}

// For returns a logger scoped to component, e.g. "upload" or "chat".
func For(component string) Logger {
	return Logger{component: component}
}

// Component returns the logger's component name.
func (l Logger) Component() string {
	return l.component
}

// Debug prints a component message if verbose mode is enabled.
func (l Logger) Debug(format string, args ...any) {
	logf("DEBUG", l.component, format, args...)
}

// Info prints a component message if verbose mode is enabled.
func (l Logger) Info(format string, args ...any) {
	logf("INFO", l.component, format, args...)
}

// Warn prints a component warning if verbose mode is enabled.
func (l Logger) Warn(format string, args ...any) {
	logf("WARN", l.component, format, args...)
}
