// Package logging is a thin wrapper over the standard library's log.Logger,
// keeping the teacher's plain log.Printf/log.Fatalf texture
// (cmd/generator/common/common.go's WriteFile, cmd/main.go) rather than
// introducing a structured-logging dependency the pack never uses.
package logging

import (
	"io"
	"log"
	"os"
)

var std = log.New(os.Stderr, "", log.LstdFlags)

// verbose gates Debugf output; set once from the CLI's --verbose flag.
var verbose bool

// SetVerbose toggles whether Debugf lines are emitted.
func SetVerbose(v bool) { verbose = v }

// SetOutput redirects where log lines are written — tests point this at an
// in-memory buffer instead of stderr.
func SetOutput(w io.Writer) { std.SetOutput(w) }

// Infof logs an always-visible progress line.
func Infof(format string, args ...any) { std.Printf(format, args...) }

// Debugf logs a line only when verbose mode is on — used by the CLI for its
// one-line-per-written-file progress output.
func Debugf(format string, args ...any) {
	if verbose {
		std.Printf(format, args...)
	}
}

// Fatalf logs then exits the process with a nonzero status, matching the
// teacher's log.Fatalf usage at its own command-line entry points.
func Fatalf(format string, args ...any) { std.Fatalf(format, args...) }
