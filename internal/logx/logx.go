// Package logx is a thin two-level logger over log/slog, mirroring the
// original source's l1!/l2! verbosity macros (l1 = always-on operational
// logging, l2 = verbose diagnostic logging). No third-party logging
// library is wired here: the teacher and the rest of the retrieved pack
// never import one — a TUI app cannot log to stdout while rendering, so
// every logging call in the teacher's code is either silent or routed to
// a file via the standard library. See DESIGN.md.
package logx

import (
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	logger  = slog.New(slog.NewTextHandler(os.Stderr, nil))
	verbose bool
)

// SetVerbose toggles whether Debug actually emits anything.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput redirects both levels to a different handler, e.g. a log file
// opened by cmd/waves at startup.
func SetOutput(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Info is always-on operational logging (track loaded, filter applied,
// track advanced).
func Info(msg string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Info(msg, args...)
}

// Debug is verbose diagnostic logging, enabled only via SetVerbose.
func Debug(msg string, args ...any) {
	mu.Lock()
	l, v := logger, verbose
	mu.Unlock()
	if !v {
		return
	}
	l.Debug(msg, args...)
}

// Error logs a failure alongside its error value.
func Error(msg string, err error, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Error(msg, append([]any{"err", err}, args...)...)
}
