// Package cli implements the mlopsdiagrams command-line interface.
//
// The CLI renders the MLOps documentation diagrams to image files, lists
// and previews them, and manages the render cache. It is built on cobra;
// logging goes through charmbracelet/log and can be raised to debug level
// with --verbose (-v).
//
// # Commands
//
//   - render: build and render diagrams (all by default)
//   - list: show the diagram registry
//   - pick: choose diagrams interactively, then render them
//   - dot: print the DOT or Mermaid source of one diagram
//   - serve: run the preview server
//   - cache: inspect or clear the render cache
//
// # Configuration
//
// Settings come from package defaults, then mlopsdiagrams.toml (or the file
// named by --config), then command-line flags.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps
// formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// quietened returns a copy of l that only reports warnings and errors,
// unless l is already at debug level.
func quietened(l *log.Logger) *log.Logger {
	if l.GetLevel() <= log.DebugLevel {
		return l
	}
	q := l.With()
	q.SetLevel(log.WarnLevel)
	return q
}

// progress logs the elapsed time of an operation. Not safe for concurrent
// use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond, e.g.
// "Rendered 8 diagrams (1.234s)".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
	if len(keyvals) > 0 {
		p.logger.Debug(msg, keyvals...)
	}
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
