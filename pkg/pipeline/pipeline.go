// Package pipeline drives the documentation diagrams from registry to files.
//
// This package is the driver shared by the CLI and the preview server. It
// selects builders from the [mlops] registry, resolves their output
// targets, builds each diagram and hands it to a render backend.
//
// # Stages
//
// A run has three stages per diagram:
//
//  1. Plan: select builders and resolve output targets (rebased under the
//     output directory, optionally with a forced format). Colliding output
//     paths are rejected before anything is built.
//  2. Build: run the builder to obtain a validated diagram.
//  3. Render: finalize the diagram with the backend, writing the file.
//
// # Usage
//
//	runner := pipeline.NewRunner(backend, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    OutDir: "docs",
//	    Format: "svg",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range result.Diagrams {
//	    fmt.Println(d.Path)
//	}
//
// # Failure policy
//
// By default the first failing diagram aborts the run and later diagrams are
// not produced. With [Options.KeepGoing] every diagram is attempted and the
// failures are returned joined.
//
// [mlops]: github.com/matzehuels/mlopsdiagrams/pkg/mlops
package pipeline

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultOutDir is the directory builder paths are resolved against.
	DefaultOutDir = "."

	// DefaultServeFormat is the format the preview server renders when the
	// request does not name one.
	DefaultServeFormat = output.FormatSVG
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// OutDir is prepended to every builder's declared path.
	OutDir string `json:"out_dir,omitempty"`

	// Format replaces every builder's declared format when set.
	Format string `json:"format,omitempty"`

	// Only restricts the run to these registry names. Empty means all.
	Only []string `json:"only,omitempty"`

	// KeepGoing renders the remaining diagrams after a failure.
	KeepGoing bool `json:"keep_going,omitempty"`

	// DryRun builds and validates every diagram without rendering.
	DryRun bool `json:"dry_run,omitempty"`

	// GraphAttrs overrides graph-level attributes of every diagram,
	// keyed as in [diagram.GraphAttrKeys].
	GraphAttrs map[string]string `json:"graph_attrs,omitempty"`

	// Logger overrides the runner's logger for this run when set.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.OutDir == "" {
		o.OutDir = DefaultOutDir
	}
	if o.Format != "" {
		o.Format = strings.ToLower(strings.TrimPrefix(o.Format, "."))
		if err := ValidateFormat(o.Format); err != nil {
			return err
		}
	}
	if len(o.GraphAttrs) > 0 {
		if _, err := diagram.DefaultGraphAttrs().With(o.GraphAttrs); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !output.IsSupported(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(output.Formats(), ", "))
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result describes a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Diagrams holds one entry per attempted diagram, in run order.
	Diagrams []DiagramResult

	// Stats aggregates counts and timings.
	Stats Stats
}

// DiagramResult is the outcome for one diagram.
type DiagramResult struct {
	Name     string
	Path     string
	Nodes    int
	Clusters int
	Edges    int
	Rendered bool // false for dry runs and failures
	Duration time.Duration
	Err      error
}

// Stats contains run statistics.
type Stats struct {
	Planned    int
	Rendered   int
	Failed     int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// Failed returns the diagrams that did not complete.
func (r *Result) Failed() []DiagramResult {
	var out []DiagramResult
	for _, d := range r.Diagrams {
		if d.Err != nil {
			out = append(out, d)
		}
	}
	return out
}
