package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
	"github.com/matzehuels/mlopsdiagrams/pkg/mlops"
	"github.com/matzehuels/mlopsdiagrams/pkg/observability"
	"github.com/matzehuels/mlopsdiagrams/pkg/render"
)

// Runner executes pipeline runs against a render backend.
// Both CLI and server use this to share the build and render logic.
//
// The Runner keeps no per-run state, so one Runner can serve many runs.
type Runner struct {
	Backend  render.Backend
	Builders []mlops.Builder
	Logger   *log.Logger
}

// NewRunner creates a runner over the full builder registry.
// If backend is nil, a Graphviz backend without cache is used.
// If logger is nil, the default logger is used.
func NewRunner(backend render.Backend, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if backend == nil {
		backend = render.NewGraphviz(render.WithLogger(logger))
	}
	return &Runner{
		Backend:  backend,
		Builders: mlops.Builders(),
		Logger:   logger,
	}
}

// Execute plans, builds and renders the selected diagrams in registry
// order.
//
// The returned Result lists every diagram attempted so far, also when an
// error is returned. Cancellation of ctx is checked between diagrams and
// returns ctx.Err().
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	runID := uuid.NewString()
	logger := r.logger(opts).With("run", runID[:8])

	jobs, err := Plan(r.Builders, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: runID}
	result.Stats.Planned = len(jobs)
	logger.Debug("planned run", "diagrams", len(jobs), "out_dir", opts.OutDir, "dry_run", opts.DryRun)

	var failures []error
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		dr, err := r.run(ctx, job, opts, &result.Stats)
		result.Diagrams = append(result.Diagrams, dr)
		if err == nil {
			if dr.Rendered {
				result.Stats.Rendered++
				logger.Info("rendered diagram", "diagram", dr.Name, "path", dr.Path, "duration", dr.Duration)
			}
			continue
		}

		result.Stats.Failed++
		logger.Error("diagram failed", "diagram", job.Builder.Name, "err", err)
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if !opts.KeepGoing {
			return result, err
		}
		failures = append(failures, err)
	}
	return result, errors.Join(failures...)
}

// logger returns the run's logger: opts.Logger when set, else the runner's.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// run builds and renders one diagram.
func (r *Runner) run(ctx context.Context, job Job, opts Options, stats *Stats) (DiagramResult, error) {
	dr := DiagramResult{Name: job.Builder.Name, Path: job.Target.Path()}
	start := time.Now()

	d, err := r.Build(ctx, job, opts)
	stats.BuildTime += time.Since(start)
	if err != nil {
		dr.Err = err
		dr.Duration = time.Since(start)
		return dr, err
	}
	dr.Nodes, dr.Clusters, dr.Edges = d.Summary().Counts()

	if opts.DryRun {
		dr.Duration = time.Since(start)
		return dr, nil
	}

	renderStart := time.Now()
	err = d.Finalize(ctx, r.Backend)
	stats.RenderTime += time.Since(renderStart)
	dr.Duration = time.Since(start)
	if err != nil {
		dr.Err = fmt.Errorf("diagram %q: %w", job.Builder.Name, err)
		return dr, dr.Err
	}
	dr.Rendered = true
	return dr, nil
}

// Build runs the job's builder and applies the graph overrides in opts.
// Construction errors are returned annotated with the diagram name.
func (r *Runner) Build(ctx context.Context, job Job, opts Options) (d *diagram.Diagram, err error) {
	name := job.Builder.Name
	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, name)
	defer func() {
		var nodes, edges int
		if d != nil {
			nodes, _, edges = d.Summary().Counts()
		}
		observability.Pipeline().OnBuildComplete(ctx, name, nodes, edges, time.Since(start), err)
	}()

	d, err = job.Builder.Build(job.Target)
	if err != nil {
		return nil, fmt.Errorf("diagram %q: %w", name, err)
	}
	if len(opts.GraphAttrs) > 0 {
		attrs, err := d.GraphAttrs().With(opts.GraphAttrs)
		if err != nil {
			return nil, fmt.Errorf("diagram %q: %w", name, err)
		}
		if err := d.SetGraphAttrs(attrs); err != nil {
			return nil, fmt.Errorf("diagram %q: %w", name, err)
		}
	}
	return d, nil
}
