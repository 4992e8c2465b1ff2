package pipeline

import (
	"context"

	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
)

// Render builds the named diagram and returns it encoded in format without
// writing any file. An empty format keeps the builder's declared format.
func (r *Runner) Render(ctx context.Context, name, format string, opts Options) ([]byte, error) {
	d, err := r.BuildOne(ctx, name, format, opts)
	if err != nil {
		return nil, err
	}
	return r.Backend.Bytes(ctx, d, d.Target().Format)
}

// BuildOne builds a single diagram by registry name.
func (r *Runner) BuildOne(ctx context.Context, name, format string, opts Options) (*diagram.Diagram, error) {
	opts.Only = []string{name}
	opts.Format = format
	opts.validated = false
	jobs, err := Plan(r.Builders, opts)
	if err != nil {
		return nil, err
	}
	return r.Build(ctx, jobs[0], opts)
}
