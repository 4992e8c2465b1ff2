package pipeline

import (
	"slices"

	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
	"github.com/matzehuels/mlopsdiagrams/pkg/mlops"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
)

// Job is a builder paired with its resolved output target.
type Job struct {
	Builder mlops.Builder
	Target  output.Target
}

// Select returns the builders named in only, in registry order. An empty
// only selects every builder. Unknown names fail with NOT_FOUND.
func Select(builders []mlops.Builder, only []string) ([]mlops.Builder, error) {
	if len(only) == 0 {
		return slices.Clone(builders), nil
	}
	for _, name := range only {
		if !slices.ContainsFunc(builders, func(b mlops.Builder) bool { return b.Name == name }) {
			names := make([]string, len(builders))
			for i, b := range builders {
				names[i] = b.Name
			}
			return nil, errors.New(errors.ErrCodeNotFound, "unknown diagram %q (available: %v)", name, names)
		}
	}
	var out []mlops.Builder
	for _, b := range builders {
		if slices.Contains(only, b.Name) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Plan resolves the target of every selected builder and rejects output
// collisions. Nothing is built or written.
func Plan(builders []mlops.Builder, opts Options) ([]Job, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	selected, err := Select(builders, opts.Only)
	if err != nil {
		return nil, err
	}

	jobs := make([]Job, 0, len(selected))
	owner := make(map[string]string, len(selected))
	for _, b := range selected {
		target, err := b.Target()
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "diagram %q", b.Name)
		}
		target = target.Rebase(opts.OutDir)
		if opts.Format != "" {
			target = target.WithFormat(opts.Format)
		}
		if prev, ok := owner[target.Path()]; ok {
			return nil, errors.New(errors.ErrCodeDuplicateOutput,
				"diagrams %q and %q both write %s", prev, b.Name, target.Path())
		}
		owner[target.Path()] = b.Name
		jobs = append(jobs, Job{Builder: b, Target: target})
	}
	return jobs, nil
}
