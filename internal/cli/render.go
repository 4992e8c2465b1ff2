package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mlopsdiagrams/internal/config"
	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
	"github.com/matzehuels/mlopsdiagrams/pkg/mlops"
	"github.com/matzehuels/mlopsdiagrams/pkg/pipeline"
)

// renderCommand creates the render command.
//
// Without arguments every registered diagram is rendered in registry order.
// The first failure aborts the run unless --keep-going is set.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [name...]",
		Short: "Render diagrams to image files",
		Long: `Render the documentation diagrams.

Names are registry names as shown by "mlopsdiagrams list" (overview, a to g).
Without names all diagrams are rendered. Each diagram is written to its
declared path under --out-dir.`,
		Example: `  mlopsdiagrams render
  mlopsdiagrams render e f --format svg --out-dir docs/source
  mlopsdiagrams render --dry-run`,
		ValidArgsFunction: completeDiagramNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			return c.runRender(cmd.Context(), cfg, args, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

// runRender executes a pipeline run and prints one line per diagram.
func (c *CLI) runRender(ctx context.Context, cfg *config.Config, names []string, flags renderFlags) error {
	logger := quietened(loggerFromContext(ctx))
	runner, closeCache, err := c.newRunner(ctx, cfg, logger, flags.noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	opts := cfg.Options()
	opts.Only = names
	opts.DryRun = flags.dryRun
	opts.Logger = logger

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, renderMessage(names, flags.dryRun))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()

	if result != nil {
		printResult(result, flags.dryRun)
	}
	if err != nil {
		return err
	}

	if flags.dryRun {
		prog.done(fmt.Sprintf("Validated %d diagrams", len(result.Diagrams)))
		printNextStep("Render them with", appName+" render")
		return nil
	}
	prog.done(fmt.Sprintf("Rendered %d diagrams", result.Stats.Rendered),
		"run", result.RunID,
		"build", result.Stats.BuildTime,
		"render", result.Stats.RenderTime,
	)
	return nil
}

func renderMessage(names []string, dryRun bool) string {
	n := len(names)
	if n == 0 {
		n = len(mlops.Names())
	}
	if dryRun {
		return fmt.Sprintf("Validating %d diagrams...", n)
	}
	return fmt.Sprintf("Rendering %d diagrams...", n)
}

// printResult prints the outcome of every attempted diagram.
func printResult(r *pipeline.Result, dryRun bool) {
	for _, d := range r.Diagrams {
		switch {
		case d.Err != nil:
			printError("%s: %s", d.Name, errors.UserMessage(d.Err))
			continue
		case dryRun:
			printInfo("%s", StyleHighlight.Render(d.Name))
		default:
			printSuccess("%s", StyleHighlight.Render(d.Name))
			printFile(d.Path)
		}
		printStats(d.Nodes, d.Clusters, d.Edges, d.Duration)
	}
	if skipped := r.Stats.Planned - len(r.Diagrams); skipped > 0 {
		printWarning("%d diagrams not rendered", skipped)
	}
}

// completeDiagramNames offers registry names for shell completion.
func completeDiagramNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, b := range mlops.Builders() {
		out = append(out, b.Name+"\t"+b.Title)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
