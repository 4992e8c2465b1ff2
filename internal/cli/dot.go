package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mlopsdiagrams/pkg/output"
)

// dotCommand creates the dot command, which prints the source text of one
// diagram instead of rendering it.
func (c *CLI) dotCommand() *cobra.Command {
	var mermaid bool

	cmd := &cobra.Command{
		Use:               "dot <name>",
		Short:             "Print the Graphviz DOT source of a diagram",
		Example:           "  mlopsdiagrams dot e | dot -Tsvg > e.svg\n  mlopsdiagrams dot g --mermaid",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDiagramNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			logger := quietened(loggerFromContext(cmd.Context()))
			runner, closeCache, err := c.newRunner(cmd.Context(), cfg, logger, true)
			if err != nil {
				return err
			}
			defer closeCache()

			format := output.FormatDOT
			if mermaid {
				format = output.FormatMermaid
			}
			opts := cfg.Options()
			opts.Logger = logger
			data, err := runner.Render(cmd.Context(), args[0], format, opts)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&mermaid, "mermaid", false, "print a Mermaid flowchart instead")
	return cmd
}
