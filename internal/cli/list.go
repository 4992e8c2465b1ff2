package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mlopsdiagrams/pkg/mlops"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered diagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := diagramRows(mlops.Builders())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if plain {
				for _, r := range rows {
					fmt.Fprintln(out, r[0]+"\t"+r[2])
				}
				return nil
			}
			fmt.Fprintln(out, diagramTable(rows).Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print name and path only, tab separated")
	return cmd
}

// diagramRows builds every diagram to report its size. The builders are
// cheap; nothing is rendered.
func diagramRows(builders []mlops.Builder) ([][]string, error) {
	rows := make([][]string, 0, len(builders))
	for _, b := range builders {
		target, err := b.Target()
		if err != nil {
			return nil, fmt.Errorf("diagram %q: %w", b.Name, err)
		}
		d, err := b.Build(target)
		if err != nil {
			return nil, fmt.Errorf("diagram %q: %w", b.Name, err)
		}
		nodes, clusters, edges := d.Summary().Counts()
		rows = append(rows, []string{
			b.Name,
			b.Title,
			b.Path,
			strconv.Itoa(nodes),
			strconv.Itoa(clusters),
			strconv.Itoa(edges),
		})
	}
	return rows, nil
}

func diagramTable(rows [][]string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Title", "Path", "Nodes", "Clusters", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight.Padding(0, 1)
			case col >= 3:
				return StyleDim.Padding(0, 1).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}
