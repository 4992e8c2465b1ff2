package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mlopsdiagrams/pkg/mlops"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listCheckStyle    = lipgloss.NewStyle().Foreground(colorGreen)
)

// pickCommand creates the pick command: an interactive selection followed
// by a render of the chosen diagrams.
func (c *CLI) pickCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose diagrams interactively, then render them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)

			final, err := tea.NewProgram(newPickModel(mlops.Builders()), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("diagram picker: %w", err)
			}
			names := final.(pickModel).Chosen()
			if len(names) == 0 {
				printInfo("Nothing selected")
				return nil
			}
			return c.runRender(cmd.Context(), cfg, names, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// pickModel - Interactive diagram selection
// =============================================================================

// pickModel is the bubbletea model for choosing diagrams.
type pickModel struct {
	builders  []mlops.Builder
	cursor    int
	selected  map[int]bool
	confirmed bool
}

func newPickModel(builders []mlops.Builder) pickModel {
	return pickModel{builders: builders, selected: map[int]bool{}}
}

func (m pickModel) Init() tea.Cmd {
	return nil
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.selected = map[int]bool{}
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.builders)-1 {
			m.cursor++
		}
	case " ", "x":
		m.toggle(m.cursor)
	case "a":
		all := len(m.selected) < len(m.builders)
		m.selected = map[int]bool{}
		if all {
			for i := range m.builders {
				m.selected[i] = true
			}
		}
	case "enter":
		if len(m.selected) == 0 {
			m.selected[m.cursor] = true
		}
		m.confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

// toggle flips the selection of row i. The map is copied since bubbletea
// models are values.
func (m *pickModel) toggle(i int) {
	next := make(map[int]bool, len(m.selected)+1)
	for k, v := range m.selected {
		next[k] = v
	}
	if next[i] {
		delete(next, i)
	} else {
		next[i] = true
	}
	m.selected = next
}

// Chosen returns the confirmed registry names in registry order, or nil
// when the picker was cancelled.
func (m pickModel) Chosen() []string {
	if !m.confirmed {
		return nil
	}
	var names []string
	for i, b := range m.builders {
		if m.selected[i] {
			names = append(names, b.Name)
		}
	}
	return names
}

func (m pickModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Diagrams"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ render  q quit"))
	b.WriteString("\n\n")

	for i, bl := range m.builders {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		check := listDimStyle.Render("[ ]")
		if m.selected[i] {
			check = listCheckStyle.Render("[x]")
		}

		line := fmt.Sprintf("%-9s %s", bl.Name, bl.Title)
		if i == m.cursor {
			line = listSelectedStyle.Render(line)
		} else {
			line = listNormalStyle.Render(line)
		}
		b.WriteString(cursor + check + " " + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d selected", len(m.selected))))
	return b.String()
}
