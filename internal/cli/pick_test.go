package cli

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/mlopsdiagrams/pkg/mlops"
)

func press(m pickModel, keys ...string) pickModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(pickModel)
	}
	return m
}

func TestPickModel(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"enter picks the cursor row", []string{"j", "enter"}, []string{"a"}},
		{"toggled rows in registry order", []string{"j", "j", "j", "x", "k", "k", "x", "enter"}, []string{"a", "c"}},
		{"toggle twice deselects", []string{"x", "x", "j", "x", "enter"}, []string{"a"}},
		{"select all", []string{"a", "enter"}, mlops.Names()},
		{"select all twice clears", []string{"a", "a", "k", "enter"}, []string{"overview"}},
		{"cursor stops at the top", []string{"k", "k", "enter"}, []string{"overview"}},
		{"quit cancels", []string{"x", "q"}, nil},
		{"escape cancels", []string{"x", "esc"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(newPickModel(mlops.Builders()), tt.keys...)
			if got := m.Chosen(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Chosen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickModelCursorStopsAtBottom(t *testing.T) {
	keys := make([]string, 20)
	for i := range keys {
		keys[i] = "j"
	}
	m := press(newPickModel(mlops.Builders()), append(keys, "enter")...)
	if got := m.Chosen(); !reflect.DeepEqual(got, []string{"g"}) {
		t.Errorf("Chosen() = %v, want [g]", got)
	}
}

func TestPickModelView(t *testing.T) {
	m := press(newPickModel(mlops.Builders()), "x")
	view := m.View()
	for _, want := range []string{"Select Diagrams", "overview", "[x]", "1 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q", want)
		}
	}
}
