package diagram

import (
	"testing"

	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
)

func TestStepCounter(t *testing.T) {
	a := NewStepCounter("A")
	b := NewStepCounter("B")

	for want := 1; want <= 3; want++ {
		if got := a.Next(); got != want {
			t.Fatalf("a.Next() = %d, want %d", got, want)
		}
	}
	if got := b.Label("create project"); got != "B.1 create project" {
		t.Errorf("b.Label = %q, want %q", got, "B.1 create project")
	}
	if got := a.Label(""); got != "A.4" {
		t.Errorf("a.Label(\"\") = %q, want A.4", got)
	}
	if a.Count() != 4 || b.Count() != 1 {
		t.Errorf("counts = %d,%d, want 4,1", a.Count(), b.Count())
	}

	var zero StepCounter
	if got := zero.Next(); got != 1 {
		t.Errorf("zero value Next() = %d, want 1", got)
	}
}

func TestGraphAttrsWith(t *testing.T) {
	base := DefaultGraphAttrs()

	tests := []struct {
		name      string
		overrides map[string]string
		check     func(t *testing.T, got GraphAttrs)
		wantErr   bool
	}{
		{
			name:      "Empty",
			overrides: nil,
			check: func(t *testing.T, got GraphAttrs) {
				if got != base {
					t.Errorf("got %+v, want defaults", got)
				}
			},
		},
		{
			name:      "Known",
			overrides: map[string]string{"splines": "ortho", "NodeSep": "1.5", "bgcolor": "white"},
			check: func(t *testing.T, got GraphAttrs) {
				if got.Splines != "ortho" || got.NodeSep != 1.5 || got.BgColor != "white" {
					t.Errorf("got %+v", got)
				}
				if got.RankSep != base.RankSep {
					t.Errorf("untouched ranksep changed: %v", got.RankSep)
				}
			},
		},
		{name: "UnknownKey", overrides: map[string]string{"rotate": "90"}, wantErr: true},
		{name: "BadFloat", overrides: map[string]string{"pad": "wide"}, wantErr: true},
		{name: "BadSplines", overrides: map[string]string{"splines": "zigzag"}, wantErr: true},
		{name: "Negative", overrides: map[string]string{"ranksep": "-1"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.With(tt.overrides)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidStyle) {
					t.Fatalf("err = %v, want INVALID_STYLE", err)
				}
				if got != base {
					t.Errorf("failed override modified attrs: %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, got)
		})
	}
}

func TestCategories(t *testing.T) {
	seen := map[Category]bool{}
	for _, c := range Categories() {
		if seen[c] {
			t.Errorf("duplicate category %q", c)
		}
		seen[c] = true
		if !c.Valid() {
			t.Errorf("%q not valid", c)
		}
	}
	if CategoryBlank.HasIcon() || CategoryPoint.HasIcon() {
		t.Error("blank and point nodes have no icon")
	}
	if !CategoryLambda.HasIcon() {
		t.Error("lambda should have an icon")
	}
	if Category("nope").Valid() {
		t.Error("unknown category reported valid")
	}
}

func TestLayoutRankDir(t *testing.T) {
	if LeftToRight.RankDir() != "LR" || TopToBottom.RankDir() != "TB" {
		t.Errorf("rankdir = %s/%s", LeftToRight.RankDir(), TopToBottom.RankDir())
	}
}

func TestConsoleStyle(t *testing.T) {
	s := ConsoleStyle()
	if s.Line != Dashed || s.PenColor != "red" || s.FontColor != "red" || s.BgColor != "none" {
		t.Errorf("ConsoleStyle() = %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Error(err)
	}
	if err := (ClusterStyle{Line: "zigzag"}).Validate(); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("err = %v, want INVALID_STYLE", err)
	}
}

func TestLineStyleValidate(t *testing.T) {
	tests := []struct {
		style LineStyle
		ok    bool
	}{
		{Solid, true},
		{Dashed, true},
		{Dotted, true},
		{"solid", false},
		{"curved", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			edgeErr := EdgeAttrs{Style: tt.style}.Validate()
			clusterErr := ClusterStyle{Line: tt.style}.Validate()
			for _, err := range []error{edgeErr, clusterErr} {
				if tt.ok && err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidStyle) {
					t.Errorf("err = %v, want INVALID_STYLE", err)
				}
			}
		})
	}
}
