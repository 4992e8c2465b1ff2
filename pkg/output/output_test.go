package output

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in         string
		wantBase   string
		wantFormat string
	}{
		{"images/a/b.png", "images/a/b", "png"},
		{"x.SVG", "x", "svg"},
		{"noext", "noext", ""},
		{"images/v1.2/diagram", "images/v1.2/diagram", ""},
		{"images/v1.2/diagram.Jpeg", "images/v1.2/diagram", "jpeg"},
		{"archive.tar.gz", "archive.tar", "gz"},
		{"trailing.", "trailing", ""},
		{".hidden", ".hidden", ""},
		{"images/.png", "images/.png", ""},
		{"images/..png", "images/..png", ""},
		{"images/.a.png", "images/.a", "png"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			base, format := Split(tt.in)
			if base != tt.wantBase || format != tt.wantFormat {
				t.Errorf("Split(%q) = (%q, %q), want (%q, %q)", tt.in, base, format, tt.wantBase, tt.wantFormat)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		want     Target
		wantCode errors.Code
	}{
		{"png", "images/a/b.png", Target{Base: "images/a/b", Format: "png"}, ""},
		{"upper-case svg", "x.SVG", Target{Base: "x", Format: "svg"}, ""},
		{"dot", "out/graph.dot", Target{Base: "out/graph", Format: "dot"}, ""},
		{"no extension", "noext", Target{}, errors.ErrCodeInvalidFormat},
		{"unsupported", "x.gif", Target{}, errors.ErrCodeInvalidFormat},
		{"empty base", ".png", Target{}, errors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.in)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Resolve(%q) error = %v, want code %s", tt.in, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTargetPath(t *testing.T) {
	tgt := Target{Base: "images/x", Format: "png"}
	if got := tgt.Path(); got != "images/x.png" {
		t.Errorf("Path() = %q, want %q", got, "images/x.png")
	}
	if got := tgt.WithFormat("SVG").Path(); got != "images/x.svg" {
		t.Errorf("WithFormat(SVG).Path() = %q, want %q", got, "images/x.svg")
	}
	if tgt.Format != "png" {
		t.Error("WithFormat mutated the receiver")
	}
}

func TestTargetRebase(t *testing.T) {
	tgt := Target{Base: "images/x", Format: "png"}

	if got := tgt.Rebase(""); got != tgt {
		t.Errorf("Rebase(\"\") = %+v, want unchanged", got)
	}

	want := filepath.Join("build", "html", "images", "x") + ".png"
	if got := tgt.Rebase(filepath.Join("build", "html")).Path(); got != want {
		t.Errorf("Rebase().Path() = %q, want %q", got, want)
	}
}

func TestFormats(t *testing.T) {
	formats := Formats()
	for _, f := range formats {
		if !IsSupported(f) {
			t.Errorf("IsSupported(%q) = false for listed format", f)
		}
	}
	formats[0] = "mutated"
	if !IsSupported(FormatPNG) {
		t.Error("Formats() returned the internal slice")
	}
	if IsSupported("PNG") {
		t.Error("IsSupported should be case-sensitive")
	}
}

func TestMustResolvePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustResolve(noext) did not panic")
		}
	}()
	MustResolve("noext")
}
