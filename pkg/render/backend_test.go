package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/mlopsdiagrams/pkg/cache"
	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
)

func TestGraphvizRenderTextFormats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, format := range []string{output.FormatDOT, output.FormatMermaid} {
		t.Run(format, func(t *testing.T) {
			target := output.Target{Base: filepath.Join(dir, "sample"), Format: format}
			d := sampleAt(t, target)

			if err := d.Finalize(ctx, NewGraphviz()); err != nil {
				t.Fatalf("Finalize: %v", err)
			}
			data, err := os.ReadFile(target.Path())
			if err != nil {
				t.Fatalf("output not written: %v", err)
			}
			want, err := NewGraphviz().Bytes(ctx, d, format)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(data, want) {
				t.Error("file content differs from Bytes()")
			}
		})
	}
}

func TestGraphvizBytesUnsupportedFormat(t *testing.T) {
	_, err := NewGraphviz().Bytes(context.Background(), sample(t, "dot"), "gif")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestGraphvizBytesMissingIcon(t *testing.T) {
	set, err := NewIconSet(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewGraphviz(WithIcons(set)).Bytes(context.Background(), sample(t, "svg"), "svg")
	if !errors.Is(err, errors.ErrCodeMissingAsset) {
		t.Errorf("err = %v, want MISSING_ASSET", err)
	}
}

func TestGraphvizUsesCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	d := sample(t, "svg")
	dot, err := ToDOT(d, DOTOptions{})
	if err != nil {
		t.Fatal(err)
	}
	keyer := cache.NewDefaultKeyer()
	want := []byte("<svg>cached</svg>")
	if err := c.Set(ctx, keyer.RenderKey(cache.Hash([]byte(dot)), "svg"), want, time.Hour); err != nil {
		t.Fatal(err)
	}

	got, err := NewGraphviz(WithCache(c, time.Hour), WithKeyer(keyer)).Bytes(ctx, d, "svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %q, want cached %q", got, want)
	}
}

func TestGraphvizRenderCreatesDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images", "component_reference")
	d, err := diagram.New("nested", output.Target{Base: filepath.Join(dir, "x"), Format: "dot"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Node("only", diagram.CategoryBlank); err != nil {
		t.Fatal(err)
	}
	if err := d.Finalize(context.Background(), NewGraphviz()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "x.dot")); err != nil {
		t.Errorf("expected x.dot: %v", err)
	}
}

func TestGraphvizSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Graphviz layout in short mode")
	}
	got, err := NewGraphviz().Bytes(context.Background(), sample(t, "svg"), "svg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "<svg") {
		t.Errorf("not an SVG document: %.200s", got)
	}
}
