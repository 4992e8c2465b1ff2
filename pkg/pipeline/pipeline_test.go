package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
	"github.com/matzehuels/mlopsdiagrams/pkg/mlops"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
	"github.com/matzehuels/mlopsdiagrams/pkg/render"
)

// fakeBackend records rendered diagrams and fails for selected names.
type fakeBackend struct {
	failOn   map[string]bool
	rendered []string
}

func (f *fakeBackend) Render(_ context.Context, d *diagram.Diagram) error {
	if f.failOn[d.Name()] {
		return errors.New(errors.ErrCodeRender, "fake failure for %s", d.Name())
	}
	f.rendered = append(f.rendered, d.Name())
	return nil
}

func (f *fakeBackend) Bytes(_ context.Context, d *diagram.Diagram, format string) ([]byte, error) {
	return []byte(d.Name() + "." + format), nil
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"mmd", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Format: ".SVG"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.OutDir != DefaultOutDir {
		t.Errorf("OutDir = %q, want %q", opts.OutDir, DefaultOutDir)
	}
	if opts.Format != "svg" {
		t.Errorf("Format = %q, want svg", opts.Format)
	}
	if opts.Logger != nil {
		t.Error("Logger should stay unset so the runner's logger is used")
	}

	// Second call is a no-op.
	opts.OutDir = "elsewhere"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.OutDir != "elsewhere" {
		t.Error("second call should not touch options")
	}

	bad := Options{Format: "gif"}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}

	badAttrs := Options{GraphAttrs: map[string]string{"rotate": "90"}}
	if err := badAttrs.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("err = %v, want INVALID_STYLE", err)
	}
}

func TestSelect(t *testing.T) {
	all := mlops.Builders()

	got, err := Select(all, []string{"g", "overview", "c"})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, b := range got {
		names = append(names, b.Name)
	}
	if want := []string{"overview", "c", "g"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Select() = %v, want registry order %v", names, want)
	}

	if got, _ := Select(all, nil); len(got) != len(all) {
		t.Errorf("empty selection returned %d builders, want %d", len(got), len(all))
	}

	if _, err := Select(all, []string{"h"}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestPlan(t *testing.T) {
	jobs, err := Plan(mlops.Builders(), Options{OutDir: "site", Format: "svg"})
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 8 {
		t.Fatalf("got %d jobs, want 8", len(jobs))
	}
	want := filepath.Join("site", "images", "component_reference", "overall_architecture.svg")
	if got := jobs[0].Target.Path(); got != want {
		t.Errorf("first target = %s, want %s", got, want)
	}
}

func TestPlanDuplicateOutput(t *testing.T) {
	builders := []mlops.Builder{
		{Name: "x", Path: "out/same.png", Build: mlops.UseCaseA},
		{Name: "y", Path: "out/same.svg", Build: mlops.UseCaseB},
	}

	if _, err := Plan(builders, Options{}); err != nil {
		t.Fatalf("distinct formats should not collide: %v", err)
	}
	// Forcing one format makes both write out/same.png.
	_, err := Plan(builders, Options{Format: "png"})
	if !errors.Is(err, errors.ErrCodeDuplicateOutput) {
		t.Errorf("err = %v, want DUPLICATE_OUTPUT", err)
	}
}

func TestPlanInvalidPath(t *testing.T) {
	builders := []mlops.Builder{{Name: "x", Path: "../escape.png", Build: mlops.UseCaseA}}
	if _, err := Plan(builders, Options{}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("err = %v, want INVALID_PATH", err)
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	dir := t.TempDir()
	runner := NewRunner(render.NewGraphviz(), quietLogger())

	result, err := runner.Execute(context.Background(), Options{OutDir: dir, Format: output.FormatDOT})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.RunID == "" {
		t.Error("missing run ID")
	}
	if result.Stats.Rendered != 8 || result.Stats.Failed != 0 {
		t.Errorf("stats = %+v, want 8 rendered", result.Stats)
	}

	paths := map[string]bool{}
	for _, d := range result.Diagrams {
		data, err := os.ReadFile(d.Path)
		if err != nil {
			t.Errorf("%s: %v", d.Name, err)
			continue
		}
		if !strings.HasPrefix(string(data), "digraph ") {
			t.Errorf("%s: not DOT output", d.Name)
		}
		paths[d.Path] = true
	}
	if len(paths) != 8 {
		t.Errorf("got %d distinct files, want 8", len(paths))
	}
}

func TestExecuteIdempotent(t *testing.T) {
	dir := t.TempDir()
	runner := NewRunner(render.NewGraphviz(), quietLogger())
	opts := Options{OutDir: dir, Format: output.FormatDOT, Only: []string{"e"}}

	read := func() string {
		t.Helper()
		if _, err := runner.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(filepath.Join(dir, "images", "component_reference", "E_training.dot"))
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	if first, second := read(), read(); first != second {
		t.Error("re-running produced a different file")
	}
}

func TestExecuteFailFast(t *testing.T) {
	backend := &fakeBackend{failOn: map[string]bool{"b": true}}
	runner := NewRunner(backend, quietLogger())

	result, err := runner.Execute(context.Background(), Options{OutDir: t.TempDir()})
	if !errors.Is(err, errors.ErrCodeRender) {
		t.Fatalf("err = %v, want RENDER_FAILED", err)
	}
	if want := []string{"overview", "a"}; !reflect.DeepEqual(backend.rendered, want) {
		t.Errorf("rendered = %v, want %v", backend.rendered, want)
	}
	if len(result.Diagrams) != 3 || result.Stats.Failed != 1 {
		t.Errorf("result = %+v", result.Stats)
	}
}

func TestExecuteOptionsLogger(t *testing.T) {
	var runnerLog, runLog strings.Builder
	runner := NewRunner(&fakeBackend{}, log.NewWithOptions(&runnerLog, log.Options{}))

	opts := Options{OutDir: t.TempDir(), Only: []string{"c"}, Logger: log.NewWithOptions(&runLog, log.Options{})}
	if _, err := runner.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(runLog.String(), "rendered diagram") {
		t.Errorf("run logger got %q, want the render line", runLog.String())
	}
	if runnerLog.Len() != 0 {
		t.Errorf("runner logger should be unused, got %q", runnerLog.String())
	}

	// Without an override the runner's logger is used.
	if _, err := runner.Execute(context.Background(), Options{OutDir: t.TempDir(), Only: []string{"c"}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(runnerLog.String(), "rendered diagram") {
		t.Errorf("runner logger got %q, want the render line", runnerLog.String())
	}
}

func TestExecuteKeepGoing(t *testing.T) {
	backend := &fakeBackend{failOn: map[string]bool{"b": true, "f": true}}
	runner := NewRunner(backend, quietLogger())

	result, err := runner.Execute(context.Background(), Options{OutDir: t.TempDir(), KeepGoing: true})
	if err == nil {
		t.Fatal("expected joined error")
	}
	if len(backend.rendered) != 6 {
		t.Errorf("rendered %d diagrams, want 6", len(backend.rendered))
	}
	failed := result.Failed()
	if len(failed) != 2 || failed[0].Name != "b" || failed[1].Name != "f" {
		t.Errorf("failed = %+v", failed)
	}
	for _, name := range []string{`"b"`, `"f"`} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("joined error %q does not mention %s", err, name)
		}
	}
}

func TestExecuteDryRun(t *testing.T) {
	backend := &fakeBackend{}
	runner := NewRunner(backend, quietLogger())

	result, err := runner.Execute(context.Background(), Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(backend.rendered) != 0 {
		t.Errorf("dry run rendered %v", backend.rendered)
	}
	for _, d := range result.Diagrams {
		if d.Rendered || d.Nodes == 0 {
			t.Errorf("%s: %+v", d.Name, d)
		}
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := &fakeBackend{}
	result, err := NewRunner(backend, quietLogger()).Execute(ctx, Options{})
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(result.Diagrams) != 0 || len(backend.rendered) != 0 {
		t.Error("nothing should run after cancellation")
	}
}

func TestExecuteGraphOverrides(t *testing.T) {
	dir := t.TempDir()
	runner := NewRunner(render.NewGraphviz(), quietLogger())
	_, err := runner.Execute(context.Background(), Options{
		OutDir:     dir,
		Format:     output.FormatDOT,
		Only:       []string{"d"},
		GraphAttrs: map[string]string{"splines": "ortho"},
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "images", "component_reference", "D_launch_sm_studio.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `splines="ortho"`) {
		t.Errorf("override missing:\n%s", data)
	}
}

func TestRunnerRender(t *testing.T) {
	runner := NewRunner(render.NewGraphviz(), quietLogger())
	data, err := runner.Render(context.Background(), "c", output.FormatMermaid, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "flowchart LR") {
		t.Errorf("unexpected output:\n%s", data)
	}

	if _, err := runner.Render(context.Background(), "nope", "svg", Options{}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
