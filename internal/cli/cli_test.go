package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mlopsdiagrams/pkg/cache"
	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
)

// execute runs the CLI with args in a scratch working directory and
// returns the command output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func imagePath(dir, file string) string {
	return filepath.Join(dir, "images", "component_reference", file)
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "render", "--out-dir", dir, "--format", "dot", "--no-cache", "c", "e"); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"C_create_user.dot", "E_training.dot"} {
		data, err := os.ReadFile(imagePath(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !strings.HasPrefix(string(data), "digraph ") {
			t.Errorf("%s is not DOT", name)
		}
	}
	if _, err := os.Stat(imagePath(dir, "A_deploy_infrastructure.dot")); !os.IsNotExist(err) {
		t.Error("unselected diagram was rendered")
	}
}

func TestRootCommandRendersAll(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "--out-dir", dir, "--format", "dot", "--no-cache"); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "images", "component_reference"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 8 {
		t.Fatalf("got %d files, want 8", len(entries))
	}
	for _, name := range []string{"overall_architecture.dot", "A_deploy_infrastructure.dot", "G_monitor_performance.dot"} {
		if _, err := os.Stat(imagePath(dir, name)); err != nil {
			t.Error(err)
		}
	}
}

func TestRootCommandDefaultPaths(t *testing.T) {
	t.Chdir(t.TempDir())
	var logs, out bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetArgs([]string{"--no-cache", "--format", "mmd"})
	root.SetOut(&out)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(imagePath(".", "overall_architecture.mmd")); err != nil {
		t.Error(err)
	}
}

func TestRootCommandRejectsArgs(t *testing.T) {
	if _, err := execute(t, "e"); err == nil {
		t.Error("positional args on the root command should fail")
	}
}

func TestRenderCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "render", "--out-dir", dir, "--dry-run", "--no-cache"); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d entries", len(entries))
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown diagram", []string{"render", "--no-cache", "--dry-run", "h"}, errors.ErrCodeNotFound},
		{"bad format", []string{"render", "--no-cache", "--format", "gif"}, errors.ErrCodeInvalidFormat},
		{"missing config", []string{"render", "--config", "nope.toml"}, errors.ErrCodeInvalidConfig},
		{"missing icons", []string{"render", "--no-cache", "--icons", "no-such-dir"}, errors.ErrCodeMissingAsset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderCommandConfigLayering(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "diagrams.toml")
	cfg := "format = \"mmd\"\nout_dir = " + quote(filepath.Join(dir, "from-config")) + "\n\n[cache]\ndisabled = true\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	// The file decides the format; the flag overrides the directory.
	flagDir := filepath.Join(dir, "from-flag")
	if _, err := execute(t, "render", "--config", cfgPath, "--out-dir", flagDir, "g"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(imagePath(flagDir, "G_monitor_performance.mmd"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "flowchart ") {
		t.Errorf("unexpected Mermaid output:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "from-config")); !os.IsNotExist(err) {
		t.Error("config out_dir should be overridden by --out-dir")
	}
}

func TestDotCommand(t *testing.T) {
	out, err := execute(t, "dot", "f")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph ") {
		t.Errorf("dot output starts with %q", firstLine(out))
	}

	out, err = execute(t, "dot", "f", "--mermaid")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "flowchart ") {
		t.Errorf("mermaid output starts with %q", firstLine(out))
	}

	if _, err := execute(t, "dot"); err == nil {
		t.Error("dot without a name should fail")
	}
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list", "--plain")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), out)
	}
	if lines[0] != "overview\timages/component_reference/overall_architecture.png" {
		t.Errorf("first line = %q", lines[0])
	}

	out, err = execute(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Name", "overview", "G_monitor_performance.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("table does not contain %q", want)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join("/tmp/xdg", appName); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	fc, err := cache.NewFileCache(filepath.Join(cacheHome, appName))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"render:aa:svg", "render:bb:png"} {
		if err := fc.Set(context.Background(), key, []byte("x"), 0); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if n, _, _ := fc.Stats(); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion does not mention the program")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestFormatStats(t *testing.T) {
	tests := []struct {
		nodes, clusters, edges int
		want                   string
	}{
		{12, 3, 14, "12 nodes · 3 clusters · 14 edges"},
		{1, 0, 1, "1 node · 1 edge"},
		{0, 0, 0, ""},
	}
	for _, tt := range tests {
		if got := formatStats(tt.nodes, tt.clusters, tt.edges, 0); got != tt.want {
			t.Errorf("formatStats(%d, %d, %d) = %q, want %q", tt.nodes, tt.clusters, tt.edges, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		512:             "512 B",
		2048:            "2.0 KiB",
		5 * 1024 * 1024: "5.0 MiB",
	}
	for n, want := range tests {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
