package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/cssc/internal/config"
)

func TestLoadMissingFileYieldsZeroValue(t *testing.T) {
	f, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Style != "" || f.InputSyntax != "" || f.Quiet || len(f.LoadPaths) != 0 {
		t.Errorf("expected zero-value File, got %+v", f)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cssc.yaml")
	content := "style: compressed\ninput_syntax: scss\nquiet: true\nload_paths:\n  - vendor\n  - shared\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Style != config.StyleCompressed {
		t.Errorf("Style = %q, want compressed", f.Style)
	}
	if f.InputSyntax != config.SyntaxSCSS {
		t.Errorf("InputSyntax = %q, want scss", f.InputSyntax)
	}
	if !f.Quiet {
		t.Error("Quiet = false, want true")
	}
	if len(f.LoadPaths) != 2 || f.LoadPaths[0] != "vendor" || f.LoadPaths[1] != "shared" {
		t.Errorf("LoadPaths = %v", f.LoadPaths)
	}
}

func TestMergeAppliesDefaultsThenOverrides(t *testing.T) {
	f := &config.File{LoadPaths: []string{"vendor"}}
	compressed := config.StyleCompressed
	r, err := config.Merge(f, config.Overrides{Style: &compressed, LoadPaths: []string{"extra"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.GetStyle() != config.StyleCompressed {
		t.Errorf("GetStyle() = %q, want compressed", r.GetStyle())
	}
	if r.GetInputSyntax() != config.SyntaxSCSS {
		t.Errorf("GetInputSyntax() = %q, want scss default", r.GetInputSyntax())
	}
	if r.GetQuiet() {
		t.Error("GetQuiet() = true, want false default")
	}
	want := []string{"vendor", "extra"}
	got := r.GetLoadPaths()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("GetLoadPaths() = %v, want %v", got, want)
	}
}

func TestMergeRejectsUnknownStyle(t *testing.T) {
	if _, err := config.Merge(&config.File{Style: "compact"}, config.Overrides{}); err == nil {
		t.Fatal("an unrecognized style must be a config error, not a silent expanded fallback")
	}
}

func TestMergeRejectsUnknownInputSyntax(t *testing.T) {
	if _, err := config.Merge(&config.File{InputSyntax: "less"}, config.Overrides{}); err == nil {
		t.Fatal("an unrecognized input_syntax must be a config error")
	}
}
