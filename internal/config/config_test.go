package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.cfg", "[geomodelgrids]\ntitle = Example\nversion = 1.0\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if v, ok := cfg.Get("geomodelgrids", "title"); !ok || v != "Example" {
		t.Errorf("got %q, %v", v, ok)
	}
}

func TestLoadMergesAndOverrides(t *testing.T) {
	dir := t.TempDir()
	base := writeTemp(t, dir, "base.cfg", "[domain]\norigin_x = 0.0\norigin_y = 0.0\n")
	override := writeTemp(t, dir, "override.cfg", "[domain]\norigin_x = 100.0\n")

	cfg, err := Load(base, override)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if v := cfg.GetDefault("domain", "origin_x", ""); v != "100.0" {
		t.Errorf("expected override to win, got %q", v)
	}
	if v := cfg.GetDefault("domain", "origin_y", ""); v != "0.0" {
		t.Errorf("expected base value retained, got %q", v)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.cfg")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteINISorted(t *testing.T) {
	cfg := Config{
		"domain": {"origin_y": "1", "origin_x": "0"},
	}
	var sb strings.Builder
	if err := cfg.WriteINI(&sb); err != nil {
		t.Fatalf("WriteINI: %v", err)
	}
	out := sb.String()
	if strings.Index(out, "origin_x") > strings.Index(out, "origin_y") {
		t.Errorf("expected sorted keys, got:\n%s", out)
	}
}
