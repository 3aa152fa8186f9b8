package driver

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	writeFile(t, path, `
name: calc
version: 0.1.0
entry: main.json
units: [lib/*.yml]
log_level: debug
dependencies:
  strings:
    git: https://example.com/strings.git
    tag: v1.2.0
  local: ../shared
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "calc" || m.Version != "0.1.0" || m.Entry != "main.json" {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if len(m.Units) != 1 || m.Units[0] != "lib/*.yml" {
		t.Fatalf("unexpected units %v", m.Units)
	}
	if m.LogLevel != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", m.LogLevel)
	}
	if m.Dir() != dir {
		t.Fatalf("expected dir %s, got %s", dir, m.Dir())
	}
	if names := m.DependencyNames(); len(names) != 2 || names[0] != "local" || names[1] != "strings" {
		t.Fatalf("unexpected dependency names %v", names)
	}
	if dep := m.Dependencies["strings"]; !dep.IsGit() || dep.Tag != "v1.2.0" {
		t.Fatalf("unexpected git dependency %+v", dep)
	}
	if dep := m.Dependencies["local"]; dep.IsGit() || dep.Path != "../shared" {
		t.Fatalf("unexpected path dependency %+v", dep)
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	writeFile(t, path, "name: calc\nentry: main.json\ntargets: {}\n")
	if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "targets") {
		t.Fatalf("expected unknown field error, got %v", err)
	}

	writeFile(t, path, "name: calc\nentry: main.json\ndependencies:\n  x: {git: u, version: 1}\n")
	if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("expected unknown dependency field error, got %v", err)
	}
}

func TestLoadManifestAggregatesIssues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	writeFile(t, path, `
log_level: loud
dependencies:
  both: {git: https://example.com/x.git, path: ../x}
  refs: {git: https://example.com/y.git, tag: v1, branch: main}
  bare: {rev: abc}
`)
	_, err := LoadManifest(path)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{
		`log_level "loud"`,
		"name must be provided",
		"entry or units must be provided",
		"dependencies.both: git and path are mutually exclusive",
		"dependencies.refs: only one of rev, tag, or branch may be set",
		"dependencies.bare: one of git or path must be provided",
		"dependencies.bare: rev, tag, and branch require git",
	}
	if len(validation.Issues) != len(want) {
		t.Fatalf("expected %d issues, got %v", len(want), validation.Issues)
	}
	for _, fragment := range want {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected issue %q in %v", fragment, validation.Issues)
		}
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, "")
	if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestFindManifestWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "name: calc\nentry: main.json\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if path != filepath.Join(root, ManifestName) {
		t.Fatalf("unexpected manifest path %s", path)
	}
}

func TestFindManifestNotFound(t *testing.T) {
	// Assumes no eagle.yml exists above the temp directory.
	if _, err := FindManifest(t.TempDir()); !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}

func TestSanitizeSegment(t *testing.T) {
	cases := map[string]string{
		"strings":   "strings",
		"a/b":       "a_b",
		"..":        "_",
		" my lib ":  "my_lib",
		"v1.2-beta": "v1.2-beta",
	}
	for input, want := range cases {
		if got := sanitizeSegment(input); got != want {
			t.Fatalf("sanitizeSegment(%q) = %q, want %q", input, got, want)
		}
	}
}
