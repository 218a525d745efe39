package version

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"0.1.7", "0.1.7"},
		{"v0.1.7", "0.1.7"},
		{" v1.2.3 ", "1.2.3"},
		{"version", "version"}, // leading v without digit stays
		{"v", "v"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRewriteSpec(t *testing.T) {
	tests := []struct{ spec, want string }{
		{"0.1.6", "0.1.7"},
		{"^0.1.6", "^0.1.7"},
		{"~0.1.6", "~0.1.7"},
		{"^0.1.6-beta.1", "^0.1.7-beta.1"},
		{"^0.2.0", "^0.2.0"}, // different version untouched
		{"*", "*"},
	}

	for _, tt := range tests {
		if got := rewriteSpec(tt.spec, "0.1.6", "0.1.7"); got != tt.want {
			t.Errorf("rewriteSpec(%q) = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "package.json"), `{
  "name": "memory",
  "version": "0.1.6",
  "private": true
}
`)
	writeFile(t, filepath.Join(root, "packages", "core", "package.json"), `{
  "name": "@memory/core",
  "version": "0.1.6"
}
`)
	writeFile(t, filepath.Join(root, "packages", "cli", "package.json"), `{
  "name": "@memory/cli",
  "version": "0.1.6",
  "dependencies": {
    "@memory/core": "^0.1.6",
    "chalk": "^5.3.0"
  },
  "optionalDependencies": {
    "@memory/core-linux-x64": "0.1.6"
  }
}
`)
	writeFile(t, filepath.Join(root, "packages", "core-linux-x64", "package.json"), `{
  "name": "@memory/core-linux-x64",
  "version": "0.1.6"
}
`)

	return root
}

func TestSync(t *testing.T) {
	root := setupWorkspace(t)

	res, err := Sync(root, "v0.1.7", false)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if res.OldVersion != "0.1.6" || res.NewVersion != "0.1.7" {
		t.Errorf("versions = %s -> %s, want 0.1.6 -> 0.1.7", res.OldVersion, res.NewVersion)
	}
	if len(res.Changed) != 4 {
		t.Errorf("changed %d files, want 4: %v", len(res.Changed), res.Changed)
	}

	cli, err := os.ReadFile(filepath.Join(root, "packages", "cli", "package.json"))
	if err != nil {
		t.Fatalf("read cli manifest: %v", err)
	}
	text := string(cli)

	if !strings.Contains(text, `"version": "0.1.7"`) {
		t.Error("cli version not updated")
	}
	if !strings.Contains(text, `"@memory/core": "^0.1.7"`) {
		t.Error("internal caret dep not rewritten")
	}
	if !strings.Contains(text, `"@memory/core-linux-x64": "0.1.7"`) {
		t.Error("internal exact dep not rewritten")
	}
	// External deps stay untouched.
	if !strings.Contains(text, `"chalk": "^5.3.0"`) {
		t.Error("external dep was modified")
	}
}

func TestSync_DryRun(t *testing.T) {
	root := setupWorkspace(t)

	res, err := Sync(root, "0.1.7", true)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if len(res.Changed) != 4 {
		t.Errorf("changed %d files, want 4", len(res.Changed))
	}

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		t.Fatalf("read root manifest: %v", err)
	}
	if !strings.Contains(string(data), `"version": "0.1.6"`) {
		t.Error("dry run wrote to disk")
	}
}

func TestSync_SameVersionChangesNothing(t *testing.T) {
	root := setupWorkspace(t)

	res, err := Sync(root, "0.1.6", false)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if len(res.Changed) != 0 {
		t.Errorf("expected no changes, got %v", res.Changed)
	}
}

func TestSync_MissingRootManifest(t *testing.T) {
	if _, err := Sync(t.TempDir(), "1.0.0", false); err == nil {
		t.Fatal("expected error for missing root package.json")
	}
}
