package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testEnv(t *testing.T) Env {
	t.Helper()
	root := t.TempDir()
	home := filepath.Join(root, "home")
	if err := os.MkdirAll(home, 0755); err != nil {
		t.Fatal(err)
	}
	return Env{HomeDir: home, ConfigDir: filepath.Join(root, "config")}
}

func TestLoadWritesDefaultsWhenMissing(t *testing.T) {
	env := testEnv(t)
	cfg, err := Load(env)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff([]string{env.HomeDir}, cfg.SearchPaths); diff != "" {
		t.Fatalf("search paths mismatch (-want +got):\n%s", diff)
	}
	if cfg.Editor != "nvim ." || cfg.PaneSize != "10%" || !cfg.CloseOriginWindow {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	wantPath := filepath.Join(env.ConfigDir, "dex", "config.yaml")
	if cfg.Path() != wantPath {
		t.Fatalf("expected path %s, got %s", wantPath, cfg.Path())
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("defaults were not written: %v", err)
	}
	if !strings.Contains(string(data), "search_paths:") {
		t.Fatalf("written config missing search_paths:\n%s", data)
	}
}

func TestDefaultPrefersDocuments(t *testing.T) {
	env := testEnv(t)
	docs := filepath.Join(env.HomeDir, "Documents")
	if err := os.MkdirAll(docs, 0755); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{docs}, Default(env).SearchPaths); diff != "" {
		t.Fatalf("search paths mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadParsesYaml(t *testing.T) {
	env := testEnv(t)
	configYAML := strings.TrimSpace(`
search_paths:
  - ~/code
  - /srv/projects/
  - code
editor: hx .
pane_size: "15"
close_origin_window: false
`)
	writeFile(t, env.Path(), configYAML)
	cfg, err := Load(env)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := []string{filepath.Join(env.HomeDir, "code"), "/srv/projects"}
	if diff := cmp.Diff(want, cfg.SearchPaths); diff != "" {
		t.Fatalf("search paths mismatch (-want +got):\n%s", diff)
	}
	if cfg.Editor != "hx ." || cfg.PaneSize != "15" || cfg.CloseOriginWindow {
		t.Fatalf("unexpected values: %+v", cfg)
	}
}

func TestLoadKeepsDefaultsForOmittedKeys(t *testing.T) {
	env := testEnv(t)
	writeFile(t, env.Path(), "search_paths: [/srv]\n")
	cfg, err := Load(env)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Editor != "nvim ." || cfg.PaneSize != "10%" || !cfg.CloseOriginWindow {
		t.Fatalf("omitted keys should keep defaults: %+v", cfg)
	}
}

func TestLoadReadsLegacyToml(t *testing.T) {
	env := testEnv(t)
	legacy := filepath.Join(env.ConfigDir, "dex", "config.toml")
	writeFile(t, legacy, `search_paths = ["/opt/work", "/opt/work"]`+"\n")
	cfg, err := Load(env)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"/opt/work"}, cfg.SearchPaths); diff != "" {
		t.Fatalf("search paths mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(env.Path()); !os.IsNotExist(err) {
		t.Fatalf("legacy import must not write config.yaml, stat err = %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	env := testEnv(t)
	env.SearchPathsOverride = strings.Join([]string{"/override-a", "", "~/b"}, string(os.PathListSeparator))
	cfg, err := Load(env)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := []string{"/override-a", filepath.Join(env.HomeDir, "b")}
	if diff := cmp.Diff(want, cfg.SearchPaths); diff != "" {
		t.Fatalf("search paths mismatch (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(env.Path())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "override-a") {
		t.Fatalf("override must not be persisted:\n%s", data)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	env := testEnv(t)
	env.ConfigPath = filepath.Join(env.HomeDir, "custom.yaml")
	writeFile(t, env.ConfigPath, "search_paths: [/x]\n")
	cfg, err := Load(env)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Path() != env.ConfigPath {
		t.Fatalf("expected %s, got %s", env.ConfigPath, cfg.Path())
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty search paths", "search_paths: []\n"},
		{"unterminated editor quote", "search_paths: [/x]\neditor: \"nvim 'oops\"\n"},
		{"bad pane size", "search_paths: [/x]\npane_size: tall\n"},
		{"zero pane size", "search_paths: [/x]\npane_size: \"0\"\n"},
		{"full pane percent", "search_paths: [/x]\npane_size: 100%\n"},
		{"malformed yaml", "search_paths: [/x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testEnv(t)
			writeFile(t, env.Path(), tt.yaml)
			if _, err := Load(env); err == nil {
				t.Fatalf("expected error but got none")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	env := testEnv(t)
	cfg := Default(env)
	cfg.SearchPaths = []string{"/one", "~/two"}
	cfg.Editor = "code -n ."
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := Load(env)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := []string{"/one", filepath.Join(env.HomeDir, "two")}
	if diff := cmp.Diff(want, loaded.SearchPaths); diff != "" {
		t.Fatalf("search paths mismatch (-want +got):\n%s", diff)
	}
	args, err := loaded.EditorArgs()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"code", "-n", "."}, args); diff != "" {
		t.Fatalf("editor args mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRequiresHome(t *testing.T) {
	if _, err := Load(Env{ConfigDir: t.TempDir()}); err == nil {
		t.Fatalf("expected error without a home directory")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
