// internal/config/config.go
//
// This package handles the user configuration: which directories are searched
// for projects and how a chosen project is opened in tmux.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/dex/internal/session"
)

const (
	// AppDir is the directory created under the user config directory.
	AppDir = "dex"

	FileName       = "config.yaml"
	LegacyFileName = "config.toml"

	// SearchPathsEnv overrides search_paths with an OS path list.
	SearchPathsEnv = "DEX_SEARCH_PATHS"
)

const configHeader = `# dex configuration
# search_paths entries may start with ~ and are searched for .dexproject files.
`

// Env carries the process environment the loader needs. cmd/dex fills it once
// so nothing below reads the environment directly.
type Env struct {
	HomeDir   string
	ConfigDir string
	// ConfigPath, when set, replaces ConfigDir/dex/config.yaml.
	ConfigPath          string
	SearchPathsOverride string
}

// EnvFromOS reads the home and config directories plus DEX_SEARCH_PATHS.
func EnvFromOS() (Env, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Env{}, fmt.Errorf("config: home directory: %w", err)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(home, ".config")
	}
	return Env{
		HomeDir:             home,
		ConfigDir:           configDir,
		SearchPathsOverride: os.Getenv(SearchPathsEnv),
	}, nil
}

// Path returns the YAML config location for env.
func (e Env) Path() string {
	if p := strings.TrimSpace(e.ConfigPath); p != "" {
		return expandHome(e.HomeDir, p)
	}
	if e.ConfigDir == "" {
		return ""
	}
	return filepath.Join(e.ConfigDir, AppDir, FileName)
}

// Config models config.yaml.
type Config struct {
	SearchPaths       []string `yaml:"search_paths"`
	Editor            string   `yaml:"editor"`
	PaneSize          string   `yaml:"pane_size"`
	CloseOriginWindow bool     `yaml:"close_origin_window"`

	path string
	home string
}

type legacyConfig struct {
	SearchPaths []string `toml:"search_paths"`
}

// Default returns the configuration used when no file exists: ~/Documents if
// it is a directory, otherwise the home directory itself.
func Default(env Env) *Config {
	search := env.HomeDir
	docs := filepath.Join(env.HomeDir, "Documents")
	if info, err := os.Stat(docs); err == nil && info.IsDir() {
		search = docs
	}
	return &Config{
		SearchPaths:       []string{search},
		Editor:            session.DefaultEditor,
		PaneSize:          session.DefaultPaneSize,
		CloseOriginWindow: true,
		path:              env.Path(),
		home:              env.HomeDir,
	}
}

// Load reads the configuration for env. A missing YAML file falls back to the
// legacy config.toml next to it; when neither exists the defaults are written.
// DEX_SEARCH_PATHS is applied last and never persisted.
func Load(env Env) (*Config, error) {
	if strings.TrimSpace(env.HomeDir) == "" {
		return nil, fmt.Errorf("config: home directory is required")
	}
	cfg := Default(env)
	if cfg.path == "" {
		return nil, fmt.Errorf("config: no config directory")
	}

	found, err := cfg.readYAML()
	if err != nil {
		return nil, err
	}
	if !found {
		found, err = cfg.readLegacy()
		if err != nil {
			return nil, err
		}
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", cfg.path, err)
	}
	if !found {
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if override := splitPathList(env.SearchPathsOverride); len(override) > 0 {
		cfg.SearchPaths = override
		cfg.normalize()
	}
	return cfg, nil
}

// Path returns where the configuration is loaded from and saved to.
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration as YAML, creating the directory as needed.
func (c *Config) Save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	if c.path == "" {
		return fmt.Errorf("config: no config path")
	}
	c.normalize()
	if err := c.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("config: ensure config dir: %w", err)
	}
	data = append([]byte(configHeader), data...)
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", c.path, err)
	}
	return nil
}

// EditorArgs splits the editor command the way a shell would.
func (c *Config) EditorArgs() ([]string, error) {
	return shlex.Split(c.Editor)
}

func (c *Config) readYAML() (bool, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("config: read %s: %w", c.path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return false, fmt.Errorf("config: parse %s: %w", c.path, err)
	}
	return true, nil
}

func (c *Config) readLegacy() (bool, error) {
	path := filepath.Join(filepath.Dir(c.path), LegacyFileName)
	var legacy legacyConfig
	if _, err := toml.DecodeFile(path, &legacy); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if len(legacy.SearchPaths) > 0 {
		c.SearchPaths = legacy.SearchPaths
	}
	return true, nil
}

func (c *Config) normalize() {
	seen := make(map[string]struct{}, len(c.SearchPaths))
	paths := make([]string, 0, len(c.SearchPaths))
	for _, p := range c.SearchPaths {
		resolved := resolvePath(c.home, p)
		if resolved == "" {
			continue
		}
		if _, ok := seen[resolved]; ok {
			continue
		}
		seen[resolved] = struct{}{}
		paths = append(paths, resolved)
	}
	c.SearchPaths = paths
	c.Editor = strings.TrimSpace(c.Editor)
	if c.Editor == "" {
		c.Editor = session.DefaultEditor
	}
	c.PaneSize = strings.TrimSpace(c.PaneSize)
	if c.PaneSize == "" {
		c.PaneSize = session.DefaultPaneSize
	}
}

func (c *Config) validate() error {
	if len(c.SearchPaths) == 0 {
		return fmt.Errorf("search_paths must not be empty")
	}
	args, err := c.EditorArgs()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if len(args) == 0 {
		return fmt.Errorf("editor is required")
	}
	if err := validatePaneSize(c.PaneSize); err != nil {
		return fmt.Errorf("pane_size: %w", err)
	}
	return nil
}

// validatePaneSize accepts a line count ("12") or a percentage ("10%").
func validatePaneSize(value string) error {
	number, percent := strings.CutSuffix(value, "%")
	n, err := strconv.Atoi(number)
	if err != nil {
		return fmt.Errorf("%q is not a line count or percentage", value)
	}
	if n <= 0 {
		return fmt.Errorf("%q must be positive", value)
	}
	if percent && n >= 100 {
		return fmt.Errorf("%q must be below 100%%", value)
	}
	return nil
}

func splitPathList(value string) []string {
	var out []string
	for _, p := range filepath.SplitList(value) {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func expandHome(home, p string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}

func resolvePath(home, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	trimmed = expandHome(home, trimmed)
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(home, trimmed))
}
