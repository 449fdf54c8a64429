// cmd/dex/main.go
//
// Entry point for dex. Running `dex` scans the configured search paths for
// .dexproject manifests, shows the picker, and opens the chosen project in a
// new tmux window. `dex mk` writes a manifest for the current directory.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/dex/internal/config"
	"github.com/kingrea/dex/internal/finder"
	"github.com/kingrea/dex/internal/languages"
	"github.com/kingrea/dex/internal/logging"
	"github.com/kingrea/dex/internal/project"
	"github.com/kingrea/dex/internal/selection"
	"github.com/kingrea/dex/internal/session"
	"github.com/kingrea/dex/internal/tui"
)

var (
	debug      bool
	jsonLogs   bool
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dex: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dex",
	Short: "Find a project and open it in tmux",
	Long: `dex searches the configured directories for .dexproject manifests and
lets you fuzzy-filter the result. Choosing a project opens it in a new tmux
window with the editor in the top pane.

Examples:
  # Browse projects
  dex

  # Print config and search timings
  dex --debug

  # Use another config file
  dex --config ~/dotfiles/dex.yaml`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPicker,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print debug diagnostics and timings")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "log-json", false, "write diagnostics as JSON lines")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dex/config.yaml)")
	rootCmd.AddCommand(mkCmd)
}

func newLogger(w io.Writer) *zap.Logger {
	return logging.New(w, logging.Options{Debug: debug, JSON: jsonLogs})
}

// newLauncher builds the tmux launcher from cfg. Its diagnostics go to logger,
// which must not write to the terminal while the picker owns it.
func newLauncher(cfg *config.Config, insideTmux bool, logger *zap.Logger) *session.Tmux {
	return &session.Tmux{
		InsideTmux:  insideTmux,
		Editor:      cfg.Editor,
		PaneSize:    cfg.PaneSize,
		CloseOrigin: cfg.CloseOriginWindow,
		Logger:      logger,
	}
}

func runPicker(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())
	defer func() { _ = logger.Sync() }()
	ctx := cmd.Context()

	env, err := config.EnvFromOS()
	if err != nil {
		return err
	}
	env.ConfigPath = configPath

	start := time.Now()
	cfg, err := config.Load(env)
	if err != nil {
		return err
	}
	logger.Debug("config loaded", zap.String("path", cfg.Path()), zap.Duration("took", time.Since(start)))

	// Launch diagnostics are held until the alt-screen is gone.
	var launchLog bytes.Buffer
	launcher := newLauncher(cfg, os.Getenv("TMUX") != "", newLogger(&launchLog))
	if !launcher.InsideTmux {
		return session.ErrNotInTmux
	}

	start = time.Now()
	paths := finder.Scan(ctx, cfg.SearchPaths, finder.Options{Logger: logger})
	projects := project.Resolve(ctx, paths, project.ResolveOptions{Logger: logger})
	logger.Debug("project search",
		zap.Int("manifests", len(paths)),
		zap.Int("projects", len(projects)),
		zap.Duration("took", time.Since(start)),
	)

	picker := tui.NewPicker(
		selection.New(projects),
		tui.WithLauncher(launcher),
		tui.WithLanguages(languages.Default()),
		tui.WithHomeDir(env.HomeDir),
		tui.WithContext(ctx),
	)
	program := tea.NewProgram(picker, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()
	_, _ = io.Copy(cmd.ErrOrStderr(), &launchLog)
	if runErr != nil {
		return fmt.Errorf("tui: %w", runErr)
	}
	if err := picker.Err(); err != nil {
		return err
	}
	if rec, ok := picker.Selected(); ok {
		logger.Debug("opened project", zap.String("name", rec.Name), zap.String("dir", rec.Directory))
	}
	return nil
}
