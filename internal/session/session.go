// Package session opens a project directory in a tmux window.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrea/dex/internal/logging"
)

// ErrNotInTmux is returned when a launch is attempted outside a tmux client.
var ErrNotInTmux = errors.New("session: not running inside tmux")

const (
	DefaultEditor   = "nvim ."
	DefaultPaneSize = "10%"
)

// Launcher opens an editing session for a project directory.
type Launcher interface {
	Launch(ctx context.Context, directory string) error
}

// Runner executes one tmux sub-command.
type Runner func(ctx context.Context, args ...string) error

// ExecRunner runs the tmux binary found on PATH.
func ExecRunner(ctx context.Context, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "tmux", args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// Tmux opens a new window rooted at the project with the editor in the top
// pane and a shell below it.
type Tmux struct {
	Run        Runner
	InsideTmux bool
	Editor     string
	PaneSize   string
	// CloseOrigin kills the window the picker ran in once the new one exists.
	CloseOrigin bool
	Logger      *zap.Logger
}

// Launch implements Launcher.
func (t *Tmux) Launch(ctx context.Context, directory string) error {
	if !t.InsideTmux {
		return ErrNotInTmux
	}
	if strings.TrimSpace(directory) == "" {
		return fmt.Errorf("session: directory is required")
	}
	run := t.Run
	if run == nil {
		run = ExecRunner
	}
	logger := logging.OrNop(t.Logger)
	editor := strings.TrimSpace(t.Editor)
	if editor == "" {
		editor = DefaultEditor
	}
	paneSize := strings.TrimSpace(t.PaneSize)
	if paneSize == "" {
		paneSize = DefaultPaneSize
	}

	steps := [][]string{
		{"new-window", "-c", directory},
		{"split-window", "-v", "-l", paneSize, "-c", directory},
		{"select-pane", "-U"},
		{"send-keys", editor, "C-m"},
	}
	if t.CloseOrigin {
		steps = append(steps, []string{"last-window"}, []string{"kill-window"})
	}
	for _, args := range steps {
		logger.Debug("tmux", zap.Strings("args", args))
		if err := run(ctx, args...); err != nil {
			return fmt.Errorf("session: tmux %s: %w", args[0], err)
		}
	}
	return nil
}
