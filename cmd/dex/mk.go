package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/dex/internal/languages"
	"github.com/kingrea/dex/internal/project"
	"github.com/kingrea/dex/internal/tui"
)

var forceOverwrite bool

func init() {
	mkCmd.Flags().BoolVarP(&forceOverwrite, "force", "f", false, "overwrite an existing .dexproject without asking")
}

// mkCmd writes a manifest for the working directory
var mkCmd = &cobra.Command{
	Use:   "mk",
	Short: "Create a .dexproject in the current directory",
	Long: `Create a .dexproject manifest in the current directory.

The form asks for a name (defaults to the directory name) and a language.
Type to filter languages; Enter is accepted once a single language remains
or the field reads UNKNOWN.

Examples:
  # Describe the current directory
  dex mk

  # Replace an existing manifest without the prompt
  dex mk --force`,
	Args: cobra.NoArgs,
	RunE: runMk,
}

func runMk(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	manifestPath := project.ManifestPath(cwd)

	overwrite := forceOverwrite
	if _, err := os.Stat(manifestPath); err == nil && !overwrite {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Project file already exists. Overwrite? (y/n) ")
		if err != nil {
			return err
		}
		if !ok {
			return project.ErrManifestExists
		}
		overwrite = true
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", manifestPath, err)
	}

	form := tui.NewCreateForm(filepath.Base(cwd), languages.Default())
	if _, err := tea.NewProgram(form, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	manifest, ok := form.Result()
	if !ok {
		return nil
	}
	if err := project.WriteManifest(cwd, manifest, overwrite); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", manifestPath)
	return nil
}

// confirm asks a yes/no question on out and reads one line from in.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
