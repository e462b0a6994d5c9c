package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"xts/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create an xts.toml with default settings",
	Long: `Initialize an xts project by writing an xts.toml manifest with the
default lexer, output and cache settings. If [path] is omitted, initializes
the current directory. A missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit resolves the target directory, creates it when missing and writes
// the default manifest. An existing xts.toml is never overwritten.
func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath, err := project.WriteDefault(target)
	if err != nil {
		if errors.Is(err, project.ErrAlreadyInitialized) {
			return fmt.Errorf("%w (remove it to start over)", err)
		}
		return err
	}

	rel := manifestPath
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, manifestPath); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", filepath.ToSlash(rel))
	return nil
}
