package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"xts/internal/project"
)

// settings is the effective configuration of one invocation: defaults,
// then xts.toml, then explicitly set flags.
type settings struct {
	Manifest       *project.Manifest // nil without xts.toml
	MaxDiagnostics int
	Jobs           int
	Extensions     []string
	Format         string
	Color          string
	CacheEnabled   bool
	CacheDir       string
	Quiet          bool
	Timings        bool
}

// loadProjectManifest finds xts.toml. An explicit --config path wins over
// discovery from startDir.
func loadProjectManifest(cmd *cobra.Command, startDir string) (*project.Manifest, bool, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, false, fmt.Errorf("failed to get config flag: %w", err)
	}
	if explicit == "" {
		return project.Discover(startDir)
	}
	cfg, err := project.Load(explicit)
	if err != nil {
		return nil, true, err
	}
	abs, err := filepath.Abs(explicit)
	if err != nil {
		abs = explicit
	}
	return &project.Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, true, nil
}

// resolveSettings merges the manifest with global and command flags.
// Command flags that the command does not define are skipped.
func resolveSettings(cmd *cobra.Command, startDir string) (*settings, error) {
	manifest, ok, err := loadProjectManifest(cmd, startDir)
	if err != nil {
		return nil, err
	}
	cfg := project.Default()
	if ok {
		cfg = manifest.Config
	}

	s := &settings{
		Manifest:       manifest,
		MaxDiagnostics: cfg.Lexer.MaxDiagnostics,
		Jobs:           cfg.Lexer.Jobs,
		Extensions:     cfg.Lexer.Extensions,
		Format:         cfg.Output.Format,
		Color:          cfg.Output.Color,
		CacheEnabled:   cfg.Cache.Enabled,
		CacheDir:       cfg.Cache.Dir,
	}
	if s.CacheDir != "" && ok && !filepath.IsAbs(s.CacheDir) {
		s.CacheDir = filepath.Join(manifest.Root, s.CacheDir)
	}

	root := cmd.Root().PersistentFlags()
	if s.Quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.Timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if root.Changed("max-diagnostics") || !ok {
		if s.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if root.Changed("color") || !ok {
		if s.Color, err = root.GetString("color"); err != nil {
			return nil, fmt.Errorf("failed to get color flag: %w", err)
		}
	}

	flags := cmd.Flags()
	if f := flags.Lookup("jobs"); f != nil && f.Changed {
		if s.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if f := flags.Lookup("ext"); f != nil && f.Changed {
		exts, err := flags.GetStringSlice("ext")
		if err != nil {
			return nil, fmt.Errorf("failed to get ext flag: %w", err)
		}
		s.Extensions = normalizeExtensions(exts)
	}
	if f := flags.Lookup("cache"); f != nil && f.Changed {
		if s.CacheEnabled, err = flags.GetBool("cache"); err != nil {
			return nil, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if f := flags.Lookup("cache-dir"); f != nil && f.Changed {
		if s.CacheDir, err = flags.GetString("cache-dir"); err != nil {
			return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
		}
		s.CacheEnabled = true
	}

	if _, err := readColorMode(s.Color); err != nil {
		return nil, err
	}
	if s.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("--max-diagnostics must be >= 0, got %d", s.MaxDiagnostics)
	}
	if s.Jobs < 0 {
		return nil, fmt.Errorf("--jobs must be >= 0, got %d", s.Jobs)
	}
	return s, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on", "always":
		return colorOn, nil
	case "off", "never":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// useColor decides whether output written to w gets ANSI colors. In auto
// mode only a terminal qualifies, so buffers and pipes stay plain.
func (s *settings) useColor(w io.Writer) bool {
	mode, _ := readColorMode(s.Color)
	switch mode {
	case colorOn:
		return true
	case colorOff:
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		f, ok := w.(*os.File)
		return ok && isTerminal(f)
	}
}
