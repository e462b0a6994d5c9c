package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrAlreadyInitialized is returned by WriteDefault when xts.toml exists.
var ErrAlreadyInitialized = errors.New("project already initialized")

// Config mirrors xts.toml.
type Config struct {
	Lexer  LexerConfig  `toml:"lexer"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
}

type LexerConfig struct {
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Extensions     []string `toml:"extensions"`
	Jobs           int      `toml:"jobs"` // 0 = GOMAXPROCS
}

type OutputConfig struct {
	Format string `toml:"format"` // pretty|json|msgpack
	Color  string `toml:"color"`  // auto|on|off
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // "" = $XDG_CACHE_HOME/xts
}

// Manifest is a loaded xts.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the configuration used without a manifest.
func Default() Config {
	return Config{
		Lexer: LexerConfig{
			MaxDiagnostics: 100,
			Extensions:     []string{".xts"},
		},
		Output: OutputConfig{
			Format: "pretty",
			Color:  "auto",
		},
	}
}

// Load decodes path on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	// an explicit empty list means "use the default"
	if meta.IsDefined("lexer", "extensions") && len(cfg.Lexer.Extensions) == 0 {
		cfg.Lexer.Extensions = Default().Lexer.Extensions
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds xts.toml from startDir upwards and loads it.
// ok is false when there is no manifest; the caller should use Default.
func Discover(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := Load(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Lexer.MaxDiagnostics < 0 {
		return fmt.Errorf("[lexer].max_diagnostics must be >= 0, got %d", c.Lexer.MaxDiagnostics)
	}
	if c.Lexer.Jobs < 0 {
		return fmt.Errorf("[lexer].jobs must be >= 0, got %d", c.Lexer.Jobs)
	}
	for _, ext := range c.Lexer.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("[lexer].extensions: %q must look like \".xts\"", ext)
		}
	}
	if !slices.Contains([]string{"pretty", "json", "msgpack"}, c.Output.Format) {
		return fmt.Errorf("[output].format must be pretty|json|msgpack, got %q", c.Output.Format)
	}
	if !slices.Contains([]string{"auto", "on", "off"}, c.Output.Color) {
		return fmt.Errorf("[output].color must be auto|on|off, got %q", c.Output.Color)
	}
	return nil
}

// HasExtension reports whether path matches one of the configured extensions.
func (c Config) HasExtension(path string) bool {
	return slices.Contains(c.Lexer.Extensions, filepath.Ext(path))
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// WriteDefault creates dir/xts.toml with the default configuration.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s exists", ErrAlreadyInitialized, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, Default()); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
