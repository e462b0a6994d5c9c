package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"xts/internal/diag"
	"xts/internal/diagfmt"
	"xts/internal/driver"
	"xts/internal/observ"
	"xts/internal/source"
	"xts/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.xts|directory|->",
	Short: "Tokenize xts source files",
	Long: `Tokenize breaks an xts source file into its tokens. A directory is
tokenized file by file in parallel; "-" reads the source from stdin.
Lexical diagnostics are printed to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	tokenizeCmd.Flags().Int("jobs", 0, "max parallel workers for directories (0=auto)")
	tokenizeCmd.Flags().StringSlice("ext", nil, "file extensions to tokenize in directories (default .xts)")
	tokenizeCmd.Flags().Bool("cache", false, "use the on-disk token cache")
	tokenizeCmd.Flags().String("cache-dir", "", "token cache directory (implies --cache)")
	tokenizeCmd.Flags().String("ui", "auto", "progress view for directories (auto|on|off)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	target := args[0]

	s, err := resolveSettings(cmd, startDirFor(target))
	if err != nil {
		return err
	}

	format := s.Format
	if cmd.Flags().Changed("format") {
		if format, err = cmd.Flags().GetString("format"); err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	switch format {
	case "pretty", "json", "msgpack":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	opts, err := driverOptions(s)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	colorOut := format == "pretty" && s.useColor(out)

	if target == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		result := driver.TokenizeSource(cmd.Context(), "<stdin>", content, opts)
		printDiagnostics(errOut, result.Bag, result.FileSet, s)
		if err := writeTokens(out, format, result.Tokens, result.FileSet, colorOut); err != nil {
			return err
		}
		printTimings(errOut, opts.Timer, format)
		return nil
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}

	if !st.IsDir() {
		result, err := driver.Tokenize(cmd.Context(), target, opts)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
		printDiagnostics(errOut, result.Bag, result.FileSet, s)
		if err := writeTokens(out, format, result.Tokens, result.FileSet, colorOut); err != nil {
			return err
		}
		printTimings(errOut, opts.Timer, format)
		return nil
	}

	result, err := tokenizeDir(cmd, target, opts, mode, s)
	if err != nil && result == nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	printDiagnostics(errOut, result.Diagnostics(), result.FileSet, s)
	for i := range result.Files {
		fr := &result.Files[i]
		if fr.Failed {
			continue
		}
		if format == "pretty" {
			fmt.Fprintf(out, "==> %s <==\n", displayPath(target, fr.Path))
		}
		if err := writeTokens(out, format, fr.Tokens, result.FileSet, colorOut); err != nil {
			return err
		}
	}
	if !s.Quiet {
		printDirSummary(errOut, result)
	}
	printTimings(errOut, opts.Timer, format)
	return err
}

// tokenizeDir runs TokenizeDir with the progress view when it applies.
func tokenizeDir(cmd *cobra.Command, dir string, opts driver.Options, mode uiMode, s *settings) (*driver.DirResult, error) {
	if !shouldUseTUI(mode, s.Quiet) {
		return driver.TokenizeDir(cmd.Context(), dir, opts)
	}
	files, err := driver.ListFiles(dir, opts.Extensions)
	if err != nil {
		return nil, err
	}
	return runDirWithUI(cmd.Context(), "tokenize "+dir, dir, files, opts)
}

func driverOptions(s *settings) (driver.Options, error) {
	opts := driver.Options{
		MaxDiagnostics: s.MaxDiagnostics,
		Jobs:           s.Jobs,
		Extensions:     s.Extensions,
	}
	if s.Timings {
		opts.Timer = observ.NewTimer()
	}
	if s.CacheEnabled {
		cache, err := driver.OpenTokenCache(s.CacheDir)
		if err != nil {
			return opts, fmt.Errorf("failed to open token cache: %w", err)
		}
		opts.Cache = cache
	}
	return opts, nil
}

func writeTokens(w io.Writer, format string, tokens []token.Token, fs *source.FileSet, colorize bool) error {
	var err error
	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(w, tokens, fs)
	case "msgpack":
		err = diagfmt.FormatTokensMsgpack(w, tokens, fs)
	default:
		err = diagfmt.FormatTokensPretty(w, tokens, fs, colorize)
	}
	if err != nil {
		return fmt.Errorf("failed to write tokens: %w", err)
	}
	return nil
}

// printDiagnostics renders warnings and errors in pretty form.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, s *settings) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     s.useColor(w),
		Context:   1,
		ShowNotes: true,
		ShowFixes: true,
	})
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "... %d more diagnostics not shown (--max-diagnostics)\n", dropped)
	}
}

func printDirSummary(w io.Writer, result *driver.DirResult) {
	var tokens, cached, failed int
	for i := range result.Files {
		fr := &result.Files[i]
		tokens += len(fr.Tokens)
		if fr.Cached {
			cached++
		}
		if fr.Failed || fr.Bag.HasErrors() {
			failed++
		}
	}
	fmt.Fprintf(w, "tokenized %d files: %d tokens, %d with errors, %d cached\n",
		len(result.Files), tokens, failed, cached)
}

// startDirFor picks the directory xts.toml discovery starts from.
func startDirFor(target string) string {
	if target == "-" || target == "" {
		return "."
	}
	if st, err := os.Stat(target); err == nil && st.IsDir() {
		return target
	}
	return filepath.Dir(target)
}

// displayPath shortens path relative to the directory argument.
func displayPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}
