package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"xts/internal/diag"
	"xts/internal/diagfmt"
	"xts/internal/driver"
	"xts/internal/source"
	"xts/internal/version"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.xts|directory|->",
	Short: "Report lexical diagnostics for xts sources",
	Long: `Run the lexer over an xts source file, every matching file within a
directory, or stdin ("-") and report its diagnostics. Exits with status 1
when any error is reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiagnose,
}

// init registers CLI flags for the diag command used by runDiagnose.
func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	diagCmd.Flags().StringSlice("ext", nil, "file extensions to check in directories (default .xts)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "preview suggested fixes (implies --suggest)")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagCmd.Flags().Bool("cache", false, "use the on-disk token cache")
	diagCmd.Flags().String("cache-dir", "", "token cache directory (implies --cache)")
}

type diagFlags struct {
	format           string
	perFile          bool // directory target: one json document per path
	noWarnings       bool
	warningsAsErrors bool
	withNotes        bool
	suggest          bool
	preview          bool
	fullPath         bool
}

// readDiagFlags reads the diag flags. An unset --format falls back to
// [output] format from xts.toml when diag can render it.
func readDiagFlags(cmd *cobra.Command, s *settings) (diagFlags, error) {
	var f diagFlags
	var err error
	flags := cmd.Flags()
	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	if !flags.Changed("format") && isDiagFormat(s.Format) {
		f.format = s.Format
	}
	if f.noWarnings, err = flags.GetBool("no-warnings"); err != nil {
		return f, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if f.warningsAsErrors, err = flags.GetBool("warnings-as-errors"); err != nil {
		return f, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if f.noWarnings && f.warningsAsErrors {
		return f, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if f.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.suggest, err = flags.GetBool("suggest"); err != nil {
		return f, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if f.preview, err = flags.GetBool("preview"); err != nil {
		return f, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if f.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if !isDiagFormat(f.format) {
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	return f, nil
}

func isDiagFormat(format string) bool {
	switch format {
	case "pretty", "json", "sarif", "short":
		return true
	}
	return false
}

// fileDiagnostics is the outcome for one input of diag.
type fileDiagnostics struct {
	path string
	bag  *diag.Bag
}

// runDiagnose lexes the target, renders its diagnostics in the chosen format
// and returns errDiagnostics when an error remains after filtering.
func runDiagnose(cmd *cobra.Command, args []string) error {
	target := args[0]

	s, err := resolveSettings(cmd, startDirFor(target))
	if err != nil {
		return err
	}
	flags, err := readDiagFlags(cmd, s)
	if err != nil {
		return err
	}
	opts, err := driverOptions(s)
	if err != nil {
		return err
	}

	fs, files, isDir, err := collectDiagnostics(cmd, target, opts)
	if err != nil {
		return err
	}
	flags.perFile = isDir

	hasErrors := false
	for i := range files {
		files[i].bag = filterSeverity(files[i].bag, flags)
		if files[i].bag.HasErrors() {
			hasErrors = true
		}
	}

	if err := renderDiagnostics(cmd.OutOrStdout(), fs, files, flags, s); err != nil {
		return err
	}
	if flags.format == "pretty" && !s.Quiet && !hasErrors {
		total := 0
		for _, f := range files {
			total += f.bag.Len()
		}
		if total == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "no issues found in %d file(s)\n", len(files))
		}
	}
	printTimings(cmd.ErrOrStderr(), opts.Timer, flags.format)

	if hasErrors {
		return errDiagnostics
	}
	return nil
}

// collectDiagnostics lexes target. isDir reports a directory target, which
// renders per path even when it holds a single file.
func collectDiagnostics(cmd *cobra.Command, target string, opts driver.Options) (*source.FileSet, []fileDiagnostics, bool, error) {
	if target == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, nil, false, fmt.Errorf("failed to read stdin: %w", err)
		}
		result := driver.TokenizeSource(cmd.Context(), "<stdin>", content, opts)
		return result.FileSet, []fileDiagnostics{{path: "<stdin>", bag: result.Bag}}, false, nil
	}

	st, err := os.Stat(target)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to stat %s: %w", target, err)
	}
	if !st.IsDir() {
		result, err := driver.Tokenize(cmd.Context(), target, opts)
		if err != nil {
			return nil, nil, false, fmt.Errorf("diagnosis failed: %w", err)
		}
		return result.FileSet, []fileDiagnostics{{path: target, bag: result.Bag}}, false, nil
	}

	result, err := driver.TokenizeDir(cmd.Context(), target, opts)
	if err != nil {
		return nil, nil, true, fmt.Errorf("diagnosis failed: %w", err)
	}
	files := make([]fileDiagnostics, 0, len(result.Files))
	for i := range result.Files {
		files = append(files, fileDiagnostics{path: result.Files[i].Path, bag: result.Files[i].Bag})
	}
	return result.FileSet, files, true, nil
}

// filterSeverity applies --no-warnings and --warnings-as-errors.
func filterSeverity(bag *diag.Bag, flags diagFlags) *diag.Bag {
	if !flags.noWarnings && !flags.warningsAsErrors {
		return bag
	}
	out := diag.NewBag(0)
	for _, d := range bag.Items() {
		switch {
		case flags.noWarnings && d.Severity == diag.SevWarning:
			continue
		case flags.warningsAsErrors && d.Severity == diag.SevWarning:
			d.Severity = diag.SevError
		}
		out.Add(d)
	}
	return out
}

func renderDiagnostics(w io.Writer, fs *source.FileSet, files []fileDiagnostics, flags diagFlags, s *settings) error {
	pathMode := diagfmt.PathModeAuto
	if flags.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	showFixes := flags.suggest || flags.preview

	merged := diag.NewBag(0)
	for _, f := range files {
		merged.Merge(f.bag)
	}
	merged.Sort()
	merged.Dedup()

	switch flags.format {
	case "pretty":
		diagfmt.Pretty(w, merged, fs, diagfmt.PrettyOpts{
			Color:       s.useColor(w),
			Context:     2,
			PathMode:    pathMode,
			ShowNotes:   flags.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: flags.preview,
		})
		return nil
	case "short":
		if output := diag.FormatShort(merged.Items(), fs, flags.withNotes); output != "" {
			fmt.Fprintln(w, output)
		}
		return nil
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     flags.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  flags.preview,
		}
		if !flags.perFile {
			if err := diagfmt.JSON(w, files[0].bag, fs, jsonOpts); err != nil {
				return fmt.Errorf("failed to format diagnostics: %w", err)
			}
			return nil
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(files))
		for _, f := range files {
			output[f.path] = diagfmt.BuildDiagnosticsOutput(f.bag, fs, jsonOpts)
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
		return nil
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "xts",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		}
		if err := diagfmt.Sarif(w, merged, fs, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", flags.format)
	}
}
