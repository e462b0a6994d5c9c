package diagfmt

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"xts/internal/diag"
	"xts/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("fn main() {\n\tlet x = \"unterminated\n}")
	fileID := fs.AddVirtual("test.xts", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 21, End: 36},
		"unterminated string literal",
	))

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, IncludeFixes: true})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, buf.String())
	}

	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %+v", output)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" {
		t.Errorf("severity = %s, want ERROR", d.Severity)
	}
	if d.Code != "LEX1002" {
		t.Errorf("code = %s, want LEX1002", d.Code)
	}
	if d.Message != "unterminated string literal" {
		t.Errorf("message = %q", d.Message)
	}

	want := LocationJSON{
		File:      "test.xts",
		StartByte: 21,
		EndByte:   36,
		StartLine: 2,
		StartCol:  10,
		EndLine:   3,
		EndCol:    2,
	}
	if d.Location != want {
		t.Errorf("location = %+v, want %+v", d.Location, want)
	}
}

// TestJSONWithNotesAndFixes проверяет JSON с заметками и исправлениями
func TestJSONWithNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.xts", []byte("let s = 'abc"))

	d := diag.NewError(diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 8, End: 12}, "unterminated string literal")
	d = d.WithNote(source.Span{File: fileID, Start: 8, End: 9}, "string starts here")
	d = d.WithFix("insert closing quote", diag.FixEdit{
		Span:    source.Span{File: fileID, Start: 12, End: 12},
		NewText: "'",
	})

	bag := diag.NewBag(10)
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	got := output.Diagnostics[0]
	if len(got.Notes) != 1 || got.Notes[0].Message != "string starts here" {
		t.Fatalf("unexpected notes: %+v", got.Notes)
	}
	if got.Notes[0].Location.StartCol != 9 {
		t.Errorf("note column = %d, want 9", got.Notes[0].Location.StartCol)
	}

	if len(got.Fixes) != 1 || got.Fixes[0].Title != "insert closing quote" {
		t.Fatalf("unexpected fixes: %+v", got.Fixes)
	}
	edits := got.Fixes[0].Edits
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	if edits[0].NewText != "'" || edits[0].Location.StartByte != 12 || edits[0].Location.EndByte != 12 {
		t.Errorf("unexpected edit: %+v", edits[0])
	}
	if !reflect.DeepEqual(edits[0].BeforeLines, []string{"let s = 'abc"}) {
		t.Errorf("before lines = %q", edits[0].BeforeLines)
	}
	if !reflect.DeepEqual(edits[0].AfterLines, []string{"let s = 'abc'"}) {
		t.Errorf("after lines = %q", edits[0].AfterLines)
	}
}

// TestJSONWithoutPositions проверяет JSON без позиций строк/колонок
func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.xts", []byte("let x = $"))

	d := diag.NewError(diag.LexUnknownChar, source.Span{File: fileID, Start: 8, End: 9}, "unknown character '$'")
	d = d.WithNote(source.Span{File: fileID, Start: 8, End: 9}, "here")

	bag := diag.NewBag(10)
	bag.Add(d)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	first := raw["diagnostics"].([]any)[0].(map[string]any)
	loc := first["location"].(map[string]any)
	for _, key := range []string{"start_line", "start_col", "end_line", "end_col"} {
		if _, ok := loc[key]; ok {
			t.Errorf("location has %s without IncludePositions", key)
		}
	}
	if _, ok := first["notes"]; ok {
		t.Errorf("notes present without IncludeNotes")
	}
	if _, ok := raw["dropped"]; ok {
		t.Errorf("dropped present with nothing dropped")
	}
}

func TestJSONMaxAndDropped(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("many.xts", []byte("$ $ $ $"))

	bag := diag.NewBag(3)
	for i := range uint32(4) {
		bag.Add(diag.NewError(diag.LexUnknownChar,
			source.Span{File: fileID, Start: 2 * i, End: 2*i + 1}, "unknown character '$'"))
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d, want 2", out.Count)
	}
	// один отброшен лимитом Bag, один обрезан Max
	if out.Dropped != 2 {
		t.Errorf("dropped = %d, want 2", out.Dropped)
	}
	if out.Diagnostics[1].Location.StartByte != 2 {
		t.Errorf("second diagnostic starts at %d", out.Diagnostics[1].Location.StartByte)
	}
}

func TestBuildFixEditPreviewMultiline(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("m.xts", []byte("let a = 1\nlet b = 'x\nlet c = 3\n"))

	// вставка кавычки перед переводом второй строки
	edit := diag.FixEdit{Span: source.Span{File: fileID, Start: 20, End: 20}, NewText: "'"}
	preview, err := buildFixEditPreview(fs, edit)
	if err != nil {
		t.Fatalf("buildFixEditPreview: %v", err)
	}
	if !reflect.DeepEqual(preview.before, []string{"let b = 'x"}) {
		t.Errorf("before = %q", preview.before)
	}
	if !reflect.DeepEqual(preview.after, []string{"let b = 'x'"}) {
		t.Errorf("after = %q", preview.after)
	}

	if _, err := buildFixEditPreview(fs, diag.FixEdit{Span: source.Span{File: 9}}); err == nil {
		t.Error("expected error for unknown file")
	}
	if _, err := buildFixEditPreview(nil, edit); err == nil {
		t.Error("expected error for nil FileSet")
	}
}
