package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiagReportsErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.xts", "let a = $")

	stdout, _, err := execute(t, nil, "diag", path)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	for _, want := range []string{"ERROR LEX1001", "unknown character '$'", "1 | let a = $"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout lacks %q:\n%s", want, stdout)
		}
	}
}

func TestDiagCleanFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.xts", "let a = 1")

	stdout, stderr, err := execute(t, nil, "diag", path)
	if err != nil {
		t.Fatalf("diag: %v", err)
	}
	if stdout != "" {
		t.Errorf("unexpected stdout: %s", stdout)
	}
	if !strings.Contains(stderr, "no issues found in 1 file(s)") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestDiagShortFormat(t *testing.T) {
	stdout, _, err := execute(t, strings.NewReader("x $"), "diag", "--format", "short", "-")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "error LEX1001 ") || !strings.Contains(lines[0], ":1:3 ") {
		t.Errorf("unexpected short output:\n%s", stdout)
	}
}

func TestDiagDirectoryJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.xts", "let a = 1")
	writeFile(t, dir, "b.xts", "'open")

	stdout, _, err := execute(t, nil, "diag", "--format", "json", "--suggest", dir)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	var out map[string]struct {
		Diagnostics []struct {
			Code  string `json:"code"`
			Fixes []struct {
				Title string `json:"title"`
			} `json:"fixes"`
		} `json:"diagnostics"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 files, got %d: %s", len(out), stdout)
	}
	total := 0
	for path, doc := range out {
		total += doc.Count
		if strings.HasSuffix(path, "b.xts") {
			if doc.Count != 1 || doc.Diagnostics[0].Code != "LEX1002" || len(doc.Diagnostics[0].Fixes) != 1 {
				t.Errorf("unexpected diagnostics for %s: %+v", path, doc)
			}
		}
	}
	if total != 1 {
		t.Errorf("expected 1 diagnostic in total, got %d", total)
	}
}

func TestDiagSingleFileDirectoryJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.xts", "'open")

	stdout, _, err := execute(t, nil, "diag", "--format", "json", dir)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	var out map[string]struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("directory output is not keyed by path: %v\n%s", err, stdout)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 file, got %d: %s", len(out), stdout)
	}
	for path, doc := range out {
		if !strings.HasSuffix(path, "a.xts") || doc.Count != 1 {
			t.Errorf("unexpected entry %s: %+v", path, doc)
		}
	}
}

func TestDiagManifestFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "xts.toml", "[output]\nformat = \"json\"\n")
	path := writeFile(t, dir, "a.xts", "'open")

	stdout, _, err := execute(t, nil, "diag", path)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	var doc struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil || doc.Count != 1 {
		t.Fatalf("manifest format ignored: %v\n%s", err, stdout)
	}

	// an explicit flag wins over the manifest
	stdout, _, _ = execute(t, nil, "diag", "--format", "short", path)
	if !strings.HasPrefix(stdout, "error LEX1002 ") {
		t.Errorf("unexpected short output:\n%s", stdout)
	}

	// msgpack is a tokenize format, diag keeps its default
	writeFile(t, dir, "xts.toml", "[output]\nformat = \"msgpack\"\n")
	stdout, _, _ = execute(t, nil, "diag", path)
	if !strings.Contains(stdout, "ERROR LEX1002") {
		t.Errorf("expected pretty output:\n%s", stdout)
	}
}

func TestDiagSarif(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.xts", "1_")

	stdout, _, err := execute(t, nil, "diag", "--format", "sarif", path)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name string `json:"name"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(stdout), &log); err != nil {
		t.Fatalf("invalid sarif: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 || log.Runs[0].Tool.Driver.Name != "xts" {
		t.Fatalf("unexpected sarif header: %+v", log)
	}
	results := log.Runs[0].Results
	if len(results) != 1 || results[0].RuleID != "LEX1004" || results[0].Level != "error" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestDiagFlagErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.xts", "x")
	_, _, err := execute(t, nil, "diag", "--no-warnings", "--warnings-as-errors", path)
	if err == nil || !strings.Contains(err.Error(), "cannot be used together") {
		t.Errorf("expected conflicting flags error, got %v", err)
	}
	if _, _, err := execute(t, nil, "diag", "--format", "xml", path); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestInitWritesManifestOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")

	stdout, _, err := execute(t, nil, "init", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(stdout, "created ") || !strings.Contains(stdout, "xts.toml") {
		t.Errorf("unexpected init output: %s", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, "xts.toml")); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}

	path := writeFile(t, dir, "a.xts", "x")
	if _, _, err := execute(t, nil, "tokenize", path); err != nil {
		t.Errorf("default manifest rejected: %v", err)
	}

	if _, _, err := execute(t, nil, "init", dir); err == nil || !strings.Contains(err.Error(), "remove it") {
		t.Errorf("expected already initialized error, got %v", err)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, nil, "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Tool != "xts" || payload.Version == "" || payload.GitCommit == "" || payload.BuildDate == "" {
		t.Errorf("unexpected payload: %+v", payload)
	}

	stdout, _, err = execute(t, nil, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(stdout, "xts ") {
		t.Errorf("unexpected pretty version: %q", stdout)
	}
	if _, _, err := execute(t, nil, "version", "--format", "yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
