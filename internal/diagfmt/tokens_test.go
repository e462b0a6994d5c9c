package diagfmt

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"xts/internal/lexer"
	"xts/internal/source"
	"xts/internal/token"
)

func lexVirtual(t *testing.T, src string) ([]token.Token, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("tok.xts", []byte(src))
	return lexer.Tokenize(fs.Get(id), lexer.Options{}), fs
}

func TestFormatTokensPretty(t *testing.T) {
	tokens, fs := lexVirtual(t, "let x = 1\nx")

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, tokens, fs, false); err != nil {
		t.Fatalf("FormatTokensPretty: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != len(tokens) {
		t.Fatalf("got %d lines for %d tokens:\n%s", len(lines), len(tokens), buf.String())
	}

	checks := []struct {
		line  int
		parts []string
	}{
		{0, []string{"  1: Let", `"let"`, "at 1:1-1:4"}},
		{1, []string{"  2: Identifier", `"x"`, "at 1:5-1:6"}},
		{3, []string{"  4: Int", `"1"`, "at 1:9-1:10"}},
		{4, []string{"  5: Identifier", "at 2:1-2:2"}},
	}
	for _, c := range checks {
		for _, part := range c.parts {
			if !strings.Contains(lines[c.line], part) {
				t.Errorf("line %d %q lacks %q", c.line, lines[c.line], part)
			}
		}
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("uncolored output contains escapes")
	}

	buf.Reset()
	if err := FormatTokensPretty(&buf, tokens, fs, true); err != nil {
		t.Fatalf("FormatTokensPretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("colored output has no escapes")
	}
}

func TestFormatTokensJSON(t *testing.T) {
	tokens, fs := lexVirtual(t, "x -> 'y'")

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, tokens, fs); err != nil {
		t.Fatalf("FormatTokensJSON: %v", err)
	}

	var out TokensOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	want := TokensOutput{
		File: "tok.xts",
		Tokens: []TokenOutput{
			{Kind: "Identifier", Text: "x", Start: 0, End: 1, Line: 1, Col: 1},
			{Kind: "Arrow", Text: "->", Start: 2, End: 4, Line: 1, Col: 3},
			{Kind: "String", Text: "'y'", Start: 5, End: 8, Line: 1, Col: 6},
		},
		Count: 3,
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("got %+v\nwant %+v", out, want)
	}
}

func TestFormatTokensMsgpack(t *testing.T) {
	tokens, fs := lexVirtual(t, "fn f() { }")

	var buf bytes.Buffer
	if err := FormatTokensMsgpack(&buf, tokens, fs); err != nil {
		t.Fatalf("FormatTokensMsgpack: %v", err)
	}

	var out TokensOutput
	if err := msgpack.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid msgpack: %v", err)
	}
	if !reflect.DeepEqual(out, BuildTokensOutput(tokens, fs)) {
		t.Fatalf("msgpack output differs from BuildTokensOutput: %+v", out)
	}
	if out.Count != 6 || out.Tokens[0].Kind != "Fn" {
		t.Errorf("unexpected tokens: %+v", out.Tokens)
	}
}

func TestBuildTokensOutputWithoutFileSet(t *testing.T) {
	tokens, _ := lexVirtual(t, "a")
	out := BuildTokensOutput(tokens, nil)
	if out.File != "" || out.Tokens[0].Line != 0 || out.Tokens[0].Col != 0 {
		t.Errorf("positions leaked without FileSet: %+v", out)
	}

	empty := BuildTokensOutput(nil, nil)
	if empty.Count != 0 || empty.Tokens == nil {
		t.Errorf("empty output = %+v", empty)
	}
}
