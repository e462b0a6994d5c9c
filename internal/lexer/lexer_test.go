package lexer_test

import (
	"strings"
	"testing"

	"xts/internal/diag"
	"xts/internal/lexer"
	"xts/internal/source"
	"xts/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.xts", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

type want struct {
	kind       token.Kind
	text       string
	start, end uint32
}

func expectTokens(t *testing.T, input string, expected []want) []token.Token {
	t.Helper()
	lx, _ := makeTestLexer(input)
	got := lx.Collect()
	if len(got) != len(expected) {
		t.Fatalf("%q: got %d tokens, want %d\n  got: %s", input, len(got), len(expected), token.Join(got, " "))
	}
	for i, w := range expected {
		tok := got[i]
		if tok.Kind != w.kind || tok.Text != w.text || tok.Span.Start != w.start || tok.Span.End != w.end {
			t.Fatalf("%q: token %d = %v, want %v(%q)@[%d,%d)", input, i, tok, w.kind, w.text, w.start, w.end)
		}
	}
	return got
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []want
	}{
		{"eq chain", "===let abc", []want{
			{token.EqEq, "", 0, 2},
			{token.Eq, "", 2, 3},
			{token.Let, "", 3, 6},
			{token.Identifier, "abc", 7, 10},
		}},
		{"float", "12.5", []want{{token.Float, "12.5", 0, 4}}},
		{"int then dot", "12.", []want{
			{token.Int, "12", 0, 2},
			{token.Dot, "", 2, 3},
		}},
		{"and and pipe", "&&|", []want{
			{token.AndAnd, "", 0, 2},
			{token.Pipe, "", 2, 3},
		}},
		{"unterminated string", "'abc", []want{{token.Invalid, "'abc", 0, 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectTokens(t, tt.input, tt.want)
		})
	}
}

func TestScenarioLines(t *testing.T) {
	toks := expectTokens(t, "===let abc", []want{
		{token.EqEq, "", 0, 2},
		{token.Eq, "", 2, 3},
		{token.Let, "", 3, 6},
		{token.Identifier, "abc", 7, 10},
	})
	for _, tok := range toks {
		if tok.Span.LineStart != 0 || tok.Span.LineEnd != 0 {
			t.Fatalf("%v: lines %d..%d, want 0..0", tok, tok.Span.LineStart, tok.Span.LineEnd)
		}
	}
}

func TestMaximalMunch(t *testing.T) {
	tests := []struct {
		input string
		kinds []token.Kind
	}{
		{"+", []token.Kind{token.Plus}},
		{"+=", []token.Kind{token.PlusEq}},
		{"-", []token.Kind{token.Minus}},
		{"-=", []token.Kind{token.MinusEq}},
		{"->", []token.Kind{token.Arrow}},
		{"->=", []token.Kind{token.Arrow, token.Eq}},
		{"*=", []token.Kind{token.StarEq}},
		{"/=", []token.Kind{token.SlashEq}},
		{"%=", []token.Kind{token.PercentEq}},
		{"!", []token.Kind{token.Bang}},
		{"!=", []token.Kind{token.NotEq}},
		{"<=", []token.Kind{token.LtEq}},
		{"<<", []token.Kind{token.Lt, token.Lt}},
		{">=", []token.Kind{token.GtEq}},
		{"&", []token.Kind{token.And}},
		{"&&&", []token.Kind{token.AndAnd, token.And}},
		{"||", []token.Kind{token.Or}},
		{"|||", []token.Kind{token.Or, token.Pipe}},
		{":", []token.Kind{token.Colon}},
		{"::", []token.Kind{token.DoubleColon}},
		{":::", []token.Kind{token.DoubleColon, token.Colon}},
		{"..", []token.Kind{token.DoubleDot}},
		{"...", []token.Kind{token.DoubleDot, token.Dot}},
		{"====", []token.Kind{token.EqEq, token.EqEq}},
		{"@", []token.Kind{token.At}},
		{"_", []token.Kind{token.Underscore}},
		{"( ) { } [ ] , ;", []token.Kind{
			token.OpenParen, token.CloseParen, token.OpenBrace, token.CloseBrace,
			token.OpenBracket, token.CloseBracket, token.Comma, token.Semicolon,
		}},
		{"1..2", []token.Kind{token.Int, token.DoubleDot, token.Int}},
		{"a::b->c", []token.Kind{token.Identifier, token.DoubleColon, token.Identifier, token.Arrow, token.Identifier}},
	}
	for _, tt := range tests {
		lx, bag := makeTestLexer(tt.input)
		got := lx.Collect()
		if len(got) != len(tt.kinds) {
			t.Fatalf("%q: got %s", tt.input, token.Join(got, " "))
		}
		for i, k := range tt.kinds {
			if got[i].Kind != k {
				t.Fatalf("%q: token %d = %v, want %v", tt.input, i, got[i], k)
			}
		}
		if bag.Len() != 0 {
			t.Fatalf("%q: unexpected diagnostics %+v", tt.input, bag.Items())
		}
	}
}

func TestKeywordIdentifierPartition(t *testing.T) {
	keywords := "let mut const fn if else struct loop for while in break continue return true false match impl trait"
	lx, _ := makeTestLexer(keywords)
	toks := lx.Collect()
	if len(toks) != 19 {
		t.Fatalf("got %d tokens, want 19", len(toks))
	}
	for _, tok := range toks {
		if !tok.IsKeyword() || tok.Text != "" {
			t.Fatalf("%v should be a text-less keyword", tok)
		}
	}

	idents := []string{"lets", "Let", "_x", "__", "x_1", "iff", "TRUE", "fn2", "abc_def"}
	for _, id := range idents {
		expectTokens(t, id, []want{{token.Identifier, id, 0, uint32(len(id))}})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  []want
	}{
		{"0", []want{{token.Int, "0", 0, 1}}},
		{"1_000", []want{{token.Int, "1_000", 0, 5}}},
		{"3.14_15", []want{{token.Float, "3.14_15", 0, 7}}},
		{"42abc", []want{{token.Int, "42", 0, 2}, {token.Identifier, "abc", 2, 5}}},
		{"1.x", []want{{token.Int, "1", 0, 1}, {token.Dot, "", 1, 2}, {token.Identifier, "x", 2, 3}}},
		{"1._5", []want{{token.Int, "1", 0, 1}, {token.Dot, "", 1, 2}, {token.Identifier, "_5", 2, 4}}},
	}
	for _, tt := range tests {
		expectTokens(t, tt.input, tt.want)
	}
}

func TestMalformedNumbers(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"1_", "1_"},
		{"1__", "1__"},
		{"12_.5", "12_.5"},
		{"1.2_", "1.2_"},
		{"1.2.3", "1.2.3"},
		{"1.2.3.4", "1.2.3.4"},
	}
	for _, tt := range tests {
		lx, bag := makeTestLexer(tt.input)
		toks := lx.Collect()
		if len(toks) != 1 || toks[0].Kind != token.Invalid || toks[0].Text != tt.text {
			t.Fatalf("%q: got %s", tt.input, token.Join(toks, " "))
		}
		if bag.Len() != 1 || bag.Items()[0].Code != diag.LexBadNumber {
			t.Fatalf("%q: diagnostics %+v", tt.input, bag.Items())
		}
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input string
		want  []want
	}{
		{`"abc"`, []want{{token.String, `"abc"`, 0, 5}}},
		{`'abc'`, []want{{token.String, `'abc'`, 0, 5}}},
		{`""`, []want{{token.String, `""`, 0, 2}}},
		{`"it's"`, []want{{token.String, `"it's"`, 0, 6}}},
		{`'a\'b'`, []want{{token.String, `'a\'b'`, 0, 6}}},
		{`"a\\" x`, []want{{token.String, `"a\\"`, 0, 5}, {token.Identifier, "x", 6, 7}}},
		{"\"a\nb\"", []want{{token.String, "\"a\nb\"", 0, 5}}},
		{`"\"`, []want{{token.Invalid, `"\"`, 0, 3}}},
	}
	for _, tt := range tests {
		expectTokens(t, tt.input, tt.want)
	}
}

func TestUnterminatedStringDiagnostic(t *testing.T) {
	lx, bag := makeTestLexer("x = 'abc\ndef")
	toks := lx.Collect()
	last := toks[len(toks)-1]
	if last.Kind != token.Invalid || last.Span.Start != 4 || last.Span.End != 12 {
		t.Fatalf("got %v", last)
	}
	if last.Span.LineStart != 0 || last.Span.LineEnd != 1 {
		t.Fatalf("lines %d..%d", last.Span.LineStart, last.Span.LineEnd)
	}
	if bag.Len() != 1 {
		t.Fatalf("want one diagnostic, got %+v", bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.LexUnterminatedString || d.Severity != diag.SevError {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 1 {
		t.Fatalf("expected one fix with one edit: %+v", d.Fixes)
	}
	edit := d.Fixes[0].Edits[0]
	if edit.NewText != "'" || edit.Span.Start != 12 || !edit.Span.Empty() {
		t.Fatalf("unexpected fix edit %+v", edit)
	}
}

func TestUnterminatedStringEndingInNewline(t *testing.T) {
	lx, bag := makeTestLexer("'ab\n")
	toks := lx.Collect()
	if len(toks) != 1 || toks[0].Kind != token.Invalid || toks[0].Span.End != 4 {
		t.Fatalf("got %s", token.Join(toks, " "))
	}
	if sp := toks[0].Span; sp.LineStart != 0 || sp.LineEnd != 0 {
		t.Fatalf("lines %d..%d, want 0..0", sp.LineStart, sp.LineEnd)
	}
	if bag.Len() != 1 {
		t.Fatalf("want one diagnostic, got %+v", bag.Items())
	}
	// the closing quote goes after the newline, at the end of input
	edit := bag.Items()[0].Fixes[0].Edits[0]
	if edit.Span.Start != 4 || edit.Span.LineStart != 1 || !edit.Span.Empty() {
		t.Fatalf("unexpected fix edit %+v", edit)
	}
}

func TestUnknownCharacters(t *testing.T) {
	lx, bag := makeTestLexer("a # b $ 世\xff")
	toks := lx.Collect()
	kinds := []token.Kind{
		token.Identifier, token.Invalid, token.Identifier, token.Invalid, token.Invalid, token.Invalid,
	}
	if len(toks) != len(kinds) {
		t.Fatalf("got %s", token.Join(toks, " "))
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d = %v, want %v", i, toks[i], k)
		}
	}
	// one character each, whatever its UTF-8 width
	if w := toks[4]; w.Text != "世" || w.Span.Len() != 3 {
		t.Fatalf("wide char token %v", w)
	}
	if w := toks[5]; w.Span.Len() != 1 {
		t.Fatalf("invalid byte token %v", w)
	}
	if bag.Len() != 4 {
		t.Fatalf("got %d diagnostics, want 4", bag.Len())
	}
	for _, d := range bag.Items() {
		if d.Code != diag.LexUnknownChar {
			t.Fatalf("unexpected code %v", d.Code)
		}
	}
	if msg := bag.Items()[3].Message; !strings.Contains(msg, "0xFF") {
		t.Fatalf("invalid byte message %q", msg)
	}
}

func TestPositionsAcrossLines(t *testing.T) {
	src := "let x =\n  1.5;\n\n\tfn"
	toks := expectTokens(t, src, []want{
		{token.Let, "", 0, 3},
		{token.Identifier, "x", 4, 5},
		{token.Eq, "", 6, 7},
		{token.Float, "1.5", 10, 13},
		{token.Semicolon, "", 13, 14},
		{token.Fn, "", 17, 19},
	})
	lines := []uint32{0, 0, 0, 1, 1, 3}
	for i, tok := range toks {
		if tok.Span.LineStart != lines[i] || tok.Span.LineEnd != lines[i] {
			t.Fatalf("%v: line %d, want %d", tok, tok.Span.LineStart, lines[i])
		}
	}
}

func TestCoverageAndMonotonicity(t *testing.T) {
	inputs := []string{
		"fn main() { let mut x = 1_0.5 + 'a\\'b'; x -> y::z }",
		"  \t\n",
		"",
		"#$%^&*~`?",
		"a\xffb 世界 \"unterminated",
		"1.2.3 1_ 4 ..= |= @@",
	}
	for _, in := range inputs {
		lx, _ := makeTestLexer(in)
		toks := lx.Collect()

		var prev uint32
		covered := make([]bool, len(in))
		for _, tok := range toks {
			if !tok.Span.Valid() || tok.Span.Empty() {
				t.Fatalf("%q: bad span %v", in, tok)
			}
			if tok.Span.Start < prev {
				t.Fatalf("%q: %v starts before previous end %d", in, tok, prev)
			}
			// the gap between tokens is whitespace only
			if gap := in[prev:tok.Span.Start]; strings.TrimSpace(gap) != "" {
				t.Fatalf("%q: non-whitespace gap %q before %v", in, gap, tok)
			}
			for i := tok.Span.Start; i < tok.Span.End; i++ {
				covered[i] = true
			}
			if tok.Text != "" && tok.Text != in[tok.Span.Start:tok.Span.End] {
				t.Fatalf("%q: text %q does not match source", in, tok.Text)
			}
			if tok.Text == "" && tok.Kind.Spelling() != in[tok.Span.Start:tok.Span.End] {
				t.Fatalf("%q: spelling mismatch for %v", in, tok)
			}
			prev = tok.Span.End
		}
		if rest := in[prev:]; strings.TrimSpace(rest) != "" {
			t.Fatalf("%q: trailing input %q not covered", in, rest)
		}
		for i, ok := range covered {
			if !ok && !strings.ContainsRune(" \t\n", rune(in[i])) {
				t.Fatalf("%q: byte %d not covered", in, i)
			}
		}
	}
}

func TestIdempotentExhaustion(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if n := len(lx.Collect()); n != 2 {
		t.Fatalf("got %d tokens", n)
	}
	if !lx.Exhausted() {
		t.Fatal("lexer should be exhausted")
	}
	for range 3 {
		if tok, ok := lx.Next(); ok {
			t.Fatalf("Next after exhaustion returned %v", tok)
		}
	}
	if rest := lx.Collect(); len(rest) != 0 {
		t.Fatalf("Collect after exhaustion returned %d tokens", len(rest))
	}
}

func TestEmptyAndBlankInput(t *testing.T) {
	for _, in := range []string{"", " ", "\n\n", "\t \r\n"} {
		lx, bag := makeTestLexer(in)
		if toks := lx.Collect(); len(toks) != 0 {
			t.Fatalf("%q: got %s", in, token.Join(toks, " "))
		}
		if bag.Len() != 0 {
			t.Fatalf("%q: unexpected diagnostics", in)
		}
	}
}

func TestAllStopsEarly(t *testing.T) {
	lx, _ := makeTestLexer("a b c d")
	var seen []string
	for tok := range lx.All() {
		seen = append(seen, tok.Text)
		if len(seen) == 2 {
			break
		}
	}
	if strings.Join(seen, ",") != "a,b" {
		t.Fatalf("seen %v", seen)
	}
	// the stream resumes where it stopped
	tok, ok := lx.Next()
	if !ok || tok.Text != "c" {
		t.Fatalf("Next after break = %v, %v", tok, ok)
	}
}

func TestNilReporter(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("nil.xts", []byte("# 1_ 'x")))
	toks := lexer.Tokenize(file, lexer.Options{})
	if len(toks) != 3 {
		t.Fatalf("got %s", token.Join(toks, " "))
	}
	for _, tok := range toks {
		if tok.Kind != token.Invalid {
			t.Fatalf("got %v", tok)
		}
	}
}
