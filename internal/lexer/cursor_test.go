package lexer

import (
	"testing"

	"xts/internal/source"
	"xts/internal/token"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.xts", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	c := NewCursor(createFile("a\nb"))

	want := []struct {
		r    rune
		line uint32
		off  uint32
	}{
		{'a', 0, 1},
		{'\n', 1, 2},
		{'b', 1, 3},
	}
	for i, w := range want {
		if r, ok := c.Peek(); !ok || r != w.r {
			t.Fatalf("step %d: Peek() = %q, %v; want %q", i, r, ok, w.r)
		}
		if r, ok := c.Advance(); !ok || r != w.r {
			t.Fatalf("step %d: Advance() = %q, %v; want %q", i, r, ok, w.r)
		}
		if got := c.Pos(); got != (source.Pos{Line: w.line, Off: w.off}) {
			t.Fatalf("step %d: Pos() = %+v, want line %d off %d", i, got, w.line, w.off)
		}
	}

	if !c.EOF() {
		t.Fatal("expected EOF")
	}
	if _, ok := c.Peek(); ok {
		t.Fatal("Peek at EOF must report false")
	}
	if _, ok := c.Advance(); ok {
		t.Fatal("Advance at EOF must report false")
	}
	if got := c.Pos(); got.Off != 3 || got.Line != 1 {
		t.Fatalf("Advance at EOF moved the cursor: %+v", got)
	}
}

func TestCursorUTF8Offsets(t *testing.T) {
	// α = 2 bytes, 世 = 3 bytes, 😀 = 4 bytes
	c := NewCursor(createFile("α世😀"))
	widths := []uint32{2, 3, 4}
	var off uint32
	for _, w := range widths {
		c.Advance()
		off += w
		if got := c.Pos().Off; got != off {
			t.Fatalf("offset = %d, want %d", got, off)
		}
	}
}

func TestCursorInvalidUTF8(t *testing.T) {
	c := NewCursor(createFile("\xff\xfea"))
	for i := range 2 {
		r, ok := c.Advance()
		if !ok || r != '�' {
			t.Fatalf("byte %d: got %q, %v", i, r, ok)
		}
		if c.Pos().Off != uint32(i+1) {
			t.Fatalf("byte %d: invalid byte must advance by one, off=%d", i, c.Pos().Off)
		}
	}
	if r, _ := c.Advance(); r != 'a' {
		t.Fatalf("got %q after invalid bytes", r)
	}
}

func TestConsumeWhile(t *testing.T) {
	c := NewCursor(createFile("abc123 x"))
	if got := c.ConsumeWhile(isIdentStart); got != "abc" {
		t.Fatalf("ConsumeWhile = %q, want %q", got, "abc")
	}
	// the non-matching char stays
	if r, _ := c.Peek(); r != '1' {
		t.Fatalf("Peek after ConsumeWhile = %q", r)
	}
	if got := c.ConsumeWhile(isIdentStart); got != "" {
		t.Fatalf("ConsumeWhile on mismatch = %q, want empty", got)
	}
	if got := c.ConsumeWhile(isDigit); got != "123" {
		t.Fatalf("ConsumeWhile = %q", got)
	}
	c.ConsumeWhile(isWhitespace)
	if got := c.ConsumeWhile(func(rune) bool { return true }); got != "x" || !c.EOF() {
		t.Fatalf("ConsumeWhile to end = %q, eof=%v", got, c.EOF())
	}
}

func TestPeek2(t *testing.T) {
	c := NewCursor(createFile(".5"))
	r0, r1, ok := c.Peek2()
	if !ok || r0 != '.' || r1 != '5' {
		t.Fatalf("Peek2() = %q %q %v", r0, r1, ok)
	}
	if c.Pos().Off != 0 {
		t.Fatal("Peek2 consumed input")
	}
	c.Advance()
	if _, _, ok := c.Peek2(); ok {
		t.Fatal("Peek2 with one char left must report false")
	}
}

func TestSpanFromTracksLines(t *testing.T) {
	c := NewCursor(createFile("ab\ncd"))
	start := c.Pos()
	for range 4 {
		c.Advance()
	}
	sp := c.SpanFrom(start)
	if sp.Start != 0 || sp.End != 4 || sp.LineStart != 0 || sp.LineEnd != 1 {
		t.Fatalf("SpanFrom = %+v", sp)
	}
	if got := c.TextFrom(start); got != "ab\nc" {
		t.Fatalf("TextFrom = %q", got)
	}

	// "ab\n" ends on line 0 even though the cursor is already on line 1
	c = NewCursor(createFile("ab\ncd"))
	for range 3 {
		c.Advance()
	}
	if sp := c.SpanFrom(start); sp.LineEnd != 0 || c.Pos().Line != 1 {
		t.Fatalf("SpanFrom = %+v at %+v", sp, c.Pos())
	}
	if sp := c.SpanFrom(c.Pos()); sp.LineStart != 1 || sp.LineEnd != 1 {
		t.Fatalf("empty span = %+v", sp)
	}
}

func TestMatcherLongestMatch(t *testing.T) {
	tests := []struct {
		input     string
		first     rune
		firstKind token.Kind
		steps     []Step
		want      token.Kind
		end       uint32
	}{
		{"==", '=', token.Eq, []Step{{'=', token.EqEq}}, token.EqEq, 2},
		{"=a", '=', token.Eq, []Step{{'=', token.EqEq}}, token.Eq, 1},
		{"->", '-', token.Minus, []Step{{'=', token.MinusEq}, {'>', token.Arrow}}, token.Arrow, 2},
		{"-=", '-', token.Minus, []Step{{'=', token.MinusEq}, {'>', token.Arrow}}, token.MinusEq, 2},
		{"-", '-', token.Minus, []Step{{'=', token.MinusEq}, {'>', token.Arrow}}, token.Minus, 1},
	}
	for _, tt := range tests {
		c := NewCursor(createFile(tt.input))
		tok, ok := NewMatcher(c).AndThen(tt.first, tt.firstKind).OneOf(tt.steps...).Finalized()
		if !ok {
			t.Fatalf("%q: no match", tt.input)
		}
		if tok.Kind != tt.want || tok.Span.Start != 0 || tok.Span.End != tt.end {
			t.Fatalf("%q: got %v, want %v ending at %d", tt.input, tok, tt.want, tt.end)
		}
		if c.Pos().Off != tt.end {
			t.Fatalf("%q: cursor at %d, want %d", tt.input, c.Pos().Off, tt.end)
		}
	}
}

func TestMatcherNoMatch(t *testing.T) {
	c := NewCursor(createFile("x"))
	m := NewMatcher(c).AndThen('=', token.Eq).AndThen('=', token.EqEq)
	if _, ok := m.Finalized(); ok {
		t.Fatal("expected no token")
	}
	if c.Pos().Off != 0 {
		t.Fatal("failed matcher consumed input")
	}

	// a failed step disables every later step
	c = NewCursor(createFile("=x="))
	tok, ok := NewMatcher(c).AndThen('=', token.Eq).AndThen('=', token.EqEq).AndThen('x', token.Invalid).Finalized()
	if !ok || tok.Kind != token.Eq || c.Pos().Off != 1 {
		t.Fatalf("got %v at %d", tok, c.Pos().Off)
	}
}
