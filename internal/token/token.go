package token

import (
	"fmt"
	"strings"

	"xts/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind        `msgpack:"k"`
	Text string      `msgpack:"t,omitempty"`
	Span source.Span `msgpack:"s"`
}

// New creates a token of a fixed-spelling kind.
func New(kind Kind, span source.Span) Token {
	return Token{Kind: kind, Span: span}
}

// WithText creates a token carrying a payload.
func WithText(kind Kind, text string, span source.Span) Token {
	return Token{Kind: kind, Text: text, Span: span}
}

// Lexeme returns the source spelling of the token: Text when present,
// otherwise the fixed spelling of its kind.
func (t Token) Lexeme() string {
	if t.Text != "" {
		return t.Text
	}
	return t.Kind.Spelling()
}

// StringBody returns the raw contents of a string literal without its
// surrounding quotes. Escapes are left undecoded.
func (t Token) StringBody() (string, bool) {
	if t.Kind != String || len(t.Text) < 2 {
		return "", false
	}
	return t.Text[1 : len(t.Text)-1], true
}

func (t Token) String() string {
	if t.Text != "" {
		return fmt.Sprintf("%s(%q)@[%d,%d)", t.Kind, t.Text, t.Span.Start, t.Span.End)
	}
	return fmt.Sprintf("%s@[%d,%d)", t.Kind, t.Span.Start, t.Span.End)
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Int, Float, String, Boolean:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind <= CloseBracket
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= Let && t.Kind <= Trait
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Identifier }

// IsInvalid reports whether the token marks a rejected span.
func (t Token) IsInvalid() bool { return t.Kind == Invalid }

// Join renders tokens separated by sep, mostly for test failure output.
func Join(tokens []Token, sep string) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.String()
	}
	return strings.Join(parts, sep)
}
