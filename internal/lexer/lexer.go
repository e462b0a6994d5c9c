package lexer

import (
	"iter"

	"xts/internal/source"
	"xts/internal/token"
)

type state uint8

const (
	scanning state = iota
	exhausted
)

// Lexer is a pull-based tokenizer over one file. The stream ends by
// exhaustion: once Next reports false it keeps reporting false, and no EOF
// token is produced.
type Lexer struct {
	file   *source.File
	cursor *Cursor
	opts   Options
	state  state
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		state:  scanning,
	}
}

// Next skips whitespace and returns the next token.
func (lx *Lexer) Next() (token.Token, bool) {
	if lx.state == exhausted {
		return token.Token{}, false
	}

	lx.cursor.ConsumeWhile(isWhitespace)
	r, ok := lx.cursor.Peek()
	if !ok {
		lx.state = exhausted
		return token.Token{}, false
	}

	switch {
	case isIdentStart(r):
		return lx.scanIdentOrKeyword(), true
	case isDigit(r):
		return lx.scanNumber(), true
	case isQuote(r):
		return lx.scanString(), true
	}
	if tok, ok := lx.scanOperator(r); ok {
		return tok, true
	}
	return lx.scanUnknown(), true
}

// Exhausted reports whether the end of input has been reached.
func (lx *Lexer) Exhausted() bool { return lx.state == exhausted }

// All yields the remaining tokens.
func (lx *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok, ok := lx.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Collect drains the lexer.
func (lx *Lexer) Collect() []token.Token {
	var out []token.Token
	for tok := range lx.All() {
		out = append(out, tok)
	}
	return out
}

// Tokenize is a shorthand for New(file, opts).Collect().
func Tokenize(file *source.File, opts Options) []token.Token {
	return New(file, opts).Collect()
}

// File returns the file being scanned.
func (lx *Lexer) File() *source.File { return lx.file }
