package lexer

import (
	"xts/internal/token"
)

// scanIdentOrKeyword consumes a maximal [a-zA-Z0-9_] run. Keywords and the
// lone "_" come back as fixed-spelling tokens without text.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Pos()
	text := lx.cursor.ConsumeWhile(isIdentContinue)
	sp := lx.cursor.SpanFrom(start)
	if kw, ok := token.LookupKeyword(text); ok {
		return token.New(kw, sp)
	}
	return token.WithText(token.Identifier, text, sp)
}
