package lexer

import (
	"xts/internal/diag"
	"xts/internal/source"
	"xts/internal/token"
)

// scanString reads a '...' or "..." literal. Text keeps the quotes and the
// escapes undecoded; a backslash only protects the next character from
// closing the literal. Newlines are allowed inside.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Pos()
	quote, _ := lx.cursor.Advance()
	for {
		r, ok := lx.cursor.Advance()
		if !ok {
			break
		}
		if r == '\\' {
			if _, ok := lx.cursor.Advance(); !ok {
				break
			}
			continue
		}
		if r == quote {
			return token.WithText(token.String, lx.cursor.TextFrom(start), lx.cursor.SpanFrom(start))
		}
	}

	// EOF без закрывающей кавычки
	sp := lx.cursor.SpanFrom(start)
	end := source.SpanBetween(sp.File, lx.cursor.Pos(), lx.cursor.Pos())
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal").
		WithNote(source.SpanBetween(sp.File, start, source.Pos{Line: start.Line, Off: start.Off + 1}), "string starts here").
		WithFix("insert closing quote", diag.FixEdit{Span: end, NewText: string(quote)}).
		Emit()
	return token.WithText(token.Invalid, lx.cursor.TextFrom(start), sp)
}
