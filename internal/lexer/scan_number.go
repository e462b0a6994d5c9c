package lexer

import (
	"strings"

	"xts/internal/diag"
	"xts/internal/token"
)

// scanNumber reads [0-9][0-9_]* with an optional fraction. The '.' is taken
// only when a digit follows it, so "12." is Int then Dot and "1..2" is a
// range. Underscores stay in the text.
//
// Malformed literals become a single Invalid token:
//
//	1_     digit run ends with '_'
//	1.2.3  more than one fractional part
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Pos()
	lx.cursor.ConsumeWhile(isDigitOrUnderscore)

	kind := token.Int
	fractions := 0
	for lx.atFraction() {
		lx.cursor.Advance() // '.'
		lx.cursor.ConsumeWhile(isDigitOrUnderscore)
		fractions++
	}
	if fractions > 0 {
		kind = token.Float
	}

	text := lx.cursor.TextFrom(start)
	sp := lx.cursor.SpanFrom(start)

	var problem string
	switch {
	case fractions > 1:
		problem = "number literal has more than one fractional part"
	case strings.HasSuffix(text, "_") || strings.Contains(text, "_."):
		problem = "digit separator '_' must be followed by a digit"
	}
	if problem != "" {
		lx.errLex(diag.LexBadNumber, sp, "malformed number literal "+quoteLexeme(text)+": "+problem).Emit()
		return token.WithText(token.Invalid, text, sp)
	}
	return token.WithText(kind, text, sp)
}

// atFraction reports whether the cursor sits on '.' followed by a digit.
func (lx *Lexer) atFraction() bool {
	r0, r1, ok := lx.cursor.Peek2()
	return ok && r0 == '.' && isDigit(r1)
}
