package lexer

import (
	"fmt"
	"unicode/utf8"

	"xts/internal/diag"
	"xts/internal/token"
)

// opFamily describes every spelling that starts with one character: the
// one-character kind plus the continuation levels tried greedily after it.
type opFamily struct {
	kind  token.Kind
	chain [][]Step
}

var operators = map[rune]opFamily{
	'+': {token.Plus, [][]Step{{{'=', token.PlusEq}}}},
	'-': {token.Minus, [][]Step{{{'=', token.MinusEq}, {'>', token.Arrow}}}},
	'*': {token.Star, [][]Step{{{'=', token.StarEq}}}},
	'/': {token.Slash, [][]Step{{{'=', token.SlashEq}}}},
	'%': {token.Percent, [][]Step{{{'=', token.PercentEq}}}},
	'=': {token.Eq, [][]Step{{{'=', token.EqEq}}}},
	'!': {token.Bang, [][]Step{{{'=', token.NotEq}}}},
	'<': {token.Lt, [][]Step{{{'=', token.LtEq}}}},
	'>': {token.Gt, [][]Step{{{'=', token.GtEq}}}},
	'&': {token.And, [][]Step{{{'&', token.AndAnd}}}},
	'|': {token.Pipe, [][]Step{{{'|', token.Or}}}},
	':': {token.Colon, [][]Step{{{':', token.DoubleColon}}}},
	'.': {token.Dot, [][]Step{{{'.', token.DoubleDot}}}},

	// одиночные разделители
	'(': {kind: token.OpenParen},
	')': {kind: token.CloseParen},
	'{': {kind: token.OpenBrace},
	'}': {kind: token.CloseBrace},
	'[': {kind: token.OpenBracket},
	']': {kind: token.CloseBracket},
	',': {kind: token.Comma},
	';': {kind: token.Semicolon},
	'@': {kind: token.At},
}

// scanOperator runs the matcher chain for r's family. False means r starts
// no operator and nothing was consumed.
func (lx *Lexer) scanOperator(r rune) (token.Token, bool) {
	fam, ok := operators[r]
	if !ok {
		return token.Token{}, false
	}
	m := NewMatcher(lx.cursor).AndThen(r, fam.kind)
	for _, level := range fam.chain {
		m.OneOf(level...)
	}
	return m.Finalized()
}

// scanUnknown consumes exactly one character as an Invalid token.
func (lx *Lexer) scanUnknown() token.Token {
	start := lx.cursor.Pos()
	r, _ := lx.cursor.Advance()
	sp := lx.cursor.SpanFrom(start)
	text := lx.cursor.TextFrom(start)

	msg := fmt.Sprintf("unknown character %q", r)
	if r == utf8.RuneError && sp.Len() == 1 {
		msg = fmt.Sprintf("invalid UTF-8 byte 0x%02X", text[0])
	}
	lx.errLex(diag.LexUnknownChar, sp, msg).Emit()
	return token.WithText(token.Invalid, text, sp)
}

func quoteLexeme(s string) string {
	const maxShown = 32
	if utf8.RuneCountInString(s) > maxShown {
		s = string([]rune(s)[:maxShown]) + "..."
	}
	return fmt.Sprintf("%q", s)
}
