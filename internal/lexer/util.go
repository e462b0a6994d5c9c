package lexer

import "unicode"

func isWhitespace(r rune) bool { return unicode.IsSpace(r) }

// identifiers are ASCII only
func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isDigitOrUnderscore(r rune) bool { return isDigit(r) || r == '_' }

func isQuote(r rune) bool { return r == '"' || r == '\'' }
